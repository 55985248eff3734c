package main

// Build the Lambda handler binary:
//   GOOS=linux GOARCH=amd64 CGO_ENABLED=0 go build -o bootstrap ./cmd/lambda-worker

import (
	"context"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"clarity-backend/internal/bootstrap"
	"clarity-backend/internal/shared/config"
	"clarity-backend/internal/shared/metrics"
	"clarity-backend/internal/shared/telemetry"
	"clarity-backend/internal/workerproc"
)

var (
	initOnce sync.Once
	initErr  error
	app      *bootstrap.App
)

func initApp() {
	cfg := config.Load()
	cfg.ReportQueueURL = ""
	built, err := bootstrap.Build(cfg)
	if err != nil {
		initErr = err
		return
	}
	app = built
}

func handler(ctx context.Context, event events.SQSEvent) (events.SQSEventResponse, error) {
	initOnce.Do(initApp)
	if initErr != nil {
		telemetry.Error("worker.bootstrap_failed", map[string]any{"error": initErr})
		failures := make([]events.SQSBatchItemFailure, 0, len(event.Records))
		for _, record := range event.Records {
			failures = append(failures, events.SQSBatchItemFailure{ItemIdentifier: record.MessageId})
		}
		return events.SQSEventResponse{BatchItemFailures: failures}, initErr
	}

	failures := make([]events.SQSBatchItemFailure, 0)
	for _, record := range event.Records {
		err := workerproc.HandleMessage(ctx, app.Processor, record.Body)
		switch {
		case err == nil:
			metrics.IncWorkerMessage(metrics.MessageCompleted)
		case workerproc.Unrecoverable(err):
			telemetry.Error("worker.report.unrecoverable", map[string]any{
				"sqs_message_id": record.MessageId,
				"error":          err,
			})
			metrics.IncWorkerMessage(metrics.MessageUnrecoverable)
		default:
			telemetry.Error("worker.report.failed", map[string]any{
				"sqs_message_id": record.MessageId,
				"error":          err,
			})
			metrics.IncWorkerMessage(metrics.MessageFailed)
			failures = append(failures, events.SQSBatchItemFailure{ItemIdentifier: record.MessageId})
		}
	}

	return events.SQSEventResponse{BatchItemFailures: failures}, nil
}

func main() {
	lambda.Start(handler)
}

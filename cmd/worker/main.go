package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"golang.org/x/sync/errgroup"

	"clarity-backend/internal/bootstrap"
	"clarity-backend/internal/shared/config"
	"clarity-backend/internal/shared/metrics"
	"clarity-backend/internal/shared/telemetry"
	"clarity-backend/internal/workerproc"
)

const (
	sqsRegion                 = "us-east-1"
	defaultVisibilitySeconds  = 300
	defaultWorkerConcurrency  = 4
	defaultShutdownTimeoutSec = 30
)

func main() {
	defer telemetry.Sync()
	cfg := config.Load()

	queueURL := cfg.ReportQueueURL
	if queueURL == "" {
		fatal("worker.config_invalid", errors.New("REPORT_QUEUE_URL is required"))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	visibilitySeconds := envInt("WORKER_VISIBILITY_TIMEOUT_SECONDS", defaultVisibilitySeconds)
	concurrency := envInt("WORKER_CONCURRENCY", defaultWorkerConcurrency)
	shutdownTimeout := time.Duration(envInt("WORKER_SHUTDOWN_TIMEOUT_SECONDS", defaultShutdownTimeoutSec)) * time.Second

	region := cfg.AWSRegion
	if region == "" {
		region = sqsRegion
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		fatal("worker.aws_config_failed", err)
	}
	var sqsClient sqsAPI = sqs.NewFromConfig(awsCfg)

	// The worker builds reports itself, so the app must not enqueue again.
	cfg.ReportQueueURL = ""
	app, err := bootstrap.Build(cfg)
	if err != nil {
		fatal("worker.bootstrap_failed", err)
	}

	telemetry.Info("worker.started", map[string]any{
		"queue":              queueURL,
		"concurrency":        concurrency,
		"visibility_seconds": visibilitySeconds,
	})

	var g errgroup.Group
	g.SetLimit(max(1, concurrency))
	poll(ctx, sqsClient, queueURL, int32(visibilitySeconds), func(m sqstypes.Message) {
		g.Go(func() error {
			handleMessage(ctx, sqsClient, queueURL, app.Processor, m)
			return nil
		})
	})

	telemetry.Info("worker.draining", map[string]any{"timeout": shutdownTimeout.String()})
	waitDone := make(chan struct{})
	go func() {
		_ = g.Wait()
		close(waitDone)
	}()
	select {
	case <-waitDone:
	case <-time.After(shutdownTimeout):
		telemetry.Warn("worker.shutdown_timeout", map[string]any{"timeout": shutdownTimeout.String()})
	}
}

type sqsAPI interface {
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

// poll long-polls the queue and hands each message to dispatch until ctx is
// cancelled.
func poll(ctx context.Context, client sqsAPI, queueURL string, visibility int32, dispatch func(sqstypes.Message)) {
	for ctx.Err() == nil {
		resp, err := client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
			QueueUrl:            aws.String(queueURL),
			MaxNumberOfMessages: 10,
			WaitTimeSeconds:     20,
			VisibilityTimeout:   visibility,
			AttributeNames:      []sqstypes.QueueAttributeName{sqstypes.QueueAttributeName("ApproximateReceiveCount")},
		})
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
				return
			}
			telemetry.Error("worker.receive_failed", map[string]any{"error": err})
			continue
		}
		for _, msg := range resp.Messages {
			if ctx.Err() != nil {
				return
			}
			metrics.IncWorkerMessage(metrics.MessageReceived)
			dispatch(msg)
		}
	}
}

func handleMessage(ctx context.Context, client sqsAPI, queueURL string, proc workerproc.Processor, msg sqstypes.Message) {
	body := aws.ToString(msg.Body)
	decoded, meta, err := workerproc.ParseMessage(body)
	if err != nil {
		fields := baseFields(msg, decoded.IntakeID, decoded.RequestID)
		fields["body_len"] = meta.BodyLen
		if meta.BodySHA != "" {
			fields["body_sha256"] = meta.BodySHA
		}
		fields["error"] = err.Error()
		telemetry.Error("worker.report.unrecoverable", fields)
		if deleteMessage(ctx, client, queueURL, msg, decoded.IntakeID, decoded.RequestID) {
			metrics.IncWorkerMessage(metrics.MessageUnrecoverable)
		}
		return
	}

	telemetry.Info("worker.report.received", baseFields(msg, decoded.IntakeID, decoded.RequestID))

	ctx = workerproc.WithParsedMessage(ctx, decoded)
	if err := workerproc.HandleMessage(ctx, proc, body); err != nil {
		fields := baseFields(msg, decoded.IntakeID, decoded.RequestID)
		var procErr workerproc.ErrProcess
		if errors.As(err, &procErr) && procErr.Err != nil {
			fields["error"] = procErr.Err.Error()
		} else {
			fields["error"] = err.Error()
		}
		telemetry.Error("worker.report.failed", fields)
		metrics.IncWorkerMessage(metrics.MessageFailed)
		return
	}

	if deleteMessage(ctx, client, queueURL, msg, decoded.IntakeID, decoded.RequestID) {
		telemetry.Info("worker.report.completed", baseFields(msg, decoded.IntakeID, decoded.RequestID))
		metrics.IncWorkerMessage(metrics.MessageCompleted)
	}
}

func deleteMessage(ctx context.Context, client sqsAPI, queueURL string, msg sqstypes.Message, intakeID, requestID string) bool {
	receipt := aws.ToString(msg.ReceiptHandle)
	if receipt == "" {
		fields := baseFields(msg, intakeID, requestID)
		fields["error"] = "missing receipt handle"
		telemetry.Error("worker.report.delete_failed", fields)
		return false
	}
	if _, err := client.DeleteMessage(telemetry.Detach(ctx), &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(queueURL),
		ReceiptHandle: aws.String(receipt),
	}); err != nil {
		fields := baseFields(msg, intakeID, requestID)
		fields["error"] = err.Error()
		telemetry.Error("worker.report.delete_failed", fields)
		return false
	}
	return true
}

func baseFields(msg sqstypes.Message, intakeID, requestID string) map[string]any {
	fields := map[string]any{
		"intake_id":      intakeID,
		"sqs_message_id": aws.ToString(msg.MessageId),
		"receive_count":  receiveCount(msg),
	}
	if strings.TrimSpace(requestID) != "" {
		fields["request_id"] = requestID
	}
	return fields
}

func receiveCount(msg sqstypes.Message) int {
	if msg.Attributes == nil {
		return 0
	}
	raw := msg.Attributes["ApproximateReceiveCount"]
	if raw == "" {
		return 0
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return parsed
}

func envInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return val
}

func fatal(event string, err error) {
	telemetry.Error(event, map[string]any{"error": err})
	telemetry.Sync()
	os.Exit(1)
}

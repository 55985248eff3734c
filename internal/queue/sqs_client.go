package queue

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

const defaultRegion = "us-east-1"

// Attribute names set on every report job.
const (
	AttrIntakeID  = "IntakeId"
	AttrRequestID = "RequestId"
	AttrVersion   = "MessageVersion"
)

type sendAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// SQSClient sends report jobs to the report queue. On a FIFO queue jobs
// are grouped and deduplicated by intake, so a double submit inside the
// dedup window builds one report.
type SQSClient struct {
	client   sendAPI
	queueURL string
	fifo     bool
}

// NewSQSClient constructs an SQS-backed queue client. An empty region
// falls back to us-east-1.
func NewSQSClient(ctx context.Context, queueURL, region string) (*SQSClient, error) {
	queueURL = strings.TrimSpace(queueURL)
	if queueURL == "" {
		return nil, fmt.Errorf("REPORT_QUEUE_URL is required")
	}
	if strings.TrimSpace(region) == "" {
		region = defaultRegion
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return newSQSClient(sqs.NewFromConfig(cfg), queueURL), nil
}

func newSQSClient(api sendAPI, queueURL string) *SQSClient {
	return &SQSClient{client: api, queueURL: queueURL, fifo: strings.HasSuffix(queueURL, ".fifo")}
}

func (s *SQSClient) Send(ctx context.Context, msg Message) error {
	payload, err := EncodeMessage(msg)
	if err != nil {
		return fmt.Errorf("encode report job: %w", err)
	}

	in := &sqs.SendMessageInput{
		QueueUrl:          aws.String(s.queueURL),
		MessageBody:       aws.String(string(payload)),
		MessageAttributes: attributes(msg),
	}
	if s.fifo {
		in.MessageGroupId = aws.String(msg.IntakeID)
		in.MessageDeduplicationId = aws.String("report-" + msg.IntakeID)
	}
	if _, err := s.client.SendMessage(ctx, in); err != nil {
		return fmt.Errorf("send report job for intake %s: %w", msg.IntakeID, err)
	}
	return nil
}

func attributes(msg Message) map[string]types.MessageAttributeValue {
	attrs := map[string]types.MessageAttributeValue{
		AttrIntakeID: attr("String", msg.IntakeID),
		AttrVersion:  attr("Number", strconv.Itoa(msg.Version)),
	}
	if msg.RequestID != "" {
		attrs[AttrRequestID] = attr("String", msg.RequestID)
	}
	return attrs
}

func attr(dataType, v string) types.MessageAttributeValue {
	return types.MessageAttributeValue{DataType: aws.String(dataType), StringValue: aws.String(v)}
}

var _ Client = (*SQSClient)(nil)

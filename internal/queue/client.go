package queue

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Client sends report jobs to a queue backend.
type Client interface {
	Send(ctx context.Context, msg Message) error
}

var ErrMissingIntakeID = errors.New("report job requires an intake id")

// EnqueueReport stamps a report job for intakeID and hands it to c. It
// returns the message as sent so callers can log what was queued.
func EnqueueReport(ctx context.Context, c Client, intakeID, requestID string, at time.Time) (Message, error) {
	intakeID = strings.TrimSpace(intakeID)
	if intakeID == "" {
		return Message{}, ErrMissingIntakeID
	}
	if c == nil {
		return Message{}, errors.New("report queue not configured")
	}
	msg := NewReportMessage(intakeID, requestID, at)
	if err := c.Send(ctx, msg); err != nil {
		return Message{}, err
	}
	return msg, nil
}

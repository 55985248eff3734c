package queue

import (
	"encoding/json"
	"time"
)

// MessageVersion is the current report job payload version.
const MessageVersion = 1

// Message asks a worker to build the full report for a deep intake.
type Message struct {
	IntakeID   string `json:"intakeId"`
	RequestID  string `json:"requestId"`
	EnqueuedAt string `json:"enqueuedAt"`
	Version    int    `json:"version"`
}

// NewReportMessage stamps a report job for intakeID.
func NewReportMessage(intakeID, requestID string, now time.Time) Message {
	return Message{
		IntakeID:   intakeID,
		RequestID:  requestID,
		EnqueuedAt: now.UTC().Format(time.RFC3339),
		Version:    MessageVersion,
	}
}

// EncodeMessage returns the JSON representation of a message.
func EncodeMessage(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}

// DecodeMessage parses a JSON payload into a Message.
func DecodeMessage(payload []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		return Message{}, err
	}
	return msg, nil
}

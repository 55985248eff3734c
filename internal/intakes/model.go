package intakes

import (
	"time"

	"clarity-backend/internal/diagnostic/intake"
)

// ReportStatus tracks the full report job for a deep intake.
type ReportStatus string

const (
	ReportNone       ReportStatus = "none"
	ReportQueued     ReportStatus = "queued"
	ReportProcessing ReportStatus = "processing"
	ReportCompleted  ReportStatus = "completed"
	ReportFailed     ReportStatus = "failed"
)

type Intake struct {
	ID           string          `json:"id"`
	ClientID     string          `json:"clientId"`
	Email        string          `json:"email"`
	Mode         intake.Mode     `json:"mode"`
	Track        intake.Track    `json:"track"`
	Answers      intake.Response `json:"answers"`
	Fingerprint  string          `json:"fingerprint"`
	ReportStatus ReportStatus    `json:"reportStatus"`
	ReportError  string          `json:"reportError,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

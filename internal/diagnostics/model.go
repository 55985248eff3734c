package diagnostics

import (
	"encoding/json"
	"time"

	"clarity-backend/internal/diagnostic/classify"
	"clarity-backend/internal/diagnostic/intake"
)

type Kind string

const (
	KindPreview Kind = "preview"
	KindFull    Kind = "full"
)

// Result is one stored engine run. Payload holds the preview or report
// document exactly as it was returned to the caller.
type Result struct {
	ID             string                  `json:"id"`
	ClientID       string                  `json:"clientId"`
	IntakeID       string                  `json:"intakeId"`
	Kind           Kind                    `json:"kind"`
	Track          intake.Track            `json:"track"`
	Pattern        classify.Pattern        `json:"pattern,omitempty"`
	ConstraintType classify.ConstraintType `json:"constraintType,omitempty"`
	Payload        json.RawMessage         `json:"payload"`
	ArchiveKey     string                  `json:"archiveKey,omitempty"`
	CreatedAt      time.Time               `json:"createdAt"`
}

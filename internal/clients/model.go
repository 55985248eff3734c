package clients

import (
	"strings"
	"time"

	"clarity-backend/internal/diagnostic/intake"
)

type Client struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	FirstName    string    `json:"firstName,omitempty"`
	BusinessName string    `json:"businessName,omitempty"`
	Website      string    `json:"website,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Identity is the optional profile data a client supplies with an intake.
// Empty fields never overwrite stored values.
type Identity struct {
	FirstName    string
	BusinessName string
	Website      string
}

// IdentityFromAnswers picks profile fields out of intake answers, accepting
// both camelCase and snake_case keys.
func IdentityFromAnswers(r intake.Response) Identity {
	first := func(keys ...string) string {
		for _, k := range keys {
			if v := strings.TrimSpace(r.Text(k)); v != "" {
				return v
			}
		}
		return ""
	}
	return Identity{
		FirstName:    first(intake.KeyFirstName, "first_name"),
		BusinessName: first(intake.KeyBusinessName, "business_name"),
		Website:      first(intake.KeyWebsite),
	}
}

type Stage string

const (
	StageNew         Stage = "new"
	StagePreviewDone Stage = "preview_done"
	StageDepositPaid Stage = "deposit_paid"
	StageClarityDone Stage = "clarity_done"
	StageBalancePaid Stage = "balance_paid"
	StageDelivered   Stage = "delivered"
)

// Order is the position of the stage in the engagement, starting at 0.
func (s Stage) Order() int {
	switch s {
	case StagePreviewDone:
		return 1
	case StageDepositPaid:
		return 2
	case StageClarityDone:
		return 3
	case StageBalancePaid:
		return 4
	case StageDelivered:
		return 5
	default:
		return 0
	}
}

// Label is the admin-facing name of the stage.
func (s Stage) Label() string {
	switch s {
	case StagePreviewDone:
		return "Preview Done"
	case StageDepositPaid:
		return "Deposit Paid"
	case StageClarityDone:
		return "Clarity Done"
	case StageBalancePaid:
		return "Balance Paid"
	case StageDelivered:
		return "Delivered"
	default:
		return "New Lead"
	}
}

// Signals are the facts a stage is derived from.
type Signals struct {
	HasIntake   bool
	HasDeepDive bool
	DepositPaid bool
	BalancePaid bool
	Delivered   bool
}

// DeriveStage returns the furthest stage the signals satisfy.
func DeriveStage(s Signals) Stage {
	switch {
	case s.Delivered:
		return StageDelivered
	case s.BalancePaid:
		return StageBalancePaid
	case s.HasDeepDive:
		return StageClarityDone
	case s.DepositPaid:
		return StageDepositPaid
	case s.HasIntake:
		return StagePreviewDone
	default:
		return StageNew
	}
}

package payments

import (
	"encoding/json"
	"sort"
	"time"
)

type Type string

const (
	TypeDeposit Type = "deposit"
	TypeBalance Type = "balance"
)

type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusRefunded  Status = "refunded"
)

type Payment struct {
	ID              string          `json:"id"`
	Email           string          `json:"email"`
	ClientID        string          `json:"clientId,omitempty"`
	Type            Type            `json:"paymentType"`
	AmountCents     int64           `json:"amountCents"`
	Currency        string          `json:"currency"`
	Status          Status          `json:"status"`
	StripeEventID   string          `json:"stripeEventId"`
	PaymentIntentID string          `json:"paymentIntentId,omitempty"`
	SessionID       string          `json:"sessionId,omitempty"`
	Metadata        json.RawMessage `json:"metadata,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// Summary is the payment state of one client. Paid means both the deposit
// and the balance went through and were not refunded.
type Summary struct {
	DepositPaid bool       `json:"depositPaid"`
	BalancePaid bool       `json:"balancePaid"`
	DepositDate *time.Time `json:"depositDate,omitempty"`
	BalanceDate *time.Time `json:"balanceDate,omitempty"`
	Paid        bool       `json:"paid"`
	PaidDate    *time.Time `json:"paidDate,omitempty"`
}

// Summarize folds a client's payments into a Summary. The earliest
// succeeded payment of each type dates it.
func Summarize(list []Payment) Summary {
	sorted := append([]Payment(nil), list...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].CreatedAt.Before(sorted[j].CreatedAt) })

	var s Summary
	for _, p := range sorted {
		if p.Status != StatusSucceeded {
			continue
		}
		at := p.CreatedAt
		switch p.Type {
		case TypeDeposit:
			if !s.DepositPaid {
				s.DepositPaid = true
				s.DepositDate = &at
			}
		case TypeBalance:
			if !s.BalancePaid {
				s.BalancePaid = true
				s.BalanceDate = &at
			}
		}
	}
	if s.DepositPaid && s.BalancePaid {
		s.Paid = true
		s.PaidDate = s.BalanceDate
	}
	return s
}

// TypeForAmount classifies a checkout by its total: at or above the
// threshold it is the balance, otherwise the deposit.
func TypeForAmount(amountCents, thresholdCents int64) Type {
	if amountCents >= thresholdCents {
		return TypeBalance
	}
	return TypeDeposit
}

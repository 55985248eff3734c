package packs

import (
	"time"

	"clarity-backend/internal/diagnostic/deepdive"
)

// Status is the admin-side lifecycle of a stored pack.
type Status string

const (
	StatusDraft   Status = "draft"
	StatusShipped Status = "shipped"
	// StatusCustom marks a pack an admin edited by hand and sent.
	StatusCustom Status = "custom"
)

func (s Status) Valid() bool {
	return s == StatusDraft || s == StatusShipped || s == StatusCustom
}

// ClientStatus is what the client sees of their pack.
type ClientStatus string

const (
	ClientNone    ClientStatus = "none"
	ClientDraft   ClientStatus = "draft"
	ClientShipped ClientStatus = "shipped"
)

type Pack struct {
	ClientID  string              `json:"clientId"`
	Questions []deepdive.Question `json:"questions"`
	Meta      deepdive.PackMeta   `json:"packMeta"`
	Status    Status              `json:"status"`
	UpdatedAt time.Time           `json:"updatedAt"`
}

// Outdated reports whether the pack was built by another builder or bank
// version than the running one.
func (p Pack) Outdated() bool {
	return deepdive.IsOutdatedPack(&p.Meta)
}

// ClientStatusOf maps a stored pack to the client view. A nil pack is none.
func ClientStatusOf(p *Pack) ClientStatus {
	if p == nil {
		return ClientNone
	}
	switch p.Status {
	case StatusShipped, StatusCustom:
		return ClientShipped
	case StatusDraft:
		return ClientDraft
	default:
		return ClientNone
	}
}

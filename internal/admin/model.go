package admin

import (
	"strings"
	"time"

	"clarity-backend/internal/clients"
	"clarity-backend/internal/diagnostic/classify"
	"clarity-backend/internal/packs"
	"clarity-backend/internal/payments"
)

// Note tags that change what the client sees.
const (
	TagNote           = "note"
	TagDelivered      = "delivered"
	TagReportReleased = "report-released"
)

type Note struct {
	ID        string    `json:"id"`
	ClientID  string    `json:"clientId"`
	Author    string    `json:"author"`
	Body      string    `json:"note"`
	CreatedAt time.Time `json:"createdAt"`
}

// FormatNote prefixes body with "[tag] " when a tag is given.
func FormatNote(tag, body string) string {
	tag = strings.TrimSpace(tag)
	body = strings.TrimSpace(body)
	if tag == "" {
		return body
	}
	return "[" + tag + "] " + body
}

// HasTag reports whether the note carries tag anywhere in its body.
func (n Note) HasTag(tag string) bool {
	return strings.Contains(n.Body, "["+tag+"]")
}

func anyTagged(notes []Note, tag string) bool {
	for _, n := range notes {
		if n.HasTag(tag) {
			return true
		}
	}
	return false
}

// Section is one editable part of the full report.
type Section struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// Sections is the fixed vocabulary of report overrides, in report order.
var Sections = []Section{
	{Key: "executive_summary", Label: "Executive Summary"},
	{Key: "primary_constraint", Label: "Primary Constraint"},
	{Key: "success_trap", Label: "Success Trap"},
	{Key: "pressure_point_0", Label: "Pressure Point 1"},
	{Key: "pressure_point_1", Label: "Pressure Point 2"},
	{Key: "pressure_point_2", Label: "Pressure Point 3"},
	{Key: "phase_0", Label: "Roadmap Phase 1"},
	{Key: "phase_1", Label: "Roadmap Phase 2"},
	{Key: "phase_2", Label: "Roadmap Phase 3"},
	{Key: "additional_notes", Label: "Additional Notes"},
}

func ValidSection(key string) bool {
	for _, s := range Sections {
		if s.Key == key {
			return true
		}
	}
	return false
}

type Override struct {
	ClientID   string    `json:"clientId"`
	SectionKey string    `json:"sectionKey"`
	Content    string    `json:"content"`
	UpdatedBy  string    `json:"updatedBy"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// ClientOverview is one row of the admin client list.
type ClientOverview struct {
	Client         clients.Client     `json:"client"`
	DisplayName    string             `json:"displayName"`
	Stage          clients.Stage      `json:"stage"`
	StageLabel     string             `json:"stageLabel"`
	Payment        payments.Summary   `json:"payment"`
	PackStatus     packs.ClientStatus `json:"packStatus"`
	Pattern        classify.Pattern   `json:"pattern,omitempty"`
	PreviewAt      *time.Time         `json:"previewAt,omitempty"`
	ReportReleased bool               `json:"reportReleased"`
	NoteCount      int                `json:"noteCount"`
}

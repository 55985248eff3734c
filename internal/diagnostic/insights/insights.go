// Package insights flags contradictory or high-signal answer pairs from the
// deep-dive intake. The full report consumes the flags as supporting
// evidence.
package insights

import (
	"sort"
	"strings"

	"clarity-backend/internal/diagnostic/intake"
)

// Severity ranks a flag.
type Severity string

const (
	SeverityHigh   Severity = "HIGH"
	SeverityMedium Severity = "MEDIUM"
	SeverityLow    Severity = "LOW"
)

func (s Severity) rank() int {
	switch s {
	case SeverityHigh:
		return 0
	case SeverityMedium:
		return 1
	default:
		return 2
	}
}

// Flag is one fired rule.
type Flag struct {
	ID                  string   `json:"id"`
	Severity            Severity `json:"severity"`
	Label               string   `json:"label"`
	Detail              string   `json:"detail"`
	EvidenceQuestionIDs []string `json:"evidenceQuestionIds"`
}

// condition tests one answer. Text tests are case-insensitive substring
// matches; numericGte compares the parsed number of the answer.
type condition struct {
	field       string
	includes    string
	includesAny []string
	notIncludes string
	numericGte  *float64
}

func gte(n float64) *float64 { return &n }

func (c condition) holds(r intake.Response) bool {
	raw := r.Text(c.field)
	v := strings.ToLower(raw)
	if v == "" && c.numericGte == nil {
		return false
	}
	if c.includes != "" && !strings.Contains(v, strings.ToLower(c.includes)) {
		return false
	}
	if len(c.includesAny) > 0 && !containsAny(v, c.includesAny) {
		return false
	}
	if c.notIncludes != "" && strings.Contains(v, strings.ToLower(c.notIncludes)) {
		return false
	}
	if c.numericGte != nil && intake.ParseNumber(raw) < *c.numericGte {
		return false
	}
	return true
}

func containsAny(v string, subs []string) bool {
	for _, s := range subs {
		if strings.Contains(v, strings.ToLower(s)) {
			return true
		}
	}
	return false
}

type rule struct {
	id       string
	severity Severity
	label    string
	detail   string
	when     []condition
	evidence []string
}

func (ru rule) fires(r intake.Response) bool {
	for _, c := range ru.when {
		if !c.holds(r) {
			return false
		}
	}
	return len(ru.when) > 0
}

// DeriveFlags evaluates every rule against the answers. Flags come back
// HIGH first, then MEDIUM, then LOW; within a tier they keep rule order.
// The result is never nil.
func DeriveFlags(r intake.Response) []Flag {
	flags := make([]Flag, 0, 4)
	for _, ru := range rules {
		if !ru.fires(r) {
			continue
		}
		flags = append(flags, Flag{
			ID:                  ru.id,
			Severity:            ru.severity,
			Label:               ru.label,
			Detail:              ru.detail,
			EvidenceQuestionIDs: append([]string(nil), ru.evidence...),
		})
	}
	sort.SliceStable(flags, func(i, j int) bool {
		return flags[i].Severity.rank() < flags[j].Severity.rank()
	})
	return flags
}

// RuleIDs lists every rule id in evaluation order.
func RuleIDs() []string {
	out := make([]string, len(rules))
	for i, ru := range rules {
		out[i] = ru.id
	}
	return out
}

package classify

import (
	"fmt"
	"strings"

	"clarity-backend/internal/diagnostic/intake"
	"clarity-backend/internal/diagnostic/scoring"
)

// Pattern summarizes which dimension drives the operational pressure.
type Pattern string

const (
	PatternFounder   Pattern = "FOUNDER"
	PatternDecision  Pattern = "DECISION"
	PatternSystem    Pattern = "SYSTEM"
	PatternCapacity  Pattern = "CAPACITY"
	PatternMixed     Pattern = "MIXED"
	PatternStrategic Pattern = "STRATEGIC"
)

// Confidence bands the founder-dependency score.
type Confidence string

const (
	ConfidenceHigh Confidence = "HIGH"
	ConfidenceMed  Confidence = "MED"
	ConfidenceLow  Confidence = "LOW"
)

// MixedGap is the largest score gap between the top two dimensions that
// still counts as a blended bottleneck.
const MixedGap = 10

// Outcome of the eligibility check. Every service business is eligible.
const OutcomeOK = "OK"

// EligibilityMetadata is what the admin and eligibility views read.
type EligibilityMetadata struct {
	FounderDependencyScore int            `json:"founderDependencyScore"`
	Confidence             Confidence     `json:"confidence"`
	Pattern                Pattern        `json:"pattern"`
	PrimaryConstraint      scoring.Ranked `json:"primaryConstraint"`
	SecondaryConstraint    scoring.Ranked `json:"secondaryConstraint"`
	Rationale              string         `json:"rationale"`
}

// EligibilityResult wraps the metadata with an outcome.
type EligibilityResult struct {
	Outcome  string              `json:"outcome"`
	Metadata EligibilityMetadata `json:"metadata"`
}

// Eligibility scores the answers and describes the operational pattern.
// Primary and secondary here are the raw score ranking with static labels.
func Eligibility(r intake.Response) EligibilityResult {
	s := scoring.Score(r)
	ranked := scoring.Rank(s)
	primary, secondary := ranked[0], ranked[1]

	fd := s.FounderCentralization
	confidence := ConfidenceFor(fd)
	pattern := PatternFor(DetectConstraintCategory(r), primary, secondary)

	rationale := strings.Join([]string{
		fmt.Sprintf("Primary: %s (%d)", primary.Label, primary.Score),
		fmt.Sprintf("Secondary: %s (%d)", secondary.Label, secondary.Score),
		fmt.Sprintf("Pattern: %s", pattern),
		fmt.Sprintf("confidence=%s", confidence),
	}, "; ")

	return EligibilityResult{
		Outcome: OutcomeOK,
		Metadata: EligibilityMetadata{
			FounderDependencyScore: fd,
			Confidence:             confidence,
			Pattern:                pattern,
			PrimaryConstraint:      primary,
			SecondaryConstraint:    secondary,
			Rationale:              rationale,
		},
	}
}

// ConfidenceFor bands a founder-dependency score.
func ConfidenceFor(founderDependency int) Confidence {
	switch {
	case founderDependency >= 70:
		return ConfidenceHigh
	case founderDependency >= 50:
		return ConfidenceMed
	default:
		return ConfidenceLow
	}
}

// PatternFor derives the pattern. It is recomputed from the scores on every
// call and never stored on its own.
func PatternFor(category Category, primary, secondary scoring.Ranked) Pattern {
	if category == CategoryStrategic {
		return PatternStrategic
	}
	if abs(primary.Score-secondary.Score) <= MixedGap {
		return PatternMixed
	}
	switch primary.Type {
	case scoring.FounderCentralization:
		return PatternFounder
	case scoring.DecisionBottleneck:
		return PatternDecision
	case scoring.StructuralFragility:
		return PatternSystem
	case scoring.CapacityConstraint:
		return PatternCapacity
	default:
		return PatternMixed
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

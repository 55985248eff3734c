// Package classify turns dimension scores and specific answer combinations
// into a primary and secondary constraint with contextual labels.
package classify

import (
	"clarity-backend/internal/diagnostic/intake"
	o "clarity-backend/internal/diagnostic/options"
	"clarity-backend/internal/diagnostic/scoring"
)

// Category is the answer-pattern classification layered over the numeric
// ranking. When it maps to a dimension it decides the primary constraint.
type Category string

const (
	CategoryKnowledge    Category = "KNOWLEDGE"
	CategoryDecisionLoad Category = "DECISION_LOAD"
	CategoryProcess      Category = "PROCESS"
	CategoryCapacity     Category = "CAPACITY"
	CategoryStrategic    Category = "STRATEGIC"
	CategoryNone         Category = "NONE"
)

// PreferredDimension returns the dimension a category forces to primary.
func (c Category) PreferredDimension() (scoring.Dimension, bool) {
	switch c {
	case CategoryKnowledge, CategoryProcess:
		return scoring.StructuralFragility, true
	case CategoryDecisionLoad:
		return scoring.DecisionBottleneck, true
	case CategoryCapacity:
		return scoring.CapacityConstraint, true
	default:
		return "", false
	}
}

// IsWellDelegated reports the four-answer pattern of a business that runs
// without its founder.
func IsWellDelegated(r intake.Response) bool {
	return r.Is(o.RevenueGeneration, o.RevenueTeamIndependent) &&
		r.Is(o.FinalDecisions, o.DecisionsRarelyMe) &&
		r.Is(o.ProcessDocumentation, o.DocsFully) &&
		r.Is(o.TwoWeekAbsence, o.AbsenceRunsNormally)
}

func docsWeak(r intake.Response) bool {
	return r.IsAny(o.ProcessDocumentation, o.DocsInHead, o.DocsLight)
}

func clientsFounderBound(r intake.Response) bool {
	return r.IsAny(o.ClientRelationship, o.ClientsHireMe, o.ClientsExpectMe)
}

func isKnowledgeSilo(r intake.Response) bool {
	if docsWeak(r) && clientsFounderBound(r) {
		return true
	}
	inHead := r.Is(o.ProcessDocumentation, o.DocsInHead)
	if inHead && r.IsAny(o.PricingDecisions, o.PricingOnlyMe, o.PricingIApprove) && r.Is(o.TwoWeekAbsence, o.AbsenceEscalates) {
		return true
	}
	return inHead && r.Is(o.HiringSituation, o.HiringHardToFind)
}

func isProcessGap(r intake.Response) bool {
	return r.Is(o.ProcessDocumentation, o.DocsNotUsed) && r.Is(o.ProjectStall, o.StallTeamExecution)
}

// DetectConstraintCategory classifies the answers. Rules are checked in
// order and the first match wins; a well-delegated business is STRATEGIC
// regardless of anything else.
func DetectConstraintCategory(r intake.Response) Category {
	r = intake.Normalize(r)
	switch {
	case IsWellDelegated(r):
		return CategoryStrategic
	case isKnowledgeSilo(r):
		return CategoryKnowledge
	case r.IsAny(o.FinalDecisions, o.DecisionsAlwaysMe, o.DecisionsMostlyMe) && r.Is(o.ProjectStall, o.StallApproval):
		return CategoryDecisionLoad
	case isProcessGap(r):
		return CategoryProcess
	case r.Is(o.RevenueGeneration, o.RevenueFounderMajority) &&
		r.Is(o.GrowthLimiter, o.LimiterTime) &&
		r.Is(o.TwoWeekAbsence, o.AbsenceRevenueDrops):
		return CategoryCapacity
	default:
		return CategoryNone
	}
}

// ResolveConstraintLabel returns the display label of d for these answers.
// Only structuralFragility is contextual.
func ResolveConstraintLabel(d scoring.Dimension, r intake.Response) string {
	if d != scoring.StructuralFragility {
		return d.Label()
	}
	r = intake.Normalize(r)
	switch {
	case isProcessGap(r):
		return "Process Gaps"
	case docsWeak(r) && (clientsFounderBound(r) || r.Is(o.HiringSituation, o.HiringHardToFind)):
		return "Knowledge Silos"
	default:
		return d.Label()
	}
}

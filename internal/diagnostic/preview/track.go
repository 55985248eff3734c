package preview

import (
	"clarity-backend/internal/diagnostic/classify"
	"clarity-backend/internal/diagnostic/intake"
	o "clarity-backend/internal/diagnostic/options"
)

// Initial-intake questions from the first questionnaire generation. Their
// answers were never canonicalized, so they are matched by substring.
const (
	keyCapacityUtilization = "capacity_utilization"
	keyAbsenceImpact       = "absence_impact"
	keyDocState            = "doc_state"
	keyDocUsage            = "doc_usage"
	keyTimeTheft           = "time_theft"
	keyDecisionBacklog     = "decision_backlog"
	keyApprovalFrequency   = "approval_frequency"
	keyContextSwitching    = "context_switching"
	keyMentalEnergy        = "mental_energy"
	keyDelegationBlocker   = "delegation_blocker"
	keyProjectPileUp       = "project_pile_up"
	keyRevenueDependency   = "revenue_dependency"
	keyClientExpectation   = "client_expectation"
	keyDelegationFear      = "delegation_fear"
	keyIdentityAttachment  = "identity_attachment"
	keyTeamCapability      = "team_capability"
	keyResponsibilities    = "founder_responsibilities"
)

type typeRule struct {
	holds func(intake.Response) bool
	t     classify.ConstraintType
}

func docsInHead(r intake.Response) bool {
	return r.Is(o.ProcessDocumentation, o.DocsInHead) || r.ContainsFold(keyDocState, "head")
}

func overbooked(r intake.Response) bool {
	return r.Contains(keyCapacityUtilization, "Overbooked")
}

func nonStopSwitching(r intake.Response) bool {
	return r.ContainsAny(keyContextSwitching, "Non-stop", "10+")
}

func founderOwnsRevenue(r intake.Response) bool {
	return r.Is(o.RevenueGeneration, o.RevenueFounderMajority) ||
		r.ContainsAny(keyRevenueDependency, "Goes to zero", "Drops significantly")
}

var typeRules = map[intake.Track][]typeRule{
	intake.TrackA: {
		{func(r intake.Response) bool { return overbooked(r) || r.Is(o.GrowthLimiter, o.LimiterTime) }, classify.ConstraintTime},
		{func(r intake.Response) bool {
			return r.Is(o.ProjectStall, o.StallApproval) || r.Contains(keyApprovalFrequency, "Constantly")
		}, classify.ConstraintPolicy},
		{func(r intake.Response) bool {
			return r.Is(o.InterruptionFrequency, o.InterruptConstantly) || nonStopSwitching(r)
		}, classify.ConstraintCognitive},
	},
	intake.TrackB: {
		{func(r intake.Response) bool {
			return r.IsAny(o.InterruptionFrequency, o.InterruptConstantly, o.InterruptMultipleDaily) ||
				nonStopSwitching(r) ||
				r.ContainsAny(keyDecisionBacklog, "10+", "Lost count")
		}, classify.ConstraintCognitive},
		{func(r intake.Response) bool {
			return r.Is(o.ProjectStall, o.StallApproval) ||
				r.Is(o.FinalDecisions, o.DecisionsAlwaysMe) ||
				r.Contains(keyProjectPileUp, "Waiting on me")
		}, classify.ConstraintPolicy},
		{func(r intake.Response) bool { return r.Is(o.GrowthLimiter, o.LimiterTime) || overbooked(r) }, classify.ConstraintTime},
	},
	intake.TrackC: {
		{func(r intake.Response) bool {
			return founderOwnsRevenue(r) ||
				r.Is(o.ClientRelationship, o.ClientsHireMe) ||
				r.Contains(keyClientExpectation, "Only me")
		}, classify.ConstraintTime},
		{func(r intake.Response) bool {
			return r.Is(o.FinalDecisions, o.DecisionsAlwaysMe) || r.Is(o.PricingDecisions, o.PricingOnlyMe)
		}, classify.ConstraintPolicy},
		{func(r intake.Response) bool { return r.ContainsAny(keyMentalEnergy, "Fried", "Drained") }, classify.ConstraintCognitive},
	},
}

// guessConstraintType walks the track's rules in priority order; the first
// that holds names the bound.
func guessConstraintType(track intake.Track, r intake.Response) classify.ConstraintType {
	for _, rule := range typeRules[track] {
		if rule.holds(r) {
			return rule.t
		}
	}
	return classify.ConstraintUnknown
}

// DependencyLevel grades how much of the business rests on the founder.
type DependencyLevel string

const (
	DependencyCritical DependencyLevel = "CRITICAL"
	DependencyHigh     DependencyLevel = "HIGH"
	DependencyModerate DependencyLevel = "MODERATE"
	DependencyLow      DependencyLevel = "LOW"
)

func dependencyLevel(score int) DependencyLevel {
	switch {
	case score >= 70:
		return DependencyCritical
	case score >= 50:
		return DependencyHigh
	case score >= 30:
		return DependencyModerate
	default:
		return DependencyLow
	}
}

// founderDependency combines the founder-centralization score with the
// legacy initial-intake signals and picks the strongest evidence as the
// signal line.
func founderDependency(r intake.Response, founderCentralization int) (DependencyLevel, string) {
	score := founderCentralization
	switch {
	case r.Contains(keyAbsenceImpact, "Everything stops"):
		score += 15
	case r.Contains(keyAbsenceImpact, "Revenue drops"):
		score += 10
	}
	switch {
	case r.Contains(keyRevenueDependency, "Goes to zero"):
		score += 15
	case r.Contains(keyRevenueDependency, "Drops significantly"):
		score += 10
	}
	if r.Contains(keyClientExpectation, "Only me") {
		score += 10
	}
	if r.Contains(keyIdentityAttachment, "I AM the work") {
		score += 8
	}
	level := dependencyLevel(clamp(score))

	var signal string
	switch {
	case r.Is(o.TwoWeekAbsence, o.AbsenceRevenueDrops) || r.Contains(keyAbsenceImpact, "Everything stops"):
		signal = "Revenue stops when the founder steps away for two weeks."
	case r.Is(o.RevenueGeneration, o.RevenueFounderMajority) || r.Contains(keyRevenueDependency, "Goes to zero"):
		signal = "The founder personally delivers most of what clients pay for."
	case r.Is(o.ClientRelationship, o.ClientsHireMe) || r.Contains(keyClientExpectation, "Only me"):
		signal = "Clients buy the founder, not the firm."
	case r.IsAny(o.FinalDecisions, o.DecisionsAlwaysMe, o.DecisionsMostlyMe):
		signal = "Most decisions still route through the founder."
	case level == DependencyLow:
		signal = "The business shows meaningful independence from its founder."
	default:
		signal = "Founder involvement is spread across several parts of the operation."
	}
	return level, signal
}

type riskRule struct {
	holds func(intake.Response) bool
	text  string
}

var universalRisks = []riskRule{
	{func(r intake.Response) bool { return r.Is(o.TwoWeekAbsence, o.AbsenceRevenueDrops) }, "Revenue drops immediately when the founder is away."},
	{func(r intake.Response) bool { return docsInHead(r) }, "Core processes live only in the founder's head."},
	{func(r intake.Response) bool { return r.Is(o.RolesHandled, o.RolesSevenPlus) }, "The founder covers 7+ operational roles."},
	{func(r intake.Response) bool { return r.Is(o.KeyMemberLeaves, o.KeyLeaveRevenueDrops) }, "A single key departure would reduce revenue."},
	{func(r intake.Response) bool { return r.Is(o.ClientRelationship, o.ClientsHireMe) }, "Clients hire the founder specifically."},
}

var trackRisks = map[intake.Track][]riskRule{
	intake.TrackA: {
		{overbooked, "The schedule is overbooked with no slack for growth."},
		{func(r intake.Response) bool { return r.Is(o.HiringSituation, o.HiringHardToFind) }, "Qualified staff are hard to find, so capacity can't expand on demand."},
		{func(r intake.Response) bool { return r.ContainsFold(keyTimeTheft, "admin") }, "Admin work is consuming billable hours."},
		{func(r intake.Response) bool { return r.Is(o.ProjectStall, o.StallStaffing) }, "Projects stall on staffing gaps."},
	},
	intake.TrackB: {
		{func(r intake.Response) bool {
			return r.Is(o.InterruptionFrequency, o.InterruptConstantly) || nonStopSwitching(r)
		}, "Decision interruptions arrive constantly throughout the day."},
		{func(r intake.Response) bool {
			return r.Is(o.ProjectStall, o.StallApproval) || r.Contains(keyProjectPileUp, "Waiting on me")
		}, "Projects pile up waiting on founder approval."},
		{func(r intake.Response) bool { return r.ContainsAny(keyDecisionBacklog, "10+", "Lost count") }, "The decision backlog has grown past what one person can clear."},
		{func(r intake.Response) bool { return r.ContainsAny(keyMentalEnergy, "Fried", "Drained") }, "The founder ends most days mentally drained."},
		{func(r intake.Response) bool { return r.Is(o.PricingDecisions, o.PricingOnlyMe) }, "Pricing can only be set by the founder."},
	},
	intake.TrackC: {
		{founderOwnsRevenue, "Revenue depends on the founder's personal delivery."},
		{func(r intake.Response) bool {
			return r.Contains(keyIdentityAttachment, "I AM the work") || r.Contains(keyIdentityAttachment, "Practitioner")
		}, "The founder's identity is tied to doing the work personally."},
		{func(r intake.Response) bool {
			return r.Contains(keyDelegationFear, "don't need me")
		}, "Fear of becoming unnecessary is slowing delegation."},
		{func(r intake.Response) bool { return r.Contains(keyTeamCapability, "Maybe years") }, "The team is years away from replicating the founder's work."},
		{func(r intake.Response) bool { return r.Contains(keyClientExpectation, "Only me") }, "Clients expect to work only with the founder."},
	},
}

func riskSignals(track intake.Track, r intake.Response) []string {
	out := make([]string, 0)
	for _, rule := range trackRisks[track] {
		if rule.holds(r) {
			out = append(out, rule.text)
		}
	}
	for _, rule := range universalRisks {
		if rule.holds(r) {
			out = append(out, rule.text)
		}
	}
	return out
}

func clamp(n int) int {
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}

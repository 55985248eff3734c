package preview

import (
	"clarity-backend/internal/diagnostic/intake"
	o "clarity-backend/internal/diagnostic/options"
)

// StageStatus is the health of one lifecycle stage. Unknown means no answer
// speaks to the stage.
type StageStatus string

const (
	StatusHealthy  StageStatus = "healthy"
	StatusStressed StageStatus = "stressed"
	StatusCritical StageStatus = "critical"
	StatusUnknown  StageStatus = "unknown"
)

// LifecycleStage is one row of the preview heatmap.
type LifecycleStage struct {
	ID     string      `json:"id"`
	Label  string      `json:"label"`
	Status StageStatus `json:"status"`
	Signal string      `json:"signal"`
}

const noSignal = "No signal yet; covered in the full diagnostic."

// stageCheck is one prioritized branch of a stage evaluation.
type stageCheck struct {
	holds  func(intake.Response) bool
	status StageStatus
	signal string
}

func is(key string, opts ...string) func(intake.Response) bool {
	return func(r intake.Response) bool { return r.IsAny(key, opts...) }
}

var stageChecks = []struct {
	id, label string
	checks    []stageCheck
}{
	{"sales", "Sales", []stageCheck{
		{is(o.ClientRelationship, o.ClientsHireMe), StatusCritical, "Clients hire the founder specifically."},
		{is(o.PricingDecisions, o.PricingOnlyMe), StatusStressed, "Only the founder can price new work."},
		{is(o.ClientRelationship, o.ClientsExpectMe), StatusStressed, "Clients expect the founder in the room."},
		{is(o.ClientRelationship, o.ClientsAssigned, o.ClientsNoFounder), StatusHealthy, "Clients work with the team directly."},
		{is(o.PricingDecisions, o.PricingSeniorTeam, o.PricingFixed), StatusHealthy, "Pricing runs without the founder."},
	}},
	{"onboarding", "Onboarding", []stageCheck{
		{func(r intake.Response) bool { return r.Contains("onboarding_integration", "personally manage") }, StatusCritical, "The founder personally manages onboarding."},
		{func(r intake.Response) bool { return r.Contains("onboarding_integration", "Partially") }, StatusStressed, "Onboarding is partially systemized."},
		{func(r intake.Response) bool { return r.Has("onboarding_integration") }, StatusHealthy, "Onboarding runs on a repeatable process."},
	}},
	{"delivery", "Delivery", []stageCheck{
		{is(o.RevenueGeneration, o.RevenueFounderMajority), StatusCritical, "The founder delivers most of the work."},
		{is(o.RevenueGeneration, o.RevenueTeamReviews, o.RevenueMix), StatusStressed, "Delivery still depends on founder involvement."},
		{is(o.ProjectStall, o.StallTeamExecution), StatusStressed, "Projects stall on team execution."},
		{is(o.RevenueGeneration, o.RevenueTeamIndependent), StatusHealthy, "The team delivers independently."},
	}},
	{"review", "Review", []stageCheck{
		{func(r intake.Response) bool {
			return r.Is(o.FinalDecisions, o.DecisionsAlwaysMe) || r.Is(o.ProjectStall, o.StallApproval)
		}, StatusCritical, "Work waits on founder sign-off."},
		{is(o.FinalDecisions, o.DecisionsMostlyMe), StatusStressed, "Most approvals route through the founder."},
		{is(o.FinalDecisions, o.DecisionsShared, o.DecisionsRarelyMe), StatusHealthy, "Approval authority is distributed."},
	}},
	{"growth", "Growth", []stageCheck{
		{is(o.CurrentState, o.StateChaotic), StatusCritical, "Operations are reactive."},
		{is(o.CurrentState, o.StateGrowingStrained), StatusStressed, "Growth is straining the structure."},
		{is(o.CurrentState, o.StateStableCapped), StatusStressed, "Growth has plateaued at a structural ceiling."},
		{is(o.CurrentState, o.StateProfitableHeavy), StatusStressed, "Growth is anchored to founder bandwidth."},
		{is(o.GrowthLimiter, o.LimiterDemand, o.LimiterPricing), StatusHealthy, "Operations can absorb more demand."},
	}},
	{"systems", "Systems", []stageCheck{
		{docsInHead, StatusCritical, "Processes live in the founder's head."},
		{func(r intake.Response) bool {
			return r.Is(o.ProcessDocumentation, o.DocsNotUsed) || r.ContainsAny(keyDocUsage, "Rarely", "No")
		}, StatusStressed, "Documentation exists but isn't followed."},
		{is(o.ProcessDocumentation, o.DocsLight), StatusStressed, "Documentation is partial."},
		{is(o.ProcessDocumentation, o.DocsFully), StatusHealthy, "Processes are documented and followed."},
	}},
	{"transferability", "Transferability", []stageCheck{
		{is(o.TwoWeekAbsence, o.AbsenceRevenueDrops), StatusCritical, "Revenue drops when the founder is away."},
		{is(o.TwoWeekAbsence, o.AbsenceWorkSlows, o.AbsenceEscalates), StatusStressed, "The business slows without the founder."},
		{is(o.TwoWeekAbsence, o.AbsenceRunsNormally), StatusHealthy, "The business runs without the founder."},
	}},
}

func lifecycle(r intake.Response) []LifecycleStage {
	out := make([]LifecycleStage, 0, len(stageChecks))
	for _, s := range stageChecks {
		stage := LifecycleStage{ID: s.id, Label: s.label, Status: StatusUnknown, Signal: noSignal}
		for _, c := range s.checks {
			if c.holds(r) {
				stage.Status = c.status
				stage.Signal = c.signal
				break
			}
		}
		out = append(out, stage)
	}
	return out
}

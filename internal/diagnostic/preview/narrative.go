package preview

import (
	"fmt"
	"strings"

	"clarity-backend/internal/diagnostic/classify"
	"clarity-backend/internal/diagnostic/intake"
	o "clarity-backend/internal/diagnostic/options"
	"clarity-backend/internal/diagnostic/scoring"
)

const maxExposureMetrics = 5

func teamDelivers(r intake.Response) bool {
	return r.IsAny(o.RevenueGeneration, o.RevenueTeamReviews, o.RevenueTeamIndependent)
}

func constraintSnapshot(r intake.Response, sel classify.Selection, businessName string) string {
	parts := make([]string, 0, 3)

	switch {
	case sel.Category == classify.CategoryStrategic:
		parts = append(parts, fmt.Sprintf("%s runs independently of its founder, so the next constraint is strategic rather than operational.", businessName))
	case sel.Primary.Type == scoring.FounderCentralization:
		parts = append(parts, fmt.Sprintf("%s operates with revenue generation and client relationships concentrated in the founder.", businessName))
	case sel.Primary.Type == scoring.DecisionBottleneck:
		parts = append(parts, fmt.Sprintf("%s runs on a decision model where most approvals and direction flow through a single point.", businessName))
	case sel.Primary.Type == scoring.StructuralFragility:
		parts = append(parts, fmt.Sprintf("%s lacks the structural redundancy to absorb disruption because its processes and knowledge are under-formalized.", businessName))
	default:
		parts = append(parts, fmt.Sprintf("%s is operating at or near its capacity ceiling, with growth constrained by available resources.", businessName))
	}

	switch r.Text(o.CurrentState) {
	case o.StateGrowingStrained:
		parts = append(parts, "Current growth is amplifying this pressure rather than resolving it.")
	case o.StateStableCapped:
		parts = append(parts, "The business has reached a plateau where this constraint prevents further scaling.")
	case o.StateChaotic:
		parts = append(parts, "Day-to-day operations are reactive, which means this constraint is already producing friction.")
	case o.StateProfitableHeavy:
		parts = append(parts, "Profitability is intact, but growth is anchored to the founder's personal bandwidth.")
	default:
		parts = append(parts, "As demand increases, this pattern will compound.")
	}

	switch {
	case r.Is(o.InterruptionFrequency, o.InterruptConstantly):
		parts = append(parts, "The clearest symptom: constant interruptions for decisions throughout the day.")
	case r.Is(o.TwoWeekAbsence, o.AbsenceRevenueDrops):
		parts = append(parts, "The clearest symptom: revenue stops the moment the founder steps away.")
	case r.Is(o.ProjectStall, o.StallApproval):
		parts = append(parts, "The clearest symptom: work stalls waiting on founder approval.")
	case r.Is(o.ProcessDocumentation, o.DocsInHead):
		parts = append(parts, "The clearest symptom: institutional knowledge lives entirely in the founder's head.")
	case r.Is(o.KeyMemberLeaves, o.KeyLeaveRevenueDrops):
		parts = append(parts, "The clearest symptom: losing a key team member directly impacts revenue.")
	case r.Is(o.RolesHandled, o.RolesSevenPlus):
		parts = append(parts, "The clearest symptom: the founder is personally handling 7+ operational roles.")
	default:
		parts = append(parts, fmt.Sprintf("The %s compounds the primary constraint, creating multiple pressure points.", strings.ToLower(sel.Secondary.Label)))
	}

	return strings.Join(parts, " ")
}

type pair struct {
	primary, secondary scoring.Dimension
}

var compoundNarratives = map[pair]string{
	{scoring.FounderCentralization, scoring.DecisionBottleneck}:  "Revenue depends on the founder, and so do most decisions. Stepping back from delivery doesn't reduce the load; it shifts it from execution to oversight.",
	{scoring.FounderCentralization, scoring.StructuralFragility}: "The founder is the business's single point of failure, and there's no documented structure to absorb that risk. Delegation isn't only a preference issue: there's nothing to delegate into.",
	{scoring.FounderCentralization, scoring.CapacityConstraint}:  "Revenue is tied to the founder's time, and that time is already maxed. Growth requires structural change, not harder work.",
	{scoring.DecisionBottleneck, scoring.FounderCentralization}:  "Decisions funnel through the founder because authority hasn't been distributed. Meanwhile revenue depends on that same person being available, so two demands compete for one fixed resource.",
	{scoring.DecisionBottleneck, scoring.StructuralFragility}:    "Decisions centralize because standards aren't documented. Without written criteria, every judgment call becomes a founder decision.",
	{scoring.DecisionBottleneck, scoring.CapacityConstraint}:     "The decision backlog is consuming capacity that should go toward growth. The team has bandwidth; it's waiting for direction.",
	{scoring.StructuralFragility, scoring.FounderCentralization}: "The business is fragile because its knowledge and processes live in the founder. This isn't a systems problem. It's an extraction problem.",
	{scoring.StructuralFragility, scoring.DecisionBottleneck}:    "Without documented standards, decisions default to the founder. The fragility creates the bottleneck.",
	{scoring.StructuralFragility, scoring.CapacityConstraint}:    "The business can't absorb growth because its structure can't absorb disruption. Hiring more people won't help if the playbook doesn't exist.",
	{scoring.CapacityConstraint, scoring.FounderCentralization}:  "Capacity is maxed, and the founder is doing too much of the work. The constraint won't ease until the founder's role changes.",
	{scoring.CapacityConstraint, scoring.DecisionBottleneck}:     "The team could take on more if they didn't need to wait for decisions. Part of the capacity issue is artificial, created by centralized authority.",
	{scoring.CapacityConstraint, scoring.StructuralFragility}:    "Growth is blocked by resource limits, and the lack of documented systems makes it harder to onboard the help that's needed.",
}

const strategicNarrative = "Operations run without the founder at the center. What remains is a question of positioning and demand rather than an operational constraint."

func compoundNarrative(sel classify.Selection) string {
	if sel.Category == classify.CategoryStrategic {
		return strategicNarrative
	}
	if text, ok := compoundNarratives[pair{sel.Primary.Type, sel.Secondary.Type}]; ok {
		return text
	}
	return fmt.Sprintf("The %s is compounded by %s, creating reinforcing pressure on the business.",
		strings.ToLower(sel.Primary.Label), strings.ToLower(sel.Secondary.Label))
}

type exposure struct {
	label    string
	question string
	include  func(intake.Response) bool
}

var exposures = []exposure{
	{label: "Revenue model", question: o.RevenueGeneration},
	{label: "Decision authority", question: o.FinalDecisions},
	{label: "Documentation", question: o.ProcessDocumentation},
	{label: "Founder roles", question: o.RolesHandled},
	{label: "Decision interruptions", question: o.InterruptionFrequency},
	{
		label:    "Pricing authority",
		question: o.PricingDecisions,
		include: func(r intake.Response) bool {
			return !r.Is(o.PricingDecisions, o.PricingFixed)
		},
	},
	{
		label:    "Client structure",
		question: o.ClientRelationship,
		include: func(r intake.Response) bool {
			return r.IsAny(o.ClientRelationship, o.ClientsHireMe, o.ClientsExpectMe)
		},
	},
}

// exposureMetrics renders "<Label>: <value>" lines with the clean display
// alias so the value never repeats its label.
func exposureMetrics(r intake.Response) []string {
	out := make([]string, 0, maxExposureMetrics)
	for _, e := range exposures {
		raw := r.Text(e.question)
		if raw == "" {
			continue
		}
		if e.include != nil && !e.include(r) {
			continue
		}
		out = append(out, fmt.Sprintf("%s: %s", e.label, o.CleanDisplay(e.question, raw)))
		if len(out) == maxExposureMetrics {
			break
		}
	}
	return out
}

func continuityRisk(r intake.Response) string {
	revenueDrops := r.Is(o.TwoWeekAbsence, o.AbsenceRevenueDrops)
	workSlows := r.Is(o.TwoWeekAbsence, o.AbsenceWorkSlows)
	keyRevenue := r.Is(o.KeyMemberLeaves, o.KeyLeaveRevenueDrops)

	switch {
	case revenueDrops && keyRevenue:
		return "Both founder absence and key-person departure cause immediate revenue loss. The business has no structural buffer."
	case revenueDrops:
		return "A two-week founder absence causes immediate revenue loss. The business has no independence from its operator."
	case workSlows && keyRevenue:
		return "A key departure drops revenue, and founder absence slows everything. The operation depends on specific people, not systems."
	case workSlows:
		return "Founder absence slows operations significantly. The team functions, but not independently."
	case keyRevenue:
		return "Losing a key team member directly impacts revenue, so individual dependency extends beyond the founder."
	case r.Is(o.KeyMemberLeaves, o.KeyLeaveDeliverySlows):
		return "A key departure slows delivery. Knowledge transfer and redundancy need attention."
	case r.Is(o.TwoWeekAbsence, o.AbsenceEscalates):
		return "The team can keep operating but escalates decisions to the founder. Authority, not capability, is the dependency."
	default:
		return "The business shows moderate resilience, but structural dependencies exist that could surface under stress."
	}
}

func loadTrajectory(r intake.Response) string {
	limiter := r.Text(o.GrowthLimiter)
	switch r.Text(o.CurrentState) {
	case o.StateChaotic:
		switch limiter {
		case o.LimiterTime:
			return "If nothing changes, the reactive operating mode will burn through the founder's remaining capacity until something breaks."
		case o.LimiterOps:
			return "If nothing changes, operational chaos will continue to consume capacity that should go toward growth."
		}
		return "If nothing changes, the reactive pattern will intensify as the business takes on more without structural support."
	case o.StateGrowingStrained:
		switch limiter {
		case o.LimiterStaff:
			return "If nothing changes, growth will keep outpacing the team's ability to deliver, and hiring lag becomes a quality and retention risk."
		case o.LimiterTime:
			return "If nothing changes, growth will keep compressing the founder's bandwidth until the constraint forces a plateau or a breakdown."
		}
		return "If nothing changes, growth will keep straining the current structure until it either plateaus or fractures."
	case o.StateStableCapped:
		return "If nothing changes, the business will keep performing at its current structural ceiling: no crisis, but no upside either."
	case o.StateProfitableHeavy:
		return "If nothing changes, profitability will hold as long as the founder does, but the business has no pathway to scale or exit."
	default:
		return "If nothing changes, the current constraints will gradually tighten as operational demands increase."
	}
}

// tension is one contradiction between two answers. The first that holds
// is reported.
type tension struct {
	holds func(intake.Response) bool
	text  string
}

var tensions = []tension{
	{
		holds: func(r intake.Response) bool {
			return r.Is(o.RevenueGeneration, o.RevenueTeamIndependent) && r.IsAny(o.FinalDecisions, o.DecisionsAlwaysMe, o.DecisionsMostlyMe)
		},
		text: "The team is capable of independent delivery, but decision authority remains centralized.",
	},
	{
		holds: func(r intake.Response) bool {
			return r.Is(o.HiringSituation, o.HiringHardToFind) && r.Is(o.GrowthLimiter, o.LimiterPricing)
		},
		text: "Hiring is constrained, but the pricing structure is unchanged. The business can't attract the talent it needs at current margins.",
	},
	{
		holds: func(r intake.Response) bool {
			return r.Is(o.ProcessDocumentation, o.DocsNotUsed) && r.Is(o.ProjectStall, o.StallApproval)
		},
		text: "Processes are documented, but the team still waits on founder approval. The bottleneck is authority, not knowledge.",
	},
	{
		holds: func(r intake.Response) bool {
			return r.Is(o.FreeCapacity, o.FreeDelegateApprovals) && r.Is(o.FinalDecisions, o.DecisionsAlwaysMe)
		},
		text: "The founder wants to delegate decisions but hasn't started. The constraint is structural, not aspirational.",
	},
	{
		holds: func(r intake.Response) bool {
			return teamDelivers(r) && r.Is(o.KeyMemberLeaves, o.KeyLeaveRevenueDrops)
		},
		text: "The team handles delivery, but losing a key member still drops revenue. Concentration has shifted from the founder to individuals.",
	},
	{
		holds: func(r intake.Response) bool {
			return r.Is(o.FreeCapacity, o.FreeHire) && r.Is(o.GrowthLimiter, o.LimiterOps)
		},
		text: "Hiring is seen as the solution, but operational inefficiency is the actual limiter. More people won't fix broken systems.",
	},
	{
		holds: func(r intake.Response) bool {
			return r.Is(o.TwoWeekAbsence, o.AbsenceRunsNormally) && r.Is(o.ClientRelationship, o.ClientsHireMe)
		},
		text: "Operations run without the founder, but clients still expect founder involvement. The constraint is perception, not capability.",
	},
	{
		holds: func(r intake.Response) bool {
			return r.Is(o.ProcessDocumentation, o.DocsInHead) && teamDelivers(r)
		},
		text: "The team delivers the service, but processes live in the founder's head. The gap between execution and documentation creates hidden risk.",
	},
	{
		holds: func(r intake.Response) bool {
			return r.Is(o.FreeCapacity, o.FreeSystems) && r.Is(o.ProcessDocumentation, o.DocsInHead)
		},
		text: "Better systems are named as the lever, but no documented processes exist to systematize. The foundation hasn't been laid.",
	},
	{
		holds: func(r intake.Response) bool {
			return r.Is(o.CurrentState, o.StateGrowingStrained) && r.Is(o.HiringSituation, o.HiringFullyStaffed)
		},
		text: "Growing but strained despite being fully staffed. The constraint isn't headcount; it's how work is structured.",
	},
	{
		holds: func(r intake.Response) bool {
			return r.Is(o.RolesHandled, o.RolesSevenPlus) && r.Is(o.CurrentState, o.StateProfitableHeavy)
		},
		text: "Profitable, but the founder is handling 7+ roles. Profitability masks an unsustainable operating model.",
	},
	{
		holds: func(r intake.Response) bool {
			return r.Is(o.InterruptionFrequency, o.InterruptConstantly) && r.Is(o.GrowthLimiter, o.LimiterTime)
		},
		text: "Not enough time is the stated growth limiter, but constant decision interruptions are consuming the time that exists.",
	},
	{
		holds: func(r intake.Response) bool {
			return r.Is(o.FinalDecisions, o.DecisionsShared) && r.Is(o.ProjectStall, o.StallApproval)
		},
		text: "Decision authority is shared in theory, but projects still stall waiting on founder approval.",
	},
	{
		holds: func(r intake.Response) bool {
			return r.Is(o.InterruptionFrequency, o.InterruptFewWeekly) && r.Is(o.GrowthLimiter, o.LimiterTime)
		},
		text: "Interruptions are infrequent, yet time is the growth limiter. The drain is somewhere other than decision load.",
	},
	{
		holds: func(r intake.Response) bool {
			return r.Is(o.ProcessDocumentation, o.DocsNotUsed) && r.Is(o.RevenueGeneration, o.RevenueTeamReviews)
		},
		text: "The team delivers against documented processes, yet every deliverable still passes founder review. The documentation has become a formality.",
	},
	{
		holds: func(r intake.Response) bool {
			return r.Is(o.CurrentState, o.StateStableCapped) && r.Is(o.ProjectStall, o.StallTeamExecution)
		},
		text: "The business is stable but capped, and projects stall on team execution. The ceiling is delivery capacity, not demand.",
	},
	{
		holds: func(r intake.Response) bool {
			return r.Is(o.CurrentState, o.StateStableCapped) && r.Is(o.GrowthLimiter, o.LimiterTime)
		},
		text: "The business is stable but capped by the founder's hours. This is a capacity problem presenting as a plateau.",
	},
}

const fallbackTension = "The current structure was designed for an earlier stage; what built the business is now constraining it."

func structuralTension(r intake.Response) string {
	for _, t := range tensions {
		if t.holds(r) {
			return t.text
		}
	}
	return fallbackTension
}

package scoring

import (
	"clarity-backend/internal/diagnostic/intake"
	o "clarity-backend/internal/diagnostic/options"
)

type delta struct {
	dim    Dimension
	points int
}

func fc(n int) delta { return delta{FounderCentralization, n} }
func sf(n int) delta { return delta{StructuralFragility, n} }
func db(n int) delta { return delta{DecisionBottleneck, n} }
func cc(n int) delta { return delta{CapacityConstraint, n} }

// contribution fires when question is answered with exactly option.
type contribution struct {
	question string
	option   string
	deltas   []delta
}

var contributions = []contribution{
	{o.BusinessModel, o.ModelAdvisory, []delta{fc(5)}},

	{o.RevenueGeneration, o.RevenueFounderMajority, []delta{fc(25), cc(15)}},
	{o.RevenueGeneration, o.RevenueTeamReviews, []delta{fc(12), db(8)}},
	{o.RevenueGeneration, o.RevenueMix, []delta{fc(10), cc(5)}},

	{o.TwoWeekAbsence, o.AbsenceRevenueDrops, []delta{fc(25), sf(20)}},
	{o.TwoWeekAbsence, o.AbsenceWorkSlows, []delta{fc(15), sf(10)}},
	{o.TwoWeekAbsence, o.AbsenceEscalates, []delta{db(12)}},

	{o.FinalDecisions, o.DecisionsAlwaysMe, []delta{db(25), fc(10)}},
	{o.FinalDecisions, o.DecisionsMostlyMe, []delta{db(15), fc(5)}},
	{o.FinalDecisions, o.DecisionsShared, []delta{db(5)}},

	{o.ProjectStall, o.StallApproval, []delta{db(20)}},
	{o.ProjectStall, o.StallTeamExecution, []delta{cc(10), sf(5)}},
	{o.ProjectStall, o.StallStaffing, []delta{cc(15)}},

	{o.GrowthLimiter, o.LimiterTime, []delta{cc(20), fc(10)}},
	{o.GrowthLimiter, o.LimiterStaff, []delta{cc(20)}},
	{o.GrowthLimiter, o.LimiterOps, []delta{sf(15), cc(5)}},
	{o.GrowthLimiter, o.LimiterPricing, []delta{cc(10)}},
	{o.GrowthLimiter, o.LimiterDemand, []delta{cc(8)}},

	{o.ProcessDocumentation, o.DocsInHead, []delta{sf(25), fc(10)}},
	{o.ProcessDocumentation, o.DocsLight, []delta{sf(12)}},
	{o.ProcessDocumentation, o.DocsNotUsed, []delta{sf(15), db(5)}},

	{o.RolesHandled, o.RolesSevenPlus, []delta{fc(15), sf(10), cc(10)}},
	{o.RolesHandled, o.RolesFiveSix, []delta{fc(10), cc(8)}},
	{o.RolesHandled, o.RolesThreeFour, []delta{fc(5)}},

	{o.ClientRelationship, o.ClientsHireMe, []delta{fc(20)}},
	{o.ClientRelationship, o.ClientsExpectMe, []delta{fc(12)}},

	{o.KeyMemberLeaves, o.KeyLeaveRevenueDrops, []delta{sf(20), cc(10)}},
	{o.KeyMemberLeaves, o.KeyLeaveDeliverySlows, []delta{sf(12)}},
	{o.KeyMemberLeaves, o.KeyLeaveTemporary, []delta{sf(5)}},

	{o.PricingDecisions, o.PricingOnlyMe, []delta{db(10), fc(8)}},
	{o.PricingDecisions, o.PricingIApprove, []delta{db(5)}},

	{o.InterruptionFrequency, o.InterruptConstantly, []delta{db(20), cc(10)}},
	{o.InterruptionFrequency, o.InterruptMultipleDaily, []delta{db(12), cc(5)}},
	{o.InterruptionFrequency, o.InterruptFewWeekly, []delta{db(4)}},

	{o.HiringSituation, o.HiringHardToFind, []delta{cc(15)}},
	{o.HiringSituation, o.HiringOccasionally, []delta{cc(5)}},

	{o.FreeCapacity, o.FreeDelegateApprovals, []delta{db(8)}},
	{o.FreeCapacity, o.FreeHire, []delta{cc(8)}},
	{o.FreeCapacity, o.FreeSystems, []delta{sf(8)}},
	{o.FreeCapacity, o.FreeRaisePrices, []delta{cc(5)}},
	{o.FreeCapacity, o.FreeReduceClients, []delta{fc(5), cc(5)}},

	{o.CurrentState, o.StateChaotic, []delta{sf(15), cc(10)}},
	{o.CurrentState, o.StateGrowingStrained, []delta{cc(12)}},
	{o.CurrentState, o.StateStableCapped, []delta{cc(10), sf(5)}},
	{o.CurrentState, o.StateProfitableHeavy, []delta{fc(15)}},
}

// clause holds when question is answered with exactly one of anyOf.
type clause struct {
	question string
	anyOf    []string
}

func (c clause) holds(r intake.Response) bool {
	return r.IsAny(c.question, c.anyOf...)
}

// boost adds a compound bonus when every clause holds.
type boost struct {
	name   string
	all    []clause
	deltas []delta
}

func (b boost) holds(r intake.Response) bool {
	for _, c := range b.all {
		if !c.holds(r) {
			return false
		}
	}
	return len(b.all) > 0
}

var boosts = []boost{
	{
		name: "founder_lock",
		all: []clause{
			{o.RevenueGeneration, []string{o.RevenueFounderMajority}},
			{o.TwoWeekAbsence, []string{o.AbsenceRevenueDrops}},
			{o.FinalDecisions, []string{o.DecisionsAlwaysMe}},
		},
		deltas: []delta{fc(10)},
	},
	{
		name: "knowledge_silo",
		all: []clause{
			{o.ProcessDocumentation, []string{o.DocsInHead}},
			{o.ClientRelationship, []string{o.ClientsHireMe}},
			{o.PricingDecisions, []string{o.PricingOnlyMe, o.PricingIApprove}},
		},
		deltas: []delta{fc(20), sf(10)},
	},
	{
		name: "decision_overload",
		all: []clause{
			{o.FinalDecisions, []string{o.DecisionsAlwaysMe, o.DecisionsMostlyMe}},
			{o.ProjectStall, []string{o.StallApproval}},
			{o.InterruptionFrequency, []string{o.InterruptConstantly}},
		},
		deltas: []delta{db(15)},
	},
	{
		name: "process_gap",
		all: []clause{
			{o.ProcessDocumentation, []string{o.DocsNotUsed}},
			{o.ProjectStall, []string{o.StallTeamExecution}},
		},
		deltas: []delta{sf(10)},
	},
	{
		name: "well_delegated",
		all: []clause{
			{o.RevenueGeneration, []string{o.RevenueTeamIndependent}},
			{o.FinalDecisions, []string{o.DecisionsRarelyMe}},
			{o.ProcessDocumentation, []string{o.DocsFully}},
			{o.TwoWeekAbsence, []string{o.AbsenceRunsNormally}},
		},
		deltas: []delta{cc(-15)},
	},
}

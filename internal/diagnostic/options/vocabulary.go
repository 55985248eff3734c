// Package options holds the canonical answer strings stored by the intake
// form. Scoring compares against these values with exact equality.
package options

// Question ids of the v2 intake.
const (
	BusinessModel         = "business_model"
	RevenueGeneration     = "revenue_generation"
	TwoWeekAbsence        = "two_week_absence"
	FinalDecisions        = "final_decisions"
	ProjectStall          = "project_stall"
	GrowthLimiter         = "growth_limiter"
	ProcessDocumentation  = "process_documentation"
	RolesHandled          = "roles_handled"
	ClientRelationship    = "client_relationship"
	KeyMemberLeaves       = "key_member_leaves"
	PricingDecisions      = "pricing_decisions"
	InterruptionFrequency = "interruption_frequency"
	HiringSituation       = "hiring_situation"
	FreeCapacity          = "free_capacity"
	CurrentState          = "current_state"
)

// business_model
const (
	ModelStandardized = "Standardized service"
	ModelCreative     = "Creative service"
	ModelExpert       = "Expert service"
	ModelAdvisory     = "Advisory/coaching"
	ModelHybrid       = "Hybrid model"
)

// revenue_generation
const (
	RevenueFounderMajority = "Founder delivers majority of service"
	RevenueTeamReviews     = "Team delivers, founder reviews"
	RevenueTeamIndependent = "Team delivers independently"
	RevenueMix             = "Mix of founder + team delivery"
)

// two_week_absence
const (
	AbsenceRevenueDrops = "Revenue drops immediately"
	AbsenceWorkSlows    = "Work slows significantly"
	AbsenceEscalates    = "Team continues but escalates decisions"
	AbsenceRunsNormally = "Business runs mostly normally"
)

// final_decisions
const (
	DecisionsAlwaysMe = "Always me"
	DecisionsMostlyMe = "Mostly me"
	DecisionsShared   = "Shared with senior team"
	DecisionsRarelyMe = "Rarely me"
)

// project_stall
const (
	StallApproval      = "Waiting on my approval"
	StallTeamExecution = "Waiting on team execution"
	StallClients       = "Waiting on clients"
	StallStaffing      = "Hiring/staffing gaps"
	StallNowhere       = "Nowhere obvious"
)

// growth_limiter
const (
	LimiterTime    = "Not enough time"
	LimiterStaff   = "Not enough qualified staff"
	LimiterDemand  = "Inconsistent demand"
	LimiterPricing = "Pricing structure"
	LimiterOps     = "Operational inefficiency"
)

// process_documentation
const (
	DocsInHead  = "Mostly in my head"
	DocsLight   = "Light documentation"
	DocsNotUsed = "Documented but not used"
	DocsFully   = "Fully documented and followed"
)

// roles_handled. The ranges use an en dash.
const (
	RolesOneTwo    = "1–2"
	RolesThreeFour = "3–4"
	RolesFiveSix   = "5–6"
	RolesSevenPlus = "7+"
)

// client_relationship
const (
	ClientsHireMe    = "Clients hire me specifically"
	ClientsExpectMe  = "Clients hire the firm but expect me involved"
	ClientsAssigned  = "Clients are assigned to team members"
	ClientsNoFounder = "No founder involvement needed"
)

// key_member_leaves
const (
	KeyLeaveRevenueDrops  = "Revenue drops"
	KeyLeaveDeliverySlows = "Delivery slows"
	KeyLeaveTemporary     = "Temporary disruption"
	KeyLeaveMinimal       = "Minimal impact"
)

// pricing_decisions
const (
	PricingOnlyMe     = "Only by me"
	PricingIApprove   = "I approve final pricing"
	PricingSeniorTeam = "Senior team sets pricing"
	PricingFixed      = "Fixed pricing structure"
)

// interruption_frequency
const (
	InterruptConstantly    = "Constantly throughout the day"
	InterruptMultipleDaily = "Multiple times daily"
	InterruptFewWeekly     = "A few times per week"
	InterruptRarely        = "Rarely"
)

// hiring_situation
const (
	HiringHardToFind   = "Actively hiring, hard to find talent"
	HiringOccasionally = "Hiring occasionally"
	HiringFullyStaffed = "Fully staffed"
	HiringOverstaffed  = "Overstaffed"
)

// free_capacity
const (
	FreeDelegateApprovals = "Delegating approvals"
	FreeHire              = "Hiring more staff"
	FreeSystems           = "Better systems"
	FreeRaisePrices       = "Raising prices"
	FreeReduceClients     = "Reducing client load"
)

// current_state
const (
	StateChaotic         = "Chaotic and reactive"
	StateGrowingStrained = "Growing but strained"
	StateStableCapped    = "Stable but capped"
	StateProfitableHeavy = "Profitable but founder-heavy"
	StateUnsure          = "Unsure"
)

var vocabulary = map[string][]string{
	BusinessModel:         {ModelStandardized, ModelCreative, ModelExpert, ModelAdvisory, ModelHybrid},
	RevenueGeneration:     {RevenueFounderMajority, RevenueTeamReviews, RevenueTeamIndependent, RevenueMix},
	TwoWeekAbsence:        {AbsenceRevenueDrops, AbsenceWorkSlows, AbsenceEscalates, AbsenceRunsNormally},
	FinalDecisions:        {DecisionsAlwaysMe, DecisionsMostlyMe, DecisionsShared, DecisionsRarelyMe},
	ProjectStall:          {StallApproval, StallTeamExecution, StallClients, StallStaffing, StallNowhere},
	GrowthLimiter:         {LimiterTime, LimiterStaff, LimiterDemand, LimiterPricing, LimiterOps},
	ProcessDocumentation:  {DocsInHead, DocsLight, DocsNotUsed, DocsFully},
	RolesHandled:          {RolesOneTwo, RolesThreeFour, RolesFiveSix, RolesSevenPlus},
	ClientRelationship:    {ClientsHireMe, ClientsExpectMe, ClientsAssigned, ClientsNoFounder},
	KeyMemberLeaves:       {KeyLeaveRevenueDrops, KeyLeaveDeliverySlows, KeyLeaveTemporary, KeyLeaveMinimal},
	PricingDecisions:      {PricingOnlyMe, PricingIApprove, PricingSeniorTeam, PricingFixed},
	InterruptionFrequency: {InterruptConstantly, InterruptMultipleDaily, InterruptFewWeekly, InterruptRarely},
	HiringSituation:       {HiringHardToFind, HiringOccasionally, HiringFullyStaffed, HiringOverstaffed},
	FreeCapacity:          {FreeDelegateApprovals, FreeHire, FreeSystems, FreeRaisePrices, FreeReduceClients},
	CurrentState:          {StateChaotic, StateGrowingStrained, StateStableCapped, StateProfitableHeavy, StateUnsure},
}

// Questions returns the v2 question ids in intake order.
func Questions() []string {
	return []string{
		BusinessModel, RevenueGeneration, TwoWeekAbsence, FinalDecisions, ProjectStall,
		GrowthLimiter, ProcessDocumentation, RolesHandled, ClientRelationship, KeyMemberLeaves,
		PricingDecisions, InterruptionFrequency, HiringSituation, FreeCapacity, CurrentState,
	}
}

// For returns the canonical options of a question, or nil for unknown ids.
func For(questionID string) []string {
	opts, ok := vocabulary[questionID]
	if !ok {
		return nil
	}
	return append([]string(nil), opts...)
}

// IsCanonical reports whether value is exactly one of the question's options.
func IsCanonical(questionID, value string) bool {
	for _, opt := range vocabulary[questionID] {
		if opt == value {
			return true
		}
	}
	return false
}

package options

// clean maps stored options to prose-safe phrases that never repeat the
// label they are rendered under.
var clean = map[string]map[string]string{
	RevenueGeneration: {
		RevenueFounderMajority: "Founder delivers majority of service",
		RevenueTeamReviews:     "Team delivers, founder reviews",
		RevenueTeamIndependent: "Team delivers independently",
		RevenueMix:             "Split between founder and team",
	},
	FinalDecisions: {
		DecisionsAlwaysMe: "All decisions route through founder",
		DecisionsMostlyMe: "Most decisions route through founder",
		DecisionsShared:   "Shared with senior staff",
		DecisionsRarelyMe: "Team makes most decisions independently",
	},
	ProcessDocumentation: {
		DocsInHead:  "Not systemized (in founder's head)",
		DocsLight:   "Partial documentation exists",
		DocsNotUsed: "Documented but not followed",
		DocsFully:   "Fully documented and followed",
	},
	RolesHandled: {
		RolesSevenPlus: "7+ roles",
		RolesFiveSix:   "5–6 roles",
		RolesThreeFour: "3–4 roles",
		RolesOneTwo:    "1–2 roles",
	},
	InterruptionFrequency: {
		InterruptConstantly:    "Constant throughout the day",
		InterruptMultipleDaily: "Multiple times daily",
		InterruptFewWeekly:     "A few times per week",
		InterruptRarely:        "Rarely",
	},
	ClientRelationship: {
		ClientsHireMe:    "Clients hire founder specifically",
		ClientsExpectMe:  "Clients expect founder involvement",
		ClientsAssigned:  "Clients work directly with team",
		ClientsNoFounder: "No founder involvement needed",
	},
}

// CleanDisplay returns the display alias for a stored value, falling back to
// the raw value. Empty input yields an empty string.
func CleanDisplay(questionID, value string) string {
	if value == "" {
		return ""
	}
	if alias, ok := clean[questionID][value]; ok {
		return alias
	}
	return value
}

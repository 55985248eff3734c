package insights

// Deep-dive question ids read by the rules.
const (
	qToolZombieCheck       = "tool_zombie_check"
	qToolZombieCount       = "tool_zombie_count"
	qToolCount             = "tool_count"
	qSearchFriction        = "search_friction"
	qLeadGenIntake         = "lead_gen_intake"
	qBusFactor             = "bus_factor_30_day"
	qReviewQualityControl  = "review_quality_control"
	qReworkLoop            = "rework_loop"
	qRunwayStressTest      = "runway_stress_test"
	qEnergyRunway          = "energy_runway"
	qMicroDecisions        = "micro_decision_frequency"
	qDeepWorkAudit         = "deep_work_audit"
	qOnboardingIntegration = "onboarding_integration"
	qHandoffDependency     = "handoff_dependency"
	qRevenueLeakage        = "revenue_leakage_estimator"
	qProfitabilityGutCheck = "profitability_gut_check"
	qPricingConfidence     = "pricing_confidence"
	qPricingLastRaised     = "pricing_last_raised"
	qTrustSystemDrillDown  = "trust_system_drill_down"
	qWaitTimeAnalysis      = "wait_time_analysis"
	qAverageServiceRate    = "average_service_rate"
	qLowValueHoursAudit    = "low_value_hours_audit"
	qQualificationTriage   = "qualification_triage"
	qSalesCommitment       = "sales_commitment"
	qTeamIdleTimeCost      = "team_idle_time_cost"
	qGatekeeperProtocol    = "gatekeeper_protocol"
	qRecoveryTax           = "recovery_tax"
)

var shortDeepWork = []string{"Less than 1 hour", "1-1.9 hours"}

var rules = []rule{
	{
		id:       "tool_sprawl",
		severity: SeverityMedium,
		label:    "Tool sprawl + unused stack",
		detail:   "The business is paying for tools it doesn't use, and the overall tool count is high. This creates cost leakage and cognitive overhead.",
		when: []condition{
			{field: qToolZombieCheck, includes: "Yes"},
			{field: qToolCount, numericGte: gte(10)},
		},
		evidence: []string{qToolZombieCheck, qToolZombieCount, qToolCount},
	},
	{
		id:       "intake_retrieval_gap",
		severity: SeverityHigh,
		label:    "No intake system + high retrieval tax",
		detail:   "Leads live in inboxes or DMs and the team spends 6+ hours per week searching for information. There's no single source of truth.",
		when: []condition{
			{field: qSearchFriction, includes: "6+"},
			{field: qLeadGenIntake, includes: "inbox"},
		},
		evidence: []string{qSearchFriction, qLeadGenIntake},
	},
	{
		id:       "founder_quality_gate",
		severity: SeverityHigh,
		label:    "Founder as sole quality gate",
		detail:   "The business collapses without the founder, and the founder reviews everything before it reaches the client. The quality gate and the single point of failure are the same person.",
		when: []condition{
			{field: qBusFactor, includes: "collapses"},
			{field: qReviewQualityControl, includes: "I review everything"},
		},
		evidence: []string{qBusFactor, qReviewQualityControl},
	},
	{
		id:       "rework_qc_trap",
		severity: SeverityHigh,
		label:    "Rework loop + founder QC trap",
		detail:   "More than 50% of work is returned for revision, and the founder reviews everything. The QC dependency creates a self-reinforcing rework cycle.",
		when: []condition{
			{field: qReworkLoop, includes: "50%"},
			{field: qReviewQualityControl, includes: "I review everything"},
		},
		evidence: []string{qReworkLoop, qReviewQualityControl},
	},
	{
		id:       "cash_vs_burnout",
		severity: SeverityHigh,
		label:    "Financial stability, human instability",
		detail:   "Cash reserves look stable, but the founder is burning out or already there. The business is financially sound but operationally unsustainable.",
		when: []condition{
			{field: qRunwayStressTest, includesAny: []string{"Stable", "Secure"}},
			{field: qEnergyRunway, includesAny: []string{"already burning out", "6-12 weeks"}},
		},
		evidence: []string{qRunwayStressTest, qEnergyRunway},
	},
	{
		id:       "micro_decision_overload",
		severity: SeverityMedium,
		label:    "Micro-decision overload consuming deep work",
		detail:   "The founder is fielding 16+ micro-decisions per day and can't achieve more than an hour of uninterrupted focus. Decision volume is the primary capacity drain.",
		when: []condition{
			{field: qMicroDecisions, includes: "16+"},
			{field: qDeepWorkAudit, includesAny: shortDeepWork},
		},
		evidence: []string{qMicroDecisions, qDeepWorkAudit},
	},
	{
		id:       "onboarding_bottleneck",
		severity: SeverityMedium,
		label:    "Onboarding bottleneck + handoff dependency",
		detail:   "The founder manages all onboarding and must personally translate client needs to the team. This creates a serial dependency at project start.",
		when: []condition{
			{field: qOnboardingIntegration, includes: "I personally manage"},
			{field: qHandoffDependency, includes: "I always have to translate"},
		},
		evidence: []string{qOnboardingIntegration, qHandoffDependency},
	},
	{
		id:       "revenue_leakage_acknowledged",
		severity: SeverityMedium,
		label:    "Revenue leakage from operational delays",
		detail:   "The founder acknowledges losing revenue due to operational delays. Combined with tight cash flow, this indicates a structural revenue problem.",
		when: []condition{
			{field: qRevenueLeakage, includes: "Yes"},
			{field: qProfitabilityGutCheck, includesAny: []string{"cash is always tight", "Losing money"}},
		},
		evidence: []string{qRevenueLeakage, qProfitabilityGutCheck},
	},
	{
		id:       "pricing_paralysis",
		severity: SeverityMedium,
		label:    "Pricing fear + stale pricing",
		detail:   "The founder suspects undercharging but fears raising prices, and hasn't changed pricing in over a year. Margins are eroding by default.",
		when: []condition{
			{field: qPricingConfidence, includes: "afraid to raise"},
			{field: qPricingLastRaised, includesAny: []string{"1-2 years ago", "Over 2 years"}},
		},
		evidence: []string{qPricingConfidence, qPricingLastRaised},
	},
	{
		id:       "system_avoidance",
		severity: SeverityHigh,
		label:    "High bus factor + system-avoidance instinct",
		detail:   "The business collapses without the founder, and the founder's instinct is to handle problems personally rather than build systems. The fragility is behavioral.",
		when: []condition{
			{field: qBusFactor, includes: "collapses"},
			{field: qTrustSystemDrillDown, includes: "Handle it yourself"},
		},
		evidence: []string{qBusFactor, qTrustSystemDrillDown},
	},
	{
		id:       "wait_time_bottleneck",
		severity: SeverityMedium,
		label:    "Significant pipeline wait time",
		detail:   "Completed work sits 3-5 days or more before the next action. This lag compounds across projects and artificially limits throughput.",
		when: []condition{
			{field: qWaitTimeAnalysis, includesAny: []string{"3-5 days", "clear the deck"}},
		},
		evidence: []string{qWaitTimeAnalysis},
	},
	{
		id:       "admin_rate_mismatch",
		severity: SeverityMedium,
		label:    "High-rate founder doing low-value work",
		detail:   "The founder charges $150+/hr but spends 6+ hours per week on tasks an admin could handle. That's significant implicit cost.",
		when: []condition{
			{field: qAverageServiceRate, includesAny: []string{"$150", "$250"}},
			{field: qLowValueHoursAudit, includesAny: []string{"6-10 hours", "10+ hours"}},
		},
		evidence: []string{qAverageServiceRate, qLowValueHoursAudit},
	},
	{
		id:       "sales_bottleneck",
		severity: SeverityMedium,
		label:    "Sales pipeline fully founder-dependent",
		detail:   "The founder personally screens every client and writes or approves every proposal. The sales pipeline can't function without them.",
		when: []condition{
			{field: qQualificationTriage, includes: "I personally screen"},
			{field: qSalesCommitment, includes: "I write/approve everything"},
		},
		evidence: []string{qQualificationTriage, qSalesCommitment},
	},
	{
		id:       "team_idle_approval_gate",
		severity: SeverityHigh,
		label:    "Team idle time from approval bottleneck",
		detail:   "Team members wait significant hours weekly for founder approval. This is paid downtime created by centralized authority.",
		when: []condition{
			{field: qTeamIdleTimeCost, numericGte: gte(5)},
			{field: qGatekeeperProtocol, includes: "pauses work"},
		},
		evidence: []string{qTeamIdleTimeCost, qGatekeeperProtocol},
	},
	{
		id:       "context_switch_penalty",
		severity: SeverityLow,
		label:    "High context-switching penalty",
		detail:   "When interrupted, focus is significantly impaired or the task is abandoned. Combined with short deep-work blocks, effective working capacity is much lower than hours suggest.",
		when: []condition{
			{field: qRecoveryTax, includesAny: []string{"Significant effort", "abandoned"}},
			{field: qDeepWorkAudit, includesAny: shortDeepWork},
		},
		evidence: []string{qRecoveryTax, qDeepWorkAudit},
	},
}

package report

import (
	"strings"

	"clarity-backend/internal/diagnostic/intake"
	o "clarity-backend/internal/diagnostic/options"
)

// Deep-intake and legacy question ids read by the full report.
const (
	keyAbsenceImpact       = "absence_impact"
	keyApprovalFrequency   = "approval_frequency"
	keyBiggestFrustration  = "biggest_frustration"
	keyBusFactor           = "bus_factor_30_day"
	keyCapacityUtilization = "capacity_utilization"
	keyClientExpectation   = "client_expectation"
	keyCloseOut            = "delivery_close_out"
	keyCollapseDiagnosis   = "collapse_diagnosis"
	keyContextSwitching    = "context_switching"
	keyDecisionBacklog     = "decision_backlog"
	keyDeepWork            = "deep_work_audit"
	keyDelegationBlocker   = "delegation_blocker"
	keyDelegationFear      = "delegation_fear"
	keyDelegationSupport   = "has_delegation_support"
	keyDocState            = "doc_state"
	keyDocUsage            = "doc_usage"
	keyEnergyRunway        = "energy_runway"
	keyExpenseAwareness    = "expense_awareness"
	keyFinancialAuthority  = "financial_authority_threshold"
	keyFulfillment         = "fulfillment_production"
	keyGatekeeper          = "gatekeeper_protocol"
	keyHandoff             = "handoff_dependency"
	keyIdentityAttachment  = "identity_attachment"
	keyInterruptionSource  = "interruption_source_id"
	keyLastHourDelegated   = "last_hour_wished_delegated"
	keyLeadGen             = "lead_gen_intake"
	keyLeakage             = "revenue_leakage_estimator"
	keyLowValueHours       = "low_value_hours_audit"
	keyMagicWand           = "magic_wand_fix"
	keyMentalEnergy        = "mental_energy"
	keyMicroFrequency      = "micro_decision_frequency"
	keyOnboarding          = "onboarding_integration"
	keyPricingConfidence   = "pricing_confidence"
	keyPricingLastRaised   = "pricing_last_raised"
	keyProfitability       = "profitability_gut_check"
	keyProjectPileUp       = "project_pile_up"
	keyQualification       = "qualification_triage"
	keyRecoveryTax         = "recovery_tax"
	keyResponsibilities    = "founder_responsibilities"
	keyRevenueDependency   = "revenue_dependency"
	keyRevenueRange        = "revenue_range"
	keyReviewQC            = "review_quality_control"
	keyRework              = "rework_loop"
	keyRunway              = "runway_stress_test"
	keySalesCommitment     = "sales_commitment"
	keySearchFriction      = "search_friction"
	keyServiceRate         = "average_service_rate"
	keyStrategicWork       = "strategic_work_id"
	keySuperpower1         = "superpower_1"
	keySuperpower2         = "superpower_2"
	keySuperpowerAudit     = "superpower_audit"
	keyTeamCapability      = "team_capability"
	keyToolCount           = "tool_count"
	keyToolZombieCheck     = "tool_zombie_check"
	keyToolZombieCount     = "tool_zombie_count"
	keyTrustInstinct       = "trust_system_drill_down"
	keyWaitTime            = "wait_time_analysis"
	keyWhatKeepsYouUp      = "what_keeps_you_up"
)

type pred = func(intake.Response) bool

func contains(key string, subs ...string) pred {
	return func(r intake.Response) bool { return r.ContainsAny(key, subs...) }
}

func fold(key, sub string) pred {
	return func(r intake.Response) bool { return r.ContainsFold(key, sub) }
}

func is(key string, opts ...string) pred {
	return func(r intake.Response) bool { return r.IsAny(key, opts...) }
}

func either(ps ...pred) pred {
	return func(r intake.Response) bool {
		for _, p := range ps {
			if p(r) {
				return true
			}
		}
		return false
	}
}

func both(a, b pred) pred {
	return func(r intake.Response) bool { return a(r) && b(r) }
}

func docsInHead(r intake.Response) bool {
	return r.Is(o.ProcessDocumentation, o.DocsInHead) || r.ContainsFold(keyDocState, "head")
}

// docsOutsideHead reports documentation that exists at least partly outside
// the founder, whether or not the team uses it.
func docsOutsideHead(r intake.Response) bool {
	if docsInHead(r) {
		return false
	}
	return r.IsAny(o.ProcessDocumentation, o.DocsLight, o.DocsNotUsed, o.DocsFully) ||
		r.ContainsAny(keyDocState, "Notes", "Handbook", "Centralized")
}

func docsCentralized(r intake.Response) bool {
	return r.Is(o.ProcessDocumentation, o.DocsFully) || r.Contains(keyDocState, "Centralized")
}

func teamReplicates(r intake.Response) bool {
	return r.Contains(keyTeamCapability, "Yes") && !r.Contains(keyTeamCapability, "training")
}

// teamReady reports a team that can carry work today, from either the
// initial capability answer or observed delivery autonomy.
func teamReady(r intake.Response) bool {
	return teamReplicates(r) || r.ContainsAny(keyFulfillment, "Always", "Mostly")
}

func identityAttached(r intake.Response) bool {
	return r.ContainsAny(keyIdentityAttachment, "I AM the work", "Practitioner")
}

func clientsFounderBound(r intake.Response) bool {
	return r.Is(o.ClientRelationship, o.ClientsHireMe) ||
		r.ContainsAny(keyClientExpectation, "Only me", "me specifically")
}

func supportAnswer(r intake.Response) string {
	return strings.ToLower(strings.TrimSpace(r.Text(keyDelegationSupport)))
}

func hasSupport(r intake.Response) bool {
	v := supportAnswer(r)
	return v != "" && !strings.HasPrefix(v, "no")
}

func lacksSupport(r intake.Response) bool {
	return strings.HasPrefix(supportAnswer(r), "no")
}

func constantSwitching(r intake.Response) bool {
	return r.ContainsAny(keyContextSwitching, "Non-stop", "10+") ||
		r.Is(o.InterruptionFrequency, o.InterruptConstantly)
}

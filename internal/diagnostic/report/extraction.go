package report

import (
	"math"
	"strings"

	"clarity-backend/internal/diagnostic/intake"
	o "clarity-backend/internal/diagnostic/options"
)

// FactorStatus is a traffic-light reading on one extraction factor.
type FactorStatus string

const (
	FactorGreen  FactorStatus = "green"
	FactorYellow FactorStatus = "yellow"
	FactorRed    FactorStatus = "red"
)

// ExtractionFactor is one qualitative input to extraction readiness.
type ExtractionFactor struct {
	Label  string       `json:"label"`
	Status FactorStatus `json:"status"`
	Detail string       `json:"detail"`
}

// ExtractionReadiness says how close the founder is to stepping out of
// day-to-day delivery.
type ExtractionReadiness struct {
	Score   int                `json:"score"`
	Level   Level              `json:"level"`
	Factors []ExtractionFactor `json:"factors"`
}

type factorCheck struct {
	holds  pred
	status FactorStatus
	detail string
}

var extractionFactors = []struct {
	label    string
	checks   []factorCheck
	fallback string
}{
	{"Team capability", []factorCheck{
		{teamReplicates, FactorGreen, "Team can already replicate founder output"},
		{contains(keyTeamCapability, "training"), FactorYellow, "Team can get there with training"},
		{contains(keyTeamCapability, "Maybe years", "No"), FactorRed, "Team can't yet replicate founder output"},
		{contains(keyFulfillment, "Always", "Mostly"), FactorGreen, "Team delivers core work autonomously"},
		{contains(keyFulfillment, "Sometimes"), FactorYellow, "Team needs occasional clarification"},
		{contains(keyFulfillment, "Never"), FactorRed, "Team needs constant guidance"},
	}, "Team capability wasn't assessed"},
	{"Documentation", []factorCheck{
		{docsCentralized, FactorGreen, "Processes are documented and centralized"},
		{docsInHead, FactorRed, "Processes live in the founder's head"},
		{docsOutsideHead, FactorYellow, "Documentation exists but is partial or unused"},
	}, "Documentation wasn't assessed"},
	{"Delegation target", []factorCheck{
		{hasSupport, FactorGreen, "Someone is in place to take delegated work"},
		{lacksSupport, FactorRed, "No one is in place to hand work to"},
		{fold(keyDelegationBlocker, "no one"), FactorRed, "No one to delegate to"},
	}, "No delegation target identified yet"},
	{"Readiness to step back", []factorCheck{
		{either(identityAttached, contains(keyDelegationFear, "don't need me")), FactorRed, "Founder identity is tied to doing the work"},
		{contains(keyTrustInstinct, "system/process"), FactorGreen, "Founder instinct is to build systems"},
		{contains(keyTrustInstinct, "Handle it yourself"), FactorYellow, "Founder instinct is to fix things personally"},
	}, "Readiness to step back wasn't assessed"},
	{"Client expectations", []factorCheck{
		{clientsFounderBound, FactorRed, "Clients expect the founder specifically"},
		{is(o.ClientRelationship, o.ClientsExpectMe), FactorYellow, "Clients hire the firm but expect founder involvement"},
		{is(o.ClientRelationship, o.ClientsAssigned, o.ClientsNoFounder), FactorGreen, "Clients work with the team directly"},
	}, "Client expectations weren't assessed"},
}

func extractionReadiness(r intake.Response, c CompositeScores) ExtractionReadiness {
	blend := 0.35*float64(c.DelegationReadiness.Score) +
		0.35*float64(c.SystemHealth.Score) +
		0.30*float64(100-c.FounderRisk.Score)
	score := clamp(int(math.Round(blend)))

	factors := make([]ExtractionFactor, 0, len(extractionFactors))
	for _, f := range extractionFactors {
		factor := ExtractionFactor{Label: f.label, Status: FactorYellow, Detail: f.fallback}
		for _, check := range f.checks {
			if check.holds(r) {
				factor.Status = check.status
				factor.Detail = check.detail
				break
			}
		}
		factors = append(factors, factor)
	}
	return ExtractionReadiness{Score: score, Level: extractionBands.of(score), Factors: factors}
}

// Tier is when a responsibility can leave the founder's plate.
type Tier string

const (
	TierNow          Tier = "NOW"
	TierAfterSystems Tier = "AFTER_SYSTEMS"
	TierAfterHiring  Tier = "AFTER_HIRING"
	TierFounderOnly  Tier = "FOUNDER_ONLY"
)

// DelegationItem is one row of the delegation matrix.
type DelegationItem struct {
	Responsibility string `json:"responsibility"`
	Readiness      Tier   `json:"readiness"`
	Reasoning      string `json:"reasoning"`
	Prerequisite   string `json:"prerequisite,omitempty"`
}

type placement struct {
	tier         Tier
	reasoning    string
	prerequisite string
}

// responsibilityCategories are matched against the lower-cased
// responsibility in order; the last entry catches everything.
var responsibilityCategories = []struct {
	keywords []string
	place    func(intake.Response) placement
}{
	{[]string{"payroll", "financ", "invoic", "bookkeep", "billing"}, func(r intake.Response) placement {
		if docsOutsideHead(r) {
			return placement{TierNow, "Financial admin follows fixed rules and suits a bookkeeper.", ""}
		}
		return placement{TierAfterSystems, "Financial admin is rule-based once the rules are written down.", "Write down approval limits and the monthly close steps"}
	}},
	{[]string{"schedul", "calendar", "booking"}, func(intake.Response) placement {
		return placement{TierNow, "Scheduling is rule-based and low-risk to hand off.", ""}
	}},
	{[]string{"inventory", "supply", "ordering"}, func(r intake.Response) placement {
		if docsOutsideHead(r) {
			return placement{TierNow, "Inventory runs on reorder rules the team can follow.", ""}
		}
		return placement{TierAfterSystems, "Inventory can move once reorder rules exist.", "Set reorder points and a preferred supplier list"}
	}},
	{[]string{"marketing", "social", "content"}, func(r intake.Response) placement {
		if hasSupport(r) {
			return placement{TierNow, "Marketing execution can move to the support already in place.", ""}
		}
		return placement{TierAfterHiring, "Marketing needs an owner with time to run it.", "Hire or contract a marketing owner"}
	}},
	{[]string{"client", "customer", "communication"}, func(r intake.Response) placement {
		switch {
		case clientsFounderBound(r):
			return placement{TierAfterSystems, "Clients expect the founder, so the handoff has to be staged.", "Introduce a team point of contact on new accounts first"}
		case teamReady(r):
			return placement{TierNow, "The team already carries delivery and can own the conversation.", ""}
		default:
			return placement{TierAfterHiring, "No one on the team can carry client conversations yet.", "Hire or develop an account lead"}
		}
	}},
	{[]string{"hiring", "training", "recruit", "onboard"}, func(r intake.Response) placement {
		if teamReady(r) {
			return placement{TierAfterSystems, "Experienced team members can train others once the path is written.", "Document role scorecards and the training path"}
		}
		return placement{TierFounderOnly, "Until someone else can model the work, the founder sets the bar for new hires.", ""}
	}},
	{[]string{"quality", "review", "qc"}, func(r intake.Response) placement {
		switch {
		case identityAttached(r):
			return placement{TierFounderOnly, "Quality is tied to the founder's identity and moves last.", ""}
		case teamReady(r) && docsCentralized(r):
			return placement{TierNow, "Standards are written and the team meets them.", ""}
		default:
			return placement{TierAfterSystems, "Review can move once the definition of done is written.", "Write the definition of done for each deliverable"}
		}
	}},
	{nil, func(r intake.Response) placement {
		if teamReady(r) {
			return placement{TierAfterSystems, "The team can take this once the steps are documented.", "Document the steps before handing it over"}
		}
		return placement{TierAfterHiring, "No one has capacity to take this on yet.", "Add capacity before handing it over"}
	}},
}

func delegationMatrix(r intake.Response) []DelegationItem {
	items := r.Items(keyResponsibilities)
	out := make([]DelegationItem, 0, len(items))
	for _, resp := range items {
		resp = strings.TrimSpace(resp)
		if resp == "" {
			continue
		}
		lower := strings.ToLower(resp)
		for _, c := range responsibilityCategories {
			if c.keywords != nil && !containsAnyWord(lower, c.keywords) {
				continue
			}
			p := c.place(r)
			out = append(out, DelegationItem{
				Responsibility: resp,
				Readiness:      p.tier,
				Reasoning:      p.reasoning,
				Prerequisite:   p.prerequisite,
			})
			break
		}
	}
	return out
}

func containsAnyWord(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func countTier(items []DelegationItem, t Tier) int {
	n := 0
	for _, it := range items {
		if it.Readiness == t {
			n++
		}
	}
	return n
}

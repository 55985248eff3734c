package report

import (
	"fmt"
	"strings"

	"clarity-backend/internal/diagnostic/intake"
	o "clarity-backend/internal/diagnostic/options"
)

// Level is the qualitative band a score falls in.
type Level string

const (
	LevelCritical  Level = "CRITICAL"
	LevelHigh      Level = "HIGH"
	LevelModerate  Level = "MODERATE"
	LevelLow       Level = "LOW"
	LevelStrong    Level = "STRONG"
	LevelAdequate  Level = "ADEQUATE"
	LevelFragile   Level = "FRAGILE"
	LevelBroken    Level = "BROKEN"
	LevelReady     Level = "READY"
	LevelClose     Level = "CLOSE"
	LevelNotYet    Level = "NOT_YET"
	LevelBlocked   Level = "BLOCKED"
	LevelHealthy   Level = "HEALTHY"
	LevelAtRisk    Level = "AT_RISK"
	LevelEarly     Level = "EARLY"
	LevelEntangled Level = "ENTANGLED"
	LevelUnknown   Level = "UNKNOWN"
)

type cut struct {
	min   int
	level Level
}

// bands are ordered from the highest floor down; the last floor is 0.
type bands []cut

func (b bands) of(score int) Level {
	for _, c := range b {
		if score >= c.min {
			return c.level
		}
	}
	return b[len(b)-1].level
}

var (
	riskBands       = bands{{70, LevelCritical}, {50, LevelHigh}, {30, LevelModerate}, {0, LevelLow}}
	healthBands     = bands{{70, LevelStrong}, {50, LevelAdequate}, {30, LevelFragile}, {0, LevelBroken}}
	readinessBands  = bands{{60, LevelReady}, {40, LevelClose}, {20, LevelNotYet}, {0, LevelBlocked}}
	burnoutBands    = bands{{60, LevelCritical}, {40, LevelHigh}, {20, LevelModerate}, {0, LevelLow}}
	pricingBands    = bands{{60, LevelHealthy}, {40, LevelAtRisk}, {0, LevelCritical}}
	extractionBands = bands{{60, LevelReady}, {40, LevelClose}, {20, LevelEarly}, {0, LevelEntangled}}
	loadBands       = bands{{50, LevelHigh}, {25, LevelModerate}, {0, LevelLow}}
	frictionBands   = bands{{40, LevelHigh}, {20, LevelModerate}, {0, LevelLow}}
)

// Score is one reading: a clamped 0-100 score, its band and the evidence
// that moved it.
type Score struct {
	Score   int      `json:"score"`
	Level   Level    `json:"level"`
	Signals []string `json:"signals"`
}

// CompositeScores are the behind-the-scenes readings combining the initial
// and deep intakes.
type CompositeScores struct {
	FounderRisk         Score `json:"founderRisk"`
	SystemHealth        Score `json:"systemHealth"`
	DelegationReadiness Score `json:"delegationReadiness"`
	BurnoutRisk         Score `json:"burnoutRisk"`
	PricingHealth       Score `json:"pricingHealth"`
}

type tally struct {
	score   int
	signals []string
}

func newTally(base int) *tally {
	return &tally{score: base, signals: make([]string, 0)}
}

func (t *tally) add(points int, signal string) {
	t.score += points
	if signal != "" {
		t.signals = append(t.signals, signal)
	}
}

func (t *tally) run(r intake.Response, rules []scorer) *tally {
	for _, s := range rules {
		s.apply(r, t)
	}
	return t
}

func (t *tally) result(b bands) Score {
	s := clamp(t.score)
	return Score{Score: s, Level: b.of(s), Signals: t.signals}
}

func clamp(n int) int {
	switch {
	case n < 0:
		return 0
	case n > 100:
		return 100
	default:
		return n
	}
}

type scorer interface {
	apply(intake.Response, *tally)
}

type step struct {
	holds  pred
	points int
	signal string
}

// chain holds mutually exclusive steps in priority order; only the first
// step that holds contributes.
type chain []step

func (c chain) apply(r intake.Response, t *tally) {
	for _, s := range c {
		if s.holds(r) {
			t.add(s.points, s.signal)
			return
		}
	}
}

type scoreFunc func(intake.Response, *tally)

func (f scoreFunc) apply(r intake.Response, t *tally) { f(r, t) }

var collapseSignals = []struct{ sub, signal string }{
	{"Sales", "Sales stop without founder"},
	{"Delivery", "Delivery halts without founder"},
	{"Client", "Client relationships depend on founder"},
	{"Financial", "Only founder handles money"},
}

func collapseDiagnosis(r intake.Response, t *tally) {
	items := r.Items(keyCollapseDiagnosis)
	t.add(len(items)*8, "")
	for _, item := range items {
		for _, c := range collapseSignals {
			if strings.Contains(item, c.sub) {
				t.add(0, c.signal)
			}
		}
	}
}

var founderRiskRules = []scorer{
	chain{
		{contains(keyBusFactor, "collapses"), 40, "Business collapses without founder for 30 days"},
		{contains(keyBusFactor, "stalls"), 20, "Business stalls without founder"},
	},
	scoreFunc(collapseDiagnosis),
	chain{
		{contains(o.TwoWeekAbsence, "Everything stops"), 15, ""},
		{contains(o.TwoWeekAbsence, "Revenue drops"), 10, ""},
	},
	chain{
		{contains(keyRevenueDependency, "Goes to zero"), 15, ""},
		{contains(keyRevenueDependency, "Drops significantly"), 10, ""},
	},
	chain{{either(contains(keyClientExpectation, "Only me"), is(o.ClientRelationship, o.ClientsHireMe)), 10, ""}},
	chain{{contains(keyIdentityAttachment, "I AM the work"), 8, ""}},
	chain{{contains(keyReviewQC, "Yes - I review everything"), 10, "Founder reviews all deliverables"}},
	chain{{contains(keySalesCommitment, "Yes - I write/approve everything"), 8, "Founder writes or approves all proposals"}},
	chain{{contains(keyQualification, "personally screen"), 8, "Founder screens every client"}},
	chain{{contains(keyTrustInstinct, "Handle it yourself"), 10, "Default instinct: fix it yourself rather than build a system"}},
	chain{{is(o.RevenueGeneration, o.RevenueFounderMajority), 10, "Founder delivers the majority of the service"}},
	chain{{lacksSupport, 5, "No dedicated support to hand work to"}},
}

func toolZombies(r intake.Response, t *tally) {
	if !r.Contains(keyToolZombieCheck, "Yes") {
		return
	}
	switch n := r.Dollars(keyToolZombieCount); {
	case n >= 3:
		t.add(-15, fmt.Sprintf("%d unused tools still being paid for", n))
	case n >= 1:
		t.add(-8, fmt.Sprintf("%d zombie tool(s)", n))
	}
}

func toolSprawl(r intake.Response, t *tally) {
	switch n := r.Dollars(keyToolCount); {
	case n > 10:
		t.add(-15, fmt.Sprintf("%d tools in active use, a sign of fragmentation", n))
	case n > 6:
		t.add(-5, "")
	}
}

var systemHealthRules = []scorer{
	chain{
		{docsInHead, -30, "All processes live in the founder's head"},
		{contains(keyDocState, "Notes"), -15, "Documentation is fragmented notes"},
		{contains(keyDocState, "Handbook"), -5, ""},
	},
	chain{{either(contains(keyDocUsage, "Rarely", "No"), is(o.ProcessDocumentation, o.DocsNotUsed)), -10, "Existing docs aren't used by the team"}},
	scoreFunc(toolZombies),
	scoreFunc(toolSprawl),
	chain{
		{contains(keySearchFriction, "6+"), -15, "6+ hours a week spent searching for information"},
		{contains(keySearchFriction, "3-5"), -8, "3-5 hours a week lost to search friction"},
	},
	chain{
		{contains(keyLeadGen, "inbox/DMs"), -10, "Leads live in inbox and DMs with no system"},
		{contains(keyLeadGen, "Manual"), -5, ""},
	},
	chain{
		{contains(keyOnboarding, "personally manage"), -10, "Founder personally manages all onboarding"},
		{contains(keyOnboarding, "Partially"), -5, ""},
	},
	chain{{contains(keyCloseOut, "No"), -8, "No automated close-out process"}},
	chain{{fold(keyExpenseAwareness, "not sure"), -5, "Monthly expenses aren't tracked"}},
}

func financialAutonomy(r intake.Response, t *tally) {
	if !r.Has(keyFinancialAuthority) {
		return
	}
	switch n := r.Dollars(keyFinancialAuthority); {
	case n >= 2000:
		t.add(10, "Team has meaningful financial autonomy")
	case n <= 100:
		t.add(0, "Team can't spend $100 without approval")
	}
}

var delegationRules = []scorer{
	chain{{contains(keyTrustInstinct, "system/process"), 25, "Systems-first mindset, a good foundation for delegation"}},
	chain{
		{teamReplicates, 30, "Team can already replicate founder work"},
		{contains(keyTeamCapability, "Yes with training"), 20, "Team can get there with training investment"},
		{contains(keyTeamCapability, "Maybe years"), 5, ""},
	},
	chain{
		{contains(keyFulfillment, "Always"), 20, "Team is fully autonomous on core delivery"},
		{contains(keyFulfillment, "Mostly"), 15, "Experienced team members work independently"},
		{contains(keyFulfillment, "Never"), 0, "Team can't complete work without constant guidance"},
	},
	chain{
		{docsCentralized, 15, "Centralized docs support delegation"},
		{docsInHead, 0, "Nothing documented, so delegation requires extraction first"},
	},
	chain{
		{hasSupport, 10, "Dedicated support is in place to take delegated work"},
		{lacksSupport, 0, "No dedicated support to delegate to"},
	},
	chain{{identityAttached, -10, "Identity attachment may resist delegation"}},
	chain{{contains(keyDelegationFear, "don't need me"), -10, "Fear of irrelevance blocks delegation"}},
	scoreFunc(financialAutonomy),
}

var burnoutRules = []scorer{
	chain{
		{contains(keyEnergyRunway, "already burning out"), 40, "Already in burnout"},
		{contains(keyEnergyRunway, "6-12 weeks"), 30, "6-12 week burnout horizon"},
		{contains(keyEnergyRunway, "6 months"), 15, ""},
	},
	chain{
		{contains(keyMentalEnergy, "Fried"), 25, "Ends every day cognitively fried"},
		{contains(keyMentalEnergy, "Drained"), 15, "Consistent daily mental drain"},
	},
	chain{
		{contains(keyRunway, "Less than 4 weeks"), 20, "Under 4 weeks of cash reserves, so financial stress compounds everything"},
		{contains(keyRunway, "1-3 months"), 10, "Cash flow pressure with 1-3 months of runway"},
	},
	chain{{constantSwitching, 10, "Non-stop interruptions drain cognitive reserves"}},
	chain{{contains(keyDeepWork, "Less than 1 hour"), 10, "Less than 1 hour of uninterrupted work last week"}},
	chain{{contains(keyRecoveryTax, "abandoned"), 10, "Interruptions lead to task abandonment"}},
	chain{{contains(keyCapacityUtilization, "Overbooked"), 10, "Overbooked schedule"}},
	chain{
		{contains(keyProfitability, "Losing money"), 10, "The business is losing money or barely surviving"},
		{contains(keyProfitability, "cash is always tight"), 5, ""},
	},
}

var pricingRules = []scorer{
	chain{
		{contains(keyPricingConfidence, "Very confident"), 15, "Prices are set from known margins"},
		{contains(keyPricingConfidence, "Somewhat confident"), 5, ""},
		{contains(keyPricingConfidence, "Not sure"), -5, "Prices are anchored to competitors rather than margins"},
		{contains(keyPricingConfidence, "Not confident"), -15, "Founder suspects undercharging but is afraid to raise prices"},
	},
	chain{
		{contains(keyPricingLastRaised, "last 6 months"), 10, ""},
		{contains(keyPricingLastRaised, "6-12 months"), 5, ""},
		{contains(keyPricingLastRaised, "1-2 years"), -10, "Prices were last raised 1-2 years ago"},
		{contains(keyPricingLastRaised, "Over 2 years"), -15, "Prices haven't been raised in over 2 years"},
	},
	chain{
		{contains(keyProfitability, "Comfortably profitable"), 15, ""},
		{contains(keyProfitability, "Breaking even"), -5, "The business is breaking even or slightly profitable"},
		{contains(keyProfitability, "cash is always tight"), -10, "Profitable on paper but cash is always tight"},
		{contains(keyProfitability, "Losing money"), -20, "The business is losing money or barely surviving"},
	},
	chain{
		{contains(keyExpenseAwareness, "track them closely"), 5, ""},
		{contains(keyExpenseAwareness, "big ones"), -5, ""},
		{fold(keyExpenseAwareness, "not sure"), -10, "Total monthly expenses are unknown"},
	},
	chain{{both(contains(keyRevenueRange, "Under $100k"), contains(keyProfitability, "cash is always tight", "Losing money")), -10, "Low revenue and tight cash compound each other"}},
	chain{{is(keyLeakage, "Yes"), -5, "Founder acknowledges revenue leaking through operational delays"}},
	chain{
		{contains(keyLowValueHours, "10+"), -10, "10+ founder hours a week go to low-value work"},
		{contains(keyLowValueHours, "6-10"), -5, ""},
	},
}

func founderRisk(r intake.Response) Score {
	return newTally(0).run(r, founderRiskRules).result(riskBands)
}

// systemHealth starts healthy and subtracts for each weakness found.
func systemHealth(r intake.Response) Score {
	return newTally(100).run(r, systemHealthRules).result(healthBands)
}

func delegationReadiness(r intake.Response) Score {
	return newTally(0).run(r, delegationRules).result(readinessBands)
}

func burnoutRisk(r intake.Response) Score {
	return newTally(0).run(r, burnoutRules).result(burnoutBands)
}

// pricingHealth starts neutral. Without any of the core pricing answers it
// reports UNKNOWN rather than guessing.
func pricingHealth(r intake.Response) Score {
	if !r.Has(keyPricingConfidence) && !r.Has(keyProfitability) && !r.Has(keyPricingLastRaised) {
		return Score{Score: 50, Level: LevelUnknown, Signals: []string{}}
	}
	return newTally(50).run(r, pricingRules).result(pricingBands)
}

func composites(r intake.Response) CompositeScores {
	return CompositeScores{
		FounderRisk:         founderRisk(r),
		SystemHealth:        systemHealth(r),
		DelegationReadiness: delegationReadiness(r),
		BurnoutRisk:         burnoutRisk(r),
		PricingHealth:       pricingHealth(r),
	}
}

package report

import (
	"fmt"
	"strings"

	"clarity-backend/internal/diagnostic/intake"
)

// PressurePoint is one finding built from the answers.
type PressurePoint struct {
	Title     string   `json:"title"`
	Finding   string   `json:"finding"`
	RootCause []string `json:"rootCause"`
	Signal    string   `json:"signal"`
}

// EnrichedPressurePoint adds cost and upside to a finding where the numbers
// support it.
type EnrichedPressurePoint struct {
	PressurePoint
	CostImpact  string `json:"costImpact,omitempty"`
	Opportunity string `json:"opportunity,omitempty"`
}

// analysis carries every reading a finding may draw on.
type analysis struct {
	r          intake.Response
	heatmap    []HeatmapStage
	dash       Dashboard
	scores     CompositeScores
	friction   FrictionCost
	revenue    RevenueContext
	bottleneck string
}

const maxRootCauses = 3

func pressurePoints(a analysis) []PressurePoint {
	finders := []func(analysis) (PressurePoint, bool){
		workflowBreaks,
		founderDependency,
		cognitiveOverload,
		reworkLoop,
		pricingPressure,
		burnoutPressure,
		fragileSystems,
	}
	out := make([]PressurePoint, 0, len(finders))
	for _, find := range finders {
		if p, ok := find(a); ok {
			out = append(out, p)
		}
	}
	return out
}

func workflowBreaks(a analysis) (PressurePoint, bool) {
	var names, signals, causes []string
	for _, s := range a.heatmap {
		if s.Status != HeatRed {
			continue
		}
		names = append(names, s.Name)
		signals = append(signals, s.Signal)
		causes = append(causes, stageRootCause(s.Name))
	}
	if len(names) == 0 {
		return PressurePoint{}, false
	}
	return PressurePoint{
		Title:     "Workflow breaks at " + strings.Join(names, " + "),
		Finding:   strings.Join(signals, ". "),
		RootCause: causes,
		Signal:    fmt.Sprintf("%d stage(s) in critical state", len(names)),
	}, true
}

func founderDependency(a analysis) (PressurePoint, bool) {
	risk := a.scores.FounderRisk
	if risk.Level != LevelCritical && risk.Level != LevelHigh {
		return PressurePoint{}, false
	}
	r := a.r
	var causes []string
	if r.Contains(keyBusFactor, "collapses") {
		causes = append(causes, "Business collapses without founder")
	}
	if r.Contains(keyReviewQC, "Yes") {
		causes = append(causes, "All deliverables require founder review")
	}
	if r.Contains(keySalesCommitment, "Yes") {
		causes = append(causes, "All proposals require founder")
	}
	if r.Contains(keyTrustInstinct, "Handle it yourself") {
		causes = append(causes, "Fix-it-myself instinct prevents system building")
	}
	if len(causes) == 0 {
		causes = append(causes, "Multiple structural dependencies on founder")
	}
	signal := r.Text(keyBusFactor)
	if signal == "" {
		signal = "Not assessed"
	}
	return PressurePoint{
		Title:     "Founder Dependency Risk",
		Finding:   fmt.Sprintf("Founder risk score: %d/100 (%s)", risk.Score, risk.Level),
		RootCause: causes,
		Signal:    signal,
	}, true
}

func cognitiveOverload(a analysis) (PressurePoint, bool) {
	d := a.dash.Decision
	if d.Level != LevelHigh {
		return PressurePoint{}, false
	}
	r := a.r
	var causes []string
	if r.Contains(keyMicroFrequency, "16+") {
		causes = append(causes, "16+ micro-decisions per day")
	}
	if r.Contains(keyGatekeeper, "pauses work") {
		causes = append(causes, "Team stops work for approval")
	}
	if r.Has(keyFinancialAuthority) {
		if n := r.Dollars(keyFinancialAuthority); n <= 100 {
			causes = append(causes, fmt.Sprintf("Team can't authorize more than $%d", n))
		}
	}
	if len(causes) == 0 {
		causes = append(causes, "Decision volume exceeds sustainable capacity")
	}
	finding := fmt.Sprintf("Decision load: %s.", d.Level)
	if len(d.Signals) > 0 {
		finding += " " + d.Signals[0]
	}
	return PressurePoint{
		Title:     "Cognitive Overload",
		Finding:   finding,
		RootCause: causes,
		Signal:    "Every decision that routes through you is a decision that could have a documented answer",
	}, true
}

func reworkLoop(a analysis) (PressurePoint, bool) {
	if !a.r.Contains(keyRework, "More than 50%") {
		return PressurePoint{}, false
	}
	second := `Unclear "definition of done"`
	if a.r.ContainsFold(keyHandoff, "always") {
		second = "Handoffs require founder translation"
	}
	return PressurePoint{
		Title:     "Rework Loop",
		Finding:   "Over 50% of work gets sent back for revision",
		RootCause: []string{"Standards aren't documented, so the team guesses", second},
		Signal:    "High rework is a hidden time cost and a source of team frustration",
	}, true
}

// scoredPoint builds a finding from a composite reading and its strongest
// signals.
func scoredPoint(title, name string, s Score, fallback, signal string) PressurePoint {
	causes := append([]string(nil), s.Signals...)
	if len(causes) > maxRootCauses {
		causes = causes[:maxRootCauses]
	}
	if len(causes) == 0 {
		causes = []string{fallback}
	}
	return PressurePoint{
		Title:     title,
		Finding:   fmt.Sprintf("%s score: %d/100 (%s)", name, s.Score, s.Level),
		RootCause: causes,
		Signal:    signal,
	}
}

func pricingPressure(a analysis) (PressurePoint, bool) {
	p := a.scores.PricingHealth
	if p.Level != LevelCritical {
		return PressurePoint{}, false
	}
	return scoredPoint("Pricing Pressure", "Pricing health", p,
		"Prices don't reflect the true cost of delivery",
		"Underpricing turns every operational problem into a margin problem"), true
}

func burnoutPressure(a analysis) (PressurePoint, bool) {
	b := a.scores.BurnoutRisk
	if b.Level != LevelCritical {
		return PressurePoint{}, false
	}
	return scoredPoint("Burnout Risk", "Burnout risk", b,
		"Current pace is unsustainable",
		"The founder's energy is the scarcest resource in the business"), true
}

func fragileSystems(a analysis) (PressurePoint, bool) {
	s := a.scores.SystemHealth
	if s.Level != LevelFragile {
		return PressurePoint{}, false
	}
	return scoredPoint("Fragile Systems", "System health", s,
		"Core processes aren't written down",
		"Each undocumented process is a single point of failure"), true
}

type enrichment struct {
	match       string
	costImpact  func(analysis) string
	opportunity func(analysis) string
}

func lowValueCost(a analysis) string {
	c := a.friction.LowValueHoursCost.AnnualCost
	if c.High == 0 {
		return ""
	}
	return fmt.Sprintf("Founder time lost to low-value work costs an estimated %s a year.", c)
}

func leakageCost(a analysis) string {
	l := a.friction.RevenueLeakage
	if !l.Acknowledged || l.Estimate.High == 0 {
		return ""
	}
	return fmt.Sprintf("Revenue leakage from operational delays is estimated at %s a year.", l.Estimate)
}

func totalCost(a analysis) string {
	if a.friction.TotalRange.High == 0 {
		return ""
	}
	return fmt.Sprintf("Total friction across the business is estimated at %s a year.", a.friction.TotalRange)
}

func fixed(s string) func(analysis) string { return func(analysis) string { return s } }

var enrichments = []enrichment{
	{"Workflow breaks", lowValueCost, func(a analysis) string {
		return fmt.Sprintf("Fixing %s first unblocks the stage that holds up the most work.", a.bottleneck)
	}},
	{"Founder Dependency", leakageCost, func(a analysis) string { return a.revenue.Context }},
	{"Cognitive Overload", lowValueCost, fixed("Each documented decision rule removes a recurring interruption.")},
	{"Rework Loop", nil, fixed("Halving rework returns hours to delivery without hiring.")},
	{"Pricing", leakageCost, fixed("A price review is the fastest margin lever available.")},
	{"Burnout", totalCost, fixed("Protecting one deep-work block a day is the first step back from burnout.")},
	{"Fragile Systems", lowValueCost, fixed("Writing down the three most repeated processes removes the biggest single points of failure.")},
}

func enrichPressurePoints(a analysis, points []PressurePoint) []EnrichedPressurePoint {
	out := make([]EnrichedPressurePoint, 0, len(points))
	for _, p := range points {
		ep := EnrichedPressurePoint{PressurePoint: p}
		for _, e := range enrichments {
			if !strings.Contains(p.Title, e.match) {
				continue
			}
			if e.costImpact != nil {
				ep.CostImpact = e.costImpact(a)
			}
			if e.opportunity != nil {
				ep.Opportunity = e.opportunity(a)
			}
			break
		}
		out = append(out, ep)
	}
	return out
}

// Package report builds the paid full diagnostic from the initial and deep
// intakes. Every section is a pure function of the answers; missing answers
// contribute nothing rather than failing.
package report

import (
	"fmt"
	"strings"
	"time"

	"clarity-backend/internal/diagnostic/classify"
	"clarity-backend/internal/diagnostic/insights"
	"clarity-backend/internal/diagnostic/intake"
)

const defaultBusinessName = "Your Business"

// FounderVoice keeps the founder's own words for the admin views.
type FounderVoice struct {
	BiggestFrustration      string   `json:"biggestFrustration,omitempty"`
	StrategicWorkMissing    string   `json:"strategicWorkMissing,omitempty"`
	Superpowers             []string `json:"superpowers"`
	LastHourWishedDelegated string   `json:"lastHourWishedDelegated,omitempty"`
	MagicWandFix            string   `json:"magicWandFix,omitempty"`
	WhatKeepsYouUp          string   `json:"whatKeepsYouUp,omitempty"`
}

// Report is the full diagnostic document. It is persisted as is.
type Report struct {
	BusinessName      string                  `json:"businessName"`
	FirstName         string                  `json:"firstName"`
	Date              string                  `json:"date"`
	Track             intake.Track            `json:"track"`
	TrackLabel        string                  `json:"trackLabel"`
	PrimaryConstraint classify.ConstraintType `json:"primaryConstraint"`

	DecisionLoad     Level    `json:"decisionLoad"`
	DecisionSignals  []string `json:"decisionSignals"`
	FlowFriction     Level    `json:"flowFriction"`
	FlowSignals      []string `json:"flowSignals"`
	ContextSwitching Level    `json:"contextSwitching"`
	ContextSignals   []string `json:"contextSignals"`

	Heatmap                      []HeatmapStage `json:"heatmap"`
	BottleneckStage              string         `json:"bottleneckStage"`
	BottleneckTitle              string         `json:"bottleneckTitle"`
	BottleneckPatternDescription string         `json:"bottleneckPatternDescription"`

	CompositeScores CompositeScores `json:"compositeScores"`

	PressurePoints         []PressurePoint         `json:"pressurePoints"`
	EnrichedPressurePoints []EnrichedPressurePoint `json:"enrichedPressurePoints"`

	SuccessTrapNarrative       string `json:"successTrapNarrative"`
	ConstraintDescription      string `json:"constraintDescription"`
	ConstraintSolutionCategory string `json:"constraintSolutionCategory"`

	Phases         []Phase         `json:"phases"`
	EnrichedPhases []EnrichedPhase `json:"enrichedPhases"`

	FrictionCost        FrictionCost        `json:"frictionCost"`
	ExtractionReadiness ExtractionReadiness `json:"extractionReadiness"`
	DelegationMatrix    []DelegationItem    `json:"delegationMatrix"`
	RevenueContext      RevenueContext      `json:"revenueContext"`

	ExecutiveSummary string          `json:"executiveSummary"`
	InsightFlags     []insights.Flag `json:"insightFlags"`
	FounderVoice     FounderVoice    `json:"founderVoice"`
}

// Result wraps the report the way callers persist it.
type Result struct {
	Report Report `json:"report"`
}

// Run builds the report dated today.
func Run(r intake.Response) Result {
	return RunAt(r, time.Now())
}

// RunAt builds the report with an explicit date.
func RunAt(r intake.Response, now time.Time) Result {
	r = intake.Normalize(r)
	name := r.BusinessName()
	if name == "" {
		name = defaultBusinessName
	}
	track := intake.ResolveTrack(r)

	dash := dashboard(r)
	scores := composites(r)
	constraint, solution := FullReportClassification.Classify(dash, scores)

	stages := heatmap(r)
	bottleneck := bottleneckStage(stages)
	revenue := revenueContext(r)
	friction := frictionCost(r, revenue)

	a := analysis{
		r:          r,
		heatmap:    stages,
		dash:       dash,
		scores:     scores,
		friction:   friction,
		revenue:    revenue,
		bottleneck: bottleneck,
	}
	points := pressurePoints(a)
	extraction := extractionReadiness(r, scores)
	matrix := delegationMatrix(r)

	rep := Report{
		BusinessName:      name,
		FirstName:         r.FirstName(),
		Date:              now.Format("January 2, 2006"),
		Track:             track,
		TrackLabel:        track.Label(),
		PrimaryConstraint: constraint,

		DecisionLoad:     dash.Decision.Level,
		DecisionSignals:  dash.Decision.Signals,
		FlowFriction:     dash.Flow.Level,
		FlowSignals:      dash.Flow.Signals,
		ContextSwitching: dash.Context.Level,
		ContextSignals:   dash.Context.Signals,

		Heatmap:                      stages,
		BottleneckStage:              bottleneck,
		BottleneckTitle:              bottleneckTitle(bottleneck),
		BottleneckPatternDescription: constraintDescription(constraint),

		CompositeScores: scores,

		PressurePoints:         points,
		EnrichedPressurePoints: enrichPressurePoints(a, points),

		SuccessTrapNarrative:       successTrap(track, r.BusinessName()),
		ConstraintDescription:      constraintDescription(constraint),
		ConstraintSolutionCategory: solution,

		Phases:         legacyPhases(r, bottleneck),
		EnrichedPhases: enrichedPhases(r, bottleneck, revenue),

		FrictionCost:        friction,
		ExtractionReadiness: extraction,
		DelegationMatrix:    matrix,
		RevenueContext:      revenue,

		InsightFlags: insights.DeriveFlags(r),
		FounderVoice: founderVoice(r),
	}
	rep.ExecutiveSummary = executiveSummary(rep)
	return Result{Report: rep}
}

func bottleneckTitle(stage string) string {
	if stage == noneIdentified {
		return "No Single Bottleneck"
	}
	return fmt.Sprintf("The %s Bottleneck", stage)
}

func successTrap(track intake.Track, name string) string {
	switch track {
	case intake.TrackA:
		if name == "" {
			name = "This business"
		}
		return name + " was built on excellent, consistent delivery. Clients trust the quality. But that quality is currently locked in the founder, which means growth requires the founder to be present. The thing that made the business successful is the same thing keeping it stuck."
	case intake.TrackC:
		if name == "" {
			name = "this business"
		}
		return "The founder IS " + name + ". Their expertise, reputation and relationships are the product. That's not a flaw; it's a structural reality. The question isn't whether to change that, it's whether the business can support the founder at the scale they want without burning them out."
	default:
		if name == "" {
			name = "This business"
		}
		return name + ` grew because the founder cared about quality more than anyone else. Over time, the team learned: "When in doubt, ask the founder." That instinct to protect quality created an invisible bottleneck, and now everything routes through one person whether it needs to or not.`
	}
}

func founderVoice(r intake.Response) FounderVoice {
	return FounderVoice{
		BiggestFrustration:      r.Text(keyBiggestFrustration),
		StrategicWorkMissing:    r.Text(keyStrategicWork),
		Superpowers:             superpowers(r),
		LastHourWishedDelegated: r.Text(keyLastHourDelegated),
		MagicWandFix:            r.Text(keyMagicWand),
		WhatKeepsYouUp:          r.Text(keyWhatKeepsYouUp),
	}
}

var readinessPhrases = map[Level]string{
	LevelReady:     "ready for the founder to step back from delivery",
	LevelClose:     "close, with one or two pieces still missing",
	LevelEarly:     "early, so the foundation has to come first",
	LevelEntangled: "low, because the business is still deeply entangled with the founder",
}

func executiveSummary(rep Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s operates as a %s business whose primary constraint is a %s (%s)",
		rep.BusinessName, rep.TrackLabel, strings.ToLower(rep.PrimaryConstraint.Label()), rep.PrimaryConstraint)
	if rep.BottleneckStage != noneIdentified {
		fmt.Fprintf(&b, ", with the sharpest friction at the %s stage", rep.BottleneckStage)
	}
	b.WriteString(".")
	if total := rep.FrictionCost.TotalRange; total.High > 0 {
		fmt.Fprintf(&b, " This friction costs an estimated %s a year.", total)
	}
	fmt.Fprintf(&b, " Extraction readiness is %s.", readinessPhrases[rep.ExtractionReadiness.Level])
	if n := len(rep.DelegationMatrix); n > 0 {
		fmt.Fprintf(&b, " %d of %d listed responsibilities can be delegated now.", countTier(rep.DelegationMatrix, TierNow), n)
	} else {
		b.WriteString(" No responsibilities were listed for the delegation matrix yet.")
	}
	return b.String()
}

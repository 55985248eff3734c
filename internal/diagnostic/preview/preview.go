// Package preview builds the free diagnostic preview from the initial
// intake. It never needs deep-dive answers.
package preview

import (
	"fmt"
	"time"

	"clarity-backend/internal/diagnostic/classify"
	"clarity-backend/internal/diagnostic/intake"
	o "clarity-backend/internal/diagnostic/options"
	"clarity-backend/internal/diagnostic/scoring"
)

const defaultBusinessName = "Your Business"

// Metadata exposes the raw scoring for downstream consumers such as the
// deep-dive builder and the admin views.
type Metadata struct {
	Track     intake.Track      `json:"track"`
	Scores    scoring.Scores    `json:"scores"`
	Ranked    []scoring.Ranked  `json:"ranked"`
	Primary   scoring.Ranked    `json:"primary"`
	Secondary scoring.Ranked    `json:"secondary"`
	Category  classify.Category `json:"category"`
}

// Result is the preview document. It is plain data and is persisted as is.
type Result struct {
	BusinessName string `json:"businessName"`
	Date         string `json:"date"`

	Track          intake.Track            `json:"track"`
	TrackLabel     string                  `json:"trackLabel"`
	ConstraintType classify.ConstraintType `json:"constraintType"`

	ConstraintLabel       string `json:"constraintLabel"`
	ConstraintDescription string `json:"constraintDescription"`

	FounderDependency       DependencyLevel `json:"founderDependency"`
	FounderDependencySignal string          `json:"founderDependencySignal"`
	RiskSignals             []string        `json:"riskSignals"`

	SustainabilityHorizon Horizon          `json:"sustainabilityHorizon"`
	Lifecycle             []LifecycleStage `json:"lifecycle"`

	SuccessTrap      string   `json:"successTrap"`
	WhatWeKnow       []string `json:"whatWeKnow"`
	WhatWeNeedToFind []string `json:"whatWeNeedToFind"`

	ConstraintSnapshot          string                     `json:"constraintSnapshot"`
	PrimaryConstraint           classify.DisplayConstraint `json:"primaryConstraint"`
	SecondaryConstraint         classify.DisplayConstraint `json:"secondaryConstraint"`
	ConstraintCompoundNarrative string                     `json:"constraintCompoundNarrative"`
	ExposureMetrics             []string                   `json:"exposureMetrics"`
	ContinuityRisk              string                     `json:"continuityRisk"`
	LoadTrajectory              string                     `json:"loadTrajectory"`
	StructuralTension           string                     `json:"structuralTension"`

	Metadata Metadata `json:"metadata"`
}

// Run builds the preview dated today.
func Run(r intake.Response) Result {
	return RunAt(r, time.Now())
}

// RunAt builds the preview with an explicit date. Everything except Date is
// a pure function of the answers.
func RunAt(r intake.Response, now time.Time) Result {
	r = intake.Normalize(r)
	name := r.BusinessName()
	if name == "" {
		name = defaultBusinessName
	}

	track := intake.ResolveTrack(r)
	scores, sel := classify.PreviewClassification.Classify(r)
	primary := classify.PreviewClassification.DisplayPrimary(sel)
	secondary := classify.PreviewClassification.DisplaySecondary(sel)
	level, signal := founderDependency(r, scores.FounderCentralization)

	return Result{
		BusinessName:   name,
		Date:           now.Format("January 2, 2006"),
		Track:          track,
		TrackLabel:     track.Label(),
		ConstraintType: guessConstraintType(track, r),

		ConstraintLabel:       primary.Label,
		ConstraintDescription: constraintDescription(primary.Label),

		FounderDependency:       level,
		FounderDependencySignal: signal,
		RiskSignals:             riskSignals(track, r),

		SustainabilityHorizon: sustainabilityHorizon(track, r, level),
		Lifecycle:             lifecycle(r),

		SuccessTrap:      successTrap(sel, name),
		WhatWeKnow:       whatWeKnow(r, track, primary, secondary),
		WhatWeNeedToFind: whatWeNeedToFind(sel, track),

		ConstraintSnapshot:          constraintSnapshot(r, sel, name),
		PrimaryConstraint:           primary,
		SecondaryConstraint:         secondary,
		ConstraintCompoundNarrative: compoundNarrative(sel),
		ExposureMetrics:             exposureMetrics(r),
		ContinuityRisk:              continuityRisk(r),
		LoadTrajectory:              loadTrajectory(r),
		StructuralTension:           structuralTension(r),

		Metadata: Metadata{
			Track:     track,
			Scores:    scores,
			Ranked:    sel.Ranked,
			Primary:   sel.Primary,
			Secondary: sel.Secondary,
			Category:  sel.Category,
		},
	}
}

var descriptions = map[string]string{
	"Founder Dependency":     "Revenue, relationships and delivery are concentrated in the founder. The business grows only as fast as one person can work.",
	"System Fragility":       "The business lacks the structure to absorb disruption. When a person or a process slips, nothing catches it.",
	"Knowledge Silos":        "Critical know-how lives in the founder's head. The team can execute, but only with the founder translating what good looks like.",
	"Process Gaps":           "Processes exist on paper but not in practice. Work stalls in execution because the documented way isn't the way work actually gets done.",
	"Decision Bottleneck":    "Decisions queue behind the founder. The team has capacity, but it spends a share of every week waiting for direction.",
	"Capacity Constraint":    "The business is running at its ceiling. Demand is there, but the structure can't take on more without breaking something.",
	"Strategic Optimization": "Operations run independently of the founder. The next gains come from positioning, pricing and demand rather than operational repair.",
}

func constraintDescription(label string) string {
	if d, ok := descriptions[label]; ok {
		return d
	}
	return "Several constraints are pulling on the business at once."
}

func successTrap(sel classify.Selection, name string) string {
	if sel.Category == classify.CategoryStrategic {
		return fmt.Sprintf("%s escaped the usual founder trap. The risk now is treating a strategic ceiling as an operational one and over-investing in fixes the business no longer needs.", name)
	}
	switch sel.Primary.Type {
	case scoring.FounderCentralization:
		return fmt.Sprintf("What made %s successful was the founder's personal involvement in every client outcome. That same involvement is now the ceiling.", name)
	case scoring.DecisionBottleneck:
		return fmt.Sprintf("%s grew because the founder's judgment kept quality high. Routing every call through that judgment now slows the whole team.", name)
	case scoring.StructuralFragility:
		return fmt.Sprintf("%s moved fast by keeping things informal. The informality that once made it nimble now makes it fragile.", name)
	default:
		return fmt.Sprintf("%s won by saying yes to the work. Saying yes without adding structure has filled every available hour.", name)
	}
}

func whatWeKnow(r intake.Response, track intake.Track, primary, secondary classify.DisplayConstraint) []string {
	out := []string{
		fmt.Sprintf("Business model: %s track", track.Label()),
		fmt.Sprintf("Primary constraint: %s (%d/100)", primary.Label, primary.Score),
		fmt.Sprintf("Secondary constraint: %s (%d/100)", secondary.Label, secondary.Score),
	}
	if v := r.Text(o.TwoWeekAbsence); v != "" {
		out = append(out, fmt.Sprintf("Two-week absence: %s", v))
	}
	if v := r.Text(o.GrowthLimiter); v != "" {
		out = append(out, fmt.Sprintf("Stated growth limiter: %s", v))
	}
	if v := r.Text(o.CurrentState); v != "" {
		out = append(out, fmt.Sprintf("Current state: %s", v))
	}
	return out
}

var unknownsByDimension = map[scoring.Dimension][]string{
	scoring.FounderCentralization: {
		"Which client relationships could move to the team first",
		"How many founder hours each week go to work someone else could do",
		"What would collapse first in a 30-day absence",
	},
	scoring.DecisionBottleneck: {
		"How many micro-decisions reach the founder each day",
		"The spending threshold the team can approve alone",
		"Which decisions could be turned into written rules",
	},
	scoring.StructuralFragility: {
		"Where in the pipeline work waits longest",
		"Which processes the team actually follows",
		"How often submitted work gets sent back",
	},
	scoring.CapacityConstraint: {
		"How much founder time goes to low-value work",
		"Where delivery capacity is lost to rework or waiting",
		"What the annual cost of that friction is",
	},
}

var unknownsByTrack = map[intake.Track]string{
	intake.TrackA: "How schedule capacity is allocated across the week",
	intake.TrackB: "Where approvals stall inside the production pipeline",
	intake.TrackC: "Which parts of the founder's expertise can be taught",
}

func whatWeNeedToFind(sel classify.Selection, track intake.Track) []string {
	var out []string
	if sel.Category == classify.CategoryStrategic {
		out = []string{
			"Which service lines carry the best margins",
			"When prices were last raised and how clients responded",
			"Where the next segment of demand will come from",
		}
	} else {
		out = append(out, unknownsByDimension[sel.Primary.Type]...)
	}
	if extra, ok := unknownsByTrack[track]; ok {
		out = append(out, extra)
	}
	return out
}

package report

import (
	"fmt"

	"clarity-backend/internal/diagnostic/classify"
	"clarity-backend/internal/diagnostic/intake"
	o "clarity-backend/internal/diagnostic/options"
)

func authorityThreshold(r intake.Response, t *tally) {
	if !r.Has(keyFinancialAuthority) {
		return
	}
	switch n := r.Dollars(keyFinancialAuthority); {
	case n <= 100:
		t.add(40, fmt.Sprintf("Team can't authorize more than $%d without you", n))
	case n <= 500:
		t.add(30, fmt.Sprintf("Financial authority capped at $%d", n))
	case n <= 2000:
		t.add(15, "")
	}
}

func decisionBacklog(r intake.Response, t *tally) {
	if r.ContainsAny(keyDecisionBacklog, "10+", "Lost count") {
		t.add(15, fmt.Sprintf("Decision backlog from initial intake: %s", r.Text(keyDecisionBacklog)))
	}
}

var decisionRules = []scorer{
	scoreFunc(authorityThreshold),
	chain{
		{contains(keyGatekeeper, "pauses work"), 40, "Team pauses all work for your review"},
		{contains(keyGatekeeper, "waits for your approval"), 20, "Non-standard requests wait for approval"},
	},
	chain{
		{contains(keyMicroFrequency, "16+"), 50, "16+ micro-decisions fielded per day"},
		{contains(keyMicroFrequency, "6-15"), 30, "6-15 micro-decisions per day"},
	},
	chain{{contains(keyQualification, "personally screen"), 30, "Founder screens every client"}},
	scoreFunc(decisionBacklog),
	chain{{contains(keyApprovalFrequency, "Constantly"), 10, ""}},
}

var flowRules = []scorer{
	chain{
		{contains(keyWaitTime, "Variable/Infinite"), 50, `Work sits until the founder "clears the deck"`},
		{contains(keyWaitTime, "3-5 days"), 35, "3-5 day lag between workflow stages"},
		{contains(keyWaitTime, "24-48 hours"), 15, ""},
	},
	chain{
		{contains(keyRework, "More than 50%"), 40, "Over half of submitted work gets sent back"},
		{contains(keyRework, "10-30%"), 20, "Moderate rework rate (10-30%)"},
	},
	chain{
		{fold(keyHandoff, "always"), 30, "Every handoff requires founder translation"},
		{contains(keyHandoff, "Sometimes"), 15, ""},
	},
	chain{{either(contains(keyProjectPileUp, "Waiting on me"), is(o.ProjectStall, o.StallApproval)), 10, "Projects pile up waiting on the founder"}},
}

func switchingVolume(r intake.Response, t *tally) {
	switch {
	case r.ContainsAny(keyContextSwitching, "Non-stop", "10+"):
		t.add(15, fmt.Sprintf("Initial intake: %s interruptions a day", r.Text(keyContextSwitching)))
	case r.Is(o.InterruptionFrequency, o.InterruptConstantly):
		t.add(15, "Interrupted constantly throughout the day")
	}
}

var contextRules = []scorer{
	chain{
		{contains(keyDeepWork, "Less than 1 hour"), 40, "Max uninterrupted block: under 1 hour"},
		{contains(keyDeepWork, "1-1.9 hours"), 30, "Max uninterrupted block: 1-2 hours"},
		{contains(keyDeepWork, "2-3.9 hours"), 15, ""},
	},
	chain{
		{contains(keyRecoveryTax, "abandoned"), 30, "Interruption leads to task abandonment"},
		{contains(keyRecoveryTax, "Significant effort"), 20, "Significant recovery effort needed after interruption"},
		{contains(keyRecoveryTax, "Takes a few minutes"), 10, ""},
	},
	chain{
		{contains(keyInterruptionSource, "Emergency"), 30, "Primary interrupt: firefighting emergencies"},
		{contains(keyInterruptionSource, "Quick questions"), 20, `Primary interrupt: constant "quick questions"`},
		{contains(keyInterruptionSource, "Client emails"), 15, "Primary interrupt: reactive client email"},
	},
	scoreFunc(switchingVolume),
}

// Dashboard holds the three executive readings the constraint is derived
// from.
type Dashboard struct {
	Decision Score
	Flow     Score
	Context  Score
}

func dashboard(r intake.Response) Dashboard {
	return Dashboard{
		Decision: newTally(0).run(r, decisionRules).result(loadBands),
		Flow:     newTally(0).run(r, flowRules).result(frictionBands),
		Context:  newTally(0).run(r, contextRules).result(frictionBands),
	}
}

// FullReport derives the report's constraint type from its own readings.
// It shares scoring primitives with the preview strategy but none of its
// branching.
type FullReport struct{}

// FullReportClassification is the strategy used by Run.
var FullReportClassification = FullReport{}

// Classify returns the constraint type and its solution category.
func (FullReport) Classify(d Dashboard, c CompositeScores) (classify.ConstraintType, string) {
	switch {
	case d.Decision.Level == LevelHigh && (d.Context.Level == LevelHigh || d.Decision.Score >= 60):
		return classify.ConstraintCognitive, "Decision frameworks + documented heuristics"
	case d.Flow.Level == LevelHigh || c.SystemHealth.Level == LevelBroken:
		return classify.ConstraintPolicy, "SOPs + delegation criteria + process documentation"
	case c.FounderRisk.Level == LevelCritical || c.FounderRisk.Level == LevelHigh:
		return classify.ConstraintTime, "Founder extraction + capacity building"
	default:
		return classify.ConstraintTime, "Capacity + structure"
	}
}

var constraintDescriptions = map[classify.ConstraintType]string{
	classify.ConstraintCognitive: `Your decision-making capacity is the bottleneck. Work piles up waiting for your judgment because standards aren't externalized. The fix isn't "be faster"; it's "document the criteria so others can decide."`,
	classify.ConstraintPolicy:    `The business lacks documented standards and processes. Work loops back, stalls, or gets redone because "the way we do things" isn't written down anywhere.`,
	classify.ConstraintTime:      "You've hit a hard ceiling on hours. The business can't grow without changing your role, which means extracting your knowledge so others can carry it.",
	classify.ConstraintUnknown:   "We need more data to identify your primary constraint precisely.",
}

func constraintDescription(t classify.ConstraintType) string {
	if d, ok := constraintDescriptions[t]; ok {
		return d
	}
	return constraintDescriptions[classify.ConstraintUnknown]
}

package classify

import (
	"clarity-backend/internal/diagnostic/intake"
	"clarity-backend/internal/diagnostic/scoring"
)

// StrategicType is the display type used in place of a dimension when the
// business is well delegated.
const StrategicType = "strategicOptimization"

// Selection is the outcome of choosing the primary and secondary constraint.
type Selection struct {
	Primary   scoring.Ranked   `json:"primary"`
	Secondary scoring.Ranked   `json:"secondary"`
	Category  Category         `json:"category"`
	Ranked    []scoring.Ranked `json:"ranked"`
}

// SelectPrimarySecondary ranks the scores and applies the category
// override. Returned labels are contextual.
func SelectPrimarySecondary(r intake.Response, s scoring.Scores) Selection {
	ranked := scoring.Rank(s)
	category := DetectConstraintCategory(r)

	primary, secondary := ranked[0], ranked[1]
	if want, ok := category.PreferredDimension(); ok {
		for _, rd := range ranked {
			if rd.Type == want {
				primary = rd
				break
			}
		}
		for _, rd := range ranked {
			if rd.Type != primary.Type {
				secondary = rd
				break
			}
		}
	}

	primary.Label = ResolveConstraintLabel(primary.Type, r)
	secondary.Label = ResolveConstraintLabel(secondary.Type, r)
	return Selection{Primary: primary, Secondary: secondary, Category: category, Ranked: ranked}
}

// Preview is the classification strategy used by the free preview. It
// shares the scoring primitives with the full report but not its
// constraint vocabulary.
type Preview struct{}

// PreviewClassification is the strategy value used by the preview engine.
var PreviewClassification = Preview{}

// Classify scores the answers and selects the constraints.
func (Preview) Classify(r intake.Response) (scoring.Scores, Selection) {
	s := scoring.Score(r)
	return s, SelectPrimarySecondary(r, s)
}

// DisplayPrimary is the primary constraint as shown to the client. A
// strategic business shows no operational constraint at all.
func (Preview) DisplayPrimary(sel Selection) DisplayConstraint {
	if sel.Category == CategoryStrategic {
		return DisplayConstraint{Type: StrategicType, Label: "Strategic Optimization", Score: sel.Primary.Score}
	}
	return DisplayConstraint{Type: string(sel.Primary.Type), Label: sel.Primary.Label, Score: sel.Primary.Score}
}

// DisplaySecondary mirrors DisplayPrimary for the secondary constraint.
func (Preview) DisplaySecondary(sel Selection) DisplayConstraint {
	return DisplayConstraint{Type: string(sel.Secondary.Type), Label: sel.Secondary.Label, Score: sel.Secondary.Score}
}

// DisplayConstraint is a ranked constraint whose type may be outside the
// four dimensions.
type DisplayConstraint struct {
	Type  string `json:"type"`
	Label string `json:"label"`
	Score int    `json:"score"`
}

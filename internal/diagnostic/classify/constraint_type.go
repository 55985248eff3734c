package classify

// ConstraintType is the bound a business hits, as named to the client in
// the preview narrative and the full report.
type ConstraintType string

const (
	ConstraintCognitive ConstraintType = "COGNITIVE-BOUND"
	ConstraintPolicy    ConstraintType = "POLICY-BOUND"
	ConstraintTime      ConstraintType = "TIME-BOUND"
	ConstraintUnknown   ConstraintType = "UNKNOWN"
)

// Label returns the short display name of t.
func (t ConstraintType) Label() string {
	switch t {
	case ConstraintCognitive:
		return "Cognitive Bottleneck"
	case ConstraintPolicy:
		return "Policy Bottleneck"
	case ConstraintTime:
		return "Time Ceiling"
	default:
		return "Unclassified"
	}
}

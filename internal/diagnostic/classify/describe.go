package classify

import (
	"fmt"

	"clarity-backend/internal/diagnostic/scoring"
)

// DescribePattern returns one sentence explaining p.
func DescribePattern(p Pattern) string {
	switch p {
	case PatternFounder:
		return "Most pressure comes from founder-centered execution and approvals."
	case PatternDecision:
		return "Work queues are mainly caused by approval and judgment bottlenecks."
	case PatternSystem:
		return "Process and system reliability is the main limit on consistency and scale."
	case PatternCapacity:
		return "Delivery bandwidth is the main ceiling; demand is outpacing available capacity."
	case PatternMixed:
		return "Two constraints are close in severity, so this is a blended bottleneck."
	case PatternStrategic:
		return "Operations are stable and independent; the next bottleneck is market growth, positioning, or pricing strategy."
	default:
		return "Operational pressure is distributed across multiple constraints."
	}
}

// DescribeConfidence explains the confidence band.
func DescribeConfidence(c Confidence, founderDependency int) string {
	switch c {
	case ConfidenceHigh:
		return fmt.Sprintf("High confidence signal from founder-dependency score (%d/100).", founderDependency)
	case ConfidenceMed:
		return fmt.Sprintf("Moderate confidence signal from founder-dependency score (%d/100).", founderDependency)
	default:
		return fmt.Sprintf("Low confidence signal from founder-dependency score (%d/100); treat as directional.", founderDependency)
	}
}

// SummarizeConstraintGap states how far the primary leads the secondary.
func SummarizeConstraintGap(primary, secondary scoring.Ranked) string {
	gap := abs(primary.Score - secondary.Score)
	verdict := "clear primary"
	if gap <= MixedGap {
		verdict = "MIXED threshold hit"
	}
	return fmt.Sprintf("%s leads %s by %d points (%s).", primary.Label, secondary.Label, gap, verdict)
}

// RecommendedFocus orders the two constraints into a next step.
func RecommendedFocus(primary, secondary scoring.Ranked) string {
	return fmt.Sprintf("Start with %s first, then address %s to reduce rebound risk.", primary.Label, secondary.Label)
}

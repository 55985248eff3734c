package intake

// Legacy (v1) question ids still accepted from older intake forms.
const (
	LegacyBusinessType      = "business_type"
	LegacyBusinessTypeCamel = "businessType"
	LegacyGrowthBlocker     = "growth_blocker"
	LegacyDocState          = "doc_state"
	LegacyApprovalFrequency = "approval_frequency"
	LegacyContextSwitching  = "context_switching"
	LegacyProjectPileUp     = "project_pile_up"
	LegacyAbsenceImpact     = "absence_impact"
)

type alias struct {
	target    string
	fallbacks []string
	first     bool // take the first element of a list answer
}

var aliases = []alias{
	{target: "business_model", fallbacks: []string{LegacyBusinessType, LegacyBusinessTypeCamel}},
	{target: "growth_limiter", fallbacks: []string{LegacyGrowthBlocker}},
	{target: "process_documentation", fallbacks: []string{LegacyDocState}, first: true},
	{target: "interruption_frequency", fallbacks: []string{LegacyApprovalFrequency, LegacyContextSwitching}},
	{target: "project_stall", fallbacks: []string{LegacyProjectPileUp}},
	{target: "two_week_absence", fallbacks: []string{LegacyAbsenceImpact}},
}

// Normalize overlays v2 keys from their v1 equivalents when the v2 key is
// unanswered. It is additive: no key is removed and r is not modified.
// Normalize is idempotent.
func Normalize(r Response) Response {
	out := r.Clone()
	for _, a := range aliases {
		if out.Has(a.target) {
			continue
		}
		for _, fb := range a.fallbacks {
			v := out.Get(fb)
			if v.IsMissing() {
				continue
			}
			if a.first {
				out[a.target] = Str(v.First())
			} else {
				out[a.target] = v
			}
			break
		}
	}
	if _, ok := out["current_state"]; !ok {
		out["current_state"] = Str("")
	}
	return out
}

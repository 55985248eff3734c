package intake

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponseMissingKeysCarryNoSignal(t *testing.T) {
	var r Response
	assert.False(t, r.Has("final_decisions"))
	assert.Equal(t, "", r.Text("final_decisions"))
	assert.Nil(t, r.Items("collapse_diagnosis"))
	assert.False(t, r.Is("final_decisions", ""))
	assert.False(t, r.Contains("final_decisions", ""))
	assert.Equal(t, 0, r.Dollars("tool_count"))
	assert.Equal(t, 0.0, r.Number("team_idle_time_cost"))
}

func TestIsRequiresExactString(t *testing.T) {
	r := FromStrings(map[string]string{"final_decisions": "Always me"})
	assert.True(t, r.Is("final_decisions", "Always me"))
	assert.False(t, r.Is("final_decisions", "always me"))

	list := Response{"final_decisions": List("Always me")}
	assert.False(t, list.Is("final_decisions", "Always me"))
}

func TestParseDollarsAndNumber(t *testing.T) {
	cases := []struct {
		raw     string
		dollars int
		number  float64
	}{
		{raw: "$2,500", dollars: 2500, number: 2500},
		{raw: "12 tools", dollars: 12, number: 12},
		{raw: "$1,250.50", dollars: 125050, number: 1250.5},
		{raw: "none", dollars: 0, number: 0},
		{raw: "", dollars: 0, number: 0},
		{raw: "...", dollars: 0, number: 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.dollars, ParseDollars(tc.raw), "dollars %q", tc.raw)
		assert.Equal(t, tc.number, ParseNumber(tc.raw), "number %q", tc.raw)
	}
}

func TestValueJSONShapes(t *testing.T) {
	payload := []byte(`{
		"email": "Owner@Example.com ",
		"collapse_diagnosis": ["Sales would stop", "Delivery would halt"],
		"tool_count": 14,
		"micro_decision_audit": true,
		"superpower_audit": {"one": "sales"},
		"website": null
	}`)

	var r Response
	require.NoError(t, json.Unmarshal(payload, &r))

	assert.Equal(t, "owner@example.com", r.Email())
	assert.Equal(t, []string{"Sales would stop", "Delivery would halt"}, r.Items("collapse_diagnosis"))
	assert.Equal(t, 14, r.Dollars("tool_count"))
	assert.True(t, r.Is("micro_decision_audit", "Yes"))
	assert.Equal(t, `{"one":"sales"}`, r.Text("superpower_audit"))
	assert.False(t, r.Has("website"))

	out, err := json.Marshal(r)
	require.NoError(t, err)
	var back Response
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, r.Items("collapse_diagnosis"), back.Items("collapse_diagnosis"))
}

func TestNormalizeIsAdditive(t *testing.T) {
	raw := Response{
		"business_type":     Str("Creative service"),
		"growth_blocker":    Str("Not enough time"),
		"doc_state":         List("Mostly in my head", "Light documentation"),
		"context_switching": Str("Constantly throughout the day"),
		"project_pile_up":   Str("Waiting on my approval"),
		"absence_impact":    Str("Revenue drops immediately"),
	}

	got := Normalize(raw)

	assert.Equal(t, "Creative service", got.Text("business_model"))
	assert.Equal(t, "Not enough time", got.Text("growth_limiter"))
	assert.True(t, got.Is("process_documentation", "Mostly in my head"))
	assert.Equal(t, "Constantly throughout the day", got.Text("interruption_frequency"))
	assert.Equal(t, "Waiting on my approval", got.Text("project_stall"))
	assert.Equal(t, "Revenue drops immediately", got.Text("two_week_absence"))
	assert.Contains(t, got, "current_state")

	for k := range raw {
		assert.Contains(t, got, k, "original key %s must survive", k)
	}
	assert.NotContains(t, raw, "business_model", "input must not be mutated")
}

func TestNormalizePrefersV2AndFallbackOrder(t *testing.T) {
	raw := Response{
		"business_model":     Str("Advisory/coaching"),
		"business_type":      Str("Creative service"),
		"approval_frequency": Str("Rarely"),
		"context_switching":  Str("Constantly throughout the day"),
	}
	got := Normalize(raw)
	assert.Equal(t, "Advisory/coaching", got.Text("business_model"))
	assert.Equal(t, "Rarely", got.Text("interruption_frequency"))
	assert.Equal(t, got, Normalize(got))
}

func TestResolveTrack(t *testing.T) {
	cases := map[string]Track{
		"Standardized service":  TrackA,
		"Creative service":      TrackB,
		"Expert service":        TrackB,
		"Hybrid model":          TrackB,
		"Advisory/coaching":     TrackC,
		"Logistics":             TrackA,
		"Skilled trades":        TrackA,
		"Management consulting": TrackC,
		"":                      TrackB,
	}
	for model, want := range cases {
		r := FromStrings(map[string]string{"business_model": model})
		assert.Equal(t, want, ResolveTrack(r), "model %q", model)
	}
	assert.Equal(t, TrackA, ResolveTrack(FromStrings(map[string]string{"businessType": "Standardized service"})))
	assert.Equal(t, TrackB, ResolveTrack(nil))
}

func TestSessionIsImmutable(t *testing.T) {
	s0 := NewSession(ModeInitial)
	s1 := s0.Answer("final_decisions", Str("Always me"))
	s2 := s1.Answer("final_decisions", Str("Mostly me"))

	assert.Equal(t, 0, s0.Step)
	assert.False(t, s0.Answers.Has("final_decisions"))
	assert.Equal(t, 1, s1.Step)
	assert.Equal(t, "Always me", s1.Answers.Text("final_decisions"))
	assert.Equal(t, 1, s2.Step)
	assert.Equal(t, "Mostly me", s2.Answers.Text("final_decisions"))
	assert.Equal(t, 0, s2.Back().Step)
}

func TestFingerprintStable(t *testing.T) {
	a := FromStrings(map[string]string{"a": "1", "b": "2"})
	b := FromStrings(map[string]string{"b": "2", "a": "1"})
	assert.Equal(t, Fingerprint(a), Fingerprint(b))
	assert.NotEqual(t, Fingerprint(a), Fingerprint(a.With("c", Str("3"))))
}

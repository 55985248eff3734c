package deepdive

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clarity-backend/internal/diagnostic/classify"
	"clarity-backend/internal/diagnostic/intake"
	"clarity-backend/internal/diagnostic/preview"
)

func creativeAgency() intake.Response {
	return intake.FromStrings(map[string]string{
		"business_model":         "Creative service",
		"revenue_generation":     "Founder delivers majority of service",
		"two_week_absence":       "Revenue drops immediately",
		"final_decisions":        "Always me",
		"project_stall":          "Waiting on my approval",
		"growth_limiter":         "Not enough time",
		"process_documentation":  "Mostly in my head",
		"roles_handled":          "7+",
		"client_relationship":    "Clients hire me specifically",
		"key_member_leaves":      "Revenue drops",
		"pricing_decisions":      "Only by me",
		"interruption_frequency": "Constantly throughout the day",
		"hiring_situation":       "Actively hiring, hard to find talent",
		"free_capacity":          "Better systems",
		"current_state":          "Growing but strained",
		"firstName":              "Jane",
		"email":                  "jane@test.com",
		"businessName":           "Test Agency",
	})
}

func standardized() intake.Response {
	return intake.FromStrings(map[string]string{
		"business_model":         "Standardized service",
		"revenue_generation":     "Team delivers, founder reviews",
		"two_week_absence":       "Work slows significantly",
		"final_decisions":        "Mostly me",
		"project_stall":          "Waiting on team execution",
		"growth_limiter":         "Operational inefficiency",
		"process_documentation":  "Light documentation",
		"roles_handled":          "3–4",
		"client_relationship":    "Clients hire the firm but expect me involved",
		"key_member_leaves":      "Delivery slows",
		"pricing_decisions":      "I approve final pricing",
		"interruption_frequency": "Multiple times daily",
		"hiring_situation":       "Hiring occasionally",
		"free_capacity":          "Hiring more staff",
		"current_state":          "Stable but capped",
		"businessName":           "Test Services",
	})
}

func coaching() intake.Response {
	return intake.FromStrings(map[string]string{
		"business_model":         "Advisory/coaching",
		"revenue_generation":     "Founder delivers majority of service",
		"two_week_absence":       "Revenue drops immediately",
		"final_decisions":        "Always me",
		"project_stall":          "Waiting on my approval",
		"growth_limiter":         "Not enough time",
		"process_documentation":  "Mostly in my head",
		"roles_handled":          "5–6",
		"client_relationship":    "Clients hire me specifically",
		"key_member_leaves":      "Temporary disruption",
		"pricing_decisions":      "Only by me",
		"interruption_frequency": "A few times per week",
		"hiring_situation":       "Fully staffed",
		"free_capacity":          "Delegating approvals",
		"current_state":          "Profitable but founder-heavy",
		"businessName":           "Test Consulting",
	})
}

func build(r intake.Response, prefs Prefs) Pack {
	return Build(Input{Intake: r, Preview: preview.Run(r), Prefs: prefs})
}

func countModule(p Pack, module string) int {
	n := 0
	for _, q := range p.Questions {
		if q.Module == module {
			n++
		}
	}
	return n
}

func TestBankLoads(t *testing.T) {
	b := DefaultBank()
	require.NotEmpty(t, b.Questions)
	assert.Equal(t, b.Version, QuestionBankVersion())
	for _, id := range append(append([]string(nil), spineIDs...), personableIDs...) {
		_, ok := b.Question(id)
		assert.True(t, ok, "bank is missing %s", id)
	}
}

func TestParseBankRejectsDuplicates(t *testing.T) {
	doc := []byte(`
version: "1"
questions:
  - {id: a, module: M, text: A, type: single, tracks: [UNIVERSAL]}
  - {id: a, module: M, text: B, type: single, tracks: [UNIVERSAL]}
`)
	_, err := ParseBank(doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate id")

	doc = []byte(`
version: "1"
questions:
  - id: child
    module: M
    text: C
    type: single
    tracks: [UNIVERSAL]
    dependsOn: {questionId: ghost, requiredValue: ["Yes"]}
`)
	_, err = ParseBank(doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown")
}

func TestBuildIsDeterministic(t *testing.T) {
	r := creativeAgency()
	p := preview.Run(r)
	a := Build(Input{Intake: r, Preview: p})
	b := Build(Input{Intake: r, Preview: p})
	assert.Equal(t, a.IDs(), b.IDs())
	if diff := cmp.Diff(a.Meta, b.Meta); diff != "" {
		t.Fatalf("pack meta differs (-a +b):\n%s", diff)
	}
}

func TestModeSizing(t *testing.T) {
	cases := []struct {
		mode     Mode
		min, max int
	}{
		{ModeShort, 10, 18},
		{ModeStandard, 15, 28},
		{ModeDeep, 20, 38},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(string(tc.mode), func(t *testing.T) {
			t.Parallel()
			got := build(creativeAgency(), Prefs{Mode: tc.mode})
			assert.GreaterOrEqual(t, len(got.Questions), tc.min)
			assert.LessOrEqual(t, len(got.Questions), tc.max)
			assert.Positive(t, got.Meta.EstimatedMinutes)
		})
	}
}

func TestMaxQuestionsOverride(t *testing.T) {
	noPersonable := build(creativeAgency(), Prefs{Mode: ModeDeep, MaxQuestions: 14, ExcludePersonable: true})
	assert.LessOrEqual(t, len(noPersonable.Questions), 14)

	withPersonable := build(creativeAgency(), Prefs{Mode: ModeDeep, MaxQuestions: 20})
	assert.LessOrEqual(t, len(withPersonable.Questions), 23)
	assert.Equal(t, 3, withPersonable.Meta.PersonableCount)
}

func TestTrackAssignment(t *testing.T) {
	assert.Equal(t, intake.TrackB, build(creativeAgency(), Prefs{}).Meta.Track)
	assert.Equal(t, intake.TrackA, build(standardized(), Prefs{}).Meta.Track)
	assert.Equal(t, intake.TrackC, build(coaching(), Prefs{}).Meta.Track)
}

func TestModuleSelectionFollowsConstraints(t *testing.T) {
	got := build(creativeAgency(), Prefs{})
	assert.GreaterOrEqual(t, len(got.Meta.SelectedModules), 2)
	assert.NotEmpty(t, got.Meta.PrimaryConstraint)
	assert.NotEmpty(t, got.Meta.SecondaryConstraint)
	assert.Equal(t, []string{"System Health", "Workload Analysis"}, got.Meta.SelectedModules)

	focused := build(creativeAgency(), Prefs{Focus: FocusSales})
	assert.Equal(t, []string{"System Health", "Workload Analysis", "Process Heatmap"}, focused.Meta.SelectedModules)
}

func TestSelectModulesFallsBackToPrimaryList(t *testing.T) {
	got := selectModules("structuralFragility", "", FocusMixed)
	assert.Equal(t, []string{"System Health", "Process Heatmap"}, got)

	got = selectModules("capacityConstraint", "founderCentralization", FocusMixed)
	assert.Equal(t, []string{moduleFinancialHealth, "Workload Analysis"}, got)

	got = selectModules("", "structuralFragility", FocusMixed)
	assert.Equal(t, []string{"System Health"}, got, "an unknown primary has no list to fall back to")

	got = selectModules("", "", FocusMixed)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestPersonableLayer(t *testing.T) {
	for _, mode := range []Mode{ModeShort, ModeStandard} {
		got := build(creativeAgency(), Prefs{Mode: mode})
		assert.GreaterOrEqual(t, countModule(got, moduleFounderReality), 2, mode)
		assert.GreaterOrEqual(t, got.Meta.PersonableCount, 2, mode)

		last := got.Questions[len(got.Questions)-1]
		assert.Equal(t, moduleFounderReality, last.Module, "personable questions come last")
	}

	off := build(creativeAgency(), Prefs{ExcludePersonable: true})
	assert.Zero(t, countModule(off, moduleFounderReality))
	assert.Zero(t, off.Meta.PersonableCount)
}

func TestParentsPrecedeDependents(t *testing.T) {
	for _, r := range []intake.Response{creativeAgency(), standardized(), coaching()} {
		got := build(r, Prefs{Mode: ModeDeep})
		pos := map[string]int{}
		for i, id := range got.IDs() {
			pos[id] = i
		}
		for _, q := range got.Questions {
			if q.DependsOn == nil {
				continue
			}
			parent, ok := pos[q.DependsOn.QuestionID]
			require.True(t, ok, "%s kept without its parent", q.ID)
			assert.Less(t, parent, pos[q.ID])
		}
	}
}

func TestNoDuplicateIDs(t *testing.T) {
	got := build(creativeAgency(), Prefs{Mode: ModeDeep})
	seen := map[string]bool{}
	for _, id := range got.IDs() {
		assert.False(t, seen[id], "duplicate %s", id)
		seen[id] = true
	}
}

func TestSpineAlwaysPresent(t *testing.T) {
	got := build(creativeAgency(), Prefs{Mode: ModeShort})
	ids := map[string]bool{}
	for _, id := range got.IDs() {
		ids[id] = true
	}
	for _, id := range []string{"deep_work_audit", "recovery_tax", "bus_factor_30_day", "interruption_source_id"} {
		assert.True(t, ids[id], id)
	}
	assert.Equal(t, len(spineIDs), got.Meta.SpineCount)
}

func TestAvoidFinance(t *testing.T) {
	with := build(creativeAgency(), Prefs{Mode: ModeStandard})
	without := build(creativeAgency(), Prefs{Mode: ModeStandard, AvoidFinance: true})

	assert.LessOrEqual(t, countModule(without, moduleFinancialHealth), countModule(with, moduleFinancialHealth))
	assert.Zero(t, countModule(without, moduleFinancialHealth))
	assert.Equal(t, len(spineIDs)-len(spineFinanceIDs), without.Meta.SpineCount)

	capacity := Build(Input{
		Intake: coaching(),
		Preview: preview.Result{
			PrimaryConstraint:   classify.DisplayConstraint{Type: "capacityConstraint", Label: "Capacity Constraint", Score: 60},
			SecondaryConstraint: classify.DisplayConstraint{Type: "structuralFragility", Label: "System Fragility", Score: 55},
		},
		Prefs: Prefs{AvoidFinance: true},
	})
	require.NotEmpty(t, capacity.Meta.SelectedModules)
	assert.Equal(t, moduleFinancialHealth, capacity.Meta.SelectedModules[0], "module selection ignores finance avoidance")
	assert.Equal(t, []string{moduleFinancialHealth, "System Health"}, capacity.Meta.SelectedModules)
	assert.Zero(t, countModule(capacity, moduleFinancialHealth), "finance questions are filtered from the trimmed pool")
}

func TestPackMeta(t *testing.T) {
	got := build(creativeAgency(), Prefs{})
	assert.Regexp(t, `^pack_[A-Za-z0-9]{1,16}$`, got.Meta.PackID)
	assert.Equal(t, "pack_BstructuralFragi", got.Meta.PackID)
	assert.Regexp(t, `^[ABC]$`, string(got.Meta.Track))
	assert.GreaterOrEqual(t, len(got.Meta.SelectedModules), 2)
	assert.Positive(t, got.Meta.SpineCount)
	assert.Positive(t, got.Meta.EstimatedMinutes)
	assert.Equal(t, BuilderVersion, got.Meta.BuilderVersion)
	assert.Equal(t, QuestionBankVersion(), got.Meta.QuestionBankVersion)
	assert.Equal(t, len(got.Questions),
		got.Meta.SpineCount+got.Meta.ModuleCount+got.Meta.PersonableCount+trackOnly(got))
}

// trackOnly counts the track-tagged questions that came from the track
// layer rather than a selected module.
func trackOnly(p Pack) int {
	selected := map[string]bool{}
	for _, m := range p.Meta.SelectedModules {
		selected[m] = true
	}
	n := 0
	for _, q := range p.Questions {
		if !q.Universal() && !selected[q.Module] {
			n++
		}
	}
	return n
}

func TestIsOutdatedPack(t *testing.T) {
	assert.True(t, IsOutdatedPack(nil))
	assert.True(t, IsOutdatedPack(&PackMeta{BuilderVersion: "older", QuestionBankVersion: QuestionBankVersion()}))
	assert.True(t, IsOutdatedPack(&PackMeta{BuilderVersion: BuilderVersion, QuestionBankVersion: "older"}))
	assert.False(t, IsOutdatedPack(&PackMeta{BuilderVersion: BuilderVersion, QuestionBankVersion: QuestionBankVersion()}))
}

func TestTrackAQuestionsIncluded(t *testing.T) {
	got := build(standardized(), Prefs{Mode: ModeDeep})
	ids := map[string]bool{}
	for _, id := range got.IDs() {
		ids[id] = true
	}
	included := 0
	for _, id := range []string{"gatekeeper_protocol", "handoff_dependency", "qualification_triage", "fulfillment_production", "team_idle_time_cost"} {
		if ids[id] {
			included++
		}
	}
	assert.Positive(t, included)
	assert.Positive(t, got.Meta.TrackCount)
}

func TestTrackQuestionsStayInRelevantModules(t *testing.T) {
	got := Build(Input{
		Intake: coaching(),
		Preview: preview.Result{
			PrimaryConstraint:   classify.DisplayConstraint{Type: "structuralFragility", Label: "System Fragility", Score: 60},
			SecondaryConstraint: classify.DisplayConstraint{Type: "capacityConstraint", Label: "Capacity Constraint", Score: 55},
		},
		Prefs: Prefs{Mode: ModeStandard},
	})

	allowed := map[string]bool{
		"System Health":     true,
		"Financial Health":  true,
		"Process Heatmap":   true,
		"Flow Friction":     true,
		"Workload Analysis": true,
	}
	var trackSpecific []Question
	for _, q := range got.Questions {
		if q.hasTrack(intake.TrackC) && !q.Universal() {
			trackSpecific = append(trackSpecific, q)
		}
	}
	require.NotEmpty(t, trackSpecific)
	for _, q := range trackSpecific {
		assert.NotEqual(t, "Decision Load", q.Module, q.ID)
		assert.True(t, allowed[q.Module], "%s from %s", q.ID, q.Module)
	}
}

func TestTrimDropsOrphans(t *testing.T) {
	parent := Question{ID: "p", Type: TypeSingle}
	child := Question{ID: "c", Type: TypeSingle, DependsOn: &Dependency{QuestionID: "p"}}
	other := Question{ID: "o", Type: TypeSingle}

	ordered := topoSort([]Question{other, child, parent})
	assert.Equal(t, []string{"o", "p", "c"}, ids(ordered))

	trimmed := trimToLimit([]Question{other, child, parent}, 2)
	assert.Equal(t, []string{"o"}, ids(trimmed))
}

func ids(qs []Question) []string {
	out := make([]string, len(qs))
	for i, q := range qs {
		out[i] = q.ID
	}
	return out
}

func TestEstimateMinutes(t *testing.T) {
	qs := []Question{{Type: TypeSingle}, {Type: TypeSingle}, {Type: TypeSingle}, {Type: TypeSingle}, {Type: TypeSingle}}
	assert.Equal(t, 2, estimateMinutes(qs))
	assert.Equal(t, 4, estimateMinutes(append(qs, Question{Type: TypeText})))
	assert.Equal(t, 0, estimateMinutes(nil))
}

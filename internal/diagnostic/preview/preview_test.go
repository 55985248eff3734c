package preview

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clarity-backend/internal/diagnostic/classify"
	"clarity-backend/internal/diagnostic/intake"
	o "clarity-backend/internal/diagnostic/options"
	"clarity-backend/internal/diagnostic/scoring"
)

var fixedDate = time.Date(2025, time.March, 4, 10, 0, 0, 0, time.UTC)

func makeIntake(overrides map[string]string) intake.Response {
	base := map[string]string{
		intake.KeyFirstName:    "Test",
		intake.KeyEmail:        "test@example.com",
		intake.KeyBusinessName: "TestCo",
	}
	for k, v := range overrides {
		base[k] = v
	}
	return intake.FromStrings(base)
}

func run(overrides map[string]string) Result {
	return RunAt(makeIntake(overrides), fixedDate)
}

func TestStableCappedRequiresExactOption(t *testing.T) {
	exact := run(map[string]string{
		o.CurrentState:   o.StateStableCapped,
		o.GrowthLimiter:  o.LimiterTime,
		o.FinalDecisions: o.DecisionsShared,
	})
	assert.Contains(t, exact.LoadTrajectory, "structural ceiling")
	assert.Contains(t, exact.ConstraintSnapshot, "plateau")

	custom := run(map[string]string{
		o.CurrentState:   "We feel capped",
		o.GrowthLimiter:  o.LimiterTime,
		o.FinalDecisions: o.DecisionsShared,
	})
	assert.NotContains(t, custom.ConstraintSnapshot, "plateau")
	assert.NotContains(t, custom.LoadTrajectory, "structural ceiling")
	assert.Contains(t, custom.ConstraintSnapshot, "As demand increases")
}

func TestScoresIgnoreParaphrases(t *testing.T) {
	exact := run(map[string]string{
		o.FinalDecisions: o.DecisionsAlwaysMe,
		o.ProjectStall:   o.StallApproval,
	})
	assert.GreaterOrEqual(t, exact.Metadata.Scores.DecisionBottleneck, 45)

	fuzzy := run(map[string]string{
		o.FinalDecisions: "always me decisions",
		o.ProjectStall:   "waiting on my approval sometimes",
	})
	assert.Equal(t, 0, fuzzy.Metadata.Scores.DecisionBottleneck)

	partial := run(map[string]string{o.TwoWeekAbsence: "Revenue drops", o.RolesHandled: "7"})
	assert.Equal(t, 0, partial.Metadata.Scores.FounderCentralization)
}

func TestExposureMetricsNeverRepeatLabel(t *testing.T) {
	shared := run(map[string]string{
		o.FinalDecisions:        o.DecisionsShared,
		o.RevenueGeneration:     o.RevenueTeamReviews,
		o.ProcessDocumentation:  o.DocsLight,
		o.RolesHandled:          o.RolesFiveSix,
		o.InterruptionFrequency: o.InterruptFewWeekly,
	})
	var decisionLine string
	for _, l := range shared.ExposureMetrics {
		if strings.HasPrefix(l, "Decision authority:") {
			decisionLine = l
		}
	}
	require.NotEmpty(t, decisionLine)
	assert.Equal(t, 1, strings.Count(decisionLine, "Decision authority"))

	heavy := run(map[string]string{
		o.FinalDecisions:        o.DecisionsAlwaysMe,
		o.RevenueGeneration:     o.RevenueFounderMajority,
		o.ProcessDocumentation:  o.DocsInHead,
		o.RolesHandled:          o.RolesSevenPlus,
		o.InterruptionFrequency: o.InterruptConstantly,
		o.ClientRelationship:    o.ClientsHireMe,
	})
	assert.LessOrEqual(t, len(heavy.ExposureMetrics), maxExposureMetrics)
	for _, line := range heavy.ExposureMetrics {
		idx := strings.Index(line, ":")
		require.Positive(t, idx, line)
		label := strings.ToLower(strings.TrimSpace(line[:idx]))
		value := strings.ToLower(strings.TrimSpace(line[idx+1:]))
		assert.False(t, strings.HasPrefix(value, label), line)
	}
}

func TestExposureMetricsSkipFixedPricingAndTeamClients(t *testing.T) {
	got := run(map[string]string{
		o.PricingDecisions:   o.PricingFixed,
		o.ClientRelationship: o.ClientsAssigned,
	})
	assert.Empty(t, got.ExposureMetrics)

	got = run(map[string]string{
		o.PricingDecisions:   o.PricingOnlyMe,
		o.ClientRelationship: o.ClientsExpectMe,
	})
	assert.Equal(t, []string{
		"Pricing authority: Only by me",
		"Client structure: Clients expect founder involvement",
	}, got.ExposureMetrics)
}

func TestAcceptanceStableCappedTimeShared(t *testing.T) {
	got := run(map[string]string{
		o.CurrentState:   o.StateStableCapped,
		o.GrowthLimiter:  o.LimiterTime,
		o.FinalDecisions: o.DecisionsShared,
		o.BusinessModel:  o.ModelCreative,
	})

	assert.Equal(t, string(scoring.CapacityConstraint), got.PrimaryConstraint.Type)
	assert.Equal(t, string(scoring.FounderCentralization), got.SecondaryConstraint.Type)
	assert.NotContains(t, got.ConstraintCompoundNarrative, "creating reinforcing pressure")
	assert.Contains(t, got.StructuralTension, "capacity problem")

	var decisionLine string
	for _, l := range got.ExposureMetrics {
		if strings.HasPrefix(l, "Decision authority:") {
			decisionLine = l
		}
	}
	assert.Contains(t, decisionLine, "Shared with senior staff")
	assert.NotContains(t, decisionLine, "Decision authority is shared")

	assert.Equal(t, intake.TrackB, got.Metadata.Track)
	assert.Len(t, got.Metadata.Ranked, 4)
	assert.Positive(t, got.Metadata.Primary.Score)
}

func TestMetadataTracks(t *testing.T) {
	got := run(map[string]string{
		o.BusinessModel:  o.ModelStandardized,
		o.FinalDecisions: o.DecisionsAlwaysMe,
		o.TwoWeekAbsence: o.AbsenceRevenueDrops,
	})
	assert.Equal(t, intake.TrackA, got.Metadata.Track)
	assert.Len(t, got.Metadata.Ranked, 4)
	assert.NotEmpty(t, got.Metadata.Primary.Label)
	assert.NotEmpty(t, got.Metadata.Secondary.Type)

	cases := map[string]intake.Track{
		o.ModelStandardized: intake.TrackA,
		o.ModelCreative:     intake.TrackB,
		o.ModelAdvisory:     intake.TrackC,
		"":                  intake.TrackB,
	}
	for model, want := range cases {
		in := map[string]string{}
		if model != "" {
			in[o.BusinessModel] = model
		}
		assert.Equal(t, want, run(in).Metadata.Track, "model %q", model)
	}
}

func TestCompoundNarrativesHitSpecificPairs(t *testing.T) {
	teamDelivers := run(map[string]string{
		o.RevenueGeneration:    o.RevenueTeamReviews,
		o.TwoWeekAbsence:       o.AbsenceRevenueDrops,
		o.FinalDecisions:       o.DecisionsAlwaysMe,
		o.ProcessDocumentation: o.DocsInHead,
		o.ClientRelationship:   o.ClientsHireMe,
	})
	assert.NotContains(t, teamDelivers.ConstraintCompoundNarrative, "creating reinforcing pressure")

	chaotic := run(map[string]string{
		o.CurrentState:    o.StateChaotic,
		o.GrowthLimiter:   o.LimiterOps,
		o.HiringSituation: o.HiringHardToFind,
		o.FreeCapacity:    o.FreeHire,
		o.KeyMemberLeaves: o.KeyLeaveRevenueDrops,
	})
	assert.NotContains(t, chaotic.ConstraintCompoundNarrative, "creating reinforcing pressure")
}

func TestStructuralTensions(t *testing.T) {
	cases := []struct {
		name string
		in   map[string]string
		want string
	}{
		{
			name: "shared decisions stalled on approval",
			in:   map[string]string{o.FinalDecisions: o.DecisionsShared, o.ProjectStall: o.StallApproval},
			want: "shared in theory",
		},
		{
			name: "few interruptions but no time",
			in:   map[string]string{o.InterruptionFrequency: o.InterruptFewWeekly, o.GrowthLimiter: o.LimiterTime},
			want: "somewhere other than decision load",
		},
		{
			name: "docs unused with founder review",
			in:   map[string]string{o.ProcessDocumentation: o.DocsNotUsed, o.RevenueGeneration: o.RevenueTeamReviews},
			want: "formality",
		},
		{
			name: "capped on team execution",
			in:   map[string]string{o.CurrentState: o.StateStableCapped, o.ProjectStall: o.StallTeamExecution},
			want: "delivery capacity",
		},
		{
			name: "nothing contradicts",
			in:   map[string]string{},
			want: "designed for an earlier stage",
		},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Contains(t, run(tc.in).StructuralTension, tc.want)
		})
	}
}

func TestCriticalProfileRegressions(t *testing.T) {
	processGaps := run(map[string]string{
		o.ProcessDocumentation: o.DocsNotUsed,
		o.ProjectStall:         o.StallTeamExecution,
		o.GrowthLimiter:        o.LimiterOps,
		o.FinalDecisions:       o.DecisionsShared,
	})
	assert.Equal(t, "Process Gaps", processGaps.PrimaryConstraint.Label)
	assert.Equal(t, string(scoring.StructuralFragility), processGaps.PrimaryConstraint.Type)

	siloIntake := makeIntake(map[string]string{
		o.ProcessDocumentation:  o.DocsInHead,
		o.ClientRelationship:    o.ClientsHireMe,
		o.HiringSituation:       o.HiringHardToFind,
		o.TwoWeekAbsence:        o.AbsenceEscalates,
		o.PricingDecisions:      o.PricingIApprove,
		o.FinalDecisions:        o.DecisionsMostlyMe,
		o.InterruptionFrequency: o.InterruptMultipleDaily,
		o.RolesHandled:          o.RolesFiveSix,
		o.ProjectStall:          o.StallTeamExecution,
	})
	silo := RunAt(siloIntake, fixedDate)
	assert.Equal(t, "Knowledge Silos", silo.PrimaryConstraint.Label)
	assert.GreaterOrEqual(t, classify.Eligibility(siloIntake).Metadata.FounderDependencyScore, 61)

	strategic := run(map[string]string{
		o.RevenueGeneration:     o.RevenueTeamIndependent,
		o.FinalDecisions:        o.DecisionsRarelyMe,
		o.ProcessDocumentation:  o.DocsFully,
		o.TwoWeekAbsence:        o.AbsenceRunsNormally,
		o.GrowthLimiter:         o.LimiterDemand,
		o.ClientRelationship:    o.ClientsNoFounder,
		o.RolesHandled:          o.RolesOneTwo,
		o.InterruptionFrequency: o.InterruptRarely,
		o.PricingDecisions:      o.PricingFixed,
	})
	assert.Equal(t, "Strategic Optimization", strategic.PrimaryConstraint.Label)
	assert.Equal(t, classify.StrategicType, strategic.PrimaryConstraint.Type)
	assert.Equal(t, 0, strategic.Metadata.Scores.CapacityConstraint)
	assert.Equal(t, "Strategic Optimization", strategic.ConstraintLabel)
}

func TestLifecycleUnknownIsHonest(t *testing.T) {
	got := run(nil)
	require.Len(t, got.Lifecycle, 7)
	for _, stage := range got.Lifecycle {
		assert.Equal(t, StatusUnknown, stage.Status, stage.ID)
	}

	got = run(map[string]string{
		o.ProcessDocumentation: o.DocsInHead,
		o.TwoWeekAbsence:       o.AbsenceRunsNormally,
	})
	byID := map[string]StageStatus{}
	for _, s := range got.Lifecycle {
		byID[s.ID] = s.Status
	}
	assert.Equal(t, StatusCritical, byID["systems"])
	assert.Equal(t, StatusHealthy, byID["transferability"])
	assert.Equal(t, StatusUnknown, byID["sales"])
}

func TestSustainabilityHorizonBands(t *testing.T) {
	calm := run(map[string]string{o.GrowthLimiter: o.LimiterDemand})
	assert.Equal(t, "Stable", calm.SustainabilityHorizon.Label)
	assert.Equal(t, "low", calm.SustainabilityHorizon.PressureLevel)
	assert.Empty(t, calm.SustainabilityHorizon.Factors)

	strained := run(map[string]string{
		o.BusinessModel:        o.ModelAdvisory,
		o.RevenueGeneration:    o.RevenueFounderMajority,
		o.TwoWeekAbsence:       o.AbsenceRevenueDrops,
		o.FinalDecisions:       o.DecisionsAlwaysMe,
		o.ProcessDocumentation: o.DocsInHead,
		o.ClientRelationship:   o.ClientsHireMe,
		o.RolesHandled:         o.RolesSevenPlus,
		keyDelegationBlocker:   "There's no one to delegate to",
	})
	assert.Equal(t, DependencyCritical, strained.FounderDependency)
	assert.Equal(t, "Short", strained.SustainabilityHorizon.Label)
	assert.GreaterOrEqual(t, strained.SustainabilityHorizon.Pressure, 70)
	assert.Contains(t, strained.SustainabilityHorizon.Factors, "Founder dependency is CRITICAL")
}

func TestHorizonSprawlCountsResponsibilities(t *testing.T) {
	const sprawl = "Founder responsibilities have sprawled past five areas"

	roles := run(map[string]string{o.RolesHandled: o.RolesSevenPlus})
	assert.NotContains(t, roles.SustainabilityHorizon.Factors, sprawl)

	four := makeIntake(nil).With(keyResponsibilities, intake.List("Sales", "Payroll", "Hiring", "Delivery"))
	assert.NotContains(t, RunAt(four, fixedDate).SustainabilityHorizon.Factors, sprawl)

	five := four.With(keyResponsibilities, intake.List("Sales", "Payroll", "Hiring", "Delivery", "Marketing"))
	got := RunAt(five, fixedDate).SustainabilityHorizon
	assert.Contains(t, got.Factors, sprawl)
	assert.GreaterOrEqual(t, got.Pressure, 10)
}

func TestPerTrackConstraintType(t *testing.T) {
	cases := []struct {
		name string
		in   map[string]string
		want classify.ConstraintType
	}{
		{
			name: "track A overbooked",
			in:   map[string]string{o.BusinessModel: o.ModelStandardized, keyCapacityUtilization: "Overbooked (no slack)"},
			want: classify.ConstraintTime,
		},
		{
			name: "track B interruptions",
			in:   map[string]string{o.BusinessModel: o.ModelExpert, o.InterruptionFrequency: o.InterruptMultipleDaily},
			want: classify.ConstraintCognitive,
		},
		{
			name: "track B approvals",
			in:   map[string]string{o.BusinessModel: o.ModelCreative, o.ProjectStall: o.StallApproval},
			want: classify.ConstraintPolicy,
		},
		{
			name: "track C legacy revenue dependency",
			in:   map[string]string{o.BusinessModel: o.ModelAdvisory, keyRevenueDependency: "Goes to zero"},
			want: classify.ConstraintTime,
		},
		{
			name: "no signal",
			in:   map[string]string{o.BusinessModel: o.ModelAdvisory},
			want: classify.ConstraintUnknown,
		},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, run(tc.in).ConstraintType)
		})
	}
}

func TestRunIsDeterministic(t *testing.T) {
	in := map[string]string{
		o.BusinessModel:         o.ModelAdvisory,
		o.RevenueGeneration:     o.RevenueMix,
		o.FinalDecisions:        o.DecisionsMostlyMe,
		o.ProjectStall:          o.StallApproval,
		o.InterruptionFrequency: o.InterruptConstantly,
	}
	a, b := run(in), run(in)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("preview differs between runs (-a +b):\n%s", diff)
	}
	assert.Equal(t, "March 4, 2025", a.Date)
	assert.Equal(t, "TestCo", a.BusinessName)
	assert.Equal(t, defaultBusinessName, RunAt(intake.Response{}, fixedDate).BusinessName)
}

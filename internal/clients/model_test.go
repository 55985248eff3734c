package clients

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"clarity-backend/internal/diagnostic/intake"
)

func TestDeriveStage(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   Signals
		want Stage
	}{
		{name: "nothing", want: StageNew},
		{name: "intake only", in: Signals{HasIntake: true}, want: StagePreviewDone},
		{name: "deposit", in: Signals{HasIntake: true, DepositPaid: true}, want: StageDepositPaid},
		{name: "deposit before intake", in: Signals{DepositPaid: true}, want: StageDepositPaid},
		{name: "deep dive", in: Signals{HasIntake: true, DepositPaid: true, HasDeepDive: true}, want: StageClarityDone},
		{name: "balance", in: Signals{HasDeepDive: true, BalancePaid: true}, want: StageBalancePaid},
		{name: "delivered wins", in: Signals{Delivered: true}, want: StageDelivered},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, DeriveStage(tc.in))
		})
	}
}

func TestStageOrderAndLabel(t *testing.T) {
	order := []Stage{StageNew, StagePreviewDone, StageDepositPaid, StageClarityDone, StageBalancePaid, StageDelivered}
	for i, s := range order {
		assert.Equal(t, i, s.Order())
	}
	assert.Equal(t, "New Lead", StageNew.Label())
	assert.Equal(t, "Clarity Done", StageClarityDone.Label())
}

func TestIdentityFromAnswers(t *testing.T) {
	got := IdentityFromAnswers(intake.FromStrings(map[string]string{
		"first_name":   " Dana ",
		"businessName": "Decision Queue Co",
		"website":      "https://dq.example",
	}))
	assert.Equal(t, Identity{FirstName: "Dana", BusinessName: "Decision Queue Co", Website: "https://dq.example"}, got)
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Dana (DQ Co)", Client{FirstName: "Dana", BusinessName: "DQ Co"}.DisplayName())
	assert.Equal(t, "DQ Co", Client{BusinessName: "DQ Co"}.DisplayName())
	assert.Equal(t, "a@b.co", Client{Email: "a@b.co"}.DisplayName())
}

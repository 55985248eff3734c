package util

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOwnerSegment(t *testing.T) {
	got, err := OwnerSegment("client-1")
	require.NoError(t, err)
	assert.Regexp(t, `^[0-9a-f]{32}$`, got)

	same, err := OwnerSegment("  CLIENT-1 ")
	require.NoError(t, err)
	assert.Equal(t, got, same)

	other, err := OwnerSegment("client-2")
	require.NoError(t, err)
	assert.NotEqual(t, got, other)

	_, err = OwnerSegment(" ")
	assert.ErrorIs(t, err, ErrInvalidSegment)
}

func TestNameSegment(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"9b2f6a3e-1c4d-4e8f-a0b1-2c3d4e5f6a7b", "9b2f6a3e-1c4d-4e8f-a0b1-2c3d4e5f6a7b"},
		{" a/b\\c ", "a_b_c"},
		{"report v2", "report_v2"},
		{"ré.json", "r_.json"},
	}
	for _, tc := range cases {
		got, err := NameSegment(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got)
	}

	for _, bad := range []string{"", "   ", "../x", "a..b", strings.Repeat("x", maxSegmentLen+1)} {
		_, err := NameSegment(bad)
		assert.ErrorIs(t, err, ErrInvalidSegment, bad)
	}
}

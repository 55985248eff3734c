package clients

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeEmail(t *testing.T) {
	got, err := NormalizeEmail("  Owner@Example.COM ")
	require.NoError(t, err)
	assert.Equal(t, "owner@example.com", got)

	for _, bad := range []string{"", "not-an-email", "Owner <owner@example.com>"} {
		_, err := NormalizeEmail(bad)
		assert.ErrorIs(t, err, ErrInvalidEmail, bad)
	}
}

func TestUpsertMergesIdentity(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryRepo())

	first, err := svc.Upsert(ctx, "Owner@Example.com", Identity{FirstName: "Dana", BusinessName: "DQ Co"})
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, "owner@example.com", first.Email)

	second, err := svc.Upsert(ctx, "owner@example.com", Identity{Website: "https://dq.example"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Dana", second.FirstName)
	assert.Equal(t, "DQ Co", second.BusinessName)
	assert.Equal(t, "https://dq.example", second.Website)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)

	byEmail, err := svc.GetByEmail(ctx, " OWNER@example.com")
	require.NoError(t, err)
	assert.Equal(t, first.ID, byEmail.ID)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestServiceLookupErrors(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryRepo())

	_, err := svc.GetByEmail(ctx, "missing@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.GetByID(ctx, "")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Upsert(ctx, "bad", Identity{})
	assert.ErrorIs(t, err, ErrInvalidEmail)

	var nilSvc *Service
	_, err = nilSvc.List(ctx)
	assert.Error(t, err)
}

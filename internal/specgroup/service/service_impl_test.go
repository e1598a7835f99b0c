package service

import (
	"context"
	"testing"

	"github.com/smallbiznis/policyhub/internal/catalogtest"
	"github.com/smallbiznis/policyhub/internal/specgroup/domain"
	"github.com/smallbiznis/policyhub/internal/specgroup/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSpecGroupLifecycle(t *testing.T) {
	svc := New(Params{
		DB:    catalogtest.OpenDB(t),
		Log:   zap.NewNop(),
		GenID: catalogtest.Node(t),
		Repo:  repository.Provide(),
	})
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidName)

	tier, err := svc.Create(ctx, domain.CreateRequest{Name: "Coverage Tier"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, domain.CreateRequest{Name: "Region"})
	require.NoError(t, err)

	items, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Coverage Tier", items[0].Name)

	got, err := svc.Get(ctx, tier.ID)
	require.NoError(t, err)
	assert.Equal(t, tier, got)

	_, err = svc.Get(ctx, "42")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = svc.Get(ctx, "x")
	assert.ErrorIs(t, err, domain.ErrInvalidID)
}

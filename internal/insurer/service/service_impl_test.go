package service

import (
	"context"
	"testing"

	"github.com/smallbiznis/policyhub/internal/catalogtest"
	"github.com/smallbiznis/policyhub/internal/insurer/domain"
	"github.com/smallbiznis/policyhub/internal/insurer/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) domain.Service {
	t.Helper()
	return New(Params{
		DB:    catalogtest.OpenDB(t),
		Log:   zap.NewNop(),
		GenID: catalogtest.Node(t),
		Repo:  repository.Provide(),
	})
}

func TestCreateAndList(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, domain.CreateRequest{Name: "  Acme Mutual "})
	require.NoError(t, err)
	assert.Equal(t, "Acme Mutual", first.Name)
	assert.NotEmpty(t, first.ID)

	second, err := svc.Create(ctx, domain.CreateRequest{Name: "Borealis Life"})
	require.NoError(t, err)

	items, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, first.ID, items[0].ID)
	assert.Equal(t, second.ID, items[1].ID)

	got, err := svc.Get(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, "Borealis Life", got.Name)
}

func TestCreateRejectsEmptyName(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.Create(context.Background(), domain.CreateRequest{Name: "   "})
	assert.ErrorIs(t, err, domain.ErrInvalidName)
}

func TestGetErrors(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Get(ctx, "not-an-id")
	assert.ErrorIs(t, err, domain.ErrInvalidID)

	_, err = svc.Get(ctx, "123456789")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

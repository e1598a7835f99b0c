package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/policyhub/internal/catalogtest"
	insurerrepository "github.com/smallbiznis/policyhub/internal/insurer/repository"
	"github.com/smallbiznis/policyhub/internal/product/domain"
	"github.com/smallbiznis/policyhub/internal/product/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupProductService(t *testing.T) (domain.Service, *catalogtest.Fixture) {
	t.Helper()
	fixture := catalogtest.NewFixture(t)
	svc := New(Params{
		DB:          fixture.DB,
		Log:         zap.NewNop(),
		GenID:       fixture.Node,
		Repo:        repository.Provide(),
		InsurerRepo: insurerrepository.Provide(),
	})
	return svc, fixture
}

func TestCreateProduct(t *testing.T) {
	svc, fixture := setupProductService(t)
	insurer := fixture.Insurer("Acme")
	insurerID := snowflake.ID(insurer.ID).String()
	inactive := false

	created, err := svc.Create(context.Background(), domain.CreateRequest{
		Name:       "Home Basic",
		InsurerID:  insurerID,
		SPSolution: true,
		Active:     &inactive,
	})
	require.NoError(t, err)
	assert.Equal(t, "Home Basic", created.Name)
	assert.Equal(t, insurerID, created.InsurerID)
	assert.True(t, created.SPSolution)
	assert.False(t, created.Active)

	got, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestCreateProductDefaultsActive(t *testing.T) {
	svc, fixture := setupProductService(t)
	insurer := fixture.Insurer("Acme")

	created, err := svc.Create(context.Background(), domain.CreateRequest{
		Name:      "Travel",
		InsurerID: snowflake.ID(insurer.ID).String(),
	})
	require.NoError(t, err)
	assert.True(t, created.Active)
}

func TestCreateProductValidation(t *testing.T) {
	svc, fixture := setupProductService(t)
	insurer := fixture.Insurer("Acme")
	ctx := context.Background()

	cases := []struct {
		name string
		req  domain.CreateRequest
		want error
	}{
		{name: "empty_name", req: domain.CreateRequest{InsurerID: snowflake.ID(insurer.ID).String()}, want: domain.ErrInvalidName},
		{name: "bad_insurer_id", req: domain.CreateRequest{Name: "X", InsurerID: "abc"}, want: domain.ErrInvalidInsurer},
		{name: "unknown_insurer", req: domain.CreateRequest{Name: "X", InsurerID: "987654321"}, want: domain.ErrInsurerNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tc.req)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestListByInsurer(t *testing.T) {
	svc, fixture := setupProductService(t)
	acme := fixture.Insurer("Acme")
	other := fixture.Insurer("Other")
	a := fixture.Product(acme.ID, "A")
	b := fixture.Product(acme.ID, "B")
	fixture.Product(other.ID, "C")

	items, err := svc.ListByInsurer(context.Background(), snowflake.ID(acme.ID).String())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, snowflake.ID(a.ID).String(), items[0].ID)
	assert.Equal(t, snowflake.ID(b.ID).String(), items[1].ID)

	_, err = svc.ListByInsurer(context.Background(), "555")
	assert.ErrorIs(t, err, domain.ErrInsurerNotFound)
}

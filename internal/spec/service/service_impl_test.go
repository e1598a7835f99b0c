package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/policyhub/internal/catalogtest"
	resolutiondomain "github.com/smallbiznis/policyhub/internal/resolution/domain"
	"github.com/smallbiznis/policyhub/internal/spec/domain"
	"github.com/smallbiznis/policyhub/internal/spec/repository"
	specgrouprepository "github.com/smallbiznis/policyhub/internal/specgroup/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func float64Ptr(v float64) *float64 { return &v }
func stringPtr(v string) *string    { return &v }

func setupSpecService(t *testing.T) (domain.Service, *catalogtest.Fixture) {
	t.Helper()
	fixture := catalogtest.NewFixture(t)
	svc := New(Params{
		DB:        fixture.DB,
		Log:       zap.NewNop(),
		GenID:     fixture.Node,
		Repo:      repository.Provide(),
		GroupRepo: specgrouprepository.Provide(),
	})
	return svc, fixture
}

func TestCreateUngroupedSpec(t *testing.T) {
	svc, _ := setupSpecService(t)

	created, err := svc.Create(context.Background(), domain.CreateRequest{
		Shortname:    "coinsurance",
		Description:  "Share paid by the insured",
		DefaultValue: "20%",
		ValueType:    "Percentage",
		MinValue:     float64Ptr(0),
		MaxValue:     float64Ptr(100),
		Editable:     true,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ValueTypePercentage, created.ValueType)
	assert.Nil(t, created.GroupID)
	require.NotNil(t, created.MinValue)
	assert.Equal(t, 0.0, *created.MinValue)

	got, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestCreateGroupedSpecSkipsDefaultValidation(t *testing.T) {
	svc, fixture := setupSpecService(t)
	group := fixture.Group("Coverage Tier")
	groupID := snowflake.ID(group.ID).String()

	created, err := svc.Create(context.Background(), domain.CreateRequest{
		Shortname:    "deductible",
		DefaultValue: "see tier",
		ValueType:    "number",
		GroupID:      &groupID,
	})
	require.NoError(t, err)
	require.NotNil(t, created.GroupID)
	assert.Equal(t, groupID, *created.GroupID)
}

func TestCreateSpecValidation(t *testing.T) {
	svc, _ := setupSpecService(t)
	ctx := context.Background()

	cases := []struct {
		name string
		req  domain.CreateRequest
		want error
	}{
		{name: "shortname", req: domain.CreateRequest{ValueType: "text"}, want: domain.ErrInvalidShortname},
		{name: "value_type", req: domain.CreateRequest{Shortname: "s", ValueType: "money"}, want: domain.ErrInvalidValueType},
		{name: "bounds_on_text", req: domain.CreateRequest{Shortname: "s", ValueType: "text", MaxValue: float64Ptr(3)}, want: domain.ErrBoundsNotNumeric},
		{name: "min_above_max", req: domain.CreateRequest{Shortname: "s", ValueType: "number", MinValue: float64Ptr(5), MaxValue: float64Ptr(1)}, want: domain.ErrInvalidBounds},
		{name: "bad_group", req: domain.CreateRequest{Shortname: "s", ValueType: "number", GroupID: stringPtr("nope")}, want: domain.ErrInvalidGroup},
		{name: "missing_group", req: domain.CreateRequest{Shortname: "s", ValueType: "number", GroupID: stringPtr("777")}, want: domain.ErrGroupNotFound},
		{name: "default_out_of_range", req: domain.CreateRequest{Shortname: "s", ValueType: "number", DefaultValue: "150", MaxValue: float64Ptr(100)}, want: resolutiondomain.ErrInvalidValue},
		{name: "default_not_numeric", req: domain.CreateRequest{Shortname: "s", ValueType: "number", DefaultValue: "lots"}, want: resolutiondomain.ErrInvalidValue},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tc.req)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestListReturnsGlobalUniverseInOrder(t *testing.T) {
	svc, _ := setupSpecService(t)
	ctx := context.Background()

	for _, name := range []string{"a", "b", "c"} {
		_, err := svc.Create(ctx, domain.CreateRequest{Shortname: name, ValueType: "text"})
		require.NoError(t, err)
	}

	items, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "a", items[0].Shortname)
	assert.Equal(t, "c", items[2].Shortname)
}

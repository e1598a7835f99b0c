package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/policyhub/internal/catalogtest"
	"github.com/smallbiznis/policyhub/internal/groupchoice/domain"
	"github.com/smallbiznis/policyhub/internal/groupchoice/repository"
	resolutiondomain "github.com/smallbiznis/policyhub/internal/resolution/domain"
	specdomain "github.com/smallbiznis/policyhub/internal/spec/domain"
	specrepository "github.com/smallbiznis/policyhub/internal/spec/repository"
	specgrouprepository "github.com/smallbiznis/policyhub/internal/specgroup/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func idString(id int64) string { return snowflake.ID(id).String() }

func float64Ptr(v float64) *float64 { return &v }

func setupChoiceService(t *testing.T) (domain.Service, *catalogtest.Fixture) {
	t.Helper()
	fixture := catalogtest.NewFixture(t)
	svc := New(Params{
		DB:        fixture.DB,
		Log:       zap.NewNop(),
		GenID:     fixture.Node,
		Repo:      repository.Provide(),
		GroupRepo: specgrouprepository.Provide(),
		SpecRepo:  specrepository.Provide(),
	})
	return svc, fixture
}

func TestChoiceLifecycle(t *testing.T) {
	svc, fixture := setupChoiceService(t)
	ctx := context.Background()
	tier := fixture.Group("Tier")
	region := fixture.Group("Region")

	gold, err := svc.CreateChoice(ctx, domain.CreateChoiceRequest{SpecGroupID: idString(tier.ID), ChoiceName: " Gold "})
	require.NoError(t, err)
	assert.Equal(t, "Gold", gold.ChoiceName)
	_, err = svc.CreateChoice(ctx, domain.CreateChoiceRequest{SpecGroupID: idString(tier.ID), ChoiceName: "Silver"})
	require.NoError(t, err)
	_, err = svc.CreateChoice(ctx, domain.CreateChoiceRequest{SpecGroupID: idString(region.ID), ChoiceName: "EU"})
	require.NoError(t, err)

	choices, err := svc.ListChoices(ctx, idString(tier.ID))
	require.NoError(t, err)
	require.Len(t, choices, 2)
	assert.Equal(t, gold.ID, choices[0].ID)
	assert.Equal(t, "Silver", choices[1].ChoiceName)

	got, err := svc.GetChoice(ctx, gold.ID)
	require.NoError(t, err)
	assert.Equal(t, gold, got)

	_, err = svc.GetChoice(ctx, "31337")
	assert.ErrorIs(t, err, domain.ErrChoiceNotFound)
}

func TestCreateChoiceValidation(t *testing.T) {
	svc, fixture := setupChoiceService(t)
	ctx := context.Background()
	tier := fixture.Group("Tier")

	_, err := svc.CreateChoice(ctx, domain.CreateChoiceRequest{SpecGroupID: "abc", ChoiceName: "Gold"})
	assert.ErrorIs(t, err, domain.ErrInvalidGroup)
	_, err = svc.CreateChoice(ctx, domain.CreateChoiceRequest{SpecGroupID: idString(tier.ID)})
	assert.ErrorIs(t, err, domain.ErrInvalidChoiceName)
	_, err = svc.CreateChoice(ctx, domain.CreateChoiceRequest{SpecGroupID: "99", ChoiceName: "Gold"})
	assert.ErrorIs(t, err, domain.ErrGroupNotFound)
	_, err = svc.ListChoices(ctx, "99")
	assert.ErrorIs(t, err, domain.ErrGroupNotFound)
}

func TestCreateValue(t *testing.T) {
	svc, fixture := setupChoiceService(t)
	ctx := context.Background()
	tier := fixture.Group("Tier")
	other := fixture.Group("Other")
	deductible := fixture.Spec(specdomain.Spec{
		Shortname: "deductible",
		ValueType: specdomain.ValueTypeNumber,
		MinValue:  float64Ptr(0),
		MaxValue:  float64Ptr(100),
		GroupID:   &tier.ID,
	})
	foreign := fixture.Spec(specdomain.Spec{Shortname: "zone", GroupID: &other.ID})
	ungrouped := fixture.Spec(specdomain.Spec{Shortname: "name"})
	gold := fixture.Choice(tier.ID, "Gold")

	created, err := svc.CreateValue(ctx, domain.CreateValueRequest{
		ChoiceID: idString(gold.ID),
		SpecID:   idString(deductible.ID),
		Value:    "85",
	})
	require.NoError(t, err)
	assert.Equal(t, "85", created.Value)

	values, err := svc.ListValues(ctx, idString(gold.ID))
	require.NoError(t, err)
	require.Len(t, values, 1)
	assert.Equal(t, *created, values[0])

	cases := []struct {
		name string
		req  domain.CreateValueRequest
		want error
	}{
		{name: "duplicate", req: domain.CreateValueRequest{ChoiceID: idString(gold.ID), SpecID: idString(deductible.ID), Value: "10"}, want: domain.ErrDuplicateValue},
		{name: "spec_other_group", req: domain.CreateValueRequest{ChoiceID: idString(gold.ID), SpecID: idString(foreign.ID), Value: "x"}, want: domain.ErrSpecNotInGroup},
		{name: "spec_ungrouped", req: domain.CreateValueRequest{ChoiceID: idString(gold.ID), SpecID: idString(ungrouped.ID), Value: "x"}, want: domain.ErrSpecNotInGroup},
		{name: "out_of_range", req: domain.CreateValueRequest{ChoiceID: idString(gold.ID), SpecID: idString(deductible.ID), Value: "150"}, want: resolutiondomain.ErrInvalidValue},
		{name: "unknown_choice", req: domain.CreateValueRequest{ChoiceID: "5", SpecID: idString(deductible.ID), Value: "1"}, want: domain.ErrChoiceNotFound},
		{name: "unknown_spec", req: domain.CreateValueRequest{ChoiceID: idString(gold.ID), SpecID: "5", Value: "1"}, want: domain.ErrSpecNotFound},
		{name: "bad_choice_id", req: domain.CreateValueRequest{ChoiceID: "x", SpecID: idString(deductible.ID)}, want: domain.ErrInvalidChoice},
		{name: "bad_spec_id", req: domain.CreateValueRequest{ChoiceID: idString(gold.ID), SpecID: ""}, want: domain.ErrInvalidSpec},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateValue(ctx, tc.req)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestListValuesUnknownChoice(t *testing.T) {
	svc, _ := setupChoiceService(t)
	_, err := svc.ListValues(context.Background(), "8")
	assert.ErrorIs(t, err, domain.ErrChoiceNotFound)
}

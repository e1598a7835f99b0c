package seed

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/smallbiznis/policyhub/internal/catalogtest"
	groupchoicedomain "github.com/smallbiznis/policyhub/internal/groupchoice/domain"
	productdomain "github.com/smallbiznis/policyhub/internal/product/domain"
	resolutiondomain "github.com/smallbiznis/policyhub/internal/resolution/domain"
	specdomain "github.com/smallbiznis/policyhub/internal/spec/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSeedFile(t *testing.T) {
	file, err := Load(filepath.Join("testdata", "catalog.yml"))
	require.NoError(t, err)

	require.Len(t, file.Insurers, 2)
	assert.Equal(t, "Acme Assurance", file.Insurers[0].Name)
	require.Len(t, file.Insurers[0].Products, 2)
	assert.True(t, file.Insurers[0].Products[1].SPSolution)
	require.NotNil(t, file.Insurers[1].Products[0].Active)
	assert.False(t, *file.Insurers[1].Products[0].Active)

	require.Len(t, file.Groups, 1)
	assert.Equal(t, []string{"Gold", "Silver"}, file.Groups[0].Choices)

	require.Len(t, file.Specs, 3)
	require.NotNil(t, file.Specs[1].MaxValue)
	assert.Equal(t, 100.0, *file.Specs[1].MaxValue)
	assert.Equal(t, "Gold", file.Specs[2].Values[0].Choice)
}

func TestApplyIsIdempotent(t *testing.T) {
	fixture := catalogtest.NewFixture(t)
	file, err := Load(filepath.Join("testdata", "catalog.yml"))
	require.NoError(t, err)
	ctx := context.Background()

	stats, err := Apply(ctx, fixture.DB, fixture.Node, file)
	require.NoError(t, err)
	assert.Equal(t, Stats{Insurers: 2, Products: 3, Groups: 1, Choices: 2, Specs: 3, Values: 2}, stats)

	stats, err = Apply(ctx, fixture.DB, fixture.Node, file)
	require.NoError(t, err)
	assert.Equal(t, Stats{}, stats)

	var products []productdomain.Product
	require.NoError(t, fixture.DB.Order("id").Find(&products).Error)
	require.Len(t, products, 3)
	assert.False(t, products[2].Active)

	var specs []specdomain.Spec
	require.NoError(t, fixture.DB.Order("id").Find(&specs).Error)
	require.Len(t, specs, 3)
	assert.Equal(t, specdomain.ValueTypeText, specs[0].ValueType)
	assert.NotNil(t, specs[2].GroupID)

	var values []groupchoicedomain.GroupChoiceValue
	require.NoError(t, fixture.DB.Find(&values).Error)
	assert.Len(t, values, 2)
}

func TestApplyRejectsBadEntries(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "unknown_group", body: "specs:\n  - shortname: x\n    group: Nope\n"},
		{name: "values_without_group", body: "specs:\n  - shortname: x\n    values:\n      - choice: Gold\n        value: \"1\"\n"},
		{name: "bad_value_type", body: "specs:\n  - shortname: x\n    value_type: money\n"},
		{name: "empty_insurer", body: "insurers:\n  - name: \"\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fixture := catalogtest.NewFixture(t)
			path := filepath.Join(t.TempDir(), "seed.yml")
			require.NoError(t, os.WriteFile(path, []byte(tt.body), 0o600))

			file, err := Load(path)
			require.NoError(t, err)
			_, err = Apply(context.Background(), fixture.DB, fixture.Node, file)
			assert.Error(t, err)
		})
	}
}

func TestApplyValidatesChoiceValues(t *testing.T) {
	fixture := catalogtest.NewFixture(t)
	body := `
groups:
  - name: Tier
    choices: [Gold]
specs:
  - shortname: deductible
    value_type: number
    max_value: 100
    group: Tier
    values:
      - choice: Gold
        value: "150"
`
	path := filepath.Join(t.TempDir(), "seed.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	file, err := Load(path)
	require.NoError(t, err)

	_, err = Apply(context.Background(), fixture.DB, fixture.Node, file)
	assert.ErrorIs(t, err, resolutiondomain.ErrInvalidValue)

	var count int64
	require.NoError(t, fixture.DB.Model(&specdomain.Spec{}).Count(&count).Error)
	assert.Zero(t, count)
}

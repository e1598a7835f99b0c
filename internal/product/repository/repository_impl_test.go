package repository

import (
	"context"
	"testing"

	"github.com/smallbiznis/policyhub/internal/catalogtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindByIDsReturnsExistingOnly(t *testing.T) {
	fixture := catalogtest.NewFixture(t)
	insurer := fixture.Insurer("Acme")
	a := fixture.Product(insurer.ID, "A")
	b := fixture.Product(insurer.ID, "B")

	repo := Provide()
	items, err := repo.FindByIDs(context.Background(), fixture.DB, []int64{b.ID, 404, a.ID})
	require.NoError(t, err)
	require.Len(t, items, 2)

	ids := []int64{items[0].ID, items[1].ID}
	assert.ElementsMatch(t, []int64{a.ID, b.ID}, ids)

	none, err := repo.FindByIDs(context.Background(), fixture.DB, nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestFindByIDMissing(t *testing.T) {
	fixture := catalogtest.NewFixture(t)
	item, err := Provide().FindByID(context.Background(), fixture.DB, 12345)
	require.NoError(t, err)
	assert.Nil(t, item)
}

package pdf

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable() ComparisonTable {
	return ComparisonTable{
		Title:    "Product comparison",
		Products: []string{"Health Basic", "Health Plus"},
		Sections: []ComparisonSection{
			{
				Rows: []ComparisonRow{
					{Label: "Insurer", Cells: []string{"Acme", "Acme"}},
					{Label: "copay", Detail: "percentage, 0 to 100", Cells: []string{"10", "20"}},
				},
			},
			{
				Name: "Tier",
				Rows: []ComparisonRow{{Label: "deductible", Cells: []string{"Choice required", "85"}}},
			},
		},
	}
}

func TestGenerateComparison(t *testing.T) {
	out, err := New().GenerateComparison(context.Background(), sampleTable())
	require.NoError(t, err)

	body, err := io.ReadAll(out)
	require.NoError(t, err)
	require.NotEmpty(t, body)
	assert.Equal(t, "%PDF", string(body[:4]))
}

func TestGenerateComparisonRejectsBadShapes(t *testing.T) {
	provider := New()

	_, err := provider.GenerateComparison(context.Background(), ComparisonTable{Title: "x"})
	assert.ErrorIs(t, err, ErrEmptyTable)

	wide := sampleTable()
	wide.Products = []string{"a", "b", "c", "d", "e", "f"}
	_, err = provider.GenerateComparison(context.Background(), wide)
	assert.ErrorIs(t, err, ErrTooManyColumns)

	ragged := sampleTable()
	ragged.Sections[1].Rows[0].Cells = []string{"85"}
	_, err = provider.GenerateComparison(context.Background(), ragged)
	assert.ErrorIs(t, err, ErrRowShapeMismatch)
}

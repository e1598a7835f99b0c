package pdf

import (
	"bytes"
	"context"
	"errors"
	"io"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// Grid widths on maroto's 12 column layout. Five products fill the page.
const (
	labelColumns   = 2
	productColumns = 2
	maxProducts    = (12 - labelColumns) / productColumns
)

var (
	ErrEmptyTable       = errors.New("empty_comparison_table")
	ErrTooManyColumns   = errors.New("too_many_comparison_columns")
	ErrRowShapeMismatch = errors.New("comparison_row_shape_mismatch")
)

type ComparisonTable struct {
	Title       string
	GeneratedAt string
	Products    []string
	Sections    []ComparisonSection
}

type ComparisonSection struct {
	Name string
	Rows []ComparisonRow
}

// ComparisonRow holds one cell per product, in column order.
type ComparisonRow struct {
	Label  string
	Detail string
	Cells  []string
}

type PDFProvider struct{}

func New() Provider {
	return &PDFProvider{}
}

func (p *PDFProvider) GenerateComparison(ctx context.Context, table ComparisonTable) (io.Reader, error) {
	if len(table.Products) == 0 {
		return nil, ErrEmptyTable
	}
	if len(table.Products) > maxProducts {
		return nil, ErrTooManyColumns
	}
	for _, section := range table.Sections {
		for _, row := range section.Rows {
			if len(row.Cells) != len(table.Products) {
				return nil, ErrRowShapeMismatch
			}
		}
	}

	cfg := config.NewBuilder().
		WithOrientation(orientation.Horizontal).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(12,
		text.NewCol(12, table.Title, props.Text{
			Size:  18,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
	)
	if table.GeneratedAt != "" {
		m.AddRow(6,
			text.NewCol(12, "Generated "+table.GeneratedAt, props.Text{Size: 8}),
		)
	}

	// Header
	header := []core.Col{text.NewCol(labelColumns, "Specification", props.Text{Style: fontstyle.Bold, Size: 9})}
	for _, name := range table.Products {
		header = append(header, text.NewCol(productColumns, name, props.Text{
			Style: fontstyle.Bold,
			Size:  9,
			Align: align.Center,
		}))
	}
	m.AddRow(10, header...)

	for _, section := range table.Sections {
		if section.Name != "" {
			m.AddRow(9,
				text.NewCol(12, section.Name, props.Text{Style: fontstyle.Bold, Size: 10, Top: 3}),
			)
		}

		for _, row := range section.Rows {
			label := col.New(labelColumns).Add(text.New(row.Label, props.Text{Size: 9}))
			if row.Detail != "" {
				label.Add(text.New(row.Detail, props.Text{Size: 7, Top: 4}))
			}

			cols := []core.Col{label}
			for _, cell := range row.Cells {
				cols = append(cols, text.NewCol(productColumns, cell, props.Text{Size: 9, Align: align.Center}))
			}
			m.AddRow(10, cols...)
		}
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}

	return bytes.NewReader(doc.GetBytes()), nil
}

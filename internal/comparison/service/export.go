package service

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"github.com/smallbiznis/policyhub/internal/comparison/domain"
	"github.com/smallbiznis/policyhub/internal/config"
	groupchoicedomain "github.com/smallbiznis/policyhub/internal/groupchoice/domain"
	"github.com/smallbiznis/policyhub/internal/providers/pdf"
	resolutiondomain "github.com/smallbiznis/policyhub/internal/resolution/domain"
	"github.com/smallbiznis/policyhub/internal/resolution/engine"
	specdomain "github.com/smallbiznis/policyhub/internal/spec/domain"
	"go.uber.org/zap"
)

// Cell texts for specs that cannot show a value.
const (
	cellNeedsChoice  = "Choice required"
	cellInconsistent = "Missing value"
)

// Export renders the comparison table as a PDF. Grouped specs are resolved
// with the request selections.
func (s *Service) Export(ctx context.Context, req domain.ExportRequest) (*domain.ExportResponse, error) {
	selections, err := parseSelections(req.Selections)
	if err != nil {
		return nil, err
	}

	snapshot, err := s.assemble(ctx, req.ProductIDs)
	if err != nil {
		return nil, err
	}
	if len(snapshot.products) == 0 {
		return nil, domain.ErrNothingToExport
	}

	chosen, err := s.selectedChoices(ctx, selections)
	if err != nil {
		return nil, err
	}

	choiceIDs := make([]int64, 0, len(chosen))
	for _, choice := range chosen {
		choiceIDs = append(choiceIDs, choice.ID)
	}
	values, err := s.choiceRepo.ListValuesByChoices(ctx, s.db, choiceIDs)
	if err != nil {
		return nil, err
	}

	table, err := s.buildTable(ctx, snapshot, chosen, resolutiondomain.NewValueIndex(values))
	if err != nil {
		return nil, err
	}

	out, err := s.pdf.GenerateComparison(ctx, table)
	if err != nil {
		return nil, err
	}
	body, err := io.ReadAll(out)
	if err != nil {
		return nil, err
	}

	s.log.Info("comparison exported",
		zap.Int("product_count", len(snapshot.products)),
		zap.Int("spec_count", len(snapshot.specs)),
		zap.Int("bytes", len(body)),
	)

	return &domain.ExportResponse{
		Filename:    exportFilename(table.Title, table.Products),
		ContentType: "application/pdf",
		Body:        body,
	}, nil
}

// selectedChoices loads the chosen choice of each group and checks that it
// belongs to that group.
func (s *Service) selectedChoices(ctx context.Context, selections map[int64]int64) (map[int64]groupchoicedomain.GroupChoice, error) {
	if len(selections) == 0 {
		return nil, nil
	}

	groupIDs := make([]int64, 0, len(selections))
	for groupID := range selections {
		groupIDs = append(groupIDs, groupID)
	}
	choices, err := s.choiceRepo.ListChoicesByGroups(ctx, s.db, groupIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]groupchoicedomain.GroupChoice, len(choices))
	for _, choice := range choices {
		byID[choice.ID] = choice
	}

	chosen := make(map[int64]groupchoicedomain.GroupChoice, len(selections))
	for groupID, choiceID := range selections {
		choice, ok := byID[choiceID]
		if !ok {
			// The choice may exist under another group.
			other, err := s.choiceRepo.FindChoiceByID(ctx, s.db, choiceID)
			if err != nil {
				return nil, err
			}
			if other != nil {
				return nil, resolutiondomain.ErrChoiceGroupMismatch
			}
			return nil, resolutiondomain.ErrChoiceNotFound
		}
		chosen[groupID] = choice
	}
	return chosen, nil
}

func (s *Service) buildTable(ctx context.Context, snapshot *assembly, chosen map[int64]groupchoicedomain.GroupChoice, index resolutiondomain.Lookup) (pdf.ComparisonTable, error) {
	title := config.DefaultCatalogConfig().Export.Title
	if s.catalog != nil {
		title = s.catalog.Get().Export.Title
	}

	table := pdf.ComparisonTable{
		Title:       title,
		GeneratedAt: s.clock.Now().Format(time.RFC3339),
		Products:    make([]string, 0, len(snapshot.products)),
	}

	insurerNames := make(map[int64]string)
	for _, product := range snapshot.products {
		table.Products = append(table.Products, product.Name)
		if _, ok := insurerNames[product.InsurerID]; ok {
			continue
		}
		insurer, err := s.insurerRepo.FindByID(ctx, s.db, product.InsurerID)
		if err != nil {
			return pdf.ComparisonTable{}, err
		}
		if insurer != nil {
			insurerNames[product.InsurerID] = insurer.Name
		}
	}

	overview := pdf.ComparisonSection{Name: "Product"}
	overview.Rows = append(overview.Rows,
		productRow(snapshot, "Insurer", func(i int) string { return insurerNames[snapshot.products[i].InsurerID] }),
		productRow(snapshot, "SP solution", func(i int) string { return yesNo(snapshot.products[i].SPSolution) }),
		productRow(snapshot, "Active", func(i int) string { return yesNo(snapshot.products[i].Active) }),
	)
	table.Sections = append(table.Sections, overview)

	grouping := engine.GroupSpecs(snapshot.specs)
	if len(grouping.Ungrouped) > 0 {
		section := pdf.ComparisonSection{Name: "Specifications"}
		for _, spec := range grouping.Ungrouped {
			section.Rows = append(section.Rows, s.specRow(spec, nil, index, len(snapshot.products)))
		}
		table.Sections = append(table.Sections, section)
	}

	groups, err := s.groupRepo.FindByIDs(ctx, s.db, grouping.GroupOrder)
	if err != nil {
		return pdf.ComparisonTable{}, err
	}
	groupNames := make(map[int64]string, len(groups))
	for _, group := range groups {
		groupNames[group.ID] = group.Name
	}

	for _, groupID := range grouping.GroupOrder {
		name := groupNames[groupID]
		var selected *int64
		if choice, ok := chosen[groupID]; ok {
			name = fmt.Sprintf("%s: %s", name, choice.ChoiceName)
			choiceID := choice.ID
			selected = &choiceID
		}

		section := pdf.ComparisonSection{Name: name}
		for _, spec := range grouping.ByGroup[groupID] {
			section.Rows = append(section.Rows, s.specRow(spec, selected, index, len(snapshot.products)))
		}
		table.Sections = append(table.Sections, section)
	}

	return table, nil
}

func (s *Service) specRow(spec specdomain.Spec, selected *int64, index resolutiondomain.Lookup, columns int) pdf.ComparisonRow {
	cell := cellInconsistent
	res, err := engine.Resolve(spec, selected, index)
	switch {
	case err != nil:
		s.log.Warn("spec resolution inconsistent",
			zap.Int64("spec_id", spec.ID),
			zap.Int64p("choice_id", selected),
		)
	case !res.Resolved:
		cell = cellNeedsChoice
	default:
		cell = res.Value
	}

	// Specs apply to every product, so each column shows the same value.
	cells := make([]string, columns)
	for i := range cells {
		cells[i] = cell
	}
	return pdf.ComparisonRow{Label: spec.Shortname, Detail: describeSpec(spec), Cells: cells}
}

func productRow(snapshot *assembly, label string, value func(int) string) pdf.ComparisonRow {
	cells := make([]string, len(snapshot.products))
	for i := range snapshot.products {
		cells[i] = value(i)
	}
	return pdf.ComparisonRow{Label: label, Cells: cells}
}

func describeSpec(spec specdomain.Spec) string {
	parts := []string{string(spec.ValueType)}
	switch {
	case spec.MinValue != nil && spec.MaxValue != nil:
		parts = append(parts, formatFloat(*spec.MinValue)+" to "+formatFloat(*spec.MaxValue))
	case spec.MinValue != nil:
		parts = append(parts, "min "+formatFloat(*spec.MinValue))
	case spec.MaxValue != nil:
		parts = append(parts, "max "+formatFloat(*spec.MaxValue))
	}
	if spec.Editable {
		parts = append(parts, "editable")
	}
	return strings.Join(parts, ", ")
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

func exportFilename(title string, products []string) string {
	name := slug.Make(title + " " + strings.Join(products, " "))
	if name == "" {
		name = "comparison"
	}
	return name + ".pdf"
}

func parseSelections(raw map[string]string) (map[int64]int64, error) {
	out := make(map[int64]int64, len(raw))
	for key, value := range raw {
		if strings.TrimSpace(value) == "" {
			continue
		}
		groupID, err := snowflake.ParseString(strings.TrimSpace(key))
		if err != nil || groupID <= 0 {
			return nil, resolutiondomain.ErrInvalidSelection
		}
		choiceID, err := snowflake.ParseString(strings.TrimSpace(value))
		if err != nil || choiceID <= 0 {
			return nil, resolutiondomain.ErrInvalidSelection
		}
		out[groupID.Int64()] = choiceID.Int64()
	}
	return out, nil
}

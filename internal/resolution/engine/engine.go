// Package engine computes effective spec values from already fetched data.
// Nothing here touches the store.
package engine

import (
	"math"
	"strconv"
	"strings"

	"github.com/smallbiznis/policyhub/internal/resolution/domain"
	specdomain "github.com/smallbiznis/policyhub/internal/spec/domain"
)

// Resolve returns the effective value of spec under the selected choice.
//
// Ungrouped specs always resolve to their default and ignore selected. A
// grouped spec with no selection is unresolved. A grouped spec whose selected
// choice has no value for it fails with *domain.InconsistencyError; the
// default is never used for grouped specs.
func Resolve(spec specdomain.Spec, selected *int64, values domain.Lookup) (domain.Resolution, error) {
	if spec.GroupID == nil {
		return domain.Resolution{
			SpecID:   spec.ID,
			Value:    spec.DefaultValue,
			Resolved: true,
		}, nil
	}

	if selected == nil {
		return domain.Resolution{
			SpecID:          spec.ID,
			GroupControlled: true,
		}, nil
	}

	choiceID := *selected
	var (
		value string
		ok    bool
	)
	if values != nil {
		value, ok = values.Value(choiceID, spec.ID)
	}
	if !ok {
		return domain.Resolution{}, &domain.InconsistencyError{SpecID: spec.ID, ChoiceID: choiceID}
	}

	return domain.Resolution{
		SpecID:          spec.ID,
		Value:           value,
		Resolved:        true,
		GroupControlled: true,
		ChoiceID:        &choiceID,
	}, nil
}

// Typed interprets raw through the spec's declared type. Percentages accept
// a trailing percent sign.
func Typed(spec specdomain.Spec, raw string) (domain.Value, error) {
	switch spec.ValueType {
	case specdomain.ValueTypeNumber, specdomain.ValueTypePercentage:
		n, err := parseNumber(spec.ValueType, raw)
		if err != nil {
			return domain.Value{}, &domain.ValueError{
				SpecID: spec.ID,
				Value:  raw,
				Reason: domain.ReasonNotNumeric,
				Min:    spec.MinValue,
				Max:    spec.MaxValue,
			}
		}
		kind := domain.KindNumber
		if spec.ValueType == specdomain.ValueTypePercentage {
			kind = domain.KindPercentage
		}
		return domain.Value{Kind: kind, Text: raw, Number: &n}, nil
	default:
		return domain.Value{Kind: domain.KindText, Text: raw}, nil
	}
}

// Validate checks raw against the spec's type and inclusive bounds. Text
// values always pass.
func Validate(spec specdomain.Spec, raw string) error {
	v, err := Typed(spec, raw)
	if err != nil {
		return err
	}
	if v.Number == nil {
		return nil
	}

	n := *v.Number
	if spec.MinValue != nil && n < *spec.MinValue {
		return &domain.ValueError{SpecID: spec.ID, Value: raw, Reason: domain.ReasonBelowMin, Min: spec.MinValue, Max: spec.MaxValue}
	}
	if spec.MaxValue != nil && n > *spec.MaxValue {
		return &domain.ValueError{SpecID: spec.ID, Value: raw, Reason: domain.ReasonAboveMax, Min: spec.MinValue, Max: spec.MaxValue}
	}
	return nil
}

func parseNumber(vt specdomain.ValueType, raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if vt == specdomain.ValueTypePercentage {
		s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, strconv.ErrSyntax
	}
	return n, nil
}

// GroupSpecs partitions specs into ungrouped and per-group buckets, keeping
// the input's relative order inside every bucket.
func GroupSpecs(specs []specdomain.Spec) domain.Grouping {
	g := domain.Grouping{
		Ungrouped: make([]specdomain.Spec, 0, len(specs)),
		ByGroup:   make(map[int64][]specdomain.Spec),
	}
	for _, spec := range specs {
		if spec.GroupID == nil {
			g.Ungrouped = append(g.Ungrouped, spec)
			continue
		}
		groupID := *spec.GroupID
		if _, seen := g.ByGroup[groupID]; !seen {
			g.GroupOrder = append(g.GroupOrder, groupID)
		}
		g.ByGroup[groupID] = append(g.ByGroup[groupID], spec)
	}
	return g
}

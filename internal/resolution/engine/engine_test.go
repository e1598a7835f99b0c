package engine

import (
	"errors"
	"testing"

	groupchoicedomain "github.com/smallbiznis/policyhub/internal/groupchoice/domain"
	"github.com/smallbiznis/policyhub/internal/resolution/domain"
	specdomain "github.com/smallbiznis/policyhub/internal/spec/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func int64Ptr(v int64) *int64       { return &v }
func float64Ptr(v float64) *float64 { return &v }

func groupedSpec(id, groupID int64, def string) specdomain.Spec {
	return specdomain.Spec{
		ID:           id,
		Shortname:    "deductible",
		DefaultValue: def,
		ValueType:    specdomain.ValueTypeNumber,
		GroupID:      int64Ptr(groupID),
	}
}

func TestResolveUngroupedIgnoresSelection(t *testing.T) {
	spec := specdomain.Spec{ID: 1, DefaultValue: "Worldwide", ValueType: specdomain.ValueTypeText}
	index := domain.NewValueIndex([]groupchoicedomain.GroupChoiceValue{{ChoiceID: 7, SpecID: 1, Value: "Europe"}})

	for _, selected := range []*int64{nil, int64Ptr(7), int64Ptr(99)} {
		res, err := Resolve(spec, selected, index)
		require.NoError(t, err)
		assert.True(t, res.Resolved)
		assert.False(t, res.GroupControlled)
		assert.Equal(t, "Worldwide", res.Value)
		assert.Nil(t, res.ChoiceID)
	}
}

func TestResolveGroupedWithoutChoiceNeedsChoice(t *testing.T) {
	spec := groupedSpec(2, 10, "500")

	res, err := Resolve(spec, nil, domain.ValueIndex{})
	require.NoError(t, err)
	assert.False(t, res.Resolved)
	assert.True(t, res.GroupControlled)
	assert.Empty(t, res.Value)
	assert.NotEqual(t, spec.DefaultValue, res.Value)
}

func TestResolveGroupedWithChoice(t *testing.T) {
	spec := groupedSpec(3, 10, "0")
	index := domain.NewValueIndex([]groupchoicedomain.GroupChoiceValue{
		{ChoiceID: 100, SpecID: 3, Value: "85"},
	})

	res, err := Resolve(spec, int64Ptr(100), index)
	require.NoError(t, err)
	assert.True(t, res.Resolved)
	assert.True(t, res.GroupControlled)
	assert.Equal(t, "85", res.Value)
	require.NotNil(t, res.ChoiceID)
	assert.Equal(t, int64(100), *res.ChoiceID)

	res, err = Resolve(spec, int64Ptr(200), index)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrResolutionInconsistency))
	var inconsistency *domain.InconsistencyError
	require.ErrorAs(t, err, &inconsistency)
	assert.Equal(t, int64(3), inconsistency.SpecID)
	assert.Equal(t, int64(200), inconsistency.ChoiceID)
	assert.NotEqual(t, "85", res.Value)
	assert.NotEqual(t, spec.DefaultValue, res.Value)
}

func TestResolveGroupedNilLookupIsInconsistent(t *testing.T) {
	_, err := Resolve(groupedSpec(4, 10, "1"), int64Ptr(1), nil)
	assert.ErrorIs(t, err, domain.ErrResolutionInconsistency)
}

func TestValidateRange(t *testing.T) {
	spec := specdomain.Spec{
		ID:        5,
		ValueType: specdomain.ValueTypeNumber,
		MinValue:  float64Ptr(0),
		MaxValue:  float64Ptr(100),
	}

	assert.NoError(t, Validate(spec, "50"))
	assert.NoError(t, Validate(spec, "0"))
	assert.NoError(t, Validate(spec, "100"))

	err := Validate(spec, "150")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidValue)
	var valueErr *domain.ValueError
	require.ErrorAs(t, err, &valueErr)
	assert.Equal(t, domain.ReasonAboveMax, valueErr.Reason)

	err = Validate(spec, "-1")
	require.ErrorAs(t, err, &valueErr)
	assert.Equal(t, domain.ReasonBelowMin, valueErr.Reason)
}

func TestValidateNumericParsing(t *testing.T) {
	number := specdomain.Spec{ID: 6, ValueType: specdomain.ValueTypeNumber}
	percentage := specdomain.Spec{ID: 7, ValueType: specdomain.ValueTypePercentage, MaxValue: float64Ptr(100)}
	text := specdomain.Spec{ID: 8, ValueType: specdomain.ValueTypeText, MaxValue: float64Ptr(1)}

	cases := []struct {
		name   string
		spec   specdomain.Spec
		raw    string
		reason string
	}{
		{name: "number", spec: number, raw: " 12.5 "},
		{name: "number_garbage", spec: number, raw: "12abc", reason: domain.ReasonNotNumeric},
		{name: "number_empty", spec: number, raw: "", reason: domain.ReasonNotNumeric},
		{name: "number_nan", spec: number, raw: "NaN", reason: domain.ReasonNotNumeric},
		{name: "number_percent_sign", spec: number, raw: "12%", reason: domain.ReasonNotNumeric},
		{name: "percentage_sign", spec: percentage, raw: "85%"},
		{name: "percentage_plain", spec: percentage, raw: "85"},
		{name: "percentage_over", spec: percentage, raw: "120%", reason: domain.ReasonAboveMax},
		{name: "text_anything", spec: text, raw: "1000"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.spec, tc.raw)
			if tc.reason == "" {
				assert.NoError(t, err)
				return
			}
			var valueErr *domain.ValueError
			require.ErrorAs(t, err, &valueErr)
			assert.Equal(t, tc.reason, valueErr.Reason)
		})
	}
}

func TestTyped(t *testing.T) {
	v, err := Typed(specdomain.Spec{ValueType: specdomain.ValueTypePercentage}, "12.5%")
	require.NoError(t, err)
	assert.Equal(t, domain.KindPercentage, v.Kind)
	require.NotNil(t, v.Number)
	assert.Equal(t, 12.5, *v.Number)
	assert.Equal(t, "12.5%", v.Text)

	v, err = Typed(specdomain.Spec{ValueType: specdomain.ValueTypeText}, "Gold")
	require.NoError(t, err)
	assert.Equal(t, domain.KindText, v.Kind)
	assert.Nil(t, v.Number)
}

func TestGroupSpecsPartitionIsStable(t *testing.T) {
	g := int64(42)
	h := int64(43)
	s1 := specdomain.Spec{ID: 1}
	s2 := specdomain.Spec{ID: 2, GroupID: &g}
	s3 := specdomain.Spec{ID: 3}
	s4 := specdomain.Spec{ID: 4, GroupID: &g}
	s5 := specdomain.Spec{ID: 5, GroupID: &h}

	grouping := GroupSpecs([]specdomain.Spec{s1, s2, s3, s4})
	assert.Equal(t, []specdomain.Spec{s1, s3}, grouping.Ungrouped)
	assert.Equal(t, []specdomain.Spec{s2, s4}, grouping.ByGroup[g])
	assert.Equal(t, []int64{g}, grouping.GroupOrder)

	again := GroupSpecs([]specdomain.Spec{s1, s2, s3, s4})
	assert.Equal(t, grouping, again)

	mixed := GroupSpecs([]specdomain.Spec{s5, s1, s2})
	assert.Equal(t, []int64{h, g}, mixed.GroupOrder)
}

func TestGroupSpecsEmpty(t *testing.T) {
	grouping := GroupSpecs(nil)
	assert.Empty(t, grouping.Ungrouped)
	assert.Empty(t, grouping.ByGroup)
	assert.Empty(t, grouping.GroupOrder)
}

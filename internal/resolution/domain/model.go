package domain

import (
	groupchoicedomain "github.com/smallbiznis/policyhub/internal/groupchoice/domain"
	specdomain "github.com/smallbiznis/policyhub/internal/spec/domain"
)

// Lookup finds the value a choice supplies for a spec.
type Lookup interface {
	Value(choiceID, specID int64) (string, bool)
}

type valueKey struct {
	choiceID int64
	specID   int64
}

// ValueIndex is a Lookup over already fetched choice values.
type ValueIndex map[valueKey]string

func NewValueIndex(values []groupchoicedomain.GroupChoiceValue) ValueIndex {
	idx := make(ValueIndex, len(values))
	for _, v := range values {
		idx[valueKey{choiceID: v.ChoiceID, specID: v.SpecID}] = v.Value
	}
	return idx
}

func (idx ValueIndex) Value(choiceID, specID int64) (string, bool) {
	v, ok := idx[valueKey{choiceID: choiceID, specID: specID}]
	return v, ok
}

// Resolution is the effective value of one spec. Resolved is false when the
// spec belongs to a group and no choice was selected; Value is then empty
// and must not be displayed.
type Resolution struct {
	SpecID          int64
	Value           string
	Resolved        bool
	GroupControlled bool
	ChoiceID        *int64
}

type ValueKind string

const (
	KindText       ValueKind = "text"
	KindNumber     ValueKind = "number"
	KindPercentage ValueKind = "percentage"
)

// Value is a raw spec value interpreted through its declared type. Number is
// set only for numeric kinds.
type Value struct {
	Kind   ValueKind `json:"kind"`
	Text   string    `json:"text"`
	Number *float64  `json:"number,omitempty"`
}

// Grouping partitions specs for display. GroupOrder lists group ids in the
// order they were first seen.
type Grouping struct {
	Ungrouped  []specdomain.Spec
	ByGroup    map[int64][]specdomain.Spec
	GroupOrder []int64
}

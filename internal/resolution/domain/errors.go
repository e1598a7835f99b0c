package domain

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	ErrResolutionInconsistency = errors.New("resolution_inconsistency")
	ErrInvalidValue            = errors.New("invalid_value")

	ErrInvalidID           = errors.New("invalid_id")
	ErrInvalidSelection    = errors.New("invalid_selection")
	ErrSpecNotFound        = errors.New("spec_not_found")
	ErrProductNotFound     = errors.New("product_not_found")
	ErrChoiceNotFound      = errors.New("choice_not_found")
	ErrChoiceGroupMismatch = errors.New("choice_group_mismatch")
	ErrSpecNotEditable     = errors.New("spec_not_editable")
)

// Reasons carried by ValueError.
const (
	ReasonNotNumeric = "not_numeric"
	ReasonBelowMin   = "below_min"
	ReasonAboveMax   = "above_max"
)

// InconsistencyError reports a selected choice that supplies no value for a
// spec of its group.
type InconsistencyError struct {
	SpecID   int64
	ChoiceID int64
}

func (e *InconsistencyError) Error() string {
	return fmt.Sprintf("choice %d has no value for spec %d", e.ChoiceID, e.SpecID)
}

func (e *InconsistencyError) Unwrap() error { return ErrResolutionInconsistency }

// ValueError reports a value that does not satisfy its spec's type or bounds.
type ValueError struct {
	SpecID int64
	Value  string
	Reason string
	Min    *float64
	Max    *float64
}

func (e *ValueError) Error() string {
	switch e.Reason {
	case ReasonBelowMin:
		return fmt.Sprintf("value %q for spec %d is below minimum %s", e.Value, e.SpecID, formatBound(e.Min))
	case ReasonAboveMax:
		return fmt.Sprintf("value %q for spec %d is above maximum %s", e.Value, e.SpecID, formatBound(e.Max))
	default:
		return fmt.Sprintf("value %q for spec %d is not numeric", e.Value, e.SpecID)
	}
}

func (e *ValueError) Unwrap() error { return ErrInvalidValue }

func formatBound(v *float64) string {
	if v == nil {
		return "none"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

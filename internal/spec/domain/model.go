package domain

import "strings"

type ValueType string

const (
	ValueTypeText       ValueType = "text"
	ValueTypeNumber     ValueType = "number"
	ValueTypePercentage ValueType = "percentage"
)

// ParseValueType normalizes raw input, returning false for unknown types.
func ParseValueType(raw string) (ValueType, bool) {
	switch vt := ValueType(strings.ToLower(strings.TrimSpace(raw))); vt {
	case ValueTypeText, ValueTypeNumber, ValueTypePercentage:
		return vt, true
	default:
		return "", false
	}
}

// Numeric reports whether values of this type must parse as numbers.
func (t ValueType) Numeric() bool {
	return t == ValueTypeNumber || t == ValueTypePercentage
}

// Spec is a product specification. Values are stored as text whatever the
// declared type. A spec with a group takes its value from the selected
// group choice, never from DefaultValue.
type Spec struct {
	ID           int64     `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Shortname    string    `json:"shortname" gorm:"type:text;not null"`
	Description  string    `json:"description" gorm:"type:text;not null;default:''"`
	DefaultValue string    `json:"default_value" gorm:"column:default_value;type:text;not null;default:''"`
	ValueType    ValueType `json:"value_type" gorm:"column:value_type;type:varchar(16);not null;default:'text'"`
	MinValue     *float64  `json:"min_value,omitempty" gorm:"column:min_value"`
	MaxValue     *float64  `json:"max_value,omitempty" gorm:"column:max_value"`
	Editable     bool      `json:"editable" gorm:"not null;default:false"`
	GroupID      *int64    `json:"group_id,omitempty" gorm:"column:group_id;index"`
}

func (Spec) TableName() string { return "product_specs" }

// Grouped reports whether the spec is controlled by a group choice.
func (s Spec) Grouped() bool {
	return s.GroupID != nil
}

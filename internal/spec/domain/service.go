package domain

import (
	"context"
	"errors"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	List(ctx context.Context) ([]Response, error)
	Get(ctx context.Context, id string) (*Response, error)
}

type CreateRequest struct {
	Shortname    string   `json:"shortname"`
	Description  string   `json:"description"`
	DefaultValue string   `json:"default_value"`
	ValueType    string   `json:"value_type"`
	MinValue     *float64 `json:"min_value"`
	MaxValue     *float64 `json:"max_value"`
	Editable     bool     `json:"editable"`
	GroupID      *string  `json:"group_id"`
}

type Response struct {
	ID           string    `json:"id"`
	Shortname    string    `json:"shortname"`
	Description  string    `json:"description"`
	DefaultValue string    `json:"default_value"`
	ValueType    ValueType `json:"value_type"`
	MinValue     *float64  `json:"min_value,omitempty"`
	MaxValue     *float64  `json:"max_value,omitempty"`
	Editable     bool      `json:"editable"`
	GroupID      *string   `json:"group_id,omitempty"`
}

var (
	ErrInvalidShortname = errors.New("invalid_shortname")
	ErrInvalidValueType = errors.New("invalid_value_type")
	ErrInvalidBounds    = errors.New("invalid_bounds")
	ErrBoundsNotNumeric = errors.New("bounds_require_numeric_type")
	ErrInvalidGroup     = errors.New("invalid_group")
	ErrGroupNotFound    = errors.New("group_not_found")
	ErrInvalidID        = errors.New("invalid_id")
	ErrNotFound         = errors.New("not_found")
)

package domain

import (
	"context"

	specdomain "github.com/smallbiznis/policyhub/internal/spec/domain"
)

// Service resolves effective spec values against the catalog store.
type Service interface {
	ResolveValue(ctx context.Context, req ResolveRequest) (*ResolveResponse, error)
	ProductView(ctx context.Context, req ProductViewRequest) (*ProductViewResponse, error)
}

// Resolution statuses.
const (
	StatusResolved     = "resolved"
	StatusNeedsChoice  = "needs_choice"
	StatusInconsistent = "inconsistent"
)

type ResolveRequest struct {
	SpecID   string
	ChoiceID string
}

type ResolveResponse struct {
	SpecID          string  `json:"spec_id"`
	Status          string  `json:"status"`
	Value           *string `json:"value"`
	Typed           *Value  `json:"typed,omitempty"`
	Resolved        bool    `json:"resolved"`
	GroupControlled bool    `json:"group_controlled"`
	ChoiceID        *string `json:"choice_id,omitempty"`
}

// ProductViewRequest carries the caller's current selection explicitly:
// Selections maps group id to choice id; Overrides maps an editable
// ungrouped spec id to a user supplied value.
type ProductViewRequest struct {
	ProductID  string            `json:"-"`
	Selections map[string]string `json:"selections"`
	Overrides  map[string]string `json:"overrides"`
}

type ProductViewResponse struct {
	ProductID   string         `json:"product_id"`
	ProductName string         `json:"product_name"`
	Ungrouped   []SpecView     `json:"ungrouped"`
	Groups      []GroupSection `json:"groups"`
}

type GroupSection struct {
	GroupID          string       `json:"group_id"`
	GroupName        string       `json:"group_name"`
	SelectedChoiceID *string      `json:"selected_choice_id"`
	Choices          []ChoiceItem `json:"choices"`
	Specs            []SpecView   `json:"specs"`
}

type ChoiceItem struct {
	ID   string `json:"id"`
	Name string `json:"choice_name"`
}

type SpecView struct {
	specdomain.Response
	Status        string  `json:"status"`
	Value         *string `json:"value"`
	Overridden    bool    `json:"overridden"`
	InvalidReason string  `json:"invalid_reason,omitempty"`
}

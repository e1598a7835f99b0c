package domain

import (
	"context"
	"errors"
)

type Service interface {
	CreateChoice(ctx context.Context, req CreateChoiceRequest) (*ChoiceResponse, error)
	GetChoice(ctx context.Context, id string) (*ChoiceResponse, error)
	ListChoices(ctx context.Context, groupID string) ([]ChoiceResponse, error)

	CreateValue(ctx context.Context, req CreateValueRequest) (*ValueResponse, error)
	ListValues(ctx context.Context, choiceID string) ([]ValueResponse, error)
}

type CreateChoiceRequest struct {
	SpecGroupID string `json:"product_spec_group_id"`
	ChoiceName  string `json:"choice_name"`
}

type ChoiceResponse struct {
	ID          string `json:"id"`
	SpecGroupID string `json:"product_spec_group_id"`
	ChoiceName  string `json:"choice_name"`
}

type CreateValueRequest struct {
	ChoiceID string `json:"product_spec_group_choice_id"`
	SpecID   string `json:"product_spec_id"`
	Value    string `json:"value"`
}

type ValueResponse struct {
	ChoiceID string `json:"product_spec_group_choice_id"`
	SpecID   string `json:"product_spec_id"`
	Value    string `json:"value"`
}

var (
	ErrInvalidID         = errors.New("invalid_id")
	ErrInvalidGroup      = errors.New("invalid_group")
	ErrInvalidChoiceName = errors.New("invalid_choice_name")
	ErrInvalidChoice     = errors.New("invalid_choice")
	ErrInvalidSpec       = errors.New("invalid_spec")
	ErrGroupNotFound     = errors.New("group_not_found")
	ErrChoiceNotFound    = errors.New("choice_not_found")
	ErrSpecNotFound      = errors.New("spec_not_found")
	ErrNotFound          = errors.New("not_found")
	ErrSpecNotInGroup    = errors.New("spec_not_in_choice_group")
	ErrDuplicateValue    = errors.New("duplicate_choice_value")
)

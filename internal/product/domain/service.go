package domain

import (
	"context"
	"errors"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	Get(ctx context.Context, id string) (*Response, error)
	ListByInsurer(ctx context.Context, insurerID string) ([]Response, error)
}

type CreateRequest struct {
	Name       string `json:"name"`
	InsurerID  string `json:"insurer_id"`
	SPSolution bool   `json:"spsolution"`
	Active     *bool  `json:"active"`
}

type Response struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	InsurerID  string `json:"insurer_id"`
	SPSolution bool   `json:"spsolution"`
	Active     bool   `json:"active"`
}

var (
	ErrInvalidName     = errors.New("invalid_name")
	ErrInvalidID       = errors.New("invalid_id")
	ErrInvalidInsurer  = errors.New("invalid_insurer")
	ErrInsurerNotFound = errors.New("insurer_not_found")
	ErrNotFound        = errors.New("not_found")
)

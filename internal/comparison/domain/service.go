package domain

import (
	"context"
	"errors"

	specdomain "github.com/smallbiznis/policyhub/internal/spec/domain"
)

// Service assembles side-by-side views of products.
type Service interface {
	Compare(ctx context.Context, req CompareRequest) ([]Record, error)
	Export(ctx context.Context, req ExportRequest) (*ExportResponse, error)
}

type CompareRequest struct {
	ProductIDs []string `json:"product_ids"`
}

// Record is one product column of a comparison. Every record of a single
// call shares the same Specs slice.
type Record struct {
	ProductID   string                `json:"product_id"`
	ProductName string                `json:"product_name"`
	InsurerID   string                `json:"insurer_id"`
	SPSolution  bool                  `json:"spsolution"`
	Active      bool                  `json:"active"`
	Specs       []specdomain.Response `json:"specs"`
}

// ExportRequest renders a comparison as a document. Selections maps group id
// to choice id and applies to every product column.
type ExportRequest struct {
	ProductIDs []string          `json:"product_ids"`
	Selections map[string]string `json:"selections"`
}

type ExportResponse struct {
	Filename    string
	ContentType string
	Body        []byte
}

var (
	ErrInvalidProductIDs = errors.New("invalid_product_ids")
	ErrTooManyProducts   = errors.New("too_many_products")
	ErrNothingToExport   = errors.New("nothing_to_export")
)

package pdf

import (
	"context"
	"io"
)

// Provider renders catalog documents.
type Provider interface {
	GenerateComparison(ctx context.Context, table ComparisonTable) (io.Reader, error)
}

type NoOpProvider struct{}

func (p *NoOpProvider) GenerateComparison(ctx context.Context, table ComparisonTable) (io.Reader, error) {
	return nil, nil
}

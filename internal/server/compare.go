package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	comparisondomain "github.com/smallbiznis/policyhub/internal/comparison/domain"
	obstracing "github.com/smallbiznis/policyhub/internal/observability/tracing"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const contextCompareProductCount = "compare_product_count"

type compareProductsRequest struct {
	ProductIDs []string `json:"product_ids"`
}

type exportComparisonRequest struct {
	ProductIDs []string          `json:"product_ids"`
	Selections map[string]string `json:"selections"`
}

func (s *Server) CompareProducts(c *gin.Context) {
	var req compareProductsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	c.Set(contextCompareProductCount, len(req.ProductIDs))

	records, err := s.comparisonSvc.Compare(c.Request.Context(), comparisondomain.CompareRequest{
		ProductIDs: req.ProductIDs,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	specCount := 0
	if len(records) > 0 {
		specCount = len(records[0].Specs)
	}
	trace.SpanFromContext(c.Request.Context()).SetAttributes(obstracing.SafeAttributes(
		attribute.Int("compare.product_count", len(req.ProductIDs)),
		attribute.Int("compare.record_count", len(records)),
		attribute.Int("compare.spec_count", specCount),
	)...)

	c.JSON(http.StatusOK, gin.H{"data": records})
}

func (s *Server) ExportComparison(c *gin.Context) {
	var req exportComparisonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	c.Set(contextCompareProductCount, len(req.ProductIDs))

	resp, err := s.comparisonSvc.Export(c.Request.Context(), comparisondomain.ExportRequest{
		ProductIDs: req.ProductIDs,
		Selections: req.Selections,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", resp.Filename))
	c.Data(http.StatusOK, resp.ContentType, resp.Body)
}

func isComparisonValidationError(err error) bool {
	switch err {
	case comparisondomain.ErrInvalidProductIDs,
		comparisondomain.ErrTooManyProducts:
		return true
	default:
		return false
	}
}

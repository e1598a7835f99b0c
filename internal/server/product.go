package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	productdomain "github.com/smallbiznis/policyhub/internal/product/domain"
	resolutiondomain "github.com/smallbiznis/policyhub/internal/resolution/domain"
)

type createProductRequest struct {
	Name       string `json:"name"`
	InsurerID  string `json:"insurer_id"`
	SPSolution bool   `json:"spsolution"`
	Active     *bool  `json:"active"`
}

type resolveProductSpecsRequest struct {
	Selections map[string]string `json:"selections"`
	Overrides  map[string]string `json:"overrides"`
}

func (s *Server) CreateProduct(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.productSvc.Create(c.Request.Context(), productdomain.CreateRequest{
		Name:       strings.TrimSpace(req.Name),
		InsurerID:  strings.TrimSpace(req.InsurerID),
		SPSolution: req.SPSolution,
		Active:     req.Active,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) GetProductByID(c *gin.Context) {
	resp, err := s.productSvc.Get(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListProductsByInsurer(c *gin.Context) {
	resp, err := s.productSvc.ListByInsurer(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// GetProductSpecs renders the grouped view with no choices made.
func (s *Server) GetProductSpecs(c *gin.Context) {
	resp, err := s.resolutionSvc.ProductView(c.Request.Context(), resolutiondomain.ProductViewRequest{
		ProductID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ResolveProductSpecs(c *gin.Context) {
	var req resolveProductSpecsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.resolutionSvc.ProductView(c.Request.Context(), resolutiondomain.ProductViewRequest{
		ProductID:  strings.TrimSpace(c.Param("id")),
		Selections: req.Selections,
		Overrides:  req.Overrides,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func isProductValidationError(err error) bool {
	switch err {
	case productdomain.ErrInvalidName,
		productdomain.ErrInvalidInsurer,
		productdomain.ErrInvalidID:
		return true
	default:
		return false
	}
}

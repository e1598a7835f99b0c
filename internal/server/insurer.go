package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	insurerdomain "github.com/smallbiznis/policyhub/internal/insurer/domain"
)

type createInsurerRequest struct {
	Name string `json:"name"`
}

func (s *Server) CreateInsurer(c *gin.Context) {
	var req createInsurerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.insurerSvc.Create(c.Request.Context(), insurerdomain.CreateRequest{
		Name: strings.TrimSpace(req.Name),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) ListInsurers(c *gin.Context) {
	resp, err := s.insurerSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetInsurerByID(c *gin.Context) {
	resp, err := s.insurerSvc.Get(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func isInsurerValidationError(err error) bool {
	switch err {
	case insurerdomain.ErrInvalidName,
		insurerdomain.ErrInvalidID:
		return true
	default:
		return false
	}
}

package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	resolutiondomain "github.com/smallbiznis/policyhub/internal/resolution/domain"
	specdomain "github.com/smallbiznis/policyhub/internal/spec/domain"
)

type createSpecRequest struct {
	Shortname    string   `json:"shortname"`
	Description  string   `json:"description"`
	DefaultValue string   `json:"default_value"`
	ValueType    string   `json:"value_type"`
	MinValue     *float64 `json:"min_value"`
	MaxValue     *float64 `json:"max_value"`
	Editable     bool     `json:"editable"`
	GroupID      *string  `json:"group_id"`
}

func (s *Server) CreateSpec(c *gin.Context) {
	var req createSpecRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.specSvc.Create(c.Request.Context(), specdomain.CreateRequest{
		Shortname:    strings.TrimSpace(req.Shortname),
		Description:  strings.TrimSpace(req.Description),
		DefaultValue: req.DefaultValue,
		ValueType:    strings.TrimSpace(req.ValueType),
		MinValue:     req.MinValue,
		MaxValue:     req.MaxValue,
		Editable:     req.Editable,
		GroupID:      req.GroupID,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) ListSpecs(c *gin.Context) {
	resp, err := s.specSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetSpecByID(c *gin.Context) {
	resp, err := s.specSvc.Get(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// ResolveSpecValue answers needs_choice with 200 and resolved=false; a
// missing choice value is a 409.
func (s *Server) ResolveSpecValue(c *gin.Context) {
	resp, err := s.resolutionSvc.ResolveValue(c.Request.Context(), resolutiondomain.ResolveRequest{
		SpecID:   strings.TrimSpace(c.Param("id")),
		ChoiceID: strings.TrimSpace(c.Query("choice_id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func isSpecValidationError(err error) bool {
	switch err {
	case specdomain.ErrInvalidShortname,
		specdomain.ErrInvalidValueType,
		specdomain.ErrInvalidBounds,
		specdomain.ErrBoundsNotNumeric,
		specdomain.ErrInvalidGroup,
		specdomain.ErrInvalidID:
		return true
	default:
		return false
	}
}

func isResolutionValidationError(err error) bool {
	switch err {
	case resolutiondomain.ErrInvalidID,
		resolutiondomain.ErrInvalidSelection,
		resolutiondomain.ErrChoiceGroupMismatch,
		resolutiondomain.ErrSpecNotEditable:
		return true
	default:
		return false
	}
}

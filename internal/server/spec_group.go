package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	groupchoicedomain "github.com/smallbiznis/policyhub/internal/groupchoice/domain"
	specgroupdomain "github.com/smallbiznis/policyhub/internal/specgroup/domain"
)

type createSpecGroupRequest struct {
	Name string `json:"name"`
}

type createSpecGroupChoiceRequest struct {
	SpecGroupID string `json:"product_spec_group_id"`
	ChoiceName  string `json:"choice_name"`
}

type createSpecGroupChoiceValueRequest struct {
	ChoiceID string `json:"product_spec_group_choice_id"`
	SpecID   string `json:"product_spec_id"`
	Value    string `json:"value"`
}

func (s *Server) CreateSpecGroup(c *gin.Context) {
	var req createSpecGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.specGroupSvc.Create(c.Request.Context(), specgroupdomain.CreateRequest{
		Name: strings.TrimSpace(req.Name),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) ListSpecGroups(c *gin.Context) {
	resp, err := s.specGroupSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetSpecGroupByID(c *gin.Context) {
	resp, err := s.specGroupSvc.Get(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListSpecGroupChoices(c *gin.Context) {
	resp, err := s.choiceSvc.ListChoices(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) CreateSpecGroupChoice(c *gin.Context) {
	var req createSpecGroupChoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.choiceSvc.CreateChoice(c.Request.Context(), groupchoicedomain.CreateChoiceRequest{
		SpecGroupID: strings.TrimSpace(req.SpecGroupID),
		ChoiceName:  strings.TrimSpace(req.ChoiceName),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) GetSpecGroupChoiceByID(c *gin.Context) {
	resp, err := s.choiceSvc.GetChoice(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListSpecGroupChoiceValues(c *gin.Context) {
	resp, err := s.choiceSvc.ListValues(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) CreateSpecGroupChoiceValue(c *gin.Context) {
	var req createSpecGroupChoiceValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.choiceSvc.CreateValue(c.Request.Context(), groupchoicedomain.CreateValueRequest{
		ChoiceID: strings.TrimSpace(req.ChoiceID),
		SpecID:   strings.TrimSpace(req.SpecID),
		Value:    req.Value,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func isSpecGroupValidationError(err error) bool {
	switch err {
	case specgroupdomain.ErrInvalidName,
		specgroupdomain.ErrInvalidID:
		return true
	default:
		return false
	}
}

func isChoiceValidationError(err error) bool {
	switch err {
	case groupchoicedomain.ErrInvalidID,
		groupchoicedomain.ErrInvalidGroup,
		groupchoicedomain.ErrInvalidChoiceName,
		groupchoicedomain.ErrInvalidChoice,
		groupchoicedomain.ErrInvalidSpec,
		groupchoicedomain.ErrSpecNotInGroup:
		return true
	default:
		return false
	}
}

package domain

import "github.com/bwmarrin/snowflake"

// NewResponse renders a spec with string identifiers.
func NewResponse(spec *Spec) Response {
	resp := Response{
		ID:           snowflake.ID(spec.ID).String(),
		Shortname:    spec.Shortname,
		Description:  spec.Description,
		DefaultValue: spec.DefaultValue,
		ValueType:    spec.ValueType,
		MinValue:     spec.MinValue,
		MaxValue:     spec.MaxValue,
		Editable:     spec.Editable,
	}
	if spec.GroupID != nil {
		groupID := snowflake.ID(*spec.GroupID).String()
		resp.GroupID = &groupID
	}
	return resp
}

func NewResponses(items []Spec) []Response {
	resp := make([]Response, 0, len(items))
	for i := range items {
		resp = append(resp, NewResponse(&items[i]))
	}
	return resp
}

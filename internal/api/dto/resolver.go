package dto

import (
	"github.com/martijn/stockpoint/internal/adapter/notify"
	"github.com/martijn/stockpoint/internal/core/resolver"
)

type ResolverQueryRequest struct {
	Query string `json:"query"`
}

type ResolverSelectRequest struct {
	ClientID int64 `json:"client_id" binding:"required"`
}

// ResolverFormRequest carries the inline creation form's fields
type ResolverFormRequest struct {
	FullName   string `json:"full_name"`
	NationalID string `json:"national_id"`
}

type ResolverFormState struct {
	Open       bool   `json:"open"`
	FullName   string `json:"full_name"`
	NationalID string `json:"national_id"`
}

// ResolverSessionResponse is a snapshot of one resolver session plus the
// notifications raised since the previous response
type ResolverSessionResponse struct {
	ID            string                `json:"id"`
	Phase         string                `json:"phase"`
	Query         string                `json:"query"`
	Candidates    []ClientResponse      `json:"candidates"`
	Selected      *ClientResponse       `json:"selected,omitempty"`
	Form          ResolverFormState     `json:"form"`
	Notifications []notify.Notification `json:"notifications,omitempty"`
}

func NewResolverSessionResponse(id string, state resolver.State, notifications []notify.Notification) ResolverSessionResponse {
	resp := ResolverSessionResponse{
		ID:         id,
		Phase:      state.Phase.String(),
		Query:      state.Query,
		Candidates: NewClientResponses(state.Candidates),
		Form: ResolverFormState{
			Open:       state.FormOpen,
			FullName:   state.DraftFullName,
			NationalID: state.DraftNationalID,
		},
		Notifications: notifications,
	}
	if state.Selected != nil {
		selected := NewClientResponse(state.Selected)
		resp.Selected = &selected
	}
	return resp
}

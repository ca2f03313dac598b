package resolver

import "github.com/martijn/stockpoint/internal/core/domain"

// Phase is the resolver's position in the search/select/create workflow.
type Phase int

const (
	// Idle means the query is empty.
	Idle Phase = iota
	// Searching means the latest search has not answered yet.
	Searching
	// Suggesting means there are candidates and nothing is selected.
	Suggesting
	// NoMatch means the query matched no client.
	NoMatch
	// Selected means a client is bound.
	Selected
	// Creating means the inline creation form is open.
	Creating
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Searching:
		return "searching"
	case Suggesting:
		return "suggesting"
	case NoMatch:
		return "no_match"
	case Selected:
		return "selected"
	case Creating:
		return "creating"
	default:
		return "unknown"
	}
}

// State is a point-in-time copy of a resolver's search state.
type State struct {
	Phase      Phase
	Query      string
	Candidates []*domain.Client
	Selected   *domain.Client

	FormOpen        bool
	DraftFullName   string
	DraftNationalID string
}

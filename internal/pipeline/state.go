package pipeline

import (
	"fmt"

	"github.com/desertthunder/heydj/internal/models"
	"github.com/desertthunder/heydj/internal/shared"
	"github.com/desertthunder/heydj/internal/steps"
)

// SearchQuery is a generated query tagged with the branch that produced it.
type SearchQuery struct {
	Route models.RouteLabel
	Value string
}

// State accumulates step outputs for a single invocation.
//
// Input is fixed at construction. Every other field starts absent and may be written once.
type State struct {
	input          string
	searchFunction *string
	searchQuery    *SearchQuery
	playlistName   *string
	description    *string
}

// NewState seeds a state with the raw request.
func NewState(input string) *State {
	return &State{input: input}
}

func (s *State) Input() string { return s.input }

// SearchFunction returns the classifier's label exactly as produced.
func (s *State) SearchFunction() (string, bool) { return get(s.searchFunction) }

func (s *State) SearchQuery() (SearchQuery, bool) {
	if s.searchQuery == nil {
		return SearchQuery{}, false
	}
	return *s.searchQuery, true
}

func (s *State) PlaylistName() (string, bool) { return get(s.playlistName) }

func (s *State) Description() (string, bool) { return get(s.description) }

// Fields lists the names of every populated field, input first.
func (s *State) Fields() []string {
	fields := []string{"input"}
	if s.searchFunction != nil {
		fields = append(fields, steps.FieldSearchFunction)
	}
	if s.searchQuery != nil {
		fields = append(fields, steps.FieldSearchQuery)
	}
	if s.playlistName != nil {
		fields = append(fields, steps.FieldPlaylistName)
	}
	if s.description != nil {
		fields = append(fields, steps.FieldDescription)
	}
	return fields
}

func (s *State) SetSearchFunction(label string) error {
	return set(&s.searchFunction, steps.FieldSearchFunction, label)
}

// SetSearchQuery records the query produced by the branch for route.
func (s *State) SetSearchQuery(route models.RouteLabel, value string) error {
	if s.searchQuery != nil {
		return fmt.Errorf("%w: %s already written by %s branch", shared.ErrStateConflict, steps.FieldSearchQuery, s.searchQuery.Route)
	}
	s.searchQuery = &SearchQuery{Route: route, Value: value}
	return nil
}

func (s *State) SetPlaylistName(name string) error {
	return set(&s.playlistName, steps.FieldPlaylistName, name)
}

func (s *State) SetDescription(desc string) error {
	return set(&s.description, steps.FieldDescription, desc)
}

// Require fails with [shared.ErrStateIncomplete] unless every named field is populated.
func (s *State) Require(fields ...string) error {
	present := make(map[string]bool)
	for _, f := range s.Fields() {
		present[f] = true
	}
	for _, f := range fields {
		if !present[f] {
			return fmt.Errorf("%w: %s has not been produced", shared.ErrStateIncomplete, f)
		}
	}
	return nil
}

// Plan projects a complete state into a flat [models.PlaylistPlan].
func (s *State) Plan() (*models.PlaylistPlan, error) {
	if err := s.Require(steps.FieldSearchFunction, steps.FieldSearchQuery, steps.FieldPlaylistName, steps.FieldDescription); err != nil {
		return nil, err
	}
	return &models.PlaylistPlan{
		Input:          s.input,
		PlaylistName:   *s.playlistName,
		Description:    *s.description,
		SearchFunction: *s.searchFunction,
		SearchQuery:    s.searchQuery.Value,
	}, nil
}

func get(p *string) (string, bool) {
	if p == nil {
		return "", false
	}
	return *p, true
}

func set(dst **string, field, value string) error {
	if *dst != nil {
		return fmt.Errorf("%w: %s already written", shared.ErrStateConflict, field)
	}
	*dst = &value
	return nil
}

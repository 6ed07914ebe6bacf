package screens

import (
	"context"
	"strings"
	"sync"

	"sonora/blueprint"
	"sonora/services/deezer"
)

const SectionResults = "results"

// SearchSnapshot is the state of the search screen. Empty is set when the last query returned
// nothing, which is not the same as not having searched yet (idle).
type SearchSnapshot struct {
	ScreenID string                            `json:"screen_id"`
	Screen   string                            `json:"screen"`
	Query    string                            `json:"query"`
	Results  SectionSnapshot[[]blueprint.Song] `json:"results"`
	Empty    bool                              `json:"empty"`
}

// Search runs free text searches. Only the newest submission is applied.
type Search struct {
	*base
	catalog Catalog
	results *Section[[]blueprint.Song]

	mu    sync.Mutex
	query string
}

func NewSearch(deps *Deps) *Search {
	b := newBase(blueprint.RouteSearch, deps)
	return &Search{
		base:    b,
		catalog: deps.Catalog,
		results: newSection[[]blueprint.Song](b, SectionResults, "search results", ""),
	}
}

// Mount does nothing until a query is submitted
func (s *Search) Mount() {
	s.mountOnce(func() {})
}

// Submit starts a search. A query of only whitespace is ignored and the previous results stay.
func (s *Search) Submit(query string) bool {
	s.Touch()
	if strings.TrimSpace(query) == "" {
		return false
	}
	s.mu.Lock()
	s.query = query
	s.mu.Unlock()

	loadSection(s.base, s.results, func(ctx context.Context) ([]blueprint.Song, error) {
		tracks, err := s.catalog.Search(ctx, query)
		if err != nil {
			return nil, err
		}
		return deezer.MapSongs(tracks), nil
	})
	return true
}

func (s *Search) Snapshot() interface{} {
	s.mu.Lock()
	query := s.query
	s.mu.Unlock()

	results := s.results.Snapshot()
	return &SearchSnapshot{
		ScreenID: s.id,
		Screen:   s.name,
		Query:    query,
		Results:  results,
		Empty:    results.Status == blueprint.StatusReady && len(results.Data) == 0,
	}
}

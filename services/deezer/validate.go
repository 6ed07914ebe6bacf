package deezer

import (
	"errors"
	"fmt"
	"strings"
)

// schema checks run on every decoded payload before it leaves the client. Anything that fails
// here is reported as EMAPPING.

func (a *Artist) validate() error {
	if a.ID <= 0 {
		return fmt.Errorf("artist: invalid id %d", a.ID)
	}
	if strings.TrimSpace(a.Name) == "" {
		return fmt.Errorf("artist %d: missing name", a.ID)
	}
	return nil
}

func (a *Album) validate() error {
	if a.ID <= 0 {
		return fmt.Errorf("album: invalid id %d", a.ID)
	}
	return nil
}

func (t *Track) validate() error {
	if t.ID <= 0 {
		return fmt.Errorf("track: invalid id %d", t.ID)
	}
	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("track %d: missing title", t.ID)
	}
	if t.Artist == nil {
		return fmt.Errorf("track %d: missing artist", t.ID)
	}
	// embedded artists carry a name but sometimes no id
	if strings.TrimSpace(t.Artist.Name) == "" {
		return fmt.Errorf("track %d: missing artist name", t.ID)
	}
	return nil
}

func (p *Playlist) validate() error {
	if p.ID <= 0 {
		return fmt.Errorf("playlist: invalid id %d", p.ID)
	}
	if strings.TrimSpace(p.Title) == "" {
		return fmt.Errorf("playlist %d: missing title", p.ID)
	}
	return nil
}

type validator interface {
	validate() error
}

// validateList checks a list envelope and each of its items
func validateList[T any, PT interface {
	*T
	validator
}](resp *ListResponse[T]) ([]T, error) {
	if resp.Data == nil {
		return nil, errors.New("missing data field")
	}
	items := *resp.Data
	for i := range items {
		if err := PT(&items[i]).validate(); err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
	}
	return items, nil
}

package screens

import (
	"context"

	"sonora/blueprint"
	"sonora/services/deezer"
)

const (
	SectionSongs     = "songs"
	SectionPlaylists = "playlists"
	SectionArtists   = "artists"
)

// HomeSnapshot is the state of the home screen
type HomeSnapshot struct {
	ScreenID  string                                `json:"screen_id"`
	Screen    string                                `json:"screen"`
	Songs     SectionSnapshot[[]blueprint.Song]     `json:"songs"`
	Playlists SectionSnapshot[[]blueprint.Playlist] `json:"playlists"`
	Artists   SectionSnapshot[[]blueprint.Artist]   `json:"artists"`
}

// Home shows the chart tracks, playlists and artists. The three sections load concurrently and
// resolve in any order.
type Home struct {
	*base
	catalog   Catalog
	songs     *Section[[]blueprint.Song]
	playlists *Section[[]blueprint.Playlist]
	artists   *Section[[]blueprint.Artist]
}

func NewHome(deps *Deps) *Home {
	b := newBase(blueprint.RouteHome, deps)
	return &Home{
		base:      b,
		catalog:   deps.Catalog,
		songs:     newSection[[]blueprint.Song](b, SectionSongs, "songs", ""),
		playlists: newSection[[]blueprint.Playlist](b, SectionPlaylists, "playlists", ""),
		artists:   newSection[[]blueprint.Artist](b, SectionArtists, "artists", ""),
	}
}

func (h *Home) Mount() {
	h.mountOnce(h.load)
}

// Refresh refetches every section
func (h *Home) Refresh() {
	h.Touch()
	h.load()
}

func (h *Home) load() {
	loadSection(h.base, h.songs, func(ctx context.Context) ([]blueprint.Song, error) {
		tracks, err := h.catalog.ChartTracks(ctx)
		if err != nil {
			return nil, err
		}
		return deezer.MapSongs(tracks), nil
	})
	loadSection(h.base, h.playlists, func(ctx context.Context) ([]blueprint.Playlist, error) {
		playlists, err := h.catalog.ChartPlaylists(ctx)
		if err != nil {
			return nil, err
		}
		return deezer.MapPlaylists(playlists), nil
	})
	loadSection(h.base, h.artists, func(ctx context.Context) ([]blueprint.Artist, error) {
		artists, err := h.catalog.ChartArtists(ctx)
		if err != nil {
			return nil, err
		}
		return deezer.MapArtists(artists), nil
	})
}

func (h *Home) Snapshot() interface{} {
	return &HomeSnapshot{
		ScreenID:  h.id,
		Screen:    h.name,
		Songs:     h.songs.Snapshot(),
		Playlists: h.playlists.Snapshot(),
		Artists:   h.artists.Snapshot(),
	}
}

// loadSection begins a new generation of section and fetches it in the background
func loadSection[T any](b *base, section *Section[T], fetch func(ctx context.Context) (T, error)) {
	gen, ok := section.Begin()
	if !ok {
		return
	}
	b.spawn(func(ctx context.Context) {
		data, err := fetch(ctx)
		if err != nil {
			section.Fail(gen, err)
			return
		}
		section.Resolve(gen, data)
	})
}

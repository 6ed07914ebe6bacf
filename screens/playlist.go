package screens

import (
	"context"
	"sync"

	"sonora/blueprint"
	"sonora/services/deezer"

	"go.uber.org/zap"
)

const (
	SectionHeader = "header"
	SectionTracks = "tracks"

	loadMoreFailed = "Failed to load more tracks."
)

// PlaylistSnapshot is the state of the playlist detail screen
type PlaylistSnapshot struct {
	ScreenID  string                                     `json:"screen_id"`
	Screen    string                                     `json:"screen"`
	Header    SectionSnapshot[*blueprint.PlaylistDetail] `json:"header"`
	Tracks    SectionSnapshot[[]blueprint.Song]          `json:"tracks"`
	Appending bool                                       `json:"appending"`
	HasMore   bool                                       `json:"has_more"`
	Total     int                                        `json:"total,omitempty"`
	MoreError string                                     `json:"more_error,omitempty"`
	Playback  blueprint.PlaybackState                    `json:"playback"`
}

// PlaylistDetail shows a playlist and pages through its tracks. At most one continuation fetch
// runs at a time and pages are appended in the order they were fetched.
type PlaylistDetail struct {
	*base
	catalog    Catalog
	playlistID int
	header     *Section[*blueprint.PlaylistDetail]
	tracks     *Section[[]blueprint.Song]

	mu        sync.Mutex
	next      string
	total     int
	appending bool
	moreError string
}

func NewPlaylistDetail(deps *Deps, playlistID int) *PlaylistDetail {
	b := newBase(blueprint.RoutePlaylistDetail, deps)
	b.withPlayer(deps.Engine)
	return &PlaylistDetail{
		base:       b,
		catalog:    deps.Catalog,
		playlistID: playlistID,
		header:     newSection[*blueprint.PlaylistDetail](b, SectionHeader, "playlist", "Playlist not found."),
		tracks:     newSection[[]blueprint.Song](b, SectionTracks, "tracklist", ""),
	}
}

func (p *PlaylistDetail) Mount() {
	p.mountOnce(p.load)
}

// load fetches the header, then the first page of its tracklist
func (p *PlaylistDetail) load() {
	headerGen, ok := p.header.Begin()
	if !ok {
		return
	}
	p.spawn(func(ctx context.Context) {
		playlist, err := p.catalog.FetchPlaylist(ctx, p.playlistID)
		if err != nil {
			p.header.Fail(headerGen, err)
			return
		}
		detail := deezer.MapPlaylistDetail(playlist)
		if !p.header.Resolve(headerGen, &detail) {
			return
		}

		ref := detail.Tracklist
		if ref == "" {
			ref = p.catalog.PlaylistTracklist(p.playlistID)
		}
		tracksGen, ok := p.tracks.Begin()
		if !ok {
			return
		}
		list, err := p.catalog.FetchTrackPage(ctx, ref)
		if err != nil {
			p.tracks.Fail(tracksGen, err)
			return
		}
		page := deezer.MapTrackPage(list)
		p.mu.Lock()
		p.next, p.total = page.Next, page.Total
		p.mu.Unlock()
		p.tracks.Resolve(tracksGen, page.Tracks)
	})
}

// LoadMore fetches the next page of tracks. It returns false when there is nothing more to load
// or a continuation fetch is already running.
func (p *PlaylistDetail) LoadMore() bool {
	p.Touch()
	p.mu.Lock()
	if p.next == "" || p.appending || !p.alive() || p.tracks.Status() != blueprint.StatusReady {
		p.mu.Unlock()
		return false
	}
	p.appending = true
	p.moreError = ""
	ref := p.next
	p.mu.Unlock()
	p.sectionChanged(SectionTracks, blueprint.StatusReady, "")

	p.spawn(func(ctx context.Context) {
		defer func() {
			p.mu.Lock()
			p.appending = false
			p.mu.Unlock()
			p.sectionChanged(SectionTracks, p.tracks.Status(), "")
		}()

		list, err := p.catalog.FetchTrackPage(ctx, ref)
		if err != nil {
			if !p.alive() {
				return
			}
			p.logger.Warn("[screens][PlaylistDetail][LoadMore] warning - could not load the next page", zap.Error(err))
			p.mu.Lock()
			p.moreError = loadMoreFailed
			p.mu.Unlock()
			return
		}

		// still appending, so no other continuation can interleave
		page := deezer.MapTrackPage(list)
		p.mu.Lock()
		p.next = page.Next
		if page.Total > 0 {
			p.total = page.Total
		}
		p.mu.Unlock()
		p.tracks.Update(func(tracks []blueprint.Song) []blueprint.Song {
			return append(tracks, page.Tracks...)
		})
	})
	return true
}

func (p *PlaylistDetail) TogglePlay(_ context.Context, trackID int) (blueprint.PlaybackState, error) {
	return p.togglePlay(findSong(p.tracks.Data(), trackID), trackID)
}

func (p *PlaylistDetail) Snapshot() interface{} {
	p.mu.Lock()
	appending, next, total, moreError := p.appending, p.next, p.total, p.moreError
	p.mu.Unlock()

	return &PlaylistSnapshot{
		ScreenID:  p.id,
		Screen:    p.name,
		Header:    p.header.Snapshot(),
		Tracks:    p.tracks.Snapshot(),
		Appending: appending,
		HasMore:   next != "",
		Total:     total,
		MoreError: moreError,
		Playback:  p.PlaybackState(),
	}
}

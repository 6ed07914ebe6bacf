package screens

import (
	"context"
	"errors"

	"sonora/blueprint"
	"sonora/services/deezer"

	"github.com/samber/lo"
)

// ArtistSnapshot is the state of the artist detail screen. Partial is set when some sections
// failed while others loaded.
type ArtistSnapshot struct {
	ScreenID  string                             `json:"screen_id"`
	Screen    string                             `json:"screen"`
	Artist    SectionSnapshot[*blueprint.Artist] `json:"artist"`
	TopTracks SectionSnapshot[[]blueprint.Song]  `json:"top_tracks"`
	Albums    SectionSnapshot[[]blueprint.Album] `json:"albums"`
	Partial   bool                               `json:"partial"`
	Playback  blueprint.PlaybackState            `json:"playback"`
}

// ArtistDetail shows an artist, their top tracks and albums, and plays previews of the top tracks
type ArtistDetail struct {
	*base
	catalog   Catalog
	artistID  int
	artist    *Section[*blueprint.Artist]
	topTracks *Section[[]blueprint.Song]
	albums    *Section[[]blueprint.Album]
}

func NewArtistDetail(deps *Deps, artistID int) *ArtistDetail {
	b := newBase(blueprint.RouteArtistDetail, deps)
	b.withPlayer(deps.Engine)
	return &ArtistDetail{
		base:      b,
		catalog:   deps.Catalog,
		artistID:  artistID,
		artist:    newSection[*blueprint.Artist](b, deezer.SectionArtist, "artist", "Artist not found."),
		topTracks: newSection[[]blueprint.Song](b, deezer.SectionTopTracks, "top tracks", ""),
		albums:    newSection[[]blueprint.Album](b, deezer.SectionAlbums, "albums", ""),
	}
}

func (a *ArtistDetail) Mount() {
	a.mountOnce(a.load)
}

func (a *ArtistDetail) load() {
	artistGen, ok := a.artist.Begin()
	if !ok {
		return
	}
	topGen, _ := a.topTracks.Begin()
	albumsGen, _ := a.albums.Begin()

	a.spawn(func(ctx context.Context) {
		detail, err := a.catalog.FetchArtistDetail(ctx, a.artistID)
		var partial *deezer.PartialError
		if err != nil && !errors.As(err, &partial) {
			a.artist.Fail(artistGen, err)
			a.topTracks.Fail(topGen, err)
			a.albums.Fail(albumsGen, err)
			return
		}
		failed := func(section string) error {
			if partial == nil {
				return nil
			}
			return partial.Section(section)
		}

		if err := failed(deezer.SectionArtist); err != nil {
			a.artist.Fail(artistGen, err)
		} else {
			artist := deezer.MapArtist(detail.Artist)
			a.artist.Resolve(artistGen, &artist)
		}
		if err := failed(deezer.SectionTopTracks); err != nil {
			a.topTracks.Fail(topGen, err)
		} else {
			a.topTracks.Resolve(topGen, deezer.MapSongs(detail.TopTracks))
		}
		if err := failed(deezer.SectionAlbums); err != nil {
			a.albums.Fail(albumsGen, err)
		} else {
			a.albums.Resolve(albumsGen, deezer.MapAlbums(detail.Albums))
		}
	})
}

func (a *ArtistDetail) TogglePlay(_ context.Context, trackID int) (blueprint.PlaybackState, error) {
	return a.togglePlay(findSong(a.topTracks.Data(), trackID), trackID)
}

func (a *ArtistDetail) Snapshot() interface{} {
	snapshot := &ArtistSnapshot{
		ScreenID:  a.id,
		Screen:    a.name,
		Artist:    a.artist.Snapshot(),
		TopTracks: a.topTracks.Snapshot(),
		Albums:    a.albums.Snapshot(),
		Playback:  a.PlaybackState(),
	}
	statuses := []blueprint.SectionStatus{snapshot.Artist.Status, snapshot.TopTracks.Status, snapshot.Albums.Status}
	snapshot.Partial = lo.Contains(statuses, blueprint.StatusError) && lo.Contains(statuses, blueprint.StatusReady)
	return snapshot
}

package screens

import (
	"context"

	"sonora/blueprint"
	"sonora/services/deezer"
	"sonora/util"
)

const SectionSong = "song"

// SongSnapshot is the state of the song detail screen
type SongSnapshot struct {
	ScreenID string                           `json:"screen_id"`
	Screen   string                           `json:"screen"`
	Song     SectionSnapshot[*blueprint.Song] `json:"song"`
	// Duration is the formatted track length, empty when unknown
	Duration string                  `json:"duration,omitempty"`
	Playback blueprint.PlaybackState `json:"playback"`
}

// SongDetail shows one track and can play its preview
type SongDetail struct {
	*base
	catalog Catalog
	trackID int
	song    *Section[*blueprint.Song]
}

func NewSongDetail(deps *Deps, trackID int) *SongDetail {
	b := newBase(blueprint.RouteSongDetail, deps)
	b.withPlayer(deps.Engine)
	return &SongDetail{
		base:    b,
		catalog: deps.Catalog,
		trackID: trackID,
		song:    newSection[*blueprint.Song](b, SectionSong, "song details", "Song not found."),
	}
}

func (s *SongDetail) Mount() {
	s.mountOnce(func() {
		loadSection(s.base, s.song, func(ctx context.Context) (*blueprint.Song, error) {
			track, err := s.catalog.FetchTrack(ctx, s.trackID)
			if err != nil {
				return nil, err
			}
			song := deezer.MapSong(track)
			return &song, nil
		})
	})
}

func (s *SongDetail) TogglePlay(_ context.Context, trackID int) (blueprint.PlaybackState, error) {
	var song *blueprint.Song
	if current := s.song.Data(); current != nil && current.ID == trackID {
		song = current
	}
	return s.togglePlay(song, trackID)
}

func (s *SongDetail) Snapshot() interface{} {
	snapshot := &SongSnapshot{
		ScreenID: s.id,
		Screen:   s.name,
		Song:     s.song.Snapshot(),
		Playback: s.PlaybackState(),
	}
	if song := snapshot.Song.Data; song != nil && song.Duration != nil {
		snapshot.Duration = util.GetFormattedDuration(*song.Duration)
	}
	return snapshot
}

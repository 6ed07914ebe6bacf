package deezer_test

import (
	"encoding/json"
	"testing"

	"sonora/services/deezer"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeTracks(t *testing.T, body string) []deezer.Track {
	t.Helper()
	out := deezer.ListResponse[deezer.Track]{}
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	require.NotNil(t, out.Data)
	return *out.Data
}

func TestMapSong(t *testing.T) {
	songs := deezer.MapSongs(decodeTracks(t, bohemianSearch))
	require.Len(t, songs, 2)

	rhapsody := songs[0]
	assert.Equal(t, 568115892, rhapsody.ID)
	assert.Equal(t, "Queen", rhapsody.Artist.Name)
	assert.Equal(t, "https://e-cdns-images.dzcdn.net/images/cover/bohemian/250x250.jpg", rhapsody.Cover)
	require.NotNil(t, rhapsody.Duration)
	assert.Equal(t, 355, *rhapsody.Duration)
	assert.Nil(t, rhapsody.TitleVersion)
	// an explicit false is kept
	require.NotNil(t, rhapsody.ExplicitLyrics)
	assert.False(t, *rhapsody.ExplicitLyrics)
	assert.True(t, rhapsody.Playable())

	// readable false with an explicit content flag and no preview
	warhols := songs[1]
	require.NotNil(t, warhols.Readable)
	assert.False(t, *warhols.Readable)
	require.NotNil(t, warhols.ExplicitLyrics)
	assert.True(t, *warhols.ExplicitLyrics)
	assert.Nil(t, warhols.Preview)
	assert.False(t, warhols.Playable())
}

func TestMapSongAbsentOptionals(t *testing.T) {
	song := deezer.MapSong(&deezer.Track{ID: 9, Title: "Bare", Artist: &deezer.Artist{Name: "Someone"}})

	assert.Nil(t, song.TitleShort)
	assert.Nil(t, song.Duration)
	assert.Nil(t, song.Rank)
	assert.Nil(t, song.Preview)
	assert.Nil(t, song.Readable)
	assert.Nil(t, song.Link)
	assert.Empty(t, song.Cover)
	assert.Nil(t, song.ExplicitLyrics)
	assert.Equal(t, "Someone", song.Artist.Name)
	assert.Zero(t, song.Album.ID)
}

func TestSongCover(t *testing.T) {
	tests := []struct {
		name  string
		track deezer.Track
		want  string
	}{
		{"own cover wins", deezer.Track{Cover: "own.jpg", Album: &deezer.Album{CoverMedium: "album.jpg"}}, "own.jpg"},
		{"album medium cover", deezer.Track{Album: &deezer.Album{CoverMedium: "album.jpg", CoverBig: "big.jpg"}}, "album.jpg"},
		{"album without medium cover", deezer.Track{Album: &deezer.Album{CoverBig: "big.jpg"}}, ""},
		{"no album", deezer.Track{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, deezer.SongCover(&tt.track))
		})
	}
}

func TestPlayable(t *testing.T) {
	tests := []struct {
		name     string
		preview  string
		readable *bool
		want     bool
	}{
		{"preview and readable", "p.mp3", lo.ToPtr(true), true},
		{"preview, readable unknown", "p.mp3", nil, true},
		{"preview, not readable", "p.mp3", lo.ToPtr(false), false},
		{"no preview", "", lo.ToPtr(true), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			song := deezer.MapSong(&deezer.Track{ID: 1, Title: "x", Preview: tt.preview, Readable: tt.readable})
			assert.Equal(t, tt.want, song.Playable())
		})
	}
}

func TestMapPlaylists(t *testing.T) {
	out := deezer.ListResponse[deezer.Playlist]{}
	require.NoError(t, json.Unmarshal([]byte(chartPlaylists), &out))

	cards := deezer.MapPlaylists(*out.Data)
	require.Len(t, cards, 2)
	assert.Equal(t, "pm.jpg", cards[0].Cover)
	// falls back to the plain picture
	assert.Equal(t, "usa.jpg", cards[1].Cover)
}

func TestMapPlaylistDetail(t *testing.T) {
	playlist := deezer.Playlist{}
	require.NoError(t, json.Unmarshal([]byte(playlistHeader("https://api.deezer.com")), &playlist))

	detail := deezer.MapPlaylistDetail(&playlist)
	assert.Equal(t, "Chill Hits", detail.Title)
	assert.Equal(t, "Aug 22, 2014", detail.CreatedOn)
	assert.Equal(t, "2014-08-22 10:14:36", detail.CreationDate)
	require.NotNil(t, detail.Owner)
	assert.Equal(t, "Deezer Chill Editor", detail.Owner.Name)
	assert.Equal(t, "https://api.deezer.com/playlist/908622995/tracks", detail.Tracklist)

	noOwner := deezer.MapPlaylistDetail(&deezer.Playlist{ID: 1, Title: "t"})
	assert.Nil(t, noOwner.Owner)
}

func TestFormatCreationDate(t *testing.T) {
	assert.Equal(t, "May 4, 2022", deezer.FormatCreationDate("2022-05-04 08:00:00"))
	assert.Equal(t, "", deezer.FormatCreationDate(""))
}

func TestMapArtistsAndAlbums(t *testing.T) {
	artists := deezer.MapArtists([]deezer.Artist{{ID: 27, Name: "Daft Punk", PictureXl: "xl.jpg", Radio: true}})
	require.Len(t, artists, 1)
	assert.Equal(t, "xl.jpg", artists[0].PictureXL)
	assert.True(t, artists[0].Radio)

	albums := deezer.MapAlbums([]deezer.Album{{ID: 302127, Title: "Discovery", CoverXl: "d.jpg", RecordType: "album"}})
	require.Len(t, albums, 1)
	assert.Equal(t, "d.jpg", albums[0].CoverXL)

	page := deezer.MapTrackPage(&deezer.TrackList{Data: decodeTracks(t, bohemianSearch), Total: 2, Next: "n"})
	assert.Len(t, page.Tracks, 2)
	assert.Equal(t, "n", page.Next)
}

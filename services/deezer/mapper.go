package deezer

import (
	"sonora/blueprint"
	"sonora/util"

	"github.com/nleeper/goment"
	"github.com/samber/lo"
)

// layout deezer uses for creation_date, in moment.js tokens
const creationDateLayout = "YYYY-MM-DD HH:mm:ss"

// MapArtist maps a catalog artist to the screen model
func MapArtist(a *Artist) blueprint.Artist {
	if a == nil {
		return blueprint.Artist{}
	}
	return blueprint.Artist{
		ID:            a.ID,
		Name:          a.Name,
		PictureSmall:  a.PictureSmall,
		PictureMedium: a.PictureMedium,
		PictureBig:    a.PictureBig,
		PictureXL:     a.PictureXl,
		Link:          a.Link,
		Radio:         a.Radio,
	}
}

// MapAlbum maps a catalog album to the screen model
func MapAlbum(a *Album) blueprint.Album {
	if a == nil {
		return blueprint.Album{}
	}
	return blueprint.Album{
		ID:             a.ID,
		Title:          a.Title,
		Cover:          a.Cover,
		CoverSmall:     a.CoverSmall,
		CoverMedium:    a.CoverMedium,
		CoverBig:       a.CoverBig,
		CoverXL:        a.CoverXl,
		RecordType:     a.RecordType,
		ExplicitLyrics: a.ExplicitLyrics,
		Link:           a.Link,
	}
}

// SongCover picks the cover of a track: its own cover if it has one, the album's medium cover
// otherwise. An empty result means there is no cover.
func SongCover(t *Track) string {
	if t.Cover != "" {
		return t.Cover
	}
	if t.Album != nil {
		return t.Album.CoverMedium
	}
	return ""
}

// trackExplicit is nil when the catalog sent neither explicit flag
func trackExplicit(t *Track) *bool {
	contentExplicit := util.DeezerIsExplicit(t.ExplicitContentLyrics)
	if t.ExplicitLyrics == nil {
		if contentExplicit {
			return lo.ToPtr(true)
		}
		return nil
	}
	return lo.ToPtr(*t.ExplicitLyrics || contentExplicit)
}

// MapSong maps a catalog track to the screen model. Zero values of the optional fields are
// treated as absent, except readable and explicit which keep an explicit false.
func MapSong(t *Track) blueprint.Song {
	return blueprint.Song{
		ID:             t.ID,
		Title:          t.Title,
		TitleShort:     lo.EmptyableToPtr(t.TitleShort),
		TitleVersion:   lo.EmptyableToPtr(t.TitleVersion),
		Artist:         MapArtist(t.Artist),
		Album:          MapAlbum(t.Album),
		Cover:          SongCover(t),
		Duration:       lo.EmptyableToPtr(t.Duration),
		ExplicitLyrics: trackExplicit(t),
		Rank:           lo.EmptyableToPtr(t.Rank),
		Preview:        lo.EmptyableToPtr(t.Preview),
		Readable:       t.Readable,
		Link:           lo.EmptyableToPtr(t.Link),
	}
}

// MapSongs maps a batch of tracks, keeping their order
func MapSongs(tracks []Track) []blueprint.Song {
	return lo.Map(tracks, func(t Track, _ int) blueprint.Song {
		return MapSong(&t)
	})
}

// MapArtists maps a batch of artists, keeping their order
func MapArtists(artists []Artist) []blueprint.Artist {
	return lo.Map(artists, func(a Artist, _ int) blueprint.Artist {
		return MapArtist(&a)
	})
}

// MapAlbums maps a batch of albums, keeping their order
func MapAlbums(albums []Album) []blueprint.Album {
	return lo.Map(albums, func(a Album, _ int) blueprint.Album {
		return MapAlbum(&a)
	})
}

func playlistCover(p *Playlist) string {
	return lo.Ternary(p.PictureMedium != "", p.PictureMedium, p.Picture)
}

// MapPlaylist maps a chart playlist to its card
func MapPlaylist(p *Playlist) blueprint.Playlist {
	return blueprint.Playlist{
		ID:    p.ID,
		Title: p.Title,
		Cover: playlistCover(p),
	}
}

// MapPlaylists maps a batch of chart playlists, keeping their order
func MapPlaylists(playlists []Playlist) []blueprint.Playlist {
	return lo.Map(playlists, func(p Playlist, _ int) blueprint.Playlist {
		return MapPlaylist(&p)
	})
}

// MapPlaylistDetail maps the playlist header of the detail screen
func MapPlaylistDetail(p *Playlist) blueprint.PlaylistDetail {
	detail := blueprint.PlaylistDetail{
		ID:            p.ID,
		Title:         p.Title,
		Cover:         playlistCover(p),
		Public:        p.Public,
		NbTracks:      p.NbTracks,
		Link:          p.Link,
		CreationDate:  p.CreationDate,
		CreatedOn:     FormatCreationDate(p.CreationDate),
		Picture:       p.Picture,
		PictureSmall:  p.PictureSmall,
		PictureMedium: p.PictureMedium,
		PictureBig:    p.PictureBig,
		PictureXL:     p.PictureXl,
		Checksum:      p.Checksum,
		Tracklist:     p.Tracklist,
	}
	// /playlist/{id} names the owner "creator", chart entries name it "user"
	owner := p.User
	if owner == nil {
		owner = p.Creator
	}
	if owner != nil {
		detail.Owner = &blueprint.PlaylistOwner{
			ID:        owner.ID,
			Name:      owner.Name,
			Tracklist: owner.Tracklist,
			Type:      owner.Type,
		}
	}
	return detail
}

// MapTrackPage maps one page of a track list
func MapTrackPage(list *TrackList) blueprint.TrackPage {
	return blueprint.TrackPage{
		Tracks: MapSongs(list.Data),
		Total:  list.Total,
		Next:   list.Next,
	}
}

// FormatCreationDate renders a playlist creation date like "May 4, 2022". Dates that cannot be
// parsed are returned unchanged.
func FormatCreationDate(raw string) string {
	if raw == "" {
		return ""
	}
	date, err := goment.New(raw, creationDateLayout)
	if err != nil {
		return raw
	}
	return date.Format("MMM D, YYYY")
}

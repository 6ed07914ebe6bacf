package deezer

// deezer returns some "not found" results with a 200 status and this envelope
type errorEnvelope struct {
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// deezer error code for "no data"
const dataNotFoundCode = 800

type Artist struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	Link          string `json:"link"`
	Picture       string `json:"picture"`
	PictureSmall  string `json:"picture_small"`
	PictureMedium string `json:"picture_medium"`
	PictureBig    string `json:"picture_big"`
	PictureXl     string `json:"picture_xl"`
	Radio         bool   `json:"radio"`
	Tracklist     string `json:"tracklist"`
	Type          string `json:"type"`
}

type Album struct {
	ID             int    `json:"id"`
	Title          string `json:"title"`
	Cover          string `json:"cover"`
	CoverSmall     string `json:"cover_small"`
	CoverMedium    string `json:"cover_medium"`
	CoverBig       string `json:"cover_big"`
	CoverXl        string `json:"cover_xl"`
	RecordType     string `json:"record_type"`
	ExplicitLyrics bool   `json:"explicit_lyrics"`
	Link           string `json:"link"`
	Tracklist      string `json:"tracklist"`
	Type           string `json:"type"`
}

type Track struct {
	ID                    int     `json:"id"`
	Readable              *bool   `json:"readable"`
	Title                 string  `json:"title"`
	TitleShort            string  `json:"title_short"`
	TitleVersion          string  `json:"title_version"`
	Link                  string  `json:"link"`
	Duration              int     `json:"duration"`
	Rank                  int     `json:"rank"`
	ExplicitLyrics        *bool   `json:"explicit_lyrics"`
	ExplicitContentLyrics int     `json:"explicit_content_lyrics"`
	Preview               string  `json:"preview"`
	Cover                 string  `json:"cover"`
	Artist                *Artist `json:"artist"`
	Album                 *Album  `json:"album"`
	Type                  string  `json:"type"`
}

type PlaylistCreator struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Tracklist string `json:"tracklist"`
	Type      string `json:"type"`
}

type Playlist struct {
	ID            int              `json:"id"`
	Title         string           `json:"title"`
	Public        bool             `json:"public"`
	NbTracks      int              `json:"nb_tracks"`
	Link          string           `json:"link"`
	Picture       string           `json:"picture"`
	PictureSmall  string           `json:"picture_small"`
	PictureMedium string           `json:"picture_medium"`
	PictureBig    string           `json:"picture_big"`
	PictureXl     string           `json:"picture_xl"`
	Checksum      string           `json:"checksum"`
	Tracklist     string           `json:"tracklist"`
	CreationDate  string           `json:"creation_date"`
	Md5Image      string           `json:"md5_image"`
	PictureType   string           `json:"picture_type"`
	User          *PlaylistCreator `json:"user"`
	Creator       *PlaylistCreator `json:"creator"`
	Type          string           `json:"type"`
}

// ListResponse is the envelope of every list endpoint. Data is a pointer so that a
// payload without the key can be told apart from an empty list.
type ListResponse[T any] struct {
	Data  *[]T   `json:"data"`
	Total int    `json:"total"`
	Next  string `json:"next"`
}

// TrackList is one page of tracks together with the continuation reference
type TrackList struct {
	Data  []Track
	Total int
	Next  string
}

// ArtistDetail holds whatever parts of the artist lookups succeeded
type ArtistDetail struct {
	Artist    *Artist
	TopTracks []Track
	Albums    []Album
}

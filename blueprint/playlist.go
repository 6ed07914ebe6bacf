package blueprint

// Playlist is the chart card for a playlist
type Playlist struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	Cover string `json:"cover,omitempty"`
}

// PlaylistOwner is the user that created a playlist
type PlaylistOwner struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Tracklist string `json:"tracklist,omitempty"`
	Type      string `json:"type,omitempty"`
}

// PlaylistDetail is the header shown on the playlist detail screen
type PlaylistDetail struct {
	ID            int            `json:"id"`
	Title         string         `json:"title"`
	Cover         string         `json:"cover,omitempty"`
	Public        bool           `json:"public"`
	NbTracks      int            `json:"nb_tracks"`
	Link          string         `json:"link,omitempty"`
	CreationDate  string         `json:"creation_date,omitempty"`
	CreatedOn     string         `json:"created_on,omitempty"`
	Owner         *PlaylistOwner `json:"user,omitempty"`
	Picture       string         `json:"picture,omitempty"`
	PictureSmall  string         `json:"picture_small,omitempty"`
	PictureMedium string         `json:"picture_medium,omitempty"`
	PictureBig    string         `json:"picture_big,omitempty"`
	PictureXL     string         `json:"picture_xl,omitempty"`
	Checksum      string         `json:"checksum,omitempty"`
	Tracklist     string         `json:"tracklist,omitempty"`
}

// TrackPage is one page of a paginated track list. An empty Next means there is nothing more to fetch.
type TrackPage struct {
	Tracks []Song `json:"tracks"`
	Total  int    `json:"total,omitempty"`
	Next   string `json:"next,omitempty"`
}

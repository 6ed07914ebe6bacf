package blueprint

// Artist represents an artist as rendered by the screens
type Artist struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	PictureSmall  string `json:"picture_small,omitempty"`
	PictureMedium string `json:"picture_medium,omitempty"`
	PictureBig    string `json:"picture_big,omitempty"`
	PictureXL     string `json:"picture_xl,omitempty"`
	Link          string `json:"link,omitempty"`
	Radio         bool   `json:"radio"`
}

// Album represents an album as rendered by the screens
type Album struct {
	ID             int    `json:"id"`
	Title          string `json:"title"`
	Cover          string `json:"cover,omitempty"`
	CoverSmall     string `json:"cover_small,omitempty"`
	CoverMedium    string `json:"cover_medium,omitempty"`
	CoverBig       string `json:"cover_big,omitempty"`
	CoverXL        string `json:"cover_xl,omitempty"`
	RecordType     string `json:"record_type,omitempty"`
	ExplicitLyrics bool   `json:"explicit_lyrics"`
	Link           string `json:"link,omitempty"`
}

package blueprint

// Song represents a single track. Optional fields are nil when the catalog did not send them.
type Song struct {
	ID             int     `json:"id"`
	Title          string  `json:"title"`
	TitleShort     *string `json:"title_short,omitempty"`
	TitleVersion   *string `json:"title_version,omitempty"`
	Artist         Artist  `json:"artist"`
	Album          Album   `json:"album"`
	Cover          string  `json:"cover,omitempty"`
	Duration       *int    `json:"duration,omitempty"`
	ExplicitLyrics *bool   `json:"explicit_lyrics,omitempty"`
	Rank           *int    `json:"rank,omitempty"`
	Preview        *string `json:"preview,omitempty"`
	Readable       *bool   `json:"readable,omitempty"`
	Link           *string `json:"link,omitempty"`
}

// Playable reports whether a preview can be started for the song. A song without a preview,
// or one the catalog explicitly marked as not readable, never is.
func (s Song) Playable() bool {
	if s.Preview == nil || *s.Preview == "" {
		return false
	}
	return s.Readable == nil || *s.Readable
}

// PreviewURL returns the preview url or an empty string
func (s Song) PreviewURL() string {
	if s.Preview == nil {
		return ""
	}
	return *s.Preview
}

package deezer_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"sonora/services/deezer"

	"github.com/stretchr/testify/require"
)

const bohemianSearch = `{
  "data": [
    {
      "id": 568115892,
      "readable": true,
      "title": "Bohemian Rhapsody",
      "title_short": "Bohemian Rhapsody",
      "title_version": "",
      "link": "https://www.deezer.com/track/568115892",
      "duration": 355,
      "rank": 933178,
      "explicit_lyrics": false,
      "explicit_content_lyrics": 0,
      "preview": "https://cdns-preview-d.dzcdn.net/stream/c-deda7fa9316d9e9e880d2c6207e92260-8.mp3",
      "artist": {"id": 412, "name": "Queen", "link": "https://www.deezer.com/artist/412", "picture_medium": "https://e-cdns-images.dzcdn.net/images/artist/queen/250x250.jpg", "type": "artist"},
      "album": {"id": 75233462, "title": "Bohemian Rhapsody (The Original Soundtrack)", "cover": "https://api.deezer.com/album/75233462/image", "cover_medium": "https://e-cdns-images.dzcdn.net/images/cover/bohemian/250x250.jpg", "type": "album"},
      "type": "track"
    },
    {
      "id": 7868649,
      "readable": false,
      "title": "Bohemian Like You",
      "title_short": "Bohemian Like You",
      "link": "https://www.deezer.com/track/7868649",
      "duration": 211,
      "rank": 700112,
      "explicit_lyrics": false,
      "explicit_content_lyrics": 1,
      "preview": "",
      "artist": {"id": 1203, "name": "The Dandy Warhols"},
      "album": {"id": 720263, "title": "Thirteen Tales From Urban Bohemia", "cover_medium": "https://e-cdns-images.dzcdn.net/images/cover/warhols/250x250.jpg"},
      "type": "track"
    }
  ],
  "total": 2
}`

const daftPunkArtist = `{"id": 27, "name": "Daft Punk", "link": "https://www.deezer.com/artist/27", "picture_small": "s.jpg", "picture_medium": "m.jpg", "picture_big": "b.jpg", "picture_xl": "xl.jpg", "radio": true, "type": "artist"}`

const daftPunkTop = `{"data": [
  {"id": 3135556, "title": "Harder, Better, Faster, Stronger", "duration": 224, "rank": 890000, "preview": "https://cdns-preview.dzcdn.net/hbfs.mp3",
   "artist": {"id": 27, "name": "Daft Punk"}, "album": {"id": 302127, "title": "Discovery", "cover_medium": "https://e-cdns-images.dzcdn.net/images/cover/discovery/250x250.jpg"}},
  {"id": 3135553, "title": "One More Time", "duration": 320, "preview": "https://cdns-preview.dzcdn.net/omt.mp3",
   "artist": {"id": 27, "name": "Daft Punk"}, "album": {"id": 302127, "title": "Discovery", "cover_medium": "https://e-cdns-images.dzcdn.net/images/cover/discovery/250x250.jpg"}}
], "total": 2}`

const daftPunkAlbums = `{"data": [
  {"id": 302127, "title": "Discovery", "cover_medium": "d.jpg", "record_type": "album"},
  {"id": 6575789, "title": "Random Access Memories", "cover_medium": "ram.jpg", "record_type": "album", "explicit_lyrics": false}
], "total": 2}`

const notFoundBody = `{"error": {"type": "DataException", "message": "no data", "code": 800}}`

const quotaBody = `{"error": {"type": "Exception", "message": "Quota limit exceeded", "code": 4}}`

const chartPlaylists = `{"data": [
  {"id": 3155776842, "title": "Top Worldwide", "picture": "p.jpg", "picture_medium": "pm.jpg", "nb_tracks": 100, "user": {"id": 637006841, "name": "Deezer Charts"}},
  {"id": 1313621735, "title": "Top USA", "picture": "usa.jpg"}
], "total": 2}`

const chartArtists = `{"data": [
  {"id": 27, "name": "Daft Punk", "picture_medium": "m.jpg", "radio": true, "position": 1},
  {"id": 412, "name": "Queen", "picture_medium": "q.jpg", "radio": true, "position": 2}
], "total": 2}`

func playlistHeader(base string) string {
	return fmt.Sprintf(`{"id": 908622995, "title": "Chill Hits", "public": true, "nb_tracks": 3, "link": "https://www.deezer.com/playlist/908622995",
  "picture": "p.jpg", "picture_small": "ps.jpg", "picture_medium": "pm.jpg", "picture_big": "pb.jpg", "picture_xl": "pxl.jpg",
  "checksum": "a8b1c2", "tracklist": "%s/playlist/908622995/tracks", "creation_date": "2014-08-22 10:14:36",
  "creator": {"id": 917475151, "name": "Deezer Chill Editor", "type": "user"}, "type": "playlist"}`, base)
}

func trackPage(base string, from, to int, next bool) string {
	body := `{"data": [`
	for id := from; id <= to; id++ {
		if id > from {
			body += ","
		}
		body += fmt.Sprintf(`{"id": %d, "title": "Track %d", "preview": "https://cdns-preview.dzcdn.net/%d.mp3", "artist": {"id": 1, "name": "Artist"}, "album": {"id": 2, "title": "Album", "cover_medium": "c.jpg"}}`, id, id, id)
	}
	body += `], "total": 5`
	if next {
		body += fmt.Sprintf(`, "next": "%s/playlist/908622995/tracks?index=%d"`, base, to)
	}
	return body + "}"
}

// catalogServer serves canned catalog responses. Routes take precedence over the defaults.
func catalogServer(t *testing.T, routes map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()
	var srv *httptest.Server
	write := func(body string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(body))
		}
	}
	mux := http.NewServeMux()
	defaults := map[string]http.HandlerFunc{
		"/search":                    write(bohemianSearch),
		"/chart/0/tracks":            write(bohemianSearch),
		"/chart/0/playlists":         write(chartPlaylists),
		"/chart/0/artists":           write(chartArtists),
		"/artist/27":                 write(daftPunkArtist),
		"/artist/27/top":             write(daftPunkTop),
		"/artist/27/albums":          write(daftPunkAlbums),
		"/track/568115892":           write(`{"id": 568115892, "title": "Bohemian Rhapsody", "artist": {"id": 412, "name": "Queen"}, "album": {"id": 75233462, "title": "Bohemian Rhapsody", "cover_medium": "c.jpg"}}`),
		"/track/1":                   write(notFoundBody),
		"/playlist/908622995":        func(w http.ResponseWriter, r *http.Request) { write(playlistHeader(srv.URL))(w, r) },
		"/playlist/908622995/tracks": func(w http.ResponseWriter, r *http.Request) { pagedTracks(srv.URL)(w, r) },
	}
	for path, handler := range routes {
		defaults[path] = handler
	}
	for path, handler := range defaults {
		mux.HandleFunc(path, handler)
	}
	srv = httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// pagedTracks serves three pages: 1-2, 3-4, 5
func pagedTracks(base string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		var body string
		switch r.URL.Query().Get("index") {
		case "":
			body = trackPage(base, 1, 2, true)
		case "2":
			body = trackPage(base, 3, 4, true)
		default:
			body = trackPage(base, 5, 5, false)
		}
		_, _ = w.Write([]byte(body))
	}
}

func newTestService(t *testing.T, base string, timeout time.Duration) *deezer.Service {
	t.Helper()
	svc, err := deezer.NewService(&deezer.Options{BaseURL: base, Timeout: timeout, Rate: 1000, Burst: 100}, nil)
	require.NoError(t, err)
	return svc
}

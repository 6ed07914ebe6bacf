package screens_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"sonora/blueprint"
	"sonora/playback"
	"sonora/screens"
	"sonora/services/deezer"

	"github.com/stretchr/testify/require"
)

func track(id int, title string) string {
	return fmt.Sprintf(`{"id": %d, "title": %q, "duration": 215, "readable": true, "preview": "https://cdns-preview.dzcdn.net/%d.mp3",
  "artist": {"id": 27, "name": "Daft Punk"}, "album": {"id": 302127, "title": "Discovery", "cover_medium": "https://e-cdns-images.dzcdn.net/images/cover/%d/250x250.jpg"}}`, id, title, id, id)
}

func trackList(from, to int, next string) string {
	items := make([]string, 0, to-from+1)
	for id := from; id <= to; id++ {
		items = append(items, track(id, fmt.Sprintf("Track %d", id)))
	}
	body := fmt.Sprintf(`{"data": [%s], "total": 5`, strings.Join(items, ","))
	if next != "" {
		body += fmt.Sprintf(`, "next": %q`, next)
	}
	return body + "}"
}

func respond(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}
}

func fail(status int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	}
}

// catalog is an httptest stand-in for the deezer api. Handlers can be swapped per test.
type catalog struct {
	*httptest.Server
	mu     sync.Mutex
	routes map[string]http.HandlerFunc
}

func newCatalog(t *testing.T) *catalog {
	t.Helper()
	c := &catalog{}
	c.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.mu.Lock()
		handler, ok := c.routes[r.URL.Path]
		c.mu.Unlock()
		if !ok {
			respond(`{"error": {"type": "DataException", "message": "no data", "code": 800}}`)(w, r)
			return
		}
		handler(w, r)
	}))
	base := c.URL
	c.routes = map[string]http.HandlerFunc{
		"/chart/0/tracks":    respond(trackList(1, 3, "")),
		"/chart/0/playlists": respond(`{"data": [{"id": 908622995, "title": "Chill Hits", "picture_medium": "pm.jpg"}], "total": 1}`),
		"/chart/0/artists":   respond(`{"data": [{"id": 27, "name": "Daft Punk"}, {"id": 412, "name": "Queen"}], "total": 2}`),
		"/search":            respond(trackList(1, 2, "")),
		"/track/3135556":     respond(track(3135556, "Harder, Better, Faster, Stronger")),
		"/artist/27":         respond(`{"id": 27, "name": "Daft Punk", "picture_medium": "m.jpg", "radio": true}`),
		"/artist/27/top":     respond(trackList(1, 2, "")),
		"/artist/27/albums":  respond(`{"data": [{"id": 302127, "title": "Discovery"}], "total": 1}`),
		"/playlist/908622995": respond(fmt.Sprintf(`{"id": 908622995, "title": "Chill Hits", "creation_date": "2014-08-22 10:14:36",
  "tracklist": "%s/playlist/908622995/tracks", "creator": {"id": 1, "name": "Editor"}}`, base)),
		"/playlist/908622995/tracks": func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Query().Get("index") {
			case "":
				respond(trackList(1, 2, base+"/playlist/908622995/tracks?index=2"))(w, r)
			case "2":
				respond(trackList(3, 4, base+"/playlist/908622995/tracks?index=4"))(w, r)
			default:
				respond(trackList(5, 5, ""))(w, r)
			}
		},
	}
	t.Cleanup(c.Close)
	return c
}

func (c *catalog) handle(path string, handler http.HandlerFunc) {
	c.mu.Lock()
	c.routes[path] = handler
	c.mu.Unlock()
}

// events records everything published by the screens
type events struct {
	mu  sync.Mutex
	all []blueprint.ScreenEvent
}

func (e *events) Publish(event blueprint.ScreenEvent) {
	e.mu.Lock()
	e.all = append(e.all, event)
	e.mu.Unlock()
}

func (e *events) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.all)
}

func (e *events) Last() blueprint.ScreenEvent {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.all[len(e.all)-1]
}

type fakeEngine struct {
	mu     sync.Mutex
	sounds []*fakeSound
}

type fakeSound struct {
	mu       sync.Mutex
	onStatus func(playback.Status)
	unloads  int
}

func (e *fakeEngine) Load(_ context.Context, _ string, onStatus func(playback.Status)) (playback.Sound, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	sound := &fakeSound{onStatus: onStatus}
	e.sounds = append(e.sounds, sound)
	return sound, nil
}

func (e *fakeEngine) last() *fakeSound {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sounds[len(e.sounds)-1]
}

func (s *fakeSound) Play() error  { return nil }
func (s *fakeSound) Pause() error { return nil }
func (s *fakeSound) Stop() error  { return nil }

func (s *fakeSound) Unload() error {
	s.mu.Lock()
	s.unloads++
	s.mu.Unlock()
	return nil
}

func (s *fakeSound) unloaded() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unloads
}

type harness struct {
	catalog *catalog
	engine  *fakeEngine
	events  *events
	deps    *screens.Deps
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	c := newCatalog(t)
	svc, err := deezer.NewService(&deezer.Options{BaseURL: c.URL, Timeout: 2 * time.Second, Rate: 1000, Burst: 100}, nil)
	require.NoError(t, err)
	h := &harness{catalog: c, engine: &fakeEngine{}, events: &events{}}
	h.deps = &screens.Deps{
		Catalog:  svc,
		Engine:   h.engine,
		Notifier: h.events,
		Profile:  blueprint.ProfileUser{Username: "listener", Email: "listener@example.com"},
	}
	return h
}

func settle(t *testing.T, screen screens.Screen) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, screen.Settle(ctx))
}

package screens

import (
	"context"
	"fmt"
	"sync"
	"time"

	"sonora/blueprint"
	"sonora/playback"
	"sonora/services/deezer"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Catalog is the part of the catalog client the screens read from
type Catalog interface {
	ChartTracks(ctx context.Context) ([]deezer.Track, error)
	ChartPlaylists(ctx context.Context) ([]deezer.Playlist, error)
	ChartArtists(ctx context.Context) ([]deezer.Artist, error)
	Search(ctx context.Context, query string) ([]deezer.Track, error)
	FetchTrack(ctx context.Context, id int) (*deezer.Track, error)
	FetchArtistDetail(ctx context.Context, id int) (*deezer.ArtistDetail, error)
	FetchPlaylist(ctx context.Context, id int) (*deezer.Playlist, error)
	PlaylistTracklist(id int) string
	FetchTrackPage(ctx context.Context, ref string) (*deezer.TrackList, error)
}

// Notifier receives every screen event
type Notifier interface {
	Publish(event blueprint.ScreenEvent)
}

// NotifierFunc adapts a function to a Notifier
type NotifierFunc func(event blueprint.ScreenEvent)

func (f NotifierFunc) Publish(event blueprint.ScreenEvent) {
	f(event)
}

// Deps are the collaborators shared by every screen
type Deps struct {
	Catalog  Catalog
	Engine   playback.Engine
	Notifier Notifier
	Logger   *zap.Logger
	// Profile is the user shown on the profile screen
	Profile blueprint.ProfileUser
}

// Screen is a mounted screen controller
type Screen interface {
	ID() string
	Name() string
	// Mount starts the initial fetches. Calling it again does nothing.
	Mount()
	// Unmount cancels in-flight fetches and releases playback. Later results are dropped.
	Unmount()
	// Settle blocks until no fetch is in flight or ctx is done
	Settle(ctx context.Context) error
	Snapshot() interface{}
	LastActive() time.Time
	Touch()
}

// Player is implemented by screens that can play previews of the tracks they show
type Player interface {
	TogglePlay(ctx context.Context, trackID int) (blueprint.PlaybackState, error)
	StopPlayback() blueprint.PlaybackState
	PlaybackState() blueprint.PlaybackState
}

// base carries the lifecycle every screen shares
type base struct {
	id       string
	name     string
	ctx      context.Context
	cancel   context.CancelFunc
	notifier Notifier
	logger   *zap.Logger
	player   *playback.Coordinator

	mu         sync.Mutex
	mounted    bool
	unmounted  bool
	inflight   int
	idle       chan struct{}
	lastActive time.Time
}

func newBase(name string, deps *Deps) *base {
	ctx, cancel := context.WithCancel(context.Background())
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	b := &base{
		id:         uuid.NewString(),
		name:       name,
		ctx:        ctx,
		cancel:     cancel,
		notifier:   deps.Notifier,
		lastActive: time.Now(),
	}
	b.logger = logger.With(zap.String("screen_id", b.id), zap.String("screen", name))
	return b
}

// withPlayer gives the screen a playback coordinator on the shared engine
func (b *base) withPlayer(engine playback.Engine) {
	b.player = playback.NewCoordinator(engine, b.logger, func(state blueprint.PlaybackState) {
		b.publish(blueprint.ScreenEvent{Event: blueprint.PlaybackChangedEvent, Playback: &state})
	})
}

func (b *base) ID() string {
	return b.id
}

func (b *base) Name() string {
	return b.name
}

func (b *base) Touch() {
	b.mu.Lock()
	b.lastActive = time.Now()
	b.mu.Unlock()
}

func (b *base) LastActive() time.Time {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastActive
}

func (b *base) alive() bool {
	return b.ctx.Err() == nil
}

// mountOnce runs load the first time the screen is mounted
func (b *base) mountOnce(load func()) {
	b.mu.Lock()
	if b.mounted || b.unmounted {
		b.mu.Unlock()
		return
	}
	b.mounted = true
	b.mu.Unlock()
	load()
}

func (b *base) Unmount() {
	b.mu.Lock()
	if b.unmounted {
		b.mu.Unlock()
		return
	}
	b.unmounted = true
	b.mu.Unlock()

	b.cancel()
	if b.player != nil {
		b.player.Release()
	}
	b.logger.Info("[screens][base][Unmount] - screen unmounted")
	if b.notifier != nil {
		b.notifier.Publish(blueprint.ScreenEvent{Event: blueprint.ScreenUnmountedEvent, ScreenID: b.id, Screen: b.name})
	}
}

// spawn runs fn in its own goroutine and tracks it for Settle
func (b *base) spawn(fn func(ctx context.Context)) {
	b.mu.Lock()
	if b.unmounted {
		b.mu.Unlock()
		return
	}
	b.inflight++
	if b.idle == nil {
		b.idle = make(chan struct{})
	}
	b.mu.Unlock()

	go func() {
		defer b.done()
		fn(b.ctx)
	}()
}

func (b *base) done() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.inflight--
	if b.inflight == 0 && b.idle != nil {
		close(b.idle)
		b.idle = nil
	}
}

func (b *base) Settle(ctx context.Context) error {
	for {
		b.mu.Lock()
		idle := b.idle
		b.mu.Unlock()
		if idle == nil {
			return nil
		}
		select {
		case <-idle:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (b *base) sectionChanged(section string, status blueprint.SectionStatus, msg string) {
	b.publish(blueprint.ScreenEvent{
		Event:   blueprint.SectionChangedEvent,
		Section: section,
		Status:  status,
		Error:   msg,
	})
}

func (b *base) publish(event blueprint.ScreenEvent) {
	if b.notifier == nil || !b.alive() {
		return
	}
	event.ScreenID = b.id
	event.Screen = b.name
	b.notifier.Publish(event)
}

// togglePlay toggles the preview of a song found on the screen. Loading runs on the screen
// context so an unmount cancels it.
func (b *base) togglePlay(song *blueprint.Song, trackID int) (blueprint.PlaybackState, error) {
	b.Touch()
	if b.player == nil {
		return blueprint.PlaybackState{Status: blueprint.PlaybackEmpty}, fmt.Errorf("screen %s has no player: %w", b.name, blueprint.EWRONGSCREEN)
	}
	if song == nil {
		return b.player.State(), fmt.Errorf("track %d is not on this screen: %w", trackID, blueprint.ENOTFOUND)
	}
	return b.player.Toggle(b.ctx, *song)
}

func (b *base) StopPlayback() blueprint.PlaybackState {
	b.Touch()
	if b.player == nil {
		return blueprint.PlaybackState{Status: blueprint.PlaybackEmpty}
	}
	return b.player.Stop()
}

func (b *base) PlaybackState() blueprint.PlaybackState {
	if b.player == nil {
		return blueprint.PlaybackState{Status: blueprint.PlaybackEmpty}
	}
	return b.player.State()
}

// findSong returns a pointer to a copy of the song with the given id
func findSong(songs []blueprint.Song, id int) *blueprint.Song {
	for i := range songs {
		if songs[i].ID == id {
			song := songs[i]
			return &song
		}
	}
	return nil
}

package playback

import "context"

// Status is reported by a loaded sound whenever its playback changes on its own
type Status struct {
	IsPlaying     bool
	DidJustFinish bool
	Err           error
}

// Sound is one loaded preview. Unload frees it and must be safe to call more than once.
type Sound interface {
	Play() error
	Pause() error
	Stop() error
	Unload() error
}

// Engine loads previews. onStatus may be called from any goroutine until the sound is unloaded.
type Engine interface {
	Load(ctx context.Context, uri string, onStatus func(Status)) (Sound, error)
}

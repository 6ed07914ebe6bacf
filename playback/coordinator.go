package playback

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"sonora/blueprint"
	"sonora/util"

	"go.uber.org/zap"
)

// ErrReleased is returned by a coordinator whose screen has gone away
var ErrReleased = errors.New("playback released")

// ErrSuperseded is returned by a Toggle whose load was overtaken by a later Toggle or Stop
var ErrSuperseded = errors.New("playback superseded")

// Coordinator owns at most one loaded sound for a screen. The engine is never called with mu
// held, so a sound may report its status from inside Play or Pause.
//
// empty -> loaded -> playing <-> paused -> empty
type Coordinator struct {
	mu     sync.Mutex
	engine Engine
	logger *zap.Logger
	sound  Sound
	state  blueprint.PlaybackState
	// pending is the session of the load in flight, if any
	pending  string
	released bool
	onChange func(blueprint.PlaybackState)
}

// NewCoordinator creates a coordinator. onChange receives every state transition and may be nil.
func NewCoordinator(engine Engine, logger *zap.Logger, onChange func(blueprint.PlaybackState)) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{
		engine:   engine,
		logger:   logger,
		state:    blueprint.PlaybackState{Status: blueprint.PlaybackEmpty},
		onChange: onChange,
	}
}

// State returns the current playback state
func (c *Coordinator) State() blueprint.PlaybackState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Toggle is what the play control of a track does: pause the active track, resume it, or switch
// to it. Switching always unloads the previous sound before the next one is loaded.
func (c *Coordinator) Toggle(ctx context.Context, song blueprint.Song) (blueprint.PlaybackState, error) {
	if !song.Playable() {
		return c.State(), ENotPlayable(song.ID)
	}

	c.mu.Lock()
	if c.released {
		c.mu.Unlock()
		return blueprint.PlaybackState{Status: blueprint.PlaybackEmpty}, ErrReleased
	}
	if c.sound != nil && c.state.TrackID == song.ID {
		sound, status := c.sound, c.state.Status
		c.mu.Unlock()
		return c.toggleActive(sound, status, song.ID)
	}

	// a different track, or nothing loaded
	previous := c.detachLocked()
	session := util.GenerateShortID()
	c.pending = session
	c.mu.Unlock()
	c.unload(previous)

	sound, err := c.engine.Load(ctx, song.PreviewURL(), func(status Status) {
		c.onStatus(session, status)
	})
	if err != nil {
		c.mu.Lock()
		current, released := c.pending == session, c.released
		if current {
			c.pending = ""
		}
		state := c.state
		c.mu.Unlock()
		if released {
			return blueprint.PlaybackState{Status: blueprint.PlaybackEmpty}, ErrReleased
		}
		c.logger.Error("[playback][Coordinator][Toggle] error - could not load the preview", zap.Int("track", song.ID), zap.Error(err))
		if current {
			c.emit(state)
		}
		return state, err
	}

	c.mu.Lock()
	if c.released || c.pending != session {
		released, state := c.released, c.state
		c.mu.Unlock()
		c.unload(sound)
		if released {
			return blueprint.PlaybackState{Status: blueprint.PlaybackEmpty}, ErrReleased
		}
		return state, ErrSuperseded
	}
	c.pending = ""
	c.sound = sound
	c.state = blueprint.PlaybackState{Status: blueprint.PlaybackLoaded, TrackID: song.ID, Session: session}
	c.mu.Unlock()

	if err := sound.Play(); err != nil {
		c.mu.Lock()
		if c.sound == sound {
			c.detachLocked()
		}
		state := c.state
		c.mu.Unlock()
		c.unload(sound)
		c.logger.Error("[playback][Coordinator][Toggle] error - could not start the preview", zap.Int("track", song.ID), zap.Error(err))
		c.emit(state)
		return state, err
	}

	c.mu.Lock()
	if c.sound != sound {
		// released, stopped or finished while starting
		released, state := c.released, c.state
		c.mu.Unlock()
		if released {
			return blueprint.PlaybackState{Status: blueprint.PlaybackEmpty}, ErrReleased
		}
		return state, nil
	}
	changed := c.state.Status != blueprint.PlaybackPlaying
	c.state.Status = blueprint.PlaybackPlaying
	state := c.state
	c.mu.Unlock()
	if changed {
		c.emit(state)
	}
	return state, nil
}

// toggleActive pauses or resumes the sound already loaded for the track
func (c *Coordinator) toggleActive(sound Sound, status blueprint.PlaybackStatus, trackID int) (blueprint.PlaybackState, error) {
	var err error
	next := status
	switch status {
	case blueprint.PlaybackPlaying:
		err = sound.Pause()
		next = blueprint.PlaybackPaused
	case blueprint.PlaybackPaused, blueprint.PlaybackLoaded:
		err = sound.Play()
		next = blueprint.PlaybackPlaying
	}

	c.mu.Lock()
	if err != nil || c.sound != sound {
		state := c.state
		c.mu.Unlock()
		if err != nil {
			c.logger.Error("[playback][Coordinator][Toggle] error - could not toggle the active sound", zap.Int("track", trackID), zap.Error(err))
		}
		return state, err
	}
	changed := c.state.Status != next
	c.state.Status = next
	state := c.state
	c.mu.Unlock()
	if changed {
		c.emit(state)
	}
	return state, nil
}

// Stop stops and unloads the current sound, if any. A load in flight is abandoned.
func (c *Coordinator) Stop() blueprint.PlaybackState {
	c.mu.Lock()
	c.pending = ""
	if c.sound == nil {
		state := c.state
		c.mu.Unlock()
		return state
	}
	sound := c.detachLocked()
	state := c.state
	c.mu.Unlock()

	if err := sound.Stop(); err != nil {
		c.logger.Warn("[playback][Coordinator][Stop] warning - could not stop the sound", zap.Error(err))
	}
	c.unload(sound)
	c.emit(state)
	return state
}

// Release unloads the sound for good. Calls after the first are no-ops, and no status callback
// reaches the coordinator afterwards.
func (c *Coordinator) Release() {
	c.mu.Lock()
	if c.released {
		c.mu.Unlock()
		return
	}
	c.released = true
	c.pending = ""
	c.onChange = nil
	sound := c.detachLocked()
	c.mu.Unlock()
	c.unload(sound)
}

func (c *Coordinator) onStatus(session string, status Status) {
	c.mu.Lock()
	if c.released || c.sound == nil || c.state.Session != session {
		c.mu.Unlock()
		return
	}

	var finished Sound
	switch {
	case status.Err != nil:
		c.logger.Error("[playback][Coordinator][onStatus] error - sound failed while playing", zap.Int("track", c.state.TrackID), zap.Error(status.Err))
		finished = c.detachLocked()
	case status.DidJustFinish:
		finished = c.detachLocked()
	case status.IsPlaying && c.state.Status != blueprint.PlaybackPlaying:
		c.state.Status = blueprint.PlaybackPlaying
	case !status.IsPlaying && c.state.Status == blueprint.PlaybackPlaying:
		c.state.Status = blueprint.PlaybackPaused
	default:
		c.mu.Unlock()
		return
	}
	state := c.state
	c.mu.Unlock()
	c.unload(finished)
	c.emit(state)
}

// detachLocked must be called with mu held. The returned sound is unloaded by the caller once
// mu is released.
func (c *Coordinator) detachLocked() Sound {
	sound := c.sound
	c.sound = nil
	c.state = blueprint.PlaybackState{Status: blueprint.PlaybackEmpty}
	return sound
}

func (c *Coordinator) unload(sound Sound) {
	if sound == nil {
		return
	}
	if err := sound.Unload(); err != nil {
		c.logger.Warn("[playback][Coordinator][unload] warning - could not unload the sound", zap.Error(err))
	}
}

func (c *Coordinator) emit(state blueprint.PlaybackState) {
	c.mu.Lock()
	onChange := c.onChange
	c.mu.Unlock()
	if onChange != nil {
		onChange(state)
	}
}

// ENotPlayable wraps ENOTPLAYABLE with the offending track
func ENotPlayable(trackID int) error {
	return fmt.Errorf("track %d has no playable preview: %w", trackID, blueprint.ENOTPLAYABLE)
}

package playback

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/hajimehoshi/go-mp3"
	"github.com/vicanso/go-axios"
	"go.uber.org/zap"
)

const (
	defaultPreviewTimeout = 15 * time.Second
	// go-mp3 always decodes to 16 bit stereo
	bytesPerFrame = 4
	tick          = 100 * time.Millisecond
)

// MP3Engine plays previews without an audio device: it downloads the preview, decodes it and
// consumes the PCM at the pace it would be heard, reporting completion when the stream runs out.
type MP3Engine struct {
	client *axios.Instance
	logger *zap.Logger
	// Speed scales the pace at which PCM is consumed. 1 is real time.
	Speed float64
}

// NewMP3Engine creates a headless engine. A nil client uses the default http client.
func NewMP3Engine(client *http.Client, logger *zap.Logger) *MP3Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MP3Engine{
		client: axios.NewInstance(&axios.InstanceConfig{
			Timeout: defaultPreviewTimeout,
			Client:  client,
		}),
		logger: logger,
		Speed:  1,
	}
}

// Load downloads and decodes the preview header. Playback only starts on Play.
func (e *MP3Engine) Load(ctx context.Context, uri string, onStatus func(Status)) (Sound, error) {
	resp, err := e.client.GetX(ctx, uri)
	if err != nil {
		e.logger.Error("[playback][MP3Engine][Load] error - could not download the preview", zap.String("uri", uri), zap.Error(err))
		return nil, fmt.Errorf("preview fetch failed: %w", err)
	}
	if resp.Status != http.StatusOK {
		e.logger.Error("[playback][MP3Engine][Load] error - preview download returned an error status", zap.Int("status", resp.Status))
		return nil, fmt.Errorf("preview fetch status %d", resp.Status)
	}

	decoder, err := mp3.NewDecoder(bytes.NewReader(resp.Data))
	if err != nil {
		e.logger.Error("[playback][MP3Engine][Load] error - could not decode the preview", zap.String("uri", uri), zap.Error(err))
		return nil, fmt.Errorf("preview decode failed: %w", err)
	}

	speed := e.Speed
	if speed <= 0 {
		speed = 1
	}
	chunk := int(float64(decoder.SampleRate()*bytesPerFrame) * tick.Seconds() * speed)
	// keep whole frames
	chunk -= chunk % bytesPerFrame
	if chunk < bytesPerFrame {
		chunk = bytesPerFrame
	}

	if onStatus == nil {
		onStatus = func(Status) {}
	}
	return &mp3Sound{
		decoder:  decoder,
		onStatus: onStatus,
		chunk:    chunk,
		done:     make(chan struct{}),
	}, nil
}

type mp3Sound struct {
	mu       sync.Mutex
	decoder  *mp3.Decoder
	onStatus func(Status)
	chunk    int
	playing  bool
	started  bool
	unloaded bool
	done     chan struct{}
}

func (s *mp3Sound) Play() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.unloaded {
		return errors.New("sound is unloaded")
	}
	s.playing = true
	if !s.started {
		s.started = true
		go s.run()
	}
	return nil
}

func (s *mp3Sound) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.unloaded {
		return errors.New("sound is unloaded")
	}
	s.playing = false
	return nil
}

// Stop pauses and rewinds to the start
func (s *mp3Sound) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.unloaded {
		return nil
	}
	s.playing = false
	_, err := s.decoder.Seek(0, io.SeekStart)
	return err
}

func (s *mp3Sound) Unload() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.unloaded {
		return nil
	}
	s.unloaded = true
	s.playing = false
	close(s.done)
	return nil
}

func (s *mp3Sound) run() {
	ticker := time.NewTicker(tick)
	defer ticker.Stop()
	buf := make([]byte, s.chunk)

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
		}

		s.mu.Lock()
		if !s.playing || s.unloaded {
			s.mu.Unlock()
			continue
		}
		_, err := io.ReadFull(s.decoder, buf)
		if err != nil {
			s.playing = false
			s.started = false
			s.mu.Unlock()
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				s.onStatus(Status{DidJustFinish: true})
			} else {
				s.onStatus(Status{Err: err})
			}
			return
		}
		s.mu.Unlock()
	}
}

package deezer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"sonora/blueprint"

	"github.com/vicanso/go-axios"
	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/time/rate"
)

const (
	DefaultTimeout   = 5 * time.Second
	artistTopLimit   = 10
	defaultRate      = 10
	defaultBurst     = 10
	SectionArtist    = "artist"
	SectionTopTracks = "top_tracks"
	SectionAlbums    = "albums"
)

// Options configures the catalog client
type Options struct {
	BaseURL string
	Timeout time.Duration
	// Rate is the number of requests per second allowed towards the catalog, Burst the bucket size
	Rate   float64
	Burst  int
	Client *http.Client
}

// Service is the read-only client for the deezer catalog
type Service struct {
	BaseURL string
	Logger  *zap.Logger
	// client resolves paths against BaseURL, pager follows absolute continuation references
	client  *axios.Instance
	pager   *axios.Instance
	limiter *rate.Limiter
	baseURL *url.URL
}

// PartialError is returned by FetchArtistDetail when some of its lookups failed. The parts that
// succeeded are still returned alongside it.
type PartialError struct {
	Failed map[string]error
}

func (e *PartialError) Error() string {
	parts := make([]string, 0, len(e.Failed))
	for _, section := range []string{SectionArtist, SectionTopTracks, SectionAlbums} {
		if err, ok := e.Failed[section]; ok {
			parts = append(parts, fmt.Sprintf("%s: %v", section, err))
		}
	}
	return "partial artist detail: " + strings.Join(parts, "; ")
}

func (e *PartialError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failed))
	for _, err := range e.Failed {
		errs = append(errs, err)
	}
	return errs
}

// Section returns the error of a single part, if it failed
func (e *PartialError) Section(name string) error {
	return e.Failed[name]
}

// NewService creates a new deezer catalog client
func NewService(opts *Options, logger *zap.Logger) (*Service, error) {
	if opts == nil {
		opts = &Options{}
	}
	if opts.BaseURL == "" {
		opts.BaseURL = blueprint.DeezerAPIBase
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Rate <= 0 {
		opts.Rate = defaultRate
	}
	if opts.Burst <= 0 {
		opts.Burst = defaultBurst
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil || base.Host == "" {
		return nil, fmt.Errorf("invalid catalog base url %q", opts.BaseURL)
	}

	headers := http.Header{}
	headers.Set("Accept", "application/json")

	return &Service{
		BaseURL: base.String(),
		Logger:  logger,
		client: axios.NewInstance(&axios.InstanceConfig{
			BaseURL: base.String(),
			Timeout: opts.Timeout,
			Headers: headers,
			Client:  opts.Client,
		}),
		pager: axios.NewInstance(&axios.InstanceConfig{
			Timeout: opts.Timeout,
			Headers: headers,
			Client:  opts.Client,
		}),
		limiter: rate.NewLimiter(rate.Limit(opts.Rate), opts.Burst),
		baseURL: base,
	}, nil
}

// ChartTracks fetches the chart tracks
func (s *Service) ChartTracks(ctx context.Context) ([]Track, error) {
	out := &ListResponse[Track]{}
	if err := s.getJSON(ctx, "chart/tracks", s.client, "/chart/0/tracks", nil, out); err != nil {
		return nil, err
	}
	return s.validList("chart/tracks", out)
}

// ChartPlaylists fetches the chart playlists
func (s *Service) ChartPlaylists(ctx context.Context) ([]Playlist, error) {
	out := &ListResponse[Playlist]{}
	if err := s.getJSON(ctx, "chart/playlists", s.client, "/chart/0/playlists", nil, out); err != nil {
		return nil, err
	}
	items, err := validateList(out)
	if err != nil {
		return nil, s.mappingError("chart/playlists", err)
	}
	return items, nil
}

// ChartArtists fetches the chart artists
func (s *Service) ChartArtists(ctx context.Context) ([]Artist, error) {
	out := &ListResponse[Artist]{}
	if err := s.getJSON(ctx, "chart/artists", s.client, "/chart/0/artists", nil, out); err != nil {
		return nil, err
	}
	items, err := validateList(out)
	if err != nil {
		return nil, s.mappingError("chart/artists", err)
	}
	return items, nil
}

// Search searches the catalog for tracks. An empty query is sent as is; it is up to the caller
// to skip it.
func (s *Service) Search(ctx context.Context, query string) ([]Track, error) {
	q := norm.NFC.String(query)
	out := &ListResponse[Track]{}
	if err := s.getJSON(ctx, "search", s.client, "/search", url.Values{"q": {q}}, out); err != nil {
		return nil, err
	}
	return s.validList("search", out)
}

// FetchTrack fetches a single track. A track the catalog does not know is ENOTFOUND.
func (s *Service) FetchTrack(ctx context.Context, id int) (*Track, error) {
	track := &Track{}
	if err := s.getJSON(ctx, "track", s.client, fmt.Sprintf("/track/%d", id), nil, track); err != nil {
		return nil, err
	}
	if err := track.validate(); err != nil {
		return nil, s.mappingError("track", err)
	}
	return track, nil
}

// FetchArtist fetches the artist header
func (s *Service) FetchArtist(ctx context.Context, id int) (*Artist, error) {
	artist := &Artist{}
	if err := s.getJSON(ctx, "artist", s.client, fmt.Sprintf("/artist/%d", id), nil, artist); err != nil {
		return nil, err
	}
	if err := artist.validate(); err != nil {
		return nil, s.mappingError("artist", err)
	}
	return artist, nil
}

// FetchArtistTopTracks fetches the most popular tracks of an artist
func (s *Service) FetchArtistTopTracks(ctx context.Context, id, limit int) ([]Track, error) {
	out := &ListResponse[Track]{}
	query := url.Values{"limit": {fmt.Sprint(limit)}}
	if err := s.getJSON(ctx, "artist/top", s.client, fmt.Sprintf("/artist/%d/top", id), query, out); err != nil {
		return nil, err
	}
	return s.validList("artist/top", out)
}

// FetchArtistAlbums fetches the albums of an artist
func (s *Service) FetchArtistAlbums(ctx context.Context, id int) ([]Album, error) {
	out := &ListResponse[Album]{}
	if err := s.getJSON(ctx, "artist/albums", s.client, fmt.Sprintf("/artist/%d/albums", id), nil, out); err != nil {
		return nil, err
	}
	items, err := validateList(out)
	if err != nil {
		return nil, s.mappingError("artist/albums", err)
	}
	return items, nil
}

// FetchArtistDetail runs the artist, top tracks and albums lookups in parallel. When only some of
// them fail, the successful parts are returned together with a *PartialError.
func (s *Service) FetchArtistDetail(ctx context.Context, id int) (*ArtistDetail, error) {
	detail := &ArtistDetail{}
	var mu sync.Mutex
	failed := map[string]error{}
	fail := func(section string, err error) {
		mu.Lock()
		failed[section] = err
		mu.Unlock()
	}

	wg := sync.WaitGroup{}
	wg.Add(3)
	go func() {
		defer wg.Done()
		artist, err := s.FetchArtist(ctx, id)
		if err != nil {
			fail(SectionArtist, err)
			return
		}
		detail.Artist = artist
	}()
	go func() {
		defer wg.Done()
		tracks, err := s.FetchArtistTopTracks(ctx, id, artistTopLimit)
		if err != nil {
			fail(SectionTopTracks, err)
			return
		}
		detail.TopTracks = tracks
	}()
	go func() {
		defer wg.Done()
		albums, err := s.FetchArtistAlbums(ctx, id)
		if err != nil {
			fail(SectionAlbums, err)
			return
		}
		detail.Albums = albums
	}()
	wg.Wait()

	if len(failed) > 0 {
		s.Logger.Warn("[services][deezer][FetchArtistDetail] warning - some artist lookups failed",
			zap.Int("artist", id), zap.Int("failed", len(failed)))
		return detail, &PartialError{Failed: failed}
	}
	return detail, nil
}

// FetchPlaylist fetches the header of a playlist
func (s *Service) FetchPlaylist(ctx context.Context, id int) (*Playlist, error) {
	playlist := &Playlist{}
	if err := s.getJSON(ctx, "playlist", s.client, fmt.Sprintf("/playlist/%d", id), nil, playlist); err != nil {
		return nil, err
	}
	if err := playlist.validate(); err != nil {
		return nil, s.mappingError("playlist", err)
	}
	return playlist, nil
}

// PlaylistTracklist returns the first page reference of a playlist's tracks
func (s *Service) PlaylistTracklist(id int) string {
	return fmt.Sprintf("%s/playlist/%d/tracks", s.BaseURL, id)
}

// FetchTrackPage follows a tracklist or continuation reference. References must point at the
// catalog host.
func (s *Service) FetchTrackPage(ctx context.Context, ref string) (*TrackList, error) {
	if err := s.checkReference(ref); err != nil {
		s.Logger.Warn("[services][deezer][FetchTrackPage] warning - refusing continuation reference", zap.String("ref", ref), zap.Error(err))
		return nil, &blueprint.CatalogError{Kind: blueprint.EUPSTREAM, Op: "tracklist", Err: err}
	}
	out := &ListResponse[Track]{}
	if err := s.getJSON(ctx, "tracklist", s.pager, ref, nil, out); err != nil {
		return nil, err
	}
	tracks, err := s.validList("tracklist", out)
	if err != nil {
		return nil, err
	}
	return &TrackList{Data: tracks, Total: out.Total, Next: out.Next}, nil
}

func (s *Service) checkReference(ref string) error {
	if ref == "" {
		return errors.New("empty reference")
	}
	parsed, err := url.Parse(ref)
	if err != nil {
		return err
	}
	if parsed.Scheme != s.baseURL.Scheme || parsed.Host != s.baseURL.Host {
		return fmt.Errorf("reference host %q is not the catalog host", parsed.Host)
	}
	return nil
}

func (s *Service) validList(op string, out *ListResponse[Track]) ([]Track, error) {
	items, err := validateList(out)
	if err != nil {
		return nil, s.mappingError(op, err)
	}
	return items, nil
}

func (s *Service) mappingError(op string, err error) error {
	s.Logger.Error(fmt.Sprintf("[services][deezer][%s] error - payload failed validation", op), zap.Error(err))
	return &blueprint.CatalogError{Kind: blueprint.EMAPPING, Op: op, Err: err}
}

// getJSON issues one GET request and decodes the body into out. There are no retries.
func (s *Service) getJSON(ctx context.Context, op string, inst *axios.Instance, path string, query url.Values, out interface{}) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return &blueprint.CatalogError{Kind: blueprint.ENETWORK, Op: op, Err: err}
	}

	var queries []url.Values
	if query != nil {
		queries = append(queries, query)
	}
	resp, err := inst.GetX(ctx, path, queries...)
	if err != nil {
		if resp != nil && resp.Status >= http.StatusBadRequest {
			s.Logger.Error(fmt.Sprintf("[services][deezer][%s] error - catalog returned an error status", op), zap.Int("status", resp.Status))
			return &blueprint.CatalogError{Kind: blueprint.EUPSTREAM, Op: op, Status: resp.Status, Err: err}
		}
		s.Logger.Error(fmt.Sprintf("[services][deezer][%s] error - could not reach the catalog", op), zap.Error(err))
		return &blueprint.CatalogError{Kind: blueprint.ENETWORK, Op: op, Err: err}
	}

	if resp.Status < http.StatusOK || resp.Status >= http.StatusMultipleChoices {
		s.Logger.Error(fmt.Sprintf("[services][deezer][%s] error - catalog returned an error status", op), zap.Int("status", resp.Status))
		return &blueprint.CatalogError{Kind: blueprint.EUPSTREAM, Op: op, Status: resp.Status}
	}

	// HACK: deezer answers some failures with a 200 and an error object in the body
	envelope := errorEnvelope{}
	if json.Unmarshal(resp.Data, &envelope) == nil && envelope.Error != nil {
		if envelope.Error.Code == dataNotFoundCode {
			s.Logger.Warn(fmt.Sprintf("[services][deezer][%s] warning - entity not found", op), zap.String("path", path))
			return &blueprint.CatalogError{Kind: blueprint.ENOTFOUND, Op: op, Status: resp.Status, Err: errors.New(envelope.Error.Message)}
		}
		s.Logger.Error(fmt.Sprintf("[services][deezer][%s] error - catalog returned an error body", op),
			zap.String("type", envelope.Error.Type), zap.Int("code", envelope.Error.Code))
		return &blueprint.CatalogError{Kind: blueprint.EUPSTREAM, Op: op, Status: resp.Status,
			Err: fmt.Errorf("%s (%d): %s", envelope.Error.Type, envelope.Error.Code, envelope.Error.Message)}
	}

	if err := json.Unmarshal(resp.Data, out); err != nil {
		s.Logger.Error(fmt.Sprintf("[services][deezer][%s] error - could not deserialize the body into the out response", op), zap.Error(err))
		return &blueprint.CatalogError{Kind: blueprint.EMAPPING, Op: op, Err: err}
	}
	return nil
}

package deezer_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"sonora/blueprint"
	"sonora/services/deezer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearch(t *testing.T) {
	var gotQuery string
	srv := catalogServer(t, map[string]http.HandlerFunc{
		"/search": func(w http.ResponseWriter, r *http.Request) {
			gotQuery = r.URL.Query().Get("q")
			_, _ = w.Write([]byte(bohemianSearch))
		},
	})
	svc := newTestService(t, srv.URL, time.Second)

	tracks, err := svc.Search(context.Background(), "bohemian")
	require.NoError(t, err)
	assert.Equal(t, "bohemian", gotQuery)
	require.Len(t, tracks, 2)
	for _, track := range tracks {
		assert.NotEmpty(t, track.Title)
		assert.NotEmpty(t, track.Artist.Name)
	}
	assert.Equal(t, "Queen", tracks[0].Artist.Name)
}

func TestSearchNormalizesQuery(t *testing.T) {
	var gotQuery string
	srv := catalogServer(t, map[string]http.HandlerFunc{
		"/search": func(w http.ResponseWriter, r *http.Request) {
			gotQuery = r.URL.Query().Get("q")
			_, _ = w.Write([]byte(`{"data": [], "total": 0}`))
		},
	})
	svc := newTestService(t, srv.URL, time.Second)

	// "e" followed by a combining acute accent
	tracks, err := svc.Search(context.Background(), "beyonce\u0301")
	require.NoError(t, err)
	assert.Empty(t, tracks)
	assert.Equal(t, "beyonc\u00e9", gotQuery)
}

func TestCharts(t *testing.T) {
	srv := catalogServer(t, nil)
	svc := newTestService(t, srv.URL, time.Second)
	ctx := context.Background()

	tracks, err := svc.ChartTracks(ctx)
	require.NoError(t, err)
	assert.Len(t, tracks, 2)

	playlists, err := svc.ChartPlaylists(ctx)
	require.NoError(t, err)
	require.Len(t, playlists, 2)
	assert.Equal(t, "Top Worldwide", playlists[0].Title)

	artists, err := svc.ChartArtists(ctx)
	require.NoError(t, err)
	require.Len(t, artists, 2)
	assert.Equal(t, "Queen", artists[1].Name)
}

func TestFetchTrack(t *testing.T) {
	srv := catalogServer(t, nil)
	svc := newTestService(t, srv.URL, time.Second)

	track, err := svc.FetchTrack(context.Background(), 568115892)
	require.NoError(t, err)
	assert.Equal(t, "Bohemian Rhapsody", track.Title)
	assert.Equal(t, "Queen", track.Artist.Name)
}

func TestFetchTrackNotFoundEnvelope(t *testing.T) {
	srv := catalogServer(t, nil)
	svc := newTestService(t, srv.URL, time.Second)

	track, err := svc.FetchTrack(context.Background(), 1)
	assert.Nil(t, track)
	assert.ErrorIs(t, err, blueprint.ENOTFOUND)
	assert.NotErrorIs(t, err, blueprint.EUPSTREAM)
}

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    error
	}{
		{
			name: "server error status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(`{}`))
			},
			want: blueprint.EUPSTREAM,
		},
		{
			name: "not found status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			},
			want: blueprint.EUPSTREAM,
		},
		{
			name: "error envelope other than no data",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(quotaBody))
			},
			want: blueprint.EUPSTREAM,
		},
		{
			name: "missing data field",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"total": 3}`))
			},
			want: blueprint.EMAPPING,
		},
		{
			name: "track without artist",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"data": [{"id": 3, "title": "Orphan"}]}`))
			},
			want: blueprint.EMAPPING,
		},
		{
			name: "not json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`<html>maintenance</html>`))
			},
			want: blueprint.EMAPPING,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := catalogServer(t, map[string]http.HandlerFunc{"/chart/0/tracks": tt.handler})
			svc := newTestService(t, srv.URL, time.Second)

			tracks, err := svc.ChartTracks(context.Background())
			assert.Nil(t, tracks)
			assert.ErrorIs(t, err, tt.want)

			var catalogErr *blueprint.CatalogError
			require.True(t, errors.As(err, &catalogErr))
			assert.Equal(t, "chart/tracks", catalogErr.Op)
		})
	}
}

func TestNetworkErrors(t *testing.T) {
	t.Run("unreachable host", func(t *testing.T) {
		srv := catalogServer(t, nil)
		base := srv.URL
		srv.Close()
		svc := newTestService(t, base, time.Second)

		_, err := svc.ChartTracks(context.Background())
		assert.ErrorIs(t, err, blueprint.ENETWORK)
	})

	t.Run("timeout", func(t *testing.T) {
		srv := catalogServer(t, map[string]http.HandlerFunc{
			"/chart/0/tracks": func(w http.ResponseWriter, r *http.Request) {
				select {
				case <-r.Context().Done():
				case <-time.After(500 * time.Millisecond):
				}
				_, _ = w.Write([]byte(bohemianSearch))
			},
		})
		svc := newTestService(t, srv.URL, 50*time.Millisecond)

		_, err := svc.ChartTracks(context.Background())
		assert.ErrorIs(t, err, blueprint.ENETWORK)
	})

	t.Run("cancelled context", func(t *testing.T) {
		srv := catalogServer(t, nil)
		svc := newTestService(t, srv.URL, time.Second)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := svc.ChartTracks(ctx)
		assert.ErrorIs(t, err, blueprint.ENETWORK)
	})
}

func TestFetchArtistDetail(t *testing.T) {
	srv := catalogServer(t, nil)
	svc := newTestService(t, srv.URL, time.Second)

	detail, err := svc.FetchArtistDetail(context.Background(), 27)
	require.NoError(t, err)
	require.NotNil(t, detail.Artist)
	assert.Equal(t, "Daft Punk", detail.Artist.Name)
	assert.Len(t, detail.TopTracks, 2)
	assert.Len(t, detail.Albums, 2)
}

func TestFetchArtistDetailPartial(t *testing.T) {
	var topLimit string
	srv := catalogServer(t, map[string]http.HandlerFunc{
		"/artist/27/albums": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		},
		"/artist/27/top": func(w http.ResponseWriter, r *http.Request) {
			topLimit = r.URL.Query().Get("limit")
			_, _ = w.Write([]byte(daftPunkTop))
		},
	})
	svc := newTestService(t, srv.URL, time.Second)

	detail, err := svc.FetchArtistDetail(context.Background(), 27)
	require.Error(t, err)
	require.NotNil(t, detail)

	var partial *deezer.PartialError
	require.True(t, errors.As(err, &partial))
	assert.Len(t, partial.Failed, 1)
	assert.ErrorIs(t, partial.Section(deezer.SectionAlbums), blueprint.EUPSTREAM)
	assert.NoError(t, partial.Section(deezer.SectionArtist))
	assert.ErrorIs(t, err, blueprint.EUPSTREAM)

	assert.Equal(t, "10", topLimit)
	require.NotNil(t, detail.Artist)
	assert.Equal(t, "Daft Punk", detail.Artist.Name)
	assert.Len(t, detail.TopTracks, 2)
	assert.Nil(t, detail.Albums)
}

func TestFetchArtistDetailAllFailed(t *testing.T) {
	srv := catalogServer(t, map[string]http.HandlerFunc{
		"/artist/27":        func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte(notFoundBody)) },
		"/artist/27/top":    func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte(notFoundBody)) },
		"/artist/27/albums": func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte(notFoundBody)) },
	})
	svc := newTestService(t, srv.URL, time.Second)

	detail, err := svc.FetchArtistDetail(context.Background(), 27)
	var partial *deezer.PartialError
	require.True(t, errors.As(err, &partial))
	assert.Len(t, partial.Failed, 3)
	assert.ErrorIs(t, err, blueprint.ENOTFOUND)
	assert.Nil(t, detail.Artist)
	assert.True(t, strings.HasPrefix(err.Error(), "partial artist detail: artist:"))
}

func TestFetchPlaylistAndPages(t *testing.T) {
	srv := catalogServer(t, nil)
	svc := newTestService(t, srv.URL, time.Second)
	ctx := context.Background()

	playlist, err := svc.FetchPlaylist(ctx, 908622995)
	require.NoError(t, err)
	assert.Equal(t, "Chill Hits", playlist.Title)
	require.NotEmpty(t, playlist.Tracklist)
	assert.Equal(t, svc.PlaylistTracklist(908622995), playlist.Tracklist)

	var ids []int
	ref := playlist.Tracklist
	pages := 0
	for ref != "" {
		page, err := svc.FetchTrackPage(ctx, ref)
		require.NoError(t, err)
		for _, track := range page.Data {
			ids = append(ids, track.ID)
		}
		assert.Equal(t, 5, page.Total)
		ref = page.Next
		pages++
	}
	assert.Equal(t, 3, pages)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, ids)
}

func TestFetchTrackPageRejectsForeignHost(t *testing.T) {
	var hits int32
	srv := catalogServer(t, map[string]http.HandlerFunc{
		"/playlist/908622995/tracks": func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&hits, 1)
		},
	})
	svc := newTestService(t, srv.URL, time.Second)

	for _, ref := range []string{
		"https://evil.example.com/playlist/908622995/tracks?index=25",
		"",
		strings.Replace(srv.URL, "http://", "https://", 1) + "/playlist/908622995/tracks",
	} {
		page, err := svc.FetchTrackPage(context.Background(), ref)
		assert.Nil(t, page)
		assert.ErrorIs(t, err, blueprint.EUPSTREAM, ref)
	}
	assert.Zero(t, atomic.LoadInt32(&hits))
}

func TestNewServiceRejectsBadBase(t *testing.T) {
	_, err := deezer.NewService(&deezer.Options{BaseURL: "not a url"}, nil)
	assert.Error(t, err)

	svc, err := deezer.NewService(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, blueprint.DeezerAPIBase, svc.BaseURL)
}

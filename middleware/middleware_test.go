package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"sonora/blueprint"
	"sonora/middleware"
	"sonora/screens"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type stubScreen struct{ id string }

func (s stubScreen) ID() string                   { return s.id }
func (s stubScreen) Name() string                 { return "stub" }
func (s stubScreen) Mount()                       {}
func (s stubScreen) Unmount()                     {}
func (s stubScreen) Settle(context.Context) error { return nil }
func (s stubScreen) Snapshot() interface{}        { return nil }
func (s stubScreen) LastActive() time.Time        { return time.Time{} }
func (s stubScreen) Touch()                       {}

type lookup map[string]screens.Screen

func (l lookup) Get(id string) (screens.Screen, error) {
	screen, ok := l[id]
	if !ok {
		return nil, blueprint.ESCREENNOTFOUND
	}
	return screen, nil
}

func TestLoadScreen(t *testing.T) {
	app := fiber.New()
	app.Get("/screens/:screenId", middleware.LoadScreen(lookup{"abc": stubScreen{id: "abc"}}), func(ctx *fiber.Ctx) error {
		screen := ctx.Locals("screen").(screens.Screen)
		return ctx.SendString(screen.ID())
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/screens/abc", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/screens/nope", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	app := fiber.New()
	app.Use(middleware.RequestLogger(zap.New(core)))
	app.Get("/ping", func(ctx *fiber.Ctx) error {
		return ctx.SendStatus(http.StatusTeapot)
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("x-request-id", "req-1")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "req-1", resp.Header.Get("x-request-id"))

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Header.Get("x-request-id"))

	require.Equal(t, 2, logs.Len())
	entry := logs.All()[0]
	fields := entry.ContextMap()
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, int64(http.StatusTeapot), fields["status"])
	assert.Equal(t, "/ping", fields["path"])
}

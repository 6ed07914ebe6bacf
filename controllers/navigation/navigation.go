package navigation

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"sonora/blueprint"
	"sonora/middleware"
	"sonora/playback"
	"sonora/screens"
	"sonora/util"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// settleTimeout bounds how long a snapshot with ?wait=true blocks
const settleTimeout = 10 * time.Second

// Controller exposes the screen registry over http. Every handler but Navigate expects the
// screen in the local context, see middleware.LoadScreen.
type Controller struct {
	Registry *screens.Registry
	Logger   *zap.Logger
}

func NewController(registry *screens.Registry, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{Registry: registry, Logger: logger}
}

// errorStatus maps the sentinel errors to http status codes
func errorStatus(err error) int {
	switch {
	case errors.Is(err, blueprint.EINVALIDROUTE):
		return http.StatusBadRequest
	case errors.Is(err, blueprint.EINVALIDCREDENTIALS):
		return http.StatusUnauthorized
	case errors.Is(err, blueprint.ESCREENNOTFOUND), errors.Is(err, blueprint.ENOTFOUND):
		return http.StatusNotFound
	case errors.Is(err, blueprint.EWRONGSCREEN), errors.Is(err, blueprint.EUSEREXISTS), errors.Is(err, playback.ErrSuperseded):
		return http.StatusConflict
	case errors.Is(err, playback.ErrReleased):
		return http.StatusGone
	case errors.Is(err, blueprint.ENOTPLAYABLE):
		return http.StatusUnprocessableEntity
	case errors.Is(err, blueprint.ENETWORK), errors.Is(err, blueprint.EUPSTREAM):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (c *Controller) fail(ctx *fiber.Ctx, op string, err error, message string) error {
	status := errorStatus(err)
	if status >= http.StatusInternalServerError {
		c.Logger.Error("[controllers][navigation]["+op+"] error - "+message, zap.Error(err))
	}
	return util.ErrorResponse(ctx, status, err, message)
}

func screenFrom(ctx *fiber.Ctx) screens.Screen {
	screen, _ := ctx.Locals("screen").(screens.Screen)
	return screen
}

func wrongScreen(ctx *fiber.Ctx, screen screens.Screen, action string) error {
	return util.ErrorResponse(ctx, http.StatusConflict, blueprint.EWRONGSCREEN, "Screen "+screen.Name()+" cannot "+action)
}

// Navigate mounts the screen for the route in the body. Static routes mount nothing.
func (c *Controller) Navigate(ctx *fiber.Ctx) error {
	var body blueprint.NavigateRequest
	if err := ctx.BodyParser(&body); err != nil {
		return util.ErrorResponse(ctx, http.StatusBadRequest, err, "Invalid body passed")
	}

	route, screen, err := c.Registry.Navigate(body.Route)
	if err != nil {
		return c.fail(ctx, "Navigate", err, "Could not navigate")
	}
	if screen == nil {
		return util.SuccessResponse(ctx, http.StatusOK, blueprint.MountResponse{Screen: route.Name})
	}
	return util.SuccessResponse(ctx, http.StatusCreated, blueprint.MountResponse{
		ScreenID: screen.ID(),
		Screen:   screen.Name(),
		State:    screen.Snapshot(),
	})
}

// Snapshot returns the current state of a screen. With ?wait=true it first waits for the
// in-flight fetches to finish.
func (c *Controller) Snapshot(ctx *fiber.Ctx) error {
	screen := screenFrom(ctx)
	if ctx.QueryBool("wait") {
		waitCtx, cancel := context.WithTimeout(ctx.UserContext(), settleTimeout)
		defer cancel()
		if err := screen.Settle(waitCtx); err != nil {
			c.Logger.Warn("[controllers][navigation][Snapshot] warning - screen did not settle", zap.String("screen_id", screen.ID()), zap.Error(err))
		}
	}
	return util.SuccessResponse(ctx, http.StatusOK, screen.Snapshot())
}

// Unmount leaves a screen
func (c *Controller) Unmount(ctx *fiber.Ctx) error {
	if err := c.Registry.Unmount(ctx.Params("screenId")); err != nil {
		return c.fail(ctx, "Unmount", err, "Could not unmount screen")
	}
	return ctx.SendStatus(http.StatusNoContent)
}

// Refresh reloads every section of the home screen
func (c *Controller) Refresh(ctx *fiber.Ctx) error {
	screen := screenFrom(ctx)
	home, ok := screen.(*screens.Home)
	if !ok {
		return wrongScreen(ctx, screen, "refresh")
	}
	home.Refresh()
	return util.SuccessResponse(ctx, http.StatusAccepted, home.Snapshot())
}

// Search submits a query to the search screen. A blank query is ignored and reported as such.
func (c *Controller) Search(ctx *fiber.Ctx) error {
	screen := screenFrom(ctx)
	search, ok := screen.(*screens.Search)
	if !ok {
		return wrongScreen(ctx, screen, "search")
	}
	var body blueprint.SearchRequest
	if err := ctx.BodyParser(&body); err != nil {
		return util.ErrorResponse(ctx, http.StatusBadRequest, err, "Invalid body passed")
	}
	if !search.Submit(body.Query) {
		return util.SuccessResponse(ctx, http.StatusOK, search.Snapshot())
	}
	return util.SuccessResponse(ctx, http.StatusAccepted, search.Snapshot())
}

// More loads the next page of a playlist
func (c *Controller) More(ctx *fiber.Ctx) error {
	screen := screenFrom(ctx)
	playlist, ok := screen.(*screens.PlaylistDetail)
	if !ok {
		return wrongScreen(ctx, screen, "load more")
	}
	status := http.StatusOK
	if playlist.LoadMore() {
		status = http.StatusAccepted
	}
	return util.SuccessResponse(ctx, status, playlist.Snapshot())
}

// Play toggles the preview of a track shown on the screen
func (c *Controller) Play(ctx *fiber.Ctx) error {
	screen := screenFrom(ctx)
	player, ok := screen.(screens.Player)
	if !ok {
		return wrongScreen(ctx, screen, "play")
	}
	trackID, err := strconv.Atoi(ctx.Params("trackId"))
	if err != nil || trackID <= 0 {
		return util.ErrorResponse(ctx, http.StatusBadRequest, "invalid track id", "Track id must be a positive number")
	}

	state, err := player.TogglePlay(ctx.UserContext(), trackID)
	if err != nil {
		return c.fail(ctx, "Play", err, "Could not play track")
	}
	return util.SuccessResponse(ctx, http.StatusOK, state)
}

// Stop stops the preview of the screen
func (c *Controller) Stop(ctx *fiber.Ctx) error {
	screen := screenFrom(ctx)
	player, ok := screen.(screens.Player)
	if !ok {
		return wrongScreen(ctx, screen, "stop")
	}
	return util.SuccessResponse(ctx, http.StatusOK, player.StopPlayback())
}

// Avatar sets the profile image picked on the client
func (c *Controller) Avatar(ctx *fiber.Ctx) error {
	screen := screenFrom(ctx)
	profile, ok := screen.(*screens.Profile)
	if !ok {
		return wrongScreen(ctx, screen, "change the profile image")
	}
	var body blueprint.AvatarRequest
	if err := ctx.BodyParser(&body); err != nil {
		return util.ErrorResponse(ctx, http.StatusBadRequest, err, "Invalid body passed")
	}
	profile.SetProfileImage(body.URI)
	return util.SuccessResponse(ctx, http.StatusOK, profile.Snapshot())
}

// Logout leaves the profile screen and sends the client to the landing route
func (c *Controller) Logout(ctx *fiber.Ctx) error {
	screen := screenFrom(ctx)
	profile, ok := screen.(*screens.Profile)
	if !ok {
		return wrongScreen(ctx, screen, "log out")
	}
	next := profile.Logout()
	if err := c.Registry.Unmount(profile.ID()); err != nil && !errors.Is(err, blueprint.ESCREENNOTFOUND) {
		return c.fail(ctx, "Logout", err, "Could not log out")
	}
	return util.SuccessResponse(ctx, http.StatusOK, blueprint.AuthResponse{Next: next})
}

// Routes registers the screen routes on router
func (c *Controller) Routes(router fiber.Router) {
	load := middleware.LoadScreen(c.Registry)
	router.Post("/screens", c.Navigate)
	router.Get("/screens/:screenId", load, c.Snapshot)
	router.Delete("/screens/:screenId", c.Unmount)
	router.Post("/screens/:screenId/refresh", load, c.Refresh)
	router.Post("/screens/:screenId/search", load, c.Search)
	router.Post("/screens/:screenId/more", load, c.More)
	router.Post("/screens/:screenId/play/:trackId", load, c.Play)
	router.Post("/screens/:screenId/stop", load, c.Stop)
	router.Put("/screens/:screenId/avatar", load, c.Avatar)
	router.Post("/screens/:screenId/logout", load, c.Logout)
}

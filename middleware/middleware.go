package middleware

import (
	"errors"
	"net/http"
	"time"

	"sonora/blueprint"
	"sonora/screens"
	"sonora/util"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestLogger tags every request with an id and logs it once it has been handled
func RequestLogger(logger *zap.Logger) fiber.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(ctx *fiber.Ctx) error {
		requestID := ctx.Get("x-request-id")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		ctx.Locals("requestId", requestID)
		ctx.Set("x-request-id", requestID)

		start := time.Now()
		err := ctx.Next()
		logger.Info("[middleware][RequestLogger] - request handled",
			zap.String("request_id", requestID),
			zap.String("method", ctx.Method()),
			zap.String("path", ctx.Path()),
			zap.Int("status", ctx.Response().StatusCode()),
			zap.Duration("took", time.Since(start)))
		return err
	}
}

// ScreenLookup finds a mounted screen by id
type ScreenLookup interface {
	Get(id string) (screens.Screen, error)
}

// LoadScreen fetches the screen named by the ":screenId" param and saves it into the local
// context called "screen"
func LoadScreen(lookup ScreenLookup) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		screenID := ctx.Params("screenId")
		if screenID == "" {
			return util.ErrorResponse(ctx, http.StatusBadRequest, blueprint.ESCREENNOTFOUND, "Screen id is missing")
		}
		screen, err := lookup.Get(screenID)
		if err != nil {
			if errors.Is(err, blueprint.ESCREENNOTFOUND) {
				return util.ErrorResponse(ctx, http.StatusNotFound, err, "Screen is not mounted")
			}
			return util.ErrorResponse(ctx, http.StatusInternalServerError, err, "Could not load screen")
		}
		ctx.Locals("screen", screen)
		return ctx.Next()
	}
}

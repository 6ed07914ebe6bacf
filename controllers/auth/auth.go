package auth

import (
	"errors"
	"net/http"
	"strings"

	"sonora/blueprint"
	"sonora/services/auth"
	"sonora/util"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type Controller struct {
	Authenticator auth.Authenticator
	Logger        *zap.Logger
}

func NewAuthController(authenticator auth.Authenticator, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{Authenticator: authenticator, Logger: logger}
}

// Login checks the credentials and tells the client to continue to the tabs. Nothing is issued.
func (c *Controller) Login(ctx *fiber.Ctx) error {
	var body blueprint.LoginRequest
	if err := ctx.BodyParser(&body); err != nil {
		c.Logger.Warn("[controllers][auth][Login] warning - could not parse body", zap.Error(err))
		return util.ErrorResponse(ctx, http.StatusBadRequest, err, "Invalid body passed")
	}
	if strings.TrimSpace(body.Username) == "" || body.Password == "" {
		return util.ErrorResponse(ctx, http.StatusBadRequest, blueprint.EINVALIDCREDENTIALS, "Username and password are required")
	}

	ok, err := c.Authenticator.Verify(ctx.UserContext(), body.Username, body.Password)
	if err != nil {
		c.Logger.Error("[controllers][auth][Login] error - could not verify credentials", zap.Error(err))
		return util.ErrorResponse(ctx, http.StatusInternalServerError, err, "Could not log in")
	}
	if !ok {
		c.Logger.Info("[controllers][auth][Login] - invalid credentials", zap.String("username", body.Username))
		return util.ErrorResponse(ctx, http.StatusUnauthorized, blueprint.EINVALIDCREDENTIALS, "Invalid username or password")
	}

	return util.SuccessResponse(ctx, http.StatusOK, blueprint.AuthResponse{Username: body.Username, Next: blueprint.RouteTabs})
}

// Register creates an account when the authenticator supports it and sends the client to login
func (c *Controller) Register(ctx *fiber.Ctx) error {
	registrar, ok := c.Authenticator.(auth.Registrar)
	if !ok {
		return util.ErrorResponse(ctx, http.StatusNotImplemented, "registration is disabled", "Registration is not available")
	}

	var body blueprint.RegisterRequest
	if err := ctx.BodyParser(&body); err != nil {
		c.Logger.Warn("[controllers][auth][Register] warning - could not parse body", zap.Error(err))
		return util.ErrorResponse(ctx, http.StatusBadRequest, err, "Invalid body passed")
	}

	err := registrar.Register(ctx.UserContext(), body.Username, body.Email, body.Password)
	switch {
	case err == nil:
	case errors.Is(err, blueprint.EUSEREXISTS):
		return util.ErrorResponse(ctx, http.StatusConflict, err, "Username is taken")
	case errors.Is(err, blueprint.EINVALIDCREDENTIALS):
		return util.ErrorResponse(ctx, http.StatusBadRequest, err, "Username and password are required")
	default:
		c.Logger.Error("[controllers][auth][Register] error - could not register user", zap.Error(err))
		return util.ErrorResponse(ctx, http.StatusInternalServerError, err, "Could not register")
	}

	return util.SuccessResponse(ctx, http.StatusCreated, blueprint.AuthResponse{Username: body.Username, Next: blueprint.RouteLogin})
}

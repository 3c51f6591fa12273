package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"pony-express/dto/req"
	"pony-express/dto/res"
	"pony-express/usecase"
)

type AuthHandler struct {
	usecase.AuthUsecase
	*logrus.Logger
	CookieKey      string
	CookieDuration time.Duration
}

func NewAuthHandler(authUseCase usecase.AuthUsecase, logger *logrus.Logger, cookieKey string, cookieDuration time.Duration) *AuthHandler {
	return &AuthHandler{
		AuthUsecase:    authUseCase,
		Logger:         logger,
		CookieKey:      cookieKey,
		CookieDuration: cookieDuration,
	}
}

// RegisterUser godoc
// @Summary Register
// @Description Create an account with a unique username and email
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body req.RegisterRequest true "New account"
// @Success 201 {object} res.UserResponse
// @Failure 422 {object} res.ErrorResponse
// @Router /auth/registration [post]
func (handler *AuthHandler) RegisterUser(ctx *fiber.Ctx) error {
	payload := new(req.RegisterRequest)
	if err := parseBody(ctx, payload); err != nil {
		return err
	}

	account, err := handler.AuthUsecase.RegisterUser(ctx.UserContext(), payload)
	if err != nil {
		handler.Logger.WithError(err).Warn("failed to register account")
		return err
	}

	handler.Logger.Infof("registered account with id: %d", account.ID)
	return ctx.Status(fiber.StatusCreated).JSON(toUserResponse(account))
}

// IssueToken godoc
// @Summary Issue token
// @Description Answer the bearer token in the body
// @Tags Auth
// @Accept x-www-form-urlencoded
// @Produce json
// @Param username formData string true "Username"
// @Param password formData string true "Password"
// @Success 200 {object} res.TokenResponse
// @Failure 401 {object} res.ErrorResponse
// @Router /auth/token [post]
func (handler *AuthHandler) IssueToken(ctx *fiber.Ctx) error {
	token, err := handler.login(ctx)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusOK).JSON(token)
}

// WebLogin godoc
// @Summary Web login
// @Description Store the token in an httpOnly cookie instead of the body
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body req.LoginRequest true "Credentials"
// @Success 204
// @Failure 401 {object} res.ErrorResponse
// @Router /auth/web/login [post]
func (handler *AuthHandler) WebLogin(ctx *fiber.Ctx) error {
	token, err := handler.login(ctx)
	if err != nil {
		return err
	}

	ctx.Cookie(&fiber.Cookie{
		Name:     handler.CookieKey,
		Value:    token.AccessToken,
		MaxAge:   int(handler.CookieDuration.Seconds()),
		HTTPOnly: true,
		Secure:   true,
		SameSite: fiber.CookieSameSiteNoneMode,
	})
	return ctx.SendStatus(fiber.StatusNoContent)
}

// WebLogout godoc
// @Summary Web logout
// @Description Clear the session cookie
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 204
// @Failure 403 {object} res.ErrorResponse
// @Router /auth/web/logout [post]
func (handler *AuthHandler) WebLogout(ctx *fiber.Ctx) error {
	clearTokenCookie(ctx, handler.CookieKey)
	return ctx.SendStatus(fiber.StatusNoContent)
}

func (handler *AuthHandler) login(ctx *fiber.Ctx) (*res.TokenResponse, error) {
	payload := new(req.LoginRequest)
	if err := parseBody(ctx, payload); err != nil {
		return nil, err
	}

	account, err := handler.AuthUsecase.Authenticate(ctx.UserContext(), payload)
	if err != nil {
		handler.Logger.WithError(err).Warnf("failed login for username: %s", payload.Username)
		return nil, err
	}

	token, err := handler.AuthUsecase.IssueToken(account)
	if err != nil {
		handler.Logger.WithError(err).Error("failed to issue token")
		return nil, err
	}
	return &token, nil
}

func clearTokenCookie(ctx *fiber.Ctx, key string) {
	ctx.Cookie(&fiber.Cookie{
		Name:     key,
		Value:    "",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   true,
		SameSite: fiber.CookieSameSiteNoneMode,
	})
}

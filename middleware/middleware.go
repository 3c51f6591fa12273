package middleware

import (
	"errors"

	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"pony-express/entity"
	"pony-express/exception"
	"pony-express/security"
	"pony-express/usecase"
)

const (
	AccountKey = "account"
	tokenKey   = "jwt"
)

type Middleware struct {
	usecase.AuthUsecase
	*security.JWT
	Log *logrus.Logger

	authenticated fiber.Handler
}

func NewMiddleware(authUsecase usecase.AuthUsecase, tokens *security.JWT, logger *logrus.Logger) *Middleware {
	middleware := &Middleware{AuthUsecase: authUsecase, JWT: tokens, Log: logger}
	middleware.authenticated = jwtware.New(jwtware.Config{
		// cookie wins when both are sent
		TokenLookup:    "cookie:" + tokens.CookieKey() + ",header:" + fiber.HeaderAuthorization,
		AuthScheme:     "Bearer",
		ContextKey:     tokenKey,
		Claims:         &jwt.RegisteredClaims{},
		KeyFunc:        tokens.Keyfunc,
		ErrorHandler:   middleware.rejectToken,
		SuccessHandler: middleware.loadAccount,
	})
	return middleware
}

// Authenticated verifies the caller's token and stores the account for the
// handlers downstream.
func (middleware *Middleware) Authenticated(c *fiber.Ctx) error {
	return middleware.authenticated(c)
}

func (middleware *Middleware) rejectToken(c *fiber.Ctx, err error) error {
	middleware.Log.WithError(err).WithField("path", c.Path()).Warn("request not authenticated")
	if errors.Is(err, jwtware.ErrJWTMissingOrMalformed) {
		return exception.AuthenticationRequired()
	}
	return usecase.TokenError(err)
}

func (middleware *Middleware) loadAccount(c *fiber.Ctx) error {
	token, ok := c.Locals(tokenKey).(*jwt.Token)
	if !ok {
		return middleware.rejectToken(c, jwtware.ErrJWTMissingOrMalformed)
	}
	accountID, err := middleware.JWT.AccountIDFromClaims(token.Claims)
	if err != nil {
		return middleware.rejectToken(c, err)
	}

	account, err := middleware.AuthUsecase.ResolveAccount(c.UserContext(), accountID)
	if err != nil {
		middleware.Log.WithError(err).WithField("accountId", accountID).Warn("token subject rejected")
		return err
	}

	c.Locals(AccountKey, account)
	return c.Next()
}

// CurrentAccount is only valid behind Authenticated.
func CurrentAccount(c *fiber.Ctx) *entity.Account {
	account, _ := c.Locals(AccountKey).(*entity.Account)
	return account
}

package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"pony-express/dto/res"
	"pony-express/enum"
	"pony-express/exception"
)

var statusByCode = map[enum.ErrorCode]int{
	enum.ErrorEntityNotFound:         fiber.StatusNotFound,
	enum.ErrorDuplicateEntityValue:   fiber.StatusUnprocessableEntity,
	enum.ErrorChatMembershipRequired: fiber.StatusUnprocessableEntity,
	enum.ErrorChatOwnerRemoval:       fiber.StatusUnprocessableEntity,
	enum.ErrorInvalidRequest:         fiber.StatusUnprocessableEntity,
	enum.ErrorInvalidCredentials:     fiber.StatusUnauthorized,
	enum.ErrorAuthenticationRequired: fiber.StatusForbidden,
	enum.ErrorExpiredAccessToken:     fiber.StatusForbidden,
	enum.ErrorInvalidAccessToken:     fiber.StatusForbidden,
	enum.ErrorInternal:               fiber.StatusInternalServerError,
}

func StatusFor(code enum.ErrorCode) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return fiber.StatusInternalServerError
}

// NewErrorHandler renders every error that reaches fiber as
// {"error": code, "message": text}. Unknown failures never leak their text.
func NewErrorHandler(log *logrus.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var domainErr *exception.Error
		var fiberErr *fiber.Error
		var validationErrs validator.ValidationErrors

		switch {
		case errors.As(err, &domainErr):
			return renderError(c, domainErr.Code, domainErr.Message)
		case errors.As(err, &validationErrs):
			return renderError(c, enum.ErrorInvalidRequest, validationErrs.Error())
		case errors.As(err, &fiberErr) && fiberErr.Code < fiber.StatusInternalServerError:
			return c.Status(fiberErr.Code).JSON(res.ErrorResponse{
				Error:   string(enum.ErrorInvalidRequest),
				Message: fiberErr.Message,
			})
		default:
			log.WithError(err).WithField("path", c.Path()).Error("unhandled error")
			return renderError(c, enum.ErrorInternal, "Internal server error")
		}
	}
}

func renderError(c *fiber.Ctx, code enum.ErrorCode, message string) error {
	return c.Status(StatusFor(code)).JSON(res.ErrorResponse{
		Error:   string(code),
		Message: message,
	})
}

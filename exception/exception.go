// Package exception holds the closed set of domain failures raised by the
// usecases. The HTTP status for each code lives in the handler package.
package exception

import (
	"errors"
	"fmt"

	"pony-express/enum"
)

type Error struct {
	Code    enum.ErrorCode
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is lets errors.Is match two *Error values on their code alone.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

func New(code enum.ErrorCode, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Is reports whether err is, or wraps, a domain error carrying code.
func Is(err error, code enum.ErrorCode) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

func NotFound(entityName string, id uint) *Error {
	return New(enum.ErrorEntityNotFound, "Unable to find %s with id=%d", entityName, id)
}

func DuplicateValue(field, value string) *Error {
	return New(enum.ErrorDuplicateEntityValue, "Duplicate value: account with %s=%s already exists", field, value)
}

func DuplicateEntity(name string) *Error {
	return New(enum.ErrorDuplicateEntityValue, "Duplicate value: chat with name=%s already exists", name)
}

func MembershipRequired(accountID, chatID uint) *Error {
	return New(enum.ErrorChatMembershipRequired, "Account with id=%d must be a member of chat with id=%d", accountID, chatID)
}

func OwnerRemoval() *Error {
	return New(enum.ErrorChatOwnerRemoval, "Unable to remove the owner of a chat")
}

func InvalidCredentials() *Error {
	return New(enum.ErrorInvalidCredentials, "Authentication failed: invalid username or password")
}

func AuthenticationRequired() *Error {
	return New(enum.ErrorAuthenticationRequired, "Not authenticated")
}

func ExpiredToken() *Error {
	return New(enum.ErrorExpiredAccessToken, "Authentication failed: expired access token")
}

func InvalidToken() *Error {
	return New(enum.ErrorInvalidAccessToken, "Authentication failed: invalid access token")
}

func InvalidRequest(message string) *Error {
	return &Error{Code: enum.ErrorInvalidRequest, Message: message}
}

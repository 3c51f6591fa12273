package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"pony-express/dto/req"
	"pony-express/middleware"
	"pony-express/usecase"
)

type AccountHandler struct {
	usecase.AccountUsecase
	*logrus.Logger
	CookieKey string
}

func NewAccountHandler(accountUsecase usecase.AccountUsecase, logger *logrus.Logger, cookieKey string) *AccountHandler {
	return &AccountHandler{AccountUsecase: accountUsecase, Logger: logger, CookieKey: cookieKey}
}

// GetAllAccounts godoc
// @Summary List accounts
// @Description Return every account ordered by id
// @Tags Account
// @Produce json
// @Success 200 {object} res.AccountCollection
// @Router /accounts [get]
func (handler *AccountHandler) GetAllAccounts(ctx *fiber.Ctx) error {
	accounts, err := handler.AccountUsecase.GetAllAccounts(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(toAccountCollection(accounts))
}

// GetAccount godoc
// @Summary Get account
// @Description Return one account by id
// @Tags Account
// @Produce json
// @Param accountId path int true "Account ID"
// @Success 200 {object} res.AccountResponse
// @Failure 404 {object} res.ErrorResponse
// @Router /accounts/{accountId} [get]
func (handler *AccountHandler) GetAccount(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "accountId")
	if err != nil {
		return err
	}

	account, err := handler.AccountUsecase.GetAccountByID(ctx.UserContext(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(toAccountResponse(*account))
}

// GetCurrentAccount godoc
// @Summary Get current account
// @Description Return the authenticated account
// @Tags Account
// @Produce json
// @Security BearerAuth
// @Success 200 {object} res.UserResponse
// @Failure 403 {object} res.ErrorResponse
// @Router /accounts/me [get]
func (handler *AccountHandler) GetCurrentAccount(ctx *fiber.Ctx) error {
	return ctx.JSON(toUserResponse(middleware.CurrentAccount(ctx)))
}

// UpdateCurrentAccount godoc
// @Summary Update current account
// @Description Change the username and/or email of the authenticated account
// @Tags Account
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body req.UpdateAccountRequest true "Fields to change"
// @Success 200 {object} res.UserResponse
// @Failure 403 {object} res.ErrorResponse
// @Failure 422 {object} res.ErrorResponse
// @Router /accounts/me [put]
func (handler *AccountHandler) UpdateCurrentAccount(ctx *fiber.Ctx) error {
	payload := new(req.UpdateAccountRequest)
	if err := parseBody(ctx, payload); err != nil {
		return err
	}

	current := middleware.CurrentAccount(ctx)
	account, err := handler.AccountUsecase.UpdateProfile(ctx.UserContext(), current.ID, payload)
	if err != nil {
		handler.Logger.WithError(err).Warnf("failed to update account %d", current.ID)
		return err
	}
	return ctx.JSON(toUserResponse(account))
}

// ChangePassword godoc
// @Summary Change password
// @Description Replace the password after checking the old one
// @Tags Account
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body req.ChangePasswordRequest true "Old and new password"
// @Success 204
// @Failure 403 {object} res.ErrorResponse
// @Failure 422 {object} res.ErrorResponse
// @Router /accounts/me/password [put]
func (handler *AccountHandler) ChangePassword(ctx *fiber.Ctx) error {
	payload := new(req.ChangePasswordRequest)
	if err := parseBody(ctx, payload); err != nil {
		return err
	}

	current := middleware.CurrentAccount(ctx)
	if err := handler.AccountUsecase.ChangePassword(ctx.UserContext(), current.ID, payload); err != nil {
		handler.Logger.WithError(err).Warnf("failed to change password of account %d", current.ID)
		return err
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}

// DeleteCurrentAccount godoc
// @Summary Delete current account
// @Description Delete the authenticated account unless it still owns chats, and clear the session cookie
// @Tags Account
// @Produce json
// @Security BearerAuth
// @Success 204
// @Failure 403 {object} res.ErrorResponse
// @Failure 422 {object} res.ErrorResponse
// @Router /accounts/me [delete]
func (handler *AccountHandler) DeleteCurrentAccount(ctx *fiber.Ctx) error {
	current := middleware.CurrentAccount(ctx)
	if err := handler.AccountUsecase.DeleteAccount(ctx.UserContext(), current.ID); err != nil {
		handler.Logger.WithError(err).Warnf("failed to delete account %d", current.ID)
		return err
	}

	handler.Logger.Infof("deleted account with id: %d", current.ID)
	clearTokenCookie(ctx, handler.CookieKey)
	return ctx.SendStatus(fiber.StatusNoContent)
}

package usecase

import (
	"context"

	"pony-express/dto/req"
	"pony-express/entity"
)

type AccountUsecase interface {
	GetAllAccounts(ctx context.Context) ([]entity.Account, error)
	GetAccountByID(ctx context.Context, id uint) (*entity.Account, error)
	UpdateProfile(ctx context.Context, id uint, request *req.UpdateAccountRequest) (*entity.Account, error)
	ChangePassword(ctx context.Context, id uint, request *req.ChangePasswordRequest) error
	DeleteAccount(ctx context.Context, id uint) error
}

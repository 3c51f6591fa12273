package usecase

import (
	"context"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
	"pony-express/config/logger"
	"pony-express/dto/req"
	"pony-express/entity"
	"pony-express/exception"
	"pony-express/repository"
	"pony-express/security"
)

type AccountUsecaseImpl struct {
	*repository.AccountRepository
	*validator.Validate
	DB            *gorm.DB
	Log           *logger.AppLogger
	Subscriptions Subscriptions
}

func NewAccountUsecase(accountRepository *repository.AccountRepository, validate *validator.Validate, DB *gorm.DB, log *logger.AppLogger, subscriptions Subscriptions) AccountUsecase {
	return &AccountUsecaseImpl{AccountRepository: accountRepository, Validate: validate, DB: DB, Log: log, Subscriptions: subscriptions}
}

func (uc *AccountUsecaseImpl) GetAllAccounts(ctx context.Context) ([]entity.Account, error) {
	uc.Log.Service.Trace.Trace().Msg("fetching all accounts")

	var accounts []entity.Account
	if err := uc.AccountRepository.FindAll(ctx, uc.DB, &accounts); err != nil {
		uc.Log.Service.Error.Error().Err(err).Msg("failed to get all accounts")
		return nil, err
	}
	return accounts, nil
}

func (uc *AccountUsecaseImpl) GetAccountByID(ctx context.Context, id uint) (*entity.Account, error) {
	return uc.findAccount(ctx, uc.DB, id)
}

func (uc *AccountUsecaseImpl) findAccount(ctx context.Context, db *gorm.DB, id uint) (*entity.Account, error) {
	var account entity.Account
	if err := uc.AccountRepository.FindById(ctx, db, &account, id); err != nil {
		if repository.IsNotFound(err) {
			uc.Log.Service.Warning.Warn().Uint("accountId", id).Msg("account not found")
			return nil, exception.NotFound("account", id)
		}
		uc.Log.Service.Error.Error().Err(err).Uint("accountId", id).Msg("failed to find account")
		return nil, err
	}
	return &account, nil
}

func (uc *AccountUsecaseImpl) UpdateProfile(ctx context.Context, id uint, request *req.UpdateAccountRequest) (*entity.Account, error) {
	if err := validateRequest(uc.Validate, request); err != nil {
		return nil, err
	}

	trx := uc.DB.WithContext(ctx).Begin()
	defer trx.Rollback()

	account, err := uc.findAccount(ctx, trx, id)
	if err != nil {
		return nil, err
	}
	if request.Username == nil && request.Email == nil {
		return account, nil
	}

	if request.Username != nil {
		other, err := uc.AccountRepository.FindByUsername(ctx, trx, *request.Username)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != id {
			uc.Log.Service.Warning.Warn().Str("username", *request.Username).Msg("username already taken")
			return nil, exception.DuplicateValue("username", *request.Username)
		}
	}
	if request.Email != nil {
		other, err := uc.AccountRepository.FindByEmail(ctx, trx, *request.Email)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != id {
			uc.Log.Service.Warning.Warn().Str("email", *request.Email).Msg("email already taken")
			return nil, exception.DuplicateValue("email", *request.Email)
		}
	}

	if request.Username != nil {
		account.Username = *request.Username
	}
	if request.Email != nil {
		account.Email = *request.Email
	}
	if err := uc.AccountRepository.Update(ctx, trx, account); err != nil {
		uc.Log.Service.Error.Error().Err(err).Uint("accountId", id).Msg("failed to update account")
		return nil, err
	}
	if err := trx.Commit().Error; err != nil {
		return nil, err
	}

	uc.Log.Service.Info.Info().Uint("accountId", id).Msg("account updated")
	return account, nil
}

func (uc *AccountUsecaseImpl) ChangePassword(ctx context.Context, id uint, request *req.ChangePasswordRequest) error {
	if err := validateRequest(uc.Validate, request); err != nil {
		return err
	}

	account, err := uc.findAccount(ctx, uc.DB, id)
	if err != nil {
		return err
	}
	if !security.ComparePassword(account.HashedPassword, request.OldPassword) {
		uc.Log.Service.Warning.Warn().Uint("accountId", id).Msg("password change rejected")
		return exception.InvalidCredentials()
	}

	hashedPassword, err := security.HashPassword(request.NewPassword)
	if err != nil {
		return err
	}
	account.HashedPassword = hashedPassword
	if err := uc.AccountRepository.Update(ctx, uc.DB, account); err != nil {
		uc.Log.Service.Error.Error().Err(err).Uint("accountId", id).Msg("failed to store new password")
		return err
	}
	return nil
}

func (uc *AccountUsecaseImpl) DeleteAccount(ctx context.Context, id uint) error {
	trx := uc.DB.WithContext(ctx).Begin()
	defer trx.Rollback()

	account, err := uc.findAccount(ctx, trx, id)
	if err != nil {
		return err
	}

	owned, err := uc.AccountRepository.CountOwnedChats(ctx, trx, id)
	if err != nil {
		return err
	}
	if owned > 0 {
		uc.Log.Service.Warning.Warn().Uint("accountId", id).Int64("ownedChats", owned).Msg("account still owns chats")
		return exception.OwnerRemoval()
	}

	if err := uc.AccountRepository.DeleteAccount(ctx, trx, account); err != nil {
		uc.Log.Service.Error.Error().Err(err).Uint("accountId", id).Msg("failed to delete account")
		return err
	}
	if err := trx.Commit().Error; err != nil {
		return err
	}

	if uc.Subscriptions != nil {
		uc.Subscriptions.RevokeAccount(id)
	}
	uc.Log.Service.Info.Info().Uint("accountId", id).Msg("account deleted")
	return nil
}

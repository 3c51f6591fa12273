package usecase

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
	"pony-express/config/logger"
	"pony-express/dto/req"
	"pony-express/dto/res"
	"pony-express/entity"
	"pony-express/exception"
	"pony-express/repository"
	"pony-express/security"
)

type AuthUsecaseImpl struct {
	*repository.AccountRepository
	*validator.Validate
	DB  *gorm.DB
	Log *logger.AppLogger
	*security.JWT
}

func NewAuthUsecase(accountRepository *repository.AccountRepository, validate *validator.Validate, DB *gorm.DB, log *logger.AppLogger, JWT *security.JWT) AuthUsecase {
	return &AuthUsecaseImpl{AccountRepository: accountRepository, Validate: validate, DB: DB, Log: log, JWT: JWT}
}

func (uc *AuthUsecaseImpl) RegisterUser(ctx context.Context, request *req.RegisterRequest) (*entity.Account, error) {
	if err := validateRequest(uc.Validate, request); err != nil {
		uc.Log.Service.Warning.Warn().Err(err).Msg("invalid registration request")
		return nil, err
	}

	// bcrypt is slow; keep it out of the write transaction
	hashedPassword, err := security.HashPassword(request.Password)
	if err != nil {
		uc.Log.Service.Error.Error().Err(err).Msg("failed to hash password")
		return nil, err
	}

	trx := uc.DB.WithContext(ctx).Begin()
	defer trx.Rollback()

	existing, err := uc.AccountRepository.FindByUsername(ctx, trx, request.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		uc.Log.Service.Warning.Warn().Str("username", request.Username).Msg("username already taken")
		return nil, exception.DuplicateValue("username", request.Username)
	}
	existing, err = uc.AccountRepository.FindByEmail(ctx, trx, request.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		uc.Log.Service.Warning.Warn().Str("email", request.Email).Msg("email already taken")
		return nil, exception.DuplicateValue("email", request.Email)
	}

	account := &entity.Account{
		Username:       request.Username,
		Email:          request.Email,
		HashedPassword: hashedPassword,
	}
	if err := uc.AccountRepository.Save(ctx, trx, account); err != nil {
		uc.Log.Service.Error.Error().Err(err).Msg("failed to save account")
		return nil, err
	}
	if err := trx.Commit().Error; err != nil {
		uc.Log.Service.Error.Error().Err(err).Msg("failed to commit account")
		return nil, err
	}

	uc.Log.Service.Info.Info().Uint("accountId", account.ID).Msg("account registered")
	return account, nil
}

func (uc *AuthUsecaseImpl) Authenticate(ctx context.Context, request *req.LoginRequest) (*entity.Account, error) {
	if err := validateRequest(uc.Validate, request); err != nil {
		return nil, err
	}

	account, err := uc.AccountRepository.FindByUsername(ctx, uc.DB, request.Username)
	if err != nil {
		uc.Log.Service.Error.Error().Err(err).Msg("failed to find account by username")
		return nil, err
	}
	// unknown username and wrong password are reported identically
	if account == nil || !security.ComparePassword(account.HashedPassword, request.Password) {
		uc.Log.Service.Warning.Warn().Str("username", request.Username).Msg("authentication failed")
		return nil, exception.InvalidCredentials()
	}
	return account, nil
}

func (uc *AuthUsecaseImpl) IssueToken(account *entity.Account) (res.TokenResponse, error) {
	token, err := uc.JWT.GenerateToken(account.ID)
	if err != nil {
		uc.Log.Service.Error.Error().Err(err).Uint("accountId", account.ID).Msg("failed to generate token")
		return res.TokenResponse{}, err
	}
	return res.TokenResponse{AccessToken: token, TokenType: "bearer"}, nil
}

func (uc *AuthUsecaseImpl) ResolveToken(ctx context.Context, token string) (*entity.Account, error) {
	if token == "" {
		return nil, exception.AuthenticationRequired()
	}

	accountID, err := uc.JWT.GetAccountIdFromToken(token)
	if err != nil {
		uc.Log.Service.Trace.Trace().Err(err).Msg("token rejected")
		return nil, TokenError(err)
	}

	return uc.ResolveAccount(ctx, accountID)
}

// TokenError maps a token parse or validation failure to the error the
// caller sees.
func TokenError(err error) *exception.Error {
	if errors.Is(err, jwt.ErrTokenExpired) {
		return exception.ExpiredToken()
	}
	return exception.InvalidToken()
}

func (uc *AuthUsecaseImpl) ResolveAccount(ctx context.Context, accountID uint) (*entity.Account, error) {
	var account entity.Account
	if err := uc.AccountRepository.FindById(ctx, uc.DB, &account, accountID); err != nil {
		if repository.IsNotFound(err) {
			uc.Log.Service.Warning.Warn().Uint("accountId", accountID).Msg("token subject no longer exists")
			return nil, exception.InvalidCredentials()
		}
		return nil, err
	}
	return &account, nil
}

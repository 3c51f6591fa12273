package usecase

import (
	"context"

	"pony-express/dto/req"
	"pony-express/dto/res"
	"pony-express/entity"
)

// AuthUsecase registers accounts, checks credentials and converts between
// accounts and bearer tokens.
type AuthUsecase interface {
	RegisterUser(ctx context.Context, request *req.RegisterRequest) (*entity.Account, error)
	Authenticate(ctx context.Context, request *req.LoginRequest) (*entity.Account, error)
	IssueToken(account *entity.Account) (res.TokenResponse, error)
	// ResolveToken maps a raw token ("" when the caller sent none) back to
	// its account.
	ResolveToken(ctx context.Context, token string) (*entity.Account, error)
	// ResolveAccount loads the account behind an already verified token
	// subject.
	ResolveAccount(ctx context.Context, accountID uint) (*entity.Account, error)
}

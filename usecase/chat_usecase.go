package usecase

import (
	"context"

	"pony-express/dto/req"
	"pony-express/entity"
)

// ChatUsecase owns chats and their memberships. The chat owner is always a
// member and can never be removed while owner.
type ChatUsecase interface {
	GetAllChats(ctx context.Context) ([]entity.Chat, error)
	GetChatByID(ctx context.Context, id uint) (*entity.Chat, error)
	CreateChat(ctx context.Context, request *req.CreateChatRequest) (*entity.Chat, error)
	UpdateChat(ctx context.Context, id uint, request *req.UpdateChatRequest) (*entity.Chat, error)
	DeleteChat(ctx context.Context, id uint) error

	GetMembers(ctx context.Context, chatID uint) ([]entity.Account, error)
	IsMember(ctx context.Context, chatID, accountID uint) (bool, error)
	// FindMembership returns nil without error when the account is not a member.
	FindMembership(ctx context.Context, chatID, accountID uint) (*entity.ChatMembership, error)
	AddMembership(ctx context.Context, chatID, accountID uint) (*entity.ChatMembership, error)
	RemoveMembership(ctx context.Context, chatID, accountID uint) error
}

// Subscriptions is told, after commit, when accounts lose access to a chat's
// realtime feed.
type Subscriptions interface {
	RevokeMember(chatID, accountID uint)
	RevokeChat(chatID uint)
	RevokeAccount(accountID uint)
}

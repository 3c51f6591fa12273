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
)

type ChatUsecaseImpl struct {
	*repository.ChatRepository
	Accounts *repository.AccountRepository
	*validator.Validate
	DB            *gorm.DB
	Log           *logger.AppLogger
	Subscriptions Subscriptions
}

func NewChatUsecase(chatRepository *repository.ChatRepository, accountRepository *repository.AccountRepository, validate *validator.Validate, DB *gorm.DB, log *logger.AppLogger, subscriptions Subscriptions) ChatUsecase {
	return &ChatUsecaseImpl{ChatRepository: chatRepository, Accounts: accountRepository, Validate: validate, DB: DB, Log: log, Subscriptions: subscriptions}
}

func (uc *ChatUsecaseImpl) GetAllChats(ctx context.Context) ([]entity.Chat, error) {
	var chats []entity.Chat
	if err := uc.ChatRepository.FindAll(ctx, uc.DB, &chats); err != nil {
		uc.Log.Service.Error.Error().Err(err).Msg("failed to get all chats")
		return nil, err
	}
	return chats, nil
}

func (uc *ChatUsecaseImpl) GetChatByID(ctx context.Context, id uint) (*entity.Chat, error) {
	return uc.findChat(ctx, uc.DB, id)
}

func (uc *ChatUsecaseImpl) findChat(ctx context.Context, db *gorm.DB, id uint) (*entity.Chat, error) {
	var chat entity.Chat
	if err := uc.ChatRepository.FindById(ctx, db, &chat, id); err != nil {
		if repository.IsNotFound(err) {
			uc.Log.Service.Warning.Warn().Uint("chatId", id).Msg("chat not found")
			return nil, exception.NotFound("chat", id)
		}
		uc.Log.Service.Error.Error().Err(err).Uint("chatId", id).Msg("failed to find chat")
		return nil, err
	}
	return &chat, nil
}

func (uc *ChatUsecaseImpl) requireAccount(ctx context.Context, db *gorm.DB, id uint) error {
	exists, err := uc.Accounts.ExistsById(ctx, db, id)
	if err != nil {
		return err
	}
	if !exists {
		uc.Log.Service.Warning.Warn().Uint("accountId", id).Msg("account not found")
		return exception.NotFound("account", id)
	}
	return nil
}

func (uc *ChatUsecaseImpl) CreateChat(ctx context.Context, request *req.CreateChatRequest) (*entity.Chat, error) {
	if err := validateRequest(uc.Validate, request); err != nil {
		return nil, err
	}

	trx := uc.DB.WithContext(ctx).Begin()
	defer trx.Rollback()

	if err := uc.requireAccount(ctx, trx, request.OwnerID); err != nil {
		return nil, err
	}
	duplicate, err := uc.ChatRepository.FindByName(ctx, trx, request.Name)
	if err != nil {
		return nil, err
	}
	if duplicate != nil {
		uc.Log.Service.Warning.Warn().Str("name", request.Name).Msg("chat name already taken")
		return nil, exception.DuplicateEntity(request.Name)
	}

	chat := &entity.Chat{Name: request.Name, OwnerID: request.OwnerID}
	if err := uc.ChatRepository.CreateChatWithOwner(ctx, trx, chat); err != nil {
		uc.Log.Service.Error.Error().Err(err).Msg("failed to create chat")
		return nil, err
	}
	if err := trx.Commit().Error; err != nil {
		return nil, err
	}

	uc.Log.Service.Info.Info().Uint("chatId", chat.ID).Uint("ownerId", chat.OwnerID).Msg("chat created")
	return chat, nil
}

// UpdateChat validates the owner and name changes independently; nothing is
// written unless both pass.
func (uc *ChatUsecaseImpl) UpdateChat(ctx context.Context, id uint, request *req.UpdateChatRequest) (*entity.Chat, error) {
	if err := validateRequest(uc.Validate, request); err != nil {
		return nil, err
	}

	trx := uc.DB.WithContext(ctx).Begin()
	defer trx.Rollback()

	chat, err := uc.findChat(ctx, trx, id)
	if err != nil {
		return nil, err
	}

	if request.OwnerID != nil {
		ownerID := *request.OwnerID
		exists, err := uc.Accounts.ExistsById(ctx, trx, ownerID)
		if err != nil {
			return nil, err
		}
		member := false
		if exists {
			if member, err = uc.ChatRepository.IsMember(ctx, trx, id, ownerID); err != nil {
				return nil, err
			}
		}
		if !member {
			uc.Log.Service.Warning.Warn().Uint("chatId", id).Uint("accountId", ownerID).Msg("new owner is not a member")
			return nil, exception.MembershipRequired(ownerID, id)
		}
		chat.OwnerID = ownerID
	}

	if request.Name != nil {
		duplicate, err := uc.ChatRepository.FindByName(ctx, trx, *request.Name)
		if err != nil {
			return nil, err
		}
		if duplicate != nil && duplicate.ID != id {
			uc.Log.Service.Warning.Warn().Str("name", *request.Name).Msg("chat name already taken")
			return nil, exception.DuplicateEntity(*request.Name)
		}
		chat.Name = *request.Name
	}

	if request.OwnerID == nil && request.Name == nil {
		return chat, nil
	}
	if err := uc.ChatRepository.Update(ctx, trx, chat); err != nil {
		uc.Log.Service.Error.Error().Err(err).Uint("chatId", id).Msg("failed to update chat")
		return nil, err
	}
	if err := trx.Commit().Error; err != nil {
		return nil, err
	}
	return chat, nil
}

func (uc *ChatUsecaseImpl) DeleteChat(ctx context.Context, id uint) error {
	trx := uc.DB.WithContext(ctx).Begin()
	defer trx.Rollback()

	chat, err := uc.findChat(ctx, trx, id)
	if err != nil {
		return err
	}
	if err := uc.ChatRepository.DeleteChatCascade(ctx, trx, chat); err != nil {
		uc.Log.Service.Error.Error().Err(err).Uint("chatId", id).Msg("failed to delete chat")
		return err
	}
	if err := trx.Commit().Error; err != nil {
		return err
	}

	if uc.Subscriptions != nil {
		uc.Subscriptions.RevokeChat(id)
	}
	uc.Log.Service.Info.Info().Uint("chatId", id).Msg("chat deleted")
	return nil
}

func (uc *ChatUsecaseImpl) GetMembers(ctx context.Context, chatID uint) ([]entity.Account, error) {
	if _, err := uc.findChat(ctx, uc.DB, chatID); err != nil {
		return nil, err
	}
	accounts, err := uc.ChatRepository.FindMembers(ctx, uc.DB, chatID)
	if err != nil {
		uc.Log.Service.Error.Error().Err(err).Uint("chatId", chatID).Msg("failed to get chat members")
		return nil, err
	}
	return accounts, nil
}

func (uc *ChatUsecaseImpl) IsMember(ctx context.Context, chatID, accountID uint) (bool, error) {
	return uc.ChatRepository.IsMember(ctx, uc.DB, chatID, accountID)
}

func (uc *ChatUsecaseImpl) FindMembership(ctx context.Context, chatID, accountID uint) (*entity.ChatMembership, error) {
	if _, err := uc.findChat(ctx, uc.DB, chatID); err != nil {
		return nil, err
	}
	if err := uc.requireAccount(ctx, uc.DB, accountID); err != nil {
		return nil, err
	}
	return uc.ChatRepository.FindMembership(ctx, uc.DB, chatID, accountID)
}

func (uc *ChatUsecaseImpl) AddMembership(ctx context.Context, chatID, accountID uint) (*entity.ChatMembership, error) {
	trx := uc.DB.WithContext(ctx).Begin()
	defer trx.Rollback()

	if _, err := uc.findChat(ctx, trx, chatID); err != nil {
		return nil, err
	}
	if err := uc.requireAccount(ctx, trx, accountID); err != nil {
		return nil, err
	}

	membership := &entity.ChatMembership{AccountID: accountID, ChatID: chatID}
	if err := uc.ChatRepository.AddMembership(ctx, trx, membership); err != nil {
		uc.Log.Service.Error.Error().Err(err).Uint("chatId", chatID).Uint("accountId", accountID).Msg("failed to add membership")
		return nil, err
	}
	if err := trx.Commit().Error; err != nil {
		return nil, err
	}

	uc.Log.Service.Info.Info().Uint("chatId", chatID).Uint("accountId", accountID).Msg("membership added")
	return membership, nil
}

func (uc *ChatUsecaseImpl) RemoveMembership(ctx context.Context, chatID, accountID uint) error {
	trx := uc.DB.WithContext(ctx).Begin()
	defer trx.Rollback()

	chat, err := uc.findChat(ctx, trx, chatID)
	if err != nil {
		return err
	}
	if err := uc.requireAccount(ctx, trx, accountID); err != nil {
		return err
	}

	membership, err := uc.ChatRepository.FindMembership(ctx, trx, chatID, accountID)
	if err != nil {
		return err
	}
	if membership == nil {
		uc.Log.Service.Warning.Warn().Uint("chatId", chatID).Uint("accountId", accountID).Msg("account is not a member")
		return exception.MembershipRequired(accountID, chatID)
	}
	if chat.OwnerID == accountID {
		uc.Log.Service.Warning.Warn().Uint("chatId", chatID).Uint("accountId", accountID).Msg("refusing to remove chat owner")
		return exception.OwnerRemoval()
	}

	if err := uc.ChatRepository.RemoveMembership(ctx, trx, membership); err != nil {
		uc.Log.Service.Error.Error().Err(err).Uint("chatId", chatID).Uint("accountId", accountID).Msg("failed to remove membership")
		return err
	}
	if err := trx.Commit().Error; err != nil {
		return err
	}

	if uc.Subscriptions != nil {
		uc.Subscriptions.RevokeMember(chatID, accountID)
	}
	uc.Log.Service.Info.Info().Uint("chatId", chatID).Uint("accountId", accountID).Msg("membership removed")
	return nil
}

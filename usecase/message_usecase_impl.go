package usecase

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
	"pony-express/config/logger"
	"pony-express/dto"
	"pony-express/dto/req"
	"pony-express/entity"
	"pony-express/exception"
	"pony-express/repository"
)

type messageUsecase struct {
	messages  *repository.MessageRepository
	chats     *repository.ChatRepository
	validate  *validator.Validate
	db        *gorm.DB
	log       *logger.AppLogger
	publisher Publisher
	now       func() time.Time
}

// NewMessageUsecase accepts a nil publisher when nothing listens for new
// messages.
func NewMessageUsecase(messageRepository *repository.MessageRepository, chatRepository *repository.ChatRepository, validate *validator.Validate, db *gorm.DB, log *logger.AppLogger, publisher Publisher) MessageUsecase {
	return &messageUsecase{
		messages:  messageRepository,
		chats:     chatRepository,
		validate:  validate,
		db:        db,
		log:       log,
		publisher: publisher,
		now:       time.Now,
	}
}

func (uc *messageUsecase) requireChat(ctx context.Context, db *gorm.DB, chatID uint) error {
	exists, err := uc.chats.ExistsById(ctx, db, chatID)
	if err != nil {
		uc.log.Service.Error.Error().Err(err).Uint("chatId", chatID).Msg("failed to find chat")
		return err
	}
	if !exists {
		uc.log.Service.Warning.Warn().Uint("chatId", chatID).Msg("chat not found")
		return exception.NotFound("chat", chatID)
	}
	return nil
}

func (uc *messageUsecase) findMessage(ctx context.Context, db *gorm.DB, chatID, messageID uint) (*entity.Message, error) {
	if err := uc.requireChat(ctx, db, chatID); err != nil {
		return nil, err
	}
	message, err := uc.messages.FindInChat(ctx, db, chatID, messageID)
	if err != nil {
		return nil, err
	}
	if message == nil {
		uc.log.Service.Warning.Warn().Uint("chatId", chatID).Uint("messageId", messageID).Msg("message not found in chat")
		return nil, exception.NotFound("message", messageID)
	}
	return message, nil
}

func (uc *messageUsecase) GetMessages(ctx context.Context, chatID uint) ([]entity.Message, error) {
	if err := uc.requireChat(ctx, uc.db, chatID); err != nil {
		return nil, err
	}
	messages, err := uc.messages.FindMessagesByChatID(ctx, uc.db, chatID)
	if err != nil {
		uc.log.Service.Error.Error().Err(err).Uint("chatId", chatID).Msg("failed to get messages")
		return nil, err
	}
	return messages, nil
}

func (uc *messageUsecase) AddMessage(ctx context.Context, chatID uint, request *req.MessageRequest) (*entity.Message, error) {
	if err := validateRequest(uc.validate, request); err != nil {
		return nil, err
	}

	trx := uc.db.WithContext(ctx).Begin()
	defer trx.Rollback()

	if err := uc.requireChat(ctx, trx, chatID); err != nil {
		return nil, err
	}
	// a membership row only exists for a live account
	member, err := uc.chats.IsMember(ctx, trx, chatID, request.AccountID)
	if err != nil {
		return nil, err
	}
	if !member {
		uc.log.Service.Warning.Warn().Uint("chatId", chatID).Uint("accountId", request.AccountID).Msg("author is not a member")
		return nil, exception.MembershipRequired(request.AccountID, chatID)
	}

	authorID := request.AccountID
	message := &entity.Message{
		Text:      request.Text,
		AccountID: &authorID,
		ChatID:    chatID,
		CreatedAt: uc.now(),
	}
	if err := uc.messages.Save(ctx, trx, message); err != nil {
		uc.log.Service.Error.Error().Err(err).Uint("chatId", chatID).Msg("failed to save message")
		return nil, err
	}
	if err := trx.Commit().Error; err != nil {
		return nil, err
	}

	if uc.publisher != nil {
		uc.publisher.Publish(dto.BroadcastMessage{
			ID:        message.ID,
			ChatID:    message.ChatID,
			AccountID: message.AccountID,
			Text:      message.Text,
			CreatedAt: message.CreatedAt,
		})
	}
	return message, nil
}

func (uc *messageUsecase) UpdateMessage(ctx context.Context, chatID, messageID uint, request *req.UpdateMessageRequest) (*entity.Message, error) {
	if err := validateRequest(uc.validate, request); err != nil {
		return nil, err
	}

	message, err := uc.findMessage(ctx, uc.db, chatID, messageID)
	if err != nil {
		return nil, err
	}
	if err := uc.messages.UpdateText(ctx, uc.db, message, request.Text); err != nil {
		uc.log.Service.Error.Error().Err(err).Uint("messageId", messageID).Msg("failed to update message")
		return nil, err
	}
	return message, nil
}

func (uc *messageUsecase) DeleteMessage(ctx context.Context, chatID, messageID uint) error {
	message, err := uc.findMessage(ctx, uc.db, chatID, messageID)
	if err != nil {
		return err
	}
	if err := uc.messages.Delete(ctx, uc.db, message); err != nil {
		uc.log.Service.Error.Error().Err(err).Uint("messageId", messageID).Msg("failed to delete message")
		return err
	}
	return nil
}

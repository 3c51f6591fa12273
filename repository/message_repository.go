package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"pony-express/entity"
)

type MessageRepository struct {
	Repository[entity.Message]
}

func NewMessageRepository() *MessageRepository {
	return &MessageRepository{}
}

func (repository MessageRepository) FindMessagesByChatID(ctx context.Context, db *gorm.DB, chatID uint) ([]entity.Message, error) {
	var messages []entity.Message
	err := db.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Order("id ASC").
		Find(&messages).Error
	return messages, err
}

// FindInChat returns nil without error when the message does not exist or
// belongs to another chat.
func (repository MessageRepository) FindInChat(ctx context.Context, db *gorm.DB, chatID, messageID uint) (*entity.Message, error) {
	var message entity.Message
	err := db.WithContext(ctx).
		Where("id = ? AND chat_id = ?", messageID, chatID).
		Take(&message).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &message, nil
}

func (repository MessageRepository) UpdateText(ctx context.Context, db *gorm.DB, message *entity.Message, text string) error {
	if err := db.WithContext(ctx).Model(message).Update("text", text).Error; err != nil {
		return err
	}
	message.Text = text
	return nil
}

package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"pony-express/entity"
)

type ChatRepository struct {
	Repository[entity.Chat]
}

func NewChatRepository() *ChatRepository {
	return &ChatRepository{}
}

// FindByName is an exact, case-sensitive match. It returns nil without error
// when no chat has that name.
func (repository ChatRepository) FindByName(ctx context.Context, db *gorm.DB, name string) (*entity.Chat, error) {
	var chat entity.Chat
	err := db.WithContext(ctx).Where("name = ?", name).Take(&chat).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &chat, nil
}

// CreateChatWithOwner inserts the chat and the owner's membership in one
// transaction.
func (repository ChatRepository) CreateChatWithOwner(ctx context.Context, db *gorm.DB, chat *entity.Chat) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(chat).Error; err != nil {
			return err
		}
		return tx.Create(&entity.ChatMembership{AccountID: chat.OwnerID, ChatID: chat.ID}).Error
	})
}

// DeleteChatCascade removes messages, then memberships, then the chat.
func (repository ChatRepository) DeleteChatCascade(ctx context.Context, db *gorm.DB, chat *entity.Chat) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("chat_id = ?", chat.ID).Delete(&entity.Message{}).Error; err != nil {
			return err
		}
		if err := tx.Where("chat_id = ?", chat.ID).Delete(&entity.ChatMembership{}).Error; err != nil {
			return err
		}
		return tx.Delete(chat).Error
	})
}

func (repository ChatRepository) FindMembers(ctx context.Context, db *gorm.DB, chatID uint) ([]entity.Account, error) {
	var accounts []entity.Account
	err := db.WithContext(ctx).
		Select("accounts.*").
		Joins("JOIN chat_memberships cm ON cm.account_id = accounts.id").
		Where("cm.chat_id = ?", chatID).
		Order("accounts.id ASC").
		Find(&accounts).Error
	return accounts, err
}

// FindMembership returns nil without error when the pair is not a member.
func (repository ChatRepository) FindMembership(ctx context.Context, db *gorm.DB, chatID, accountID uint) (*entity.ChatMembership, error) {
	var membership entity.ChatMembership
	err := db.WithContext(ctx).
		Where("chat_id = ? AND account_id = ?", chatID, accountID).
		Take(&membership).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &membership, nil
}

func (repository ChatRepository) IsMember(ctx context.Context, db *gorm.DB, chatID, accountID uint) (bool, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&entity.ChatMembership{}).
		Where("chat_id = ? AND account_id = ?", chatID, accountID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (repository ChatRepository) AddMembership(ctx context.Context, db *gorm.DB, membership *entity.ChatMembership) error {
	return db.WithContext(ctx).Create(membership).Error
}

// RemoveMembership clears the author of the member's messages in the chat and
// deletes the membership row, in one transaction.
func (repository ChatRepository) RemoveMembership(ctx context.Context, db *gorm.DB, membership *entity.ChatMembership) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entity.Message{}).
			Where("chat_id = ? AND account_id = ?", membership.ChatID, membership.AccountID).
			Update("account_id", nil).Error; err != nil {
			return err
		}
		return tx.Where("chat_id = ? AND account_id = ?", membership.ChatID, membership.AccountID).
			Delete(&entity.ChatMembership{}).Error
	})
}

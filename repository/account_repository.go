package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"pony-express/entity"
)

type AccountRepository struct {
	Repository[entity.Account]
}

func NewAccountRepository() *AccountRepository {
	return &AccountRepository{}
}

// FindByUsername returns nil without error when no account matches.
func (repository AccountRepository) FindByUsername(ctx context.Context, db *gorm.DB, username string) (*entity.Account, error) {
	return repository.findOneBy(ctx, db, "username = ?", username)
}

// FindByEmail returns nil without error when no account matches.
func (repository AccountRepository) FindByEmail(ctx context.Context, db *gorm.DB, email string) (*entity.Account, error) {
	return repository.findOneBy(ctx, db, "email = ?", email)
}

func (repository AccountRepository) findOneBy(ctx context.Context, db *gorm.DB, query string, arg any) (*entity.Account, error) {
	var account entity.Account
	err := db.WithContext(ctx).Where(query, arg).Take(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (repository AccountRepository) CountOwnedChats(ctx context.Context, db *gorm.DB, accountID uint) (int64, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&entity.Chat{}).
		Where("owner_id = ?", accountID).
		Count(&count).Error
	return count, err
}

// DeleteAccount detaches the account from every chat it joined, keeps its
// messages with a null author, then removes the row.
func (repository AccountRepository) DeleteAccount(ctx context.Context, db *gorm.DB, account *entity.Account) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entity.Message{}).
			Where("account_id = ?", account.ID).
			Update("account_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("account_id = ?", account.ID).
			Delete(&entity.ChatMembership{}).Error; err != nil {
			return err
		}
		return tx.Delete(account).Error
	})
}

package entity

import "time"

type Chat struct {
	BaseEntity
	Name    string `json:"name" gorm:"uniqueIndex;type:varchar(100);not null"`
	OwnerID uint   `json:"ownerId" gorm:"not null;index"`

	Owner *Account `json:"-" gorm:"foreignKey:OwnerID;references:ID;constraint:OnDelete:RESTRICT;"`
}

func (Chat) TableName() string {
	return "chats"
}

// ChatMembership is keyed by the (account, chat) pair, so an account joins a
// chat at most once.
type ChatMembership struct {
	AccountID uint      `json:"accountId" gorm:"primaryKey;autoIncrement:false"`
	ChatID    uint      `json:"chatId" gorm:"primaryKey;autoIncrement:false"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`

	Account *Account `json:"-" gorm:"foreignKey:AccountID;references:ID;constraint:OnDelete:CASCADE;"`
	Chat    *Chat    `json:"-" gorm:"foreignKey:ChatID;references:ID;constraint:OnDelete:CASCADE;"`
}

func (ChatMembership) TableName() string {
	return "chat_memberships"
}

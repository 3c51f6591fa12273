package entity

import "time"

type Message struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Text      string    `json:"text" gorm:"type:TEXT;not null"`
	AccountID *uint     `json:"accountId" gorm:"index"`
	ChatID    uint      `json:"chatId" gorm:"not null;index"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`

	Account *Account `json:"-" gorm:"foreignKey:AccountID;references:ID;constraint:OnDelete:SET NULL;"`
	Chat    *Chat    `json:"-" gorm:"foreignKey:ChatID;references:ID;constraint:OnDelete:CASCADE;"`
}

func (Message) TableName() string {
	return "messages"
}

package entity

type Account struct {
	BaseEntity
	Username       string `json:"username" gorm:"uniqueIndex;type:varchar(50);not null"`
	Email          string `json:"email" gorm:"uniqueIndex;type:varchar(100);not null"`
	HashedPassword string `json:"-" gorm:"type:varchar(255);not null"`
}

func (Account) TableName() string {
	return "accounts"
}

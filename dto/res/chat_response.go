package res

import "time"

type ChatResponse struct {
	ID      uint   `json:"id"`
	Name    string `json:"name"`
	OwnerID uint   `json:"owner_id"`
}

type ChatCollection struct {
	Metadata Metadata       `json:"metadata"`
	Chats    []ChatResponse `json:"chats"`
}

type MembershipResponse struct {
	AccountID uint `json:"account_id"`
	ChatID    uint `json:"chat_id"`
}

type MessageResponse struct {
	ID        uint      `json:"id"`
	Text      string    `json:"text"`
	AccountID *uint     `json:"account_id"`
	ChatID    uint      `json:"chat_id"`
	CreatedAt time.Time `json:"created_at"`
}

type MessageCollection struct {
	Metadata Metadata          `json:"metadata"`
	Messages []MessageResponse `json:"messages"`
}

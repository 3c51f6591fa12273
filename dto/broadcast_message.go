package dto

import "time"

// BroadcastMessage is the frame pushed to websocket subscribers of a chat.
type BroadcastMessage struct {
	ID        uint      `json:"id"`
	ChatID    uint      `json:"chat_id"`
	AccountID *uint     `json:"account_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

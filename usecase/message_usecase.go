package usecase

import (
	"context"

	"pony-express/dto"
	"pony-express/dto/req"
	"pony-express/entity"
)

type MessageUsecase interface {
	GetMessages(ctx context.Context, chatID uint) ([]entity.Message, error)
	AddMessage(ctx context.Context, chatID uint, request *req.MessageRequest) (*entity.Message, error)
	UpdateMessage(ctx context.Context, chatID, messageID uint, request *req.UpdateMessageRequest) (*entity.Message, error)
	DeleteMessage(ctx context.Context, chatID, messageID uint) error
}

// Publisher receives every message after it is stored.
type Publisher interface {
	Publish(message dto.BroadcastMessage)
}

package handler

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"pony-express/dto/res"
	"pony-express/entity"
	"pony-express/exception"
)

func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return exception.InvalidRequest(fmt.Sprintf("malformed request body: %v", err))
	}
	return nil
}

func paramID(c *fiber.Ctx, key string) (uint, error) {
	id, err := c.ParamsInt(key)
	if err != nil || id <= 0 {
		return 0, exception.InvalidRequest(fmt.Sprintf("%s must be a positive integer", key))
	}
	return uint(id), nil
}

func toAccountResponse(account entity.Account) res.AccountResponse {
	return res.AccountResponse{ID: account.ID, Username: account.Username}
}

func toUserResponse(account *entity.Account) res.UserResponse {
	return res.UserResponse{ID: account.ID, Username: account.Username, Email: account.Email}
}

func toAccountCollection(accounts []entity.Account) res.AccountCollection {
	responses := make([]res.AccountResponse, 0, len(accounts))
	for _, account := range accounts {
		responses = append(responses, toAccountResponse(account))
	}
	return res.AccountCollection{Metadata: res.Metadata{Count: len(responses)}, Accounts: responses}
}

func toChatResponse(chat *entity.Chat) res.ChatResponse {
	return res.ChatResponse{ID: chat.ID, Name: chat.Name, OwnerID: chat.OwnerID}
}

func toMessageResponse(message *entity.Message) res.MessageResponse {
	return res.MessageResponse{
		ID:        message.ID,
		Text:      message.Text,
		AccountID: message.AccountID,
		ChatID:    message.ChatID,
		CreatedAt: message.CreatedAt,
	}
}

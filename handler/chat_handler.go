package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"pony-express/dto/req"
	"pony-express/dto/res"
	"pony-express/middleware"
	"pony-express/usecase"
)

type ChatHandler struct {
	usecase.ChatUsecase
	usecase.MessageUsecase
	*logrus.Logger
}

func NewChatHandler(chatUsecase usecase.ChatUsecase, messageUsecase usecase.MessageUsecase, logger *logrus.Logger) *ChatHandler {
	return &ChatHandler{
		ChatUsecase:    chatUsecase,
		MessageUsecase: messageUsecase,
		Logger:         logger,
	}
}

// GetAllChats godoc
// @Summary List chats
// @Description Return every chat ordered by id
// @Tags Chat
// @Produce json
// @Success 200 {object} res.ChatCollection
// @Router /chats [get]
func (handler *ChatHandler) GetAllChats(c *fiber.Ctx) error {
	chats, err := handler.ChatUsecase.GetAllChats(c.UserContext())
	if err != nil {
		return err
	}

	responses := make([]res.ChatResponse, 0, len(chats))
	for i := range chats {
		responses = append(responses, toChatResponse(&chats[i]))
	}
	return c.JSON(res.ChatCollection{Metadata: res.Metadata{Count: len(responses)}, Chats: responses})
}

// GetChat godoc
// @Summary Get chat
// @Description Return one chat by id
// @Tags Chat
// @Produce json
// @Param chatId path int true "Chat ID"
// @Success 200 {object} res.ChatResponse
// @Failure 404 {object} res.ErrorResponse
// @Router /chats/{chatId} [get]
func (handler *ChatHandler) GetChat(c *fiber.Ctx) error {
	chatID, err := paramID(c, "chatId")
	if err != nil {
		return err
	}

	chat, err := handler.ChatUsecase.GetChatByID(c.UserContext(), chatID)
	if err != nil {
		return err
	}
	return c.JSON(toChatResponse(chat))
}

// CreateChat godoc
// @Summary Create chat
// @Description Create a chat owned by the caller regardless of the body
// @Tags Chat
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body req.CreateChatRequest true "Chat name"
// @Success 201 {object} res.ChatResponse
// @Failure 403 {object} res.ErrorResponse
// @Failure 422 {object} res.ErrorResponse
// @Router /chats [post]
func (handler *ChatHandler) CreateChat(c *fiber.Ctx) error {
	payload := new(req.CreateChatRequest)
	if err := parseBody(c, payload); err != nil {
		return err
	}
	payload.OwnerID = middleware.CurrentAccount(c).ID

	chat, err := handler.ChatUsecase.CreateChat(c.UserContext(), payload)
	if err != nil {
		handler.Logger.WithError(err).Warnf("failed to create chat %q", payload.Name)
		return err
	}

	handler.Logger.Infof("created chat with id: %d", chat.ID)
	return c.Status(fiber.StatusCreated).JSON(toChatResponse(chat))
}

// UpdateChat godoc
// @Summary Update chat
// @Description Rename a chat or hand it to another member
// @Tags Chat
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param chatId path int true "Chat ID"
// @Param request body req.UpdateChatRequest true "Fields to change"
// @Success 200 {object} res.ChatResponse
// @Failure 403 {object} res.ErrorResponse
// @Failure 404 {object} res.ErrorResponse
// @Failure 422 {object} res.ErrorResponse
// @Router /chats/{chatId} [put]
func (handler *ChatHandler) UpdateChat(c *fiber.Ctx) error {
	chatID, err := paramID(c, "chatId")
	if err != nil {
		return err
	}

	payload := new(req.UpdateChatRequest)
	if err := parseBody(c, payload); err != nil {
		return err
	}

	chat, err := handler.ChatUsecase.UpdateChat(c.UserContext(), chatID, payload)
	if err != nil {
		handler.Logger.WithError(err).Warnf("failed to update chat %d", chatID)
		return err
	}
	return c.JSON(toChatResponse(chat))
}

// DeleteChat godoc
// @Summary Delete chat
// @Description Delete a chat with its memberships and messages
// @Tags Chat
// @Produce json
// @Security BearerAuth
// @Param chatId path int true "Chat ID"
// @Success 204
// @Failure 403 {object} res.ErrorResponse
// @Failure 404 {object} res.ErrorResponse
// @Router /chats/{chatId} [delete]
func (handler *ChatHandler) DeleteChat(c *fiber.Ctx) error {
	chatID, err := paramID(c, "chatId")
	if err != nil {
		return err
	}

	if err := handler.ChatUsecase.DeleteChat(c.UserContext(), chatID); err != nil {
		return err
	}

	handler.Logger.Infof("deleted chat with id: %d", chatID)
	return c.SendStatus(fiber.StatusNoContent)
}

// GetMembers godoc
// @Summary List members
// @Description Return the accounts belonging to a chat
// @Tags Chat
// @Produce json
// @Param chatId path int true "Chat ID"
// @Success 200 {object} res.AccountCollection
// @Failure 404 {object} res.ErrorResponse
// @Router /chats/{chatId}/accounts [get]
func (handler *ChatHandler) GetMembers(c *fiber.Ctx) error {
	chatID, err := paramID(c, "chatId")
	if err != nil {
		return err
	}

	accounts, err := handler.ChatUsecase.GetMembers(c.UserContext(), chatID)
	if err != nil {
		return err
	}
	return c.JSON(toAccountCollection(accounts))
}

// AddMember godoc
// @Summary Add member
// @Description Answer 200 when the account already belongs to the chat and 201 when the membership was created
// @Tags Chat
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param chatId path int true "Chat ID"
// @Param request body req.MembershipRequest true "Account to add"
// @Success 200 {object} res.MembershipResponse
// @Success 201 {object} res.MembershipResponse
// @Failure 403 {object} res.ErrorResponse
// @Failure 404 {object} res.ErrorResponse
// @Router /chats/{chatId}/accounts [post]
func (handler *ChatHandler) AddMember(c *fiber.Ctx) error {
	chatID, err := paramID(c, "chatId")
	if err != nil {
		return err
	}

	payload := new(req.MembershipRequest)
	if err := parseBody(c, payload); err != nil {
		return err
	}

	ctx := c.UserContext()
	existing, err := handler.ChatUsecase.FindMembership(ctx, chatID, payload.AccountID)
	if err != nil {
		return err
	}
	if existing != nil {
		return c.Status(fiber.StatusOK).JSON(res.MembershipResponse{AccountID: existing.AccountID, ChatID: existing.ChatID})
	}

	membership, err := handler.ChatUsecase.AddMembership(ctx, chatID, payload.AccountID)
	if err != nil {
		handler.Logger.WithError(err).Warnf("failed to add account %d to chat %d", payload.AccountID, chatID)
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(res.MembershipResponse{AccountID: membership.AccountID, ChatID: membership.ChatID})
}

// RemoveMember godoc
// @Summary Remove member
// @Description Remove a non-owner account from a chat and disconnect its sockets
// @Tags Chat
// @Produce json
// @Security BearerAuth
// @Param chatId path int true "Chat ID"
// @Param accountId path int true "Account ID"
// @Success 204
// @Failure 403 {object} res.ErrorResponse
// @Failure 404 {object} res.ErrorResponse
// @Failure 422 {object} res.ErrorResponse
// @Router /chats/{chatId}/accounts/{accountId} [delete]
func (handler *ChatHandler) RemoveMember(c *fiber.Ctx) error {
	chatID, err := paramID(c, "chatId")
	if err != nil {
		return err
	}
	accountID, err := paramID(c, "accountId")
	if err != nil {
		return err
	}

	if err := handler.ChatUsecase.RemoveMembership(c.UserContext(), chatID, accountID); err != nil {
		handler.Logger.WithError(err).Warnf("failed to remove account %d from chat %d", accountID, chatID)
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetMessages godoc
// @Summary List messages
// @Description Return a chat's messages oldest first
// @Tags Chat
// @Produce json
// @Param chatId path int true "Chat ID"
// @Success 200 {object} res.MessageCollection
// @Failure 404 {object} res.ErrorResponse
// @Router /chats/{chatId}/messages [get]
func (handler *ChatHandler) GetMessages(c *fiber.Ctx) error {
	chatID, err := paramID(c, "chatId")
	if err != nil {
		return err
	}

	messages, err := handler.MessageUsecase.GetMessages(c.UserContext(), chatID)
	if err != nil {
		return err
	}

	responses := make([]res.MessageResponse, 0, len(messages))
	for i := range messages {
		responses = append(responses, toMessageResponse(&messages[i]))
	}
	return c.JSON(res.MessageCollection{Metadata: res.Metadata{Count: len(responses)}, Messages: responses})
}

// PostMessage godoc
// @Summary Post message
// @Description Store a message authored by the caller and broadcast it to the chat's sockets
// @Tags Chat
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param chatId path int true "Chat ID"
// @Param request body req.MessageRequest true "Message text"
// @Success 201 {object} res.MessageResponse
// @Failure 403 {object} res.ErrorResponse
// @Failure 404 {object} res.ErrorResponse
// @Failure 422 {object} res.ErrorResponse
// @Router /chats/{chatId}/messages [post]
func (handler *ChatHandler) PostMessage(c *fiber.Ctx) error {
	chatID, err := paramID(c, "chatId")
	if err != nil {
		return err
	}

	payload := new(req.MessageRequest)
	if err := parseBody(c, payload); err != nil {
		return err
	}
	payload.AccountID = middleware.CurrentAccount(c).ID

	message, err := handler.MessageUsecase.AddMessage(c.UserContext(), chatID, payload)
	if err != nil {
		handler.Logger.WithError(err).Warnf("failed to post message in chat %d", chatID)
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(toMessageResponse(message))
}

// UpdateMessage godoc
// @Summary Update message
// @Description Replace the text of a message
// @Tags Chat
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param chatId path int true "Chat ID"
// @Param messageId path int true "Message ID"
// @Param request body req.UpdateMessageRequest true "New text"
// @Success 200 {object} res.MessageResponse
// @Failure 403 {object} res.ErrorResponse
// @Failure 404 {object} res.ErrorResponse
// @Failure 422 {object} res.ErrorResponse
// @Router /chats/{chatId}/messages/{messageId} [put]
func (handler *ChatHandler) UpdateMessage(c *fiber.Ctx) error {
	chatID, err := paramID(c, "chatId")
	if err != nil {
		return err
	}
	messageID, err := paramID(c, "messageId")
	if err != nil {
		return err
	}

	payload := new(req.UpdateMessageRequest)
	if err := parseBody(c, payload); err != nil {
		return err
	}

	message, err := handler.MessageUsecase.UpdateMessage(c.UserContext(), chatID, messageID, payload)
	if err != nil {
		return err
	}
	return c.JSON(toMessageResponse(message))
}

// DeleteMessage godoc
// @Summary Delete message
// @Tags Chat
// @Produce json
// @Security BearerAuth
// @Param chatId path int true "Chat ID"
// @Param messageId path int true "Message ID"
// @Success 204
// @Failure 403 {object} res.ErrorResponse
// @Failure 404 {object} res.ErrorResponse
// @Router /chats/{chatId}/messages/{messageId} [delete]
func (handler *ChatHandler) DeleteMessage(c *fiber.Ctx) error {
	chatID, err := paramID(c, "chatId")
	if err != nil {
		return err
	}
	messageID, err := paramID(c, "messageId")
	if err != nil {
		return err
	}

	if err := handler.MessageUsecase.DeleteMessage(c.UserContext(), chatID, messageID); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

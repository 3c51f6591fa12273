package routes

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"pony-express/handler"
	"pony-express/middleware"
)

type ConfigRoute struct {
	*fiber.App
	*middleware.Middleware
	*middleware.Metrics
	*handler.AuthHandler
	*handler.AccountHandler
	*handler.ChatHandler
	*handler.WebSocketHandler
}

func (rc *ConfigRoute) GetRoute() {
	rc.App.Use(rc.Metrics.Handle)

	rc.GetSystemRoute()
	rc.GetAuthRoute()
	rc.GetAccountRoute()
	rc.GetChatRoute()
	rc.GetWebSocketRoute()
}

func (rc *ConfigRoute) GetSystemRoute() {
	rc.App.Get("/status", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	rc.App.Get("/metrics", rc.Metrics.Handler())
}

func (rc *ConfigRoute) GetAuthRoute() {
	auth := rc.App.Group("/auth")
	auth.Post("/registration", rc.AuthHandler.RegisterUser)
	auth.Post("/token", rc.AuthHandler.IssueToken)
	auth.Post("/web/login", rc.AuthHandler.WebLogin)
	auth.Post("/web/logout", rc.Middleware.Authenticated, rc.AuthHandler.WebLogout)
}

// authentication is attached per route so the public reads of a group stay
// public
func (rc *ConfigRoute) GetAccountRoute() {
	protected := rc.Middleware.Authenticated

	accounts := rc.App.Group("/accounts")
	accounts.Get("/", rc.AccountHandler.GetAllAccounts)
	accounts.Get("/me", protected, rc.AccountHandler.GetCurrentAccount)
	accounts.Put("/me", protected, rc.AccountHandler.UpdateCurrentAccount)
	accounts.Delete("/me", protected, rc.AccountHandler.DeleteCurrentAccount)
	accounts.Put("/me/password", protected, rc.AccountHandler.ChangePassword)
	accounts.Get("/:accountId", rc.AccountHandler.GetAccount)
}

func (rc *ConfigRoute) GetChatRoute() {
	protected := rc.Middleware.Authenticated

	chats := rc.App.Group("/chats")
	chats.Get("/", rc.ChatHandler.GetAllChats)
	chats.Post("/", protected, rc.ChatHandler.CreateChat)
	chats.Get("/:chatId", rc.ChatHandler.GetChat)
	chats.Put("/:chatId", protected, rc.ChatHandler.UpdateChat)
	chats.Delete("/:chatId", protected, rc.ChatHandler.DeleteChat)

	chats.Get("/:chatId/accounts", rc.ChatHandler.GetMembers)
	chats.Post("/:chatId/accounts", protected, rc.ChatHandler.AddMember)
	chats.Delete("/:chatId/accounts/:accountId", protected, rc.ChatHandler.RemoveMember)

	chats.Get("/:chatId/messages", rc.ChatHandler.GetMessages)
	chats.Post("/:chatId/messages", protected, rc.ChatHandler.PostMessage)
	chats.Put("/:chatId/messages/:messageId", protected, rc.ChatHandler.UpdateMessage)
	chats.Delete("/:chatId/messages/:messageId", protected, rc.ChatHandler.DeleteMessage)
}

func (rc *ConfigRoute) GetWebSocketRoute() {
	rc.App.Get("/ws/chats/:chatId",
		rc.Middleware.Authenticated,
		rc.WebSocketHandler.Upgrade,
		websocket.New(rc.WebSocketHandler.HandleWebSocket),
	)
}

package handler

import (
	"context"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"pony-express/config/logger"
	"pony-express/dto"
	"pony-express/entity"
	"pony-express/exception"
	"pony-express/middleware"
	"pony-express/usecase"
)

const chatIDKey = "chatId"

// WebSocketHandler fans stored messages out to the sockets subscribed to
// their chat. It is the Publisher handed to the message usecase and the
// Subscriptions handed to the chat and account usecases.
type WebSocketHandler struct {
	sync.Mutex
	usecase.ChatUsecase
	Log       *logger.AppLogger
	Clients   map[uint]map[*websocket.Conn]uint // chatId -> subscriber -> accountId
	Broadcast chan dto.BroadcastMessage
	done      chan struct{}
	closeOnce sync.Once
}

// NewWebSocketHandler starts the broadcaster. ChatUsecase must be set before
// the first upgrade.
func NewWebSocketHandler(log *logger.AppLogger) *WebSocketHandler {
	handler := &WebSocketHandler{
		Log:       log,
		Clients:   make(map[uint]map[*websocket.Conn]uint),
		Broadcast: make(chan dto.BroadcastMessage, 256),
		done:      make(chan struct{}),
	}
	go handler.runBroadcast()
	return handler
}

// Publish queues a frame for the chat's subscribers. After Close it is a
// no-op.
func (handler *WebSocketHandler) Publish(message dto.BroadcastMessage) {
	select {
	case <-handler.done:
	case handler.Broadcast <- message:
	}
}

func (handler *WebSocketHandler) Close() {
	handler.closeOnce.Do(func() {
		close(handler.done)
	})
}

// Subscribers counts the sockets currently listening on a chat.
func (handler *WebSocketHandler) Subscribers(chatID uint) int {
	handler.Mutex.Lock()
	defer handler.Mutex.Unlock()
	return len(handler.Clients[chatID])
}

// RevokeMember disconnects the account's sockets on one chat.
func (handler *WebSocketHandler) RevokeMember(chatID, accountID uint) {
	handler.Mutex.Lock()
	defer handler.Mutex.Unlock()

	for conn, owner := range handler.Clients[chatID] {
		if owner == accountID {
			handler.disconnect(chatID, conn, "membership removed")
		}
	}
}

// RevokeChat disconnects every socket on a deleted chat.
func (handler *WebSocketHandler) RevokeChat(chatID uint) {
	handler.Mutex.Lock()
	defer handler.Mutex.Unlock()

	for conn := range handler.Clients[chatID] {
		handler.disconnect(chatID, conn, "chat deleted")
	}
}

// RevokeAccount disconnects a deleted account from every chat.
func (handler *WebSocketHandler) RevokeAccount(accountID uint) {
	handler.Mutex.Lock()
	defer handler.Mutex.Unlock()

	for chatID, clients := range handler.Clients {
		for conn, owner := range clients {
			if owner == accountID {
				handler.disconnect(chatID, conn, "account deleted")
			}
		}
	}
}

// disconnect sends a policy-violation close frame and drops the socket.
// Callers hold the mutex.
func (handler *WebSocketHandler) disconnect(chatID uint, conn *websocket.Conn, reason string) {
	frame := websocket.FormatCloseMessage(websocket.ClosePolicyViolation, reason)
	if err := conn.WriteControl(websocket.CloseMessage, frame, time.Now().Add(time.Second)); err != nil {
		handler.Log.WS.Trace.Trace().Err(err).Uint("chatId", chatID).Msg("failed to send close frame")
	}
	conn.Close()

	handler.Log.WS.Info.Info().Uint("chatId", chatID).Uint("accountId", handler.Clients[chatID][conn]).Str("reason", reason).Msg("client disconnected")
	handler.forget(chatID, conn)
}

// Upgrade only lets members of the chat through. It must run behind
// Middleware.Authenticated.
func (handler *WebSocketHandler) Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	chatID, err := paramID(c, chatIDKey)
	if err != nil {
		return err
	}
	if _, err := handler.ChatUsecase.GetChatByID(c.UserContext(), chatID); err != nil {
		return err
	}

	account := middleware.CurrentAccount(c)
	isMember, err := handler.ChatUsecase.IsMember(c.UserContext(), chatID, account.ID)
	if err != nil {
		return err
	}
	if !isMember {
		return exception.MembershipRequired(account.ID, chatID)
	}

	c.Locals(chatIDKey, chatID)
	return c.Next()
}

func (handler *WebSocketHandler) HandleWebSocket(conn *websocket.Conn) {
	chatID, _ := conn.Locals(chatIDKey).(uint)
	account, _ := conn.Locals(middleware.AccountKey).(*entity.Account)
	if account == nil {
		conn.Close()
		return
	}

	handler.registerClient(chatID, account.ID, conn)
	defer func() {
		handler.removeClient(chatID, conn)
		conn.Close()
	}()

	// membership may have been revoked between the upgrade check and
	// registration
	isMember, err := handler.ChatUsecase.IsMember(context.Background(), chatID, account.ID)
	if err != nil || !isMember {
		handler.RevokeMember(chatID, account.ID)
		return
	}

	// subscribers only listen; reading keeps the connection alive until the
	// peer goes away
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			handler.Log.WS.Trace.Trace().Err(err).Uint("chatId", chatID).Msg("read loop ended")
			return
		}
	}
}

func (handler *WebSocketHandler) registerClient(chatID, accountID uint, conn *websocket.Conn) {
	handler.Mutex.Lock()
	defer handler.Mutex.Unlock()

	if handler.Clients[chatID] == nil {
		handler.Clients[chatID] = make(map[*websocket.Conn]uint)
	}
	handler.Clients[chatID][conn] = accountID
	handler.Log.WS.Info.Info().Uint("chatId", chatID).Uint("accountId", accountID).Int("total", len(handler.Clients[chatID])).Msg("client joined chat")
}

func (handler *WebSocketHandler) removeClient(chatID uint, conn *websocket.Conn) {
	handler.Mutex.Lock()
	defer handler.Mutex.Unlock()

	if _, ok := handler.Clients[chatID][conn]; ok {
		handler.forget(chatID, conn)
		handler.Log.WS.Info.Info().Uint("chatId", chatID).Msg("client left chat")
	}
}

func (handler *WebSocketHandler) forget(chatID uint, conn *websocket.Conn) {
	clients := handler.Clients[chatID]
	delete(clients, conn)
	if len(clients) == 0 {
		delete(handler.Clients, chatID)
	}
}

func (handler *WebSocketHandler) runBroadcast() {
	for {
		select {
		case <-handler.done:
			return
		case msg := <-handler.Broadcast:
			handler.Mutex.Lock()
			for conn := range handler.Clients[msg.ChatID] {
				if err := conn.WriteJSON(msg); err != nil {
					handler.Log.WS.Warning.Warn().Err(err).Uint("chatId", msg.ChatID).Msg("failed to broadcast message")
					conn.Close()
					handler.forget(msg.ChatID, conn)
				}
			}
			handler.Mutex.Unlock()
		}
	}
}

package handler_test

import (
	"net"
	"net/http"
	"testing"
	"time"

	fastws "github.com/fasthttp/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"pony-express/dto"
)

// listen serves the app on a loopback port and returns its address.
func (s *testServer) listen() string {
	s.t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(s.t, err)
	go func() { _ = s.app.Listener(ln) }()
	s.t.Cleanup(func() { _ = s.app.ShutdownWithTimeout(time.Second) })
	return ln.Addr().String()
}

func (s *testServer) subscribe(addr string, chatID uint, token string) (*fastws.Conn, *http.Response, error) {
	s.t.Helper()
	header := http.Header{fiber.HeaderAuthorization: {"Bearer " + token}}
	conn, resp, err := fastws.DefaultDialer.Dial("ws://"+addr+"/ws/chats/"+itoa(chatID), header)
	if conn != nil {
		s.t.Cleanup(func() { _ = conn.Close() })
	}
	if resp != nil && resp.Body != nil {
		s.t.Cleanup(func() { _ = resp.Body.Close() })
	}
	return conn, resp, err
}

func (s *testServer) waitForSubscribers(chatID uint, n int) {
	s.t.Helper()
	require.Eventually(s.t, func() bool {
		return s.hub.Subscribers(chatID) == n
	}, 2*time.Second, 10*time.Millisecond, "chat %d subscribers", chatID)
}

func readFrame(t *testing.T, conn *fastws.Conn) dto.BroadcastMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var frame dto.BroadcastMessage
	require.NoError(t, conn.ReadJSON(&frame))
	return frame
}

func requireClosed(t *testing.T, conn *fastws.Conn, code int) {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	require.Error(t, err)
	require.True(t, fastws.IsCloseError(err, code), "got %v", err)
}

func TestRealtimeDelivery(t *testing.T) {
	s := newTestServer(t)
	s.register("chatty")
	s.register("yappy")
	s.register("quiet")
	chatty := s.login("chatty")
	yappy := s.login("yappy")
	quiet := s.login("quiet")

	resp := s.do(request{method: http.MethodPost, path: "/chats", token: chatty, body: map[string]string{"name": "general"}})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	resp = s.do(request{method: http.MethodPost, path: "/chats", token: chatty, body: map[string]string{"name": "random"}})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	resp = s.do(request{method: http.MethodPost, path: "/chats/1/accounts", token: chatty, body: map[string]uint{"account_id": 2}})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	addr := s.listen()

	t.Run("non member is refused at upgrade", func(t *testing.T) {
		conn, resp, err := s.subscribe(addr, 1, quiet)
		require.ErrorIs(t, err, fastws.ErrBadHandshake)
		require.Nil(t, conn)
		require.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	})

	t.Run("unknown chat is refused at upgrade", func(t *testing.T) {
		_, resp, err := s.subscribe(addr, 99, chatty)
		require.ErrorIs(t, err, fastws.ErrBadHandshake)
		require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})

	general, _, err := s.subscribe(addr, 1, yappy)
	require.NoError(t, err)
	random, _, err := s.subscribe(addr, 2, chatty)
	require.NoError(t, err)
	s.waitForSubscribers(1, 1)
	s.waitForSubscribers(2, 1)

	t.Run("frames stay on their chat", func(t *testing.T) {
		resp := s.do(request{method: http.MethodPost, path: "/chats/1/messages", token: chatty, body: map[string]string{"text": "hello"}})
		require.Equal(t, fiber.StatusCreated, resp.StatusCode)
		frame := readFrame(t, general)
		require.Equal(t, uint(1), frame.ChatID)
		require.Equal(t, "hello", frame.Text)
		require.NotNil(t, frame.AccountID)
		require.Equal(t, uint(1), *frame.AccountID)

		resp = s.do(request{method: http.MethodPost, path: "/chats/2/messages", token: chatty, body: map[string]string{"text": "elsewhere"}})
		require.Equal(t, fiber.StatusCreated, resp.StatusCode)
		resp = s.do(request{method: http.MethodPost, path: "/chats/1/messages", token: chatty, body: map[string]string{"text": "again"}})
		require.Equal(t, fiber.StatusCreated, resp.StatusCode)

		// frames are broadcast in publish order, so a leaked chat 2 frame
		// would arrive first
		require.Equal(t, "again", readFrame(t, general).Text)
		frame = readFrame(t, random)
		require.Equal(t, uint(2), frame.ChatID)
		require.Equal(t, "elsewhere", frame.Text)
	})

	t.Run("removed member is disconnected", func(t *testing.T) {
		resp := s.do(request{method: http.MethodDelete, path: "/chats/1/accounts/2", token: chatty})
		require.Equal(t, fiber.StatusNoContent, resp.StatusCode)

		requireClosed(t, general, fastws.ClosePolicyViolation)
		s.waitForSubscribers(1, 0)

		_, resp, err := s.subscribe(addr, 1, yappy)
		require.ErrorIs(t, err, fastws.ErrBadHandshake)
		require.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	})

	t.Run("deleted chat drops its sockets", func(t *testing.T) {
		resp := s.do(request{method: http.MethodDelete, path: "/chats/2", token: chatty})
		require.Equal(t, fiber.StatusNoContent, resp.StatusCode)

		requireClosed(t, random, fastws.ClosePolicyViolation)
		s.waitForSubscribers(2, 0)
	})
}

func TestRealtimeAccountDeletion(t *testing.T) {
	s := newTestServer(t)
	s.register("chatty")
	s.register("yappy")
	chatty := s.login("chatty")
	yappy := s.login("yappy")

	resp := s.do(request{method: http.MethodPost, path: "/chats", token: chatty, body: map[string]string{"name": "general"}})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	resp = s.do(request{method: http.MethodPost, path: "/chats/1/accounts", token: chatty, body: map[string]uint{"account_id": 2}})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	addr := s.listen()
	owner, _, err := s.subscribe(addr, 1, chatty)
	require.NoError(t, err)
	member, _, err := s.subscribe(addr, 1, yappy)
	require.NoError(t, err)
	s.waitForSubscribers(1, 2)

	resp = s.do(request{method: http.MethodDelete, path: "/accounts/me", token: yappy})
	require.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	requireClosed(t, member, fastws.ClosePolicyViolation)
	s.waitForSubscribers(1, 1)

	resp = s.do(request{method: http.MethodPost, path: "/chats/1/messages", token: chatty, body: map[string]string{"text": "still here"}})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	require.Equal(t, "still here", readFrame(t, owner).Text)
}

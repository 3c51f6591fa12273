package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"pony-express/config"
	"pony-express/config/common"
	"pony-express/config/logger"
	"pony-express/dto/res"
	"pony-express/handler"
)

const cookieKey = "pony-express-token"

type testServer struct {
	t   *testing.T
	app *fiber.App
	hub *handler.WebSocketHandler
	db  *gorm.DB
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_fk=1", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))

	conn, err := db.DB()
	require.NoError(t, err)
	// shared-cache memory databases report "table is locked" instead of
	// waiting, so serve everything over one connection
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = conn.Close() })

	log := logrus.New()
	log.SetOutput(io.Discard)

	app, hub, err := config.NewApp(common.NewConfig(viper.New()), log, logger.NewNopLogger(), db)
	require.NoError(t, err)
	t.Cleanup(hub.Close)

	return &testServer{t: t, app: app, hub: hub, db: db}
}

type request struct {
	method string
	path   string
	body   any
	form   url.Values
	header map[string]string
	token  string
}

func (s *testServer) do(r request) *http.Response {
	s.t.Helper()

	var body io.Reader
	contentType := ""
	switch {
	case r.form != nil:
		body = strings.NewReader(r.form.Encode())
		contentType = fiber.MIMEApplicationForm
	case r.body != nil:
		raw, ok := r.body.(string)
		if !ok {
			encoded, err := json.Marshal(r.body)
			require.NoError(s.t, err)
			raw = string(encoded)
		}
		body = bytes.NewBufferString(raw)
		contentType = fiber.MIMEApplicationJSON
	}

	req := httptest.NewRequest(r.method, r.path, body)
	if contentType != "" {
		req.Header.Set(fiber.HeaderContentType, contentType)
	}
	if r.token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+r.token)
	}
	for k, v := range r.header {
		req.Header.Set(k, v)
	}

	resp, err := s.app.Test(req, -1)
	require.NoError(s.t, err)
	s.t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func requireError(t *testing.T, resp *http.Response, status int, code, message string) {
	t.Helper()
	require.Equal(t, status, resp.StatusCode)
	body := decodeBody[res.ErrorResponse](t, resp)
	require.Equal(t, code, body.Error)
	if message != "" {
		require.Equal(t, message, body.Message)
	}
}

func (s *testServer) register(username string) res.UserResponse {
	s.t.Helper()
	resp := s.do(request{
		method: http.MethodPost,
		path:   "/auth/registration",
		body:   map[string]string{"username": username, "email": username + "@example.com", "password": username + "-password"},
	})
	require.Equal(s.t, fiber.StatusCreated, resp.StatusCode)
	return decodeBody[res.UserResponse](s.t, resp)
}

func (s *testServer) login(username string) string {
	s.t.Helper()
	resp := s.do(request{
		method: http.MethodPost,
		path:   "/auth/token",
		form:   url.Values{"username": {username}, "password": {username + "-password"}},
	})
	require.Equal(s.t, fiber.StatusOK, resp.StatusCode)
	return decodeBody[res.TokenResponse](s.t, resp).AccessToken
}

func itoa(id uint) string {
	return fmt.Sprint(id)
}

package usecase_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"pony-express/config/common"
	"pony-express/config/logger"
	"pony-express/dto"
	"pony-express/dto/req"
	"pony-express/entity"
	"pony-express/repository"
	"pony-express/security"
	"pony-express/usecase"
)

type recordingPublisher struct {
	mu       sync.Mutex
	messages []dto.BroadcastMessage
}

func (p *recordingPublisher) Publish(message dto.BroadcastMessage) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, message)
}

// recordingSubscriptions keeps every revocation as "member:<chat>:<account>",
// "chat:<chat>" or "account:<account>".
type recordingSubscriptions struct {
	mu      sync.Mutex
	revoked []string
}

func (s *recordingSubscriptions) record(event string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked = append(s.revoked, event)
}

func (s *recordingSubscriptions) RevokeMember(chatID, accountID uint) {
	s.record(fmt.Sprintf("member:%d:%d", chatID, accountID))
}

func (s *recordingSubscriptions) RevokeChat(chatID uint) {
	s.record(fmt.Sprintf("chat:%d", chatID))
}

func (s *recordingSubscriptions) RevokeAccount(accountID uint) {
	s.record(fmt.Sprintf("account:%d", accountID))
}

type fixture struct {
	db        *gorm.DB
	auth      usecase.AuthUsecase
	accounts  usecase.AccountUsecase
	chats     usecase.ChatUsecase
	messages  usecase.MessageUsecase
	publisher *recordingPublisher
	revoked   *recordingSubscriptions
}

func jwtConfig(duration time.Duration) common.JWTConfig {
	return common.JWTConfig{
		Algorithm: "HS256",
		CookieKey: "pony-express-token",
		Duration:  duration,
		Issuer:    "http://127.0.0.1",
		SecretKey: []byte("test-secret"),
	}
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_fk=1", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(entity.Models()...))

	conn, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return db
}

func newAuthUsecase(t *testing.T, db *gorm.DB, duration time.Duration) usecase.AuthUsecase {
	t.Helper()
	jwt, err := security.NewJWT(jwtConfig(duration))
	require.NoError(t, err)
	return usecase.NewAuthUsecase(repository.NewAccountRepository(), validator.New(), db, logger.NewNopLogger(), jwt)
}

func setup(t *testing.T) *fixture {
	t.Helper()
	db := setupTestDB(t)
	log := logger.NewNopLogger()
	validate := validator.New()
	accountRepository := repository.NewAccountRepository()
	chatRepository := repository.NewChatRepository()
	publisher := &recordingPublisher{}
	subscriptions := &recordingSubscriptions{}

	return &fixture{
		db:        db,
		auth:      newAuthUsecase(t, db, time.Hour),
		accounts:  usecase.NewAccountUsecase(accountRepository, validate, db, log, subscriptions),
		chats:     usecase.NewChatUsecase(chatRepository, accountRepository, validate, db, log, subscriptions),
		messages:  usecase.NewMessageUsecase(repository.NewMessageRepository(), chatRepository, validate, db, log, publisher),
		publisher: publisher,
		revoked:   subscriptions,
	}
}

func (f *fixture) register(t *testing.T, username string) *entity.Account {
	t.Helper()
	account, err := f.auth.RegisterUser(context.Background(), &req.RegisterRequest{
		Username: username,
		Email:    username + "@email.com",
		Password: username + "-password",
	})
	require.NoError(t, err)
	return account
}

func (f *fixture) createChat(t *testing.T, name string, ownerID uint) *entity.Chat {
	t.Helper()
	chat, err := f.chats.CreateChat(context.Background(), &req.CreateChatRequest{Name: name, OwnerID: ownerID})
	require.NoError(t, err)
	return chat
}

func (f *fixture) join(t *testing.T, chatID, accountID uint) {
	t.Helper()
	_, err := f.chats.AddMembership(context.Background(), chatID, accountID)
	require.NoError(t, err)
}

func (f *fixture) post(t *testing.T, chatID, accountID uint, text string) *entity.Message {
	t.Helper()
	message, err := f.messages.AddMessage(context.Background(), chatID, &req.MessageRequest{AccountID: accountID, Text: text})
	require.NoError(t, err)
	return message
}

func ptr[T any](v T) *T {
	return &v
}

package config

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"pony-express/config/common"
	"pony-express/config/logger"
	"pony-express/handler"
	"pony-express/middleware"
	"pony-express/repository"
	"pony-express/routes"
	"pony-express/security"
	"pony-express/usecase"
)

type AppConfig struct {
	*fiber.App
	*validator.Validate
	*logrus.Logger
	AppLogger *logger.AppLogger
	DB        *gorm.DB
	*security.JWT
	Metrics *middleware.Metrics
}

func RunServer() {
	newConfig := common.NewViper()
	log := NewLogger(newConfig)
	appLogger, err := NewAppLogger(newConfig)
	if err != nil {
		log.WithError(err).Fatal("failed to open log files")
	}

	newDB, err := NewDB(newConfig, appLogger)
	if err != nil {
		log.WithError(err).Fatal("failed to open database")
	}

	app, hub, err := NewApp(newConfig, log, appLogger, newDB.GetDB())
	if err != nil {
		log.WithError(err).Fatal("failed to build application")
	}
	defer hub.Close()

	port, _ := newConfig.GetHttpConfig()
	if err := app.Listen(":" + port); err != nil {
		log.WithError(err).Errorf("failed to start server: %v", err)
	}
}

// NewApp builds a fully routed fiber app on top of an open database. Close
// the returned hub to stop the realtime broadcaster.
func NewApp(cfg *common.Config, log *logrus.Logger, appLogger *logger.AppLogger, db *gorm.DB) (*fiber.App, *handler.WebSocketHandler, error) {
	newJWT, err := security.NewJWT(cfg.GetJwtConfig())
	if err != nil {
		return nil, nil, err
	}

	app := NewFiber(cfg, log)
	wsHandler := App(&AppConfig{
		App:       app,
		Validate:  NewValidator(),
		Logger:    log,
		AppLogger: appLogger,
		DB:        db,
		JWT:       newJWT,
		Metrics:   middleware.NewMetrics(),
	})
	return app, wsHandler, nil
}

func App(aC *AppConfig) *handler.WebSocketHandler {
	newAccountRepository := repository.NewAccountRepository()
	newChatRepository := repository.NewChatRepository()
	newMessageRepository := repository.NewMessageRepository()

	newAuthUsecase := usecase.NewAuthUsecase(newAccountRepository, aC.Validate, aC.DB, aC.AppLogger, aC.JWT)
	wsHandler := handler.NewWebSocketHandler(aC.AppLogger)
	newAccountUsecase := usecase.NewAccountUsecase(newAccountRepository, aC.Validate, aC.DB, aC.AppLogger, wsHandler)
	newChatUsecase := usecase.NewChatUsecase(newChatRepository, newAccountRepository, aC.Validate, aC.DB, aC.AppLogger, wsHandler)
	wsHandler.ChatUsecase = newChatUsecase
	newMessageUsecase := usecase.NewMessageUsecase(newMessageRepository, newChatRepository, aC.Validate, aC.DB, aC.AppLogger, wsHandler)

	cookieKey := aC.JWT.CookieKey()
	route := routes.ConfigRoute{
		App:              aC.App,
		Middleware:       middleware.NewMiddleware(newAuthUsecase, aC.JWT, aC.Logger),
		Metrics:          aC.Metrics,
		AuthHandler:      handler.NewAuthHandler(newAuthUsecase, aC.Logger, cookieKey, aC.JWT.Duration()),
		AccountHandler:   handler.NewAccountHandler(newAccountUsecase, aC.Logger, cookieKey),
		ChatHandler:      handler.NewChatHandler(newChatUsecase, newMessageUsecase, aC.Logger),
		WebSocketHandler: wsHandler,
	}
	route.GetRoute()
	return wsHandler
}

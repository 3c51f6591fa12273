package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"pony-express/config/common"
	"pony-express/config/logger"
	"pony-express/entity"
)

type DBConfig struct {
	*gorm.DB
	*logger.AppLogger
}

func NewDB(config *common.Config, log *logger.AppLogger) (*DBConfig, error) {
	db, err := initDatabase(config, log)
	if err != nil {
		return nil, err
	}
	return &DBConfig{DB: db, AppLogger: log}, nil
}

func (db *DBConfig) GetDB() *gorm.DB {
	return db.DB
}

func initDatabase(cfg *common.Config, log *logger.AppLogger) (*gorm.DB, error) {
	gormConfig := &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Warn)}

	var dialector gorm.Dialector
	if enabled, path := cfg.UseSQLite(); enabled {
		if dir := filepath.Dir(path); dir != "." {
			_ = os.MkdirAll(dir, 0755)
		}
		dialector = sqlite.Open(sqliteDSN(path))
	} else {
		dbHost, dbUser, dbPassword, dbName, dbPort := cfg.GetDatabaseConfig()
		dsn := fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
			dbHost, dbUser, dbPassword, dbName, dbPort,
		)
		dialector = postgres.Open(dsn)
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		log.Service.Error.Error().Err(err).Msg("failed to connect to database")
		return nil, err
	}

	conn, err := db.DB()
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		log.Service.Error.Error().Err(err).Msg("failed to run migration")
		return nil, err
	}

	conn.SetMaxIdleConns(10)
	conn.SetMaxOpenConns(100)
	conn.SetConnMaxLifetime(time.Second * time.Duration(300))

	log.Service.Info.Info().Str("dialect", dialector.Name()).Msg("connection opened to database")
	return db, nil
}

// sqliteDSN makes every transaction take the write lock at BEGIN and wait
// for it instead of failing with "database is locked". WAL keeps readers
// off the writer's lock.
func sqliteDSN(path string) string {
	return path + "?_fk=1&_busy_timeout=5000&_txlock=immediate&_journal_mode=WAL"
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(entity.Models()...)
}

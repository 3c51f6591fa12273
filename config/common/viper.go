package common

import (
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Viper *viper.Viper
}

// JWTConfig is copied out of the viper tree once, so the token service never
// reads process state after construction.
type JWTConfig struct {
	Algorithm string
	CookieKey string
	Duration  time.Duration
	Issuer    string
	SecretKey []byte
}

func NewViper() *Config {
	config := viper.New()
	setDefaults(config)
	config.AutomaticEnv()

	if _, err := os.Stat(".env"); err == nil {
		config.SetConfigFile(".env")
		config.SetConfigType("env")
		if err := config.ReadInConfig(); err != nil {
			panic("failed read config")
		}
	}
	return &Config{Viper: config}
}

// NewConfig wraps an existing viper tree, filling in the defaults. It never
// touches the environment.
func NewConfig(config *viper.Viper) *Config {
	setDefaults(config)
	return &Config{Viper: config}
}

func setDefaults(config *viper.Viper) {
	config.SetDefault("APP_NAME", "pony express")
	config.SetDefault("HTTP_PORT", "8000")
	config.SetDefault("LOG_LEVEL", "info")
	config.SetDefault("LOG_DIR", "logs")
	config.SetDefault("LOG_MAX_SIZE_MB", 5)
	config.SetDefault("LOG_MAX_AGE_DAYS", 20)
	config.SetDefault("LOG_MAX_BACKUPS", 5)
	config.SetDefault("CORS_ALLOW_ORIGINS", "http://localhost:5173")
	config.SetDefault("DB_SQLITE", true)
	config.SetDefault("DB_SQLITE_PATH", "database/development.db")
	config.SetDefault("JWT_ALGORITHM", "HS256")
	config.SetDefault("JWT_COOKIE_KEY", "pony-express-token")
	config.SetDefault("JWT_DURATION", 3600)
	config.SetDefault("JWT_ISSUER", "http://127.0.0.1")
	config.SetDefault("JWT_SECRET_KEY", "super-secret-key")
}

func (c *Config) GetAppConfig() (appName string) {
	return c.Viper.GetString("APP_NAME")
}

func (c *Config) GetHttpConfig() (port string, allowOrigins string) {
	return c.Viper.GetString("HTTP_PORT"), c.Viper.GetString("CORS_ALLOW_ORIGINS")
}

func (c *Config) GetLogLevel() string {
	return c.Viper.GetString("LOG_LEVEL")
}

// GetLogFileConfig describes where the application log files go and when
// they rotate.
func (c *Config) GetLogFileConfig() (dir string, maxSizeMB, maxAgeDays, maxBackups int) {
	return c.Viper.GetString("LOG_DIR"),
		c.Viper.GetInt("LOG_MAX_SIZE_MB"),
		c.Viper.GetInt("LOG_MAX_AGE_DAYS"),
		c.Viper.GetInt("LOG_MAX_BACKUPS")
}

func (c *Config) UseSQLite() (enabled bool, path string) {
	return c.Viper.GetBool("DB_SQLITE"), c.Viper.GetString("DB_SQLITE_PATH")
}

func (c *Config) GetDatabaseConfig() (dbHost, dbUser, dbPassword, dbName, dbPort string) {
	dbHost = c.Viper.GetString("DB_HOSTNAME")
	dbUser = c.Viper.GetString("DB_USER")
	dbPassword = c.Viper.GetString("DB_PASSWORD")
	dbName = c.Viper.GetString("DB_NAME")
	dbPort = c.Viper.GetString("DB_PORT")

	return dbHost, dbUser, dbPassword, dbName, dbPort
}

func (c *Config) GetJwtConfig() JWTConfig {
	return JWTConfig{
		Algorithm: c.Viper.GetString("JWT_ALGORITHM"),
		CookieKey: c.Viper.GetString("JWT_COOKIE_KEY"),
		Duration:  time.Duration(c.Viper.GetInt("JWT_DURATION")) * time.Second,
		Issuer:    c.Viper.GetString("JWT_ISSUER"),
		SecretKey: []byte(c.Viper.GetString("JWT_SECRET_KEY")),
	}
}

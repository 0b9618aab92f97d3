package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/TamerJohn/literate-spoon/internal/storage"
	"github.com/TamerJohn/literate-spoon/pkg/logger"
)

// Backend names accepted by DOCUMENT_STORE, USERS_SOURCE and SESSION_STORE.
const (
	StoreFilesystem = "fs"
	StoreMongo      = "mongo"
	StoreMinIO      = "minio"

	UsersYAML  = "yaml"
	UsersMongo = "mongo"

	SessionsCookie = "cookie"
	SessionsRedis  = "redis"
	SessionsMongo  = "mongo"

	// EnvTest switches data and credential paths to their test locations.
	EnvTest = "test"
)

// Config holds application configuration
type Config struct {
	Server    ServerConfig
	Data      DataConfig
	Session   SessionConfig
	MongoDB   MongoDBConfig
	Redis     RedisConfig
	MinIO     storage.MinIOConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	Environment  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DataConfig locates documents and credentials. The Test* variants are
// used instead when Server.Environment is "test".
type DataConfig struct {
	Dir           string
	TestDir       string
	UsersFile     string
	TestUsersFile string
	DocumentStore string
	UsersSource   string
}

type SessionConfig struct {
	Secret     string
	CookieName string
	MaxAge     time.Duration
	Secure     bool
	Store      string
}

type MongoDBConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type RateLimitConfig struct {
	Enabled       bool
	RPS           float64
	Burst         int
	UseRedis      bool
	WindowSeconds int
}

// LoadConfig loads configuration from environment variables and .env file
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVER_PORT", "4567")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_ENVIRONMENT", "development")
	v.SetDefault("SERVER_READ_TIMEOUT", 30)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 30)
	v.SetDefault("DATA_DIR", "data")
	v.SetDefault("TEST_DATA_DIR", "test/data")
	v.SetDefault("USERS_FILE", "users.yml")
	v.SetDefault("TEST_USERS_FILE", "test/users.yml")
	v.SetDefault("DOCUMENT_STORE", StoreFilesystem)
	v.SetDefault("USERS_SOURCE", UsersYAML)
	v.SetDefault("SESSION_COOKIE", "cms_session")
	v.SetDefault("SESSION_MAX_AGE", 1440)
	v.SetDefault("SESSION_STORE", SessionsCookie)
	v.SetDefault("MONGODB_DATABASE", "cms")
	v.SetDefault("MONGODB_TIMEOUT", 10)
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("MINIO_BUCKET", "cms-documents")
	v.SetDefault("RATE_LIMIT_RPS", 10)
	v.SetDefault("RATE_LIMIT_BURST", 20)
	v.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 1)

	cfg := &Config{
		Server: ServerConfig{
			Port:         v.GetString("SERVER_PORT"),
			Host:         v.GetString("SERVER_HOST"),
			Environment:  environment(v),
			ReadTimeout:  time.Duration(v.GetInt("SERVER_READ_TIMEOUT")) * time.Second,
			WriteTimeout: time.Duration(v.GetInt("SERVER_WRITE_TIMEOUT")) * time.Second,
		},
		Data: DataConfig{
			Dir:           v.GetString("DATA_DIR"),
			TestDir:       v.GetString("TEST_DATA_DIR"),
			UsersFile:     v.GetString("USERS_FILE"),
			TestUsersFile: v.GetString("TEST_USERS_FILE"),
			DocumentStore: strings.ToLower(v.GetString("DOCUMENT_STORE")),
			UsersSource:   strings.ToLower(v.GetString("USERS_SOURCE")),
		},
		Session: SessionConfig{
			Secret:     v.GetString("SESSION_SECRET"),
			CookieName: v.GetString("SESSION_COOKIE"),
			MaxAge:     time.Duration(v.GetInt("SESSION_MAX_AGE")) * time.Minute,
			Secure:     v.GetBool("SESSION_SECURE"),
			Store:      strings.ToLower(v.GetString("SESSION_STORE")),
		},
		MongoDB: MongoDBConfig{
			URI:      v.GetString("MONGODB_URI"),
			Database: v.GetString("MONGODB_DATABASE"),
			Timeout:  time.Duration(v.GetInt("MONGODB_TIMEOUT")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		MinIO: storage.MinIOConfig{
			Endpoint:  v.GetString("MINIO_ENDPOINT"),
			AccessKey: v.GetString("MINIO_ACCESS_KEY"),
			SecretKey: v.GetString("MINIO_SECRET_KEY"),
			UseSSL:    v.GetBool("MINIO_USE_SSL"),
			Bucket:    v.GetString("MINIO_BUCKET"),
		},
		RateLimit: RateLimitConfig{
			Enabled:       v.GetBool("RATE_LIMIT_ENABLED"),
			RPS:           v.GetFloat64("RATE_LIMIT_RPS"),
			Burst:         v.GetInt("RATE_LIMIT_BURST"),
			UseRedis:      v.GetBool("RATE_LIMIT_USE_REDIS"),
			WindowSeconds: v.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
		},
	}

	if cfg.Session.Secret == "" {
		logger.Warn("SESSION_SECRET is not set; using a random secret, sessions will not survive a restart")
		cfg.Session.Secret = randomSecret()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// environment resolves the run mode. CMS_ENV wins over SERVER_ENVIRONMENT.
func environment(v *viper.Viper) string {
	env := strings.TrimSpace(v.GetString("CMS_ENV"))
	if env == "" {
		env = strings.TrimSpace(v.GetString("SERVER_ENVIRONMENT"))
	}
	return strings.ToLower(env)
}

var digits = regexp.MustCompile(`^[0-9]+$`)

// Validate checks backend names and the settings each selected backend needs.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(&c.Server,
		validation.Field(&c.Server.Port, validation.Required, validation.Match(digits)),
	); err != nil {
		return fmt.Errorf("server config: %w", err)
	}
	if err := validation.ValidateStruct(&c.Data,
		validation.Field(&c.Data.DocumentStore, validation.Required, validation.In(StoreFilesystem, StoreMongo, StoreMinIO)),
		validation.Field(&c.Data.UsersSource, validation.Required, validation.In(UsersYAML, UsersMongo)),
		validation.Field(&c.Data.Dir, validation.When(c.Data.DocumentStore == StoreFilesystem, validation.Required)),
		validation.Field(&c.Data.UsersFile, validation.When(c.Data.UsersSource == UsersYAML, validation.Required)),
	); err != nil {
		return fmt.Errorf("data config: %w", err)
	}
	if err := validation.ValidateStruct(&c.Session,
		validation.Field(&c.Session.Secret, validation.Required, validation.Length(8, 0)),
		validation.Field(&c.Session.CookieName, validation.Required),
		validation.Field(&c.Session.Store, validation.Required, validation.In(SessionsCookie, SessionsRedis, SessionsMongo)),
	); err != nil {
		return fmt.Errorf("session config: %w", err)
	}
	if err := validation.ValidateStruct(&c.MongoDB,
		validation.Field(&c.MongoDB.URI, validation.When(c.UsesMongo(), validation.Required)),
	); err != nil {
		return fmt.Errorf("mongodb config: %w", err)
	}
	if err := validation.ValidateStruct(&c.Redis,
		validation.Field(&c.Redis.Host, validation.When(c.UsesRedis(), validation.Required)),
	); err != nil {
		return fmt.Errorf("redis config: %w", err)
	}
	if err := validation.ValidateStruct(&c.MinIO,
		validation.Field(&c.MinIO.Endpoint, validation.When(c.Data.DocumentStore == StoreMinIO, validation.Required)),
		validation.Field(&c.MinIO.Bucket, validation.When(c.Data.DocumentStore == StoreMinIO, validation.Required)),
	); err != nil {
		return fmt.Errorf("minio config: %w", err)
	}
	return nil
}

// IsTest reports whether the test environment switch is on.
func (c *Config) IsTest() bool { return c.Server.Environment == EnvTest }

// DataPath is the document directory for the current environment.
func (c *Config) DataPath() string {
	if c.IsTest() {
		return c.Data.TestDir
	}
	return c.Data.Dir
}

// UsersPath is the credential file for the current environment.
func (c *Config) UsersPath() string {
	if c.IsTest() {
		return c.Data.TestUsersFile
	}
	return c.Data.UsersFile
}

// UsesMongo reports whether any backend needs a MongoDB connection.
func (c *Config) UsesMongo() bool {
	return c.Data.DocumentStore == StoreMongo || c.Data.UsersSource == UsersMongo || c.Session.Store == SessionsMongo
}

// UsesRedis reports whether any component needs a Redis connection.
func (c *Config) UsesRedis() bool {
	return c.Session.Store == SessionsRedis || (c.RateLimit.Enabled && c.RateLimit.UseRedis)
}

// RedisAddr is host:port for the Redis client.
func (c *Config) RedisAddr() string { return c.Redis.Host + ":" + c.Redis.Port }

// Addr is the listen address of the HTTP server.
func (c *Config) Addr() string { return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port) }

func randomSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("read random secret: %v", err))
	}
	return hex.EncodeToString(b)
}

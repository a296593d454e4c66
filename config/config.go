package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	StorageBackendMemory = "memory"
	StorageBackendRedis  = "redis"
	StorageBackendSQLite = "sqlite"
)

type HTTP struct {
	Address         string        `yaml:"address" env:"HTTP_ADDRESS" env-default:":8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT" env-default:"10s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"5s"`
	SessionCookie   string        `yaml:"session_cookie" env:"HTTP_SESSION_COOKIE" env-default:"fintrack_session"`
	AllowedOrigin   string        `yaml:"allowed_origin" env:"HTTP_ALLOWED_ORIGIN" env-default:"*"`
}

type Assistant struct {
	ReplyDelay time.Duration `yaml:"reply_delay" env:"ASSISTANT_REPLY_DELAY" env-default:"1s"`
}

type Upload struct {
	MaxSize      int64         `yaml:"max_size" env:"UPLOAD_MAX_SIZE" env-default:"10485760"`
	AllowedTypes []string      `yaml:"allowed_types" env:"UPLOAD_ALLOWED_TYPES" env-separator:"," env-default:"text/csv,application/pdf,image/jpeg,image/jpg,image/png"`
	BannerTTL    time.Duration `yaml:"banner_ttl" env:"UPLOAD_BANNER_TTL" env-default:"4s"`
}

type Storage struct {
	// Backend stores sessions and chat logs: memory or redis.
	Backend string `yaml:"backend" env:"STORAGE_BACKEND" env-default:"memory"`
	// TransactionsBackend stores imported transactions: memory, redis or sqlite.
	TransactionsBackend string `yaml:"transactions_backend" env:"STORAGE_TRANSACTIONS_BACKEND" env-default:"memory"`
}

type Redis struct {
	Endpoint   string        `yaml:"endpoint" env:"REDIS_ENDPOINT" env-default:"localhost:6379"`
	SessionTTL time.Duration `yaml:"session_ttl" env:"REDIS_SESSION_TTL" env-default:"24h"`
}

type SQLite struct {
	Path string `yaml:"path" env:"SQLITE_PATH" env-default:"fintrack.db"`
}

type Telegram struct {
	TelegramAPIToken  string  `yaml:"-" env:"TELEGRAM_APITOKEN"`
	AllowedTelegramID []int64 `yaml:"allowed_telegram_id" env:"ALLOWED_TELEGRAM_ID" env-separator:","`
	IsNotPublic       bool    `yaml:"is_not_public" env:"TELEGRAM_IS_NOT_PUBLIC" env-default:"false"`
}

type Log struct {
	Level       string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	Development bool   `yaml:"development" env:"LOG_DEVELOPMENT" env-default:"false"`
}

type Config struct {
	HTTP      HTTP      `yaml:"http"`
	Assistant Assistant `yaml:"assistant"`
	Upload    Upload    `yaml:"upload"`
	Storage   Storage   `yaml:"storage"`
	Redis     Redis     `yaml:"redis"`
	SQLite    SQLite    `yaml:"sqlite"`
	Telegram  Telegram  `yaml:"telegram"`
	Log       Log       `yaml:"log"`
}

var ErrUnknownStorageBackend = errors.New("unknown storage backend")

// LoadConfig reads cfgPath when it exists and then the environment.
// A missing file is not an error: every field has an env default.
func LoadConfig(cfgPath string) (*Config, error) {
	var cfg Config
	if cfgPath != "" {
		if _, err := os.Stat(cfgPath); err == nil {
			if err = cleanenv.ReadConfig(cfgPath, &cfg); err != nil {
				return nil, fmt.Errorf("failed to read config %s: %w", cfgPath, err)
			}
			return &cfg, cfg.validate()
		}
	}
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read env: %w", err)
	}
	return &cfg, cfg.validate()
}

func (c *Config) validate() error {
	switch c.Storage.Backend {
	case StorageBackendMemory, StorageBackendRedis:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStorageBackend, c.Storage.Backend)
	}
	switch c.Storage.TransactionsBackend {
	case StorageBackendMemory, StorageBackendRedis, StorageBackendSQLite:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStorageBackend, c.Storage.TransactionsBackend)
	}
	return nil
}

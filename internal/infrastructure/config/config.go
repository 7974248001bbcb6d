package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	// Port the local app server listens on. The UI is the only client, so
	// the default binds a loopback-ish high port.
	Port     string `env:"PORT,      default=8090"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// TerminalID distinguishes lanes when several share a till server.
	TerminalID string `env:"TERMINAL_ID, default=lane-1"`

	Backend BackendConfig
	Creds   CredsConfig
	Redis   RedisConfig
	Mongo   MongoConfig
	Audit   AuditConfig
}

type BackendConfig struct {
	// BaseURL of the central POS backend.
	BaseURL string        `env:"BACKEND_URL,     default=http://127.0.0.1:8000"`
	Timeout time.Duration `env:"BACKEND_TIMEOUT, default=15s"`
	// DomainKeys extends the recognized response payload keys, comma
	// separated, for backend releases that add new list fields.
	DomainKeys []string `env:"BACKEND_DOMAIN_KEYS"`
}

type CredsConfig struct {
	// Driver selects the credential store: memory, file, or redis.
	Driver string `env:"CREDS_DRIVER, default=file"`
	// Path of the file store.
	Path string `env:"CREDS_PATH, default=.posgate/credentials.json"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type MongoConfig struct {
	// URI is optional: when empty the audit trail goes to the log instead
	// of MongoDB.
	URI      string `env:"MONGO_URI"`
	Database string `env:"MONGO_DB, default=pos_gateway"`
}

type AuditConfig struct {
	Workers int `env:"AUDIT_WORKERS, default=2"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}

package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config contains index configuration parameters.
type Config struct {
	LogLevel      int      `env:"LOG_LEVEL" envDefault:"0"`
	LogFormat     string   `env:"LOG_FORMAT" envDefault:"text"`
	BootstrapFile string   `env:"BOOTSTRAP_FILE"`
	GRPC          GRPC     `envPrefix:"GRPC_"`
	HTTP          HTTP     `envPrefix:"HTTP_"`
	Database      Database `envPrefix:"DATABASE_"`
	JWT           JWT      `envPrefix:"JWT_"`
	Storage       Storage  `envPrefix:"MINIO_"`
	Fleet         Fleet    `envPrefix:"FLEET_"`
	Upgrade       Upgrade  `envPrefix:"UPGRADE_"`
	Backup        Backup   `envPrefix:"BACKUP_"`
}

// GRPC contains gRPC server parameters.
type GRPC struct {
	Port               string `env:"PORT" envDefault:"50051"`
	EnableHTTPS        bool   `env:"ENABLE_HTTPS" envDefault:"false"`
	CertFileName       string `env:"CERT_FILE_NAME" envDefault:"cert.pem"`
	PrivateKeyFileName string `env:"PRIVATE_KEY_FILE_NAME" envDefault:"key.pem"`
}

// HTTP contains admin HTTP server parameters.
type HTTP struct {
	Addr string `env:"ADDR" envDefault:":8080"`
}

// Database contains database connection parameters. An empty DSN keeps all
// state in memory.
type Database struct {
	DSN             string        `env:"DSN"`
	MaxConns        int32         `env:"MAX_CONNS" envDefault:"16"`
	MaxConnLifetime time.Duration `env:"MAX_CONN_LIFETIME" envDefault:"30m"`
}

// JWT contains JWT-related parameters.
type JWT struct {
	Secret string        `env:"SECRET" envDefault:"devsecret"`
	TTL    time.Duration `env:"TTL" envDefault:"1h"`
}

// Storage contains backup bucket parameters.
type Storage struct {
	Endpoint  string `env:"ENDPOINT" envDefault:"localhost:9000"`
	AccessKey string `env:"ACCESS_KEY" envDefault:"userindex-access-key"`
	SecretKey string `env:"SECRET_KEY" envDefault:"userindex-secret-key"`
	Bucket    string `env:"BUCKET_NAME" envDefault:"userindex-backups"`
	UseSSL    bool   `env:"USE_SSL" envDefault:"false"`
}

// Fleet contains fleet controller client parameters.
type Fleet struct {
	Addr        string        `env:"ADDR" envDefault:"localhost:50052"`
	CallTimeout time.Duration `env:"CALL_TIMEOUT" envDefault:"30s"`
}

// Upgrade contains upgrade sweep parameters.
type Upgrade struct {
	Concurrency int  `env:"CONCURRENCY" envDefault:"16"`
	OnStart     bool `env:"ON_START" envDefault:"false"`
}

// Backup contains backup sweep parameters.
type Backup struct {
	Concurrency int `env:"CONCURRENCY" envDefault:"8"`
}

// NewConfig loads configuration from environment variables.
func NewConfig() (*Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.Upgrade.Concurrency < 1 {
		return nil, fmt.Errorf("UPGRADE_CONCURRENCY must be positive, got %d", cfg.Upgrade.Concurrency)
	}
	if cfg.Backup.Concurrency < 1 {
		return nil, fmt.Errorf("BACKUP_CONCURRENCY must be positive, got %d", cfg.Backup.Concurrency)
	}

	return &cfg, nil
}

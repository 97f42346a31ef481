package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config contains server configuration parameters.
type Config struct {
	LogLevel     int          `env:"LOG_LEVEL" envDefault:"0"`
	LogJSON      bool         `env:"LOG_JSON" envDefault:"false"`
	HTTP         HTTP         `envPrefix:"HTTP_"`
	Mongo        Mongo        `envPrefix:"MONGO_"`
	JWT          JWT          `envPrefix:"JWT_"`
	Storage      Storage      `envPrefix:"MINIO_"`
	SMTP         SMTP         `envPrefix:"SMTP_"`
	Verification Verification `envPrefix:"EMAIL_CODE_"`
}

// HTTP contains HTTP server parameters.
type HTTP struct {
	Port               string `env:"PORT" envDefault:"8080"`
	EnableHTTPS        bool   `env:"ENABLE_HTTPS" envDefault:"false"`
	CertFileName       string `env:"CERT_FILE_NAME" envDefault:"cert.pem"`
	PrivateKeyFileName string `env:"PRIVATE_KEY_FILE_NAME" envDefault:"key.pem"`
	// MaxUploadBytes caps multipart document uploads.
	MaxUploadBytes int64 `env:"MAX_UPLOAD_BYTES" envDefault:"10485760"`
}

// Mongo contains document store connection parameters.
type Mongo struct {
	URI      string `env:"URI" envDefault:"mongodb://localhost:27017"`
	Database string `env:"DATABASE" envDefault:"amcbunq"`
}

// JWT contains JWT-related parameters.
type JWT struct {
	Secret string        `env:"SECRET" envDefault:"devsecret"`
	TTL    time.Duration `env:"TTL" envDefault:"1h"`
}

// Storage contains object storage parameters.
type Storage struct {
	Endpoint  string `env:"ENDPOINT" envDefault:"localhost:9000"`
	AccessKey string `env:"ACCESS_KEY" envDefault:"amcbunq-access-key"`
	SecretKey string `env:"SECRET_KEY" envDefault:"amcbunq-secret-key"`
	Bucket    string `env:"BUCKET_NAME" envDefault:"amcbunq-documents"`
	UseSSL    bool   `env:"USE_SSL" envDefault:"false"`
}

// SMTP contains outbound mail parameters. An empty Host disables delivery.
type SMTP struct {
	Host     string `env:"HOST"`
	Port     int    `env:"PORT" envDefault:"587"`
	Username string `env:"USERNAME"`
	Password string `env:"PASSWORD"`
	From     string `env:"FROM" envDefault:"AmCbunq <no-reply@amcbunq.dev>"`
}

// Verification contains email verification code parameters.
type Verification struct {
	TTL         time.Duration `env:"TTL" envDefault:"10m"`
	MaxAttempts int           `env:"MAX_ATTEMPTS" envDefault:"5"`
}

// NewConfig loads configuration from environment variables.
// Variables from the given dotenv files (".env" when none given) are applied first
// without overriding the real environment; missing files are ignored.
func NewConfig(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_DefaultValues(t *testing.T) {
	cfg, err := NewConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, 0, cfg.LogLevel)
	assert.False(t, cfg.LogJSON)
	assert.Equal(t, "8080", cfg.HTTP.Port)
	assert.Equal(t, false, cfg.HTTP.EnableHTTPS)
	assert.Equal(t, "cert.pem", cfg.HTTP.CertFileName)
	assert.Equal(t, "key.pem", cfg.HTTP.PrivateKeyFileName)
	assert.Equal(t, int64(10485760), cfg.HTTP.MaxUploadBytes)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Mongo.URI)
	assert.Equal(t, "amcbunq", cfg.Mongo.Database)
	assert.Equal(t, "devsecret", cfg.JWT.Secret)
	assert.Equal(t, time.Hour, cfg.JWT.TTL)
	assert.Equal(t, "localhost:9000", cfg.Storage.Endpoint)
	assert.Equal(t, "amcbunq-documents", cfg.Storage.Bucket)
	assert.Equal(t, "", cfg.SMTP.Host)
	assert.Equal(t, 587, cfg.SMTP.Port)
	assert.Equal(t, 10*time.Minute, cfg.Verification.TTL)
	assert.Equal(t, 5, cfg.Verification.MaxAttempts)
}

func TestNewConfig_EnvironmentOverrides(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		expected func(*Config)
	}{
		{
			name: "log override",
			envVars: map[string]string{
				"LOG_LEVEL": "4",
				"LOG_JSON":  "true",
			},
			expected: func(cfg *Config) {
				assert.Equal(t, 4, cfg.LogLevel)
				assert.True(t, cfg.LogJSON)
			},
		},
		{
			name: "http config override",
			envVars: map[string]string{
				"HTTP_PORT":                  "9090",
				"HTTP_ENABLE_HTTPS":          "true",
				"HTTP_CERT_FILE_NAME":        "custom.pem",
				"HTTP_PRIVATE_KEY_FILE_NAME": "custom-key.pem",
			},
			expected: func(cfg *Config) {
				assert.Equal(t, "9090", cfg.HTTP.Port)
				assert.Equal(t, true, cfg.HTTP.EnableHTTPS)
				assert.Equal(t, "custom.pem", cfg.HTTP.CertFileName)
				assert.Equal(t, "custom-key.pem", cfg.HTTP.PrivateKeyFileName)
			},
		},
		{
			name: "mongo config override",
			envVars: map[string]string{
				"MONGO_URI":      "mongodb://db.internal:27017",
				"MONGO_DATABASE": "bank",
			},
			expected: func(cfg *Config) {
				assert.Equal(t, "mongodb://db.internal:27017", cfg.Mongo.URI)
				assert.Equal(t, "bank", cfg.Mongo.Database)
			},
		},
		{
			name: "jwt config override",
			envVars: map[string]string{
				"JWT_SECRET": "customsecret",
				"JWT_TTL":    "15m",
			},
			expected: func(cfg *Config) {
				assert.Equal(t, "customsecret", cfg.JWT.Secret)
				assert.Equal(t, 15*time.Minute, cfg.JWT.TTL)
			},
		},
		{
			name: "storage config override",
			envVars: map[string]string{
				"MINIO_ENDPOINT":    "minio.example.com:9000",
				"MINIO_ACCESS_KEY":  "access123",
				"MINIO_SECRET_KEY":  "secret123",
				"MINIO_BUCKET_NAME": "custom-bucket",
				"MINIO_USE_SSL":     "true",
			},
			expected: func(cfg *Config) {
				assert.Equal(t, "minio.example.com:9000", cfg.Storage.Endpoint)
				assert.Equal(t, "access123", cfg.Storage.AccessKey)
				assert.Equal(t, "secret123", cfg.Storage.SecretKey)
				assert.Equal(t, "custom-bucket", cfg.Storage.Bucket)
				assert.Equal(t, true, cfg.Storage.UseSSL)
			},
		},
		{
			name: "smtp and code override",
			envVars: map[string]string{
				"SMTP_HOST":               "smtp.example.com",
				"SMTP_PORT":               "2525",
				"EMAIL_CODE_TTL":          "5m",
				"EMAIL_CODE_MAX_ATTEMPTS": "3",
			},
			expected: func(cfg *Config) {
				assert.Equal(t, "smtp.example.com", cfg.SMTP.Host)
				assert.Equal(t, 2525, cfg.SMTP.Port)
				assert.Equal(t, 5*time.Minute, cfg.Verification.TTL)
				assert.Equal(t, 3, cfg.Verification.MaxAttempts)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for key, value := range tt.envVars {
				t.Setenv(key, value)
			}

			cfg, err := NewConfig(filepath.Join(t.TempDir(), "missing.env"))
			require.NoError(t, err)

			tt.expected(cfg)
		})
	}
}

func TestNewConfig_DotEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("MONGO_DATABASE=fromfile\nHTTP_PORT=7070\n"), 0o600))
	t.Setenv("HTTP_PORT", "6060")
	t.Cleanup(func() { os.Unsetenv("MONGO_DATABASE") })

	cfg, err := NewConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "fromfile", cfg.Mongo.Database)
	// real environment wins over the file
	assert.Equal(t, "6060", cfg.HTTP.Port)
}

func TestNewConfig_InvalidValue(t *testing.T) {
	t.Setenv("HTTP_MAX_UPLOAD_BYTES", "lots")

	_, err := NewConfig(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

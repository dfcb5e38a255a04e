package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Env:           "development",
		Port:          "8080",
		JWTSecret:     "secure-secret-at-least-32-chars-long",
		DBDriver:      "postgres",
		DBPassword:    "secure-password",
		DBSSLMode:     "require",
		StorageDriver: "local",
		UploadDir:     "./uploads",
		RedisURL:      "redis://localhost:6379",
	}
}

func TestConfig_ValidateSSLMode(t *testing.T) {
	tests := []struct {
		name        string
		env         string
		sslMode     string
		expectError bool
	}{
		{"Production with empty SSL mode", "production", "", true},
		{"Production with disable SSL mode", "production", "disable", true},
		{"Production with require SSL mode", "production", "require", false},
		{"Prod with verify-full SSL mode", "prod", "verify-full", false},
		{"Development with disable SSL mode", "development", "disable", false},
		{"Test with empty SSL mode", "test", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			c.Env = tt.env
			c.DBSSLMode = tt.sslMode

			err := c.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"missing port", func(c *Config) { c.Port = "" }, "PORT is required"},
		{"missing secret", func(c *Config) { c.JWTSecret = "" }, "JWT_SECRET is required"},
		{"unknown driver", func(c *Config) { c.DBDriver = "mysql" }, "unsupported DB_DRIVER"},
		{"unknown storage", func(c *Config) { c.StorageDriver = "ftp" }, "unsupported STORAGE_DRIVER"},
		{"s3 without bucket", func(c *Config) { c.StorageDriver = "s3" }, "S3_BUCKET"},
		{"s3 complete", func(c *Config) {
			c.StorageDriver = "s3"
			c.S3Bucket = "media"
			c.S3AccessKey = "key"
			c.S3SecretKey = "secret"
		}, ""},
		{"production default secret", func(c *Config) {
			c.Env = "production"
			c.JWTSecret = defaultJWTSecret
		}, "must be changed"},
		{"production short secret", func(c *Config) {
			c.Env = "production"
			c.JWTSecret = "short"
		}, "at least 32 characters"},
		{"production sqlite", func(c *Config) {
			c.Env = "production"
			c.DBDriver = "sqlite"
		}, "sqlite is not supported"},
		{"production weak db password", func(c *Config) {
			c.Env = "production"
			c.DBPassword = "password"
		}, "DB_PASSWORD"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_Durations(t *testing.T) {
	c := &Config{}
	assert.Equal(t, 30*24*time.Hour, c.SessionTTL())
	assert.Equal(t, 10*time.Second, c.RequestTimeout())

	c.SessionTTLHours = 2
	c.RequestTimeoutSeconds = 3
	assert.Equal(t, 2*time.Hour, c.SessionTTL())
	assert.Equal(t, 3*time.Second, c.RequestTimeout())
}

func TestLoadConfig_EnvOverridesAndNormalization(t *testing.T) {
	defer viper.Reset()

	t.Setenv("APP_ENV", "development")
	t.Setenv("DB_SSLMODE", "  DISABLE  ")
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("SESSION_TTL_HOURS", "48")

	c, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "disable", c.DBSSLMode)
	assert.Equal(t, "sqlite", c.DBDriver)
	assert.Equal(t, 48*time.Hour, c.SessionTTL())
	assert.Equal(t, "local", c.StorageDriver)
	assert.Equal(t, "info", c.LogLevel)
	assert.False(t, c.DevBootstrapDemo)
	assert.Equal(t, "demo@snapshare.local", c.DevDemoEmail)
}

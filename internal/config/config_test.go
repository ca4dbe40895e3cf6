package config

import (
	"os"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestConfig_Validate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Env:        "production",
			Port:       "8460",
			JWTSecret:  "secure-secret-at-least-32-chars-long",
			DBPassword: "secure-password",
			DBSSLMode:  "require",
			SMTPHost:   "smtp.example.com",
		}
	}

	tests := []struct {
		name        string
		mutate      func(*Config)
		expectError bool
	}{
		{"Production with full config", func(c *Config) {}, false},
		{"Missing port", func(c *Config) { c.Port = "" }, true},
		{"Missing JWT secret", func(c *Config) { c.JWTSecret = "" }, true},
		{"Default JWT secret in production", func(c *Config) {
			c.JWTSecret = "your-secret-key-change-in-production"
		}, true},
		{"Short JWT secret in production", func(c *Config) { c.JWTSecret = "short" }, true},
		{"Default DB password in production", func(c *Config) { c.DBPassword = "password" }, true},
		{"No SMTP host in production", func(c *Config) { c.SMTPHost = "" }, true},
		{"Development with defaults", func(c *Config) {
			c.Env = "development"
			c.JWTSecret = "your-secret-key-change-in-production"
			c.DBPassword = "password"
			c.SMTPHost = ""
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(c)

			err := c.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	defer os.Unsetenv("APP_ENV")
	defer os.Unsetenv("PORT")
	defer os.Unsetenv("BASE_URL")
	defer viper.Reset()

	os.Setenv("APP_ENV", "development")
	os.Setenv("PORT", "9999")
	os.Setenv("BASE_URL", "http://lumagram.local")

	c, err := LoadConfig()
	assert.NoError(t, err)
	assert.Equal(t, "9999", c.Port)
	assert.Equal(t, "http://lumagram.local", c.BaseURL)
	// untouched keys fall back to defaults
	assert.Equal(t, "localhost:6379", c.RedisURL)
	// tracing samples every trace unless dialed down
	assert.Equal(t, 1.0, c.TraceSamplerRatio)
}

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnv_Defaults(t *testing.T) {
	t.Setenv("GOCARDLESS_APP_ID", "app")
	t.Setenv("GOCARDLESS_APP_SECRET", "secret")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "sandbox", cfg.GoCardless.Environment)
	assert.Equal(t, 30*time.Second, cfg.GoCardless.Timeout)
	assert.Zero(t, cfg.GoCardless.RateLimit)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.False(t, cfg.Logger.Development)
	assert.Equal(t, "env", cfg.Secrets.Manager)
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	t.Setenv("GOCARDLESS_ENVIRONMENT", "production")
	t.Setenv("GOCARDLESS_APP_ID", "app")
	t.Setenv("GOCARDLESS_APP_SECRET_PATH", "gocardless/app-secret")
	t.Setenv("GOCARDLESS_TIMEOUT", "5")
	t.Setenv("GOCARDLESS_RATE_LIMIT", "2.5")
	t.Setenv("LOG_DEVELOPMENT", "true")
	t.Setenv("SECRET_MANAGER", "aws")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.GoCardless.Environment)
	assert.Equal(t, 5*time.Second, cfg.GoCardless.Timeout)
	assert.Equal(t, 2.5, cfg.GoCardless.RateLimit)
	assert.True(t, cfg.Logger.Development)
	assert.Equal(t, "aws", cfg.Secrets.Manager)
	assert.Equal(t, "gocardless/app-secret", cfg.Secrets.AppSecretPath)
}

func TestLoadFromEnv_Validation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "missing app id",
			env:     map[string]string{"GOCARDLESS_APP_SECRET": "s"},
			wantErr: "GOCARDLESS_APP_ID is required",
		},
		{
			name:    "missing app secret",
			env:     map[string]string{"GOCARDLESS_APP_ID": "a"},
			wantErr: "GOCARDLESS_APP_SECRET or GOCARDLESS_APP_SECRET_PATH is required",
		},
		{
			name: "unknown environment",
			env: map[string]string{
				"GOCARDLESS_APP_ID":      "a",
				"GOCARDLESS_APP_SECRET":  "s",
				"GOCARDLESS_ENVIRONMENT": "staging",
			},
			wantErr: `GOCARDLESS_ENVIRONMENT must be production or sandbox, got "staging"`,
		},
		{
			name: "negative rate limit",
			env: map[string]string{
				"GOCARDLESS_APP_ID":     "a",
				"GOCARDLESS_APP_SECRET": "s",
				"GOCARDLESS_RATE_LIMIT": "-1",
			},
			wantErr: "GOCARDLESS_RATE_LIMIT must not be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, key := range []string{"GOCARDLESS_APP_ID", "GOCARDLESS_APP_SECRET", "GOCARDLESS_APP_SECRET_PATH", "GOCARDLESS_ENVIRONMENT", "GOCARDLESS_RATE_LIMIT"} {
				t.Setenv(key, "")
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := LoadFromEnv()
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}

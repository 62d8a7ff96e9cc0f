package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all CLI configuration
type Config struct {
	GoCardless GoCardlessConfig
	Logger     LoggerConfig
	Secrets    SecretsConfig
}

// GoCardlessConfig holds API credentials and client tuning
type GoCardlessConfig struct {
	Environment string // production or sandbox
	BaseURL     string // Overrides Environment when set
	AppID       string
	AppSecret   string
	AccessToken string
	MerchantID  string
	Timeout     time.Duration
	RateLimit   float64 // Requests per second, 0 disables limiting
}

// LoggerConfig holds logging configuration
type LoggerConfig struct {
	Level       string // debug, info, warn, error
	Development bool
}

// SecretsConfig selects where credentials missing from the environment are read from
type SecretsConfig struct {
	Manager         string // env, local, aws, vault
	AppSecretPath   string
	AccessTokenPath string
	AWSRegion       string
	VaultAddr       string
	VaultToken      string
	LocalPath       string
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		GoCardless: GoCardlessConfig{
			Environment: getEnv("GOCARDLESS_ENVIRONMENT", "sandbox"),
			BaseURL:     getEnv("GOCARDLESS_BASE_URL", ""),
			AppID:       getEnv("GOCARDLESS_APP_ID", ""),
			AppSecret:   getEnv("GOCARDLESS_APP_SECRET", ""),
			AccessToken: getEnv("GOCARDLESS_ACCESS_TOKEN", ""),
			MerchantID:  getEnv("GOCARDLESS_MERCHANT_ID", ""),
			Timeout:     time.Duration(getEnvAsInt("GOCARDLESS_TIMEOUT", 30)) * time.Second,
			RateLimit:   getEnvAsFloat("GOCARDLESS_RATE_LIMIT", 0),
		},
		Logger: LoggerConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			Development: getEnvAsBool("LOG_DEVELOPMENT", false),
		},
		Secrets: SecretsConfig{
			Manager:         getEnv("SECRET_MANAGER", "env"),
			AppSecretPath:   getEnv("GOCARDLESS_APP_SECRET_PATH", ""),
			AccessTokenPath: getEnv("GOCARDLESS_ACCESS_TOKEN_PATH", ""),
			AWSRegion:       getEnv("AWS_REGION", "eu-west-1"),
			VaultAddr:       getEnv("VAULT_ADDR", "http://127.0.0.1:8200"),
			VaultToken:      getEnv("VAULT_TOKEN", ""),
			LocalPath:       getEnv("LOCAL_SECRETS_PATH", "./secrets"),
		},
	}

	// Validate required fields
	if cfg.GoCardless.AppID == "" {
		return nil, fmt.Errorf("GOCARDLESS_APP_ID is required")
	}
	if cfg.GoCardless.AppSecret == "" && cfg.Secrets.AppSecretPath == "" {
		return nil, fmt.Errorf("GOCARDLESS_APP_SECRET or GOCARDLESS_APP_SECRET_PATH is required")
	}
	switch cfg.GoCardless.Environment {
	case "production", "sandbox":
	default:
		return nil, fmt.Errorf("GOCARDLESS_ENVIRONMENT must be production or sandbox, got %q", cfg.GoCardless.Environment)
	}
	if cfg.GoCardless.RateLimit < 0 {
		return nil, fmt.Errorf("GOCARDLESS_RATE_LIMIT must not be negative")
	}

	return cfg, nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

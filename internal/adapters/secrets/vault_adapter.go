package secrets

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	vault "github.com/hashicorp/vault/api"
	"github.com/kevin07696/gocardless-go/internal/adapters/ports"
	"go.uber.org/zap"
)

// VaultConfig contains configuration for the Vault adapter
type VaultConfig struct {
	Address   string
	Token     string
	Namespace string

	// KV engine version, 1 or 2
	KVVersion int

	// Zero disables caching
	CacheTTL time.Duration
}

// DefaultVaultConfig returns default configuration for a KV v2 mount
func DefaultVaultConfig(address, token string) *VaultConfig {
	return &VaultConfig{
		Address:   address,
		Token:     token,
		KVVersion: 2,
		CacheTTL:  DefaultCacheTTL,
	}
}

type vaultAdapter struct {
	client    *vault.Client
	kvVersion int
	logger    *zap.Logger
	cache     *secretCache
}

// NewVaultAdapter creates a token-authenticated Vault adapter
func NewVaultAdapter(cfg *VaultConfig, logger *zap.Logger) (ports.SecretManagerAdapter, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("token is required for token auth")
	}

	vaultConfig := vault.DefaultConfig()
	vaultConfig.Address = cfg.Address

	client, err := vault.NewClient(vaultConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Vault client: %w", err)
	}
	if cfg.Namespace != "" {
		client.SetNamespace(cfg.Namespace)
	}
	client.SetToken(cfg.Token)

	kvVersion := cfg.KVVersion
	if kvVersion == 0 {
		kvVersion = 2
	}

	logger.Info("Vault adapter initialized",
		zap.String("address", cfg.Address),
		zap.Int("kv_version", kvVersion),
	)

	return &vaultAdapter{
		client:    client,
		kvVersion: kvVersion,
		logger:    logger,
		cache:     newSecretCache(cfg.CacheTTL),
	}, nil
}

// GetSecret reads the "value" key of the secret at path
func (a *vaultAdapter) GetSecret(ctx context.Context, path string) (*ports.Secret, error) {
	if cached := a.cache.get(path); cached != nil {
		return cached, nil
	}

	fullPath := strings.TrimPrefix(path, "/")
	secret, err := a.client.Logical().ReadWithContext(ctx, fullPath)
	if err != nil {
		a.logger.Error("Failed to retrieve secret from Vault",
			zap.String("path", path),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to read secret from Vault: %w", err)
	}
	if secret == nil || secret.Data == nil {
		return nil, fmt.Errorf("secret not found: %s", path)
	}

	data := secret.Data
	version := ""
	if a.kvVersion == 2 {
		inner, ok := secret.Data["data"].(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("secret %s has no data (is the mount KV v2?)", path)
		}
		data = inner
		if meta, ok := secret.Data["metadata"].(map[string]interface{}); ok && meta["version"] != nil {
			version = fmt.Sprint(meta["version"])
		}
	}

	value, ok := data["value"].(string)
	if !ok {
		return nil, fmt.Errorf("secret %s has no string value", path)
	}

	result := &ports.Secret{Value: value, Version: version}
	a.cache.set(path, result)
	return result, nil
}

// parseSecretValue accepts plain text or a JSON object carrying a "value" key
func parseSecretValue(data []byte) string {
	var wrapped struct {
		Value *string `json:"value"`
	}
	if err := json.Unmarshal(data, &wrapped); err == nil && wrapped.Value != nil {
		return *wrapped.Value
	}
	return strings.TrimSpace(string(data))
}

package secrets

import (
	"context"
	"fmt"

	"github.com/kevin07696/gocardless-go/internal/adapters/ports"
	"go.uber.org/zap"
)

// Backend names accepted by NewSecretManager
const (
	BackendEnv   = "env"
	BackendLocal = "local"
	BackendAWS   = "aws"
	BackendVault = "vault"
)

// Settings selects and configures a secret backend
type Settings struct {
	Backend     string
	LocalPath   string
	AWSRegion   string
	AWSProfile  string
	AWSEndpoint string
	VaultAddr   string
	VaultToken  string
}

// NewSecretManager builds the adapter named by s.Backend. An empty backend means env.
func NewSecretManager(ctx context.Context, s Settings, logger *zap.Logger) (ports.SecretManagerAdapter, error) {
	switch s.Backend {
	case "", BackendEnv:
		return NewEnvSecretManager(), nil
	case BackendLocal:
		return NewLocalSecretManager(s.LocalPath, logger), nil
	case BackendAWS:
		cfg := DefaultAWSSecretsManagerConfig(s.AWSRegion)
		cfg.Profile = s.AWSProfile
		cfg.Endpoint = s.AWSEndpoint
		return NewAWSSecretsManagerAdapter(ctx, cfg, logger)
	case BackendVault:
		return NewVaultAdapter(DefaultVaultConfig(s.VaultAddr, s.VaultToken), logger)
	default:
		return nil, fmt.Errorf("unknown secret manager %q", s.Backend)
	}
}

package secrets

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kevin07696/gocardless-go/internal/adapters/ports"
	"go.uber.org/zap"
)

// localSecretManager reads secrets from files under a base directory.
// WARNING: development only. Use AWS Secrets Manager or Vault in production.
type localSecretManager struct {
	basePath string
	logger   *zap.Logger
}

// NewLocalSecretManager creates a filesystem-backed secret manager
func NewLocalSecretManager(basePath string, logger *zap.Logger) ports.SecretManagerAdapter {
	return &localSecretManager{
		basePath: basePath,
		logger:   logger,
	}
}

// GetSecret reads a file as plain text or as JSON {"value": ...}
func (m *localSecretManager) GetSecret(ctx context.Context, secretPath string) (*ports.Secret, error) {
	m.logger.Debug("Reading secret from filesystem", zap.String("path", secretPath))

	data, err := os.ReadFile(filepath.Join(m.basePath, secretPath))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("secret not found: %s", secretPath)
		}
		return nil, fmt.Errorf("failed to read secret: %w", err)
	}

	return &ports.Secret{Value: parseSecretValue(data)}, nil
}

package secrets

import (
	"context"
	"fmt"
	"os"

	"github.com/kevin07696/gocardless-go/internal/adapters/ports"
)

type envSecretManager struct{}

// NewEnvSecretManager resolves a secret path as an environment variable name
func NewEnvSecretManager() ports.SecretManagerAdapter {
	return envSecretManager{}
}

func (envSecretManager) GetSecret(_ context.Context, path string) (*ports.Secret, error) {
	value, ok := os.LookupEnv(path)
	if !ok || value == "" {
		return nil, fmt.Errorf("secret not found: %s", path)
	}
	return &ports.Secret{Value: value}, nil
}

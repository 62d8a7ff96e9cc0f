package ports

import "context"

// Secret represents a retrieved secret with metadata
type Secret struct {
	Value   string // The secret value (app secret or access token)
	Version string // Backend version identifier, empty when the backend has none
}

// SecretManagerAdapter resolves credentials from a secret store.
// Path format depends on the backend:
//   - AWS: "gocardless/app-secret" (secret name or ARN)
//   - Vault: "secret/data/gocardless" (KV v2, value under the "value" key)
//   - Local: file name relative to the secrets directory
type SecretManagerAdapter interface {
	GetSecret(ctx context.Context, path string) (*Secret, error)
}

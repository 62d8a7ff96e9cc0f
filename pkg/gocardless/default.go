package gocardless

import (
	"context"
	"sync"

	pkgerrors "github.com/kevin07696/gocardless-go/pkg/errors"
	"github.com/kevin07696/gocardless-go/pkg/resources"
)

var (
	defaultMu     sync.RWMutex
	defaultClient *Client
)

// SetDetails configures the process-wide client used by the package-level
// Find helpers. All four credentials are required. Prefer passing a *Client
// explicitly; this exists for applications configured once at startup.
func SetDetails(details AccountDetails, opts ...Option) error {
	required := []struct{ field, value string }{
		{"app_id", details.AppID},
		{"app_secret", details.AppSecret},
		{"access_token", details.AccessToken},
		{"merchant_id", details.MerchantID},
	}
	for _, r := range required {
		if r.value == "" {
			return pkgerrors.NewConfigError(r.field, r.field+" is required")
		}
	}

	client, err := New(details, opts...)
	if err != nil {
		return err
	}

	defaultMu.Lock()
	defaultClient = client
	defaultMu.Unlock()
	return nil
}

// Default returns the client configured by SetDetails
func Default() (*Client, error) {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	if defaultClient == nil {
		return nil, &pkgerrors.ConfigError{
			Field:   "client",
			Message: pkgerrors.ErrNoDefaultClient.Error(),
			Err:     pkgerrors.ErrNoDefaultClient,
		}
	}
	return defaultClient, nil
}

func withDefault[T any](fn func(*Client) (T, error)) (T, error) {
	c, err := Default()
	if err != nil {
		var zero T
		return zero, err
	}
	return fn(c)
}

// FindMerchant fetches a merchant with the default client
func FindMerchant(ctx context.Context, id string) (*resources.Merchant, error) {
	return withDefault(func(c *Client) (*resources.Merchant, error) {
		return resources.FindMerchant(ctx, c, c.registry, id)
	})
}

// FindUser fetches a user with the default client
func FindUser(ctx context.Context, id string) (*resources.User, error) {
	return withDefault(func(c *Client) (*resources.User, error) { return c.User(ctx, id) })
}

// FindBill fetches a bill with the default client
func FindBill(ctx context.Context, id string) (*resources.Bill, error) {
	return withDefault(func(c *Client) (*resources.Bill, error) { return c.Bill(ctx, id) })
}

// FindSubscription fetches a subscription with the default client
func FindSubscription(ctx context.Context, id string) (*resources.Subscription, error) {
	return withDefault(func(c *Client) (*resources.Subscription, error) { return c.Subscription(ctx, id) })
}

// FindPreAuthorization fetches a pre-authorization with the default client
func FindPreAuthorization(ctx context.Context, id string) (*resources.PreAuthorization, error) {
	return withDefault(func(c *Client) (*resources.PreAuthorization, error) { return c.PreAuthorization(ctx, id) })
}

// FindPayout fetches a payout with the default client
func FindPayout(ctx context.Context, id string) (*resources.Payout, error) {
	return withDefault(func(c *Client) (*resources.Payout, error) { return c.Payout(ctx, id) })
}

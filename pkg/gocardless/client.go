// Package gocardless is a client for the GoCardless partner API: it builds
// signed redirect URLs for new bills, subscriptions and pre-authorizations,
// confirms the resources a payer created, runs the OAuth merchant flow and
// fetches API resources.
package gocardless

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/kevin07696/gocardless-go/internal/adapters/ports"
	"github.com/kevin07696/gocardless-go/internal/transport"
	pkgerrors "github.com/kevin07696/gocardless-go/pkg/errors"
	pkghttp "github.com/kevin07696/gocardless-go/pkg/http"
	"github.com/kevin07696/gocardless-go/pkg/logging"
	"github.com/kevin07696/gocardless-go/pkg/resources"
	"github.com/kevin07696/gocardless-go/pkg/timeutil"
	"github.com/shopspring/decimal"
)

// Version is reported in the User-Agent header
const Version = "1.0.0"

// AccountDetails are the partner application credentials and, once a
// merchant has authorized the app, that merchant's access token and id
type AccountDetails struct {
	AppID       string
	AppSecret   string
	AccessToken string
	MerchantID  string
}

// Client is safe for concurrent use. FetchAccessToken rewrites the merchant
// credentials, so they are guarded by a lock.
type Client struct {
	mu          sync.RWMutex
	appID       string
	appSecret   string
	accessToken string
	merchantID  string

	baseURL   string
	transport *transport.Transport
	logger    ports.Logger
	registry  *resources.Registry
	now       func() time.Time
	random    io.Reader
}

var _ resources.API = (*Client)(nil)

// New creates a client. AppID and AppSecret are required; the access token
// and merchant id may be filled in later by FetchAccessToken.
func New(details AccountDetails, opts ...Option) (*Client, error) {
	if details.AppID == "" {
		return nil, pkgerrors.NewConfigError("app_id", "app id is required")
	}
	if details.AppSecret == "" {
		return nil, pkgerrors.NewConfigError("app_secret", "app secret is required")
	}

	o := &options{
		environment: Production,
		timeout:     defaultTimeout,
	}
	for _, opt := range opts {
		opt(o)
	}

	baseURL := o.baseURL
	if baseURL == "" {
		var ok bool
		if baseURL, ok = o.environment.BaseURL(); !ok {
			return nil, pkgerrors.NewConfigError("environment", fmt.Sprintf("unknown environment %q", o.environment))
		}
	}
	if o.httpClient == nil {
		o.httpClient = pkghttp.NewHTTPClient(pkghttp.DefaultClientConfig(), o.timeout)
	}
	if o.logger == nil {
		o.logger = logging.NewNop()
	}
	if o.registry == nil {
		o.registry = resources.DefaultRegistry()
	}
	if o.now == nil {
		o.now = timeutil.Now
	}

	tOpts := []transport.Option{transport.WithUserAgent("gocardless-go/" + Version)}
	if o.limiter != nil {
		tOpts = append(tOpts, transport.WithRateLimiter(o.limiter))
	}

	return &Client{
		appID:       details.AppID,
		appSecret:   details.AppSecret,
		accessToken: details.AccessToken,
		merchantID:  details.MerchantID,
		baseURL:     baseURL,
		transport:   transport.New(o.httpClient, o.logger, tOpts...),
		logger:      o.logger,
		registry:    o.registry,
		now:         o.now,
		random:      o.random,
	}, nil
}

// BaseURL returns the root URL the client targets
func (c *Client) BaseURL() string { return c.baseURL }

// AppID returns the partner application id
func (c *Client) AppID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.appID
}

// AccessToken returns the merchant access token, empty before authorization
func (c *Client) AccessToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.accessToken
}

// MerchantID returns the authorized merchant's id
func (c *Client) MerchantID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.merchantID
}

func (c *Client) appCredentials() (string, string) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.appID, c.appSecret
}

func (c *Client) apiURL(path string) string {
	return c.baseURL + resources.APIPrefix + path
}

// Get implements resources.API
func (c *Client) Get(ctx context.Context, path string, params map[string]string) (interface{}, error) {
	return c.merchantRequest(ctx, http.MethodGet, path, params, nil)
}

// Post implements resources.API
func (c *Client) Post(ctx context.Context, path string, body interface{}) (interface{}, error) {
	return c.merchantRequest(ctx, http.MethodPost, path, nil, body)
}

// Put implements resources.API
func (c *Client) Put(ctx context.Context, path string, body interface{}) (interface{}, error) {
	return c.merchantRequest(ctx, http.MethodPut, path, nil, body)
}

// Delete implements resources.API
func (c *Client) Delete(ctx context.Context, path string) (interface{}, error) {
	return c.merchantRequest(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) merchantRequest(ctx context.Context, method, path string, params map[string]string, body interface{}) (interface{}, error) {
	token := c.AccessToken()
	if token == "" {
		return nil, pkgerrors.NewConfigError("access_token", "an access token is required for API calls")
	}
	return c.request(ctx, transport.Request{
		Method: method,
		URL:    c.apiURL(path),
		Query:  params,
		Body:   body,
		Auth:   transport.BearerAuth{Token: token},
	})
}

func (c *Client) appRequest(ctx context.Context, method, url string, body interface{}) (interface{}, error) {
	appID, appSecret := c.appCredentials()
	return c.request(ctx, transport.Request{
		Method: method,
		URL:    url,
		Body:   body,
		Auth:   transport.BasicAuth{Username: appID, Password: appSecret},
	})
}

// request sends req and turns an "error"/"errors" body into an APIError
func (c *Client) request(ctx context.Context, req transport.Request) (interface{}, error) {
	data, err := c.transport.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	if apiErr := apiErrorFrom(data); apiErr != nil {
		c.logger.Warn("GoCardless API returned an error",
			ports.String("method", req.Method),
			ports.String("error_message", apiErr.Message),
		)
		return nil, apiErr
	}
	return data, nil
}

func apiErrorFrom(data interface{}) *pkgerrors.APIError {
	m, ok := data.(map[string]interface{})
	if !ok {
		return nil
	}
	if payload, ok := m["error"]; ok {
		return pkgerrors.NewAPIError(payload)
	}
	if payload, ok := m["errors"]; ok {
		return pkgerrors.NewAPIError(payload)
	}
	return nil
}

func (c *Client) requireMerchantID() (string, error) {
	id := c.MerchantID()
	if id == "" {
		return "", pkgerrors.NewConfigError("merchant_id", "a merchant id is required")
	}
	return id, nil
}

// Merchant fetches the authorized merchant
func (c *Client) Merchant(ctx context.Context) (*resources.Merchant, error) {
	id, err := c.requireMerchantID()
	if err != nil {
		return nil, err
	}
	return resources.FindMerchant(ctx, c, c.registry, id)
}

// Users lists the authorized merchant's customers
func (c *Client) Users(ctx context.Context, params map[string]string) ([]*resources.User, error) {
	id, err := c.requireMerchantID()
	if err != nil {
		return nil, err
	}
	coll, err := resources.NewCollection(c.registry, "users", fmt.Sprintf("/merchants/%s/users", id), c)
	if err != nil {
		return nil, err
	}
	items, err := coll.List(ctx, params)
	if err != nil {
		return nil, err
	}
	users := make([]*resources.User, 0, len(items))
	for _, item := range items {
		u, err := resources.AsUser(item)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}

// Find fetches any registered resource type by name, e.g. "bill" or "pre_authorization"
func (c *Client) Find(ctx context.Context, name, id string) (*resources.Resource, error) {
	return resources.Find(ctx, c, c.registry, name, id)
}

// User fetches a customer by id
func (c *Client) User(ctx context.Context, id string) (*resources.User, error) {
	return resources.FindUser(ctx, c, c.registry, id)
}

// Bill fetches a bill by id
func (c *Client) Bill(ctx context.Context, id string) (*resources.Bill, error) {
	return resources.FindBill(ctx, c, c.registry, id)
}

// Subscription fetches a subscription by id
func (c *Client) Subscription(ctx context.Context, id string) (*resources.Subscription, error) {
	return resources.FindSubscription(ctx, c, c.registry, id)
}

// PreAuthorization fetches a pre-authorization by id
func (c *Client) PreAuthorization(ctx context.Context, id string) (*resources.PreAuthorization, error) {
	return resources.FindPreAuthorization(ctx, c, c.registry, id)
}

// Payout fetches a payout by id
func (c *Client) Payout(ctx context.Context, id string) (*resources.Payout, error) {
	return resources.FindPayout(ctx, c, c.registry, id)
}

// CreateBill raises a bill under an existing pre-authorization
func (c *Client) CreateBill(ctx context.Context, amount decimal.Decimal, preAuthID string, opts resources.BillOptions) (*resources.Bill, error) {
	if !amount.IsPositive() {
		return nil, pkgerrors.NewValidationError("amount", fmt.Sprintf("amount must be positive, value passed was %s", amount.String()))
	}
	if preAuthID == "" {
		return nil, pkgerrors.NewValidationError("pre_authorization_id", "pre_authorization_id is required")
	}
	return resources.CreateBill(ctx, c, c.registry, amount, preAuthID, opts)
}

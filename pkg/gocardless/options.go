package gocardless

import (
	"io"
	"time"

	"github.com/kevin07696/gocardless-go/internal/adapters/ports"
	pkghttp "github.com/kevin07696/gocardless-go/pkg/http"
	"github.com/kevin07696/gocardless-go/pkg/logging"
	"github.com/kevin07696/gocardless-go/pkg/resources"
	"golang.org/x/time/rate"
)

// Environment selects which GoCardless deployment the client talks to
type Environment string

const (
	Production Environment = "production"
	Sandbox    Environment = "sandbox"
)

var baseURLs = map[Environment]string{
	Production: "https://gocardless.com",
	Sandbox:    "https://sandbox.gocardless.com",
}

// BaseURL returns the root URL of the environment
func (e Environment) BaseURL() (string, bool) {
	u, ok := baseURLs[e]
	return u, ok
}

const defaultTimeout = 30 * time.Second

type options struct {
	environment Environment
	baseURL     string
	httpClient  ports.HTTPClient
	timeout     time.Duration
	logger      ports.Logger
	limiter     *rate.Limiter
	registry    *resources.Registry
	now         func() time.Time
	random      io.Reader
}

// Option configures a Client
type Option func(*options)

// WithEnvironment selects production or sandbox. Production is the default.
func WithEnvironment(env Environment) Option {
	return func(o *options) {
		o.environment = env
	}
}

// WithBaseURL overrides the environment's base URL
func WithBaseURL(baseURL string) Option {
	return func(o *options) {
		o.baseURL = baseURL
	}
}

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(c pkghttp.Doer) Option {
	return func(o *options) {
		o.httpClient = c
	}
}

// WithTimeout sets the timeout of the default HTTP client.
// It has no effect together with WithHTTPClient.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// WithLogger sets the structured logger. Use logging.NewLogger for zap, or
// implement logging.Logger.
func WithLogger(logger logging.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithRateLimiter throttles outgoing API requests
func WithRateLimiter(limiter *rate.Limiter) Option {
	return func(o *options) {
		o.limiter = limiter
	}
}

// WithRegistry replaces the resource type registry
func WithRegistry(reg *resources.Registry) Option {
	return func(o *options) {
		o.registry = reg
	}
}

// WithClock sets the clock used for URL timestamps and date validation
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithRandom sets the entropy source for URL nonces
func WithRandom(r io.Reader) Option {
	return func(o *options) {
		o.random = r
	}
}

package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/kevin07696/gocardless-go/internal/adapters/ports"
	pkgerrors "github.com/kevin07696/gocardless-go/pkg/errors"
	"github.com/kevin07696/gocardless-go/pkg/encoding"
	"github.com/kevin07696/gocardless-go/pkg/observability"
	"golang.org/x/time/rate"
)

// DefaultUserAgent is sent when no WithUserAgent option is given
const DefaultUserAgent = "gocardless-go"

// Auth decorates an outgoing request with credentials
type Auth interface {
	Apply(req *http.Request)
}

// BearerAuth authenticates as a merchant with an OAuth access token
type BearerAuth struct {
	Token string
}

// Apply implements Auth
func (a BearerAuth) Apply(req *http.Request) {
	req.Header.Set("Authorization", "bearer "+a.Token)
}

// BasicAuth authenticates as the partner application
type BasicAuth struct {
	Username string
	Password string
}

// Apply implements Auth
func (a BasicAuth) Apply(req *http.Request) {
	req.SetBasicAuth(a.Username, a.Password)
}

// Request is one API call
type Request struct {
	Method string
	URL    string
	// Query is merged into any query string URL already carries
	Query map[string]string
	// Body is JSON-encoded when non-nil
	Body interface{}
	Auth Auth
}

// Transport performs JSON requests against the API. It never retries.
type Transport struct {
	httpClient ports.HTTPClient
	logger     ports.Logger
	limiter    *rate.Limiter
	userAgent  string
}

// Option configures a Transport
type Option func(*Transport)

// WithRateLimiter makes every request wait for a token first
func WithRateLimiter(limiter *rate.Limiter) Option {
	return func(t *Transport) {
		t.limiter = limiter
	}
}

// WithUserAgent overrides the User-Agent header
func WithUserAgent(userAgent string) Option {
	return func(t *Transport) {
		t.userAgent = userAgent
	}
}

// New creates a Transport with dependency injection
func New(httpClient ports.HTTPClient, logger ports.Logger, opts ...Option) *Transport {
	t := &Transport{
		httpClient: httpClient,
		logger:     logger,
		userAgent:  DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func validMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete:
		return true
	}
	return false
}

// Do sends req and returns the decoded JSON body, numbers kept as json.Number.
// Non-2xx responses with a JSON body are returned as data for the caller to
// inspect; an empty body decodes to nil.
func (t *Transport) Do(ctx context.Context, req Request) (interface{}, error) {
	if !validMethod(req.Method) {
		return nil, fmt.Errorf("%w: %s", pkgerrors.ErrInvalidMethod, req.Method)
	}

	target, err := buildURL(req.URL, req.Query)
	if err != nil {
		return nil, err
	}

	var body io.Reader
	if req.Body != nil {
		payload, err := encoding.EncodeJSON(req.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.NewString()
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", t.userAgent)
	httpReq.Header.Set("X-Request-Id", requestID)
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.Auth != nil {
		req.Auth.Apply(httpReq)
	}

	if t.limiter != nil {
		if err := t.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	t.logDebug("sending request to GoCardless",
		ports.String("method", req.Method),
		ports.String("path", httpReq.URL.Path),
		ports.String("request_id", requestID),
	)

	start := time.Now()
	httpResp, err := t.httpClient.Do(httpReq)
	if err != nil {
		observability.RecordAPIRequest(req.Method, 0, time.Since(start))
		t.logError("request to GoCardless failed",
			ports.String("method", req.Method),
			ports.String("path", httpReq.URL.Path),
			ports.String("request_id", requestID),
			ports.Err(err),
		)
		return nil, pkgerrors.NewTransportError(req.Method, redact(httpReq.URL), err)
	}
	defer httpResp.Body.Close()

	raw, err := encoding.ReadAll(httpResp.Body)
	elapsed := time.Since(start)
	observability.RecordAPIRequest(req.Method, httpResp.StatusCode, elapsed)
	if err != nil {
		return nil, pkgerrors.NewTransportError(req.Method, redact(httpReq.URL), fmt.Errorf("failed to read response body: %w", err))
	}

	t.logDebug("received response from GoCardless",
		ports.String("request_id", requestID),
		ports.Int("status", httpResp.StatusCode),
		ports.Duration("elapsed", elapsed),
	)

	data, err := encoding.DecodeJSON(raw)
	if err != nil {
		if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
			return nil, &pkgerrors.APIError{
				Message:    fmt.Sprintf("Error calling api, status was %d", httpResp.StatusCode),
				StatusCode: httpResp.StatusCode,
				Payload:    string(raw),
			}
		}
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return data, nil
}

func buildURL(rawURL string, query map[string]string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid request url: %w", err)
	}
	if len(query) > 0 {
		q := u.Query()
		for k, v := range query {
			q.Set(k, v)
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// redact drops the query string, which may carry caller-supplied identifiers
func redact(u *url.URL) string {
	clean := *u
	clean.RawQuery = ""
	clean.User = nil
	return clean.String()
}

func (t *Transport) logDebug(msg string, fields ...ports.Field) {
	if t.logger != nil {
		t.logger.Debug(msg, fields...)
	}
}

func (t *Transport) logError(msg string, fields ...ports.Field) {
	if t.logger != nil {
		t.logger.Error(msg, fields...)
	}
}

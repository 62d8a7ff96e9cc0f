package transport

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	pkgerrors "github.com/kevin07696/gocardless-go/pkg/errors"
	"github.com/kevin07696/gocardless-go/test/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

type capturedRequest struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   []byte
}

func newCaptureServer(t *testing.T, status int, body string) (*httptest.Server, *capturedRequest) {
	t.Helper()
	captured := &capturedRequest{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.Method = r.Method
		captured.Path = r.URL.Path
		captured.Query = r.URL.RawQuery
		captured.Header = r.Header.Clone()
		captured.Body, _ = io.ReadAll(r.Body)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server, captured
}

func TestDo_GetWithBearerAuth(t *testing.T) {
	server, captured := newCaptureServer(t, http.StatusOK, `{"id":"B1","interval_length":1}`)
	logger := mocks.NewMockLogger()
	tr := New(server.Client(), logger, WithUserAgent("gocardless-go/1.0.0"))

	data, err := tr.Do(context.Background(), Request{
		Method: http.MethodGet,
		URL:    server.URL + "/api/v1/merchants/M1/bills?source_id=1580",
		Query:  map[string]string{"status": "paid"},
		Auth:   BearerAuth{Token: "tok"},
	})
	require.NoError(t, err)

	m := data.(map[string]interface{})
	assert.Equal(t, "B1", m["id"])
	assert.Equal(t, json.Number("1"), m["interval_length"])

	assert.Equal(t, http.MethodGet, captured.Method)
	assert.Equal(t, "/api/v1/merchants/M1/bills", captured.Path)
	assert.Equal(t, "source_id=1580&status=paid", captured.Query)
	assert.Equal(t, "bearer tok", captured.Header.Get("Authorization"))
	assert.Equal(t, "application/json", captured.Header.Get("Accept"))
	assert.Equal(t, "gocardless-go/1.0.0", captured.Header.Get("User-Agent"))
	assert.Empty(t, captured.Header.Get("Content-Type"))
	_, err = uuid.Parse(captured.Header.Get("X-Request-Id"))
	assert.NoError(t, err)

	require.Len(t, logger.DebugCalls, 2)
	assert.Empty(t, logger.ErrorCalls)
}

func TestDo_PostWithBasicAuth(t *testing.T) {
	server, captured := newCaptureServer(t, http.StatusCreated, `{"success":true}`)
	tr := New(server.Client(), nil)

	_, err := tr.Do(context.Background(), Request{
		Method: http.MethodPost,
		URL:    server.URL + "/api/v1/confirm",
		Body:   map[string]interface{}{"resource_id": "1", "resource_type": "bill"},
		Auth:   BasicAuth{Username: "app", Password: "secret"},
	})
	require.NoError(t, err)

	assert.Equal(t, "application/json", captured.Header.Get("Content-Type"))
	assert.Equal(t, DefaultUserAgent, captured.Header.Get("User-Agent"))
	user, pass, ok := (&http.Request{Header: captured.Header}).BasicAuth()
	require.True(t, ok)
	assert.Equal(t, "app", user)
	assert.Equal(t, "secret", pass)
	assert.JSONEq(t, `{"resource_id":"1","resource_type":"bill"}`, string(captured.Body))
}

func TestDo_ResponseBodies(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		want       interface{}
		wantStatus int
	}{
		{name: "empty body", status: http.StatusOK, body: "", want: nil},
		{name: "list body", status: http.StatusOK, body: `[{"id":"1"}]`, want: []interface{}{map[string]interface{}{"id": "1"}}},
		{name: "error json is data", status: http.StatusUnprocessableEntity, body: `{"error":["Amount too low"]}`, want: map[string]interface{}{"error": []interface{}{"Amount too low"}}},
		{name: "non-json error page", status: http.StatusBadGateway, body: "<html>bad gateway</html>", wantStatus: http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, _ := newCaptureServer(t, tt.status, tt.body)
			tr := New(server.Client(), nil)

			data, err := tr.Do(context.Background(), Request{Method: http.MethodGet, URL: server.URL + "/api/v1/x"})
			if tt.wantStatus != 0 {
				var apiErr *pkgerrors.APIError
				require.ErrorAs(t, err, &apiErr)
				assert.Equal(t, tt.wantStatus, apiErr.StatusCode)
				assert.Equal(t, tt.body, apiErr.Payload)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, data)
		})
	}
}

func TestDo_MalformedSuccessBody(t *testing.T) {
	server, _ := newCaptureServer(t, http.StatusOK, `{"id":`)
	tr := New(server.Client(), nil)

	_, err := tr.Do(context.Background(), Request{Method: http.MethodGet, URL: server.URL})
	require.Error(t, err)
	var apiErr *pkgerrors.APIError
	assert.False(t, errors.As(err, &apiErr))
}

func TestDo_NetworkError(t *testing.T) {
	client := mocks.NewMockHTTPClient(func(req *http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	})
	logger := mocks.NewMockLogger()
	tr := New(client, logger)

	_, err := tr.Do(context.Background(), Request{
		Method: http.MethodGet,
		URL:    "https://gocardless.com/api/v1/bills/1?secret=x",
	})

	var tErr *pkgerrors.TransportError
	require.ErrorAs(t, err, &tErr)
	assert.Equal(t, http.MethodGet, tErr.Method)
	assert.Equal(t, "https://gocardless.com/api/v1/bills/1", tErr.URL)
	assert.Contains(t, err.Error(), "connection refused")
	assert.Equal(t, 1, client.CallCount(), "no retries")
	require.Len(t, logger.ErrorCalls, 1)
	_, ok := logger.ErrorCalls[0].Field("error")
	assert.True(t, ok)
}

func TestDo_InvalidMethod(t *testing.T) {
	client := mocks.NewMockHTTPClient(nil)
	tr := New(client, nil)

	_, err := tr.Do(context.Background(), Request{Method: http.MethodPatch, URL: "https://gocardless.com"})
	assert.ErrorIs(t, err, pkgerrors.ErrInvalidMethod)
	assert.Equal(t, 0, client.CallCount())
}

func TestDo_RateLimiterHonoursContext(t *testing.T) {
	client := mocks.NewMockHTTPClient(nil)
	limiter := rate.NewLimiter(rate.Limit(0.001), 1)
	require.True(t, limiter.Allow())
	tr := New(client, nil, WithRateLimiter(limiter))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := tr.Do(ctx, Request{Method: http.MethodGet, URL: "https://gocardless.com/api/v1/bills/1"})
	require.Error(t, err)
	assert.Equal(t, 0, client.CallCount())
}

func TestDo_UnencodableBody(t *testing.T) {
	client := mocks.NewMockHTTPClient(nil)
	tr := New(client, nil)

	_, err := tr.Do(context.Background(), Request{
		Method: http.MethodPost,
		URL:    "https://gocardless.com/api/v1/bills",
		Body:   map[string]interface{}{"bad": func() {}},
	})
	require.Error(t, err)
	assert.Equal(t, 0, client.CallCount())
}

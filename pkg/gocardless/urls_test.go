package gocardless

import (
	"bytes"
	"net/url"
	"strings"
	"testing"
	"time"

	pkgerrors "github.com/kevin07696/gocardless-go/pkg/errors"
	"github.com/kevin07696/gocardless-go/pkg/urlbuilder"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseQuery(t *testing.T, rawURL string) (*url.URL, url.Values) {
	t.Helper()
	u, err := url.Parse(rawURL)
	require.NoError(t, err)
	q, err := url.ParseQuery(u.RawQuery)
	require.NoError(t, err)
	return u, q
}

func TestClient_NewBillURL(t *testing.T) {
	api := newFakeAPI(t)
	c := newTestClient(t, api, merchantDetails())

	rawURL, err := c.NewBillURL(decimal.RequireFromString("20.0"), urlbuilder.BillOptions{Name: "Lunch"}, urlbuilder.RedirectOptions{State: "s1"})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(rawURL, api.server.URL+"/connect/bills/new?"))
	assert.Contains(t, rawURL, "bill%5Bamount%5D=20.0")

	_, q := parseQuery(t, rawURL)
	assert.Equal(t, testMerchant, q.Get("bill[merchant_id]"))
	assert.Equal(t, "Lunch", q.Get("bill[name]"))
	assert.Equal(t, testAppID, q.Get("client_id"))
	assert.Equal(t, "2024-03-01T12:00:00Z", q.Get("timestamp"))
	assert.Equal(t, "s1", q.Get("state"))
	assert.NotEmpty(t, q.Get("nonce"))
	assert.Empty(t, api.Requests(), "URL building is offline")
}

func TestClient_NewBillURL_DeterministicWithFixedEntropy(t *testing.T) {
	api := newFakeAPI(t)
	entropy := bytes.Repeat([]byte{7}, 80)
	c := newTestClient(t, api, merchantDetails(), WithRandom(bytes.NewReader(entropy)))

	first, err := c.NewBillURL(decimal.NewFromInt(5), urlbuilder.BillOptions{}, urlbuilder.RedirectOptions{})
	require.NoError(t, err)
	second, err := c.NewBillURL(decimal.NewFromInt(5), urlbuilder.BillOptions{}, urlbuilder.RedirectOptions{})
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestClient_NewSubscriptionURL(t *testing.T) {
	api := newFakeAPI(t)
	c := newTestClient(t, api, merchantDetails())
	expires := testNow.AddDate(1, 0, 0)

	rawURL, err := c.NewSubscriptionURL(decimal.NewFromInt(15), 1, urlbuilder.IntervalMonth, urlbuilder.SubscriptionOptions{
		ExpiresAt: &expires,
	}, urlbuilder.RedirectOptions{RedirectURI: "https://example.com/done", CancelURI: "https://example.com/cancel"})
	require.NoError(t, err)

	u, q := parseQuery(t, rawURL)
	assert.Equal(t, "/connect/subscriptions/new", u.Path)
	assert.Equal(t, "month", q.Get("subscription[interval_unit]"))
	assert.Equal(t, "2025-03-01T12:00:00Z", q.Get("subscription[expires_at]"))
	assert.Equal(t, "https://example.com/cancel", q.Get("cancel_uri"))
}

func TestClient_NewSubscriptionURL_ValidatesAgainstClientClock(t *testing.T) {
	api := newFakeAPI(t)
	c := newTestClient(t, api, merchantDetails())
	past := testNow.Add(-time.Hour)

	_, err := c.NewSubscriptionURL(decimal.NewFromInt(15), 1, urlbuilder.IntervalMonth, urlbuilder.SubscriptionOptions{ExpiresAt: &past}, urlbuilder.RedirectOptions{})

	var vErr *pkgerrors.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "expires_at", vErr.Field)
}

func TestClient_NewPreAuthorizationURL(t *testing.T) {
	api := newFakeAPI(t)
	c := newTestClient(t, api, merchantDetails())

	rawURL, err := c.NewPreAuthorizationURL(decimal.NewFromInt(100), 3, urlbuilder.IntervalWeek, urlbuilder.PreAuthorizationOptions{}, urlbuilder.RedirectOptions{})
	require.NoError(t, err)

	u, q := parseQuery(t, rawURL)
	assert.Equal(t, "/connect/pre_authorizations/new", u.Path)
	assert.Equal(t, "100", q.Get("pre_authorization[max_amount]"))
	assert.Equal(t, "3", q.Get("pre_authorization[interval_length]"))

	_, err = c.NewPreAuthorizationURL(decimal.NewFromInt(100), 1, urlbuilder.IntervalUnit("fortnight"), urlbuilder.PreAuthorizationOptions{}, urlbuilder.RedirectOptions{})
	assert.Error(t, err)
}

func TestClient_NewMerchantURL(t *testing.T) {
	api := newFakeAPI(t)
	c := newTestClient(t, api, AccountDetails{})

	rawURL := c.NewMerchantURL("https://example.com/cb", urlbuilder.MerchantURLOptions{
		Merchant: map[string]interface{}{"name": "Tom's shop"},
	})

	u, q := parseQuery(t, rawURL)
	assert.Equal(t, "/oauth/authorize", u.Path)
	assert.Equal(t, testAppID, q.Get("client_id"))
	assert.Equal(t, "manage_merchant", q.Get("scope"))
	assert.Equal(t, "Tom's shop", q.Get("merchant[name]"))
}

package gocardless

import (
	"github.com/kevin07696/gocardless-go/internal/adapters/ports"
	"github.com/kevin07696/gocardless-go/pkg/observability"
	"github.com/kevin07696/gocardless-go/pkg/urlbuilder"
	"github.com/shopspring/decimal"
)

// NewBillURL returns a signed URL the payer visits to authorize a one-off bill
func (c *Client) NewBillURL(amount decimal.Decimal, opts urlbuilder.BillOptions, redirect urlbuilder.RedirectOptions) (string, error) {
	params, err := urlbuilder.NewBillParams(amount, c.MerchantID(), opts)
	if err != nil {
		return "", err
	}
	return c.signedURL(params, redirect)
}

// NewSubscriptionURL returns a signed URL for a new subscription
func (c *Client) NewSubscriptionURL(amount decimal.Decimal, intervalLength int, intervalUnit urlbuilder.IntervalUnit, opts urlbuilder.SubscriptionOptions, redirect urlbuilder.RedirectOptions) (string, error) {
	if opts.Now == nil {
		opts.Now = c.now
	}
	params, err := urlbuilder.NewSubscriptionParams(amount, c.MerchantID(), intervalLength, intervalUnit, opts)
	if err != nil {
		return "", err
	}
	return c.signedURL(params, redirect)
}

// NewPreAuthorizationURL returns a signed URL for a new pre-authorization
func (c *Client) NewPreAuthorizationURL(maxAmount decimal.Decimal, intervalLength int, intervalUnit urlbuilder.IntervalUnit, opts urlbuilder.PreAuthorizationOptions, redirect urlbuilder.RedirectOptions) (string, error) {
	if opts.Now == nil {
		opts.Now = c.now
	}
	params, err := urlbuilder.NewPreAuthorizationParams(maxAmount, c.MerchantID(), intervalLength, intervalUnit, opts)
	if err != nil {
		return "", err
	}
	return c.signedURL(params, redirect)
}

// NewURL signs any prepared parameter set
func (c *Client) NewURL(params urlbuilder.Params, redirect urlbuilder.RedirectOptions) (string, error) {
	return c.signedURL(params, redirect)
}

func (c *Client) signedURL(params urlbuilder.Params, redirect urlbuilder.RedirectOptions) (string, error) {
	appID, appSecret := c.appCredentials()
	builder := urlbuilder.NewBuilder(appID, appSecret, c.baseURL)
	builder.Now = c.now
	builder.Random = c.random

	url, err := builder.BuildAndSign(params, redirect)
	if err != nil {
		return "", err
	}

	observability.RecordSignedURL(params.ResourceName())
	c.logger.Debug("built signed URL", ports.String("resource", params.ResourceName()))
	return url, nil
}

// NewMerchantURL returns the OAuth authorize URL a merchant visits to
// connect their account to the partner app
func (c *Client) NewMerchantURL(redirectURI string, opts urlbuilder.MerchantURLOptions) string {
	return urlbuilder.MerchantURL(c.baseURL, c.AppID(), redirectURI, opts)
}

package gocardless

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/kevin07696/gocardless-go/internal/adapters/ports"
	pkgerrors "github.com/kevin07696/gocardless-go/pkg/errors"
	"github.com/kevin07696/gocardless-go/pkg/signing"
)

// confirmFields are the redirect parameters the confirmation signature covers
var confirmFields = []string{"resource_uri", "resource_id", "resource_type", "state"}

// requiredConfirmFields must be present on every confirmation redirect
var requiredConfirmFields = []string{"resource_uri", "resource_id", "resource_type"}

// FetchAccessToken exchanges an OAuth authorization code for a merchant
// access token. On success the client switches to that merchant: the token
// and the merchant id taken from the returned scope are stored on it.
func (c *Client) FetchAccessToken(ctx context.Context, redirectURI, code string) (string, error) {
	body := map[string]interface{}{
		"client_id":    c.AppID(),
		"code":         code,
		"redirect_uri": redirectURI,
		"grant_type":   "authorization_code",
	}

	data, err := c.appRequest(ctx, http.MethodPost, c.baseURL+"/oauth/access_token", body)
	if err != nil {
		return "", err
	}

	m, _ := data.(map[string]interface{})
	token, _ := m["access_token"].(string)
	scope, _ := m["scope"].(string)
	if token == "" {
		return "", &pkgerrors.APIError{Message: "Error calling api, message was no access_token in response", Payload: data}
	}
	_, rest, found := strings.Cut(scope, ":")
	merchantID, _, _ := strings.Cut(rest, ":")
	if !found || merchantID == "" {
		return "", &pkgerrors.APIError{Message: fmt.Sprintf("Error calling api, message was unexpected scope %q", scope), Payload: data}
	}

	c.mu.Lock()
	c.accessToken = token
	c.merchantID = merchantID
	c.mu.Unlock()

	c.logger.Info("fetched merchant access token", ports.String("merchant_id", merchantID))
	return token, nil
}

// ConfirmResource confirms a resource the payer created via a signed URL.
// params are the query parameters GoCardless appended to the redirect. The
// resource_uri, resource_id and resource_type are required, and the
// signature is checked before any request is made; a mismatch is a
// *errors.SignatureError and must be treated as an authentication failure.
func (c *Client) ConfirmResource(ctx context.Context, params map[string]string) error {
	for _, field := range requiredConfirmFields {
		if params[field] == "" {
			return pkgerrors.NewValidationError(field, field+" is required")
		}
	}

	signature, ok := params[signing.SignatureKey]
	if !ok || signature == "" {
		return pkgerrors.NewSignatureError("signature missing from confirmation parameters")
	}

	signed := make(map[string]interface{}, len(confirmFields))
	for _, field := range confirmFields {
		if v, ok := params[field]; ok {
			signed[field] = v
		}
	}

	_, appSecret := c.appCredentials()
	if !signing.ValidateSignature(signed, appSecret, signature) {
		c.logger.Warn("confirmation signature mismatch",
			ports.String("resource_type", params["resource_type"]),
			ports.String("resource_id", params["resource_id"]),
		)
		return pkgerrors.NewSignatureError("invalid signature for confirmation parameters")
	}

	body := map[string]interface{}{
		"resource_id":   params["resource_id"],
		"resource_type": params["resource_type"],
	}
	if _, err := c.appRequest(ctx, http.MethodPost, c.apiURL("/confirm"), body); err != nil {
		return err
	}

	c.logger.Info("confirmed resource",
		ports.String("resource_type", params["resource_type"]),
		ports.String("resource_id", params["resource_id"]),
	)
	return nil
}

// ValidateWebhook reports whether a decoded webhook payload carries a valid
// signature. Pass the object under the payload's top-level "payload" key.
func (c *Client) ValidateWebhook(payload map[string]interface{}) bool {
	_, appSecret := c.appCredentials()
	return signing.SignatureValid(payload, appSecret)
}

package urlbuilder

import (
	"fmt"

	"github.com/kevin07696/gocardless-go/pkg/signing"
)

// ManageMerchantScope is the only OAuth scope partners request
const ManageMerchantScope = "manage_merchant"

// MerchantURLOptions are the optional parts of an OAuth authorize URL
type MerchantURLOptions struct {
	State string
	// Merchant prepopulates the sign-up form, nested as merchant[...]
	Merchant map[string]interface{}
}

// MerchantURL builds the unsigned OAuth authorize URL partners send merchants to
func MerchantURL(baseURL, appID, redirectURI string, opts MerchantURLOptions) string {
	params := map[string]interface{}{
		"client_id":     appID,
		"redirect_uri":  redirectURI,
		"scope":         ManageMerchantScope,
		"response_type": "code",
	}
	if opts.State != "" {
		params["state"] = opts.State
	}
	if len(opts.Merchant) > 0 {
		params["merchant"] = opts.Merchant
	}
	return fmt.Sprintf("%s/oauth/authorize?%s", baseURL, signing.ToQuery(params))
}

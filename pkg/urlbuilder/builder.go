package urlbuilder

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"time"

	"github.com/kevin07696/gocardless-go/pkg/inflect"
	"github.com/kevin07696/gocardless-go/pkg/signing"
	"github.com/kevin07696/gocardless-go/pkg/timeutil"
)

// nonceSize is the number of random bytes behind each nonce
const nonceSize = 40

// RedirectOptions are the optional top-level fields of a signed URL
type RedirectOptions struct {
	State       string
	RedirectURI string
	CancelURI   string
}

// Builder encodes and signs resource creation URLs
type Builder struct {
	AppID     string
	AppSecret string
	BaseURL   string

	// Now and Random default to the UTC wall clock and crypto/rand
	Now    func() time.Time
	Random io.Reader
}

// NewBuilder creates a Builder for the given application credentials
func NewBuilder(appID, appSecret, baseURL string) *Builder {
	return &Builder{
		AppID:     appID,
		AppSecret: appSecret,
		BaseURL:   baseURL,
	}
}

// BuildAndSign returns {base}/connect/{resource}/new?{signed canonical query}.
// A fresh timestamp and nonce go into every URL, so two calls never share a signature.
func (b *Builder) BuildAndSign(params Params, opts RedirectOptions) (string, error) {
	fields, err := b.SignedFields(params, opts)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/connect/%s/new?%s", b.BaseURL, params.ResourceName(), signing.ToQuery(fields)), nil
}

// SignedFields returns the full field set of a signed URL, signature included
func (b *Builder) SignedFields(params Params, opts RedirectOptions) (map[string]interface{}, error) {
	fields := map[string]interface{}{
		inflect.Singularize(params.ResourceName()): params.ToMap(),
	}
	if opts.State != "" {
		fields["state"] = opts.State
	}
	if opts.RedirectURI != "" {
		fields["redirect_uri"] = opts.RedirectURI
	}
	if opts.CancelURI != "" {
		fields["cancel_uri"] = opts.CancelURI
	}
	fields["client_id"] = b.AppID
	fields["timestamp"] = timeutil.FormatTimestamp(b.now())

	nonce, err := b.nonce()
	if err != nil {
		return nil, err
	}
	fields["nonce"] = nonce

	fields[signing.SignatureKey] = signing.GenerateSignature(fields, b.AppSecret)
	return fields, nil
}

func (b *Builder) now() time.Time {
	if b.Now != nil {
		return b.Now()
	}
	return timeutil.Now()
}

func (b *Builder) nonce() (string, error) {
	random := b.Random
	if random == nil {
		random = rand.Reader
	}
	buf := make([]byte, nonceSize)
	if _, err := io.ReadFull(random, buf); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf), nil
}

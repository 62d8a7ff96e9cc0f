package main

import (
	"context"
	"fmt"

	"github.com/kevin07696/gocardless-go/internal/adapters/secrets"
	"github.com/kevin07696/gocardless-go/internal/config"
	"github.com/kevin07696/gocardless-go/pkg/gocardless"
	pkghttp "github.com/kevin07696/gocardless-go/pkg/http"
	"github.com/kevin07696/gocardless-go/pkg/logging"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// newClient wires config, logging, secrets and transport tuning into a client.
// The returned cleanup flushes the logger.
func newClient(ctx context.Context, cfg *config.Config) (*gocardless.Client, func(), error) {
	logger, err := logging.NewLogger(cfg.Logger.Level, cfg.Logger.Development)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	cleanup := func() { _ = logger.Sync() }

	details, err := resolveDetails(ctx, cfg, logger.Zap())
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	opts := []gocardless.Option{
		gocardless.WithEnvironment(gocardless.Environment(cfg.GoCardless.Environment)),
		gocardless.WithHTTPClient(pkghttp.NewHTTPClient(pkghttp.DefaultClientConfig(), cfg.GoCardless.Timeout)),
		gocardless.WithLogger(logger),
	}
	if cfg.GoCardless.BaseURL != "" {
		opts = append(opts, gocardless.WithBaseURL(cfg.GoCardless.BaseURL))
	}
	if cfg.GoCardless.RateLimit > 0 {
		burst := int(cfg.GoCardless.RateLimit)
		if burst < 1 {
			burst = 1
		}
		opts = append(opts, gocardless.WithRateLimiter(rate.NewLimiter(rate.Limit(cfg.GoCardless.RateLimit), burst)))
	}

	client, err := gocardless.New(details, opts...)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return client, cleanup, nil
}

// resolveDetails fills credentials missing from the environment from the configured secret store
func resolveDetails(ctx context.Context, cfg *config.Config, logger *zap.Logger) (gocardless.AccountDetails, error) {
	details := gocardless.AccountDetails{
		AppID:       cfg.GoCardless.AppID,
		AppSecret:   cfg.GoCardless.AppSecret,
		AccessToken: cfg.GoCardless.AccessToken,
		MerchantID:  cfg.GoCardless.MerchantID,
	}
	if details.AppSecret != "" && (details.AccessToken != "" || cfg.Secrets.AccessTokenPath == "") {
		return details, nil
	}

	sm, err := secrets.NewSecretManager(ctx, secrets.Settings{
		Backend:    cfg.Secrets.Manager,
		LocalPath:  cfg.Secrets.LocalPath,
		AWSRegion:  cfg.Secrets.AWSRegion,
		VaultAddr:  cfg.Secrets.VaultAddr,
		VaultToken: cfg.Secrets.VaultToken,
	}, logger)
	if err != nil {
		return details, fmt.Errorf("failed to initialize secret manager: %w", err)
	}

	if details.AppSecret == "" {
		secret, err := sm.GetSecret(ctx, cfg.Secrets.AppSecretPath)
		if err != nil {
			return details, fmt.Errorf("failed to resolve app secret: %w", err)
		}
		details.AppSecret = secret.Value
	}
	if details.AccessToken == "" && cfg.Secrets.AccessTokenPath != "" {
		secret, err := sm.GetSecret(ctx, cfg.Secrets.AccessTokenPath)
		if err != nil {
			return details, fmt.Errorf("failed to resolve access token: %w", err)
		}
		details.AccessToken = secret.Value
	}

	logger.Info("Resolved credentials from secret manager", zap.String("secret_manager", cfg.Secrets.Manager))
	return details, nil
}

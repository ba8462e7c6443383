package app

import (
	"fmt"
	"strings"

	"github.com/samvad-hq/twitter-client/internal/config"
	"github.com/samvad-hq/twitter-client/internal/logger"
	"github.com/samvad-hq/twitter-client/pkg/httpclient"
	"github.com/samvad-hq/twitter-client/pkg/twitter"
)

var _ twitter.Transport = (*httpclient.OAuthTransport)(nil)

// NewClient builds an API client signed with the configured credentials.
func NewClient(cfg *config.Config, log logger.Logger) (*twitter.Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if err := cfg.ValidateCredentials(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.NopLogger{}
	}

	opts := []twitter.Option{
		twitter.WithBaseURL(cfg.APIBaseURL),
		twitter.WithTimeout(cfg.RequestTimeout),
		twitter.WithLogger(log),
	}
	if path := strings.TrimSpace(cfg.EndpointsFile); path != "" {
		cat, err := twitter.LoadCatalog(path)
		if err != nil {
			return nil, fmt.Errorf("load endpoints catalog: %w", err)
		}
		opts = append(opts, twitter.WithCatalog(cat))
	}

	transport := httpclient.NewOAuthTransport(
		cfg.ConsumerKey,
		cfg.ConsumerSecret,
		cfg.RequestTimeout,
		httpclient.WithUserAgent(cfg.UserAgent),
	)
	access := twitter.AccessToken{Token: cfg.AccessToken, TokenSecret: cfg.AccessTokenSecret}

	client, err := twitter.New(transport, access, opts...)
	if err != nil {
		return nil, fmt.Errorf("build api client: %w", err)
	}
	log.InfoObj("api client ready", "client_meta", map[string]any{
		"base_url":  cfg.APIBaseURL,
		"endpoints": client.Catalog().Len(),
		"timeout":   cfg.RequestTimeout.String(),
	})
	return client, nil
}

package httpclient

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/dghubble/oauth1"
	"github.com/go-resty/resty/v2"
)

// OAuthTransport signs requests with OAuth 1.0a (HMAC-SHA1) using the
// application's consumer credentials and a per-call access token.
type OAuthTransport struct {
	config    *oauth1.Config
	base      *http.Client
	timeout   time.Duration
	userAgent string
}

var _ SignedClient = (*OAuthTransport)(nil)

// OAuthOption customizes an OAuthTransport.
type OAuthOption func(*OAuthTransport)

// WithBaseHTTPClient sets the client whose RoundTripper carries the signed requests.
func WithBaseHTTPClient(hc *http.Client) OAuthOption {
	return func(t *OAuthTransport) {
		if hc != nil {
			t.base = hc
		}
	}
}

// WithUserAgent sets the User-Agent header on every request.
func WithUserAgent(ua string) OAuthOption {
	return func(t *OAuthTransport) { t.userAgent = ua }
}

// NewOAuthTransport builds a signed transport for the given consumer credentials.
func NewOAuthTransport(consumerKey, consumerSecret string, timeout time.Duration, opts ...OAuthOption) *OAuthTransport {
	t := &OAuthTransport{
		config:  oauth1.NewConfig(consumerKey, consumerSecret),
		base:    &http.Client{Transport: http.DefaultTransport.(*http.Transport).Clone()},
		timeout: timeout,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Get performs a signed GET. Query parameters must already be in url.
func (t *OAuthTransport) Get(ctx context.Context, url, token, tokenSecret string) ([]byte, error) {
	return t.execute(ctx, http.MethodGet, url, token, tokenSecret, nil)
}

// Post performs a signed POST with params as a form-encoded body.
func (t *OAuthTransport) Post(ctx context.Context, url, token, tokenSecret string, params map[string]string) ([]byte, error) {
	return t.execute(ctx, http.MethodPost, url, token, tokenSecret, params)
}

// Delete performs a signed DELETE without a body.
func (t *OAuthTransport) Delete(ctx context.Context, url, token, tokenSecret string) ([]byte, error) {
	return t.execute(ctx, http.MethodDelete, url, token, tokenSecret, nil)
}

func (t *OAuthTransport) execute(ctx context.Context, method, url, token, tokenSecret string, form map[string]string) ([]byte, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	req := t.restyFor(ctx, token, tokenSecret).R().SetContext(ctx)
	if method == http.MethodPost {
		req.SetFormData(form)
		req.SetHeader("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := req.Execute(method, url)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	if code := resp.StatusCode(); code < 200 || code > 299 {
		return nil, &StatusError{StatusCode: code, Body: resp.Body()}
	}
	return resp.Body(), nil
}

// restyFor returns a resty client whose RoundTripper signs with the given token.
func (t *OAuthTransport) restyFor(ctx context.Context, token, tokenSecret string) *resty.Client {
	signed := t.config.Client(context.WithValue(ctx, oauth1.HTTPClient, t.base), oauth1.NewToken(token, tokenSecret))
	return newRestyBaseClient(signed, t.timeout, t.userAgent)
}

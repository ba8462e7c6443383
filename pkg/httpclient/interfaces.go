package httpclient

import "context"

// Response is a minimal HTTP response contract.
type Response interface {
	Body() []byte
	StatusCode() int
}

// Client abstracts unsigned GET calls so callers can inject fakes.
type Client interface {
	Get(ctx context.Context, url string, headers map[string]string) (Response, error)
}

// SignedClient performs OAuth 1.0a signed calls on behalf of an access token.
// Each call returns the raw body of a 2xx response, or an error.
type SignedClient interface {
	Get(ctx context.Context, url, token, tokenSecret string) ([]byte, error)
	Post(ctx context.Context, url, token, tokenSecret string, params map[string]string) ([]byte, error)
	Delete(ctx context.Context, url, token, tokenSecret string) ([]byte, error)
}

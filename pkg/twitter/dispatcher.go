package twitter

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Transport performs OAuth signed HTTP calls. Each method returns the raw
// response body or an error, exactly once.
type Transport interface {
	Get(ctx context.Context, url, token, tokenSecret string) ([]byte, error)
	Post(ctx context.Context, url, token, tokenSecret string, params map[string]string) ([]byte, error)
	Delete(ctx context.Context, url, token, tokenSecret string) ([]byte, error)
}

// AccessToken is the user's OAuth access token pair.
type AccessToken struct {
	Token       string
	TokenSecret string
}

// Dispatcher translates a call into a transport request and hands the outcome
// to the notifier.
type Dispatcher struct {
	transport Transport
	access    AccessToken
	notifier  *Notifier
	timeout   time.Duration
	log       Logger
}

// NewDispatcher wires a dispatcher. A zero timeout disables the per-call deadline.
func NewDispatcher(transport Transport, access AccessToken, notifier *Notifier, timeout time.Duration, log Logger) *Dispatcher {
	if notifier == nil {
		notifier = NewNotifier(log)
	}
	return &Dispatcher{
		transport: transport,
		access:    access,
		notifier:  notifier,
		timeout:   timeout,
		log:       ensureLogger(log),
	}
}

// Dispatch issues the request in the background. The returned channel yields
// exactly one Result and is then closed.
func (d *Dispatcher) Dispatch(ctx context.Context, url, method string, params Params, event string) <-chan Result {
	out := make(chan Result, 1)
	if ctx == nil {
		ctx = context.Background()
	}

	method = strings.ToUpper(strings.TrimSpace(method))
	switch method {
	case http.MethodGet, http.MethodPost, http.MethodDelete:
	default:
		d.deliver(out, Result{Event: event, Err: fmt.Errorf("%w: %q", ErrUnsupportedMethod, method)})
		return out
	}

	if d.transport == nil {
		d.deliver(out, Result{Event: event, Err: fmt.Errorf("dispatcher has no transport")})
		return out
	}

	go func() {
		body, err := d.do(ctx, url, method, params)
		d.deliver(out, Decode(event, body, err))
	}()
	return out
}

func (d *Dispatcher) do(ctx context.Context, url, method string, params Params) ([]byte, error) {
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	var (
		body []byte
		err  error
	)
	switch method {
	case http.MethodGet:
		url = appendQuery(url, params.Encode())
		body, err = d.transport.Get(ctx, url, d.access.Token, d.access.TokenSecret)
	case http.MethodPost:
		body, err = d.transport.Post(ctx, url, d.access.Token, d.access.TokenSecret, params.Values())
	case http.MethodDelete:
		body, err = d.transport.Delete(ctx, url, d.access.Token, d.access.TokenSecret)
	}

	d.log.DebugObj("request dispatched", "request_meta", map[string]any{
		"method": method,
		"url":    url,
		"failed": err != nil,
	})
	if err != nil {
		return nil, &TransportError{Method: method, URL: url, Err: err}
	}
	return body, nil
}

func (d *Dispatcher) deliver(out chan<- Result, res Result) {
	out <- res
	close(out)
	d.notifier.Publish(res)
}

// Package twitter maps Twitter REST API calls onto a catalog of endpoint
// templates, dispatches them through an OAuth signed transport and delivers
// the decoded JSON through per-call channels and named subscriptions.
package twitter

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// DefaultBaseURL is the versioned API root endpoint paths are resolved against.
const DefaultBaseURL = "https://api.twitter.com/1/"

// Client is the entry point for API calls.
type Client struct {
	baseURL    string
	catalog    *Catalog
	timeout    time.Duration
	log        Logger
	notifier   *Notifier
	dispatcher *Dispatcher
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL overrides DefaultBaseURL.
func WithBaseURL(base string) Option {
	return func(c *Client) { c.baseURL = base }
}

// WithCatalog replaces the bundled endpoint catalog.
func WithCatalog(cat *Catalog) Option {
	return func(c *Client) { c.catalog = cat }
}

// WithTimeout bounds every call.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithLogger sets the logger used by the dispatcher and notifier.
func WithLogger(log Logger) Option {
	return func(c *Client) { c.log = log }
}

// New builds a client around transport using the given access token pair.
func New(transport Transport, access AccessToken, opts ...Option) (*Client, error) {
	if transport == nil {
		return nil, errors.New("transport must not be nil")
	}

	c := &Client{baseURL: DefaultBaseURL}
	for _, opt := range opts {
		opt(c)
	}
	c.log = ensureLogger(c.log)

	if c.catalog == nil {
		cat, err := DefaultCatalog()
		if err != nil {
			return nil, fmt.Errorf("load default catalog: %w", err)
		}
		c.catalog = cat
	}

	c.notifier = NewNotifier(c.log)
	c.dispatcher = NewDispatcher(transport, access, c.notifier, c.timeout, c.log)
	return c, nil
}

// Catalog returns the endpoints the client can call.
func (c *Client) Catalog() *Catalog { return c.catalog }

// Subscribe registers fn for every result published under event, e.g.
// "onUserTimeline". The returned func removes the subscription.
func (c *Client) Subscribe(event string, fn Handler) func() {
	return c.notifier.Subscribe(event, fn)
}

// Call invokes the endpoint registered under id. It never blocks; the
// returned channel yields exactly one Result.
func (c *Client) Call(ctx context.Context, id string, req Request) <-chan Result {
	ep, ok := c.catalog.Lookup(id)
	if !ok {
		return c.fail(DefaultEventName(id), fmt.Errorf("%w %q", ErrUnknownEndpoint, id))
	}

	url, params, err := ep.Build(c.baseURL, req)
	if err != nil {
		return c.fail(ep.Event, err)
	}
	return c.dispatcher.Dispatch(ctx, url, ep.Method, params, ep.Event)
}

// Do is Call followed by waiting for the result or ctx cancellation.
func (c *Client) Do(ctx context.Context, id string, req Request) Result {
	if ctx == nil {
		ctx = context.Background()
	}
	select {
	case res := <-c.Call(ctx, id, req):
		return res
	case <-ctx.Done():
		event := DefaultEventName(id)
		if ep, ok := c.catalog.Lookup(id); ok {
			event = ep.Event
		}
		return Result{Event: event, Err: ctx.Err()}
	}
}

func (c *Client) fail(event string, err error) <-chan Result {
	out := make(chan Result, 1)
	c.dispatcher.deliver(out, Result{Event: event, Err: err})
	return out
}

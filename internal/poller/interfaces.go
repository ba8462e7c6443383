package poller

import (
	"context"
	"time"

	"github.com/samvad-hq/twitter-client/internal/domain"
	"github.com/samvad-hq/twitter-client/pkg/publishers"
	"github.com/samvad-hq/twitter-client/pkg/twitter"
)

// APIClient invokes catalog endpoints and waits for their result.
type APIClient interface {
	Do(ctx context.Context, id string, req twitter.Request) twitter.Result
}

// StatusEnricher attaches link previews to statuses.
type StatusEnricher interface {
	Enrich(ctx context.Context, feedID string, statuses []domain.Status, delay time.Duration) []domain.Status
}

// EventPublisher publishes statuses downstream.
type EventPublisher interface {
	Publish(ctx context.Context, evt publishers.Event) (int, error)
}

// Deduper remembers statuses already relayed per feed.
type Deduper interface {
	Seen(feedID, statusID string) (bool, error)
	Mark(feedID, statusID string) error
}

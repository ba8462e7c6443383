package publishers

import (
	"time"

	"github.com/samvad-hq/twitter-client/internal/domain"
)

// Event represents one relayed status.
type Event struct {
	FeedID      string        `json:"feed_id"`
	FeedName    string        `json:"feed_name"`
	Endpoint    string        `json:"endpoint"`
	Status      domain.Status `json:"status"`
	CollectedAt time.Time     `json:"collected_at"`
}

// NewEvent constructs an Event for a status read from the given feed.
func NewEvent(feedID, feedName, endpoint string, status domain.Status) Event {
	return Event{
		FeedID:      feedID,
		FeedName:    feedName,
		Endpoint:    endpoint,
		Status:      status,
		CollectedAt: time.Now().UTC(),
	}
}

// attributes are attached as message metadata by queue sinks.
func (e Event) attributes() map[string]string {
	return map[string]string{
		"feed_id":   e.FeedID,
		"status_id": e.Status.ID,
	}
}

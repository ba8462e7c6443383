package poller

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samvad-hq/twitter-client/internal/domain"
	"github.com/samvad-hq/twitter-client/internal/logger"
	"github.com/samvad-hq/twitter-client/pkg/feeds"
	"github.com/samvad-hq/twitter-client/pkg/publishers"
)

// Service polls every configured feed once per Run.
type Service struct {
	processor *FeedProcessor
	log       logger.Logger
}

// NewService wires a poller around the API client and downstream collaborators.
// enricher and store may be nil.
func NewService(client APIClient, enricher StatusEnricher, pub EventPublisher, log logger.Logger, store Deduper) *Service {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Service{
		processor: NewFeedProcessor(client, enricher, pub, log, store),
		log:       log,
	}
}

// Run executes a poll pass for all feeds, joining per-feed failures.
func (s *Service) Run(ctx context.Context, list []feeds.Feed) error {
	if s == nil || s.processor == nil || s.processor.client == nil {
		return fmt.Errorf("poller service is not initialized")
	}
	if len(list) == 0 {
		return fmt.Errorf("no feeds configured for polling")
	}
	return errors.Join(s.runAll(ctx, list)...)
}

func (s *Service) runAll(ctx context.Context, list []feeds.Feed) []error {
	var errs []error
	for i, feed := range list {
		if ctx.Err() != nil {
			break
		}
		if i > 0 {
			if !sleep(ctx, feed.RequestDelay()) {
				break
			}
		}
		if err := s.processor.Process(ctx, feed); err != nil {
			errs = append(errs, err)
			s.log.ErrorObj("feed poll failed", "feed_error", map[string]any{
				"feed_id": feed.ID,
				"error":   err.Error(),
			})
		}
	}
	return errs
}

// FeedProcessor polls a single feed and relays its unseen statuses.
type FeedProcessor struct {
	client   APIClient
	enricher StatusEnricher
	pub      EventPublisher
	log      logger.Logger
	store    Deduper
}

// NewFeedProcessor builds a processor; nil collaborators other than client are skipped.
func NewFeedProcessor(client APIClient, enricher StatusEnricher, pub EventPublisher, log logger.Logger, store Deduper) *FeedProcessor {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &FeedProcessor{client: client, enricher: enricher, pub: pub, log: log, store: store}
}

// Process calls the feed's endpoint, filters statuses already relayed and
// publishes the rest oldest first.
func (p *FeedProcessor) Process(ctx context.Context, feed feeds.Feed) error {
	res := p.client.Do(ctx, feed.Endpoint, feed.Request())
	if res.Err != nil {
		return fmt.Errorf("poll feed %s: %w", feed.ID, res.Err)
	}

	statuses, err := domain.ParseStatuses(res.Raw)
	if err != nil {
		return fmt.Errorf("parse feed %s: %w", feed.ID, err)
	}

	fresh := p.filterNew(feed, statuses)
	if p.enricher != nil && len(fresh) > 0 {
		fresh = p.enricher.Enrich(ctx, feed.ID, fresh, feed.RequestDelay())
	}

	var errs []error
	published := 0
	// timelines arrive newest first
	for i := len(fresh) - 1; i >= 0; i-- {
		st := fresh[i]
		if err := p.publish(ctx, feed, st); err != nil {
			errs = append(errs, fmt.Errorf("status %s: %w", st.ID, err))
			continue
		}
		published++
	}

	p.log.InfoObj("feed poll completed", "feed_result", map[string]any{
		"feed_id":   feed.ID,
		"endpoint":  feed.Endpoint,
		"received":  len(statuses),
		"fresh":     len(fresh),
		"published": published,
	})
	return errors.Join(errs...)
}

func (p *FeedProcessor) publish(ctx context.Context, feed feeds.Feed, st domain.Status) error {
	if p.pub != nil {
		if _, err := p.pub.Publish(ctx, publishers.NewEvent(feed.ID, feed.Name, feed.Endpoint, st)); err != nil {
			return err
		}
	}
	if p.store != nil {
		if err := p.store.Mark(feed.ID, st.ID); err != nil {
			return fmt.Errorf("mark relayed: %w", err)
		}
	}
	return nil
}

// filterNew drops statuses the store has seen. Lookup failures keep the status.
func (p *FeedProcessor) filterNew(feed feeds.Feed, statuses []domain.Status) []domain.Status {
	if p.store == nil {
		return statuses
	}
	out := make([]domain.Status, 0, len(statuses))
	for _, st := range statuses {
		seen, err := p.store.Seen(feed.ID, st.ID)
		if err != nil {
			p.log.WarnObj("seen lookup failed", "storage_error", map[string]any{
				"feed_id":   feed.ID,
				"status_id": st.ID,
				"error":     err.Error(),
			})
		}
		if seen {
			continue
		}
		out = append(out, st)
	}
	return out
}

func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

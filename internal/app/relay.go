package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samvad-hq/twitter-client/internal/config"
	"github.com/samvad-hq/twitter-client/internal/enricher"
	"github.com/samvad-hq/twitter-client/internal/logger"
	"github.com/samvad-hq/twitter-client/internal/poller"
	"github.com/samvad-hq/twitter-client/internal/storage"
	"github.com/samvad-hq/twitter-client/pkg/feeds"
	"github.com/samvad-hq/twitter-client/pkg/publishers"
)

// Relay is the timeline relay runtime. It polls configured feeds through the
// API client and fans unseen statuses out to publishers.
type Relay struct {
	cfg          *config.Config
	feedReg      *feeds.Registry
	fanout       *publishers.Fanout
	poller       *poller.Service
	pollInterval time.Duration
	log          logger.Logger
	store        storage.Store
}

// NewRelay builds a relay runtime from config files.
func NewRelay(ctx context.Context, cfg *config.Config, log logger.Logger) (*Relay, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	client, err := NewClient(cfg, log)
	if err != nil {
		return nil, err
	}

	feedReg, err := feeds.LoadRegistry(cfg.FeedsFile, client.Catalog())
	if err != nil {
		return nil, fmt.Errorf("load feeds registry: %w", err)
	}
	enabledFeeds := feedReg.Enabled()
	feedIDs := make([]string, 0, len(enabledFeeds))
	for _, f := range enabledFeeds {
		feedIDs = append(feedIDs, f.ID)
	}
	log.InfoObj("feeds registry loaded", "feeds_meta", map[string]any{
		"count": len(feedIDs),
		"ids":   feedIDs,
	})

	publisherReg, err := publishers.LoadRegistry(cfg.PublishersFile)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}
	enabledPublishers := publisherReg.Enabled()
	if len(enabledPublishers) == 0 {
		return nil, fmt.Errorf("no publishers configured")
	}

	pubClients, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabledPublishers, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}
	fanout := publishers.NewFanout(pubClients)
	publisherSummaries := make([]map[string]string, 0, len(enabledPublishers))
	for _, pubCfg := range enabledPublishers {
		publisherSummaries = append(publisherSummaries, map[string]string{
			"id":   pubCfg.ID,
			"type": pubCfg.Type,
		})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(publisherSummaries),
		"publishers": publisherSummaries,
	})

	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storage.Options{
		TTL:             cfg.StorageTTL,
		CleanupInterval: cfg.StorageCleanupInterval,
	})
	if err != nil {
		return nil, errors.Join(fmt.Errorf("init storage: %w", err), fanout.Close())
	}
	log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type":                     cfg.StorageType,
		"path":                     cfg.BBoltPath,
		"ttl_seconds":              int(cfg.StorageTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.StorageCleanupInterval.Seconds()),
	})

	var enrich poller.StatusEnricher
	if cfg.LinkPreviewEnabled {
		enrich = enricher.New(nil, cfg.UserAgent, log)
	}

	return &Relay{
		cfg:          cfg,
		feedReg:      feedReg,
		fanout:       fanout,
		poller:       poller.NewService(client, enrich, fanout, log, store),
		pollInterval: cfg.PollInterval,
		log:          log,
		store:        store,
	}, nil
}

// Run starts the poll loop until the context is cancelled.
func (r *Relay) Run(ctx context.Context) error {
	if r == nil || r.poller == nil {
		return fmt.Errorf("relay is not initialized")
	}
	defer r.close()

	list := r.feedReg.Enabled()
	if len(list) == 0 {
		r.log.WarnObj("no feeds enabled; relay idle", "feeds_file", r.cfg.FeedsFile)
		<-ctx.Done()
		return nil
	}

	r.log.InfoObj("relay loop starting", "relay_state", map[string]any{
		"feeds_count":      len(list),
		"publishers_count": r.fanout.Size(),
		"poll_interval":    r.pollInterval.String(),
	})

	if err := r.runOnce(ctx, list); err != nil {
		r.log.ErrorObj("initial poll failed", "error", err.Error())
	}

	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.log.InfoObj("relay loop exiting", "reason", ctx.Err().Error())
			return nil
		case <-ticker.C:
			if err := r.runOnce(ctx, list); err != nil {
				r.log.ErrorObj("scheduled poll failed", "error", err.Error())
			}
		}
	}
}

// runOnce performs a single poll across all feeds.
func (r *Relay) runOnce(ctx context.Context, list []feeds.Feed) error {
	start := time.Now()
	r.log.InfoObj("poll started", "poll_meta", map[string]any{
		"feeds_count": len(list),
		"started_at":  start.UTC(),
	})
	if err := r.poller.Run(ctx, list); err != nil {
		return err
	}
	r.log.InfoObj("poll completed", "poll_meta", map[string]any{
		"feeds_count": len(list),
		"elapsed_ms":  time.Since(start).Milliseconds(),
	})
	return nil
}

func (r *Relay) close() {
	if err := r.fanout.Close(); err != nil {
		r.log.ErrorObj("publisher close failed", "error", err.Error())
	}
	if r.store == nil {
		return
	}
	if err := r.store.Close(); err != nil {
		r.log.ErrorObj("storage close failed", "error", err.Error())
	}
}

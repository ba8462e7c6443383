package enricher

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/samvad-hq/twitter-client/internal/domain"
	"github.com/samvad-hq/twitter-client/internal/logger"
	"github.com/samvad-hq/twitter-client/pkg/httpclient"
)

const (
	maxHTMLBodyBytes = 1 << 20 // 1 MiB
	defaultTimeout   = 10 * time.Second
)

// Enricher fetches the first link of each status and attaches Open Graph
// metadata as a link preview.
type Enricher struct {
	client  httpclient.Client
	headers map[string]string
	log     logger.Logger
}

// New constructs an enricher with the provided HTTP client (or a default one).
func New(client httpclient.Client, userAgent string, log logger.Logger) *Enricher {
	if client == nil {
		client = httpclient.NewRestyClient(defaultTimeout)
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	var headers map[string]string
	if userAgent != "" {
		headers = map[string]string{"User-Agent": userAgent}
	}
	return &Enricher{client: client, headers: headers, log: log}
}

// Enrich attaches previews to statuses carrying at least one link, pausing
// delay between fetches. A failed fetch leaves the status untouched.
func (e *Enricher) Enrich(ctx context.Context, feedID string, statuses []domain.Status, delay time.Duration) []domain.Status {
	out := append([]domain.Status(nil), statuses...)

	fetched := 0
	for i, st := range statuses {
		if len(st.URLs) == 0 || st.Preview != nil {
			continue
		}

		if fetched > 0 && delay > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return out
			case <-timer.C:
			}
		}
		select {
		case <-ctx.Done():
			return out
		default:
		}
		fetched++

		preview, err := e.fetchPreview(ctx, st.URLs[0])
		if err != nil {
			e.log.WarnObj("link preview fetch failed", "preview_error", map[string]any{
				"feed_id":   feedID,
				"status_id": st.ID,
				"url":       st.URLs[0],
				"error":     err.Error(),
			})
			continue
		}
		out[i].Preview = preview
	}

	return out
}

func (e *Enricher) fetchPreview(ctx context.Context, link string) (*domain.LinkPreview, error) {
	resp, err := e.client.Get(ctx, link, e.headers)
	if err != nil {
		return nil, fmt.Errorf("http fetch: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, &httpclient.StatusError{StatusCode: resp.StatusCode(), Body: resp.Body()}
	}

	body := resp.Body()
	if len(body) > maxHTMLBodyBytes {
		body = body[:maxHTMLBodyBytes]
	}

	meta, err := parseMeta(body)
	if err != nil {
		return nil, err
	}

	return &domain.LinkPreview{
		URL:         firstNonEmpty(resolveURL(meta.URL, link), link),
		Title:       meta.Title,
		Description: meta.Description,
		ImageURL:    resolveURL(meta.ImageURL, link),
	}, nil
}

type pageMeta struct {
	URL         string
	Title       string
	Description string
	ImageURL    string
}

func parseMeta(body []byte) (pageMeta, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return pageMeta{}, fmt.Errorf("parse html: %w", err)
	}

	extract := func(sel string) string {
		if node := doc.Find(sel).First(); node.Length() > 0 {
			if val, ok := node.Attr("content"); ok {
				return strings.TrimSpace(val)
			}
		}
		return ""
	}

	return pageMeta{
		URL: extract(`meta[property="og:url"]`),
		Title: firstNonEmpty(
			extract(`meta[property="og:title"]`),
			extract(`meta[name="twitter:title"]`),
			doc.Find("title").First().Text(),
		),
		Description: firstNonEmpty(
			extract(`meta[property="og:description"]`),
			extract(`meta[name="description"]`),
		),
		ImageURL: firstNonEmpty(
			extract(`meta[property="og:image"]`),
			extract(`meta[name="twitter:image"]`),
		),
	}, nil
}

// resolveURL makes ref absolute against base; unparsable input yields ref as is.
func resolveURL(ref, base string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

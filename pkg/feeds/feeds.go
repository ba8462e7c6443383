// Package feeds loads the timelines the relay polls (YAML/JSON).
package feeds

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/samvad-hq/twitter-client/pkg/twitter"
	"gopkg.in/yaml.v3"
)

const defaultRequestDelayMs = 250

// Feed binds a catalog endpoint to the arguments used to poll it.
type Feed struct {
	ID             string         `json:"id" yaml:"id"`
	Name           string         `json:"name" yaml:"name"`
	Endpoint       string         `json:"endpoint" yaml:"endpoint"`
	Segments       []string       `json:"segments" yaml:"segments"`
	Args           []string       `json:"args" yaml:"args"`
	Params         map[string]any `json:"params" yaml:"params"`
	Enabled        *bool          `json:"enabled" yaml:"enabled"`
	RequestDelayMs int            `json:"request_delay_ms" yaml:"request_delay_ms"`
}

// Request converts the feed into a client request.
func (f Feed) Request() twitter.Request {
	return twitter.Request{
		Segments: append([]string(nil), f.Segments...),
		Args:     append([]string(nil), f.Args...),
		Params:   twitter.Params(f.Params),
	}
}

// EnabledValue returns the enabled flag defaulting to true.
func (f Feed) EnabledValue() bool {
	if f.Enabled == nil {
		return true
	}
	return *f.Enabled
}

// RequestDelay returns the pause before the feed is polled.
func (f Feed) RequestDelay() time.Duration {
	if f.RequestDelayMs <= 0 {
		return time.Duration(defaultRequestDelayMs) * time.Millisecond
	}
	return time.Duration(f.RequestDelayMs) * time.Millisecond
}

type registryFile struct {
	Feeds []Feed `json:"feeds" yaml:"feeds"`
}

// Registry holds the feeds loaded from a config file.
type Registry struct {
	mu    sync.RWMutex
	feeds []Feed
	idx   map[string]Feed
}

// LoadRegistry loads feeds from a YAML/JSON file. When catalog is non-nil
// every feed's endpoint must exist in it.
func LoadRegistry(path string, catalog *twitter.Catalog) (*Registry, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("feeds file path is empty")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open feeds file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read feeds file: %w", err)
	}

	parsed, err := parseRegistry(raw, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	if len(parsed.Feeds) == 0 {
		return nil, errors.New("feeds file contains no feeds entries")
	}

	reg := &Registry{
		feeds: make([]Feed, len(parsed.Feeds)),
		idx:   make(map[string]Feed, len(parsed.Feeds)),
	}
	for i := range parsed.Feeds {
		f := sanitizeFeed(parsed.Feeds[i])
		if err := validateFeed(f, catalog); err != nil {
			return nil, fmt.Errorf("feeds[%d]: %w", i, err)
		}
		if _, exists := reg.idx[f.ID]; exists {
			return nil, fmt.Errorf("duplicate feed id %q", f.ID)
		}
		reg.feeds[i] = f
		reg.idx[f.ID] = f
	}
	return reg, nil
}

func parseRegistry(data []byte, ext string) (registryFile, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))

	decoders := []struct {
		name string
		ext  string
		fn   unmarshalFn
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		if reg, err := unmarshalRegistry(d.name, data, d.fn); err == nil {
			return reg, nil
		}
	}
	return registryFile{}, errors.New("feeds file format not recognized (expected YAML or JSON)")
}

type unmarshalFn func([]byte, any) error

func unmarshalRegistry(name string, data []byte, fn unmarshalFn) (registryFile, error) {
	var reg registryFile
	if err := fn(data, &reg); err != nil {
		return registryFile{}, fmt.Errorf("decode %s feeds: %w", name, err)
	}
	return reg, nil
}

func sanitizeFeed(f Feed) Feed {
	f.ID = strings.TrimSpace(f.ID)
	f.Name = strings.TrimSpace(f.Name)
	f.Endpoint = strings.TrimSpace(f.Endpoint)
	if f.Name == "" {
		f.Name = f.ID
	}
	for i := range f.Segments {
		f.Segments[i] = strings.TrimSpace(f.Segments[i])
	}
	if f.Params == nil {
		f.Params = map[string]any{}
	}
	if f.RequestDelayMs <= 0 {
		f.RequestDelayMs = defaultRequestDelayMs
	}
	return f
}

func validateFeed(f Feed, catalog *twitter.Catalog) error {
	if f.ID == "" {
		return errors.New("id is required")
	}
	if f.Endpoint == "" {
		return fmt.Errorf("endpoint is required for feed %q", f.ID)
	}
	if catalog == nil {
		return nil
	}
	ep, ok := catalog.Lookup(f.Endpoint)
	if !ok {
		return fmt.Errorf("feed %q: %w %q", f.ID, twitter.ErrUnknownEndpoint, f.Endpoint)
	}
	if _, _, err := ep.Build("", f.Request()); err != nil {
		return fmt.Errorf("feed %q: %w", f.ID, err)
	}
	return nil
}

// ByID returns the feed registered under id.
func (r *Registry) ByID(id string) (Feed, bool) {
	if r == nil {
		return Feed{}, false
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return Feed{}, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.idx[id]
	return f, ok
}

// All returns every configured feed.
func (r *Registry) All() []Feed {
	if r == nil {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Feed, len(r.feeds))
	copy(out, r.feeds)
	return out
}

// Enabled returns feeds that are enabled.
func (r *Registry) Enabled() []Feed {
	all := r.All()
	if len(all) == 0 {
		return nil
	}
	out := make([]Feed, 0, len(all))
	for _, f := range all {
		if f.EnabledValue() {
			out = append(out, f)
		}
	}
	return out
}

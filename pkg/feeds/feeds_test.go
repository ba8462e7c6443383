package feeds

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/samvad-hq/twitter-client/pkg/twitter"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	return path
}

func defaultCatalog(t *testing.T) *twitter.Catalog {
	t.Helper()
	cat, err := twitter.DefaultCatalog()
	if err != nil {
		t.Fatalf("DefaultCatalog: %v", err)
	}
	return cat
}

func TestLoadRegistryYAML(t *testing.T) {
	path := writeFile(t, "feeds.yaml", `
feeds:
  - id: home
    endpoint: homeTimeline
    params:
      count: 50
  - id: ops-list
    name: Ops list
    endpoint: listTimeline
    segments: [jack, ops]
    request_delay_ms: 1000
  - id: muted
    endpoint: mentions
    enabled: false
`)

	reg, err := LoadRegistry(path, defaultCatalog(t))
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	if len(reg.All()) != 3 || len(reg.Enabled()) != 2 {
		t.Fatalf("unexpected feed counts all=%d enabled=%d", len(reg.All()), len(reg.Enabled()))
	}

	home, ok := reg.ByID("home")
	if !ok || home.Name != "home" || home.RequestDelay() != defaultRequestDelayMs*time.Millisecond {
		t.Fatalf("unexpected home feed %+v", home)
	}
	if home.Request().Params["count"] != 50 {
		t.Fatalf("params not carried: %#v", home.Request().Params)
	}

	list, _ := reg.ByID("ops-list")
	req := list.Request()
	if len(req.Segments) != 2 || req.Segments[1] != "ops" || list.RequestDelay() != time.Second {
		t.Fatalf("unexpected list feed %+v", list)
	}
}

func TestLoadRegistryRejectsUnknownEndpoint(t *testing.T) {
	path := writeFile(t, "feeds.yaml", `
feeds:
  - id: bogus
    endpoint: notAnEndpoint
`)
	_, err := LoadRegistry(path, defaultCatalog(t))
	if !errors.Is(err, twitter.ErrUnknownEndpoint) {
		t.Fatalf("expected ErrUnknownEndpoint, got %v", err)
	}
}

func TestLoadRegistryRejectsSegmentMismatch(t *testing.T) {
	path := writeFile(t, "feeds.json", `{"feeds":[{"id":"l","endpoint":"listTimeline","segments":["jack"]}]}`)
	_, err := LoadRegistry(path, defaultCatalog(t))
	if !errors.Is(err, twitter.ErrArguments) {
		t.Fatalf("expected ErrArguments, got %v", err)
	}
}

func TestLoadRegistryDuplicateID(t *testing.T) {
	path := writeFile(t, "feeds.yaml", `
feeds:
  - {id: dup, endpoint: homeTimeline}
  - {id: dup, endpoint: mentions}
`)
	if _, err := LoadRegistry(path, nil); err == nil {
		t.Fatalf("expected duplicate feed error")
	}
}

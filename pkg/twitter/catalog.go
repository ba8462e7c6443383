package twitter

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"unicode"

	"gopkg.in/yaml.v3"
)

//go:embed endpoints.yaml
var defaultCatalogYAML []byte

var placeholderRe = regexp.MustCompile(`\{([a-zA-Z0-9_]+)\}`)

// Endpoint describes one REST resource exposed by the API.
type Endpoint struct {
	ID     string   `json:"id" yaml:"id"`
	Method string   `json:"method" yaml:"method"`
	Path   string   `json:"path" yaml:"path"`
	Event  string   `json:"event" yaml:"event"`
	Args   []string `json:"args" yaml:"args"`
	// Params are sent with every call; caller params and args override them.
	Params map[string]string `json:"params" yaml:"params"`
}

// Request carries the caller-supplied parts of a call.
type Request struct {
	// Segments fill the endpoint's path placeholders in order.
	Segments []string
	// Args are bound positionally to the endpoint's args keys.
	Args []string
	// Params are sent as the query string (GET) or form body (POST).
	Params Params
}

// Placeholders returns the names of the path template's placeholders in order.
func (e Endpoint) Placeholders() []string {
	matches := placeholderRe.FindAllStringSubmatch(e.Path, -1)
	if len(matches) == 0 {
		return nil
	}
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m[1])
	}
	return out
}

// Build resolves the endpoint against base and shapes the request parameters.
func (e Endpoint) Build(base string, req Request) (string, Params, error) {
	names := e.Placeholders()
	if len(req.Segments) != len(names) {
		return "", nil, fmt.Errorf("%w: %s expects %d path segments %v, got %d",
			ErrArguments, e.ID, len(names), names, len(req.Segments))
	}
	if len(req.Args) > len(e.Args) {
		return "", nil, fmt.Errorf("%w: %s accepts at most %d args %v, got %d",
			ErrArguments, e.ID, len(e.Args), e.Args, len(req.Args))
	}

	path := e.Path
	for i, seg := range req.Segments {
		if strings.TrimSpace(seg) == "" {
			return "", nil, fmt.Errorf("%w: %s segment %q is empty", ErrArguments, e.ID, names[i])
		}
		path = strings.Replace(path, "{"+names[i]+"}", url.PathEscape(seg), 1)
	}

	var params Params
	if len(e.Params) > 0 || len(req.Params) > 0 || len(req.Args) > 0 {
		params = make(Params, len(e.Params)+len(req.Params)+len(req.Args))
		for k, v := range e.Params {
			params[k] = v
		}
		for k, v := range req.Params {
			params[k] = v
		}
		for i, arg := range req.Args {
			params[e.Args[i]] = arg
		}
	}

	return joinURL(base, path), params, nil
}

func joinURL(base, path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") || base == "" {
		return path
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}

// Catalog is an immutable table of endpoints keyed by id.
type Catalog struct {
	mu        sync.RWMutex
	endpoints []Endpoint
	idx       map[string]Endpoint
}

type catalogFile struct {
	Endpoints []Endpoint `json:"endpoints" yaml:"endpoints"`
}

// DefaultCatalog returns the catalog bundled with the package.
func DefaultCatalog() (*Catalog, error) {
	return ParseCatalog(defaultCatalogYAML, ".yaml")
}

// LoadCatalog reads a catalog from a YAML or JSON file.
func LoadCatalog(path string) (*Catalog, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("endpoints file path is empty")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open endpoints file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read endpoints file: %w", err)
	}
	return ParseCatalog(raw, filepath.Ext(path))
}

// ParseCatalog decodes and validates catalog content. ext selects the format
// (".yaml", ".yml" or ".json"); an empty ext tries each in turn.
func ParseCatalog(data []byte, ext string) (*Catalog, error) {
	file, err := parseCatalogFile(data, ext)
	if err != nil {
		return nil, err
	}
	if len(file.Endpoints) == 0 {
		return nil, errors.New("endpoints file contains no endpoints entries")
	}

	cat := &Catalog{
		endpoints: make([]Endpoint, len(file.Endpoints)),
		idx:       make(map[string]Endpoint, len(file.Endpoints)),
	}
	for i := range file.Endpoints {
		ep := sanitizeEndpoint(file.Endpoints[i])
		if err := validateEndpoint(ep); err != nil {
			return nil, fmt.Errorf("endpoints[%d]: %w", i, err)
		}
		if _, exists := cat.idx[ep.ID]; exists {
			return nil, fmt.Errorf("duplicate endpoint id %q", ep.ID)
		}
		cat.endpoints[i] = ep
		cat.idx[ep.ID] = ep
	}
	return cat, nil
}

func parseCatalogFile(data []byte, ext string) (catalogFile, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))
	decoders := []struct {
		name string
		ext  string
		fn   func([]byte, any) error
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		var file catalogFile
		if err := d.fn(data, &file); err == nil {
			return file, nil
		}
	}
	return catalogFile{}, errors.New("endpoints file format not recognized (expected YAML or JSON)")
}

func sanitizeEndpoint(ep Endpoint) Endpoint {
	ep.ID = strings.TrimSpace(ep.ID)
	ep.Method = strings.ToUpper(strings.TrimSpace(ep.Method))
	ep.Path = strings.TrimSpace(ep.Path)
	ep.Event = strings.TrimSpace(ep.Event)
	if ep.Event == "" && ep.ID != "" {
		ep.Event = DefaultEventName(ep.ID)
	}
	args := make([]string, 0, len(ep.Args))
	for _, a := range ep.Args {
		if a = strings.TrimSpace(a); a != "" {
			args = append(args, a)
		}
	}
	ep.Args = args
	return ep
}

// validateEndpoint checks required fields. The verb is deliberately not
// restricted here; the dispatcher rejects verbs it cannot serve.
func validateEndpoint(ep Endpoint) error {
	if ep.ID == "" {
		return errors.New("id is required")
	}
	if ep.Method == "" {
		return fmt.Errorf("method is required for endpoint %q", ep.ID)
	}
	if ep.Path == "" {
		return fmt.Errorf("path is required for endpoint %q", ep.ID)
	}
	return nil
}

// DefaultEventName derives the event an endpoint publishes to, e.g.
// userTimeline -> onUserTimeline.
func DefaultEventName(id string) string {
	if id == "" {
		return ""
	}
	r := []rune(id)
	r[0] = unicode.ToUpper(r[0])
	return "on" + string(r)
}

// Lookup returns the endpoint registered under id.
func (c *Catalog) Lookup(id string) (Endpoint, bool) {
	if c == nil {
		return Endpoint{}, false
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return Endpoint{}, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	ep, ok := c.idx[id]
	return ep, ok
}

// All returns the endpoints in catalog order.
func (c *Catalog) All() []Endpoint {
	if c == nil {
		return nil
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Endpoint, len(c.endpoints))
	copy(out, c.endpoints)
	return out
}

// Len reports the number of endpoints.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.endpoints)
}

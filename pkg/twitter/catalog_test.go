package twitter

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestDefaultCatalogIsConsistent(t *testing.T) {
	cat, err := DefaultCatalog()
	if err != nil {
		t.Fatalf("DefaultCatalog: %v", err)
	}
	if cat.Len() < 50 {
		t.Fatalf("expected at least 50 endpoints, got %d", cat.Len())
	}

	allowed := map[string]bool{"GET": true, "POST": true, "DELETE": true}
	for _, ep := range cat.All() {
		if !allowed[ep.Method] {
			t.Fatalf("endpoint %s has verb %q", ep.ID, ep.Method)
		}
		if ep.Method == "DELETE" && len(ep.Args) > 0 {
			t.Fatalf("endpoint %s declares args that a DELETE cannot carry", ep.ID)
		}
		if ep.Event != DefaultEventName(ep.ID) {
			t.Fatalf("endpoint %s has event %q", ep.ID, ep.Event)
		}
		segs := make([]string, len(ep.Placeholders()))
		for i := range segs {
			segs[i] = "x"
		}
		args := make([]string, len(ep.Args))
		for i := range args {
			args[i] = "v"
		}
		if _, _, err := ep.Build(DefaultBaseURL, Request{Segments: segs, Args: args}); err != nil {
			t.Fatalf("endpoint %s: %v", ep.ID, err)
		}
	}

	ep, ok := cat.Lookup("userTimeline")
	if !ok || ep.Event != "onUserTimeline" || ep.Method != "GET" {
		t.Fatalf("unexpected userTimeline entry %+v", ep)
	}
}

func TestEndpointBuildShapesArgsOverParams(t *testing.T) {
	ep := Endpoint{ID: "updateStatus", Method: "POST", Path: "statuses/update.json", Args: []string{"status"}}
	in := Params{"status": "old", "in_reply_to_status_id": "5"}

	u, params, err := ep.Build("https://api.example.com/1", Request{Args: []string{"new"}, Params: in})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if u != "https://api.example.com/1/statuses/update.json" {
		t.Fatalf("url = %q", u)
	}
	want := Params{"status": "new", "in_reply_to_status_id": "5"}
	if !reflect.DeepEqual(params, want) {
		t.Fatalf("params = %#v", params)
	}
	if in["status"] != "old" {
		t.Fatalf("caller params must not be mutated")
	}
}

func TestEndpointBuildRejectsTooManyArgsAndEmptySegments(t *testing.T) {
	ep := Endpoint{ID: "showList", Path: "{user}/lists/{list_id}.json"}
	if _, _, err := ep.Build("", Request{Segments: []string{"jack", " "}}); err == nil {
		t.Fatalf("expected error for blank segment")
	}
	if _, _, err := ep.Build("", Request{Segments: []string{"jack", "1"}, Args: []string{"x"}}); err == nil {
		t.Fatalf("expected error for unexpected args")
	}
}

func TestLoadCatalogFromYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "endpoints.yaml")
	raw := `
endpoints:
  - id: search
    method: get
    path: https://search.example.com/search.json
    event: onSearchResults
    args: [q]
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	cat, err := LoadCatalog(path)
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	ep, ok := cat.Lookup("search")
	if !ok || ep.Method != "GET" || ep.Event != "onSearchResults" {
		t.Fatalf("unexpected entry %+v", ep)
	}
	u, _, err := ep.Build(DefaultBaseURL, Request{Args: []string{"golang"}})
	if err != nil || u != "https://search.example.com/search.json" {
		t.Fatalf("absolute path must bypass base url, got %q err=%v", u, err)
	}
}

func TestParseCatalogRejectsDuplicates(t *testing.T) {
	raw := []byte(`
endpoints:
  - {id: a, method: GET, path: a.json}
  - {id: a, method: GET, path: b.json}
`)
	if _, err := ParseCatalog(raw, ".yaml"); err == nil {
		t.Fatalf("expected duplicate id error")
	}
}

func TestParamsEncodeSortsAndEscapes(t *testing.T) {
	got := Params{"b": "x y", "a": 1, "c": true}.Encode()
	if got != "a=1&b=x%20y&c=true" {
		t.Fatalf("Encode = %q", got)
	}
	if got := (Params{"a-b": 2, "a": 1}).Encode(); got != "a=1&a-b=2" {
		t.Fatalf("pairs must be ordered by key, got %q", got)
	}
	if Params(nil).Encode() != "" {
		t.Fatalf("empty params must encode to empty string")
	}
}

func TestEndpointFixedParamsAreOverridable(t *testing.T) {
	ep := Endpoint{ID: "x", Method: "POST", Path: "x.json", Args: []string{"id"}, Params: map[string]string{"_method": "DELETE", "mode": "public"}}

	_, params, err := ep.Build("", Request{Args: []string{"7"}, Params: Params{"mode": "private"}})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	want := Params{"_method": "DELETE", "mode": "private", "id": "7"}
	if !reflect.DeepEqual(params, want) {
		t.Fatalf("params = %#v", params)
	}
}

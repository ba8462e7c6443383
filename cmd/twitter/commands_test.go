package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/samvad-hq/twitter-client/pkg/twitter"
)

func TestParseParams(t *testing.T) {
	params, err := parseParams([]string{"count=5", "q=a=b", " trim_user =true"})
	if err != nil {
		t.Fatalf("parseParams: %v", err)
	}
	if params["count"] != "5" || params["q"] != "a=b" || params["trim_user"] != "true" {
		t.Fatalf("unexpected params %#v", params)
	}

	if _, err := parseParams([]string{"novalue"}); err == nil {
		t.Fatalf("expected error for missing '='")
	}
	if p, err := parseParams(nil); err != nil || p != nil {
		t.Fatalf("expected nil params for no pairs, got %#v, %v", p, err)
	}
}

func TestPrintCatalogListsEndpoints(t *testing.T) {
	cat, err := twitter.ParseCatalog([]byte(`{"endpoints":[{"id":"updateStatus","method":"post","path":"statuses/update.json","args":["status"]}]}`), ".json")
	if err != nil {
		t.Fatalf("ParseCatalog: %v", err)
	}

	var buf bytes.Buffer
	if err := printCatalog(&buf, cat); err != nil {
		t.Fatalf("printCatalog: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"updateStatus", "POST", "statuses/update.json", "onUpdateStatus", "status"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintResult(t *testing.T) {
	res := twitter.Decode("onShowStatus", []byte(`{"id":1,"user":{"screen_name":"jack"}}`), nil)

	var buf bytes.Buffer
	if err := printResult(&buf, res, "user.screen_name"); err != nil {
		t.Fatalf("printResult: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "jack" {
		t.Fatalf("gjson path output = %q", buf.String())
	}

	buf.Reset()
	if err := printResult(&buf, res, ""); err != nil {
		t.Fatalf("printResult: %v", err)
	}
	if !strings.Contains(buf.String(), `"screen_name": "jack"`) {
		t.Fatalf("pretty output = %s", buf.String())
	}

	cause := errors.New("offline")
	if err := printResult(&buf, twitter.Result{Event: "onShowStatus", Err: cause}, ""); !errors.Is(err, cause) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
}

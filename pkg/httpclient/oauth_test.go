package httpclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"
)

func TestOAuthTransportSignsGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		auth := r.Header.Get("Authorization")
		if !strings.HasPrefix(auth, "OAuth ") {
			t.Errorf("missing OAuth header, got %q", auth)
		}
		for _, want := range []string{`oauth_consumer_key="ck"`, `oauth_token="tok"`, `oauth_signature_method="HMAC-SHA1"`, "oauth_signature="} {
			if !strings.Contains(auth, want) {
				t.Errorf("authorization header missing %s: %s", want, auth)
			}
		}
		if got := r.URL.Query().Get("screen_name"); got != "jack" {
			t.Errorf("query screen_name = %q", got)
		}
		if got := r.Header.Get("User-Agent"); got != "twitter-client-test" {
			t.Errorf("User-Agent = %q", got)
		}
		w.Write([]byte(`[{"id":1}]`))
	}))
	defer srv.Close()

	tr := NewOAuthTransport("ck", "cs", 2*time.Second, WithUserAgent("twitter-client-test"))
	body, err := tr.Get(context.Background(), srv.URL+"/statuses/user_timeline.json?screen_name=jack", "tok", "ts")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(body) != `[{"id":1}]` {
		t.Fatalf("unexpected body %s", body)
	}
}

func TestOAuthTransportPostsFormBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/x-www-form-urlencoded") {
			t.Errorf("Content-Type = %q", ct)
		}
		raw, _ := io.ReadAll(r.Body)
		form, err := url.ParseQuery(string(raw))
		if err != nil {
			t.Errorf("parse form: %v", err)
		}
		if form.Get("status") != "hello world" || len(form) != 1 {
			t.Errorf("unexpected form %v", form)
		}
		if r.URL.RawQuery != "" {
			t.Errorf("POST must not carry a query, got %q", r.URL.RawQuery)
		}
		w.Write([]byte(`{"id":123,"text":"hello world"}`))
	}))
	defer srv.Close()

	tr := NewOAuthTransport("ck", "cs", 2*time.Second)
	body, err := tr.Post(context.Background(), srv.URL+"/statuses/update.json", "tok", "ts", map[string]string{"status": "hello world"})
	if err != nil {
		t.Fatalf("Post: %v", err)
	}
	if !strings.Contains(string(body), `"text":"hello world"`) {
		t.Fatalf("unexpected body %s", body)
	}
}

func TestOAuthTransportDeleteAndStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("expected DELETE, got %s", r.Method)
		}
		http.Error(w, `{"error":"Not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	tr := NewOAuthTransport("ck", "cs", 2*time.Second)
	_, err := tr.Delete(context.Background(), srv.URL+"/favorites/destroy/1.json", "tok", "ts")
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if se.StatusCode != http.StatusNotFound || !strings.Contains(se.Error(), "Not found") {
		t.Fatalf("unexpected status error %v", se)
	}
}

func TestOAuthTransportNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	addr := srv.URL
	srv.Close()

	tr := NewOAuthTransport("ck", "cs", time.Second)
	if _, err := tr.Get(context.Background(), addr+"/x.json", "tok", "ts"); err == nil {
		t.Fatalf("expected network error")
	}
}

func TestRestyClientGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Accept") != "text/html" {
			t.Errorf("missing Accept header")
		}
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("short and stout"))
	}))
	defer srv.Close()

	resp, err := NewRestyClient(time.Second).Get(context.Background(), srv.URL, map[string]string{"Accept": "text/html"})
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if resp.StatusCode() != http.StatusTeapot || string(resp.Body()) != "short and stout" {
		t.Fatalf("unexpected response %d %s", resp.StatusCode(), resp.Body())
	}
}

type countingRoundTripper struct {
	next  http.RoundTripper
	calls int
}

func (c *countingRoundTripper) RoundTrip(r *http.Request) (*http.Response, error) {
	c.calls++
	return c.next.RoundTrip(r)
}

func TestOAuthTransportUsesBaseHTTPClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.Header.Get("Authorization"), "OAuth ") {
			t.Errorf("request through base client was not signed")
		}
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	rt := &countingRoundTripper{next: http.DefaultTransport}
	tr := NewOAuthTransport("ck", "cs", time.Second, WithBaseHTTPClient(&http.Client{Transport: rt}))
	if _, err := tr.Get(context.Background(), srv.URL, "tok", "ts"); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if rt.calls != 1 {
		t.Fatalf("expected base round tripper to carry the request, calls=%d", rt.calls)
	}
}

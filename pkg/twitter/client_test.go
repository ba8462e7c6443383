package twitter

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"
)

func newTestClient(t *testing.T, tr Transport) *Client {
	t.Helper()
	c, err := New(tr, AccessToken{Token: "tok", TokenSecret: "sec"},
		WithBaseURL("https://api.example.com/1/"),
		WithTimeout(time.Second))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestUpdateStatusDeliversToListener(t *testing.T) {
	tr := &fakeTransport{body: []byte(`{"id":123,"text":"hello world"}`)}
	c := newTestClient(t, tr)

	heard := make(chan Result, 1)
	c.Subscribe("onUpdateStatus", func(r Result) { heard <- r })

	res := waitResult(t, c.UpdateStatus(context.Background(), "hello world"))

	call := tr.calls[0]
	if call.method != "POST" || call.url != "https://api.example.com/1/statuses/update.json" {
		t.Fatalf("unexpected call %+v", call)
	}
	if !reflect.DeepEqual(call.params, map[string]string{"status": "hello world"}) {
		t.Fatalf("unexpected body %#v", call.params)
	}

	want := map[string]any{"id": json.Number("123"), "text": "hello world"}
	if res.Err != nil || !reflect.DeepEqual(res.Value, want) {
		t.Fatalf("unexpected result %+v", res)
	}

	listened := waitResult(t, heard)
	if listened.Event != "onUpdateStatus" || !reflect.DeepEqual(listened.Value, want) {
		t.Fatalf("listener got %+v", listened)
	}
}

func TestCallInterpolatesPathSegments(t *testing.T) {
	tr := &fakeTransport{body: []byte(`[]`)}
	c := newTestClient(t, tr)

	waitResult(t, c.ListTimeline(context.Background(), "jack", "team/ops", Params{"per_page": 5}))
	got := tr.calls[0].url
	want := "https://api.example.com/1/jack/lists/team%2Fops/statuses.json?per_page=5"
	if got != want {
		t.Fatalf("url = %q, want %q", got, want)
	}
}

func TestNewDirectMessageShapesArgs(t *testing.T) {
	tr := &fakeTransport{body: []byte(`{}`)}
	c := newTestClient(t, tr)

	waitResult(t, c.NewDirectMessage(context.Background(), "jack", "hi there"))
	want := map[string]string{"screen_name": "jack", "text": "hi there"}
	if !reflect.DeepEqual(tr.calls[0].params, want) {
		t.Fatalf("params = %#v", tr.calls[0].params)
	}
}

func TestShowStatusUsesQueryArg(t *testing.T) {
	tr := &fakeTransport{body: []byte(`{}`)}
	c := newTestClient(t, tr)

	waitResult(t, c.ShowStatus(context.Background(), "99"))
	if got := tr.calls[0].url; got != "https://api.example.com/1/statuses/show.json?id=99" {
		t.Fatalf("url = %q", got)
	}
}

func TestDestroyDirectMessageUsesDelete(t *testing.T) {
	tr := &fakeTransport{body: []byte(`{}`)}
	c := newTestClient(t, tr)

	waitResult(t, c.DestroyDirectMessage(context.Background(), "7"))
	call := tr.calls[0]
	if call.method != "DELETE" || !strings.HasSuffix(call.url, "/direct_messages/destroy/7.json") {
		t.Fatalf("unexpected call %+v", call)
	}
}

func TestCallUnknownEndpoint(t *testing.T) {
	tr := &fakeTransport{}
	c := newTestClient(t, tr)

	res := waitResult(t, c.Call(context.Background(), "noSuchThing", Request{}))
	if !errors.Is(res.Err, ErrUnknownEndpoint) {
		t.Fatalf("expected ErrUnknownEndpoint, got %v", res.Err)
	}
	if res.Event != "onNoSuchThing" || tr.callCount() != 0 {
		t.Fatalf("unexpected result %+v calls=%d", res, tr.callCount())
	}
}

func TestCallSegmentMismatch(t *testing.T) {
	tr := &fakeTransport{}
	c := newTestClient(t, tr)

	res := waitResult(t, c.Call(context.Background(), "showList", Request{Segments: []string{"jack"}}))
	if !errors.Is(res.Err, ErrArguments) {
		t.Fatalf("expected ErrArguments, got %v", res.Err)
	}
	if tr.callCount() != 0 {
		t.Fatalf("transport must not be invoked")
	}
}

func TestCallUnsupportedVerbFromCustomCatalog(t *testing.T) {
	cat, err := ParseCatalog([]byte(`{"endpoints":[{"id":"patchy","method":"PATCH","path":"p.json"}]}`), ".json")
	if err != nil {
		t.Fatalf("ParseCatalog: %v", err)
	}
	tr := &fakeTransport{}
	c, err := New(tr, AccessToken{}, WithCatalog(cat))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	res := waitResult(t, c.Call(context.Background(), "patchy", Request{}))
	if !errors.Is(res.Err, ErrUnsupportedMethod) || tr.callCount() != 0 {
		t.Fatalf("expected unsupported method without transport call, got %v", res.Err)
	}
}

func TestFailureOfOneCallDoesNotAffectOthers(t *testing.T) {
	tr := &fakeTransport{bodyFn: func(u string) []byte {
		if strings.Contains(u, "mentions") {
			return []byte("not json")
		}
		return []byte(`[{"id":1}]`)
	}}
	c := newTestClient(t, tr)

	bad := c.Mentions(context.Background(), nil)
	good := c.HomeTimeline(context.Background(), nil)

	if res := waitResult(t, bad); res.Err == nil {
		t.Fatalf("expected decode error for mentions")
	}
	if res := waitResult(t, good); res.Err != nil {
		t.Fatalf("home timeline failed: %v", res.Err)
	}
}

func TestDoWaitsForResult(t *testing.T) {
	tr := &fakeTransport{body: []byte(`{"ok":"yes"}`)}
	c := newTestClient(t, tr)

	res := c.Do(context.Background(), "helpTest", Request{})
	if res.Err != nil || res.Get("ok").String() != "yes" {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestNewRequiresTransport(t *testing.T) {
	if _, err := New(nil, AccessToken{}); err == nil {
		t.Fatalf("expected error for nil transport")
	}
}

func TestRemoveListMemberTunnelsDelete(t *testing.T) {
	tr := &fakeTransport{body: []byte(`{}`)}
	c := newTestClient(t, tr)

	res := waitResult(t, c.RemoveListMember(context.Background(), "acme", "ops", "42"))
	if res.Err != nil {
		t.Fatalf("RemoveListMember: %v", res.Err)
	}
	call := tr.calls[0]
	if call.method != "POST" || call.url != "https://api.example.com/1/acme/ops/members.json" {
		t.Fatalf("unexpected call %+v", call)
	}
	want := map[string]string{"id": "42", "_method": "DELETE"}
	if !reflect.DeepEqual(call.params, want) {
		t.Fatalf("unexpected body %#v", call.params)
	}
}

func TestListenerMayCallClientAgain(t *testing.T) {
	tr := &fakeTransport{body: []byte(`[]`)}
	c := newTestClient(t, tr)
	ctx := context.Background()

	followUp := make(chan Result, 1)
	c.Subscribe("onUserTimeline", func(Result) {
		followUp <- <-c.Call(ctx, "noSuchEndpoint", Request{})
	})
	unknown := make(chan Result, 1)
	c.Subscribe("onNoSuchEndpoint", func(r Result) { unknown <- r })

	if res := waitResult(t, c.UserTimeline(ctx, nil)); res.Err != nil {
		t.Fatalf("UserTimeline: %v", res.Err)
	}
	if res := waitResult(t, followUp); !errors.Is(res.Err, ErrUnknownEndpoint) {
		t.Fatalf("follow-up call: expected ErrUnknownEndpoint, got %v", res.Err)
	}
	if res := waitResult(t, unknown); !errors.Is(res.Err, ErrUnknownEndpoint) {
		t.Fatalf("follow-up listener: expected ErrUnknownEndpoint, got %v", res.Err)
	}

	// later calls are still published
	heard := make(chan Result, 1)
	c.Subscribe("onMentions", func(r Result) { heard <- r })
	waitResult(t, c.Mentions(ctx, nil))
	if res := waitResult(t, heard); res.Err != nil {
		t.Fatalf("mentions listener: %v", res.Err)
	}
}

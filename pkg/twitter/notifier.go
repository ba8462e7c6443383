package twitter

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"sync"

	"github.com/tidwall/gjson"
)

// Result is the outcome of a single call: either Err is set, or Value holds
// the decoded JSON body.
type Result struct {
	Event string
	Value any
	Raw   []byte
	Err   error
}

// Get queries the raw JSON body with a gjson path.
func (r Result) Get(path string) gjson.Result {
	if r.Err != nil || len(r.Raw) == 0 {
		return gjson.Result{}
	}
	return gjson.GetBytes(r.Raw, path)
}

// Decode unmarshals the raw JSON body into v.
func (r Result) Decode(v any) error {
	if r.Err != nil {
		return r.Err
	}
	return json.Unmarshal(r.Raw, v)
}

// Handler receives results published to an event.
type Handler func(Result)

type subscription struct {
	id int
	fn Handler
}

// Notifier decodes responses and publishes them to named subscribers.
type Notifier struct {
	mu     sync.RWMutex
	subs   map[string][]subscription
	nextID int

	// queue holds results awaiting delivery; the goroutine that finds
	// draining false delivers until the queue is empty.
	queueMu  sync.Mutex
	queue    []Result
	draining bool

	log Logger
}

// NewNotifier builds an empty notifier.
func NewNotifier(log Logger) *Notifier {
	return &Notifier{
		subs: make(map[string][]subscription),
		log:  ensureLogger(log),
	}
}

// Subscribe registers fn for every result published under event. The returned
// func removes the subscription.
func (n *Notifier) Subscribe(event string, fn Handler) func() {
	if fn == nil {
		return func() {}
	}

	n.mu.Lock()
	n.nextID++
	id := n.nextID
	n.subs[event] = append(n.subs[event], subscription{id: id, fn: fn})
	n.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { n.unsubscribe(event, id) })
	}
}

func (n *Notifier) unsubscribe(event string, id int) {
	n.mu.Lock()
	defer n.mu.Unlock()

	subs := n.subs[event]
	for i, s := range subs {
		if s.id == id {
			n.subs[event] = append(subs[:i:i], subs[i+1:]...)
			break
		}
	}
	if len(n.subs[event]) == 0 {
		delete(n.subs, event)
	}
}

// Notify turns a transport outcome into a Result and publishes it.
func (n *Notifier) Notify(event string, body []byte, err error) Result {
	res := Decode(event, body, err)
	n.Publish(res)
	return res
}

// Publish delivers res to every subscriber of res.Event in posting order. No
// lock is held while handlers run, so a handler may itself call the client.
// A result published while another goroutine is delivering is handed to that
// goroutine and Publish returns before its subscribers have run.
func (n *Notifier) Publish(res Result) {
	n.queueMu.Lock()
	n.queue = append(n.queue, res)
	if n.draining {
		n.queueMu.Unlock()
		return
	}
	n.draining = true

	defer func() {
		if r := recover(); r != nil {
			n.queueMu.Lock()
			n.draining = false
			n.queueMu.Unlock()
			panic(r)
		}
	}()

	for len(n.queue) > 0 {
		next := n.queue[0]
		n.queue[0] = Result{}
		n.queue = n.queue[1:]
		n.queueMu.Unlock()

		n.deliver(next)

		n.queueMu.Lock()
	}
	n.draining = false
	n.queueMu.Unlock()
}

func (n *Notifier) deliver(res Result) {
	n.mu.RLock()
	subs := append([]subscription(nil), n.subs[res.Event]...)
	n.mu.RUnlock()

	if res.Err != nil {
		n.log.WarnObj("request failed", "request_error", map[string]any{
			"event": res.Event,
			"error": res.Err.Error(),
		})
	} else {
		n.log.DebugObj("response received", "response_meta", map[string]any{
			"event":       res.Event,
			"bytes":       len(res.Raw),
			"subscribers": len(subs),
		})
	}

	for _, s := range subs {
		s.fn(res)
	}
}

// Decode builds the Result for a transport outcome. Transport errors and
// bodies that are not valid JSON are reported through Result.Err.
func Decode(event string, body []byte, err error) Result {
	if err != nil {
		return Result{Event: event, Err: err}
	}

	value, derr := decodeJSON(body)
	if derr != nil {
		return Result{Event: event, Err: &DecodeError{Event: event, Snippet: bodySnippet(body), Err: derr}}
	}
	return Result{Event: event, Value: value, Raw: body}
}

// decodeJSON keeps numbers as json.Number so 64-bit ids survive intact.
func decodeJSON(body []byte) (any, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, errors.New("empty body")
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var value any
	if err := dec.Decode(&value); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("unexpected data after top-level value")
	}
	return value, nil
}

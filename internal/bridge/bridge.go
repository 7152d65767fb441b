// Package bridge carries envelopes between the host and the embedded
// template. The two sides are isolated execution contexts: every frame
// crosses the boundary as serialized bytes, never as a shared reference.
// Calls get a correlated response future; pushes are fire-and-forget. Each
// direction is FIFO; no ordering holds across directions.
package bridge

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"

	"notibridge/internal/envelope"
)

// TransportFailure is the error string surfaced to a caller when the bridge
// itself fails (closed, cancelled, unserializable). It is produced locally
// and never crosses the boundary.
const TransportFailure = "transport_failure"

const frameBuffer = 64

const (
	kindCall  = "call"
	kindReply = "reply"
	kindPush  = "push"
)

// frame is the on-wire unit. Body holds the serialized Call, Push or
// Response, classified again on the receiving side.
type frame struct {
	Kind string          `json:"kind"`
	ID   string          `json:"id,omitempty"`
	Body json.RawMessage `json:"body,omitempty"`
}

// Handler receives the inbound traffic of one endpoint, strictly in arrival
// order.
type Handler interface {
	HandleCall(envelope.Call) envelope.Response
	HandlePush(envelope.Push)
}

// inbound is one classified call or push awaiting delivery to Serve.
type inbound struct {
	call *envelope.Call
	id   string
	push *envelope.Push
}

// Endpoint is one side of a bridge pair.
type Endpoint struct {
	out chan<- []byte
	in  <-chan []byte

	mu      sync.Mutex
	pending map[string]chan envelope.Response

	deliver chan inbound

	done      chan struct{}
	closeOnce *sync.Once
}

// Pair returns two connected endpoints. Closing either one tears down the
// whole bridge and fails any in-flight call on both sides.
func Pair() (*Endpoint, *Endpoint) {
	ab := make(chan []byte, frameBuffer)
	ba := make(chan []byte, frameBuffer)
	done := make(chan struct{})
	once := &sync.Once{}
	a := newEndpoint(ab, ba, done, once)
	b := newEndpoint(ba, ab, done, once)
	go a.route()
	go b.route()
	return a, b
}

func newEndpoint(out chan<- []byte, in <-chan []byte, done chan struct{}, once *sync.Once) *Endpoint {
	return &Endpoint{
		out:       out,
		in:        in,
		pending:   make(map[string]chan envelope.Response),
		deliver:   make(chan inbound, frameBuffer),
		done:      done,
		closeOnce: once,
	}
}

// Close tears down the bridge. Idempotent.
func (e *Endpoint) Close() {
	e.closeOnce.Do(func() { close(e.done) })
}

// Call sends a template<->host call and waits for the peer's response. Any
// transport fault is converted locally into Response{OK:false,
// Error:"transport_failure"}; Call never panics and never returns an error
// value, because callers on the template side cannot usefully react beyond
// the response itself.
func (e *Endpoint) Call(ctx context.Context, method string, payload map[string]any) envelope.Response {
	body, err := json.Marshal(envelope.Call{Method: method, Payload: payload})
	if err != nil {
		return transportFailure()
	}
	id := uuid.NewString()
	reply := make(chan envelope.Response, 1)
	e.mu.Lock()
	e.pending[id] = reply
	e.mu.Unlock()
	defer func() {
		e.mu.Lock()
		delete(e.pending, id)
		e.mu.Unlock()
	}()

	raw, err := json.Marshal(frame{Kind: kindCall, ID: id, Body: body})
	if err != nil {
		return transportFailure()
	}
	select {
	case e.out <- raw:
	case <-e.done:
		return transportFailure()
	case <-ctx.Done():
		return transportFailure()
	}
	select {
	case resp := <-reply:
		return resp
	case <-e.done:
		return transportFailure()
	case <-ctx.Done():
		return transportFailure()
	}
}

// Push submits a host->template message. Fire-and-forget: no acknowledgment
// beyond what the peer chooses to do with the data. Pushes submitted from
// one goroutine are delivered in submission order.
func (e *Endpoint) Push(p envelope.Push) {
	body, err := json.Marshal(p)
	if err != nil {
		return
	}
	raw, err := json.Marshal(frame{Kind: kindPush, Body: body})
	if err != nil {
		return
	}
	select {
	case e.out <- raw:
	case <-e.done:
	}
}

// Serve delivers inbound calls and pushes to h until ctx ends or the bridge
// closes. It is the endpoint's event loop: single-threaded, in arrival
// order. Call responses are routed independently, so Call works on an
// endpoint whether or not its own Serve is running.
func (e *Endpoint) Serve(ctx context.Context, h Handler) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-e.done:
			return
		case msg := <-e.deliver:
			if msg.push != nil {
				h.HandlePush(*msg.push)
				continue
			}
			resp := h.HandleCall(*msg.call)
			e.reply(msg.id, resp)
		}
	}
}

// Pending reports how many inbound messages are queued behind the one
// currently being handled. Handlers use it to coalesce work across a burst.
func (e *Endpoint) Pending() int {
	return len(e.deliver)
}

// route classifies raw inbound frames: replies resolve pending calls,
// calls and pushes queue for Serve. Malformed frames are dropped, except a
// malformed call with a usable id, which is answered ok:false so the caller
// is not left hanging.
func (e *Endpoint) route() {
	for {
		select {
		case <-e.done:
			return
		case raw := <-e.in:
			var f frame
			if err := json.Unmarshal(raw, &f); err != nil {
				continue
			}
			switch f.Kind {
			case kindReply:
				var resp envelope.Response
				if err := json.Unmarshal(f.Body, &resp); err != nil {
					resp = transportFailure()
				}
				e.resolve(f.ID, resp)
			case kindCall:
				call, ok := envelope.ClassifyCall(f.Body)
				if !ok {
					if f.ID != "" {
						e.reply(f.ID, envelope.Response{OK: false, Error: "malformed_message"})
					}
					continue
				}
				e.enqueue(inbound{call: &call, id: f.ID})
			case kindPush:
				push, ok := envelope.ClassifyPush(f.Body)
				if !ok {
					continue
				}
				e.enqueue(inbound{push: &push})
			}
		}
	}
}

func (e *Endpoint) enqueue(msg inbound) {
	select {
	case e.deliver <- msg:
	case <-e.done:
	}
}

func (e *Endpoint) resolve(id string, resp envelope.Response) {
	e.mu.Lock()
	reply, ok := e.pending[id]
	e.mu.Unlock()
	if !ok {
		return
	}
	select {
	case reply <- resp:
	default:
	}
}

func (e *Endpoint) reply(id string, resp envelope.Response) {
	body, err := json.Marshal(resp)
	if err != nil {
		return
	}
	raw, err := json.Marshal(frame{Kind: kindReply, ID: id, Body: body})
	if err != nil {
		return
	}
	select {
	case e.out <- raw:
	case <-e.done:
	}
}

func transportFailure() envelope.Response {
	return envelope.Response{OK: false, Error: TransportFailure}
}

// Package host is the native side of the bridge: it validates template
// calls, computes window placement from reported sizes, and maps action
// payloads to host effects. The window rectangle is owned here; the
// template never reads it.
package host

import (
	"log"

	"github.com/agnivade/levenshtein"

	"notibridge/internal/envelope"
)

// Handlers receives validated, coerced template calls. Any nil handler is a
// no-op.
type Handlers struct {
	OnReady  func(lang string, ts int64)
	OnSize   func(size envelope.Size)
	OnAction func(payload map[string]any)
}

// Transport is the host's single inbound entrypoint. Unknown methods are
// answered ok:false with no side effects. Known methods get defensive
// payload coercion, then their handler; a handler failure is caught and
// logged while the caller still receives ok:true; template code cannot
// usefully react to host-side failures, so the protocol promises
// best-effort delivery, not transactions.
type Transport struct {
	handlers Handlers
	logf     func(format string, args ...any)
}

// NewTransport wires the handler set. logf defaults to the standard logger.
func NewTransport(handlers Handlers) *Transport {
	return &Transport{handlers: handlers, logf: log.Printf}
}

// HandleCall implements bridge.Handler for the host endpoint.
func (t *Transport) HandleCall(c envelope.Call) envelope.Response {
	if !envelope.KnownMethod(c.Method) {
		t.logf("bridge: unknown method %q (closest known: %q)", c.Method, nearestMethod(c.Method))
		return envelope.Response{OK: false, Error: "unknown_method"}
	}
	t.dispatch(c)
	return envelope.Response{OK: true}
}

// HandlePush implements bridge.Handler; the template pushes nothing.
func (t *Transport) HandlePush(envelope.Push) {}

func (t *Transport) dispatch(c envelope.Call) {
	defer func() {
		if r := recover(); r != nil {
			t.logf("bridge: %s handler failed: %v", c.Method, r)
		}
	}()
	switch c.Method {
	case envelope.MethodReady:
		if t.handlers.OnReady != nil {
			t.handlers.OnReady(coerceString(c.Payload, "lang"), int64(coerceNumber(c.Payload, "ts")))
		}
	case envelope.MethodSize:
		if t.handlers.OnSize != nil {
			t.handlers.OnSize(envelope.Size{
				Width:  int(coerceNumber(c.Payload, "width")),
				Height: int(coerceNumber(c.Payload, "height")),
			})
		}
	case envelope.MethodAction:
		if t.handlers.OnAction != nil {
			t.handlers.OnAction(c.Payload)
		}
	}
}

// nearestMethod returns the known method closest to the unknown one, as a
// log hint for template authors with a typo in a method string.
func nearestMethod(method string) string {
	best := ""
	bestDist := -1
	for _, known := range envelope.KnownMethods() {
		dist := levenshtein.ComputeDistance(method, known)
		if bestDist < 0 || dist < bestDist {
			best, bestDist = known, dist
		}
	}
	return best
}

// coerceNumber reads a numeric payload field; missing or wrong-typed
// fields default to 0. JSON numbers decode as float64, but handlers built
// in-process may pass ints.
func coerceNumber(payload map[string]any, key string) float64 {
	switch v := payload[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return 0
}

// coerceString reads a string payload field; missing or wrong-typed fields
// default to "".
func coerceString(payload map[string]any, key string) string {
	if s, ok := payload[key].(string); ok {
		return s
	}
	return ""
}

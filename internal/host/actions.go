package host

import "sync"

// ActionClose is the one action the dispatcher interprets itself.
const ActionClose = "close_webview"

// Dispatcher maps template action payloads to host effects. close_webview
// triggers the close effect exactly once per dialog lifetime; every other
// action string is forwarded verbatim as an opaque event with its full
// payload; CTA-specific fields are not interpreted here. A missing or
// wrong-typed action field is a no-op.
type Dispatcher struct {
	closeOnce sync.Once
	close     func()
	forward   func(payload map[string]any)
}

// NewDispatcher wires the close effect and the opaque-event forward. Either
// may be nil.
func NewDispatcher(close func(), forward func(payload map[string]any)) *Dispatcher {
	return &Dispatcher{close: close, forward: forward}
}

// Dispatch executes the effect for one action payload.
func (d *Dispatcher) Dispatch(payload map[string]any) {
	action, ok := payload["action"].(string)
	if !ok || action == "" {
		return
	}
	if action == ActionClose {
		if d.close != nil {
			d.closeOnce.Do(d.close)
		}
		return
	}
	if d.forward != nil {
		d.forward(payload)
	}
}

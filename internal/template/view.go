package template

import (
	"context"
	"sync"
	"time"

	"notibridge/internal/bridge"
	"notibridge/internal/envelope"
)

// View glues Store, Client, Reporter and the renderer into the content
// view's event loop. It runs as one goroutine; the host never touches the
// state it owns, only the frames it publishes.
type View struct {
	store    *Store
	client   *Client
	reporter *Reporter
	ep       *bridge.Endpoint

	mu      sync.Mutex
	frame   string
	callCtx context.Context

	// onFrame publishes each rendered frame to the window surface. This is
	// presentation plumbing, not bridge traffic: in a native embedding the
	// view paints into the host's window directly.
	onFrame func(string)
}

// NewView assembles a content view over one bridge endpoint. onFrame may be
// nil for headless use.
func NewView(ep *bridge.Endpoint, fallbackLang string, debounce time.Duration, onFrame func(string)) *View {
	v := &View{
		store:   NewStore(fallbackLang),
		ep:      ep,
		callCtx: context.Background(),
		onFrame: onFrame,
	}
	v.client = NewClient(v.store, ep)
	v.reporter = NewReporter(debounce, v.measureFrame, v.sendSize)
	return v
}

// Run performs the template's startup sequence (initial layout, then
// onReady) and serves host pushes until ctx ends or the bridge closes.
// onReady is sent before any push is handled, which is what guarantees
// init is never applied first.
func (v *View) Run(ctx context.Context) {
	v.mu.Lock()
	v.callCtx = ctx
	v.mu.Unlock()

	v.render()
	v.client.Ready(ctx, v.store.Snapshot().Lang)
	v.ep.Serve(ctx, v)
	v.reporter.Stop()
}

// HandlePush applies one host push, then renders once the inbound queue is
// quiet so a burst of merges collapses into a single paint.
func (v *View) HandlePush(p envelope.Push) {
	v.client.HandlePush(p)
	if v.ep.Pending() == 0 {
		v.renderIfDirty()
	}
}

// HandleCall rejects template-directed calls; the protocol has none.
func (v *View) HandleCall(envelope.Call) envelope.Response {
	return envelope.Response{OK: false, Error: "unknown_method"}
}

// EmitAction forwards a user interaction inside the dialog to the host.
// Safe to call from outside the view loop.
func (v *View) EmitAction(payload map[string]any) envelope.Response {
	v.mu.Lock()
	ctx := v.callCtx
	v.mu.Unlock()
	return v.client.Action(ctx, payload)
}

// Frame returns the last rendered dialog frame.
func (v *View) Frame() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.frame
}

// State returns a snapshot of the current template state. Safe to call
// from outside the view loop; the host side has no access to this.
func (v *View) State() State {
	return v.store.Snapshot()
}

func (v *View) renderIfDirty() {
	if v.store.TakeRender() {
		v.render()
	}
}

func (v *View) render() {
	frame := RenderDialog(v.store.Snapshot())
	v.mu.Lock()
	v.frame = frame
	v.mu.Unlock()
	if v.onFrame != nil {
		v.onFrame(frame)
	}
	v.reporter.Trigger()
}

func (v *View) measureFrame() envelope.Size {
	v.mu.Lock()
	defer v.mu.Unlock()
	return Measure(v.frame)
}

func (v *View) sendSize(size envelope.Size) envelope.Response {
	v.mu.Lock()
	ctx := v.callCtx
	v.mu.Unlock()
	return v.client.ReportSize(ctx, size)
}

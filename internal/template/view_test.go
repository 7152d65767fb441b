package template

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"notibridge/internal/bridge"
	"notibridge/internal/envelope"
)

// fakeHost answers onReady with an init push, the way the real controller
// does, and records everything the template sends.
type fakeHost struct {
	ep *bridge.Endpoint

	mu      sync.Mutex
	methods []string
	sizes   []envelope.Size
	actions []map[string]any
}

func (h *fakeHost) HandleCall(c envelope.Call) envelope.Response {
	h.mu.Lock()
	h.methods = append(h.methods, c.Method)
	h.mu.Unlock()
	switch c.Method {
	case envelope.MethodReady:
		h.ep.Push(envelope.Push{
			Type:    envelope.TypeInit,
			Lang:    "en",
			I18n:    map[string]string{"title": "Hi", "body": "{count} pending"},
			Payload: map[string]any{"count": 1},
		})
	case envelope.MethodSize:
		h.mu.Lock()
		h.sizes = append(h.sizes, envelope.Size{
			Width:  int(c.Payload["width"].(float64)),
			Height: int(c.Payload["height"].(float64)),
		})
		h.mu.Unlock()
	case envelope.MethodAction:
		h.mu.Lock()
		h.actions = append(h.actions, c.Payload)
		h.mu.Unlock()
	}
	return envelope.Response{OK: true}
}

func (h *fakeHost) HandlePush(envelope.Push) {}

func (h *fakeHost) firstMethod() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.methods) == 0 {
		return ""
	}
	return h.methods[0]
}

func (h *fakeHost) sizeCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sizes)
}

func startView(t *testing.T) (*View, *fakeHost) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	hostEnd, templateEnd := bridge.Pair()
	t.Cleanup(func() {
		cancel()
		hostEnd.Close()
	})

	h := &fakeHost{ep: hostEnd}
	go hostEnd.Serve(ctx, h)

	v := NewView(templateEnd, "en", 10*time.Millisecond, nil)
	go v.Run(ctx)
	return v, h
}

func TestHandshakeInitializesState(t *testing.T) {
	v, h := startView(t)

	require.Eventually(t, func() bool {
		s := v.State()
		return s.Lang == "en" && s.I18n["title"] == "Hi"
	}, 2*time.Second, 5*time.Millisecond, "init never applied")

	// onReady is the first call the host observes; init is only ever a
	// reaction to it.
	require.Equal(t, envelope.MethodReady, h.firstMethod())
}

func TestUpdatePushMergesAndRerenders(t *testing.T) {
	v, h := startView(t)

	require.Eventually(t, func() bool {
		return v.State().I18n["title"] == "Hi"
	}, 2*time.Second, 5*time.Millisecond)

	h.ep.Push(envelope.Push{Type: envelope.TypeUpdate, Payload: map[string]any{"count": 2}})

	require.Eventually(t, func() bool {
		// Numbers cross the boundary as float64.
		return v.State().Payload["count"] == float64(2)
	}, 2*time.Second, 5*time.Millisecond, "update never merged")

	require.Eventually(t, func() bool {
		return v.Frame() != "" && Measure(v.Frame()) == RenderDialogSize(v.State())
	}, 2*time.Second, 5*time.Millisecond, "frame not re-rendered from merged state")
}

// RenderDialogSize is a test convenience: the size the current state
// renders to.
func RenderDialogSize(s State) envelope.Size {
	return Measure(RenderDialog(s))
}

func TestSizeReportMatchesRenderedFrame(t *testing.T) {
	v, h := startView(t)

	require.Eventually(t, func() bool {
		return h.sizeCount() > 0
	}, 2*time.Second, 5*time.Millisecond, "no size report arrived")

	require.Eventually(t, func() bool {
		h.mu.Lock()
		last := h.sizes[len(h.sizes)-1]
		h.mu.Unlock()
		return last == Measure(v.Frame())
	}, 2*time.Second, 5*time.Millisecond, "size report does not match the rendered frame")
}

func TestEmitActionReachesHost(t *testing.T) {
	v, h := startView(t)

	resp := v.EmitAction(map[string]any{"action": "cta_primary", "tag": "x"})
	require.True(t, resp.OK)

	h.mu.Lock()
	defer h.mu.Unlock()
	require.Len(t, h.actions, 1)
	require.Equal(t, "cta_primary", h.actions[0]["action"])
	require.Equal(t, "x", h.actions[0]["tag"], "payload must pass through unmodified")
}

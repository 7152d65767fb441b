package host

import (
	"context"
	"sync"

	"notibridge/internal/bridge"
	"notibridge/internal/envelope"
)

// Localizer supplies the host's locale catalogue: lang negotiation and the
// flat i18n map pushed to the template.
type Localizer interface {
	Match(requested string) string
	Messages(lang string) map[string]string
}

// Event is delivered to the embedding program for effects only the real
// window owner can perform: applying a rectangle, revealing the window,
// closing it, or reacting to an opaque action.
type Event any

// PlacedEvent carries a freshly computed window rectangle. First marks the
// first successful placement; the window must stay hidden until then so it
// never flashes at a default position.
type PlacedEvent struct {
	Rect  envelope.Rect
	First bool
}

// ActionEvent is an opaque template action forwarded verbatim.
type ActionEvent struct {
	Payload map[string]any
}

// CloseEvent requests the window close. Emitted at most once.
type CloseEvent struct{}

// Controller ties Transport, Place and the action Dispatcher to a bridge
// endpoint: the handshake (onReady -> init), size reports -> placement,
// and business pushes after init.
type Controller struct {
	ep             *bridge.Endpoint
	locale         Localizer
	defaultLang    string
	margin         int
	initialPayload map[string]any
	notify         func(Event)

	transport *Transport
	actions   *Dispatcher

	mu       sync.Mutex
	workarea envelope.Workarea
	lang     string
	lastSize *envelope.Size
	placed   bool
}

// NewController assembles the host side over one bridge endpoint.
func NewController(ep *bridge.Endpoint, locale Localizer, defaultLang string, margin int, initialPayload map[string]any, notify func(Event)) *Controller {
	c := &Controller{
		ep:             ep,
		locale:         locale,
		defaultLang:    defaultLang,
		margin:         margin,
		initialPayload: initialPayload,
		notify:         notify,
	}
	c.actions = NewDispatcher(
		func() { c.emit(CloseEvent{}) },
		func(payload map[string]any) { c.emit(ActionEvent{Payload: payload}) },
	)
	c.transport = NewTransport(Handlers{
		OnReady:  c.onReady,
		OnSize:   c.onSize,
		OnAction: c.actions.Dispatch,
	})
	return c
}

// Serve runs the host's bridge event loop until ctx ends or the bridge
// closes.
func (c *Controller) Serve(ctx context.Context) {
	c.ep.Serve(ctx, c.transport)
}

// Transport exposes the inbound entrypoint. Test hook.
func (c *Controller) Transport() *Transport {
	return c.transport
}

// SetWorkarea records the usable screen bounds. If a size report has
// already been placed, the rectangle is recomputed so the dialog tracks
// workarea changes.
func (c *Controller) SetWorkarea(wa envelope.Workarea) {
	c.mu.Lock()
	c.workarea = wa
	size := c.lastSize
	placed := c.placed
	c.mu.Unlock()
	if placed && size != nil {
		c.emit(PlacedEvent{Rect: Place(*size, wa, c.margin), First: false})
	}
}

// Lang returns the negotiated template language.
func (c *Controller) Lang() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lang
}

// SetLang renegotiates the language and pushes setLang plus the refreshed
// catalogue as a setI18n patch.
func (c *Controller) SetLang(requested string) {
	lang := c.locale.Match(requested)
	c.mu.Lock()
	c.lang = lang
	c.mu.Unlock()
	c.ep.Push(envelope.Push{Type: envelope.TypeSetLang, Lang: lang})
	c.ep.Push(envelope.Push{Type: envelope.TypeSetI18n, I18n: c.locale.Messages(lang)})
}

// UpdatePayload pushes a partial payload patch to the template.
func (c *Controller) UpdatePayload(patch map[string]any) {
	c.ep.Push(envelope.Push{Type: envelope.TypeUpdate, Payload: patch})
}

// onReady answers the handshake: negotiate the language, then push init.
// init is only ever pushed from here, which is what guarantees it follows
// onReady.
func (c *Controller) onReady(requested string, _ int64) {
	if requested == "" {
		requested = c.defaultLang
	}
	lang := c.locale.Match(requested)
	c.mu.Lock()
	c.lang = lang
	c.mu.Unlock()
	c.ep.Push(envelope.Push{
		Type:    envelope.TypeInit,
		Lang:    lang,
		I18n:    c.locale.Messages(lang),
		Payload: c.initialPayload,
	})
}

// onSize computes placement from the report and the workarea read at
// placement time.
func (c *Controller) onSize(size envelope.Size) {
	c.mu.Lock()
	c.lastSize = &size
	rect := Place(size, c.workarea, c.margin)
	first := !c.placed
	c.placed = true
	c.mu.Unlock()
	c.emit(PlacedEvent{Rect: rect, First: first})
}

func (c *Controller) emit(ev Event) {
	if c.notify != nil {
		c.notify(ev)
	}
}

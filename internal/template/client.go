package template

import (
	"context"
	"log"
	"time"

	"notibridge/internal/envelope"
)

// Caller abstracts the outbound half of the bridge so the client can be
// exercised without a live endpoint.
type Caller interface {
	Call(ctx context.Context, method string, payload map[string]any) envelope.Response
}

// Client is the template's boundary with the host. Inbound pushes are
// classified by the envelope package before they reach HandlePush; the
// client routes them to the store through a dispatch table built once at
// construction, so no ambient global carries handler state. Unrecognized
// push types are ignored without touching state, because the host is a
// different process that could send anything.
type Client struct {
	store  *Store
	caller Caller
	table  map[string]func(envelope.Push)
}

// NewClient builds the client and its dispatch table.
func NewClient(store *Store, caller Caller) *Client {
	c := &Client{store: store, caller: caller}
	c.table = map[string]func(envelope.Push){
		envelope.TypeInit: func(p envelope.Push) {
			if _, err := store.Init(p.Lang, p.I18n, p.Payload); err != nil {
				log.Printf("template: %v, using fallback", err)
			}
		},
		envelope.TypeSetLang: func(p envelope.Push) { store.SetLang(p.Lang) },
		envelope.TypeSetI18n: func(p envelope.Push) { store.SetI18n(p.I18n) },
		envelope.TypeUpdate:  func(p envelope.Push) { store.Update(p.Payload) },
	}
	return c
}

// HandlePush applies one host push. Unknown types fall through silently.
func (c *Client) HandlePush(p envelope.Push) {
	if handle, ok := c.table[p.Type]; ok {
		handle(p)
	}
}

// call submits one template->host request. Every transport failure (a
// missing bridge, a panicking call) is converted to a local ok:false
// response so a broken bridge can never take down the render loop.
func (c *Client) call(ctx context.Context, method string, payload map[string]any) (resp envelope.Response) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("template: call %s panicked: %v", method, r)
			resp = envelope.Response{OK: false, Error: "transport_failure"}
		}
	}()
	if c.caller == nil {
		return envelope.Response{OK: false, Error: "transport_failure"}
	}
	return c.caller.Call(ctx, method, payload)
}

// Ready announces that initial layout is done. Always the first call the
// host observes; the host's reply to it is what triggers init.
func (c *Client) Ready(ctx context.Context, lang string) envelope.Response {
	return c.call(ctx, envelope.MethodReady, map[string]any{
		"lang": lang,
		"ts":   time.Now().UnixMilli(),
	})
}

// ReportSize sends one measured dialog size.
func (c *Client) ReportSize(ctx context.Context, size envelope.Size) envelope.Response {
	return c.call(ctx, envelope.MethodSize, map[string]any{
		"width":  size.Width,
		"height": size.Height,
	})
}

// Action forwards one user interaction payload to the host.
func (c *Client) Action(ctx context.Context, payload map[string]any) envelope.Response {
	return c.call(ctx, envelope.MethodAction, payload)
}

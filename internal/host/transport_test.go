package host

import (
	"fmt"
	"strings"
	"testing"

	"notibridge/internal/envelope"
)

func TestUnknownMethodRejectedWithoutSideEffects(t *testing.T) {
	called := false
	tr := NewTransport(Handlers{
		OnReady:  func(string, int64) { called = true },
		OnSize:   func(envelope.Size) { called = true },
		OnAction: func(map[string]any) { called = true },
	})
	var logged string
	tr.logf = func(format string, args ...any) { logged = fmt.Sprintf(format, args...) }

	resp := tr.HandleCall(envelope.Call{Method: "template:onResize"})
	if resp.OK || resp.Error != "unknown_method" {
		t.Fatalf("resp=%+v", resp)
	}
	if called {
		t.Fatal("unknown method reached a handler")
	}
	if !strings.Contains(logged, envelope.MethodSize) {
		t.Fatalf("log hint missing nearest method: %q", logged)
	}
}

func TestPayloadCoercionDefaults(t *testing.T) {
	tests := []struct {
		name     string
		payload  map[string]any
		wantSize envelope.Size
	}{
		{name: "numbers_present", payload: map[string]any{"width": float64(470), "height": float64(210)}, wantSize: envelope.Size{Width: 470, Height: 210}},
		{name: "ints_accepted", payload: map[string]any{"width": 12, "height": 3}, wantSize: envelope.Size{Width: 12, Height: 3}},
		{name: "missing_defaults_zero", payload: map[string]any{}, wantSize: envelope.Size{}},
		{name: "wrong_type_defaults_zero", payload: map[string]any{"width": "wide", "height": nil}, wantSize: envelope.Size{}},
		{name: "nil_payload", payload: nil, wantSize: envelope.Size{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got envelope.Size
			tr := NewTransport(Handlers{OnSize: func(s envelope.Size) { got = s }})
			resp := tr.HandleCall(envelope.Call{Method: envelope.MethodSize, Payload: tt.payload})
			if !resp.OK {
				t.Fatalf("resp=%+v", resp)
			}
			if got != tt.wantSize {
				t.Fatalf("size=%+v, want %+v", got, tt.wantSize)
			}
		})
	}
}

func TestReadyCoercion(t *testing.T) {
	var gotLang string
	var gotTS int64
	tr := NewTransport(Handlers{OnReady: func(lang string, ts int64) { gotLang, gotTS = lang, ts }})

	resp := tr.HandleCall(envelope.Call{Method: envelope.MethodReady, Payload: map[string]any{"lang": "fr", "ts": float64(1700000000000)}})
	if !resp.OK {
		t.Fatalf("resp=%+v", resp)
	}
	if gotLang != "fr" || gotTS != 1700000000000 {
		t.Fatalf("lang=%q ts=%d", gotLang, gotTS)
	}

	resp = tr.HandleCall(envelope.Call{Method: envelope.MethodReady, Payload: map[string]any{"lang": 42}})
	if !resp.OK {
		t.Fatalf("resp=%+v", resp)
	}
	if gotLang != "" {
		t.Fatalf("wrong-typed lang should coerce to \"\", got %q", gotLang)
	}
}

func TestHandlerPanicIsCaughtAndCallerStillSucceeds(t *testing.T) {
	tr := NewTransport(Handlers{
		OnAction: func(map[string]any) { panic("handler bug") },
	})
	var logged string
	tr.logf = func(format string, args ...any) { logged = fmt.Sprintf(format, args...) }

	resp := tr.HandleCall(envelope.Call{Method: envelope.MethodAction, Payload: map[string]any{"action": "x"}})
	if !resp.OK {
		t.Fatalf("handler failure leaked to the caller: %+v", resp)
	}
	if !strings.Contains(logged, "handler bug") {
		t.Fatalf("handler failure not logged: %q", logged)
	}
}

func TestNilHandlersAreNoOps(t *testing.T) {
	tr := NewTransport(Handlers{})
	for _, method := range envelope.KnownMethods() {
		resp := tr.HandleCall(envelope.Call{Method: method})
		if !resp.OK {
			t.Fatalf("%s with nil handler: %+v", method, resp)
		}
	}
}

func TestActionPayloadPassedThroughUnmodified(t *testing.T) {
	var got map[string]any
	tr := NewTransport(Handlers{OnAction: func(p map[string]any) { got = p }})

	payload := map[string]any{"action": "open_settings", "tab": "updates", "n": float64(2)}
	tr.HandleCall(envelope.Call{Method: envelope.MethodAction, Payload: payload})

	if len(got) != len(payload) {
		t.Fatalf("payload reshaped: %v", got)
	}
	for k, v := range payload {
		if got[k] != v {
			t.Fatalf("payload[%q]=%v, want %v", k, got[k], v)
		}
	}
}

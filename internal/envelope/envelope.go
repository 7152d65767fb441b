// Package envelope defines the data shapes carried across the host/template
// bridge. It is pure schema plus classification: no validation or dispatch
// logic lives here. Both sides of the bridge depend on this package and
// nothing in it depends on either side.
package envelope

import "encoding/json"

// ---------------------------------------------------------------------------
// Wire vocabulary
// ---------------------------------------------------------------------------

// Template->host call methods.
const (
	MethodReady  = "template:onReady"
	MethodSize   = "template:onSize"
	MethodAction = "template:onAction"
)

// Host->template push types.
const (
	TypeInit    = "init"
	TypeSetLang = "setLang"
	TypeSetI18n = "setI18n"
	TypeUpdate  = "update"
)

// KnownMethods returns the complete template->host method set.
func KnownMethods() []string {
	return []string{MethodReady, MethodSize, MethodAction}
}

// KnownMethod reports whether method is part of the bridge surface.
func KnownMethod(method string) bool {
	switch method {
	case MethodReady, MethodSize, MethodAction:
		return true
	}
	return false
}

// KnownType reports whether t is a recognized host->template push type.
func KnownType(t string) bool {
	switch t {
	case TypeInit, TypeSetLang, TypeSetI18n, TypeUpdate:
		return true
	}
	return false
}

// ---------------------------------------------------------------------------
// Envelope families
// ---------------------------------------------------------------------------

// Call is a template->host request envelope.
type Call struct {
	Method  string         `json:"method"`
	Payload map[string]any `json:"payload"`
}

// Push is a host->template message envelope. Only the fields relevant to its
// Type are populated; the rest stay zero.
type Push struct {
	Type    string            `json:"type"`
	Lang    string            `json:"lang,omitempty"`
	I18n    map[string]string `json:"i18n,omitempty"`
	Payload map[string]any    `json:"payload,omitempty"`
}

// Response answers every template->host call. A Response with OK false never
// mutates host state.
type Response struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// ---------------------------------------------------------------------------
// Geometry
// ---------------------------------------------------------------------------

// Size is a measured box, width by height, in pixels (terminal cells in the
// bundled demo).
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Rect is a rectangle in screen coordinates.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Workarea is the usable screen bounds excluding system reserved areas.
type Workarea = Rect

// ---------------------------------------------------------------------------
// Classification
// ---------------------------------------------------------------------------
// Inbound values arrive from the other execution context as serialized
// bytes. Classification turns them into a known variant or reports them as
// malformed; it never panics on arbitrary input. Field-level coercion is
// deliberately loose here (wrong-typed scalars degrade to their zero value)
// because the receiving side substitutes safe defaults rather than
// rejecting a whole message over one bad field.

// ClassifyCall decodes raw bytes into a Call. ok is false when the value is
// unparseable or carries no method string.
func ClassifyCall(raw []byte) (Call, bool) {
	var loose struct {
		Method  any            `json:"method"`
		Payload map[string]any `json:"payload"`
	}
	if err := json.Unmarshal(raw, &loose); err != nil {
		return Call{}, false
	}
	method, isString := loose.Method.(string)
	if !isString || method == "" {
		return Call{}, false
	}
	return Call{Method: method, Payload: loose.Payload}, true
}

// ClassifyPush decodes raw bytes into a Push. ok is false when the value is
// unparseable or carries no type string. A lang field of the wrong type
// degrades to "" so the store can apply its fallback.
func ClassifyPush(raw []byte) (Push, bool) {
	var loose struct {
		Type    any            `json:"type"`
		Lang    any            `json:"lang"`
		I18n    map[string]any `json:"i18n"`
		Payload map[string]any `json:"payload"`
	}
	if err := json.Unmarshal(raw, &loose); err != nil {
		return Push{}, false
	}
	pushType, isString := loose.Type.(string)
	if !isString || pushType == "" {
		return Push{}, false
	}
	p := Push{Type: pushType, Payload: loose.Payload}
	if lang, isString := loose.Lang.(string); isString {
		p.Lang = lang
	}
	if loose.I18n != nil {
		p.I18n = make(map[string]string, len(loose.I18n))
		for k, v := range loose.I18n {
			if s, isString := v.(string); isString {
				p.I18n[k] = s
			}
		}
	}
	return p, true
}

// Package template is the content-view side of the bridge: it owns the
// dialog state, applies host pushes, renders the dialog and reports its
// measured size back to the host. Mutations run inside the view's single
// event loop; state snapshots and rendered frames may be read from other
// goroutines.
package template

import (
	"errors"
	"sync"
)

// ErrInvalidState reports an init push that arrived without a usable lang.
// The store still applies the push, substituting the configured fallback
// language, so state is never left undefined.
var ErrInvalidState = errors.New("init without a valid lang")

// State is the template's render input. It is owned exclusively by the
// Store; snapshots handed out are copies, never aliases.
type State struct {
	Lang    string
	Payload map[string]any
	I18n    map[string]string
}

func (s State) clone() State {
	out := State{Lang: s.Lang}
	if s.Payload != nil {
		out.Payload = make(map[string]any, len(s.Payload))
		for k, v := range s.Payload {
			out.Payload[k] = v
		}
	}
	if s.I18n != nil {
		out.I18n = make(map[string]string, len(s.I18n))
		for k, v := range s.I18n {
			out.I18n[k] = v
		}
	}
	return out
}

// Store holds {lang, payload, i18n} and applies the four host mutations.
// Merges are shallow: a key present in a patch overwrites, a key absent is
// retained, nested values are replaced wholesale. Each mutation marks the
// store dirty; TakeRender collapses any number of marks into one render
// pass, with later merges observing earlier ones.
//
// Mutations arrive from the view's event loop only, but snapshots are also
// read from other goroutines (the window surface, tests), so access is
// guarded by a mutex.
type Store struct {
	fallbackLang string

	mu          sync.Mutex
	state       State
	dirty       bool
	substituted bool
}

// NewStore returns a store that substitutes fallbackLang whenever an init
// arrives without a usable lang.
func NewStore(fallbackLang string) *Store {
	return &Store{
		fallbackLang: fallbackLang,
		state: State{
			Payload: map[string]any{},
			I18n:    map[string]string{},
		},
	}
}

// Init replaces state wholesale. A missing lang is substituted with the
// fallback and reported via ErrInvalidState; the push is still applied.
func (s *Store) Init(lang string, i18n map[string]string, payload map[string]any) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var err error
	if lang == "" {
		lang = s.fallbackLang
		s.substituted = true
		err = ErrInvalidState
	}
	s.state = State{Lang: lang, Payload: payload, I18n: i18n}.clone()
	if s.state.Payload == nil {
		s.state.Payload = map[string]any{}
	}
	if s.state.I18n == nil {
		s.state.I18n = map[string]string{}
	}
	s.dirty = true
	return s.state.clone(), err
}

// SetLang replaces lang only. An empty lang (the classification result for
// a missing or wrong-typed field) is a no-op so an established lang is
// never cleared.
func (s *Store) SetLang(lang string) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if lang == "" {
		return s.state.clone()
	}
	s.state.Lang = lang
	s.dirty = true
	return s.state.clone()
}

// SetI18n shallow-merges patch into i18n. Unknown keys are added, not
// rejected.
func (s *Store) SetI18n(patch map[string]string) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range patch {
		s.state.I18n[k] = v
	}
	s.dirty = true
	return s.state.clone()
}

// Update shallow-merges patch into payload.
func (s *Store) Update(patch map[string]any) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range patch {
		s.state.Payload[k] = v
	}
	s.dirty = true
	return s.state.clone()
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// TakeRender reports whether a render is due and clears the mark. Any
// number of mutations since the last call collapse into a single true.
func (s *Store) TakeRender() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	due := s.dirty
	s.dirty = false
	return due
}

// LangSubstituted reports whether the fallback language was ever
// substituted for a missing init lang.
func (s *Store) LangSubstituted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.substituted
}

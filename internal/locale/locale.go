// Package locale is the host's message catalogue. It produces the flat
// i18n map pushed to the template in init/setI18n, localized for the
// negotiated language with fallback to the default.
package locale

import (
	"embed"
	"log"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"
)

//go:embed active.*.toml
var localeFS embed.FS

var localeFiles = []string{"active.en.toml", "active.fr.toml"}

// messageIDs is the full set of keys the dialog template consumes.
var messageIDs = []string{"title", "body", "cta_primary", "cta_close"}

// Catalogue wraps a go-i18n bundle over the embedded active.*.toml files.
type Catalogue struct {
	bundle *i18n.Bundle
	def    language.Tag
}

// New builds a catalogue with the given default locale (e.g. "en"). An
// unparseable default falls back to English.
func New(defaultLocale string) *Catalogue {
	tag, err := language.Parse(defaultLocale)
	if err != nil {
		tag = language.English
	}
	bundle := i18n.NewBundle(tag)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)
	for _, file := range localeFiles {
		if _, err := bundle.LoadMessageFileFS(localeFS, file); err != nil {
			log.Printf("locale: failed to load %s: %v", file, err)
		}
	}
	return &Catalogue{bundle: bundle, def: tag}
}

// Match negotiates the best supported language for a requested one,
// falling back to the default when the request is empty, unparseable or
// unsupported.
func (c *Catalogue) Match(requested string) string {
	if requested == "" {
		return c.def.String()
	}
	tag, err := language.Parse(requested)
	if err != nil {
		return c.def.String()
	}
	supported := c.bundle.LanguageTags()
	matcher := language.NewMatcher(supported)
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return c.def.String()
	}
	return supported[idx].String()
}

// Messages renders every catalogue key for lang, with fallback to the
// default language and finally to the key itself.
func (c *Catalogue) Messages(lang string) map[string]string {
	localizer := i18n.NewLocalizer(c.bundle, lang, c.def.String())
	out := make(map[string]string, len(messageIDs))
	for _, id := range messageIDs {
		msg, err := localizer.Localize(&i18n.LocalizeConfig{MessageID: id})
		if err != nil {
			msg = id
		}
		out[id] = msg
	}
	return out
}

// Languages lists the loaded language tags, default first.
func (c *Catalogue) Languages() []string {
	tags := c.bundle.LanguageTags()
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		out = append(out, t.String())
	}
	return out
}

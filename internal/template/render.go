package template

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"notibridge/internal/envelope"
)

// Dialog body lines wrap at this content width. The box itself grows and
// shrinks with its content; the host learns the final size through the
// reporter, never from this constant.
const dialogContentWidth = 42

// ---------------------------------------------------------------------------
// Dialog rendering
// ---------------------------------------------------------------------------
// This is interchangeable presentation: it consumes a state snapshot and
// produces the dialog box, with no protocol logic. The returned string is
// the designated content root, exactly the subtree the reporter measures.

// RenderDialog renders the notification dialog from a state snapshot.
func RenderDialog(s State) string {
	title := dialogTitleStyle.Render(interpolate(s.I18n["title"], s.Payload))
	body := dialogBodyStyle.Width(dialogContentWidth).Render(interpolate(s.I18n["body"], s.Payload))

	var sections []string
	sections = append(sections, title, "", body)

	if cta := ctaRow(s); cta != "" {
		sections = append(sections, "", cta)
	}

	return dialogStyle.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

// ctaRow renders the call-to-action line, or "" when the catalogue carries
// no CTA labels.
func ctaRow(s State) string {
	primary := s.I18n["cta_primary"]
	dismiss := s.I18n["cta_close"]
	if primary == "" && dismiss == "" {
		return ""
	}
	var parts []string
	if primary != "" {
		parts = append(parts, dialogCTAStyle.Render("[ "+primary+" ]"))
	}
	if dismiss != "" {
		parts = append(parts, dialogHintStyle.Render("[ "+dismiss+" ]"))
	}
	return strings.Join(parts, "  ")
}

// Measure returns the post-layout outer dimensions of a rendered box.
func Measure(view string) envelope.Size {
	return envelope.Size{Width: lipgloss.Width(view), Height: lipgloss.Height(view)}
}

// interpolate substitutes {key} tokens in text with payload values. Unknown
// tokens are left as-is so a half-updated payload stays visible rather than
// blank.
func interpolate(text string, payload map[string]any) string {
	if text == "" || !strings.Contains(text, "{") {
		return text
	}
	out := text
	for k, v := range payload {
		out = strings.ReplaceAll(out, "{"+k+"}", fmt.Sprint(v))
	}
	return out
}

package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// minDetailWrap keeps the item detail pane readable on narrow windows.
const minDetailWrap = 24

// markdownRenderer styles the item detail pane. Glamour renderers are bound
// to one wrap width, so the renderer is rebuilt whenever the pane resizes.
type markdownRenderer struct {
	wrap     int
	renderer *glamour.TermRenderer
}

// render converts the detail markdown into ANSI-styled text, falling back to
// the raw source when glamour cannot render it.
func (r *markdownRenderer) render(markdown string, width int) string {
	source := strings.TrimSpace(markdown)
	if source == "" {
		return ""
	}

	if err := r.ensure(max(width, minDetailWrap)); err != nil {
		return source
	}
	out, err := r.renderer.Render(source)
	if err != nil {
		return source
	}
	return strings.TrimRight(out, "\n")
}

// ensure rebuilds the glamour renderer for the requested wrap width.
func (r *markdownRenderer) ensure(wrap int) error {
	if r.renderer != nil && r.wrap == wrap {
		return nil
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		return err
	}
	r.renderer = renderer
	r.wrap = wrap
	return nil
}

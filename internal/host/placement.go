package host

import "notibridge/internal/envelope"

// Place converts a reported dialog size into a screen rectangle anchored at
// the bottom-right of the workarea, with margin subtracted from both axes.
// The result is always fully contained in the workarea: a size larger than
// the workarea is clamped down to it, and x/y are clamped so the window
// never extends past an edge. Pure and deterministic: same inputs, same
// rectangle.
func Place(size envelope.Size, wa envelope.Workarea, margin int) envelope.Rect {
	w, h := size.Width, size.Height
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	if w > wa.Width {
		w = wa.Width
	}
	if h > wa.Height {
		h = wa.Height
	}

	x := wa.X + wa.Width - w - margin
	y := wa.Y + wa.Height - h - margin

	if maxX := wa.X + wa.Width - w; x > maxX {
		x = maxX
	}
	if x < wa.X {
		x = wa.X
	}
	if maxY := wa.Y + wa.Height - h; y > maxY {
		y = maxY
	}
	if y < wa.Y {
		y = wa.Y
	}

	return envelope.Rect{X: x, Y: y, Width: w, Height: h}
}

package renderer

import (
	"github.com/mzahniser/gorp/internal/diagnostic"
	"github.com/mzahniser/gorp/internal/renderer/backend"
	"github.com/mzahniser/gorp/internal/renderer/core"
	"github.com/mzahniser/gorp/internal/renderer/viewport"
)

// Frame is everything drawn in one pass.
type Frame struct {
	Title    string
	Store    *diagnostic.Store
	Viewport *viewport.Viewport
}

// Renderer draws frames onto a backend.
type Renderer struct {
	backend backend.Backend
	theme   Theme
}

// New creates a renderer for the given backend.
func New(b backend.Backend, theme Theme) *Renderer {
	return &Renderer{
		backend: b,
		theme:   theme,
	}
}

// SetTheme replaces the severity colors.
func (r *Renderer) SetTheme(theme Theme) {
	r.theme = theme
}

// Render draws a full frame and flushes it to the terminal.
func (r *Renderer) Render(f Frame) {
	width, height := r.backend.Size()
	if width <= 0 || height <= 0 {
		return
	}

	r.drawRow(0, width, f.Title, core.DefaultStyle().Reverse())

	row := 1
	if f.Store.Len() == 0 {
		row = r.drawOutput(row, width, height, f.Store.Tail(height-1))
	} else {
		row = r.drawMessages(row, width, height, f.Store, f.Viewport)
	}

	blank := core.DefaultStyle()
	for ; row < height; row++ {
		r.drawRow(row, width, "", blank)
	}

	r.backend.HideCursor()
	r.backend.Show()
}

func (r *Renderer) drawOutput(row, width, height int, lines []string) int {
	style := core.DefaultStyle()
	for _, line := range lines {
		if row >= height {
			break
		}
		r.drawRow(row, width, line, style)
		row++
	}
	return row
}

func (r *Renderer) drawMessages(row, width, height int, store *diagnostic.Store, vp *viewport.Viewport) int {
	for index := vp.ScrollIndex(); index < store.Len() && row < height; index++ {
		m := store.At(index)
		selected := index == vp.Selected()

		for i, text := range m.Text() {
			if row >= height {
				break
			}
			style := core.DefaultStyle()
			if i == 0 {
				style = r.theme.HeaderStyle(m.Severity())
			}
			if selected {
				style = style.Reverse()
			}
			r.drawRow(row, width, text, style)
			row++
		}
	}
	return row
}

// drawRow fills one screen row with text fitted to the width.
func (r *Renderer) drawRow(row, width int, text string, style core.Style) {
	x := 0
	for _, ch := range FitLine(text, width) {
		if x >= width {
			break
		}
		cell := core.NewStyledCell(ch, style)
		if cell.Width == 0 {
			cell = core.NewStyledCell(' ', style)
		}
		r.backend.SetCell(x, row, cell)
		x += cell.Width
	}
	for ; x < width; x++ {
		r.backend.SetCell(x, row, core.NewStyledCell(' ', style))
	}
}

// Package viewport paginates a list of variable-height messages.
//
// Row 0 of the screen is the title bar. Messages are drawn from row 1,
// starting at the scroll index, each taking as many rows as its Source
// reports. The selected index is -1 when nothing is selected.
package viewport

// Source is the list being paginated.
type Source interface {
	// Len returns the number of messages.
	Len() int
	// Rows returns the height in rows of the message at index.
	Rows(index int) int
}

// Viewport tracks the scroll position and selection over a Source.
// It is not safe for concurrent use.
type Viewport struct {
	source Source

	// Size in screen cells, title bar included.
	width  int
	height int

	scroll   int
	selected int
}

// NewViewport creates a viewport with the given size.
// Width and height are clamped to a minimum of 1.
func NewViewport(source Source, width, height int) *Viewport {
	v := &Viewport{
		source:   source,
		selected: -1,
	}
	v.Resize(width, height)
	return v
}

// Resize sets the screen size and re-establishes the scroll bounds.
func (v *Viewport) Resize(width, height int) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	v.width = width
	v.height = height
	v.Clamp()
}

// Width returns the screen width.
func (v *Viewport) Width() int { return v.width }

// Height returns the screen height, title bar included.
func (v *Viewport) Height() int { return v.height }

// ScrollIndex returns the index of the first message drawn.
func (v *Viewport) ScrollIndex() int { return v.scroll }

// Selected returns the selected index, or -1.
func (v *Viewport) Selected() int { return v.selected }

// Reset clears the selection and scrolls to the top.
func (v *Viewport) Reset() {
	v.scroll = 0
	v.selected = -1
}

// Clamp keeps the scroll index within [0, MaxScrollIndex()] and the
// selection within [-1, Len()-1].
func (v *Viewport) Clamp() {
	if limit := v.MaxScrollIndex(); v.scroll > limit {
		v.scroll = limit
	}
	if v.scroll < 0 {
		v.scroll = 0
	}
	v.clampSelection()
}

func (v *Viewport) clampSelection() {
	if last := v.source.Len() - 1; v.selected > last {
		v.selected = last
	}
	if v.selected < -1 {
		v.selected = -1
	}
}

// SelectNext moves the selection down one message, stopping on the last
// one, and scrolls down until it is fully visible.
func (v *Viewport) SelectNext() {
	size := v.source.Len()
	if size == 0 {
		return
	}
	v.selected = min(size-1, v.selected+1)
	for v.selected > v.LastVisibleIndex() {
		if !v.scrollDown() {
			break
		}
	}
}

// SelectPrevious moves the selection up one message, scrolling up if it
// leaves the top. Moving up from the first message clears the selection.
func (v *Viewport) SelectPrevious() {
	if v.selected < 0 {
		return
	}
	v.selected--
	for v.selected >= 0 && v.selected < v.scroll {
		if !v.scrollUp() {
			break
		}
	}
}

// SelectAt selects the message drawn at a screen row. It reports false,
// leaving the selection unchanged, when the row is past the last message.
// Row 0 clears the selection.
func (v *Viewport) SelectAt(row int) (int, bool) {
	index := v.LineIndex(row)
	if index >= v.source.Len() {
		return index, false
	}
	v.selected = index
	return index, true
}

// revealSelection scrolls down until the selected message is the last
// one fully drawn, or scrolling stops making progress.
func (v *Viewport) revealSelection() {
	for v.selected > v.LastVisibleIndex() {
		if !v.scrollDown() {
			break
		}
	}
	for v.selected >= 0 && v.selected < v.scroll {
		if !v.scrollUp() {
			break
		}
	}
}

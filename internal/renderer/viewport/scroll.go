package viewport

// LineIndex returns the index of the message drawn at a screen row: -1
// for the title bar and Len() for rows past the last message.
func (v *Viewport) LineIndex(row int) int {
	if row <= 0 {
		return -1
	}
	size := v.source.Len()
	cur := 1
	for i := v.scroll; i < size; i++ {
		cur += v.source.Rows(i)
		if cur > row {
			return i
		}
	}
	return size
}

// LastVisibleIndex returns the message on the bottom screen row.
func (v *Viewport) LastVisibleIndex() int {
	return v.LineIndex(v.height - 1)
}

// PageBefore returns the smallest index from which the messages before
// index fit in one screen below the title bar.
func (v *Viewport) PageBefore(index int) int {
	budget := v.height - 1
	for index > 0 {
		budget -= v.source.Rows(index - 1)
		if budget < 0 {
			break
		}
		index--
	}
	return index
}

// MaxScrollIndex returns the scroll index that shows the end of the list.
// A last message taller than the screen is still scrolled to, so it can
// at least be seen from the top.
func (v *Viewport) MaxScrollIndex() int {
	size := v.source.Len()
	limit := v.PageBefore(size)
	if size > 0 && limit >= size {
		limit = size - 1
	}
	return limit
}

// ScrollUp scrolls back one page.
func (v *Viewport) ScrollUp() {
	v.scrollUp()
}

// ScrollDown scrolls forward one page.
func (v *Viewport) ScrollDown() {
	v.scrollDown()
}

func (v *Viewport) scrollUp() bool {
	prev := v.scroll
	v.scroll = v.PageBefore(v.scroll)
	if v.scroll == prev && v.scroll > 0 {
		v.scroll--
	}
	return v.scroll != prev
}

func (v *Viewport) scrollDown() bool {
	prev := v.scroll
	limit := v.MaxScrollIndex()
	v.scroll = min(limit, v.LastVisibleIndex())
	if v.scroll <= prev && prev < limit {
		v.scroll = prev + 1
	}
	if v.scroll < prev {
		v.scroll = prev
	}
	return v.scroll != prev
}

// PageUp scrolls back one page, keeping the selection at the same
// offset from the top of the screen.
func (v *Viewport) PageUp() {
	offset := v.selected - v.scroll
	v.scrollUp()
	v.follow(offset)
}

// PageDown scrolls forward one page, keeping the selection at the same
// offset from the top of the screen.
func (v *Viewport) PageDown() {
	offset := v.selected - v.scroll
	v.scrollDown()
	v.follow(offset)
}

func (v *Viewport) follow(offset int) {
	if v.selected < 0 {
		return
	}
	v.selected = max(0, v.scroll+offset)
	v.clampSelection()
	v.revealSelection()
}

// WheelUp scrolls back by one message.
func (v *Viewport) WheelUp() {
	if v.scroll > 0 {
		v.scroll--
	}
}

// WheelDown scrolls forward by one message.
func (v *Viewport) WheelDown() {
	if v.scroll < v.MaxScrollIndex() {
		v.scroll++
	}
}

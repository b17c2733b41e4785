package renderer

// FitLine pads text with spaces or truncates it to exactly cols width
// units. Each UTF-8 lead byte counts as one unit and continuation bytes
// count as none, so a multi-byte character is kept or dropped whole.
func FitLine(text string, cols int) string {
	if cols <= 0 {
		return ""
	}

	width := 0
	for i := 0; i < len(text); i++ {
		if isContinuation(text[i]) {
			continue
		}
		if width == cols {
			return text[:i]
		}
		width++
	}

	if width == cols {
		return text
	}
	pad := make([]byte, 0, len(text)+cols-width)
	pad = append(pad, text...)
	for ; width < cols; width++ {
		pad = append(pad, ' ')
	}
	return string(pad)
}

func isContinuation(b byte) bool {
	return b&0xC0 == 0x80
}

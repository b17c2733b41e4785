// Package renderer draws the build view.
//
// The screen has a title bar on row 0 in reverse video. Below it the
// renderer draws either the diagnostics page chosen by the viewport, or,
// while no diagnostic has been seen, the tail of the raw build output.
// Each message starts with a header row in its severity color; every row
// of the selected message is drawn in reverse video.
//
//	┌─────────────────────────────────────────┐
//	│ Done building (2 errors, 1 warnings).   │  title
//	│ ██ In function 'int main()':            │  header (red)
//	│ main.cpp:4:3: error: 'x' was not ...    │
//	│     4 |   x = 1;                        │
//	└─────────────────────────────────────────┘
//
// Usage:
//
//	backend, _ := backend.NewTerminal()
//	r := renderer.New(backend, renderer.DefaultTheme())
//	r.Render(renderer.Frame{Title: title, Store: store, Viewport: vp})
package renderer

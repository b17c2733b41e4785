package renderer

import (
	"strings"
	"testing"

	"github.com/mzahniser/gorp/internal/diagnostic"
	"github.com/mzahniser/gorp/internal/renderer/backend"
	"github.com/mzahniser/gorp/internal/renderer/core"
	"github.com/mzahniser/gorp/internal/renderer/viewport"
)

func newTestRenderer(t *testing.T, width, height int) (*Renderer, *backend.NullBackend) {
	t.Helper()
	b := backend.NewNullBackend(width, height)
	if err := b.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	return New(b, DefaultTheme()), b
}

func TestRender_OutputTail(t *testing.T) {
	r, b := newTestRenderer(t, 20, 3)

	store := diagnostic.NewStore()
	for _, line := range []string{"g++ -c a.cpp", "g++ -c b.cpp", "g++ -c c.cpp"} {
		store.AppendOutput(line)
	}
	vp := viewport.NewViewport(store, 20, 3)

	r.Render(Frame{Title: "make", Store: store, Viewport: vp})

	if got := strings.TrimRight(b.Row(0), " "); got != "make" {
		t.Errorf("expected title 'make', got %q", got)
	}
	if !b.GetCell(0, 0).Style.Attributes.Has(core.AttrReverse) {
		t.Error("expected title in reverse video")
	}
	if got := strings.TrimRight(b.Row(1), " "); got != "g++ -c b.cpp" {
		t.Errorf("expected the last two lines, row 1 = %q", got)
	}
	if got := strings.TrimRight(b.Row(2), " "); got != "g++ -c c.cpp" {
		t.Errorf("expected the last line on row 2, got %q", got)
	}
	if b.Shows() != 1 {
		t.Errorf("expected one Show, got %d", b.Shows())
	}
}

func TestRender_Messages(t *testing.T) {
	r, b := newTestRenderer(t, 40, 8)

	store := diagnostic.NewStore()
	c := diagnostic.NewClassifier(store)
	c.Reset("make", false)
	c.Error("main.cpp: In function 'int main()':")
	c.Error("main.cpp:4:3: error: 'x' was not declared")
	c.Error("main.cpp:9:1: warning: unused")

	vp := viewport.NewViewport(store, 40, 8)
	vp.SelectNext()
	vp.SelectNext()

	r.Render(Frame{Title: c.Title(), Store: store, Viewport: vp})

	if got := strings.TrimRight(b.Row(1), " "); got != "██ In function 'int main()':" {
		t.Errorf("unexpected header row %q", got)
	}
	header := b.GetCell(0, 1).Style
	if !header.Foreground.Equals(core.ColorRed) || header.Attributes.Has(core.AttrReverse) {
		t.Errorf("expected plain red error header, got %+v", header)
	}
	if body := b.GetCell(0, 2).Style; !body.IsDefault() {
		t.Errorf("expected uncolored body, got %+v", body)
	}

	// The selected warning: header yellow and reversed, body reversed.
	warn := b.GetCell(0, 3).Style
	if !warn.Foreground.Equals(core.ColorYellow) || !warn.Attributes.Has(core.AttrReverse) {
		t.Errorf("expected reversed yellow header, got %+v", warn)
	}
	if !b.GetCell(5, 4).Style.Attributes.Has(core.AttrReverse) {
		t.Error("expected every row of the selected message reversed")
	}
	if got := strings.TrimRight(b.Row(5), " "); got != "" {
		t.Errorf("expected blank rows after the messages, got %q", got)
	}
}

func TestRender_Clipping(t *testing.T) {
	r, b := newTestRenderer(t, 10, 2)

	store := diagnostic.NewStore()
	c := diagnostic.NewClassifier(store)
	c.Reset("make", false)
	c.Error("a.cpp:1:1: error: a very long message indeed")

	vp := viewport.NewViewport(store, 10, 2)
	r.Render(Frame{Title: "a title longer than the screen", Store: store, Viewport: vp})

	if got := b.Row(0); got != "a title lo" {
		t.Errorf("expected truncated title, got %q", got)
	}
	if got := b.Row(1); got != "██        " {
		t.Errorf("expected only the header row, got %q", got)
	}
}

func TestTheme_HeaderStyle(t *testing.T) {
	theme := DefaultTheme()
	theme.Link = core.ColorGreen

	tests := []struct {
		severity diagnostic.Severity
		want     core.Color
	}{
		{diagnostic.SeverityError, core.ColorRed},
		{diagnostic.SeverityWarning, core.ColorYellow},
		{diagnostic.SeverityLink, core.ColorGreen},
	}
	for _, tt := range tests {
		if got := theme.HeaderStyle(tt.severity).Foreground; !got.Equals(tt.want) {
			t.Errorf("HeaderStyle(%v) = %v, want %v", tt.severity, got, tt.want)
		}
	}
}

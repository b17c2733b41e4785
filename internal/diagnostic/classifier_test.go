package diagnostic

import (
	"reflect"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		severity Severity
		keep     bool
	}{
		{"error", "main.cpp:4:3: error: 'x' was not declared", SeverityError, true},
		{"warning", "main.cpp:2:7: warning: unused variable 'y'", SeverityWarning, true},
		{"undefined reference", "main.o: in function `main': main.cpp:(.text+0x5): undefined reference to `foo()'", SeverityLink, true},
		{"linker summary", "collect2: error: ld returned 1 exit status", SeverityPlain, false},
		{"plain", "    4 |   x = 1;", SeverityPlain, true},
		{"error without space", "main.cpp:4:3: error:x", SeverityPlain, true},
		{"error wins over warning", "a: warning: b: error: c", SeverityError, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			severity, keep := Classify(tt.text)
			if severity != tt.severity || keep != tt.keep {
				t.Errorf("Classify(%q) = (%v, %v), want (%v, %v)",
					tt.text, severity, keep, tt.severity, tt.keep)
			}
		})
	}
}

func TestClassifier_ErrorWithContext(t *testing.T) {
	store := NewStore()
	c := NewClassifier(store)
	c.Reset("make", false)

	lines := []string{
		"main.cpp: In function 'int main()':",
		"main.cpp:4:3: error: 'x' was not declared in this scope",
		"    4 |   x = 1;",
		"      |   ^",
		"main.cpp:5:1: note: this line exceeds the continuation budget",
	}
	for _, line := range lines {
		c.Error(line)
	}

	if store.Len() != 1 {
		t.Fatalf("expected 1 message, got %d", store.Len())
	}
	m := store.At(0)
	if m.Severity() != SeverityError {
		t.Errorf("expected SeverityError, got %v", m.Severity())
	}
	if m.Header() != "In function 'int main()':" {
		t.Errorf("expected function header, got %q", m.Header())
	}
	want := []string{lines[1], lines[2], lines[3]}
	if !reflect.DeepEqual(m.Lines(), want) {
		t.Errorf("expected lines %q, got %q", want, m.Lines())
	}
	if m.Rows() != 4 {
		t.Errorf("expected 4 rows, got %d", m.Rows())
	}
	if m.File() != "main.cpp" || m.Line() != 4 || m.Column() != 3 {
		t.Errorf("expected main.cpp:4:3, got %s:%d:%d", m.File(), m.Line(), m.Column())
	}
	if got := len(store.Output()); got != len(lines) {
		t.Errorf("expected %d raw lines, got %d", len(lines), got)
	}
}

func TestClassifier_NoteContinuesError(t *testing.T) {
	store := NewStore()
	c := NewClassifier(store)
	c.Reset("make", false)

	c.Error("foo.c:10: error: x")
	c.Error("foo.c:10: note: y")
	c.Finish()

	if store.Len() != 1 {
		t.Fatalf("expected 1 message, got %d", store.Len())
	}
	m := store.At(0)
	want := []string{"foo.c:10: error: x", "foo.c:10: note: y"}
	if !reflect.DeepEqual(m.Lines(), want) {
		t.Errorf("expected lines %q, got %q", want, m.Lines())
	}
	if m.File() != "foo.c" || m.Line() != 10 || m.Column() != Unknown {
		t.Errorf("expected foo.c:10 with no column, got %s:%d:%d", m.File(), m.Line(), m.Column())
	}
	if m.Header() != "" {
		t.Errorf("expected no header, got %q", m.Header())
	}
	if got := c.Title(); got != "Done building (1 errors)." {
		t.Errorf("expected completion title, got %q", got)
	}
}

func TestClassifier_StickyLocation(t *testing.T) {
	store := NewStore()
	c := NewClassifier(store)
	c.Reset("make", false)

	c.Error("util.cpp: In member function 'void A::f()':")
	c.Error("util.cpp:10:5: warning: unused variable 'a'")
	c.Error("util.cpp:11:5: error: expected ';'")
	c.Error("other.cpp:3:1: error: stray token")

	if store.Len() != 3 {
		t.Fatalf("expected 3 messages, got %d", store.Len())
	}
	for i := 0; i < store.Len(); i++ {
		if got := store.At(i).Header(); got != "In member function 'void A::f()':" {
			t.Errorf("message %d: expected sticky header, got %q", i, got)
		}
	}
	if store.At(1).Lines()[0] != "util.cpp:11:5: error: expected ';'" {
		t.Errorf("unexpected second message %q", store.At(1).Lines())
	}
}

func TestClassifier_LinkErrors(t *testing.T) {
	store := NewStore()
	c := NewClassifier(store)
	c.Reset("make", false)

	c.Error("/usr/bin/ld: main.o: in function `main':")
	c.Error("main.cpp:(.text+0x9): undefined reference to `foo()'")
	c.Error("collect2: error: ld returned 1 exit status")

	if store.Len() != 1 {
		t.Fatalf("expected 1 message, got %d", store.Len())
	}
	m := store.At(0)
	if m.Header() != LinkHeader {
		t.Errorf("expected header %q, got %q", LinkHeader, m.Header())
	}
	if m.File() != "main.cpp" {
		t.Errorf("expected file main.cpp, got %q", m.File())
	}
	if m.Line() != Unknown || m.Column() != Unknown {
		t.Errorf("expected unknown line and column, got %d:%d", m.Line(), m.Column())
	}
	if m.Rows() != 2 {
		t.Errorf("expected the ld summary to be dropped, got %d rows", m.Rows())
	}
	if store.Count(SeverityLink) != 1 || store.Count(SeverityError) != 0 {
		t.Errorf("unexpected counts: link=%d error=%d",
			store.Count(SeverityLink), store.Count(SeverityError))
	}
}

func TestClassifier_PlainWithoutMessage(t *testing.T) {
	store := NewStore()
	c := NewClassifier(store)
	c.Reset("make", false)

	c.Error("make: *** No rule to make target 'all'.  Stop.")

	if store.Len() != 0 {
		t.Errorf("expected no messages, got %d", store.Len())
	}
	if !reflect.DeepEqual(store.Output(), []string{"make: *** No rule to make target 'all'.  Stop."}) {
		t.Errorf("unexpected raw output %q", store.Output())
	}
}

func TestClassifier_Title(t *testing.T) {
	store := NewStore()
	c := NewClassifier(store)
	c.Reset("make -j8", false)

	c.Output("g++ -c main.cpp")
	if c.Title() != "make -j8" {
		t.Errorf("expected command as title before any message, got %q", c.Title())
	}

	c.Error("main.cpp:1:1: warning: w")
	c.Output("g++ -c util.cpp")
	if c.Title() != "g++ -c util.cpp" {
		t.Errorf("expected latest stdout as title, got %q", c.Title())
	}

	c.Finish()
	if c.Title() != "Done building (1 warnings)." {
		t.Errorf("unexpected completion title %q", c.Title())
	}
}

func TestClassifier_Cleaning(t *testing.T) {
	c := NewClassifier(NewStore())
	c.Reset("make clean", true)
	c.Error("main.cpp:1:1: error: e")
	c.Finish()

	if c.Title() != "Done cleaning." {
		t.Errorf("expected %q, got %q", "Done cleaning.", c.Title())
	}
}

func TestClassifier_ResetClearsRun(t *testing.T) {
	store := NewStore()
	c := NewClassifier(store)
	c.Reset("make", false)
	c.Error("a.cpp: In function 'f':")
	c.Error("a.cpp:1:1: error: e")

	c.Reset("make", false)
	c.Error("b.cpp:2:2: error: e")

	if store.Len() != 1 || store.Count(SeverityError) != 1 {
		t.Fatalf("expected a fresh run, got %d messages", store.Len())
	}
	if store.At(0).Header() != "" {
		t.Errorf("expected empty header after reset, got %q", store.At(0).Header())
	}
}

func TestSummary(t *testing.T) {
	tests := []struct {
		errors, warnings, links int
		want                    string
	}{
		{0, 0, 0, "no errors"},
		{2, 1, 0, "2 errors, 1 warnings"},
		{2, 1, 5, "2 errors, 1 warnings"},
		{3, 0, 4, "3 errors"},
		{0, 2, 1, "2 warnings, 1 link errors"},
		{0, 4, 0, "4 warnings"},
		{0, 0, 6, "6 link errors"},
	}
	for _, tt := range tests {
		if got := Summary(tt.errors, tt.warnings, tt.links); got != tt.want {
			t.Errorf("Summary(%d, %d, %d) = %q, want %q",
				tt.errors, tt.warnings, tt.links, got, tt.want)
		}
	}
}

func TestClassifier_ErrorsAndWarningsScenario(t *testing.T) {
	store := NewStore()
	c := NewClassifier(store)
	c.Reset("make", false)

	c.Error("a.cpp:1:1: error: first")
	c.Error("a.cpp:2:1: warning: second")
	c.Error("a.cpp:3:1: error: third")
	c.Finish()

	if c.Title() != "Done building (2 errors, 1 warnings)." {
		t.Errorf("unexpected title %q", c.Title())
	}
}

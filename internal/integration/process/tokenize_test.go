package process

import (
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name    string
		command string
		want    []string
	}{
		{"empty", "", nil},
		{"blank", "  \t ", nil},
		{"single", "make", []string{"make"}},
		{"words", "make clean", []string{"make", "clean"}},
		{"extra whitespace", "  make \t -j8  ", []string{"make", "-j8"}},
		{"double quotes", `gedit "my file.cpp" +3`, []string{"gedit", "my file.cpp", "+3"}},
		{"single quotes", `sh -c 'echo hi'`, []string{"sh", "-c", "echo hi"}},
		{"mixed quotes", `a "it's" 'say "x"'`, []string{"a", "it's", `say "x"`}},
		{"unterminated quote", `echo "a b`, []string{"echo", "a b"}},
		{"empty quotes", `a "" b`, []string{"a", "", "b"}},
		{"quote inside word", `ab"cd`, []string{`ab"cd`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.command)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q) = %q, want %q", tt.command, got, tt.want)
			}
		})
	}
}

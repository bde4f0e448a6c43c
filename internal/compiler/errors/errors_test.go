package errors

import (
	"strings"
	"testing"
)

func TestPosString(t *testing.T) {
	tests := []struct {
		name     string
		pos      Pos
		expected string
	}{
		{"mid-line", Pos{Line: 10, Col: 5}, "10:5"},
		{"line 1 col 1", Pos{Line: 1, Col: 1}, "1:1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.pos.String(); got != tt.expected {
				t.Errorf("Pos.String() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestCompileErrorError(t *testing.T) {
	err := &CompileError{
		Pos:     Pos{Line: 10, Col: 5},
		Message: "unexpected token",
		Phase:   "lexer",
	}

	want := "[lexer] 10:5: unexpected token"
	if got := err.Error(); got != want {
		t.Errorf("CompileError.Error() = %q, want %q", got, want)
	}
}

func TestNewErrorList(t *testing.T) {
	el := NewErrorList("parser")
	if el == nil {
		t.Fatal("NewErrorList() returned nil")
	}
	if el.Phase != "parser" {
		t.Errorf("Phase = %q, want %q", el.Phase, "parser")
	}
	if len(el.Errors) != 0 {
		t.Errorf("len(Errors) = %d, want 0", len(el.Errors))
	}
}

func TestErrorListAdd(t *testing.T) {
	el := NewErrorList("parser")

	pos := Pos{Line: 5, Col: 10}
	el.Add(pos, "expected %s", "semicolon")

	if len(el.Errors) != 1 {
		t.Fatalf("len(Errors) = %d, want 1", len(el.Errors))
	}

	err := el.Errors[0]
	if err.Pos != pos {
		t.Errorf("Pos = %v, want %v", err.Pos, pos)
	}
	if err.Phase != "parser" {
		t.Errorf("Phase = %q, want %q", err.Phase, "parser")
	}
	if err.Message != "expected semicolon" {
		t.Errorf("Message = %q, want %q", err.Message, "expected semicolon")
	}
}

func TestErrorListHasErrors(t *testing.T) {
	el := NewErrorList("test")

	if el.HasErrors() {
		t.Error("empty ErrorList should not have errors")
	}

	el.Add(Pos{Line: 1}, "error 1")

	if !el.HasErrors() {
		t.Error("ErrorList with 1 error should return true for HasErrors()")
	}
}

func TestErrorListString(t *testing.T) {
	lex := NewErrorList("lexer")
	lex.Add(Pos{Line: 1, Col: 5}, "unexpected character")

	result := lex.String()
	if !strings.Contains(result, "[lexer] 1:5: unexpected character") {
		t.Errorf("String() missing error, got: %s", result)
	}
}

func TestErrorListStringEmpty(t *testing.T) {
	el := NewErrorList("lexer")
	if got := el.String(); got != "" {
		t.Errorf("empty ErrorList.String() = %q, want %q", got, "")
	}
}

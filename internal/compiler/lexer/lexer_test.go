package lexer

import (
	"testing"

	"github.com/pyjs-lang/pyjsc/internal/compiler/token"
)

func collectTypes(l *Lexer) []token.Type {
	var types []token.Type
	for {
		tok := l.NextToken()
		types = append(types, tok.Type)
		if tok.Type == token.EOF {
			break
		}
		if len(types) > 500 {
			break
		}
	}
	return types
}

func TestBasicTokens(t *testing.T) {
	input := `= + - * / % ( ) { } [ ] , : .`

	expected := []token.Type{
		token.EQ, token.PLUS, token.MINUS, token.STAR, token.SLASH, token.PERCENT,
		token.LPAREN, token.RPAREN, token.LBRACE, token.RBRACE,
		token.LBRACKET, token.RBRACKET, token.COMMA, token.COLON, token.DOT,
		token.NEWLINE, token.EOF,
	}

	l := New(input)
	for i, exp := range expected {
		tok := l.NextToken()
		if tok.Type != exp {
			t.Fatalf("test[%d] - wrong type. expected=%s, got=%s (lexeme=%q)", i, exp, tok.Type, tok.Lexeme)
		}
	}
}

func TestMultiCharOperators(t *testing.T) {
	input := "== != <= >= += -= *= /= %= **"

	expected := []struct {
		typ token.Type
		lex string
	}{
		{token.EQEQ, "=="}, {token.BANGEQ, "!="}, {token.LE, "<="}, {token.GE, ">="},
		{token.PLUSEQ, "+="}, {token.MINUSEQ, "-="}, {token.STAREQ, "*="},
		{token.SLASHEQ, "/="}, {token.PERCENTEQ, "%="}, {token.STARSTAR, "**"},
	}

	l := New(input)
	for i, exp := range expected {
		tok := l.NextToken()
		if tok.Type != exp.typ || tok.Lexeme != exp.lex {
			t.Fatalf("test[%d] - expected %s(%q), got %s(%q)", i, exp.typ, exp.lex, tok.Type, tok.Lexeme)
		}
	}
}

func TestKeywords(t *testing.T) {
	input := "def lambda class implements self if elif else while for break return pass and or not global"

	expected := []token.Type{
		token.DEF, token.LAMBDA, token.CLASS, token.IMPLEMENTS, token.SELF,
		token.IF, token.ELIF, token.ELSE, token.WHILE, token.FOR, token.BREAK,
		token.RETURN, token.PASS, token.AND, token.OR, token.NOT, token.GLOBAL,
	}

	l := New(input)
	for i, exp := range expected {
		tok := l.NextToken()
		if tok.Type != exp {
			t.Fatalf("test[%d] - expected %s, got %s(%q)", i, exp, tok.Type, tok.Lexeme)
		}
	}
}

func TestThisDialect(t *testing.T) {
	l := NewWithDialect("this", token.Dialect{SelfKeyword: "this"})
	tok := l.NextToken()
	if tok.Type != token.SELF {
		t.Fatalf("expected SELF, got %s", tok.Type)
	}
}

func TestStrings(t *testing.T) {
	input := `"hello world" 'single' "tab\there" "unknown\qescape"`

	l := New(input)

	tok := l.NextToken()
	if tok.Type != token.STRING || tok.Literal != "hello world" {
		t.Fatalf("test 1 - got %s(%v)", tok.Type, tok.Literal)
	}

	tok = l.NextToken()
	if tok.Type != token.STRING || tok.Literal != "single" {
		t.Fatalf("test 2 - got %s(%v)", tok.Type, tok.Literal)
	}

	tok = l.NextToken()
	if tok.Type != token.STRING || tok.Literal != "tab\there" {
		t.Fatalf("test 3 - got %s(%v)", tok.Type, tok.Literal)
	}

	tok = l.NextToken()
	if tok.Type != token.STRING || tok.Literal != `unknown\qescape` {
		t.Fatalf("test 4 - unknown escape should preserve backslash, got %s(%v)", tok.Type, tok.Literal)
	}
}

func TestTripleQuotedString(t *testing.T) {
	input := "\"\"\"line one\nline two\"\"\"\nx = 1"
	l := New(input)

	tok := l.NextToken()
	if tok.Type != token.STRING || tok.Literal != "line one\nline two" {
		t.Fatalf("expected triple-quoted STRING spanning lines, got %s(%v)", tok.Type, tok.Literal)
	}

	tok = l.NextToken()
	if tok.Type != token.NEWLINE {
		t.Fatalf("expected NEWLINE after triple-quoted string, got %s", tok.Type)
	}
}

func TestLeadingDotIsNotANumber(t *testing.T) {
	l := New(".5")
	tok := l.NextToken()
	if tok.Type != token.DOT {
		t.Fatalf("expected DOT, got %s(%q)", tok.Type, tok.Lexeme)
	}
	tok = l.NextToken()
	if tok.Type != token.NUMBER || tok.Literal.(float64) != 5 {
		t.Fatalf("expected NUMBER(5), got %s(%v)", tok.Type, tok.Literal)
	}
}

func TestNumbers(t *testing.T) {
	input := "42 3.14 0 100.5"

	l := New(input)

	want := []float64{42, 3.14, 0, 100.5}
	for i, w := range want {
		tok := l.NextToken()
		if tok.Type != token.NUMBER || tok.Literal.(float64) != w {
			t.Fatalf("test[%d] - got %s(%v), want %v", i, tok.Type, tok.Literal, w)
		}
	}
}

func TestLiteralKeywords(t *testing.T) {
	input := "True False None"
	l := New(input)

	tok := l.NextToken()
	if tok.Type != token.TRUE || tok.Literal != true {
		t.Fatalf("expected TRUE/true, got %s(%v)", tok.Type, tok.Literal)
	}
	tok = l.NextToken()
	if tok.Type != token.FALSE || tok.Literal != false {
		t.Fatalf("expected FALSE/false, got %s(%v)", tok.Type, tok.Literal)
	}
	tok = l.NextToken()
	if tok.Type != token.NONE || tok.Literal != nil {
		t.Fatalf("expected NONE/nil, got %s(%v)", tok.Type, tok.Literal)
	}
}

func TestComments(t *testing.T) {
	input := "x = 1 # trailing comment\n# full line comment\ny = 2"
	l := New(input)

	types := collectTypes(l)
	want := []token.Type{
		token.IDENTIFIER, token.EQ, token.NUMBER, token.NEWLINE,
		token.IDENTIFIER, token.EQ, token.NUMBER, token.NEWLINE,
		token.EOF,
	}
	if len(types) != len(want) {
		t.Fatalf("got %v, want %v", types, want)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Fatalf("types[%d] = %s, want %s (%v)", i, types[i], want[i], types)
		}
	}
}

func TestIndentationBasic(t *testing.T) {
	input := "def f():\n    x = 1\n    y = 2\nz = 3\n"
	l := New(input)

	types := collectTypes(l)
	want := []token.Type{
		token.DEF, token.IDENTIFIER, token.LPAREN, token.RPAREN, token.COLON, token.NEWLINE,
		token.INDENT,
		token.IDENTIFIER, token.EQ, token.NUMBER, token.NEWLINE,
		token.IDENTIFIER, token.EQ, token.NUMBER, token.NEWLINE,
		token.DEDENT,
		token.IDENTIFIER, token.EQ, token.NUMBER, token.NEWLINE,
		token.EOF,
	}
	if len(types) != len(want) {
		t.Fatalf("got %d tokens %v, want %d %v", len(types), types, len(want), want)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Fatalf("types[%d] = %s, want %s\nfull: %v", i, types[i], want[i], types)
		}
	}
}

func TestIndentationNested(t *testing.T) {
	input := "if a:\n    if b:\n        x = 1\n    y = 2\n"
	l := New(input)
	types := collectTypes(l)

	indentCount, dedentCount := 0, 0
	for _, typ := range types {
		if typ == token.INDENT {
			indentCount++
		}
		if typ == token.DEDENT {
			dedentCount++
		}
	}
	if indentCount != 2 || dedentCount != 2 {
		t.Fatalf("expected 2 INDENT and 2 DEDENT, got %d/%d in %v", indentCount, dedentCount, types)
	}
}

func TestBlankAndCommentLinesDoNotAffectIndentation(t *testing.T) {
	input := "def f():\n\n    # comment\n    x = 1\n"
	l := New(input)
	types := collectTypes(l)

	indentCount := 0
	for _, typ := range types {
		if typ == token.INDENT {
			indentCount++
		}
	}
	if indentCount != 1 {
		t.Fatalf("expected exactly 1 INDENT, got %d in %v", indentCount, types)
	}
}

func TestParenSuppressesNewline(t *testing.T) {
	input := "f(1,\n  2,\n  3)\n"
	l := New(input)
	types := collectTypes(l)

	newlineCount := 0
	for _, typ := range types {
		if typ == token.NEWLINE {
			newlineCount++
		}
	}
	if newlineCount != 1 {
		t.Fatalf("expected exactly 1 NEWLINE (after the closing paren's line), got %d in %v", newlineCount, types)
	}
}

func TestUnterminatedStringRecorded(t *testing.T) {
	l := New(`"unterminated`)
	tok := l.NextToken()
	if tok.Type != token.STRING {
		t.Fatalf("expected STRING even when unterminated, got %s", tok.Type)
	}
	if !l.Errors.HasErrors() {
		t.Fatal("expected an error for unterminated string")
	}
}

func TestIllegalCharacterRecorded(t *testing.T) {
	l := New("x = $")
	for {
		tok := l.NextToken()
		if tok.Type == token.EOF {
			break
		}
	}
	if !l.Errors.HasErrors() {
		t.Fatal("expected an error for illegal character")
	}
}

func TestUnicodeIdentifiers(t *testing.T) {
	input := "café = 1"
	l := New(input)

	tok := l.NextToken()
	if tok.Type != token.IDENTIFIER || tok.Lexeme != "café" {
		t.Fatalf("expected café, got %s(%q)", tok.Type, tok.Lexeme)
	}
}

func TestEOFIsIdempotent(t *testing.T) {
	l := New("x = 1\n")
	for {
		tok := l.NextToken()
		if tok.Type == token.EOF {
			break
		}
	}
	again := l.NextToken()
	if again.Type != token.EOF {
		t.Fatalf("expected repeated EOF, got %s", again.Type)
	}
}

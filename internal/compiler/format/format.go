// Package format re-joins a token stream with the DSL's canonical
// spacing and indentation — a whitespace-only pass over the lexer's
// output, not a pretty-printer of the AST. Grounded on cmd/gmx/fmt.go's
// role (re-space a file, skip the write if nothing changed, support a
// diff-only mode) though the mechanism here operates on tokens rather
// than gmx's regex-extracted `<script>/<template>/<style>` sections,
// since the DSL has no comparable tagged-section structure to split on.
package format

import (
	"fmt"
	"strings"

	"github.com/pyjs-lang/pyjsc/internal/compiler/token"
)

const indentUnit = "    "

// tightBefore lists token kinds that never take a space before them.
var tightBefore = map[token.Type]bool{
	token.RPAREN:   true,
	token.RBRACKET: true,
	token.RBRACE:   true,
	token.COMMA:    true,
	token.COLON:    true,
	token.DOT:      true,
}

// tightAfter lists token kinds that never take a space after them.
var tightAfter = map[token.Type]bool{
	token.LPAREN:   true,
	token.LBRACKET: true,
	token.LBRACE:   true,
	token.DOT:      true,
}

// callish identifies token kinds that, immediately followed by LPAREN,
// mean a call rather than a grouping expression — no space in between.
var callish = map[token.Type]bool{
	token.IDENTIFIER: true,
	token.SELF:       true,
	token.RPAREN:     true,
	token.RBRACKET:   true,
}

// Tokens re-joins a token stream into canonical DSL source text.
func Tokens(toks []token.Token) string {
	var b strings.Builder
	depth := 0
	atLineStart := true
	var prev *token.Token

	for i := range toks {
		t := toks[i]
		switch t.Type {
		case token.EOF:
			continue
		case token.NEWLINE:
			b.WriteString("\n")
			atLineStart = true
			prev = nil
			continue
		case token.INDENT:
			depth++
			continue
		case token.DEDENT:
			depth--
			if depth < 0 {
				depth = 0
			}
			continue
		}

		if atLineStart {
			b.WriteString(strings.Repeat(indentUnit, depth))
			atLineStart = false
		} else if prev != nil && needsSpace(*prev, t) {
			b.WriteString(" ")
		}

		b.WriteString(lexeme(t))
		tok := t
		prev = &tok
	}

	out := b.String()
	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	return out
}

func needsSpace(prev, cur token.Token) bool {
	if tightAfter[prev.Type] || tightBefore[cur.Type] {
		return false
	}
	if cur.Type == token.LPAREN && callish[prev.Type] {
		return false
	}
	return true
}

func lexeme(t token.Token) string {
	if t.Type == token.STRING {
		return quoteString(t)
	}
	return t.Lexeme
}

// quoteString re-renders a STRING token's literal form rather than its
// raw lexeme, so escape-sequence spacing stays canonical regardless of
// how the source originally wrote the quotes.
func quoteString(t token.Token) string {
	if s, ok := t.Literal.(string); ok {
		return fmt.Sprintf("%q", s)
	}
	return t.Lexeme
}

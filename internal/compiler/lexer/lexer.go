// Package lexer tokenizes source text into the token vocabulary defined
// by the token package. Indentation is significant: the lexer tracks an
// indent stack and synthesizes INDENT, DEDENT, and NEWLINE tokens the
// same way the parser expects to consume them (the "off-side rule").
package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pyjs-lang/pyjsc/internal/compiler/errors"
	"github.com/pyjs-lang/pyjsc/internal/compiler/token"
)

// Lexer turns source text into a stream of tokens. Nothing here ever
// aborts: illegal characters and malformed literals are recorded in
// Errors and the scan continues, matching §7's never-throw policy.
type Lexer struct {
	input        string
	position     int
	readPosition int
	ch           rune
	line         int
	col          int

	dialect  token.Dialect
	keywords map[string]token.Type

	indents     []int
	parenDepth  int
	atLineStart bool
	lineHasTok  bool
	finished    bool
	pending     []token.Token

	Errors *errors.ErrorList
}

// New creates a lexer using the default (Python-flavored, self-keyword)
// dialect.
func New(input string) *Lexer {
	return NewWithDialect(input, token.DefaultDialect())
}

// NewWithDialect creates a lexer bound to an explicit self/this keyword
// choice (spec.md §9's self-vs-this variant).
func NewWithDialect(input string, d token.Dialect) *Lexer {
	l := &Lexer{
		input:    input,
		line:     1,
		dialect:  d,
		keywords: token.Keywords(d),
		indents:  []int{0},
		Errors:   errors.NewErrorList("lexer"),
	}
	l.atLineStart = true
	l.readChar()
	return l
}

// readChar advances to the next rune. line/col always describe l.ch:
// leaving a '\n' starts the next line at col 0, so columns are 0-indexed.
func (l *Lexer) readChar() {
	if l.readPosition > 0 {
		if l.ch == '\n' {
			l.line++
			l.col = 0
		} else {
			l.col++
		}
	}
	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = l.readPosition
		return
	}
	r, size := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.ch = r
	l.position = l.readPosition
	l.readPosition += size
}

func (l *Lexer) peekChar() rune {
	return l.peekCharAt(0)
}

// peekCharAt returns the rune n positions past the one peekChar would
// return (n=0 is equivalent to peekChar), used for the 3-rune lookahead
// triple-quoted strings need.
func (l *Lexer) peekCharAt(n int) rune {
	pos := l.readPosition
	for i := 0; i < n; i++ {
		if pos >= len(l.input) {
			return 0
		}
		_, size := utf8.DecodeRuneInString(l.input[pos:])
		pos += size
	}
	if pos >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[pos:])
	return r
}

func (l *Lexer) loc(length int) token.Loc {
	return token.Loc{Line: l.line, Col: l.col, Len: length}
}

// NextToken returns the next token in the stream. Once EOF has been
// reached, further calls keep returning EOF.
func (l *Lexer) NextToken() token.Token {
	if len(l.pending) > 0 {
		tok := l.pending[0]
		l.pending = l.pending[1:]
		return tok
	}
	if l.finished {
		return token.Token{Type: token.EOF, Loc: l.loc(0)}
	}

	for {
		if l.atLineStart && l.parenDepth == 0 {
			l.handleIndentation()
			l.atLineStart = false
			if tok, ok := l.popPending(); ok {
				return tok
			}
			if l.finished {
				if tok, ok := l.popPending(); ok {
					return tok
				}
				return token.Token{Type: token.EOF, Loc: l.loc(0)}
			}
		}

		l.skipSpacesAndInlineComment()

		switch {
		case l.ch == 0:
			l.finalize()
			tok, _ := l.popPending()
			return tok
		case l.ch == '\n' && l.parenDepth > 0:
			// Inside brackets/parens/braces a newline is just whitespace:
			// no NEWLINE token, no line-start bookkeeping.
			l.readChar()
			continue
		case l.ch == '\n':
			start := l.loc(0)
			l.readChar()
			l.atLineStart = true
			if l.lineHasTok {
				l.lineHasTok = false
				return token.Token{Type: token.NEWLINE, Lexeme: "\n", Loc: start}
			}
			continue
		default:
			tok := l.scanToken()
			l.lineHasTok = true
			return tok
		}
	}
}

// AllTokens drains the lexer to EOF and returns every token produced,
// EOF included. Callers that need a materialized token slice up front —
// the compile façade, so it can report tokens independent of whether
// parsing later succeeds — use this instead of pulling NextToken
// themselves.
func (l *Lexer) AllTokens() []token.Token {
	var toks []token.Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			return toks
		}
	}
}

func (l *Lexer) popPending() (token.Token, bool) {
	if len(l.pending) == 0 {
		return token.Token{}, false
	}
	tok := l.pending[0]
	l.pending = l.pending[1:]
	return tok, true
}

// handleIndentation consumes any run of blank and comment-only lines,
// then compares the indentation of the next real line against the
// indent stack, queueing INDENT/DEDENT tokens as needed.
func (l *Lexer) handleIndentation() {
	for {
		width := 0
		for l.ch == ' ' || l.ch == '\t' {
			width++
			l.readChar()
		}

		if l.ch == '#' {
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
		}

		if l.ch == '\n' {
			l.readChar()
			continue
		}

		if l.ch == 0 {
			l.finalize()
			return
		}

		top := l.indents[len(l.indents)-1]
		switch {
		case width > top:
			l.indents = append(l.indents, width)
			l.pending = append(l.pending, token.Token{Type: token.INDENT, Loc: l.loc(0)})
		case width < top:
			for len(l.indents) > 1 && l.indents[len(l.indents)-1] > width {
				l.indents = l.indents[:len(l.indents)-1]
				l.pending = append(l.pending, token.Token{Type: token.DEDENT, Loc: l.loc(0)})
			}
			if l.indents[len(l.indents)-1] != width {
				l.Errors.Add(errors.Pos{Line: l.line, Col: l.col}, "unindent does not match any outer indentation level")
				l.indents[len(l.indents)-1] = width
			}
		}
		return
	}
}

// finalize runs once, at end of input: it closes off the final logical
// line with a NEWLINE (if one is owed), unwinds the remaining indent
// levels with DEDENT tokens, and appends the terminal EOF.
func (l *Lexer) finalize() {
	if l.finished {
		return
	}
	if l.lineHasTok {
		l.pending = append(l.pending, token.Token{Type: token.NEWLINE, Lexeme: "\n", Loc: l.loc(0)})
		l.lineHasTok = false
	}
	for len(l.indents) > 1 {
		l.indents = l.indents[:len(l.indents)-1]
		l.pending = append(l.pending, token.Token{Type: token.DEDENT, Loc: l.loc(0)})
	}
	l.pending = append(l.pending, token.Token{Type: token.EOF, Loc: l.loc(0)})
	l.finished = true
}

// skipSpacesAndInlineComment skips spaces/tabs and a trailing '#'
// comment, but never consumes the newline that ends the line.
func (l *Lexer) skipSpacesAndInlineComment() {
	for l.ch == ' ' || l.ch == '\t' {
		l.readChar()
	}
	if l.ch == '#' {
		for l.ch != '\n' && l.ch != 0 {
			l.readChar()
		}
	}
}

func (l *Lexer) scanToken() token.Token {
	loc := l.loc(1)

	switch l.ch {
	case '(':
		l.parenDepth++
		return l.single(token.LPAREN, loc)
	case ')':
		l.parenDepth--
		return l.single(token.RPAREN, loc)
	case '[':
		l.parenDepth++
		return l.single(token.LBRACKET, loc)
	case ']':
		l.parenDepth--
		return l.single(token.RBRACKET, loc)
	case '{':
		l.parenDepth++
		return l.single(token.LBRACE, loc)
	case '}':
		l.parenDepth--
		return l.single(token.RBRACE, loc)
	case ',':
		return l.single(token.COMMA, loc)
	case ':':
		return l.single(token.COLON, loc)
	case '.':
		return l.single(token.DOT, loc)
	case '+':
		return l.oneOrEq(token.PLUS, token.PLUSEQ, loc)
	case '-':
		return l.oneOrEq(token.MINUS, token.MINUSEQ, loc)
	case '%':
		return l.oneOrEq(token.PERCENT, token.PERCENTEQ, loc)
	case '*':
		if l.peekChar() == '*' {
			l.readChar()
			l.readChar()
			return token.Token{Type: token.STARSTAR, Lexeme: "**", Loc: loc2(loc)}
		}
		return l.oneOrEq(token.STAR, token.STAREQ, loc)
	case '/':
		return l.oneOrEq(token.SLASH, token.SLASHEQ, loc)
	case '=':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return token.Token{Type: token.EQEQ, Lexeme: "==", Loc: loc2(loc)}
		}
		return l.single(token.EQ, loc)
	case '!':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return token.Token{Type: token.BANGEQ, Lexeme: "!=", Loc: loc2(loc)}
		}
		l.Errors.Add(errors.Pos{Line: l.line, Col: l.col}, "unexpected character %q", l.ch)
		return l.single(token.IDENTIFIER, loc)
	case '<':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return token.Token{Type: token.LE, Lexeme: "<=", Loc: loc2(loc)}
		}
		return l.single(token.LT, loc)
	case '>':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return token.Token{Type: token.GE, Lexeme: ">=", Loc: loc2(loc)}
		}
		return l.single(token.GT, loc)
	case '"':
		if l.peekCharAt(0) == '"' && l.peekCharAt(1) == '"' {
			return l.readTripleQuotedString()
		}
		return l.readString(l.ch)
	case '\'':
		return l.readString(l.ch)
	}

	if isIdentStart(l.ch) {
		return l.readIdentifier()
	}
	if isDigit(l.ch) {
		return l.readNumber()
	}

	l.Errors.Add(errors.Pos{Line: l.line, Col: l.col}, "unexpected character %q", l.ch)
	ch := l.ch
	l.readChar()
	return token.Token{Type: token.IDENTIFIER, Lexeme: string(ch), Loc: loc}
}

// loc2 widens a 1-length location to 2, used for two-character operators.
func loc2(loc token.Loc) token.Loc {
	loc.Len = 2
	return loc
}

func (l *Lexer) single(typ token.Type, loc token.Loc) token.Token {
	lex := string(l.ch)
	l.readChar()
	return token.Token{Type: typ, Lexeme: lex, Loc: loc}
}

// oneOrEq lexes an operator that may be followed by '=' to form its
// compound-assignment form (+, += and so on).
func (l *Lexer) oneOrEq(plain, withEq token.Type, loc token.Loc) token.Token {
	ch := l.ch
	if l.peekChar() == '=' {
		l.readChar()
		l.readChar()
		return token.Token{Type: withEq, Lexeme: string(ch) + "=", Loc: loc2(loc)}
	}
	l.readChar()
	return token.Token{Type: plain, Lexeme: string(ch), Loc: loc}
}

func (l *Lexer) readIdentifier() token.Token {
	startLine, startCol := l.line, l.col
	start := l.position
	for isIdentPart(l.ch) {
		l.readChar()
	}
	lit := l.input[start:l.position]
	loc := token.Loc{Line: startLine, Col: startCol, Len: len([]rune(lit))}

	if typ, ok := l.keywords[lit]; ok {
		switch typ {
		case token.TRUE:
			return token.Token{Type: typ, Lexeme: lit, Literal: true, Loc: loc}
		case token.FALSE:
			return token.Token{Type: typ, Lexeme: lit, Literal: false, Loc: loc}
		case token.NONE:
			return token.Token{Type: typ, Lexeme: lit, Literal: nil, Loc: loc}
		default:
			return token.Token{Type: typ, Lexeme: lit, Loc: loc}
		}
	}
	return token.Token{Type: token.IDENTIFIER, Lexeme: lit, Loc: loc}
}

func (l *Lexer) readNumber() token.Token {
	startLine, startCol := l.line, l.col
	start := l.position
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	lit := l.input[start:l.position]
	loc := token.Loc{Line: startLine, Col: startCol, Len: len(lit)}
	return token.Token{Type: token.NUMBER, Lexeme: lit, Literal: parseFloat(lit), Loc: loc}
}

// parseFloat avoids importing strconv's error path into the hot loop;
// the lexer's own digit scan already guarantees a well-formed literal.
func parseFloat(lit string) float64 {
	var intPart, fracPart float64
	var fracDiv float64 = 1
	seenDot := false
	for _, r := range lit {
		if r == '.' {
			seenDot = true
			continue
		}
		d := float64(r - '0')
		if !seenDot {
			intPart = intPart*10 + d
		} else {
			fracDiv *= 10
			fracPart = fracPart*10 + d
		}
	}
	return intPart + fracPart/fracDiv
}

// readString scans a string literal delimited by quote, decoding escape
// sequences. An unrecognized escape preserves its backslash literally
// rather than erroring — the DSL has no fixed escape table to validate
// against.
func (l *Lexer) readString(quote rune) token.Token {
	startLine, startCol := l.line, l.col
	l.readChar() // consume opening quote

	var sb strings.Builder
	for l.ch != quote && l.ch != 0 {
		if l.ch == '\\' {
			l.readChar()
			switch l.ch {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case '\\':
				sb.WriteByte('\\')
			case '"':
				sb.WriteByte('"')
			case '\'':
				sb.WriteByte('\'')
			case '0':
				sb.WriteByte(0)
			case 'a':
				sb.WriteByte('\a')
			case 'b':
				sb.WriteByte('\b')
			case 'f':
				sb.WriteByte('\f')
			case 'v':
				sb.WriteByte('\v')
			case 0:
				// unterminated escape at EOF, nothing to append
			default:
				sb.WriteByte('\\')
				sb.WriteRune(l.ch)
			}
			if l.ch != 0 {
				l.readChar()
			}
			continue
		}
		sb.WriteRune(l.ch)
		l.readChar()
	}

	loc := token.Loc{Line: startLine, Col: startCol, Len: l.col - startCol + 1}

	if l.ch == quote {
		l.readChar()
	} else {
		l.Errors.Add(errors.Pos{Line: startLine, Col: startCol}, "unterminated string literal")
	}

	return token.Token{Type: token.STRING, Lexeme: sb.String(), Literal: sb.String(), Loc: loc}
}

// readTripleQuotedString scans a """-delimited block, used for both
// multi-line strings and block-comment-style docstrings — the lexer
// makes no distinction, always emitting a STRING token. The parser keeps
// a bare string statement in the AST; the transpiler skips emitting it
// when it is the first statement of a block.
func (l *Lexer) readTripleQuotedString() token.Token {
	startLine, startCol := l.line, l.col
	l.readChar()
	l.readChar()
	l.readChar()

	var sb strings.Builder
	for {
		if l.ch == 0 {
			l.Errors.Add(errors.Pos{Line: startLine, Col: startCol}, "unterminated triple-quoted string")
			break
		}
		if l.ch == '"' && l.peekCharAt(0) == '"' && l.peekCharAt(1) == '"' {
			l.readChar()
			l.readChar()
			l.readChar()
			break
		}
		sb.WriteRune(l.ch)
		l.readChar()
	}

	loc := token.Loc{Line: startLine, Col: startCol, Len: 3}
	return token.Token{Type: token.STRING, Lexeme: sb.String(), Literal: sb.String(), Loc: loc}
}

func isIdentStart(ch rune) bool {
	return unicode.IsLetter(ch) || ch == '_'
}

func isIdentPart(ch rune) bool {
	return unicode.IsLetter(ch) || unicode.IsDigit(ch) || ch == '_'
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

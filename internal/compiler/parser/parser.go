// Package parser turns a token stream into an *ast.Program using
// precedence-climbing (Pratt) expression parsing in the same style the
// teacher's script parser uses: prefix/infix function tables keyed by
// token type, advanced one token at a time, with curToken/peekToken
// tracking position. Unlike a streaming parser, this one is handed the
// full token slice up front — the compile façade needs that slice
// regardless of parse outcome, so the lexer is always drained first.
package parser

import (
	"github.com/pyjs-lang/pyjsc/internal/compiler/ast"
	"github.com/pyjs-lang/pyjsc/internal/compiler/errors"
	"github.com/pyjs-lang/pyjsc/internal/compiler/token"
)

// Precedence levels, lowest to highest, matching the DSL's 10-row
// precedence table. Unary minus binds tighter than **, a deliberate
// deviation from Python's own precedence that the table calls for
// explicitly — not a mistake to "fix".
const (
	LOWEST = iota
	OR_PREC
	AND_PREC
	NOT_PREC
	EQUALITY_PREC
	SUM_PREC
	PRODUCT_PREC
	POWER_PREC
	UNARY_PREC
	POSTFIX_PREC
	PRIMARY_PREC
)

var infixPrecedence = map[token.Type]int{
	token.OR:        OR_PREC,
	token.AND:       AND_PREC,
	token.EQEQ:      EQUALITY_PREC,
	token.BANGEQ:    EQUALITY_PREC,
	token.LT:        EQUALITY_PREC,
	token.LE:        EQUALITY_PREC,
	token.GT:        EQUALITY_PREC,
	token.GE:        EQUALITY_PREC,
	token.PLUS:      SUM_PREC,
	token.MINUS:     SUM_PREC,
	token.STAR:      PRODUCT_PREC,
	token.SLASH:     PRODUCT_PREC,
	token.PERCENT:   PRODUCT_PREC,
	token.STARSTAR:  POWER_PREC,
	token.LPAREN:    POSTFIX_PREC,
	token.DOT:       POSTFIX_PREC,
	token.LBRACKET:  POSTFIX_PREC,
}

type prefixParseFn func() ast.Expression
type infixParseFn func(ast.Expression) ast.Expression

// Parser walks a fully materialized token slice. cur/peek mirror the
// teacher's curToken/peekToken convention: every prefix and infix
// function leaves cur on the last token it consumed, never past it.
type Parser struct {
	tokens []token.Token
	curPos int
	cur    token.Token
	peek   token.Token

	Errors *errors.ErrorList

	prefixParseFns map[token.Type]prefixParseFn
	infixParseFns  map[token.Type]infixParseFn
}

// New builds a Parser over an already-tokenized source. tokens must end
// in an EOF token (as lexer.AllTokens always produces).
func New(tokens []token.Token) *Parser {
	if len(tokens) == 0 {
		tokens = []token.Token{{Type: token.EOF}}
	}
	p := &Parser{
		tokens: tokens,
		curPos: -1,
		Errors: errors.NewErrorList("parser"),
	}

	p.prefixParseFns = map[token.Type]prefixParseFn{
		token.NUMBER:     p.parseNumberLiteral,
		token.STRING:     p.parseStringLiteral,
		token.TRUE:       p.parseTrueLiteral,
		token.FALSE:      p.parseFalseLiteral,
		token.NONE:       p.parseNoneLiteral,
		token.IDENTIFIER: p.parseIdentifierExpr,
		token.SELF:       p.parseIdentifierExpr,
		token.LPAREN:     p.parseGroupExpr,
		token.LBRACE:     p.parseBraceExpr,
		token.NOT:        p.parseNotExpr,
		token.MINUS:      p.parseUnaryMinus,
		token.DEF:        p.parseFunctionExpr,
		token.LAMBDA:     p.parseLambdaExpr,
	}

	p.infixParseFns = map[token.Type]infixParseFn{
		token.OR:       p.parseLogical,
		token.AND:      p.parseLogical,
		token.EQEQ:     p.parseBinary,
		token.BANGEQ:   p.parseBinary,
		token.LT:       p.parseBinary,
		token.LE:       p.parseBinary,
		token.GT:       p.parseBinary,
		token.GE:       p.parseBinary,
		token.PLUS:     p.parseBinary,
		token.MINUS:    p.parseBinary,
		token.STAR:     p.parseBinary,
		token.SLASH:    p.parseBinary,
		token.PERCENT:  p.parseBinary,
		token.STARSTAR: p.parseBinary,
		token.LPAREN:   p.parseCall,
		token.DOT:      p.parseMember,
		token.LBRACKET: p.parseIndex,
	}

	p.advance()
	return p
}

// Parse tokenizes nothing itself — it parses an already-tokenized
// source and returns the resulting program along with the parser's
// diagnostics, the shape the compile façade consumes directly.
func Parse(tokens []token.Token) (*ast.Program, *errors.ErrorList) {
	p := New(tokens)
	return p.ParseProgram(), p.Errors
}

func (p *Parser) tokenAt(i int) token.Token {
	if i < 0 {
		i = 0
	}
	if i >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[i]
}

func (p *Parser) advance() {
	p.curPos++
	p.cur = p.tokenAt(p.curPos)
	p.peek = p.tokenAt(p.curPos + 1)
}

func (p *Parser) curIs(t token.Type) bool  { return p.cur.Type == t }
func (p *Parser) peekIs(t token.Type) bool { return p.peek.Type == t }

// expectPeek requires the next token to be t; on success it advances
// onto it. On failure it records a diagnostic and leaves cur/peek where
// they were, so the caller can still decide how to recover.
func (p *Parser) expectPeek(t token.Type, context string) bool {
	if p.peek.Type == t {
		p.advance()
		return true
	}
	p.errAt(p.peek.Loc, "expected %s %s, got %s", t, context, p.peek.Type)
	return false
}

func (p *Parser) errAt(loc token.Loc, format string, args ...any) {
	p.Errors.Add(errors.Pos{Line: loc.Line, Col: loc.Col, Len: loc.Len}, format, args...)
}

func (p *Parser) peekPrecedence() int {
	if pr, ok := infixPrecedence[p.peek.Type]; ok {
		return pr
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if pr, ok := infixPrecedence[p.cur.Type]; ok {
		return pr
	}
	return LOWEST
}

// synchronize discards tokens until the next NEWLINE, DEDENT, or EOF,
// landing cur on whichever it finds — the same terminal-token contract
// every statement parser leaves cur in, so callers can resume the block
// loop's one-advance-per-statement pattern uninterrupted.
func (p *Parser) synchronize() {
	for !p.curIs(token.NEWLINE) && !p.curIs(token.DEDENT) && !p.curIs(token.EOF) {
		p.advance()
	}
}

func (p *Parser) failSyncStmt(stmt ast.Statement) ast.Statement {
	p.synchronize()
	return stmt
}

// ============ PROGRAM / STATEMENTS ============

func (p *Parser) ParseProgram() *ast.Program {
	prog := &ast.Program{Loc: p.cur.Loc}
	for !p.curIs(token.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			prog.Statements = append(prog.Statements, stmt)
		}
		p.advance()
	}
	return prog
}

func (p *Parser) parseStatement() ast.Statement {
	switch p.cur.Type {
	case token.NEWLINE:
		return nil
	case token.GLOBAL:
		return p.parseGlobalPrefixedStmt()
	case token.DEF:
		return p.parseFunctionStmt(true)
	case token.CLASS:
		return p.parseClassStmt(true)
	case token.IF:
		return p.parseIfStmt()
	case token.WHILE:
		return p.parseWhileStmt()
	case token.FOR:
		return p.parseForStmt()
	case token.RETURN:
		return p.parseReturnStmt()
	case token.BREAK:
		return p.parseBreakStmt()
	case token.PASS:
		return p.parsePassStmt()
	default:
		return p.parseSimpleStatement()
	}
}

// parseBlock expects cur to be sitting on the last token of whatever
// precedes the colon (a condition, a parameter list's closing paren, a
// class header, an else/elif keyword) and consumes
// ':' NEWLINE INDENT stmt* DEDENT, leaving cur on the closing DEDENT.
func (p *Parser) parseBlock(context string) []ast.Statement {
	if !p.expectPeek(token.COLON, context) {
		return nil
	}
	if !p.expectPeek(token.NEWLINE, "after ':'") {
		return nil
	}
	if !p.expectPeek(token.INDENT, "to begin indented block") {
		return nil
	}
	p.advance()

	var stmts []ast.Statement
	for !p.curIs(token.DEDENT) && !p.curIs(token.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
		p.advance()
	}
	return stmts
}

func (p *Parser) parseGlobalPrefixedStmt() ast.Statement {
	startTok := p.cur // GLOBAL
	p.advance()

	switch p.cur.Type {
	case token.DEF:
		return p.parseFunctionStmt(false)
	case token.CLASS:
		return p.parseClassStmt(false)
	case token.IDENTIFIER:
		name := p.cur.Lexeme
		if !p.expectPeek(token.EQ, "after global variable name") {
			return p.failSyncStmt(&ast.VariableStmt{Name: name, IsLocal: false, Loc: startTok.Loc})
		}
		p.advance()
		val := p.parseExpression(LOWEST)
		stmt := &ast.VariableStmt{Name: name, Value: val, IsLocal: false, Loc: startTok.Loc}
		if !p.expectPeek(token.NEWLINE, "after global declaration") {
			return p.failSyncStmt(stmt)
		}
		return stmt
	default:
		p.errAt(p.cur.Loc, "expected identifier, 'def', or 'class' after 'global', got %s", p.cur.Type)
		return p.failSyncStmt(nil)
	}
}

func (p *Parser) parseFunctionStmt(isLocal bool) ast.Statement {
	startTok := p.cur // DEF
	if !p.expectPeek(token.IDENTIFIER, "after 'def'") {
		return p.failSyncStmt(nil)
	}
	name := p.cur.Lexeme
	if !p.expectPeek(token.LPAREN, "after function name") {
		return p.failSyncStmt(&ast.FunctionStmt{Name: name, IsLocal: isLocal, Loc: startTok.Loc})
	}
	params := p.parseParams()
	body := p.parseBlock("after function parameter list")
	return &ast.FunctionStmt{Name: name, Params: params, Body: body, IsLocal: isLocal, Loc: startTok.Loc}
}

// parseParams expects cur == LPAREN and leaves cur == RPAREN.
func (p *Parser) parseParams() []ast.Param {
	var params []ast.Param
	if p.peekIs(token.RPAREN) {
		p.advance()
		return params
	}
	if !p.expectPeek(token.IDENTIFIER, "as parameter name") {
		p.synchronize()
		return params
	}
	params = append(params, ast.Param{Name: p.cur.Lexeme})
	for p.peekIs(token.COMMA) {
		p.advance()
		if !p.expectPeek(token.IDENTIFIER, "as parameter name") {
			p.synchronize()
			return params
		}
		params = append(params, ast.Param{Name: p.cur.Lexeme})
	}
	if !p.expectPeek(token.RPAREN, "to close parameter list") {
		p.synchronize()
	}
	return params
}

func (p *Parser) parseClassStmt(isLocal bool) ast.Statement {
	startTok := p.cur // CLASS
	if !p.expectPeek(token.IDENTIFIER, "after 'class'") {
		return p.failSyncStmt(nil)
	}
	name := p.cur.Lexeme
	parent := ""
	if p.peekIs(token.IMPLEMENTS) {
		p.advance()
		if !p.expectPeek(token.IDENTIFIER, "after 'implements'") {
			return p.failSyncStmt(&ast.ClassStmt{Name: name, IsLocal: isLocal, Loc: startTok.Loc})
		}
		parent = p.cur.Lexeme
	}
	body := p.parseBlock("after class header")

	var members []*ast.FunctionStmt
	seenInit := false
	for _, stmt := range body {
		switch s := stmt.(type) {
		case *ast.FunctionStmt:
			if s.Name == "init" {
				if seenInit {
					p.errAt(s.Loc, "duplicate 'init' method in class %q", name)
				}
				seenInit = true
			}
			members = append(members, s)
		case *ast.PassStmt:
			// empty-body marker; contributes no member
		default:
			p.errAt(stmt.Location(), "class body may only contain function definitions")
		}
	}

	return &ast.ClassStmt{Name: name, Parent: parent, Members: members, IsLocal: isLocal, Loc: startTok.Loc}
}

func (p *Parser) parseIfStmt() ast.Statement {
	startTok := p.cur // IF
	p.advance()
	cond := p.parseExpression(LOWEST)
	body := p.parseBlock("after if condition")
	branches := []ast.IfBranch{{Cond: cond, Body: body}}

	for p.peekIs(token.ELIF) {
		p.advance()
		p.advance()
		c := p.parseExpression(LOWEST)
		b := p.parseBlock("after elif condition")
		branches = append(branches, ast.IfBranch{Cond: c, Body: b})
	}

	var elseBody []ast.Statement
	if p.peekIs(token.ELSE) {
		p.advance()
		elseBody = p.parseBlock("after else")
	}

	return &ast.IfStmt{Branches: branches, ElseBody: elseBody, Loc: startTok.Loc}
}

func (p *Parser) parseWhileStmt() ast.Statement {
	startTok := p.cur // WHILE
	p.advance()
	cond := p.parseExpression(LOWEST)
	body := p.parseBlock("after while condition")
	return &ast.WhileStmt{Cond: cond, Body: body, Loc: startTok.Loc}
}

func (p *Parser) parseForStmt() ast.Statement {
	startTok := p.cur // FOR
	p.advance()

	isLocal := true
	if p.curIs(token.GLOBAL) {
		isLocal = false
		p.advance()
	}
	if !p.curIs(token.IDENTIFIER) {
		p.errAt(p.cur.Loc, "expected identifier in for-loop initializer, got %s", p.cur.Type)
		return p.failSyncStmt(nil)
	}
	name := p.cur.Lexeme

	if !p.expectPeek(token.EQ, "after for-loop variable") {
		return p.failSyncStmt(nil)
	}
	p.advance()
	initVal := p.parseExpression(LOWEST)

	if !p.expectPeek(token.COMMA, "after for-loop initializer") {
		return p.failSyncStmt(nil)
	}
	p.advance()
	cond := p.parseExpression(LOWEST)

	if !p.expectPeek(token.COMMA, "after for-loop condition") {
		return p.failSyncStmt(nil)
	}
	p.advance()
	step := p.parseAssignOrExprCore()

	body := p.parseBlock("after for-loop header")
	return &ast.ForStmt{
		InitName: name, InitValue: initVal, InitIsLocal: isLocal,
		Cond: cond, Step: step, Body: body, Loc: startTok.Loc,
	}
}

func (p *Parser) parseReturnStmt() ast.Statement {
	startTok := p.cur // RETURN
	var val ast.Expression
	if !p.peekIs(token.NEWLINE) {
		p.advance()
		val = p.parseExpression(LOWEST)
	}
	stmt := &ast.ReturnStmt{Value: val, Loc: startTok.Loc}
	if !p.expectPeek(token.NEWLINE, "after return statement") {
		return p.failSyncStmt(stmt)
	}
	return stmt
}

func (p *Parser) parseBreakStmt() ast.Statement {
	startTok := p.cur
	stmt := &ast.BreakStmt{Loc: startTok.Loc}
	if !p.expectPeek(token.NEWLINE, "after break") {
		return p.failSyncStmt(stmt)
	}
	return stmt
}

func (p *Parser) parsePassStmt() ast.Statement {
	startTok := p.cur
	stmt := &ast.PassStmt{Loc: startTok.Loc}
	if !p.expectPeek(token.NEWLINE, "after pass") {
		return p.failSyncStmt(stmt)
	}
	return stmt
}

func (p *Parser) parseSimpleStatement() ast.Statement {
	stmt := p.parseAssignOrExprCore()
	if stmt == nil {
		return p.failSyncStmt(nil)
	}
	// A block-bodied def(...) expression leaves cur on the DEDENT that
	// closes its body; that DEDENT already ends the statement.
	if p.curIs(token.DEDENT) {
		return stmt
	}
	if !p.expectPeek(token.NEWLINE, "after statement") {
		return p.failSyncStmt(stmt)
	}
	return stmt
}

// parseAssignOrExprCore parses an expression, then checks whether it is
// immediately followed by an assignment operator; if so it is reduced
// to an AssignStmt, otherwise to an ExpressionStmt. This single routine
// backs both ordinary statement parsing and a for-loop's step clause,
// which the spec allows to be a plain expression or an assignment.
func (p *Parser) parseAssignOrExprCore() ast.Statement {
	startLoc := p.cur.Loc
	expr := p.parseExpression(LOWEST)
	if expr == nil {
		return nil
	}

	if op, ok := assignOpLexeme(p.peek.Type); ok {
		if !isValidAssignTarget(expr) {
			p.errAt(expr.Location(), "invalid assignment target")
		}
		p.advance()
		p.advance()
		rhs := p.parseExpression(LOWEST)
		return &ast.AssignStmt{Target: expr, Op: op, Value: rhs, Loc: startLoc}
	}

	return &ast.ExpressionStmt{Expr: expr, Loc: startLoc}
}

func assignOpLexeme(t token.Type) (string, bool) {
	switch t {
	case token.EQ:
		return "=", true
	case token.PLUSEQ:
		return "+=", true
	case token.MINUSEQ:
		return "-=", true
	case token.STAREQ:
		return "*=", true
	case token.SLASHEQ:
		return "/=", true
	case token.PERCENTEQ:
		return "%=", true
	}
	return "", false
}

func isValidAssignTarget(e ast.Expression) bool {
	switch e.(type) {
	case *ast.VarExpr, *ast.MemberExpr, *ast.IndexExpr:
		return true
	}
	return false
}

// ============ EXPRESSIONS ============

func (p *Parser) parseExpression(precedence int) ast.Expression {
	prefix := p.prefixParseFns[p.cur.Type]
	if prefix == nil {
		p.errAt(p.cur.Loc, "unexpected token %s in expression", p.cur.Type)
		return nil
	}
	left := prefix()

	for precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peek.Type]
		if infix == nil {
			return left
		}
		p.advance()
		left = infix(left)
	}
	return left
}

func (p *Parser) parseNumberLiteral() ast.Expression {
	tok := p.cur
	return &ast.LiteralExpr{Value: tok.Literal, Kind: token.NUMBER, Loc: tok.Loc}
}

func (p *Parser) parseStringLiteral() ast.Expression {
	tok := p.cur
	return &ast.LiteralExpr{Value: tok.Literal, Kind: token.STRING, Loc: tok.Loc}
}

func (p *Parser) parseTrueLiteral() ast.Expression {
	tok := p.cur
	return &ast.LiteralExpr{Value: true, Kind: token.TRUE, Loc: tok.Loc}
}

func (p *Parser) parseFalseLiteral() ast.Expression {
	tok := p.cur
	return &ast.LiteralExpr{Value: false, Kind: token.FALSE, Loc: tok.Loc}
}

func (p *Parser) parseNoneLiteral() ast.Expression {
	tok := p.cur
	return &ast.LiteralExpr{Value: nil, Kind: token.NONE, Loc: tok.Loc}
}

func (p *Parser) parseIdentifierExpr() ast.Expression {
	tok := p.cur
	return &ast.VarExpr{Name: tok.Lexeme, Loc: tok.Loc}
}

func (p *Parser) parseGroupExpr() ast.Expression {
	startTok := p.cur // LPAREN
	p.advance()
	inner := p.parseExpression(LOWEST)
	p.expectPeek(token.RPAREN, "to close parenthesized expression")
	return &ast.GroupExpr{Inner: inner, Loc: startTok.Loc}
}

func (p *Parser) parseNotExpr() ast.Expression {
	startTok := p.cur // NOT
	p.advance()
	operand := p.parseExpression(NOT_PREC)
	return &ast.UnaryExpr{Op: "not", Operand: operand, Loc: startTok.Loc}
}

func (p *Parser) parseUnaryMinus() ast.Expression {
	startTok := p.cur // MINUS
	p.advance()
	operand := p.parseExpression(UNARY_PREC)
	return &ast.UnaryExpr{Op: "-", Operand: operand, Loc: startTok.Loc}
}

func (p *Parser) parseLogical(left ast.Expression) ast.Expression {
	opTok := p.cur
	prec := p.curPrecedence()
	p.advance()
	right := p.parseExpression(prec)
	return &ast.LogicalExpr{Left: left, Op: opTok.Lexeme, Right: right, Loc: left.Location()}
}

func (p *Parser) parseBinary(left ast.Expression) ast.Expression {
	opTok := p.cur
	prec := p.curPrecedence()
	rhsPrec := prec
	if opTok.Type == token.STARSTAR {
		rhsPrec = prec - 1 // right-associative
	}
	p.advance()
	right := p.parseExpression(rhsPrec)
	return &ast.BinaryExpr{Left: left, Op: opTok.Lexeme, Right: right, Loc: left.Location()}
}

func (p *Parser) parseCall(left ast.Expression) ast.Expression {
	var args []ast.Expression
	if p.peekIs(token.RPAREN) {
		p.advance()
	} else {
		p.advance()
		args = append(args, p.parseExpression(LOWEST))
		for p.peekIs(token.COMMA) {
			p.advance()
			p.advance()
			args = append(args, p.parseExpression(LOWEST))
		}
		p.expectPeek(token.RPAREN, "to close call argument list")
	}
	return &ast.CallExpr{Callee: left, Args: args, Loc: left.Location()}
}

func (p *Parser) parseMember(left ast.Expression) ast.Expression {
	if !p.expectPeek(token.IDENTIFIER, "after '.'") {
		return &ast.MemberExpr{Object: left, Loc: left.Location()}
	}
	return &ast.MemberExpr{Object: left, Name: p.cur.Lexeme, Loc: left.Location()}
}

func (p *Parser) parseIndex(left ast.Expression) ast.Expression {
	p.advance()
	idx := p.parseExpression(LOWEST)
	p.expectPeek(token.RBRACKET, "to close index expression")
	return &ast.IndexExpr{Object: left, Index: idx, Loc: left.Location()}
}

// parseBraceExpr implements the brace-literal disambiguation algorithm:
// empty braces are an empty object; a top-level `IDENT =` pattern
// (skipping over balanced brackets/parens/braces) makes the whole
// literal an object; anything else makes it a list. Classification is a
// single read-only scan ahead through the token slice, never a
// backtracking reparse.
func (p *Parser) parseBraceExpr() ast.Expression {
	startTok := p.cur // LBRACE
	switch p.classifyBrace() {
	case braceEmptyObject:
		p.expectPeek(token.RBRACE, "to close empty object literal")
		return &ast.ObjectLiteralExpr{Loc: startTok.Loc}
	case braceObject:
		return p.parseObjectLiteral(startTok)
	default:
		return p.parseListLiteral(startTok)
	}
}

type braceKind int

const (
	braceList braceKind = iota
	braceObject
	braceEmptyObject
)

func (p *Parser) classifyBrace() braceKind {
	i := p.curPos + 1
	for i < len(p.tokens) && p.tokens[i].Type == token.NEWLINE {
		i++
	}
	if i < len(p.tokens) && p.tokens[i].Type == token.RBRACE {
		return braceEmptyObject
	}

	depth := 0
	for i < len(p.tokens) {
		switch p.tokens[i].Type {
		case token.LPAREN, token.LBRACKET, token.LBRACE:
			depth++
		case token.RPAREN, token.RBRACKET:
			depth--
		case token.RBRACE:
			if depth == 0 {
				return braceList
			}
			depth--
		case token.IDENTIFIER:
			if depth == 0 && i+1 < len(p.tokens) && p.tokens[i+1].Type == token.EQ {
				return braceObject
			}
		case token.EOF:
			return braceList
		}
		i++
	}
	return braceList
}

func (p *Parser) parseObjectLiteral(startTok token.Token) ast.Expression {
	var entries []ast.ObjectEntry
	p.advance()
	for {
		if !p.curIs(token.IDENTIFIER) {
			p.errAt(p.cur.Loc, "Cannot mix list and object entries")
			break
		}
		key := p.cur.Lexeme
		if !p.expectPeek(token.EQ, "after object key") {
			break
		}
		p.advance()
		val := p.parseExpression(LOWEST)
		entries = append(entries, ast.ObjectEntry{Key: key, Value: val})

		if p.peekIs(token.COMMA) {
			p.advance()
			p.advance()
			continue
		}
		break
	}
	p.expectPeek(token.RBRACE, "to close object literal")
	return &ast.ObjectLiteralExpr{Entries: entries, Loc: startTok.Loc}
}

func (p *Parser) parseListLiteral(startTok token.Token) ast.Expression {
	var elements []ast.Expression
	if p.peekIs(token.RBRACE) {
		p.advance()
		return &ast.ListLiteralExpr{Loc: startTok.Loc}
	}
	p.advance()
	elements = append(elements, p.parseExpression(LOWEST))
	for p.peekIs(token.COMMA) {
		p.advance()
		p.advance()
		elements = append(elements, p.parseExpression(LOWEST))
	}
	p.expectPeek(token.RBRACE, "to close list literal")
	return &ast.ListLiteralExpr{Elements: elements, Loc: startTok.Loc}
}

func (p *Parser) parseFunctionExpr() ast.Expression {
	startTok := p.cur // DEF
	if !p.expectPeek(token.LPAREN, "after 'def'") {
		return &ast.FunctionExpr{Loc: startTok.Loc}
	}
	params := p.parseParams()
	body := p.parseBlock("after anonymous function parameter list")
	return &ast.FunctionExpr{Params: params, Body: body, Loc: startTok.Loc}
}

func (p *Parser) parseLambdaExpr() ast.Expression {
	startTok := p.cur // LAMBDA
	var params []ast.Param

	if !p.peekIs(token.COLON) {
		if !p.expectPeek(token.IDENTIFIER, "as lambda parameter") {
			return &ast.LambdaExpr{Loc: startTok.Loc}
		}
		params = append(params, ast.Param{Name: p.cur.Lexeme})
		for p.peekIs(token.COMMA) {
			p.advance()
			if !p.expectPeek(token.IDENTIFIER, "as lambda parameter") {
				break
			}
			params = append(params, ast.Param{Name: p.cur.Lexeme})
		}
	}

	if !p.expectPeek(token.COLON, "after lambda parameter list") {
		return &ast.LambdaExpr{Params: params, Loc: startTok.Loc}
	}
	p.advance()
	body := p.parseExpression(LOWEST)
	return &ast.LambdaExpr{Params: params, Body: body, Loc: startTok.Loc}
}

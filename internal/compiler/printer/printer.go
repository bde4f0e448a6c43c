// Package printer re-renders a parsed program back into canonical DSL
// source text: one true indent width, one space around binary and
// assignment operators, no trailing whitespace. It exists to exercise
// the round-trip invariant (parse, print, re-parse yields a
// structurally equal AST) described in the specification's testable
// properties; `pyjsc fmt` does not use it (that command re-spaces the
// token stream through the format package). Grounded on cmd/gmx/fmt.go's
// role as the formatting entry point, though the mechanism here is a
// proper AST-driven printer rather than a regex section splitter,
// since the DSL (unlike GMX's templates) has a complete grammar to
// print from.
package printer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pyjs-lang/pyjsc/internal/compiler/ast"
	"github.com/pyjs-lang/pyjsc/internal/compiler/token"
)

// indentUnit is the canonical per-level indentation string.
const indentUnit = "    "

// Printer renders a Program back into DSL source text.
type Printer struct {
	buf         strings.Builder
	indent      int
	selfKeyword string
}

// New returns a Printer. selfKeyword controls how VarExpr nodes whose
// Name equals it are re-rendered — kept as-is, since the printer only
// ever re-emits DSL source, never JS.
func New(selfKeyword string) *Printer {
	if selfKeyword == "" {
		selfKeyword = "self"
	}
	return &Printer{selfKeyword: selfKeyword}
}

// Print renders program as canonical DSL source.
func Print(program *ast.Program, selfKeyword string) string {
	p := New(selfKeyword)
	p.printStatements(program.Statements)
	return p.buf.String()
}

func (p *Printer) line(format string, args ...any) {
	p.buf.WriteString(strings.Repeat(indentUnit, p.indent))
	fmt.Fprintf(&p.buf, format, args...)
	p.buf.WriteString("\n")
}

func (p *Printer) printStatements(stmts []ast.Statement) {
	for _, s := range stmts {
		p.printStatement(s)
	}
}

func (p *Printer) printBlock(header string, stmts []ast.Statement) {
	p.line("%s:", header)
	p.indent++
	if len(stmts) == 0 {
		p.line("pass")
	} else {
		p.printStatements(stmts)
	}
	p.indent--
}

func (p *Printer) printStatement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.VariableStmt:
		prefix := ""
		if !s.IsLocal {
			prefix = "global "
		}
		p.line("%s%s = %s", prefix, s.Name, p.expr(s.Value))
	case *ast.AssignStmt:
		p.line("%s %s %s", p.expr(s.Target), s.Op, p.expr(s.Value))
	case *ast.FunctionStmt:
		p.printFunctionStmt(s)
	case *ast.ClassStmt:
		p.printClassStmt(s)
	case *ast.IfStmt:
		p.printIfStmt(s)
	case *ast.WhileStmt:
		p.printBlock(fmt.Sprintf("while %s", p.expr(s.Cond)), s.Body)
	case *ast.ForStmt:
		p.printForStmt(s)
	case *ast.ReturnStmt:
		if s.Value == nil {
			p.line("return")
		} else {
			p.line("return %s", p.expr(s.Value))
		}
	case *ast.BreakStmt:
		p.line("break")
	case *ast.PassStmt:
		p.line("pass")
	case *ast.ExpressionStmt:
		p.line("%s", p.expr(s.Expr))
	}
}

func (p *Printer) printFunctionStmt(s *ast.FunctionStmt) {
	prefix := ""
	if !s.IsLocal {
		prefix = "global "
	}
	header := fmt.Sprintf("%sdef %s(%s)", prefix, s.Name, paramList(s.Params))
	p.printBlock(header, s.Body)
}

func (p *Printer) printClassStmt(s *ast.ClassStmt) {
	prefix := ""
	if !s.IsLocal {
		prefix = "global "
	}
	header := fmt.Sprintf("%sclass %s", prefix, s.Name)
	if s.Parent != "" {
		header += " implements " + s.Parent
	}
	p.line("%s:", header)
	p.indent++
	if len(s.Members) == 0 {
		p.line("pass")
	} else {
		for _, m := range s.Members {
			p.printFunctionMember(m)
		}
	}
	p.indent--
}

func (p *Printer) printFunctionMember(m *ast.FunctionStmt) {
	header := fmt.Sprintf("def %s(%s)", m.Name, paramList(m.Params))
	p.printBlock(header, m.Body)
}

func (p *Printer) printIfStmt(s *ast.IfStmt) {
	for i, br := range s.Branches {
		keyword := "if"
		if i > 0 {
			keyword = "elif"
		}
		p.printBlock(fmt.Sprintf("%s %s", keyword, p.expr(br.Cond)), br.Body)
	}
	if s.ElseBody != nil {
		p.printBlock("else", s.ElseBody)
	}
}

func (p *Printer) printForStmt(s *ast.ForStmt) {
	prefix := ""
	if !s.InitIsLocal {
		prefix = "global "
	}
	var step string
	switch st := s.Step.(type) {
	case *ast.AssignStmt:
		step = fmt.Sprintf("%s %s %s", p.expr(st.Target), st.Op, p.expr(st.Value))
	case *ast.ExpressionStmt:
		step = p.expr(st.Expr)
	}
	header := fmt.Sprintf("for %s%s = %s, %s, %s", prefix, s.InitName, p.expr(s.InitValue), p.expr(s.Cond), step)
	p.printBlock(header, s.Body)
}

func paramList(params []ast.Param) string {
	names := make([]string, len(params))
	for i, pm := range params {
		names[i] = pm.Name
	}
	return strings.Join(names, ", ")
}

// ============ expressions ============

func (p *Printer) expr(e ast.Expression) string {
	switch v := e.(type) {
	case *ast.LiteralExpr:
		return p.literal(v)
	case *ast.VarExpr:
		return v.Name
	case *ast.UnaryExpr:
		if v.Op == "not" {
			return fmt.Sprintf("not %s", p.expr(v.Operand))
		}
		return fmt.Sprintf("%s%s", v.Op, p.expr(v.Operand))
	case *ast.BinaryExpr:
		return fmt.Sprintf("%s %s %s", p.expr(v.Left), v.Op, p.expr(v.Right))
	case *ast.LogicalExpr:
		return fmt.Sprintf("%s %s %s", p.expr(v.Left), v.Op, p.expr(v.Right))
	case *ast.CallExpr:
		args := make([]string, len(v.Args))
		for i, a := range v.Args {
			args[i] = p.expr(a)
		}
		return fmt.Sprintf("%s(%s)", p.expr(v.Callee), strings.Join(args, ", "))
	case *ast.MemberExpr:
		return fmt.Sprintf("%s.%s", p.expr(v.Object), v.Name)
	case *ast.IndexExpr:
		return fmt.Sprintf("%s[%s]", p.expr(v.Object), p.expr(v.Index))
	case *ast.GroupExpr:
		return fmt.Sprintf("(%s)", p.expr(v.Inner))
	case *ast.ListLiteralExpr:
		parts := make([]string, len(v.Elements))
		for i, el := range v.Elements {
			parts[i] = p.expr(el)
		}
		return fmt.Sprintf("{%s}", strings.Join(parts, ", "))
	case *ast.ObjectLiteralExpr:
		parts := make([]string, len(v.Entries))
		for i, ent := range v.Entries {
			parts[i] = fmt.Sprintf("%s = %s", ent.Key, p.expr(ent.Value))
		}
		return fmt.Sprintf("{%s}", strings.Join(parts, ", "))
	case *ast.LambdaExpr:
		return fmt.Sprintf("lambda %s: %s", paramList(v.Params), p.expr(v.Body))
	case *ast.FunctionExpr:
		return fmt.Sprintf("def(%s): ...", paramList(v.Params))
	default:
		return ""
	}
}

func (p *Printer) literal(l *ast.LiteralExpr) string {
	switch l.Kind {
	case token.NUMBER:
		if f, ok := l.Value.(float64); ok {
			return strconv.FormatFloat(f, 'g', -1, 64)
		}
		return fmt.Sprintf("%v", l.Value)
	case token.STRING:
		s, _ := l.Value.(string)
		return fmt.Sprintf("%q", s)
	case token.TRUE:
		return "True"
	case token.FALSE:
		return "False"
	case token.NONE:
		return "None"
	default:
		return fmt.Sprintf("%v", l.Value)
	}
}

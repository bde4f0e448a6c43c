// Package transpiler walks a parsed program once, maintaining a lexical
// scope stack, and emits JavaScript/TypeScript target text while
// recording semantic errors against a registration table. It has no
// direct teacher analogue in shape — the teacher emits Go, not JS — but
// follows the same buffered strings.Builder emitter and switch-dispatch
// walk as script/transpiler.go.
package transpiler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/pyjs-lang/pyjsc/internal/compiler/ast"
	"github.com/pyjs-lang/pyjsc/internal/compiler/errors"
	"github.com/pyjs-lang/pyjsc/internal/compiler/registry"
	"github.com/pyjs-lang/pyjsc/internal/compiler/token"
)

// scope is one frame of the declaration stack. A frame is pushed for
// every function body, class-method body, if/elif/else body, while
// body, and for body. Assigning an outer name inside a nested frame
// re-emits "var"; since JS var is function-scoped, that writes the same
// runtime binding as the outer declaration.
type scope struct {
	vars           map[string]bool
	isFunctionBody bool
	isClassBody    bool
}

func newScope(isFunctionBody, isClassBody bool) *scope {
	return &scope{vars: map[string]bool{}, isFunctionBody: isFunctionBody, isClassBody: isClassBody}
}

// Transpiler holds the emission buffer, the scope stack, and the
// registration table consulted for name resolution and call validation.
type Transpiler struct {
	buf         strings.Builder
	indent      int
	scopes      []*scope
	globals     map[string]bool
	reg         *registry.Registry
	errs        *errors.ErrorList
	selfKeyword string
	loopDepth   int
	funcDepth   int
	classDepth  int
}

// New constructs a Transpiler bound to reg. selfKeyword is the source
// spelling ("self" or "this") that resolves to the SELF token, matching
// whichever token.Dialect the lexer was built with; it defaults to
// "self" when empty.
func New(reg *registry.Registry, selfKeyword string) *Transpiler {
	if selfKeyword == "" {
		selfKeyword = "self"
	}
	return &Transpiler{
		reg:         reg,
		errs:        errors.NewErrorList("transpiler"),
		selfKeyword: selfKeyword,
		globals:     map[string]bool{},
	}
}

// Transpile walks program top to bottom and returns the emitted body
// (boilerplate is the façade's concern, not this package's) along with
// every diagnostic raised. Emission never stops at the first error —
// each statement is still emitted on a best-effort basis so a single
// source file can surface every problem in one pass.
func Transpile(program *ast.Program, reg *registry.Registry, selfKeyword string) (string, *errors.ErrorList) {
	t := New(reg, selfKeyword)
	t.pushScope(true, false)
	t.emitBlockBody(program.Statements)
	t.popScope()
	return t.buf.String(), t.errs
}

func posOf(loc token.Loc) errors.Pos {
	return errors.Pos{Line: loc.Line, Col: loc.Col, Len: loc.Len}
}

// ============ scope bookkeeping ============

func (t *Transpiler) pushScope(isFunctionBody, isClassBody bool) {
	t.scopes = append(t.scopes, newScope(isFunctionBody, isClassBody))
	if isClassBody {
		t.classDepth++
	}
}

func (t *Transpiler) popScope() {
	s := t.scopes[len(t.scopes)-1]
	t.scopes = t.scopes[:len(t.scopes)-1]
	if s.isClassBody {
		t.classDepth--
	}
}

func (t *Transpiler) currentScope() *scope { return t.scopes[len(t.scopes)-1] }

func (t *Transpiler) declare(name string) { t.currentScope().vars[name] = true }

func (t *Transpiler) isDeclaredHere(name string) bool { return t.currentScope().vars[name] }

func (t *Transpiler) inClassMethod() bool { return t.classDepth > 0 }

// isVisible reports whether name resolves: a declared local anywhere on
// the stack, a recorded global, a registration-table entry, or one of
// the two hard-coded built-ins (print, str).
func (t *Transpiler) isVisible(name string) bool {
	if name == "print" || name == "str" {
		return true
	}
	for i := len(t.scopes) - 1; i >= 0; i-- {
		if t.scopes[i].vars[name] {
			return true
		}
	}
	if t.globals[name] {
		return true
	}
	if _, ok := t.reg.LookupFunction(name); ok {
		return true
	}
	if _, ok := t.reg.LookupObject(name); ok {
		return true
	}
	if t.reg.IsReservedDeclaration(name) {
		return true
	}
	if t.reg.IsReservedFunction(name) {
		return true
	}
	return false
}

// declareAndTarget records name as local (isLocal true) or as a global
// (isLocal false), returning the text to assign to: the bare name, or
// "globals.name".
func (t *Transpiler) declareAndTarget(name string, isLocal bool) string {
	if isLocal {
		t.declare(name)
		return name
	}
	t.globals[name] = true
	return "globals." + name
}

func (t *Transpiler) targetName(name string) string {
	if t.globals[name] {
		return "globals." + name
	}
	return name
}

// ============ emission plumbing ============

func (t *Transpiler) emit(format string, args ...any) {
	fmt.Fprintf(&t.buf, format, args...)
}

func (t *Transpiler) emitIndent() {
	t.buf.WriteString(strings.Repeat("\t", t.indent))
}

func paramList(params []ast.Param) string {
	names := lo.Map(params, func(p ast.Param, _ int) string { return p.Name })
	return strings.Join(names, ", ")
}

// emitBlockBody emits a statement list, discarding a bare string
// expression statement when it is the first statement of the block —
// the DSL's docstring convention. The AST keeps the statement (round-
// trip fidelity); only emission suppresses it.
func (t *Transpiler) emitBlockBody(stmts []ast.Statement) {
	for i, s := range stmts {
		if i == 0 && isDocstring(s) {
			continue
		}
		t.emitStatement(s)
	}
}

func isDocstring(s ast.Statement) bool {
	es, ok := s.(*ast.ExpressionStmt)
	if !ok {
		return false
	}
	lit, ok := es.Expr.(*ast.LiteralExpr)
	return ok && lit.Kind == token.STRING
}

// ============ statements ============

func (t *Transpiler) emitStatement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.VariableStmt:
		t.globals[s.Name] = true
		t.emitIndent()
		t.emit("globals.%s = %s;\n", s.Name, t.expr(s.Value))
	case *ast.AssignStmt:
		t.emitAssignStmt(s)
	case *ast.FunctionStmt:
		t.emitFunctionStmt(s)
	case *ast.ClassStmt:
		t.emitClassStmt(s)
	case *ast.IfStmt:
		t.emitIfStmt(s)
	case *ast.WhileStmt:
		t.emitWhileStmt(s)
	case *ast.ForStmt:
		t.emitForStmt(s)
	case *ast.ReturnStmt:
		if t.funcDepth == 0 {
			t.errs.Add(posOf(s.Loc), "'return' outside function")
		}
		t.emitIndent()
		if s.Value == nil {
			t.emit("return;\n")
		} else {
			t.emit("return %s;\n", t.expr(s.Value))
		}
	case *ast.BreakStmt:
		if t.loopDepth == 0 {
			t.errs.Add(posOf(s.Loc), "'break' outside loop")
		}
		t.emitIndent()
		t.emit("break;\n")
	case *ast.PassStmt:
		// pass is a no-op placeholder; nothing to emit.
	case *ast.ExpressionStmt:
		t.emitIndent()
		t.emit("%s;\n", t.expr(s.Expr))
	default:
		t.emitIndent()
		t.emit("// unhandled statement: %T\n", stmt)
	}
}

func (t *Transpiler) emitAssignStmt(a *ast.AssignStmt) {
	rhs := t.expr(a.Value)
	switch target := a.Target.(type) {
	case *ast.VarExpr:
		name := target.Name
		if a.Op != "=" {
			if !t.isVisible(name) {
				t.errs.Add(posOf(target.Loc), "Undefined variable '%s'", name)
			}
			t.emitIndent()
			t.emit("%s %s %s;\n", t.targetName(name), a.Op, rhs)
			return
		}
		if t.globals[name] {
			t.emitIndent()
			t.emit("globals.%s = %s;\n", name, rhs)
			return
		}
		if t.isDeclaredHere(name) {
			t.emitIndent()
			t.emit("%s = %s;\n", name, rhs)
			return
		}
		t.declare(name)
		t.emitIndent()
		t.emit("var %s = %s;\n", name, rhs)
	default:
		t.emitIndent()
		t.emit("%s %s %s;\n", t.expr(a.Target), a.Op, rhs)
	}
}

func (t *Transpiler) emitFunctionStmt(f *ast.FunctionStmt) {
	if jsName, ok := t.reg.ReservedFunctionTarget(f.Name); ok {
		t.emitIndent()
		t.emit("%s((%s) => {\n", jsName, paramList(f.Params))
		t.indent++
		t.funcDepth++
		t.pushScope(true, t.inClassMethod())
		for _, p := range f.Params {
			t.declare(p.Name)
		}
		t.emitBlockBody(f.Body)
		t.popScope()
		t.funcDepth--
		t.indent--
		t.emitIndent()
		t.emit("});\n")
		return
	}

	target := t.declareAndTarget(f.Name, f.IsLocal)
	isGlobal := strings.HasPrefix(target, "globals.")
	t.emitIndent()
	if isGlobal {
		t.emit("%s = function(%s) {\n", target, paramList(f.Params))
	} else {
		t.emit("function %s(%s) {\n", target, paramList(f.Params))
	}
	t.indent++
	t.funcDepth++
	t.pushScope(true, false)
	for _, p := range f.Params {
		t.declare(p.Name)
	}
	t.emitBlockBody(f.Body)
	t.popScope()
	t.funcDepth--
	t.indent--
	t.emitIndent()
	if isGlobal {
		t.emit("};\n")
	} else {
		t.emit("}\n")
	}
}

func (t *Transpiler) emitClassStmt(c *ast.ClassStmt) {
	ctorName := t.declareAndTarget(c.Name, c.IsLocal)
	isGlobal := strings.HasPrefix(ctorName, "globals.")

	var initMethod *ast.FunctionStmt
	var others []*ast.FunctionStmt
	for _, m := range c.Members {
		if m.Name == "init" && initMethod == nil {
			initMethod = m
		} else {
			others = append(others, m)
		}
	}

	var params []ast.Param
	var initBody []ast.Statement
	if initMethod != nil {
		params = initMethod.Params
		initBody = initMethod.Body
	}

	t.emitIndent()
	if isGlobal {
		t.emit("%s = function(%s) {\n", ctorName, paramList(params))
	} else {
		t.emit("function %s(%s) {\n", ctorName, paramList(params))
	}
	t.indent++
	t.funcDepth++
	t.pushScope(true, true)
	for _, p := range params {
		t.declare(p.Name)
	}
	if c.Parent != "" && !firstStmtIsParentCall(initBody, c.Parent) {
		t.emitIndent()
		t.emit("%s.call(this%s);\n", c.Parent, callArgsSuffix(params))
	}
	t.emitBlockBody(initBody)
	t.popScope()
	t.funcDepth--
	t.indent--
	t.emitIndent()
	if isGlobal {
		t.emit("};\n")
	} else {
		t.emit("}\n")
	}

	for _, m := range others {
		t.emitIndent()
		t.emit("%s.prototype.%s = function(%s) {\n", ctorName, m.Name, paramList(m.Params))
		t.indent++
		t.funcDepth++
		t.pushScope(true, true)
		for _, p := range m.Params {
			t.declare(p.Name)
		}
		t.emitBlockBody(m.Body)
		t.popScope()
		t.funcDepth--
		t.indent--
		t.emitIndent()
		t.emit("};\n")
	}
}

func callArgsSuffix(params []ast.Param) string {
	if len(params) == 0 {
		return ""
	}
	return ", " + paramList(params)
}

func calleeRootName(e ast.Expression) (string, bool) {
	switch v := e.(type) {
	case *ast.VarExpr:
		return v.Name, true
	case *ast.MemberExpr:
		return calleeRootName(v.Object)
	default:
		return "", false
	}
}

func firstStmtIsParentCall(body []ast.Statement, parent string) bool {
	if len(body) == 0 {
		return false
	}
	es, ok := body[0].(*ast.ExpressionStmt)
	if !ok {
		return false
	}
	call, ok := es.Expr.(*ast.CallExpr)
	if !ok {
		return false
	}
	root, ok := calleeRootName(call.Callee)
	return ok && root == parent
}

func (t *Transpiler) emitIfStmt(s *ast.IfStmt) {
	for i, br := range s.Branches {
		t.emitIndent()
		if i == 0 {
			t.emit("if (%s) {\n", t.expr(br.Cond))
		} else {
			t.emit("else if (%s) {\n", t.expr(br.Cond))
		}
		t.indent++
		t.pushScope(false, t.inClassMethod())
		t.emitBlockBody(br.Body)
		t.popScope()
		t.indent--
		t.emitIndent()
		t.emit("}\n")
	}
	if s.ElseBody != nil {
		t.emitIndent()
		t.emit("else {\n")
		t.indent++
		t.pushScope(false, t.inClassMethod())
		t.emitBlockBody(s.ElseBody)
		t.popScope()
		t.indent--
		t.emitIndent()
		t.emit("}\n")
	}
}

func (t *Transpiler) emitWhileStmt(s *ast.WhileStmt) {
	t.emitIndent()
	t.emit("while (%s) {\n", t.expr(s.Cond))
	t.indent++
	t.loopDepth++
	t.pushScope(false, t.inClassMethod())
	t.emitBlockBody(s.Body)
	t.popScope()
	t.loopDepth--
	t.indent--
	t.emitIndent()
	t.emit("}\n")
}

func (t *Transpiler) emitForStmt(s *ast.ForStmt) {
	t.pushScope(false, t.inClassMethod())
	initTarget := t.declareAndTarget(s.InitName, s.InitIsLocal)
	isGlobal := strings.HasPrefix(initTarget, "globals.")
	initExpr := t.expr(s.InitValue)
	condExpr := t.expr(s.Cond)

	var stepStr string
	switch step := s.Step.(type) {
	case *ast.AssignStmt:
		stepStr = t.stepAssignExpr(step)
	case *ast.ExpressionStmt:
		stepStr = t.expr(step.Expr)
	}

	t.emitIndent()
	if isGlobal {
		t.emit("for (%s = %s; %s; %s) {\n", initTarget, initExpr, condExpr, stepStr)
	} else {
		t.emit("for (var %s = %s; %s; %s) {\n", initTarget, initExpr, condExpr, stepStr)
	}
	t.indent++
	t.loopDepth++
	t.emitBlockBody(s.Body)
	t.loopDepth--
	t.indent--
	t.emitIndent()
	t.emit("}\n")
	t.popScope()
}

// stepAssignExpr renders a for-loop step clause's AssignStmt as a bare
// expression (no trailing semicolon or indentation) for inlining into
// the three-clause for-header.
func (t *Transpiler) stepAssignExpr(a *ast.AssignStmt) string {
	rhs := t.expr(a.Value)
	target, ok := a.Target.(*ast.VarExpr)
	if !ok {
		return fmt.Sprintf("%s %s %s", t.expr(a.Target), a.Op, rhs)
	}
	name := target.Name
	if a.Op == "=" && !t.globals[name] && !t.isDeclaredHere(name) {
		t.declare(name)
	}
	return fmt.Sprintf("%s %s %s", t.targetName(name), a.Op, rhs)
}

// ============ expressions ============

func (t *Transpiler) expr(e ast.Expression) string {
	switch v := e.(type) {
	case *ast.LiteralExpr:
		return t.literal(v)
	case *ast.VarExpr:
		return t.varRef(v)
	case *ast.UnaryExpr:
		op := v.Op
		if op == "not" {
			op = "!"
		}
		return fmt.Sprintf("%s%s", op, t.expr(v.Operand))
	case *ast.BinaryExpr:
		return fmt.Sprintf("%s %s %s", t.expr(v.Left), v.Op, t.expr(v.Right))
	case *ast.LogicalExpr:
		op := "&&"
		if v.Op == "or" {
			op = "||"
		}
		return fmt.Sprintf("%s %s %s", t.expr(v.Left), op, t.expr(v.Right))
	case *ast.CallExpr:
		return t.call(v)
	case *ast.MemberExpr:
		return t.member(v)
	case *ast.IndexExpr:
		return fmt.Sprintf("%s[%s]", t.expr(v.Object), t.expr(v.Index))
	case *ast.GroupExpr:
		return fmt.Sprintf("(%s)", t.expr(v.Inner))
	case *ast.ListLiteralExpr:
		parts := lo.Map(v.Elements, func(el ast.Expression, _ int) string { return t.expr(el) })
		return fmt.Sprintf("[%s]", strings.Join(parts, ", "))
	case *ast.ObjectLiteralExpr:
		if len(v.Entries) == 0 {
			return "{}"
		}
		parts := lo.Map(v.Entries, func(ent ast.ObjectEntry, _ int) string {
			return fmt.Sprintf("%s: %s", ent.Key, t.expr(ent.Value))
		})
		return fmt.Sprintf("{ %s }", strings.Join(parts, ", "))
	case *ast.LambdaExpr:
		t.pushScope(true, t.inClassMethod())
		for _, p := range v.Params {
			t.declare(p.Name)
		}
		body := t.expr(v.Body)
		t.popScope()
		return fmt.Sprintf("(%s) => %s", paramList(v.Params), body)
	case *ast.FunctionExpr:
		return t.functionExpr(v)
	default:
		return fmt.Sprintf("/* unknown expr: %T */", e)
	}
}

// functionExpr renders an anonymous def(...) expression by temporarily
// redirecting emission into its own buffer, since its body is a
// statement list rather than a single expression.
func (t *Transpiler) functionExpr(v *ast.FunctionExpr) string {
	params := paramList(v.Params)
	saved := t.buf
	t.buf = strings.Builder{}
	t.indent++
	t.funcDepth++
	t.pushScope(true, t.inClassMethod())
	for _, p := range v.Params {
		t.declare(p.Name)
	}
	t.emitBlockBody(v.Body)
	t.popScope()
	t.funcDepth--
	t.indent--
	body := t.buf.String()
	t.buf = saved
	return fmt.Sprintf("function(%s) {\n%s%s}", params, body, strings.Repeat("\t", t.indent))
}

func (t *Transpiler) literal(l *ast.LiteralExpr) string {
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
		return "true"
	case token.FALSE:
		return "false"
	case token.NONE:
		return "null"
	default:
		return fmt.Sprintf("%v", l.Value)
	}
}

func (t *Transpiler) varRef(v *ast.VarExpr) string {
	name := v.Name
	if name == t.selfKeyword {
		if !t.inClassMethod() {
			t.errs.Add(posOf(v.Loc), "'%s' used outside class", name)
		}
		return "this"
	}
	if t.globals[name] {
		return "globals." + name
	}
	if !t.isVisible(name) {
		t.errs.Add(posOf(v.Loc), "Undefined variable '%s'", name)
	}
	return name
}

func literalArgType(e ast.Expression) (registry.Type, bool) {
	lit, ok := e.(*ast.LiteralExpr)
	if !ok {
		return "", false
	}
	switch lit.Kind {
	case token.NUMBER:
		return registry.TypeNumber, true
	case token.STRING:
		return registry.TypeString, true
	case token.TRUE, token.FALSE:
		return registry.TypeBoolean, true
	case token.NONE:
		return registry.TypeNull, true
	default:
		return "", false
	}
}

func (t *Transpiler) checkCall(name string, entry registry.FunctionEntry, args []ast.Expression, callLoc token.Loc) {
	if !entry.CheckArity(len(args)) {
		word := "argument"
		if entry.Arity != 1 {
			word = "arguments"
		}
		t.errs.Add(posOf(callLoc), "Function '%s' expects %d %s", name, entry.Arity, word)
		return
	}
	for i, arg := range args {
		if i >= len(entry.ArgTypes) {
			break
		}
		want := entry.ArgTypes[i]
		if want == "" || want == registry.TypeUnknown {
			continue
		}
		got, checkable := literalArgType(arg)
		if !checkable || got == want {
			continue
		}
		t.errs.Add(posOf(arg.Location()), "Function '%s' expected '%s'", name, want)
	}
}

func (t *Transpiler) call(c *ast.CallExpr) string {
	args := lo.Map(c.Args, func(a ast.Expression, _ int) string { return t.expr(a) })
	joined := strings.Join(args, ", ")

	switch callee := c.Callee.(type) {
	case *ast.VarExpr:
		name := callee.Name
		if name == "print" {
			return fmt.Sprintf("console.log(%s)", joined)
		}
		calleeStr := t.varRef(callee)
		if entry, ok := t.reg.LookupFunction(name); ok {
			t.checkCall(name, entry, c.Args, c.Loc)
		}
		return fmt.Sprintf("%s(%s)", calleeStr, joined)
	case *ast.MemberExpr:
		objStr := t.expr(callee.Object)
		if objName, ok := calleeRootName(callee.Object); ok {
			if schema, ok := t.reg.LookupObject(objName); ok {
				prop, known := schema[callee.Name]
				if !known {
					t.errs.Add(posOf(callee.Loc), "Unknown property '%s' on '%s'", callee.Name, objName)
				} else if prop.IsFunction {
					entry := registry.FunctionEntry{Arity: prop.Arity, ArgTypes: prop.ArgTypes}
					t.checkCall(objName+"."+callee.Name, entry, c.Args, c.Loc)
				}
			}
		}
		return fmt.Sprintf("%s.%s(%s)", objStr, callee.Name, joined)
	default:
		return fmt.Sprintf("%s(%s)", t.expr(c.Callee), joined)
	}
}

func (t *Transpiler) member(m *ast.MemberExpr) string {
	objStr := t.expr(m.Object)
	if objName, ok := calleeRootName(m.Object); ok {
		if schema, ok := t.reg.LookupObject(objName); ok {
			if _, known := schema[m.Name]; !known {
				t.errs.Add(posOf(m.Loc), "Unknown property '%s' on '%s'", m.Name, objName)
			}
		}
	}
	return fmt.Sprintf("%s.%s", objStr, m.Name)
}

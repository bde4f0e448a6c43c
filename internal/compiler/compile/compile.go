// Package compile is the host-facing façade: it owns the registration
// table and boilerplate, and runs lex -> parse -> transpile to
// completion for a given source string. Grounded on cmd/gmx/main.go's
// lex/parse/generate pipeline and generator.Generator's role as the
// single entry point a host program calls into, adapted from a
// file-in/file-out CLI flow into a reusable, repeatedly callable
// struct.
package compile

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pyjs-lang/pyjsc/internal/compiler/ast"
	"github.com/pyjs-lang/pyjsc/internal/compiler/errors"
	"github.com/pyjs-lang/pyjsc/internal/compiler/lexer"
	"github.com/pyjs-lang/pyjsc/internal/compiler/parser"
	"github.com/pyjs-lang/pyjsc/internal/compiler/registry"
	"github.com/pyjs-lang/pyjsc/internal/compiler/token"
	"github.com/pyjs-lang/pyjsc/internal/compiler/transpiler"
)

// ErrorRecord is the stable, pattern-matchable diagnostic shape: no
// error codes, the message itself is the contract callers may match a
// prefix against (e.g. "Undefined variable").
type ErrorRecord struct {
	Error string `json:"error"`
	Line  int    `json:"line"`
	Col   int    `json:"col"`
	Len   int    `json:"len"`
}

// ErrorGroups buckets diagnostics by the phase that raised them.
type ErrorGroups struct {
	Lexer      []ErrorRecord `json:"lexer"`
	Parser     []ErrorRecord `json:"parser"`
	Transpiler []ErrorRecord `json:"transpiler"`
}

func (g ErrorGroups) empty() bool {
	return len(g.Lexer) == 0 && len(g.Parser) == 0 && len(g.Transpiler) == 0
}

// Result is the façade's result record: success/output/raw/final,
// tokens and ast for tooling, the error groups, and the original
// source. raw and final are only populated on success; output carries
// the boilerplate alone on failure.
type Result struct {
	Success bool          `json:"success"`
	Output  string        `json:"output"`
	Raw     string        `json:"raw,omitempty"`
	Final   string        `json:"final,omitempty"`
	Tokens  []token.Token `json:"tokens"`
	AST     *ast.Program  `json:"ast"`
	Errors  ErrorGroups   `json:"errors"`
	Source  string        `json:"source"`
}

// Compiler is the façade described by §4.4: it owns registeredFunctions,
// builtinObjects, reservedDeclarations, reservedFunctions, and
// boilerplate (all delegated to a registry.Registry), plus the lexer
// dialect to compile against. It is not safe to share across goroutines
// while a Register*/DefineBoilerplate/ClearCustomRegistrations call is
// in flight; Compile itself takes no locks, reading a snapshot-
// equivalent view of the table by contract.
type Compiler struct {
	reg     *registry.Registry
	dialect token.Dialect

	// Log, when non-nil, receives one structured entry per compile
	// phase plus a final summary entry. Nil disables logging entirely;
	// the façade itself never requires a logger to function.
	Log *logrus.Entry
}

// New returns a façade using the default (Python-flavored) dialect.
func New() *Compiler {
	return &Compiler{reg: registry.New(), dialect: token.DefaultDialect()}
}

// NewWithDialect returns a façade bound to a specific self/this spelling.
func NewWithDialect(d token.Dialect) *Compiler {
	return &Compiler{reg: registry.New(), dialect: d}
}

func (c *Compiler) RegisterFunction(name string, arity int, argTypes ...registry.Type) {
	c.reg.RegisterFunction(name, arity, argTypes...)
}

func (c *Compiler) RegisterBuiltinObject(name string, schema registry.ObjectSchema) {
	c.reg.RegisterBuiltinObject(name, schema)
}

func (c *Compiler) RegisterReservedDeclaration(name string) {
	c.reg.RegisterReservedDeclaration(name)
}

func (c *Compiler) RegisterReservedFunction(dslName, jsName string) {
	c.reg.RegisterReservedFunction(dslName, jsName)
}

func (c *Compiler) DefineBoilerplate(code string) {
	c.reg.DefineBoilerplate(code)
}

func (c *Compiler) ClearCustomRegistrations() {
	c.reg.ClearCustomRegistrations()
}

// Registry exposes the underlying registration table read-only, for
// callers (the cache layer, the host manifest loader) that need to
// fingerprint or inspect it without duplicating its state.
func (c *Compiler) Registry() *registry.Registry { return c.reg }

// Compile runs lex -> parse -> transpile to completion. Nothing is ever
// raised to the caller: every problem found at any stage is appended to
// that stage's diagnostic list and later stages still run, on a best-
// effort basis, against whatever the prior stage produced.
func (c *Compiler) Compile(source string) Result {
	overallStart := time.Now()

	l := lexer.NewWithDialect(source, c.dialect)
	lexStart := time.Now()
	toks := l.AllTokens()
	c.logPhase("lexer", len(l.Errors.Errors), time.Since(lexStart))

	parseStart := time.Now()
	program, parseErrs := parser.Parse(toks)
	c.logPhase("parser", len(parseErrs.Errors), time.Since(parseStart))

	transpileStart := time.Now()
	raw, transpileErrs := transpiler.Transpile(program, c.reg, c.dialect.SelfKeyword)
	c.logPhase("transpiler", len(transpileErrs.Errors), time.Since(transpileStart))

	errGroups := ErrorGroups{
		Lexer:      toRecords(l.Errors),
		Parser:     toRecords(parseErrs),
		Transpiler: toRecords(transpileErrs),
	}

	result := Result{
		Success: errGroups.empty(),
		Tokens:  toks,
		AST:     program,
		Errors:  errGroups,
		Source:  source,
	}

	boilerplate := c.reg.Boilerplate()
	if result.Success {
		result.Raw = raw
		result.Final = boilerplate + "\n" + raw
		result.Output = result.Final
	} else {
		result.Output = boilerplate
	}

	c.logSummary(result.Success, time.Since(overallStart))
	return result
}

func toRecords(list *errors.ErrorList) []ErrorRecord {
	if list == nil || len(list.Errors) == 0 {
		return nil
	}
	records := make([]ErrorRecord, len(list.Errors))
	for i, e := range list.Errors {
		records[i] = ErrorRecord{Error: e.Message, Line: e.Pos.Line, Col: e.Pos.Col, Len: e.Pos.Len}
	}
	return records
}

func (c *Compiler) logPhase(phase string, diagCount int, elapsed time.Duration) {
	if c.Log == nil {
		return
	}
	c.Log.WithFields(logrus.Fields{
		"phase":       phase,
		"diagnostics": diagCount,
		"elapsed_ms":  elapsed.Milliseconds(),
	}).Debug("compiler phase complete")
}

func (c *Compiler) logSummary(success bool, elapsed time.Duration) {
	if c.Log == nil {
		return
	}
	c.Log.WithFields(logrus.Fields{
		"success":    success,
		"elapsed_ms": elapsed.Milliseconds(),
	}).Info("compile finished")
}

package transpiler_test

import (
	"strings"
	"testing"

	"github.com/pyjs-lang/pyjsc/internal/compiler/ast"
	"github.com/pyjs-lang/pyjsc/internal/compiler/errors"
	"github.com/pyjs-lang/pyjsc/internal/compiler/lexer"
	"github.com/pyjs-lang/pyjsc/internal/compiler/parser"
	"github.com/pyjs-lang/pyjsc/internal/compiler/registry"
	"github.com/pyjs-lang/pyjsc/internal/compiler/transpiler"
)

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	toks := lexer.New(src).AllTokens()
	prog, errs := parser.Parse(toks)
	if errs.HasErrors() {
		t.Fatalf("unexpected parse errors for %q: %s", src, errs.String())
	}
	return prog
}

func transpileSrc(t *testing.T, reg *registry.Registry, src string) (string, *errors.ErrorList) {
	t.Helper()
	prog := mustParse(t, src)
	return transpiler.Transpile(prog, reg, "self")
}

// S1 — local assignment and print.
func TestLocalAssignmentAndPrint(t *testing.T) {
	reg := registry.New()
	reg.RegisterFunction("print", registry.Variadic)

	out, errs := transpileSrc(t, reg, "x = 10\nprint(x)\n")
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %s", errs.String())
	}
	if !strings.Contains(out, "var x = 10;") {
		t.Errorf("expected local declaration of x, got: %s", out)
	}
	if !strings.Contains(out, "console.log(x);") {
		t.Errorf("expected console.log call, got: %s", out)
	}
}

// S2 — variadic and arity check.
func TestArityMismatchFails(t *testing.T) {
	reg := registry.New()
	reg.RegisterFunction("wait", 1)

	_, errs := transpileSrc(t, reg, "wait()\n")
	if !errs.HasErrors() {
		t.Fatal("expected an arity error")
	}
	if !strings.Contains(errs.String(), "expects 1 argument") {
		t.Errorf("expected 'expects 1 argument' in errors, got: %s", errs.String())
	}
}

// S3 — builtin object property check.
func TestBuiltinObjectPropertyCheck(t *testing.T) {
	schema := registry.ObjectSchema{
		"x":          {IsFunction: false},
		"setCostume": {IsFunction: true, Arity: 1, ArgTypes: []registry.Type{registry.TypeString}},
	}

	t.Run("valid usage succeeds", func(t *testing.T) {
		reg := registry.New()
		reg.RegisterBuiltinObject("sprite", schema)
		_, errs := transpileSrc(t, reg, "sprite.x = 100\nsprite.setCostume(\"idle\")\n")
		if errs.HasErrors() {
			t.Fatalf("unexpected errors: %s", errs.String())
		}
	})

	t.Run("wrong argument type fails", func(t *testing.T) {
		reg := registry.New()
		reg.RegisterBuiltinObject("sprite", schema)
		_, errs := transpileSrc(t, reg, "sprite.setCostume(42)\n")
		if !errs.HasErrors() {
			t.Fatal("expected a type error")
		}
		if !strings.Contains(errs.String(), "expected 'string'") {
			t.Errorf("expected a string-type error, got: %s", errs.String())
		}
	})

	t.Run("unknown property fails", func(t *testing.T) {
		reg := registry.New()
		reg.RegisterBuiltinObject("sprite", schema)
		_, errs := transpileSrc(t, reg, "sprite.bogus = 1\n")
		if !errs.HasErrors() {
			t.Fatal("expected an unknown-property error")
		}
		if !strings.Contains(errs.String(), "Unknown property") {
			t.Errorf("expected unknown-property error, got: %s", errs.String())
		}
	})
}

// S4 — reserved function transformation.
func TestReservedFunctionTransformation(t *testing.T) {
	reg := registry.New()
	reg.RegisterReservedFunction("_forever", "forever")

	out, errs := transpileSrc(t, reg, "def _forever():\n    pass\n")
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %s", errs.String())
	}
	if !strings.Contains(out, "forever((") || !strings.Contains(out, ") => {") {
		t.Errorf("expected reserved-function rewrite, got: %s", out)
	}
	if strings.Contains(out, "_forever") {
		t.Errorf("did not expect the reserved name to leak into output: %s", out)
	}
}

// S5 — for loop with global.
func TestForLoopWithGlobal(t *testing.T) {
	reg := registry.New()
	reg.RegisterFunction("print", registry.Variadic)

	out, errs := transpileSrc(t, reg, "for global i = 0, i < 3, i += 1:\n    print(i)\n")
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %s", errs.String())
	}
	if !strings.Contains(out, "globals.i = 0") {
		t.Errorf("expected globals.i initializer, got: %s", out)
	}
	if !strings.Contains(out, "globals.i < 3") {
		t.Errorf("expected globals.i in condition, got: %s", out)
	}
	if !strings.Contains(out, "globals.i += 1") {
		t.Errorf("expected globals.i in step, got: %s", out)
	}
	if !strings.Contains(out, "console.log(globals.i)") {
		t.Errorf("expected globals.i in body reference, got: %s", out)
	}
}

// S6 — class with inheritance.
func TestClassWithInheritance(t *testing.T) {
	reg := registry.New()
	reg.RegisterFunction("print", registry.Variadic)

	src := "class Animal:\n" +
		"    def init(name):\n" +
		"        self.name = name\n" +
		"    def speak():\n" +
		"        print(self.name)\n" +
		"class Dog implements Animal:\n" +
		"    def init(name):\n" +
		"        pass\n"

	out, errs := transpileSrc(t, reg, src)
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %s", errs.String())
	}
	if !strings.Contains(out, "function Animal(name) {") {
		t.Errorf("expected Animal constructor, got: %s", out)
	}
	if !strings.Contains(out, "Animal.prototype.speak = function() {") {
		t.Errorf("expected prototype method, got: %s", out)
	}
	if !strings.Contains(out, "this.name = name;") {
		t.Errorf("expected self rewritten to this, got: %s", out)
	}
	if !strings.Contains(out, "Animal.call(this, name);") {
		t.Errorf("expected inserted parent-constructor call, got: %s", out)
	}
}

func TestUndefinedVariableIsReported(t *testing.T) {
	reg := registry.New()
	_, errs := transpileSrc(t, reg, "print(y)\n")
	if !errs.HasErrors() {
		t.Fatal("expected an undefined-variable error")
	}
	if !strings.Contains(errs.String(), "Undefined variable 'y'") {
		t.Errorf("unexpected error text: %s", errs.String())
	}
}

func TestSelfOutsideClassIsReported(t *testing.T) {
	reg := registry.New()
	_, errs := transpileSrc(t, reg, "x = self\n")
	if !errs.HasErrors() {
		t.Fatal("expected a self-outside-class error")
	}
}

func TestBreakOutsideLoopIsReported(t *testing.T) {
	reg := registry.New()
	_, errs := transpileSrc(t, reg, "break\n")
	if !errs.HasErrors() {
		t.Fatal("expected a break-outside-loop error")
	}
}

func TestReturnOutsideFunctionIsReported(t *testing.T) {
	reg := registry.New()
	_, errs := transpileSrc(t, reg, "return 1\n")
	if !errs.HasErrors() {
		t.Fatal("expected a return-outside-function error")
	}
}

func TestDocstringDiscardedAtTopOfBlock(t *testing.T) {
	reg := registry.New()
	out, errs := transpileSrc(t, reg, "def f():\n    \"\"\"docs\"\"\"\n    x = 1\n")
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %s", errs.String())
	}
	if strings.Contains(out, "docs") {
		t.Errorf("expected docstring to be dropped from output, got: %s", out)
	}
	if !strings.Contains(out, "var x = 1;") {
		t.Errorf("expected the rest of the body to still emit, got: %s", out)
	}
}

func TestPowerOperatorEmitsNative(t *testing.T) {
	reg := registry.New()
	out, errs := transpileSrc(t, reg, "x = 2 ** 3\n")
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %s", errs.String())
	}
	if !strings.Contains(out, "2 ** 3") {
		t.Errorf("expected native ** operator, got: %s", out)
	}
}

func TestLogicalOperatorsMapToJS(t *testing.T) {
	reg := registry.New()
	out, errs := transpileSrc(t, reg, "x = True and False or not True\n")
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %s", errs.String())
	}
	if !strings.Contains(out, "&&") || !strings.Contains(out, "||") || !strings.Contains(out, "!true") {
		t.Errorf("expected and/or/not mapped to &&/||/!, got: %s", out)
	}
}

func TestReassignmentOfAlreadyDeclaredNameOmitsVar(t *testing.T) {
	reg := registry.New()
	out, errs := transpileSrc(t, reg, "x = 1\nx = 2\n")
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %s", errs.String())
	}
	if strings.Count(out, "var x") != 1 {
		t.Errorf("expected exactly one var declaration, got: %s", out)
	}
}

// S8 — class without implements.
func TestClassWithoutImplementsHasEmptyConstructor(t *testing.T) {
	reg := registry.New()
	out, errs := transpileSrc(t, reg, "class C:\n    pass\n")
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %s", errs.String())
	}
	if !strings.Contains(out, "function C() {\n}") {
		t.Errorf("expected a zero-argument constructor, got: %s", out)
	}
}

// S9 — lambda vs def(...) expression.
func TestLambdaAndFunctionExprAreOrdinaryLocals(t *testing.T) {
	reg := registry.New()
	out, errs := transpileSrc(t, reg, "f = lambda x: x + 1\ng = def(x):\n    return x + 1\n")
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %s", errs.String())
	}
	if !strings.Contains(out, "var f = (x) => x + 1;") {
		t.Errorf("expected lambda assigned to local f, got: %s", out)
	}
	if !strings.Contains(out, "var g = function(x) {") {
		t.Errorf("expected function expression assigned to local g, got: %s", out)
	}
}

// S10 — nested scopes and shadowing.
func TestVariableDeclaredInIfDoesNotLeakOutward(t *testing.T) {
	reg := registry.New()
	_, errs := transpileSrc(t, reg, "if 1:\n    y = 1\nprint(y)\n")
	if !errs.HasErrors() {
		t.Fatal("expected an undefined-variable error for y read outside its if-frame")
	}
	if !strings.Contains(errs.String(), "Undefined variable 'y'") {
		t.Errorf("unexpected error text: %s", errs.String())
	}
}

func TestNestedBlockRedeclaresInItsOwnFrame(t *testing.T) {
	reg := registry.New()
	out, errs := transpileSrc(t, reg, "x = 1\nif x:\n    x = 2\n")
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %s", errs.String())
	}
	if strings.Count(out, "var x") != 2 {
		t.Errorf("expected the if-body frame to redeclare x independently, got: %s", out)
	}
}

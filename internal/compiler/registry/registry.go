// Package registry is the host-populated registration/validation side
// table the transpiler consults for identifier resolution, arity
// checking, and argument-type checking. It has no teacher analogue —
// the teacher hard-codes its host surface as model/service sections
// instead of a runtime-registrable table — so its shape is taken
// directly from the registration contract rather than adapted from an
// existing file.
package registry

import (
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"
)

// Type is one of the argument type tags a host can declare for a
// registered function's parameters.
type Type string

const (
	TypeString  Type = "string"
	TypeNumber  Type = "number"
	TypeBoolean Type = "boolean"
	TypeNull    Type = "null"
	TypeUnknown Type = "unknown"
)

// Variadic is the sentinel arity meaning "accepts any number of
// arguments" — arity checks are skipped entirely for such a function.
const Variadic = -1

// FunctionEntry describes a registered top-level callable.
type FunctionEntry struct {
	Arity    int
	ArgTypes []Type
}

// IsVariadic reports whether this entry accepts any number of arguments.
func (f FunctionEntry) IsVariadic() bool { return f.Arity == Variadic }

// PropertyEntry describes one property of a registered builtin object.
type PropertyEntry struct {
	IsFunction bool
	Arity      int
	ArgTypes   []Type
}

// ObjectSchema maps a builtin object's property names to their shape.
type ObjectSchema map[string]PropertyEntry

// Registry is the façade's five-part registration state: registered
// functions, builtin objects, reserved declarations, reserved function
// renames, and the boilerplate source prepended to every compile. All
// registration methods overwrite prior entries sharing the same key,
// and ClearCustomRegistrations resets every one of the five to empty —
// leaving a Registry indistinguishable from a freshly constructed one.
type Registry struct {
	functions   map[string]FunctionEntry
	objects     map[string]ObjectSchema
	reservedDecl map[string]struct{}
	reservedFn  map[string]string // dslName -> jsName
	boilerplate string
}

// New returns an empty registration table.
func New() *Registry {
	return &Registry{
		functions:    map[string]FunctionEntry{},
		objects:      map[string]ObjectSchema{},
		reservedDecl: map[string]struct{}{},
		reservedFn:   map[string]string{},
	}
}

// RegisterFunction adds or overwrites a function entry. arity must be a
// non-negative integer or Variadic; argTypes is optional.
func (r *Registry) RegisterFunction(name string, arity int, argTypes ...Type) {
	r.functions[name] = FunctionEntry{Arity: arity, ArgTypes: argTypes}
}

// RegisterBuiltinObject adds or overwrites a builtin object's schema.
func (r *Registry) RegisterBuiltinObject(name string, schema ObjectSchema) {
	r.objects[name] = schema
}

// RegisterReservedDeclaration marks name as a reserved identifier: any
// property access on it is allowed, bypassing builtin-object schema
// checks.
func (r *Registry) RegisterReservedDeclaration(name string) {
	r.reservedDecl[name] = struct{}{}
}

// RegisterReservedFunction maps a DSL-level def name to the runtime
// function it should be rewritten to call at emission time.
func (r *Registry) RegisterReservedFunction(dslName, jsName string) {
	r.reservedFn[dslName] = jsName
}

// DefineBoilerplate replaces the source prepended to every successful
// compile's final output.
func (r *Registry) DefineBoilerplate(code string) {
	r.boilerplate = code
}

// Boilerplate returns the currently registered boilerplate source.
func (r *Registry) Boilerplate() string { return r.boilerplate }

// ClearCustomRegistrations resets all five registration categories to
// empty, leaving the Registry indistinguishable from New().
func (r *Registry) ClearCustomRegistrations() {
	r.functions = map[string]FunctionEntry{}
	r.objects = map[string]ObjectSchema{}
	r.reservedDecl = map[string]struct{}{}
	r.reservedFn = map[string]string{}
	r.boilerplate = ""
}

// LookupFunction returns a registered function's entry, if any.
func (r *Registry) LookupFunction(name string) (FunctionEntry, bool) {
	e, ok := r.functions[name]
	return e, ok
}

// LookupObject returns a registered builtin object's schema, if any.
func (r *Registry) LookupObject(name string) (ObjectSchema, bool) {
	s, ok := r.objects[name]
	return s, ok
}

// IsReservedDeclaration reports whether name was registered as a
// reserved declaration.
func (r *Registry) IsReservedDeclaration(name string) bool {
	_, ok := r.reservedDecl[name]
	return ok
}

// ReservedFunctionTarget returns the JS-side name a DSL def declaration
// should be rewritten to call, if name is a reserved function.
func (r *Registry) ReservedFunctionTarget(name string) (string, bool) {
	jsName, ok := r.reservedFn[name]
	return jsName, ok
}

// IsReservedFunction reports whether name is a reserved function
// declaration name.
func (r *Registry) IsReservedFunction(name string) bool {
	_, ok := r.reservedFn[name]
	return ok
}

// FunctionNames returns every registered function's name, in no
// particular order.
func (r *Registry) FunctionNames() []string {
	return lo.Keys(r.functions)
}

// CheckArity reports whether argCount is acceptable for a function
// entry; variadic entries always accept any count.
func (e FunctionEntry) CheckArity(argCount int) bool {
	return e.IsVariadic() || e.Arity == argCount
}

// ObjectNames returns every registered builtin object's name.
func (r *Registry) ObjectNames() []string {
	return lo.Keys(r.objects)
}

// Fingerprint returns a deterministic plain-text summary of the entire
// registration table, one sorted line per entry. Two registries built by different
// sequences of calls but reaching the same end state produce the same
// fingerprint — this is what the compile cache hashes alongside source
// text to form a cache key, so that registering a new function (or
// changing an existing one) invalidates every previously cached entry.
func (r *Registry) Fingerprint() string {
	var b strings.Builder

	names := lo.Keys(r.functions)
	sort.Strings(names)
	for _, n := range names {
		e := r.functions[n]
		fmt.Fprintf(&b, "fn:%s:%d:%v\n", n, e.Arity, e.ArgTypes)
	}

	objNames := lo.Keys(r.objects)
	sort.Strings(objNames)
	for _, n := range objNames {
		props := lo.Keys(r.objects[n])
		sort.Strings(props)
		for _, p := range props {
			pe := r.objects[n][p]
			fmt.Fprintf(&b, "obj:%s.%s:%v:%d:%v\n", n, p, pe.IsFunction, pe.Arity, pe.ArgTypes)
		}
	}

	decls := lo.Keys(r.reservedDecl)
	sort.Strings(decls)
	for _, n := range decls {
		fmt.Fprintf(&b, "decl:%s\n", n)
	}

	fns := lo.Keys(r.reservedFn)
	sort.Strings(fns)
	for _, n := range fns {
		fmt.Fprintf(&b, "reservedfn:%s:%s\n", n, r.reservedFn[n])
	}

	fmt.Fprintf(&b, "boilerplate:%s\n", r.boilerplate)
	return b.String()
}

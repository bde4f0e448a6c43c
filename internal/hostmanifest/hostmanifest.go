// Package hostmanifest loads a host's registration table from a YAML
// file, supplementing the programmatic-only registration surface of
// compile.Compiler with a declarative one — the nearest equivalent,
// for this DSL, of the teacher's model/service manifest sections
// (GMX has no comparable construct for a plain function/object
// registration table, so this is new rather than adapted, per
// SPEC_FULL.md §[EXPANSION]-9).
package hostmanifest

import (
	"fmt"
	"os"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"

	"github.com/pyjs-lang/pyjsc/internal/compiler/registry"
)

// Registrar is the subset of compile.Compiler's registration API a
// manifest can drive. compile.Compiler satisfies it directly.
type Registrar interface {
	RegisterFunction(name string, arity int, argTypes ...registry.Type)
	RegisterBuiltinObject(name string, schema registry.ObjectSchema)
	RegisterReservedDeclaration(name string)
	RegisterReservedFunction(dslName, jsName string)
	DefineBoilerplate(code string)
}

// Manifest is the decoded shape of a host manifest YAML document.
type Manifest struct {
	Boilerplate string                `yaml:"boilerplate"`
	Functions   []FunctionEntry       `yaml:"functions"`
	Objects     map[string]ObjectSpec `yaml:"objects"`
	Reserved    ReservedSpec          `yaml:"reserved"`
}

// FunctionEntry is one entry of the manifest's functions list. Arity
// and ArgTypes are decoded loosely (YAML numbers decode to float64,
// scalars may arrive untyped) and coerced with spf13/cast.
type FunctionEntry struct {
	Name     string `yaml:"name"`
	Arity    any    `yaml:"arity"`
	ArgTypes any    `yaml:"argTypes"`
}

// PropertySpec is one property of an ObjectSpec.
type PropertySpec struct {
	IsFunction bool `yaml:"isFunction"`
	Arity      any  `yaml:"arity"`
	ArgTypes   any  `yaml:"argTypes"`
}

// ObjectSpec is one builtin object's schema in the manifest.
type ObjectSpec struct {
	Properties map[string]PropertySpec `yaml:"properties"`
}

// ReservedSpec lists reserved declarations and reserved function
// renames.
type ReservedSpec struct {
	Declarations []string          `yaml:"declarations"`
	Functions    map[string]string `yaml:"functions"`
}

// Load reads and decodes a manifest file without applying it.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading host manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing host manifest %s: %w", path, err)
	}
	return &m, nil
}

// Apply registers every entry of m against r. A variadic function or
// method must say so explicitly with `arity: variadic`; an absent
// arity field decodes to 0, same as an omitted Go struct field.
func Apply(m *Manifest, r Registrar) error {
	if m.Boilerplate != "" {
		r.DefineBoilerplate(m.Boilerplate)
	}

	for _, f := range m.Functions {
		arity, err := toArity(f.Arity)
		if err != nil {
			return fmt.Errorf("function %q: %w", f.Name, err)
		}
		r.RegisterFunction(f.Name, arity, toTypes(f.ArgTypes)...)
	}

	for name, obj := range m.Objects {
		schema := registry.ObjectSchema{}
		for propName, prop := range obj.Properties {
			arity, err := toArity(prop.Arity)
			if err != nil {
				return fmt.Errorf("object %q property %q: %w", name, propName, err)
			}
			schema[propName] = registry.PropertyEntry{
				IsFunction: prop.IsFunction,
				Arity:      arity,
				ArgTypes:   toTypes(prop.ArgTypes),
			}
		}
		r.RegisterBuiltinObject(name, schema)
	}

	for _, decl := range m.Reserved.Declarations {
		r.RegisterReservedDeclaration(decl)
	}
	for dslName, jsName := range m.Reserved.Functions {
		r.RegisterReservedFunction(dslName, jsName)
	}

	return nil
}

// LoadAndApply is the common one-shot entry point: load path, then
// apply it to r.
func LoadAndApply(path string, r Registrar) error {
	m, err := Load(path)
	if err != nil {
		return err
	}
	return Apply(m, r)
}

// toArity decodes a manifest arity field. Absent (nil) means 0, the
// same default a Go struct literal gets for an omitted int field — a
// manifest author wanting variadic must say so explicitly with the
// string "variadic".
func toArity(v any) (int, error) {
	if v == nil {
		return 0, nil
	}
	if s, ok := v.(string); ok && s == "variadic" {
		return registry.Variadic, nil
	}
	return cast.ToIntE(v)
}

func toTypes(v any) []registry.Type {
	if v == nil {
		return nil
	}
	strs, err := cast.ToStringSliceE(v)
	if err != nil {
		return nil
	}
	types := make([]registry.Type, len(strs))
	for i, s := range strs {
		types[i] = registry.Type(s)
	}
	return types
}

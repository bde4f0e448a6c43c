package hostmanifest_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pyjs-lang/pyjsc/internal/compiler/registry"
	"github.com/pyjs-lang/pyjsc/internal/hostmanifest"
)

const sampleManifest = `
boilerplate: "// host boilerplate"
functions:
  - name: wait
    arity: 1
    argTypes: [number]
  - name: print
    arity: variadic
objects:
  sprite:
    properties:
      x:
        isFunction: false
      setCostume:
        isFunction: true
        arity: 1
        argTypes: [string]
reserved:
  declarations:
    - Object
  functions:
    _forever: forever
`

// S11 — manifest-driven registration round-trip.
func TestApplyMatchesDirectRegistration(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "host.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleManifest), 0o644))

	viaManifest := registry.New()
	require.NoError(t, hostmanifest.LoadAndApply(path, viaManifest))

	viaDirect := registry.New()
	viaDirect.DefineBoilerplate("// host boilerplate")
	viaDirect.RegisterFunction("wait", 1, registry.TypeNumber)
	viaDirect.RegisterFunction("print", registry.Variadic)
	viaDirect.RegisterBuiltinObject("sprite", registry.ObjectSchema{
		"x":          {IsFunction: false},
		"setCostume": {IsFunction: true, Arity: 1, ArgTypes: []registry.Type{registry.TypeString}},
	})
	viaDirect.RegisterReservedDeclaration("Object")
	viaDirect.RegisterReservedFunction("_forever", "forever")

	require.Equal(t, viaDirect.Fingerprint(), viaManifest.Fingerprint())
}

func TestLoadMissingFileErrors(t *testing.T) {
	_, err := hostmanifest.Load("/nonexistent/host.yaml")
	require.Error(t, err)
}

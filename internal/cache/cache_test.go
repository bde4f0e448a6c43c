package cache_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pyjs-lang/pyjsc/internal/cache"
	"github.com/pyjs-lang/pyjsc/internal/compiler/compile"
	"github.com/pyjs-lang/pyjsc/internal/compiler/registry"
)

// S12 — compile cache hit/miss.
func TestCacheHitOnRepeatedCompile(t *testing.T) {
	inner := compile.New()
	inner.RegisterFunction("print", registry.Variadic)

	c, err := cache.Open(":memory:", inner)
	require.NoError(t, err)

	first := c.Compile("x = 1\nprint(x)\n")
	require.True(t, first.Success)
	require.Equal(t, 0, c.Hits)
	require.Equal(t, 1, c.Misses)

	second := c.Compile("x = 1\nprint(x)\n")
	require.True(t, second.Success)
	require.Equal(t, 1, c.Hits)
	require.Equal(t, 1, c.Misses)
	require.Equal(t, first.Final, second.Final)
}

func TestCacheMissesOnRegistrationChange(t *testing.T) {
	inner := compile.New()
	inner.RegisterFunction("print", registry.Variadic)

	c, err := cache.Open(":memory:", inner)
	require.NoError(t, err)

	c.Compile("print(1)\n")
	require.Equal(t, 1, c.Misses)

	inner.RegisterFunction("wait", 1)
	c.Compile("print(1)\n")
	require.Equal(t, 2, c.Misses)
	require.Equal(t, 0, c.Hits)
}

package env

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBindAndLookup(t *testing.T) {
	e := New()
	e.Bind("x", "1")
	v, ok := e.Lookup("x")
	assert.True(t, ok)
	assert.Equal(t, "1", v)
}

func TestScopeShadowing(t *testing.T) {
	e := New()
	e.Bind("x", "outer")
	e.PushScope()
	e.Bind("x", "inner")
	v, _ := e.Lookup("x")
	assert.Equal(t, "inner", v)
	e.PopScope()
	v, _ = e.Lookup("x")
	assert.Equal(t, "outer", v)
}

func TestPopScopeOfRootPanics(t *testing.T) {
	e := New()
	assert.Panics(t, func() { e.PopScope() })
}

func TestInterpolateLeftToRightSinglePass(t *testing.T) {
	e := New()
	e.Bind("x", "$y")
	e.Bind("y", "should-not-appear")

	out := e.Interpolate("value is $x", nil)
	assert.Equal(t, "value is $y", out)
}

func TestInterpolateUnboundCallsHandlerAndYieldsEmpty(t *testing.T) {
	e := New()
	var got string
	out := e.Interpolate("hi $missing!", func(name string) { got = name })
	assert.Equal(t, "hi !", out)
	assert.Equal(t, "missing", got)
}

func TestInterpolateLoneDollarPassesThrough(t *testing.T) {
	e := New()
	out := e.Interpolate("cost is $!", nil)
	assert.Equal(t, "cost is $!", out)
}

func TestInterpolateMultipleVariables(t *testing.T) {
	e := New()
	e.Bind("a", "1")
	e.Bind("b", "2")
	out := e.Interpolate("$a-$b", nil)
	assert.Equal(t, "1-2", out)
}

// Package env implements the lexically-scoped variable environment
// chore programs evaluate against (SPEC_FULL.md §4.D): a stack of
// scopes with left-to-right, single-pass $name interpolation.
package env

import (
	"strings"

	"github.com/chorelang/chore/internal/ast"
)

// Environment is a stack of variable scopes. The zero value is not
// usable; construct with New.
type Environment struct {
	scopes []map[string]string
}

// New returns an Environment with a single, empty root scope.
func New() *Environment {
	return &Environment{scopes: []map[string]string{{}}}
}

// PushScope opens a new, empty scope on top of the stack.
func (e *Environment) PushScope() {
	e.scopes = append(e.scopes, map[string]string{})
}

// PopScope discards the top scope. It panics if called with only the
// root scope remaining, since that indicates a bookkeeping bug in the
// evaluator rather than a recoverable runtime condition.
func (e *Environment) PopScope() {
	if len(e.scopes) <= 1 {
		panic("env: PopScope called with no scope to pop")
	}
	e.scopes = e.scopes[:len(e.scopes)-1]
}

// Bind sets name to value in the current (topmost) scope, shadowing any
// binding of the same name in an enclosing scope.
func (e *Environment) Bind(name, value string) {
	e.scopes[len(e.scopes)-1][name] = value
}

// Lookup searches scopes from innermost to outermost and reports
// whether name is bound anywhere.
func (e *Environment) Lookup(name string) (string, bool) {
	for i := len(e.scopes) - 1; i >= 0; i-- {
		if v, ok := e.scopes[i][name]; ok {
			return v, true
		}
	}
	return "", false
}

// UnboundHandler is invoked once per unbound variable reference
// encountered during interpolation, letting the caller log a warning
// without Environment itself depending on a logging package.
type UnboundHandler func(name string)

// Eval resolves a single expression: literal text is interpolated (see
// Interpolate), and a variable reference is looked up directly, its
// value not being rescanned for $name references.
func (e *Environment) Eval(expr ast.Expression, onUnbound UnboundHandler) string {
	if !expr.IsVariable {
		return e.Interpolate(expr.Text, onUnbound)
	}
	v, ok := e.Lookup(expr.Text)
	if !ok {
		if onUnbound != nil {
			onUnbound(expr.Text)
		}
		return ""
	}
	return v
}

// Interpolate substitutes every $name reference in s with its bound
// value, scanning left to right in a single pass: the substituted text
// itself is never rescanned for further $name references. An unbound
// name resolves to the empty string and, if onUnbound is non-nil,
// reports the name once.
func (e *Environment) Interpolate(s string, onUnbound UnboundHandler) string {
	if !strings.ContainsRune(s, '$') {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); {
		c := s[i]
		if c != '$' {
			b.WriteByte(c)
			i++
			continue
		}

		j := i + 1
		for j < len(s) && isNameByte(s[j]) {
			j++
		}
		if j == i+1 {
			// lone '$' followed by a non-identifier character (or end of
			// string): pass it through literally.
			b.WriteByte(c)
			i++
			continue
		}

		name := s[i+1 : j]
		v, ok := e.Lookup(name)
		if !ok && onUnbound != nil {
			onUnbound(name)
		}
		b.WriteString(v)
		i = j
	}

	return b.String()
}

func isNameByte(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}

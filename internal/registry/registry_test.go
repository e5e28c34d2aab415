package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chorelang/chore/internal/ast"
)

func buildProgram() *ast.Program {
	inner := &ast.Command{Name: "migrate", Body: &ast.Body{}}
	deploy := &ast.Command{
		Name: "deploy",
		Body: &ast.Body{Statements: []ast.Statement{
			&ast.Nested{Command: inner},
		}},
	}
	build := &ast.Command{Name: "build", Body: &ast.Body{}}
	return &ast.Program{Commands: []*ast.Command{build, deploy}}
}

func TestResolveTopLevel(t *testing.T) {
	tree := Build(buildProgram())
	res, ok := tree.Resolve([]string{"build"})
	require.True(t, ok)
	assert.Equal(t, "build", res.Command.Name)
}

func TestResolveNestedPath(t *testing.T) {
	tree := Build(buildProgram())
	res, ok := tree.Resolve([]string{"deploy", "migrate"})
	require.True(t, ok)
	assert.Equal(t, "migrate", res.Command.Name)
}

func TestResolveUnknownRootSuggestsClosest(t *testing.T) {
	tree := Build(buildProgram())
	res, ok := tree.Resolve([]string{"buld"})
	assert.False(t, ok)
	assert.Equal(t, "build", res.Suggestion)
}

func TestResolveUnknownNestedReturnsPrefix(t *testing.T) {
	tree := Build(buildProgram())
	res, ok := tree.Resolve([]string{"deploy", "nope"})
	assert.False(t, ok)
	assert.Equal(t, []string{"deploy"}, res.Prefix)
}

func TestResolveEmptyPath(t *testing.T) {
	tree := Build(buildProgram())
	_, ok := tree.Resolve(nil)
	assert.False(t, ok)
}

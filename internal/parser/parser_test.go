package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chorelang/chore/internal/cst"
)

func TestParseSimpleCommand(t *testing.T) {
	file, err := Parse(`
/// builds the project
build {
	let target = "release";
	exec(go build ./...);
}
`)
	require.NoError(t, err)
	require.Len(t, file.Commands, 1)

	cmd := file.Commands[0]
	assert.Equal(t, "build", cmd.Name)
	assert.Equal(t, "builds the project", cmd.Doc)
	require.Len(t, cmd.Body, 2)

	let, ok := cmd.Body[0].(*cst.Let)
	require.True(t, ok)
	assert.Equal(t, "target", let.Name)
	assert.Equal(t, "release", let.Value.Text)

	exec, ok := cmd.Body[1].(*cst.Exec)
	require.True(t, ok)
	assert.Equal(t, "go build ./...", exec.Text)
}

func TestParseExecWithParens(t *testing.T) {
	file, err := Parse(`run { exec(echo "(hi)" && ls); }`)
	require.NoError(t, err)
	exec := file.Commands[0].Body[0].(*cst.Exec)
	assert.Equal(t, `echo "(hi)" && ls`, exec.Text)
}

func TestParseParamsAndDepends(t *testing.T) {
	file, err := Parse(`deploy(env) { depends(build, test); }`)
	require.NoError(t, err)
	cmd := file.Commands[0]
	assert.Equal(t, []string{"env"}, cmd.Params)

	dep := cmd.Body[0].(*cst.Depends)
	assert.Equal(t, []string{"build", "test"}, dep.Names)
}

func TestParseIfElseAndCondition(t *testing.T) {
	file, err := Parse(`
check {
	if $env == "prod" {
		exec(echo prod);
	} else {
		exec(echo dev);
	}
}
`)
	require.NoError(t, err)
	ifStmt := file.Commands[0].Body[0].(*cst.If)
	assert.True(t, ifStmt.Cond.Left.IsVariable)
	assert.Equal(t, "env", ifStmt.Cond.Left.Text)
	assert.Equal(t, "==", ifStmt.Cond.Op)
	assert.Equal(t, "prod", ifStmt.Cond.Right.Text)
	assert.NotNil(t, ifStmt.Else)
}

func TestParseForLoop(t *testing.T) {
	file, err := Parse(`
each {
	for item in ["a", "b"] {
		exec(echo $item);
	}
}
`)
	require.NoError(t, err)
	forStmt := file.Commands[0].Body[0].(*cst.For)
	assert.Equal(t, "item", forStmt.Var)
	require.Len(t, forStmt.Items, 2)
	assert.Equal(t, "a", forStmt.Items[0].Text)
}

func TestParseNestedCommand(t *testing.T) {
	file, err := Parse(`
outer {
	inner {
		exec(echo nested);
	}
}
`)
	require.NoError(t, err)
	nested := file.Commands[0].Body[0].(*cst.Nested)
	assert.Equal(t, "inner", nested.Command.Name)
}

func TestParseErrorOnUnexpectedToken(t *testing.T) {
	_, err := Parse(`build { = }`)
	require.Error(t, err)
}

func TestParseErrorUnterminatedExec(t *testing.T) {
	_, err := Parse(`build { exec(echo hi`)
	require.Error(t, err)
}

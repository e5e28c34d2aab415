package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chorelang/chore/internal/chorerr"
	"github.com/chorelang/chore/internal/cst"
)

func TestBuildLowersStatements(t *testing.T) {
	file := &cst.File{Commands: []*cst.Command{
		{
			Name: "build",
			Body: []cst.Stmt{
				&cst.Let{Name: "x", Value: cst.Expr{Text: "1"}},
				&cst.Exec{Text: "echo hi"},
				&cst.Depends{Names: []string{"a", "b"}},
			},
		},
	}}

	prog, err := Build(file)
	require.NoError(t, err)
	require.Len(t, prog.Commands, 1)
	require.Len(t, prog.Commands[0].Body.Statements, 3)

	_, ok := prog.Commands[0].Body.Statements[0].(*Let)
	assert.True(t, ok)
	_, ok = prog.Commands[0].Body.Statements[1].(*Exec)
	assert.True(t, ok)
	_, ok = prog.Commands[0].Body.Statements[2].(*Depends)
	assert.True(t, ok)
}

func TestBuildRejectsDuplicateTopLevelSiblings(t *testing.T) {
	file := &cst.File{Commands: []*cst.Command{
		{Name: "build"},
		{Name: "build"},
	}}

	_, err := Build(file)
	require.Error(t, err)
	cerr, ok := err.(*chorerr.Error)
	require.True(t, ok)
	assert.Equal(t, chorerr.KindDuplicateSibling, cerr.Kind)
}

func TestBuildRejectsDuplicateNestedSiblings(t *testing.T) {
	file := &cst.File{Commands: []*cst.Command{
		{Name: "outer", Body: []cst.Stmt{
			&cst.Nested{Command: &cst.Command{Name: "inner"}},
			&cst.Nested{Command: &cst.Command{Name: "inner"}},
		}},
	}}

	_, err := Build(file)
	require.Error(t, err)
}

func TestBuildConditionOperators(t *testing.T) {
	file := &cst.File{Commands: []*cst.Command{
		{Name: "check", Body: []cst.Stmt{
			&cst.If{Cond: cst.Cond{Left: cst.Expr{Text: "a"}, Op: "==", Right: cst.Expr{Text: "b"}}},
		}},
	}}

	prog, err := Build(file)
	require.NoError(t, err)
	ifStmt := prog.Commands[0].Body.Statements[0].(*If)
	assert.Equal(t, OpEq, ifStmt.Cond.Op)
}

func TestBuildRejectsMalformedCondition(t *testing.T) {
	file := &cst.File{Commands: []*cst.Command{
		{Name: "check", Body: []cst.Stmt{
			&cst.If{Cond: cst.Cond{Left: cst.Expr{Text: "a"}, Op: "~=", Right: cst.Expr{Text: "b"}}},
		}},
	}}

	_, err := Build(file)
	require.Error(t, err)
	cerr, ok := err.(*chorerr.Error)
	require.True(t, ok)
	assert.Equal(t, chorerr.KindMalformedCondition, cerr.Kind)
}

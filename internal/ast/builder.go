package ast

import (
	"github.com/chorelang/chore/internal/chorerr"
	"github.com/chorelang/chore/internal/cst"
)

// Build lowers a concrete parse tree to the tagged AST, validating
// sibling-name uniqueness within every body (SPEC_FULL.md §4.B) and
// rejecting any comparison operator outside the four the grammar supports.
func Build(file *cst.File) (*Program, error) {
	prog := &Program{}
	if err := checkSiblingUniqueness(file.Commands); err != nil {
		return nil, err
	}
	for _, c := range file.Commands {
		cmd, err := buildCommand(c)
		if err != nil {
			return nil, err
		}
		prog.Commands = append(prog.Commands, cmd)
	}
	return prog, nil
}

func checkSiblingUniqueness(cmds []*cst.Command) error {
	seen := make(map[string]bool, len(cmds))
	for _, c := range cmds {
		if seen[c.Name] {
			return chorerr.New(chorerr.KindDuplicateSibling, "duplicate command %q at %s", c.Name, c.Pos)
		}
		seen[c.Name] = true
	}
	return nil
}

func buildCommand(c *cst.Command) (*Command, error) {
	body, err := buildBody(c.Body)
	if err != nil {
		return nil, err
	}
	return &Command{
		Name:   c.Name,
		Doc:    c.Doc,
		Params: c.Params,
		Body:   body,
		Pos:    c.Pos,
	}, nil
}

func buildBody(stmts []cst.Stmt) (*Body, error) {
	nestedNames := make(map[string]bool)
	body := &Body{}
	for _, s := range stmts {
		stmt, err := buildStmt(s)
		if err != nil {
			return nil, err
		}
		if n, ok := stmt.(*Nested); ok {
			if nestedNames[n.Command.Name] {
				return nil, chorerr.New(chorerr.KindDuplicateSibling, "duplicate command %q at %s", n.Command.Name, n.Pos)
			}
			nestedNames[n.Command.Name] = true
		}
		body.Statements = append(body.Statements, stmt)
	}
	return body, nil
}

func buildStmt(s cst.Stmt) (Statement, error) {
	switch v := s.(type) {
	case *cst.Let:
		return &Let{Name: v.Name, Value: buildExpr(v.Value), Pos: v.Pos}, nil

	case *cst.Exec:
		return &Exec{Text: v.Text, Pos: v.Pos}, nil

	case *cst.Depends:
		return &Depends{Names: v.Names, Pos: v.Pos}, nil

	case *cst.If:
		cond, err := buildCond(v.Cond)
		if err != nil {
			return nil, err
		}
		thenBody, err := buildBody(v.Then)
		if err != nil {
			return nil, err
		}
		stmt := &If{Cond: cond, Then: thenBody, Pos: v.Pos}
		if v.Else != nil {
			elseBody, err := buildBody(v.Else)
			if err != nil {
				return nil, err
			}
			stmt.Else = elseBody
		}
		return stmt, nil

	case *cst.For:
		body, err := buildBody(v.Body)
		if err != nil {
			return nil, err
		}
		items := make([]Expression, len(v.Items))
		for i, it := range v.Items {
			items[i] = buildExpr(it)
		}
		return &For{Var: v.Var, Items: items, Body: body, Pos: v.Pos}, nil

	case *cst.Nested:
		cmd, err := buildCommand(v.Command)
		if err != nil {
			return nil, err
		}
		return &Nested{Command: cmd, Pos: v.Pos}, nil

	default:
		return nil, chorerr.New(chorerr.KindParseError, "internal: unhandled statement kind %T", s)
	}
}

func buildExpr(e cst.Expr) Expression {
	return Expression{IsVariable: e.IsVariable, Text: e.Text, Pos: e.Pos}
}

func buildCond(c cst.Cond) (Condition, error) {
	var op ComparisonOp
	switch c.Op {
	case "==":
		op = OpEq
	case "!=":
		op = OpNotEq
	case "<":
		op = OpLess
	case ">":
		op = OpGreat
	default:
		return Condition{}, chorerr.New(chorerr.KindMalformedCondition, "unsupported comparison operator %q at %s", c.Op, c.Pos)
	}
	return Condition{Left: buildExpr(c.Left), Op: op, Right: buildExpr(c.Right), Pos: c.Pos}, nil
}

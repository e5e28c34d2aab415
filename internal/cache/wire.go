package cache

import (
	"fmt"

	"github.com/chorelang/chore/internal/ast"
	"github.com/chorelang/chore/internal/token"
)

// ast.Statement is a closed interface with no tag method, so it cannot
// be handed to cbor directly: the wire types below give each variant a
// concrete, taggable shape for serialization only. Conversion is
// confined to this file; every other package only ever sees ast types.

type wirePosition struct {
	Line   int `cbor:"line"`
	Column int `cbor:"column"`
	Offset int `cbor:"offset"`
}

type wireExpr struct {
	IsVariable bool         `cbor:"var"`
	Text       string       `cbor:"text"`
	Pos        wirePosition `cbor:"pos"`
}

type wireCond struct {
	Left  wireExpr     `cbor:"left"`
	Op    string       `cbor:"op"`
	Right wireExpr     `cbor:"right"`
	Pos   wirePosition `cbor:"pos"`
}

// wireStmt holds exactly one of its optional fields populated,
// discriminated by Kind.
type wireStmt struct {
	Kind string       `cbor:"kind"`
	Pos  wirePosition `cbor:"pos"`

	Let     *wireLet     `cbor:"let,omitempty"`
	Exec    *wireExec    `cbor:"exec,omitempty"`
	Depends *wireDepends `cbor:"depends,omitempty"`
	If      *wireIf      `cbor:"if,omitempty"`
	For     *wireFor     `cbor:"for,omitempty"`
	Nested  *wireCommand `cbor:"nested,omitempty"`
}

type wireLet struct {
	Name  string   `cbor:"name"`
	Value wireExpr `cbor:"value"`
}

type wireExec struct {
	Text string `cbor:"text"`
}

type wireDepends struct {
	Names []string `cbor:"names"`
}

type wireIf struct {
	Cond wireCond   `cbor:"cond"`
	Then []wireStmt `cbor:"then"`
	Else []wireStmt `cbor:"else,omitempty"`
}

type wireFor struct {
	Var   string     `cbor:"var"`
	Items []wireExpr `cbor:"items"`
	Body  []wireStmt `cbor:"body"`
}

type wireCommand struct {
	Name   string       `cbor:"name"`
	Doc    string       `cbor:"doc"`
	Params []string     `cbor:"params"`
	Body   []wireStmt   `cbor:"body"`
	Pos    wirePosition `cbor:"pos"`
}

type wireProgram struct {
	Commands []wireCommand `cbor:"commands"`
}

const (
	kindLet     = "let"
	kindExec    = "exec"
	kindDepends = "depends"
	kindIf      = "if"
	kindFor     = "for"
	kindNested  = "nested"
)

func toWirePos(p ast.Position) wirePosition {
	return wirePosition{Line: p.Line, Column: p.Column, Offset: p.Offset}
}

func fromWirePos(p wirePosition) ast.Position {
	return token.Position{Line: p.Line, Column: p.Column, Offset: p.Offset}
}

func toWireExpr(e ast.Expression) wireExpr {
	return wireExpr{IsVariable: e.IsVariable, Text: e.Text, Pos: toWirePos(e.Pos)}
}

func fromWireExpr(e wireExpr) ast.Expression {
	return ast.Expression{IsVariable: e.IsVariable, Text: e.Text, Pos: fromWirePos(e.Pos)}
}

func toWireCond(c ast.Condition) wireCond {
	return wireCond{Left: toWireExpr(c.Left), Op: string(c.Op), Right: toWireExpr(c.Right), Pos: toWirePos(c.Pos)}
}

func fromWireCond(c wireCond) ast.Condition {
	return ast.Condition{Left: fromWireExpr(c.Left), Op: ast.ComparisonOp(c.Op), Right: fromWireExpr(c.Right), Pos: fromWirePos(c.Pos)}
}

func toWireBody(b *ast.Body) []wireStmt {
	if b == nil {
		return nil
	}
	out := make([]wireStmt, len(b.Statements))
	for i, s := range b.Statements {
		out[i] = toWireStmt(s)
	}
	return out
}

func fromWireBody(stmts []wireStmt) (*ast.Body, error) {
	body := &ast.Body{Statements: make([]ast.Statement, len(stmts))}
	for i, s := range stmts {
		stmt, err := fromWireStmt(s)
		if err != nil {
			return nil, err
		}
		body.Statements[i] = stmt
	}
	return body, nil
}

func toWireStmt(s ast.Statement) wireStmt {
	pos := toWirePos(s.Position())
	switch v := s.(type) {
	case *ast.Let:
		return wireStmt{Kind: kindLet, Pos: pos, Let: &wireLet{Name: v.Name, Value: toWireExpr(v.Value)}}
	case *ast.Exec:
		return wireStmt{Kind: kindExec, Pos: pos, Exec: &wireExec{Text: v.Text}}
	case *ast.Depends:
		return wireStmt{Kind: kindDepends, Pos: pos, Depends: &wireDepends{Names: v.Names}}
	case *ast.If:
		w := &wireIf{Cond: toWireCond(v.Cond), Then: toWireBody(v.Then)}
		if v.Else != nil {
			w.Else = toWireBody(v.Else)
		}
		return wireStmt{Kind: kindIf, Pos: pos, If: w}
	case *ast.For:
		items := make([]wireExpr, len(v.Items))
		for i, it := range v.Items {
			items[i] = toWireExpr(it)
		}
		return wireStmt{Kind: kindFor, Pos: pos, For: &wireFor{Var: v.Var, Items: items, Body: toWireBody(v.Body)}}
	case *ast.Nested:
		return wireStmt{Kind: kindNested, Pos: pos, Nested: toWireCommand(v.Command)}
	default:
		panic(fmt.Sprintf("cache: unhandled statement %T", s))
	}
}

func fromWireStmt(w wireStmt) (ast.Statement, error) {
	pos := fromWirePos(w.Pos)
	switch w.Kind {
	case kindLet:
		return &ast.Let{Name: w.Let.Name, Value: fromWireExpr(w.Let.Value), Pos: pos}, nil
	case kindExec:
		return &ast.Exec{Text: w.Exec.Text, Pos: pos}, nil
	case kindDepends:
		return &ast.Depends{Names: w.Depends.Names, Pos: pos}, nil
	case kindIf:
		thenBody, err := fromWireBody(w.If.Then)
		if err != nil {
			return nil, err
		}
		stmt := &ast.If{Cond: fromWireCond(w.If.Cond), Then: thenBody, Pos: pos}
		if w.If.Else != nil {
			elseBody, err := fromWireBody(w.If.Else)
			if err != nil {
				return nil, err
			}
			stmt.Else = elseBody
		}
		return stmt, nil
	case kindFor:
		items := make([]ast.Expression, len(w.For.Items))
		for i, it := range w.For.Items {
			items[i] = fromWireExpr(it)
		}
		body, err := fromWireBody(w.For.Body)
		if err != nil {
			return nil, err
		}
		return &ast.For{Var: w.For.Var, Items: items, Body: body, Pos: pos}, nil
	case kindNested:
		cmd, err := fromWireCommand(*w.Nested)
		if err != nil {
			return nil, err
		}
		return &ast.Nested{Command: cmd, Pos: pos}, nil
	default:
		return nil, fmt.Errorf("cache: unknown statement kind %q", w.Kind)
	}
}

func toWireCommand(c *ast.Command) *wireCommand {
	return &wireCommand{
		Name:   c.Name,
		Doc:    c.Doc,
		Params: c.Params,
		Body:   toWireBody(c.Body),
		Pos:    toWirePos(c.Pos),
	}
}

func fromWireCommand(w wireCommand) (*ast.Command, error) {
	body, err := fromWireBody(w.Body)
	if err != nil {
		return nil, err
	}
	return &ast.Command{Name: w.Name, Doc: w.Doc, Params: w.Params, Body: body, Pos: fromWirePos(w.Pos)}, nil
}

func toWireProgram(prog *ast.Program) wireProgram {
	out := wireProgram{Commands: make([]wireCommand, len(prog.Commands))}
	for i, c := range prog.Commands {
		out.Commands[i] = *toWireCommand(c)
	}
	return out
}

func fromWireProgram(w wireProgram) (*ast.Program, error) {
	prog := &ast.Program{Commands: make([]*ast.Command, len(w.Commands))}
	for i, c := range w.Commands {
		cmd, err := fromWireCommand(c)
		if err != nil {
			return nil, err
		}
		prog.Commands[i] = cmd
	}
	return prog, nil
}

// Package cst defines the concrete parse tree produced by the parser
// (component A in SPEC_FULL.md §4.A) before it is lowered to the tagged
// AST (component B, package ast). The concrete tree preserves doc comments
// and raw token text; it performs no semantic validation.
package cst

import "github.com/chorelang/chore/internal/token"

// Pos is the source position a node starts at.
type Pos = token.Position

// File is the root of a parsed chore script: an ordered list of commands.
type File struct {
	Commands []*Command
}

// Command is a parsed `name(params) { stmt* }` declaration, possibly with
// a preceding doc comment and possibly nested inside another command's body.
type Command struct {
	Doc    string
	Name   string
	Params []string
	Body   []Stmt
	Pos    Pos
}

// Stmt is any parsed statement inside a command body. Concrete statement
// kinds are the structs below; the unexported stmtNode method keeps the
// set closed to this package, and the builder switches on the concrete
// type.
type Stmt interface {
	stmtNode()
	Position() Pos
}

// Let is `let NAME = expr ;`.
type Let struct {
	Name  string
	Value Expr
	Pos   Pos
}

func (*Let) stmtNode()       {}
func (l *Let) Position() Pos { return l.Pos }

// Exec is `exec ( raw_shell ) ;?`. Text is the raw, not-yet-interpolated
// shell source between the matched parentheses.
type Exec struct {
	Text string
	Pos  Pos
}

func (*Exec) stmtNode()       {}
func (e *Exec) Position() Pos { return e.Pos }

// Depends is `depends ( ident (, ident)* ) ;?`.
type Depends struct {
	Names []string
	Pos   Pos
}

func (*Depends) stmtNode()       {}
func (d *Depends) Position() Pos { return d.Pos }

// If is `if cond { stmt* } (else { stmt* })?`.
type If struct {
	Cond Cond
	Then []Stmt
	Else []Stmt // nil when no else clause
	Pos  Pos
}

func (*If) stmtNode()       {}
func (i *If) Position() Pos { return i.Pos }

// For is `for ident in [ expr (, expr)* ] { stmt* }`.
type For struct {
	Var   string
	Items []Expr
	Body  []Stmt
	Pos   Pos
}

func (*For) stmtNode()       {}
func (f *For) Position() Pos { return f.Pos }

// Nested wraps a Command defined lexically inside another command's body;
// it is both a statement (for body-order bookkeeping) and a declaration
// the registry indexes as a child of the enclosing command.
type Nested struct {
	Command *Command
	Pos     Pos
}

func (*Nested) stmtNode()       {}
func (n *Nested) Position() Pos { return n.Pos }

// Expr is a String literal or a Variable reference.
type Expr struct {
	IsVariable bool
	Text       string // literal value (escapes resolved) or variable name
	Pos        Pos
}

// Cond is a binary comparison between two expressions.
type Cond struct {
	Left  Expr
	Op    string // "==", "!=", "<", ">"
	Right Expr
	Pos   Pos
}

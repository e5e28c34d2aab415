// Package ast defines the tagged, immutable syntax tree chore programs are
// lowered to (component B in SPEC_FULL.md §4.B) and that the registry and
// evaluator operate on read-only once built.
package ast

import "github.com/chorelang/chore/internal/token"

// Position is where a node started in the source.
type Position = token.Position

// Program is the root of a chore script: an ordered list of top-level
// commands.
type Program struct {
	Commands []*Command
}

// Command is a named, parameterizable, body-bearing declaration. It may be
// a top-level command in Program.Commands or a Nested statement inside
// another command's Body.
type Command struct {
	Name   string
	Doc    string
	Params []string
	Body   *Body
	Pos    Position
}

// Body is the ordered statement list of a command.
type Body struct {
	Statements []Statement
}

// Statement is the closed, tagged variant set of spec.md §3: exactly one
// of Let, Exec, Depends, If, For, or Nested. Implementations switch on the
// concrete type; apart from Position, there is no method on this
// interface by design (see SPEC_FULL.md's note on tagged statements over
// class hierarchies).
type Statement interface {
	Position() Position
}

// Let binds the result of evaluating Value into the current scope.
type Let struct {
	Name  string
	Value Expression
	Pos   Position
}

func (s *Let) Position() Position { return s.Pos }

// Exec submits interpolated shell text to the execution sink.
type Exec struct {
	Text string
	Pos  Position
}

func (s *Exec) Position() Position { return s.Pos }

// Depends runs the named commands, in order, under a fresh top-level scope
// before the rest of the enclosing command's body.
type Depends struct {
	Names []string
	Pos   Position
}

func (s *Depends) Position() Position { return s.Pos }

// If evaluates Cond and runs Then or Else (if present); branches inherit
// the enclosing scope, they do not push a new one.
type If struct {
	Cond Condition
	Then *Body
	Else *Body // nil when there was no else clause
	Pos  Position
}

func (s *If) Position() Position { return s.Pos }

// For iterates Items in order, binding Var to each interpolated item in a
// fresh scope for the duration of Body.
type For struct {
	Var   string
	Items []Expression
	Body  *Body
	Pos   Position
}

func (s *For) Position() Position { return s.Pos }

// Nested is a Command defined lexically inside another command's Body. It
// is a declaration, not an action: the evaluator skips it (it was already
// indexed into the registry when the tree was built).
type Nested struct {
	Command *Command
	Pos     Position
}

func (s *Nested) Position() Position { return s.Pos }

// Expression is a string literal or a variable reference, resolved at
// evaluation time.
type Expression struct {
	IsVariable bool
	Text       string // literal text (escapes already resolved), or variable name
	Pos        Position
}

// ComparisonOp is one of the four supported comparison operators.
type ComparisonOp string

const (
	OpEq    ComparisonOp = "=="
	OpNotEq ComparisonOp = "!="
	OpLess  ComparisonOp = "<"
	OpGreat ComparisonOp = ">"
)

// Condition is a binary comparison between two string-valued operands.
type Condition struct {
	Left  Expression
	Op    ComparisonOp
	Right Expression
	Pos   Position
}

// Package registry indexes every command in a built AST by path and
// resolves user-requested paths against it (SPEC_FULL.md §4.C). It is
// built once, by a single traversal, and is read-only thereafter.
package registry

import (
	"strings"

	"github.com/chorelang/chore/internal/ast"
	"github.com/chorelang/chore/internal/suggest"
)

// node is one entry in the registry tree: a command plus its indexed
// nested children, keyed by name.
type node struct {
	command  *ast.Command
	children map[string]*node
}

// Tree is the immutable command registry built from a Program.
type Tree struct {
	roots map[string]*node
	order []string // root names in declaration order, for suggestion ranking
}

// Build indexes every top-level and nested command in prog by path. prog
// is assumed already validated (sibling uniqueness) by the AST builder.
func Build(prog *ast.Program) *Tree {
	t := &Tree{roots: make(map[string]*node)}
	for _, cmd := range prog.Commands {
		n := indexCommand(cmd)
		t.roots[cmd.Name] = n
		t.order = append(t.order, cmd.Name)
	}
	return t
}

func indexCommand(cmd *ast.Command) *node {
	n := &node{command: cmd, children: make(map[string]*node)}
	if cmd.Body == nil {
		return n
	}
	for _, stmt := range cmd.Body.Statements {
		if nested, ok := stmt.(*ast.Nested); ok {
			child := indexCommand(nested.Command)
			n.children[nested.Command.Name] = child
		}
	}
	return n
}

// Result is the outcome of a Resolve call.
type Result struct {
	Command *ast.Command
	// Prefix is the longest leading sub-path of the requested path that did
	// resolve to a node, used for UnknownCommand diagnostics.
	Prefix []string
	// Suggestion is a fuzzy-matched sibling name for the first path segment
	// that failed to resolve, when one exists.
	Suggestion string
}

// Resolve walks path strictly: each segment must name a direct child of
// the previous command (or a root, for the first segment). A partial
// match returns the command-less zero Result with Prefix set to the
// longest sub-path that did resolve and, when possible, a Suggestion for
// the segment that broke the walk.
func (t *Tree) Resolve(path []string) (Result, bool) {
	if len(path) == 0 {
		return Result{}, false
	}

	n, ok := t.roots[path[0]]
	if !ok {
		suggestion, hasSuggestion := suggest.Closest(path[0], t.order)
		res := Result{}
		if hasSuggestion {
			res.Suggestion = suggestion
		}
		return res, false
	}

	prefix := []string{path[0]}
	for _, seg := range path[1:] {
		child, ok := n.children[seg]
		if !ok {
			res := Result{Prefix: prefix}
			if suggestion, hasSuggestion := suggest.Closest(seg, siblingNames(n)); hasSuggestion {
				res.Suggestion = suggestion
			}
			return res, false
		}
		n = child
		prefix = append(prefix, seg)
	}

	return Result{Command: n.command, Prefix: prefix}, true
}

func siblingNames(n *node) []string {
	names := make([]string, 0, len(n.children))
	for name := range n.children {
		names = append(names, name)
	}
	return names
}

// PathString renders a command path the way diagnostics display it.
func PathString(path []string) string {
	return strings.Join(path, " ")
}

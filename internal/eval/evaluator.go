// Package eval implements the tree-walking evaluator (SPEC_FULL.md §4.E):
// dependency-ordered, cycle-checked, scope-respecting evaluation of a
// resolved command against an Environment and an execution Sink.
package eval

import (
	"context"

	"github.com/chorelang/chore/internal/ast"
	"github.com/chorelang/chore/internal/chorerr"
	"github.com/chorelang/chore/internal/env"
	"github.com/chorelang/chore/internal/execsink"
	"github.com/chorelang/chore/internal/logging"
	"github.com/chorelang/chore/internal/registry"
	"github.com/sirupsen/logrus"
)

// Summary is the outcome of running one command to completion.
type Summary struct {
	ExitCode     int // the last exit code observed from an exec(...) statement, 0 if none ran
	ExecCount    int // number of exec(...) statements submitted to the sink
	NonZeroCount int // number of those that exited non-zero
}

// Evaluator runs resolved commands against a Tree, an Environment, and
// a Sink, logging structured events as it goes.
type Evaluator struct {
	tree *registry.Tree
	sink execsink.Sink
	log  *logrus.Logger

	// activation is the stack of fully-qualified command paths currently
	// being evaluated, used to detect dependency cycles with no
	// memoisation: every Depends statement re-runs its targets in full,
	// by design (see SPEC_FULL.md's resolution of the corresponding Open
	// Question). Paths are compared as joined strings so that two
	// distinct commands that happen to share a leaf name (e.g. docker.build
	// vs release.build) are never confused with one another.
	activation []string
}

// New builds an Evaluator over tree, running exec(...) statements
// through sink and logging to log.
func New(tree *registry.Tree, sink execsink.Sink, log *logrus.Logger) *Evaluator {
	return &Evaluator{tree: tree, sink: sink, log: log}
}

// Run resolves path against the registry and evaluates it with args
// bound positionally to its declared parameters.
func (e *Evaluator) Run(ctx context.Context, scope *env.Environment, path []string, args []string) (Summary, error) {
	res, ok := e.tree.Resolve(path)
	if !ok {
		err := chorerr.New(chorerr.KindUnknownCommand, "unknown command %q", registry.PathString(path))
		err.Path = path
		err.Suggestion = res.Suggestion
		return Summary{}, err
	}
	return e.runCommand(ctx, scope, path, res.Command, args)
}

func (e *Evaluator) runCommand(ctx context.Context, scope *env.Environment, fullPath []string, cmd *ast.Command, args []string) (Summary, error) {
	key := registry.PathString(fullPath)
	for _, name := range e.activation {
		if name == key {
			return Summary{}, chorerr.New(chorerr.KindDependencyCycle, "dependency cycle: %s", cycleText(e.activation, key))
		}
	}
	e.activation = append(e.activation, key)
	defer func() { e.activation = e.activation[:len(e.activation)-1] }()

	scope.PushScope()
	defer scope.PopScope()

	bindParams(scope, cmd, args, func(msg string) { logging.Warn(e.log, key, msg) }, e.log, key)

	sum := Summary{}
	if cmd.Body == nil {
		return sum, nil
	}
	// The body's own Depends statements run first, in declared order;
	// the remaining statements then run in source order.
	for _, deps := range []bool{true, false} {
		for _, stmt := range cmd.Body.Statements {
			if _, isDep := stmt.(*ast.Depends); isDep != deps {
				continue
			}
			if err := e.runStmt(ctx, scope, fullPath, stmt, &sum); err != nil {
				return sum, err
			}
		}
	}
	return sum, nil
}

func bindParams(scope *env.Environment, cmd *ast.Command, args []string, warn func(string), log *logrus.Logger, path string) {
	for i, p := range cmd.Params {
		var value string
		if i < len(args) {
			value = args[i]
		} else {
			warn("missing argument for parameter " + p)
		}
		scope.Bind(p, value)
		logging.Param(log, path, p, value)
	}
	if len(args) > len(cmd.Params) {
		warn("extra arguments ignored for command " + cmd.Name)
	}
}

func (e *Evaluator) runBody(ctx context.Context, scope *env.Environment, fullPath []string, body *ast.Body, sum *Summary) error {
	for _, stmt := range body.Statements {
		if err := e.runStmt(ctx, scope, fullPath, stmt, sum); err != nil {
			return err
		}
	}
	return nil
}

func (e *Evaluator) runStmt(ctx context.Context, scope *env.Environment, fullPath []string, stmt ast.Statement, sum *Summary) error {
	path := registry.PathString(fullPath)
	onUnbound := func(name string) {
		logging.Warn(e.log, path, "unbound variable $"+name)
	}

	switch s := stmt.(type) {
	case *ast.Let:
		value := scope.Eval(s.Value, onUnbound)
		scope.Bind(s.Name, value)
		logging.Set(e.log, path, s.Name, value)
		return nil

	case *ast.Exec:
		shell := scope.Interpolate(s.Text, onUnbound)
		logging.Exec(e.log, path, shell)
		code, err := e.sink.Exec(ctx, shell, execsink.Opts{})
		if err != nil {
			logging.Warn(e.log, path, chorerr.New(chorerr.KindExecFailed, "%s: %v", shell, err).Error())
			if code == 0 {
				code = execsink.ExitCommandFailed
			}
		}
		sum.ExitCode = code
		sum.ExecCount++
		if code != 0 {
			sum.NonZeroCount++
		}
		logging.ExecResult(e.log, path, code)
		return nil

	case *ast.Depends:
		logging.Depends(e.log, path, s.Names)
		// Depends names are resolved relative to the enclosing command's
		// own parent, i.e. as siblings of the command the statement
		// appears in: depends(build) inside docker.run resolves to
		// docker.build, not a top-level "build".
		parent := fullPath[:len(fullPath)-1]
		for _, name := range s.Names {
			depPath := append(append([]string{}, parent...), name)
			depScope := env.New()
			depSum, err := e.Run(ctx, depScope, depPath, nil)
			if err != nil {
				return err
			}
			if depSum.ExecCount > 0 {
				sum.ExitCode = depSum.ExitCode
			}
			sum.ExecCount += depSum.ExecCount
			sum.NonZeroCount += depSum.NonZeroCount
		}
		return nil

	case *ast.If:
		ok, err := e.evalCond(scope, s.Cond, onUnbound)
		if err != nil {
			return err
		}
		if ok {
			return e.runBody(ctx, scope, fullPath, s.Then, sum)
		}
		if s.Else != nil {
			return e.runBody(ctx, scope, fullPath, s.Else, sum)
		}
		return nil

	case *ast.For:
		for _, item := range s.Items {
			value := scope.Eval(item, onUnbound)
			scope.PushScope()
			scope.Bind(s.Var, value)
			err := e.runBody(ctx, scope, fullPath, s.Body, sum)
			scope.PopScope()
			if err != nil {
				return err
			}
		}
		return nil

	case *ast.Nested:
		// Declarations only; already indexed into the registry when it was
		// built. Nothing to evaluate here.
		return nil

	default:
		return chorerr.New(chorerr.KindParseError, "internal: unhandled statement %T", stmt)
	}
}

func (e *Evaluator) evalCond(scope *env.Environment, cond ast.Condition, onUnbound env.UnboundHandler) (bool, error) {
	left := scope.Eval(cond.Left, onUnbound)
	right := scope.Eval(cond.Right, onUnbound)

	switch cond.Op {
	case ast.OpEq:
		return left == right, nil
	case ast.OpNotEq:
		return left != right, nil
	case ast.OpLess:
		return left < right, nil
	case ast.OpGreat:
		return left > right, nil
	default:
		return false, chorerr.New(chorerr.KindMalformedCondition, "unsupported comparison operator %q", cond.Op)
	}
}

func cycleText(stack []string, closing string) string {
	out := ""
	for _, s := range stack {
		out += s + " -> "
	}
	return out + closing
}

// Package evaluator executes daro syntax trees.
package evaluator

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/podhmo/daro/ast"
	"github.com/podhmo/daro/ffibridge"
	"github.com/podhmo/daro/fs"
	"github.com/podhmo/daro/object"
	"github.com/podhmo/daro/token"
)

// Evaluator is the main object that evaluates the AST.
type Evaluator struct {
	logger    *slog.Logger
	bridge    *ffibridge.Bridge
	fs        fs.FS
	root      string
	prelude   *object.Scope
	callStack []*object.CallFrame
}

// Config configures an Evaluator.
type Config struct {
	Logger   *slog.Logger
	Registry *ffibridge.Registry
	FS       fs.FS
	// Root is the directory module paths are resolved against.
	Root string
	// Globals are bound in the prelude next to the builtins.
	Globals map[string]object.Object
}

// New creates a new Evaluator.
func New(cfg Config) *Evaluator {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	}
	fsys := cfg.FS
	if fsys == nil {
		fsys = fs.NewOSFS()
	}
	e := &Evaluator{
		logger: logger,
		bridge: ffibridge.New(cfg.Registry, logger),
		fs:     fsys,
		root:   cfg.Root,
	}
	e.prelude = e.newPrelude(cfg.Globals)
	return e
}

// Prelude returns the constant scope holding the builtins and types.
func (e *Evaluator) Prelude() *object.Scope { return e.prelude }

// Bridge returns the host interop bridge.
func (e *Evaluator) Bridge() *ffibridge.Bridge { return e.bridge }

// NewGlobalScope creates a fresh top-level scope over the prelude.
func (e *Evaluator) NewGlobalScope() *object.Scope {
	return object.NewBlockScope(e.prelude)
}

// newError creates an error attached to pos, carrying the current call stack.
func (e *Evaluator) newError(ctx context.Context, pos token.Position, format string, args ...any) *object.Error {
	frames := make([]*object.CallFrame, len(e.callStack))
	copy(frames, e.callStack)
	err := &object.Error{
		Pos:       pos,
		Message:   fmt.Sprintf(format, args...),
		CallStack: frames,
	}
	e.logcWithCallerDepth(ctx, slog.LevelDebug, 2, err.Message, "pos", pos.String())
	return err
}

// wrapError converts a host error into a runtime error at pos. Runtime
// errors raised by script callbacks are returned unchanged.
func (e *Evaluator) wrapError(ctx context.Context, pos token.Position, err error) *object.Error {
	if rerr, ok := err.(*object.Error); ok {
		return rerr
	}
	oerr := e.newError(ctx, pos, "%v", err)
	oerr.Cause = err
	return oerr
}

func isError(obj object.Object) bool {
	_, ok := obj.(*object.Error)
	return ok
}

// Eval evaluates node in ec, notifying the installed observers.
func (e *Evaluator) Eval(ctx context.Context, node ast.Node, ec *ExecutionContext) object.Object {
	for _, o := range ec.observers {
		if err := o.BeforeNode(ec, node); err != nil {
			return e.observerError(ctx, node.Pos(), err)
		}
	}
	result := e.eval(ctx, node, ec)
	for _, o := range ec.observers {
		if err := o.AfterNode(ec, node, result); err != nil {
			return e.observerError(ctx, node.Pos(), err)
		}
	}
	return result
}

func (e *Evaluator) observerError(ctx context.Context, pos token.Position, err error) *object.Error {
	e.logc(ctx, slog.LevelDebug, "observer aborted evaluation", "error", err)
	oerr := e.newError(ctx, pos, "evaluation aborted: %v", err)
	oerr.Cause = err
	return oerr
}

func (e *Evaluator) eval(ctx context.Context, node ast.Node, ec *ExecutionContext) object.Object {
	switch n := node.(type) {
	case *ast.Sequence:
		return e.evalSequence(ctx, n, ec)
	case *ast.Block:
		return e.evalBlock(ctx, n, ec)
	case *ast.Ident:
		return e.evalIdent(ctx, n, ec)
	case *ast.IntegerLit, *ast.RealLit, *ast.StringLit, *ast.CharLit, *ast.BoolLit, *ast.NullLit:
		return e.evalBasicLit(n)
	case *ast.ArrayLit:
		return e.evalArrayLit(ctx, n, ec)
	case *ast.BinaryExpr:
		return e.evalBinaryExpr(ctx, n, ec)
	case *ast.UnaryExpr:
		return e.evalUnaryExpr(ctx, n, ec)
	case *ast.CallExpr:
		return e.evalCallExpr(ctx, n, ec)
	case *ast.MemberExpr:
		return e.evalMemberExpr(ctx, n, ec)
	case *ast.IndexExpr:
		return e.evalIndexExpr(ctx, n, ec)
	case *ast.RangeExpr:
		return e.evalRangeExpr(ctx, n, ec)
	case *ast.ArrayType:
		return e.evalType(ctx, n, ec)
	case *ast.NewExpr:
		return e.evalNewExpr(ctx, n, ec)
	case *ast.DefineStmt:
		return e.evalDefineStmt(ctx, n, ec)
	case *ast.AssignStmt:
		return e.evalAssignStmt(ctx, n, ec)
	case *ast.IfStmt:
		return e.evalIfStmt(ctx, n, ec)
	case *ast.ForStmt:
		return e.evalForStmt(ctx, n, ec)
	case *ast.ForInStmt:
		return e.evalForInStmt(ctx, n, ec)
	case *ast.MatchStmt:
		return e.evalMatchStmt(ctx, n, ec)
	case *ast.ReturnStmt:
		return e.evalReturnStmt(ctx, n, ec)
	case *ast.BreakStmt:
		return object.BREAK
	case *ast.ContinueStmt:
		return object.CONTINUE
	case *ast.FuncLit:
		return e.evalFuncLit(ctx, n, ec)
	case *ast.ClassDecl:
		return e.evalClassDecl(ctx, n, ec)
	case *ast.UseStmt:
		return e.evalUseStmt(ctx, n, ec)
	case *ast.ImportStmt:
		return e.evalImportStmt(ctx, n, ec)
	case *ast.FromImportStmt:
		return e.evalFromImportStmt(ctx, n, ec)
	case *ast.Initializer:
		return e.newError(ctx, n.Pos(), "initializer outside of new expression")
	}
	return e.newError(ctx, node.Pos(), "evaluation not implemented for %T", node)
}

// EvalProgram evaluates a whole program in ec.Scope. Control signals that
// reach the top level are reported as errors.
func (e *Evaluator) EvalProgram(ctx context.Context, node ast.Node, ec *ExecutionContext) object.Object {
	result := e.Eval(declaring(ctx, node), node, ec)
	return e.toplevel(ctx, node.Pos(), result)
}

func (e *Evaluator) toplevel(ctx context.Context, pos token.Position, result object.Object) object.Object {
	switch result.(type) {
	case *object.ReturnValue:
		return e.newError(ctx, pos, "unexpected return outside of a function")
	case *object.Break:
		return e.newError(ctx, pos, "unexpected break outside of a loop")
	case *object.Continue:
		return e.newError(ctx, pos, "unexpected continue outside of a loop")
	}
	return result
}

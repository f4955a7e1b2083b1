package evaluator

import (
	"context"
	"log/slog"
	"path"
	"strings"

	"github.com/podhmo/daro/ast"
	"github.com/podhmo/daro/object"
	"github.com/podhmo/daro/parser"
	"github.com/podhmo/daro/token"
)

// ModuleExt is appended to module paths that have no extension.
const ModuleExt = ".daro"

func (e *Evaluator) evalUseStmt(ctx context.Context, n *ast.UseStmt, ec *ExecutionContext) object.Object {
	mod, err := e.loadModule(ctx, n.Pos(), n.Path, ec)
	if err != nil {
		return err
	}
	name := mod.Name
	if n.Alias != nil {
		name = n.Alias.Name
	}
	if err := ec.Scope.Define(name, mod); err != nil {
		return e.newError(ctx, n.Pos(), "%v", err)
	}
	return object.NULL
}

// evalImportStmt binds the module under its alias, or copies all of its
// members into the current scope when no alias is given.
func (e *Evaluator) evalImportStmt(ctx context.Context, n *ast.ImportStmt, ec *ExecutionContext) object.Object {
	mod, err := e.loadModule(ctx, n.Pos(), n.Path, ec)
	if err != nil {
		return err
	}
	if n.Alias != nil {
		if err := ec.Scope.Define(n.Alias.Name, mod); err != nil {
			return e.newError(ctx, n.Pos(), "%v", err)
		}
		return object.NULL
	}
	for _, name := range mod.Scope.Names() {
		v, ok := mod.Scope.Get(name)
		if !ok {
			continue
		}
		if err := ec.Scope.Define(name, v); err != nil {
			return e.newError(ctx, n.Pos(), "%v", err)
		}
	}
	return object.NULL
}

func (e *Evaluator) evalFromImportStmt(ctx context.Context, n *ast.FromImportStmt, ec *ExecutionContext) object.Object {
	mod, err := e.loadModule(ctx, n.Pos(), n.Path, ec)
	if err != nil {
		return err
	}
	for _, id := range n.Names {
		if !mod.Scope.HasOwn(id.Name) {
			return e.newError(ctx, id.Pos(), "module %s has no member %s", mod.Name, id.Name)
		}
		v, _ := mod.Scope.Get(id.Name)
		if err := ec.Scope.Define(id.Name, v); err != nil {
			return e.newError(ctx, id.Pos(), "%v", err)
		}
	}
	return object.NULL
}

// loadModule resolves p to a registered host package or to a script file
// below the root. Script modules run once per context; the module is
// cached before its body runs so that cyclic imports see it, partially
// initialized.
func (e *Evaluator) loadModule(ctx context.Context, pos token.Position, p string, ec *ExecutionContext) (*object.Module, *object.Error) {
	if mod, ok := ec.modules[p]; ok {
		return mod, nil
	}
	if mod, ok := e.bridge.Package(p); ok {
		ec.modules[p] = mod
		return mod, nil
	}

	file := p
	if path.Ext(file) == "" {
		file += ModuleExt
	}
	if e.root != "" && !path.IsAbs(file) {
		file = path.Join(e.root, file)
	}
	if mod, ok := ec.modules[file]; ok {
		return mod, nil
	}

	e.logc(ctx, slog.LevelDebug, "loading module", "path", p, "file", file)
	src, err := e.fs.ReadFile(file)
	if err != nil {
		return nil, e.wrapError(ctx, pos, err)
	}
	seq, err := parser.Parse(file, string(src))
	if err != nil {
		return nil, e.wrapError(ctx, pos, err)
	}

	scope := e.NewGlobalScope()
	mod := &object.Module{
		Name:  strings.TrimSuffix(path.Base(file), path.Ext(file)),
		Path:  file,
		Scope: scope,
	}
	ec.modules[file] = mod

	if res := e.evalSequence(ctx, seq, ec.WithScope(scope)); isError(res) {
		delete(ec.modules, file)
		return nil, res.(*object.Error)
	}
	return mod, nil
}

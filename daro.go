// Package daro embeds the daro scripting language. An Interpreter keeps one
// global scope alive across executions, so later scripts see the variables,
// functions and classes defined by earlier ones.
package daro

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"reflect"

	"github.com/podhmo/daro/ast"
	"github.com/podhmo/daro/evaluator"
	"github.com/podhmo/daro/ffibridge"
	"github.com/podhmo/daro/fs"
	"github.com/podhmo/daro/object"
	"github.com/podhmo/daro/parser"
	"github.com/podhmo/daro/stdlib"
	"github.com/podhmo/daro/token"
)

// Version is the interpreter version, compared against the version
// requirement of daro.yaml.
const Version = "v0.1.0"

// Diagnostic is implemented by every error reported to users: syntax
// errors, runtime errors and overload resolution errors.
type Diagnostic interface {
	error
	Position() token.Position
}

var (
	_ Diagnostic = (*parser.Error)(nil)
	_ Diagnostic = (*object.Error)(nil)
)

// Interpreter is the main entry point for the daro language.
type Interpreter struct {
	Registry *ffibridge.Registry

	eval   *evaluator.Evaluator
	global *object.Scope

	stdout  io.Writer
	stderr  io.Writer
	logger  *slog.Logger
	fs      fs.FS
	root    string
	globals map[string]any
	nostd   bool
}

// Option is a functional option for configuring the Interpreter.
type Option func(*Interpreter)

// WithStdout sets the standard output for the interpreter.
func WithStdout(w io.Writer) Option {
	return func(i *Interpreter) {
		i.stdout = w
	}
}

// WithStderr sets the standard error for the interpreter.
func WithStderr(w io.Writer) Option {
	return func(i *Interpreter) {
		i.stderr = w
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(i *Interpreter) {
		i.logger = l
	}
}

// WithFS sets the file system modules and files are read from.
func WithFS(fsys fs.FS) Option {
	return func(i *Interpreter) {
		i.fs = fsys
	}
}

// WithRoot sets the directory module paths are resolved against.
func WithRoot(dir string) Option {
	return func(i *Interpreter) {
		i.root = dir
	}
}

// WithGlobals binds host values in the prelude. Interpreter objects are
// bound as they are; any other value is wrapped.
func WithGlobals(globals map[string]any) Option {
	return func(i *Interpreter) {
		if i.globals == nil {
			i.globals = make(map[string]any, len(globals))
		}
		for name, v := range globals {
			i.globals[name] = v
		}
	}
}

// WithRegistry shares a registry of host packages with the interpreter.
func WithRegistry(reg *ffibridge.Registry) Option {
	return func(i *Interpreter) {
		i.Registry = reg
	}
}

// WithoutStdlib skips the installation of the standard host packages.
func WithoutStdlib() Option {
	return func(i *Interpreter) {
		i.nostd = true
	}
}

// New creates a new interpreter instance, configured with options.
func New(options ...Option) *Interpreter {
	i := &Interpreter{
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
	for _, opt := range options {
		opt(i)
	}
	if i.Registry == nil {
		i.Registry = ffibridge.NewRegistry()
	}
	if !i.nostd {
		stdlib.Install(i.Registry)
	}

	globals := make(map[string]object.Object, len(i.globals))
	for name, v := range i.globals {
		globals[name] = toObject(v)
	}
	i.eval = evaluator.New(evaluator.Config{
		Logger:   i.logger,
		Registry: i.Registry,
		FS:       i.fs,
		Root:     i.root,
		Globals:  globals,
	})
	i.global = i.eval.NewGlobalScope()
	return i
}

// Register makes Go symbols available to scripts under pkgPath, for
// `import "pkgPath"` and `native.pkgPath`.
func (i *Interpreter) Register(pkgPath string, symbols map[string]any) {
	i.Registry.Register(pkgPath, symbols)
}

// Scope returns the persistent global scope.
func (i *Interpreter) Scope() *object.Scope {
	return i.global
}

// Execute parses src and evaluates it in the global scope. The observers
// are installed for this execution only.
func (i *Interpreter) Execute(ctx context.Context, src string, observers ...evaluator.Observer) (*Result, error) {
	return i.execute(ctx, "", src, observers)
}

// ExecuteFile reads, parses and evaluates a script file.
func (i *Interpreter) ExecuteFile(ctx context.Context, filename string, observers ...evaluator.Observer) (*Result, error) {
	fsys := i.fs
	if fsys == nil {
		fsys = fs.NewOSFS()
	}
	src, err := fsys.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading script %q: %w", filename, err)
	}
	return i.execute(ctx, filename, string(src), observers)
}

func (i *Interpreter) execute(ctx context.Context, filename, src string, observers []evaluator.Observer) (*Result, error) {
	node, err := parser.Parse(filename, src)
	if err != nil {
		return nil, err
	}
	return i.ExecuteNode(ctx, node, observers...)
}

// ExecuteNode evaluates an already parsed program in the global scope.
// Each execution gets its own module cache.
func (i *Interpreter) ExecuteNode(ctx context.Context, node ast.Node, observers ...evaluator.Observer) (*Result, error) {
	ec := evaluator.NewContext(i.global, i.stdout, i.stderr).WithObservers(observers...)
	result := i.eval.EvalProgram(ctx, node, ec)
	if err, ok := result.(*object.Error); ok {
		return nil, err
	}
	return &Result{Value: result}, nil
}

// Reset drops every binding made by executed scripts.
func (i *Interpreter) Reset() {
	i.global.Reset()
}

// Lookup returns the value bound to name in the global scope.
func (i *Interpreter) Lookup(name string) (object.Object, bool) {
	return i.global.Get(name)
}

// Call calls the function bound to name with host arguments.
func (i *Interpreter) Call(ctx context.Context, name string, args ...any) (*Result, error) {
	fn, ok := i.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("function %q not found", name)
	}
	objs := make([]object.Object, len(args))
	for n, arg := range args {
		objs[n] = toObject(arg)
	}
	ec := evaluator.NewContext(i.global, i.stdout, i.stderr)
	result := i.eval.Apply(ctx, token.NoPos, fn, objs, ec)
	if err, ok := result.(*object.Error); ok {
		return nil, err
	}
	return &Result{Value: result}, nil
}

// toObject converts a host value for use by scripts.
func toObject(v any) object.Object {
	if obj, ok := v.(object.Object); ok {
		return obj
	}
	if v == nil {
		return object.NULL
	}
	return ffibridge.Wrap(reflect.ValueOf(v))
}

package evaluator

import (
	"io"

	"github.com/podhmo/daro/object"
)

// ExecutionContext is the ambient state of an evaluation: the active scope,
// the output sinks, the installed observers and the modules loaded so far.
// It is never mutated; WithScope and WithObservers derive new contexts that
// share the remaining fields.
type ExecutionContext struct {
	Scope  *object.Scope
	Stdout io.Writer
	Stderr io.Writer

	observers []Observer
	modules   map[string]*object.Module
}

// NewContext creates a context evaluating in scope.
func NewContext(scope *object.Scope, stdout, stderr io.Writer) *ExecutionContext {
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}
	return &ExecutionContext{
		Scope:   scope,
		Stdout:  stdout,
		Stderr:  stderr,
		modules: make(map[string]*object.Module),
	}
}

// WithScope returns a copy of ec evaluating in scope.
func (ec *ExecutionContext) WithScope(scope *object.Scope) *ExecutionContext {
	c := *ec
	c.Scope = scope
	return &c
}

// WithObservers returns a copy of ec with obs installed after the existing
// observers.
func (ec *ExecutionContext) WithObservers(obs ...Observer) *ExecutionContext {
	c := *ec
	c.observers = make([]Observer, 0, len(ec.observers)+len(obs))
	c.observers = append(c.observers, ec.observers...)
	c.observers = append(c.observers, obs...)
	return &c
}

// Observers returns the installed observers.
func (ec *ExecutionContext) Observers() []Observer {
	return ec.observers
}

// Module returns a module already loaded from path in this context.
func (ec *ExecutionContext) Module(path string) (*object.Module, bool) {
	m, ok := ec.modules[path]
	return m, ok
}

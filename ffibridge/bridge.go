package ffibridge

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"reflect"
	"sort"
	"strings"

	"github.com/podhmo/daro/object"
)

// Bridge exposes a Registry to the interpreter: packages become modules,
// host functions become overloaded native functions and host values get
// native scopes.
type Bridge struct {
	Registry *Registry
	logger   *slog.Logger
}

// New creates a bridge over reg. A nil logger means slog.Default().
func New(reg *Registry, logger *slog.Logger) *Bridge {
	if reg == nil {
		reg = NewRegistry()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Bridge{Registry: reg, logger: logger}
}

// Call resolves the overload of fn that best fits args and invokes it.
func (b *Bridge) Call(ctx context.Context, fn *object.NativeFunction, args []object.Object, call Caller) (object.Object, error) {
	v, loss, err := Resolve(fn.Receiver, fn.Name, fn.Overloads, args)
	if err != nil {
		return nil, err
	}
	if len(fn.Overloads) > 1 {
		b.logger.DebugContext(ctx, "native overload selected", "func", fn.FullName(), "signature", v.Type().String(), "loss", loss)
	}
	return Invoke(v, args, call)
}

// Construct builds a value of a host type. Without registered
// constructors, no argument gives the zero value and a single argument is
// cast to the type.
func (b *Bridge) Construct(ctx context.Context, t *object.NativeType, args []object.Object, call Caller) (object.Object, error) {
	if len(t.Constructors) == 0 {
		switch len(args) {
		case 0:
			if t.T.Kind() == reflect.Ptr {
				return &object.NativeValue{Value: reflect.New(t.T.Elem())}, nil
			}
			return &object.NativeValue{Value: reflect.New(t.T).Elem()}, nil
		case 1:
			v, err := Cast(args[0], t.T, call)
			if err != nil {
				return nil, err
			}
			return &object.NativeValue{Value: addressable(v)}, nil
		}
		return nil, fmt.Errorf("%s has no constructor taking %d arguments", t.Name(), len(args))
	}
	v, loss, err := Resolve(t.Name(), "new", t.Constructors, args)
	if err != nil {
		return nil, err
	}
	b.logger.DebugContext(ctx, "native constructor selected", "type", t.Name(), "signature", v.Type().String(), "loss", loss)
	return Invoke(v, args, call)
}

// ScopeOf returns a scope over the methods and exported fields of a host
// value. Fields are writable when the value is addressable.
func (b *Bridge) ScopeOf(nv *object.NativeValue, call Caller) *object.Scope {
	v := nv.Value
	if !v.IsValid() {
		return object.NewNativeScope(func(string) (object.Object, bool) { return nil, false }, nil, nil)
	}
	recv := v
	if v.Kind() != reflect.Ptr && v.Kind() != reflect.Interface && v.CanAddr() {
		recv = v.Addr()
	}
	owner := v.Type().String()

	lookup := func(name string) (object.Object, bool) {
		if m := recv.MethodByName(name); m.IsValid() {
			return &object.NativeFunction{Receiver: owner, Name: name, Overloads: []reflect.Value{m}}, true
		}
		if f, ok := field(v, name); ok {
			return Wrap(f), true
		}
		return nil, false
	}
	locate := func(name string) (object.Location, bool) {
		f, ok := field(v, name)
		if !ok || !f.CanSet() {
			return nil, false
		}
		return &fieldLocation{name: name, field: f, call: call}, true
	}
	list := func() []string {
		var names []string
		for i := 0; i < recv.NumMethod(); i++ {
			names = append(names, recv.Type().Method(i).Name)
		}
		names = append(names, fieldNames(v.Type())...)
		sort.Strings(names)
		return names
	}
	return object.NewNativeScope(lookup, locate, list)
}

// TypeScope exposes the methods of a host type as functions taking the
// receiver as their first argument.
func (b *Bridge) TypeScope(t *object.NativeType) *object.Scope {
	lookup := func(name string) (object.Object, bool) {
		m, ok := t.T.MethodByName(name)
		if !ok && t.T.Kind() != reflect.Ptr && t.T.Kind() != reflect.Interface {
			m, ok = reflect.PointerTo(t.T).MethodByName(name)
		}
		if !ok || !m.Func.IsValid() {
			return nil, false
		}
		return &object.NativeFunction{Receiver: t.Name(), Name: name, Overloads: []reflect.Value{m.Func}}, true
	}
	list := func() []string {
		names := make([]string, 0, t.T.NumMethod())
		for i := 0; i < t.T.NumMethod(); i++ {
			names = append(names, t.T.Method(i).Name)
		}
		return names
	}
	return object.NewComputedScope(lookup, list)
}

// field returns the exported field name of v, following pointers.
func field(v reflect.Value, name string) (reflect.Value, bool) {
	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return reflect.Value{}, false
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return reflect.Value{}, false
	}
	sf, ok := v.Type().FieldByName(name)
	if !ok || !sf.IsExported() {
		return reflect.Value{}, false
	}
	f, err := v.FieldByIndexErr(sf.Index)
	if err != nil {
		return reflect.Value{}, false
	}
	return f, true
}

func fieldNames(t reflect.Type) []string {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}
	var names []string
	for _, f := range reflect.VisibleFields(t) {
		if f.IsExported() && !f.Anonymous {
			names = append(names, f.Name)
		}
	}
	return names
}

type fieldLocation struct {
	name  string
	field reflect.Value
	call  Caller
}

func (l *fieldLocation) Name() string { return l.name }

func (l *fieldLocation) Load() (object.Object, bool) { return Wrap(l.field), true }

func (l *fieldLocation) Store(v object.Object) error {
	rv, err := Cast(v, l.field.Type(), l.call)
	if err != nil {
		return fmt.Errorf("field %s: %w", l.name, err)
	}
	l.field.Set(rv)
	return nil
}

// Package returns the module of a registered host package.
func (b *Bridge) Package(pkgPath string) (*object.Module, bool) {
	if !b.Registry.HasPackage(pkgPath) {
		return nil, false
	}
	return b.module(pkgPath), true
}

func (b *Bridge) module(pkgPath string) *object.Module {
	lookup := func(name string) (object.Object, bool) {
		if sym, ok := b.Registry.Lookup(pkgPath, name); ok {
			return b.symbol(pkgPath, name, sym), true
		}
		return b.child(pkgPath, name)
	}
	list := func() []string {
		names := b.Registry.Symbols(pkgPath)
		return append(names, b.segments(pkgPath)...)
	}
	return &object.Module{Name: path.Base(pkgPath), Path: pkgPath, Scope: object.NewComputedScope(lookup, list)}
}

// Namespace returns the scope behind the native prelude value. Each path
// segment of a registered package is a member, so encoding/hex is reached
// as native.encoding.hex.
func (b *Bridge) Namespace() *object.Scope {
	return object.NewComputedScope(func(name string) (object.Object, bool) {
		return b.child("", name)
	}, func() []string {
		return b.segments("")
	})
}

func (b *Bridge) child(prefix, name string) (object.Object, bool) {
	p := name
	if prefix != "" {
		p = prefix + "/" + name
	}
	if b.Registry.HasPackage(p) {
		return b.module(p), true
	}
	for _, registered := range b.Registry.Packages() {
		if strings.HasPrefix(registered, p+"/") {
			return &object.Module{Name: name, Path: p, Scope: object.NewComputedScope(func(n string) (object.Object, bool) {
				return b.child(p, n)
			}, func() []string {
				return b.segments(p)
			})}, true
		}
	}
	return nil, false
}

// segments lists the next path segments below prefix.
func (b *Bridge) segments(prefix string) []string {
	seen := map[string]bool{}
	var out []string
	for _, p := range b.Registry.Packages() {
		rest := p
		if prefix != "" {
			if !strings.HasPrefix(p, prefix+"/") {
				continue
			}
			rest = p[len(prefix)+1:]
		}
		seg, _, _ := strings.Cut(rest, "/")
		if !seen[seg] {
			seen[seg] = true
			out = append(out, seg)
		}
	}
	return out
}

func (b *Bridge) symbol(pkgPath, name string, sym any) object.Object {
	switch sym := sym.(type) {
	case object.Object:
		return sym
	case reflect.Type:
		return &object.NativeType{T: sym}
	case Class:
		ctors := make([]reflect.Value, len(sym.Constructors))
		for i, c := range sym.Constructors {
			ctors[i] = reflect.ValueOf(c)
		}
		return &object.NativeType{T: sym.Type, Constructors: ctors}
	case Overload:
		fns := make([]reflect.Value, len(sym))
		for i, f := range sym {
			fns[i] = reflect.ValueOf(f)
		}
		return &object.NativeFunction{Receiver: pkgPath, Name: name, Overloads: fns}
	}
	v := reflect.ValueOf(sym)
	if v.Kind() == reflect.Func && !v.IsNil() {
		return &object.NativeFunction{Receiver: pkgPath, Name: name, Overloads: []reflect.Value{v}}
	}
	return Wrap(v)
}

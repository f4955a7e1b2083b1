// Package ffibridge connects scripts to host Go values: it keeps the registry
// of host packages, scores how well script values fit host parameter types,
// picks overloads and converts values in both directions.
package ffibridge

import (
	"reflect"
	"sort"
)

// Overload registers several host functions under one name. A call picks
// the candidate with the lowest casting loss; ties go to the earliest one.
type Overload []any

// Class registers a host type together with its constructors, which are
// tried in order by new T{args...}.
type Class struct {
	Type         reflect.Type
	Constructors []any
}

// Registry holds host symbols by package path.
type Registry struct {
	packages map[string]map[string]any
}

// NewRegistry creates a new, empty registry.
func NewRegistry() *Registry {
	return &Registry{packages: make(map[string]map[string]any)}
}

// Register adds a collection of symbols to a given package path.
// If the package path already exists, the new symbols are merged with the existing ones.
// Symbols may be functions, Overload, Class, reflect.Type, interpreter
// objects, or any other host value.
func (r *Registry) Register(pkgPath string, symbols map[string]any) {
	pkg, ok := r.packages[pkgPath]
	if !ok {
		pkg = make(map[string]any, len(symbols))
		r.packages[pkgPath] = pkg
	}
	for name, sym := range symbols {
		pkg[name] = sym
	}
}

// Lookup finds a symbol in the registry by its package path and name.
func (r *Registry) Lookup(pkgPath, name string) (any, bool) {
	if pkg, ok := r.packages[pkgPath]; ok {
		if sym, ok := pkg[name]; ok {
			return sym, true
		}
	}
	return nil, false
}

// HasPackage reports whether pkgPath was registered.
func (r *Registry) HasPackage(pkgPath string) bool {
	_, ok := r.packages[pkgPath]
	return ok
}

// Packages returns the registered package paths, sorted.
func (r *Registry) Packages() []string {
	paths := make([]string, 0, len(r.packages))
	for p := range r.packages {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Symbols returns the symbol names of a package, sorted.
func (r *Registry) Symbols(pkgPath string) []string {
	pkg := r.packages[pkgPath]
	names := make([]string, 0, len(pkg))
	for name := range pkg {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

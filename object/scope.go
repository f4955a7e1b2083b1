package object

import (
	"fmt"
	"sort"
)

// Policy selects how a Scope answers reads and writes.
type Policy int

const (
	// Block scopes read through to their parent. Writes update the nearest
	// existing binding, or create one at this level.
	Block Policy = iota
	// Constant scopes hold a fixed set of bindings and reject writes.
	Constant
	// Shadowing scopes read through to their parent but always write at
	// this level, so the parent is never mutated.
	Shadowing
	// Computed scopes resolve every read with a lookup function.
	Computed
	// Native scopes resolve reads and writes against a host value.
	Native
)

func (p Policy) String() string {
	switch p {
	case Block:
		return "block"
	case Constant:
		return "constant"
	case Shadowing:
		return "shadowing"
	case Computed:
		return "computed"
	case Native:
		return "native"
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

// Location is a write capability for one binding, produced by Scope.Locate.
type Location interface {
	Name() string
	// Load returns the current value, if the binding exists yet.
	Load() (Object, bool)
	Store(v Object) error
}

type slot struct {
	name  string
	value Object
}

func (s *slot) Name() string         { return s.name }
func (s *slot) Load() (Object, bool) { return s.value, true }

func (s *slot) Store(v Object) error {
	s.value = v
	return nil
}

// pending is the location of a binding that does not exist yet; it is
// created at this scope level on the first Store.
type pending struct {
	scope *Scope
	name  string
}

func (p *pending) Name() string { return p.name }

func (p *pending) Load() (Object, bool) {
	if s, ok := p.scope.store[p.name]; ok {
		return s.value, true
	}
	return nil, false
}

func (p *pending) Store(v Object) error {
	p.scope.bind(p.name, v)
	return nil
}

// Scope maps names to values and is chained to an optional parent.
type Scope struct {
	policy Policy
	parent *Scope
	store  map[string]*slot
	names  []string

	lookup func(name string) (Object, bool)
	locate func(name string) (Location, bool)
	list   func() []string
}

// NewBlockScope creates a block scope under parent, which may be nil.
func NewBlockScope(parent *Scope) *Scope {
	return &Scope{policy: Block, parent: parent, store: make(map[string]*slot)}
}

// NewShadowingScope creates a shadowing scope under parent.
func NewShadowingScope(parent *Scope) *Scope {
	return &Scope{policy: Shadowing, parent: parent, store: make(map[string]*slot)}
}

// NewConstantScope creates an immutable scope holding bindings. Reads that
// miss fall back to parent, which may be nil.
func NewConstantScope(parent *Scope, bindings map[string]Object) *Scope {
	s := &Scope{policy: Constant, parent: parent, store: make(map[string]*slot, len(bindings))}
	names := make([]string, 0, len(bindings))
	for name := range bindings {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		s.bind(name, bindings[name])
	}
	return s
}

// NewComputedScope creates a scope whose bindings are produced on demand by
// lookup. list, if non-nil, enumerates the names known in advance.
func NewComputedScope(lookup func(name string) (Object, bool), list func() []string) *Scope {
	return &Scope{policy: Computed, lookup: lookup, list: list}
}

// NewNativeScope creates a scope backed by a host value. locate may be nil
// when nothing is writable.
func NewNativeScope(lookup func(name string) (Object, bool), locate func(name string) (Location, bool), list func() []string) *Scope {
	return &Scope{policy: Native, lookup: lookup, locate: locate, list: list}
}

// Policy returns the write policy of the scope.
func (s *Scope) Policy() Policy { return s.policy }

// Parent returns the enclosing scope, or nil.
func (s *Scope) Parent() *Scope { return s.parent }

// Get resolves name, walking parent links as the policy allows.
func (s *Scope) Get(name string) (Object, bool) {
	switch s.policy {
	case Computed, Native:
		return s.lookup(name)
	}
	if sl, ok := s.store[name]; ok {
		return sl.value, true
	}
	if s.parent != nil {
		return s.parent.Get(name)
	}
	return nil, false
}

// Has reports whether name resolves through this scope.
func (s *Scope) Has(name string) bool {
	_, ok := s.Get(name)
	return ok
}

// HasOwn reports whether name is bound at this level.
func (s *Scope) HasOwn(name string) bool {
	switch s.policy {
	case Computed, Native:
		return s.Has(name)
	}
	_, ok := s.store[name]
	return ok
}

// Locate returns the write capability for name, or false when the scope
// refuses writes to it.
func (s *Scope) Locate(name string) (Location, bool) {
	switch s.policy {
	case Constant, Computed:
		return nil, false
	case Native:
		if s.locate == nil {
			return nil, false
		}
		return s.locate(name)
	case Shadowing:
		if sl, ok := s.store[name]; ok {
			return sl, true
		}
		return &pending{scope: s, name: name}, true
	}

	if sl, ok := s.store[name]; ok {
		return sl, true
	}
	if s.parent != nil && s.parent.Has(name) {
		return s.parent.Locate(name)
	}
	return &pending{scope: s, name: name}, true
}

// Define binds name at this level, replacing any existing binding here.
func (s *Scope) Define(name string, v Object) error {
	switch s.policy {
	case Block, Shadowing:
		s.bind(name, v)
		return nil
	}
	return fmt.Errorf("cannot define %s in a %s scope", name, s.policy)
}

func (s *Scope) bind(name string, v Object) {
	if sl, ok := s.store[name]; ok {
		sl.value = v
		return
	}
	s.store[name] = &slot{name: name, value: v}
	s.names = append(s.names, name)
}

// Reset drops the bindings of this level. Block scopes also reset their
// parent; constant and computed scopes are unaffected.
func (s *Scope) Reset() {
	switch s.policy {
	case Block:
		s.clear()
		if s.parent != nil {
			s.parent.Reset()
		}
	case Shadowing:
		s.clear()
	}
}

func (s *Scope) clear() {
	s.store = make(map[string]*slot)
	s.names = nil
}

// Names returns the names bound at this level in definition order.
func (s *Scope) Names() []string {
	switch s.policy {
	case Computed, Native:
		if s.list == nil {
			return nil
		}
		return s.list()
	}
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

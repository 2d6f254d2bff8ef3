// Package symbols implements the three symbol-table flavors and the shared
// scope-stack discipline from spec.md §4.D: push a frame on block entry, pop
// on exit, innermost-to-outermost lookup for scoped kinds, flat maps for
// globals. All three tables (linter, checker, codegen) are built on the same
// generic ScopeStack, the way the teacher builds its binding tables on a
// shared generic Option[T] (github.com/consensys/go-corset pkg/util/option.go)
// and a name-keyed map discipline (pkg/corset/compiler/scope.go).
package symbols

import "fmt"

// DuplicateError reports a "already declared" conflict: an insertion with a
// duplicate key within the same frame/map, carrying both the new and prior
// declaration, per spec.md §4.D.
type DuplicateError[S any] struct {
	Name     string
	New      S
	Previous S
}

func (e *DuplicateError[S]) Error() string {
	return fmt.Sprintf("'%s' already declared", e.Name)
}

// ScopeStack is a stack of frames mapping identifier -> symbol record,
// shared by all three symbol table flavors. Frame 0 is the outermost
// (module-level) frame; the last frame is innermost.
type ScopeStack[V any] struct {
	frames []map[string]V
}

// NewScopeStack constructs a stack with a single outermost frame already
// pushed, so lookups/inserts work immediately at module scope.
func NewScopeStack[V any]() *ScopeStack[V] {
	return &ScopeStack[V]{frames: []map[string]V{make(map[string]V)}}
}

// BeginScope pushes a new, empty frame (`begin_scope()`, §4.D).
func (s *ScopeStack[V]) BeginScope() {
	s.frames = append(s.frames, make(map[string]V))
}

// EndScope pops the innermost frame (`end_scope()`, §4.D). Panics if called
// with only the outermost frame remaining, since a frame must never be
// accessed after its pop and the outermost frame is never popped (§4.D
// "Lifecycle": "torn down at end of unit", i.e. by discarding the whole
// table, not by popping frame 0).
func (s *ScopeStack[V]) EndScope() {
	if len(s.frames) <= 1 {
		panic("symbols: EndScope called with no nested scope to pop")
	}
	s.frames = s.frames[:len(s.frames)-1]
}

// Depth returns the current stack depth, for the invariant in spec.md §8:
// "After begin_scope/end_scope around any statement, the symbol-table stack
// depth returns to its pre-call value."
func (s *ScopeStack[V]) Depth() int {
	return len(s.frames)
}

// Declare inserts name into the innermost frame. Returns a *DuplicateError
// if name is already present in that same frame (duplicate-within-frame is
// the only case that is an error; shadowing an outer frame's binding is
// allowed, per the innermost-first lookup rule).
func (s *ScopeStack[V]) Declare(name string, value V) *DuplicateError[V] {
	innermost := s.frames[len(s.frames)-1]
	if prior, ok := innermost[name]; ok {
		return &DuplicateError[V]{Name: name, New: value, Previous: prior}
	}
	innermost[name] = value
	return nil
}

// Assign overwrites an existing binding in whichever frame currently holds
// it (used when a pass needs to update a record in place, e.g. marking
// "used"/"mutated"). Returns false if name is not bound in any frame.
func (s *ScopeStack[V]) Assign(name string, value V) bool {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if _, ok := s.frames[i][name]; ok {
			s.frames[i][name] = value
			return true
		}
	}
	return false
}

// Lookup searches innermost to outermost, per spec.md §4.D.
func (s *ScopeStack[V]) Lookup(name string) (V, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if v, ok := s.frames[i][name]; ok {
			return v, true
		}
	}
	var zero V
	return zero, false
}

// InnermostFrame returns the current innermost frame, used by passes that
// need to enumerate just-exited bindings (e.g. the linter's end-of-scope
// "unused" sweep, §4.E) before EndScope discards them.
func (s *ScopeStack[V]) InnermostFrame() map[string]V {
	return s.frames[len(s.frames)-1]
}

// FlatMap is the non-stacked, per-function map used for parameters (§4.D:
// "Parameters live in a flat (non-stacked) per-function map cleared at
// function boundary") and for the globals that live outside any scope
// (functions, structs, enums, consts, statics, type aliases, intrinsics,
// asm functions).
type FlatMap[V any] struct {
	entries map[string]V
}

func NewFlatMap[V any]() *FlatMap[V] {
	return &FlatMap[V]{entries: make(map[string]V)}
}

// Declare inserts name, reporting a DuplicateError on conflict.
func (f *FlatMap[V]) Declare(name string, value V) *DuplicateError[V] {
	if prior, ok := f.entries[name]; ok {
		return &DuplicateError[V]{Name: name, New: value, Previous: prior}
	}
	f.entries[name] = value
	return nil
}

// Assign overwrites an existing entry in place.
func (f *FlatMap[V]) Assign(name string, value V) bool {
	if _, ok := f.entries[name]; !ok {
		return false
	}
	f.entries[name] = value
	return true
}

func (f *FlatMap[V]) Lookup(name string) (V, bool) {
	v, ok := f.entries[name]
	return v, ok
}

// Clear empties the map — used when a flat parameter map is cleared at a
// function boundary.
func (f *FlatMap[V]) Clear() {
	f.entries = make(map[string]V)
}

// All returns every entry, for the linter's global-warning sweep at unit
// exit (§4.E). Iteration order is not guaranteed by Go maps; callers that
// need determinism (e.g. for reproducible diagnostics ordering) should sort
// by name.
func (f *FlatMap[V]) All() map[string]V {
	return f.entries
}

package types

import "github.com/thrush-lang/thrushc/internal/source"

// Arena interns Struct types by name, the way the teacher interns column and
// function bindings by name in a flat map rather than by structural value
// (github.com/consensys/go-corset pkg/corset/compiler/scope.go: `ids
// map[BindingId]uint`). Recursive struct definitions — a field whose type is
// (a pointer to) the struct currently being declared — need this: the
// declaration must be registered under its name *before* its field types are
// built, so that a self-reference resolves to the same *Struct instance
// instead of recursing into the type builder forever.
type Arena struct {
	byName map[string]*Struct
}

// NewArena constructs an empty interning arena, one per translation unit.
func NewArena() *Arena {
	return &Arena{byName: make(map[string]*Struct)}
}

// Declare registers an opaque placeholder for a struct named `name`, to be
// filled in later via SetFields once its field types have been built. This
// mirrors codegen's own "declare the opaque struct first, then set its body"
// two-step (§9 Design Notes) one level up, at the type-model layer.
func (a *Arena) Declare(name string, span source.Span) *Struct {
	if existing, ok := a.byName[name]; ok {
		return existing
	}
	s := &Struct{Name: name, span: span}
	a.byName[name] = s
	return s
}

// SetFields fills in the fields/modifiers of a previously-declared struct.
func (a *Arena) SetFields(name string, fields []Type, modifiers []string) {
	s, ok := a.byName[name]
	if !ok {
		panic("types: SetFields on undeclared struct " + name)
	}
	s.Fields = fields
	s.Modifiers = modifiers
}

// Lookup returns the interned struct for name, or nil if never declared.
func (a *Arena) Lookup(name string) *Struct {
	return a.byName[name]
}

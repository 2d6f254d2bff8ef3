// Package types implements the structurally-compared algebraic type model
// described in spec.md §4.A: scalars, pointer/const/array/struct/fn layers,
// the numeric widening hierarchy, bit-width queries, cast legality, and
// common-type promotion. Both the type checker (internal/typechecker) and
// the codegen engine's implicit-cast helpers (internal/codegen) are built on
// top of this package.
//
// The variant set is modelled the way the teacher models its own algebraic
// Type (github.com/consensys/go-corset pkg/corset/ast/type.go): one Go
// interface with one concrete struct per variant, rather than a tagged
// union, since Go has no sum types.
package types

import "github.com/thrush-lang/thrushc/internal/source"

// Type is the closed set of type variants named in spec.md §3. Every
// variant carries the Span of the syntax that introduced it, so a
// diagnostic can always point at source even when the type itself was
// synthesized (e.g. by Promote).
type Type interface {
	// Kind reports which variant this is.
	Kind() Kind
	// Span returns the source span this type was constructed from.
	Span() source.Span
	// String renders the type the way diagnostics quote it, e.g. "s32",
	// "ptr[s32]", "const s32".
	String() string
}

// Scalar is every Type variant with no payload beyond its Kind and Span:
// the numeric/bool/char family plus Void/Addr/NullPtr.
type Scalar struct {
	kind Kind
	span source.Span
}

// NewScalar constructs a scalar type of the given kind.
func NewScalar(kind Kind, span source.Span) *Scalar {
	return &Scalar{kind: kind, span: span}
}

// Kind reports which variant this is.
func (s *Scalar) Kind() Kind { return s.kind }

// Span returns the source span this type was constructed from.
func (s *Scalar) Span() source.Span { return s.span }

func (s *Scalar) String() string { return scalarNames[s.kind] }

var scalarNames = map[Kind]string{
	KindS8: "s8", KindS16: "s16", KindS32: "s32", KindS64: "s64", KindSSize: "ssize",
	KindU8: "u8", KindU16: "u16", KindU32: "u32", KindU64: "u64", KindU128: "u128", KindUSize: "usize",
	KindBool: "bool", KindChar: "char",
	KindF32: "f32", KindF64: "f64", KindF128: "f128", KindFX8680: "fx8680", KindFPPC128: "fppc128",
	KindAddr: "addr", KindVoid: "void", KindNullPtr: "nullptr",
}

// Ptr is `Ptr(Option<Type>)`: a pointer, opaque when Pointee is nil.
// Construction panics on `Ptr(Some Void)` per the invariant in spec.md §3.
type Ptr struct {
	Pointee Type // nil means opaque (Ptr(None))
	span    source.Span
}

// NewPtr constructs a pointer type. Passing a nil pointee yields an opaque
// pointer; passing a Void pointee panics (§3 invariant: `Ptr(Some Void)` is
// forbidden at construction).
func NewPtr(pointee Type, span source.Span) *Ptr {
	if pointee != nil && pointee.Kind() == KindVoid {
		panic("types: Ptr(Some Void) is forbidden")
	}
	return &Ptr{Pointee: pointee, span: span}
}

func (p *Ptr) Kind() Kind        { return KindPtr }
func (p *Ptr) Span() source.Span { return p.span }
func (p *Ptr) String() string {
	if p.Pointee == nil {
		return "ptr"
	}
	return "ptr[" + p.Pointee.String() + "]"
}

// Const is `Const(Type)`. Construction panics on `Const(Const(T))` per the
// invariant in spec.md §3.
type Const struct {
	Inner Type
	span  source.Span
}

// NewConst constructs a const-qualified type. Wrapping an already-const
// type panics (§3 invariant).
func NewConst(inner Type, span source.Span) *Const {
	if inner.Kind() == KindConst {
		panic("types: Const(Const(T)) is forbidden")
	}
	return &Const{Inner: inner, span: span}
}

func (c *Const) Kind() Kind        { return KindConst }
func (c *Const) Span() source.Span { return c.span }
func (c *Const) String() string    { return "const " + c.Inner.String() }

// Array is `Array(Type)`: a dynamically-sized array of elements.
type Array struct {
	Element Type
	span    source.Span
}

func NewArray(element Type, span source.Span) *Array { return &Array{Element: element, span: span} }

func (a *Array) Kind() Kind        { return KindArray }
func (a *Array) Span() source.Span { return a.span }
func (a *Array) String() string    { return "array[" + a.Element.String() + "]" }

// FixedArray is `FixedArray(Type, u32)`. Construction panics when Size < 1
// per the invariant in spec.md §3 (the parser is expected to reject a
// zero-length literal before this constructor is ever reached; see §8
// "Boundary behavior").
type FixedArray struct {
	Element Type
	Size    uint32
	span    source.Span
}

func NewFixedArray(element Type, size uint32, span source.Span) *FixedArray {
	if size < 1 {
		panic("types: FixedArray size must be >= 1")
	}
	return &FixedArray{Element: element, Size: size, span: span}
}

func (f *FixedArray) Kind() Kind        { return KindFixedArray }
func (f *FixedArray) Span() source.Span { return f.span }
func (f *FixedArray) String() string {
	return "fixedarray[" + f.Element.String() + "; N]"
}

// Struct is `Struct(name, [Type], modifiers)`. Name uniquely identifies the
// declaration (§3 invariant), so Equals compares two Struct values by name
// only; fields and modifiers are not compared.
// Modifiers is a string slice rather than attributes.Set to avoid a
// dependency cycle between internal/types and internal/attributes; the
// checker/codegen translate attributes.Set into this form when building a
// Struct type from a declaration.
type Struct struct {
	Name      string
	Fields    []Type
	Modifiers []string
	span      source.Span
}

func NewStruct(name string, fields []Type, modifiers []string, span source.Span) *Struct {
	return &Struct{Name: name, Fields: fields, Modifiers: modifiers, span: span}
}

func (s *Struct) Kind() Kind        { return KindStruct }
func (s *Struct) Span() source.Span { return s.span }
func (s *Struct) String() string    { return s.Name }

// Fn is `Fn([Type], Type, modifiers)`.
type Fn struct {
	Params     []Type
	Return     Type
	Modifiers  []string
	IsVariadic bool
	span       source.Span
}

func NewFn(params []Type, ret Type, modifiers []string, variadic bool, span source.Span) *Fn {
	return &Fn{Params: params, Return: ret, Modifiers: modifiers, IsVariadic: variadic, span: span}
}

func (f *Fn) Kind() Kind        { return KindFn }
func (f *Fn) Span() source.Span { return f.span }
func (f *Fn) String() string {
	s := "fn("
	for i, p := range f.Params {
		if i > 0 {
			s += ", "
		}
		s += p.String()
	}
	return s + ") " + f.Return.String()
}

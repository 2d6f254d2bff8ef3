package ast

import (
	"github.com/thrush-lang/thrushc/internal/source"
	"github.com/thrush-lang/thrushc/internal/types"
)

// BinaryOperator enumerates the operators BinaryOp can carry.
type BinaryOperator uint8

const (
	OpAdd BinaryOperator = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpEq
	OpNeq
	OpLt
	OpLte
	OpGt
	OpGte
	OpAnd // &&
	OpOr  // ||
	OpBitAnd
	OpBitOr
	OpBitXor
	OpShl
	OpShr
)

// BinaryOp is a binary expression, e.g. `a + b`.
type BinaryOp struct {
	base
	Op          BinaryOperator
	Left, Right Expr
	Typ         types.Type
}

func NewBinaryOp(op BinaryOperator, left, right Expr, typ types.Type, span source.Span) *BinaryOp {
	return &BinaryOp{base: base{span}, Op: op, Left: left, Right: right, Typ: typ}
}

func (b *BinaryOp) ValueType() types.Type { return b.Typ }
func (*BinaryOp) isExpr()                 {}

// UnaryOperator enumerates the operators UnaryOp can carry.
type UnaryOperator uint8

const (
	OpNeg    UnaryOperator = iota // -
	OpNot                         // !
	OpBitNot                      // ~
	OpIncr                        // ++
	OpDecr                        // --
)

// UnaryOp is a unary expression. IsPre distinguishes `++x` from `x++`.
type UnaryOp struct {
	base
	Op        UnaryOperator
	Operand   Expr
	IsPre     bool
	Typ       types.Type
}

func NewUnaryOp(op UnaryOperator, operand Expr, isPre bool, typ types.Type, span source.Span) *UnaryOp {
	return &UnaryOp{base: base{span}, Op: op, Operand: operand, IsPre: isPre, Typ: typ}
}

func (u *UnaryOp) ValueType() types.Type { return u.Typ }
func (*UnaryOp) isExpr()                 {}

// Group is a parenthesized expression, e.g. `(a + b)`. Preserved as its own
// node (rather than elided by the parser) because §9's design note on
// `&&`/`||` short-circuiting keys off "a Group-over-BinaryOp pattern".
type Group struct {
	base
	Inner Expr
}

func NewGroup(inner Expr, span source.Span) *Group {
	return &Group{base: base{span}, Inner: inner}
}

func (g *Group) ValueType() types.Type { return g.Inner.ValueType() }
func (*Group) isExpr()                 {}

// As is a cast expression: `expr as T`.
type As struct {
	base
	Value     Expr
	Target    types.Type
	Allocated bool // whether Value is allocated, for check_cast's allocated? parameter
}

func NewAs(value Expr, target types.Type, allocated bool, span source.Span) *As {
	return &As{base: base{span}, Value: value, Target: target, Allocated: allocated}
}

func (a *As) ValueType() types.Type { return a.Target }
func (*As) isExpr()                 {}

// Deref is `*expr`: loads through a pointer expression.
type Deref struct {
	base
	Value Expr
	Typ   types.Type
}

func NewDeref(value Expr, typ types.Type, span source.Span) *Deref {
	return &Deref{base: base{span}, Value: value, Typ: typ}
}

func (d *Deref) ValueType() types.Type { return d.Typ }
func (*Deref) isExpr()                 {}

// DirectRef is a direct (unqualified) reference used in contexts where the
// resolver has already distinguished it from a general Reference (e.g.
// inside an asm operand list).
type DirectRef struct {
	base
	Name string
	Typ  types.Type
}

func NewDirectRef(name string, typ types.Type, span source.Span) *DirectRef {
	return &DirectRef{base: base{span}, Name: name, Typ: typ}
}

func (d *DirectRef) ValueType() types.Type { return d.Typ }
func (*DirectRef) isExpr()                 {}

// Load explicitly requests a load from a pointer-valued expression.
type Load struct {
	base
	Pointer Expr
	Typ     types.Type
}

func NewLoad(pointer Expr, typ types.Type, span source.Span) *Load {
	return &Load{base: base{span}, Pointer: pointer, Typ: typ}
}

func (l *Load) ValueType() types.Type { return l.Typ }
func (*Load) isExpr()                 {}

// Write stores Value into the memory named by Destination; used where a
// store must be expressed as an expression result (e.g. assembler operands).
type Write struct {
	base
	Destination Expr
	Value       Expr
}

func NewWrite(destination, value Expr, span source.Span) *Write {
	return &Write{base: base{span}, Destination: destination, Value: value}
}

func (w *Write) ValueType() types.Type { return types.NewScalar(types.KindVoid, w.span) }
func (*Write) isExpr()                 {}

// Address takes the address of Value without loading it (an unconditional
// GEP, per spec.md §4.H).
type Address struct {
	base
	Value Expr
	Typ   types.Type
}

func NewAddress(value Expr, typ types.Type, span source.Span) *Address {
	return &Address{base: base{span}, Value: value, Typ: typ}
}

func (a *Address) ValueType() types.Type { return a.Typ }
func (*Address) isExpr()                 {}

// Indirect represents one level of pointer indirection requested explicitly
// by the parser (distinct from Deref when the resolver needs to track
// indirection depth, e.g. for multi-level pointers in asm operands).
type Indirect struct {
	base
	Value Expr
	Typ   types.Type
}

func NewIndirect(value Expr, typ types.Type, span source.Span) *Indirect {
	return &Indirect{base: base{span}, Value: value, Typ: typ}
}

func (i *Indirect) ValueType() types.Type { return i.Typ }
func (*Indirect) isExpr()                 {}

// Call is a function call expression.
type Call struct {
	base
	Callee    string
	Arguments []Expr
	Typ       types.Type
}

func NewCall(callee string, arguments []Expr, typ types.Type, span source.Span) *Call {
	return &Call{base: base{span}, Callee: callee, Arguments: arguments, Typ: typ}
}

func (c *Call) ValueType() types.Type { return c.Typ }
func (*Call) isExpr()                 {}

// Index is `array[idx]`.
type Index struct {
	base
	Source Expr
	Idx    Expr
	Typ    types.Type
	Meta   Metadata
}

func NewIndex(sourceExpr, idx Expr, typ types.Type, meta Metadata, span source.Span) *Index {
	return &Index{base: base{span}, Source: sourceExpr, Idx: idx, Typ: typ, Meta: meta}
}

func (i *Index) ValueType() types.Type { return i.Typ }
func (*Index) isExpr()                 {}

// Property is `struct.field`.
type Property struct {
	base
	Source    Expr
	FieldName string
	FieldIdx  uint32
	Typ       types.Type
	Meta      Metadata
}

func NewProperty(sourceExpr Expr, fieldName string, fieldIdx uint32, typ types.Type, meta Metadata, span source.Span) *Property {
	return &Property{base: base{span}, Source: sourceExpr, FieldName: fieldName, FieldIdx: fieldIdx, Typ: typ, Meta: meta}
}

func (p *Property) ValueType() types.Type { return p.Typ }
func (*Property) isExpr()                 {}

// Reference is a bare identifier reference, resolved against the symbol
// table at the point of use.
type Reference struct {
	base
	Name string
	Typ  types.Type
	Meta Metadata
}

func NewReference(name string, typ types.Type, meta Metadata, span source.Span) *Reference {
	return &Reference{base: base{span}, Name: name, Typ: typ, Meta: meta}
}

func (r *Reference) ValueType() types.Type { return r.Typ }
func (*Reference) isExpr()                 {}

// ConstructorField is one `name: value` pair inside a Constructor literal.
type ConstructorField struct {
	Name  string
	Value Expr
}

// Constructor is a struct literal, e.g. `Pair{ a: 1, b: 2 }`. Requires a
// pointer anchor at codegen time (spec.md §4.H).
type Constructor struct {
	base
	StructName string
	Fields     []ConstructorField
	Typ        types.Type
}

func NewConstructor(structName string, fields []ConstructorField, typ types.Type, span source.Span) *Constructor {
	return &Constructor{base: base{span}, StructName: structName, Fields: fields, Typ: typ}
}

func (c *Constructor) ValueType() types.Type { return c.Typ }
func (*Constructor) isExpr()                 {}

// Array is a dynamically-sized array literal.
type Array struct {
	base
	Elements []Expr
	Typ      types.Type
}

func NewArray(elements []Expr, typ types.Type, span source.Span) *Array {
	return &Array{base: base{span}, Elements: elements, Typ: typ}
}

func (a *Array) ValueType() types.Type { return a.Typ }
func (*Array) isExpr()                 {}

// FixedArray is a compile-time-sized array literal.
type FixedArray struct {
	base
	Elements []Expr
	Typ      types.Type
}

func NewFixedArray(elements []Expr, typ types.Type, span source.Span) *FixedArray {
	return &FixedArray{base: base{span}, Elements: elements, Typ: typ}
}

func (f *FixedArray) ValueType() types.Type { return f.Typ }
func (*FixedArray) isExpr()                 {}

// BuiltinKind enumerates the builtins named in spec.md §4.H.
type BuiltinKind uint8

const (
	BuiltinSizeOf BuiltinKind = iota
	BuiltinAlignOf
	BuiltinAbiSizeOf
	BuiltinAbiAlignOf
	BuiltinBitSizeOf
	BuiltinMemcpy
	BuiltinMemmove
	BuiltinMemset
	BuiltinHalloc
)

// Builtin is a call to one of the compiler-intrinsic builtins.
type Builtin struct {
	base
	Kind      BuiltinKind
	TypeArg   types.Type // for size_of/align_of/... family; nil for memcpy/memmove/memset/halloc
	Arguments []Expr     // for memcpy/memmove/memset/halloc
	Typ       types.Type
}

func NewBuiltin(kind BuiltinKind, typeArg types.Type, arguments []Expr, typ types.Type, span source.Span) *Builtin {
	return &Builtin{base: base{span}, Kind: kind, TypeArg: typeArg, Arguments: arguments, Typ: typ}
}

func (b *Builtin) ValueType() types.Type { return b.Typ }
func (*Builtin) isExpr()                 {}

// AsmValue is an inline-asm expression (`AssemblerFunction`'s expression
// counterpart), carrying the asm template, constraints, and operands.
type AsmValue struct {
	base
	Assembly    string
	Constraints string
	Operands    []Expr
	Typ         types.Type
}

func NewAsmValue(assembly, constraints string, operands []Expr, typ types.Type, span source.Span) *AsmValue {
	return &AsmValue{base: base{span}, Assembly: assembly, Constraints: constraints, Operands: operands, Typ: typ}
}

func (a *AsmValue) ValueType() types.Type { return a.Typ }
func (*AsmValue) isExpr()                 {}

// EnumValue is `EnumName.Variant`.
type EnumValue struct {
	base
	EnumName    string
	VariantName string
	Typ         types.Type
}

func NewEnumValue(enumName, variantName string, typ types.Type, span source.Span) *EnumValue {
	return &EnumValue{base: base{span}, EnumName: enumName, VariantName: variantName, Typ: typ}
}

func (e *EnumValue) ValueType() types.Type { return e.Typ }
func (*EnumValue) isExpr()                 {}

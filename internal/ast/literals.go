package ast

import (
	"math/big"

	"github.com/thrush-lang/thrushc/internal/source"
	"github.com/thrush-lang/thrushc/internal/types"
)

// Integer is an integer literal. Value is a *big.Int (not int64) so a u128
// literal like u64::MAX can round-trip without truncation (§8 "Boundary
// behavior": "u64::MAX literal in a U64 local: stored verbatim") — grounded
// in the teacher's own use of math/big for numeric constants
// (pkg/corset/ast/type.go imports "math/big").
type Integer struct {
	base
	Value *big.Int
	Typ   types.Type
}

func NewInteger(value *big.Int, typ types.Type, span source.Span) *Integer {
	return &Integer{base: base{span}, Value: value, Typ: typ}
}

func (i *Integer) ValueType() types.Type { return i.Typ }
func (*Integer) isExpr()                 {}

// Float is a floating point literal.
type Float struct {
	base
	Value float64
	Typ   types.Type
}

func NewFloat(value float64, typ types.Type, span source.Span) *Float {
	return &Float{base: base{span}, Value: value, Typ: typ}
}

func (f *Float) ValueType() types.Type { return f.Typ }
func (*Float) isExpr()                 {}

// Boolean is a boolean literal.
type Boolean struct {
	base
	Value bool
}

func NewBoolean(value bool, span source.Span) *Boolean {
	return &Boolean{base: base{span}, Value: value}
}

func (b *Boolean) ValueType() types.Type { return types.NewScalar(types.KindBool, b.span) }
func (*Boolean) isExpr()                 {}

// Char is a character literal.
type Char struct {
	base
	Value rune
}

func NewChar(value rune, span source.Span) *Char {
	return &Char{base: base{span}, Value: value}
}

func (c *Char) ValueType() types.Type { return types.NewScalar(types.KindChar, c.span) }
func (*Char) isExpr()                 {}

// Str is a string literal, lowered by codegen into a private global byte
// array plus a GEP to its first element (spec.md §4.H).
type Str struct {
	base
	Value string
}

func NewStr(value string, span source.Span) *Str {
	return &Str{base: base{span}, Value: value}
}

// ValueType of a string literal is `ptr[array[char]]` (the "str" spelling,
// §9 Open Question 3 — resolved in SPEC_FULL.md §6 as a true structural
// synonym).
func (s *Str) ValueType() types.Type {
	return types.NewPtr(types.NewArray(types.NewScalar(types.KindChar, s.span), s.span), s.span)
}
func (*Str) isExpr() {}

// NullPtrLiteral is the `nullptr` literal.
type NullPtrLiteral struct {
	base
}

func NewNullPtrLiteral(span source.Span) *NullPtrLiteral {
	return &NullPtrLiteral{base: base{span}}
}

func (n *NullPtrLiteral) ValueType() types.Type { return types.NewScalar(types.KindNullPtr, n.span) }
func (*NullPtrLiteral) isExpr()                 {}

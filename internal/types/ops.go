package types

import (
	"fmt"

	"github.com/thrush-lang/thrushc/internal/source"
)

// Equals implements the structural equality rule from spec.md §4.A: two
// Structs compare equal iff their names match (see below); two Fns iff
// parameter lists and return types match; Const(T) =
// Const(T); Ptr(None) = Ptr(None); Ptr(Some T) = Ptr(Some T) recursively.
//
// Recursive structs are compared by name only (see the arena in interning.go
// and the design note in SPEC_FULL.md §9): once two Struct values' Name
// fields match we do not re-descend into Fields, which would otherwise
// recurse forever on a self-referential struct.
func Equals(a, b Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind() != b.Kind() {
		return false
	}

	switch av := a.(type) {
	case *Scalar:
		return true // Kind already matched.
	case *Ptr:
		bv := b.(*Ptr)
		if av.Pointee == nil || bv.Pointee == nil {
			return av.Pointee == nil && bv.Pointee == nil
		}
		return Equals(av.Pointee, bv.Pointee)
	case *Const:
		return Equals(av.Inner, b.(*Const).Inner)
	case *Array:
		return Equals(av.Element, b.(*Array).Element)
	case *FixedArray:
		bv := b.(*FixedArray)
		return av.Size == bv.Size && Equals(av.Element, bv.Element)
	case *Struct:
		bv := b.(*Struct)
		if av.Name != bv.Name {
			return false
		}
		// Name match is sufficient: the type table guarantees a Struct name
		// uniquely identifies a single declaration (§3 invariant), so two
		// Structs with the same name are always the same declaration and a
		// field-by-field walk would only ever recurse into itself for
		// self-referential types.
		return true
	case *Fn:
		bv := b.(*Fn)
		if len(av.Params) != len(bv.Params) || !Equals(av.Return, bv.Return) {
			return false
		}
		for i := range av.Params {
			if !Equals(av.Params[i], bv.Params[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// IsInteger reports whether t is one of the signed or unsigned integer
// scalars.
func IsInteger(t Type) bool {
	k := t.Kind()
	return indexOf(signedOrder, k) >= 0 || indexOf(unsignedOrder, k) >= 0
}

// IsSignedInteger reports whether t is one of the signed integer scalars.
func IsSignedInteger(t Type) bool {
	return indexOf(signedOrder, t.Kind()) >= 0
}

// IsUnsignedInteger reports whether t is one of the unsigned integer scalars.
func IsUnsignedInteger(t Type) bool {
	return indexOf(unsignedOrder, t.Kind()) >= 0
}

// IsFloat reports whether t is one of the float scalars.
func IsFloat(t Type) bool {
	switch t.Kind() {
	case KindF32, KindF64, KindF128, KindFX8680, KindFPPC128:
		return true
	default:
		return false
	}
}

// IsNumeric reports whether t is an integer or float scalar.
func IsNumeric(t Type) bool { return IsInteger(t) || IsFloat(t) }

// IsBool reports whether t is the Bool scalar.
func IsBool(t Type) bool { return t.Kind() == KindBool }

// IsChar reports whether t is the Char scalar.
func IsChar(t Type) bool { return t.Kind() == KindChar }

// IsPtr reports whether t is a Ptr.
func IsPtr(t Type) bool { return t.Kind() == KindPtr }

// IsPtrLike reports whether t is a Ptr, Addr, or NullPtr — anything that can
// participate in pointer-shaped comparisons and casts.
func IsPtrLike(t Type) bool {
	switch t.Kind() {
	case KindPtr, KindAddr, KindNullPtr:
		return true
	default:
		return false
	}
}

// IsConst reports whether t is a Const wrapper.
func IsConst(t Type) bool { return t.Kind() == KindConst }

// IsStruct reports whether t is a Struct.
func IsStruct(t Type) bool { return t.Kind() == KindStruct }

// IsArray reports whether t is an Array or FixedArray.
func IsArray(t Type) bool { return t.Kind() == KindArray || t.Kind() == KindFixedArray }

// IsFn reports whether t is a Fn.
func IsFn(t Type) bool { return t.Kind() == KindFn }

// IsVoid reports whether t is the Void scalar.
func IsVoid(t Type) bool { return t.Kind() == KindVoid }

// BitWidth returns the bit width of a scalar type. The second return value
// is false for Void and aggregate types, which have no fixed scalar width.
func BitWidth(t Type) (uint32, bool) {
	w, ok := bitWidths[t.Kind()]
	return w, ok
}

// Deref implements `deref(Ptr(Some T)) -> T`; `deref(Const T) -> T`; else
// identity, per spec.md §4.A.
func Deref(t Type) Type {
	switch v := t.(type) {
	case *Ptr:
		if v.Pointee != nil {
			return v.Pointee
		}
		return t
	case *Const:
		return v.Inner
	default:
		return t
	}
}

// Promote implements `promote(a, b) -> Type`: the greatest scalar in the
// integer or float hierarchy covering both. It is undefined (panics) for
// mixed int/float — per spec.md §4.A the caller must resolve that case
// itself (the checker/codegen never call Promote across categories; see
// internal/codegen's integer_together/float_together helpers, which dispatch
// on category before ever reaching here).
func Promote(a, b Type) Type {
	if IsInteger(a) && IsInteger(b) {
		return promoteInteger(a, b)
	}
	if IsFloat(a) && IsFloat(b) {
		return promoteFloat(a, b)
	}
	panic(fmt.Sprintf("types: Promote called on incompatible categories %s/%s", a, b))
}

func promoteInteger(a, b Type) Type {
	aSigned, bSigned := IsSignedInteger(a), IsSignedInteger(b)
	if aSigned != bSigned {
		// Cross-sign widening is allowed only when the source expression is
		// a literal (§4.A); Promote itself is sign-agnostic and simply picks
		// the wider of the two hierarchies, favouring signed so the checker
		// can apply the literal-only restriction at the call site.
		if aSigned {
			return widerOf(signedOrder, a, b)
		}
		return widerOf(signedOrder, b, a)
	}
	order := unsignedOrder
	if aSigned {
		order = signedOrder
	}
	ai, bi := indexOf(order, a.Kind()), indexOf(order, b.Kind())
	if ai >= bi {
		return a
	}
	return b
}

// widerOf returns whichever of signed/unsigned has the greater bit width,
// preferring the signed type when widths tie (so an unsigned literal
// promotes into the signed local it is assigned to, per narrowing_cast).
func widerOf(signedOrderHint []Kind, signed, unsigned Type) Type {
	sw, _ := BitWidth(signed)
	uw, _ := BitWidth(unsigned)
	if uw > sw {
		return unsigned
	}
	return signed
}

func promoteFloat(a, b Type) Type {
	// FX8680 and FPPC128 are incompatible with each other and with the
	// F32/F64/F128 chain (§3); Promote only ever sees values already
	// confirmed compatible by the checker, so a direct Kind comparison is
	// sufficient here.
	if a.Kind() == b.Kind() {
		return a
	}
	ai, bi := indexOf(floatOrder, a.Kind()), indexOf(floatOrder, b.Kind())
	if ai < 0 || bi < 0 {
		panic(fmt.Sprintf("types: Promote called on incompatible float kinds %s/%s", a, b))
	}
	if ai >= bi {
		return a
	}
	return b
}

// NarrowingCast implements `narrowing_cast(Ux) -> Sx`: rewrites an unsigned
// scalar kind to its same-width signed counterpart, except U128, which maps
// to S64 since there is no 128-bit signed kind. Used when a unary `-`
// is applied to an unsigned literal (§4.A, §9 "Unsigned negation") so the
// checker sees a signed literal afterward.
func NarrowingCast(t Type) Type {
	pairs := map[Kind]Kind{
		KindU8: KindS8, KindU16: KindS16, KindU32: KindS32,
		KindU64: KindS64, KindU128: KindS64, KindUSize: KindSSize,
	}
	signedKind, ok := pairs[t.Kind()]
	if !ok {
		return t
	}
	return NewScalar(signedKind, t.Span())
}

// CastError describes why `expr as T` is illegal, quoting both types and the
// span of the cast expression (§4.A: "All mismatches construct a diagnostic
// containing both types and the source span").
type CastError struct {
	From, To Type
	Span     source.Span
}

func (e *CastError) Error() string {
	return fmt.Sprintf("cannot cast '%s' to '%s'", e.From, e.To)
}

// CheckCast implements `check_cast(from, to, allocated?) -> Result<(), Error>`
// per the legality table in spec.md §4.A:
//
//	ptr <-> integer:                          always OK
//	int <-> int, float <-> float:              OK
//	ptr <-> ptr:                               OK (variant pointee)
//	value-of-numeric/struct/array <-> ptr:     OK iff allocated
//	ptr <-> const ptr:                         recurse on pointees
func CheckCast(from, to Type, allocated bool) error {
	fromConst, toConst := IsConst(from), IsConst(to)
	if fromConst || toConst {
		// "ptr <-> const ptr: recurse on pointees" generalises to "recurse
		// through Const wrappers on either side."
		inner := from
		if fromConst {
			inner = from.(*Const).Inner
		}
		target := to
		if toConst {
			target = to.(*Const).Inner
		}
		return CheckCast(inner, target, allocated)
	}

	switch {
	case IsPtrLike(from) && IsInteger(to):
		return nil
	case IsInteger(from) && IsPtrLike(to):
		return nil
	case IsInteger(from) && IsInteger(to):
		return nil
	case IsFloat(from) && IsFloat(to):
		return nil
	case IsPtrLike(from) && IsPtrLike(to):
		return nil
	case (IsNumeric(from) || IsStruct(from) || IsArray(from)) && IsPtrLike(to):
		if allocated {
			return nil
		}
		return &CastError{From: from, To: to, Span: to.Span()}
	default:
		return &CastError{From: from, To: to, Span: to.Span()}
	}
}

package types

import (
	"testing"

	"github.com/thrush-lang/thrushc/internal/source"
)

var noSpan = source.Span{}

func TestEqualsScalars(t *testing.T) {
	tests := []struct {
		a, b Type
		want bool
	}{
		{NewScalar(KindS32, noSpan), NewScalar(KindS32, noSpan), true},
		{NewScalar(KindS32, noSpan), NewScalar(KindU32, noSpan), false},
		{NewPtr(nil, noSpan), NewPtr(nil, noSpan), true},
		{NewPtr(NewScalar(KindS32, noSpan), noSpan), NewPtr(NewScalar(KindS32, noSpan), noSpan), true},
		{NewPtr(NewScalar(KindS32, noSpan), noSpan), NewPtr(nil, noSpan), false},
		{NewConst(NewScalar(KindS8, noSpan), noSpan), NewConst(NewScalar(KindS8, noSpan), noSpan), true},
	}

	for _, tt := range tests {
		if got := Equals(tt.a, tt.b); got != tt.want {
			t.Errorf("Equals(%s, %s) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestEqualsStructByName(t *testing.T) {
	// Recursive struct: a field typed Ptr(Struct("Node", ...)) pointing back
	// at itself must compare equal without infinite recursion.
	arena := NewArena()
	node := arena.Declare("Node", noSpan)
	selfPtr := NewPtr(node, noSpan)
	arena.SetFields("Node", []Type{NewScalar(KindS32, noSpan), selfPtr}, nil)

	other := arena.Lookup("Node")
	if !Equals(node, other) {
		t.Fatalf("expected interned Node to compare equal to itself")
	}
}

func TestPromoteInteger(t *testing.T) {
	a := NewScalar(KindS16, noSpan)
	b := NewScalar(KindS32, noSpan)
	got := Promote(a, b)
	if got.Kind() != KindS32 {
		t.Errorf("Promote(s16, s32) = %s, want s32", got)
	}
}

func TestPromoteIdempotent(t *testing.T) {
	a := NewScalar(KindS16, noSpan)
	b := NewScalar(KindS32, noSpan)
	once := Promote(a, b)
	twice := Promote(once, b)
	if !Equals(once, twice) {
		t.Errorf("Promote not idempotent: %s vs %s", once, twice)
	}
}

func TestNarrowingCast(t *testing.T) {
	u8 := NewScalar(KindU8, noSpan)
	s8 := NarrowingCast(u8)
	if s8.Kind() != KindS8 {
		t.Errorf("NarrowingCast(u8) = %s, want s8", s8)
	}
}

func TestCheckCastPtrToInt(t *testing.T) {
	p := NewPtr(nil, noSpan)
	u64 := NewScalar(KindU64, noSpan)
	if err := CheckCast(p, u64, false); err != nil {
		t.Errorf("ptr as u64 should always be legal, got %v", err)
	}
}

func TestCheckCastNumericToPtrRequiresAllocated(t *testing.T) {
	i := NewScalar(KindF64, noSpan)
	p := NewPtr(nil, noSpan)

	if err := CheckCast(i, p, false); err == nil {
		t.Errorf("f64 as ptr should fail when not allocated")
	}
	if err := CheckCast(i, p, true); err != nil {
		t.Errorf("f64 as ptr should succeed when allocated, got %v", err)
	}
}

func TestCheckCastConstPtrRecursesOnPointee(t *testing.T) {
	inner := NewScalar(KindS32, noSpan)
	from := NewConst(NewPtr(inner, noSpan), noSpan)
	to := NewPtr(NewScalar(KindU8, noSpan), noSpan)

	if err := CheckCast(from, to, false); err != nil {
		t.Errorf("const ptr[s32] as ptr[u8] should be legal (ptr<->ptr), got %v", err)
	}
}

func TestFixedArrayRejectsZeroSize(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("expected panic constructing zero-length FixedArray")
		}
	}()
	NewFixedArray(NewScalar(KindS32, noSpan), 0, noSpan)
}

package types

// Kind tags which variant of Type a given value is. Go has no closed sum
// type, so every Type implementation carries one of these and the engine
// type-switches on the concrete type when it needs variant-specific fields;
// Kind exists for the cheap checks (predicates, hierarchy comparisons) that
// would otherwise need a full type switch.
type Kind uint8

const (
	KindS8 Kind = iota
	KindS16
	KindS32
	KindS64
	KindSSize
	KindU8
	KindU16
	KindU32
	KindU64
	KindU128
	KindUSize
	KindBool
	KindChar
	KindF32
	KindF64
	KindF128
	KindFX8680
	KindFPPC128
	KindPtr
	KindConst
	KindArray
	KindFixedArray
	KindStruct
	KindFn
	KindAddr
	KindVoid
	KindNullPtr
)

// signedOrder lists the signed integer hierarchy from narrowest to widest.
var signedOrder = []Kind{KindS8, KindS16, KindS32, KindS64, KindSSize}

// unsignedOrder lists the unsigned integer hierarchy from narrowest to widest.
var unsignedOrder = []Kind{KindU8, KindU16, KindU32, KindU64, KindU128, KindUSize}

// floatOrder lists the IEEE float hierarchy from narrowest to widest. FX8680
// and FPPC128 are deliberately absent: per spec.md §3 they are incompatible
// with each other and with the F32/F64/F128 chain.
var floatOrder = []Kind{KindF32, KindF64, KindF128}

func indexOf(order []Kind, k Kind) int {
	for i, o := range order {
		if o == k {
			return i
		}
	}
	return -1
}

// bitWidths gives the scalar bit width for every Kind that has one. Kinds
// absent from this map (aggregates, Void, NullPtr, Addr) have no fixed width
// — BitWidth reports that via its second return value.
//
// SSize/USize are fixed at 64 bits here, the common pointer width; this
// module has no target-dependent width query.
var bitWidths = map[Kind]uint32{
	KindS8: 8, KindS16: 16, KindS32: 32, KindS64: 64, KindSSize: 64,
	KindU8: 8, KindU16: 16, KindU32: 32, KindU64: 64, KindU128: 128, KindUSize: 64,
	KindBool: 1, KindChar: 8,
	KindF32: 32, KindF64: 64, KindF128: 128, KindFX8680: 80, KindFPPC128: 128,
}

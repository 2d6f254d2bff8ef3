package codegen

import (
	lltypes "github.com/llir/llvm/ir/types"
	"github.com/thrush-lang/thrushc/internal/diagnostics"
	"github.com/thrush-lang/thrushc/internal/types"
)

// lowerType converts a checked internal/types.Type into its LLVM IR shape,
// per the AST->IR table in spec.md §4.H. Struct types are cached on the
// Engine so two references to the same declaration produce the identical
// *lltypes.StructType (required for recursive structs behind a pointer
// field and for IR verifier identity checks).
//
// Array(T) (the dynamically-sized array variant) has no fixed-length LLVM
// counterpart; it lowers to a bare pointer to its element type, the same
// representation a Str literal already produces (GEP to the first byte).
// Ptr(Array(T)) therefore collapses to that same pointer rather than adding
// a second indirection — "str" is a structural synonym for this shape (§9
// Open Question 3), and its runtime representation is a single pointer, not
// a pointer-to-pointer.
func (e *Engine) lowerType(t types.Type) lltypes.Type {
	switch v := t.(type) {
	case *types.Scalar:
		return e.lowerScalar(v.Kind())
	case *types.Ptr:
		if v.Pointee == nil {
			return lltypes.NewPointer(lltypes.I8)
		}
		if arr, ok := v.Pointee.(*types.Array); ok {
			return lltypes.NewPointer(e.lowerType(arr.Element))
		}
		return lltypes.NewPointer(e.lowerType(v.Pointee))
	case *types.Const:
		return e.lowerType(v.Inner)
	case *types.Array:
		return lltypes.NewPointer(e.lowerType(v.Element))
	case *types.FixedArray:
		return lltypes.NewArray(uint64(v.Size), e.lowerType(v.Element))
	case *types.Struct:
		return e.lowerStruct(v)
	case *types.Fn:
		return e.lowerFnType(v)
	default:
		e.bug(diagnostics.CodeBuilderFailure, "unrecognized type in lowerType", t.Span())
		return lltypes.Void
	}
}

func (e *Engine) lowerScalar(k types.Kind) lltypes.Type {
	switch k {
	case types.KindS8, types.KindU8, types.KindChar:
		return lltypes.I8
	case types.KindBool:
		return lltypes.I1
	case types.KindS16, types.KindU16:
		return lltypes.I16
	case types.KindS32, types.KindU32:
		return lltypes.I32
	case types.KindS64, types.KindU64, types.KindSSize, types.KindUSize, types.KindAddr:
		return lltypes.I64
	case types.KindU128:
		return lltypes.I128
	case types.KindF32:
		return lltypes.Float
	case types.KindF64:
		return lltypes.Double
	case types.KindF128:
		return lltypes.FP128
	case types.KindFX8680:
		return lltypes.X86_FP80
	case types.KindFPPC128:
		return lltypes.PPC_FP128
	case types.KindVoid:
		return lltypes.Void
	case types.KindNullPtr:
		return lltypes.NewPointer(lltypes.I8)
	default:
		return lltypes.I64
	}
}

// lowerStruct returns the cached named struct type for decl, creating and
// registering an opaque definition on first use so mutually-recursive struct
// fields (always behind a Ptr, per spec.md §3) resolve without infinite
// regress.
func (e *Engine) lowerStruct(decl *types.Struct) lltypes.Type {
	if cached, ok := e.structTypes[decl.Name]; ok {
		return cached
	}
	def := lltypes.NewStruct()
	def.TypeName = decl.Name
	e.structTypes[decl.Name] = def
	fields := make([]lltypes.Type, len(decl.Fields))
	for i, f := range decl.Fields {
		fields[i] = e.lowerType(f)
	}
	def.Fields = fields
	return def
}

func (e *Engine) lowerFnType(fn *types.Fn) lltypes.Type {
	params := make([]lltypes.Type, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = e.lowerType(p)
	}
	sig := lltypes.NewFunc(e.lowerType(fn.Return), params...)
	sig.Variadic = fn.IsVariadic
	return sig
}

// isSigned reports whether k is a signed-integer kind, used throughout the
// engine to pick the signed/unsigned IR opcode variant (icmp predicate,
// sdiv/udiv, sext/zext).
func isSigned(k types.Kind) bool {
	switch k {
	case types.KindS8, types.KindS16, types.KindS32, types.KindS64, types.KindSSize:
		return true
	default:
		return false
	}
}

func isFloat(k types.Kind) bool {
	switch k {
	case types.KindF32, types.KindF64, types.KindF128, types.KindFX8680, types.KindFPPC128:
		return true
	default:
		return false
	}
}

func isInteger(k types.Kind) bool {
	switch k {
	case types.KindS8, types.KindS16, types.KindS32, types.KindS64, types.KindSSize,
		types.KindU8, types.KindU16, types.KindU32, types.KindU64, types.KindU128, types.KindUSize,
		types.KindBool, types.KindChar:
		return true
	default:
		return false
	}
}

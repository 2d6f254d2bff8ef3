package codegen

import (
	"github.com/llir/llvm/ir/constant"
	lltypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/thrush-lang/thrushc/internal/ast"
	"github.com/thrush-lang/thrushc/internal/types"
)

// compileCast lowers an `as` expression by dispatching on (from-kind,
// to-kind), per spec.md §4.H's As row.
func (e *Engine) compileCast(n *ast.As) value.Value {
	from := n.Value.ValueType()
	v := e.compile(n.Value, from)
	return e.castValue(v, from, n.Target, n.Allocated)
}

// castValue implements the `(from-kind, to-kind)` dispatch table named in
// spec.md §4.H's As row: ptr<->int, same-bit-size bit-cast, int<->int,
// float<->float, addressable-of-numeric -> ptr.
func (e *Engine) castValue(v value.Value, from, to types.Type, allocated bool) value.Value {
	b := e.Ctx.Block
	dstTy := e.lowerType(to)
	fk, tk := from.Kind(), to.Kind()

	switch {
	case fk == types.KindPtr && isInteger(tk):
		return b.NewPtrToInt(v, dstTy)
	case isInteger(fk) && tk == types.KindPtr:
		return b.NewIntToPtr(v, dstTy)
	case fk == types.KindPtr && tk == types.KindPtr:
		return b.NewBitCast(v, dstTy)
	case isInteger(fk) && isInteger(tk):
		return e.numericCast(v, dstTy, isSigned(fk))
	case isFloat(fk) && isFloat(tk):
		return e.floatCast(v, dstTy)
	case isInteger(fk) && isFloat(tk):
		if isSigned(fk) {
			return b.NewSIToFP(v, dstTy)
		}
		return b.NewUIToFP(v, dstTy)
	case isFloat(fk) && isInteger(tk):
		if isSigned(tk) {
			return b.NewFPToSI(v, dstTy)
		}
		return b.NewFPToUI(v, dstTy)
	case tk == types.KindPtr && allocated:
		// addressable-of-numeric/struct/array -> ptr: take the address
		// (CheckCast already verified allocated?), the value itself is
		// already the slot pointer for an allocated operand.
		return b.NewBitCast(v, dstTy)
	default:
		wFrom, _ := types.BitWidth(from)
		wTo, _ := types.BitWidth(to)
		if wFrom == wTo && wFrom != 0 {
			return b.NewBitCast(v, dstTy)
		}
		return b.NewBitCast(v, dstTy)
	}
}

func (e *Engine) floatCast(v value.Value, target lltypes.Type) value.Value {
	srcBits := floatBits(v.Type().(*lltypes.FloatType))
	dstBits := floatBits(target.(*lltypes.FloatType))
	switch {
	case srcBits == dstBits:
		return v
	case srcBits < dstBits:
		return e.Ctx.Block.NewFPExt(v, target)
	default:
		return e.Ctx.Block.NewFPTrunc(v, target)
	}
}

func floatBits(t *lltypes.FloatType) int {
	switch t.Kind {
	case lltypes.FloatKindFloat:
		return 32
	case lltypes.FloatKindDouble:
		return 64
	default:
		return 128
	}
}

// compileConstantCast is the constant-folding counterpart of castValue, using
// the IR's const-folding constructors instead of builder calls. It resizes
// int<->int and float<->float (returning v unchanged at equal widths); every
// other pair, including ptr<->int and int<->float, becomes a constant
// bitcast rather than the conversion castValue emits.
func (e *Engine) compileConstantCast(v constant.Constant, from, to types.Type) constant.Constant {
	dstTy := e.lowerType(to)
	fk, tk := from.Kind(), to.Kind()
	switch {
	case isInteger(fk) && isInteger(tk):
		srcBits, _ := types.BitWidth(from)
		dstBits, _ := types.BitWidth(to)
		if dstBits == srcBits {
			return v
		}
		if dstBits < srcBits {
			return constant.NewTrunc(v, dstTy)
		}
		if isSigned(fk) {
			return constant.NewSExt(v, dstTy)
		}
		return constant.NewZExt(v, dstTy)
	case isFloat(fk) && isFloat(tk):
		srcBits, _ := types.BitWidth(from)
		dstBits, _ := types.BitWidth(to)
		if dstBits == srcBits {
			return v
		}
		if dstBits > srcBits {
			return constant.NewFPExt(v, dstTy)
		}
		return constant.NewFPTrunc(v, dstTy)
	default:
		return constant.NewBitCast(v, dstTy)
	}
}

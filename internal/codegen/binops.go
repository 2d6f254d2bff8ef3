package codegen

import (
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	lltypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/thrush-lang/thrushc/internal/ast"
	"github.com/thrush-lang/thrushc/internal/types"
)

// integerTogether widens the narrower operand to the wider one's width,
// signed-extending unless both sides are unsigned, per spec.md §4.H
// "Together-casting helpers".
func (e *Engine) integerTogether(lhs, rhs value.Value, lk, rk types.Kind) (value.Value, value.Value, types.Kind) {
	lBits := e.lowerScalar(lk).(*lltypes.IntType).BitSize
	rBits := e.lowerScalar(rk).(*lltypes.IntType).BitSize
	if lBits == rBits {
		return lhs, rhs, lk
	}
	unsigned := !isSigned(lk) && !isSigned(rk)
	if lBits < rBits {
		return e.numericCast(lhs, e.lowerScalar(rk), !unsigned), rhs, rk
	}
	return lhs, e.numericCast(rhs, e.lowerScalar(lk), !unsigned), lk
}

// floatTogether widens the narrower float operand to the wider type.
func (e *Engine) floatTogether(lhs, rhs value.Value, lk, rk types.Kind) (value.Value, value.Value, types.Kind) {
	order := map[types.Kind]int{types.KindF32: 0, types.KindF64: 1, types.KindF128: 2}
	if order[lk] == order[rk] {
		return lhs, rhs, lk
	}
	if order[lk] < order[rk] {
		return e.Ctx.Block.NewFPExt(lhs, e.lowerScalar(rk)), rhs, rk
	}
	return lhs, e.Ctx.Block.NewFPExt(rhs, e.lowerScalar(lk)), lk
}

// numericCast sign- or zero-extends / truncates value to target, per
// spec.md §4.H's `numeric_cast` helper.
func (e *Engine) numericCast(v value.Value, target lltypes.Type, signed bool) value.Value {
	srcBits := v.Type().(*lltypes.IntType).BitSize
	dstBits := target.(*lltypes.IntType).BitSize
	switch {
	case srcBits == dstBits:
		return v
	case srcBits < dstBits:
		if signed {
			return e.Ctx.Block.NewSExt(v, target)
		}
		return e.Ctx.Block.NewZExt(v, target)
	default:
		return e.Ctx.Block.NewTrunc(v, target)
	}
}

func scalarKind(t types.Type) types.Kind {
	if s, ok := t.(*types.Scalar); ok {
		return s.Kind()
	}
	return types.KindS32
}

func (e *Engine) compileBinaryOp(n *ast.BinaryOp) value.Value {
	lk := scalarKind(n.Left.ValueType())
	rk := scalarKind(n.Right.ValueType())

	left := e.compile(n.Left, n.Left.ValueType())
	right := e.compile(n.Right, n.Right.ValueType())

	if isFloat(lk) || isFloat(rk) {
		if isInteger(lk) {
			left = e.Ctx.Block.NewSIToFP(left, e.lowerScalar(rk))
			lk = rk
		}
		if isInteger(rk) {
			right = e.Ctx.Block.NewSIToFP(right, e.lowerScalar(lk))
			rk = lk
		}
		left, right, _ = e.floatTogether(left, right, lk, rk)
		return e.compileFloatBinOp(n.Op, left, right)
	}

	left, right, ck := e.integerTogether(left, right, lk, rk)
	return e.compileIntBinOp(n.Op, left, right, ck)
}

func (e *Engine) compileFloatBinOp(op ast.BinaryOperator, l, r value.Value) value.Value {
	b := e.Ctx.Block
	switch op {
	case ast.OpAdd:
		return b.NewFAdd(l, r)
	case ast.OpSub:
		return b.NewFSub(l, r)
	case ast.OpMul:
		return b.NewFMul(l, r)
	case ast.OpDiv:
		return b.NewFDiv(l, r)
	case ast.OpMod:
		return b.NewFRem(l, r)
	case ast.OpEq:
		return b.NewFCmp(enum.FPredOEQ, l, r)
	case ast.OpNeq:
		return b.NewFCmp(enum.FPredONE, l, r)
	case ast.OpLt:
		return b.NewFCmp(enum.FPredOLT, l, r)
	case ast.OpLte:
		return b.NewFCmp(enum.FPredOLE, l, r)
	case ast.OpGt:
		return b.NewFCmp(enum.FPredOGT, l, r)
	case ast.OpGte:
		return b.NewFCmp(enum.FPredOGE, l, r)
	default:
		return b.NewFAdd(l, r)
	}
}

func (e *Engine) compileIntBinOp(op ast.BinaryOperator, l, r value.Value, k types.Kind) value.Value {
	b := e.Ctx.Block
	signed := isSigned(k)
	switch op {
	case ast.OpAdd:
		return b.NewAdd(l, r)
	case ast.OpSub:
		return b.NewSub(l, r)
	case ast.OpMul:
		return b.NewMul(l, r)
	case ast.OpDiv:
		if signed {
			return b.NewSDiv(l, r)
		}
		return b.NewUDiv(l, r)
	case ast.OpMod:
		if signed {
			return b.NewSRem(l, r)
		}
		return b.NewURem(l, r)
	case ast.OpEq:
		return b.NewICmp(enum.IPredEQ, l, r)
	case ast.OpNeq:
		return b.NewICmp(enum.IPredNE, l, r)
	case ast.OpLt:
		if signed {
			return b.NewICmp(enum.IPredSLT, l, r)
		}
		return b.NewICmp(enum.IPredULT, l, r)
	case ast.OpLte:
		if signed {
			return b.NewICmp(enum.IPredSLE, l, r)
		}
		return b.NewICmp(enum.IPredULE, l, r)
	case ast.OpGt:
		if signed {
			return b.NewICmp(enum.IPredSGT, l, r)
		}
		return b.NewICmp(enum.IPredUGT, l, r)
	case ast.OpGte:
		if signed {
			return b.NewICmp(enum.IPredSGE, l, r)
		}
		return b.NewICmp(enum.IPredUGE, l, r)
	case ast.OpAnd, ast.OpBitAnd:
		return b.NewAnd(l, r)
	case ast.OpOr, ast.OpBitOr:
		return b.NewOr(l, r)
	case ast.OpBitXor:
		return b.NewXor(l, r)
	case ast.OpShl:
		return b.NewShl(l, r)
	case ast.OpShr:
		if signed {
			return b.NewAShr(l, r)
		}
		return b.NewLShr(l, r)
	default:
		return b.NewAdd(l, r)
	}
}

func (e *Engine) compileUnaryOp(n *ast.UnaryOp) value.Value {
	k := scalarKind(n.Typ)
	b := e.Ctx.Block
	switch n.Op {
	case ast.OpNeg:
		v := e.compile(n.Operand, n.Typ)
		if isFloat(k) {
			return b.NewFSub(constant.NewFloat(e.lowerScalar(k).(*lltypes.FloatType), 0), v)
		}
		return b.NewSub(constant.NewInt(e.lowerScalar(k).(*lltypes.IntType), 0), v)
	case ast.OpNot:
		// A pointer operand lowers to a null check (`!= null`, §4.F); only
		// a bool operand is XOR-negated.
		if opType := n.Operand.ValueType(); types.IsPtrLike(opType) {
			v := e.compile(n.Operand, opType)
			if ptrTy, ok := v.Type().(*lltypes.PointerType); ok {
				return b.NewICmp(enum.IPredNE, v, constant.NewNull(ptrTy))
			}
			// Addr-kind operands carry an integer representation.
			return b.NewICmp(enum.IPredNE, v, constant.NewInt(v.Type().(*lltypes.IntType), 0))
		}
		v := e.compile(n.Operand, n.Typ)
		return b.NewXor(v, constant.NewInt(lltypes.I1, 1))
	case ast.OpBitNot:
		v := e.compile(n.Operand, n.Typ)
		return b.NewXor(v, constant.NewInt(v.Type().(*lltypes.IntType), -1))
	case ast.OpIncr, ast.OpDecr:
		return e.compileIncrDecr(n)
	default:
		return e.compile(n.Operand, n.Typ)
	}
}

// compileIncrDecr lowers ++/-- by loading, adjusting, and storing back into
// the operand's slot, then returning the pre- or post-value per IsPre.
func (e *Engine) compileIncrDecr(n *ast.UnaryOp) value.Value {
	slot := e.compileAddress(n.Operand)
	llTy := e.lowerType(n.Typ)
	old := e.Ctx.Block.NewLoad(llTy, slot)
	var delta value.Value
	k := scalarKind(n.Typ)
	if isFloat(k) {
		delta = constant.NewFloat(llTy.(*lltypes.FloatType), 1)
	} else {
		delta = constant.NewInt(llTy.(*lltypes.IntType), 1)
	}
	var updated value.Value
	if n.Op == ast.OpIncr {
		if isFloat(k) {
			updated = e.Ctx.Block.NewFAdd(old, delta)
		} else {
			updated = e.Ctx.Block.NewAdd(old, delta)
		}
	} else {
		if isFloat(k) {
			updated = e.Ctx.Block.NewFSub(old, delta)
		} else {
			updated = e.Ctx.Block.NewSub(old, delta)
		}
	}
	e.Ctx.Block.NewStore(updated, slot)
	if n.IsPre {
		return updated
	}
	return old
}

package codegen

import (
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	lltypes "github.com/llir/llvm/ir/types"

	"github.com/thrush-lang/thrushc/internal/ast"
	"github.com/thrush-lang/thrushc/internal/diagnostics"
	"github.com/thrush-lang/thrushc/internal/types"
)

// compileConstant is the constant-folding entry point from spec.md §4.H:
// `compileConstant(node, type_hint)`, used for every Const/Static initializer
// and for enum field values. It mirrors compile's type switch but only
// covers the subset of node kinds that can appear in a constant-expression
// position; anything else is a bug, since the type checker is responsible
// for rejecting a non-constant initializer before codegen ever sees one
// (spec.md §4.F).
func (e *Engine) compileConstant(expr ast.Expr, hint types.Type) constant.Constant {
	switch n := expr.(type) {
	case *ast.Integer:
		t := n.Typ
		if hint != nil && hint.Kind() != types.KindVoid {
			t = hint
		}
		return bigIntToConstant(n.Value, e.lowerType(t))
	case *ast.Float:
		t := n.Typ
		if hint != nil && hint.Kind() != types.KindVoid {
			t = hint
		}
		return constant.NewFloat(e.lowerType(t).(*lltypes.FloatType), n.Value)
	case *ast.Boolean:
		v := int64(0)
		if n.Value {
			v = 1
		}
		return constant.NewInt(lltypes.I1, v)
	case *ast.Char:
		return constant.NewInt(lltypes.I8, int64(n.Value))
	case *ast.Str:
		return constant.NewCharArrayFromString(n.Value + "\x00")
	case *ast.NullPtrLiteral:
		return constant.NewNull(e.nullPtrType(hint))
	case *ast.Group:
		return e.compileConstant(n.Inner, hint)
	case *ast.As:
		from := n.Value.ValueType()
		v := e.compileConstant(n.Value, from)
		return e.compileConstantCast(v, from, n.Target)
	case *ast.BinaryOp:
		return e.compileConstantBinary(n)
	case *ast.UnaryOp:
		return e.compileConstantUnary(n)
	case *ast.Reference:
		return e.compileConstantReference(n)
	case *ast.EnumValue:
		val := e.compileEnumValue(n)
		if c, ok := val.(constant.Constant); ok {
			return c
		}
		e.bug(diagnostics.CodeBuilderFailure, "enum value did not fold to a constant", n.Span())
		return constant.NewZeroInitializer(e.lowerType(n.Typ))
	case *ast.Constructor:
		return e.compileConstantConstructor(n)
	case *ast.Array:
		return e.compileConstantArray(n.Elements, n.Typ)
	case *ast.FixedArray:
		return e.compileConstantArray(n.Elements, n.Typ)
	default:
		e.bug(diagnostics.CodeBuilderFailure, "non-constant expression reached compileConstant", expr.Span())
		t := hint
		if t == nil {
			t = types.NewScalar(types.KindS32, expr.Span())
		}
		return constant.NewZeroInitializer(e.lowerType(t))
	}
}

func (e *Engine) compileConstantReference(n *ast.Reference) constant.Constant {
	if sym, ok := e.Table.GlobalConsts.Lookup(n.Name); ok {
		if c, ok := sym.Val.(constant.Constant); ok {
			return c
		}
	}
	if sym, ok := e.Table.Locals.Lookup(n.Name); ok {
		if c, ok := sym.Val.(constant.Constant); ok {
			return c
		}
	}
	e.bug(diagnostics.CodeMissingSymbol, "non-constant reference '"+n.Name+"' reached compileConstant", n.Span())
	return constant.NewZeroInitializer(e.lowerType(n.Typ))
}

func (e *Engine) compileConstantConstructor(n *ast.Constructor) constant.Constant {
	decl, ok := e.structDecls[n.StructName]
	if !ok {
		e.bug(diagnostics.CodeMissingSymbol, "constructor of undeclared struct '"+n.StructName+"'", n.Span())
		return constant.NewZeroInitializer(e.lowerType(n.Typ))
	}
	llType := e.lowerType(n.Typ).(*lltypes.StructType)
	fields := make([]constant.Constant, len(decl.Fields))
	for i, f := range decl.Fields {
		fields[i] = constant.NewZeroInitializer(e.lowerType(f.Kind))
	}
	for _, cf := range n.Fields {
		idx, fieldType, found := fieldByName(decl, cf.Name)
		if !found {
			continue
		}
		fields[idx] = e.compileConstant(cf.Value, fieldType)
	}
	return constant.NewStruct(llType, fields...)
}

func (e *Engine) compileConstantArray(elements []ast.Expr, typ types.Type) constant.Constant {
	elemType := arrayElementType(typ)
	llElemType := e.lowerType(elemType)
	vals := make([]constant.Constant, len(elements))
	for i, elemExpr := range elements {
		vals[i] = e.compileConstant(elemExpr, elemType)
	}
	return constant.NewArray(lltypes.NewArray(uint64(len(elements)), llElemType), vals...)
}

// compileConstantBinary folds a BinaryOp using constant-expression
// constructors, mirroring compileBinaryOp's promotion rules.
func (e *Engine) compileConstantBinary(n *ast.BinaryOp) constant.Constant {
	lk := scalarKind(n.Left.ValueType())
	rk := scalarKind(n.Right.ValueType())

	left := e.compileConstant(n.Left, n.Left.ValueType())
	right := e.compileConstant(n.Right, n.Right.ValueType())

	if isFloat(lk) || isFloat(rk) {
		return e.compileConstantFloatBinOp(n.Op, left, right)
	}
	left, right = e.constantIntegerTogether(left, right, lk, rk)
	signed := isSigned(lk) || isSigned(rk)
	return e.compileConstantIntBinOp(n.Op, left, right, signed)
}

func (e *Engine) constantIntegerTogether(l, r constant.Constant, lk, rk types.Kind) (constant.Constant, constant.Constant) {
	lBits := e.lowerScalar(lk).(*lltypes.IntType).BitSize
	rBits := e.lowerScalar(rk).(*lltypes.IntType).BitSize
	if lBits == rBits {
		return l, r
	}
	unsigned := !isSigned(lk) && !isSigned(rk)
	if lBits < rBits {
		return e.constantNumericCast(l, e.lowerScalar(rk), !unsigned), r
	}
	return l, e.constantNumericCast(r, e.lowerScalar(lk), !unsigned)
}

func (e *Engine) constantNumericCast(v constant.Constant, target lltypes.Type, signed bool) constant.Constant {
	srcBits := v.Type().(*lltypes.IntType).BitSize
	dstBits := target.(*lltypes.IntType).BitSize
	switch {
	case srcBits == dstBits:
		return v
	case srcBits < dstBits:
		if signed {
			return constant.NewSExt(v, target)
		}
		return constant.NewZExt(v, target)
	default:
		return constant.NewTrunc(v, target)
	}
}

func (e *Engine) compileConstantFloatBinOp(op ast.BinaryOperator, l, r constant.Constant) constant.Constant {
	switch op {
	case ast.OpAdd:
		return constant.NewFAdd(l, r)
	case ast.OpSub:
		return constant.NewFSub(l, r)
	case ast.OpMul:
		return constant.NewFMul(l, r)
	case ast.OpDiv:
		return constant.NewFDiv(l, r)
	case ast.OpMod:
		return constant.NewFRem(l, r)
	case ast.OpEq:
		return constant.NewFCmp(enum.FPredOEQ, l, r)
	case ast.OpNeq:
		return constant.NewFCmp(enum.FPredONE, l, r)
	case ast.OpLt:
		return constant.NewFCmp(enum.FPredOLT, l, r)
	case ast.OpLte:
		return constant.NewFCmp(enum.FPredOLE, l, r)
	case ast.OpGt:
		return constant.NewFCmp(enum.FPredOGT, l, r)
	case ast.OpGte:
		return constant.NewFCmp(enum.FPredOGE, l, r)
	default:
		return constant.NewFAdd(l, r)
	}
}

func (e *Engine) compileConstantIntBinOp(op ast.BinaryOperator, l, r constant.Constant, signed bool) constant.Constant {
	switch op {
	case ast.OpAdd:
		return constant.NewAdd(l, r)
	case ast.OpSub:
		return constant.NewSub(l, r)
	case ast.OpMul:
		return constant.NewMul(l, r)
	case ast.OpDiv:
		if signed {
			return constant.NewSDiv(l, r)
		}
		return constant.NewUDiv(l, r)
	case ast.OpMod:
		if signed {
			return constant.NewSRem(l, r)
		}
		return constant.NewURem(l, r)
	case ast.OpEq:
		return constant.NewICmp(enum.IPredEQ, l, r)
	case ast.OpNeq:
		return constant.NewICmp(enum.IPredNE, l, r)
	case ast.OpLt:
		if signed {
			return constant.NewICmp(enum.IPredSLT, l, r)
		}
		return constant.NewICmp(enum.IPredULT, l, r)
	case ast.OpLte:
		if signed {
			return constant.NewICmp(enum.IPredSLE, l, r)
		}
		return constant.NewICmp(enum.IPredULE, l, r)
	case ast.OpGt:
		if signed {
			return constant.NewICmp(enum.IPredSGT, l, r)
		}
		return constant.NewICmp(enum.IPredUGT, l, r)
	case ast.OpGte:
		if signed {
			return constant.NewICmp(enum.IPredSGE, l, r)
		}
		return constant.NewICmp(enum.IPredUGE, l, r)
	case ast.OpAnd, ast.OpBitAnd:
		return constant.NewAnd(l, r)
	case ast.OpOr, ast.OpBitOr:
		return constant.NewOr(l, r)
	case ast.OpBitXor:
		return constant.NewXor(l, r)
	case ast.OpShl:
		return constant.NewShl(l, r)
	case ast.OpShr:
		if signed {
			return constant.NewAShr(l, r)
		}
		return constant.NewLShr(l, r)
	default:
		return constant.NewAdd(l, r)
	}
}

func (e *Engine) compileConstantUnary(n *ast.UnaryOp) constant.Constant {
	k := scalarKind(n.Typ)
	if n.Op == ast.OpNot {
		// Mirrors compileUnaryOp: a pointer operand folds to a null check
		// (`!= null`, §4.F), only a bool operand is XOR-negated.
		opType := n.Operand.ValueType()
		v := e.compileConstant(n.Operand, opType)
		if types.IsPtrLike(opType) {
			if ptrTy, ok := v.Type().(*lltypes.PointerType); ok {
				return constant.NewICmp(enum.IPredNE, v, constant.NewNull(ptrTy))
			}
			return constant.NewICmp(enum.IPredNE, v, constant.NewInt(v.Type().(*lltypes.IntType), 0))
		}
		return constant.NewXor(v, constant.NewInt(lltypes.I1, 1))
	}
	v := e.compileConstant(n.Operand, n.Typ)
	switch n.Op {
	case ast.OpNeg:
		if isFloat(k) {
			return constant.NewFNeg(v)
		}
		return constant.NewSub(constant.NewInt(e.lowerScalar(k).(*lltypes.IntType), 0), v)
	case ast.OpBitNot:
		return constant.NewXor(v, constant.NewInt(v.Type().(*lltypes.IntType), -1))
	default:
		return v
	}
}

package codegen

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	lltypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/thrush-lang/thrushc/internal/ast"
	"github.com/thrush-lang/thrushc/internal/diagnostics"
	"github.com/thrush-lang/thrushc/internal/types"
)

// compileBuiltin lowers the size_of/align_of/abi_size_of/abi_align_of/
// bit_size_of family (folded from the type argument's manually-computed
// layout, see sizeOfBytes/alignOfBytes below) and the memcpy/memmove/memset/
// halloc family (lowered to LLVM intrinsic calls / a malloc call), per
// spec.md §4.H.
func (e *Engine) compileBuiltin(n *ast.Builtin) value.Value {
	switch n.Kind {
	case ast.BuiltinSizeOf, ast.BuiltinAbiSizeOf:
		return e.constSizeResult(sizeOfBytes(n.TypeArg), n.Typ)
	case ast.BuiltinAlignOf, ast.BuiltinAbiAlignOf:
		return e.constSizeResult(alignOfBytes(n.TypeArg), n.Typ)
	case ast.BuiltinBitSizeOf:
		return e.constSizeResult(sizeOfBytes(n.TypeArg)*8, n.Typ)
	case ast.BuiltinMemcpy:
		return e.compileMemIntrinsic("llvm.memcpy.p0.p0.i64", n.Arguments)
	case ast.BuiltinMemmove:
		return e.compileMemIntrinsic("llvm.memmove.p0.p0.i64", n.Arguments)
	case ast.BuiltinMemset:
		return e.compileMemsetIntrinsic(n.Arguments)
	case ast.BuiltinHalloc:
		return e.compileHalloc(n)
	default:
		e.bug(diagnostics.CodeBuilderFailure, "unhandled builtin kind in compileBuiltin", n.Span())
		return constant.NewInt(lltypes.I32, 0)
	}
}

func (e *Engine) constSizeResult(v uint64, resultType types.Type) value.Value {
	llTy := e.lowerType(resultType)
	it, ok := llTy.(*lltypes.IntType)
	if !ok {
		it = lltypes.I64
	}
	return constant.NewInt(it, int64(v))
}

// sizeOfBytes computes a layout size without a real target-data model (no
// TargetData/DataLayout exists in this engine): scalars use their bit width
// rounded up to bytes, pointers/arrays/functions are 8 bytes, FixedArray is
// element size times length, and Struct is the unpadded sum of its fields.
// This is a deliberate simplification, not an ABI-accurate layout; see
// DESIGN.md.
func sizeOfBytes(t types.Type) uint64 {
	switch v := stripConst(t).(type) {
	case *types.Scalar:
		if w, ok := types.BitWidth(v); ok {
			return (uint64(w) + 7) / 8
		}
		return 0
	case *types.Ptr, *types.Array, *types.Fn:
		return 8
	case *types.FixedArray:
		return uint64(v.Size) * sizeOfBytes(v.Element)
	case *types.Struct:
		var total uint64
		for _, f := range v.Fields {
			total += sizeOfBytes(f)
		}
		return total
	default:
		return 0
	}
}

// alignOfBytes approximates natural alignment: a scalar aligns to its own
// byte size with no upper cap (so u128/f128 align to 16 and fx8680 to 10; a
// sizeless scalar to 1), pointers, arrays and fns align to 8, a fixed array
// to its element, and a struct to its widest member.
func alignOfBytes(t types.Type) uint64 {
	switch v := stripConst(t).(type) {
	case *types.Scalar:
		size := sizeOfBytes(v)
		if size > 8 {
			return size
		}
		if size == 0 {
			return 1
		}
		return size
	case *types.Ptr, *types.Array, *types.Fn:
		return 8
	case *types.FixedArray:
		return alignOfBytes(v.Element)
	case *types.Struct:
		var widest uint64 = 1
		for _, f := range v.Fields {
			if a := alignOfBytes(f); a > widest {
				widest = a
			}
		}
		return widest
	default:
		return 1
	}
}

func (e *Engine) compileMemIntrinsic(name string, args []ast.Expr) value.Value {
	i8ptr := lltypes.NewPointer(lltypes.I8)
	fn := e.getOrDeclareIntrinsic(name, lltypes.Void, i8ptr, i8ptr, lltypes.I64, lltypes.I1)
	dst := e.compile(args[0], nil)
	src := e.compile(args[1], nil)
	length := e.compile(args[2], nil)
	isVolatile := constant.NewInt(lltypes.I1, 0)
	return e.Ctx.Block.NewCall(fn, dst, src, length, isVolatile)
}

func (e *Engine) compileMemsetIntrinsic(args []ast.Expr) value.Value {
	i8ptr := lltypes.NewPointer(lltypes.I8)
	fn := e.getOrDeclareIntrinsic("llvm.memset.p0.i64", lltypes.Void, i8ptr, lltypes.I8, lltypes.I64, lltypes.I1)
	dst := e.compile(args[0], nil)
	fillValue := e.compile(args[1], nil)
	length := e.compile(args[2], nil)
	isVolatile := constant.NewInt(lltypes.I1, 0)
	return e.Ctx.Block.NewCall(fn, dst, fillValue, length, isVolatile)
}

// compileHalloc lowers a `halloc T` heap-allocation builtin to a call to the
// C runtime's `malloc`, bitcast to the requested pointer type, per spec.md
// §4.H's "halloc" row — grounded the same way the teacher's own codegen
// reaches for an external runtime symbol rather than inlining an allocator.
func (e *Engine) compileHalloc(n *ast.Builtin) value.Value {
	i8ptr := lltypes.NewPointer(lltypes.I8)
	mallocFn := e.getOrDeclareIntrinsic("malloc", i8ptr, lltypes.I64)

	var size value.Value
	if len(n.Arguments) > 0 {
		size = e.compile(n.Arguments[0], nil)
	} else {
		size = constant.NewInt(lltypes.I64, int64(sizeOfBytes(n.TypeArg)))
	}

	raw := e.Ctx.Block.NewCall(mallocFn, size)
	return e.Ctx.Block.NewBitCast(raw, e.lowerType(n.Typ))
}

// getOrDeclareIntrinsic returns the cached declaration for name, declaring
// it against the module on first use.
func (e *Engine) getOrDeclareIntrinsic(name string, ret lltypes.Type, params ...lltypes.Type) *ir.Func {
	if fn, ok := e.intrinsics[name]; ok {
		return fn
	}
	irParams := make([]*ir.Param, len(params))
	for i, p := range params {
		irParams[i] = ir.NewParam("", p)
	}
	fn := e.Module.NewFunc(name, ret, irParams...)
	e.intrinsics[name] = fn
	return fn
}

// compileAsmValue lowers an inline-asm expression to a direct call of a
// freshly-constructed InlineAsm value, mirroring generateAssemblerFunction's
// construction but inline at an expression's use site (spec.md §4.H
// "AsmValue" row).
func (e *Engine) compileAsmValue(n *ast.AsmValue) value.Value {
	operands := make([]value.Value, len(n.Operands))
	paramTypes := make([]lltypes.Type, len(n.Operands))
	for i, op := range n.Operands {
		operands[i] = e.compile(op, nil)
		paramTypes[i] = operands[i].Type()
	}
	retType := e.lowerType(n.Typ)
	asmType := lltypes.NewFunc(retType, paramTypes...)
	asm := ir.NewInlineAsm(asmType, n.Assembly, n.Constraints)
	return e.Ctx.Block.NewCall(asm, operands...)
}

// compileEnumValue looks up the named variant's constant-valued field and
// folds it, per spec.md §4.H "EnumValue" row: enum fields have no runtime
// presence, only a compile-time value.
func (e *Engine) compileEnumValue(n *ast.EnumValue) value.Value {
	decl, ok := e.enums[n.EnumName]
	if !ok {
		e.bug(diagnostics.CodeMissingSymbol, "reference to undeclared enum '"+n.EnumName+"'", n.Span())
		return constant.NewInt(lltypes.I32, 0)
	}
	for _, f := range decl.Fields {
		if f.Name == n.VariantName {
			return e.compileConstant(f.Value, decl.Underlying)
		}
	}
	e.bug(diagnostics.CodeMissingSymbol, "unknown variant '"+n.VariantName+"' of enum '"+n.EnumName+"'", n.Span())
	return constant.NewInt(lltypes.I32, 0)
}

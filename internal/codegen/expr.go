package codegen

import (
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	lltypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/thrush-lang/thrushc/internal/ast"
	"github.com/thrush-lang/thrushc/internal/diagnostics"
	"github.com/thrush-lang/thrushc/internal/symbols"
	"github.com/thrush-lang/thrushc/internal/types"
)

// compile is the runtime expression compiler from spec.md §4.H: `compile(node,
// type_hint)`. It recurses through the full AST->IR table, building IR
// through the current insertion block (e.Ctx.Block).
func (e *Engine) compile(expr ast.Expr, hint types.Type) value.Value {
	switch n := expr.(type) {
	case *ast.Integer:
		return e.compileIntLiteral(n, hint)
	case *ast.Float:
		return e.compileFloatLiteral(n, hint)
	case *ast.Boolean:
		v := int64(0)
		if n.Value {
			v = 1
		}
		return constant.NewInt(lltypes.I1, v)
	case *ast.Char:
		return constant.NewInt(lltypes.I8, int64(n.Value))
	case *ast.Str:
		return e.compileStrLiteral(n)
	case *ast.NullPtrLiteral:
		return constant.NewNull(e.nullPtrType(hint))
	case *ast.Group:
		return e.compile(n.Inner, hint)
	case *ast.Reference:
		return e.compileReference(n)
	case *ast.DirectRef:
		return e.compileReference(&ast.Reference{Name: n.Name})
	case *ast.BinaryOp:
		return e.compileBinaryOp(n)
	case *ast.UnaryOp:
		return e.compileUnaryOp(n)
	case *ast.As:
		return e.compileCast(n)
	case *ast.Deref:
		ptr := e.compile(n.Value, nil)
		return e.Ctx.Block.NewLoad(e.lowerType(n.Typ), ptr)
	case *ast.Load:
		ptr := e.compile(n.Pointer, nil)
		return e.Ctx.Block.NewLoad(e.lowerType(n.Typ), ptr)
	case *ast.Write:
		dst := e.compile(n.Destination, nil)
		val := e.compile(n.Value, nil)
		e.Ctx.Block.NewStore(val, dst)
		return val
	case *ast.Address:
		return e.compileAddress(n.Value)
	case *ast.Indirect:
		return e.compile(n.Value, hint)
	case *ast.Call:
		return e.compileCall(n)
	case *ast.Index:
		return e.compileIndex(n)
	case *ast.Property:
		return e.compileProperty(n)
	case *ast.Constructor:
		return e.compileConstructor(n)
	case *ast.Array:
		return e.compileArrayLiteral(n.Elements, n.Typ)
	case *ast.FixedArray:
		return e.compileArrayLiteral(n.Elements, n.Typ)
	case *ast.Builtin:
		return e.compileBuiltin(n)
	case *ast.AsmValue:
		return e.compileAsmValue(n)
	case *ast.EnumValue:
		return e.compileEnumValue(n)
	default:
		e.bug(diagnostics.CodeBuilderFailure, "unhandled expression kind in compile", expr.Span())
		return constant.NewInt(lltypes.I32, 0)
	}
}

func (e *Engine) nullPtrType(hint types.Type) *lltypes.PointerType {
	if p, ok := hint.(*types.Ptr); ok {
		return e.lowerType(p).(*lltypes.PointerType)
	}
	return lltypes.NewPointer(lltypes.I8)
}

func (e *Engine) compileIntLiteral(n *ast.Integer, hint types.Type) value.Value {
	t := n.Typ
	if hint != nil && hint.Kind() != types.KindVoid {
		t = hint
	}
	return bigIntToConstant(n.Value, e.lowerType(t))
}

func (e *Engine) compileFloatLiteral(n *ast.Float, hint types.Type) value.Value {
	t := n.Typ
	if hint != nil && hint.Kind() != types.KindVoid {
		t = hint
	}
	return constant.NewFloat(e.lowerType(t).(*lltypes.FloatType), n.Value)
}

func (e *Engine) compileStrLiteral(n *ast.Str) value.Value {
	data := constant.NewCharArrayFromString(n.Value + "\x00")
	g := e.Module.NewGlobalDef(e.nextGlobalName(".str"), data)
	g.Immutable = true
	g.Linkage = enum.LinkagePrivate
	zero := constant.NewInt(lltypes.I64, 0)
	return e.Ctx.Block.NewGetElementPtr(data.Type(), g, zero, zero)
}

// compileReference looks up name in the codegen table. In lvalue position
// (the caller wants the slot, e.g. Address/Mut/Write) the caller compiles via
// compileAddress instead; this always loads, applying the metadata's
// volatile flag. Atomic ordering and alignment hints are not applied to the
// load.
func (e *Engine) compileReference(n *ast.Reference) value.Value {
	found, ok := e.Table.Resolve(n.Name)
	if !ok {
		e.bug(diagnostics.CodeMissingSymbol, "reference to undeclared symbol '"+n.Name+"'", n.Span())
		return constant.NewInt(lltypes.I32, 0)
	}
	sym := found.Value
	switch sym.Kind {
	case symbols.AllocatedParameter, symbols.AllocatedLLI:
		if sym.Ptr == nil {
			return sym.Val // bare SSA value, no backing slot
		}
		return e.loadWithMeta(sym.Ptr, sym.Type, sym.Meta)
	case symbols.AllocatedLocal, symbols.AllocatedStatic, symbols.AllocatedConstant:
		return e.loadWithMeta(sym.Ptr, sym.Type, sym.Meta)
	default:
		return sym.Val
	}
}

func (e *Engine) loadWithMeta(ptr value.Value, t types.Type, meta ast.Metadata) value.Value {
	inst := e.Ctx.Block.NewLoad(e.lowerType(t), ptr)
	if meta.Volatile {
		inst.Volatile = true
	}
	return inst
}

// compileAddress returns the slot pointer for an lvalue expression without
// loading it, per the Address row of spec.md §4.H's table.
func (e *Engine) compileAddress(expr ast.Expr) value.Value {
	switch n := expr.(type) {
	case *ast.Reference:
		found, ok := e.Table.Resolve(n.Name)
		if !ok {
			e.bug(diagnostics.CodeMissingSymbol, "address-of undeclared symbol '"+n.Name+"'", n.Span())
			return constant.NewInt(lltypes.I32, 0)
		}
		return found.Value.Ptr
	case *ast.Index:
		return e.indexGEP(n)
	case *ast.Property:
		return e.propertyGEP(n)
	case *ast.Deref:
		return e.compile(n.Value, nil)
	default:
		return e.compile(expr, nil)
	}
}

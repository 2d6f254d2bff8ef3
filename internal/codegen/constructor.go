package codegen

import (
	"github.com/llir/llvm/ir/constant"
	lltypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/thrush-lang/thrushc/internal/ast"
	"github.com/thrush-lang/thrushc/internal/diagnostics"
	"github.com/thrush-lang/thrushc/internal/types"
)

// isCompoundLiteral reports whether expr is one of the literal forms that
// need a destination pointer anchor (rather than producing a standalone SSA
// value) when nested inside another compound literal (spec.md §5: "nested
// compound literals require the outer anchor to be saved ... and restored").
func isCompoundLiteral(expr ast.Expr) bool {
	switch expr.(type) {
	case *ast.Constructor, *ast.Array, *ast.FixedArray:
		return true
	default:
		return false
	}
}

// compileConstructor builds a struct literal in place. When a pointer anchor
// is active (set by the enclosing Local/field/element), fields are written
// directly into the anchored slot and that slot's pointer is returned
// (discarded by callers that only wanted the side effect); otherwise a fresh
// stack slot is allocated and the loaded aggregate value is returned, per
// spec.md §4.H "Constructor" row.
func (e *Engine) compileConstructor(n *ast.Constructor) value.Value {
	anchorPtr, _, hasAnchor := e.Ctx.PointerAnchor()
	llType := e.lowerType(n.Typ)

	var slot value.Value
	if hasAnchor {
		slot = anchorPtr
	} else {
		slot = e.Ctx.Block.NewAlloca(llType)
	}

	decl, ok := e.structDecls[n.StructName]
	if !ok {
		e.bug(diagnostics.CodeMissingSymbol, "constructor of undeclared struct '"+n.StructName+"'", n.Span())
		return slot
	}

	zero := constant.NewInt(lltypes.I64, 0)
	for _, f := range n.Fields {
		idx, fieldType, found := fieldByName(decl, f.Name)
		if !found {
			e.bug(diagnostics.CodeMissingSymbol, "unknown field '"+f.Name+"' on struct '"+n.StructName+"'", n.Span())
			continue
		}
		fieldIdx := constant.NewInt(lltypes.I32, int64(idx))
		fieldPtr := e.Ctx.Block.NewGetElementPtr(llType, slot, zero, fieldIdx)
		e.storeField(fieldPtr, f.Value, fieldType)
	}

	if hasAnchor {
		return slot
	}
	return e.Ctx.Block.NewLoad(llType, slot)
}

// compileArrayLiteral builds an Array or FixedArray literal in place,
// sharing the same anchor-or-alloca discipline as compileConstructor. A
// dynamically-sized Array literal decays to a pointer to its first element
// once built, matching the pointer representation Array(T) already has
// elsewhere in this engine (internal/codegen/lowertype.go).
func (e *Engine) compileArrayLiteral(elements []ast.Expr, typ types.Type) value.Value {
	anchorPtr, _, hasAnchor := e.Ctx.PointerAnchor()
	elemType := arrayElementType(typ)
	llElemType := e.lowerType(elemType)
	arrLLType := lltypes.NewArray(uint64(len(elements)), llElemType)

	var slot value.Value
	if hasAnchor {
		slot = anchorPtr
	} else {
		slot = e.Ctx.Block.NewAlloca(arrLLType)
	}

	zero := constant.NewInt(lltypes.I64, 0)
	for i, elemExpr := range elements {
		idx := constant.NewInt(lltypes.I64, int64(i))
		elemPtr := e.Ctx.Block.NewGetElementPtr(arrLLType, slot, zero, idx)
		e.storeField(elemPtr, elemExpr, elemType)
	}

	if stripConst(typ).Kind() == types.KindArray {
		return e.Ctx.Block.NewGetElementPtr(arrLLType, slot, zero, zero)
	}

	if hasAnchor {
		return slot
	}
	return e.Ctx.Block.NewLoad(arrLLType, slot)
}

// storeField writes expr's value into dst, anchoring a nested compound
// literal rather than materializing then copying it.
func (e *Engine) storeField(dst value.Value, expr ast.Expr, hint types.Type) {
	if isCompoundLiteral(expr) {
		e.Ctx.SetPointerAnchor(dst, hint)
		e.compile(expr, hint)
		e.Ctx.ClearPointerAnchor()
		return
	}
	val := e.compile(expr, hint)
	e.Ctx.Block.NewStore(val, dst)
}

func fieldByName(decl *ast.Struct, name string) (int, types.Type, bool) {
	for i, f := range decl.Fields {
		if f.Name == name {
			return i, f.Kind, true
		}
	}
	return 0, nil, false
}

func arrayElementType(t types.Type) types.Type {
	switch v := stripConst(t).(type) {
	case *types.Array:
		return v.Element
	case *types.FixedArray:
		return v.Element
	default:
		return t
	}
}

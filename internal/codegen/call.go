package codegen

import (
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	lltypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/thrush-lang/thrushc/internal/ast"
	"github.com/thrush-lang/thrushc/internal/diagnostics"
	"github.com/thrush-lang/thrushc/internal/types"
)

// compileCall looks up the callee across functions, assembler functions, and
// intrinsics (in that order, matching CodegenTable.Resolve's own priority),
// compiles each argument against the declared parameter type as a hint, and
// emits the call (spec.md §4.H "Call" row).
func (e *Engine) compileCall(n *ast.Call) value.Value {
	sym, ok := e.Table.Functions.Lookup(n.Callee)
	if !ok {
		sym, ok = e.Table.AsmFunctions.Lookup(n.Callee)
	}
	if !ok {
		sym, ok = e.Table.Intrinsics.Lookup(n.Callee)
	}
	if !ok {
		e.bug(diagnostics.CodeMissingSymbol, "call to undeclared function '"+n.Callee+"'", n.Span())
		return constant.NewInt(lltypes.I32, 0)
	}

	var params []types.Type
	if fnType, ok := sym.Type.(*types.Fn); ok {
		params = fnType.Params
	}

	args := make([]value.Value, len(n.Arguments))
	for i, a := range n.Arguments {
		var hint types.Type
		if i < len(params) {
			hint = params[i]
		}
		args[i] = e.compile(a, hint)
	}

	call := e.Ctx.Block.NewCall(sym.Val, args...)
	if site, ok := e.callAttrs[n.Callee]; ok {
		call.CallingConv = site.cc
		if site.noUnwind {
			call.FuncAttrs = append(call.FuncAttrs, enum.FuncAttrNoUnwind)
		}
	}
	return call
}

// indexGEP computes the element address for `source[idx]` without loading
// it, per spec.md §4.H "Index" row. A FixedArray is stored inline, so its
// element address needs the leading zero index through the aggregate's own
// pointer; an Array (or Ptr(Array), the "str" representation) is already a
// bare pointer to its first element, so the index applies directly.
func (e *Engine) indexGEP(n *ast.Index) value.Value {
	idx := e.compile(n.Idx, nil)
	srcType := stripConst(n.Source.ValueType())

	if fixed, ok := srcType.(*types.FixedArray); ok {
		base := e.compileAddress(n.Source)
		arrType := e.lowerType(fixed)
		zero := constant.NewInt(lltypes.I64, 0)
		return e.Ctx.Block.NewGetElementPtr(arrType, base, zero, idx)
	}

	base := e.compile(n.Source, nil)
	return e.Ctx.Block.NewGetElementPtr(e.lowerType(n.Typ), base, idx)
}

// propertyGEP computes the field address for `source.field` without loading
// it, per spec.md §4.H "Property" row: a Struct value is addressable inline
// (leading zero index through its own pointer); a Ptr(Struct) is already a
// pointer directly at the struct, so the field index applies without a
// leading zero.
func (e *Engine) propertyGEP(n *ast.Property) value.Value {
	srcType := stripConst(n.Source.ValueType())
	fieldIdx := constant.NewInt(lltypes.I32, int64(n.FieldIdx))

	if types.IsPtr(srcType) {
		base := e.compile(n.Source, nil)
		structType := e.lowerType(types.Deref(srcType))
		return e.Ctx.Block.NewGetElementPtr(structType, base, fieldIdx)
	}

	base := e.compileAddress(n.Source)
	structType := e.lowerType(srcType)
	zero := constant.NewInt(lltypes.I64, 0)
	return e.Ctx.Block.NewGetElementPtr(structType, base, zero, fieldIdx)
}

// compileIndex loads through an Index lvalue.
func (e *Engine) compileIndex(n *ast.Index) value.Value {
	ptr := e.indexGEP(n)
	return e.loadWithMeta(ptr, n.Typ, n.Meta)
}

// compileProperty loads through a Property lvalue.
func (e *Engine) compileProperty(n *ast.Property) value.Value {
	ptr := e.propertyGEP(n)
	return e.loadWithMeta(ptr, n.Typ, n.Meta)
}

// stripConst unwraps any number of Const(...) layers, since a Const-qualified
// aggregate has the identical IR representation as its unqualified form.
func stripConst(t types.Type) types.Type {
	for {
		c, ok := t.(*types.Const)
		if !ok {
			return t
		}
		t = c.Inner
	}
}

package symbols

import (
	"github.com/llir/llvm/ir/value"
	"github.com/thrush-lang/thrushc/internal/ast"
	"github.com/thrush-lang/thrushc/internal/types"
)

// AllocatedKind tags which SymbolAllocated variant a binding holds, per
// spec.md §3: "SymbolAllocated variant: Local{ptr,type,meta} |
// Static{ptr,value,type,meta} | Constant{ptr,value,type,meta} |
// Parameter{value,type} | LowLevelInstruction{value,type}".
type AllocatedKind uint8

const (
	AllocatedLocal AllocatedKind = iota
	AllocatedStatic
	AllocatedConstant
	AllocatedParameter
	AllocatedLLI
)

// SymbolAllocated is the codegen table's value type: a stack slot or SSA
// value already materialized in the IR, plus enough type/metadata to load,
// store, or GEP through it correctly.
type SymbolAllocated struct {
	Kind AllocatedKind
	Ptr  value.Value // Local/Static/Constant: the alloca/global pointer
	Val  value.Value // Static/Constant: the constant initializer; Parameter/LLI: the SSA value itself
	Type types.Type
	Meta ast.Metadata
}

// CodegenTable is the symbol table flavor used only by codegen (§4.D).
// Locals and LLI bindings are scope-stacked (new alloca per nested block);
// parameters are a flat per-function map cleared at function boundary;
// globals (functions as callees, structs, enums, consts, statics, asm
// functions, intrinsics) are flat maps valid for the whole unit.
type CodegenTable struct {
	Locals *ScopeStack[SymbolAllocated]
	LLIs   *ScopeStack[SymbolAllocated]

	Parameters *FlatMap[SymbolAllocated]

	Functions     *FlatMap[SymbolAllocated]
	AsmFunctions  *FlatMap[SymbolAllocated]
	Intrinsics    *FlatMap[SymbolAllocated]
	Structs       *FlatMap[*types.Struct]
	Enums         *FlatMap[SymbolAllocated]
	GlobalConsts  *FlatMap[SymbolAllocated]
	GlobalStatics *FlatMap[SymbolAllocated]
}

func NewCodegenTable() *CodegenTable {
	return &CodegenTable{
		Locals:        NewScopeStack[SymbolAllocated](),
		LLIs:          NewScopeStack[SymbolAllocated](),
		Parameters:    NewFlatMap[SymbolAllocated](),
		Functions:     NewFlatMap[SymbolAllocated](),
		AsmFunctions:  NewFlatMap[SymbolAllocated](),
		Intrinsics:    NewFlatMap[SymbolAllocated](),
		Structs:       NewFlatMap[*types.Struct](),
		Enums:         NewFlatMap[SymbolAllocated](),
		GlobalConsts:  NewFlatMap[SymbolAllocated](),
		GlobalStatics: NewFlatMap[SymbolAllocated](),
	}
}

// Resolve implements `resolve(name) -> FoundSymbolKind` for the codegen
// table (§4.D), used by Reference/Call lowering to decide which kind of IR
// value to produce.
func (t *CodegenTable) Resolve(name string) (FoundSymbol[SymbolAllocated], bool) {
	if v, ok := t.Locals.Lookup(name); ok {
		return FoundSymbol[SymbolAllocated]{Kind: KindLocal, Value: v}, true
	}
	if v, ok := t.LLIs.Lookup(name); ok {
		return FoundSymbol[SymbolAllocated]{Kind: KindLLI, Value: v}, true
	}
	if v, ok := t.Parameters.Lookup(name); ok {
		return FoundSymbol[SymbolAllocated]{Kind: KindParameter, Value: v}, true
	}
	if v, ok := t.GlobalConsts.Lookup(name); ok {
		return FoundSymbol[SymbolAllocated]{Kind: KindConst, Value: v}, true
	}
	if v, ok := t.GlobalStatics.Lookup(name); ok {
		return FoundSymbol[SymbolAllocated]{Kind: KindStatic, Value: v}, true
	}
	if v, ok := t.Functions.Lookup(name); ok {
		return FoundSymbol[SymbolAllocated]{Kind: KindFn, Value: v}, true
	}
	if v, ok := t.AsmFunctions.Lookup(name); ok {
		return FoundSymbol[SymbolAllocated]{Kind: KindAsmFn, Value: v}, true
	}
	if v, ok := t.Intrinsics.Lookup(name); ok {
		return FoundSymbol[SymbolAllocated]{Kind: KindIntrinsic, Value: v}, true
	}
	var zero FoundSymbol[SymbolAllocated]
	return zero, false
}

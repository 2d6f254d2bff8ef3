package symbols

import (
	"github.com/thrush-lang/thrushc/internal/attributes"
	"github.com/thrush-lang/thrushc/internal/types"
)

// CheckerSignature is the value type the checker table stores per spec.md
// §4.D: "(&Type, &[Type], &Attributes) per-kind; captures signatures for
// call-site checking." ParamTypes is nil for non-callable kinds (locals,
// consts, statics).
type CheckerSignature struct {
	Type       types.Type
	ParamTypes []types.Type
	Attrs      *attributes.Set
	IsVariadic bool
}

// CheckerTable is the symbol table flavor used only by the type checker
// (§4.D). Locals/consts/statics are scope-stacked; top-level declarations
// (functions, structs, enums, consts, statics, type aliases, intrinsics,
// asm functions) are forward-declared into flat maps before any body is
// checked, enabling mutual reference and recursion (§4.F "Declarations").
type CheckerTable struct {
	Locals  *ScopeStack[CheckerSignature]
	Consts  *ScopeStack[CheckerSignature]
	Statics *ScopeStack[CheckerSignature]

	Parameters *FlatMap[CheckerSignature]

	Functions     *FlatMap[CheckerSignature]
	AsmFunctions  *FlatMap[CheckerSignature]
	Intrinsics    *FlatMap[CheckerSignature]
	Structs       *FlatMap[CheckerSignature]
	Enums         *FlatMap[CheckerSignature]
	TypeAliases   *FlatMap[CheckerSignature]
	GlobalConsts  *FlatMap[CheckerSignature]
	GlobalStatics *FlatMap[CheckerSignature]
}

func NewCheckerTable() *CheckerTable {
	return &CheckerTable{
		Locals:        NewScopeStack[CheckerSignature](),
		Consts:        NewScopeStack[CheckerSignature](),
		Statics:       NewScopeStack[CheckerSignature](),
		Parameters:    NewFlatMap[CheckerSignature](),
		Functions:     NewFlatMap[CheckerSignature](),
		AsmFunctions:  NewFlatMap[CheckerSignature](),
		Intrinsics:    NewFlatMap[CheckerSignature](),
		Structs:       NewFlatMap[CheckerSignature](),
		Enums:         NewFlatMap[CheckerSignature](),
		TypeAliases:   NewFlatMap[CheckerSignature](),
		GlobalConsts:  NewFlatMap[CheckerSignature](),
		GlobalStatics: NewFlatMap[CheckerSignature](),
	}
}

// Resolve implements `resolve(name) -> FoundSymbolKind` for the checker
// table (§4.D), searching scoped kinds innermost-to-outermost before the
// flat global maps.
func (t *CheckerTable) Resolve(name string) (FoundSymbol[CheckerSignature], bool) {
	if v, ok := t.Locals.Lookup(name); ok {
		return FoundSymbol[CheckerSignature]{Kind: KindLocal, Value: v}, true
	}
	if v, ok := t.Parameters.Lookup(name); ok {
		return FoundSymbol[CheckerSignature]{Kind: KindParameter, Value: v}, true
	}
	if v, ok := t.Consts.Lookup(name); ok {
		return FoundSymbol[CheckerSignature]{Kind: KindConst, Value: v}, true
	}
	if v, ok := t.Statics.Lookup(name); ok {
		return FoundSymbol[CheckerSignature]{Kind: KindStatic, Value: v}, true
	}
	if v, ok := t.GlobalConsts.Lookup(name); ok {
		return FoundSymbol[CheckerSignature]{Kind: KindConst, Value: v}, true
	}
	if v, ok := t.GlobalStatics.Lookup(name); ok {
		return FoundSymbol[CheckerSignature]{Kind: KindStatic, Value: v}, true
	}
	if v, ok := t.Functions.Lookup(name); ok {
		return FoundSymbol[CheckerSignature]{Kind: KindFn, Value: v}, true
	}
	if v, ok := t.AsmFunctions.Lookup(name); ok {
		return FoundSymbol[CheckerSignature]{Kind: KindAsmFn, Value: v}, true
	}
	if v, ok := t.Intrinsics.Lookup(name); ok {
		return FoundSymbol[CheckerSignature]{Kind: KindIntrinsic, Value: v}, true
	}
	if v, ok := t.Structs.Lookup(name); ok {
		return FoundSymbol[CheckerSignature]{Kind: KindStruct, Value: v}, true
	}
	if v, ok := t.Enums.Lookup(name); ok {
		return FoundSymbol[CheckerSignature]{Kind: KindEnum, Value: v}, true
	}
	var zero FoundSymbol[CheckerSignature]
	return zero, false
}

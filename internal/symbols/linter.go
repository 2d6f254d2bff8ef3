package symbols

import "github.com/thrush-lang/thrushc/internal/source"

// LinterUsage is the value type the linter table stores per spec.md §4.D:
// `(Span, used?, mutated?)` per-kind.
type LinterUsage struct {
	Span    source.Span
	Used    bool
	Mutated bool
}

// LinterTable is the symbol table flavor used only by the linter (§4.D).
// Locals/LLIs/consts/statics are scope-stacked; parameters are a flat map
// cleared per function; structs, enums, functions, asm-functions, and
// intrinsics are flat (global) since they are forward-declared once per unit
// (§4.E "Two-phase").
type LinterTable struct {
	Locals     *ScopeStack[LinterUsage]
	LLIs       *ScopeStack[LinterUsage]
	Consts     *ScopeStack[LinterUsage]
	Statics    *ScopeStack[LinterUsage]
	Parameters *FlatMap[LinterUsage] // cleared at each function boundary

	Structs       *FlatMap[LinterUsage]
	StructFields  map[string]*FlatMap[LinterUsage] // per-struct field usage
	Enums         *FlatMap[LinterUsage]
	EnumFields    map[string]*FlatMap[LinterUsage]
	Functions     *FlatMap[LinterUsage]
	AsmFunctions  *FlatMap[LinterUsage]
	Intrinsics    *FlatMap[LinterUsage]
	GlobalConsts  *FlatMap[LinterUsage]
	GlobalStatics *FlatMap[LinterUsage]
}

// NewLinterTable constructs an empty linter table, one per translation unit
// (§4.D "Lifecycle": "created empty per translation unit").
func NewLinterTable() *LinterTable {
	return &LinterTable{
		Locals:        NewScopeStack[LinterUsage](),
		LLIs:          NewScopeStack[LinterUsage](),
		Consts:        NewScopeStack[LinterUsage](),
		Statics:       NewScopeStack[LinterUsage](),
		Parameters:    NewFlatMap[LinterUsage](),
		Structs:       NewFlatMap[LinterUsage](),
		StructFields:  make(map[string]*FlatMap[LinterUsage]),
		Enums:         NewFlatMap[LinterUsage](),
		EnumFields:    make(map[string]*FlatMap[LinterUsage]),
		Functions:     NewFlatMap[LinterUsage](),
		AsmFunctions:  NewFlatMap[LinterUsage](),
		Intrinsics:    NewFlatMap[LinterUsage](),
		GlobalConsts:  NewFlatMap[LinterUsage](),
		GlobalStatics: NewFlatMap[LinterUsage](),
	}
}

// MarkUsed flips the Used flag for name, searching locals, LLIs,
// parameters, consts, statics (in that order) before falling back to the
// flat global tables. Used by the linter for every Reference/Property/
// Index/Call node (§4.E).
func (t *LinterTable) MarkUsed(name string) {
	if v, ok := t.Locals.Lookup(name); ok {
		v.Used = true
		t.Locals.Assign(name, v)
		return
	}
	if v, ok := t.LLIs.Lookup(name); ok {
		v.Used = true
		t.LLIs.Assign(name, v)
		return
	}
	if v, ok := t.Parameters.Lookup(name); ok {
		v.Used = true
		t.Parameters.Assign(name, v)
		return
	}
	if v, ok := t.Consts.Lookup(name); ok {
		v.Used = true
		t.Consts.Assign(name, v)
		return
	}
	if v, ok := t.Statics.Lookup(name); ok {
		v.Used = true
		t.Statics.Assign(name, v)
		return
	}
	for _, flat := range []*FlatMap[LinterUsage]{
		t.Functions, t.AsmFunctions, t.Intrinsics, t.GlobalConsts, t.GlobalStatics, t.Structs, t.Enums,
	} {
		if v, ok := flat.Lookup(name); ok {
			v.Used = true
			flat.Assign(name, v)
			return
		}
	}
}

// MarkMutated flips both the Used and Mutated flags for name, per §4.E's
// handling of `Mut` nodes: "mark_as_used and mark_as_mutated the target".
func (t *LinterTable) MarkMutated(name string) {
	if v, ok := t.Locals.Lookup(name); ok {
		v.Used, v.Mutated = true, true
		t.Locals.Assign(name, v)
		return
	}
	if v, ok := t.Parameters.Lookup(name); ok {
		v.Used, v.Mutated = true, true
		t.Parameters.Assign(name, v)
		return
	}
	if v, ok := t.Statics.Lookup(name); ok {
		v.Used, v.Mutated = true, true
		t.Statics.Assign(name, v)
		return
	}
	if v, ok := t.GlobalStatics.Lookup(name); ok {
		v.Used, v.Mutated = true, true
		t.GlobalStatics.Assign(name, v)
		return
	}
}

// MarkFieldUsed marks a struct or enum field projection as used, for the
// "struct/enum fields whose projections were never used" sweep (§4.E).
func (t *LinterTable) MarkFieldUsed(ownerName, fieldName string) {
	if fields, ok := t.StructFields[ownerName]; ok {
		if v, ok := fields.Lookup(fieldName); ok {
			v.Used = true
			fields.Assign(fieldName, v)
		}
	}
	if fields, ok := t.EnumFields[ownerName]; ok {
		if v, ok := fields.Lookup(fieldName); ok {
			v.Used = true
			fields.Assign(fieldName, v)
		}
	}
}

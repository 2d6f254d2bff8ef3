package symbols

// SymbolKind tags which of the per-kind tables in spec.md §3's symbol table
// row a given binding belongs to: "local, lli, parameter, const, static,
// struct, enum, fn, asm-fn, intrinsic".
type SymbolKind uint8

const (
	KindLocal SymbolKind = iota
	KindLLI
	KindParameter
	KindConst
	KindStatic
	KindStruct
	KindEnum
	KindFn
	KindAsmFn
	KindIntrinsic
)

func (k SymbolKind) String() string {
	switch k {
	case KindLocal:
		return "local"
	case KindLLI:
		return "lli"
	case KindParameter:
		return "parameter"
	case KindConst:
		return "const"
	case KindStatic:
		return "static"
	case KindStruct:
		return "struct"
	case KindEnum:
		return "enum"
	case KindFn:
		return "fn"
	case KindAsmFn:
		return "asm-fn"
	case KindIntrinsic:
		return "intrinsic"
	default:
		return "unknown"
	}
}

// FoundSymbol is the tagged result `resolve(name) -> FoundSymbolKind` from
// spec.md §4.D: which kind matched, and the matching record itself, so the
// checker/codegen can branch on Kind without a second lookup.
type FoundSymbol[V any] struct {
	Kind  SymbolKind
	Value V
}

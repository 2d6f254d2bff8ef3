// Package attributes implements the function/variable modifier set from
// spec.md §4.B: a variant enum of attributes (linkage, inline hints,
// calling convention, stack/heap placement, asm syntax, packed layout,
// ctor/dtor markers…) plus a Set collection exposing O(1) presence queries.
package attributes

import (
	"github.com/thrush-lang/thrushc/internal/source"
)

// Kind is the payload-less counterpart of Attribute, used for presence
// queries and for Set.Get's comparator argument — spec.md §4.B: "a parallel
// enum of *kinds* (comparison ignores payloads)".
type Kind uint8

const (
	KindExtern Kind = iota
	KindConvention
	KindLinkage
	KindPublic
	KindIgnore
	KindHot
	KindNoInline
	KindInlineHint
	KindMinSize
	KindAlwaysInline
	KindSafeStack
	KindStrongStack
	KindWeakStack
	KindPreciseFloats
	KindNoUnwind
	KindOptFuzzing
	KindPure
	KindThunk
	KindPacked
	KindStack
	KindHeap
	KindAsmThrow
	KindAsmSyntax
	KindAsmAlignStack
	KindAsmSideEffects
	KindConstructor
	KindDestructor

	numKinds
)

// Linkage mirrors ThrushLinkage in the original implementation: the handful
// of LLVM linkage types an Attribute(Linkage) can carry.
type Linkage uint8

const (
	LinkageExternal Linkage = iota
	LinkageInternal
	LinkageWeak
	LinkageLinkOnceODR
)

// AsmSyntax is the resolved form of an AsmSyntax(str) attribute's payload:
// `"Intel" -> Intel`, anything else `-> ATT` (§4.B).
type AsmSyntax uint8

const (
	AsmSyntaxATT AsmSyntax = iota
	AsmSyntaxIntel
)

// ParseAsmSyntax implements the `"Intel" -> Intel, else -> AT&T` rule.
func ParseAsmSyntax(s string) AsmSyntax {
	if s == "Intel" {
		return AsmSyntaxIntel
	}
	return AsmSyntaxATT
}

// Attribute is one element of the variant enum from spec.md §4.B. Payload
// fields are only meaningful for the kinds that carry one (Extern,
// Convention, Linkage, AsmSyntax); all others leave them zero.
type Attribute struct {
	kind      Kind
	name      string // Extern/Convention/Linkage name payload
	linkage   Linkage
	asmSyntax string // raw AsmSyntax payload, before ParseAsmSyntax
	span      source.Span
}

// NewExtern constructs an Extern(name) attribute.
func NewExtern(name string, span source.Span) Attribute {
	return Attribute{kind: KindExtern, name: name, span: span}
}

// NewConvention constructs a Convention(name) attribute.
func NewConvention(name string, span source.Span) Attribute {
	return Attribute{kind: KindConvention, name: name, span: span}
}

// NewLinkage constructs a Linkage(kind, name) attribute.
func NewLinkage(linkage Linkage, name string, span source.Span) Attribute {
	return Attribute{kind: KindLinkage, linkage: linkage, name: name, span: span}
}

// NewAsmSyntax constructs an AsmSyntax(str) attribute.
func NewAsmSyntax(raw string, span source.Span) Attribute {
	return Attribute{kind: KindAsmSyntax, asmSyntax: raw, span: span}
}

// NewSimple constructs a payload-less attribute of the given kind (Public,
// Hot, NoInline, Packed, Stack, Heap, …).
func NewSimple(kind Kind, span source.Span) Attribute {
	return Attribute{kind: kind, span: span}
}

// Kind reports this attribute's kind (payload ignored).
func (a Attribute) Kind() Kind { return a.kind }

// Span returns the source span this attribute was written at.
func (a Attribute) Span() source.Span { return a.span }

// Name returns the Extern/Convention/Linkage name payload.
func (a Attribute) Name() string { return a.name }

// LinkageKind returns the Linkage payload.
func (a Attribute) LinkageKind() Linkage { return a.linkage }

// ResolvedAsmSyntax returns the parsed AsmSyntax payload.
func (a Attribute) ResolvedAsmSyntax() AsmSyntax { return ParseAsmSyntax(a.asmSyntax) }

package ast

// TranslationUnit is the top-level container the parser hands to the
// pipeline driver for one source file: a flat list of declarations in
// source order (spec.md §6 "Consumed from parser": "a slice of Ast nodes
// per compilation unit").
type TranslationUnit struct {
	Filename    string
	Declarations []Decl
	// ParserHadErrors mirrors spec.md §6: "If the parser reported errors,
	// the driver still lets the linter and checker run to accumulate more
	// diagnostics but never calls codegen."
	ParserHadErrors bool
}

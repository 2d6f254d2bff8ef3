package pipeline

import (
	"github.com/thrush-lang/thrushc/internal/ast"
	"github.com/thrush-lang/thrushc/internal/source"
)

// Token is the lexer's output unit. The lexer itself is "deliberately out
// of scope" per spec.md §1 ("treated as external collaborators via stated
// interfaces only"); this struct is the shape the driver needs in order to
// serve `-emit tokens` (§4.I step 6) without knowing anything about how a
// token was recognized.
type Token struct {
	Kind   string      `json:"kind"`
	Lexeme string      `json:"lexeme"`
	Span   source.Span `json:"span"`
}

// Lexer turns a source.Unit into a token stream (§4.I step 2).
type Lexer interface {
	Lex(unit *source.Unit) ([]Token, error)
}

// Parser turns a token stream into an *ast.TranslationUnit plus a flag
// reporting whether the parser itself accumulated errors (§4.I step 3 /
// §6: "If the parser reported errors, the driver still lets the linter and
// checker run to accumulate more diagnostics but never calls codegen").
type Parser interface {
	Parse(unit *source.Unit, tokens []Token) (tree *ast.TranslationUnit, hadErrors bool, err error)
}

// Package ast defines the typed AST node set consumed by this compiler core,
// per spec.md §3. The parser and lexer that produce these nodes are external
// collaborators (spec.md §1); this package only names the shapes every later
// pass (linter, type checker, codegen) dispatches on.
//
// Dynamic dispatch over AST variants follows §9's design note: one Go
// interface with a type switch in every pass, never an open/virtual method
// hierarchy, grounded in the teacher's own exhaustive `switch` over
// declaration/expression kinds (github.com/consensys/go-corset
// pkg/corset/compiler/translator.go).
package ast

import (
	"github.com/thrush-lang/thrushc/internal/source"
	"github.com/thrush-lang/thrushc/internal/types"
)

// Node is implemented by every AST variant named in spec.md §3. Every node
// carries a Span for diagnostics.
type Node interface {
	Span() source.Span
	isNode()
}

// Expr is implemented by every expression-producing node. Most expressions
// carry a pre-computed Type, set by the parser/resolver before the checker
// or codegen ever see the node (spec.md §3: "most carry a pre-computed
// Type").
type Expr interface {
	Node
	// ValueType returns the type the parser/resolver already assigned this
	// expression. Returns nil for the rare node that has none yet (this
	// should not occur once parsing has completed; the checker skips any
	// type rule whose operand ValueType is nil and reports nothing for it).
	ValueType() types.Type
	isExpr()
}

// Stmt is implemented by every statement node.
type Stmt interface {
	Node
	isStmt()
}

// Decl is implemented by every top-level declaration node.
type Decl interface {
	Node
	isDecl()
	// DeclName returns the name this declaration introduces, used by the
	// forward-declaration pass shared by the linter and checker (§4.D
	// "Lifecycle").
	DeclName() string
}

// base embeds the span every node carries, saving every variant from
// repeating a Span() method body.
type base struct {
	span source.Span
}

func (b base) Span() source.Span { return b.span }
func (base) isNode()             {}

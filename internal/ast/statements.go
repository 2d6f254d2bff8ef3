package ast

import (
	"github.com/thrush-lang/thrushc/internal/source"
	"github.com/thrush-lang/thrushc/internal/types"
)

// Local is a `let name : T = value;` binding.
type Local struct {
	base
	Name  string
	Kind  types.Type
	Value Expr // nil when uninitialized
	Meta  Metadata
}

func NewLocal(name string, kind types.Type, value Expr, meta Metadata, span source.Span) *Local {
	return &Local{base: base{span}, Name: name, Kind: kind, Value: value, Meta: meta}
}

func (*Local) isStmt() {}

// Mut is a mutation of an existing binding: `name = value;`.
type Mut struct {
	base
	Target Expr // Reference | Property | Index | Deref
	Value  Expr
}

func NewMut(target, value Expr, span source.Span) *Mut {
	return &Mut{base: base{span}, Target: target, Value: value}
}

func (*Mut) isStmt() {}

// Block is `{ stmt* }`.
type Block struct {
	base
	Statements []Stmt
}

func NewBlock(statements []Stmt, span source.Span) *Block {
	return &Block{base: base{span}, Statements: statements}
}

func (*Block) isStmt() {}

// Elif is one `elif cond { block }` arm of an If chain.
type Elif struct {
	Condition Expr
	Block     *Block
}

// If is `if cond { block } elif ... { } else { }`.
type If struct {
	base
	Condition Expr
	Then      *Block
	Elifs     []Elif
	Else      *Block // nil when absent
}

func NewIf(condition Expr, then *Block, elifs []Elif, elseBlock *Block, span source.Span) *If {
	return &If{base: base{span}, Condition: condition, Then: then, Elifs: elifs, Else: elseBlock}
}

func (*If) isStmt() {}

// While is `while cond { block }`.
type While struct {
	base
	Condition Expr
	Body      *Block
}

func NewWhile(condition Expr, body *Block, span source.Span) *While {
	return &While{base: base{span}, Condition: condition, Body: body}
}

func (*While) isStmt() {}

// Loop is an unconditional `loop { block }`.
type Loop struct {
	base
	Body *Block
}

func NewLoop(body *Block, span source.Span) *Loop {
	return &Loop{base: base{span}, Body: body}
}

func (*Loop) isStmt() {}

// For is `for init; cond; action { block }`, lowered at codegen time as
// init + while-with-appended-actions (spec.md §4.H).
type For struct {
	base
	Init      Stmt // Local or Mut, typically
	Condition Expr
	Actions   []Stmt
	Body      *Block
}

func NewFor(init Stmt, condition Expr, actions []Stmt, body *Block, span source.Span) *For {
	return &For{base: base{span}, Init: init, Condition: condition, Actions: actions, Body: body}
}

func (*For) isStmt() {}

// Break is `break;`. Must lexically reside inside a loop (§4.F); enforced
// by the checker, not this package.
type Break struct {
	base
}

func NewBreak(span source.Span) *Break { return &Break{base: base{span}} }
func (*Break) isStmt()                 {}

// Continue is `continue;`.
type Continue struct {
	base
}

func NewContinue(span source.Span) *Continue { return &Continue{base: base{span}} }
func (*Continue) isStmt()                    {}

// Return is `return expr?;`.
type Return struct {
	base
	Expression Expr // nil for `return;`
}

func NewReturn(expression Expr, span source.Span) *Return {
	return &Return{base: base{span}, Expression: expression}
}

func (*Return) isStmt() {}

// Unreachable is `unreachable;`, lowered to LLVM's `unreachable` terminator.
type Unreachable struct {
	base
}

func NewUnreachable(span source.Span) *Unreachable { return &Unreachable{base: base{span}} }
func (*Unreachable) isStmt()                       {}

// ExprStmt is an expression evaluated in statement position for its side
// effects, e.g. a bare call: `free(p);`. The resulting value is discarded.
type ExprStmt struct {
	base
	Expr Expr
}

func NewExprStmt(expr Expr, span source.Span) *ExprStmt {
	return &ExprStmt{base: base{span}, Expr: expr}
}

func (*ExprStmt) isStmt() {}

// Defer is `defer { block }`. Lowered by prepending Body to every exit path
// of the enclosing block (§4.H, §9 Design Notes).
type Defer struct {
	base
	Body *Block
}

func NewDefer(body *Block, span source.Span) *Defer {
	return &Defer{base: base{span}, Body: body}
}

func (*Defer) isStmt() {}

// Package linter implements the two-phase unused-binding and
// unreachable-code pass from spec.md §4.E. It never rejects a unit; it only
// accumulates warning-severity CompilationIssues.
//
// The forward-declare-then-walk shape is grounded in the teacher's own
// two-pass module resolution (github.com/consensys/go-corset
// pkg/corset/compiler/resolver.go: declare every module/column before
// resolving any expression body).
package linter

import (
	"fmt"
	"sort"

	"github.com/thrush-lang/thrushc/internal/ast"
	"github.com/thrush-lang/thrushc/internal/diagnostics"
	"github.com/thrush-lang/thrushc/internal/source"
	"github.com/thrush-lang/thrushc/internal/symbols"
)

// Linter runs the two-phase pass over one TranslationUnit, grounded in
// spec.md §4.E.
type Linter struct {
	table *symbols.LinterTable
	out   []diagnostics.CompilationIssue
}

func New() *Linter {
	return &Linter{table: symbols.NewLinterTable()}
}

// Lint runs both phases over unit and returns every warning accumulated:
// unreachable-statement warnings in statement order, each block's unused
// bindings at that block's exit sorted by name, then unused globals per kind
// sorted by name, then unused struct and enum fields. The linter never returns an error; it
// only warns (spec.md §4.E: "does not reject code").
func (l *Linter) Lint(unit *ast.TranslationUnit) []diagnostics.CompilationIssue {
	l.forwardDeclare(unit)
	for _, d := range unit.Declarations {
		l.walkDecl(d)
	}
	l.sweepGlobals()
	return l.out
}

func (l *Linter) emitNode(code diagnostics.Code, msg string, node ast.Node) {
	l.out = append(l.out, diagnostics.NewWarning(code, msg, node.Span()))
}

func (l *Linter) emitSpan(code diagnostics.Code, msg string, span source.Span) {
	l.out = append(l.out, diagnostics.NewWarning(code, msg, span))
}

// forwardDeclare registers every top-level entity with used=false, per
// §4.E step 1.
func (l *Linter) forwardDeclare(unit *ast.TranslationUnit) {
	for _, d := range unit.Declarations {
		switch n := d.(type) {
		case *ast.Function:
			l.table.Functions.Declare(n.Name, symbols.LinterUsage{Span: n.Span()})
		case *ast.Intrinsic:
			l.table.Intrinsics.Declare(n.Name, symbols.LinterUsage{Span: n.Span()})
		case *ast.AssemblerFunction:
			l.table.AsmFunctions.Declare(n.Name, symbols.LinterUsage{Span: n.Span()})
		case *ast.Struct:
			l.table.Structs.Declare(n.Name, symbols.LinterUsage{Span: n.Span()})
			fields := symbols.NewFlatMap[symbols.LinterUsage]()
			for _, f := range n.Fields {
				fields.Declare(f.Name, symbols.LinterUsage{Span: n.Span()})
			}
			l.table.StructFields[n.Name] = fields
		case *ast.Enum:
			l.table.Enums.Declare(n.Name, symbols.LinterUsage{Span: n.Span()})
			fields := symbols.NewFlatMap[symbols.LinterUsage]()
			for _, f := range n.Fields {
				fields.Declare(f.Name, symbols.LinterUsage{Span: n.Span()})
			}
			l.table.EnumFields[n.Name] = fields
		case *ast.Const:
			l.table.GlobalConsts.Declare(n.Name, symbols.LinterUsage{Span: n.Span()})
		case *ast.Static:
			l.table.GlobalStatics.Declare(n.Name, symbols.LinterUsage{Span: n.Span()})
		}
	}
}

func (l *Linter) walkDecl(d ast.Decl) {
	switch n := d.(type) {
	case *ast.Function:
		l.table.Parameters.Clear()
		for _, p := range n.Parameters {
			l.table.Parameters.Declare(p.Name, symbols.LinterUsage{Span: n.Span()})
		}
		l.walkBlock(n.Body)
		l.sweepParameters(n.Parameters)
	case *ast.AssemblerFunction:
		l.table.Parameters.Clear()
	case *ast.Const:
		l.walkExpr(n.Value)
	case *ast.Static:
		l.walkExpr(n.Value)
	case *ast.Enum:
		for _, f := range n.Fields {
			if f.Value != nil {
				l.walkExpr(f.Value)
			}
		}
	}
}

func (l *Linter) walkBlock(b *ast.Block) {
	if b == nil {
		return
	}
	l.table.Locals.BeginScope()
	l.table.LLIs.BeginScope()
	l.table.Consts.BeginScope()
	l.table.Statics.BeginScope()

	terminated := false
	for _, s := range b.Statements {
		if terminated {
			l.emitNode(diagnostics.CodeUnusedUnreachable, "unreachable statement", s)
			continue
		}
		l.walkStmt(s)
		if isTerminator(s) {
			terminated = true
		}
	}

	l.sweepScope(l.table.Locals.InnermostFrame(), diagnostics.CodeUnusedLocal, "local")
	l.sweepScope(l.table.LLIs.InnermostFrame(), diagnostics.CodeUnusedLLI, "lli")
	l.sweepScope(l.table.Consts.InnermostFrame(), diagnostics.CodeUnusedConst, "const")
	l.sweepScope(l.table.Statics.InnermostFrame(), diagnostics.CodeUnusedStatic, "static")

	l.table.Statics.EndScope()
	l.table.Consts.EndScope()
	l.table.LLIs.EndScope()
	l.table.Locals.EndScope()
}

// isTerminator reports whether s unconditionally leaves its block, the
// trigger for the unreachable-code warning supplemented in SPEC_FULL.md
// §4.E (spec.md only names it in the System Overview responsibility row).
func isTerminator(s ast.Stmt) bool {
	switch s.(type) {
	case *ast.Return, *ast.Break, *ast.Continue, *ast.Unreachable:
		return true
	default:
		return false
	}
}

func (l *Linter) walkStmt(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.Local:
		if n.Value != nil {
			l.walkExpr(n.Value)
		}
		l.table.Locals.Declare(n.Name, symbols.LinterUsage{Span: n.Span()})
	case *ast.Mut:
		l.walkExpr(n.Value)
		l.markMutTarget(n.Target)
	case *ast.Block:
		l.walkBlock(n)
	case *ast.If:
		l.walkExpr(n.Condition)
		l.walkBlock(n.Then)
		for _, e := range n.Elifs {
			l.walkExpr(e.Condition)
			l.walkBlock(e.Block)
		}
		if n.Else != nil {
			l.walkBlock(n.Else)
		}
	case *ast.While:
		l.walkExpr(n.Condition)
		l.walkBlock(n.Body)
	case *ast.Loop:
		l.walkBlock(n.Body)
	case *ast.For:
		l.table.Locals.BeginScope()
		if n.Init != nil {
			l.walkStmt(n.Init)
		}
		if n.Condition != nil {
			l.walkExpr(n.Condition)
		}
		l.walkBlock(n.Body)
		for _, a := range n.Actions {
			l.walkStmt(a)
		}
		l.table.Locals.EndScope()
	case *ast.Return:
		if n.Expression != nil {
			l.walkExpr(n.Expression)
		}
	case *ast.Defer:
		l.walkBlock(n.Body)
	case *ast.Const:
		l.walkExpr(n.Value)
		l.table.Consts.Declare(n.Name, symbols.LinterUsage{Span: n.Span()})
	case *ast.Static:
		l.walkExpr(n.Value)
		l.table.Statics.Declare(n.Name, symbols.LinterUsage{Span: n.Span()})
	case *ast.ExprStmt:
		l.walkExpr(n.Expr)
	case *ast.Break, *ast.Continue, *ast.Unreachable:
		// no sub-expressions
	}
}

// markMutTarget marks the lvalue named by target used and mutated, per
// §4.E step 2: "For Mut: mark_as_used and mark_as_mutated the target."
func (l *Linter) markMutTarget(target ast.Expr) {
	switch t := target.(type) {
	case *ast.Reference:
		l.table.MarkMutated(t.Name)
	case *ast.Property:
		l.walkExpr(t.Source)
		l.markSourceFieldUsed(t.Source, t.FieldName)
	case *ast.Index:
		l.walkExpr(t.Source)
		l.walkExpr(t.Idx)
	case *ast.Deref:
		l.walkExpr(t.Value)
	default:
		l.walkExpr(target)
	}
}

func (l *Linter) markSourceFieldUsed(srcExpr ast.Expr, fieldName string) {
	if ref, ok := srcExpr.(*ast.Reference); ok {
		if typ := ref.Typ; typ != nil {
			l.table.MarkFieldUsed(typ.String(), fieldName)
		}
	}
}

func (l *Linter) walkExpr(e ast.Expr) {
	if e == nil {
		return
	}
	switch n := e.(type) {
	case *ast.BinaryOp:
		l.walkExpr(n.Left)
		l.walkExpr(n.Right)
	case *ast.UnaryOp:
		l.walkExpr(n.Operand)
	case *ast.Group:
		l.walkExpr(n.Inner)
	case *ast.As:
		l.walkExpr(n.Value)
	case *ast.Deref:
		l.walkExpr(n.Value)
	case *ast.DirectRef:
		l.table.MarkUsed(n.Name)
	case *ast.Load:
		l.walkExpr(n.Pointer)
	case *ast.Write:
		l.walkExpr(n.Destination)
		l.walkExpr(n.Value)
	case *ast.Address:
		l.walkExpr(n.Value)
	case *ast.Indirect:
		l.walkExpr(n.Value)
	case *ast.Call:
		l.table.MarkUsed(n.Callee)
		for _, a := range n.Arguments {
			l.walkExpr(a)
		}
	case *ast.Index:
		l.walkExpr(n.Source)
		l.walkExpr(n.Idx)
	case *ast.Property:
		l.walkExpr(n.Source)
		l.markSourceFieldUsed(n.Source, n.FieldName)
	case *ast.Reference:
		l.table.MarkUsed(n.Name)
	case *ast.Constructor:
		l.table.MarkUsed(n.StructName)
		for _, f := range n.Fields {
			l.walkExpr(f.Value)
		}
	case *ast.Array:
		for _, el := range n.Elements {
			l.walkExpr(el)
		}
	case *ast.FixedArray:
		for _, el := range n.Elements {
			l.walkExpr(el)
		}
	case *ast.Builtin:
		for _, a := range n.Arguments {
			l.walkExpr(a)
		}
	case *ast.AsmValue:
		for _, o := range n.Operands {
			l.walkExpr(o)
		}
	case *ast.EnumValue:
		l.table.MarkUsed(n.EnumName)
		l.table.MarkFieldUsed(n.EnumName, n.VariantName)
	}
}

func (l *Linter) sweepScope(frame map[string]symbols.LinterUsage, code diagnostics.Code, kind string) {
	for _, name := range sortedKeys(frame) {
		usage := frame[name]
		if !usage.Used {
			l.emitSpan(code, fmt.Sprintf("unused %s `%s`", kind, name), usage.Span)
		}
	}
}

func (l *Linter) sweepParameters(params []ast.FunctionParameter) {
	for _, p := range params {
		usage, ok := l.table.Parameters.Lookup(p.Name)
		if ok && !usage.Used {
			l.emitSpan(diagnostics.CodeUnusedParameter, fmt.Sprintf("unused parameter `%s`", p.Name), usage.Span)
		}
	}
}

// sweepGlobals emits warnings on unit exit for globals and aggregates (and
// for struct/enum fields whose projections were never used), per §4.E step
// 2's final sentence.
func (l *Linter) sweepGlobals() {
	l.sweepFlat(l.table.Functions, diagnostics.CodeUnusedFn, "fn")
	l.sweepFlat(l.table.AsmFunctions, diagnostics.CodeUnusedAsmFn, "asm function")
	l.sweepFlat(l.table.Intrinsics, diagnostics.CodeUnusedIntrinsic, "intrinsic")
	l.sweepFlat(l.table.Structs, diagnostics.CodeUnusedStruct, "struct")
	l.sweepFlat(l.table.Enums, diagnostics.CodeUnusedEnum, "enum")
	l.sweepFlat(l.table.GlobalConsts, diagnostics.CodeUnusedConst, "global constant")
	l.sweepFlat(l.table.GlobalStatics, diagnostics.CodeUnusedStatic, "global static")

	for owner, fields := range l.table.StructFields {
		for _, name := range sortedKeys(fields.All()) {
			usage := fields.All()[name]
			if !usage.Used {
				l.emitSpan(diagnostics.CodeUnusedStructField,
					fmt.Sprintf("unused field `%s.%s`", owner, name), usage.Span)
			}
		}
	}
	for owner, fields := range l.table.EnumFields {
		for _, name := range sortedKeys(fields.All()) {
			usage := fields.All()[name]
			if !usage.Used {
				l.emitSpan(diagnostics.CodeUnusedEnumField,
					fmt.Sprintf("unused variant `%s.%s`", owner, name), usage.Span)
			}
		}
	}
}

func (l *Linter) sweepFlat(m *symbols.FlatMap[symbols.LinterUsage], code diagnostics.Code, kind string) {
	all := m.All()
	for _, name := range sortedKeys(all) {
		usage := all[name]
		if !usage.Used {
			l.emitSpan(code, fmt.Sprintf("unused %s `%s`", kind, name), usage.Span)
		}
	}
}

// sortedKeys gives deterministic diagnostic ordering over a Go map, since
// FlatMap.All's iteration order is not guaranteed (internal/symbols doc).
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}


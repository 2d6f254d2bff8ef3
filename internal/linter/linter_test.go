package linter

import (
	"math/big"
	"strings"
	"testing"

	"github.com/thrush-lang/thrushc/internal/ast"
	"github.com/thrush-lang/thrushc/internal/attributes"
	"github.com/thrush-lang/thrushc/internal/diagnostics"
	"github.com/thrush-lang/thrushc/internal/source"
	"github.com/thrush-lang/thrushc/internal/types"
)

func hasCode(issues []diagnostics.CompilationIssue, code diagnostics.Code) bool {
	for _, i := range issues {
		if i.Code == code {
			return true
		}
	}
	return false
}

func intType(sp source.Span) types.Type { return types.NewScalar(types.KindS32, sp) }

func TestLintUnusedLocalWarns(t *testing.T) {
	sp := source.NewSpan(0, 1)
	local := ast.NewLocal("x", intType(sp), ast.NewInteger(big.NewInt(1), intType(sp), sp), ast.Metadata{}, sp)
	body := ast.NewBlock([]ast.Stmt{local}, sp)
	fn := ast.NewFunction("main", nil, types.NewScalar(types.KindVoid, sp), body, attributes.NewSet(), false, sp)
	unit := &ast.TranslationUnit{Filename: "t.th", Declarations: []ast.Decl{fn}}

	issues := New().Lint(unit)
	if !hasCode(issues, diagnostics.CodeUnusedLocal) {
		t.Fatalf("expected unused-local warning, got %+v", issues)
	}
}

func TestLintUsedLocalDoesNotWarn(t *testing.T) {
	sp := source.NewSpan(0, 1)
	local := ast.NewLocal("x", intType(sp), ast.NewInteger(big.NewInt(1), intType(sp), sp), ast.Metadata{}, sp)
	ref := ast.NewReference("x", intType(sp), ast.Metadata{}, sp)
	ret := ast.NewReturn(ref, sp)
	body := ast.NewBlock([]ast.Stmt{local, ret}, sp)
	fn := ast.NewFunction("main", nil, intType(sp), body, attributes.NewSet(), false, sp)
	unit := &ast.TranslationUnit{Filename: "t.th", Declarations: []ast.Decl{fn}}

	issues := New().Lint(unit)
	if hasCode(issues, diagnostics.CodeUnusedLocal) {
		t.Fatalf("did not expect unused-local warning, got %+v", issues)
	}
}

func TestLintUnreachableStatementAfterReturn(t *testing.T) {
	sp := source.NewSpan(0, 1)
	ret := ast.NewReturn(nil, sp)
	unreachableLocal := ast.NewLocal("dead", intType(sp), nil, ast.Metadata{}, sp)
	body := ast.NewBlock([]ast.Stmt{ret, unreachableLocal}, sp)
	fn := ast.NewFunction("main", nil, types.NewScalar(types.KindVoid, sp), body, attributes.NewSet(), false, sp)
	unit := &ast.TranslationUnit{Filename: "t.th", Declarations: []ast.Decl{fn}}

	issues := New().Lint(unit)
	if !hasCode(issues, diagnostics.CodeUnusedUnreachable) {
		t.Fatalf("expected unreachable-statement warning, got %+v", issues)
	}
}

func TestLintUnusedFunctionWarnsOnUnitExit(t *testing.T) {
	sp := source.NewSpan(0, 1)
	body := ast.NewBlock(nil, sp)
	fn := ast.NewFunction("helper", nil, types.NewScalar(types.KindVoid, sp), body, attributes.NewSet(), false, sp)
	unit := &ast.TranslationUnit{Filename: "t.th", Declarations: []ast.Decl{fn}}

	issues := New().Lint(unit)
	if !hasCode(issues, diagnostics.CodeUnusedFn) {
		t.Fatalf("expected unused-fn warning, got %+v", issues)
	}
}

func TestLintCalledFunctionDoesNotWarn(t *testing.T) {
	sp := source.NewSpan(0, 1)
	helperBody := ast.NewBlock(nil, sp)
	helper := ast.NewFunction("helper", nil, types.NewScalar(types.KindVoid, sp), helperBody, attributes.NewSet(), false, sp)

	call := ast.NewCall("helper", nil, types.NewScalar(types.KindVoid, sp), sp)
	mainBody := ast.NewBlock([]ast.Stmt{ast.NewExprStmt(call, sp), ast.NewReturn(nil, sp)}, sp)
	main := ast.NewFunction("main", nil, types.NewScalar(types.KindVoid, sp), mainBody, attributes.NewSet(), false, sp)

	unit := &ast.TranslationUnit{Filename: "t.th", Declarations: []ast.Decl{helper, main}}
	l := New()
	l.forwardDeclare(unit)
	for _, d := range unit.Declarations {
		l.walkDecl(d)
	}
	l.sweepGlobals()

	for _, i := range l.out {
		if i.Code == diagnostics.CodeUnusedFn && strings.Contains(i.Message, "`helper`") {
			t.Fatalf("did not expect unused-fn warning for called helper, got %+v", l.out)
		}
	}
}

package typechecker

import (
	"math/big"
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

func s32(sp source.Span) types.Type  { return types.NewScalar(types.KindS32, sp) }
func boolT(sp source.Span) types.Type { return types.NewScalar(types.KindBool, sp) }

func TestCheckMismatchedLocalInitializerErrors(t *testing.T) {
	sp := source.NewSpan(0, 1)
	lit := ast.NewBoolean(true, sp)
	local := ast.NewLocal("x", s32(sp), lit, ast.Metadata{}, sp)
	body := ast.NewBlock([]ast.Stmt{local}, sp)
	fn := ast.NewFunction("main", nil, types.NewScalar(types.KindVoid, sp), body, attributes.NewSet(), false, sp)
	unit := &ast.TranslationUnit{Filename: "t.th", Declarations: []ast.Decl{fn}}

	issues, ok := New().Check(unit)
	if ok {
		t.Fatalf("expected Check to fail on a bool-into-s32 local, got ok with issues %+v", issues)
	}
	if !hasCode(issues, diagnostics.CodeTypeMismatch) {
		t.Fatalf("expected a type-mismatch error, got %+v", issues)
	}
}

func TestCheckIntegerLiteralWidensIntoLocal(t *testing.T) {
	sp := source.NewSpan(0, 1)
	lit := ast.NewInteger(big.NewInt(5), types.NewScalar(types.KindU8, sp), sp)
	local := ast.NewLocal("x", s32(sp), lit, ast.Metadata{}, sp)
	body := ast.NewBlock([]ast.Stmt{local}, sp)
	fn := ast.NewFunction("main", nil, types.NewScalar(types.KindVoid, sp), body, attributes.NewSet(), false, sp)
	unit := &ast.TranslationUnit{Filename: "t.th", Declarations: []ast.Decl{fn}}

	_, ok := New().Check(unit)
	if !ok {
		t.Fatal("expected an integer literal to widen into a wider local type without error")
	}
}

func TestCheckBreakOutsideLoopErrors(t *testing.T) {
	sp := source.NewSpan(0, 1)
	body := ast.NewBlock([]ast.Stmt{ast.NewBreak(sp)}, sp)
	fn := ast.NewFunction("main", nil, types.NewScalar(types.KindVoid, sp), body, attributes.NewSet(), false, sp)
	unit := &ast.TranslationUnit{Filename: "t.th", Declarations: []ast.Decl{fn}}

	issues, ok := New().Check(unit)
	if ok {
		t.Fatal("expected break-outside-loop to fail the check")
	}
	if !hasCode(issues, diagnostics.CodeBreakOutsideLoop) {
		t.Fatalf("expected CodeBreakOutsideLoop, got %+v", issues)
	}
}

func TestCheckBreakInsideLoopOk(t *testing.T) {
	sp := source.NewSpan(0, 1)
	loopBody := ast.NewBlock([]ast.Stmt{ast.NewBreak(sp)}, sp)
	loop := ast.NewLoop(loopBody, sp)
	fnBody := ast.NewBlock([]ast.Stmt{loop}, sp)
	fn := ast.NewFunction("main", nil, types.NewScalar(types.KindVoid, sp), fnBody, attributes.NewSet(), false, sp)
	unit := &ast.TranslationUnit{Filename: "t.th", Declarations: []ast.Decl{fn}}

	_, ok := New().Check(unit)
	if !ok {
		t.Fatal("expected break inside a loop to pass")
	}
}

func TestCheckConditionMustBeBool(t *testing.T) {
	sp := source.NewSpan(0, 1)
	cond := ast.NewInteger(big.NewInt(1), s32(sp), sp)
	ifStmt := ast.NewIf(cond, ast.NewBlock(nil, sp), nil, nil, sp)
	body := ast.NewBlock([]ast.Stmt{ifStmt}, sp)
	fn := ast.NewFunction("main", nil, types.NewScalar(types.KindVoid, sp), body, attributes.NewSet(), false, sp)
	unit := &ast.TranslationUnit{Filename: "t.th", Declarations: []ast.Decl{fn}}

	issues, ok := New().Check(unit)
	if ok {
		t.Fatal("expected a non-bool if-condition to fail")
	}
	if !hasCode(issues, diagnostics.CodeConditionNotBool) {
		t.Fatalf("expected CodeConditionNotBool, got %+v", issues)
	}
}

func TestCheckCallArityMismatch(t *testing.T) {
	sp := source.NewSpan(0, 1)
	helperBody := ast.NewBlock(nil, sp)
	params := []ast.FunctionParameter{{Name: "a", Kind: s32(sp)}}
	helper := ast.NewFunction("helper", params, types.NewScalar(types.KindVoid, sp), helperBody, attributes.NewSet(), false, sp)

	call := ast.NewCall("helper", nil, types.NewScalar(types.KindVoid, sp), sp)
	mainBody := ast.NewBlock([]ast.Stmt{ast.NewReturn(nil, sp)}, sp)
	main := ast.NewFunction("main", nil, types.NewScalar(types.KindVoid, sp), mainBody, attributes.NewSet(), false, sp)

	_ = call
	unit := &ast.TranslationUnit{Filename: "t.th", Declarations: []ast.Decl{helper, main}}
	chk := New()
	chk.forwardDeclare(unit)
	chk.checkCall(call)

	if !hasCode(chk.out, diagnostics.CodeArityMismatch) {
		t.Fatalf("expected CodeArityMismatch calling helper() with no args, got %+v", chk.out)
	}
}

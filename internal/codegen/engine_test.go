package codegen

import (
	"math/big"
	"strings"
	"testing"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/enum"

	"github.com/thrush-lang/thrushc/internal/ast"
	"github.com/thrush-lang/thrushc/internal/attributes"
	"github.com/thrush-lang/thrushc/internal/source"
	"github.com/thrush-lang/thrushc/internal/types"
)

func scalar(k types.Kind) types.Type { return types.NewScalar(k, source.NewSpan(0, 1)) }

func voidT() types.Type { return scalar(types.KindVoid) }

func compileDecls(t *testing.T, decls ...ast.Decl) *Engine {
	t.Helper()
	e := NewEngine("t.th", ModuleOptions{})
	e.CompileUnit(&ast.TranslationUnit{Filename: "t.th", Declarations: decls})
	for _, issue := range e.Issues() {
		t.Fatalf("codegen raised %v", issue)
	}
	return e
}

func findFunc(t *testing.T, e *Engine, name string) *ir.Func {
	t.Helper()
	for _, f := range e.Module.Funcs {
		if f.Name() == name {
			return f
		}
	}
	t.Fatalf("function %q not found in module", name)
	return nil
}

// assertTerminated checks the per-function invariant that every emitted
// basic block ends with exactly one terminator.
func assertTerminated(t *testing.T, fn *ir.Func) {
	t.Helper()
	for _, b := range fn.Blocks {
		if b.Term == nil {
			t.Fatalf("block %q of %q has no terminator", b.Name(), fn.Name())
		}
	}
}

func TestEmptyFunctionBodyEmitsRetVoid(t *testing.T) {
	sp := source.NewSpan(0, 1)
	fn := ast.NewFunction("f", nil, voidT(), ast.NewBlock(nil, sp), attributes.NewSet(), false, sp)
	e := compileDecls(t, fn)

	llFn := findFunc(t, e, "f")
	if len(llFn.Blocks) != 1 {
		t.Fatalf("expected a single entry block, got %d blocks", len(llFn.Blocks))
	}
	ret, ok := llFn.Blocks[0].Term.(*ir.TermRet)
	if !ok {
		t.Fatalf("expected the entry block to end in ret, got %T", llFn.Blocks[0].Term)
	}
	if ret.X != nil {
		t.Fatalf("expected ret void, got ret %v", ret.X)
	}
}

func TestIntegerWideningInBinaryOp(t *testing.T) {
	sp := source.NewSpan(0, 1)
	s16, s32 := scalar(types.KindS16), scalar(types.KindS32)
	params := []ast.FunctionParameter{
		{Name: "a", Kind: s16},
		{Name: "b", Kind: s32},
	}
	add := ast.NewBinaryOp(ast.OpAdd,
		ast.NewReference("a", s16, ast.Metadata{}, sp),
		ast.NewReference("b", s32, ast.Metadata{}, sp),
		s32, sp)
	body := ast.NewBlock([]ast.Stmt{ast.NewReturn(add, sp)}, sp)
	fn := ast.NewFunction("f", params, s32, body, attributes.NewSet(), false, sp)

	e := compileDecls(t, fn)
	llText := e.Module.String()
	if !strings.Contains(llText, "sext i16") {
		t.Fatalf("expected the narrower operand to be sign-extended (sext i16), got:\n%s", llText)
	}
	if !strings.Contains(llText, "add ") {
		t.Fatalf("expected an add instruction, got:\n%s", llText)
	}
	assertTerminated(t, findFunc(t, e, "f"))
}

func TestPointerCastToIntegerEmitsPtrToInt(t *testing.T) {
	sp := source.NewSpan(0, 1)
	ptr := types.NewPtr(nil, sp)
	u64 := scalar(types.KindU64)
	params := []ast.FunctionParameter{{Name: "p", Kind: ptr}}
	cast := ast.NewAs(ast.NewReference("p", ptr, ast.Metadata{}, sp), u64, false, sp)
	body := ast.NewBlock([]ast.Stmt{ast.NewReturn(cast, sp)}, sp)
	fn := ast.NewFunction("f", params, u64, body, attributes.NewSet(), false, sp)

	e := compileDecls(t, fn)
	if llText := e.Module.String(); !strings.Contains(llText, "ptrtoint") {
		t.Fatalf("expected a ptrtoint instruction, got:\n%s", llText)
	}
}

func TestBreakInWhileBranchesToAfterBlock(t *testing.T) {
	sp := source.NewSpan(0, 1)
	loopBody := ast.NewBlock([]ast.Stmt{ast.NewBreak(sp)}, sp)
	while := ast.NewWhile(ast.NewBoolean(true, sp), loopBody, sp)
	body := ast.NewBlock([]ast.Stmt{while}, sp)
	fn := ast.NewFunction("f", nil, voidT(), body, attributes.NewSet(), false, sp)

	e := compileDecls(t, fn)
	llText := e.Module.String()
	if !strings.Contains(llText, "br label %while.after") {
		t.Fatalf("expected break to branch to the loop's after block, got:\n%s", llText)
	}
	assertTerminated(t, findFunc(t, e, "f"))
}

func TestNestedConstructorUsesSingleAlloca(t *testing.T) {
	sp := source.NewSpan(0, 1)
	s32 := scalar(types.KindS32)

	innerTy := types.NewStruct("Inner", []types.Type{s32}, nil, sp)
	outerTy := types.NewStruct("Outer", []types.Type{s32, innerTy}, nil, sp)
	innerDecl := ast.NewStruct("Inner", []ast.StructField{{Name: "x", Kind: s32}}, attributes.NewSet(), sp)
	outerDecl := ast.NewStruct("Outer", []ast.StructField{
		{Name: "a", Kind: s32},
		{Name: "b", Kind: innerTy},
	}, attributes.NewSet(), sp)

	lit := func(v int64) ast.Expr { return ast.NewInteger(big.NewInt(v), s32, sp) }
	inner := ast.NewConstructor("Inner", []ast.ConstructorField{{Name: "x", Value: lit(2)}}, innerTy, sp)
	outer := ast.NewConstructor("Outer", []ast.ConstructorField{
		{Name: "a", Value: lit(1)},
		{Name: "b", Value: inner},
	}, outerTy, sp)

	local := ast.NewLocal("v", outerTy, outer, ast.Metadata{}, sp)
	body := ast.NewBlock([]ast.Stmt{local}, sp)
	fn := ast.NewFunction("f", nil, voidT(), body, attributes.NewSet(), false, sp)

	e := compileDecls(t, innerDecl, outerDecl, fn)

	allocas := 0
	for _, b := range findFunc(t, e, "f").Blocks {
		for _, inst := range b.Insts {
			if _, ok := inst.(*ir.InstAlloca); ok {
				allocas++
			}
		}
	}
	if allocas != 1 {
		t.Fatalf("expected the nested literal to fill the outer slot in place (1 alloca), got %d", allocas)
	}
}

func TestDeferRunsBeforeReturn(t *testing.T) {
	sp := source.NewSpan(0, 1)
	cleanup := ast.NewIntrinsic("cleanup", nil, voidT(), attributes.NewSet(), false, sp)

	deferStmt := ast.NewDefer(ast.NewBlock([]ast.Stmt{
		ast.NewExprStmt(ast.NewCall("cleanup", nil, voidT(), sp), sp),
	}, sp), sp)
	body := ast.NewBlock([]ast.Stmt{deferStmt, ast.NewReturn(nil, sp)}, sp)
	fn := ast.NewFunction("f", nil, voidT(), body, attributes.NewSet(), false, sp)

	e := compileDecls(t, cleanup, fn)

	entry := findFunc(t, e, "f").Blocks[0]
	if len(entry.Insts) == 0 {
		t.Fatal("expected the deferred call to be replayed before the return")
	}
	if _, ok := entry.Insts[len(entry.Insts)-1].(*ir.InstCall); !ok {
		t.Fatalf("expected the last instruction before ret to be the deferred call, got %T", entry.Insts[len(entry.Insts)-1])
	}
	if _, ok := entry.Term.(*ir.TermRet); !ok {
		t.Fatalf("expected ret terminator after the deferred call, got %T", entry.Term)
	}
}

func TestStrLiteralEmitsPrivateGlobal(t *testing.T) {
	sp := source.NewSpan(0, 1)
	str := types.NewPtr(types.NewArray(scalar(types.KindChar), sp), sp)
	local := ast.NewLocal("s", str, ast.NewStr("hi", sp), ast.Metadata{}, sp)
	body := ast.NewBlock([]ast.Stmt{local}, sp)
	fn := ast.NewFunction("f", nil, voidT(), body, attributes.NewSet(), false, sp)

	e := compileDecls(t, fn)
	llText := e.Module.String()
	if !strings.Contains(llText, `c"hi\00"`) {
		t.Fatalf("expected a NUL-terminated byte array global for the literal, got:\n%s", llText)
	}
	if !strings.Contains(llText, "getelementptr") {
		t.Fatalf("expected a GEP to the literal's first element, got:\n%s", llText)
	}
}

func TestU64MaxLiteralStoredVerbatim(t *testing.T) {
	sp := source.NewSpan(0, 1)
	u64 := scalar(types.KindU64)
	max := new(big.Int).SetUint64(^uint64(0))
	local := ast.NewLocal("x", u64, ast.NewInteger(max, u64, sp), ast.Metadata{}, sp)
	body := ast.NewBlock([]ast.Stmt{local}, sp)
	fn := ast.NewFunction("f", nil, voidT(), body, attributes.NewSet(), false, sp)

	e := compileDecls(t, fn)
	if llText := e.Module.String(); !strings.Contains(llText, "18446744073709551615") {
		t.Fatalf("expected u64::MAX stored verbatim, got:\n%s", llText)
	}
}

func TestLogicalNotOnPointerEmitsNullCheck(t *testing.T) {
	sp := source.NewSpan(0, 1)
	ptr := types.NewPtr(nil, sp)
	boolT := scalar(types.KindBool)
	params := []ast.FunctionParameter{{Name: "p", Kind: ptr}}
	not := ast.NewUnaryOp(ast.OpNot, ast.NewReference("p", ptr, ast.Metadata{}, sp), true, boolT, sp)
	body := ast.NewBlock([]ast.Stmt{ast.NewReturn(not, sp)}, sp)
	fn := ast.NewFunction("f", params, boolT, body, attributes.NewSet(), false, sp)

	e := compileDecls(t, fn)
	llText := e.Module.String()
	if !strings.Contains(llText, "icmp ne") {
		t.Fatalf("expected !ptr to lower to a null comparison, got:\n%s", llText)
	}
	if !strings.Contains(llText, "null") {
		t.Fatalf("expected the comparison operand to be null, got:\n%s", llText)
	}
	if strings.Contains(llText, "xor") {
		t.Fatalf("expected no xor for a pointer operand, got:\n%s", llText)
	}
}

func TestFunctionAttributesMapThrough(t *testing.T) {
	sp := source.NewSpan(0, 1)
	attrs := attributes.NewSet(
		attributes.NewConvention("fast", sp),
		attributes.NewSimple(attributes.KindNoUnwind, sp),
		attributes.NewSimple(attributes.KindConstructor, sp),
	)
	fn := ast.NewFunction("setup", nil, voidT(), ast.NewBlock(nil, sp), attrs, false, sp)
	e := compileDecls(t, fn)

	llFn := findFunc(t, e, "setup")
	if llFn.CallingConv != enum.CallingConvFast {
		t.Fatalf("expected fastcc on the definition, got %v", llFn.CallingConv)
	}
	foundNoUnwind := false
	for _, a := range llFn.FuncAttrs {
		if a == enum.FuncAttrNoUnwind {
			foundNoUnwind = true
		}
	}
	if !foundNoUnwind {
		t.Fatal("expected nounwind on the definition")
	}

	foundCtors := false
	for _, g := range e.Module.Globals {
		if g.Name() == "llvm.global_ctors" {
			foundCtors = true
		}
	}
	if !foundCtors {
		t.Fatal("expected the Constructor attribute to register into llvm.global_ctors")
	}
}

func TestIfElseBlocksAllTerminate(t *testing.T) {
	sp := source.NewSpan(0, 1)
	s32 := scalar(types.KindS32)
	lit := func(v int64) ast.Expr { return ast.NewInteger(big.NewInt(v), s32, sp) }

	thenBlock := ast.NewBlock([]ast.Stmt{ast.NewReturn(lit(1), sp)}, sp)
	elseBlock := ast.NewBlock([]ast.Stmt{ast.NewReturn(lit(2), sp)}, sp)
	ifStmt := ast.NewIf(ast.NewBoolean(true, sp), thenBlock, nil, elseBlock, sp)
	body := ast.NewBlock([]ast.Stmt{ifStmt, ast.NewReturn(lit(3), sp)}, sp)
	fn := ast.NewFunction("f", nil, s32, body, attributes.NewSet(), false, sp)

	e := compileDecls(t, fn)
	assertTerminated(t, findFunc(t, e, "f"))
}

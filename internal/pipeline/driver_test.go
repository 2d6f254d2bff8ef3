package pipeline

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/thrush-lang/thrushc/internal/ast"
	"github.com/thrush-lang/thrushc/internal/attributes"
	"github.com/thrush-lang/thrushc/internal/source"
	"github.com/thrush-lang/thrushc/internal/types"
)

type stubLexer struct{}

func (stubLexer) Lex(unit *source.Unit) ([]Token, error) {
	return []Token{{Kind: "ident", Lexeme: "fn", Span: source.NewSpan(0, 2)}}, nil
}

type stubParser struct {
	tree      *ast.TranslationUnit
	hadErrors bool
}

func (p stubParser) Parse(unit *source.Unit, tokens []Token) (*ast.TranslationUnit, bool, error) {
	return p.tree, p.hadErrors, nil
}

// recordingBackend records which emit steps the driver reached.
type recordingBackend struct {
	tokens   bool
	astDump  bool
	raw      bool
	optimize bool
	final    bool
	object   bool
	linked   []string
}

func (b *recordingBackend) EmitTokens(unit *source.Unit, tokens []Token) (string, error) {
	b.tokens = true
	return "out.tokens.json", nil
}

func (b *recordingBackend) EmitAST(unit *source.Unit, tree *ast.TranslationUnit) (string, error) {
	b.astDump = true
	return "out.ast.json", nil
}

func (b *recordingBackend) EmitRaw(unit *source.Unit, llText string, kind EmitKind) (string, error) {
	b.raw = true
	return "out.ll", nil
}

func (b *recordingBackend) Optimize(unit *source.Unit, llText string, level OptLevel, optPasses string) (string, error) {
	b.optimize = true
	return llText, nil
}

func (b *recordingBackend) EmitFinal(unit *source.Unit, llText string, kind EmitKind) (string, error) {
	b.final = true
	return "out." + kind.String(), nil
}

func (b *recordingBackend) EmitObjectForLink(unit *source.Unit, llText string) (string, error) {
	b.object = true
	return "out.o", nil
}

func (b *recordingBackend) Link(objectPaths []string, opts CompilerOptions) error {
	b.linked = objectPaths
	return nil
}

func voidT(sp source.Span) types.Type { return types.NewScalar(types.KindVoid, sp) }

// emptyUnit builds a unit holding `fn main() -> void {}`, which passes the
// checker cleanly.
func emptyUnit() *ast.TranslationUnit {
	sp := source.NewSpan(0, 1)
	fn := ast.NewFunction("main", nil, voidT(sp), ast.NewBlock(nil, sp), attributes.NewSet(), false, sp)
	return &ast.TranslationUnit{Filename: "t.th", Declarations: []ast.Decl{fn}}
}

// badUnit builds a unit holding `fn f() -> s32 { return true; }`, which the
// checker must reject.
func badUnit() *ast.TranslationUnit {
	sp := source.NewSpan(0, 1)
	s32 := types.NewScalar(types.KindS32, sp)
	body := ast.NewBlock([]ast.Stmt{ast.NewReturn(ast.NewBoolean(true, sp), sp)}, sp)
	fn := ast.NewFunction("f", nil, s32, body, attributes.NewSet(), false, sp)
	return &ast.TranslationUnit{Filename: "t.th", Declarations: []ast.Decl{fn}}
}

func writeSource(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "t.th")
	if err := os.WriteFile(path, []byte("fn main() -> void {}"), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDriverStopsAtEmitTokens(t *testing.T) {
	backend := &recordingBackend{}
	d := NewDriver(CompilerOptions{EmitSelection: EmitTokens}, stubLexer{}, stubParser{tree: emptyUnit()}, backend)

	res, err := d.CompileUnit(source.NewUnit("t.th", nil))
	if err != nil {
		t.Fatal(err)
	}
	if !backend.tokens {
		t.Fatal("expected EmitTokens to be called")
	}
	if backend.optimize || backend.object {
		t.Fatal("expected the driver to stop after writing tokens")
	}
	if res.StoppedAt != EmitTokens {
		t.Fatalf("expected StoppedAt=tokens, got %s", res.StoppedAt)
	}
}

func TestDriverBlocksCodegenOnCheckerError(t *testing.T) {
	backend := &recordingBackend{}
	d := NewDriver(CompilerOptions{}, stubLexer{}, stubParser{tree: badUnit()}, backend)

	res, err := d.CompileUnit(source.NewUnit("t.th", nil))
	if !errors.Is(err, ErrUnitHadErrors) {
		t.Fatalf("expected ErrUnitHadErrors, got %v", err)
	}
	if backend.raw || backend.optimize || backend.object {
		t.Fatal("expected codegen and later steps to never run for an erroring unit")
	}
	if !res.Diagnostics.HasErrors() {
		t.Fatal("expected the checker's error to be collected")
	}
	if res.OutputPath != "" {
		t.Fatalf("expected no artifact for an erroring unit, got %q", res.OutputPath)
	}
}

func TestDriverParserErrorsStillRunCheckerButNotCodegen(t *testing.T) {
	backend := &recordingBackend{}
	d := NewDriver(CompilerOptions{}, stubLexer{}, stubParser{tree: emptyUnit(), hadErrors: true}, backend)

	_, err := d.CompileUnit(source.NewUnit("t.th", nil))
	if !errors.Is(err, ErrUnitHadErrors) {
		t.Fatalf("expected parser errors to classify the unit as failed, got %v", err)
	}
	if backend.raw || backend.optimize || backend.object {
		t.Fatal("expected codegen to be skipped when the parser reported errors")
	}
}

func TestDriverDefaultPathEmitsObjectAndLinks(t *testing.T) {
	backend := &recordingBackend{}
	d := NewDriver(CompilerOptions{}, stubLexer{}, stubParser{tree: emptyUnit()}, backend)

	path := writeSource(t)
	results, err := d.CompileFiles([]string{path})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Fatalf("expected one result, got %d", len(results))
	}
	if !backend.optimize || !backend.object {
		t.Fatal("expected the default path to optimize and emit an object file")
	}
	if len(backend.linked) != 1 || backend.linked[0] != "out.o" {
		t.Fatalf("expected the collected object to be linked, got %v", backend.linked)
	}
	if len(d.Stats.ObjectPaths) != 1 {
		t.Fatalf("expected the object path to be recorded, got %v", d.Stats.ObjectPaths)
	}
}

func TestDriverExplicitObjEmitSkipsLink(t *testing.T) {
	backend := &recordingBackend{}
	d := NewDriver(CompilerOptions{EmitSelection: EmitObjectOnly}, stubLexer{}, stubParser{tree: emptyUnit()}, backend)

	path := writeSource(t)
	if _, err := d.CompileFiles([]string{path}); err != nil {
		t.Fatal(err)
	}
	if !backend.final {
		t.Fatal("expected -emit obj to go through EmitFinal")
	}
	if backend.linked != nil {
		t.Fatal("expected an explicit sub-object emit to skip the linker")
	}
}

func TestDriverRawEmitSkipsOptimizer(t *testing.T) {
	backend := &recordingBackend{}
	d := NewDriver(CompilerOptions{EmitSelection: EmitRawLLVMIR}, stubLexer{}, stubParser{tree: emptyUnit()}, backend)

	res, err := d.CompileUnit(source.NewUnit("t.th", nil))
	if err != nil {
		t.Fatal(err)
	}
	if !backend.raw {
		t.Fatal("expected EmitRaw to be called")
	}
	if backend.optimize {
		t.Fatal("expected raw emission to bypass the optimizer")
	}
	if res.StoppedAt != EmitRawLLVMIR {
		t.Fatalf("expected StoppedAt=raw-llvm-ir, got %s", res.StoppedAt)
	}
}

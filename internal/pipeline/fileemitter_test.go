package pipeline

import (
	"os"
	"strings"
	"testing"

	"github.com/segmentio/encoding/json"

	"github.com/thrush-lang/thrushc/internal/source"
)

func TestFileEmitterWritesTokensJSON(t *testing.T) {
	emitter := NewFileEmitter(CompilerOptions{BuildDir: t.TempDir()})
	unit := source.NewUnit("sample.th", []byte("fn main"))
	tokens := []Token{
		{Kind: "keyword", Lexeme: "fn", Span: source.NewSpan(0, 2)},
		{Kind: "ident", Lexeme: "main", Span: source.NewSpan(3, 7)},
	}

	path, err := emitter.EmitTokens(unit, tokens)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(path, "sample.tokens.json") {
		t.Fatalf("expected the artifact to be named after the unit, got %q", path)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var roundTrip []Token
	if err := json.Unmarshal(raw, &roundTrip); err != nil {
		t.Fatal(err)
	}
	if len(roundTrip) != 2 || roundTrip[0].Lexeme != "fn" || roundTrip[1].Span.Start != 3 {
		t.Fatalf("token stream did not round-trip, got %+v", roundTrip)
	}
}

func TestFileEmitterWritesASTJSON(t *testing.T) {
	emitter := NewFileEmitter(CompilerOptions{BuildDir: t.TempDir()})
	unit := source.NewUnit("sample.th", nil)

	path, err := emitter.EmitAST(unit, emptyUnit())
	if err != nil {
		t.Fatal(err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var dump struct {
		Filename     string `json:"filename"`
		Declarations []struct {
			Name string `json:"name"`
		} `json:"declarations"`
	}
	if err := json.Unmarshal(raw, &dump); err != nil {
		t.Fatal(err)
	}
	if dump.Filename != "t.th" || len(dump.Declarations) != 1 || dump.Declarations[0].Name != "main" {
		t.Fatalf("AST dump did not round-trip, got %+v", dump)
	}
}

func TestFileEmitterWritesRawLLVMIRText(t *testing.T) {
	emitter := NewFileEmitter(CompilerOptions{BuildDir: t.TempDir()})
	unit := source.NewUnit("sample.th", nil)

	const llText = "define void @main() {\nentry:\n  ret void\n}\n"
	path, err := emitter.EmitRaw(unit, llText, EmitRawLLVMIR)
	if err != nil {
		t.Fatal(err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(raw) != llText {
		t.Fatalf("expected the IR text verbatim, got %q", raw)
	}
}

func TestEmitKindRoundTrip(t *testing.T) {
	for _, s := range []string{"tokens", "ast", "raw-llvm-ir", "raw-llvm-bc", "raw-asm", "llvm-ir", "llvm-bc", "asm", "obj"} {
		kind, ok := ParseEmitKind(s)
		if !ok {
			t.Fatalf("ParseEmitKind rejected %q", s)
		}
		if kind.String() != s {
			t.Fatalf("EmitKind %q round-tripped to %q", s, kind.String())
		}
	}
	if _, ok := ParseEmitKind("elf"); ok {
		t.Fatal("expected an unknown emit kind to be rejected")
	}
}

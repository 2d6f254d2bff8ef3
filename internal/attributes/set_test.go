package attributes

import (
	"testing"

	"github.com/thrush-lang/thrushc/internal/source"
)

func TestSetPresenceQueries(t *testing.T) {
	span := source.Span{}
	set := NewSet(
		NewSimple(KindPublic, span),
		NewExtern("puts", span),
		NewAsmSyntax("Intel", span),
	)

	if !set.HasPublic() {
		t.Errorf("expected HasPublic to be true")
	}
	if set.HasHot() {
		t.Errorf("expected HasHot to be false")
	}

	extern, ok := set.Get(KindExtern)
	if !ok || extern.Name() != "puts" {
		t.Errorf("expected Extern(\"puts\"), got %+v ok=%v", extern, ok)
	}

	asm, ok := set.Get(KindAsmSyntax)
	if !ok || asm.ResolvedAsmSyntax() != AsmSyntaxIntel {
		t.Errorf("expected AsmSyntax Intel")
	}
}

func TestAsmSyntaxDefaultsToATT(t *testing.T) {
	if ParseAsmSyntax("whatever") != AsmSyntaxATT {
		t.Errorf("non-Intel syntax string should resolve to AT&T")
	}
	if ParseAsmSyntax("Intel") != AsmSyntaxIntel {
		t.Errorf("\"Intel\" should resolve to Intel")
	}
}

func TestEmptySetHasNoAttributes(t *testing.T) {
	set := NewSet()
	if set.HasPublic() || set.HasHeap() {
		t.Errorf("empty set should report no attributes present")
	}
	if _, ok := set.Get(KindPublic); ok {
		t.Errorf("Get on empty set should report not found")
	}
}

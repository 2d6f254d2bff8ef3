package diagnostics

import (
	"testing"

	"github.com/thrush-lang/thrushc/internal/source"
)

func TestCollectingDiagnosticianOrdersAndClassifies(t *testing.T) {
	d := &CollectingDiagnostician{}
	d.Dispatch(NewWarning(CodeUnusedLocal, "'x' not used.", source.Span{}))
	d.Dispatch(NewError(CodeTypeMismatch, "Expected 's32' but found 'bool'.", source.Span{}))

	if len(d.Issues) != 2 {
		t.Fatalf("expected 2 issues, got %d", len(d.Issues))
	}
	if !d.HasErrors() {
		t.Errorf("expected HasErrors true")
	}
	if d.HasBugs() {
		t.Errorf("expected HasBugs false")
	}
	if len(d.Warnings()) != 1 {
		t.Errorf("expected exactly 1 warning in Warnings()")
	}
}

func TestBugMessageIncludesCallerLocation(t *testing.T) {
	issue := NewBug(CodeMissingSymbol, "missing symbol in table", source.Span{}, "codegen/engine.go:42")
	if issue.Severity != SeverityBug {
		t.Errorf("expected Bug severity")
	}
	if got := issue.Error(); got == "" {
		t.Errorf("expected non-empty Error() string")
	}
}

package symbols

import "testing"

func TestScopeStackDepthRestoredAfterBeginEnd(t *testing.T) {
	s := NewScopeStack[int]()
	before := s.Depth()

	s.BeginScope()
	s.Declare("x", 1)
	s.BeginScope()
	s.Declare("y", 2)
	s.EndScope()
	s.EndScope()

	if got := s.Depth(); got != before {
		t.Fatalf("depth after begin/end pairs = %d, want %d", got, before)
	}
}

func TestScopeStackEndScopePanicsAtOutermost(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic popping the outermost frame")
		}
	}()
	NewScopeStack[int]().EndScope()
}

func TestScopeStackShadowingAllowedDuplicateWithinFrameRejected(t *testing.T) {
	s := NewScopeStack[int]()
	if err := s.Declare("x", 1); err != nil {
		t.Fatalf("unexpected duplicate error: %v", err)
	}

	s.BeginScope()
	if err := s.Declare("x", 2); err != nil {
		t.Fatalf("shadowing outer frame should not error, got %v", err)
	}
	if err := s.Declare("x", 3); err == nil {
		t.Fatal("expected DuplicateError declaring x twice in the same frame")
	}

	if v, ok := s.Lookup("x"); !ok || v != 2 {
		t.Fatalf("Lookup(x) = %d, %v, want 2, true (innermost shadow)", v, ok)
	}
	s.EndScope()
	if v, ok := s.Lookup("x"); !ok || v != 1 {
		t.Fatalf("Lookup(x) after EndScope = %d, %v, want 1, true (outer binding)", v, ok)
	}
}

func TestFlatMapDeclareAssignClear(t *testing.T) {
	f := NewFlatMap[int]()
	if err := f.Declare("a", 1); err != nil {
		t.Fatalf("unexpected duplicate error: %v", err)
	}
	if err := f.Declare("a", 2); err == nil {
		t.Fatal("expected DuplicateError on second Declare of the same name")
	}
	if !f.Assign("a", 9) {
		t.Fatal("Assign on existing entry should succeed")
	}
	if v, _ := f.Lookup("a"); v != 9 {
		t.Fatalf("Lookup(a) = %d, want 9", v)
	}
	f.Clear()
	if _, ok := f.Lookup("a"); ok {
		t.Fatal("Lookup(a) should miss after Clear")
	}
}

func TestCheckerTableResolveOrder(t *testing.T) {
	tbl := NewCheckerTable()
	tbl.GlobalConsts.Declare("pi", CheckerSignature{})
	tbl.Locals.BeginScope()
	tbl.Locals.Declare("pi", CheckerSignature{IsVariadic: true})

	found, ok := tbl.Resolve("pi")
	if !ok || found.Kind != KindLocal {
		t.Fatalf("Resolve(pi) kind = %v, ok = %v, want KindLocal, true", found.Kind, ok)
	}

	tbl.Locals.EndScope()
	found, ok = tbl.Resolve("pi")
	if !ok || found.Kind != KindConst {
		t.Fatalf("Resolve(pi) after EndScope kind = %v, ok = %v, want KindConst, true", found.Kind, ok)
	}
}

func TestCodegenTableResolveMiss(t *testing.T) {
	tbl := NewCodegenTable()
	if _, ok := tbl.Resolve("nope"); ok {
		t.Fatal("Resolve of an undeclared name should miss")
	}
}

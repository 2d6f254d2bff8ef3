package codegen

import (
	"testing"

	"github.com/llir/llvm/ir/metadata"
)

func flagKeys(e *Engine) []string {
	var keys []string
	for _, def := range e.Module.NamedMetadataDefs {
		if def.Name != "llvm.module.flags" {
			continue
		}
		for _, node := range def.Nodes {
			tuple, ok := node.(*metadata.Tuple)
			if !ok || len(tuple.Fields) != 3 {
				continue
			}
			if s, ok := tuple.Fields[1].(*metadata.String); ok {
				keys = append(keys, s.Value)
			}
		}
	}
	return keys
}

func TestModuleMetadataStampsRequestedFlags(t *testing.T) {
	e := NewEngine("t.th", ModuleOptions{
		TargetTriple:       "x86_64-unknown-linux-gnu",
		PICLevel:           2,
		FramePointerKind:   "all",
		UseUWTable:         true,
		RtLibUseGOT:        true,
		CompilerIdentifier: "thrushc test",
	})

	if e.Module.TargetTriple != "x86_64-unknown-linux-gnu" {
		t.Fatalf("expected the target triple on the module, got %q", e.Module.TargetTriple)
	}

	keys := flagKeys(e)
	want := map[string]bool{"PIC Level": false, "frame-pointer": false, "uwtable": false, "RtLibUseGOT": false}
	for _, k := range keys {
		if _, tracked := want[k]; tracked {
			want[k] = true
		}
	}
	for k, seen := range want {
		if !seen {
			t.Fatalf("expected module flag %q to be stamped, got %v", k, keys)
		}
	}

	foundIdent := false
	for _, def := range e.Module.NamedMetadataDefs {
		if def.Name == "llvm.ident" {
			foundIdent = true
		}
	}
	if !foundIdent {
		t.Fatal("expected llvm.ident to carry the compiler identifier")
	}
}

func TestModuleMetadataOmitsUnrequestedFlags(t *testing.T) {
	e := NewEngine("t.th", ModuleOptions{})
	if len(e.Module.NamedMetadataDefs) != 0 {
		t.Fatalf("expected no metadata for zero options, got %d defs", len(e.Module.NamedMetadataDefs))
	}
}

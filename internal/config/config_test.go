package config

import (
	"testing"

	"github.com/spf13/cobra"

	"github.com/thrush-lang/thrushc/internal/codegen"
	"github.com/thrush-lang/thrushc/internal/pipeline"
)

func command(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "build"}
	RegisterFlags(cmd)
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatal(err)
	}
	return cmd
}

func TestFromCommandMapsFlags(t *testing.T) {
	cmd := command(t,
		"--emit", "llvm-ir",
		"--opt", "O2",
		"--target-triple", "x86_64-unknown-linux-gnu",
		"--cpu", "skylake",
		"--reloc", "pic",
		"--code-model", "small",
		"--build-dir", "out",
		"--lkflags", "-lm",
	)

	opts, err := FromCommand(cmd)
	if err != nil {
		t.Fatal(err)
	}
	if opts.EmitSelection != pipeline.EmitLLVMIR {
		t.Fatalf("expected llvm-ir emit selection, got %s", opts.EmitSelection)
	}
	if opts.OptimizationLevel != pipeline.OptO2 {
		t.Fatalf("expected O2, got %v", opts.OptimizationLevel)
	}
	if opts.RelocMode != codegen.RelocPIC {
		t.Fatalf("expected PIC reloc mode, got %v", opts.RelocMode)
	}
	if opts.CodeModel != codegen.CodeModelSmall {
		t.Fatalf("expected small code model, got %v", opts.CodeModel)
	}
	if opts.BuildDir != "out" || opts.TargetCPU != "skylake" {
		t.Fatalf("expected build-dir/cpu to map through, got %q/%q", opts.BuildDir, opts.TargetCPU)
	}
	if len(opts.LinkerFlags) != 1 || opts.LinkerFlags[0] != "-lm" {
		t.Fatalf("expected linker flags to map through, got %v", opts.LinkerFlags)
	}
}

func TestFromCommandRejectsUnknownEmitKind(t *testing.T) {
	cmd := command(t, "--emit", "elf")
	if _, err := FromCommand(cmd); err == nil {
		t.Fatal("expected an unknown -emit kind to be rejected")
	}
}

func TestFromCommandRejectsUnknownOptLevel(t *testing.T) {
	cmd := command(t, "--opt", "O9")
	if _, err := FromCommand(cmd); err == nil {
		t.Fatal("expected an unknown -opt level to be rejected")
	}
}

func TestRtLibUseGOTDerivation(t *testing.T) {
	cmd := command(t, "--reloc", "pic", "--target-triple", "armv7-unknown-linux-gnueabihf")
	opts, err := FromCommand(cmd)
	if err != nil {
		t.Fatal(err)
	}
	if !opts.RtLibUseGOT {
		t.Fatal("expected arm + PIC to derive RtLibUseGOT")
	}

	cmd = command(t, "--reloc", "static", "--target-triple", "armv7-unknown-linux-gnueabihf")
	opts, err = FromCommand(cmd)
	if err != nil {
		t.Fatal(err)
	}
	if opts.RtLibUseGOT {
		t.Fatal("expected static reloc to not derive RtLibUseGOT")
	}
}

func TestDirectAccessExternalDataDerivedFromReloc(t *testing.T) {
	cmd := command(t, "--reloc", "static")
	opts, err := FromCommand(cmd)
	if err != nil {
		t.Fatal(err)
	}
	if !opts.DirectAccessExternalData {
		t.Fatal("expected no-PIC relocation to derive direct-access-external-data")
	}

	cmd = command(t, "--reloc", "pic")
	opts, err = FromCommand(cmd)
	if err != nil {
		t.Fatal(err)
	}
	if opts.DirectAccessExternalData {
		t.Fatal("expected PIC relocation to leave direct-access-external-data off")
	}

	cmd = command(t, "--reloc", "pic", "--direct-access-external-data")
	opts, err = FromCommand(cmd)
	if err != nil {
		t.Fatal(err)
	}
	if !opts.DirectAccessExternalData {
		t.Fatal("expected the explicit flag to force direct-access-external-data on")
	}
}

func TestPICLevelDerivedFromReloc(t *testing.T) {
	cmd := command(t, "--reloc", "pic")
	opts, err := FromCommand(cmd)
	if err != nil {
		t.Fatal(err)
	}
	if mod := opts.ModuleOptions(); mod.PICLevel != 2 {
		t.Fatalf("expected -reloc pic to stamp PIC Level 2, got %d", mod.PICLevel)
	}
}

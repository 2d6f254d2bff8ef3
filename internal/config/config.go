// Package config maps CLI flags onto pipeline.CompilerOptions, the same way
// the teacher builds a corset.CompilationConfig out of cobra flags inside
// pkg/cmd/root.go's getSchemaStack: one RegisterFlags call declaring every
// flag, one FromCommand call reading them back into the options struct the
// driver consumes.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thrush-lang/thrushc/internal/codegen"
	"github.com/thrush-lang/thrushc/internal/pipeline"
)

// CompilerVersion is stamped into every module's `llvm.ident` metadata.
// Overridable at link time the way the teacher's own Version variable is
// ("filled when building with make, but not when installing via go
// install", pkg/cmd/root.go).
var CompilerVersion = "thrushc (development build)"

// RegisterFlags declares every flag from spec.md §6's CLI list on cmd,
// mirroring the teacher's per-command Flags() blocks in pkg/cmd/compile.go.
func RegisterFlags(cmd *cobra.Command) {
	cmd.Flags().String("emit", "", "artifact kind: tokens|ast|raw-llvm-ir|raw-llvm-bc|raw-asm|llvm-ir|llvm-bc|asm|obj")
	cmd.Flags().String("opt", "O0", "optimization level: O0|O1|O2|O3|Oz")
	cmd.Flags().String("target-triple", "", "LLVM target triple, e.g. x86_64-unknown-linux-gnu")
	cmd.Flags().String("cpu", "", "target CPU name")
	cmd.Flags().String("cpu-features", "", "target CPU feature string")
	cmd.Flags().String("reloc", "", "relocation model: static|pic|dynamic-no-pic")
	cmd.Flags().String("code-model", "", "code model: small|kernel|medium|large")
	cmd.Flags().String("build-dir", "build", "directory artifacts are written into")
	cmd.Flags().StringArray("lkflags", nil, "extra flags forwarded to the linker")
	cmd.Flags().String("opt-passes", "", "explicit LLVM pass pipeline, overrides -opt")
	cmd.Flags().String("mod-passes", "", "modificator passes appended to the pipeline")

	cmd.Flags().String("sdk-macos-version", "", "macOS SDK version stamped into module metadata")
	cmd.Flags().String("sdk-ios-version", "", "iOS SDK version stamped into module metadata")
	cmd.Flags().String("darwin-target-variant", "", "darwin target variant triple")
	cmd.Flags().String("frame-pointer", "all", "frame pointer policy: none|non-leaf|all")
	cmd.Flags().Bool("uwtable", true, "emit unwind tables")
	cmd.Flags().Bool("direct-access-external-data", false, "assume external data is directly accessible")

	cmd.Flags().String("opt-binary", "opt", "path to the LLVM opt tool")
	cmd.Flags().String("llc-binary", "llc", "path to the LLVM llc tool")
	cmd.Flags().String("llvm-as-binary", "llvm-as", "path to the LLVM llvm-as tool")
	cmd.Flags().String("linker-binary", "cc", "path to the native linker driver")
}

// FromCommand reads the flags declared by RegisterFlags back into the
// CompilerOptions struct the pipeline driver consumes (spec.md §6 "Consumed
// from options"). A malformed flag value is command-line misuse; the caller
// maps the returned error to exit code 1.
func FromCommand(cmd *cobra.Command) (pipeline.CompilerOptions, error) {
	var opts pipeline.CompilerOptions

	emitStr, _ := cmd.Flags().GetString("emit")
	emit, ok := pipeline.ParseEmitKind(emitStr)
	if !ok {
		return opts, fmt.Errorf("config: unknown -emit kind %q", emitStr)
	}

	optStr, _ := cmd.Flags().GetString("opt")
	level, err := ParseOptLevel(optStr)
	if err != nil {
		return opts, err
	}

	relocStr, _ := cmd.Flags().GetString("reloc")
	reloc, err := ParseRelocMode(relocStr)
	if err != nil {
		return opts, err
	}

	modelStr, _ := cmd.Flags().GetString("code-model")
	model, err := ParseCodeModel(modelStr)
	if err != nil {
		return opts, err
	}

	opts.EmitSelection = emit
	opts.OptimizationLevel = level
	opts.RelocMode = reloc
	opts.CodeModel = model
	opts.TargetTriple, _ = cmd.Flags().GetString("target-triple")
	opts.TargetCPU, _ = cmd.Flags().GetString("cpu")
	opts.TargetCPUFeatures, _ = cmd.Flags().GetString("cpu-features")
	opts.BuildDir, _ = cmd.Flags().GetString("build-dir")
	opts.LinkerFlags, _ = cmd.Flags().GetStringArray("lkflags")
	opts.OptPasses, _ = cmd.Flags().GetString("opt-passes")
	opts.ModificatorPasses, _ = cmd.Flags().GetString("mod-passes")

	opts.SDKMacOSVersion, _ = cmd.Flags().GetString("sdk-macos-version")
	opts.SDKIOSVersion, _ = cmd.Flags().GetString("sdk-ios-version")
	opts.DarwinTargetVariant, _ = cmd.Flags().GetString("darwin-target-variant")
	opts.FramePointer, _ = cmd.Flags().GetString("frame-pointer")
	opts.UWTable, _ = cmd.Flags().GetBool("uwtable")

	// direct-access-external-data is emitted when relocation is no-PIC
	// (spec.md §4.H "Module metadata"); the flag itself covers the
	// JIT-without-direct-access-omission case the reloc mode cannot express.
	directAccess, _ := cmd.Flags().GetBool("direct-access-external-data")
	opts.DirectAccessExternalData = directAccess ||
		reloc == codegen.RelocStatic || reloc == codegen.RelocDynamicNoPIC

	opts.OptBinary, _ = cmd.Flags().GetString("opt-binary")
	opts.LLCBinary, _ = cmd.Flags().GetString("llc-binary")
	opts.LLVMASBinary, _ = cmd.Flags().GetString("llvm-as-binary")
	opts.LinkerBinary, _ = cmd.Flags().GetString("linker-binary")

	opts.CompilerIdentifier = CompilerVersion

	// RtLibUseGOT is emitted when the triple is arm + PIC + POSIX thread
	// model (spec.md §4.H "Module metadata"); thread model is not a flag
	// here, so arm + PIC decides.
	opts.RtLibUseGOT = reloc == codegen.RelocPIC && strings.HasPrefix(opts.TargetTriple, "arm")

	return opts, nil
}

// ParseOptLevel maps an -opt value to its pipeline.OptLevel.
func ParseOptLevel(s string) (pipeline.OptLevel, error) {
	switch s {
	case "", "O0":
		return pipeline.OptO0, nil
	case "O1":
		return pipeline.OptO1, nil
	case "O2":
		return pipeline.OptO2, nil
	case "O3":
		return pipeline.OptO3, nil
	case "Oz":
		return pipeline.OptOz, nil
	default:
		return pipeline.OptO0, fmt.Errorf("config: unknown -opt level %q", s)
	}
}

// ParseRelocMode maps a -reloc value to its codegen.RelocMode.
func ParseRelocMode(s string) (codegen.RelocMode, error) {
	switch s {
	case "":
		return codegen.RelocDefault, nil
	case "static":
		return codegen.RelocStatic, nil
	case "pic":
		return codegen.RelocPIC, nil
	case "dynamic-no-pic":
		return codegen.RelocDynamicNoPIC, nil
	default:
		return codegen.RelocDefault, fmt.Errorf("config: unknown -reloc mode %q", s)
	}
}

// ParseCodeModel maps a -code-model value to its codegen.CodeModel.
func ParseCodeModel(s string) (codegen.CodeModel, error) {
	switch s {
	case "":
		return codegen.CodeModelDefault, nil
	case "small":
		return codegen.CodeModelSmall, nil
	case "kernel":
		return codegen.CodeModelKernel, nil
	case "medium":
		return codegen.CodeModelMedium, nil
	case "large":
		return codegen.CodeModelLarge, nil
	default:
		return codegen.CodeModelDefault, fmt.Errorf("config: unknown -code-model %q", s)
	}
}

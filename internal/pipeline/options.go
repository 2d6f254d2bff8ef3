package pipeline

import "github.com/thrush-lang/thrushc/internal/codegen"

// EmitKind selects how far the driver carries a unit before writing output
// and stopping, per spec.md §4.I steps 6/7/9/11/12 and §6's emit_selection.
type EmitKind uint8

const (
	// EmitObject is the implicit default (no -emit flag at all): carry
	// every unit all the way to an object file recorded for the final link
	// step, per §4.I step 12.
	EmitObject EmitKind = iota
	EmitTokens
	EmitAST
	EmitRawLLVMIR
	EmitRawLLVMBC
	EmitRawAsm
	EmitLLVMIR
	EmitLLVMBC
	EmitAsm
	// EmitObjectOnly is the explicit `-emit obj` request: write the object
	// file and stop, per §4.I step 11's `{llvm-ir, llvm-bc, asm, obj}`
	// group — unlike the implicit default, this does not feed the linker
	// (§4.I "unless was_emited() indicates a sub-object emit was
	// requested").
	EmitObjectOnly
)

func (k EmitKind) String() string {
	switch k {
	case EmitTokens:
		return "tokens"
	case EmitAST:
		return "ast"
	case EmitRawLLVMIR:
		return "raw-llvm-ir"
	case EmitRawLLVMBC:
		return "raw-llvm-bc"
	case EmitRawAsm:
		return "raw-asm"
	case EmitObjectOnly:
		return "obj"
	case EmitLLVMIR:
		return "llvm-ir"
	case EmitLLVMBC:
		return "llvm-bc"
	case EmitAsm:
		return "asm"
	default:
		return "obj"
	}
}

// ParseEmitKind maps a `-emit` flag value to an EmitKind.
func ParseEmitKind(s string) (EmitKind, bool) {
	switch s {
	case "tokens":
		return EmitTokens, true
	case "ast":
		return EmitAST, true
	case "raw-llvm-ir":
		return EmitRawLLVMIR, true
	case "raw-llvm-bc":
		return EmitRawLLVMBC, true
	case "raw-asm":
		return EmitRawAsm, true
	case "llvm-ir":
		return EmitLLVMIR, true
	case "llvm-bc":
		return EmitLLVMBC, true
	case "asm":
		return EmitAsm, true
	case "obj":
		return EmitObjectOnly, true
	case "":
		return EmitObject, true
	default:
		return 0, false
	}
}

// OptLevel mirrors the `-opt` flag's O0..O3/Oz choices.
type OptLevel uint8

const (
	OptO0 OptLevel = iota
	OptO1
	OptO2
	OptO3
	OptOz
)

func (o OptLevel) passName() string {
	switch o {
	case OptO1:
		return "default<O1>"
	case OptO2:
		return "default<O2>"
	case OptO3:
		return "default<O3>"
	case OptOz:
		return "default<Oz>"
	default:
		return "default<O0>"
	}
}

// CompilerOptions is the external-interface struct consumed by the driver,
// grounded verbatim in spec.md §6's "Consumed from options" field list, plus
// the module-metadata fields internal/codegen.ModuleOptions already carries.
type CompilerOptions struct {
	BuildDir           string
	TargetTriple       string
	TargetCPU          string
	TargetCPUFeatures  string
	OptimizationLevel  OptLevel
	RelocMode          codegen.RelocMode
	CodeModel          codegen.CodeModel
	OptPasses          string
	ModificatorPasses  string
	EmitSelection      EmitKind
	LinkerFlags        []string

	SDKMacOSVersion      string
	SDKIOSVersion        string
	DarwinTargetVariant  string
	FramePointer         string
	UWTable              bool
	DirectAccessExternalData bool
	RtLibUseGOT          bool

	CompilerIdentifier string
	BuildID            string
	LLVMVersion        string

	// OptBinary/LLCBinary/LLVMASBinary name the external LLVM tools this
	// driver shells out to for steps 10/11/12 (spec.md §5 Non-goals: "no
	// machine code generation beyond driving the LLVM-IR-like builder" — the
	// actual optimizing/codegen work is delegated to opt/llc, the same
	// division of labor the teacher's own field/internal/generator/main.go
	// uses for goimports: build text, shell out, done).
	OptBinary    string
	LLCBinary    string
	LLVMASBinary string
	LinkerBinary string
}

// ModuleOptions projects the subset of CompilerOptions the codegen engine
// needs to stamp into a freshly created module, per spec.md §4.H. The PIC
// level derives from the relocation model (`-reloc pic` stamps level 2, the
// same value clang's driver picks for `-fPIC`); PIELevel is left 0, so no
// PIE level is stamped. Also,
// direct-access-external-data is forced on under a no-PIC relocation; the
// option field alone covers the JIT-without-direct-access-omission case.
func (o CompilerOptions) ModuleOptions() codegen.ModuleOptions {
	picLevel := 0
	if o.RelocMode == codegen.RelocPIC {
		picLevel = 2
	}
	directAccess := o.DirectAccessExternalData ||
		o.RelocMode == codegen.RelocStatic || o.RelocMode == codegen.RelocDynamicNoPIC
	return codegen.ModuleOptions{
		PICLevel:                 picLevel,
		TargetTriple:             o.TargetTriple,
		Reloc:                    o.RelocMode,
		CodeModel:                o.CodeModel,
		CompilerIdentifier:       o.CompilerIdentifier,
		BuildID:                  o.BuildID,
		LLVMVersion:              o.LLVMVersion,
		AppleSDKVersion:          o.SDKMacOSVersion,
		ApplePlatformMinVersion:  o.DarwinTargetVariant,
		RtLibUseGOT:              o.RtLibUseGOT,
		DirectAccessExternalData: directAccess,
		FramePointerKind:         o.FramePointer,
		UseUWTable:               o.UWTable,
	}
}

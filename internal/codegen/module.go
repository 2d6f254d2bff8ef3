package codegen

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/metadata"
)

// RelocMode mirrors LLVM's relocation model (`-reloc` on the driver CLI,
// SPEC_FULL.md §4.I).
type RelocMode uint8

const (
	RelocDefault RelocMode = iota
	RelocStatic
	RelocPIC
	RelocDynamicNoPIC
)

// CodeModel mirrors LLVM's code model (`-code-model`).
type CodeModel uint8

const (
	CodeModelDefault CodeModel = iota
	CodeModelSmall
	CodeModelKernel
	CodeModelMedium
	CodeModelLarge
)

// ModuleOptions carries every module-level flag named in spec.md §4.H/§4.I's
// "module metadata" requirement, sourced from the pipeline driver's
// CompilerOptions (internal/pipeline, internal/config).
type ModuleOptions struct {
	TargetTriple string
	DataLayout   string

	Reloc     RelocMode
	CodeModel CodeModel

	PICLevel int // 0 (off), 1, 2
	PIELevel int // 0 (off), 1, 2

	CompilerIdentifier string
	BuildID            string
	LLVMVersion        string

	AppleSDKVersion         string
	ApplePlatformMinVersion string

	RtLibUseGOT              bool
	DirectAccessExternalData bool
	FramePointerKind         string // "none", "non-leaf", "all"
	UseUWTable               bool
}

// attachModuleMetadata stamps the module-level flags LLVM's verifier and
// backend expect to find under `llvm.module.flags` / `!llvm.ident`, per
// spec.md §4.H. There is no real TargetData/DataLayout model backing this
// (see DESIGN.md); this records the requested values as module flags using
// the shapes `clang -emit-llvm` itself produces, best-effort against the
// llir/llvm metadata API.
func attachModuleMetadata(m *ir.Module, opts ModuleOptions) {
	if opts.TargetTriple != "" {
		m.TargetTriple = opts.TargetTriple
	}
	if opts.DataLayout != "" {
		m.DataLayout = opts.DataLayout
	}

	addFlag := func(behavior int64, key string, val metadata.Field) {
		def, ok := m.NamedMetadataDefs["llvm.module.flags"]
		if !ok {
			def = &metadata.NamedDef{Name: "llvm.module.flags"}
			m.NamedMetadataDefs["llvm.module.flags"] = def
		}
		def.Nodes = append(def.Nodes, &metadata.Tuple{
			Fields: []metadata.Field{
				metadata.IntLit(behavior),
				&metadata.String{Value: key},
				val,
			},
		})
	}

	const moduleFlagError = 1
	const moduleFlagMax = 7
	const moduleFlagOverride = 4

	if opts.PICLevel > 0 {
		addFlag(moduleFlagMax, "PIC Level", metadata.IntLit(opts.PICLevel))
	}
	if opts.PIELevel > 0 {
		addFlag(moduleFlagMax, "PIE Level", metadata.IntLit(opts.PIELevel))
	}
	if opts.CodeModel != CodeModelDefault {
		addFlag(moduleFlagError, "Code Model", metadata.IntLit(codeModelValue(opts.CodeModel)))
	}
	if opts.RtLibUseGOT {
		addFlag(moduleFlagMax, "RtLibUseGOT", metadata.IntLit(1))
	}
	if opts.DirectAccessExternalData {
		addFlag(moduleFlagMax, "direct-access-external-data", metadata.IntLit(1))
	}
	if opts.FramePointerKind != "" {
		addFlag(moduleFlagOverride, "frame-pointer", metadata.IntLit(framePointerValue(opts.FramePointerKind)))
	}
	if opts.UseUWTable {
		addFlag(moduleFlagMax, "uwtable", metadata.IntLit(2))
	}
	if opts.AppleSDKVersion != "" {
		addFlag(moduleFlagMax, "SDK Version", &metadata.String{Value: opts.AppleSDKVersion})
	}

	if opts.CompilerIdentifier != "" {
		m.NamedMetadataDefs["llvm.ident"] = &metadata.NamedDef{
			Name: "llvm.ident",
			Nodes: []metadata.Node{
				&metadata.Tuple{Fields: []metadata.Field{&metadata.String{Value: opts.CompilerIdentifier}}},
			},
		}
	}
	if opts.BuildID != "" {
		m.ModuleAsms = append(m.ModuleAsms, `.note.gnu.build-id section carries `+opts.BuildID)
	}
}

func codeModelValue(c CodeModel) int {
	switch c {
	case CodeModelSmall:
		return 1
	case CodeModelKernel:
		return 2
	case CodeModelMedium:
		return 3
	case CodeModelLarge:
		return 4
	default:
		return 0
	}
}

func framePointerValue(kind string) int {
	switch kind {
	case "all":
		return 2
	case "non-leaf":
		return 1
	default:
		return 0
	}
}

package pipeline

import (
	"github.com/thrush-lang/thrushc/internal/ast"
	"github.com/thrush-lang/thrushc/internal/source"
)

// Backend is the "external LLVM layer and linker" seam named in spec.md §1
// ("invocation of external linkers", "the concrete LLVM binding" are
// deliberately out of scope: the core names the operations, not the
// binding) and §6 ("Produced to emitter" / "Produced to linker"). The
// driver calls it at steps 6/7/9/10/11/12; FileEmitter is the default
// implementation, shelling out to opt/llc/llvm-as the way the teacher's own
// code-generation step shells out to gofmt/goimports
// (field/internal/generator/main.go's runCmd).
type Backend interface {
	// EmitTokens serves §4.I step 6.
	EmitTokens(unit *source.Unit, tokens []Token) (path string, err error)
	// EmitAST serves §4.I step 7.
	EmitAST(unit *source.Unit, tree *ast.TranslationUnit) (path string, err error)
	// EmitRaw writes the unoptimized IR text in the requested raw form and
	// serves §4.I step 9 (EmitRawLLVMIR, EmitRawLLVMBC, EmitRawAsm only).
	EmitRaw(unit *source.Unit, llText string, kind EmitKind) (path string, err error)
	// Optimize runs the chosen optimization level (plus any user-supplied
	// pass pipeline) over llText and returns the optimized IR text, serving
	// §4.I step 10.
	Optimize(unit *source.Unit, llText string, level OptLevel, optPasses string) (optimizedText string, err error)
	// EmitFinal writes the post-optimization artifact for the requested kind
	// and serves §4.I step 11 (EmitLLVMIR, EmitLLVMBC, EmitAsm, EmitObject
	// when EmitObject was the explicit -emit request rather than the
	// implicit "link next" default).
	EmitFinal(unit *source.Unit, llText string, kind EmitKind) (path string, err error)
	// EmitObjectForLink writes an object file to BuildDir and returns its
	// path, serving §4.I step 12 ("write an object file to the build
	// directory and record the path for the linker step").
	EmitObjectForLink(unit *source.Unit, llText string) (path string, err error)
	// Link invokes the external linker over every collected object path,
	// per §4.I "After all units".
	Link(objectPaths []string, opts CompilerOptions) error
}

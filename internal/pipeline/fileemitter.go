package pipeline

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/segmentio/encoding/json"

	"github.com/thrush-lang/thrushc/internal/ast"
	"github.com/thrush-lang/thrushc/internal/source"
)

// FileEmitter is the default Backend: it writes artifacts under BuildDir
// and shells out to the external LLVM toolchain (opt/llc/llvm-as) and the
// platform linker for anything past raw IR text, the same "build text,
// invoke an external tool, check the error" shape the teacher's own
// bavard-driven code generator uses for gofmt/goimports
// (field/internal/generator/main.go's runCmd).
type FileEmitter struct {
	Opts CompilerOptions
}

// NewFileEmitter constructs the default Backend over opts.
func NewFileEmitter(opts CompilerOptions) *FileEmitter {
	return &FileEmitter{Opts: opts}
}

func (f *FileEmitter) path(unitFilename, ext string) string {
	base := filepath.Base(unitFilename)
	if dot := strings.LastIndexByte(base, '.'); dot >= 0 {
		base = base[:dot]
	}
	return filepath.Join(f.Opts.BuildDir, base+ext)
}

func runTool(bin string, args []string) error {
	if bin == "" {
		return fmt.Errorf("pipeline: no external tool binary configured to run %v", args)
	}
	cmd := exec.Command(bin, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("pipeline: %s %s: %w", bin, strings.Join(args, " "), err)
	}
	return nil
}

// EmitTokens serializes the token stream as JSON via segmentio/encoding,
// per SPEC_FULL.md's domain-stack wiring ("Fast JSON for -emit
// tokens|ast").
func (f *FileEmitter) EmitTokens(unit *source.Unit, tokens []Token) (string, error) {
	out, err := json.MarshalIndent(tokens, "", "  ")
	if err != nil {
		return "", err
	}
	path := f.path(unit.Filename, ".tokens.json")
	return path, os.WriteFile(path, out, 0644)
}

// declDump pairs a declaration's name with its node so the emitted JSON
// reads as a list of named entries rather than a bare array of structs
// indistinguishable by kind.
type declDump struct {
	Name string   `json:"name"`
	Node ast.Decl `json:"node"`
}

func (f *FileEmitter) EmitAST(unit *source.Unit, tree *ast.TranslationUnit) (string, error) {
	dump := struct {
		Filename     string     `json:"filename"`
		Declarations []declDump `json:"declarations"`
	}{Filename: tree.Filename}
	for _, d := range tree.Declarations {
		dump.Declarations = append(dump.Declarations, declDump{Name: d.DeclName(), Node: d})
	}
	out, err := json.MarshalIndent(dump, "", "  ")
	if err != nil {
		return "", err
	}
	path := f.path(unit.Filename, ".ast.json")
	return path, os.WriteFile(path, out, 0644)
}

func (f *FileEmitter) EmitRaw(unit *source.Unit, llText string, kind EmitKind) (string, error) {
	switch kind {
	case EmitRawLLVMIR:
		path := f.path(unit.Filename, ".ll")
		return path, os.WriteFile(path, []byte(llText), 0644)
	case EmitRawLLVMBC:
		llPath := f.path(unit.Filename, ".ll")
		if err := os.WriteFile(llPath, []byte(llText), 0644); err != nil {
			return "", err
		}
		bcPath := f.path(unit.Filename, ".bc")
		return bcPath, runTool(f.Opts.LLVMASBinary, []string{llPath, "-o", bcPath})
	case EmitRawAsm:
		llPath := f.path(unit.Filename, ".ll")
		if err := os.WriteFile(llPath, []byte(llText), 0644); err != nil {
			return "", err
		}
		sPath := f.path(unit.Filename, ".s")
		return sPath, runTool(f.Opts.LLCBinary, []string{llPath, "-filetype=asm", "-o", sPath})
	default:
		return "", fmt.Errorf("pipeline: EmitRaw called with non-raw emit kind %s", kind)
	}
}

// Optimize shells out to `opt` with the chosen -O level (or a user-supplied
// pass pipeline, which takes precedence) and reads the optimized IR back
// from disk, per §6's `opt_passes`/`modificator_passes` options.
func (f *FileEmitter) Optimize(unit *source.Unit, llText string, level OptLevel, optPasses string) (string, error) {
	inPath := f.path(unit.Filename, ".preopt.ll")
	if err := os.WriteFile(inPath, []byte(llText), 0644); err != nil {
		return "", err
	}
	outPath := f.path(unit.Filename, ".opt.ll")
	passes := optPasses
	if passes == "" {
		passes = level.passName()
	}
	if f.Opts.ModificatorPasses != "" {
		passes = passes + "," + f.Opts.ModificatorPasses
	}
	args := []string{"-S", "-passes=" + passes, inPath, "-o", outPath}
	if err := runTool(f.Opts.OptBinary, args); err != nil {
		return "", err
	}
	out, err := os.ReadFile(outPath)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func (f *FileEmitter) EmitFinal(unit *source.Unit, llText string, kind EmitKind) (string, error) {
	switch kind {
	case EmitLLVMIR:
		path := f.path(unit.Filename, ".ll")
		return path, os.WriteFile(path, []byte(llText), 0644)
	case EmitLLVMBC:
		llPath := f.path(unit.Filename, ".opt.ll")
		if err := os.WriteFile(llPath, []byte(llText), 0644); err != nil {
			return "", err
		}
		bcPath := f.path(unit.Filename, ".bc")
		return bcPath, runTool(f.Opts.LLVMASBinary, []string{llPath, "-o", bcPath})
	case EmitAsm:
		llPath := f.path(unit.Filename, ".opt.ll")
		if err := os.WriteFile(llPath, []byte(llText), 0644); err != nil {
			return "", err
		}
		sPath := f.path(unit.Filename, ".s")
		return sPath, runTool(f.Opts.LLCBinary, []string{llPath, "-filetype=asm", "-o", sPath})
	case EmitObjectOnly:
		return f.EmitObjectForLink(unit, llText)
	default:
		return "", fmt.Errorf("pipeline: EmitFinal called with unsupported emit kind %s", kind)
	}
}

func (f *FileEmitter) EmitObjectForLink(unit *source.Unit, llText string) (string, error) {
	llPath := f.path(unit.Filename, ".opt.ll")
	if err := os.WriteFile(llPath, []byte(llText), 0644); err != nil {
		return "", err
	}
	objPath := f.path(unit.Filename, ".o")
	if err := runTool(f.Opts.LLCBinary, []string{llPath, "-filetype=obj", "-o", objPath}); err != nil {
		return "", err
	}
	return objPath, nil
}

func (f *FileEmitter) Link(objectPaths []string, opts CompilerOptions) error {
	if len(objectPaths) == 0 {
		return nil
	}
	out := filepath.Join(opts.BuildDir, "a.out")
	args := append(append([]string{}, objectPaths...), opts.LinkerFlags...)
	args = append(args, "-o", out)
	return runTool(opts.LinkerBinary, args)
}

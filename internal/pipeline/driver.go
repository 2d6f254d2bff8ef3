// Package pipeline implements the driver from spec.md §4.I: the per-unit
// sequence (read, lex, parse, lint, check, codegen, optimize, emit) plus the
// cross-unit link step, grounded in the teacher's pkg/cmd/compile.go-style
// "getSchemaStack" multi-file driving pattern: read every file, build one
// config, run one pass sequence per file, collect outputs for a final step.
package pipeline

import (
	"errors"
	"os"
	"time"

	"github.com/thrush-lang/thrushc/internal/codegen"
	"github.com/thrush-lang/thrushc/internal/diagnostics"
	"github.com/thrush-lang/thrushc/internal/linter"
	"github.com/thrush-lang/thrushc/internal/logging"
	"github.com/thrush-lang/thrushc/internal/source"
	"github.com/thrush-lang/thrushc/internal/typechecker"
)

// ErrUnitHadErrors is returned by CompileUnit when the parser or the type
// checker reported at least one error; codegen was never reached for that
// unit (§4.I step 5, §7 "Errors stop the current unit at the next pass
// boundary").
var ErrUnitHadErrors = errors.New("pipeline: translation unit had errors")

// ErrUnitHadBug is returned when codegen raised a Bug-severity issue (§7:
// "Bugs stop the current unit immediately").
var ErrUnitHadBug = errors.New("pipeline: translation unit had a compiler bug")

// Result carries everything the CLI front-end needs to report on one
// compiled unit: every diagnostic raised, the artifact path written (if
// any), and where in the 12-step sequence the unit stopped.
type Result struct {
	Unit        *source.Unit
	Diagnostics *diagnostics.CollectingDiagnostician
	OutputPath  string
	StoppedAt   EmitKind
	Elapsed     time.Duration
}

// Stats accumulates the timing and file-list bookkeeping spec.md §2 assigns
// to the pipeline driver ("accumulates timing and file lists").
type Stats struct {
	Files        []string
	ObjectPaths  []string
	TotalElapsed time.Duration
}

// Driver runs the §4.I sequence across every translation unit handed to it,
// then drives the final link step. The lexer, parser, and backend
// (optimizer/emitter/linker) are external collaborators passed in, per
// spec.md §1's "Deliberately out of scope" list.
type Driver struct {
	Options CompilerOptions
	Lexer   Lexer
	Parser  Parser
	Backend Backend

	Stats Stats
}

// NewDriver constructs a Driver. backend may be nil only if Options never
// asks for anything past `-emit ast`; the first step that needs the backend
// panics on the nil interface call.
func NewDriver(opts CompilerOptions, lexer Lexer, parser Parser, backend Backend) *Driver {
	return &Driver{Options: opts, Lexer: lexer, Parser: parser, Backend: backend}
}

// CompileFiles reads and compiles each named source file in turn, then
// (unless every unit stopped before reaching object emission) links the
// collected object files, per §4.I "After all units".
func (d *Driver) CompileFiles(filenames []string) ([]*Result, error) {
	results := make([]*Result, 0, len(filenames))
	for _, name := range filenames {
		contents, err := os.ReadFile(name)
		if err != nil {
			return results, err
		}
		unit := source.NewUnit(name, contents)
		res, cErr := d.CompileUnit(unit)
		results = append(results, res)
		d.Stats.Files = append(d.Stats.Files, name)
		if cErr != nil && !errors.Is(cErr, ErrUnitHadErrors) && !errors.Is(cErr, ErrUnitHadBug) {
			return results, cErr
		}
	}

	if d.wasEmited() {
		return results, nil
	}

	if d.Backend != nil && len(d.Stats.ObjectPaths) > 0 {
		if err := d.Backend.Link(d.Stats.ObjectPaths, d.Options); err != nil {
			return results, err
		}
	}
	return results, nil
}

// wasEmited mirrors §4.I's "unless was_emited() indicates a sub-object emit
// was requested": any explicit -emit selection short of the default object
// pipeline means there is nothing left for the linker to do.
func (d *Driver) wasEmited() bool {
	return d.Options.EmitSelection != EmitObject
}

// CompileUnit runs the full 12-step sequence from spec.md §4.I over a
// single translation unit.
func (d *Driver) CompileUnit(unit *source.Unit) (*Result, error) {
	start := time.Now()
	diag := &diagnostics.CollectingDiagnostician{}
	res := &Result{Unit: unit, Diagnostics: diag}
	finish := func(err error) (*Result, error) {
		res.Elapsed = time.Since(start)
		d.Stats.TotalElapsed += res.Elapsed
		return res, err
	}

	// Step 2: lex.
	logging.Stage(unit.Filename, "lex")
	tokens, err := d.Lexer.Lex(unit)
	if err != nil {
		return finish(err)
	}
	if d.Options.EmitSelection == EmitTokens {
		path, err := d.Backend.EmitTokens(unit, tokens)
		res.OutputPath, res.StoppedAt = path, EmitTokens
		return finish(err)
	}

	// Step 3: parse.
	logging.Stage(unit.Filename, "parse")
	tree, hadParserErrors, err := d.Parser.Parse(unit, tokens)
	if err != nil {
		return finish(err)
	}
	if d.Options.EmitSelection == EmitAST {
		path, err := d.Backend.EmitAST(unit, tree)
		res.OutputPath, res.StoppedAt = path, EmitAST
		return finish(err)
	}

	// Step 4: lint (warnings only, never blocks).
	logging.Stage(unit.Filename, "lint")
	lintIssues := linter.New().Lint(tree)
	diag.DispatchAll(lintIssues)
	logging.Pass(unit.Filename, "lint", len(lintIssues), 0)

	// Step 5: type-check (errors block further passes for this unit).
	logging.Stage(unit.Filename, "typecheck")
	checkIssues, ok := typechecker.New().Check(tree)
	diag.DispatchAll(checkIssues)
	logging.Pass(unit.Filename, "typecheck", 0, len(checkIssues))

	if hadParserErrors || !ok {
		return finish(ErrUnitHadErrors)
	}

	// Step 8: create IR module, run codegen.
	logging.Stage(unit.Filename, "codegen")
	engine := codegen.NewEngine(unit.Filename, d.Options.ModuleOptions())
	engine.CompileUnit(tree)
	diag.DispatchAll(engine.Issues())
	if diag.HasBugs() {
		for _, issue := range engine.Issues() {
			if issue.Severity == diagnostics.SeverityBug {
				logging.Bug(unit.Filename, string(issue.Code), issue.Message)
			}
		}
		return finish(ErrUnitHadBug)
	}

	llText := engine.Module.String()

	// Step 9: raw emit kinds stop here, before any optimization pass runs.
	if isRawEmit(d.Options.EmitSelection) {
		path, err := d.Backend.EmitRaw(unit, llText, d.Options.EmitSelection)
		res.OutputPath, res.StoppedAt = path, d.Options.EmitSelection
		return finish(err)
	}

	// Step 10: run the optimizer at the chosen level / pass pipeline.
	optimized, err := d.Backend.Optimize(unit, llText, d.Options.OptimizationLevel, d.Options.OptPasses)
	if err != nil {
		return finish(err)
	}

	// Step 11: llvm-ir/llvm-bc/asm/obj kinds stop here, having been optimized.
	if isFinalEmit(d.Options.EmitSelection) {
		path, err := d.Backend.EmitFinal(unit, optimized, d.Options.EmitSelection)
		res.OutputPath, res.StoppedAt = path, d.Options.EmitSelection
		return finish(err)
	}

	// Step 12: default path — write an object file and record it for the
	// linker.
	objPath, err := d.Backend.EmitObjectForLink(unit, optimized)
	if err != nil {
		return finish(err)
	}
	res.OutputPath, res.StoppedAt = objPath, EmitObject
	d.Stats.ObjectPaths = append(d.Stats.ObjectPaths, objPath)
	return finish(nil)
}

func isRawEmit(k EmitKind) bool {
	return k == EmitRawLLVMIR || k == EmitRawLLVMBC || k == EmitRawAsm
}

func isFinalEmit(k EmitKind) bool {
	return k == EmitLLVMIR || k == EmitLLVMBC || k == EmitAsm || k == EmitObjectOnly
}

// Package diagnostics implements the CompilationIssue builder from spec.md
// §4.C and the error taxonomy from §7. This package only constructs issues
// and hands them to a Diagnostician; rendering (mapping a span to a file
// excerpt, printing, colorizing) is an external collaborator's job, per
// spec.md §1 "Deliberately out of scope".
//
// The shape is grounded in the teacher's own `SyntaxError` builder
// (github.com/consensys/go-corset pkg/util/source.File.SyntaxError /
// pkg/sexp.SyntaxError): a small struct wrapping {span, message}, returned
// by value from passes rather than printed by them
// (pkg/corset/compiler/typing.go: `TypeCheckCircuit(...) []SyntaxError`).
package diagnostics

import (
	"fmt"

	"github.com/thrush-lang/thrushc/internal/source"
)

// Severity classifies a CompilationIssue per spec.md §7's taxonomy table.
type Severity uint8

const (
	SeverityWarning Severity = iota
	SeverityError
	SeverityBug
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityBug:
		return "bug"
	default:
		return "unknown"
	}
}

// Code is a stable issue code, e.g. "E0019", "W0005", "B0001" (§7). Codes are
// grouped by the original Rust implementation's own numbering
// (_examples/original_source/thrushc_linter, thrushc_typechecker); see the
// Wxxxx/Exxxx constants below.
type Code string

// Linter warning codes, grounded verbatim in
// _examples/original_source/thrushc_linter/src/lib.rs.
const (
	CodeUnusedLocal          Code = "W0005"
	CodeUnusedUnreachable    Code = "W0006"
	CodeUnusedLLI            Code = "W0007"
	CodeUnusedParameter      Code = "W0008"
	CodeUnusedStatic         Code = "W0009"
	CodeUnusedConst          Code = "W0010"
	CodeUnusedAsmFn          Code = "W0011"
	CodeUnusedEnum           Code = "W0012"
	CodeUnusedEnumField      Code = "W0013"
	CodeUnusedIntrinsic      Code = "W0014"
	CodeUnusedStruct         Code = "W0015"
	CodeUnusedStructField    Code = "W0016"
	CodeUnusedFn             Code = "W0017"
)

// Type checker error codes, grounded in
// _examples/original_source/thrushc_typechecker/src/lib.rs (E0019, E0020)
// plus a sequential range covering the rest of §4.F's rule groups, since the
// filtered original source did not retain every `checking::check_types`
// call site.
const (
	CodeVoidValue            Code = "E0019" // "The void type is not a value...".
	CodeReturnOutsideFn       Code = "E0020" // "Return statement outside of a function."
	CodeTypeMismatch          Code = "E0021"
	CodeBadBinaryOperand      Code = "E0022"
	CodeBadUnaryOperand       Code = "E0023"
	CodeNotAssignable         Code = "E0024"
	CodeBadCast               Code = "E0025"
	CodeConditionNotBool      Code = "E0026"
	CodeBreakOutsideLoop      Code = "E0027"
	CodeContinueOutsideLoop   Code = "E0028"
	CodeArityMismatch         Code = "E0029"
	CodeDuplicateDeclaration  Code = "E0030"
	CodeUnknownSymbol         Code = "E0031"
)

// Bug codes (§7: codegen internal inconsistencies).
const (
	CodeMissingSymbol  Code = "B0001"
	CodeBuilderFailure Code = "B0002"
)

// CompilationIssue is the record constructed by every pass in this module
// and routed to a Diagnostician for rendering, per spec.md §4.C.
type CompilationIssue struct {
	Code     Code
	Severity Severity
	Message  string
	Help     string // optional; empty when absent
	Span     source.Span
}

// NewWarning constructs a Warning-severity issue.
func NewWarning(code Code, message string, span source.Span) CompilationIssue {
	return CompilationIssue{Code: code, Severity: SeverityWarning, Message: message, Span: span}
}

// NewError constructs an Error-severity issue.
func NewError(code Code, message string, span source.Span) CompilationIssue {
	return CompilationIssue{Code: code, Severity: SeverityError, Message: message, Span: span}
}

// NewErrorWithHelp constructs an Error-severity issue carrying a help string.
func NewErrorWithHelp(code Code, message, help string, span source.Span) CompilationIssue {
	return CompilationIssue{Code: code, Severity: SeverityError, Message: message, Help: help, Span: span}
}

// NewBug constructs a Bug-severity issue. Per spec.md §4.H "Failure
// semantics", bugs are internal inconsistencies the checker was supposed to
// have already prevented; callerFileLine should identify the codegen call
// site (e.g. via a `fmt.Sprintf("%s:%d", file, line)` from `runtime.Caller`)
// so the message can be triaged without a debugger.
func NewBug(code Code, message string, span source.Span, callerFileLine string) CompilationIssue {
	msg := message
	if callerFileLine != "" {
		msg = fmt.Sprintf("%s (at %s)", message, callerFileLine)
	}
	return CompilationIssue{Code: code, Severity: SeverityBug, Message: msg, Span: span}
}

func (i CompilationIssue) Error() string {
	if i.Help != "" {
		return fmt.Sprintf("%s: %s [%s] (%s)", i.Severity, i.Message, i.Code, i.Help)
	}
	return fmt.Sprintf("%s: %s [%s]", i.Severity, i.Message, i.Code)
}

// Diagnostician is the external collaborator that renders CompilationIssues
// against source text (file excerpts, colorized output). This module only
// ever constructs issues and calls Dispatch; see spec.md §1, §4.C.
type Diagnostician interface {
	// Dispatch routes a single issue for rendering.
	Dispatch(issue CompilationIssue)
	// DispatchAll routes a batch of issues, preserving order.
	DispatchAll(issues []CompilationIssue)
}

// NopDiagnostician discards every issue. Useful for tests that only care
// about the []CompilationIssue a pass returns, not about rendering.
type NopDiagnostician struct{}

func (NopDiagnostician) Dispatch(CompilationIssue)       {}
func (NopDiagnostician) DispatchAll([]CompilationIssue) {}

// CollectingDiagnostician accumulates every issue it is given, in order.
// Used by the pipeline driver (internal/pipeline) to gather warnings across
// passes so they can be printed after errors/bugs, per §7's propagation
// policy ("Warnings are accumulated and printed after all errors/bugs").
type CollectingDiagnostician struct {
	Issues []CompilationIssue
}

func (c *CollectingDiagnostician) Dispatch(issue CompilationIssue) {
	c.Issues = append(c.Issues, issue)
}

func (c *CollectingDiagnostician) DispatchAll(issues []CompilationIssue) {
	c.Issues = append(c.Issues, issues...)
}

// HasErrors reports whether any Error or Bug severity issue was collected.
func (c *CollectingDiagnostician) HasErrors() bool {
	for _, i := range c.Issues {
		if i.Severity == SeverityError || i.Severity == SeverityBug {
			return true
		}
	}
	return false
}

// HasBugs reports whether any Bug severity issue was collected.
func (c *CollectingDiagnostician) HasBugs() bool {
	for _, i := range c.Issues {
		if i.Severity == SeverityBug {
			return true
		}
	}
	return false
}

// Warnings returns only the Warning-severity issues, in order.
func (c *CollectingDiagnostician) Warnings() []CompilationIssue {
	var out []CompilationIssue
	for _, i := range c.Issues {
		if i.Severity == SeverityWarning {
			out = append(out, i)
		}
	}
	return out
}

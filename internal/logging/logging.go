// Package logging wraps sirupsen/logrus the way the teacher's own CLI
// commands do (github.com/consensys/go-corset pkg/cmd/debug.go: `log
// "github.com/sirupsen/logrus"`, `log.SetLevel(log.DebugLevel)` gated on a
// `-verbose` flag, `log.Fields{}` for structured context). This package
// centralizes that setup so every pipeline/codegen call site logs through
// the same configured logger instead of repeating `log.SetLevel` calls.
package logging

import (
	log "github.com/sirupsen/logrus"
)

// Configure sets the package-level logrus level, mirroring every teacher
// command's `if GetFlag(cmd, "verbose") { log.SetLevel(log.DebugLevel) }`
// guard.
func Configure(verbose bool) {
	if verbose {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}
}

// Pass logs one structured line per pipeline pass per unit, per
// SPEC_FULL.md's ambient-stack note ("the pipeline driver logs one
// structured line per pass per unit").
func Pass(unit, pass string, warnings, errors int) {
	log.WithFields(log.Fields{
		"unit":     unit,
		"pass":     pass,
		"warnings": warnings,
		"errors":   errors,
	}).Debug("pass complete")
}

// Bug logs one Bug-severity CompilationIssue raised by codegen; the pipeline
// driver calls it for each such issue after codegen returns.
func Bug(unit, code, message string) {
	log.WithFields(log.Fields{
		"unit": unit,
		"code": code,
	}).Errorf("compiler bug: %s", message)
}

// Stage logs the pipeline driver's progress through the twelve-step
// sequence for one unit (read/lex/parse/lint/check/codegen/optimize/emit).
func Stage(unit, stage string) {
	log.WithFields(log.Fields{
		"unit":  unit,
		"stage": stage,
	}).Debugf("entering stage %s", stage)
}

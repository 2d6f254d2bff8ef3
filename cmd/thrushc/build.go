package main

import (
	"errors"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/thrush-lang/thrushc/internal/config"
	"github.com/thrush-lang/thrushc/internal/diagnostics"
	"github.com/thrush-lang/thrushc/internal/logging"
	"github.com/thrush-lang/thrushc/internal/pipeline"
)

var buildCmd = &cobra.Command{
	Use:   "build [flags] source_file(s)",
	Short: "compile source files into object files and link them.",
	Long: `Compile each given source file through the full pipeline (lint, type-check,
	 codegen, optimize, emit) and link the resulting objects, unless -emit
	 selects an earlier artifact.`,
	Run: func(cmd *cobra.Command, args []string) {
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			log.SetLevel(log.DebugLevel)
		}
		logging.Configure(log.GetLevel() == log.DebugLevel)

		if len(args) == 0 {
			fmt.Fprintln(os.Stderr, "thrushc: no source files given")
			os.Exit(exitUsage)
		}

		opts, err := config.FromCommand(cmd)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(exitUsage)
		}

		lexer, parser, err := frontend()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(exitUsage)
		}

		if err := os.MkdirAll(opts.BuildDir, 0755); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(exitUsage)
		}

		driver := pipeline.NewDriver(opts, lexer, parser, pipeline.NewFileEmitter(opts))
		results, err := driver.CompileFiles(args)

		hadErrors, hadBugs := renderResults(results)

		switch {
		case err != nil && !errors.Is(err, pipeline.ErrUnitHadErrors) && !errors.Is(err, pipeline.ErrUnitHadBug):
			fmt.Fprintln(os.Stderr, err)
			os.Exit(exitUsage)
		case hadBugs:
			os.Exit(exitBug)
		case hadErrors:
			os.Exit(exitErrors)
		}
	},
}

// renderResults prints every collected diagnostic, errors and bugs before
// warnings per spec.md §7's propagation policy ("Warnings are accumulated
// and printed after all errors/bugs"), and reports which severities were
// present.
func renderResults(results []*pipeline.Result) (hadErrors, hadBugs bool) {
	width := consoleWidth()
	var warnings []string

	for _, res := range results {
		for _, issue := range res.Diagnostics.Issues {
			line := renderIssue(res.Unit.Filename, issue, width)
			switch issue.Severity {
			case diagnostics.SeverityWarning:
				warnings = append(warnings, line)
			case diagnostics.SeverityBug:
				hadBugs = true
				fmt.Fprintln(os.Stderr, line)
			default:
				hadErrors = true
				fmt.Fprintln(os.Stderr, line)
			}
		}
	}

	for _, w := range warnings {
		fmt.Fprintln(os.Stderr, w)
	}
	return hadErrors, hadBugs
}

// renderIssue formats one diagnostic as a single line, truncated to the
// terminal width. Full span-to-excerpt rendering belongs to an external
// Diagnostician, not this binary.
func renderIssue(filename string, issue diagnostics.CompilationIssue, width int) string {
	line := fmt.Sprintf("%s:%s: %s", filename, issue.Span, issue.Error())
	if width > 8 && len(line) > width {
		line = line[:width-3] + "..."
	}
	return line
}

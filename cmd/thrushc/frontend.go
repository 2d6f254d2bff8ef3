package main

import (
	"errors"
	"os"

	"golang.org/x/term"

	"github.com/thrush-lang/thrushc/internal/pipeline"
)

// frontendHook, when non-nil, supplies the lexer and parser this binary
// drives. The front-end (lexer, parser, AST resolution) lives outside this
// module — the pipeline consumes its output through the pipeline.Lexer and
// pipeline.Parser interfaces only — so a build of thrushc is only usable
// end-to-end once a front-end sets this hook from its own main package.
var frontendHook func() (pipeline.Lexer, pipeline.Parser)

func frontend() (pipeline.Lexer, pipeline.Parser, error) {
	if frontendHook == nil {
		return nil, nil, errors.New("thrushc: this build carries no front-end; link one in via the frontend hook")
	}
	lexer, parser := frontendHook()
	return lexer, parser, nil
}

// consoleWidth reports the terminal width for diagnostic line truncation,
// falling back to 80 columns when stderr is not a terminal. Same probe the
// teacher's terminal layer uses (pkg/util/termio/terminal.go, term.GetSize).
func consoleWidth() int {
	fd := int(os.Stderr.Fd())
	if !term.IsTerminal(fd) {
		return 80
	}
	w, _, err := term.GetSize(fd)
	if err != nil || w <= 0 {
		return 80
	}
	return w
}

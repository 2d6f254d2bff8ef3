// Package source holds the small set of primitives every other package in
// this compiler depends on: source spans and source units. Nothing here
// performs I/O beyond reading a file into memory; directory layout, build
// artifact placement, and diagnostic rendering are handled by collaborators
// outside this module.
package source

import "fmt"

// Span identifies a half-open byte range within a Unit's contents. Every AST
// node and every Type variant carries one so that later passes can report
// diagnostics without re-walking the source text.
type Span struct {
	Start uint32
	End   uint32
}

// NewSpan constructs a span covering [start, end).
func NewSpan(start, end uint32) Span {
	return Span{Start: start, End: end}
}

// Merge returns the smallest span enclosing both a and b.
func (a Span) Merge(b Span) Span {
	start, end := a.Start, a.End
	if b.Start < start {
		start = b.Start
	}
	if b.End > end {
		end = b.End
	}
	return Span{start, end}
}

// Length returns the number of bytes covered by this span.
func (a Span) Length() uint32 {
	return a.End - a.Start
}

func (a Span) String() string {
	return fmt.Sprintf("%d:%d", a.Start, a.End)
}

// Unit represents one translation unit: a single source file read into
// memory plus the name the driver will use for build artifacts.
type Unit struct {
	// Filename is the path the unit was read from.
	Filename string
	// Contents holds the raw bytes of the unit.
	Contents []byte
}

// NewUnit constructs a Unit from an already-read byte slice. Reading the
// file from disk is the driver's responsibility (see internal/pipeline),
// not this package's.
func NewUnit(filename string, contents []byte) *Unit {
	return &Unit{Filename: filename, Contents: contents}
}

// Snippet returns the raw text covered by span, clamped to the unit's
// bounds. Used only for constructing diagnostic help text; rendering the
// surrounding file excerpt is the Diagnostician's job.
func (u *Unit) Snippet(span Span) string {
	end := span.End
	if int(end) > len(u.Contents) {
		end = uint32(len(u.Contents))
	}

	start := span.Start
	if start > end {
		start = end
	}

	return string(u.Contents[start:end])
}

// Package codegen lowers a checked ast.TranslationUnit into LLVM IR via
// github.com/llir/llvm, per spec.md §4.G/§4.H. The engine is a recursive tree
// walker built the way the teacher builds its own AIR/MIR lowering passes
// (github.com/consensys/go-corset pkg/corset/compiler/translator.go): one Go
// type switch per concern, no virtual dispatch.
package codegen

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/value"
	"github.com/thrush-lang/thrushc/internal/types"
)

// ctxState is the per-function state machine named in spec.md §4.G:
// idle -[enter_function]-> building -[finish_function]-> idle.
type ctxState uint8

const (
	stateIdle ctxState = iota
	stateBuilding
)

// loopFrame is one entry of the loop-context stack; break/continue consult
// only the top (spec.md §5 "Shared resources within a unit").
type loopFrame struct {
	Continue *ir.Block
	Break    *ir.Block
}

// CodegenContext carries everything in spec.md §4.G: the idle/building state
// machine, nested begin_scope/end_scope, the loop-context stack, the
// pointer-anchor slot, and the current function/block cursor.
type CodegenContext struct {
	state ctxState

	CurrentFn *ir.Func
	Block     *ir.Block // current insertion point; only one logical path may hold it at a time (§5)

	loopStack []loopFrame

	anchorPtr  value.Value
	anchorType types.Type

	// deferStack mirrors the symbol table's scope nesting: deferStack[i] holds
	// every Defer body registered in scope frame i, in declaration order. On
	// block exit the frame is replayed in reverse (SPEC_FULL.md §4.H supplement).
	deferStack [][]deferredBody
}

type deferredBody struct {
	// Emit runs the deferred block's statements against the engine; stored as
	// a closure so context.go need not import ast/engine types directly.
	Emit func()
}

// NewCodegenContext constructs an idle context with no active function.
func NewCodegenContext() *CodegenContext {
	return &CodegenContext{}
}

// EnterFunction transitions idle -> building, per spec.md §4.G.
func (c *CodegenContext) EnterFunction(fn *ir.Func, entry *ir.Block) {
	if c.state != stateIdle {
		panic("codegen: EnterFunction called while already building")
	}
	c.state = stateBuilding
	c.CurrentFn = fn
	c.Block = entry
	c.deferStack = [][]deferredBody{nil}
}

// FinishFunction transitions building -> idle.
func (c *CodegenContext) FinishFunction() {
	if c.state != stateBuilding {
		panic("codegen: FinishFunction called while idle")
	}
	c.state = stateIdle
	c.CurrentFn = nil
	c.Block = nil
	c.loopStack = nil
	c.deferStack = nil
	c.anchorPtr = nil
	c.anchorType = nil
}

// BeginScope pushes a new defer frame alongside a symbol-table scope pushed
// by the caller (the engine owns the symbol table; this only tracks defers).
func (c *CodegenContext) BeginScope() {
	c.deferStack = append(c.deferStack, nil)
}

// EndScope pops the innermost defer frame, returning its bodies in the
// reverse-of-declaration order they must replay in before the block's exit.
func (c *CodegenContext) EndScope() []deferredBody {
	if len(c.deferStack) == 0 {
		panic("codegen: EndScope called with no open scope")
	}
	innermost := c.deferStack[len(c.deferStack)-1]
	c.deferStack = c.deferStack[:len(c.deferStack)-1]
	reversed := make([]deferredBody, len(innermost))
	for i, d := range innermost {
		reversed[len(innermost)-1-i] = d
	}
	return reversed
}

// PushDefer registers a defer body against the innermost open scope.
func (c *CodegenContext) PushDefer(d deferredBody) {
	last := len(c.deferStack) - 1
	c.deferStack[last] = append(c.deferStack[last], d)
}

// PendingDefers reports every deferred body registered across every
// currently-open scope of the current function, innermost-last-declared
// first within each frame, outermost frame last — the full replay list
// needed before a Return (as opposed to a plain block fall-through, which
// only replays its own frame via EndScope).
func (c *CodegenContext) PendingDefers() []deferredBody {
	var all []deferredBody
	for i := len(c.deferStack) - 1; i >= 0; i-- {
		frame := c.deferStack[i]
		for j := len(frame) - 1; j >= 0; j-- {
			all = append(all, frame[j])
		}
	}
	return all
}

// PushLoop installs a new loop context (spec.md §4.G push_loop).
func (c *CodegenContext) PushLoop(cont, brk *ir.Block) {
	c.loopStack = append(c.loopStack, loopFrame{Continue: cont, Break: brk})
}

// PopLoop removes the innermost loop context.
func (c *CodegenContext) PopLoop() {
	if len(c.loopStack) == 0 {
		panic("codegen: PopLoop called with no open loop")
	}
	c.loopStack = c.loopStack[:len(c.loopStack)-1]
}

// CurrentLoop returns the innermost loop context, or ok=false if break/continue
// appears outside any loop (the checker is expected to have already rejected
// this; codegen treats a miss here as a bug, not a user error).
func (c *CodegenContext) CurrentLoop() (loopFrame, bool) {
	if len(c.loopStack) == 0 {
		return loopFrame{}, false
	}
	return c.loopStack[len(c.loopStack)-1], true
}

// SetPointerAnchor installs the destination memory for a compound literal.
func (c *CodegenContext) SetPointerAnchor(ptr value.Value, t types.Type) {
	c.anchorPtr, c.anchorType = ptr, t
}

// ClearPointerAnchor clears the anchor and returns the previous value so a
// caller can restore it after a nested compound literal (spec.md §5: "nested
// compound literals require the outer anchor to be saved ... and restored").
func (c *CodegenContext) ClearPointerAnchor() (value.Value, types.Type) {
	prevPtr, prevType := c.anchorPtr, c.anchorType
	c.anchorPtr, c.anchorType = nil, nil
	return prevPtr, prevType
}

// PointerAnchor returns the current anchor, if any.
func (c *CodegenContext) PointerAnchor() (value.Value, types.Type, bool) {
	return c.anchorPtr, c.anchorType, c.anchorPtr != nil
}

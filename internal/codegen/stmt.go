package codegen

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"

	"github.com/thrush-lang/thrushc/internal/ast"
	"github.com/thrush-lang/thrushc/internal/diagnostics"
	"github.com/thrush-lang/thrushc/internal/symbols"
)

// compileStmt lowers one statement against the current insertion block, per
// the Local/Static/Mut/If/While/Loop/For/Break/Continue/Return/Constructor
// rows of spec.md §4.H's AST->IR table.
func (e *Engine) compileStmt(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.Local:
		e.compileLocalStmt(n)
	case *ast.Mut:
		e.compileMutStmt(n)
	case *ast.Block:
		e.compileBlock(n)
	case *ast.If:
		e.compileIf(n)
	case *ast.While:
		e.compileWhile(n)
	case *ast.Loop:
		e.compileLoop(n)
	case *ast.For:
		e.compileForStmt(n)
	case *ast.Break:
		e.compileBreakStmt(n)
	case *ast.Continue:
		e.compileContinueStmt(n)
	case *ast.Return:
		e.compileReturnStmt(n)
	case *ast.Unreachable:
		e.Ctx.Block.NewUnreachable()
	case *ast.Defer:
		e.compileDeferStmt(n)
	case *ast.Const:
		e.compileLocalConst(n)
	case *ast.Static:
		e.compileLocalStatic(n)
	case *ast.ExprStmt:
		e.compile(n.Expr, nil) // value discarded
	default:
		e.bug(diagnostics.CodeBuilderFailure, "unhandled statement kind in compileStmt", s.Span())
	}
}

// compileLocalStmt lowers `let name : T = value;` by allocating a stack
// slot at the current insertion point and, if an initializer is present,
// compiling it with the declared type as hint, consuming a pointer anchor
// for in-place compound-literal emission when the initializer is one
// (spec.md §4.H "Local" row).
func (e *Engine) compileLocalStmt(n *ast.Local) {
	llTy := e.lowerType(n.Kind)
	slot := e.Ctx.Block.NewAlloca(llTy)

	if n.Value != nil {
		if isCompoundLiteral(n.Value) {
			e.Ctx.SetPointerAnchor(slot, n.Kind)
			e.compile(n.Value, n.Kind)
			e.Ctx.ClearPointerAnchor()
		} else {
			val := e.compile(n.Value, n.Kind)
			store := e.Ctx.Block.NewStore(val, slot)
			if n.Meta.Volatile {
				store.Volatile = true
			}
		}
	}

	e.Table.Locals.Declare(n.Name, symbols.SymbolAllocated{
		Kind: symbols.AllocatedLocal, Ptr: slot, Type: n.Kind, Meta: n.Meta,
	})
}

// compileMutStmt lowers `target = value;`, compiling the RHS with the LHS
// type as hint and storing into the LHS slot (spec.md §4.H "Mut" row).
func (e *Engine) compileMutStmt(n *ast.Mut) {
	slot := e.compileAddress(n.Target)
	val := e.compile(n.Value, n.Target.ValueType())
	store := e.Ctx.Block.NewStore(val, slot)

	if meta, ok := metadataOf(n.Target); ok && meta.Volatile {
		store.Volatile = true
	}
}

// metadataOf extracts the Metadata record carried by an lvalue expression,
// when the variant carries one.
func metadataOf(expr ast.Expr) (ast.Metadata, bool) {
	switch n := expr.(type) {
	case *ast.Reference:
		return n.Meta, true
	case *ast.Index:
		return n.Meta, true
	case *ast.Property:
		return n.Meta, true
	default:
		return ast.Metadata{}, false
	}
}

// compileIf lowers the `then`/`elif*`/`else?` chain into `then`, `else?`,
// `merge` basic blocks per spec.md §4.H. A block ending in a terminator
// (return, break, continue, unreachable) suppresses the branch back to
// merge on that path.
func (e *Engine) compileIf(n *ast.If) {
	fn := e.Ctx.CurrentFn
	merge := fn.NewBlock("if.end")
	e.compileIfChain(n.Condition, n.Then, n.Elifs, n.Else, merge)
	e.Ctx.Block = merge
}

// compileIfChain recursively lowers one condition/then pair plus whatever
// remains of the elif chain, so each elif becomes the "else" arm of its
// predecessor, mirroring how a parser desugars `elif` into nested `if`.
func (e *Engine) compileIfChain(cond ast.Expr, then *ast.Block, elifs []ast.Elif, elseBlock *ast.Block, merge *ir.Block) {
	fn := e.Ctx.CurrentFn
	thenBlock := fn.NewBlock("if.then")

	var elseTarget *ir.Block
	hasElse := len(elifs) > 0 || elseBlock != nil
	if hasElse {
		elseTarget = fn.NewBlock("if.else")
	} else {
		elseTarget = merge
	}

	condVal := e.compile(cond, nil)
	e.Ctx.Block.NewCondBr(condVal, thenBlock, elseTarget)

	e.Ctx.Block = thenBlock
	e.compileBlock(then)
	if e.Ctx.Block.Term == nil {
		e.Ctx.Block.NewBr(merge)
	}

	if !hasElse {
		return
	}

	e.Ctx.Block = elseTarget
	if len(elifs) > 0 {
		e.compileIfChain(elifs[0].Condition, elifs[0].Block, elifs[1:], elseBlock, merge)
		return
	}
	e.compileBlock(elseBlock)
	if e.Ctx.Block.Term == nil {
		e.Ctx.Block.NewBr(merge)
	}
}

// compileWhile lowers `while cond { body }` to `header`/`body`/`after`
// blocks, pushing a loop context of (continue=header, break=after) per
// spec.md §4.H.
func (e *Engine) compileWhile(n *ast.While) {
	fn := e.Ctx.CurrentFn
	header := fn.NewBlock("while.header")
	body := fn.NewBlock("while.body")
	after := fn.NewBlock("while.after")

	e.Ctx.Block.NewBr(header)

	e.Ctx.Block = header
	cond := e.compile(n.Condition, nil)
	e.Ctx.Block.NewCondBr(cond, body, after)

	e.Ctx.Block = body
	e.Ctx.PushLoop(header, after)
	e.compileBlock(n.Body)
	e.Ctx.PopLoop()
	if e.Ctx.Block.Term == nil {
		e.Ctx.Block.NewBr(header)
	}

	e.Ctx.Block = after
}

// compileLoop lowers an unconditional `loop { body }` to `body`/`after`
// blocks; `continue` branches back to `body` itself since there is no
// separate header to re-check a condition against.
func (e *Engine) compileLoop(n *ast.Loop) {
	fn := e.Ctx.CurrentFn
	body := fn.NewBlock("loop.body")
	after := fn.NewBlock("loop.after")

	e.Ctx.Block.NewBr(body)

	e.Ctx.Block = body
	e.Ctx.PushLoop(body, after)
	e.compileBlock(n.Body)
	e.Ctx.PopLoop()
	if e.Ctx.Block.Term == nil {
		e.Ctx.Block.NewBr(body)
	}

	e.Ctx.Block = after
}

// compileForStmt lowers `for init; cond; actions { body }` as init followed
// by a while loop with actions appended to the body, per spec.md §4.H's
// "For" row ("Lower as init + while with actions appended to body").
func (e *Engine) compileForStmt(n *ast.For) {
	e.Table.Locals.BeginScope()
	e.Table.LLIs.BeginScope()
	e.Ctx.BeginScope()

	if n.Init != nil {
		e.compileStmt(n.Init)
	}

	fn := e.Ctx.CurrentFn
	header := fn.NewBlock("for.header")
	body := fn.NewBlock("for.body")
	after := fn.NewBlock("for.after")

	e.Ctx.Block.NewBr(header)

	e.Ctx.Block = header
	if n.Condition != nil {
		cond := e.compile(n.Condition, nil)
		e.Ctx.Block.NewCondBr(cond, body, after)
	} else {
		e.Ctx.Block.NewBr(body)
	}

	e.Ctx.Block = body
	e.Ctx.PushLoop(header, after)
	e.compileBlock(n.Body)
	if e.Ctx.Block.Term == nil {
		for _, a := range n.Actions {
			e.compileStmt(a)
		}
		e.Ctx.Block.NewBr(header)
	}
	e.Ctx.PopLoop()

	e.Ctx.Block = after

	defers := e.Ctx.EndScope()
	if e.Ctx.Block.Term == nil {
		for _, d := range defers {
			d.Emit()
		}
	}
	e.Table.LLIs.EndScope()
	e.Table.Locals.EndScope()
}

// compileBreakStmt lowers `break;` to an unconditional branch to the
// innermost loop's break block. An empty loop stack is a bug: the checker
// was supposed to reject `break` outside a loop (§4.F) before codegen ever
// sees this node.
func (e *Engine) compileBreakStmt(n *ast.Break) {
	loop, ok := e.Ctx.CurrentLoop()
	if !ok {
		e.bug(diagnostics.CodeBuilderFailure, "break outside any loop reached codegen", n.Span())
		return
	}
	e.Ctx.Block.NewBr(loop.Break)
}

// compileContinueStmt lowers `continue;` to an unconditional branch to the
// innermost loop's continue block.
func (e *Engine) compileContinueStmt(n *ast.Continue) {
	loop, ok := e.Ctx.CurrentLoop()
	if !ok {
		e.bug(diagnostics.CodeBuilderFailure, "continue outside any loop reached codegen", n.Span())
		return
	}
	e.Ctx.Block.NewBr(loop.Continue)
}

// compileReturnStmt lowers `return expr?;`, replaying every pending defer
// body across every open scope of the current function first (spec.md §4.H
// "Return" row, §9 defer design note).
func (e *Engine) compileReturnStmt(n *ast.Return) {
	if n.Expression == nil {
		e.emitDefersAndReturn(nil, n.Span())
		return
	}
	val := e.compile(n.Expression, n.Expression.ValueType())
	e.emitDefersAndReturn(val, n.Span())
}

// compileDeferStmt registers the defer body against the innermost open
// scope; it is not lowered at its own syntactic position, only replayed at
// every exit path of the enclosing block (§9 design note).
func (e *Engine) compileDeferStmt(n *ast.Defer) {
	body := n.Body
	e.Ctx.PushDefer(deferredBody{Emit: func() {
		e.compileBlock(body)
	}})
}

// compileLocalConst lowers a Const statement appearing inside a function
// body: a private global with a constant-folded initializer (spec.md §4.H
// "Static/Const" row), registered into the block-scoped Locals table so it
// is only visible within its own scope, matching the lifecycle of any other
// local binding (§4.D).
func (e *Engine) compileLocalConst(n *ast.Const) {
	init := e.compileConstant(n.Value, n.Kind)
	g := e.Module.NewGlobalDef(e.nextGlobalName("const."+n.Name), init)
	g.Immutable = true
	e.Table.Locals.Declare(n.Name, symbols.SymbolAllocated{
		Kind: symbols.AllocatedConstant, Ptr: g, Val: init, Type: n.Kind, Meta: n.Meta,
	})
}

// compileLocalStatic lowers a Static statement appearing inside a function
// body: a mutable global, zero-initialized when no value is given, that
// survives across calls the way a function-local static should.
func (e *Engine) compileLocalStatic(n *ast.Static) {
	var init constant.Constant
	if n.Value != nil {
		init = e.compileConstant(n.Value, n.Kind)
	} else {
		init = constant.NewZeroInitializer(e.lowerType(n.Kind))
	}
	g := e.Module.NewGlobalDef(e.nextGlobalName("static."+n.Name), init)
	e.Table.Locals.Declare(n.Name, symbols.SymbolAllocated{
		Kind: symbols.AllocatedStatic, Ptr: g, Val: init, Type: n.Kind, Meta: n.Meta,
	})
}

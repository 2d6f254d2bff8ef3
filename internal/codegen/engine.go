package codegen

import (
	"fmt"
	"math/big"
	"runtime"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	lltypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/thrush-lang/thrushc/internal/ast"
	"github.com/thrush-lang/thrushc/internal/attributes"
	"github.com/thrush-lang/thrushc/internal/diagnostics"
	"github.com/thrush-lang/thrushc/internal/source"
	"github.com/thrush-lang/thrushc/internal/symbols"
	"github.com/thrush-lang/thrushc/internal/types"
)

// Engine is the codegen engine from spec.md §4.H: a recursive tree walker
// with two entry points, compile (runtime) and compileConstant
// (constant-folding), dispatching via a Go type switch over ast.Node — no
// virtual dispatch, grounded in the teacher's exhaustive translator.go
// switch and in the dshills/alas codegen-llvm.go reference lowering read for
// this package (declare-then-generate, alloca/load/store discipline,
// block-based control flow via NewCondBr/NewBr).
type Engine struct {
	Module *ir.Module
	Table  *symbols.CodegenTable
	Ctx    *CodegenContext

	structTypes map[string]*lltypes.StructType
	structDecls map[string]*ast.Struct
	enums       map[string]*ast.Enum
	intrinsics  map[string]*ir.Func
	callAttrs   map[string]callSiteAttrs
	ctors       []constant.Constant
	dtors       []constant.Constant
	globalCount int
	out         []diagnostics.CompilationIssue
}

// callSiteAttrs is the per-callee attribute subset every call site must
// repeat (spec.md §4.H "Call" row: honor the calling-convention attribute,
// mark the call nounwind when the attribute is present).
type callSiteAttrs struct {
	cc       enum.CallingConv
	noUnwind bool
}

// NewEngine constructs an Engine over a fresh module named for the
// translation unit, with module metadata attached per spec.md §4.H.
func NewEngine(unitName string, opts ModuleOptions) *Engine {
	e := &Engine{
		Module:      ir.NewModule(),
		Table:       symbols.NewCodegenTable(),
		Ctx:         NewCodegenContext(),
		structTypes: make(map[string]*lltypes.StructType),
		structDecls: make(map[string]*ast.Struct),
		enums:       make(map[string]*ast.Enum),
		intrinsics:  make(map[string]*ir.Func),
		callAttrs:   make(map[string]callSiteAttrs),
	}
	e.Module.SourceFilename = unitName
	attachModuleMetadata(e.Module, opts)
	return e
}

// Issues returns every CompilationIssue raised while compiling this module.
func (e *Engine) Issues() []diagnostics.CompilationIssue { return e.out }

func (e *Engine) emit(issue diagnostics.CompilationIssue) { e.out = append(e.out, issue) }

// bug records an internal inconsistency as a Bug-severity issue carrying the
// codegen caller's file/line, per spec.md §4.H "Failure semantics": these are
// cases the type checker was supposed to have already prevented.
func (e *Engine) bug(code diagnostics.Code, message string, span source.Span) {
	_, file, line, ok := runtime.Caller(1)
	loc := ""
	if ok {
		loc = fmt.Sprintf("%s:%d", file, line)
	}
	e.emit(diagnostics.NewBug(code, message, span, loc))
}

func (e *Engine) nextGlobalName(prefix string) string {
	e.globalCount++
	return fmt.Sprintf("%s.%d", prefix, e.globalCount)
}

// CompileUnit runs the two-pass declare-then-generate sequence over every
// declaration in unit, per §4.I step 8 ("Create IR module; run codegen").
func (e *Engine) CompileUnit(unit *ast.TranslationUnit) {
	for _, d := range unit.Declarations {
		e.declareTopLevel(d)
	}
	for _, d := range unit.Declarations {
		e.generateTopLevel(d)
	}
	e.emitCtorDtorGlobals()
}

// declareTopLevel registers every declaration's signature/slot before any
// function body is generated, so forward references (mutual recursion, a
// global referencing a not-yet-generated function) resolve. Grounded in the
// same forward-declare-then-walk shape already used by internal/linter and
// internal/typechecker.
func (e *Engine) declareTopLevel(d ast.Decl) {
	switch n := d.(type) {
	case *ast.Function:
		sig := e.lowerFnSignature(n.Parameters, n.ReturnType, n.IsVariadic)
		fn := e.Module.NewFunc(n.Name, sig.Return, sig.Params...)
		fn.Sig.Variadic = n.IsVariadic
		e.applyFnAttributes(fn, n.Attrs)
		if n.Attrs.HasConstructor() {
			e.ctors = append(e.ctors, ctorEntry(fn))
		}
		if n.Attrs.HasDestructor() {
			e.dtors = append(e.dtors, ctorEntry(fn))
		}
		e.Table.Functions.Declare(n.Name, symbols.SymbolAllocated{
			Kind: symbols.AllocatedParameter, Val: fn,
			Type: types.NewFn(paramTypesOf(n.Parameters), n.ReturnType, nil, n.IsVariadic, n.Span()),
		})
	case *ast.Intrinsic:
		sig := e.lowerFnSignature(n.Parameters, n.ReturnType, n.IsVariadic)
		fn := e.Module.NewFunc(n.Name, sig.Return, sig.Params...)
		fn.Sig.Variadic = n.IsVariadic
		e.applyFnAttributes(fn, n.Attrs)
		e.Table.Intrinsics.Declare(n.Name, symbols.SymbolAllocated{
			Kind: symbols.AllocatedParameter, Val: fn,
			Type: types.NewFn(paramTypesOf(n.Parameters), n.ReturnType, nil, n.IsVariadic, n.Span()),
		})
	case *ast.AssemblerFunction:
		sig := e.lowerFnSignature(n.Parameters, n.ReturnType, false)
		fn := e.Module.NewFunc(n.Name, sig.Return, sig.Params...)
		e.applyFnAttributes(fn, n.Attrs)
		e.Table.AsmFunctions.Declare(n.Name, symbols.SymbolAllocated{
			Kind: symbols.AllocatedParameter, Val: fn,
			Type: types.NewFn(paramTypesOf(n.Parameters), n.ReturnType, nil, false, n.Span()),
		})
	case *ast.Struct:
		fields := make([]types.Type, len(n.Fields))
		for i, f := range n.Fields {
			fields[i] = f.Kind
		}
		decl := types.NewStruct(n.Name, fields, nil, n.Span())
		e.Table.Structs.Declare(n.Name, decl)
		e.structDecls[n.Name] = n
		e.lowerType(decl) // materializes and caches the named LLVM struct type
	case *ast.Enum:
		// Enum fields are constant expressions lowered lazily at each use
		// site (EnumValue); no module-level slot is needed here, only a
		// record of the declaration so EnumValue lookups can find it.
		e.enums[n.Name] = n
	case *ast.CustomType:
		// Type aliases are resolved structurally by internal/types; nothing
		// to emit.
	case *ast.Const:
		e.declareGlobalConst(n)
	case *ast.Static:
		e.declareGlobalStatic(n)
	case *ast.GlobalAssembler:
		e.Module.ModuleAsms = append(e.Module.ModuleAsms, n.Assembly)
	case *ast.Import:
		// Import resolution is out of scope (spec.md §1 Non-goals); treated
		// purely as a forward declaration elsewhere.
	}
}

type loweredSig struct {
	Params []*ir.Param
	Return lltypes.Type
}

func (e *Engine) lowerFnSignature(params []ast.FunctionParameter, ret types.Type, variadic bool) loweredSig {
	out := make([]*ir.Param, len(params))
	for i, p := range params {
		out[i] = ir.NewParam(p.Name, e.lowerType(p.Kind))
	}
	return loweredSig{Params: out, Return: e.lowerType(ret)}
}

func paramTypesOf(params []ast.FunctionParameter) []types.Type {
	out := make([]types.Type, len(params))
	for i, p := range params {
		out[i] = p.Kind
	}
	return out
}

func (e *Engine) declareGlobalConst(n *ast.Const) {
	init := e.compileConstant(n.Value, n.Kind)
	g := e.Module.NewGlobalDef(n.Name, init)
	g.Immutable = true
	if n.Attrs.HasPublic() {
		g.Linkage = enum.LinkageExternal
	} else {
		g.Linkage = enum.LinkagePrivate
	}
	e.Table.GlobalConsts.Declare(n.Name, symbols.SymbolAllocated{
		Kind: symbols.AllocatedConstant, Ptr: g, Val: init, Type: n.Kind, Meta: n.Meta,
	})
}

func (e *Engine) declareGlobalStatic(n *ast.Static) {
	var init constant.Constant
	if n.Value != nil {
		init = e.compileConstant(n.Value, n.Kind)
	} else {
		init = constant.NewZeroInitializer(e.lowerType(n.Kind))
	}
	g := e.Module.NewGlobalDef(n.Name, init)
	if n.Attrs.HasPublic() {
		g.Linkage = enum.LinkageExternal
	} else {
		g.Linkage = enum.LinkagePrivate
	}
	e.Table.GlobalStatics.Declare(n.Name, symbols.SymbolAllocated{
		Kind: symbols.AllocatedStatic, Ptr: g, Val: init, Type: n.Kind, Meta: n.Meta,
	})
}

// generateTopLevel emits function bodies and assembler-function bodies; all
// other declarations were fully materialized during declareTopLevel.
func (e *Engine) generateTopLevel(d ast.Decl) {
	switch n := d.(type) {
	case *ast.Function:
		e.generateFunction(n)
	case *ast.AssemblerFunction:
		e.generateAssemblerFunction(n)
	}
}

func (e *Engine) generateFunction(n *ast.Function) {
	found, ok := e.Table.Functions.Lookup(n.Name)
	if !ok {
		e.bug(diagnostics.CodeMissingSymbol, "function "+n.Name+" was not forward-declared", n.Span())
		return
	}
	fn := found.Val.(*ir.Func)
	entry := fn.NewBlock("entry")
	e.Ctx.EnterFunction(fn, entry)
	e.Table.Parameters.Clear()
	e.Table.Locals.BeginScope()
	e.Table.LLIs.BeginScope()

	for i, p := range n.Parameters {
		llParam := fn.Params[i]
		slot := e.Ctx.Block.NewAlloca(llParam.Type())
		e.Ctx.Block.NewStore(llParam, slot)
		e.Table.Parameters.Declare(p.Name, symbols.SymbolAllocated{
			Kind: symbols.AllocatedParameter, Ptr: slot, Val: llParam, Type: p.Kind, Meta: p.Meta,
		})
	}

	e.compileBlock(n.Body)

	if e.Ctx.Block.Term == nil {
		e.emitDefersAndReturn(nil, n.Span())
	}

	e.Table.LLIs.EndScope()
	e.Table.Locals.EndScope()
	e.Ctx.FinishFunction()
}

// compileBlock lowers a *ast.Block in place against the current insertion
// block, nesting a Locals/LLIs/defer scope per spec.md §4.D/§4.G.
func (e *Engine) compileBlock(b *ast.Block) {
	e.Table.Locals.BeginScope()
	e.Table.LLIs.BeginScope()
	e.Ctx.BeginScope()

	for _, s := range b.Statements {
		if e.Ctx.Block.Term != nil {
			break // unreachable per spec.md §4.E; the linter already warned
		}
		e.compileStmt(s)
	}

	defers := e.Ctx.EndScope()
	if e.Ctx.Block.Term == nil {
		for _, d := range defers {
			d.Emit()
		}
	}
	e.Table.LLIs.EndScope()
	e.Table.Locals.EndScope()
}

// emitDefersAndReturn replays every pending defer body (across every open
// scope of the current function, per SPEC_FULL.md §4.H) immediately before a
// Return or an implicit fall-through exit.
func (e *Engine) emitDefersAndReturn(retVal value.Value, span source.Span) {
	for _, d := range e.Ctx.PendingDefers() {
		d.Emit()
	}
	if retVal != nil {
		e.Ctx.Block.NewRet(retVal)
	} else {
		e.Ctx.Block.NewRet(nil)
	}
}

func (e *Engine) generateAssemblerFunction(n *ast.AssemblerFunction) {
	found, ok := e.Table.AsmFunctions.Lookup(n.Name)
	if !ok {
		e.bug(diagnostics.CodeMissingSymbol, "assembler function "+n.Name+" was not forward-declared", n.Span())
		return
	}
	fn := found.Val.(*ir.Func)
	entry := fn.NewBlock("entry")
	sideEffects := n.Attrs.HasAsmSideEffects()
	alignStack := n.Attrs.HasAsmAlignStack()
	asmType := lltypes.NewFunc(fn.Sig.RetType, paramTypesOfFunc(fn)...)
	asm := ir.NewInlineAsm(asmType, n.Assembly, n.Constraints)
	asm.SideEffect = sideEffects
	asm.AlignStack = alignStack
	if syn, ok := n.Attrs.Get(attributes.KindAsmSyntax); ok {
		asm.IntelDialect = syn.ResolvedAsmSyntax() == attributes.AsmSyntaxIntel
	}

	args := make([]value.Value, len(fn.Params))
	for i, p := range fn.Params {
		args[i] = p
	}
	call := entry.NewCall(asm, args...)
	if fn.Sig.RetType == lltypes.Void {
		entry.NewRet(nil)
	} else {
		entry.NewRet(call)
	}
}

func paramTypesOfFunc(fn *ir.Func) []lltypes.Type {
	out := make([]lltypes.Type, len(fn.Params))
	for i, p := range fn.Params {
		out[i] = p.Type()
	}
	return out
}

// applyFnAttributes maps the declaration's attribute set onto the function
// definition and records the subset every call site must repeat (spec.md
// §4.B attributes, §4.H "Call" row).
func (e *Engine) applyFnAttributes(fn *ir.Func, attrs *attributes.Set) {
	if attrs == nil {
		return
	}
	add := func(a enum.FuncAttr) { fn.FuncAttrs = append(fn.FuncAttrs, a) }

	site := callSiteAttrs{cc: enum.CallingConvC}
	if attrs.HasNoUnwind() {
		add(enum.FuncAttrNoUnwind)
		site.noUnwind = true
	}
	if attrs.HasAlwaysInline() {
		add(enum.FuncAttrAlwaysInline)
	}
	if attrs.HasNoInline() {
		add(enum.FuncAttrNoInline)
	}
	if attrs.HasInlineHint() {
		add(enum.FuncAttrInlineHint)
	}
	if attrs.HasMinSize() {
		add(enum.FuncAttrMinSize)
	}
	if attrs.HasPure() {
		add(enum.FuncAttrReadOnly)
	}
	if attrs.HasSafeStack() {
		add(enum.FuncAttrSafeStack)
	}
	if attrs.HasStrongStack() {
		add(enum.FuncAttrSSPStrong)
	}
	if attrs.HasWeakStack() {
		add(enum.FuncAttrSSP)
	}

	if conv, ok := attrs.Get(attributes.KindConvention); ok {
		site.cc = callingConvByName(conv.Name())
		fn.CallingConv = site.cc
	}
	if link, ok := attrs.Get(attributes.KindLinkage); ok {
		fn.Linkage = linkageByKind(link.LinkageKind())
	}
	e.callAttrs[fn.Name()] = site
}

func callingConvByName(name string) enum.CallingConv {
	switch name {
	case "fast":
		return enum.CallingConvFast
	case "cold":
		return enum.CallingConvCold
	default:
		return enum.CallingConvC
	}
}

func linkageByKind(l attributes.Linkage) enum.Linkage {
	switch l {
	case attributes.LinkageInternal:
		return enum.LinkageInternal
	case attributes.LinkageWeak:
		return enum.LinkageWeak
	case attributes.LinkageLinkOnceODR:
		return enum.LinkageLinkOnceODR
	default:
		return enum.LinkageExternal
	}
}

// ctorEntry builds one `{ i32, ptr, ptr }` element of llvm.global_ctors /
// llvm.global_dtors for a function carrying the Constructor/Destructor
// attribute: default priority 65535, no associated data.
func ctorEntry(fn *ir.Func) constant.Constant {
	entryType := lltypes.NewStruct(lltypes.I32, lltypes.NewPointer(fn.Sig), lltypes.NewPointer(lltypes.I8))
	return constant.NewStruct(entryType,
		constant.NewInt(lltypes.I32, 65535),
		fn,
		constant.NewNull(lltypes.NewPointer(lltypes.I8)),
	)
}

// emitCtorDtorGlobals materializes llvm.global_ctors/llvm.global_dtors with
// appending linkage once every declaration has been seen.
func (e *Engine) emitCtorDtorGlobals() {
	emit := func(name string, entries []constant.Constant) {
		if len(entries) == 0 {
			return
		}
		arrType := lltypes.NewArray(uint64(len(entries)), entries[0].Type())
		g := e.Module.NewGlobalDef(name, constant.NewArray(arrType, entries...))
		g.Linkage = enum.LinkageAppending
	}
	emit("llvm.global_ctors", e.ctors)
	emit("llvm.global_dtors", e.dtors)
}

// bigIntToConstant builds an LLVM integer constant from a *big.Int literal
// value, per spec.md §8 ("stored verbatim") — grounded in the math/big
// choice already made in internal/ast.Integer.
func bigIntToConstant(v *big.Int, t lltypes.Type) *constant.Int {
	it, ok := t.(*lltypes.IntType)
	if !ok {
		it = lltypes.I64
	}
	c := constant.NewInt(it, 0)
	c.X = new(big.Int).Set(v)
	return c
}

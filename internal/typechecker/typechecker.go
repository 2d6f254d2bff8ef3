// Package typechecker implements the second-pass type checker from
// spec.md §4.F: it only reads types already attached to AST nodes by the
// parser/resolver and enforces the rule tables for binary/unary ops,
// assignment, casts, control flow, and calls.
//
// One function per rule group mirrors the teacher's own one-function-per-
// concern style in its type-checking pass (github.com/consensys/go-corset
// pkg/corset/compiler/typing.go: `TypeCheckCircuit`, `checkExprsAreType`,
// and friends are each scoped to a single concern).
package typechecker

import (
	"fmt"

	"github.com/thrush-lang/thrushc/internal/ast"
	"github.com/thrush-lang/thrushc/internal/diagnostics"
	"github.com/thrush-lang/thrushc/internal/symbols"
	"github.com/thrush-lang/thrushc/internal/types"
)

// Checker runs the type-checking pass over one TranslationUnit.
type Checker struct {
	table       *symbols.CheckerTable
	out         []diagnostics.CompilationIssue
	returnStack []types.Type // current function's return type, pushed at entry
	loopDepth   int
}

func New() *Checker {
	return &Checker{table: symbols.NewCheckerTable()}
}

// Check runs the pass and reports whether the unit passed (no errors
// accumulated). Per §4.F: "On unit exit, if any error accumulated, the
// pass returns failed and the pipeline driver aborts before codegen."
func (c *Checker) Check(unit *ast.TranslationUnit) (issues []diagnostics.CompilationIssue, ok bool) {
	c.forwardDeclare(unit)
	for _, d := range unit.Declarations {
		c.checkDecl(d)
	}
	for _, i := range c.out {
		if i.Severity == diagnostics.SeverityError || i.Severity == diagnostics.SeverityBug {
			return c.out, false
		}
	}
	return c.out, true
}

func (c *Checker) emit(code diagnostics.Code, span ast.Node, format string, args ...interface{}) {
	c.out = append(c.out, diagnostics.NewError(code, fmt.Sprintf(format, args...), span.Span()))
}

// forwardDeclare registers every top-level declaration's signature before
// any body is checked, per §4.F "Declarations": "enabling mutual reference
// and recursion."
func (c *Checker) forwardDeclare(unit *ast.TranslationUnit) {
	for _, d := range unit.Declarations {
		switch n := d.(type) {
		case *ast.Function:
			c.table.Functions.Declare(n.Name, symbols.CheckerSignature{
				Type: n.ReturnType, ParamTypes: paramTypes(n.Parameters), Attrs: n.Attrs, IsVariadic: n.IsVariadic,
			})
		case *ast.Intrinsic:
			c.table.Intrinsics.Declare(n.Name, symbols.CheckerSignature{
				Type: n.ReturnType, ParamTypes: paramTypes(n.Parameters), Attrs: n.Attrs, IsVariadic: n.IsVariadic,
			})
		case *ast.AssemblerFunction:
			c.table.AsmFunctions.Declare(n.Name, symbols.CheckerSignature{
				Type: n.ReturnType, ParamTypes: paramTypes(n.Parameters), Attrs: n.Attrs,
			})
		case *ast.Struct:
			c.table.Structs.Declare(n.Name, symbols.CheckerSignature{Attrs: n.Attrs})
		case *ast.Enum:
			c.table.Enums.Declare(n.Name, symbols.CheckerSignature{Type: n.Underlying})
		case *ast.CustomType:
			c.table.TypeAliases.Declare(n.Name, symbols.CheckerSignature{Type: n.Underlying})
		case *ast.Const:
			c.table.GlobalConsts.Declare(n.Name, symbols.CheckerSignature{Type: n.Kind, Attrs: n.Attrs})
		case *ast.Static:
			c.table.GlobalStatics.Declare(n.Name, symbols.CheckerSignature{Type: n.Kind, Attrs: n.Attrs})
		}
	}
}

func paramTypes(params []ast.FunctionParameter) []types.Type {
	out := make([]types.Type, len(params))
	for i, p := range params {
		out[i] = p.Kind
	}
	return out
}

func (c *Checker) checkDecl(d ast.Decl) {
	switch n := d.(type) {
	case *ast.Function:
		c.table.Parameters.Clear()
		for _, p := range n.Parameters {
			c.table.Parameters.Declare(p.Name, symbols.CheckerSignature{Type: p.Kind})
		}
		c.returnStack = append(c.returnStack, n.ReturnType)
		c.checkBlock(n.Body)
		c.returnStack = c.returnStack[:len(c.returnStack)-1]
	case *ast.AssemblerFunction:
		c.table.Parameters.Clear()
		for _, p := range n.Parameters {
			c.table.Parameters.Declare(p.Name, symbols.CheckerSignature{Type: p.Kind})
		}
	case *ast.Const:
		c.checkExpr(n.Value)
		c.checkAssignable(n.Kind, n.Value.ValueType(), n.Value, n)
	case *ast.Static:
		c.checkExpr(n.Value)
		c.checkAssignable(n.Kind, n.Value.ValueType(), n.Value, n)
	}
}

func (c *Checker) checkBlock(b *ast.Block) {
	if b == nil {
		return
	}
	c.table.Locals.BeginScope()
	c.table.Consts.BeginScope()
	c.table.Statics.BeginScope()
	for _, s := range b.Statements {
		c.checkStmt(s)
	}
	c.table.Statics.EndScope()
	c.table.Consts.EndScope()
	c.table.Locals.EndScope()
}

func (c *Checker) checkStmt(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.Local:
		if n.Value != nil {
			c.checkExpr(n.Value)
			c.checkAssignable(n.Kind, n.Value.ValueType(), n.Value, n)
		}
		c.table.Locals.Declare(n.Name, symbols.CheckerSignature{Type: n.Kind})
	case *ast.Mut:
		c.checkExpr(n.Target)
		c.checkExpr(n.Value)
		if !isAssignablePlace(n.Target) {
			c.emit(diagnostics.CodeNotAssignable, n, "left-hand side of assignment is not an assignable place")
			return
		}
		c.checkAssignable(n.Target.ValueType(), n.Value.ValueType(), n.Value, n)
	case *ast.Block:
		c.checkBlock(n)
	case *ast.If:
		c.checkCondition(n.Condition)
		c.checkBlock(n.Then)
		for _, e := range n.Elifs {
			c.checkCondition(e.Condition)
			c.checkBlock(e.Block)
		}
		if n.Else != nil {
			c.checkBlock(n.Else)
		}
	case *ast.While:
		c.checkCondition(n.Condition)
		c.loopDepth++
		c.checkBlock(n.Body)
		c.loopDepth--
	case *ast.Loop:
		c.loopDepth++
		c.checkBlock(n.Body)
		c.loopDepth--
	case *ast.For:
		c.table.Locals.BeginScope()
		if n.Init != nil {
			c.checkStmt(n.Init)
		}
		if n.Condition != nil {
			c.checkCondition(n.Condition)
		}
		c.loopDepth++
		c.checkBlock(n.Body)
		for _, a := range n.Actions {
			c.checkStmt(a)
		}
		c.loopDepth--
		c.table.Locals.EndScope()
	case *ast.Break:
		if c.loopDepth == 0 {
			c.emit(diagnostics.CodeBreakOutsideLoop, n, "break outside of a loop")
		}
	case *ast.Continue:
		if c.loopDepth == 0 {
			c.emit(diagnostics.CodeContinueOutsideLoop, n, "continue outside of a loop")
		}
	case *ast.Return:
		c.checkReturn(n)
	case *ast.Defer:
		c.checkBlock(n.Body)
	case *ast.Const:
		c.checkExpr(n.Value)
		c.checkAssignable(n.Kind, n.Value.ValueType(), n.Value, n)
		c.table.Consts.Declare(n.Name, symbols.CheckerSignature{Type: n.Kind})
	case *ast.Static:
		c.checkExpr(n.Value)
		c.checkAssignable(n.Kind, n.Value.ValueType(), n.Value, n)
		c.table.Statics.Declare(n.Name, symbols.CheckerSignature{Type: n.Kind})
	case *ast.ExprStmt:
		c.checkExpr(n.Expr)
	case *ast.Unreachable:
		// nothing to check
	}
}

func (c *Checker) checkReturn(n *ast.Return) {
	if len(c.returnStack) == 0 {
		c.emit(diagnostics.CodeReturnOutsideFn, n, "return statement outside of a function")
		return
	}
	want := c.returnStack[len(c.returnStack)-1]
	if n.Expression == nil {
		if !types.IsVoid(want) {
			c.emit(diagnostics.CodeTypeMismatch, n, "expected a return value of type '%s', found none", want)
		}
		return
	}
	c.checkExpr(n.Expression)
	if types.IsVoid(want) {
		c.emit(diagnostics.CodeVoidValue, n, "the void type is not a value; cannot return an expression here")
		return
	}
	c.checkAssignable(want, n.Expression.ValueType(), n.Expression, n)
}

func (c *Checker) checkCondition(cond ast.Expr) {
	c.checkExpr(cond)
	if t := cond.ValueType(); t != nil && !types.IsBool(t) {
		c.emit(diagnostics.CodeConditionNotBool, cond, "condition must be 'bool', found '%s'", t)
	}
}

// isAssignablePlace mirrors §4.F: "LHS must be assignable (reference /
// property / index / deref / parameter with mutable flag)."
func isAssignablePlace(target ast.Expr) bool {
	switch target.(type) {
	case *ast.Reference, *ast.Property, *ast.Index, *ast.Deref:
		return true
	default:
		return false
	}
}

// checkAssignable implements §4.F's assignment rule: want must structurally
// equal got, except when want is Ptr(T) and got is T already addressable —
// the engine inserts an implicit address-of at codegen time, so the checker
// only needs to allow the shape through, not reject it as a mismatch.
func (c *Checker) checkAssignable(want, got types.Type, expr ast.Expr, at ast.Node) {
	if want == nil || got == nil {
		return
	}
	if types.Equals(want, got) {
		return
	}
	if ptr, ok := want.(*types.Ptr); ok && ptr.Pointee != nil && types.Equals(ptr.Pointee, got) && isAddressable(expr) {
		return
	}
	if literalWidens(expr, want, got) {
		return
	}
	c.emit(diagnostics.CodeTypeMismatch, at, "expected '%s', found '%s'", want, got)
}

// isAddressable reports whether expr denotes a memory location the engine
// can take the address of implicitly.
func isAddressable(expr ast.Expr) bool {
	switch expr.(type) {
	case *ast.Reference, *ast.Property, *ast.Index, *ast.Deref:
		return true
	default:
		return false
	}
}

// literalWidens implements §4.F Calls/Assignments: "literals may widen to
// any containing signed/unsigned/float type."
func literalWidens(expr ast.Expr, want, got types.Type) bool {
	switch expr.(type) {
	case *ast.Integer:
		return types.IsInteger(want) && types.IsInteger(got)
	case *ast.Float:
		return types.IsFloat(want) && types.IsFloat(got)
	default:
		return false
	}
}

func (c *Checker) checkExpr(e ast.Expr) {
	if e == nil {
		return
	}
	switch n := e.(type) {
	case *ast.BinaryOp:
		c.checkExpr(n.Left)
		c.checkExpr(n.Right)
		c.checkBinaryOp(n)
	case *ast.UnaryOp:
		c.checkExpr(n.Operand)
		c.checkUnaryOp(n)
	case *ast.Group:
		c.checkExpr(n.Inner)
	case *ast.As:
		c.checkExpr(n.Value)
		c.checkCast(n)
	case *ast.Deref:
		c.checkExpr(n.Value)
	case *ast.Load:
		c.checkExpr(n.Pointer)
	case *ast.Write:
		c.checkExpr(n.Destination)
		c.checkExpr(n.Value)
	case *ast.Address:
		c.checkExpr(n.Value)
	case *ast.Indirect:
		c.checkExpr(n.Value)
	case *ast.Call:
		c.checkCall(n)
	case *ast.Index:
		c.checkExpr(n.Source)
		c.checkExpr(n.Idx)
	case *ast.Property:
		c.checkExpr(n.Source)
	case *ast.Constructor:
		for _, f := range n.Fields {
			c.checkExpr(f.Value)
		}
	case *ast.Array:
		for _, el := range n.Elements {
			c.checkExpr(el)
		}
	case *ast.FixedArray:
		for _, el := range n.Elements {
			c.checkExpr(el)
		}
	case *ast.Builtin:
		for _, a := range n.Arguments {
			c.checkExpr(a)
		}
	case *ast.AsmValue:
		for _, o := range n.Operands {
			c.checkExpr(o)
		}
	case *ast.Reference, *ast.DirectRef, *ast.EnumValue,
		*ast.Integer, *ast.Float, *ast.Boolean, *ast.Char, *ast.Str, *ast.NullPtrLiteral:
		// leaves: nothing further to check beyond the type already attached.
	}
}

// checkBinaryOp implements §4.F "Binary ops".
func (c *Checker) checkBinaryOp(n *ast.BinaryOp) {
	lt, rt := n.Left.ValueType(), n.Right.ValueType()
	if lt == nil || rt == nil {
		return
	}
	switch n.Op {
	case ast.OpAdd, ast.OpSub, ast.OpMul, ast.OpDiv, ast.OpMod:
		if (types.IsInteger(lt) && types.IsInteger(rt)) || (types.IsFloat(lt) && types.IsFloat(rt)) {
			return
		}
		c.emit(diagnostics.CodeBadBinaryOperand, n, "arithmetic requires matching int/int or float/float operands, found '%s' and '%s'", lt, rt)
	case ast.OpEq, ast.OpNeq:
		if sameCategory(lt, rt) || (types.IsPtrLike(lt) && types.IsPtrLike(rt)) {
			return
		}
		c.emit(diagnostics.CodeBadBinaryOperand, n, "comparison requires operands of the same category, found '%s' and '%s'", lt, rt)
	case ast.OpLt, ast.OpLte, ast.OpGt, ast.OpGte:
		if sameCategory(lt, rt) {
			return
		}
		c.emit(diagnostics.CodeBadBinaryOperand, n, "comparison requires operands of the same category, found '%s' and '%s'", lt, rt)
	case ast.OpAnd, ast.OpOr:
		if types.IsBool(lt) && types.IsBool(rt) {
			return
		}
		c.emit(diagnostics.CodeBadBinaryOperand, n, "'&&'/'||' require bool operands, found '%s' and '%s'", lt, rt)
	case ast.OpBitAnd, ast.OpBitOr, ast.OpBitXor, ast.OpShl, ast.OpShr:
		if types.IsInteger(lt) && types.IsInteger(rt) {
			return
		}
		c.emit(diagnostics.CodeBadBinaryOperand, n, "bitwise/shift operators require int operands, found '%s' and '%s'", lt, rt)
	}
}

// sameCategory reports whether a and b are both integer, both float, or
// both char — the "same category" comparison rule in §4.F.
func sameCategory(a, b types.Type) bool {
	switch {
	case types.IsInteger(a) && types.IsInteger(b):
		return true
	case types.IsFloat(a) && types.IsFloat(b):
		return true
	case types.IsChar(a) && types.IsChar(b):
		return true
	default:
		return false
	}
}

// checkUnaryOp implements §4.F "Unary ops".
func (c *Checker) checkUnaryOp(n *ast.UnaryOp) {
	t := n.Operand.ValueType()
	if t == nil {
		return
	}
	switch n.Op {
	case ast.OpNeg:
		if types.IsInteger(t) || types.IsFloat(t) {
			return
		}
		c.emit(diagnostics.CodeBadUnaryOperand, n, "unary '-' requires int or float, found '%s'", t)
	case ast.OpNot:
		if types.IsBool(t) || types.IsPtrLike(t) {
			return
		}
		c.emit(diagnostics.CodeBadUnaryOperand, n, "unary '!' requires bool or pointer, found '%s'", t)
	case ast.OpBitNot:
		if types.IsInteger(t) {
			return
		}
		c.emit(diagnostics.CodeBadUnaryOperand, n, "unary '~' requires int, found '%s'", t)
	case ast.OpIncr, ast.OpDecr:
		if !(types.IsInteger(t) || types.IsFloat(t)) {
			c.emit(diagnostics.CodeBadUnaryOperand, n, "'++'/'--' require int or float, found '%s'", t)
			return
		}
		if !isAssignablePlace(n.Operand) {
			c.emit(diagnostics.CodeNotAssignable, n, "'++'/'--' require an assignable place")
		}
	}
}

// checkCast implements §4.F "Casts": dispatch into the legality table in
// internal/types.
func (c *Checker) checkCast(n *ast.As) {
	from := n.Value.ValueType()
	if from == nil {
		return
	}
	if err := types.CheckCast(from, n.Target, n.Allocated); err != nil {
		c.emit(diagnostics.CodeBadCast, n, "%s", err.Error())
	}
}

// checkCall implements §4.F "Calls".
func (c *Checker) checkCall(n *ast.Call) {
	for _, a := range n.Arguments {
		c.checkExpr(a)
	}
	found, ok := c.table.Resolve(n.Callee)
	if !ok {
		c.emit(diagnostics.CodeUnknownSymbol, n, "unknown function '%s'", n.Callee)
		return
	}
	sig := found.Value
	if sig.IsVariadic {
		if len(n.Arguments) < len(sig.ParamTypes) {
			c.emit(diagnostics.CodeArityMismatch, n, "'%s' expects at least %d arguments, found %d", n.Callee, len(sig.ParamTypes), len(n.Arguments))
			return
		}
	} else if len(n.Arguments) != len(sig.ParamTypes) {
		c.emit(diagnostics.CodeArityMismatch, n, "'%s' expects %d arguments, found %d", n.Callee, len(sig.ParamTypes), len(n.Arguments))
		return
	}
	for i, want := range sig.ParamTypes {
		if i >= len(n.Arguments) {
			break
		}
		c.checkAssignable(want, n.Arguments[i].ValueType(), n.Arguments[i], n)
	}
}

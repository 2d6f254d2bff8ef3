package ast

import (
	"github.com/thrush-lang/thrushc/internal/attributes"
	"github.com/thrush-lang/thrushc/internal/source"
	"github.com/thrush-lang/thrushc/internal/types"
)

// FunctionParameter is one parameter of a Function/Intrinsic/AssemblerFunction.
type FunctionParameter struct {
	Name string
	Kind types.Type
	Meta Metadata
}

// Function is a full function declaration with a body.
type Function struct {
	base
	Name       string
	Parameters []FunctionParameter
	ReturnType types.Type
	Body       *Block
	Attrs      *attributes.Set
	IsVariadic bool
}

func NewFunction(name string, params []FunctionParameter, ret types.Type, body *Block,
	attrs *attributes.Set, variadic bool, span source.Span) *Function {
	return &Function{base: base{span}, Name: name, Parameters: params, ReturnType: ret,
		Body: body, Attrs: attrs, IsVariadic: variadic}
}

func (f *Function) DeclName() string { return f.Name }
func (*Function) isDecl()            {}

// Intrinsic is a function declared-only (no body): emitted as a declaration
// with the given signature and attributes (spec.md §4.H).
type Intrinsic struct {
	base
	Name       string
	Parameters []FunctionParameter
	ReturnType types.Type
	Attrs      *attributes.Set
	IsVariadic bool
}

func NewIntrinsic(name string, params []FunctionParameter, ret types.Type,
	attrs *attributes.Set, variadic bool, span source.Span) *Intrinsic {
	return &Intrinsic{base: base{span}, Name: name, Parameters: params, ReturnType: ret,
		Attrs: attrs, IsVariadic: variadic}
}

func (i *Intrinsic) DeclName() string { return i.Name }
func (*Intrinsic) isDecl()            {}

// AssemblerFunction is a function whose body is raw inline assembly.
type AssemblerFunction struct {
	base
	Name        string
	Parameters  []FunctionParameter
	ReturnType  types.Type
	Assembly    string
	Constraints string
	Attrs       *attributes.Set
}

func NewAssemblerFunction(name string, params []FunctionParameter, ret types.Type,
	assembly, constraints string, attrs *attributes.Set, span source.Span) *AssemblerFunction {
	return &AssemblerFunction{base: base{span}, Name: name, Parameters: params, ReturnType: ret,
		Assembly: assembly, Constraints: constraints, Attrs: attrs}
}

func (a *AssemblerFunction) DeclName() string { return a.Name }
func (*AssemblerFunction) isDecl()            {}

// StructField is one field of a Struct declaration.
type StructField struct {
	Name string
	Kind types.Type
}

// Struct is a struct type declaration.
type Struct struct {
	base
	Name   string
	Fields []StructField
	Attrs  *attributes.Set
}

func NewStruct(name string, fields []StructField, attrs *attributes.Set, span source.Span) *Struct {
	return &Struct{base: base{span}, Name: name, Fields: fields, Attrs: attrs}
}

func (s *Struct) DeclName() string { return s.Name }
func (*Struct) isDecl()            {}

// EnumField is one `Name = value` variant of an Enum declaration.
type EnumField struct {
	Name  string
	Value Expr // constant expression
}

// Enum is an enum type declaration.
type Enum struct {
	base
	Name      string
	Fields    []EnumField
	Underlying types.Type
}

func NewEnum(name string, fields []EnumField, underlying types.Type, span source.Span) *Enum {
	return &Enum{base: base{span}, Name: name, Fields: fields, Underlying: underlying}
}

func (e *Enum) DeclName() string { return e.Name }
func (*Enum) isDecl()            {}

// CustomType is a `type Alias = T;` declaration.
type CustomType struct {
	base
	Name     string
	Underlying types.Type
}

func NewCustomType(name string, underlying types.Type, span source.Span) *CustomType {
	return &CustomType{base: base{span}, Name: name, Underlying: underlying}
}

func (c *CustomType) DeclName() string { return c.Name }
func (*CustomType) isDecl()            {}

// Const is a module-level or local compile-time constant.
type Const struct {
	base
	Name  string
	Kind  types.Type
	Value Expr
	Meta  Metadata
	Attrs *attributes.Set
}

func NewConst(name string, kind types.Type, value Expr, meta Metadata, attrs *attributes.Set, span source.Span) *Const {
	return &Const{base: base{span}, Name: name, Kind: kind, Value: value, Meta: meta, Attrs: attrs}
}

func (c *Const) DeclName() string { return c.Name }
func (*Const) isDecl()            {}
func (*Const) isStmt()            {} // Const may also appear as a local statement.

// Static is a module-level or local mutable static variable.
type Static struct {
	base
	Name  string
	Kind  types.Type
	Value Expr
	Meta  Metadata
	Attrs *attributes.Set
}

func NewStatic(name string, kind types.Type, value Expr, meta Metadata, attrs *attributes.Set, span source.Span) *Static {
	return &Static{base: base{span}, Name: name, Kind: kind, Value: value, Meta: meta, Attrs: attrs}
}

func (s *Static) DeclName() string { return s.Name }
func (*Static) isDecl()            {}
func (*Static) isStmt()            {}

// GlobalAssembler is module-level raw inline assembly, emitted verbatim.
type GlobalAssembler struct {
	base
	Assembly string
}

func NewGlobalAssembler(assembly string, span source.Span) *GlobalAssembler {
	return &GlobalAssembler{base: base{span}, Assembly: assembly}
}

func (*GlobalAssembler) DeclName() string { return "" }
func (*GlobalAssembler) isDecl()          {}

// Import is a pass-through declaration: the symbols it names are declared
// elsewhere (spec.md §1 Non-goals: module/import resolution is out of
// scope). The core treats an Import purely as a forward declaration of an
// externally-defined symbol set.
type Import struct {
	base
	Path    string
	Symbols []string
}

func NewImport(path string, symbols []string, span source.Span) *Import {
	return &Import{base: base{span}, Path: path, Symbols: symbols}
}

func (i *Import) DeclName() string { return i.Path }
func (*Import) isDecl()            {}

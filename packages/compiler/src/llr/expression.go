package llr

import (
	"fmt"

	"slintc-go/packages/compiler/src/langtype"
)

// Expression is a node of a lowered binding expression.
//
// Expressions are immutable once built. Generators dispatch on the concrete type with a
// type switch.
type Expression interface {
	isExpression()
}

// StringLiteral is a string constant, without quotes
type StringLiteral struct {
	Value string
}

// NumberLiteral is a numeric constant
type NumberLiteral struct {
	Value float64
}

// BoolLiteral is a boolean constant
type BoolLiteral struct {
	Value bool
}

// PropertyReferenceExpr reads a property, or denotes an item when the reference is an item reference
type PropertyReferenceExpr struct {
	Ref PropertyReference
}

// FunctionParameterReference reads the argument at Index of the enclosing callback or function
type FunctionParameterReference struct {
	Index int
}

// StoreLocalVariable stores Value in a local variable of the enclosing CodeBlock
type StoreLocalVariable struct {
	Name  string
	Value Expression
}

// ReadLocalVariable reads a local variable previously stored in an enclosing CodeBlock
type ReadLocalVariable struct {
	Name string
	Type *langtype.Type
}

// StructFieldAccess reads a field of a struct value
type StructFieldAccess struct {
	Base Expression
	Name string
}

// ArrayIndex reads an element of an array or model
type ArrayIndex struct {
	Array Expression
	Index Expression
}

// Cast converts From to the type To
type Cast struct {
	From Expression
	To   *langtype.Type
}

// CodeBlock evaluates statements in order, its value is the value of the last one
type CodeBlock struct {
	Statements []Expression
}

// BuiltinFunctionCall calls a function provided by the runtime
type BuiltinFunctionCall struct {
	Function  BuiltinFunction
	Arguments []Expression
}

// CallbackCall invokes a callback property
type CallbackCall struct {
	Callback  PropertyReference
	Arguments []Expression
}

// FunctionCall invokes a declared function
type FunctionCall struct {
	Function  PropertyReference
	Arguments []Expression
}

// ExtraBuiltinFunctionCall calls a runtime helper known by name (layout solvers)
type ExtraBuiltinFunctionCall struct {
	ReturnType *langtype.Type
	Function   string
	Arguments  []Expression
}

// PropertyAssignment writes Value into a property
type PropertyAssignment struct {
	Property PropertyReference
	Value    Expression
}

// ModelDataAssignment writes the model data of the repeater Level contexts up
type ModelDataAssignment struct {
	Level int
	Value Expression
}

// ArrayIndexAssignment is `array[index] = value`
type ArrayIndexAssignment struct {
	Array Expression
	Index Expression
	Value Expression
}

// BinaryExpression applies Op, one of '+', '-', '*', '/', '=', '!', '<', '>', '≤', '≥', '&', '|'
type BinaryExpression struct {
	LHS Expression
	RHS Expression
	Op  rune
}

// UnaryOp applies Op, one of '+', '-', '!'
type UnaryOp struct {
	Sub Expression
	Op  rune
}

// ImageReferenceKind says where the pixels of an image come from
type ImageReferenceKind int

const (
	ImageNone ImageReferenceKind = iota
	ImageAbsolutePath
	ImageEmbeddedData
	ImageEmbeddedTexture
)

// ImageReference is an image literal
type ImageReference struct {
	Kind       ImageReferenceKind
	Path       string
	ResourceID int
	Extension  string
}

// Condition is the ternary `cond ? a : b`
type Condition struct {
	Condition Expression
	TrueExpr  Expression
	FalseExpr Expression
}

// Array is an array literal. AsModel arrays are wrapped in a model.
type Array struct {
	ElementType *langtype.Type
	Values      []Expression
	AsModel     bool
}

// Struct is a struct literal
type Struct struct {
	Type   *langtype.Type
	Values map[string]Expression
}

// EasingCurveExpr is an easing curve literal
type EasingCurveExpr struct {
	Curve EasingCurve
}

// GradientStop is a color with its position in a gradient
type GradientStop struct {
	Color    Expression
	Position Expression
}

// LinearGradient is a gradient brush literal, Angle is in degrees
type LinearGradient struct {
	Angle Expression
	Stops []GradientStop
}

// RadialGradient is a circular gradient brush literal
type RadialGradient struct {
	Stops []GradientStop
}

// EnumerationValue is an enum literal
type EnumerationValue struct {
	Value langtype.EnumerationValue
}

// ReturnStatement leaves the enclosing function. Value may be nil.
type ReturnStatement struct {
	Value Expression
}

// LayoutCacheAccess reads one coordinate of a layout cache.
// With a RepeaterIndex, the slot at Index holds the offset of the repeated data:
// `cache[cache[Index] + 2*RepeaterIndex]`.
type LayoutCacheAccess struct {
	LayoutCacheProp PropertyReference
	Index           int
	RepeaterIndex   Expression
}

// LayoutElement is either a static cell expression or a repeater whose instances provide cells
type LayoutElement struct {
	Cell     Expression
	Repeater int
}

// IsRepeater reports whether the element stands for a repeater
func (e LayoutElement) IsRepeater() bool {
	return e.Cell == nil
}

// BoxLayoutFunction assembles the cells of a box layout in CellsVariable and evaluates
// SubExpression. When RepeaterIndices is set, an array of (offset, count) pairs per
// repeater is stored under that name.
type BoxLayoutFunction struct {
	CellsVariable   string
	RepeaterIndices string
	Elements        []LayoutElement
	Orientation     Orientation
	SubExpression   Expression
}

// ComputeDialogLayoutCells reorders dialog buttons according to the platform conventions
type ComputeDialogLayoutCells struct {
	CellsVariable string
	Roles         Expression
	UnsortedCells Expression
}

// TranslationReference looks up a bundled translation. Plural is nil for non-plural strings.
type TranslationReference struct {
	FormatArgs  Expression
	StringIndex int
	Plural      Expression
}

func (*StringLiteral) isExpression()              {}
func (*NumberLiteral) isExpression()              {}
func (*BoolLiteral) isExpression()                {}
func (*PropertyReferenceExpr) isExpression()      {}
func (*FunctionParameterReference) isExpression() {}
func (*StoreLocalVariable) isExpression()         {}
func (*ReadLocalVariable) isExpression()          {}
func (*StructFieldAccess) isExpression()          {}
func (*ArrayIndex) isExpression()                 {}
func (*Cast) isExpression()                       {}
func (*CodeBlock) isExpression()                  {}
func (*BuiltinFunctionCall) isExpression()        {}
func (*CallbackCall) isExpression()               {}
func (*FunctionCall) isExpression()               {}
func (*ExtraBuiltinFunctionCall) isExpression()   {}
func (*PropertyAssignment) isExpression()         {}
func (*ModelDataAssignment) isExpression()        {}
func (*ArrayIndexAssignment) isExpression()       {}
func (*BinaryExpression) isExpression()           {}
func (*UnaryOp) isExpression()                    {}
func (*ImageReference) isExpression()             {}
func (*Condition) isExpression()                  {}
func (*Array) isExpression()                      {}
func (*Struct) isExpression()                     {}
func (*EasingCurveExpr) isExpression()            {}
func (*LinearGradient) isExpression()             {}
func (*RadialGradient) isExpression()             {}
func (*EnumerationValue) isExpression()           {}
func (*ReturnStatement) isExpression()            {}
func (*LayoutCacheAccess) isExpression()          {}
func (*BoxLayoutFunction) isExpression()          {}
func (*ComputeDialogLayoutCells) isExpression()   {}
func (*TranslationReference) isExpression()       {}

// IsComparison reports whether op yields a bool from two operands
func IsComparison(op rune) bool {
	switch op {
	case '=', '!', '<', '>', '≤', '≥':
		return true
	}
	return false
}

// IsLogical reports the boolean operators
func IsLogical(op rune) bool {
	return op == '&' || op == '|'
}

// TypeResolutionContext resolves the types of references inside expressions
type TypeResolutionContext interface {
	// PropertyType returns the type of the property. For functions, the return type.
	PropertyType(ref PropertyReference) *langtype.Type
	// ArgType returns the type of the argument at index of the current callback or function
	ArgType(index int) *langtype.Type
}

// TypeOf returns the static type of an expression
func TypeOf(e Expression, ctx TypeResolutionContext) *langtype.Type {
	switch e := e.(type) {
	case *StringLiteral:
		return langtype.String
	case *NumberLiteral:
		return langtype.Float32
	case *BoolLiteral:
		return langtype.Bool
	case *PropertyReferenceExpr:
		return ctx.PropertyType(e.Ref)
	case *FunctionParameterReference:
		return ctx.ArgType(e.Index)
	case *StoreLocalVariable:
		return langtype.Void
	case *ReadLocalVariable:
		return e.Type
	case *StructFieldAccess:
		base := TypeOf(e.Base, ctx)
		if base.Kind != langtype.KindStruct {
			panic(fmt.Sprintf("internal error: field access %q on non-struct %s", e.Name, base))
		}
		if t := base.FieldType(e.Name); t != nil {
			return t
		}
		panic(fmt.Sprintf("internal error: no field %q in %s", e.Name, base))
	case *ArrayIndex:
		arr := TypeOf(e.Array, ctx)
		if arr.Kind != langtype.KindArray {
			panic(fmt.Sprintf("internal error: indexing non-array %s", arr))
		}
		return arr.Elem
	case *Cast:
		return e.To
	case *CodeBlock:
		if len(e.Statements) == 0 {
			return langtype.Void
		}
		return TypeOf(e.Statements[len(e.Statements)-1], ctx)
	case *BuiltinFunctionCall:
		return e.Function.ReturnType()
	case *CallbackCall:
		t := ctx.PropertyType(e.Callback)
		if t.Kind == langtype.KindCallback {
			return t.Return
		}
		return langtype.Invalid
	case *FunctionCall:
		return ctx.PropertyType(e.Function)
	case *ExtraBuiltinFunctionCall:
		return e.ReturnType
	case *PropertyAssignment, *ModelDataAssignment, *ArrayIndexAssignment:
		return langtype.Void
	case *BinaryExpression:
		if IsComparison(e.Op) || IsLogical(e.Op) {
			return langtype.Bool
		}
		return TypeOf(e.LHS, ctx)
	case *UnaryOp:
		return TypeOf(e.Sub, ctx)
	case *ImageReference:
		return langtype.Image
	case *Condition:
		return TypeOf(e.TrueExpr, ctx)
	case *Array:
		return langtype.NewArray(e.ElementType)
	case *Struct:
		return e.Type
	case *EasingCurveExpr:
		return langtype.Easing
	case *LinearGradient, *RadialGradient:
		return langtype.Brush
	case *EnumerationValue:
		return langtype.NewEnumerationType(e.Value.Enumeration)
	case *ReturnStatement:
		return langtype.Invalid
	case *LayoutCacheAccess:
		return langtype.LogicalLength
	case *BoxLayoutFunction:
		return TypeOf(e.SubExpression, ctx)
	case *ComputeDialogLayoutCells:
		return langtype.NewArray(langtype.GridLayoutCellDataStruct)
	case *TranslationReference:
		return langtype.String
	}
	panic(fmt.Sprintf("internal error: unknown expression %T", e))
}

// Visit calls visitor for each direct sub-expression
func Visit(e Expression, visitor func(Expression)) {
	switch e := e.(type) {
	case *StoreLocalVariable:
		visitor(e.Value)
	case *StructFieldAccess:
		visitor(e.Base)
	case *ArrayIndex:
		visitor(e.Array)
		visitor(e.Index)
	case *Cast:
		visitor(e.From)
	case *CodeBlock:
		for _, s := range e.Statements {
			visitor(s)
		}
	case *BuiltinFunctionCall:
		for _, a := range e.Arguments {
			visitor(a)
		}
	case *CallbackCall:
		for _, a := range e.Arguments {
			visitor(a)
		}
	case *FunctionCall:
		for _, a := range e.Arguments {
			visitor(a)
		}
	case *ExtraBuiltinFunctionCall:
		for _, a := range e.Arguments {
			visitor(a)
		}
	case *PropertyAssignment:
		visitor(e.Value)
	case *ModelDataAssignment:
		visitor(e.Value)
	case *ArrayIndexAssignment:
		visitor(e.Array)
		visitor(e.Index)
		visitor(e.Value)
	case *BinaryExpression:
		visitor(e.LHS)
		visitor(e.RHS)
	case *UnaryOp:
		visitor(e.Sub)
	case *Condition:
		visitor(e.Condition)
		visitor(e.TrueExpr)
		visitor(e.FalseExpr)
	case *Array:
		for _, v := range e.Values {
			visitor(v)
		}
	case *Struct:
		for _, name := range sortedKeys(e.Values) {
			visitor(e.Values[name])
		}
	case *LinearGradient:
		visitor(e.Angle)
		for _, s := range e.Stops {
			visitor(s.Color)
			visitor(s.Position)
		}
	case *RadialGradient:
		for _, s := range e.Stops {
			visitor(s.Color)
			visitor(s.Position)
		}
	case *ReturnStatement:
		if e.Value != nil {
			visitor(e.Value)
		}
	case *LayoutCacheAccess:
		if e.RepeaterIndex != nil {
			visitor(e.RepeaterIndex)
		}
	case *BoxLayoutFunction:
		visitor(e.SubExpression)
		for _, el := range e.Elements {
			if !el.IsRepeater() {
				visitor(el.Cell)
			}
		}
	case *ComputeDialogLayoutCells:
		visitor(e.Roles)
		visitor(e.UnsortedCells)
	case *TranslationReference:
		visitor(e.FormatArgs)
		if e.Plural != nil {
			visitor(e.Plural)
		}
	}
}

// VisitRecursive calls visitor for e and every nested sub-expression, parents first
func VisitRecursive(e Expression, visitor func(Expression)) {
	visitor(e)
	Visit(e, func(sub Expression) { VisitRecursive(sub, visitor) })
}

// DefaultValue returns the expression producing the default value of t, or nil for
// types without a default (callbacks, models, path data).
func DefaultValue(t *langtype.Type) Expression {
	switch t.Kind {
	case langtype.KindFloat32, langtype.KindDuration, langtype.KindInt32, langtype.KindAngle,
		langtype.KindPhysicalLength, langtype.KindLogicalLength, langtype.KindRem,
		langtype.KindUnitProduct:
		return &NumberLiteral{Value: 0}
	case langtype.KindPercent:
		return &NumberLiteral{Value: 1}
	case langtype.KindString:
		return &StringLiteral{}
	case langtype.KindColor:
		return &Cast{From: &NumberLiteral{Value: 0}, To: t}
	case langtype.KindImage:
		return &ImageReference{Kind: ImageNone}
	case langtype.KindBool:
		return &BoolLiteral{}
	case langtype.KindArray:
		return &Array{ElementType: t.Elem, AsModel: true}
	case langtype.KindStruct:
		values := map[string]Expression{}
		for _, f := range t.Fields {
			v := DefaultValue(f.Type)
			if v == nil {
				return nil
			}
			values[f.Name] = v
		}
		return &Struct{Type: t, Values: values}
	case langtype.KindEasing:
		return &EasingCurveExpr{}
	case langtype.KindBrush:
		return &Cast{From: DefaultValue(langtype.Color), To: t}
	case langtype.KindEnumeration:
		return &EnumerationValue{Value: t.Enum.Default()}
	}
	return nil
}

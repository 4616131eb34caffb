package langtype

import (
	"fmt"
	"sort"
	"strings"
)

// Kind identifies the shape of a Type
type Kind int

const (
	// KindInvalid is the zero value, never valid in a resolved unit
	KindInvalid Kind = iota
	// KindVoid is the type of statements
	KindVoid
	// KindInferredProperty is a placeholder resolved by the type checker
	KindInferredProperty
	// KindInferredCallback is a placeholder resolved by the type checker
	KindInferredCallback
	KindFloat32
	KindInt32
	KindString
	KindColor
	KindDuration
	KindPhysicalLength
	KindLogicalLength
	KindRem
	KindAngle
	KindPercent
	// KindUnitProduct is an intermediate dimensional type such as px*px
	KindUnitProduct
	KindImage
	KindBool
	// KindModel is the type of a `for` model before lowering
	KindModel
	KindPathData
	KindEasing
	KindBrush
	KindArray
	KindStruct
	KindEnumeration
	KindCallback
	KindFunction
	KindElementReference
	// KindLayoutCache is the array of coordinates computed by a layout
	KindLayoutCache
	KindComponentFactory
)

var kindNames = map[Kind]string{
	KindInvalid:          "invalid",
	KindVoid:             "void",
	KindInferredProperty: "inferred-property",
	KindInferredCallback: "inferred-callback",
	KindFloat32:          "float",
	KindInt32:            "int",
	KindString:           "string",
	KindColor:            "color",
	KindDuration:         "duration",
	KindPhysicalLength:   "physical-length",
	KindLogicalLength:    "length",
	KindRem:              "relative-font-size",
	KindAngle:            "angle",
	KindPercent:          "percent",
	KindUnitProduct:      "unit-product",
	KindImage:            "image",
	KindBool:             "bool",
	KindModel:            "model",
	KindPathData:         "pathdata",
	KindEasing:           "easing",
	KindBrush:            "brush",
	KindArray:            "array",
	KindStruct:           "struct",
	KindEnumeration:      "enum",
	KindCallback:         "callback",
	KindFunction:         "function",
	KindElementReference: "element-ref",
	KindLayoutCache:      "layout-cache",
	KindComponentFactory: "component-factory",
}

// String returns the name used in diagnostics and in LLR documents
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// KindFromName is the inverse of Kind.String
func KindFromName(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return k, true
		}
	}
	return KindInvalid, false
}

// Unit is a physical unit carried by a unit product
type Unit string

const (
	UnitPx   Unit = "px"
	UnitPhx  Unit = "phx"
	UnitRem  Unit = "rem"
	UnitMs   Unit = "ms"
	UnitDeg  Unit = "deg"
	UnitNone Unit = ""
)

// UnitPower is one factor of a unit product, e.g. px^2
type UnitPower struct {
	Unit  Unit
	Power int
}

// Field is a member of a struct type
type Field struct {
	Name string
	Type *Type
}

// Type represents a fully resolved LLR type.
//
// Only the members relevant for Kind are set: Fields/Name for structs, Elem for arrays,
// Enum for enumerations, Args/Return for callbacks and functions, Units for unit products.
type Type struct {
	Kind Kind
	// Name of a struct; empty for anonymous structs (tuples)
	Name string
	// BuiltinStruct marks structs owned by the runtime (LayoutInfo, StateInfo, ...)
	BuiltinStruct bool
	// Fields are kept sorted by name
	Fields []Field
	Elem   *Type
	Enum   *Enumeration
	Args   []*Type
	Return *Type
	Units  []UnitPower
}

// Shared instances for the primitive types
var (
	Invalid          = &Type{Kind: KindInvalid}
	Void             = &Type{Kind: KindVoid}
	Float32          = &Type{Kind: KindFloat32}
	Int32            = &Type{Kind: KindInt32}
	String           = &Type{Kind: KindString}
	Color            = &Type{Kind: KindColor}
	Duration         = &Type{Kind: KindDuration}
	PhysicalLength   = &Type{Kind: KindPhysicalLength}
	LogicalLength    = &Type{Kind: KindLogicalLength}
	Rem              = &Type{Kind: KindRem}
	Angle            = &Type{Kind: KindAngle}
	Percent          = &Type{Kind: KindPercent}
	Image            = &Type{Kind: KindImage}
	Bool             = &Type{Kind: KindBool}
	Model            = &Type{Kind: KindModel}
	PathData         = &Type{Kind: KindPathData}
	Easing           = &Type{Kind: KindEasing}
	Brush            = &Type{Kind: KindBrush}
	ElementReference = &Type{Kind: KindElementReference}
	LayoutCache      = &Type{Kind: KindLayoutCache}
	ComponentFactory = &Type{Kind: KindComponentFactory}
)

// Primitive returns the shared instance for a kind without members
func Primitive(k Kind) *Type {
	switch k {
	case KindVoid:
		return Void
	case KindFloat32:
		return Float32
	case KindInt32:
		return Int32
	case KindString:
		return String
	case KindColor:
		return Color
	case KindDuration:
		return Duration
	case KindPhysicalLength:
		return PhysicalLength
	case KindLogicalLength:
		return LogicalLength
	case KindRem:
		return Rem
	case KindAngle:
		return Angle
	case KindPercent:
		return Percent
	case KindImage:
		return Image
	case KindBool:
		return Bool
	case KindModel:
		return Model
	case KindPathData:
		return PathData
	case KindEasing:
		return Easing
	case KindBrush:
		return Brush
	case KindElementReference:
		return ElementReference
	case KindLayoutCache:
		return LayoutCache
	case KindComponentFactory:
		return ComponentFactory
	}
	return &Type{Kind: k}
}

// NewArray creates an array type of the given element type
func NewArray(elem *Type) *Type {
	return &Type{Kind: KindArray, Elem: elem}
}

// NewStruct creates a struct type. Fields are sorted by name so that anonymous structs
// with the same members are equal regardless of declaration order.
func NewStruct(name string, fields []Field) *Type {
	sorted := make([]Field, len(fields))
	copy(sorted, fields)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
	return &Type{Kind: KindStruct, Name: name, Fields: sorted}
}

// NewBuiltinStruct creates a struct type implemented by the runtime library
func NewBuiltinStruct(name string, fields []Field) *Type {
	t := NewStruct(name, fields)
	t.BuiltinStruct = true
	return t
}

// NewCallback creates a callback type
func NewCallback(ret *Type, args ...*Type) *Type {
	if ret == nil {
		ret = Void
	}
	return &Type{Kind: KindCallback, Return: ret, Args: args}
}

// NewFunction creates a function type
func NewFunction(ret *Type, args ...*Type) *Type {
	if ret == nil {
		ret = Void
	}
	return &Type{Kind: KindFunction, Return: ret, Args: args}
}

// NewEnumerationType wraps an enumeration in a type
func NewEnumerationType(e *Enumeration) *Type {
	return &Type{Kind: KindEnumeration, Enum: e}
}

// NewUnitProduct creates a dimensional type from unit powers
func NewUnitProduct(units ...UnitPower) *Type {
	return &Type{Kind: KindUnitProduct, Units: units}
}

// FieldType returns the type of the named struct field, or nil
func (t *Type) FieldType(name string) *Type {
	for _, f := range t.Fields {
		if f.Name == name {
			return f.Type
		}
	}
	return nil
}

// FieldNames returns the field names in their canonical (sorted) order
func (t *Type) FieldNames() []string {
	names := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		names[i] = f.Name
	}
	return names
}

// IsNumber reports whether values of this type are represented as a number
func (t *Type) IsNumber() bool {
	switch t.Kind {
	case KindFloat32, KindInt32, KindDuration, KindPhysicalLength, KindLogicalLength,
		KindRem, KindAngle, KindPercent, KindUnitProduct:
		return true
	}
	return false
}

// IsUnitProduct reports whether the type is a floating-point dimensional quantity.
// Equality on these types is approximate.
func (t *Type) IsUnitProduct() bool {
	switch t.Kind {
	case KindFloat32, KindDuration, KindPhysicalLength, KindLogicalLength, KindRem,
		KindAngle, KindPercent, KindUnitProduct:
		return true
	}
	return false
}

// IsCallable reports callbacks and functions
func (t *Type) IsCallable() bool {
	return t.Kind == KindCallback || t.Kind == KindFunction
}

// IsPropertyType reports whether the type may be stored in a property
func (t *Type) IsPropertyType() bool {
	switch t.Kind {
	case KindInvalid, KindVoid, KindInferredProperty, KindInferredCallback, KindCallback,
		KindFunction, KindElementReference:
		return false
	}
	return true
}

// Equal compares two types structurally
func (t *Type) Equal(o *Type) bool {
	if t == o {
		return true
	}
	if t == nil || o == nil || t.Kind != o.Kind {
		return false
	}
	switch t.Kind {
	case KindArray:
		return t.Elem.Equal(o.Elem)
	case KindStruct:
		if t.Name != o.Name || len(t.Fields) != len(o.Fields) {
			return false
		}
		for i := range t.Fields {
			if t.Fields[i].Name != o.Fields[i].Name || !t.Fields[i].Type.Equal(o.Fields[i].Type) {
				return false
			}
		}
		return true
	case KindEnumeration:
		return t.Enum != nil && o.Enum != nil && t.Enum.Name == o.Enum.Name
	case KindCallback, KindFunction:
		if !t.Return.Equal(o.Return) || len(t.Args) != len(o.Args) {
			return false
		}
		for i := range t.Args {
			if !t.Args[i].Equal(o.Args[i]) {
				return false
			}
		}
		return true
	case KindUnitProduct:
		if len(t.Units) != len(o.Units) {
			return false
		}
		for i := range t.Units {
			if t.Units[i] != o.Units[i] {
				return false
			}
		}
		return true
	}
	return true
}

// String renders the type as in the UI language
func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	switch t.Kind {
	case KindArray:
		return "[" + t.Elem.String() + "]"
	case KindStruct:
		if t.Name != "" {
			return t.Name
		}
		parts := make([]string, len(t.Fields))
		for i, f := range t.Fields {
			parts[i] = f.Name + ": " + f.Type.String()
		}
		return "{ " + strings.Join(parts, ", ") + " }"
	case KindEnumeration:
		if t.Enum != nil {
			return t.Enum.Name
		}
	case KindCallback, KindFunction:
		args := make([]string, len(t.Args))
		for i, a := range t.Args {
			args[i] = a.String()
		}
		return fmt.Sprintf("%s(%s) -> %s", t.Kind, strings.Join(args, ", "), t.Return)
	case KindUnitProduct:
		parts := make([]string, 0, len(t.Units))
		for _, u := range t.Units {
			parts = append(parts, fmt.Sprintf("%s^%d", u.Unit, u.Power))
		}
		return strings.Join(parts, "*")
	}
	return t.Kind.String()
}

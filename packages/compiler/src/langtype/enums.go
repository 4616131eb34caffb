package langtype

// Enumeration represents a named enum type of the UI language
type Enumeration struct {
	Name         string
	Values       []string
	DefaultValue int
	// Builtin enums live in the runtime library and are not generated
	Builtin bool
}

// NewEnumeration creates a user enumeration
func NewEnumeration(name string, values ...string) *Enumeration {
	return &Enumeration{Name: name, Values: values}
}

// IndexOf returns the position of value, or -1
func (e *Enumeration) IndexOf(value string) int {
	for i, v := range e.Values {
		if v == value {
			return i
		}
	}
	return -1
}

// EnumerationValue is one value of an enumeration
type EnumerationValue struct {
	Value       int
	Enumeration *Enumeration
}

// Name returns the source name of the value
func (v EnumerationValue) Name() string {
	return v.Enumeration.Values[v.Value]
}

// Default returns the default value of the enumeration
func (e *Enumeration) Default() EnumerationValue {
	return EnumerationValue{Value: e.DefaultValue, Enumeration: e}
}

// Builtin enumerations used by layout lowering
var (
	LayoutAlignmentEnum = &Enumeration{
		Name:    "LayoutAlignment",
		Values:  []string{"stretch", "center", "start", "end", "space-between", "space-around", "space-evenly"},
		Builtin: true,
	}
	OrientationEnum = &Enumeration{
		Name:    "Orientation",
		Values:  []string{"horizontal", "vertical"},
		Builtin: true,
	}
	DialogButtonRoleEnum = &Enumeration{
		Name:    "DialogButtonRole",
		Values:  []string{"none", "accept", "reject", "apply", "reset", "help", "action"},
		Builtin: true,
	}
	AccessibleRoleEnum = &Enumeration{
		Name: "AccessibleRole",
		Values: []string{"none", "button", "checkbox", "combobox", "list", "slider", "spinbox", "tab",
			"tab-list", "text", "table", "tree", "progress-indicator", "text-input", "switch", "list-item"},
		Builtin: true,
	}
)

// Builtin runtime structs referenced by layout and animation expressions
var (
	LayoutInfoStruct = NewBuiltinStruct("LayoutInfo", []Field{
		{Name: "min", Type: LogicalLength},
		{Name: "max", Type: LogicalLength},
		{Name: "min_percent", Type: Percent},
		{Name: "max_percent", Type: Percent},
		{Name: "preferred", Type: LogicalLength},
		{Name: "stretch", Type: Float32},
	})
	PaddingStruct = NewBuiltinStruct("Padding", []Field{
		{Name: "begin", Type: LogicalLength},
		{Name: "end", Type: LogicalLength},
	})
	BoxLayoutCellDataStruct = NewBuiltinStruct("BoxLayoutCellData", []Field{
		{Name: "constraint", Type: LayoutInfoStruct},
	})
	BoxLayoutDataStruct = NewBuiltinStruct("BoxLayoutData", []Field{
		{Name: "size", Type: LogicalLength},
		{Name: "spacing", Type: LogicalLength},
		{Name: "padding", Type: PaddingStruct},
		{Name: "alignment", Type: NewEnumerationType(LayoutAlignmentEnum)},
		{Name: "cells", Type: NewArray(BoxLayoutCellDataStruct)},
	})
	GridLayoutCellDataStruct = NewBuiltinStruct("GridLayoutCellData", []Field{
		{Name: "col_or_row", Type: Int32},
		{Name: "span", Type: Int32},
		{Name: "constraint", Type: LayoutInfoStruct},
	})
	PropertyAnimationStruct = NewBuiltinStruct("PropertyAnimation", []Field{
		{Name: "delay", Type: Int32},
		{Name: "duration", Type: Int32},
		{Name: "iteration_count", Type: Float32},
		{Name: "easing", Type: Easing},
	})
	StateInfoStruct = NewBuiltinStruct("StateInfo", []Field{
		{Name: "current_state", Type: Int32},
		{Name: "previous_state", Type: Int32},
		{Name: "change_time", Type: Duration},
	})
	PointStruct = NewBuiltinStruct("Point", []Field{
		{Name: "x", Type: LogicalLength},
		{Name: "y", Type: LogicalLength},
	})
	SizeStruct = NewBuiltinStruct("Size", []Field{
		{Name: "width", Type: LogicalLength},
		{Name: "height", Type: LogicalLength},
	})
)

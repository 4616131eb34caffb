package langtype

// NativeClass describes a builtin item implemented by the runtime library
type NativeClass struct {
	// ClassName is the runtime type name, e.g. "Rectangle"
	ClassName string
	// VTableGetter is the expression giving the item vtable in native code
	VTableGetter string
	// Properties declared by the item, by name
	Properties map[string]*Type
}

// LookupProperty returns the type of the named property, or nil
func (c *NativeClass) LookupProperty(name string) *Type {
	if c == nil {
		return nil
	}
	return c.Properties[name]
}

func nativeClass(name string, props map[string]*Type) *NativeClass {
	return &NativeClass{
		ClassName:    name,
		VTableGetter: "SLINT_GET_ITEM_VTABLE(" + name + "VTable)",
		Properties:   props,
	}
}

var geometryProperties = map[string]*Type{
	"x":      LogicalLength,
	"y":      LogicalLength,
	"width":  LogicalLength,
	"height": LogicalLength,
}

func withGeometry(props map[string]*Type) map[string]*Type {
	out := make(map[string]*Type, len(props)+len(geometryProperties))
	for k, v := range geometryProperties {
		out[k] = v
	}
	for k, v := range props {
		out[k] = v
	}
	return out
}

// builtinClasses lists the native items known to the runtime library
var builtinClasses = map[string]*NativeClass{
	"Empty": nativeClass("Empty", withGeometry(nil)),
	"Rectangle": nativeClass("Rectangle", withGeometry(map[string]*Type{
		"background": Brush,
	})),
	"BorderRectangle": nativeClass("BorderRectangle", withGeometry(map[string]*Type{
		"background":    Brush,
		"border-color":  Brush,
		"border-width":  LogicalLength,
		"border-radius": LogicalLength,
	})),
	"Text": nativeClass("Text", withGeometry(map[string]*Type{
		"text":      String,
		"color":     Brush,
		"font-size": LogicalLength,
		"wrap":      Int32,
	})),
	"TextInput": nativeClass("TextInput", withGeometry(map[string]*Type{
		"text":            String,
		"color":           Brush,
		"font-size":       LogicalLength,
		"has-focus":       Bool,
		"enabled":         Bool,
		"cursor-position": Int32,
		"edited":          NewCallback(Void, String),
		"accepted":        NewCallback(Void, String),
	})),
	"TouchArea": nativeClass("TouchArea", withGeometry(map[string]*Type{
		"pressed":   Bool,
		"has-hover": Bool,
		"enabled":   Bool,
		"mouse-x":   LogicalLength,
		"mouse-y":   LogicalLength,
		"clicked":   NewCallback(Void),
	})),
	"Image": nativeClass("ImageItem", withGeometry(map[string]*Type{
		"source":   Image,
		"colorize": Brush,
	})),
	"Flickable": nativeClass("Flickable", withGeometry(map[string]*Type{
		"viewport-x":      LogicalLength,
		"viewport-y":      LogicalLength,
		"viewport-width":  LogicalLength,
		"viewport-height": LogicalLength,
		"interactive":     Bool,
	})),
	"Window": nativeClass("WindowItem", withGeometry(map[string]*Type{
		"title":      String,
		"background": Brush,
	})),
	"Clip": nativeClass("Clip", withGeometry(map[string]*Type{
		"clip": Bool,
	})),
	"Opacity": nativeClass("Opacity", withGeometry(map[string]*Type{
		"opacity": Float32,
	})),
	"FocusScope": nativeClass("FocusScope", withGeometry(map[string]*Type{
		"has-focus":   Bool,
		"enabled":     Bool,
		"key-pressed": NewCallback(Void),
	})),
	"Path": nativeClass("Path", withGeometry(map[string]*Type{
		"fill":         Brush,
		"stroke":       Brush,
		"stroke-width": LogicalLength,
	})),
	"ContextMenu": nativeClass("ContextMenu", withGeometry(map[string]*Type{
		"activated": NewCallback(Void),
	})),
}

// LookupNativeClass returns a builtin item class by its UI-language name
func LookupNativeClass(name string) (*NativeClass, bool) {
	c, ok := builtinClasses[name]
	return c, ok
}

// NewNativeClass creates a class descriptor not known to the builtin table
func NewNativeClass(name string, props map[string]*Type) *NativeClass {
	return nativeClass(name, withGeometry(props))
}

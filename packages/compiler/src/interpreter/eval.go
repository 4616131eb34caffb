package interpreter

import (
	"math"
	"strings"

	"slintc-go/packages/compiler/src/langtype"
	"slintc-go/packages/compiler/src/llr"
	"slintc-go/packages/compiler/src/runtime"
	"slintc-go/packages/compiler/src/util"
)

// frame is the evaluation state of one binding, callback or function body
type frame struct {
	scope    scope
	args     []runtime.Value
	locals   map[string]runtime.Value
	returned bool
	ret      runtime.Value
}

// run evaluates a body. The value of a return statement wins over the value of the body.
func (f *frame) run(e llr.Expression) runtime.Value {
	v := f.eval(e)
	if f.returned {
		return f.ret
	}
	return v
}

func (f *frame) setLocal(name string, v runtime.Value) {
	if f.locals == nil {
		f.locals = map[string]runtime.Value{}
	}
	f.locals[name] = v
}

// get reads a property. Callbacks and functions read as nil, items as an ItemRef.
func (f *frame) get(ref llr.PropertyReference) runtime.Value {
	t, ok := f.scope.resolve(ref)
	if !ok {
		return nil
	}
	switch t.kind {
	case targetProperty, targetItemProperty:
		return t.property().Get()
	case targetItem:
		return t.itemRef()
	}
	return nil
}

func (f *frame) evalAll(args []llr.Expression) []runtime.Value {
	values := make([]runtime.Value, len(args))
	for i, a := range args {
		values[i] = f.eval(a)
	}
	return values
}

func (f *frame) eval(e llr.Expression) runtime.Value {
	switch e := e.(type) {
	case *llr.StringLiteral:
		return e.Value
	case *llr.NumberLiteral:
		return e.Value
	case *llr.BoolLiteral:
		return e.Value
	case *llr.PropertyReferenceExpr:
		return f.get(e.Ref)
	case *llr.FunctionParameterReference:
		if e.Index < 0 || e.Index >= len(f.args) {
			return nil
		}
		return f.args[e.Index]
	case *llr.StoreLocalVariable:
		f.setLocal(e.Name, f.eval(e.Value))
		return nil
	case *llr.ReadLocalVariable:
		if v, ok := f.locals[e.Name]; ok {
			return v
		}
		return defaultValue(e.Type)
	case *llr.StructFieldAccess:
		s, _ := f.eval(e.Base).(runtime.Struct)
		return s.Field(e.Name)
	case *llr.ArrayIndex:
		m := runtime.ModelFromValue(f.eval(e.Array))
		i := int(math.Trunc(runtime.Number(f.eval(e.Index))))
		if i < 0 || i >= m.RowCount() {
			return nil
		}
		return m.RowData(i)
	case *llr.Cast:
		return cast(f.eval(e.From), e.To)
	case *llr.CodeBlock:
		var v runtime.Value
		for _, s := range e.Statements {
			v = f.eval(s)
			if f.returned {
				return f.ret
			}
		}
		return v
	case *llr.BuiltinFunctionCall:
		return f.builtin(e)
	case *llr.CallbackCall:
		t, ok := f.scope.resolve(e.Callback)
		if !ok {
			return nil
		}
		v := t.callback().Call(f.evalAll(e.Arguments)...)
		if v == nil && t.typ.Return != nil {
			return defaultValue(t.typ.Return)
		}
		return v
	case *llr.FunctionCall:
		t, ok := f.scope.resolve(e.Function)
		if !ok {
			return nil
		}
		if t.kind != targetFunction {
			util.InternalError("%s is not a function", e.Function)
		}
		return t.owner.invoke(t.function.Code, f.evalAll(e.Arguments))
	case *llr.ExtraBuiltinFunctionCall:
		return f.extraBuiltin(e)
	case *llr.PropertyAssignment:
		v := f.eval(e.Value)
		if t, ok := f.scope.resolve(e.Property); ok {
			t.property().Set(v)
		}
		return nil
	case *llr.ModelDataAssignment:
		v := f.eval(e.Value)
		if f.scope.inst == nil {
			util.InternalError("model data assignment outside of a component")
		}
		f.scope.inst.assignModelData(e.Level, v)
		return nil
	case *llr.ArrayIndexAssignment:
		m := runtime.ModelFromValue(f.eval(e.Array))
		i := int(math.Trunc(runtime.Number(f.eval(e.Index))))
		v := f.eval(e.Value)
		if i >= 0 && i < m.RowCount() {
			m.SetRowData(i, v)
		}
		return nil
	case *llr.BinaryExpression:
		return f.binary(e)
	case *llr.UnaryOp:
		v := f.eval(e.Sub)
		switch e.Op {
		case '-':
			return -runtime.Number(v)
		case '!':
			return !runtime.Bool(v)
		}
		return v
	case *llr.ImageReference:
		return f.image(e)
	case *llr.Condition:
		if runtime.Bool(f.eval(e.Condition)) {
			return f.eval(e.TrueExpr)
		}
		return f.eval(e.FalseExpr)
	case *llr.Array:
		return runtime.NewVecModel(f.evalAll(e.Values)...)
	case *llr.Struct:
		fields := make(map[string]runtime.Value, len(e.Values))
		for _, name := range e.SortedFieldNames() {
			fields[name] = f.eval(e.Values[name])
		}
		return runtime.NewStruct(fields)
	case *llr.EasingCurveExpr:
		c := e.Curve
		return runtime.EasingCurve{Kind: c.Kind.String(), X1: c.X1, Y1: c.Y1, X2: c.X2, Y2: c.Y2}
	case *llr.LinearGradient:
		return runtime.LinearGradient(runtime.Number(f.eval(e.Angle)), f.stops(e.Stops)...)
	case *llr.RadialGradient:
		return runtime.RadialGradient(f.stops(e.Stops)...)
	case *llr.EnumerationValue:
		return enumValue(e.Value)
	case *llr.ReturnStatement:
		var v runtime.Value
		if e.Value != nil {
			v = f.eval(e.Value)
		}
		f.returned = true
		f.ret = v
		return v
	case *llr.LayoutCacheAccess:
		cache, _ := f.get(e.LayoutCacheProp).(runtime.LayoutCache)
		if e.RepeaterIndex == nil {
			return runtime.LayoutCacheAccess(cache, e.Index, nil)
		}
		ri := int(runtime.Number(f.eval(e.RepeaterIndex)))
		return runtime.LayoutCacheAccess(cache, e.Index, &ri)
	case *llr.BoxLayoutFunction:
		return f.boxLayout(e)
	case *llr.ComputeDialogLayoutCells:
		return f.dialogLayout(e)
	case *llr.TranslationReference:
		return f.translation(e)
	}
	util.InternalError("unknown expression %T", e)
	return nil
}

func (f *frame) binary(e *llr.BinaryExpression) runtime.Value {
	switch e.Op {
	case '&':
		return runtime.Bool(f.eval(e.LHS)) && runtime.Bool(f.eval(e.RHS))
	case '|':
		return runtime.Bool(f.eval(e.LHS)) || runtime.Bool(f.eval(e.RHS))
	}
	lhs, rhs := f.eval(e.LHS), f.eval(e.RHS)
	switch e.Op {
	case '=':
		return equal(lhs, rhs)
	case '!':
		return !equal(lhs, rhs)
	case '+':
		if s, ok := lhs.(string); ok {
			return s + runtime.String(rhs)
		}
		return runtime.Number(lhs) + runtime.Number(rhs)
	}
	if ls, ok := lhs.(string); ok {
		rs := runtime.String(rhs)
		switch e.Op {
		case '<':
			return ls < rs
		case '>':
			return ls > rs
		case '≤':
			return ls <= rs
		case '≥':
			return ls >= rs
		}
	}
	a, b := runtime.Number(lhs), runtime.Number(rhs)
	switch e.Op {
	case '-':
		return a - b
	case '*':
		return a * b
	case '/':
		return a / b
	case '<':
		return a < b
	case '>':
		return a > b
	case '≤':
		return a <= b
	case '≥':
		return a >= b
	}
	util.InternalError("unknown binary operator %q", e.Op)
	return nil
}

// equal compares numbers with a tolerance, everything else exactly
func equal(a, b runtime.Value) bool {
	x, ok1 := a.(float64)
	y, ok2 := b.(float64)
	if ok1 && ok2 {
		return runtime.ApproxEqual(x, y)
	}
	return runtime.Equal(a, b)
}

// cast converts v to the type to
func cast(v runtime.Value, to *langtype.Type) runtime.Value {
	switch to.Kind {
	case langtype.KindInt32:
		return math.Trunc(runtime.Number(v))
	case langtype.KindString:
		switch v := v.(type) {
		case float64:
			return runtime.NumberToString(v)
		case runtime.EnumValue:
			return v.Value
		case string:
			return v
		}
		return valueString(v)
	case langtype.KindColor:
		switch v := v.(type) {
		case float64:
			return runtime.ColorFromArgbEncoded(uint32(int64(v)))
		case runtime.Brush:
			return v.ColorValue()
		}
	case langtype.KindBrush:
		if c, ok := v.(runtime.Color); ok {
			return runtime.SolidBrush(c)
		}
	case langtype.KindStruct:
		s, ok := v.(runtime.Struct)
		if !ok {
			return defaultValue(to)
		}
		fields := make(map[string]runtime.Value, len(to.Fields))
		for _, field := range to.Fields {
			if s.Has(field.Name) {
				fields[field.Name] = s.Field(field.Name)
			} else {
				fields[field.Name] = defaultValue(field.Type)
			}
		}
		return runtime.NewStruct(fields)
	case langtype.KindModel, langtype.KindArray:
		if n, ok := v.(float64); ok {
			return runtime.IntModel(max(0, int(math.Trunc(n))))
		}
		return runtime.ModelFromValue(v)
	}
	if to.IsNumber() {
		if _, ok := v.(float64); !ok {
			return runtime.Number(v)
		}
	}
	return v
}

func enumValue(v langtype.EnumerationValue) runtime.EnumValue {
	return runtime.EnumValue{Enum: v.Enumeration.Name, Value: v.Name()}
}

func (f *frame) stops(stops []llr.GradientStop) []runtime.GradientStop {
	out := make([]runtime.GradientStop, len(stops))
	for i, s := range stops {
		out[i] = runtime.GradientStop{Color: toColor(f.eval(s.Color)), Position: runtime.Number(f.eval(s.Position))}
	}
	return out
}

func toColor(v runtime.Value) runtime.Color {
	switch v := v.(type) {
	case runtime.Color:
		return v
	case runtime.Brush:
		return v.ColorValue()
	case float64:
		return runtime.ColorFromArgbEncoded(uint32(int64(v)))
	}
	return runtime.Transparent
}

func (f *frame) image(e *llr.ImageReference) runtime.Value {
	switch e.Kind {
	case llr.ImageAbsolutePath:
		// an unreadable file is an image of size 0x0
		img, _ := runtime.LoadImage(e.Path)
		return img
	case llr.ImageEmbeddedData:
		var data []byte
		if sys := f.scope.system(); sys != nil {
			for _, r := range sys.unit.Resources {
				if r.ID == e.ResourceID {
					data = r.Data
				}
			}
		}
		return runtime.EmbeddedImage(e.ResourceID, e.Extension, data)
	case llr.ImageEmbeddedTexture:
		img := runtime.Image{ResourceID: e.ResourceID, Extension: e.Extension, Embedded: true}
		if sys := f.scope.system(); sys != nil {
			for _, r := range sys.unit.Resources {
				if r.ID == e.ResourceID && r.Texture != nil {
					img.Width, img.Height = r.Texture.OriginalWidth, r.Texture.OriginalHeight
				}
			}
		}
		return img
	}
	return runtime.Image{}
}

// valueString is how debug() prints values
func valueString(v runtime.Value) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return runtime.NumberToString(v)
	case bool:
		if v {
			return "true"
		}
		return "false"
	case runtime.EnumValue:
		return v.Value
	case runtime.Color:
		return colorString(v)
	case runtime.Brush:
		return colorString(v.ColorValue())
	case runtime.Struct:
		var parts []string
		for _, name := range v.FieldNames() {
			parts = append(parts, name+": "+valueString(v.Field(name)))
		}
		return "{ " + strings.Join(parts, ", ") + " }"
	case runtime.Model:
		parts := make([]string, v.RowCount())
		for i := range parts {
			parts[i] = valueString(v.RowData(i))
		}
		return "[" + strings.Join(parts, ", ") + "]"
	}
	return "<value>"
}

func colorString(c runtime.Color) string {
	const hex = "0123456789abcdef"
	b := []byte{'#'}
	for _, ch := range []uint8{c.R, c.G, c.B, c.A} {
		b = append(b, hex[ch>>4], hex[ch&0xf])
	}
	return string(b)
}

// stringsOf converts an array of strings, the format arguments of translations
func stringsOf(v runtime.Value) []string {
	m := runtime.ModelFromValue(v)
	out := make([]string, m.RowCount())
	for i := range out {
		out[i] = valueString(m.RowData(i))
	}
	return out
}

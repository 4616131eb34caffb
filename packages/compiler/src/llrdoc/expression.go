package llrdoc

import (
	"gopkg.in/yaml.v3"

	"slintc-go/packages/compiler/src/langtype"
	"slintc-go/packages/compiler/src/llr"
)

var binaryOps = map[string]rune{
	"+": '+', "-": '-', "*": '*', "/": '/',
	"==": '=', "=": '=', "!=": '!', "!": '!',
	"<": '<', ">": '>', "<=": '≤', "≤": '≤', ">=": '≥', "≥": '≥',
	"&&": '&', "&": '&', "||": '|', "|": '|',
}

var imageKinds = map[string]llr.ImageReferenceKind{
	"none":     llr.ImageNone,
	"path":     llr.ImageAbsolutePath,
	"embedded": llr.ImageEmbeddedData,
	"texture":  llr.ImageEmbeddedTexture,
}

// expr decodes an expression. Null decodes to nil.
func (d *decoder) expr(n *yaml.Node, s scope) llr.Expression {
	if n == nil || isNull(n) {
		return nil
	}
	switch n.Kind {
	case yaml.ScalarNode:
		switch n.ShortTag() {
		case "!!int", "!!float":
			return &llr.NumberLiteral{Value: d.float(n)}
		case "!!bool":
			return &llr.BoolLiteral{Value: d.boolean(n)}
		}
		return &llr.StringLiteral{Value: n.Value}
	case yaml.MappingNode:
		return d.tagged(n, s)
	}
	d.fail(n, "expected an expression")
	return nil
}

// required decodes an expression that must be present
func (d *decoder) required(parent *yaml.Node, m map[string]*yaml.Node, key string, s scope) llr.Expression {
	return d.expr(d.require(parent, m, key), s)
}

func (d *decoder) exprs(n *yaml.Node, s scope) []llr.Expression {
	var out []llr.Expression
	for _, e := range d.seq(n) {
		x := d.expr(e, s)
		if x == nil {
			d.fail(e, "null expression in a list")
		}
		out = append(out, x)
	}
	return out
}

func (d *decoder) kindOf(n *yaml.Node) string {
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == "kind" {
			return d.str(n.Content[i+1])
		}
	}
	d.fail(n, "expression without kind")
	return ""
}

func (d *decoder) tagged(n *yaml.Node, s scope) llr.Expression {
	kind := d.kindOf(n)
	switch kind {
	case "string":
		m := d.fields(n, "kind", "value")
		return &llr.StringLiteral{Value: d.optString(m, "value")}
	case "number":
		m := d.fields(n, "kind", "value")
		return &llr.NumberLiteral{Value: d.float(d.require(n, m, "value"))}
	case "bool":
		m := d.fields(n, "kind", "value")
		return &llr.BoolLiteral{Value: d.optBool(m, "value")}
	case "ref":
		m := d.fields(n, "kind", "ref")
		return &llr.PropertyReferenceExpr{Ref: d.ref(d.require(n, m, "ref"), s)}
	case "arg":
		m := d.fields(n, "kind", "index")
		return &llr.FunctionParameterReference{Index: d.integer(d.require(n, m, "index"))}
	case "store":
		m := d.fields(n, "kind", "name", "value")
		return &llr.StoreLocalVariable{Name: d.str(d.require(n, m, "name")), Value: d.required(n, m, "value", s)}
	case "load":
		m := d.fields(n, "kind", "name", "type")
		return &llr.ReadLocalVariable{Name: d.str(d.require(n, m, "name")), Type: d.typ(d.require(n, m, "type"))}
	case "field":
		m := d.fields(n, "kind", "base", "name")
		return &llr.StructFieldAccess{Base: d.required(n, m, "base", s), Name: d.str(d.require(n, m, "name"))}
	case "index":
		m := d.fields(n, "kind", "array", "index")
		return &llr.ArrayIndex{Array: d.required(n, m, "array", s), Index: d.required(n, m, "index", s)}
	case "cast":
		m := d.fields(n, "kind", "from", "to")
		return &llr.Cast{From: d.required(n, m, "from", s), To: d.typ(d.require(n, m, "to"))}
	case "block":
		m := d.fields(n, "kind", "statements")
		return &llr.CodeBlock{Statements: d.exprs(m["statements"], s)}
	case "builtin":
		return d.builtinCall(n, s)
	case "callback":
		m := d.fields(n, "kind", "ref", "args")
		return &llr.CallbackCall{Callback: d.ref(d.require(n, m, "ref"), s), Arguments: d.exprs(m["args"], s)}
	case "call":
		m := d.fields(n, "kind", "ref", "args")
		return &llr.FunctionCall{Function: d.ref(d.require(n, m, "ref"), s), Arguments: d.exprs(m["args"], s)}
	case "extra":
		m := d.fields(n, "kind", "function", "return", "args")
		return &llr.ExtraBuiltinFunctionCall{
			Function:   d.str(d.require(n, m, "function")),
			ReturnType: d.typ(d.require(n, m, "return")),
			Arguments:  d.exprs(m["args"], s),
		}
	case "assign":
		m := d.fields(n, "kind", "ref", "value")
		return &llr.PropertyAssignment{Property: d.ref(d.require(n, m, "ref"), s), Value: d.required(n, m, "value", s)}
	case "model-assign":
		m := d.fields(n, "kind", "level", "value")
		return &llr.ModelDataAssignment{Level: d.optInt(m, "level", 0), Value: d.required(n, m, "value", s)}
	case "index-assign":
		m := d.fields(n, "kind", "array", "index", "value")
		return &llr.ArrayIndexAssignment{
			Array: d.required(n, m, "array", s),
			Index: d.required(n, m, "index", s),
			Value: d.required(n, m, "value", s),
		}
	case "binary":
		m := d.fields(n, "kind", "op", "lhs", "rhs")
		op, ok := binaryOps[d.str(d.require(n, m, "op"))]
		if !ok {
			d.fail(m["op"], "unknown binary operator %q", m["op"].Value)
		}
		return &llr.BinaryExpression{LHS: d.required(n, m, "lhs", s), RHS: d.required(n, m, "rhs", s), Op: op}
	case "unary":
		m := d.fields(n, "kind", "op", "sub")
		op := d.str(d.require(n, m, "op"))
		if op != "+" && op != "-" && op != "!" {
			d.fail(m["op"], "unknown unary operator %q", op)
		}
		return &llr.UnaryOp{Sub: d.required(n, m, "sub", s), Op: rune(op[0])}
	case "image":
		return d.image(n)
	case "condition":
		m := d.fields(n, "kind", "if", "then", "else")
		return &llr.Condition{
			Condition: d.required(n, m, "if", s),
			TrueExpr:  d.required(n, m, "then", s),
			FalseExpr: d.required(n, m, "else", s),
		}
	case "array":
		m := d.fields(n, "kind", "element", "values", "model")
		return &llr.Array{
			ElementType: d.typ(d.require(n, m, "element")),
			Values:      d.exprs(m["values"], s),
			AsModel:     d.optBool(m, "model"),
		}
	case "struct":
		return d.structLiteral(n, s)
	case "easing":
		return d.easing(n)
	case "linear-gradient":
		m := d.fields(n, "kind", "angle", "stops")
		return &llr.LinearGradient{Angle: d.required(n, m, "angle", s), Stops: d.stops(m["stops"], s)}
	case "radial-gradient":
		m := d.fields(n, "kind", "stops")
		return &llr.RadialGradient{Stops: d.stops(m["stops"], s)}
	case "enum":
		m := d.fields(n, "kind", "type", "value")
		return &llr.EnumerationValue{Value: d.enumValue(n, m)}
	case "return":
		m := d.fields(n, "kind", "value")
		return &llr.ReturnStatement{Value: d.expr(m["value"], s)}
	case "layout-cache":
		m := d.fields(n, "kind", "ref", "index", "repeater-index")
		return &llr.LayoutCacheAccess{
			LayoutCacheProp: d.ref(d.require(n, m, "ref"), s),
			Index:           d.integer(d.require(n, m, "index")),
			RepeaterIndex:   d.expr(m["repeater-index"], s),
		}
	case "box-layout":
		return d.boxLayout(n, s)
	case "dialog-layout":
		m := d.fields(n, "kind", "cells-variable", "roles", "cells")
		return &llr.ComputeDialogLayoutCells{
			CellsVariable: d.str(d.require(n, m, "cells-variable")),
			Roles:         d.required(n, m, "roles", s),
			UnsortedCells: d.required(n, m, "cells", s),
		}
	case "translation":
		m := d.fields(n, "kind", "string", "args", "plural")
		return &llr.TranslationReference{
			StringIndex: d.integer(d.require(n, m, "string")),
			FormatArgs:  d.required(n, m, "args", s),
			Plural:      d.expr(m["plural"], s),
		}
	}
	d.fail(n, "unknown expression kind %q", kind)
	return nil
}

func (d *decoder) builtinCall(n *yaml.Node, s scope) llr.Expression {
	m := d.fields(n, "kind", "function", "args", "member", "orientation")
	name := d.str(d.require(n, m, "function"))
	k, ok := llr.BuiltinKindFromName(name)
	if !ok {
		d.fail(m["function"], "unknown builtin function %q", name)
	}
	f := llr.BuiltinFunction{Kind: k, Member: d.optString(m, "member"), Orientation: d.orientation(m)}
	return &llr.BuiltinFunctionCall{Function: f, Arguments: d.exprs(m["args"], s)}
}

func (d *decoder) orientation(m map[string]*yaml.Node) llr.Orientation {
	switch o := d.optString(m, "orientation"); o {
	case "", "horizontal":
		return llr.Horizontal
	case "vertical":
		return llr.Vertical
	default:
		d.fail(m["orientation"], "unknown orientation %q", o)
	}
	return llr.Horizontal
}

func (d *decoder) image(n *yaml.Node) llr.Expression {
	m := d.fields(n, "kind", "source", "path", "resource", "extension")
	src := d.optString(m, "source")
	if src == "" {
		switch {
		case m["path"] != nil:
			src = "path"
		case m["resource"] != nil:
			src = "embedded"
		default:
			src = "none"
		}
	}
	k, ok := imageKinds[src]
	if !ok {
		d.fail(n, "unknown image source %q", src)
	}
	return &llr.ImageReference{
		Kind:       k,
		Path:       d.optString(m, "path"),
		ResourceID: d.optInt(m, "resource", 0),
		Extension:  d.optString(m, "extension"),
	}
}

func (d *decoder) structLiteral(n *yaml.Node, s scope) llr.Expression {
	m := d.fields(n, "kind", "type", "values")
	t := d.typ(d.require(n, m, "type"))
	if t.Kind != langtype.KindStruct {
		d.fail(m["type"], "%s is not a struct type", t)
	}
	values := map[string]llr.Expression{}
	if v := m["values"]; v != nil {
		if v.Kind != yaml.MappingNode {
			d.fail(v, "expected a mapping of field values")
		}
		for i := 0; i+1 < len(v.Content); i += 2 {
			name := v.Content[i].Value
			if t.FieldType(name) == nil {
				d.fail(v.Content[i], "%s has no field %s", t, name)
			}
			values[name] = d.expr(v.Content[i+1], s)
		}
	}
	return &llr.Struct{Type: t, Values: values}
}

func (d *decoder) easing(n *yaml.Node) llr.Expression {
	m := d.fields(n, "kind", "curve", "points")
	curve := llr.EasingCurve{}
	if name := d.optString(m, "curve"); name != "" {
		k, ok := llr.EasingKindFromName(name)
		if !ok {
			d.fail(m["curve"], "unknown easing curve %q", name)
		}
		curve.Kind = k
	}
	if p := d.seq(m["points"]); p != nil {
		if len(p) != 4 {
			d.fail(m["points"], "cubic-bezier needs 4 control values")
		}
		curve.X1, curve.Y1, curve.X2, curve.Y2 = d.float(p[0]), d.float(p[1]), d.float(p[2]), d.float(p[3])
	}
	return &llr.EasingCurveExpr{Curve: curve}
}

// stops decodes gradient stops given as [color, position] pairs
func (d *decoder) stops(n *yaml.Node, s scope) []llr.GradientStop {
	var out []llr.GradientStop
	for _, st := range d.seq(n) {
		pair := d.seq(st)
		if len(pair) != 2 {
			d.fail(st, "a gradient stop is a [color, position] pair")
		}
		out = append(out, llr.GradientStop{Color: d.expr(pair[0], s), Position: d.expr(pair[1], s)})
	}
	return out
}

func (d *decoder) boxLayout(n *yaml.Node, s scope) llr.Expression {
	m := d.fields(n, "kind", "cells-variable", "repeater-indices", "orientation", "elements", "body")
	e := &llr.BoxLayoutFunction{
		CellsVariable:   d.str(d.require(n, m, "cells-variable")),
		RepeaterIndices: d.optString(m, "repeater-indices"),
		Orientation:     d.orientation(m),
		SubExpression:   d.required(n, m, "body", s),
	}
	for _, el := range d.seq(m["elements"]) {
		if el.Kind == yaml.MappingNode && len(el.Content) == 2 && el.Content[0].Value == "repeater" {
			r := d.integer(el.Content[1])
			if s.sc == nil || r < 0 || r >= len(s.sc.Repeated) {
				d.fail(el, "no repeater %d here", r)
			}
			e.Elements = append(e.Elements, llr.LayoutElement{Repeater: r})
			continue
		}
		cell := d.expr(el, s)
		if cell == nil {
			d.fail(el, "null layout cell")
		}
		e.Elements = append(e.Elements, llr.LayoutElement{Cell: cell})
	}
	return e
}

func (d *decoder) enumValue(n *yaml.Node, m map[string]*yaml.Node) langtype.EnumerationValue {
	name := d.str(d.require(n, m, "type"))
	e := d.lookupEnum(name)
	if e == nil {
		d.fail(m["type"], "unknown enum %q", name)
	}
	v := d.str(d.require(n, m, "value"))
	i := e.IndexOf(v)
	if i < 0 {
		d.fail(m["value"], "%q is not a value of %s", v, name)
	}
	return langtype.EnumerationValue{Value: i, Enumeration: e}
}

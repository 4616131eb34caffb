package llrdoc

import (
	"strings"

	"gopkg.in/yaml.v3"

	"slintc-go/packages/compiler/src/langtype"
)

var builtinStructs = map[string]*langtype.Type{
	"LayoutInfo":         langtype.LayoutInfoStruct,
	"Padding":            langtype.PaddingStruct,
	"BoxLayoutCellData":  langtype.BoxLayoutCellDataStruct,
	"BoxLayoutData":      langtype.BoxLayoutDataStruct,
	"GridLayoutCellData": langtype.GridLayoutCellDataStruct,
	"PropertyAnimation":  langtype.PropertyAnimationStruct,
	"StateInfo":          langtype.StateInfoStruct,
	"Point":              langtype.PointStruct,
	"Size":               langtype.SizeStruct,
}

var builtinEnums = map[string]*langtype.Enumeration{
	"LayoutAlignment":  langtype.LayoutAlignmentEnum,
	"Orientation":      langtype.OrientationEnum,
	"DialogButtonRole": langtype.DialogButtonRoleEnum,
	"AccessibleRole":   langtype.AccessibleRoleEnum,
}

func (d *decoder) declareStruct(n *yaml.Node) {
	m := d.fields(n, "name", "fields")
	name := d.str(d.require(n, m, "name"))
	if d.lookupType(name) != nil {
		d.fail(n, "type %s is already declared", name)
	}
	t := langtype.NewStruct(name, d.structFields(d.require(n, m, "fields")))
	d.structs[name] = t
	d.unit.UsedStructs = append(d.unit.UsedStructs, t)
}

func (d *decoder) structFields(n *yaml.Node) []langtype.Field {
	if n.Kind != yaml.MappingNode {
		d.fail(n, "expected a mapping of field types")
	}
	var fields []langtype.Field
	for i := 0; i+1 < len(n.Content); i += 2 {
		fields = append(fields, langtype.Field{Name: n.Content[i].Value, Type: d.typ(n.Content[i+1])})
	}
	return fields
}

func (d *decoder) declareEnum(n *yaml.Node) {
	m := d.fields(n, "name", "values", "default")
	name := d.str(d.require(n, m, "name"))
	if d.lookupType(name) != nil {
		d.fail(n, "type %s is already declared", name)
	}
	e := langtype.NewEnumeration(name, d.strings(d.require(n, m, "values"))...)
	if len(e.Values) == 0 {
		d.fail(n, "enum %s has no values", name)
	}
	if v, ok := m["default"]; ok {
		e.DefaultValue = e.IndexOf(d.str(v))
		if e.DefaultValue < 0 {
			d.fail(v, "%q is not a value of %s", v.Value, name)
		}
	}
	d.enums[name] = e
	d.unit.UsedEnums = append(d.unit.UsedEnums, e)
}

// lookupType returns the named struct or enum type, or nil
func (d *decoder) lookupType(name string) *langtype.Type {
	if t, ok := d.structs[name]; ok {
		return t
	}
	if t, ok := builtinStructs[name]; ok {
		return t
	}
	if e := d.lookupEnum(name); e != nil {
		return langtype.NewEnumerationType(e)
	}
	return nil
}

func (d *decoder) lookupEnum(name string) *langtype.Enumeration {
	if e, ok := d.enums[name]; ok {
		return e
	}
	return builtinEnums[name]
}

// typ decodes a type. Scalars name a primitive, a declared type or an array as "[T]".
// Mappings describe callbacks, functions and anonymous structs.
func (d *decoder) typ(n *yaml.Node) *langtype.Type {
	switch n.Kind {
	case yaml.ScalarNode:
		return d.namedType(n, strings.TrimSpace(n.Value))
	case yaml.MappingNode:
		m := d.fields(n, "callback", "function", "return", "struct")
		if s, ok := m["struct"]; ok {
			return langtype.NewStruct("", d.structFields(s))
		}
		var ret *langtype.Type
		if r, ok := m["return"]; ok {
			ret = d.typ(r)
		}
		if c, ok := m["callback"]; ok {
			return langtype.NewCallback(ret, d.types(c)...)
		}
		if f, ok := m["function"]; ok {
			return langtype.NewFunction(ret, d.types(f)...)
		}
	}
	d.fail(n, "invalid type")
	return nil
}

func (d *decoder) types(n *yaml.Node) []*langtype.Type {
	var out []*langtype.Type
	for _, t := range d.seq(n) {
		out = append(out, d.typ(t))
	}
	return out
}

func (d *decoder) namedType(n *yaml.Node, name string) *langtype.Type {
	if strings.HasPrefix(name, "[") && strings.HasSuffix(name, "]") {
		return langtype.NewArray(d.namedType(n, strings.TrimSpace(name[1:len(name)-1])))
	}
	if t := d.lookupType(name); t != nil {
		return t
	}
	if k, ok := langtype.KindFromName(name); ok {
		switch k {
		case langtype.KindInvalid, langtype.KindArray, langtype.KindStruct, langtype.KindEnumeration,
			langtype.KindCallback, langtype.KindFunction, langtype.KindUnitProduct:
		default:
			return langtype.Primitive(k)
		}
	}
	d.fail(n, "unknown type %q", name)
	return nil
}

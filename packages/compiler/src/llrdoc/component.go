package llrdoc

import (
	"gopkg.in/yaml.v3"

	"slintc-go/packages/compiler/src/langtype"
	"slintc-go/packages/compiler/src/llr"
)

var componentKeys = []string{
	"name", "properties", "functions", "items", "sub-components", "repeated", "popups", "menus",
	"timers", "bindings", "two-way", "change-callbacks", "const", "init-code", "layout-info-h",
	"layout-info-v", "accessible", "geometries", "element-infos", "tree",
}

// property decodes {name, type, use-count}. Properties are used unless use-count says otherwise.
func (d *decoder) property(n *yaml.Node, extra ...string) (llr.Property, map[string]*yaml.Node) {
	m := d.fields(n, append([]string{"name", "type", "use-count"}, extra...)...)
	return llr.Property{
		Name:     d.str(d.require(n, m, "name")),
		Type:     d.typ(d.require(n, m, "type")),
		UseCount: d.optInt(m, "use-count", 1),
	}, m
}

// function decodes the signature of a function. The code is decoded later, once every
// member of the enclosing scope is known.
func (d *decoder) function(n *yaml.Node) llr.Function {
	m := d.fields(n, "name", "args", "return", "code")
	f := llr.Function{Name: d.str(d.require(n, m, "name")), Args: d.types(m["args"]), ReturnType: langtype.Void}
	if r, ok := m["return"]; ok {
		f.ReturnType = d.typ(r)
	}
	return f
}

func (d *decoder) functionCode(n *yaml.Node, s scope) llr.Expression {
	m := d.fields(n, "name", "args", "return", "code")
	code := d.expr(m["code"], s)
	if code == nil {
		code = &llr.CodeBlock{}
	}
	return code
}

func (d *decoder) declareGlobal(n *yaml.Node) {
	m := d.fields(n, "name", "aliases", "exported", "builtin", "properties", "functions",
		"change-callbacks", "init-code", "public")
	g := &llr.GlobalComponent{
		Name:      d.str(d.require(n, m, "name")),
		Aliases:   d.strings(m["aliases"]),
		Exported:  d.optBool(m, "exported"),
		IsBuiltin: d.optBool(m, "builtin"),
	}
	if i, _ := d.lookupGlobal(g.Name); i >= 0 {
		d.fail(n, "global %s is already declared", g.Name)
	}
	for _, p := range d.seq(m["properties"]) {
		prop, _ := d.property(p, "init", "const")
		g.Properties = append(g.Properties, prop)
	}
	for _, f := range d.seq(m["functions"]) {
		g.Functions = append(g.Functions, d.function(f))
	}
	d.unit.Globals = append(d.unit.Globals, g)
}

func (d *decoder) defineGlobal(n *yaml.Node, index int) {
	g := d.unit.Globals[index]
	s := scope{global: g}
	m := d.fields(n, "name", "aliases", "exported", "builtin", "properties", "functions",
		"change-callbacks", "init-code", "public")
	props := d.seq(m["properties"])
	g.InitValues = make([]*llr.BindingExpression, len(props))
	g.ConstProperties = make([]bool, len(props))
	for i, p := range props {
		_, pm := d.property(p, "init", "const")
		if init := d.expr(pm["init"], s); init != nil {
			g.InitValues[i] = &llr.BindingExpression{Expression: init, UseCount: 1}
		}
		g.ConstProperties[i] = d.optBool(pm, "const")
	}
	for i, f := range d.seq(m["functions"]) {
		g.Functions[i].Code = d.functionCode(f, s)
	}
	g.ChangeCallbacks = d.changeCallbacks(m["change-callbacks"], s)
	g.InitCode = d.exprs(m["init-code"], s)
	for _, p := range d.seq(m["public"]) {
		g.PublicProperties = append(g.PublicProperties, d.publicProperty(p, s))
	}
}

func (d *decoder) component(n *yaml.Node) {
	m := d.fields(n, componentKeys...)
	sc := &llr.SubComponent{Name: d.str(d.require(n, m, "name"))}
	if _, dup := d.components[sc.Name]; dup {
		d.fail(n, "component %s is already declared", sc.Name)
	}
	s := scope{sc: sc}

	for _, p := range d.seq(m["properties"]) {
		prop, _ := d.property(p)
		sc.Properties = append(sc.Properties, prop)
	}
	for _, f := range d.seq(m["functions"]) {
		sc.Functions = append(sc.Functions, d.function(f))
	}
	for _, it := range d.seq(m["items"]) {
		sc.Items = append(sc.Items, d.item(it))
	}
	for _, sub := range d.seq(m["sub-components"]) {
		sc.SubComponents = append(sc.SubComponents, d.subComponent(sub))
	}
	repeated := d.seq(m["repeated"])
	for _, r := range repeated {
		sc.Repeated = append(sc.Repeated, d.repeatedShell(r, sc))
	}
	offset := len(sc.Repeated)
	for i := range sc.SubComponents {
		sc.SubComponents[i].RepeaterOffset = offset
		offset += sc.SubComponents[i].Type.RepeaterCount()
	}
	for _, p := range d.seq(m["popups"]) {
		sc.PopupWindows = append(sc.PopupWindows, llr.PopupWindow{Item: d.childTree(p, sc)})
	}
	for _, p := range d.seq(m["menus"]) {
		sc.MenuItemTrees = append(sc.MenuItemTrees, d.childTree(p, sc))
	}

	for i, f := range d.seq(m["functions"]) {
		sc.Functions[i].Code = d.functionCode(f, s)
	}
	for i, r := range repeated {
		d.repeatedModel(r, &sc.Repeated[i], s)
	}
	for _, t := range d.seq(m["timers"]) {
		tm := d.fields(t, "interval", "running", "triggered")
		running := d.expr(tm["running"], s)
		if running == nil {
			running = &llr.BoolLiteral{Value: true}
		}
		sc.Timers = append(sc.Timers, llr.Timer{
			Interval:  d.required(t, tm, "interval", s),
			Running:   running,
			Triggered: d.required(t, tm, "triggered", s),
		})
	}
	for _, b := range d.seq(m["bindings"]) {
		sc.PropertyInit = append(sc.PropertyInit, d.propertyInit(b, s))
	}
	for _, tw := range d.seq(m["two-way"]) {
		pair := d.seq(tw)
		if len(pair) != 2 {
			d.fail(tw, "a two-way binding links exactly two properties")
		}
		sc.TwoWayBindings = append(sc.TwoWayBindings, llr.TwoWayBinding{A: d.ref(pair[0], s), B: d.ref(pair[1], s)})
	}
	sc.ChangeCallbacks = d.changeCallbacks(m["change-callbacks"], s)
	for _, c := range d.seq(m["const"]) {
		sc.ConstProperties = append(sc.ConstProperties, d.ref(c, s))
	}
	sc.InitCode = d.exprs(m["init-code"], s)
	sc.LayoutInfoH = d.expr(m["layout-info-h"], s)
	sc.LayoutInfoV = d.expr(m["layout-info-v"], s)
	for _, a := range d.seq(m["accessible"]) {
		am := d.fields(a, "item", "what", "value")
		if sc.AccessibleProps == nil {
			sc.AccessibleProps = map[llr.AccessibleKey]llr.Expression{}
		}
		key := llr.AccessibleKey{ItemIndex: d.itemIn(sc, d.require(a, am, "item")), What: d.str(d.require(a, am, "what"))}
		sc.AccessibleProps[key] = d.required(a, am, "value", s)
	}
	if g := m["geometries"]; g != nil {
		for _, e := range d.seq(g) {
			sc.Geometries = append(sc.Geometries, d.expr(e, s))
		}
	}
	if infos := m["element-infos"]; infos != nil {
		if infos.Kind != yaml.MappingNode {
			d.fail(infos, "expected a mapping from item index to element info")
		}
		sc.ElementInfos = map[int]string{}
		for i := 0; i+1 < len(infos.Content); i += 2 {
			sc.ElementInfos[d.itemIn(sc, infos.Content[i])] = d.str(infos.Content[i+1])
		}
	}
	d.trees[sc] = d.tree(m["tree"], sc)
	d.components[sc.Name] = sc
	d.order = append(d.order, sc)
}

func (d *decoder) item(n *yaml.Node) llr.Item {
	m := d.fields(n, "name", "class", "properties", "index-in-tree", "flickable-viewport")
	name := d.str(d.require(n, m, "class"))
	class, ok := langtype.LookupNativeClass(name)
	if props := m["properties"]; props != nil {
		if props.Kind != yaml.MappingNode {
			d.fail(props, "expected a mapping of property types")
		}
		types := map[string]*langtype.Type{}
		for i := 0; i+1 < len(props.Content); i += 2 {
			types[props.Content[i].Value] = d.typ(props.Content[i+1])
		}
		class, ok = langtype.NewNativeClass(name, types), true
	}
	if !ok {
		d.fail(m["class"], "unknown item class %q", name)
	}
	return llr.Item{
		Class:               class,
		Name:                d.optString(m, "name"),
		IndexInTree:         d.optInt(m, "index-in-tree", 0),
		IsFlickableViewport: d.optBool(m, "flickable-viewport"),
	}
}

func (d *decoder) subComponent(n *yaml.Node) llr.SubComponentInstance {
	m := d.fields(n, "name", "type", "index-in-tree", "first-child-in-tree")
	sc := d.lookupComponent(d.require(n, m, "type"))
	d.embedded[sc] = true
	return llr.SubComponentInstance{
		Type:                    sc,
		Name:                    d.str(d.require(n, m, "name")),
		IndexInTree:             d.optInt(m, "index-in-tree", 0),
		IndexOfFirstChildInTree: d.optInt(m, "first-child-in-tree", 0),
	}
}

func (d *decoder) lookupComponent(n *yaml.Node) *llr.SubComponent {
	name := d.str(n)
	sc, ok := d.components[name]
	if !ok {
		d.fail(n, "component %q is not declared before its use", name)
	}
	return sc
}

// childTree decodes the item tree of a popup or repeated element: a component name or {component: name}
func (d *decoder) childTree(n *yaml.Node, parent *llr.SubComponent) llr.ItemTree {
	if n.Kind == yaml.MappingNode {
		m := d.fields(n, "component")
		n = d.require(n, m, "component")
	}
	root := d.lookupComponent(n)
	d.parents[root] = append(d.parents[root], parent)
	return llr.ItemTree{Root: root, Tree: d.trees[root], ParentContext: parent.Name}
}

var repeatedKeys = []string{"component", "model", "index-prop", "data-prop", "index-in-tree", "list-view"}

func (d *decoder) repeatedShell(n *yaml.Node, parent *llr.SubComponent) llr.RepeatedElement {
	m := d.fields(n, repeatedKeys...)
	r := llr.RepeatedElement{
		SubTree:     d.childTree(d.require(n, m, "component"), parent),
		IndexInTree: d.optInt(m, "index-in-tree", 0),
	}
	r.IndexProp = d.rowProperty(m["index-prop"], r.SubTree.Root)
	r.DataProp = d.rowProperty(m["data-prop"], r.SubTree.Root)
	return r
}

// rowProperty resolves the index or data property of a row, by name or index
func (d *decoder) rowProperty(n *yaml.Node, row *llr.SubComponent) *int {
	if n == nil || isNull(n) {
		return nil
	}
	var i int
	if n.ShortTag() == "!!int" {
		i = d.integer(n)
	} else {
		i = propertyIndex(row.Properties, d.str(n))
	}
	if i < 0 || i >= len(row.Properties) {
		d.fail(n, "%s has no property %s", row.Name, n.Value)
	}
	return &i
}

func (d *decoder) repeatedModel(n *yaml.Node, r *llr.RepeatedElement, s scope) {
	m := d.fields(n, repeatedKeys...)
	r.Model = d.required(n, m, "model", s)
	if lv := m["list-view"]; lv != nil {
		lm := d.fields(lv, "viewport-y", "viewport-height", "viewport-width", "listview-height",
			"listview-width", "prop-y", "prop-width", "prop-height")
		row := scope{sc: r.SubTree.Root}
		r.ListView = &llr.ListViewInfo{
			ViewportY:      d.ref(d.require(lv, lm, "viewport-y"), s),
			ViewportHeight: d.ref(d.require(lv, lm, "viewport-height"), s),
			ViewportWidth:  d.ref(d.require(lv, lm, "viewport-width"), s),
			ListViewHeight: d.ref(d.require(lv, lm, "listview-height"), s),
			ListViewWidth:  d.ref(d.require(lv, lm, "listview-width"), s),
			PropY:          d.ref(d.require(lv, lm, "prop-y"), row),
			PropWidth:      d.ref(d.require(lv, lm, "prop-width"), row),
			PropHeight:     d.ref(d.require(lv, lm, "prop-height"), row),
		}
	}
}

func (d *decoder) propertyInit(n *yaml.Node, s scope) llr.PropertyInit {
	m := d.fields(n, "ref", "value", "constant", "animation", "state-info", "use-count")
	b := &llr.BindingExpression{
		Expression:  d.required(n, m, "value", s),
		IsConstant:  d.optBool(m, "constant"),
		IsStateInfo: d.optBool(m, "state-info"),
		UseCount:    d.optInt(m, "use-count", 1),
	}
	if a := m["animation"]; a != nil {
		am := d.fields(a, "transition", "value")
		b.Animation = &llr.Animation{Kind: llr.AnimationStatic, Expression: d.required(a, am, "value", s)}
		if d.optBool(am, "transition") {
			b.Animation.Kind = llr.AnimationTransition
		}
	}
	return llr.PropertyInit{Ref: d.ref(d.require(n, m, "ref"), s), Binding: b}
}

func (d *decoder) changeCallbacks(n *yaml.Node, s scope) []llr.ChangeCallback {
	var out []llr.ChangeCallback
	for _, c := range d.seq(n) {
		m := d.fields(c, "property", "code")
		out = append(out, llr.ChangeCallback{Property: d.ref(d.require(c, m, "property"), s), Code: d.required(c, m, "code", s)})
	}
	return out
}

// itemIn resolves an item of sc by name or index
func (d *decoder) itemIn(sc *llr.SubComponent, n *yaml.Node) int {
	var i int
	if n.ShortTag() == "!!int" {
		i = d.integer(n)
	} else {
		i = itemIndex(sc, d.str(n))
	}
	if i < 0 || i >= len(sc.Items) {
		d.fail(n, "%s has no item %s", sc.Name, n.Value)
	}
	return i
}

// tree decodes {item, path, repeated, accessible, children}. Without a tree the component
// is a single node.
func (d *decoder) tree(n *yaml.Node, sc *llr.SubComponent) *llr.TreeNode {
	if n == nil || isNull(n) {
		return &llr.TreeNode{}
	}
	m := d.fields(n, "item", "path", "repeated", "accessible", "children")
	node := &llr.TreeNode{Repeated: d.optBool(m, "repeated"), IsAccessible: d.optBool(m, "accessible")}
	owner := sc
	for _, p := range d.seq(m["path"]) {
		i := d.integer(p)
		if i < 0 || i >= len(owner.SubComponents) {
			d.fail(p, "%s has no sub-component %d", owner.Name, i)
		}
		node.SubComponentPath = append(node.SubComponentPath, i)
		owner = owner.SubComponents[i].Type
	}
	if it := m["item"]; it != nil {
		if node.Repeated {
			node.ItemIndex = d.integer(it)
			if node.ItemIndex < 0 || node.ItemIndex >= len(owner.Repeated) {
				d.fail(it, "%s has no repeater %d", owner.Name, node.ItemIndex)
			}
		} else {
			node.ItemIndex = d.itemIn(owner, it)
		}
	}
	for _, c := range d.seq(m["children"]) {
		node.Children = append(node.Children, d.tree(c, sc))
	}
	return node
}

func (d *decoder) publicComponent(n *yaml.Node) {
	m := d.fields(n, "name", "component", "properties", "private")
	root := d.lookupComponent(d.require(n, m, "component"))
	pc := &llr.PublicComponent{
		Name: d.optString(m, "name"),
		Item: llr.ItemTree{Root: root, Tree: d.trees[root]},
	}
	if pc.Name == "" {
		pc.Name = root.Name
	}
	s := scope{sc: root}
	for _, p := range d.seq(m["properties"]) {
		pc.PublicProperties = append(pc.PublicProperties, d.publicProperty(p, s))
	}
	for _, p := range d.seq(m["private"]) {
		pm := d.fields(p, "name", "type")
		pc.PrivateProperties = append(pc.PrivateProperties, llr.PrivateProperty{
			Name: d.str(d.require(p, pm, "name")),
			Type: d.typ(d.require(p, pm, "type")),
		})
	}
	d.unit.PublicComponents = append(d.unit.PublicComponents, pc)
}

// publicProperty decodes a name, or {name, ref, type, read-only}. The type defaults to the
// type of the referenced member.
func (d *decoder) publicProperty(n *yaml.Node, s scope) llr.PublicProperty {
	if n.Kind == yaml.ScalarNode {
		ref := d.resolveName(n, s, n.Value)
		return llr.PublicProperty{Name: n.Value, Type: d.refType(n, s, ref), Ref: ref}
	}
	m := d.fields(n, "name", "ref", "type", "read-only")
	name := d.str(d.require(n, m, "name"))
	refNode := m["ref"]
	if refNode == nil {
		refNode = m["name"]
	}
	p := llr.PublicProperty{Name: name, Ref: d.ref(refNode, s), ReadOnly: d.optBool(m, "read-only")}
	if t := m["type"]; t != nil {
		p.Type = d.typ(t)
	} else {
		p.Type = d.refType(n, s, p.Ref)
	}
	return p
}

// refType returns the type of the member ref points to
func (d *decoder) refType(n *yaml.Node, s scope, ref llr.PropertyReference) *langtype.Type {
	switch r := ref.(type) {
	case *llr.LocalRef:
		if s.global != nil {
			return s.global.Properties[r.PropertyIndex].Type
		}
		sc := d.follow(n, s.sc, r.SubComponentPath)
		if r.PropertyIndex < 0 || r.PropertyIndex >= len(sc.Properties) {
			d.fail(n, "%s has no property %d", sc.Name, r.PropertyIndex)
		}
		return sc.Properties[r.PropertyIndex].Type
	case *llr.FunctionRef:
		fns := d.functionsOf(n, s, r.SubComponentPath)
		if r.FunctionIndex < 0 || r.FunctionIndex >= len(fns) {
			d.fail(n, "no function %d", r.FunctionIndex)
		}
		return langtype.NewFunction(fns[r.FunctionIndex].ReturnType, fns[r.FunctionIndex].Args...)
	case *llr.InNativeItemRef:
		sc := d.follow(n, s.sc, r.SubComponentPath)
		if r.PropName == "" {
			return langtype.ElementReference
		}
		if t := sc.Items[r.ItemIndex].Class.LookupProperty(r.PropName); t != nil {
			return t
		}
	case *llr.GlobalRef:
		return d.unit.Globals[r.GlobalIndex].Properties[r.PropertyIndex].Type
	case *llr.GlobalFunctionRef:
		f := d.unit.Globals[r.GlobalIndex].Functions[r.FunctionIndex]
		return langtype.NewFunction(f.ReturnType, f.Args...)
	}
	d.fail(n, "cannot determine the type of %s", ref)
	return nil
}

func (d *decoder) functionsOf(n *yaml.Node, s scope, path []int) []llr.Function {
	if s.global != nil {
		return s.global.Functions
	}
	return d.follow(n, s.sc, path).Functions
}

func (d *decoder) follow(n *yaml.Node, sc *llr.SubComponent, path []int) *llr.SubComponent {
	if sc == nil {
		d.fail(n, "reference outside of a component")
	}
	for _, i := range path {
		if i < 0 || i >= len(sc.SubComponents) {
			d.fail(n, "%s has no sub-component %d", sc.Name, i)
		}
		sc = sc.SubComponents[i].Type
	}
	return sc
}

package llrdoc

import (
	"strings"

	"gopkg.in/yaml.v3"

	"slintc-go/packages/compiler/src/llr"
)

// scope is what names are resolved against: a sub-component or a global
type scope struct {
	sc     *llr.SubComponent
	global *llr.GlobalComponent
}

// ref decodes a property reference
func (d *decoder) ref(n *yaml.Node, s scope) llr.PropertyReference {
	if n.Kind == yaml.ScalarNode {
		return d.resolveName(n, s, n.Value)
	}
	m := d.fields(n, "local", "function", "item", "prop", "path", "global", "property", "parent", "ref")
	var path []int
	for _, p := range d.seq(m["path"]) {
		path = append(path, d.integer(p))
	}
	switch {
	case m["parent"] != nil:
		level := d.integer(m["parent"])
		if level <= 0 {
			d.fail(m["parent"], "parent level must be positive")
		}
		inner := d.require(n, m, "ref")
		if inner.Kind == yaml.ScalarNode {
			if s.sc == nil {
				d.fail(inner, "parent references are only valid in components")
			}
			ref := &llr.InParentRef{Level: level}
			d.pending = append(d.pending, pendingParent{ref: ref, from: s.sc, name: inner.Value, node: inner})
			return ref
		}
		return llr.NewInParent(level, d.ref(inner, scope{}))
	case m["global"] != nil:
		g := d.integer(m["global"])
		if f, ok := m["function"]; ok {
			return &llr.GlobalFunctionRef{GlobalIndex: g, FunctionIndex: d.integer(f)}
		}
		return &llr.GlobalRef{GlobalIndex: g, PropertyIndex: d.integer(d.require(n, m, "property"))}
	case m["local"] != nil:
		return &llr.LocalRef{SubComponentPath: path, PropertyIndex: d.integer(m["local"])}
	case m["function"] != nil:
		return &llr.FunctionRef{SubComponentPath: path, FunctionIndex: d.integer(m["function"])}
	case m["item"] != nil:
		return &llr.InNativeItemRef{SubComponentPath: path, ItemIndex: d.integer(m["item"]), PropName: d.optString(m, "prop")}
	}
	d.fail(n, "invalid property reference")
	return nil
}

// resolveName resolves a dotted name: sub-component names lead to nested components, an
// item name alone denotes the item and a global name followed by a member denotes the
// member of the global.
func (d *decoder) resolveName(n *yaml.Node, s scope, name string) llr.PropertyReference {
	segments := strings.Split(name, ".")
	if s.global != nil {
		if len(segments) == 1 {
			if i := propertyIndex(s.global.Properties, name); i >= 0 {
				return &llr.LocalRef{PropertyIndex: i}
			}
			if i := functionIndex(s.global.Functions, name); i >= 0 {
				return &llr.FunctionRef{FunctionIndex: i}
			}
		}
		return d.globalMember(n, segments)
	}
	if s.sc == nil {
		d.fail(n, "cannot resolve %q here", name)
	}
	sc := s.sc
	var path []int
	for len(segments) > 1 {
		if i := subComponentIndex(sc, segments[0]); i >= 0 {
			path = append(path, i)
			sc = sc.SubComponents[i].Type
			segments = segments[1:]
			continue
		}
		if i := itemIndex(sc, segments[0]); i >= 0 && len(segments) == 2 {
			if sc.Items[i].Class.LookupProperty(segments[1]) == nil {
				d.fail(n, "item %s of %s has no property %s", segments[0], sc.Name, segments[1])
			}
			return &llr.InNativeItemRef{SubComponentPath: path, ItemIndex: i, PropName: segments[1]}
		}
		if len(path) == 0 {
			return d.globalMember(n, segments)
		}
		d.fail(n, "cannot resolve %q in %s", name, sc.Name)
	}
	if i := propertyIndex(sc.Properties, segments[0]); i >= 0 {
		return &llr.LocalRef{SubComponentPath: path, PropertyIndex: i}
	}
	if i := functionIndex(sc.Functions, segments[0]); i >= 0 {
		return &llr.FunctionRef{SubComponentPath: path, FunctionIndex: i}
	}
	if i := itemIndex(sc, segments[0]); i >= 0 {
		return &llr.InNativeItemRef{SubComponentPath: path, ItemIndex: i}
	}
	d.fail(n, "%s has no property, function or item named %q", sc.Name, segments[0])
	return nil
}

func (d *decoder) globalMember(n *yaml.Node, segments []string) llr.PropertyReference {
	if len(segments) == 2 {
		if gi, g := d.lookupGlobal(segments[0]); g != nil {
			if i := propertyIndex(g.Properties, segments[1]); i >= 0 {
				return &llr.GlobalRef{GlobalIndex: gi, PropertyIndex: i}
			}
			if i := functionIndex(g.Functions, segments[1]); i >= 0 {
				return &llr.GlobalFunctionRef{GlobalIndex: gi, FunctionIndex: i}
			}
			d.fail(n, "global %s has no member %s", g.Name, segments[1])
		}
	}
	d.fail(n, "cannot resolve %q", strings.Join(segments, "."))
	return nil
}

func (d *decoder) lookupGlobal(name string) (int, *llr.GlobalComponent) {
	for i, g := range d.unit.Globals {
		if g.Name == name || contains(g.Aliases, name) {
			return i, g
		}
	}
	return -1, nil
}

// resolvePending resolves the named parent references against the component that
// declares the tree they appear in
func (d *decoder) resolvePending() {
	for _, p := range d.pending {
		sc := p.from
		for i := 0; i < p.ref.Level; i++ {
			parents := d.parents[sc]
			switch len(parents) {
			case 0:
				d.fail(p.node, "%s is not repeated or shown as a popup, %d parent levels up", sc.Name, i+1)
			case 1:
				sc = parents[0]
			default:
				d.fail(p.node, "%s has several parents, use an index reference", sc.Name)
			}
		}
		inner := d.resolveName(p.node, scope{sc: sc}, p.name)
		if _, ok := inner.(*llr.GlobalRef); ok {
			d.fail(p.node, "parent reference %q names a global", p.name)
		}
		if _, ok := inner.(*llr.GlobalFunctionRef); ok {
			d.fail(p.node, "parent reference %q names a global", p.name)
		}
		p.ref.Inner = inner
	}
	d.pending = nil
}

func propertyIndex(props []llr.Property, name string) int {
	for i, p := range props {
		if p.Name == name {
			return i
		}
	}
	return -1
}

func functionIndex(fns []llr.Function, name string) int {
	for i, f := range fns {
		if f.Name == name {
			return i
		}
	}
	return -1
}

func subComponentIndex(sc *llr.SubComponent, name string) int {
	for i, sub := range sc.SubComponents {
		if sub.Name == name {
			return i
		}
	}
	return -1
}

func itemIndex(sc *llr.SubComponent, name string) int {
	for i, it := range sc.Items {
		if it.Name == name {
			return i
		}
	}
	return -1
}

// Package llrdoc reads compilation units serialized as YAML documents.
//
// A document has the top level keys structs, enums, globals, components, public,
// translations, resources and debug-info. Components must be declared before they are
// embedded, repeated or shown as popups. Expressions are tagged mappings such as
//
//	{kind: binary, op: "+", lhs: {kind: ref, ref: count}, rhs: 1}
//
// where plain scalars stand for literals. References are either dotted names resolved in
// the enclosing component (count, inner.count, rect.width, Palette.size) or index forms
// ({local: 2, path: [0]}, {item: 1, prop: width}, {global: 0, property: 1},
// {parent: 1, ref: ...}).
package llrdoc

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"slintc-go/packages/compiler/src/langtype"
	"slintc-go/packages/compiler/src/llr"
)

// ErrEmptyDocument is returned for an input without any YAML document
var ErrEmptyDocument = errors.New("empty LLR document")

// Error is a decoding error located in the input
type Error struct {
	Line   int
	Column int
	Msg    string
}

func (e *Error) Error() string {
	if e.Line == 0 {
		return e.Msg
	}
	return fmt.Sprintf("line %d, column %d: %s", e.Line, e.Column, e.Msg)
}

// Load decodes one compilation unit
func Load(r io.Reader) (*llr.CompilationUnit, error) {
	var root yaml.Node
	if err := yaml.NewDecoder(r).Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyDocument
		}
		return nil, fmt.Errorf("failed to parse LLR document: %w", err)
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, ErrEmptyDocument
	}
	return decode(root.Content[0])
}

// LoadFile decodes the compilation unit stored at path
func LoadFile(path string) (*llr.CompilationUnit, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	unit, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return unit, nil
}

type decoder struct {
	unit       *llr.CompilationUnit
	structs    map[string]*langtype.Type
	enums      map[string]*langtype.Enumeration
	components map[string]*llr.SubComponent
	// order lists the components in declaration order
	order []*llr.SubComponent
	trees map[*llr.SubComponent]*llr.TreeNode
	// embedded marks the components used as the type of a sub-component instance
	embedded map[*llr.SubComponent]bool
	// parents maps the root of a repeated or popup tree to the component declaring it
	parents map[*llr.SubComponent][]*llr.SubComponent
	// pending parent references, resolved once every component is known
	pending []pendingParent
}

type pendingParent struct {
	ref  *llr.InParentRef
	from *llr.SubComponent
	name string
	node *yaml.Node
}

// docError is the panic value used to unwind decoding
type docError struct{ err *Error }

func decode(n *yaml.Node) (unit *llr.CompilationUnit, err error) {
	defer func() {
		if r := recover(); r != nil {
			de, ok := r.(docError)
			if !ok {
				panic(r)
			}
			unit, err = nil, de.err
		}
	}()
	d := &decoder{
		unit:       &llr.CompilationUnit{},
		structs:    map[string]*langtype.Type{},
		enums:      map[string]*langtype.Enumeration{},
		components: map[string]*llr.SubComponent{},
		trees:      map[*llr.SubComponent]*llr.TreeNode{},
		embedded:   map[*llr.SubComponent]bool{},
		parents:    map[*llr.SubComponent][]*llr.SubComponent{},
	}
	m := d.fields(n, "structs", "enums", "globals", "components", "public", "translations", "resources", "debug-info")
	for _, s := range d.seq(m["structs"]) {
		d.declareStruct(s)
	}
	for _, e := range d.seq(m["enums"]) {
		d.declareEnum(e)
	}
	globals := d.seq(m["globals"])
	for _, g := range globals {
		d.declareGlobal(g)
	}
	for i, g := range globals {
		d.defineGlobal(g, i)
	}
	for _, c := range d.seq(m["components"]) {
		d.component(c)
	}
	d.resolvePending()
	for _, sc := range d.order {
		if d.embedded[sc] {
			d.unit.SubComponents = append(d.unit.SubComponents, sc)
		}
	}
	for _, p := range d.seq(m["public"]) {
		d.publicComponent(p)
	}
	if t := m["translations"]; t != nil {
		d.unit.Translations = d.translations(t)
	}
	for _, r := range d.seq(m["resources"]) {
		d.unit.Resources = append(d.unit.Resources, d.resource(r))
	}
	if v := m["debug-info"]; v != nil {
		d.unit.HasDebugInfo = d.boolean(v)
	}
	return d.unit, nil
}

func (d *decoder) fail(n *yaml.Node, format string, args ...any) {
	e := &Error{Msg: fmt.Sprintf(format, args...)}
	if n != nil {
		e.Line, e.Column = n.Line, n.Column
	}
	panic(docError{e})
}

// fields returns the entries of a mapping, rejecting keys that are not allowed
func (d *decoder) fields(n *yaml.Node, allowed ...string) map[string]*yaml.Node {
	if n.Kind != yaml.MappingNode {
		d.fail(n, "expected a mapping")
	}
	m := make(map[string]*yaml.Node, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := n.Content[i]
		if !contains(allowed, key.Value) {
			d.fail(key, "unknown key %q", key.Value)
		}
		if _, dup := m[key.Value]; dup {
			d.fail(key, "duplicate key %q", key.Value)
		}
		m[key.Value] = n.Content[i+1]
	}
	return m
}

func (d *decoder) require(parent *yaml.Node, m map[string]*yaml.Node, key string) *yaml.Node {
	v, ok := m[key]
	if !ok || isNull(v) {
		d.fail(parent, "missing %q", key)
	}
	return v
}

func (d *decoder) seq(n *yaml.Node) []*yaml.Node {
	if n == nil || isNull(n) {
		return nil
	}
	if n.Kind != yaml.SequenceNode {
		d.fail(n, "expected a sequence")
	}
	return n.Content
}

func (d *decoder) str(n *yaml.Node) string {
	if n.Kind != yaml.ScalarNode {
		d.fail(n, "expected a scalar")
	}
	return n.Value
}

func (d *decoder) integer(n *yaml.Node) int {
	var v int
	if n.Kind != yaml.ScalarNode || n.Decode(&v) != nil {
		d.fail(n, "expected an integer, got %q", n.Value)
	}
	return v
}

func (d *decoder) float(n *yaml.Node) float64 {
	var v float64
	if n.Kind != yaml.ScalarNode || n.Decode(&v) != nil {
		d.fail(n, "expected a number, got %q", n.Value)
	}
	return v
}

func (d *decoder) boolean(n *yaml.Node) bool {
	var v bool
	if n.Kind != yaml.ScalarNode || n.Decode(&v) != nil {
		d.fail(n, "expected a boolean, got %q", n.Value)
	}
	return v
}

func (d *decoder) strings(n *yaml.Node) []string {
	var out []string
	for _, s := range d.seq(n) {
		out = append(out, d.str(s))
	}
	return out
}

// optInt decodes an optional integer, def when absent
func (d *decoder) optInt(m map[string]*yaml.Node, key string, def int) int {
	if v, ok := m[key]; ok && !isNull(v) {
		return d.integer(v)
	}
	return def
}

func (d *decoder) optBool(m map[string]*yaml.Node, key string) bool {
	if v, ok := m[key]; ok && !isNull(v) {
		return d.boolean(v)
	}
	return false
}

func (d *decoder) optString(m map[string]*yaml.Node, key string) string {
	if v, ok := m[key]; ok && !isNull(v) {
		return d.str(v)
	}
	return ""
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null"
}

func contains(list []string, s string) bool {
	for _, l := range list {
		if l == s {
			return true
		}
	}
	return false
}

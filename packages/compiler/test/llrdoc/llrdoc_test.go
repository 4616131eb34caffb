package llrdoc_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"slintc-go/packages/compiler/src/interpreter"
	"slintc-go/packages/compiler/src/langtype"
	"slintc-go/packages/compiler/src/llr"
	"slintc-go/packages/compiler/src/llrdoc"
)

const counterDoc = `
globals:
  - name: Palette
    exported: true
    aliases: [Theme]
    properties:
      - {name: size, type: length, init: 10, const: true}
      - name: double
        type: length
        init: {kind: binary, op: "*", lhs: {kind: ref, ref: size}, rhs: 2}
    public: [size, {name: double, read-only: true}]
components:
  - name: Row
    properties:
      - {name: value, type: int}
      - {name: index, type: int}
      - {name: seen, type: int}
    items:
      - {name: cell, class: Rectangle}
    bindings:
      - ref: cell.width
        value: {kind: ref, ref: value}
    init-code:
      - kind: assign
        ref: seen
        value: {kind: ref, ref: {parent: 1, ref: counter}}
  - name: Menu
    items: [{name: frame, class: Rectangle}]
  - name: App
    properties:
      - {name: counter, type: int}
      - {name: label, type: string}
      - {name: clicked, type: {callback: []}}
    functions:
      - name: increment
        code:
          kind: assign
          ref: counter
          value: {kind: binary, op: "+", lhs: {kind: ref, ref: counter}, rhs: 1}
    items:
      - {name: root, class: Rectangle}
    repeated:
      - component: Row
        model: {kind: array, element: int, model: true, values: [10, 20, 30]}
        index-prop: index
        data-prop: value
    popups: [Menu]
    bindings:
      - ref: label
        value:
          kind: binary
          op: "+"
          lhs: "count: "
          rhs: {kind: cast, from: {kind: ref, ref: counter}, to: string}
      - ref: root.width
        value: {kind: ref, ref: Palette.double}
public:
  - component: App
    properties: [counter, label, increment, clicked]
`

func load(t *testing.T, doc string) *llr.CompilationUnit {
	t.Helper()
	unit, err := llrdoc.Load(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return unit
}

func TestLoad(t *testing.T) {
	unit := load(t, counterDoc)

	t.Run("public properties", func(t *testing.T) {
		var got []string
		for _, p := range unit.PublicComponents[0].PublicProperties {
			got = append(got, p.Name+": "+p.Type.String())
		}
		want := []string{"counter: int", "label: string", "increment: function() -> void", "clicked: callback() -> void"}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("public properties (-want +got):\n%s", diff)
		}
	})

	t.Run("globals", func(t *testing.T) {
		if len(unit.Globals) != 1 {
			t.Fatalf("got %d globals", len(unit.Globals))
		}
		g := unit.Globals[0]
		if diff := cmp.Diff([]bool{true, false}, g.ConstProperties); diff != "" {
			t.Errorf("const properties (-want +got):\n%s", diff)
		}
		if !g.PublicProperties[1].ReadOnly || g.PublicProperties[0].ReadOnly {
			t.Errorf("read-only flags: %+v", g.PublicProperties)
		}
		want := &llr.BinaryExpression{
			LHS: &llr.PropertyReferenceExpr{Ref: &llr.LocalRef{PropertyIndex: 0}},
			RHS: &llr.NumberLiteral{Value: 2},
			Op:  '*',
		}
		if diff := cmp.Diff(llr.Expression(want), g.InitValues[1].Expression); diff != "" {
			t.Errorf("init value (-want +got):\n%s", diff)
		}
	})

	t.Run("repeater", func(t *testing.T) {
		app := unit.PublicComponents[0].Item.Root
		rep := app.Repeated[0]
		if rep.SubTree.Root.Name != "Row" || rep.SubTree.ParentContext != "App" {
			t.Errorf("sub tree: %s in %s", rep.SubTree.Root.Name, rep.SubTree.ParentContext)
		}
		if *rep.IndexProp != 1 || *rep.DataProp != 0 {
			t.Errorf("index prop %d, data prop %d", *rep.IndexProp, *rep.DataProp)
		}
		if len(app.PopupWindows) != 1 || app.PopupWindows[0].Item.Root.Name != "Menu" {
			t.Errorf("popups: %+v", app.PopupWindows)
		}
	})

	t.Run("references", func(t *testing.T) {
		row := unit.PublicComponents[0].Item.Root.Repeated[0].SubTree.Root
		init := row.InitCode[0].(*llr.PropertyAssignment)
		want := &llr.PropertyReferenceExpr{Ref: &llr.InParentRef{Level: 1, Inner: &llr.LocalRef{PropertyIndex: 0}}}
		if diff := cmp.Diff(llr.Expression(want), init.Value); diff != "" {
			t.Errorf("parent reference (-want +got):\n%s", diff)
		}
		width := row.PropertyInit[0].Ref
		if diff := cmp.Diff(llr.PropertyReference(&llr.InNativeItemRef{ItemIndex: 0, PropName: "width"}), width); diff != "" {
			t.Errorf("item reference (-want +got):\n%s", diff)
		}
		global := unit.PublicComponents[0].Item.Root.PropertyInit[1].Binding.Expression
		if diff := cmp.Diff(llr.Expression(&llr.PropertyReferenceExpr{Ref: &llr.GlobalRef{GlobalIndex: 0, PropertyIndex: 1}}), global); diff != "" {
			t.Errorf("global reference (-want +got):\n%s", diff)
		}
	})

	t.Run("embedded components only", func(t *testing.T) {
		if len(unit.SubComponents) != 0 {
			t.Errorf("got %d sub-components, want none", len(unit.SubComponents))
		}
	})
}

func TestLoadRuns(t *testing.T) {
	unit := load(t, counterDoc)
	def, err := interpreter.Load(unit, "App")
	if err != nil {
		t.Fatal(err)
	}
	c := def.Create()
	for i := 0; i < 3; i++ {
		if _, err := c.Invoke("increment"); err != nil {
			t.Fatal(err)
		}
	}
	counter, _ := c.GetProperty("counter")
	label, _ := c.GetProperty("label")
	if counter != 3.0 || label != "count: 3" {
		t.Errorf("counter %v, label %q", counter, label)
	}
	n, err := c.RepeaterLen(0)
	if err != nil || n != 3 {
		t.Fatalf("repeater length %d, %v", n, err)
	}
	row, _ := c.RepeatedInstance(0, 1)
	width, _ := row.ItemProperty("cell", "width")
	if width != 20.0 {
		t.Errorf("row 1 width %v", width)
	}
	double, _ := c.GetGlobalProperty("Theme", "double")
	if double != 20.0 {
		t.Errorf("double %v", double)
	}
}

func TestEmbedded(t *testing.T) {
	unit := load(t, `
components:
  - name: Label
    items: [{name: text, class: Text}]
  - name: Button
    properties: [{name: pressed, type: bool}]
    repeated:
      - {component: Label, model: 2}
  - name: Window
    sub-components:
      - {name: ok, type: Button}
      - {name: cancel, type: Button}
    repeated:
      - {component: Label, model: true}
    bindings:
      - {ref: cancel.pressed, value: true}
public:
  - component: Window
`)
	if len(unit.SubComponents) != 1 || unit.SubComponents[0].Name != "Button" {
		t.Fatalf("sub-components: %+v", unit.SubComponents)
	}
	win := unit.PublicComponents[0].Item.Root
	if win.RepeaterCount() != 3 {
		t.Errorf("Window has %d repeaters", win.RepeaterCount())
	}
	offsets := []int{win.SubComponents[0].RepeaterOffset, win.SubComponents[1].RepeaterOffset}
	if diff := cmp.Diff([]int{1, 2}, offsets); diff != "" {
		t.Errorf("repeater offsets (-want +got):\n%s", diff)
	}
	want := llr.PropertyReference(&llr.LocalRef{SubComponentPath: []int{1}, PropertyIndex: 0})
	if diff := cmp.Diff(want, win.PropertyInit[0].Ref); diff != "" {
		t.Errorf("nested reference (-want +got):\n%s", diff)
	}
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"unknown key", "bogus: 1", `line 1, column 1: unknown key "bogus"`},
		{"unknown type", "structs: [{name: P, fields: {x: meters}}]", `unknown type "meters"`},
		{"undeclared component", "public: [{component: App}]", `component "App" is not declared before its use`},
		{"unknown name", "components: [{name: A, bindings: [{ref: nope, value: 1}]}]", `A has no property, function or item named "nope"`},
		{"missing kind", "components: [{name: A, init-code: [{ref: x}]}]", "expression without kind"},
		{"unknown item property", "components: [{name: A, items: [{name: r, class: Rectangle}], bindings: [{ref: r.color, value: 1}]}]", "item r of A has no property color"},
		{"orphan parent", "components: [{name: A, properties: [{name: p, type: int}], init-code: [{kind: ref, ref: {parent: 1, ref: p}}]}]", "A is not repeated or shown as a popup"},
		{"bad operator", "components: [{name: A, init-code: [{kind: binary, op: '%', lhs: 1, rhs: 2}]}]", `unknown binary operator "%"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := llrdoc.Load(strings.NewReader(tt.doc))
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not contain %q", err, tt.want)
			}
			var docErr *llrdoc.Error
			if !errors.As(err, &docErr) || docErr.Line == 0 {
				t.Errorf("error %v carries no position", err)
			}
		})
	}

	t.Run("empty", func(t *testing.T) {
		if _, err := llrdoc.Load(strings.NewReader("")); !errors.Is(err, llrdoc.ErrEmptyDocument) {
			t.Errorf("got %v", err)
		}
	})
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.yaml")
	if err := os.WriteFile(path, []byte(counterDoc), 0o644); err != nil {
		t.Fatal(err)
	}
	unit, err := llrdoc.LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if unit.PublicComponents[0].Name != "App" {
		t.Errorf("got %s", unit.PublicComponents[0].Name)
	}
	if _, err := llrdoc.LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("got %v", err)
	}
}

func TestTypes(t *testing.T) {
	unit := load(t, `
structs:
  - name: Person
    fields: {name: string, age: int}
enums:
  - {name: Mode, values: [idle, busy], default: busy}
components:
  - name: A
    properties:
      - {name: people, type: "[Person]"}
      - {name: mode, type: Mode}
      - {name: info, type: LayoutInfo}
      - {name: pair, type: {struct: {b: bool, a: float}}}
      - {name: handler, type: {callback: [int, string], return: bool}}
    bindings:
      - ref: mode
        value: {kind: enum, type: Mode, value: idle}
public:
  - component: A
`)
	a := unit.UsedStructs[0]
	if diff := cmp.Diff([]string{"age", "name"}, a.FieldNames()); diff != "" {
		t.Errorf("fields (-want +got):\n%s", diff)
	}
	if unit.UsedEnums[0].DefaultValue != 1 {
		t.Errorf("default %d", unit.UsedEnums[0].DefaultValue)
	}
	var got []string
	for _, p := range unit.PublicComponents[0].Item.Root.Properties {
		got = append(got, p.Type.String())
	}
	want := []string{"[Person]", "Mode", "LayoutInfo", "{ a: float, b: bool }", "callback(int, string) -> bool"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("types (-want +got):\n%s", diff)
	}
	if !langtype.LayoutInfoStruct.Equal(unit.PublicComponents[0].Item.Root.Properties[2].Type) {
		t.Error("LayoutInfo is not the builtin struct")
	}
}

func TestTranslationsAndResources(t *testing.T) {
	unit := load(t, `
translations:
  languages: [en, fr]
  strings:
    - [hello, bonjour]
    - [bye, null]
  plurals:
    - [["{n} file", "{n} files"], ["{n} fichier", "{n} fichiers"]]
  plural-rules:
    - null
    - {kind: binary, op: ">", lhs: {kind: arg, index: 0}, rhs: 1}
resources:
  - {id: 0, data: !!binary aGVsbG8=, extension: png}
  - id: 1
    kind: texture
    texture: {width: 4, height: 2, format: rgba, rect: [1, 0, 2, 2]}
  - id: 2
    kind: bitmap-font
    font:
      family: Mono
      units-per-em: 1000
      ascent: 800
      character-map: [[a, 0], [66, 1]]
      glyphs:
        - pixel-size: 12
          glyphs: [{width: 6, height: 12, x-advance: 7}]
debug-info: true
`)
	tr := unit.Translations
	want := &llr.Translations{
		Languages: []string{"en", "fr"},
		Strings:   [][]string{{"hello", "bonjour"}, {"bye", ""}},
		Plurals:   [][][]string{{{"{n} file", "{n} files"}, {"{n} fichier", "{n} fichiers"}}},
		PluralRules: []llr.Expression{nil, &llr.BinaryExpression{
			LHS: &llr.FunctionParameterReference{Index: 0},
			RHS: &llr.NumberLiteral{Value: 1},
			Op:  '>',
		}},
	}
	if diff := cmp.Diff(want, tr); diff != "" {
		t.Errorf("translations (-want +got):\n%s", diff)
	}
	if !unit.HasDebugInfo {
		t.Error("debug info not set")
	}

	if len(unit.Resources) != 3 {
		t.Fatalf("got %d resources", len(unit.Resources))
	}
	raw, tex, font := unit.Resources[0], unit.Resources[1], unit.Resources[2]
	if raw.Kind != llr.ResourceRawData || string(raw.Data) != "hello" || raw.Extension != "png" {
		t.Errorf("raw resource %+v", raw)
	}
	wantTex := &llr.Texture{Width: 4, Height: 2, Format: "rgba", RectX: 1, RectW: 2, RectH: 2, OriginalWidth: 4, OriginalHeight: 2}
	if diff := cmp.Diff(wantTex, tex.Texture); diff != "" {
		t.Errorf("texture (-want +got):\n%s", diff)
	}
	wantFont := &llr.BitmapFont{
		Family:       "Mono",
		UnitsPerEm:   1000,
		Ascent:       800,
		CharacterMap: []llr.CharacterMapEntry{{Code: 'a', GlyphIndex: 0}, {Code: 'B', GlyphIndex: 1}},
		Glyphs:       []llr.BitmapGlyphs{{PixelSize: 12, Glyphs: []llr.BitmapGlyph{{Width: 6, Height: 12, XAdvance: 7}}}},
	}
	if diff := cmp.Diff(wantFont, font.Font); diff != "" {
		t.Errorf("font (-want +got):\n%s", diff)
	}

	for name, doc := range map[string]string{
		"row width":    "translations: {languages: [en, fr], strings: [[hello]]}",
		"unknown kind": "resources: [{id: 0, kind: svg}]",
		"long char":    "resources: [{id: 0, kind: bitmap-font, font: {family: x, units-per-em: 1, character-map: [[ab, 0]]}}]",
		"no texture":   "resources: [{id: 0, kind: texture}]",
	} {
		_, err := llrdoc.Load(strings.NewReader(doc))
		var de *llrdoc.Error
		if !errors.As(err, &de) || de.Line == 0 {
			t.Errorf("%s: got %v", name, err)
		}
	}
}

package js_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"slintc-go/packages/compiler/core"
	"slintc-go/packages/compiler/src/config"
	"slintc-go/packages/compiler/src/generator"
	"slintc-go/packages/compiler/src/generator/js"
	"slintc-go/packages/compiler/src/langtype"
	"slintc-go/packages/compiler/src/llr"
)

func rectangle(name string, index int) llr.Item {
	class, _ := langtype.LookupNativeClass("Rectangle")
	return llr.Item{Class: class, Name: name, IndexInTree: index}
}

func intPtr(i int) *int { return &i }

func counterApp() *llr.CompilationUnit {
	row := &llr.SubComponent{
		Name: "Row_0",
		Properties: []llr.Property{
			{Name: "index", Type: langtype.Int32, UseCount: 1},
			{Name: "model-data", Type: langtype.Int32, UseCount: 1},
		},
		Items: []llr.Item{rectangle("row", 0)},
	}
	popup := &llr.SubComponent{
		Name:  "Popup_1",
		Items: []llr.Item{rectangle("popup", 0)},
	}
	counter := &llr.LocalRef{PropertyIndex: 0}
	app := &llr.SubComponent{
		Name: "App",
		Properties: []llr.Property{
			{Name: "counter", Type: langtype.Int32, UseCount: 2},
			{Name: "clicked", Type: langtype.NewCallback(langtype.Void), UseCount: 1},
		},
		Functions: []llr.Function{{
			Name:       "close-it",
			ReturnType: langtype.Void,
			Code: &llr.BuiltinFunctionCall{
				Function: llr.Builtin(llr.BuiltinClosePopupWindow),
				Arguments: []llr.Expression{
					&llr.NumberLiteral{Value: 0},
					&llr.PropertyReferenceExpr{Ref: &llr.InNativeItemRef{ItemIndex: 1}},
				},
			},
		}},
		Items: []llr.Item{rectangle("root", 0), rectangle("anchor", 1)},
		Repeated: []llr.RepeatedElement{{
			Model:       &llr.NumberLiteral{Value: 3},
			IndexProp:   intPtr(0),
			DataProp:    intPtr(1),
			SubTree:     llr.ItemTree{Root: row, Tree: &llr.TreeNode{}},
			IndexInTree: 2,
		}},
		PopupWindows: []llr.PopupWindow{{Item: llr.ItemTree{Root: popup, Tree: &llr.TreeNode{}}}},
		PropertyInit: []llr.PropertyInit{{
			Ref: &llr.LocalRef{PropertyIndex: 1},
			Binding: &llr.BindingExpression{Expression: &llr.PropertyAssignment{
				Property: counter,
				Value:    &llr.BinaryExpression{LHS: &llr.PropertyReferenceExpr{Ref: counter}, RHS: &llr.NumberLiteral{Value: 1}, Op: '+'},
			}},
		}},
	}
	tree := &llr.TreeNode{
		ItemIndex: 0,
		Children: []*llr.TreeNode{
			{ItemIndex: 1},
			{ItemIndex: 0, Repeated: true},
		},
	}
	palette := &llr.GlobalComponent{
		Name:             "Palette",
		Properties:       []llr.Property{{Name: "accent", Type: langtype.Color, UseCount: 1}},
		InitValues:       []*llr.BindingExpression{nil},
		ConstProperties:  []bool{false},
		PublicProperties: []llr.PublicProperty{{Name: "accent", Type: langtype.Color, Ref: &llr.LocalRef{PropertyIndex: 0}}},
		Exported:         true,
		Aliases:          []string{"Theme"},
	}
	return &llr.CompilationUnit{
		Globals: []*llr.GlobalComponent{palette},
		PublicComponents: []*llr.PublicComponent{{
			Name: "App",
			PublicProperties: []llr.PublicProperty{
				{Name: "counter", Type: langtype.Int32, Ref: counter},
				{Name: "clicked", Type: langtype.NewCallback(langtype.Void), Ref: &llr.LocalRef{PropertyIndex: 1}},
			},
			Item: llr.ItemTree{Root: app, Tree: tree},
		}},
	}
}

func generate(t *testing.T, unit *llr.CompilationUnit, cfg *config.CompilerConfiguration) string {
	t.Helper()
	files, err := generator.Generate(js.New(), unit, cfg, generator.Options{BaseName: "app"})
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.Name
	}
	if diff := cmp.Diff([]string{"app.mjs"}, names); diff != "" {
		t.Fatalf("mismatch (-expected +got):\n%s", diff)
	}
	return files[0].Content
}

func expectContains(t *testing.T, module string, parts ...string) {
	t.Helper()
	for _, s := range parts {
		if !strings.Contains(module, s) {
			t.Errorf("Expected %q in\n%s", s, module)
		}
	}
}

func TestModule(t *testing.T) {
	module := generate(t, counterApp(), config.NewCompilerConfiguration())

	t.Run("should import the runtime and check its version", func(t *testing.T) {
		expectContains(t, module,
			`import * as slint from "slint-runtime";`,
			`if (slint.VERSION !== "`+core.CompilerVersion.Full+`") {`)
		if strings.Index(module, "slint.VERSION") > strings.Index(module, "class ") {
			t.Errorf("Expected the version check before any class")
		}
	})

	t.Run("should declare child trees before their parent", func(t *testing.T) {
		row := strings.Index(module, "class Row_0 {")
		popup := strings.Index(module, "class Popup_1 {")
		app := strings.Index(module, "class App {")
		if row < 0 || popup < 0 || app < 0 {
			t.Fatalf("missing class in\n%s", module)
		}
		if row > app || popup > app {
			t.Errorf("Expected Row_0 (%d) and Popup_1 (%d) before App (%d)", row, popup, app)
		}
	})

	t.Run("should expose get and set methods", func(t *testing.T) {
		expectContains(t, module,
			"get_counter() {",
			"set_counter(value) {",
			"invoke_clicked() {",
			"on_clicked(callback_handler) {",
			"async run() {")
	})

	t.Run("should increment through the callback handler", func(t *testing.T) {
		expectContains(t, module, "self.clicked.setHandler(", "self.counter.set(")
	})

	t.Run("should ignore closing a popup that is not open", func(t *testing.T) {
		expectContains(t, module,
			"popup_id_0 = null;",
			"if (p.popup_id_0 !== null) { const id = p.popup_id_0; p.popup_id_0 = null; p.globals.window().closePopup(id); }")
	})

	t.Run("should reference the repeater from the item tree", func(t *testing.T) {
		expectContains(t, module,
			"slint.makeDynNode(0, 0)",
			"slint.makeItemNode(2, 1, 0, 0, false)",
			"static item_tree_nodes = [",
			"repeater_0 = new slint.Repeater(Row_0);")
	})

	t.Run("should give repeated instances their data", func(t *testing.T) {
		expectContains(t, module,
			"update_data(i, data) {",
			"init_instance() {",
			"box_layout_data(o) {",
			"self.parent = new WeakRef(parent);")
	})

	t.Run("should export the components and globals", func(t *testing.T) {
		expectContains(t, module,
			"class InnerPalette {",
			"class Palette {",
			"if (type === Palette) {",
			"export { Palette, Palette as Theme, App };")
	})
}

func TestRuntimeModule(t *testing.T) {
	cfg := config.NewCompilerConfiguration(config.WithJsRuntimeModule("./runtime/index.mjs"))
	module := generate(t, counterApp(), cfg)
	expectContains(t, module, `import * as slint from "./runtime/index.mjs";`)
}

func TestBundledTranslations(t *testing.T) {
	unit := counterApp()
	unit.Translations = &llr.Translations{
		Languages: []string{"de", "fr"},
		Strings:   [][]string{{"Hallo", ""}},
		Plurals:   [][][]string{{{"eine Datei", "{n} Dateien"}, nil}},
		PluralRules: []llr.Expression{
			&llr.Condition{
				Condition: &llr.BinaryExpression{LHS: &llr.FunctionParameterReference{Index: 0}, RHS: &llr.NumberLiteral{Value: 1}, Op: '='},
				TrueExpr:  &llr.NumberLiteral{Value: 0},
				FalseExpr: &llr.NumberLiteral{Value: 1},
			},
			nil,
		},
	}
	module := generate(t, unit, config.NewCompilerConfiguration(config.WithTranslationBundling(true)))
	expectContains(t, module,
		`const slint_translation_bundle_languages = ["de", "fr"];`,
		`const slint_translation_bundle_strings = [["Hallo", null]];`,
		`const slint_translated_plurals_0 = [["eine Datei", "{n} Dateien"], null];`,
		"const slint_translated_plural_rules = [(arg_0) => ",
		"slint.setBundledLanguages(slint_translation_bundle_languages);")
}

func TestMalformedUnit(t *testing.T) {
	unit := counterApp()
	app := unit.PublicComponents[0].Item.Root
	app.Functions[0].Code = &llr.BuiltinFunctionCall{
		Function: llr.Builtin(llr.BuiltinClosePopupWindow),
		Arguments: []llr.Expression{
			&llr.NumberLiteral{Value: 4},
			&llr.PropertyReferenceExpr{Ref: &llr.InNativeItemRef{ItemIndex: 1}},
		},
	}
	_, err := generator.Generate(js.New(), unit, config.NewCompilerConfiguration(), generator.Options{})
	if err == nil || !strings.Contains(err.Error(), "popup index 4 out of range") {
		t.Errorf("Expected an out of range error, got %v", err)
	}
}

// bumpFromRow gives the repeated row a `pressed` handler that increments the counter of
// the enclosing App and invokes its `clicked` callback
func bumpFromRow(unit *llr.CompilationUnit) {
	row := unit.PublicComponents[0].Item.Root.Repeated[0].SubTree.Root
	counter := &llr.InParentRef{Level: 1, Inner: &llr.LocalRef{PropertyIndex: 0}}
	clicked := &llr.InParentRef{Level: 1, Inner: &llr.LocalRef{PropertyIndex: 1}}
	row.Properties = append(row.Properties, llr.Property{Name: "pressed", Type: langtype.NewCallback(langtype.Void), UseCount: 1})
	row.PropertyInit = append(row.PropertyInit, llr.PropertyInit{
		Ref: &llr.LocalRef{PropertyIndex: 2},
		Binding: &llr.BindingExpression{Expression: &llr.CodeBlock{Statements: []llr.Expression{
			&llr.PropertyAssignment{
				Property: counter,
				Value:    &llr.BinaryExpression{LHS: &llr.PropertyReferenceExpr{Ref: counter}, RHS: &llr.NumberLiteral{Value: 1}, Op: '+'},
			},
			&llr.CallbackCall{Callback: clicked},
		}}},
	})
}

func TestParentAccess(t *testing.T) {
	unit := counterApp()
	bumpFromRow(unit)
	module := generate(t, unit, config.NewCompilerConfiguration())

	t.Run("should assign only while the parent is alive", func(t *testing.T) {
		expectContains(t, module,
			"(() => { const parent_1 = self.parent.deref(); if (parent_1) { const p = parent_1; p.counter.set(")
	})

	t.Run("should read the default value of a dropped parent", func(t *testing.T) {
		expectContains(t, module,
			"(() => { { const parent_1 = self.parent.deref(); if (parent_1) { const p = parent_1; return p.counter.get(); } } return 0; })()")
	})

	t.Run("should call only while the parent is alive", func(t *testing.T) {
		expectContains(t, module, "const p = parent_1; p.clicked.call(); } })()")
	})

	t.Run("should not dereference the parent unchecked", func(t *testing.T) {
		for _, s := range []string{"parent.deref().counter", "parent.deref().clicked"} {
			if strings.Contains(module, s) {
				t.Errorf("Unexpected %q in the module", s)
			}
		}
	})
}

func TestLocalInConditionBranch(t *testing.T) {
	unit := counterApp()
	app := unit.PublicComponents[0].Item.Root
	app.Functions = append(app.Functions, llr.Function{
		Name:       "maybe-store",
		ReturnType: langtype.Void,
		Code: &llr.Condition{
			Condition: &llr.BoolLiteral{Value: true},
			TrueExpr: &llr.CodeBlock{Statements: []llr.Expression{
				&llr.StoreLocalVariable{Name: "x", Value: &llr.NumberLiteral{Value: 1}},
			}},
			FalseExpr: &llr.StoreLocalVariable{Name: "y", Value: &llr.NumberLiteral{Value: 2}},
		},
	})
	module := generate(t, unit, config.NewCompilerConfiguration())
	expectContains(t, module, "true ? (() => { let x = 1; })() : (() => { let y = 2; })()")
	if strings.Contains(module, "? let") || strings.Contains(module, ": let") {
		t.Errorf("Expected no declaration as a conditional operand in\n%s", module)
	}
}

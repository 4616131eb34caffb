package cpp_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"slintc-go/packages/compiler/src/config"
	"slintc-go/packages/compiler/src/generator"
	"slintc-go/packages/compiler/src/generator/cpp"
	"slintc-go/packages/compiler/src/langtype"
	"slintc-go/packages/compiler/src/llr"
)

func rectangle(name string, index int) llr.Item {
	class, _ := langtype.LookupNativeClass("Rectangle")
	return llr.Item{Class: class, Name: name, IndexInTree: index}
}

func intPtr(i int) *int { return &i }

// counterApp is a component with a counter, a repeater over three rows and a popup
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

func generate(t *testing.T, cfg *config.CompilerConfiguration) []generator.OutputFile {
	t.Helper()
	files, err := generator.Generate(cpp.New(), counterApp(), cfg, generator.Options{BaseName: "app"})
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	return files
}

func fileNames(files []generator.OutputFile) []string {
	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.Name
	}
	return names
}

func TestHeaderOnly(t *testing.T) {
	files := generate(t, config.NewCompilerConfiguration())
	if diff := cmp.Diff([]string{"app.h"}, fileNames(files)); diff != "" {
		t.Fatalf("mismatch (-expected +got):\n%s", diff)
	}
	header := files[0].Content

	t.Run("should check the runtime version", func(t *testing.T) {
		if !strings.Contains(header, "static_assert(SLINT_VERSION_MAJOR ==") {
			t.Errorf("Expected a version check in\n%s", header)
		}
	})

	t.Run("should declare child trees before their parent", func(t *testing.T) {
		row := strings.Index(header, "class Row_0 {")
		popup := strings.Index(header, "class Popup_1 {")
		app := strings.Index(header, "class App {")
		if row < 0 || popup < 0 || app < 0 {
			t.Fatalf("missing struct in\n%s", header)
		}
		if row > app || popup > app {
			t.Errorf("Expected Row_0 (%d) and Popup_1 (%d) before App (%d)", row, popup, app)
		}
	})

	t.Run("should define every function inline", func(t *testing.T) {
		for _, def := range []string{
			"inline auto App::invoke_clicked() const -> void",
			"inline auto App::get_counter() const -> int",
			"inline auto App::set_counter(const int &value) const -> void",
			"inline auto Row_0::update_data(",
		} {
			if !strings.Contains(header, def) {
				t.Errorf("Expected %q in the header", def)
			}
		}
	})

	t.Run("should increment through the callback handler", func(t *testing.T) {
		if !strings.Contains(header, "self->clicked.set_handler(") || !strings.Contains(header, "self->counter.set(") {
			t.Errorf("Expected the clicked handler to set the counter")
		}
	})

	t.Run("should ignore closing a popup that is not open", func(t *testing.T) {
		if !strings.Contains(header, "if (p->popup_id_0) { auto id = *p->popup_id_0; p->popup_id_0.reset();") {
			t.Errorf("Expected a guarded close_popup in\n%s", header)
		}
	})

	t.Run("should reference the repeater from the item tree", func(t *testing.T) {
		if !strings.Contains(header, "slint::private_api::make_dyn_node(0, 0)") {
			t.Errorf("Expected a dynamic node for the repeater")
		}
		if !strings.Contains(header, "slint::private_api::make_item_node(2, 1, 0, 0, false)") {
			t.Errorf("Expected the root item node")
		}
	})

	t.Run("should expose the exported global", func(t *testing.T) {
		for _, s := range []string{
			"class InnerPalette {",
			"class Palette {",
			"using Theme = Palette;",
			"template<> inline auto App::global<Palette>() const -> Palette {",
		} {
			if !strings.Contains(header, s) {
				t.Errorf("Expected %q in the header", s)
			}
		}
	})
}

func TestSplitOutput(t *testing.T) {
	t.Run("should distribute the definitions over the requested files", func(t *testing.T) {
		files := generate(t, config.NewCompilerConfiguration(config.WithCppFiles(2)))
		if diff := cmp.Diff([]string{"app.h", "app_0.cpp", "app_1.cpp"}, fileNames(files)); diff != "" {
			t.Fatalf("mismatch (-expected +got):\n%s", diff)
		}
		if strings.Contains(files[0].Content, "auto App::invoke_clicked()") {
			t.Errorf("Expected non-template definitions out of the header")
		}
		if !strings.Contains(files[0].Content, "auto App::on_clicked(Functor && callback_handler)") {
			t.Errorf("Expected the template definitions in the header")
		}
		for _, f := range files[1:] {
			if !strings.Contains(f.Content, `#include "app.h"`) {
				t.Errorf("Expected %s to include the header", f.Name)
			}
			if strings.Contains(f.Content, "inline auto") {
				t.Errorf("Expected no inline definitions in %s", f.Name)
			}
		}
		impl := files[1].Content + files[2].Content
		if strings.Count(impl, "auto App::invoke_clicked()") != 1 {
			t.Errorf("Expected invoke_clicked defined exactly once")
		}
	})

	t.Run("should name a single file after the base name", func(t *testing.T) {
		files := generate(t, config.NewCompilerConfiguration(config.WithCppFiles(1)))
		if diff := cmp.Diff([]string{"app.h", "app.cpp"}, fileNames(files)); diff != "" {
			t.Errorf("mismatch (-expected +got):\n%s", diff)
		}
	})
}

func TestNamespace(t *testing.T) {
	header := generate(t, config.NewCompilerConfiguration(config.WithCppNamespace("ui")))[0].Content
	open := strings.Index(header, "namespace ui {")
	struct_ := strings.Index(header, "class App {")
	end := strings.Index(header, "} // namespace ui")
	if open < 0 || end < 0 || open > struct_ || struct_ > end {
		t.Errorf("Expected the declarations inside the namespace, got\n%s", header)
	}
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
	cfg := config.NewCompilerConfiguration(config.WithTranslationBundling(true))
	files, err := generator.Generate(cpp.New(), unit, cfg, generator.Options{BaseName: "app"})
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	header := files[0].Content
	for _, s := range []string{
		`slint_translation_bundle_strings[2] = { u8"Hallo", nullptr }`,
		`slint_translated_plural_forms_0_0[3] = { u8"eine Datei", u8"{n} Dateien", nullptr }`,
		"slint_translated_plurals_0[2] = { slint_translated_plural_forms_0_0, nullptr }",
		"[]([[maybe_unused]] int32_t arg_0) -> uint8_t {",
		"slint::private_api::set_bundled_languages(slint_translation_bundle_languages);",
	} {
		if !strings.Contains(header, s) {
			t.Errorf("Expected %q in\n%s", s, header)
		}
	}
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
	_, err := generator.Generate(cpp.New(), unit, config.NewCompilerConfiguration(), generator.Options{})
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
	files, err := generator.Generate(cpp.New(), unit, config.NewCompilerConfiguration(), generator.Options{BaseName: "app"})
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	header := files[0].Content

	t.Run("should assign only while the parent is alive", func(t *testing.T) {
		s := "[&]{ if (auto parent_1 = self->parent.lock()) { [[maybe_unused]] auto p = (*parent_1); p->counter.set("
		if !strings.Contains(header, s) {
			t.Errorf("Expected %q in\n%s", s, header)
		}
	})

	t.Run("should read the default value of an expired parent", func(t *testing.T) {
		s := "[&]() -> int { if (auto parent_1 = self->parent.lock()) { [[maybe_unused]] auto p = (*parent_1); return p->counter.get(); } return int{}; }()"
		if !strings.Contains(header, s) {
			t.Errorf("Expected %q in\n%s", s, header)
		}
	})

	t.Run("should call only while the parent is alive", func(t *testing.T) {
		s := "[[maybe_unused]] auto p = (*parent_1); p->clicked.call(); } }()"
		if !strings.Contains(header, s) {
			t.Errorf("Expected %q in\n%s", s, header)
		}
	})

	t.Run("should not assert the parent is alive", func(t *testing.T) {
		for _, s := range []string{"parent.lock().value()->counter", "parent.lock().value()->clicked"} {
			if strings.Contains(header, s) {
				t.Errorf("Unexpected %q in the header", s)
			}
		}
	})
}

func TestShowPopup(t *testing.T) {
	unit := counterApp()
	app := unit.PublicComponents[0].Item.Root
	app.Functions = append(app.Functions, llr.Function{
		Name:       "open-it",
		ReturnType: langtype.Void,
		Code: &llr.BuiltinFunctionCall{
			Function: llr.Builtin(llr.BuiltinShowPopupWindow),
			Arguments: []llr.Expression{
				&llr.NumberLiteral{Value: 0},
				&llr.NumberLiteral{Value: 10},
				&llr.NumberLiteral{Value: 20},
				&llr.PropertyReferenceExpr{Ref: &llr.InNativeItemRef{ItemIndex: 1}},
			},
		},
	})
	files, err := generator.Generate(cpp.New(), unit, config.NewCompilerConfiguration(), generator.Options{BaseName: "app"})
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	header := files[0].Content
	for _, s := range []string{
		"class Popup_1 {",
		"auto popup_instance = Popup_1::create(&*p);",
		"p->popup_id_0 = window.show_popup(popup_instance.into_dyn(), slint::LogicalPosition({ float(10), float(20) }),",
	} {
		if !strings.Contains(header, s) {
			t.Errorf("Expected %q in\n%s", s, header)
		}
	}
}

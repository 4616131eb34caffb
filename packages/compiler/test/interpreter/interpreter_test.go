package interpreter_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"slintc-go/packages/compiler/src/interpreter"
	"slintc-go/packages/compiler/src/langtype"
	"slintc-go/packages/compiler/src/llr"
	"slintc-go/packages/compiler/src/runtime"
)

func create(t *testing.T, unit *llr.CompilationUnit, opts ...interpreter.Option) *interpreter.ComponentInstance {
	t.Helper()
	def, err := interpreter.Load(unit, unit.PublicComponents[0].Name, opts...)
	require.NoError(t, err)
	return def.Create()
}

func counterUnit() *llr.CompilationUnit {
	counter := local(0)
	app := &llr.SubComponent{
		Name: "Counter",
		Properties: []llr.Property{
			{Name: "counter", Type: langtype.Int32},
			{Name: "increment", Type: langtype.NewCallback(langtype.Void)},
			{Name: "label", Type: langtype.String},
		},
		PropertyInit: []llr.PropertyInit{
			{Ref: local(1), Binding: binding(assign(counter, add(read(counter), num(1))))},
			{Ref: local(2), Binding: binding(add(str("count: "), &llr.Cast{From: read(counter), To: langtype.String}))},
		},
	}
	props := exposeAll(app)
	props[2].ReadOnly = true
	return publicComponent(app, props)
}

func TestCounter(t *testing.T) {
	c := create(t, counterUnit())

	for i := 0; i < 3; i++ {
		_, err := c.Invoke("increment")
		require.NoError(t, err)
	}
	v, err := c.GetProperty("counter")
	require.NoError(t, err)
	require.Equal(t, 3.0, v)

	label, err := c.GetProperty("label")
	require.NoError(t, err)
	require.Equal(t, "count: 3", label)

	require.NoError(t, c.SetProperty("counter", 41))
	_, err = c.Invoke("increment")
	require.NoError(t, err)
	v, _ = c.GetProperty("counter")
	require.Equal(t, 42.0, v)

	t.Run("errors", func(t *testing.T) {
		require.ErrorIs(t, c.SetProperty("label", "x"), interpreter.ErrReadOnly)
		_, err := c.GetProperty("missing")
		require.ErrorIs(t, err, interpreter.ErrNoSuchProperty)
		_, err = c.Invoke("counter")
		require.ErrorIs(t, err, interpreter.ErrNotCallable)
		_, err = interpreter.Load(counterUnit(), "Other")
		require.ErrorIs(t, err, interpreter.ErrNoSuchComponent)
	})

	t.Run("native handler", func(t *testing.T) {
		calls := 0
		require.NoError(t, c.SetCallback("increment", func([]runtime.Value) runtime.Value {
			calls++
			return nil
		}))
		_, err := c.Invoke("increment")
		require.NoError(t, err)
		require.Equal(t, 1, calls)
		v, _ := c.GetProperty("counter")
		require.Equal(t, 42.0, v)
	})

	t.Run("destroyed", func(t *testing.T) {
		c.Destroy()
		_, err := c.GetProperty("counter")
		require.ErrorIs(t, err, interpreter.ErrDestroyed)
	})
}

func TestIntegerProperties(t *testing.T) {
	c := create(t, counterUnit())
	require.NoError(t, c.SetProperty("counter", 2.9))
	v, _ := c.GetProperty("counter")
	require.Equal(t, 2.0, v)
}

// repeaterUnit repeats a rectangle whose width is the model data
func repeaterUnit(model llr.Expression) *llr.CompilationUnit {
	row := &llr.SubComponent{
		Name: "Row",
		Properties: []llr.Property{
			{Name: "index", Type: langtype.Int32},
			{Name: "model-data", Type: langtype.Int32},
		},
		Functions: []llr.Function{{
			Name:       "edit",
			ReturnType: langtype.Void,
			Args:       []*langtype.Type{langtype.Int32},
			Code:       &llr.ModelDataAssignment{Level: 0, Value: &llr.FunctionParameterReference{Index: 0}},
		}},
		Items: []llr.Item{rectangle("rect")},
		PropertyInit: []llr.PropertyInit{{
			Ref:     &llr.InNativeItemRef{ItemIndex: 0, PropName: "width"},
			Binding: binding(read(local(1))),
		}},
	}
	app := &llr.SubComponent{
		Name: "List",
		Properties: []llr.Property{
			{Name: "values", Type: langtype.NewArray(langtype.Int32)},
		},
		Items: []llr.Item{rectangle("root")},
		Repeated: []llr.RepeatedElement{{
			Model:     model,
			IndexProp: intPtr(0),
			DataProp:  intPtr(1),
			SubTree:   llr.ItemTree{Root: row, Tree: &llr.TreeNode{}},
		}},
	}
	return publicComponent(app, exposeAll(app))
}

func TestRepeater(t *testing.T) {
	c := create(t, repeaterUnit(array(num(10), num(20), num(30))))

	n, err := c.RepeaterLen(0)
	require.NoError(t, err)
	require.Equal(t, 3, n)

	row, err := c.RepeatedInstance(0, 1)
	require.NoError(t, err)
	require.Equal(t, 1, row.Row())
	width, err := row.ItemProperty("rect", "width")
	require.NoError(t, err)
	require.Equal(t, 20.0, width)

	require.NoError(t, row.Update(1, 20))
	width, _ = row.ItemProperty("rect", "width")
	require.Equal(t, 20.0, width)

	require.NoError(t, row.Update(1, 25))
	c.EventLoop().Advance(0)
	width, _ = row.ItemProperty("rect", "width")
	require.Equal(t, 25.0, width, "the row keeps its data while the model reports the same rows")

	index, err := row.GetProperty("index")
	require.NoError(t, err)
	require.Equal(t, 1.0, index)

	_, err = c.RepeatedInstance(0, 3)
	require.ErrorIs(t, err, interpreter.ErrRowOutOfRange)
	_, err = c.RepeaterLen(1)
	require.ErrorIs(t, err, interpreter.ErrNoSuchRepeater)
	_, err = row.ItemProperty("nope", "width")
	require.ErrorIs(t, err, interpreter.ErrNoSuchItem)
}

func TestRepeaterModelChanges(t *testing.T) {
	c := create(t, repeaterUnit(read(local(0))))

	n, err := c.RepeaterLen(0)
	require.NoError(t, err)
	require.Equal(t, 0, n)

	require.NoError(t, c.SetProperty("values", []runtime.Value{1, 2, 3}))
	n, _ = c.RepeaterLen(0)
	require.Equal(t, 3, n)

	last, err := c.RepeatedInstance(0, 2)
	require.NoError(t, err)

	t.Run("model data assignment", func(t *testing.T) {
		row, err := c.RepeatedInstance(0, 1)
		require.NoError(t, err)
		_, err = row.Invoke("edit", 7.0)
		require.NoError(t, err)

		values, _ := c.GetProperty("values")
		model, ok := values.(runtime.Model)
		require.True(t, ok)
		require.Equal(t, 7.0, model.RowData(1))
		data, _ := row.GetProperty("model-data")
		require.Equal(t, 7.0, data)
	})

	t.Run("shrinking destroys rows", func(t *testing.T) {
		require.NoError(t, c.SetProperty("values", []runtime.Value{1}))
		n, _ := c.RepeaterLen(0)
		require.Equal(t, 1, n)
		_, err := last.GetProperty("index")
		require.ErrorIs(t, err, interpreter.ErrDestroyed)
	})
}

func TestConditional(t *testing.T) {
	c := create(t, repeaterUnit(&llr.BoolLiteral{Value: true}))
	n, err := c.RepeaterLen(0)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	c = create(t, repeaterUnit(&llr.BoolLiteral{Value: false}))
	n, err = c.RepeaterLen(0)
	require.NoError(t, err)
	require.Equal(t, 0, n)
}

func popupUnit() *llr.CompilationUnit {
	anchor := &llr.PropertyReferenceExpr{Ref: &llr.InNativeItemRef{ItemIndex: 1}}
	popup := &llr.SubComponent{
		Name:  "Popup",
		Items: []llr.Item{rectangle("popup")},
	}
	call := func(kind llr.BuiltinKind, args ...llr.Expression) llr.Expression {
		return &llr.BuiltinFunctionCall{Function: llr.Builtin(kind), Arguments: args}
	}
	app := &llr.SubComponent{
		Name:  "Menu",
		Items: []llr.Item{rectangle("root"), rectangle("anchor")},
		Functions: []llr.Function{
			{Name: "open", ReturnType: langtype.Void, Code: call(llr.BuiltinShowPopupWindow, num(0), num(5), num(6), anchor)},
			{Name: "close", ReturnType: langtype.Void, Code: call(llr.BuiltinClosePopupWindow, num(0), anchor)},
			{Name: "open-missing", ReturnType: langtype.Void, Code: call(llr.BuiltinShowPopupWindow, num(3), num(0), num(0), anchor)},
		},
		PopupWindows: []llr.PopupWindow{{Item: llr.ItemTree{Root: popup, Tree: &llr.TreeNode{}}}},
	}
	return publicComponent(app, exposeAll(app))
}

func TestPopups(t *testing.T) {
	c := create(t, popupUnit())
	w := c.Window()

	_, err := c.Invoke("close")
	require.NoError(t, err, "closing a popup that was never opened")
	require.Empty(t, w.PopupHandles())

	_, err = c.Invoke("open")
	require.NoError(t, err)
	handles := w.PopupHandles()
	require.Len(t, handles, 1)
	p, ok := w.Popup(handles[0])
	require.True(t, ok)
	require.Equal(t, 5.0, p.X)
	require.Equal(t, 6.0, p.Y)

	_, err = c.Invoke("open")
	require.NoError(t, err)
	require.Len(t, w.PopupHandles(), 1, "reopening closes the open popup first")

	_, err = c.Invoke("close")
	require.NoError(t, err)
	require.Empty(t, w.PopupHandles())

	_, err = c.Invoke("close")
	require.NoError(t, err)

	require.PanicsWithValue(t, "internal error: popup index 3 out of range in Menu", func() {
		_, _ = c.Invoke("open-missing")
	})
}

func TestInParent(t *testing.T) {
	// List > Outer row > Inner row. The inner row writes base + 1 two levels up.
	inner := &llr.SubComponent{
		Name: "Inner",
		InitCode: []llr.Expression{
			assign(&llr.InParentRef{Level: 2, Inner: local(1)}, add(read(&llr.InParentRef{Level: 2, Inner: local(0)}), num(1))),
		},
	}
	outer := &llr.SubComponent{
		Name: "Outer",
		Properties: []llr.Property{
			{Name: "base", Type: langtype.Int32},
			{Name: "seen", Type: langtype.Int32},
		},
		PropertyInit: []llr.PropertyInit{{Ref: local(0), Binding: &llr.BindingExpression{Expression: num(7), IsConstant: true}}},
		Repeated: []llr.RepeatedElement{{
			Model:   num(1),
			SubTree: llr.ItemTree{Root: inner, Tree: &llr.TreeNode{}},
		}},
	}
	app := &llr.SubComponent{
		Name: "Nested",
		Properties: []llr.Property{
			{Name: "base", Type: langtype.Int32},
			{Name: "seen", Type: langtype.Int32},
		},
		PropertyInit: []llr.PropertyInit{{Ref: local(0), Binding: &llr.BindingExpression{Expression: num(100), IsConstant: true}}},
		Repeated: []llr.RepeatedElement{{
			Model:   num(1),
			SubTree: llr.ItemTree{Root: outer, Tree: &llr.TreeNode{}},
		}},
	}
	c := create(t, publicComponent(app, exposeAll(app)))

	seen, err := c.GetProperty("seen")
	require.NoError(t, err)
	require.Equal(t, 101.0, seen)

	row, err := c.RepeatedInstance(0, 0)
	require.NoError(t, err)
	outerSeen, err := row.GetProperty("seen")
	require.NoError(t, err)
	require.Equal(t, 0.0, outerSeen, "the intermediate row is not written")
}

func TestTimers(t *testing.T) {
	count := local(0)
	app := &llr.SubComponent{
		Name: "Ticker",
		Properties: []llr.Property{
			{Name: "count", Type: langtype.Int32},
			{Name: "running", Type: langtype.Bool},
		},
		PropertyInit: []llr.PropertyInit{{Ref: local(1), Binding: &llr.BindingExpression{Expression: &llr.BoolLiteral{Value: true}, IsConstant: true}}},
		Timers: []llr.Timer{{
			Interval:  num(100),
			Running:   read(local(1)),
			Triggered: assign(count, add(read(count), num(1))),
		}},
	}
	c := create(t, publicComponent(app, exposeAll(app)))

	c.EventLoop().Advance(250 * time.Millisecond)
	v, _ := c.GetProperty("count")
	require.Equal(t, 2.0, v)

	require.NoError(t, c.SetProperty("running", false))
	c.EventLoop().Advance(time.Second)
	v, _ = c.GetProperty("count")
	require.Equal(t, 2.0, v)

	require.NoError(t, c.SetProperty("running", true))
	c.EventLoop().Advance(100 * time.Millisecond)
	v, _ = c.GetProperty("count")
	require.Equal(t, 3.0, v)
}

func TestChangeCallbacks(t *testing.T) {
	changes := local(1)
	app := &llr.SubComponent{
		Name: "Watcher",
		Properties: []llr.Property{
			{Name: "value", Type: langtype.Int32},
			{Name: "changes", Type: langtype.Int32},
		},
		ChangeCallbacks: []llr.ChangeCallback{{
			Property: local(0),
			Code:     assign(changes, add(read(changes), num(1))),
		}},
	}
	c := create(t, publicComponent(app, exposeAll(app)))

	for _, v := range []float64{5, 5, 6} {
		require.NoError(t, c.SetProperty("value", v))
	}
	n, _ := c.GetProperty("changes")
	require.Equal(t, 2.0, n)
}

func TestGlobals(t *testing.T) {
	palette := &llr.GlobalComponent{
		Name: "Palette",
		Properties: []llr.Property{
			{Name: "size", Type: langtype.LogicalLength},
			{Name: "double", Type: langtype.LogicalLength},
		},
		Functions: []llr.Function{{
			Name:       "grow",
			ReturnType: langtype.LogicalLength,
			Args:       []*langtype.Type{langtype.LogicalLength},
			Code: &llr.CodeBlock{Statements: []llr.Expression{
				assign(local(0), add(read(local(0)), &llr.FunctionParameterReference{Index: 0})),
				&llr.ReturnStatement{Value: read(local(0))},
				num(-1),
			}},
		}},
		InitValues: []*llr.BindingExpression{
			{Expression: num(10), IsConstant: true},
			binding(&llr.BinaryExpression{LHS: read(local(0)), RHS: num(2), Op: '*'}),
		},
		ConstProperties: []bool{false, false},
		PublicProperties: []llr.PublicProperty{
			{Name: "size", Type: langtype.LogicalLength, Ref: local(0)},
			{Name: "double", Type: langtype.LogicalLength, Ref: local(1), ReadOnly: true},
			{Name: "grow", Type: langtype.NewFunction(langtype.LogicalLength, langtype.LogicalLength), Ref: &llr.FunctionRef{FunctionIndex: 0}},
		},
		Exported: true,
		Aliases:  []string{"Theme"},
	}
	app := &llr.SubComponent{
		Name:       "Themed",
		Properties: []llr.Property{{Name: "width", Type: langtype.LogicalLength}},
		PropertyInit: []llr.PropertyInit{{
			Ref:     local(0),
			Binding: binding(read(&llr.GlobalRef{GlobalIndex: 0, PropertyIndex: 1})),
		}},
	}
	c := create(t, publicComponent(app, exposeAll(app), palette))

	v, err := c.GetGlobalProperty("Palette", "double")
	require.NoError(t, err)
	require.Equal(t, 20.0, v)

	require.NoError(t, c.SetGlobalProperty("Theme", "size", 15))
	width, _ := c.GetProperty("width")
	require.Equal(t, 30.0, width)

	grown, err := c.InvokeGlobal("Palette", "grow", 5)
	require.NoError(t, err)
	require.Equal(t, 20.0, grown, "return leaves the function early")

	require.ErrorIs(t, c.SetGlobalProperty("Palette", "double", 1), interpreter.ErrReadOnly)
	_, err = c.GetGlobalProperty("Missing", "size")
	require.ErrorIs(t, err, interpreter.ErrNoSuchGlobal)
}

func TestBoxLayout(t *testing.T) {
	cellData := func(info llr.Expression) llr.Expression {
		return &llr.Struct{Type: langtype.BoxLayoutCellDataStruct, Values: map[string]llr.Expression{"constraint": info}}
	}
	cells := &llr.ReadLocalVariable{Name: "cells", Type: langtype.NewArray(langtype.BoxLayoutCellDataStruct)}
	indices := &llr.ReadLocalVariable{Name: "repeated", Type: langtype.NewArray(langtype.Int32)}
	solve := &llr.ExtraBuiltinFunctionCall{
		ReturnType: langtype.LayoutCache,
		Function:   "solve_box_layout",
		Arguments: []llr.Expression{
			&llr.Struct{Type: langtype.BoxLayoutDataStruct, Values: map[string]llr.Expression{
				"size":      num(90),
				"spacing":   num(0),
				"padding":   &llr.Struct{Type: langtype.PaddingStruct, Values: map[string]llr.Expression{"begin": num(0), "end": num(0)}},
				"alignment": &llr.EnumerationValue{Value: langtype.LayoutAlignmentEnum.Default()},
				"cells":     cells,
			}},
			indices,
		},
	}
	cache := local(0)
	access := func(index int, repeated llr.Expression) *llr.BindingExpression {
		return binding(&llr.LayoutCacheAccess{LayoutCacheProp: cache, Index: index, RepeaterIndex: repeated})
	}
	row := &llr.SubComponent{Name: "Cell", LayoutInfoH: layoutInfo(1)}
	app := &llr.SubComponent{
		Name: "Layout",
		Properties: []llr.Property{
			{Name: "cache", Type: langtype.LayoutCache},
			{Name: "static-x", Type: langtype.LogicalLength},
			{Name: "static-width", Type: langtype.LogicalLength},
			{Name: "second-x", Type: langtype.LogicalLength},
		},
		Repeated: []llr.RepeatedElement{{
			Model:   num(2),
			SubTree: llr.ItemTree{Root: row, Tree: &llr.TreeNode{}},
		}},
		PropertyInit: []llr.PropertyInit{
			{Ref: cache, Binding: binding(&llr.BoxLayoutFunction{
				CellsVariable:   "cells",
				RepeaterIndices: "repeated",
				Elements:        []llr.LayoutElement{{Cell: cellData(layoutInfo(1))}, {Repeater: 0}},
				Orientation:     llr.Horizontal,
				SubExpression:   solve,
			})},
			{Ref: local(1), Binding: access(0, nil)},
			{Ref: local(2), Binding: access(1, nil)},
			{Ref: local(3), Binding: access(2, num(1))},
		},
	}
	c := create(t, publicComponent(app, exposeAll(app)))

	for name, want := range map[string]float64{"static-x": 0, "static-width": 30, "second-x": 60} {
		v, err := c.GetProperty(name)
		require.NoError(t, err)
		require.InDelta(t, want, v, runtime.Epsilon, name)
	}
}

func TestTranslations(t *testing.T) {
	unit := &llr.CompilationUnit{Translations: &llr.Translations{
		Languages: []string{"en", "de"},
		Strings:   [][]string{{"Hello {}", "Hallo {}"}},
		Plurals:   [][][]string{{{"{n} file", "{n} files"}, {"{n} Datei", "{n} Dateien"}}},
		PluralRules: []llr.Expression{nil, &llr.Condition{
			Condition: &llr.BinaryExpression{LHS: &llr.FunctionParameterReference{Index: 0}, RHS: num(1), Op: '='},
			TrueExpr:  num(0),
			FalseExpr: num(1),
		}},
	}}
	app := &llr.SubComponent{
		Name: "Greeter",
		Properties: []llr.Property{
			{Name: "greeting", Type: langtype.String},
			{Name: "files", Type: langtype.String},
		},
		PropertyInit: []llr.PropertyInit{
			{Ref: local(0), Binding: binding(&llr.TranslationReference{FormatArgs: &llr.Array{ElementType: langtype.String, Values: []llr.Expression{str("Welt")}}, StringIndex: 0})},
			{Ref: local(1), Binding: binding(&llr.TranslationReference{FormatArgs: array(), StringIndex: 0, Plural: num(3)})},
		},
	}
	own := publicComponent(app, exposeAll(app))
	unit.PublicComponents = own.PublicComponents

	c := create(t, unit, interpreter.WithLanguage("de-CH"))
	v, _ := c.GetProperty("greeting")
	require.Equal(t, "Hallo Welt", v)
	v, _ = c.GetProperty("files")
	require.Equal(t, "3 Dateien", v)

	c = create(t, unit)
	v, _ = c.GetProperty("greeting")
	require.Equal(t, "Hello Welt", v)
}

func TestDebugAndWindow(t *testing.T) {
	var logged []string
	app := &llr.SubComponent{
		Name: "Logger",
		Properties: []llr.Property{
			{Name: "scale", Type: langtype.Float32},
			{Name: "angle", Type: langtype.Float32},
			{Name: "rem", Type: langtype.Float32},
		},
		InitCode: []llr.Expression{
			&llr.BuiltinFunctionCall{Function: llr.Builtin(llr.BuiltinDebug), Arguments: []llr.Expression{str("hello"), num(42)}},
		},
		PropertyInit: []llr.PropertyInit{
			{Ref: local(0), Binding: binding(&llr.BuiltinFunctionCall{Function: llr.Builtin(llr.BuiltinGetWindowScaleFactor)})},
			{Ref: local(1), Binding: binding(&llr.BuiltinFunctionCall{Function: llr.Builtin(llr.BuiltinMod), Arguments: []llr.Expression{num(-1), num(360)}})},
			{Ref: local(2), Binding: binding(&llr.BuiltinFunctionCall{Function: llr.Builtin(llr.BuiltinMax), Arguments: []llr.Expression{num(3), num(9), num(4)}})},
		},
	}
	c := create(t, publicComponent(app, exposeAll(app)),
		interpreter.WithScaleFactor(2),
		interpreter.WithDebugHandler(func(msg string) { logged = append(logged, msg) }))

	require.Equal(t, []string{"hello 42"}, logged)
	for name, want := range map[string]float64{"scale": 2, "angle": 359, "rem": 9} {
		v, err := c.GetProperty(name)
		require.NoError(t, err)
		require.Equal(t, want, v, name)
	}

	c.Show()
	require.True(t, c.Window().Visible())
	c.Hide()
	require.False(t, c.Window().Visible())
}

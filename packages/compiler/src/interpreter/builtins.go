package interpreter

import (
	"math"
	"strconv"
	"strings"

	"slintc-go/packages/compiler/src/langtype"
	"slintc-go/packages/compiler/src/llr"
	"slintc-go/packages/compiler/src/runtime"
	"slintc-go/packages/compiler/src/util"
)

const degrees = math.Pi / 180

func (f *frame) builtin(e *llr.BuiltinFunctionCall) runtime.Value {
	args := e.Arguments
	arg := func(i int) runtime.Value {
		if i >= len(args) {
			util.InternalError("%s expects at least %d arguments", e.Function.Kind, i+1)
		}
		return f.eval(args[i])
	}
	num := func(i int) float64 {
		return runtime.Number(arg(i))
	}
	sys := f.scope.system()

	switch e.Function.Kind {
	case llr.BuiltinGetWindowScaleFactor:
		if sys == nil {
			return 1.0
		}
		return sys.window.ScaleFactor()
	case llr.BuiltinGetWindowDefaultFontSize:
		if sys == nil {
			return 12.0
		}
		return sys.window.DefaultFontSize()
	case llr.BuiltinAnimationTick:
		if sys == nil {
			return 0.0
		}
		return float64(sys.loop.Now().Milliseconds())
	case llr.BuiltinDebug:
		parts := make([]string, len(args))
		for i := range args {
			parts[i] = valueString(arg(i))
		}
		if sys != nil {
			sys.debug(strings.Join(parts, " "))
		}
		return nil
	case llr.BuiltinMod:
		return runtime.FloorMod(num(0), num(1))
	case llr.BuiltinRound:
		return math.Round(num(0))
	case llr.BuiltinCeil:
		return math.Ceil(num(0))
	case llr.BuiltinFloor:
		return math.Floor(num(0))
	case llr.BuiltinAbs:
		return math.Abs(num(0))
	case llr.BuiltinSqrt:
		return math.Sqrt(num(0))
	case llr.BuiltinCos:
		return math.Cos(num(0) * degrees)
	case llr.BuiltinSin:
		return math.Sin(num(0) * degrees)
	case llr.BuiltinTan:
		return math.Tan(num(0) * degrees)
	case llr.BuiltinACos:
		return math.Acos(num(0)) / degrees
	case llr.BuiltinASin:
		return math.Asin(num(0)) / degrees
	case llr.BuiltinATan:
		return math.Atan(num(0)) / degrees
	case llr.BuiltinATan2:
		return math.Atan2(num(0), num(1)) / degrees
	case llr.BuiltinLog:
		return math.Log(num(0)) / math.Log(num(1))
	case llr.BuiltinPow:
		return math.Pow(num(0), num(1))
	case llr.BuiltinMin, llr.BuiltinMax:
		if len(args) == 0 {
			util.InternalError("%s without arguments", e.Function.Kind)
		}
		r := num(0)
		for i := 1; i < len(args); i++ {
			if e.Function.Kind == llr.BuiltinMin {
				r = math.Min(r, num(i))
			} else {
				r = math.Max(r, num(i))
			}
		}
		return r
	case llr.BuiltinSetFocusItem, llr.BuiltinClearFocusItem:
		if t, ok := f.itemArg(args, 0); ok {
			sys.window.SetFocusItem(t.itemRef(), e.Function.Kind == llr.BuiltinSetFocusItem)
		}
		return nil
	case llr.BuiltinShowPopupWindow, llr.BuiltinShowPopupMenu:
		index := int(num(0))
		x, y := num(1), num(2)
		if t, ok := f.itemArg(args, 3); ok {
			t.owner.inst.showPopup(index, x, y, e.Function.Kind == llr.BuiltinShowPopupMenu)
		}
		return nil
	case llr.BuiltinClosePopupWindow:
		index := int(num(0))
		if t, ok := f.itemArg(args, 1); ok {
			t.owner.inst.closePopup(index)
		}
		return nil
	case llr.BuiltinItemMemberFunction:
		// native items have no behavior here
		return nil
	case llr.BuiltinStringToFloat:
		v, err := strconv.ParseFloat(strings.TrimSpace(runtime.String(arg(0))), 64)
		if err != nil {
			return 0.0
		}
		return v
	case llr.BuiltinStringIsFloat:
		_, err := strconv.ParseFloat(strings.TrimSpace(runtime.String(arg(0))), 64)
		return err == nil
	case llr.BuiltinColorBrighter:
		return toColor(arg(0)).Brighter(num(1))
	case llr.BuiltinColorDarker:
		return toColor(arg(0)).Darker(num(1))
	case llr.BuiltinColorTransparentize:
		return toColor(arg(0)).Transparentize(num(1))
	case llr.BuiltinColorMix:
		return toColor(arg(0)).Mix(toColor(arg(1)), num(2))
	case llr.BuiltinColorWithAlpha:
		return toColor(arg(0)).WithAlpha(num(1))
	case llr.BuiltinImageSize:
		img, _ := arg(0).(runtime.Image)
		return runtime.NewStruct(map[string]runtime.Value{
			"width":  float64(img.Width),
			"height": float64(img.Height),
		})
	case llr.BuiltinArrayLength:
		return float64(runtime.ModelLength(arg(0)))
	case llr.BuiltinRgb:
		alpha := 1.0
		if len(args) > 3 {
			alpha = num(3)
		}
		return runtime.ColorFromRgba(num(0), num(1), num(2), alpha)
	case llr.BuiltinDarkColorScheme:
		return sys != nil && sys.window.DarkColorScheme()
	case llr.BuiltinTextInputFocused:
		return sys != nil && sys.window.TextInputFocused()
	case llr.BuiltinSetTextInputFocused:
		if sys != nil {
			sys.window.SetTextInputFocused(runtime.Bool(arg(0)))
		}
		return nil
	case llr.BuiltinImplicitLayoutInfo:
		return runtime.DefaultLayoutInfo().ToStruct()
	case llr.BuiltinItemAbsolutePosition:
		t, ok := f.itemArg(args, 0)
		pos := map[string]runtime.Value{"x": 0.0, "y": 0.0}
		if ok {
			for name := range pos {
				pos[name] = runtime.Number(t.owner.inst.itemProperty(t.index, name, langtype.LogicalLength).Get())
			}
		}
		return runtime.NewStruct(pos)
	case llr.BuiltinRegisterCustomFontByPath:
		sys.window.RegisterFont(runtime.String(arg(0)))
		return nil
	case llr.BuiltinRegisterCustomFontByMemory:
		sys.window.RegisterFont("resource:" + strconv.Itoa(int(num(0))))
		return nil
	case llr.BuiltinRegisterBitmapFont:
		sys.window.RegisterFont("bitmap:" + strconv.Itoa(int(num(0))))
		return nil
	case llr.BuiltinTranslate:
		return runtime.Translate(runtime.String(arg(0)), runtime.String(arg(1)), runtime.String(arg(2)),
			stringsOf(arg(3)), int(num(4)), runtime.String(arg(5)))
	}
	util.InternalError("unsupported builtin %s", e.Function.Kind)
	return nil
}

// itemArg resolves argument i, which must name an item. ok is false when the item's
// component is gone.
func (f *frame) itemArg(args []llr.Expression, i int) (target, bool) {
	if i < len(args) {
		if p, ok := args[i].(*llr.PropertyReferenceExpr); ok && llr.IsItemReference(p.Ref) {
			return f.scope.resolve(p.Ref)
		}
	}
	util.InternalError("argument %d must be an item reference", i)
	return target{}, false
}

// extraBuiltin runs the layout helpers. '-' and '_' are interchangeable in their names.
func (f *frame) extraBuiltin(e *llr.ExtraBuiltinFunctionCall) runtime.Value {
	args := f.evalAll(e.Arguments)
	arg := func(i int) runtime.Value {
		if i >= len(args) {
			util.InternalError("%s expects at least %d arguments", e.Function, i+1)
		}
		return args[i]
	}
	alignment := func(v runtime.Value) string {
		a, _ := v.(runtime.EnumValue)
		return a.Value
	}
	switch strings.ReplaceAll(e.Function, "-", "_") {
	case "solve_box_layout":
		var indices []int
		if len(args) > 1 {
			m := runtime.ModelFromValue(args[1])
			for i := 0; i < m.RowCount(); i++ {
				indices = append(indices, int(runtime.Number(m.RowData(i))))
			}
		}
		return runtime.SolveBoxLayout(runtime.BoxLayoutDataFromValue(arg(0)), indices)
	case "box_layout_info":
		return runtime.BoxLayoutInfo(runtime.CellsFromValue(arg(0)), runtime.Number(arg(1)),
			runtime.PaddingFromValue(arg(2)), alignment(arg(3))).ToStruct()
	case "box_layout_info_ortho":
		return runtime.BoxLayoutInfoOrtho(runtime.CellsFromValue(arg(0)), runtime.PaddingFromValue(arg(1))).ToStruct()
	}
	util.InternalError("unknown runtime function %s", e.Function)
	return nil
}

// boxLayout collects the cells of a box layout, expanding repeaters into one cell per row
func (f *frame) boxLayout(e *llr.BoxLayoutFunction) runtime.Value {
	cells := runtime.NewVecModel()
	var indices []runtime.Value
	for _, el := range e.Elements {
		if !el.IsRepeater() {
			cells.Push(f.eval(el.Cell))
			continue
		}
		inst := f.scope.inst
		if inst == nil {
			util.InternalError("repeated layout cells outside of a component")
		}
		checkIndex(el.Repeater, len(inst.repeaters), "repeater", inst.sc.Name)
		rep := inst.repeaters[el.Repeater]
		inst.ensureUpdated(rep)
		if e.RepeaterIndices != "" {
			indices = append(indices, float64(cells.RowCount()), float64(len(rep.rows)))
		}
		for _, row := range rep.rows {
			cells.Push(row.layoutCell(e.Orientation))
		}
	}
	f.setLocal(e.CellsVariable, cells)
	if e.RepeaterIndices != "" {
		f.setLocal(e.RepeaterIndices, runtime.NewVecModel(indices...))
	}
	return f.eval(e.SubExpression)
}

// layoutCell is the BoxLayoutCellData of a repeated row
func (inst *instance) layoutCell(o llr.Orientation) runtime.Value {
	expr := inst.sc.LayoutInfoH
	if o == llr.Vertical {
		expr = inst.sc.LayoutInfoV
	}
	var info runtime.Value = runtime.DefaultLayoutInfo().ToStruct()
	if expr != nil {
		info = inst.scope().evaluate(expr)
	}
	return runtime.NewStruct(map[string]runtime.Value{"constraint": info})
}

// dialogLayout assigns the columns of the dialog buttons
func (f *frame) dialogLayout(e *llr.ComputeDialogLayoutCells) runtime.Value {
	unsorted := runtime.ModelFromValue(f.eval(e.UnsortedCells))
	rolesModel := runtime.ModelFromValue(f.eval(e.Roles))
	cells := make([]runtime.Struct, unsorted.RowCount())
	for i := range cells {
		cells[i], _ = unsorted.RowData(i).(runtime.Struct)
	}
	roles := make([]string, rolesModel.RowCount())
	for i := range roles {
		r, _ := rolesModel.RowData(i).(runtime.EnumValue)
		roles[i] = r.Value
	}
	runtime.ReorderDialogButtonLayout(cells, roles)
	values := make([]runtime.Value, len(cells))
	for i, c := range cells {
		values[i] = c
	}
	f.setLocal(e.CellsVariable, runtime.NewVecModel(values...))
	return nil
}

func (f *frame) translation(e *llr.TranslationReference) runtime.Value {
	sys := f.scope.system()
	if sys == nil || sys.bundle == nil {
		util.InternalError("translation reference without bundled translations")
	}
	args := stringsOf(f.eval(e.FormatArgs))
	if e.Plural == nil {
		return sys.bundle.Translate(e.StringIndex, args)
	}
	return sys.bundle.TranslatePlural(e.StringIndex, int(runtime.Number(f.eval(e.Plural))), args)
}

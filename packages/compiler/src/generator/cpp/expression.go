package cpp

import (
	"fmt"
	"strconv"
	"strings"

	"slintc-go/packages/compiler/src/langtype"
	"slintc-go/packages/compiler/src/llr"
	"slintc-go/packages/compiler/src/output"
	"slintc-go/packages/compiler/src/util"
)

func itoa(i int) string {
	return strconv.Itoa(i)
}

func stringLiteral(s string) string {
	return `slint::SharedString(u8"` + output.EscapeString(s) + `")`
}

// compileExpression renders e as a C++ expression
func compileExpression(e llr.Expression, ctx *evalCtx) string {
	switch e := e.(type) {
	case *llr.StringLiteral:
		return stringLiteral(e.Value)
	case *llr.NumberLiteral:
		return output.FormatNumber(e.Value)
	case *llr.BoolLiteral:
		if e.Value {
			return "true"
		}
		return "false"
	case *llr.PropertyReferenceExpr:
		if llr.IsItemReference(e.Ref) {
			util.InternalError("item reference %s used as a value", e.Ref)
		}
		return guardedAccess(e.Ref, ctx.PropertyType(e.Ref), ctx, func(m string) string { return m + ".get()" })
	case *llr.FunctionParameterReference:
		return argName(e.Index)
	case *llr.StoreLocalVariable:
		return fmt.Sprintf("[[maybe_unused]] auto %s = %s", ident(e.Name), compileExpression(e.Value, ctx))
	case *llr.ReadLocalVariable:
		return ident(e.Name)
	case *llr.StructFieldAccess:
		base := llr.TypeOf(e.Base, ctx)
		if base.Name == "" {
			index := -1
			for i, f := range base.Fields {
				if f.Name == e.Name {
					index = i
				}
			}
			if index < 0 {
				util.InternalError("no field %q in %s", e.Name, base)
			}
			return fmt.Sprintf("std::get<%d>(%s)", index, compileExpression(e.Base, ctx))
		}
		return fmt.Sprintf("%s.%s", compileExpression(e.Base, ctx), ident(e.Name))
	case *llr.ArrayIndex:
		return fmt.Sprintf("slint::private_api::access_array_index(%s, %s)",
			compileExpression(e.Array, ctx), compileExpression(e.Index, ctx))
	case *llr.Cast:
		return compileCast(e, ctx)
	case *llr.CodeBlock:
		return compileCodeBlock(e, ctx)
	case *llr.BuiltinFunctionCall:
		return compileBuiltinCall(e, ctx)
	case *llr.CallbackCall:
		args := compileArguments(e.Arguments, ctx)
		return guardedAccess(e.Callback, llr.TypeOf(e, ctx), ctx, func(m string) string { return m + ".call(" + args + ")" })
	case *llr.FunctionCall:
		args := compileArguments(e.Arguments, ctx)
		return guardedAccess(e.Function, llr.TypeOf(e, ctx), ctx, func(m string) string { return m + "(" + args + ")" })
	case *llr.ExtraBuiltinFunctionCall:
		return fmt.Sprintf("slint::private_api::%s(%s)", e.Function, compileArguments(e.Arguments, ctx))
	case *llr.PropertyAssignment:
		value := compileExpression(e.Value, ctx)
		return guardedAccess(e.Property, langtype.Void, ctx, func(m string) string { return m + ".set(" + value + ")" })
	case *llr.ModelDataAssignment:
		return compileModelDataAssignment(e, ctx)
	case *llr.ArrayIndexAssignment:
		return fmt.Sprintf("[&](auto index, const auto &base) { if (index >= 0. && std::size_t(index) < base->row_count()) base->set_row_data(index, %s); }(%s, %s)",
			compileExpression(e.Value, ctx), compileExpression(e.Index, ctx), compileExpression(e.Array, ctx))
	case *llr.BinaryExpression:
		return compileBinary(e, ctx)
	case *llr.UnaryOp:
		sub := compileExpression(e.Sub, ctx)
		if e.Op == '+' {
			return sub
		}
		return fmt.Sprintf("(%c %s)", e.Op, sub)
	case *llr.ImageReference:
		return compileImage(e)
	case *llr.Condition:
		return compileCondition(e, ctx)
	case *llr.Array:
		return compileArray(e, ctx)
	case *llr.Struct:
		return compileStruct(e, ctx)
	case *llr.EasingCurveExpr:
		return compileEasing(e.Curve)
	case *llr.LinearGradient:
		return fmt.Sprintf("[&] { const slint::private_api::GradientStop stops[] = { %s }; return slint::Brush(slint::private_api::LinearGradientBrush(%s, stops, %d)); }()",
			compileStops(e.Stops, ctx), compileExpression(e.Angle, ctx), len(e.Stops))
	case *llr.RadialGradient:
		return fmt.Sprintf("[&] { const slint::private_api::GradientStop stops[] = { %s }; return slint::Brush(slint::private_api::RadialGradientBrush(stops, %d)); }()",
			compileStops(e.Stops, ctx), len(e.Stops))
	case *llr.EnumerationValue:
		return enumValue(e.Value)
	case *llr.ReturnStatement:
		return compileReturn(e, ctx)
	case *llr.LayoutCacheAccess:
		cache := accessMember(e.LayoutCacheProp, ctx) + ".get()"
		if e.RepeaterIndex == nil {
			return fmt.Sprintf("%s[%d]", cache, e.Index)
		}
		return fmt.Sprintf("[&](const auto &cache) { return cache[int(cache[%d]) + int(%s) * 2]; }(%s)",
			e.Index, compileExpression(e.RepeaterIndex, ctx), cache)
	case *llr.BoxLayoutFunction:
		return compileBoxLayoutFunction(e, ctx)
	case *llr.ComputeDialogLayoutCells:
		return compileDialogLayoutCells(e, ctx)
	case *llr.TranslationReference:
		return compileTranslation(e, ctx)
	}
	util.InternalError("unknown expression %T", e)
	return ""
}

func compileArguments(args []llr.Expression, ctx *evalCtx) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = compileExpression(a, ctx)
	}
	return strings.Join(parts, ", ")
}

func enumValue(v langtype.EnumerationValue) string {
	if v.Enumeration.Builtin {
		return fmt.Sprintf("slint::cbindgen_private::%s::%s", ident(v.Enumeration.Name), pascalIdent(v.Name()))
	}
	return fmt.Sprintf("%s::%s", ident(v.Enumeration.Name), pascalIdent(v.Name()))
}

func compileCast(e *llr.Cast, ctx *evalCtx) string {
	from := llr.TypeOf(e.From, ctx)
	f := compileExpression(e.From, ctx)
	switch {
	case from.Kind == langtype.KindFloat32 && e.To.Kind == langtype.KindInt32:
		return fmt.Sprintf("static_cast<int>(%s)", f)
	case from.IsNumber() && e.To.Kind == langtype.KindString:
		return fmt.Sprintf("slint::SharedString::from_number(%s)", f)
	case from.IsNumber() && e.To.Kind == langtype.KindModel:
		return fmt.Sprintf("std::make_shared<slint::private_api::UIntModel>(std::max<int>(0, %s))", f)
	case from.Kind == langtype.KindBool && e.To.Kind == langtype.KindModel:
		return fmt.Sprintf("std::make_shared<slint::private_api::UIntModel>(%s)", f)
	case from.IsNumber() && e.To.Kind == langtype.KindColor:
		return fmt.Sprintf("slint::Color::from_argb_encoded(%s)", f)
	case from.Kind == langtype.KindColor && e.To.Kind == langtype.KindBrush:
		return fmt.Sprintf("slint::Brush(%s)", f)
	case from.Kind == langtype.KindStruct && e.To.Kind == langtype.KindStruct && !from.Equal(e.To):
		return compileStructCast(f, from, e.To)
	case from.Kind == langtype.KindEnumeration && e.To.Kind == langtype.KindString:
		return fmt.Sprintf("slint::SharedString(slint::private_api::enum_to_string(%s))", f)
	}
	return f
}

// compileStructCast converts between struct types by copying the common fields
func compileStructCast(f string, from, to *langtype.Type) string {
	var b strings.Builder
	b.WriteString("[&](const auto &o) { ")
	b.WriteString(mustCppType(to))
	b.WriteString(" s{}; ")
	for i, field := range to.Fields {
		idx := -1
		for j, ff := range from.Fields {
			if ff.Name == field.Name {
				idx = j
			}
		}
		if idx < 0 {
			continue
		}
		src := "o." + ident(field.Name)
		if from.Name == "" {
			src = fmt.Sprintf("std::get<%d>(o)", idx)
		}
		if to.Name == "" {
			fmt.Fprintf(&b, "std::get<%d>(s) = %s; ", i, src)
		} else {
			fmt.Fprintf(&b, "s.%s = %s; ", ident(field.Name), src)
		}
	}
	b.WriteString("return s; }(")
	b.WriteString(f)
	b.WriteString(")")
	return b.String()
}

func compileCodeBlock(e *llr.CodeBlock, ctx *evalCtx) string {
	switch len(e.Statements) {
	case 0:
		return ""
	case 1:
		return compileExpression(e.Statements[0], ctx)
	}
	parts := make([]string, len(e.Statements))
	last := len(e.Statements) - 1
	for i, s := range e.Statements {
		if i == last {
			parts[i] = returnCompileExpression(s, ctx)
		} else {
			parts[i] = compileExpression(s, ctx)
		}
	}
	return "[&]{ " + strings.Join(parts, "; ") + "; }()"
}

// returnCompileExpression makes the last statement of a block the value of the block
func returnCompileExpression(e llr.Expression, ctx *evalCtx) string {
	t := llr.TypeOf(e, ctx)
	code := compileExpression(e, ctx)
	if t.Kind == langtype.KindVoid || t.Kind == langtype.KindInvalid {
		return code
	}
	return "return " + code
}

// compileReturn leaves the enclosing function. Blocks are compiled to lambdas, so the
// value travels as an exception caught by compileFunctionBody.
func compileReturn(e *llr.ReturnStatement, ctx *evalCtx) string {
	rt := ctx.GeneratorState.returnType
	if rt == "" {
		util.InternalError("return statement outside of a function")
	}
	if e.Value == nil || rt == "void" {
		if e.Value != nil {
			return fmt.Sprintf("(%s, throw slint::private_api::ReturnWrapper<void>())", compileExpression(e.Value, ctx))
		}
		return "throw slint::private_api::ReturnWrapper<void>()"
	}
	return fmt.Sprintf("throw slint::private_api::ReturnWrapper<%s>(%s)", rt, compileExpression(e.Value, ctx))
}

// compileFunctionBody renders the statements of a function, callback handler or binding
// returning a value of type ret
func compileFunctionBody(e llr.Expression, ret *langtype.Type, ctx *evalCtx) string {
	if e == nil {
		return ""
	}
	rt := "void"
	if ret != nil && ret.Kind != langtype.KindVoid {
		rt = mustCppType(ret)
	}
	hasReturn := false
	llr.VisitRecursive(e, func(sub llr.Expression) {
		if _, ok := sub.(*llr.ReturnStatement); ok {
			hasReturn = true
		}
	})
	state := ctx.GeneratorState
	state.returnType = rt
	ctx = ctx.WithState(state)

	body := compileExpression(e, ctx)
	if rt != "void" {
		if rt2 := llr.TypeOf(e, ctx); rt2.Kind != langtype.KindVoid && rt2.Kind != langtype.KindInvalid {
			body = "return " + body
		}
	}
	if !hasReturn {
		return body + ";"
	}
	if rt == "void" {
		return fmt.Sprintf("try { %s; } catch (const slint::private_api::ReturnWrapper<void> &) { }", body)
	}
	return fmt.Sprintf("try { %s; } catch (const slint::private_api::ReturnWrapper<%s> &w) { return w.value; } return %s{};", body, rt, rt)
}

func compileModelDataAssignment(e *llr.ModelDataAssignment, ctx *evalCtx) string {
	value := compileExpression(e.Value, ctx)
	path := "self"
	owner := ctx
	repeaterIndex := llr.NoRepeater
	for i := 0; i <= e.Level; i++ {
		if owner.Parent == nil {
			util.InternalError("model data assignment escapes the root context")
		}
		repeaterIndex = owner.Parent.RepeaterIndex
		owner = owner.Parent.Ctx
		path += "->parent.lock().value()"
	}
	if repeaterIndex == llr.NoRepeater {
		util.InternalError("model data assignment outside of a repeater")
	}
	rep := owner.CurrentSubComponent.Repeated[repeaterIndex]
	if rep.IndexProp == nil {
		util.InternalError("model data assignment in a repeater without index")
	}
	var indexRef llr.PropertyReference = &llr.LocalRef{PropertyIndex: *rep.IndexProp}
	if e.Level > 0 {
		indexRef = llr.NewInParent(e.Level, indexRef)
	}
	return fmt.Sprintf("%s->repeater_%d.model_set_row_data(%s.get(), %s)",
		path, repeaterIndex, accessMember(indexRef, ctx), value)
}

func compileBinary(e *llr.BinaryExpression, ctx *evalCtx) string {
	lhsType := llr.TypeOf(e.LHS, ctx)
	lhs := compileExpression(e.LHS, ctx)
	rhs := compileExpression(e.RHS, ctx)
	switch e.Op {
	case '=', '!':
		if lhsType.IsUnitProduct() {
			eq := fmt.Sprintf("slint::private_api::approx_eq<float>(%s, %s)", lhs, rhs)
			if e.Op == '!' {
				return "!" + eq
			}
			return eq
		}
		if e.Op == '=' {
			return fmt.Sprintf("(%s == %s)", lhs, rhs)
		}
		return fmt.Sprintf("(%s != %s)", lhs, rhs)
	case '/', '-':
		if lhsType.IsNumber() {
			return fmt.Sprintf("(%s %c (double)%s)", lhs, e.Op, rhs)
		}
	case '≤':
		return fmt.Sprintf("(%s <= %s)", lhs, rhs)
	case '≥':
		return fmt.Sprintf("(%s >= %s)", lhs, rhs)
	case '&':
		return fmt.Sprintf("(%s && %s)", lhs, rhs)
	case '|':
		return fmt.Sprintf("(%s || %s)", lhs, rhs)
	}
	return fmt.Sprintf("(%s %c %s)", lhs, e.Op, rhs)
}

func compileImage(e *llr.ImageReference) string {
	switch e.Kind {
	case llr.ImageAbsolutePath:
		return fmt.Sprintf("slint::Image::load_from_path(%s)", stringLiteral(e.Path))
	case llr.ImageEmbeddedData:
		return fmt.Sprintf(`slint::private_api::load_image_from_embedded_data(std::span(%s, std::size(%s)), "%s")`,
			resourceSymbol(e.ResourceID), resourceSymbol(e.ResourceID), output.EscapeString(e.Extension))
	case llr.ImageEmbeddedTexture:
		return fmt.Sprintf("slint::private_api::image_from_embedded_textures(&%s)", resourceSymbol(e.ResourceID))
	}
	return "slint::Image()"
}

func compileCondition(e *llr.Condition, ctx *evalCtx) string {
	t := llr.TypeOf(e.TrueExpr, ctx)
	if t.Kind == langtype.KindInvalid {
		t = llr.TypeOf(e.FalseExpr, ctx)
	}
	cond := output.RemoveParentheses(compileExpression(e.Condition, ctx))
	trueCode := compileExpression(e.TrueExpr, ctx)
	falseCode := compileExpression(e.FalseExpr, ctx)
	if t.Kind == langtype.KindVoid || t.Kind == langtype.KindInvalid {
		return fmt.Sprintf("[&]() -> void { if (%s) { %s; } else { %s; }}()", cond, trueCode, falseCode)
	}
	rt := mustCppType(t)
	return fmt.Sprintf("[&]() -> %s { if (%s) { %s; } else { %s; }}()",
		rt, cond, returnable(e.TrueExpr, trueCode, ctx), returnable(e.FalseExpr, falseCode, ctx))
}

// returnable drops the return of a branch that leaves the function itself
func returnable(e llr.Expression, code string, ctx *evalCtx) string {
	if llr.TypeOf(e, ctx).Kind == langtype.KindInvalid {
		return code
	}
	return "return " + code
}

func compileArray(e *llr.Array, ctx *evalCtx) string {
	ty := mustCppType(e.ElementType)
	values := make([]string, len(e.Values))
	for i, v := range e.Values {
		values[i] = fmt.Sprintf("%s ( %s )", ty, compileExpression(v, ctx))
	}
	if e.AsModel {
		if len(values) == 0 {
			return fmt.Sprintf("std::make_shared<slint::private_api::ArrayModel<0, %s>>()", ty)
		}
		return fmt.Sprintf("std::make_shared<slint::private_api::ArrayModel<%d, %s>>(%s)", len(values), ty, strings.Join(values, ", "))
	}
	return fmt.Sprintf("slint::cbindgen_private::Slice<%s>{ std::array<%s, %d>{ %s }.data(), %d }",
		ty, ty, len(values), strings.Join(values, ", "), len(values))
}

func compileStruct(e *llr.Struct, ctx *evalCtx) string {
	if e.Type.Name == "" {
		elems := make([]string, len(e.Type.Fields))
		for i, f := range e.Type.Fields {
			v, ok := e.Values[f.Name]
			if !ok {
				util.InternalError("missing field %q in struct literal", f.Name)
			}
			elems[i] = compileExpression(v, ctx)
		}
		return "std::make_tuple(" + strings.Join(elems, ", ") + ")"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "[&]{ %s o{}; ", mustCppType(e.Type))
	for _, name := range e.SortedFieldNames() {
		fmt.Fprintf(&b, "o.%s = %s; ", ident(name), compileExpression(e.Values[name], ctx))
	}
	b.WriteString("return o; }()")
	return b.String()
}

func compileEasing(c llr.EasingCurve) string {
	switch c.Kind {
	case llr.EasingLinear:
		return "slint::cbindgen_private::EasingCurve()"
	case llr.EasingCubicBezier:
		return fmt.Sprintf("slint::cbindgen_private::EasingCurve(slint::cbindgen_private::EasingCurve::Tag::CubicBezier, %s, %s, %s, %s)",
			output.FormatNumber(c.X1), output.FormatNumber(c.Y1), output.FormatNumber(c.X2), output.FormatNumber(c.Y2))
	}
	return fmt.Sprintf("slint::cbindgen_private::EasingCurve(slint::cbindgen_private::EasingCurve::Tag::%s, 0, 0, 1, 1)",
		util.DashCaseToPascalCase(c.Kind.String()))
}

func compileStops(stops []llr.GradientStop, ctx *evalCtx) string {
	parts := make([]string, len(stops))
	for i, s := range stops {
		parts[i] = fmt.Sprintf("slint::private_api::GradientStop{ %s, float(%s), }",
			compileExpression(s.Color, ctx), compileExpression(s.Position, ctx))
	}
	return strings.Join(parts, ", ")
}

func compileBoxLayoutFunction(e *llr.BoxLayoutFunction, ctx *evalCtx) string {
	orientation := "slint::cbindgen_private::Orientation::Horizontal"
	if e.Orientation == llr.Vertical {
		orientation = "slint::cbindgen_private::Orientation::Vertical"
	}
	cellsVariable := ident(e.CellsVariable)
	var pushCode []string
	repeaterIdx := 0
	staticCount := 0
	for _, el := range e.Elements {
		if !el.IsRepeater() {
			pushCode = append(pushCode, fmt.Sprintf("cells_vector.push_back(%s);", compileExpression(el.Cell, ctx)))
			staticCount++
			continue
		}
		pushCode = append(pushCode, fmt.Sprintf("self->repeater_%d.ensure_updated(self);", el.Repeater))
		if e.RepeaterIndices != "" {
			pushCode = append(pushCode,
				fmt.Sprintf("%s_array[%d] = cells_vector.size();", ident(e.RepeaterIndices), repeaterIdx*2),
				fmt.Sprintf("%s_array[%d] = self->repeater_%d.len();", ident(e.RepeaterIndices), repeaterIdx*2+1, el.Repeater))
		}
		repeaterIdx++
		pushCode = append(pushCode, fmt.Sprintf("self->repeater_%d.for_each([&](const auto &sub_comp){ cells_vector.push_back(sub_comp->box_layout_data(%s)); });",
			el.Repeater, orientation))
	}
	var b strings.Builder
	b.WriteString("[&]{ ")
	if e.RepeaterIndices != "" {
		ri := ident(e.RepeaterIndices)
		fmt.Fprintf(&b, "std::array<unsigned int, %d> %s_array; ", repeaterIdx*2, ri)
	}
	fmt.Fprintf(&b, "std::vector<slint::cbindgen_private::BoxLayoutCellData> cells_vector; cells_vector.reserve(%d); ", staticCount)
	b.WriteString(strings.Join(pushCode, " "))
	fmt.Fprintf(&b, " slint::cbindgen_private::Slice<slint::cbindgen_private::BoxLayoutCellData> %s = slint::private_api::make_slice(std::span(cells_vector)); ", cellsVariable)
	if e.RepeaterIndices != "" {
		ri := ident(e.RepeaterIndices)
		fmt.Fprintf(&b, "slint::cbindgen_private::Slice<unsigned int> %s = slint::private_api::make_slice(std::span(%s_array)); ", ri, ri)
	}
	fmt.Fprintf(&b, "return %s; }()", compileExpression(e.SubExpression, ctx))
	return b.String()
}

func compileDialogLayoutCells(e *llr.ComputeDialogLayoutCells, ctx *evalCtx) string {
	arr, ok := e.UnsortedCells.(*llr.Array)
	if !ok {
		util.InternalError("dialog layout cells must be an array literal")
	}
	cells := make([]string, len(arr.Values))
	for i, v := range arr.Values {
		cells[i] = compileExpression(v, ctx)
	}
	cv := ident(e.CellsVariable)
	return fmt.Sprintf("slint::cbindgen_private::GridLayoutCellData %s_array [] = { %s }; "+
		"slint::cbindgen_private::slint_reorder_dialog_button_layout(%s_array, %s); "+
		"slint::cbindgen_private::Slice<slint::cbindgen_private::GridLayoutCellData> %s = slint::private_api::make_slice(std::span(%s_array))",
		cv, strings.Join(cells, ", "), cv, compileExpression(e.Roles, ctx), cv, cv)
}

func compileTranslation(e *llr.TranslationReference, ctx *evalCtx) string {
	tr := ctx.Unit.Translations
	if tr == nil {
		util.InternalError("translation reference without bundled translations")
	}
	languages := len(tr.Languages)
	args := compileExpression(e.FormatArgs, ctx)
	if e.Plural == nil {
		return fmt.Sprintf("slint::private_api::translate_from_bundle(std::span(&slint_translation_bundle_strings[%d], %d), %s)",
			e.StringIndex*languages, languages, args)
	}
	return fmt.Sprintf("slint::private_api::translate_from_bundle_with_plural(std::span(%s, %d), std::span(slint_translated_plural_rules, %d), %s, %s)",
		pluralTableSymbol(e.StringIndex), languages, languages, args, compileExpression(e.Plural, ctx))
}

package js

import (
	"fmt"
	"strings"

	"slintc-go/packages/compiler/src/langtype"
	"slintc-go/packages/compiler/src/llr"
	"slintc-go/packages/compiler/src/output"
	"slintc-go/packages/compiler/src/util"
)

// stringLiteral quotes s for JavaScript. Modules are strict, so NUL cannot be an octal escape.
func stringLiteral(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\':
			sb.WriteString(`\\`)
		case '"':
			sb.WriteString(`\"`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			if r < 0x20 {
				fmt.Fprintf(&sb, `\x%02x`, r)
			} else {
				sb.WriteRune(r)
			}
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

// compileExpression renders e as a JavaScript expression
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
		return fmt.Sprintf("let %s = %s", ident(e.Name), compileExpression(e.Value, ctx))
	case *llr.ReadLocalVariable:
		return ident(e.Name)
	case *llr.StructFieldAccess:
		return fmt.Sprintf("%s.%s", compileExpression(e.Base, ctx), ident(e.Name))
	case *llr.ArrayIndex:
		return fmt.Sprintf("slint.accessArrayIndex(%s, %s)", compileExpression(e.Array, ctx), compileExpression(e.Index, ctx))
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
		return fmt.Sprintf("slint.private_api.%s(%s)", e.Function, compileArguments(e.Arguments, ctx))
	case *llr.PropertyAssignment:
		value := compileExpression(e.Value, ctx)
		return guardedAccess(e.Property, langtype.Void, ctx, func(m string) string { return m + ".set(" + value + ")" })
	case *llr.ModelDataAssignment:
		return compileModelDataAssignment(e, ctx)
	case *llr.ArrayIndexAssignment:
		return fmt.Sprintf("((index, base) => { if (index >= 0 && index < base.rowCount()) { base.setRowData(Math.trunc(index), %s); } })(%s, %s)",
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
		return fmt.Sprintf("(%s ? %s : %s)", output.RemoveParentheses(compileExpression(e.Condition, ctx)),
			compileBranch(e.TrueExpr, ctx), compileBranch(e.FalseExpr, ctx))
	case *llr.Array:
		values := compileArguments(e.Values, ctx)
		if e.AsModel {
			return fmt.Sprintf("new slint.ArrayModel([%s])", values)
		}
		return "[" + values + "]"
	case *llr.Struct:
		return compileStruct(e, ctx)
	case *llr.EasingCurveExpr:
		return compileEasing(e.Curve)
	case *llr.LinearGradient:
		return fmt.Sprintf("slint.Brush.linearGradient(%s, [%s])", compileExpression(e.Angle, ctx), compileStops(e.Stops, ctx))
	case *llr.RadialGradient:
		return fmt.Sprintf("slint.Brush.radialGradient([%s])", compileStops(e.Stops, ctx))
	case *llr.EnumerationValue:
		return enumValue(e.Value)
	case *llr.ReturnStatement:
		// throw is a statement, the runtime helper makes it usable in expressions
		if e.Value == nil {
			return "slint.earlyReturn()"
		}
		return fmt.Sprintf("slint.earlyReturn(%s)", compileExpression(e.Value, ctx))
	case *llr.LayoutCacheAccess:
		cache := accessMember(e.LayoutCacheProp, ctx) + ".get()"
		if e.RepeaterIndex == nil {
			return fmt.Sprintf("%s[%d]", cache, e.Index)
		}
		return fmt.Sprintf("((cache) => cache[Math.trunc(cache[%d]) + Math.trunc(%s) * 2])(%s)",
			e.Index, compileExpression(e.RepeaterIndex, ctx), cache)
	case *llr.BoxLayoutFunction:
		return compileBoxLayoutFunction(e, ctx)
	case *llr.ComputeDialogLayoutCells:
		return fmt.Sprintf("let %s = slint.private_api.reorderDialogButtonLayout(%s, %s)",
			ident(e.CellsVariable), compileExpression(e.UnsortedCells, ctx), compileExpression(e.Roles, ctx))
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

func compileCast(e *llr.Cast, ctx *evalCtx) string {
	from := llr.TypeOf(e.From, ctx)
	f := compileExpression(e.From, ctx)
	switch {
	case from.Kind == langtype.KindFloat32 && e.To.Kind == langtype.KindInt32:
		return fmt.Sprintf("Math.trunc(%s)", f)
	case from.IsNumber() && e.To.Kind == langtype.KindString:
		return fmt.Sprintf("slint.numberToString(%s)", f)
	case from.IsNumber() && e.To.Kind == langtype.KindModel:
		return fmt.Sprintf("new slint.IntModel(Math.max(0, Math.trunc(%s)))", f)
	case from.Kind == langtype.KindBool && e.To.Kind == langtype.KindModel:
		return fmt.Sprintf("new slint.IntModel(%s ? 1 : 0)", f)
	case from.IsNumber() && e.To.Kind == langtype.KindColor:
		return fmt.Sprintf("slint.Color.fromArgbEncoded(%s)", f)
	case from.Kind == langtype.KindColor && e.To.Kind == langtype.KindBrush:
		return fmt.Sprintf("slint.Brush.solid(%s)", f)
	case from.Kind == langtype.KindStruct && e.To.Kind == langtype.KindStruct && !from.Equal(e.To):
		var fields []string
		for _, field := range e.To.Fields {
			if from.FieldType(field.Name) != nil {
				fields = append(fields, fmt.Sprintf("%s: o.%s", ident(field.Name), ident(field.Name)))
			} else {
				fields = append(fields, fmt.Sprintf("%s: %s", ident(field.Name), defaultValue(field.Type)))
			}
		}
		return fmt.Sprintf("((o) => ({ %s }))(%s)", strings.Join(fields, ", "), f)
	case from.Kind == langtype.KindEnumeration && e.To.Kind == langtype.KindString:
		return fmt.Sprintf("slint.enumToString(%s)", f)
	}
	return f
}

func compileCodeBlock(e *llr.CodeBlock, ctx *evalCtx) string {
	switch len(e.Statements) {
	case 0:
		return "undefined"
	case 1:
		if !declaresLocal(e.Statements[0]) {
			return compileExpression(e.Statements[0], ctx)
		}
	}
	parts := make([]string, len(e.Statements))
	last := len(e.Statements) - 1
	for i, s := range e.Statements {
		parts[i] = compileExpression(s, ctx)
	}
	if t := llr.TypeOf(e.Statements[last], ctx); t.Kind != langtype.KindVoid && t.Kind != langtype.KindInvalid {
		parts[last] = "return " + parts[last]
	}
	return "(() => { " + strings.Join(parts, "; ") + "; })()"
}

// declaresLocal reports whether e compiles to a let declaration, which is a statement
func declaresLocal(e llr.Expression) bool {
	_, ok := e.(*llr.StoreLocalVariable)
	return ok
}

// compileBranch compiles an operand of the conditional operator, which must be an
// expression
func compileBranch(e llr.Expression, ctx *evalCtx) string {
	if declaresLocal(e) {
		return compileCodeBlock(&llr.CodeBlock{Statements: []llr.Expression{e}}, ctx)
	}
	return compileExpression(e, ctx)
}

// compileFunctionBody renders the statements of a function, callback handler or binding
// returning a value of type ret. Early returns travel as a slint.ReturnWrapper exception.
func compileFunctionBody(e llr.Expression, ret *langtype.Type, ctx *evalCtx) string {
	if e == nil {
		return ""
	}
	hasReturn := false
	llr.VisitRecursive(e, func(sub llr.Expression) {
		if _, ok := sub.(*llr.ReturnStatement); ok {
			hasReturn = true
		}
	})
	body := compileExpression(e, ctx) + ";"
	if ret != nil && ret.Kind != langtype.KindVoid {
		if t := llr.TypeOf(e, ctx); t.Kind != langtype.KindVoid && t.Kind != langtype.KindInvalid {
			body = "return " + body
		}
	}
	if !hasReturn {
		return body
	}
	return fmt.Sprintf("try { %s } catch (e) { if (e instanceof slint.ReturnWrapper) { return e.value; } throw e; }", body)
}

func compileModelDataAssignment(e *llr.ModelDataAssignment, ctx *evalCtx) string {
	value := compileExpression(e.Value, ctx)
	owner := ctx
	repeaterIndex := llr.NoRepeater
	for i := 0; i <= e.Level; i++ {
		if owner.Parent == nil {
			util.InternalError("model data assignment escapes the root context")
		}
		repeaterIndex = owner.Parent.RepeaterIndex
		owner = owner.Parent.Ctx
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
	return fmt.Sprintf("%s.%s.modelSetRowData(%s.get(), %s)",
		componentPath(e.Level+1), repeaterField(repeaterIndex), accessMember(indexRef, ctx), value)
}

func compileBinary(e *llr.BinaryExpression, ctx *evalCtx) string {
	lhsType := llr.TypeOf(e.LHS, ctx)
	lhs := compileExpression(e.LHS, ctx)
	rhs := compileExpression(e.RHS, ctx)
	switch e.Op {
	case '=', '!':
		var eq string
		switch {
		case lhsType.IsUnitProduct():
			eq = fmt.Sprintf("slint.approxEq(%s, %s)", lhs, rhs)
		case lhsType.Kind == langtype.KindStruct || lhsType.Kind == langtype.KindColor ||
			lhsType.Kind == langtype.KindBrush || lhsType.Kind == langtype.KindImage:
			eq = fmt.Sprintf("slint.deepEqual(%s, %s)", lhs, rhs)
		default:
			if e.Op == '=' {
				return fmt.Sprintf("(%s === %s)", lhs, rhs)
			}
			return fmt.Sprintf("(%s !== %s)", lhs, rhs)
		}
		if e.Op == '!' {
			return "!" + eq
		}
		return eq
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
		return fmt.Sprintf("slint.Image.fromPath(%s)", stringLiteral(e.Path))
	case llr.ImageEmbeddedData:
		return fmt.Sprintf("slint.Image.fromEmbeddedData(%s, %s)", resourceSymbol(e.ResourceID), stringLiteral(e.Extension))
	case llr.ImageEmbeddedTexture:
		return fmt.Sprintf("slint.Image.fromEmbeddedTexture(%s)", resourceSymbol(e.ResourceID))
	}
	return "new slint.Image()"
}

func compileStruct(e *llr.Struct, ctx *evalCtx) string {
	names := e.SortedFieldNames()
	fields := make([]string, len(names))
	for i, name := range names {
		fields[i] = fmt.Sprintf("%s: %s", ident(name), compileExpression(e.Values[name], ctx))
	}
	return "({ " + strings.Join(fields, ", ") + " })"
}

func compileEasing(c llr.EasingCurve) string {
	switch c.Kind {
	case llr.EasingLinear:
		return "slint.EasingCurve.LINEAR"
	case llr.EasingCubicBezier:
		return fmt.Sprintf("slint.EasingCurve.cubicBezier(%s, %s, %s, %s)",
			output.FormatNumber(c.X1), output.FormatNumber(c.Y1), output.FormatNumber(c.X2), output.FormatNumber(c.Y2))
	}
	return fmt.Sprintf("slint.EasingCurve.%s", util.DashCaseToPascalCase(c.Kind.String()))
}

func compileStops(stops []llr.GradientStop, ctx *evalCtx) string {
	parts := make([]string, len(stops))
	for i, s := range stops {
		parts[i] = fmt.Sprintf("[%s, %s]", compileExpression(s.Color, ctx), compileExpression(s.Position, ctx))
	}
	return strings.Join(parts, ", ")
}

func orientationValue(o llr.Orientation) string {
	if o == llr.Vertical {
		return "slint.Orientation.Vertical"
	}
	return "slint.Orientation.Horizontal"
}

func compileBoxLayoutFunction(e *llr.BoxLayoutFunction, ctx *evalCtx) string {
	var b strings.Builder
	b.WriteString("(() => { const cells_vector = []; ")
	ri := ident(e.RepeaterIndices)
	if e.RepeaterIndices != "" {
		b.WriteString("const repeater_indices = []; ")
	}
	for _, el := range e.Elements {
		if !el.IsRepeater() {
			fmt.Fprintf(&b, "cells_vector.push(%s); ", compileExpression(el.Cell, ctx))
			continue
		}
		rep := "self." + repeaterField(el.Repeater)
		fmt.Fprintf(&b, "%s.ensureUpdated(self); ", rep)
		if e.RepeaterIndices != "" {
			fmt.Fprintf(&b, "repeater_indices.push(cells_vector.length, %s.len()); ", rep)
		}
		fmt.Fprintf(&b, "%s.forEach((sub_comp) => cells_vector.push(sub_comp.box_layout_data(%s))); ", rep, orientationValue(e.Orientation))
	}
	fmt.Fprintf(&b, "const %s = cells_vector; ", ident(e.CellsVariable))
	if e.RepeaterIndices != "" {
		fmt.Fprintf(&b, "const %s = repeater_indices; ", ri)
	}
	fmt.Fprintf(&b, "return %s; })()", compileExpression(e.SubExpression, ctx))
	return b.String()
}

func compileTranslation(e *llr.TranslationReference, ctx *evalCtx) string {
	tr := ctx.Unit.Translations
	if tr == nil {
		util.InternalError("translation reference without bundled translations")
	}
	args := compileExpression(e.FormatArgs, ctx)
	if e.Plural == nil {
		return fmt.Sprintf("slint.translateFromBundle(slint_translation_bundle_strings[%d], %s)", e.StringIndex, args)
	}
	return fmt.Sprintf("slint.translateFromBundleWithPlural(%s, slint_translated_plural_rules, %s, %s)",
		pluralTableSymbol(e.StringIndex), args, compileExpression(e.Plural, ctx))
}

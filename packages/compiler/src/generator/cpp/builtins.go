package cpp

import (
	"fmt"
	"strings"

	"slintc-go/packages/compiler/src/generator"
	"slintc-go/packages/compiler/src/llr"
	"slintc-go/packages/compiler/src/output"
	"slintc-go/packages/compiler/src/util"
)

const piOver180 = "3.14159265358979323846 / 180."

func compileBuiltinCall(e *llr.BuiltinFunctionCall, ctx *evalCtx) string {
	args := e.Arguments
	a := func(i int) string {
		if i >= len(args) {
			util.InternalError("%s expects at least %d arguments", e.Function.Kind, i+1)
		}
		return compileExpression(args[i], ctx)
	}
	includes := ctx.GeneratorState.includes
	math := func(format string, n int) string {
		includes.cmath = true
		vals := make([]any, n)
		for i := range vals {
			vals[i] = a(i)
		}
		return fmt.Sprintf(format, vals...)
	}

	switch e.Function.Kind {
	case llr.BuiltinGetWindowScaleFactor:
		return windowAccess(ctx) + ".scale_factor()"
	case llr.BuiltinGetWindowDefaultFontSize:
		return windowAccess(ctx) + ".default_font_size()"
	case llr.BuiltinAnimationTick:
		return "slint::cbindgen_private::slint_animation_tick()"
	case llr.BuiltinDebug:
		includes.iostream = true
		parts := make([]string, len(args))
		for i := range args {
			parts[i] = a(i)
		}
		return "std::cout << " + strings.Join(parts, " << ") + " << std::endl"
	case llr.BuiltinMod:
		includes.cmath = true
		return fmt.Sprintf("[](double a, double b) { auto r = std::fmod(a, b); return (r != 0 && ((r < 0) != (b < 0))) ? r + b : r; }(%s, %s)", a(0), a(1))
	case llr.BuiltinRound:
		return math("std::round(%s)", 1)
	case llr.BuiltinCeil:
		return math("std::ceil(%s)", 1)
	case llr.BuiltinFloor:
		return math("std::floor(%s)", 1)
	case llr.BuiltinAbs:
		return math("std::abs(%s)", 1)
	case llr.BuiltinSqrt:
		return math("std::sqrt(%s)", 1)
	case llr.BuiltinLog:
		return math("std::log(%s) / std::log(%s)", 2)
	case llr.BuiltinPow:
		return math("std::pow((%s), (%s))", 2)
	case llr.BuiltinSin:
		includes.cmath = true
		return fmt.Sprintf("std::sin((%s) * %s)", a(0), piOver180)
	case llr.BuiltinCos:
		includes.cmath = true
		return fmt.Sprintf("std::cos((%s) * %s)", a(0), piOver180)
	case llr.BuiltinTan:
		includes.cmath = true
		return fmt.Sprintf("std::tan((%s) * %s)", a(0), piOver180)
	case llr.BuiltinASin:
		includes.cmath = true
		return fmt.Sprintf("std::asin(%s) / (%s)", a(0), piOver180)
	case llr.BuiltinACos:
		includes.cmath = true
		return fmt.Sprintf("std::acos(%s) / (%s)", a(0), piOver180)
	case llr.BuiltinATan:
		includes.cmath = true
		return fmt.Sprintf("std::atan(%s) / (%s)", a(0), piOver180)
	case llr.BuiltinATan2:
		includes.cmath = true
		return fmt.Sprintf("std::atan2(%s, %s) / (%s)", a(0), a(1), piOver180)
	case llr.BuiltinMin, llr.BuiltinMax:
		fn := "std::min"
		if e.Function.Kind == llr.BuiltinMax {
			fn = "std::max"
		}
		result := a(0)
		for i := 1; i < len(args); i++ {
			result = fmt.Sprintf("%s<float>(%s, %s)", fn, result, a(i))
		}
		return result
	case llr.BuiltinSetFocusItem:
		return fmt.Sprintf("%s.set_focus_item(%s, true)", windowAccess(ctx), itemRcArg(args, 0, ctx))
	case llr.BuiltinClearFocusItem:
		return fmt.Sprintf("%s.set_focus_item(%s, false)", windowAccess(ctx), itemRcArg(args, 0, ctx))
	case llr.BuiltinShowPopupWindow:
		return compileShowPopup(e, ctx, false)
	case llr.BuiltinShowPopupMenu:
		return compileShowPopup(e, ctx, true)
	case llr.BuiltinClosePopupWindow:
		return compileClosePopup(e, ctx)
	case llr.BuiltinItemMemberFunction:
		ref := itemRef(args, 0)
		access, _ := generator.ResolveMember(ref, ctx)
		item := accessMember(ref, ctx)
		return fmt.Sprintf("slint::cbindgen_private::slint_%s_%s(&%s, &%s, &%s->self_weak, %s)",
			strings.ToLower(access.Item.Class.ClassName), ident(e.Function.Member), item,
			windowAccess(ctx), componentPath(access.ParentHops), itemIndexExpr(access))
	case llr.BuiltinStringToFloat:
		includes.cstdlib = true
		return fmt.Sprintf("[](const auto &a){ auto e1 = std::end(a); auto e2 = const_cast<char*>(e1); auto r = ::strtod(std::begin(a), &e2); return e1 == e2 ? r : 0; }(%s)", a(0))
	case llr.BuiltinStringIsFloat:
		includes.cstdlib = true
		return fmt.Sprintf("[](const auto &a){ auto e1 = std::end(a); auto e2 = const_cast<char*>(e1); std::strtod(std::begin(a), &e2); return e1 == e2; }(%s)", a(0))
	case llr.BuiltinColorBrighter:
		return fmt.Sprintf("%s.brighter(%s)", a(0), a(1))
	case llr.BuiltinColorDarker:
		return fmt.Sprintf("%s.darker(%s)", a(0), a(1))
	case llr.BuiltinColorTransparentize:
		return fmt.Sprintf("%s.transparentize(%s)", a(0), a(1))
	case llr.BuiltinColorMix:
		return fmt.Sprintf("%s.mix(%s, %s)", a(0), a(1), a(2))
	case llr.BuiltinColorWithAlpha:
		return fmt.Sprintf("%s.with_alpha(%s)", a(0), a(1))
	case llr.BuiltinImageSize:
		return fmt.Sprintf("%s.size()", a(0))
	case llr.BuiltinArrayLength:
		return fmt.Sprintf("[](const auto &model) { (*model).track_row_count_changes(); return (*model).row_count(); }(%s)", a(0))
	case llr.BuiltinRgb:
		alpha := "255"
		if len(args) > 3 {
			alpha = fmt.Sprintf("std::clamp(static_cast<float>(%s) * 255., 0., 255.)", a(3))
		}
		return fmt.Sprintf("slint::Color::from_argb_uint8(%s, std::clamp(static_cast<float>(%s), 0.f, 255.f), std::clamp(static_cast<float>(%s), 0.f, 255.f), std::clamp(static_cast<float>(%s), 0.f, 255.f))",
			alpha, a(0), a(1), a(2))
	case llr.BuiltinDarkColorScheme:
		return windowAccess(ctx) + ".dark_color_scheme()"
	case llr.BuiltinTextInputFocused:
		return windowAccess(ctx) + ".text_input_focused()"
	case llr.BuiltinSetTextInputFocused:
		return fmt.Sprintf("%s.set_text_input_focused(%s)", windowAccess(ctx), a(0))
	case llr.BuiltinImplicitLayoutInfo:
		ref := itemRef(args, 0)
		access, _ := generator.ResolveMember(ref, ctx)
		orientation := "slint::cbindgen_private::Orientation::Horizontal"
		if e.Function.Orientation == llr.Vertical {
			orientation = "slint::cbindgen_private::Orientation::Vertical"
		}
		return fmt.Sprintf("%s->layout_info({%s, const_cast<slint::cbindgen_private::%s*>(&%s)}, %s, &%s)",
			vtableFor(access), vtableFor(access), access.Item.Class.ClassName, accessMember(ref, ctx), orientation, windowAccess(ctx))
	case llr.BuiltinItemAbsolutePosition:
		return fmt.Sprintf("slint::LogicalPosition(slint::cbindgen_private::slint_item_absolute_position(%s))", itemRcArg(args, 0, ctx))
	case llr.BuiltinRegisterCustomFontByPath:
		return fmt.Sprintf("%s.register_font_from_path(%s)", windowAccess(ctx), a(0))
	case llr.BuiltinRegisterCustomFontByMemory:
		id := resourceIDArg(args, 0)
		return fmt.Sprintf("%s.register_font_from_data(%s, std::size(%s))", windowAccess(ctx), resourceSymbol(id), resourceSymbol(id))
	case llr.BuiltinRegisterBitmapFont:
		return fmt.Sprintf("%s.register_bitmap_font(&%s)", windowAccess(ctx), resourceSymbol(resourceIDArg(args, 0)))
	case llr.BuiltinTranslate:
		return fmt.Sprintf("slint::private_api::translate(%s, %s, %s, %s, %s, %s)", a(0), a(1), a(2), a(3), a(4), a(5))
	}
	util.InternalError("unsupported builtin %s", e.Function.Kind)
	return ""
}

func vtableFor(a generator.MemberAccess) string {
	return a.Item.Class.VTableGetter
}

func itemRef(args []llr.Expression, i int) llr.PropertyReference {
	if i < len(args) {
		if p, ok := args[i].(*llr.PropertyReferenceExpr); ok && llr.IsItemReference(p.Ref) {
			return p.Ref
		}
	}
	util.InternalError("argument %d must be an item reference", i)
	return nil
}

func itemRcArg(args []llr.Expression, i int, ctx *evalCtx) string {
	return accessItemRc(itemRef(args, i), ctx)
}

func itemIndexExpr(a generator.MemberAccess) string {
	prefix := subComponentPrefix(a)
	idx := generator.ResolveItemTreeIndex(a.Item)
	if idx.IsRoot {
		return prefix + "tree_index"
	}
	return fmt.Sprintf("%stree_index_of_first_child + %d", prefix, idx.Offset)
}

func numberArg(args []llr.Expression, i int) int {
	if i < len(args) {
		if n, ok := args[i].(*llr.NumberLiteral); ok {
			return int(n.Value)
		}
	}
	util.InternalError("argument %d must be a number literal", i)
	return 0
}

func resourceIDArg(args []llr.Expression, i int) int {
	return numberArg(args, i)
}

// compileShowPopup creates the popup or menu and registers it with the window. The handle
// is kept in a slot of the component declaring the popup, a previous one is closed first.
// Nothing happens when that component no longer exists.
func compileShowPopup(e *llr.BuiltinFunctionCall, ctx *evalCtx, menu bool) string {
	index := numberArg(e.Arguments, 0)
	x := compileExpression(e.Arguments[1], ctx)
	y := compileExpression(e.Arguments[2], ctx)
	anchor := itemRef(e.Arguments, 3)
	access, _ := generator.ResolveMember(anchor, ctx)
	var tree llr.ItemTree
	slot := popupSlot(index)
	if menu {
		checkPopupIndex(index, len(access.SubComponent.MenuItemTrees), access.SubComponent.Name)
		tree = access.SubComponent.MenuItemTrees[index]
		slot = menuSlot(index)
	} else {
		checkPopupIndex(index, len(access.SubComponent.PopupWindows), access.SubComponent.Name)
		tree = access.SubComponent.PopupWindows[index].Item
	}
	show := "show_popup"
	if menu {
		show = "show_popup_menu"
	}
	body := fmt.Sprintf("auto &window = p->globals->window().window_handle(); "+
		"if (p->%s) { window.close_popup(*p->%s); } "+
		"auto popup_instance = %s::create(&*p); "+
		"p->%s = window.%s(popup_instance.into_dyn(), slint::LogicalPosition({ float(%s), float(%s) }), %s); "+
		"popup_instance->user_init();",
		slot, slot, ctx.GeneratorState.structName(tree.Root), slot, show, x, y, accessItemRc(anchor, ctx))
	return "[&]{ " + guardedParent(access.ParentHops, access.Path, body) + " }()"
}

// compileClosePopup is a no-op when the popup is not open
func compileClosePopup(e *llr.BuiltinFunctionCall, ctx *evalCtx) string {
	index := numberArg(e.Arguments, 0)
	anchor := itemRef(e.Arguments, 1)
	access, _ := generator.ResolveMember(anchor, ctx)
	checkPopupIndex(index, len(access.SubComponent.PopupWindows), access.SubComponent.Name)
	slot := popupSlot(index)
	body := fmt.Sprintf("if (p->%s) { auto id = *p->%s; p->%s.reset(); p->globals->window().window_handle().close_popup(id); }",
		slot, slot, slot)
	return "[&]{ " + guardedParent(access.ParentHops, access.Path, body) + " }()"
}

func checkPopupIndex(i, n int, owner string) {
	if i < 0 || i >= n {
		util.InternalError("popup index %d out of range in %s", i, owner)
	}
}

func popupSlot(i int) string {
	return "popup_id_" + itoa(i)
}

func menuSlot(i int) string {
	return "menu_popup_id_" + itoa(i)
}

func resourceSymbol(id int) string {
	return "slint_embedded_resource_" + itoa(id)
}

func pluralTableSymbol(i int) string {
	return "slint_translated_plurals_" + itoa(i)
}

// cString is a UTF-8 C string literal
func cString(s string) string {
	return `u8"` + output.EscapeString(s) + `"`
}

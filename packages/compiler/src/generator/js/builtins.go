package js

import (
	"fmt"
	"strconv"

	"slintc-go/packages/compiler/src/generator"
	"slintc-go/packages/compiler/src/llr"
	"slintc-go/packages/compiler/src/util"
)

const degrees = "Math.PI / 180"

func compileBuiltinCall(e *llr.BuiltinFunctionCall, ctx *evalCtx) string {
	args := e.Arguments
	a := func(i int) string {
		if i >= len(args) {
			util.InternalError("%s expects at least %d arguments", e.Function.Kind, i+1)
		}
		return compileExpression(args[i], ctx)
	}
	math := func(fn string) string {
		return fmt.Sprintf("Math.%s(%s)", fn, a(0))
	}

	switch e.Function.Kind {
	case llr.BuiltinGetWindowScaleFactor:
		return windowAccess(ctx) + ".scaleFactor()"
	case llr.BuiltinGetWindowDefaultFontSize:
		return windowAccess(ctx) + ".defaultFontSize()"
	case llr.BuiltinAnimationTick:
		return "slint.animationTick()"
	case llr.BuiltinDebug:
		return fmt.Sprintf("console.log(%s)", compileArguments(args, ctx))
	case llr.BuiltinMod:
		return fmt.Sprintf("slint.floorMod(%s, %s)", a(0), a(1))
	case llr.BuiltinRound:
		return math("round")
	case llr.BuiltinCeil:
		return math("ceil")
	case llr.BuiltinFloor:
		return math("floor")
	case llr.BuiltinAbs:
		return math("abs")
	case llr.BuiltinSqrt:
		return math("sqrt")
	case llr.BuiltinLog:
		return fmt.Sprintf("(Math.log(%s) / Math.log(%s))", a(0), a(1))
	case llr.BuiltinPow:
		return fmt.Sprintf("Math.pow(%s, %s)", a(0), a(1))
	case llr.BuiltinSin, llr.BuiltinCos, llr.BuiltinTan:
		return fmt.Sprintf("Math.%s((%s) * %s)", e.Function.Kind, a(0), degrees)
	case llr.BuiltinASin, llr.BuiltinACos, llr.BuiltinATan:
		return fmt.Sprintf("(Math.%s(%s) / (%s))", e.Function.Kind, a(0), degrees)
	case llr.BuiltinATan2:
		return fmt.Sprintf("(Math.atan2(%s, %s) / (%s))", a(0), a(1), degrees)
	case llr.BuiltinMin:
		return fmt.Sprintf("Math.min(%s)", compileArguments(args, ctx))
	case llr.BuiltinMax:
		return fmt.Sprintf("Math.max(%s)", compileArguments(args, ctx))
	case llr.BuiltinSetFocusItem:
		return fmt.Sprintf("%s.setFocusItem(%s, true)", windowAccess(ctx), accessItemRc(itemRef(args, 0), ctx))
	case llr.BuiltinClearFocusItem:
		return fmt.Sprintf("%s.setFocusItem(%s, false)", windowAccess(ctx), accessItemRc(itemRef(args, 0), ctx))
	case llr.BuiltinShowPopupWindow:
		return compileShowPopup(e, ctx, false)
	case llr.BuiltinShowPopupMenu:
		return compileShowPopup(e, ctx, true)
	case llr.BuiltinClosePopupWindow:
		return compileClosePopup(e, ctx)
	case llr.BuiltinItemMemberFunction:
		ref := itemRef(args, 0)
		return fmt.Sprintf("%s.%s(%s, %s)", accessMember(ref, ctx), ident(e.Function.Member), windowAccess(ctx), accessItemRc(ref, ctx))
	case llr.BuiltinStringToFloat:
		return fmt.Sprintf("slint.stringToFloat(%s)", a(0))
	case llr.BuiltinStringIsFloat:
		return fmt.Sprintf("slint.stringIsFloat(%s)", a(0))
	case llr.BuiltinColorBrighter:
		return fmt.Sprintf("%s.brighter(%s)", a(0), a(1))
	case llr.BuiltinColorDarker:
		return fmt.Sprintf("%s.darker(%s)", a(0), a(1))
	case llr.BuiltinColorTransparentize:
		return fmt.Sprintf("%s.transparentize(%s)", a(0), a(1))
	case llr.BuiltinColorMix:
		return fmt.Sprintf("%s.mix(%s, %s)", a(0), a(1), a(2))
	case llr.BuiltinColorWithAlpha:
		return fmt.Sprintf("%s.withAlpha(%s)", a(0), a(1))
	case llr.BuiltinImageSize:
		return fmt.Sprintf("%s.size()", a(0))
	case llr.BuiltinArrayLength:
		return fmt.Sprintf("slint.modelLength(%s)", a(0))
	case llr.BuiltinRgb:
		alpha := "1"
		if len(args) > 3 {
			alpha = a(3)
		}
		return fmt.Sprintf("slint.Color.fromRgba(%s, %s, %s, %s)", a(0), a(1), a(2), alpha)
	case llr.BuiltinDarkColorScheme:
		return windowAccess(ctx) + ".darkColorScheme()"
	case llr.BuiltinTextInputFocused:
		return windowAccess(ctx) + ".textInputFocused()"
	case llr.BuiltinSetTextInputFocused:
		return fmt.Sprintf("%s.setTextInputFocused(%s)", windowAccess(ctx), a(0))
	case llr.BuiltinImplicitLayoutInfo:
		ref := itemRef(args, 0)
		return fmt.Sprintf("%s.layoutInfo(%s, %s)", accessMember(ref, ctx), orientationValue(e.Function.Orientation), windowAccess(ctx))
	case llr.BuiltinItemAbsolutePosition:
		return fmt.Sprintf("slint.itemAbsolutePosition(%s)", accessItemRc(itemRef(args, 0), ctx))
	case llr.BuiltinRegisterCustomFontByPath:
		return fmt.Sprintf("%s.registerFontFromPath(%s)", windowAccess(ctx), a(0))
	case llr.BuiltinRegisterCustomFontByMemory:
		return fmt.Sprintf("%s.registerFontFromData(%s)", windowAccess(ctx), resourceSymbol(numberArg(args, 0)))
	case llr.BuiltinRegisterBitmapFont:
		return fmt.Sprintf("%s.registerBitmapFont(%s)", windowAccess(ctx), resourceSymbol(numberArg(args, 0)))
	case llr.BuiltinTranslate:
		return fmt.Sprintf("slint.translate(%s, %s, %s, %s, %s, %s)", a(0), a(1), a(2), a(3), a(4), a(5))
	}
	util.InternalError("unsupported builtin %s", e.Function.Kind)
	return ""
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

func numberArg(args []llr.Expression, i int) int {
	if i < len(args) {
		if n, ok := args[i].(*llr.NumberLiteral); ok {
			return int(n.Value)
		}
	}
	util.InternalError("argument %d must be a number literal", i)
	return 0
}

// compileShowPopup creates the popup or menu and registers it with the window. The
// handle is kept by the component declaring the popup; an open one is closed first.
func compileShowPopup(e *llr.BuiltinFunctionCall, ctx *evalCtx, menu bool) string {
	index := numberArg(e.Arguments, 0)
	x := compileExpression(e.Arguments[1], ctx)
	y := compileExpression(e.Arguments[2], ctx)
	anchor := itemRef(e.Arguments, 3)
	access, _ := generator.ResolveMember(anchor, ctx)
	var tree llr.ItemTree
	slot, show := popupSlot(index), "showPopup"
	if menu {
		checkPopupIndex(index, len(access.SubComponent.MenuItemTrees), access.SubComponent.Name)
		tree = access.SubComponent.MenuItemTrees[index]
		slot, show = menuSlot(index), "showPopupMenu"
	} else {
		checkPopupIndex(index, len(access.SubComponent.PopupWindows), access.SubComponent.Name)
		tree = access.SubComponent.PopupWindows[index].Item
	}
	body := fmt.Sprintf("const window = p.globals.window(); "+
		"if (p.%s !== null) { window.closePopup(p.%s); } "+
		"const popup_instance = %s.create(p); "+
		"p.%s = window.%s(popup_instance, { x: %s, y: %s }, %s); "+
		"popup_instance.user_init();",
		slot, slot, ident(tree.Root.Name), slot, show, x, y, accessItemRc(anchor, ctx))
	return "(() => " + guardedParent(access.ParentHops, access.Path, body) + ")()"
}

// compileClosePopup is a no-op when the popup is not open
func compileClosePopup(e *llr.BuiltinFunctionCall, ctx *evalCtx) string {
	index := numberArg(e.Arguments, 0)
	anchor := itemRef(e.Arguments, 1)
	access, _ := generator.ResolveMember(anchor, ctx)
	checkPopupIndex(index, len(access.SubComponent.PopupWindows), access.SubComponent.Name)
	slot := popupSlot(index)
	body := fmt.Sprintf("if (p.%s !== null) { const id = p.%s; p.%s = null; p.globals.window().closePopup(id); }", slot, slot, slot)
	return "(() => " + guardedParent(access.ParentHops, access.Path, body) + ")()"
}

func checkPopupIndex(i, n int, owner string) {
	if i < 0 || i >= n {
		util.InternalError("popup index %d out of range in %s", i, owner)
	}
}

func popupSlot(i int) string {
	return "popup_id_" + strconv.Itoa(i)
}

func menuSlot(i int) string {
	return "menu_popup_id_" + strconv.Itoa(i)
}

func repeaterField(i int) string {
	return "repeater_" + strconv.Itoa(i)
}

func resourceSymbol(id int) string {
	return "slint_embedded_resource_" + strconv.Itoa(id)
}

func pluralTableSymbol(i int) string {
	return "slint_translated_plurals_" + strconv.Itoa(i)
}

package js

import (
	"fmt"
	"strings"

	"slintc-go/packages/compiler/src/langtype"
	"slintc-go/packages/compiler/src/llr"
	"slintc-go/packages/compiler/src/output"
)

const selfDecl = "const self = this;"

func method(st *output.Struct, name, params string, body ...string) {
	st.AddMember(output.AccessNone, &output.Function{Name: name, Signature: "(" + params + ")", Statements: body})
}

func field(st *output.Struct, name, init string) {
	st.AddMember(output.AccessNone, &output.Var{Name: name, Init: init})
}

func (g *jsGenerator) subComponentCtx(sc *llr.SubComponent, parent *llr.ParentCtx[jsState]) *evalCtx {
	return llr.NewSubComponentContext(g.unit, sc, jsState{globalAccess: "self.globals"}, parent)
}

// generateSubComponent builds the class of a sub-component. The classes of the item trees
// it owns are declared before it.
func (g *jsGenerator) generateSubComponent(sc *llr.SubComponent, parent *llr.ParentCtx[jsState]) *output.Struct {
	st := &output.Struct{Name: g.className(sc)}
	ctx := g.subComponentCtx(sc, parent)

	for i := range sc.Repeated {
		g.generateRepeatedComponent(&sc.Repeated[i], i, ctx)
	}
	for i := range sc.PopupWindows {
		g.generateChildTree(sc.PopupWindows[i].Item, ctx)
	}
	for i := range sc.MenuItemTrees {
		g.generateChildTree(sc.MenuItemTrees[i], ctx)
	}

	field(st, "self_weak", "null")
	field(st, "globals", "null")
	field(st, "tree_index", "0")
	field(st, "tree_index_of_first_child", "0")
	for _, p := range sc.Properties {
		if p.UseCount == 0 {
			continue
		}
		field(st, ident(p.Name), propertyInit(p.Type))
	}
	for _, item := range sc.Items {
		if item.IsFlickableViewport {
			continue
		}
		field(st, ident(item.Name), fmt.Sprintf("new slint.items.%s()", item.Class.ClassName))
	}
	for _, sub := range sc.SubComponents {
		field(st, ident(sub.Name), fmt.Sprintf("new %s()", g.className(sub.Type)))
	}
	for i, rep := range sc.Repeated {
		field(st, repeaterField(i), fmt.Sprintf("new slint.Repeater(%s)", g.className(rep.SubTree.Root)))
	}
	for i := range sc.ChangeCallbacks {
		field(st, fmt.Sprintf("change_tracker%d", i), "new slint.ChangeTracker()")
	}
	for i := range sc.Timers {
		field(st, fmt.Sprintf("timer%d", i), "new slint.Timer()")
		field(st, fmt.Sprintf("timer_tracker%d", i), "new slint.ChangeTracker()")
	}
	for i := range sc.PopupWindows {
		field(st, popupSlot(i), "null")
	}
	for i := range sc.MenuItemTrees {
		field(st, menuSlot(i), "null")
	}

	g.addInit(st, sc, ctx)
	g.addUserInit(st, sc, ctx)
	if len(sc.Timers) > 0 {
		g.addUpdateTimers(st, sc, ctx)
	}
	for _, f := range sc.Functions {
		addUserFunction(st, f, ctx)
	}
	layout := func(e llr.Expression) string {
		if e == nil {
			return "new slint.LayoutInfo()"
		}
		return compileExpression(e, ctx)
	}
	method(st, "layout_info", "o", selfDecl,
		"if (o === slint.Orientation.Horizontal) {",
		"    return "+layout(sc.LayoutInfoH)+";",
		"}",
		"return "+layout(sc.LayoutInfoV)+";")
	g.addDynamicChildren(st, sc, ctx)
	g.addItemFunctions(st, sc, ctx)
	return st
}

func propertyInit(t *langtype.Type) string {
	if t.Kind == langtype.KindCallback || t.Kind == langtype.KindFunction {
		return "new slint.Callback()"
	}
	return fmt.Sprintf("new slint.Property(%s)", defaultValue(t))
}

func addUserFunction(st *output.Struct, f llr.Function, ctx *evalCtx) {
	fctx := ctx.WithArguments(f.Args)
	method(st, functionName(f.Name), parameterList(len(f.Args)), selfDecl, compileFunctionBody(f.Code, f.ReturnType, fctx))
}

func (g *jsGenerator) addInit(st *output.Struct, sc *llr.SubComponent, ctx *evalCtx) {
	body := []string{
		selfDecl,
		"self.self_weak = self_weak;",
		"self.globals = globals;",
		"self.tree_index = tree_index;",
		"self.tree_index_of_first_child = tree_index_of_first_child;",
	}
	for _, sub := range sc.SubComponents {
		globalIndex := "tree_index"
		if sub.IndexInTree > 0 {
			globalIndex = fmt.Sprintf("tree_index_of_first_child + %d - 1", sub.IndexInTree)
		}
		globalChildren := "0"
		if sub.IndexOfFirstChildInTree > 0 {
			globalChildren = fmt.Sprintf("tree_index_of_first_child + %d - 1", sub.IndexOfFirstChildInTree)
		}
		body = append(body, fmt.Sprintf("self.%s.init(globals, self_weak, %s, %s);", ident(sub.Name), globalIndex, globalChildren))
	}
	for _, tw := range sc.TwoWayBindings {
		body = append(body, fmt.Sprintf("slint.Property.linkTwoWay(%s, %s);", accessMember(tw.A, ctx), accessMember(tw.B, ctx)))
	}
	for _, init := range sc.PropertyInit {
		body = append(body, propertyInitCode(init.Ref, init.Binding, ctx))
	}
	for _, ref := range sc.ConstProperties {
		body = append(body, accessMember(ref, ctx)+".setConstant();")
	}
	for i, rep := range sc.Repeated {
		body = append(body, fmt.Sprintf("self.%s.setModelBinding(() => %s);", repeaterField(i), compileExpression(rep.Model, ctx)))
	}
	method(st, "init", "globals, self_weak, tree_index, tree_index_of_first_child", body...)
}

// propertyInitCode installs the binding or the value of a property
func propertyInitCode(ref llr.PropertyReference, b *llr.BindingExpression, ctx *evalCtx) string {
	access := accessMember(ref, ctx)
	t := ctx.PropertyType(ref)
	if t.Kind == langtype.KindCallback {
		cctx := ctx.WithArguments(t.Args)
		return fmt.Sprintf("%s.setHandler((%s) => { %s });", access, parameterList(len(t.Args)), compileFunctionBody(b.Expression, t.Return, cctx))
	}
	if b.IsConstant && !b.IsStateInfo {
		value := compileExpression(b.Expression, ctx)
		if b.Animation == nil {
			return fmt.Sprintf("%s.set(%s);", access, value)
		}
		if b.Animation.Kind == llr.AnimationStatic {
			return fmt.Sprintf("%s.setAnimatedValue(%s, %s);", access, value, compileExpression(b.Animation.Expression, ctx))
		}
	}
	binding := fmt.Sprintf("() => { %s }", compileFunctionBody(b.Expression, t, ctx))
	if b.IsStateInfo {
		return fmt.Sprintf("slint.setStateBinding(%s, %s);", access, binding)
	}
	if b.Animation != nil {
		anim := compileExpression(b.Animation.Expression, ctx)
		if b.Animation.Kind == llr.AnimationTransition {
			return fmt.Sprintf("slint.setAnimatedBindingForTransition(%s, %s, () => %s);", access, binding, anim)
		}
		return fmt.Sprintf("%s.setAnimatedBinding(%s, () => %s);", access, binding, anim)
	}
	return fmt.Sprintf("%s.setBinding(%s);", access, binding)
}

func (g *jsGenerator) addUserInit(st *output.Struct, sc *llr.SubComponent, ctx *evalCtx) {
	body := []string{selfDecl}
	for _, sub := range sc.SubComponents {
		body = append(body, fmt.Sprintf("self.%s.user_init();", ident(sub.Name)))
	}
	for _, code := range sc.InitCode {
		body = append(body, compileExpression(code, ctx)+";")
	}
	for i, cc := range sc.ChangeCallbacks {
		body = append(body, changeTrackerInit(fmt.Sprintf("change_tracker%d", i), cc, ctx))
	}
	if len(sc.Timers) > 0 {
		body = append(body, "self.update_timers();")
		for i, t := range sc.Timers {
			body = append(body, fmt.Sprintf("self.timer_tracker%d.init(() => [Boolean(%s), Number(%s)], () => self.update_timers());",
				i, compileExpression(t.Running, ctx), compileExpression(t.Interval, ctx)))
		}
	}
	method(st, "user_init", "", body...)
}

func changeTrackerInit(field string, cc llr.ChangeCallback, ctx *evalCtx) string {
	return fmt.Sprintf("self.%s.init(() => %s.get(), () => { %s; });", field, accessMember(cc.Property, ctx), compileExpression(cc.Code, ctx))
}

// addUpdateTimers starts, restarts or stops each timer. A running timer is only
// restarted when its interval changed.
func (g *jsGenerator) addUpdateTimers(st *output.Struct, sc *llr.SubComponent, ctx *evalCtx) {
	body := []string{selfDecl}
	for i, t := range sc.Timers {
		timer := fmt.Sprintf("self.timer%d", i)
		body = append(body,
			fmt.Sprintf("if (%s) {", output.RemoveParentheses(compileExpression(t.Running, ctx))),
			fmt.Sprintf("    const interval = %s;", compileExpression(t.Interval, ctx)),
			fmt.Sprintf("    if (!%s.running() || %s.interval() !== interval) {", timer, timer),
			fmt.Sprintf("        %s.start(slint.TimerMode.Repeated, interval, () => { %s; });", timer, compileExpression(t.Triggered, ctx)),
			"    }",
			"} else {",
			fmt.Sprintf("    %s.stop();", timer),
			"}",
		)
	}
	method(st, "update_timers", "", body...)
}

// ensureUpdated refreshes the instances of a repeater from its model
func ensureUpdated(rep *llr.RepeatedElement, i int, ctx *evalCtx) string {
	if rep.ListView == nil {
		return fmt.Sprintf("self.%s.ensureUpdated(self);", repeaterField(i))
	}
	lv := rep.ListView
	return fmt.Sprintf("self.%s.ensureUpdatedListview(self, %s, %s, %s, %s.get(), %s.get());",
		repeaterField(i), accessMember(lv.ViewportWidth, ctx), accessMember(lv.ViewportHeight, ctx),
		accessMember(lv.ViewportY, ctx), accessMember(lv.ListViewWidth, ctx), accessMember(lv.ListViewHeight, ctx))
}

// addDynamicChildren dispatches on the repeater index, local repeaters first then the
// ranges of the nested sub-components
func (g *jsGenerator) addDynamicChildren(st *output.Struct, sc *llr.SubComponent, ctx *evalCtx) {
	dispatch := func(perRepeater func(i int, rep *llr.RepeatedElement) []string, forward func(sub string, base int) string) []string {
		body := []string{selfDecl, "switch (dyn_index) {"}
		for i := range sc.Repeated {
			body = append(body, fmt.Sprintf("    case %d: {", i))
			for _, l := range perRepeater(i, &sc.Repeated[i]) {
				body = append(body, "        "+l)
			}
			body = append(body, "    }")
		}
		body = append(body, "}")
		for _, sub := range sc.SubComponents {
			count := sub.Type.RepeaterCount()
			if count == 0 {
				continue
			}
			base := sub.RepeaterOffset
			body = append(body, fmt.Sprintf("if (dyn_index >= %d && dyn_index < %d) {", base, base+count),
				"    "+forward(ident(sub.Name), base), "}")
		}
		return append(body, `throw new Error("invalid dynamic index " + dyn_index);`)
	}

	method(st, "visit_dynamic_children", "dyn_index, order, visitor", dispatch(func(i int, rep *llr.RepeatedElement) []string {
		return []string{ensureUpdated(rep, i, ctx), fmt.Sprintf("return self.%s.visit(order, visitor);", repeaterField(i))}
	}, func(sub string, base int) string {
		return fmt.Sprintf("return self.%s.visit_dynamic_children(dyn_index - %d, order, visitor);", sub, base)
	})...)
	method(st, "subtree_range", "dyn_index", dispatch(func(i int, rep *llr.RepeatedElement) []string {
		return []string{ensureUpdated(rep, i, ctx), fmt.Sprintf("return self.%s.indexRange();", repeaterField(i))}
	}, func(sub string, base int) string {
		return fmt.Sprintf("return self.%s.subtree_range(dyn_index - %d);", sub, base)
	})...)
	method(st, "subtree_component", "dyn_index, subtree_index", dispatch(func(i int, _ *llr.RepeatedElement) []string {
		return []string{fmt.Sprintf("return self.%s.instanceAt(subtree_index);", repeaterField(i))}
	}, func(sub string, base int) string {
		return fmt.Sprintf("return self.%s.subtree_component(dyn_index - %d, subtree_index);", sub, base)
	})...)
}

// dispatchItemFunction builds the body of a function taking a local item index. Indices
// belonging to nested sub-components are forwarded to them, relative to their own tree.
func dispatchItemFunction(sc *llr.SubComponent, name, forwardArgs string, code []string, fallback string) []string {
	body := []string{selfDecl}
	body = append(body, code...)
	for _, sub := range sc.SubComponents {
		count := sub.Type.ChildItemCount()
		body = append(body,
			fmt.Sprintf("if (index === %d) {", sub.IndexInTree),
			fmt.Sprintf("    return self.%s.%s(0%s);", ident(sub.Name), name, forwardArgs),
			"}")
		if count > 1 {
			body = append(body,
				fmt.Sprintf("if (index >= %d && index < %d) {", sub.IndexOfFirstChildInTree, sub.IndexOfFirstChildInTree+count-1),
				fmt.Sprintf("    return self.%s.%s(index - %d%s);", ident(sub.Name), name, sub.IndexOfFirstChildInTree-1, forwardArgs),
				"}")
		}
	}
	return append(body, fallback)
}

func switchOn(selector string, cases []string) []string {
	if len(cases) == 0 {
		return nil
	}
	body := []string{fmt.Sprintf("switch (%s) {", selector)}
	for _, c := range cases {
		body = append(body, "    "+c)
	}
	return append(body, "}")
}

// addItemFunctions adds the functions the runtime calls per item: geometry,
// accessibility and, with debug info, element infos
func (g *jsGenerator) addItemFunctions(st *output.Struct, sc *llr.SubComponent, ctx *evalCtx) {
	var geometry []string
	for i, geom := range sc.Geometries {
		if geom != nil {
			geometry = append(geometry, fmt.Sprintf("case %d: return %s;", i, compileExpression(geom, ctx)))
		}
	}

	var roles, strs, actions []string
	supported := map[int][]string{}
	for _, key := range sc.AccessibleKeys() {
		expr := sc.AccessibleProps[key]
		what := strings.TrimPrefix(key.What, "accessible-")
		switch {
		case what == "role":
			roles = append(roles, fmt.Sprintf("case %d: return %s;", key.ItemIndex, compileExpression(expr, ctx)))
		case strings.HasPrefix(what, "action-"):
			action := strings.TrimPrefix(what, "action-")
			actions = append(actions, fmt.Sprintf("case \"%d:%s\": %s; return;", key.ItemIndex, action, compileExpression(expr, ctx)))
			supported[key.ItemIndex] = append(supported[key.ItemIndex], stringLiteral(action))
		default:
			strs = append(strs, fmt.Sprintf("case \"%d:%s\": return %s;", key.ItemIndex, what, compileExpression(expr, ctx)))
		}
	}
	var supportedCases []string
	for _, i := range sortedIntKeys(supported) {
		supportedCases = append(supportedCases, fmt.Sprintf("case %d: return [%s];", i, strings.Join(supported[i], ", ")))
	}

	method(st, "item_geometry", "index", dispatchItemFunction(sc, "item_geometry", "", switchOn("index", geometry), "return new slint.LogicalRect();")...)
	method(st, "accessible_role", "index", dispatchItemFunction(sc, "accessible_role", "", switchOn("index", roles), "return slint.AccessibleRole.None;")...)
	method(st, "accessible_string_property", "index, what", dispatchItemFunction(sc, "accessible_string_property", ", what",
		switchOn("index + \":\" + what", strs), "return null;")...)
	method(st, "accessibility_action", "index, action", dispatchItemFunction(sc, "accessibility_action", ", action",
		switchOn("index + \":\" + action", actions), "")...)
	method(st, "supported_accessibility_actions", "index", dispatchItemFunction(sc, "supported_accessibility_actions", "",
		switchOn("index", supportedCases), "return [];")...)
	if g.debugInfo {
		var infos []string
		for _, i := range sortedIntKeys(sc.ElementInfos) {
			infos = append(infos, fmt.Sprintf("case %d: return %s;", i, stringLiteral(sc.ElementInfos[i])))
		}
		method(st, "element_infos", "index", dispatchItemFunction(sc, "element_infos", "", switchOn("index", infos), "return null;")...)
	}
}

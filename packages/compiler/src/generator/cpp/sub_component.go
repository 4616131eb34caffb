package cpp

import (
	"fmt"
	"strings"

	"slintc-go/packages/compiler/src/langtype"
	"slintc-go/packages/compiler/src/llr"
	"slintc-go/packages/compiler/src/output"
	"slintc-go/packages/compiler/src/util"
)

const selfDecl = "[[maybe_unused]] auto self = this;"

func (g *cppGenerator) subComponentCtx(sc *llr.SubComponent, parent *llr.ParentCtx[cppState]) *evalCtx {
	return llr.NewSubComponentContext(g.unit, sc, g.state("self->globals"), parent)
}

// generateSubComponent builds the struct of a sub-component. The structs of the item
// trees it owns (repeaters, popups, menus) are declared before it.
func (g *cppGenerator) generateSubComponent(sc *llr.SubComponent, parent *llr.ParentCtx[cppState]) *output.Struct {
	st := &output.Struct{Name: g.structName(sc)}
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

	field := func(t, name, init string) {
		st.AddMember(output.AccessPublic, &output.Var{Type: t, Name: name, Init: init})
	}
	field("slint::cbindgen_private::ItemTreeWeak", "self_weak", "")
	field("const class SharedGlobals*", "globals", "nullptr")
	field("uint32_t", "tree_index", "0")
	field("uint32_t", "tree_index_of_first_child", "0")
	for _, p := range sc.Properties {
		if p.UseCount == 0 {
			continue
		}
		field(propertyFieldType(p.Type), ident(p.Name), "")
	}
	for _, item := range sc.Items {
		if item.IsFlickableViewport {
			continue
		}
		field("slint::cbindgen_private::"+item.Class.ClassName, ident(item.Name), "")
	}
	for _, sub := range sc.SubComponents {
		field(g.structName(sub.Type), ident(sub.Name), "")
	}
	for i, rep := range sc.Repeated {
		dataType := "int"
		if rep.DataProp != nil {
			dataType = mustCppType(rep.SubTree.Root.Properties[*rep.DataProp].Type)
		}
		field(fmt.Sprintf("slint::private_api::Repeater<class %s, %s>", g.structName(rep.SubTree.Root), dataType), repeaterField(i), "")
	}
	for i := range sc.ChangeCallbacks {
		field("slint::private_api::ChangeTracker", fmt.Sprintf("change_tracker%d", i), "")
	}
	for i := range sc.Timers {
		field("mutable slint::Timer", fmt.Sprintf("timer%d", i), "")
		field("slint::private_api::ChangeTracker", fmt.Sprintf("timer_tracker%d", i), "")
	}
	for i := range sc.PopupWindows {
		field("mutable std::optional<uint32_t>", popupSlot(i), "")
	}
	for i := range sc.MenuItemTrees {
		field("mutable std::optional<uint32_t>", menuSlot(i), "")
	}

	g.addMethod(st, output.AccessPublic, g.initFunction(sc, ctx))
	g.addMethod(st, output.AccessPublic, g.userInitFunction(sc, ctx))
	if len(sc.Timers) > 0 {
		g.addMethod(st, output.AccessPublic, g.updateTimersFunction(sc, ctx))
	}
	for _, f := range sc.Functions {
		g.addMethod(st, output.AccessPublic, g.userFunction(f, ctx))
	}
	g.addMethod(st, output.AccessPublic, g.layoutInfoFunction(sc, ctx))
	for _, fn := range g.dynamicChildrenFunctions(sc, ctx) {
		g.addMethod(st, output.AccessPublic, fn)
	}
	for _, fn := range g.itemFunctions(sc, ctx) {
		g.addMethod(st, output.AccessPublic, fn)
	}
	return st
}

func repeaterField(i int) string {
	return "repeater_" + itoa(i)
}

func (g *cppGenerator) userFunction(f llr.Function, ctx *evalCtx) *output.Function {
	fctx := ctx.WithArguments(f.Args)
	return &output.Function{
		Name:       functionName(f.Name),
		Signature:  fmt.Sprintf("(%s) const -> %s", parameterList(f.Args), mustCppType(f.ReturnType)),
		Statements: []string{selfDecl, compileFunctionBody(f.Code, f.ReturnType, fctx)},
	}
}

func (g *cppGenerator) initFunction(sc *llr.SubComponent, ctx *evalCtx) *output.Function {
	body := []string{
		selfDecl,
		"self->self_weak = enclosing_component;",
		"self->globals = globals;",
		"this->tree_index = tree_index;",
		"this->tree_index_of_first_child = tree_index_of_first_child;",
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
		body = append(body, fmt.Sprintf("this->%s.init(globals, enclosing_component, %s, %s);", ident(sub.Name), globalIndex, globalChildren))
	}
	for _, tw := range sc.TwoWayBindings {
		t := mustCppType(ctx.PropertyType(tw.A))
		body = append(body, fmt.Sprintf("slint::private_api::Property<%s>::link_two_way(&%s, &%s);", t, accessMember(tw.A, ctx), accessMember(tw.B, ctx)))
	}
	for _, init := range sc.PropertyInit {
		body = append(body, propertyInitCode(init.Ref, init.Binding, ctx))
	}
	for _, ref := range sc.ConstProperties {
		body = append(body, accessMember(ref, ctx)+".set_constant();")
	}
	for i, rep := range sc.Repeated {
		body = append(body, fmt.Sprintf("self->%s.set_model_binding([self] { (void)self; return %s; });", repeaterField(i), compileExpression(rep.Model, ctx)))
	}
	return &output.Function{
		Name:       "init",
		Signature:  "(const class SharedGlobals *globals, slint::cbindgen_private::ItemTreeWeak enclosing_component, uint32_t tree_index, uint32_t tree_index_of_first_child) -> void",
		Statements: body,
	}
}

// propertyInitCode installs the binding or the value of a property
func propertyInitCode(ref llr.PropertyReference, b *llr.BindingExpression, ctx *evalCtx) string {
	access := accessMember(ref, ctx)
	t := ctx.PropertyType(ref)
	if t.Kind == langtype.KindCallback {
		cctx := ctx.WithArguments(t.Args)
		return fmt.Sprintf("%s.set_handler([this](%s) { %s %s });", access, parameterList(t.Args), selfDecl, compileFunctionBody(b.Expression, t.Return, cctx))
	}
	if b.IsConstant && !b.IsStateInfo {
		value := compileExpression(b.Expression, ctx)
		if b.Animation != nil && b.Animation.Kind == llr.AnimationStatic {
			return fmt.Sprintf("%s.set_animated_value(%s, %s);", access, value, compileExpression(b.Animation.Expression, ctx))
		}
		if b.Animation == nil {
			return fmt.Sprintf("%s.set(%s);", access, value)
		}
	}
	lambda := fmt.Sprintf("[this]() { %s %s }", selfDecl, compileFunctionBody(b.Expression, t, ctx))
	if b.IsStateInfo {
		return fmt.Sprintf("slint::private_api::set_state_binding(%s, %s);", access, lambda)
	}
	if b.Animation != nil {
		anim := compileExpression(b.Animation.Expression, ctx)
		if b.Animation.Kind == llr.AnimationTransition {
			return fmt.Sprintf("slint::private_api::set_animated_binding_for_transition(%s, %s, [this](uint64_t *start_time) -> slint::cbindgen_private::PropertyAnimation { %s auto [anim, time] = %s; *start_time = time; return anim; });",
				access, lambda, selfDecl, anim)
		}
		return fmt.Sprintf("%s.set_animated_binding(%s, [this](uint64_t **start_time) -> slint::cbindgen_private::PropertyAnimation { %s auto anim = %s; *start_time = nullptr; return anim; });",
			access, lambda, selfDecl, anim)
	}
	return fmt.Sprintf("%s.set_binding(%s);", access, lambda)
}

func (g *cppGenerator) userInitFunction(sc *llr.SubComponent, ctx *evalCtx) *output.Function {
	body := []string{selfDecl}
	for _, sub := range sc.SubComponents {
		body = append(body, fmt.Sprintf("self->%s.user_init();", ident(sub.Name)))
	}
	for _, code := range sc.InitCode {
		body = append(body, compileExpression(code, ctx)+";")
	}
	for i, cc := range sc.ChangeCallbacks {
		body = append(body, changeTrackerInit(fmt.Sprintf("change_tracker%d", i), cc, ctx))
	}
	if len(sc.Timers) > 0 {
		body = append(body, "self->update_timers();")
		for i, t := range sc.Timers {
			body = append(body, fmt.Sprintf("self->timer_tracker%d.init(self, [](auto self) { return std::make_tuple(bool(%s), std::int64_t(%s)); }, [](auto self, auto) { self->update_timers(); });",
				i, compileExpression(t.Running, ctx), compileExpression(t.Interval, ctx)))
		}
	}
	return &output.Function{Name: "user_init", Signature: "() -> void", Statements: body}
}

func changeTrackerInit(field string, cc llr.ChangeCallback, ctx *evalCtx) string {
	return fmt.Sprintf("self->%s.init(self, [](auto self) { return %s.get(); }, [](auto self, auto) { %s; });",
		field, accessMember(cc.Property, ctx), compileExpression(cc.Code, ctx))
}

// updateTimersFunction starts, restarts or stops each timer. A running timer is only
// restarted when its interval changed.
func (g *cppGenerator) updateTimersFunction(sc *llr.SubComponent, ctx *evalCtx) *output.Function {
	body := []string{selfDecl}
	for i, t := range sc.Timers {
		timer := fmt.Sprintf("self->timer%d", i)
		body = append(body,
			fmt.Sprintf("if (%s) {", output.RemoveParentheses(compileExpression(t.Running, ctx))),
			fmt.Sprintf("    auto interval = std::chrono::milliseconds(%s);", compileExpression(t.Interval, ctx)),
			fmt.Sprintf("    if (!%s.running() || %s.interval() != interval) {", timer, timer),
			fmt.Sprintf("        %s.start(slint::TimerMode::Repeated, interval, [self] { %s; });", timer, compileExpression(t.Triggered, ctx)),
			"    }",
			"} else {",
			fmt.Sprintf("    %s.stop();", timer),
			"}",
		)
	}
	return &output.Function{Name: "update_timers", Signature: "() const -> void", Statements: body}
}

func (g *cppGenerator) layoutInfoFunction(sc *llr.SubComponent, ctx *evalCtx) *output.Function {
	layout := func(e llr.Expression) string {
		if e == nil {
			return "{}"
		}
		return compileExpression(e, ctx)
	}
	return &output.Function{
		Name:      "layout_info",
		Signature: "([[maybe_unused]] slint::cbindgen_private::Orientation o) const -> slint::cbindgen_private::LayoutInfo",
		Statements: []string{
			selfDecl,
			"if (o == slint::cbindgen_private::Orientation::Horizontal) {",
			"    return " + layout(sc.LayoutInfoH) + ";",
			"}",
			"return " + layout(sc.LayoutInfoV) + ";",
		},
	}
}

// ensureUpdated refreshes the instances of a repeater from its model
func ensureUpdated(rep *llr.RepeatedElement, i int, ctx *evalCtx) string {
	if rep.ListView == nil {
		return fmt.Sprintf("self->%s.ensure_updated(self);", repeaterField(i))
	}
	lv := rep.ListView
	return fmt.Sprintf("self->%s.ensure_updated_listview(self, &%s, &%s, &%s, %s.get(), %s.get());",
		repeaterField(i), accessMember(lv.ViewportWidth, ctx), accessMember(lv.ViewportHeight, ctx),
		accessMember(lv.ViewportY, ctx), accessMember(lv.ListViewWidth, ctx), accessMember(lv.ListViewHeight, ctx))
}

// dynamicChildrenFunctions dispatch on the repeater index, local repeaters first then
// the ranges of the nested sub-components
func (g *cppGenerator) dynamicChildrenFunctions(sc *llr.SubComponent, ctx *evalCtx) []*output.Function {
	dispatch := func(perRepeater func(i int, rep *llr.RepeatedElement) []string, forward func(sub string, base int) string) []string {
		body := []string{selfDecl, "switch (dyn_index) {"}
		for i := range sc.Repeated {
			body = append(body, fmt.Sprintf("    case %d: {", i))
			for _, l := range perRepeater(i, &sc.Repeated[i]) {
				body = append(body, "        "+l)
			}
			body = append(body, "    }")
		}
		body = append(body, "};")
		for _, sub := range sc.SubComponents {
			count := sub.Type.RepeaterCount()
			if count == 0 {
				continue
			}
			base := sub.RepeaterOffset
			body = append(body, fmt.Sprintf("if (dyn_index >= %d && dyn_index < %d) {", base, base+count),
				"    "+forward(ident(sub.Name), base), "}")
		}
		return append(body, "std::abort();")
	}

	visit := dispatch(func(i int, rep *llr.RepeatedElement) []string {
		return []string{ensureUpdated(rep, i, ctx), fmt.Sprintf("return self->%s.visit(order, visitor);", repeaterField(i))}
	}, func(sub string, base int) string {
		return fmt.Sprintf("return self->%s.visit_dynamic_children(dyn_index - %d, order, visitor);", sub, base)
	})
	rangeFn := dispatch(func(i int, rep *llr.RepeatedElement) []string {
		return []string{ensureUpdated(rep, i, ctx), fmt.Sprintf("return self->%s.index_range();", repeaterField(i))}
	}, func(sub string, base int) string {
		return fmt.Sprintf("return self->%s.subtree_range(dyn_index - %d);", sub, base)
	})
	component := dispatch(func(i int, rep *llr.RepeatedElement) []string {
		return []string{fmt.Sprintf("*result = vtable::VWeak(self->%s.instance_at(subtree_index)).into_dyn();", repeaterField(i)), "return;"}
	}, func(sub string, base int) string {
		return fmt.Sprintf("self->%s.subtree_component(dyn_index - %d, subtree_index, result); return;", sub, base)
	})

	return []*output.Function{
		{
			Name:       "visit_dynamic_children",
			Signature:  "(uint32_t dyn_index, [[maybe_unused]] slint::private_api::TraversalOrder order, [[maybe_unused]] slint::private_api::ItemVisitorRefMut visitor) const -> uint64_t",
			Statements: visit,
		},
		{
			Name:       "subtree_range",
			Signature:  "(uintptr_t dyn_index) const -> slint::private_api::IndexRange",
			Statements: rangeFn,
		},
		{
			Name:       "subtree_component",
			Signature:  "(uintptr_t dyn_index, [[maybe_unused]] uintptr_t subtree_index, [[maybe_unused]] slint::private_api::ItemTreeWeak *result) const -> void",
			Statements: component,
		},
	}
}

// dispatchItemFunction builds the body of a function taking a local item index. Indices
// belonging to nested sub-components are forwarded to them, relative to their own tree.
func dispatchItemFunction(sc *llr.SubComponent, name, forwardArgs string, code []string, fallback string) []string {
	body := []string{selfDecl}
	body = append(body, code...)
	for _, sub := range sc.SubComponents {
		count := sub.Type.ChildItemCount()
		body = append(body,
			fmt.Sprintf("if (index == %d) {", sub.IndexInTree),
			fmt.Sprintf("    return self->%s.%s(0%s);", ident(sub.Name), name, forwardArgs),
			"}")
		if count > 1 {
			body = append(body,
				fmt.Sprintf("if (index >= %d && index < %d) {", sub.IndexOfFirstChildInTree, sub.IndexOfFirstChildInTree+count-1),
				fmt.Sprintf("    return self->%s.%s(index - %d%s);", ident(sub.Name), name, sub.IndexOfFirstChildInTree-1, forwardArgs),
				"}")
		}
	}
	return append(body, fallback)
}

func switchCases(cases []string) []string {
	if len(cases) == 0 {
		return nil
	}
	body := []string{"switch (index) {"}
	for _, c := range cases {
		body = append(body, "    "+c)
	}
	return append(body, "}")
}

// itemFunctions are the functions the runtime calls per item: geometry, accessibility
// and, with debug info, element infos
func (g *cppGenerator) itemFunctions(sc *llr.SubComponent, ctx *evalCtx) []*output.Function {
	var geometry []string
	for i, geom := range sc.Geometries {
		if geom == nil {
			continue
		}
		geometry = append(geometry, fmt.Sprintf("case %d: return slint::private_api::convert_anonymous_rect(%s);", i, compileExpression(geom, ctx)))
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
			action := util.DashCaseToPascalCase(strings.TrimPrefix(what, "action-"))
			actions = append(actions, fmt.Sprintf("case (%d << 8) | uintptr_t(slint::cbindgen_private::AccessibilityAction::Tag::%s): %s; return;",
				key.ItemIndex, action, compileExpression(expr, ctx)))
			supported[key.ItemIndex] = append(supported[key.ItemIndex], "slint::cbindgen_private::SupportedAccessibilityAction_"+action)
		default:
			strs = append(strs, fmt.Sprintf("case (%d << 8) | uintptr_t(slint::cbindgen_private::AccessibleStringProperty::%s): *result = %s; return true;",
				key.ItemIndex, util.DashCaseToPascalCase(what), compileExpression(expr, ctx)))
		}
	}
	var supportedCases []string
	for _, key := range sc.AccessibleKeys() {
		if flags, ok := supported[key.ItemIndex]; ok {
			supportedCases = append(supportedCases, fmt.Sprintf("case %d: return %s;", key.ItemIndex, strings.Join(flags, " | ")))
			delete(supported, key.ItemIndex)
		}
	}

	keyedSwitch := func(selector string, cases []string) []string {
		if len(cases) == 0 {
			return nil
		}
		body := []string{fmt.Sprintf("switch (%s) {", selector)}
		for _, c := range cases {
			body = append(body, "    "+c)
		}
		return append(body, "}")
	}

	fns := []*output.Function{
		{
			Name:       "item_geometry",
			Signature:  "(uint32_t index) const -> slint::cbindgen_private::LogicalRect",
			Statements: dispatchItemFunction(sc, "item_geometry", "", switchCases(geometry), "return {};"),
		},
		{
			Name:       "accessible_role",
			Signature:  "(uint32_t index) const -> slint::cbindgen_private::AccessibleRole",
			Statements: dispatchItemFunction(sc, "accessible_role", "", switchCases(roles), "return {};"),
		},
		{
			Name:       "accessible_string_property",
			Signature:  "(uint32_t index, slint::cbindgen_private::AccessibleStringProperty what, [[maybe_unused]] slint::SharedString *result) const -> bool",
			Statements: dispatchItemFunction(sc, "accessible_string_property", ", what, result", keyedSwitch("(index << 8) | uintptr_t(what)", strs), "return false;"),
		},
		{
			Name:       "accessibility_action",
			Signature:  "(uint32_t index, const slint::cbindgen_private::AccessibilityAction &action) const -> void",
			Statements: dispatchItemFunction(sc, "accessibility_action", ", action", keyedSwitch("(index << 8) | uintptr_t(action.tag)", actions), ""),
		},
		{
			Name:       "supported_accessibility_actions",
			Signature:  "(uint32_t index) const -> uint32_t",
			Statements: dispatchItemFunction(sc, "supported_accessibility_actions", "", switchCases(supportedCases), "return 0;"),
		},
	}
	if g.debugInfo {
		var infos []string
		for _, i := range sortedIntKeys(sc.ElementInfos) {
			infos = append(infos, fmt.Sprintf("case %d: *result = %s; return true;", i, stringLiteral(sc.ElementInfos[i])))
		}
		fns = append(fns, &output.Function{
			Name:       "element_infos",
			Signature:  "(uint32_t index, [[maybe_unused]] slint::SharedString *result) const -> bool",
			Statements: dispatchItemFunction(sc, "element_infos", ", result", switchCases(infos), "return false;"),
		})
	}
	return fns
}

package cpp

import (
	"fmt"
	"strings"

	"slintc-go/packages/compiler/src/generator"
	"slintc-go/packages/compiler/src/llr"
	"slintc-go/packages/compiler/src/output"
	"slintc-go/packages/compiler/src/util"
)

type treeKind int

const (
	treePublic treeKind = iota
	treeRepeated
	// treeChild is a popup or a menu
	treeChild
)

// generateRepeatedComponent declares the instance type of repeater i of the
// sub-component of parent
func (g *cppGenerator) generateRepeatedComponent(rep *llr.RepeatedElement, i int, parent *evalCtx) {
	parentCtx := llr.NewParentCtx(parent, i)
	st := g.generateSubComponent(rep.SubTree.Root, parentCtx)
	ctx := g.subComponentCtx(rep.SubTree.Root, parentCtx)
	g.itemTreeAdditions(st, rep.SubTree, ctx, treeRepeated, rep)
	root := rep.SubTree.Root

	var update []string
	update = append(update, selfDecl)
	if rep.IndexProp != nil {
		update = append(update, fmt.Sprintf("self->%s.set(i);", ident(root.Properties[*rep.IndexProp].Name)))
	}
	if rep.DataProp != nil {
		update = append(update, fmt.Sprintf("self->%s.set(data);", ident(root.Properties[*rep.DataProp].Name)))
	}
	dataType := "int"
	if rep.DataProp != nil {
		dataType = mustCppType(root.Properties[*rep.DataProp].Type)
	}
	g.addMethod(st, output.AccessPublic, &output.Function{
		Name:       "update_data",
		Signature:  fmt.Sprintf("([[maybe_unused]] int i, [[maybe_unused]] const %s &data) const -> void", dataType),
		Statements: update,
	})
	// the repeater calls init() once the data is set
	g.addMethod(st, output.AccessPublic, &output.Function{
		Name:       "init",
		Signature:  "() -> void",
		Statements: []string{"user_init();"},
	})
	if lv := rep.ListView; lv != nil {
		g.addMethod(st, output.AccessPublic, &output.Function{
			Name:      "listview_layout",
			Signature: "(float *offset_y, const slint::private_api::Property<float> *viewport_width) const -> void",
			Statements: []string{
				selfDecl,
				"float vp_w = viewport_width->get();",
				fmt.Sprintf("%s.set(*offset_y);", accessMember(lv.PropY, ctx)),
				fmt.Sprintf("*offset_y += %s.get();", accessMember(lv.PropHeight, ctx)),
				fmt.Sprintf("float width = %s.get();", accessMember(lv.PropWidth, ctx)),
				"if (vp_w < width) {",
				"    viewport_width->set(width);",
				"}",
			},
		})
	} else {
		g.addMethod(st, output.AccessPublic, &output.Function{
			Name:       "box_layout_data",
			Signature:  "(slint::cbindgen_private::Orientation o) const -> slint::cbindgen_private::BoxLayoutCellData",
			Statements: []string{"return { layout_info(o) };"},
		})
	}
	g.file.Declarations = append(g.file.Declarations, st)
}

// generateChildTree declares a popup or menu tree shown above the sub-component of parent
func (g *cppGenerator) generateChildTree(tree llr.ItemTree, parent *evalCtx) {
	parentCtx := llr.NewParentCtx(parent, llr.NoRepeater)
	st := g.generateSubComponent(tree.Root, parentCtx)
	ctx := g.subComponentCtx(tree.Root, parentCtx)
	g.itemTreeAdditions(st, tree, ctx, treeChild, nil)
	g.file.Declarations = append(g.file.Declarations, st)
}

// generatePublicComponent declares an exported component with its API
func (g *cppGenerator) generatePublicComponent(pc *llr.PublicComponent) {
	g.structNames[pc.Item.Root] = ident(pc.Name)
	st := g.generateSubComponent(pc.Item.Root, nil)
	ctx := g.subComponentCtx(pc.Item.Root, nil)
	g.itemTreeAdditions(st, pc.Item, ctx, treePublic, nil)
	for _, other := range g.file.Declarations {
		if s, ok := other.(*output.Struct); ok && s.Name != st.Name {
			st.Friends = append(st.Friends, s.Name)
		}
	}
	g.generatePublicAPI(st, pc, ctx)
	g.file.Declarations = append(g.file.Declarations, st)
}

// itemTreeAdditions adds what makes a sub-component the root of a tree: the item tree
// and item arrays, the dispatch table, and the create function
func (g *cppGenerator) itemTreeAdditions(st *output.Struct, tree llr.ItemTree, ctx *evalCtx, kind treeKind, rep *llr.RepeatedElement) {
	name := st.Name
	var parentType string
	if ctx.Parent != nil {
		parentType = g.structName(ctx.Parent.Ctx.CurrentSubComponent)
		st.AddMember(output.AccessPublic, &output.Var{
			Type: fmt.Sprintf("vtable::VWeakMapped<slint::private_api::ItemTreeVTable, const class %s>", parentType),
			Name: "parent",
		})
	}
	if kind == treePublic {
		st.AddMember(output.AccessPrivate, &output.Var{Type: "SharedGlobals", Name: "m_globals"})
	}

	g.addItemArrays(st, tree)
	g.addVTableFunctions(st, kind, rep)

	nodes := []string{
		"visit_children", "get_item_ref", "get_subtree_range", "get_subtree", "get_item_tree",
		"parent_node", "embed_component", "subtree_index", "layout_info", "item_geometry",
		"accessible_role", "accessible_string_property", "accessibility_action",
		"supported_accessibility_actions", "element_infos", "window_adapter",
		"slint::private_api::drop_in_place<" + name + ">", "slint::private_api::dealloc",
	}
	st.AddMember(output.AccessPublic, &output.Var{Type: "static const slint::private_api::ItemTreeVTable", Name: "static_vtable"})
	g.file.Definitions = append(g.file.Definitions, &output.Var{
		Type:    "slint::private_api::ItemTreeVTable",
		Name:    name + "::static_vtable",
		IsConst: true,
		Init:    "{ " + strings.Join(nodes, ", ") + " }",
	})

	handle := fmt.Sprintf("vtable::VRc<slint::private_api::ItemTreeVTable, %s>", name)
	create := []string{
		fmt.Sprintf("auto self_rc = %s::make();", handle),
		fmt.Sprintf("auto self = const_cast<%s *>(&*self_rc);", name),
		"self->self_weak = vtable::VWeak(self_rc).into_dyn();",
	}
	switch kind {
	case treePublic:
		create = append(create,
			"self->m_globals.root_weak = self->self_weak;",
			"slint::cbindgen_private::slint_ensure_backend();")
		if g.bundlesTranslations() {
			create = append(create, "slint::private_api::set_bundled_languages(slint_translation_bundle_languages);")
		}
		create = append(create, "self->init(&self->m_globals, self->self_weak, 0, 1);")
		for _, glob := range g.unit.Globals {
			if !glob.IsBuiltin && len(glob.InitCode) > 0 {
				create = append(create, fmt.Sprintf("self->m_globals.global_%s->user_init();", ident(glob.Name)))
			}
		}
		create = append(create, "self->user_init();", fmt.Sprintf("return slint::ComponentHandle<%s>{ self_rc };", name))
		g.addMethod(st, output.AccessPublic, &output.Function{
			Name:       "create",
			Signature:  fmt.Sprintf("() -> slint::ComponentHandle<%s>", name),
			IsStatic:   true,
			Statements: create,
		})
	default:
		// user_init is left to the repeater, or to the code showing the popup
		create = append(create,
			fmt.Sprintf("self->parent = vtable::VWeakMapped<slint::private_api::ItemTreeVTable, const class %s>(parent->self_weak.lock().value(), parent);", parentType),
			"self->init(parent->globals, self->self_weak, 0, 1);",
			"return self_rc;")
		g.addMethod(st, output.AccessPublic, &output.Function{
			Name:       "create",
			Signature:  fmt.Sprintf("(const class %s *parent) -> %s", parentType, handle),
			IsStatic:   true,
			Statements: create,
		})
	}
}

// addItemArrays emits the flattened item tree and the offsets of the items
func (g *cppGenerator) addItemArrays(st *output.Struct, tree llr.ItemTree) {
	var nodes, items []string
	for _, n := range tree.Tree.Flatten() {
		if n.Kind == llr.NodeDynamicTree {
			repeater := generator.RepeaterRange(tree.Root, n.Node.SubComponentPath, n.Node.ItemIndex)
			nodes = append(nodes, fmt.Sprintf("slint::private_api::make_dyn_node(%d, %d)", repeater, n.ParentIndex))
			continue
		}
		nodes = append(nodes, fmt.Sprintf("slint::private_api::make_item_node(%d, %d, %d, %d, %t)",
			n.ChildrenCount, n.ChildrenIndex, n.ParentIndex, n.ItemArrayIndex, n.IsAccessible))
		items = append(items, g.itemArrayEntry(st.Name, tree.Root, n.Node))
	}
	g.addMethod(st, output.AccessPublic, &output.Function{
		Name:      "item_tree",
		Signature: "() -> slint::cbindgen_private::Slice<slint::private_api::ItemTreeNode>",
		IsStatic:  true,
		Statements: []string{
			"static const slint::private_api::ItemTreeNode children[] {",
			"    " + strings.Join(nodes, ",\n    "),
			"};",
			"return { const_cast<slint::private_api::ItemTreeNode*>(children), std::size(children) };",
		},
	})
	g.addMethod(st, output.AccessPublic, &output.Function{
		Name:      "item_array",
		Signature: "() -> const slint::private_api::ItemArray",
		IsStatic:  true,
		Statements: []string{
			"static const slint::private_api::ItemArrayEntry items[] {",
			"    " + strings.Join(items, ",\n    "),
			"};",
			"return { items, std::size(items) };",
		},
	})
}

// itemArrayEntry is the vtable of an item with its offset in the root struct
func (g *cppGenerator) itemArrayEntry(rootName string, root *llr.SubComponent, node *llr.TreeNode) string {
	var offsets []string
	owner := rootName
	sc := root
	for _, i := range node.SubComponentPath {
		sub := sc.SubComponents[i]
		offsets = append(offsets, fmt.Sprintf("offsetof(%s, %s)", owner, ident(sub.Name)))
		sc = sub.Type
		owner = g.structName(sc)
	}
	if node.ItemIndex >= len(sc.Items) {
		util.InternalError("item index %d out of range in %s", node.ItemIndex, sc.Name)
	}
	item := sc.Items[node.ItemIndex]
	offsets = append(offsets, fmt.Sprintf("offsetof(%s, %s)", owner, ident(item.Name)))
	if item.IsFlickableViewport {
		offsets = append(offsets, "offsetof(slint::cbindgen_private::Flickable, viewport)")
	}
	return fmt.Sprintf("{ %s, %s }", item.Class.VTableGetter, strings.Join(offsets, " + "))
}

// addVTableFunctions adds the static functions referenced by the dispatch table. They
// forward to the member functions of the root sub-component.
func (g *cppGenerator) addVTableFunctions(st *output.Struct, kind treeKind, rep *llr.RepeatedElement) {
	name := st.Name
	cast := fmt.Sprintf("[[maybe_unused]] auto self = reinterpret_cast<const %s*>(component.instance);", name)
	static := func(fname, sig string, body ...string) {
		g.addMethod(st, output.AccessPublic, &output.Function{Name: fname, Signature: sig, IsStatic: true, Statements: body})
	}

	static("visit_children", "(slint::private_api::ItemTreeRef component, intptr_t index, slint::private_api::TraversalOrder order, slint::private_api::ItemVisitorRefMut visitor) -> uint64_t",
		fmt.Sprintf("static auto dyn_visit = [] (const void *base, [[maybe_unused]] slint::private_api::TraversalOrder order, [[maybe_unused]] slint::private_api::ItemVisitorRefMut visitor, [[maybe_unused]] uint32_t dyn_index) -> uint64_t { [[maybe_unused]] auto self = reinterpret_cast<const %s*>(base); return self->visit_dynamic_children(dyn_index, order, visitor); };", name),
		cast,
		"auto self_rc = self->self_weak.lock()->into_dyn();",
		"return slint::cbindgen_private::slint_visit_item_tree(&self_rc, item_tree(), index, order, visitor, dyn_visit);")
	static("get_item_ref", "(slint::private_api::ItemTreeRef component, uint32_t index) -> slint::private_api::ItemRef",
		"return slint::private_api::get_item_ref(component, item_tree(), item_array(), index);")
	static("get_subtree_range", "(slint::private_api::ItemTreeRef component, uint32_t dyn_index) -> slint::private_api::IndexRange",
		cast, "return self->subtree_range(dyn_index);")
	static("get_subtree", "(slint::private_api::ItemTreeRef component, uint32_t dyn_index, uintptr_t subtree_index, slint::private_api::ItemTreeWeak *result) -> void",
		cast, "self->subtree_component(dyn_index, subtree_index, result);")
	static("get_item_tree", "(slint::private_api::ItemTreeRef) -> slint::cbindgen_private::Slice<slint::private_api::ItemTreeNode>",
		"return item_tree();")

	parentNode := []string{cast}
	if kind == treeRepeated && rep != nil {
		parentNode = append(parentNode,
			"if (auto p = self->parent.lock()) {",
			fmt.Sprintf("    *result = { (*p)->self_weak, (*p)->tree_index_of_first_child + %d };", rep.IndexInTree-1),
			"}")
	}
	static("parent_node", "([[maybe_unused]] slint::private_api::ItemTreeRef component, [[maybe_unused]] slint::private_api::ItemWeak *result) -> void", parentNode...)
	static("embed_component", "(slint::private_api::ItemTreeRef, const slint::private_api::ItemTreeWeak *, uint32_t) -> bool",
		"return false;")

	subtreeIndex := []string{"return std::numeric_limits<uintptr_t>::max();"}
	if kind == treeRepeated && rep != nil && rep.IndexProp != nil {
		prop := rep.SubTree.Root.Properties[*rep.IndexProp]
		subtreeIndex = []string{cast, fmt.Sprintf("return self->%s.get();", ident(prop.Name))}
	}
	static("subtree_index", "([[maybe_unused]] slint::private_api::ItemTreeRef component) -> uintptr_t", subtreeIndex...)
	static("layout_info", "(slint::private_api::ItemTreeRef component, slint::cbindgen_private::Orientation o) -> slint::cbindgen_private::LayoutInfo",
		cast, "return self->layout_info(o);")
	static("item_geometry", "(slint::private_api::ItemTreeRef component, uint32_t index) -> slint::cbindgen_private::LogicalRect",
		cast, "return self->item_geometry(index);")
	static("accessible_role", "(slint::private_api::ItemTreeRef component, uint32_t index) -> slint::cbindgen_private::AccessibleRole",
		cast, "return self->accessible_role(index);")
	static("accessible_string_property", "(slint::private_api::ItemTreeRef component, uint32_t index, slint::cbindgen_private::AccessibleStringProperty what, slint::SharedString *result) -> bool",
		cast, "return self->accessible_string_property(index, what, result);")
	static("accessibility_action", "(slint::private_api::ItemTreeRef component, uint32_t index, const slint::cbindgen_private::AccessibilityAction *action) -> void",
		cast, "self->accessibility_action(index, *action);")
	static("supported_accessibility_actions", "(slint::private_api::ItemTreeRef component, uint32_t index) -> uint32_t",
		cast, "return self->supported_accessibility_actions(index);")
	if g.debugInfo {
		static("element_infos", "(slint::private_api::ItemTreeRef component, uint32_t index, slint::SharedString *result) -> bool",
			cast, "return self->element_infos(index, result);")
	} else {
		static("element_infos", "(slint::private_api::ItemTreeRef, uint32_t, slint::SharedString *) -> bool",
			"return false;")
	}
	static("window_adapter", "(slint::private_api::ItemTreeRef component, [[maybe_unused]] bool do_create, [[maybe_unused]] slint::cbindgen_private::Option<slint::private_api::WindowAdapterRc> *result) -> void",
		cast,
		"if (do_create || self->globals->m_window.has_value()) {",
		"    *result = self->globals->window().window_handle();",
		"}")
}

package js

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

// generateRepeatedComponent declares the instance class of repeater i of the
// sub-component of parent
func (g *jsGenerator) generateRepeatedComponent(rep *llr.RepeatedElement, i int, parent *evalCtx) {
	parentCtx := llr.NewParentCtx(parent, i)
	st := g.generateSubComponent(rep.SubTree.Root, parentCtx)
	ctx := g.subComponentCtx(rep.SubTree.Root, parentCtx)
	g.itemTreeAdditions(st, rep.SubTree, ctx, treeRepeated, rep)
	root := rep.SubTree.Root

	update := []string{selfDecl}
	if rep.IndexProp != nil {
		update = append(update, fmt.Sprintf("self.%s.set(i);", ident(root.Properties[*rep.IndexProp].Name)))
	}
	if rep.DataProp != nil {
		update = append(update, fmt.Sprintf("self.%s.set(data);", ident(root.Properties[*rep.DataProp].Name)))
	}
	method(st, "update_data", "i, data", update...)
	// the repeater calls init() once the data is set
	method(st, "init_instance", "", "this.user_init();")
	if lv := rep.ListView; lv != nil {
		method(st, "listview_layout", "offset_y, viewport_width",
			selfDecl,
			"const vp_w = viewport_width.get();",
			fmt.Sprintf("%s.set(offset_y.value);", accessMember(lv.PropY, ctx)),
			fmt.Sprintf("offset_y.value += %s.get();", accessMember(lv.PropHeight, ctx)),
			fmt.Sprintf("const width = %s.get();", accessMember(lv.PropWidth, ctx)),
			"if (vp_w < width) {",
			"    viewport_width.set(width);",
			"}")
	} else {
		method(st, "box_layout_data", "o", "return new slint.BoxLayoutCellData(this.layout_info(o));")
	}
	g.file.Declarations = append(g.file.Declarations, st)
}

// generateChildTree declares a popup or menu tree shown above the sub-component of parent
func (g *jsGenerator) generateChildTree(tree llr.ItemTree, parent *evalCtx) {
	parentCtx := llr.NewParentCtx(parent, llr.NoRepeater)
	st := g.generateSubComponent(tree.Root, parentCtx)
	ctx := g.subComponentCtx(tree.Root, parentCtx)
	g.itemTreeAdditions(st, tree, ctx, treeChild, nil)
	g.file.Declarations = append(g.file.Declarations, st)
}

// generatePublicComponent declares an exported component with its API
func (g *jsGenerator) generatePublicComponent(pc *llr.PublicComponent) {
	name := ident(pc.Name)
	g.classNames[pc.Item.Root] = name
	st := g.generateSubComponent(pc.Item.Root, nil)
	ctx := g.subComponentCtx(pc.Item.Root, nil)
	g.itemTreeAdditions(st, pc.Item, ctx, treePublic, nil)
	g.generatePublicAPI(st, pc, ctx)
	g.file.Declarations = append(g.file.Declarations, st)
	g.export(name, "")
}

// itemTreeAdditions adds what makes a sub-component the root of a tree: the item tree,
// the item array, the tree functions and create
func (g *jsGenerator) itemTreeAdditions(st *output.Struct, tree llr.ItemTree, ctx *evalCtx, kind treeKind, rep *llr.RepeatedElement) {
	if ctx.Parent != nil {
		field(st, "parent", "null")
	}
	if kind == treePublic {
		field(st, "m_globals", "new SharedGlobals()")
	}

	var nodes, items []string
	for _, n := range tree.Tree.Flatten() {
		if n.Kind == llr.NodeDynamicTree {
			repeater := generator.RepeaterRange(tree.Root, n.Node.SubComponentPath, n.Node.ItemIndex)
			nodes = append(nodes, fmt.Sprintf("slint.makeDynNode(%d, %d)", repeater, n.ParentIndex))
			continue
		}
		nodes = append(nodes, fmt.Sprintf("slint.makeItemNode(%d, %d, %d, %d, %t)",
			n.ChildrenCount, n.ChildrenIndex, n.ParentIndex, n.ItemArrayIndex, n.IsAccessible))
		items = append(items, itemArrayEntry(tree.Root, n.Node))
	}
	st.AddMember(output.AccessNone, &output.Var{
		Name:    "item_tree_nodes",
		IsConst: true,
		Init:    "[\n    " + strings.Join(nodes, ",\n    ") + ",\n]",
	})
	method(st, "item_tree", "", fmt.Sprintf("return %s.item_tree_nodes;", st.Name))
	method(st, "item_array", "", selfDecl, "return ["+strings.Join(items, ", ")+"];")

	parentNode := []string{selfDecl}
	if kind == treeRepeated && rep != nil {
		parentNode = append(parentNode,
			"const p = self.parent?.deref();",
			"if (p) {",
			fmt.Sprintf("    return new slint.ItemRc(p.self_weak, p.tree_index_of_first_child + %d);", rep.IndexInTree-1),
			"}")
	}
	parentNode = append(parentNode, "return null;")
	method(st, "parent_node", "", parentNode...)

	if kind == treeRepeated && rep != nil && rep.IndexProp != nil {
		method(st, "subtree_index", "", fmt.Sprintf("return this.%s.get();", ident(rep.SubTree.Root.Properties[*rep.IndexProp].Name)))
	} else {
		method(st, "subtree_index", "", "return Number.MAX_SAFE_INTEGER;")
	}
	method(st, "window_adapter", "do_create",
		"if (do_create || this.globals.m_window !== null) {",
		"    return this.globals.window();",
		"}",
		"return null;")

	create := []string{fmt.Sprintf("const self = new %s();", st.Name), "self.self_weak = new WeakRef(self);"}
	switch kind {
	case treePublic:
		create = append(create, "self.m_globals.root_weak = self.self_weak;", "slint.ensureBackend();")
		if g.bundlesTranslations() {
			create = append(create, "slint.setBundledLanguages(slint_translation_bundle_languages);")
		}
		create = append(create, "self.init(self.m_globals, self.self_weak, 0, 1);")
		for _, glob := range g.unit.Globals {
			if !glob.IsBuiltin && len(glob.InitCode) > 0 {
				create = append(create, fmt.Sprintf("self.m_globals.global_%s.user_init();", ident(glob.Name)))
			}
		}
		create = append(create, "self.user_init();", "return self;")
		st.AddMember(output.AccessNone, &output.Function{Name: "create", Signature: "()", IsStatic: true, Statements: create})
	default:
		// user_init is left to the repeater, or to the code showing the popup
		create = append(create,
			"self.parent = new WeakRef(parent);",
			"self.init(parent.globals, self.self_weak, 0, 1);",
			"return self;")
		st.AddMember(output.AccessNone, &output.Function{Name: "create", Signature: "(parent)", IsStatic: true, Statements: create})
	}
}

// itemArrayEntry is the expression reaching the item of a tree node from the root
func itemArrayEntry(root *llr.SubComponent, node *llr.TreeNode) string {
	path := "self"
	sc := root
	for _, i := range node.SubComponentPath {
		sub := sc.SubComponents[i]
		path += "." + ident(sub.Name)
		sc = sub.Type
	}
	if node.ItemIndex >= len(sc.Items) {
		util.InternalError("item index %d out of range in %s", node.ItemIndex, sc.Name)
	}
	return path + "." + itemField(&sc.Items[node.ItemIndex])
}

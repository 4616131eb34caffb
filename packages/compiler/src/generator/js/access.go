package js

import (
	"fmt"
	"strings"

	"slintc-go/packages/compiler/src/generator"
	"slintc-go/packages/compiler/src/langtype"
	"slintc-go/packages/compiler/src/llr"
	"slintc-go/packages/compiler/src/util"
)

// componentPath reaches the component hops parent links above self. Parents are held in
// WeakRefs and going through an expired one throws; member reads, writes and calls use
// guardedAccess instead.
func componentPath(hops int) string {
	var b strings.Builder
	b.WriteString("self")
	for i := 0; i < hops; i++ {
		b.WriteString(".parent.deref()")
	}
	return b.String()
}

func subComponentPrefix(a generator.MemberAccess) string {
	prefix := componentPath(a.ParentHops) + "."
	for _, p := range a.Path {
		prefix += ident(p) + "."
	}
	return prefix
}

func itemField(item *llr.Item) string {
	if item.IsFlickableViewport {
		return ident(item.Name) + ".viewport"
	}
	return ident(item.Name)
}

func functionName(name string) string {
	return "fn_" + ident(name)
}

func accessMember(ref llr.PropertyReference, ctx *evalCtx) string {
	a, _ := generator.ResolveMember(ref, ctx)
	return renderAccess(a, ctx)
}

func renderAccess(a generator.MemberAccess, ctx *evalCtx) string {
	switch a.Kind {
	case generator.AccessGlobalProperty, generator.AccessGlobalFunction:
		name := ident(a.Name)
		if a.Kind == generator.AccessGlobalFunction {
			name = functionName(a.Name)
		}
		if a.InCurrentGlobal {
			return "self." + name
		}
		return globalInstance(a.Global.Name, ctx) + "." + name
	}
	return subComponentPrefix(a) + memberName(a)
}

// memberName is the member of a sub-component access, relative to the sub-component
func memberName(a generator.MemberAccess) string {
	switch a.Kind {
	case generator.AccessProperty:
		return ident(a.Name)
	case generator.AccessFunction:
		return functionName(a.Name)
	case generator.AccessItem:
		return itemField(a.Item)
	case generator.AccessItemProperty:
		return itemField(a.Item) + "." + ident(a.ItemProperty)
	}
	util.InternalError("access kind %d has no owning sub-component", a.Kind)
	return ""
}

func globalInstance(name string, ctx *evalCtx) string {
	return ctx.GeneratorState.globalAccess + ".global_" + ident(name)
}

func windowAccess(ctx *evalCtx) string {
	return ctx.GeneratorState.globalAccess + ".window()"
}

// accessItemRc renders the handle of an item: its tree root and its index in the tree
func accessItemRc(ref llr.PropertyReference, ctx *evalCtx) string {
	a, _ := generator.ResolveMember(ref, ctx)
	if a.Kind != generator.AccessItem {
		util.InternalError("%s is not an item reference", ref)
	}
	return fmt.Sprintf("new slint.ItemRc(%s.self_weak, %s)", componentPath(a.ParentHops), itemIndexExpr(a))
}

func itemIndexExpr(a generator.MemberAccess) string {
	prefix := subComponentPrefix(a)
	idx := generator.ResolveItemTreeIndex(a.Item)
	if idx.IsRoot {
		return prefix + "tree_index"
	}
	return fmt.Sprintf("%stree_index_of_first_child + %d", prefix, idx.Offset)
}

// guardedParent runs body with `p` bound to the component hops levels up, and does
// nothing when a component on the way has been dropped
func guardedParent(hops int, path []string, body string) string {
	names := ""
	for _, p := range path {
		names += "." + ident(p)
	}
	var b strings.Builder
	b.WriteString("{ ")
	base := "self"
	for i := 1; i <= hops; i++ {
		fmt.Fprintf(&b, "const parent_%d = %s.parent.deref(); if (parent_%d) { ", i, base, i)
		base = fmt.Sprintf("parent_%d", i)
	}
	fmt.Fprintf(&b, "const p = %s%s; %s }", base, names, body)
	b.WriteString(strings.Repeat(" }", hops))
	return b.String()
}

// guardedAccess renders use applied to the member ref names. A member of a parent
// component is only touched while that parent is alive; otherwise the expression yields
// the default value of t.
func guardedAccess(ref llr.PropertyReference, t *langtype.Type, ctx *evalCtx, use func(member string) string) string {
	a, _ := generator.ResolveMember(ref, ctx)
	if a.ParentHops == 0 || a.Kind == generator.AccessGlobalProperty || a.Kind == generator.AccessGlobalFunction {
		return use(renderAccess(a, ctx))
	}
	member := "p." + memberName(a)
	if t.Kind == langtype.KindVoid {
		return "(() => " + guardedParent(a.ParentHops, a.Path, use(member)+";") + ")()"
	}
	return fmt.Sprintf("(() => { %s return %s; })()",
		guardedParent(a.ParentHops, a.Path, "return "+use(member)+";"), defaultValue(t))
}

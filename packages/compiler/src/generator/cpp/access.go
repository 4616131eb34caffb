package cpp

import (
	"fmt"
	"strings"

	"slintc-go/packages/compiler/src/generator"
	"slintc-go/packages/compiler/src/langtype"
	"slintc-go/packages/compiler/src/llr"
	"slintc-go/packages/compiler/src/util"
)

// componentPath is the expression reaching the component hops parent links above self.
// value() asserts the parent is alive; member reads, writes and calls go through
// guardedAccess instead.
func componentPath(hops int) string {
	var b strings.Builder
	b.WriteString("self")
	for i := 0; i < hops; i++ {
		b.WriteString("->parent.lock().value()")
	}
	return b.String()
}

// subComponentPrefix renders the access up to the sub-component owning the member,
// ending with the member separator
func subComponentPrefix(a generator.MemberAccess) string {
	prefix := componentPath(a.ParentHops) + "->"
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

// accessMember renders a property reference as a member access, without .get()
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
			return "self->" + name
		}
		return globalInstance(a.Global, ctx) + "->" + name
	}
	return subComponentPrefix(a) + memberName(a)
}

func globalInstance(g *llr.GlobalComponent, ctx *evalCtx) string {
	return ctx.GeneratorState.globalAccess + "->global_" + ident(g.Name)
}

// accessItemRc renders the (component, index) pair identifying an item
func accessItemRc(ref llr.PropertyReference, ctx *evalCtx) string {
	a, _ := generator.ResolveMember(ref, ctx)
	if a.Kind != generator.AccessItem {
		util.InternalError("%s is not an item reference", ref)
	}
	base := componentPath(a.ParentHops)
	prefix := subComponentPrefix(a)
	idx := generator.ResolveItemTreeIndex(a.Item)
	index := prefix + "tree_index"
	if !idx.IsRoot {
		index = fmt.Sprintf("%stree_index_of_first_child + %d", prefix, idx.Offset)
	}
	return fmt.Sprintf("{ %s->self_weak.lock()->into_dyn(), %s }", base, index)
}

// windowAccess is the window adapter of the component being compiled
func windowAccess(ctx *evalCtx) string {
	return ctx.GeneratorState.globalAccess + "->window().window_handle()"
}

// guardedParent renders a statement running body with `p` bound to the component hops
// levels up. Nothing runs when a parent on the way has been destroyed.
func guardedParent(hops int, path []string, body string) string {
	var b strings.Builder
	base := "self"
	for i := 1; i <= hops; i++ {
		fmt.Fprintf(&b, "if (auto parent_%d = %s->parent.lock()) ", i, base)
		base = fmt.Sprintf("(*parent_%d)", i)
	}
	fmt.Fprintf(&b, "{ [[maybe_unused]] auto p = %s; %s }", pathFrom(base, path), body)
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
	member := "p->" + memberName(a)
	if t.Kind == langtype.KindVoid {
		return "[&]{ " + guardedParent(a.ParentHops, a.Path, use(member)+";") + " }()"
	}
	ty := mustCppType(t)
	return fmt.Sprintf("[&]() -> %s { %s return %s{}; }()",
		ty, guardedParent(a.ParentHops, a.Path, "return "+use(member)+";"), ty)
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

// pathFrom takes the address of the nested sub-component reached from base
func pathFrom(base string, path []string) string {
	if len(path) == 0 {
		return base
	}
	names := make([]string, len(path))
	for i, p := range path {
		names[i] = ident(p)
	}
	return "&" + base + "->" + strings.Join(names, ".")
}

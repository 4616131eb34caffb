package interpreter

import (
	"slintc-go/packages/compiler/src/langtype"
	"slintc-go/packages/compiler/src/llr"
	"slintc-go/packages/compiler/src/runtime"
	"slintc-go/packages/compiler/src/runtime/arena"
	"slintc-go/packages/compiler/src/util"
)

// scope is where references are resolved: a live instance or a global. The zero scope
// only evaluates constant expressions.
type scope struct {
	inst   *instance
	global *globalInstance
}

func (s scope) system() *system {
	switch {
	case s.inst != nil:
		return s.inst.sys
	case s.global != nil:
		return s.global.sys
	}
	return nil
}

// evaluate runs e in a fresh frame. A return statement ends the evaluation.
func (s scope) evaluate(e llr.Expression) runtime.Value {
	return (&frame{scope: s}).run(e)
}

// invoke runs the body of a callback or function
func (s scope) invoke(code llr.Expression, args []runtime.Value) runtime.Value {
	return (&frame{scope: s, args: args}).run(code)
}

// scopeRef is the weak reference to a scope captured by bindings and handlers
type scopeRef struct {
	sys    *system
	handle arena.Handle
	global *globalInstance
}

func (r scopeRef) get() (scope, bool) {
	if r.global != nil {
		return scope{global: r.global}, true
	}
	inst, ok := r.sys.instances.Get(r.handle)
	if !ok {
		return scope{}, false
	}
	return scope{inst: inst}, true
}

// reader returns a function reading ref, nil once the scope is gone
func (r scopeRef) reader(ref llr.PropertyReference) func() runtime.Value {
	return func() runtime.Value {
		s, ok := r.get()
		if !ok {
			return nil
		}
		return (&frame{scope: s}).get(ref)
	}
}

// runner returns a change handler evaluating code
func (r scopeRef) runner(code llr.Expression) func(runtime.Value) {
	return func(runtime.Value) {
		if s, ok := r.get(); ok {
			s.evaluate(code)
		}
	}
}

type targetKind int

const (
	targetProperty targetKind = iota
	targetCallback
	targetFunction
	targetItem
	targetItemProperty
	targetItemCallback
)

// target is a resolved property reference
type target struct {
	kind  targetKind
	owner scope
	// index of the property or function, or of the item
	index    int
	itemProp string
	typ      *langtype.Type
	function *llr.Function
}

func (t target) isCallback() bool {
	return t.kind == targetCallback || t.kind == targetItemCallback
}

func (t target) store() *store {
	if t.owner.global != nil {
		return &t.owner.global.store
	}
	return &t.owner.inst.store
}

func (t target) property() *runtime.Property {
	switch t.kind {
	case targetProperty:
		return t.store().props[t.index]
	case targetItemProperty:
		return t.owner.inst.itemProperty(t.index, t.itemProp, t.typ)
	}
	util.InternalError("reference of kind %d is not a property", t.kind)
	return nil
}

func (t target) callback() *runtime.Callback {
	switch t.kind {
	case targetCallback:
		return t.store().callbacks[t.index]
	case targetItemCallback:
		return t.owner.inst.itemCallback(t.index, t.itemProp)
	}
	util.InternalError("reference of kind %d is not a callback", t.kind)
	return nil
}

// itemRef identifies the item for the window
func (t target) itemRef() runtime.ItemRef {
	return runtime.ItemRef{Component: t.owner.inst.handle, Index: t.index}
}

// resolve finds what ref designates. ok is false when a parent link expired.
func (s scope) resolve(ref llr.PropertyReference) (target, bool) {
	switch r := ref.(type) {
	case *llr.InParentRef:
		if s.inst == nil {
			util.InternalError("%s outside of a component", ref)
		}
		inst := s.inst
		for i := 0; i < r.Level; i++ {
			parent, ok := inst.sys.instances.Get(inst.parent)
			if !ok {
				return target{}, false
			}
			inst = parent
		}
		return scope{inst: inst}.resolve(r.Inner)
	case *llr.LocalRef:
		if s.global != nil {
			return globalProperty(s.global, r.PropertyIndex), true
		}
		inst := s.walk(r.SubComponentPath)
		checkIndex(r.PropertyIndex, len(inst.sc.Properties), "property", inst.sc.Name)
		p := &inst.sc.Properties[r.PropertyIndex]
		kind := targetProperty
		if p.Type.IsCallable() {
			kind = targetCallback
		}
		return target{kind: kind, owner: scope{inst: inst}, index: r.PropertyIndex, typ: p.Type}, true
	case *llr.FunctionRef:
		if s.global != nil {
			return globalFunction(s.global, r.FunctionIndex), true
		}
		inst := s.walk(r.SubComponentPath)
		checkIndex(r.FunctionIndex, len(inst.sc.Functions), "function", inst.sc.Name)
		f := &inst.sc.Functions[r.FunctionIndex]
		return target{kind: targetFunction, owner: scope{inst: inst}, index: r.FunctionIndex, typ: f.ReturnType, function: f}, true
	case *llr.InNativeItemRef:
		if s.inst == nil {
			util.InternalError("item reference %s outside of a component", ref)
		}
		inst := s.walk(r.SubComponentPath)
		checkIndex(r.ItemIndex, len(inst.sc.Items), "item", inst.sc.Name)
		t := target{kind: targetItem, owner: scope{inst: inst}, index: r.ItemIndex, itemProp: r.PropName}
		if r.PropName == "" {
			t.typ = langtype.ElementReference
			return t, true
		}
		item := &inst.sc.Items[r.ItemIndex]
		t.typ = item.Class.LookupProperty(r.PropName)
		if r.PropName == "elements" {
			t.typ = langtype.PathData
		}
		if t.typ == nil {
			util.InternalError("no property %q in %s", r.PropName, item.Class.ClassName)
		}
		t.kind = targetItemProperty
		if t.typ.IsCallable() {
			t.kind = targetItemCallback
		}
		return t, true
	case *llr.GlobalRef:
		return globalProperty(s.system().global(r.GlobalIndex), r.PropertyIndex), true
	case *llr.GlobalFunctionRef:
		return globalFunction(s.system().global(r.GlobalIndex), r.FunctionIndex), true
	}
	util.InternalError("unknown property reference %T", ref)
	return target{}, false
}

func (s scope) walk(path []int) *instance {
	inst := s.inst
	for _, i := range path {
		checkIndex(i, len(inst.subs), "sub-component", inst.sc.Name)
		inst = inst.subs[i]
	}
	return inst
}

func (sys *system) global(index int) *globalInstance {
	if sys == nil {
		util.InternalError("global reference in a constant expression")
	}
	checkIndex(index, len(sys.globals), "global", "compilation unit")
	return sys.globals[index]
}

func globalProperty(g *globalInstance, index int) target {
	checkIndex(index, len(g.def.Properties), "property", g.def.Name)
	p := &g.def.Properties[index]
	kind := targetProperty
	if p.Type.IsCallable() {
		kind = targetCallback
	}
	return target{kind: kind, owner: scope{global: g}, index: index, typ: p.Type}
}

func globalFunction(g *globalInstance, index int) target {
	checkIndex(index, len(g.def.Functions), "function", g.def.Name)
	f := &g.def.Functions[index]
	return target{kind: targetFunction, owner: scope{global: g}, index: index, typ: f.ReturnType, function: f}
}

func checkIndex(i, n int, what, owner string) {
	if i < 0 || i >= n {
		util.InternalError("%s index %d out of range in %s (%d entries)", what, i, owner, n)
	}
}

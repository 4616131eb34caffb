package interpreter

import (
	"time"

	"slintc-go/packages/compiler/src/langtype"
	"slintc-go/packages/compiler/src/llr"
	"slintc-go/packages/compiler/src/runtime"
	"slintc-go/packages/compiler/src/runtime/arena"
)

// noParent is the parent of public roots and embedded sub-components
var noParent = arena.Handle{}

// noRepeater marks instances not created by a repeater
const noRepeater = -1

// maxFlushRounds bounds the change callbacks triggering each other
const maxFlushRounds = 16

// system is the state shared by the instances of one component tree
type system struct {
	unit      *llr.CompilationUnit
	instances arena.Arena[*instance]
	globals   []*globalInstance
	window    *runtime.Window
	loop      *runtime.ManualEventLoop
	bundle    *runtime.Bundle
	debug     func(string)
	roots     []arena.Handle
	trackers  []trackerEntry
	flushing  bool
}

// trackerEntry is a change tracker and the instance it belongs to, zero for globals
type trackerEntry struct {
	owner   arena.Handle
	tracker *runtime.ChangeTracker
}

func newSystem(unit *llr.CompilationUnit, o *options) *system {
	sys := &system{
		unit:   unit,
		window: runtime.NewWindow(o.scaleFactor),
		loop:   o.loop,
		debug:  o.debug,
	}
	if unit.Translations != nil {
		sys.bundle = newBundle(unit.Translations)
		if o.language != "" {
			sys.bundle.SelectLanguage(o.language)
		}
	}
	for _, g := range unit.Globals {
		sys.globals = append(sys.globals, newGlobal(sys, g))
	}
	for _, g := range sys.globals {
		g.init()
	}
	for _, g := range sys.globals {
		g.userInit()
	}
	sys.loop.OnTick(sys.tick)
	return sys
}

func newBundle(tr *llr.Translations) *runtime.Bundle {
	rules := make([]func(int) int, len(tr.PluralRules))
	for i, rule := range tr.PluralRules {
		rule := rule
		if rule == nil {
			continue
		}
		rules[i] = func(n int) int {
			f := &frame{args: []runtime.Value{float64(n)}}
			return int(runtime.Number(f.run(rule)))
		}
	}
	return runtime.NewBundle(tr.Languages, tr.Strings, tr.Plurals, rules)
}

// tick emulates a frame: repeaters are brought up to date, then change callbacks run
func (sys *system) tick() {
	for _, h := range sys.roots {
		if root, ok := sys.instances.Get(h); ok {
			root.refresh()
		}
	}
	sys.flush()
}

// flush evaluates the change trackers until none fires
func (sys *system) flush() {
	if sys.flushing {
		return
	}
	sys.flushing = true
	defer func() { sys.flushing = false }()
	for round := 0; round < maxFlushRounds; round++ {
		changed := false
		for _, t := range sys.trackers {
			if !sys.alive(t.owner) {
				continue
			}
			if t.tracker.Evaluate() {
				changed = true
			}
		}
		live := sys.trackers[:0]
		for _, t := range sys.trackers {
			if sys.alive(t.owner) {
				live = append(live, t)
			}
		}
		sys.trackers = live
		if !changed {
			return
		}
	}
}

func (sys *system) alive(h arena.Handle) bool {
	if h.IsZero() {
		return true
	}
	_, ok := sys.instances.Get(h)
	return ok
}

func (sys *system) addTracker(owner arena.Handle, value func() runtime.Value, handler func(runtime.Value)) {
	t := &runtime.ChangeTracker{}
	t.Init(value, handler)
	sys.trackers = append(sys.trackers, trackerEntry{owner: owner, tracker: t})
}

// store holds the properties and callbacks declared by a sub-component or a global.
// Exactly one of props[i] and callbacks[i] is set.
type store struct {
	props     []*runtime.Property
	callbacks []*runtime.Callback
}

func newStore(decls []llr.Property) store {
	s := store{
		props:     make([]*runtime.Property, len(decls)),
		callbacks: make([]*runtime.Callback, len(decls)),
	}
	for i, p := range decls {
		if p.Type.IsCallable() {
			s.callbacks[i] = &runtime.Callback{}
			continue
		}
		s.props[i] = runtime.NewProperty(defaultValue(p.Type))
	}
	return s
}

// itemState holds the properties of a native item, created on first access
type itemState struct {
	props     map[string]*runtime.Property
	callbacks map[string]*runtime.Callback
}

// popupSlot is an open popup or menu, zero when closed
type popupSlot struct {
	handle runtime.PopupHandle
	inst   *instance
}

// instance is a live sub-component
type instance struct {
	store
	sys    *system
	sc     *llr.SubComponent
	handle arena.Handle
	parent arena.Handle
	// repeaterIndex is the repeater of the parent that created this row
	repeaterIndex int
	row           int
	items         []*itemState
	subs          []*instance
	repeaters     []*repeater
	popups        []popupSlot
	menus         []popupSlot
	timers        []*runtime.Timer
	destroyed     bool
}

func (sys *system) newInstance(sc *llr.SubComponent, parent arena.Handle, repeaterIndex int) *instance {
	inst := &instance{
		store:         newStore(sc.Properties),
		sys:           sys,
		sc:            sc,
		parent:        parent,
		repeaterIndex: repeaterIndex,
		items:         make([]*itemState, len(sc.Items)),
		popups:        make([]popupSlot, len(sc.PopupWindows)),
		menus:         make([]popupSlot, len(sc.MenuItemTrees)),
	}
	inst.handle = sys.instances.Insert(inst)
	for _, sub := range sc.SubComponents {
		inst.subs = append(inst.subs, sys.newInstance(sub.Type, noParent, noRepeater))
	}
	for i := range sc.Repeated {
		inst.repeaters = append(inst.repeaters, &repeater{elem: &sc.Repeated[i], index: i})
	}
	for range sc.Timers {
		inst.timers = append(inst.timers, runtime.NewTimer(sys.loop))
	}
	return inst
}

func (inst *instance) scope() scope {
	return scope{inst: inst}
}

// ref returns the weak reference used by closures
func (inst *instance) ref() scopeRef {
	return scopeRef{sys: inst.sys, handle: inst.handle}
}

// itemProperty returns the property name of item index, creating it with the default
// value of t
func (inst *instance) itemProperty(index int, name string, t *langtype.Type) *runtime.Property {
	st := inst.item(index)
	if p, ok := st.props[name]; ok {
		return p
	}
	p := runtime.NewProperty(defaultValue(t))
	st.props[name] = p
	return p
}

func (inst *instance) itemCallback(index int, name string) *runtime.Callback {
	st := inst.item(index)
	if c, ok := st.callbacks[name]; ok {
		return c
	}
	c := &runtime.Callback{}
	st.callbacks[name] = c
	return c
}

func (inst *instance) item(index int) *itemState {
	if inst.items[index] == nil {
		inst.items[index] = &itemState{props: map[string]*runtime.Property{}, callbacks: map[string]*runtime.Callback{}}
	}
	return inst.items[index]
}

// init installs the bindings. Embedded sub-components are initialized first.
func (inst *instance) init() {
	for _, sub := range inst.subs {
		sub.init()
	}
	s := inst.scope()
	for _, tw := range inst.sc.TwoWayBindings {
		a, okA := s.resolve(tw.A)
		b, okB := s.resolve(tw.B)
		if okA && okB {
			runtime.LinkTwoWay(a.property(), b.property())
		}
	}
	for _, pi := range inst.sc.PropertyInit {
		installBinding(inst.ref(), s, pi.Ref, pi.Binding)
	}
	for _, ref := range inst.sc.ConstProperties {
		if t, ok := s.resolve(ref); ok {
			t.property().SetConstant()
		}
	}
}

// userInit runs the init code, then starts the change trackers and the timers
func (inst *instance) userInit() {
	for _, sub := range inst.subs {
		sub.userInit()
	}
	s := inst.scope()
	for _, code := range inst.sc.InitCode {
		s.evaluate(code)
	}
	for _, cc := range inst.sc.ChangeCallbacks {
		inst.sys.addTracker(inst.handle, inst.ref().reader(cc.Property), inst.ref().runner(cc.Code))
	}
	if len(inst.sc.Timers) == 0 {
		return
	}
	inst.updateTimers()
	r := inst.ref()
	for _, t := range inst.sc.Timers {
		t := t
		value := func() runtime.Value {
			s, ok := r.get()
			if !ok {
				return nil
			}
			return runtime.NewStruct(map[string]runtime.Value{
				"running":  runtime.Bool(s.evaluate(t.Running)),
				"interval": runtime.Number(s.evaluate(t.Interval)),
			})
		}
		inst.sys.addTracker(inst.handle, value, func(runtime.Value) {
			if s, ok := r.get(); ok {
				s.inst.updateTimers()
			}
		})
	}
}

// updateTimers starts, restarts or stops each timer. A running timer is only restarted
// when its interval changed.
func (inst *instance) updateTimers() {
	s := inst.scope()
	r := inst.ref()
	for i, t := range inst.sc.Timers {
		timer := inst.timers[i]
		if !runtime.Bool(s.evaluate(t.Running)) {
			timer.Stop()
			continue
		}
		interval := time.Duration(runtime.Number(s.evaluate(t.Interval)) * float64(time.Millisecond))
		if timer.Running() && timer.Interval() == interval {
			continue
		}
		triggered := t.Triggered
		timer.Start(runtime.TimerRepeated, interval, func() {
			if s, ok := r.get(); ok {
				s.evaluate(triggered)
			}
		})
	}
}

// refresh brings the repeaters of the tree up to date, like a frame being rendered
func (inst *instance) refresh() {
	for _, sub := range inst.subs {
		sub.refresh()
	}
	for _, rep := range inst.repeaters {
		inst.ensureUpdated(rep)
		for _, row := range rep.rows {
			row.refresh()
		}
	}
	for _, slots := range [][]popupSlot{inst.popups, inst.menus} {
		for _, slot := range slots {
			if slot.inst != nil {
				slot.inst.refresh()
			}
		}
	}
}

// destroy releases the instance and everything it owns. Handles to it expire.
func (inst *instance) destroy() {
	if inst.destroyed {
		return
	}
	inst.destroyed = true
	for _, t := range inst.timers {
		t.Stop()
	}
	for i := range inst.popups {
		inst.closeSlot(&inst.popups[i])
	}
	for i := range inst.menus {
		inst.closeSlot(&inst.menus[i])
	}
	for _, rep := range inst.repeaters {
		for _, row := range rep.rows {
			row.destroy()
		}
		rep.rows = nil
		rep.synced = nil
	}
	for _, sub := range inst.subs {
		sub.destroy()
	}
	inst.sys.instances.Remove(inst.handle)
}

// globalInstance is a global singleton of one component tree
type globalInstance struct {
	store
	sys *system
	def *llr.GlobalComponent
}

func newGlobal(sys *system, g *llr.GlobalComponent) *globalInstance {
	return &globalInstance{store: newStore(g.Properties), sys: sys, def: g}
}

func (g *globalInstance) scope() scope {
	return scope{global: g}
}

func (g *globalInstance) ref() scopeRef {
	return scopeRef{sys: g.sys, global: g}
}

func (g *globalInstance) init() {
	s := g.scope()
	for i, b := range g.def.InitValues {
		if b == nil {
			continue
		}
		installBinding(g.ref(), s, &llr.LocalRef{PropertyIndex: i}, b)
	}
	for i, constant := range g.def.ConstProperties {
		if constant && g.props[i] != nil {
			g.props[i].SetConstant()
		}
	}
}

func (g *globalInstance) userInit() {
	s := g.scope()
	for _, code := range g.def.InitCode {
		s.evaluate(code)
	}
	for _, cc := range g.def.ChangeCallbacks {
		g.sys.addTracker(noParent, g.ref().reader(cc.Property), g.ref().runner(cc.Code))
	}
}

// installBinding sets up the initial value, binding or handler of ref
func installBinding(r scopeRef, s scope, ref llr.PropertyReference, b *llr.BindingExpression) {
	t, ok := s.resolve(ref)
	if !ok {
		return
	}
	if t.isCallback() {
		code := b.Expression
		ret := t.typ.Return
		t.callback().SetHandler(func(args []runtime.Value) runtime.Value {
			s, ok := r.get()
			if !ok {
				return defaultValue(ret)
			}
			return s.invoke(code, args)
		})
		return
	}
	prop := t.property()
	if b.IsConstant && !b.IsStateInfo && (b.Animation == nil || b.Animation.Kind == llr.AnimationStatic) {
		v := s.evaluate(b.Expression)
		if b.Animation == nil {
			prop.Set(v)
		} else {
			prop.SetAnimatedValue(v, toAnimation(s.evaluate(b.Animation.Expression)))
		}
		return
	}
	typ := t.typ
	expr := b.Expression
	binding := func() runtime.Value {
		s, ok := r.get()
		if !ok {
			return defaultValue(typ)
		}
		return s.evaluate(expr)
	}
	if b.IsStateInfo {
		prop.SetBinding(stateBinding(s.system().loop, binding))
		return
	}
	if b.Animation != nil {
		anim := b.Animation.Expression
		prop.SetAnimatedBinding(binding, func() runtime.PropertyAnimation {
			s, ok := r.get()
			if !ok {
				return runtime.PropertyAnimation{}
			}
			return toAnimation(s.evaluate(anim))
		})
		return
	}
	prop.SetBinding(binding)
}

// stateBinding turns a binding producing the current state index into a StateInfo
func stateBinding(loop *runtime.ManualEventLoop, binding func() runtime.Value) func() runtime.Value {
	var current, previous float64
	var changed time.Duration
	return func() runtime.Value {
		state := runtime.Number(binding())
		if state != current {
			previous = current
			current = state
			changed = loop.Now()
		}
		return runtime.NewStruct(map[string]runtime.Value{
			"current_state":  current,
			"previous_state": previous,
			"change_time":    float64(changed.Milliseconds()),
		})
	}
}

// toAnimation converts a PropertyAnimation struct. Transitions produce a struct wrapping it.
func toAnimation(v runtime.Value) runtime.PropertyAnimation {
	s, ok := v.(runtime.Struct)
	if !ok {
		return runtime.PropertyAnimation{}
	}
	if !s.Has("duration") {
		for _, name := range s.FieldNames() {
			if inner, ok := s.Field(name).(runtime.Struct); ok && inner.Has("duration") {
				s = inner
				break
			}
		}
	}
	easing, _ := s.Field("easing").(runtime.EasingCurve)
	return runtime.PropertyAnimation{
		Delay:          runtime.Number(s.Field("delay")),
		Duration:       runtime.Number(s.Field("duration")),
		IterationCount: runtime.Number(s.Field("iteration_count")),
		Easing:         easing,
	}
}

// defaultValue is the value of a property of type t before anything is assigned
func defaultValue(t *langtype.Type) runtime.Value {
	if t == nil {
		return nil
	}
	e := llr.DefaultValue(t)
	if e == nil {
		return nil
	}
	return (&frame{}).run(e)
}

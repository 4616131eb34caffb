package interpreter

import (
	"fmt"
	"math"

	"slintc-go/packages/compiler/src/langtype"
	"slintc-go/packages/compiler/src/llr"
	"slintc-go/packages/compiler/src/runtime"
	"slintc-go/packages/compiler/src/runtime/arena"
)

// ComponentInstance is a live public component.
//
// Instances are not safe for concurrent use. Public mutations run the change callbacks
// before returning.
type ComponentInstance struct {
	sys  *system
	def  *ComponentDefinition
	root arena.Handle
}

// Definition returns the definition the instance was created from
func (c *ComponentInstance) Definition() *ComponentDefinition {
	return c.def
}

func (c *ComponentInstance) instance() (*instance, error) {
	inst, ok := c.sys.instances.Get(c.root)
	if !ok {
		return nil, ErrDestroyed
	}
	return inst, nil
}

// GetProperty reads a public property
func (c *ComponentInstance) GetProperty(name string) (runtime.Value, error) {
	inst, err := c.instance()
	if err != nil {
		return nil, err
	}
	return getPublic(inst.scope(), c.def.component.PublicProperties, name)
}

// SetProperty writes a public property. Integers are converted to float64 and slices of
// values to models.
func (c *ComponentInstance) SetProperty(name string, v runtime.Value) error {
	inst, err := c.instance()
	if err != nil {
		return err
	}
	if err := setPublic(inst.scope(), c.def.component.PublicProperties, name, v); err != nil {
		return err
	}
	c.sys.flush()
	return nil
}

// Invoke calls a public callback or function
func (c *ComponentInstance) Invoke(name string, args ...runtime.Value) (runtime.Value, error) {
	inst, err := c.instance()
	if err != nil {
		return nil, err
	}
	v, err := invokePublic(inst.scope(), c.def.component.PublicProperties, name, args)
	if err != nil {
		return nil, err
	}
	c.sys.flush()
	return v, nil
}

// SetCallback replaces the handler of a public callback
func (c *ComponentInstance) SetCallback(name string, handler func(args []runtime.Value) runtime.Value) error {
	inst, err := c.instance()
	if err != nil {
		return err
	}
	return setPublicCallback(inst.scope(), c.def.component.PublicProperties, name, handler)
}

// global returns the exported global called name or one of its aliases
func (c *ComponentInstance) global(name string) (*globalInstance, error) {
	for _, g := range c.sys.globals {
		if !g.def.Exported {
			continue
		}
		if sameName(g.def.Name, name) {
			return g, nil
		}
		for _, alias := range g.def.Aliases {
			if sameName(alias, name) {
				return g, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNoSuchGlobal, name)
}

// GetGlobalProperty reads a property of an exported global
func (c *ComponentInstance) GetGlobalProperty(global, name string) (runtime.Value, error) {
	g, err := c.global(global)
	if err != nil {
		return nil, err
	}
	return getPublic(g.scope(), g.def.PublicProperties, name)
}

// SetGlobalProperty writes a property of an exported global
func (c *ComponentInstance) SetGlobalProperty(global, name string, v runtime.Value) error {
	g, err := c.global(global)
	if err != nil {
		return err
	}
	if err := setPublic(g.scope(), g.def.PublicProperties, name, v); err != nil {
		return err
	}
	c.sys.flush()
	return nil
}

// InvokeGlobal calls a callback or function of an exported global
func (c *ComponentInstance) InvokeGlobal(global, name string, args ...runtime.Value) (runtime.Value, error) {
	g, err := c.global(global)
	if err != nil {
		return nil, err
	}
	v, err := invokePublic(g.scope(), g.def.PublicProperties, name, args)
	if err != nil {
		return nil, err
	}
	c.sys.flush()
	return v, nil
}

// SetGlobalCallback replaces the handler of a callback of an exported global
func (c *ComponentInstance) SetGlobalCallback(global, name string, handler func(args []runtime.Value) runtime.Value) error {
	g, err := c.global(global)
	if err != nil {
		return err
	}
	return setPublicCallback(g.scope(), g.def.PublicProperties, name, handler)
}

// RepeaterLen brings repeater index of the root up to date and returns its row count.
// Repeaters of embedded sub-components follow the local ones.
func (c *ComponentInstance) RepeaterLen(index int) (int, error) {
	owner, rep, err := c.repeater(index)
	if err != nil {
		return 0, err
	}
	owner.ensureUpdated(rep)
	c.sys.flush()
	return len(rep.rows), nil
}

// RepeatedInstance returns row of repeater index
func (c *ComponentInstance) RepeatedInstance(index, row int) (*RepeatedInstance, error) {
	owner, rep, err := c.repeater(index)
	if err != nil {
		return nil, err
	}
	owner.ensureUpdated(rep)
	c.sys.flush()
	if row < 0 || row >= len(rep.rows) {
		return nil, fmt.Errorf("%w: %d of %d", ErrRowOutOfRange, row, len(rep.rows))
	}
	return &RepeatedInstance{sys: c.sys, elem: rep.elem, handle: rep.rows[row].handle}, nil
}

func (c *ComponentInstance) repeater(index int) (*instance, *repeater, error) {
	inst, err := c.instance()
	if err != nil {
		return nil, nil, err
	}
	owner, rep, ok := inst.repeaterAt(index)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %d", ErrNoSuchRepeater, index)
	}
	return owner, rep, nil
}

// Window returns the window state shared by the component and its popups
func (c *ComponentInstance) Window() *runtime.Window {
	return c.sys.window
}

// EventLoop returns the loop running the timers
func (c *ComponentInstance) EventLoop() *runtime.ManualEventLoop {
	return c.sys.loop
}

// Show makes the window visible
func (c *ComponentInstance) Show() {
	c.sys.window.Show()
	c.sys.tick()
}

// Hide hides the window, closing the popups
func (c *ComponentInstance) Hide() {
	c.sys.window.Hide()
}

// Destroy releases the component. Every later call returns ErrDestroyed.
func (c *ComponentInstance) Destroy() {
	if inst, err := c.instance(); err == nil {
		inst.destroy()
	}
	c.sys.roots = nil
}

// Format renders a value the way debug() prints it
func Format(v runtime.Value) string {
	return valueString(v)
}

// RepeatedInstance is a row of a repeater. It expires when the row is removed.
type RepeatedInstance struct {
	sys    *system
	elem   *llr.RepeatedElement
	handle arena.Handle
}

func (r *RepeatedInstance) instance() (*instance, error) {
	inst, ok := r.sys.instances.Get(r.handle)
	if !ok {
		return nil, ErrDestroyed
	}
	return inst, nil
}

// Row returns the index of the row in the model
func (r *RepeatedInstance) Row() int {
	inst, err := r.instance()
	if err != nil {
		return -1
	}
	return inst.row
}

// Update writes the index and the model data of the row, like the repeater does when the
// model changes
func (r *RepeatedInstance) Update(index int, data runtime.Value) error {
	inst, err := r.instance()
	if err != nil {
		return err
	}
	var dataType *langtype.Type
	if r.elem.DataProp != nil {
		dataType = inst.sc.Properties[*r.elem.DataProp].Type
	}
	inst.updateData(r.elem, index, coerce(data, dataType))
	r.sys.flush()
	return nil
}

// GetProperty reads a property declared by the root of the row
func (r *RepeatedInstance) GetProperty(name string) (runtime.Value, error) {
	inst, err := r.instance()
	if err != nil {
		return nil, err
	}
	for i, p := range inst.sc.Properties {
		if sameName(p.Name, name) && inst.props[i] != nil {
			return inst.props[i].Get(), nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNoSuchProperty, name)
}

// Invoke calls a callback or function declared by the root of the row
func (r *RepeatedInstance) Invoke(name string, args ...runtime.Value) (runtime.Value, error) {
	inst, err := r.instance()
	if err != nil {
		return nil, err
	}
	var v runtime.Value
	found := false
	for i, p := range inst.sc.Properties {
		if sameName(p.Name, name) && inst.callbacks[i] != nil {
			v, found = inst.callbacks[i].Call(args...), true
			break
		}
	}
	if !found {
		for i := range inst.sc.Functions {
			if fn := &inst.sc.Functions[i]; sameName(fn.Name, name) {
				v, found = inst.scope().invoke(fn.Code, args), true
				break
			}
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrNotCallable, name)
	}
	r.sys.flush()
	return v, nil
}

// ItemProperty reads a property of a native item of the row, by item name
func (r *RepeatedInstance) ItemProperty(item, prop string) (runtime.Value, error) {
	inst, err := r.instance()
	if err != nil {
		return nil, err
	}
	for i, it := range inst.sc.Items {
		if !sameName(it.Name, item) {
			continue
		}
		ref := &llr.InNativeItemRef{ItemIndex: i, PropName: prop}
		if it.Class.LookupProperty(prop) == nil && prop != "elements" {
			return nil, fmt.Errorf("%w: %s.%s", ErrNoSuchProperty, item, prop)
		}
		return (&frame{scope: inst.scope()}).get(ref), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNoSuchItem, item)
}

func lookupPublic(props []llr.PublicProperty, name string) (llr.PublicProperty, error) {
	for _, p := range props {
		if sameName(p.Name, name) {
			return p, nil
		}
	}
	return llr.PublicProperty{}, fmt.Errorf("%w: %s", ErrNoSuchProperty, name)
}

func getPublic(s scope, props []llr.PublicProperty, name string) (runtime.Value, error) {
	p, err := lookupPublic(props, name)
	if err != nil {
		return nil, err
	}
	if p.Type.IsCallable() {
		return nil, fmt.Errorf("%w: %s is not a property", ErrNoSuchProperty, name)
	}
	return (&frame{scope: s}).get(p.Ref), nil
}

func setPublic(s scope, props []llr.PublicProperty, name string, v runtime.Value) error {
	p, err := lookupPublic(props, name)
	if err != nil {
		return err
	}
	if p.Type.IsCallable() {
		return fmt.Errorf("%w: %s is not a property", ErrNoSuchProperty, name)
	}
	if p.ReadOnly {
		return fmt.Errorf("%w: %s", ErrReadOnly, name)
	}
	t, ok := s.resolve(p.Ref)
	if !ok {
		return ErrDestroyed
	}
	t.property().Set(coerce(v, p.Type))
	return nil
}

func invokePublic(s scope, props []llr.PublicProperty, name string, args []runtime.Value) (runtime.Value, error) {
	p, err := lookupPublic(props, name)
	if err != nil {
		return nil, err
	}
	if !p.Type.IsCallable() {
		return nil, fmt.Errorf("%w: %s", ErrNotCallable, name)
	}
	t, ok := s.resolve(p.Ref)
	if !ok {
		return nil, ErrDestroyed
	}
	in := make([]runtime.Value, len(args))
	for i, a := range args {
		var typ *langtype.Type
		if i < len(p.Type.Args) {
			typ = p.Type.Args[i]
		}
		in[i] = coerce(a, typ)
	}
	var v runtime.Value
	switch t.kind {
	case targetCallback, targetItemCallback:
		v = t.callback().Call(in...)
	case targetFunction:
		v = t.owner.invoke(t.function.Code, in)
	default:
		return nil, fmt.Errorf("%w: %s", ErrNotCallable, name)
	}
	if v == nil {
		v = defaultValue(p.Type.Return)
	}
	return v, nil
}

func setPublicCallback(s scope, props []llr.PublicProperty, name string, handler func(args []runtime.Value) runtime.Value) error {
	p, err := lookupPublic(props, name)
	if err != nil {
		return err
	}
	if p.Type.Kind != langtype.KindCallback {
		return fmt.Errorf("%w: %s is not a callback", ErrNotCallable, name)
	}
	t, ok := s.resolve(p.Ref)
	if !ok {
		return ErrDestroyed
	}
	t.callback().SetHandler(handler)
	return nil
}

// coerce converts Go values passed through the API to runtime values of type t
func coerce(v runtime.Value, t *langtype.Type) runtime.Value {
	switch x := v.(type) {
	case int:
		v = float64(x)
	case int32:
		v = float64(x)
	case int64:
		v = float64(x)
	case float32:
		v = float64(x)
	case []runtime.Value:
		rows := make([]runtime.Value, len(x))
		var elem *langtype.Type
		if t != nil {
			elem = t.Elem
		}
		for i, r := range x {
			rows[i] = coerce(r, elem)
		}
		v = runtime.NewVecModel(rows...)
	}
	if t != nil && t.Kind == langtype.KindInt32 {
		if n, ok := v.(float64); ok {
			v = math.Trunc(n)
		}
	}
	return v
}

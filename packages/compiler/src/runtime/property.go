package runtime

// PropertyAnimation describes how a property animates to a new value
type PropertyAnimation struct {
	Delay          float64
	Duration       float64
	IterationCount float64
	Easing         EasingCurve
}

// Property holds a value or a binding producing it.
//
// Bindings are evaluated on every read. A binding reading its own property sees the last
// computed value.
type Property struct {
	value      Value
	binding    func() Value
	animation  *PropertyAnimation
	link       *Property
	constant   bool
	evaluating bool
}

// NewProperty creates a property holding v
func NewProperty(v Value) *Property {
	return &Property{value: v}
}

// resolve follows two-way links to the property holding the state
func (p *Property) resolve() *Property {
	for p.link != nil {
		p = p.link
	}
	return p
}

// Get returns the value, evaluating the binding if any
func (p *Property) Get() Value {
	p = p.resolve()
	if p.binding != nil && !p.evaluating {
		p.evaluating = true
		v := p.binding()
		p.evaluating = false
		p.value = v
	}
	return p.value
}

// Set replaces the value and removes the binding
func (p *Property) Set(v Value) {
	p = p.resolve()
	if p.constant {
		return
	}
	p.binding = nil
	p.value = v
}

// SetBinding installs a binding
func (p *Property) SetBinding(binding func() Value) {
	p = p.resolve()
	if p.constant {
		return
	}
	p.binding = binding
}

// HasBinding reports whether the value comes from a binding
func (p *Property) HasBinding() bool {
	return p.resolve().binding != nil
}

// SetAnimatedValue sets the value. Animations complete instantly, the last one is kept
// for inspection.
func (p *Property) SetAnimatedValue(v Value, anim PropertyAnimation) {
	p.Set(v)
	p.resolve().animation = &anim
}

// SetAnimatedBinding installs a binding whose changes animate with the animation
// returned by anim
func (p *Property) SetAnimatedBinding(binding func() Value, anim func() PropertyAnimation) {
	p.SetBinding(binding)
	a := anim()
	p.resolve().animation = &a
}

// Animation returns the animation last applied, nil if none
func (p *Property) Animation() *PropertyAnimation {
	return p.resolve().animation
}

// SetConstant freezes the property: later sets and bindings are ignored
func (p *Property) SetConstant() {
	p.resolve().constant = true
}

// LinkTwoWay links a and b so that both share one state. The binding of b wins if both
// have one, otherwise the binding or value of a is kept.
func LinkTwoWay(a, b *Property) {
	ra, rb := a.resolve(), b.resolve()
	if ra == rb {
		return
	}
	if rb.binding == nil {
		rb.binding = ra.binding
		if rb.binding == nil {
			rb.value = ra.value
		}
	}
	ra.binding = nil
	ra.link = rb
}

// Callback holds the handler of a callback
type Callback struct {
	handler func(args []Value) Value
}

// SetHandler replaces the handler
func (c *Callback) SetHandler(handler func(args []Value) Value) {
	c.handler = handler
}

// HasHandler reports whether a handler is set
func (c *Callback) HasHandler() bool {
	return c.handler != nil
}

// Call invokes the handler. Without handler the result is nil.
func (c *Callback) Call(args ...Value) Value {
	if c.handler == nil {
		return nil
	}
	return c.handler(args)
}

// ChangeTracker calls a handler when the value it watches changes
type ChangeTracker struct {
	value   func() Value
	handler func(Value)
	last    Value
	active  bool
}

// Init starts tracking. The current value is the reference, the handler is not called.
func (t *ChangeTracker) Init(value func() Value, handler func(Value)) {
	t.value = value
	t.handler = handler
	t.last = value()
	t.active = true
}

// Evaluate calls the handler if the value changed since the last evaluation and reports
// whether it did
func (t *ChangeTracker) Evaluate() bool {
	if !t.active {
		return false
	}
	v := t.value()
	if Equal(v, t.last) {
		return false
	}
	t.last = v
	t.handler(v)
	return true
}

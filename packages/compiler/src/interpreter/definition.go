// Package interpreter instantiates the public components of a compilation unit and
// evaluates their bindings directly, without generating code.
//
// Every component instance, embedded sub-components included, lives in an arena.
// Ownership flows downward: an instance owns its embedded sub-components, the rows of its
// repeaters and its open popups. Links to parents are arena handles; once the parent is
// destroyed, reads through such a link give default values and writes are dropped.
//
// Runtime helpers referenced by ExtraBuiltinFunctionCall:
//
//	solve_box_layout(BoxLayoutData, [int] repeater indices) -> LayoutCache
//	box_layout_info([BoxLayoutCellData], spacing, Padding, LayoutAlignment) -> LayoutInfo
//	box_layout_info_ortho([BoxLayoutCellData], Padding) -> LayoutInfo
package interpreter

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"slintc-go/packages/compiler/src/config"
	"slintc-go/packages/compiler/src/llr"
	"slintc-go/packages/compiler/src/runtime"
)

var (
	ErrNoSuchComponent = errors.New("no such component")
	ErrNoSuchProperty  = errors.New("no such property")
	ErrNoSuchGlobal    = errors.New("no such exported global")
	ErrNoSuchItem      = errors.New("no such item")
	ErrNoSuchRepeater  = errors.New("no such repeater")
	ErrRowOutOfRange   = errors.New("row out of range")
	ErrReadOnly        = errors.New("property is read-only")
	ErrNotCallable     = errors.New("not a callback or function")
	ErrDestroyed       = errors.New("component instance destroyed")
)

type options struct {
	loop        *runtime.ManualEventLoop
	debug       func(string)
	scaleFactor float64
	language    string
}

// Option configures the instances created from a definition
type Option func(*options)

// WithEventLoop runs the timers of the instances on loop. By default every instance gets
// its own manual loop, only advanced through EventLoop().Advance.
func WithEventLoop(loop *runtime.ManualEventLoop) Option {
	return func(o *options) {
		o.loop = loop
	}
}

// WithDebugHandler receives the output of debug(). The default writes to stderr.
func WithDebugHandler(handler func(string)) Option {
	return func(o *options) {
		o.debug = handler
	}
}

// WithScaleFactor sets the scale factor of the window
func WithScaleFactor(factor float64) Option {
	return func(o *options) {
		o.scaleFactor = factor
	}
}

// WithConfig applies the compiler configuration: the window uses its constant scale factor
func WithConfig(cfg *config.CompilerConfiguration) Option {
	return func(o *options) {
		if cfg != nil && cfg.ConstScaleFactor > 0 {
			o.scaleFactor = cfg.ConstScaleFactor
		}
	}
}

// WithLanguage selects the bundled translation closest to lang
func WithLanguage(lang string) Option {
	return func(o *options) {
		o.language = lang
	}
}

func buildOptions(opts []Option) *options {
	o := &options{
		scaleFactor: 1,
		debug: func(msg string) {
			fmt.Fprintln(os.Stderr, msg)
		},
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.loop == nil {
		o.loop = runtime.NewManualEventLoop()
	}
	return o
}

// ComponentDefinition is a public component of a compilation unit, ready to be instantiated
type ComponentDefinition struct {
	unit      *llr.CompilationUnit
	component *llr.PublicComponent
	opts      []Option
}

// Definitions returns a definition for every public component of unit
func Definitions(unit *llr.CompilationUnit, opts ...Option) []*ComponentDefinition {
	defs := make([]*ComponentDefinition, 0, len(unit.PublicComponents))
	for _, pc := range unit.PublicComponents {
		defs = append(defs, &ComponentDefinition{unit: unit, component: pc, opts: opts})
	}
	return defs
}

// Load returns the definition of the public component called name
func Load(unit *llr.CompilationUnit, name string, opts ...Option) (*ComponentDefinition, error) {
	for _, def := range Definitions(unit, opts...) {
		if sameName(def.Name(), name) {
			return def, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNoSuchComponent, name)
}

// Name is the exported name of the component
func (d *ComponentDefinition) Name() string {
	return d.component.Name
}

// Properties lists the public properties, callbacks and functions
func (d *ComponentDefinition) Properties() []llr.PublicProperty {
	return append([]llr.PublicProperty(nil), d.component.PublicProperties...)
}

// Create instantiates the component with its own globals and window
func (d *ComponentDefinition) Create() *ComponentInstance {
	sys := newSystem(d.unit, buildOptions(d.opts))
	root := sys.newInstance(d.component.Item.Root, noParent, noRepeater)
	sys.roots = append(sys.roots, root.handle)
	root.init()
	root.userInit()
	sys.tick()
	return &ComponentInstance{sys: sys, def: d, root: root.handle}
}

// sameName compares identifiers, treating '-' and '_' alike
func sameName(a, b string) bool {
	return strings.ReplaceAll(a, "_", "-") == strings.ReplaceAll(b, "_", "-")
}

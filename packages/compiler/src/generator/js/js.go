// Package js generates an ES module from a compilation unit. The module imports the
// runtime library and exports one class per public component and exported global.
package js

import (
	"fmt"
	"sort"
	"strings"

	"slintc-go/packages/compiler/core"
	"slintc-go/packages/compiler/src/config"
	"slintc-go/packages/compiler/src/generator"
	"slintc-go/packages/compiler/src/llr"
	"slintc-go/packages/compiler/src/output"
)

type jsState struct {
	// globalAccess is the expression giving the SharedGlobals instance
	globalAccess string
}

type evalCtx = llr.EvaluationContext[jsState]

// Target is the JavaScript code generator
type Target struct{}

// New creates the JavaScript target
func New() *Target {
	return &Target{}
}

// Name implements generator.Target
func (*Target) Name() string {
	return "js"
}

// Generate implements generator.Target. The output is a single module.
func (*Target) Generate(unit *llr.CompilationUnit, cfg *config.CompilerConfiguration, baseName string) ([]generator.OutputFile, error) {
	g := newJsGenerator(unit, cfg)
	g.generate()
	return []generator.OutputFile{{Name: baseName + ".mjs", Content: g.print()}}, nil
}

type export struct {
	name  string
	alias string
}

type jsGenerator struct {
	unit *llr.CompilationUnit
	cfg  *config.CompilerConfiguration
	file output.File
	// classNames overrides the class generated for a sub-component
	classNames map[*llr.SubComponent]string
	exports    []export
	debugInfo  bool
}

func newJsGenerator(unit *llr.CompilationUnit, cfg *config.CompilerConfiguration) *jsGenerator {
	return &jsGenerator{
		unit:       unit,
		cfg:        cfg,
		classNames: map[*llr.SubComponent]string{},
		debugInfo:  unit.HasDebugInfo || cfg.DebugInfo,
	}
}

func (g *jsGenerator) className(sc *llr.SubComponent) string {
	if n, ok := g.classNames[sc]; ok {
		return n
	}
	return ident(sc.Name)
}

func (g *jsGenerator) export(name, alias string) {
	g.exports = append(g.exports, export{name: name, alias: alias})
}

func (g *jsGenerator) generate() {
	g.file.AddInclude(fmt.Sprintf("import * as slint from %q;", g.cfg.JsRuntimeModule))
	g.file.Preamble = append(g.file.Preamble, versionCheck(core.CompilerVersion))

	g.generateTypes()
	g.generateResources()
	g.generateTranslations()
	for _, glob := range g.unit.Globals {
		if !glob.IsBuiltin {
			g.generateGlobal(glob)
		}
	}
	g.generateSharedGlobals()
	for _, sc := range g.unit.SubComponents {
		g.file.Declarations = append(g.file.Declarations, g.generateSubComponent(sc, nil))
	}
	for _, pc := range g.unit.PublicComponents {
		g.generatePublicComponent(pc)
	}
}

// versionCheck runs when the module is evaluated, before any class is defined
func versionCheck(v *core.Version) output.Declaration {
	return &output.Raw{Lines: []string{
		fmt.Sprintf("if (slint.VERSION !== %q) {", v.Full),
		fmt.Sprintf(`    throw new Error("This file was generated with Slint compiler version %s, but the Slint library used is " + slint.VERSION + ". The version numbers must match exactly.");`, v.Full),
		"}",
	}}
}

// generateTypes declares the user enums as frozen objects. Structs are plain objects and
// need no declaration.
func (g *jsGenerator) generateTypes() {
	for _, e := range g.unit.UsedEnums {
		if e.Builtin {
			continue
		}
		values := make([]string, len(e.Values))
		for i, v := range e.Values {
			values[i] = fmt.Sprintf("%s: %q", pascalIdent(v), v)
		}
		g.file.Declarations = append(g.file.Declarations, &output.Var{
			Name: ident(e.Name),
			Init: "Object.freeze({ " + strings.Join(values, ", ") + " })",
		})
		g.export(ident(e.Name), "")
	}
}

// generateSharedGlobals declares the table holding the globals and the window
func (g *jsGenerator) generateSharedGlobals() {
	st := &output.Struct{Name: "SharedGlobals"}
	var ctor []string
	for _, glob := range g.unit.Globals {
		if glob.IsBuiltin {
			ctor = append(ctor, fmt.Sprintf("this.global_%s = new slint.globals.%s();", ident(glob.Name), ident(glob.Name)))
			continue
		}
		ctor = append(ctor, fmt.Sprintf("this.global_%s = new %s(this);", ident(glob.Name), globalClassName(glob)))
	}
	ctor = append(ctor, "this.m_window = null;", "this.root_weak = null;")
	st.AddMember(output.AccessNone, &output.Function{Name: "constructor", Signature: "()", Statements: ctor})
	st.AddMember(output.AccessNone, &output.Function{
		Name:      "window",
		Signature: "()",
		Statements: []string{
			"if (this.m_window === null) {",
			"    this.m_window = new slint.Window();",
			"    this.m_window.setComponent(this.root_weak);",
			"}",
			"return this.m_window;",
		},
	})
	g.file.Declarations = append(g.file.Declarations, st)
}

func sortedIntKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

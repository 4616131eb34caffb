// Package cpp generates a C++ header, optionally split with implementation files, from a
// compilation unit
package cpp

import (
	"fmt"
	"sort"

	"slintc-go/packages/compiler/core"
	"slintc-go/packages/compiler/src/config"
	"slintc-go/packages/compiler/src/generator"
	"slintc-go/packages/compiler/src/llr"
	"slintc-go/packages/compiler/src/output"
)

// conditionalIncludes are set while compiling expressions, monotonically
type conditionalIncludes struct {
	iostream bool
	cstdlib  bool
	cmath    bool
}

type cppState struct {
	// globalAccess is the expression giving the SharedGlobals pointer
	globalAccess string
	includes     *conditionalIncludes
	// returnType is the C++ type returned by the function being compiled
	returnType string
	// structName names the generated struct of a sub-component
	structName func(*llr.SubComponent) string
}

type evalCtx = llr.EvaluationContext[cppState]

// Target is the C++ code generator
type Target struct{}

// New creates the C++ target
func New() *Target {
	return &Target{}
}

// Name implements generator.Target
func (*Target) Name() string {
	return "cpp"
}

// Generate implements generator.Target. It returns the header, followed by
// cfg.CppFiles implementation files when split output is requested.
func (*Target) Generate(unit *llr.CompilationUnit, cfg *config.CompilerConfiguration, baseName string) ([]generator.OutputFile, error) {
	g := newCppGenerator(unit, cfg)
	g.generate()
	return g.outputFiles(baseName), nil
}

type cppGenerator struct {
	unit     *llr.CompilationUnit
	cfg      *config.CompilerConfiguration
	file     output.File
	includes conditionalIncludes
	// structNames overrides the name of the struct generated for a sub-component
	structNames map[*llr.SubComponent]string
	debugInfo   bool
	// globalAPINames are the exported global accessors, reachable with global<T>()
	globalAPINames []globalAPI
}

func newCppGenerator(unit *llr.CompilationUnit, cfg *config.CompilerConfiguration) *cppGenerator {
	return &cppGenerator{
		unit:        unit,
		cfg:         cfg,
		file:        output.File{Namespace: cfg.CppNamespace},
		structNames: map[*llr.SubComponent]string{},
		debugInfo:   unit.HasDebugInfo || cfg.DebugInfo,
	}
}

func (g *cppGenerator) structName(sc *llr.SubComponent) string {
	if n, ok := g.structNames[sc]; ok {
		return n
	}
	return ident(sc.Name)
}

func (g *cppGenerator) state(globalAccess string) cppState {
	return cppState{globalAccess: globalAccess, includes: &g.includes, structName: g.structName}
}

func (g *cppGenerator) generate() {
	for _, inc := range []string{"<array>", "<limits>", "<slint.h>"} {
		g.file.AddInclude(inc)
	}
	g.file.Preamble = append(g.file.Preamble, versionCheck(core.CompilerVersion))

	g.generateTypes()
	for _, glob := range g.unit.Globals {
		if !glob.IsBuiltin {
			g.generateGlobal(glob)
		}
	}
	g.generateSharedGlobals()
	for _, sc := range g.unit.SubComponents {
		st := g.generateSubComponent(sc, nil)
		g.file.Declarations = append(g.file.Declarations, st)
	}
	for _, pc := range g.unit.PublicComponents {
		g.generatePublicComponent(pc)
	}
	g.generateResources()
	g.generateTranslations()

	if g.includes.iostream {
		g.file.AddInclude("<iostream>")
	}
	if g.includes.cstdlib {
		g.file.AddInclude("<cstdlib>")
	}
	if g.includes.cmath {
		g.file.AddInclude("<cmath>")
	}
}

func versionCheck(v *core.Version) output.Declaration {
	return &output.Raw{Lines: []string{fmt.Sprintf(
		`static_assert(SLINT_VERSION_MAJOR == %d && SLINT_VERSION_MINOR == %d && SLINT_VERSION_PATCH == %d, "This file was generated with Slint compiler version %s, but the Slint library used is " SLINT_VERSION_STRING ". The version numbers must match exactly.");`,
		v.Major, v.Minor, v.Patch, v.Full)}}
}

// addMethod declares fn in st and moves its body to the definitions
func (g *cppGenerator) addMethod(st *output.Struct, access output.Access, fn *output.Function) {
	decl := *fn
	decl.Statements = nil
	st.AddMember(access, &decl)
	def := *fn
	def.Name = st.Name + "::" + fn.Name
	def.IsStatic = false
	if def.Statements == nil {
		def.Statements = []string{}
	}
	g.file.Definitions = append(g.file.Definitions, &def)
}

func (g *cppGenerator) outputFiles(baseName string) []generator.OutputFile {
	header := baseName + ".h"
	if g.cfg.CppFiles <= 0 {
		return []generator.OutputFile{{Name: header, Content: printHeader(&g.file, false)}}
	}
	files := []generator.OutputFile{{Name: header, Content: printHeader(&g.file, true)}}
	var split []output.Declaration
	for _, d := range g.file.Definitions {
		if !isTemplate(d) {
			split = append(split, d)
		}
	}
	for i, bucket := range output.SplitRoundRobin(split, g.cfg.CppFiles) {
		name := fmt.Sprintf("%s_%d.cpp", baseName, i)
		if g.cfg.CppFiles == 1 {
			name = baseName + ".cpp"
		}
		files = append(files, generator.OutputFile{Name: name, Content: printImplementation(&g.file, bucket, header)})
	}
	return files
}

// generateTypes declares the user structs and enums
func (g *cppGenerator) generateTypes() {
	for _, e := range g.unit.UsedEnums {
		if e.Builtin {
			continue
		}
		values := make([]string, len(e.Values))
		for i, v := range e.Values {
			values[i] = pascalIdent(v)
		}
		g.file.Declarations = append(g.file.Declarations, &output.Enum{Name: ident(e.Name), Values: values})
	}
	for _, t := range g.unit.UsedStructs {
		if t.Name == "" || t.BuiltinStruct {
			continue
		}
		st := &output.Struct{Name: ident(t.Name)}
		for _, f := range t.Fields {
			st.AddMember(output.AccessPublic, &output.Var{Type: mustCppType(f.Type), Name: ident(f.Name)})
		}
		for _, op := range []string{"==", "!="} {
			st.AddMember(output.AccessPublic, &output.Raw{Lines: []string{
				fmt.Sprintf("friend bool operator%s(const class %s&, const class %s&) = default;", op, st.Name, st.Name),
			}})
		}
		g.file.Declarations = append(g.file.Declarations, st)
	}
}

// generateSharedGlobals declares the table holding the globals and the window
func (g *cppGenerator) generateSharedGlobals() {
	st := &output.Struct{Name: "SharedGlobals"}
	for _, glob := range g.unit.Globals {
		if glob.IsBuiltin {
			st.AddMember(output.AccessPublic, &output.Var{
				Type: "std::shared_ptr<slint::cbindgen_private::" + ident(glob.Name) + ">",
				Name: "global_" + ident(glob.Name),
				Init: "std::make_shared<slint::cbindgen_private::" + ident(glob.Name) + ">()",
			})
			continue
		}
		st.AddMember(output.AccessPublic, &output.Var{
			Type: "std::shared_ptr<" + globalStructName(glob) + ">",
			Name: "global_" + ident(glob.Name),
			Init: "std::make_shared<" + globalStructName(glob) + ">(this)",
		})
	}
	st.AddMember(output.AccessPublic, &output.Var{Type: "std::optional<slint::Window>", Name: "m_window"})
	st.AddMember(output.AccessPublic, &output.Var{Type: "slint::cbindgen_private::ItemTreeWeak", Name: "root_weak"})
	g.addMethod(st, output.AccessPublic, &output.Function{
		Name:      "window",
		Signature: "() const -> slint::Window &",
		Statements: []string{
			"auto self = const_cast<SharedGlobals *>(this);",
			"if (!self->m_window.has_value()) {",
			"    auto &window = self->m_window.emplace(slint::private_api::WindowAdapterRc());",
			"    window.window_handle().set_component(self->root_weak);",
			"}",
			"return *self->m_window;",
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

package cpp

import (
	"fmt"

	"slintc-go/packages/compiler/src/llr"
	"slintc-go/packages/compiler/src/output"
)

// generatePublicAPI adds the accessors of the public properties, the window functions
// and global<T>() to the struct of a public component
func (g *cppGenerator) generatePublicAPI(st *output.Struct, pc *llr.PublicComponent, ctx *evalCtx) {
	apiCtx := ctx.WithState(g.state("(&self->m_globals)"))
	for _, p := range pc.PublicProperties {
		g.addPropertyAPI(st, p, "this", apiCtx)
	}

	window := []struct{ name, sig, body string }{
		{"show", "() -> void", "window().show();"},
		{"hide", "() -> void", "window().hide();"},
		{"window", "() const -> slint::Window &", "return m_globals.window();"},
		{"run", "() -> void", "show(); slint::run_event_loop(); hide();"},
	}
	for _, w := range window {
		g.addMethod(st, output.AccessPublic, &output.Function{Name: w.name, Signature: w.sig, Statements: []string{w.body}})
	}

	if len(g.globalAPINames) == 0 {
		return
	}
	st.AddMember(output.AccessPublic, &output.Function{
		Name:               "global",
		TemplateParameters: "typename T",
		Signature:          "() const -> T",
	})
	for _, api := range g.globalAPINames {
		// explicit specializations stay in the header
		g.file.Definitions = append(g.file.Definitions, &output.Raw{Lines: []string{
			fmt.Sprintf("template<> inline auto %s::global<%s>() const -> %s {", st.Name, api.name, api.name),
			fmt.Sprintf("    return %s(m_globals.global_%s.get());", api.name, ident(api.global.Name)),
			"}",
		}})
	}
}

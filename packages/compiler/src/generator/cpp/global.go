package cpp

import (
	"fmt"
	"strings"

	"slintc-go/packages/compiler/src/langtype"
	"slintc-go/packages/compiler/src/llr"
	"slintc-go/packages/compiler/src/output"
)

// generateGlobal declares the class of a global singleton. An instance is owned by the
// SharedGlobals of every public component.
func (g *cppGenerator) generateGlobal(glob *llr.GlobalComponent) {
	name := globalStructName(glob)
	st := &output.Struct{Name: name}
	ctx := llr.NewGlobalContext(g.unit, glob, g.state("self->globals"))

	st.AddMember(output.AccessPublic, &output.Var{Type: "const class SharedGlobals*", Name: "globals"})
	for _, p := range glob.Properties {
		st.AddMember(output.AccessPublic, &output.Var{Type: propertyFieldType(p.Type), Name: ident(p.Name)})
	}
	for i := range glob.ChangeCallbacks {
		st.AddMember(output.AccessPublic, &output.Var{Type: "slint::private_api::ChangeTracker", Name: fmt.Sprintf("change_tracker%d", i)})
	}

	g.addMethod(st, output.AccessPublic, &output.Function{
		Name:                          name,
		Signature:                     "(const class SharedGlobals *globals)",
		IsConstructorOrDestructor:     true,
		ConstructorMemberInitializers: []string{"globals(globals)"},
		Statements:                    []string{"this->init();"},
	})

	init := []string{selfDecl}
	for i, b := range glob.InitValues {
		if b == nil {
			continue
		}
		ref := &llr.LocalRef{PropertyIndex: i}
		init = append(init, propertyInitCode(ref, b, ctx))
	}
	for i, isConst := range glob.ConstProperties {
		if isConst {
			init = append(init, fmt.Sprintf("self->%s.set_constant();", ident(glob.Properties[i].Name)))
		}
	}
	for i, cc := range glob.ChangeCallbacks {
		init = append(init, changeTrackerInit(fmt.Sprintf("change_tracker%d", i), cc, ctx))
	}
	g.addMethod(st, output.AccessPrivate, &output.Function{Name: "init", Signature: "() -> void", Statements: init})

	userInit := []string{selfDecl}
	for _, code := range glob.InitCode {
		userInit = append(userInit, compileExpression(code, ctx)+";")
	}
	g.addMethod(st, output.AccessPublic, &output.Function{Name: "user_init", Signature: "() -> void", Statements: userInit})

	for _, f := range glob.Functions {
		g.addMethod(st, output.AccessPublic, g.userFunction(f, ctx))
	}
	g.file.Declarations = append(g.file.Declarations, st)

	if glob.Exported {
		g.generateGlobalAPI(glob, ctx)
	}
}

// generateGlobalAPI declares the public accessor of an exported global. It wraps the
// instance owned by a component.
func (g *cppGenerator) generateGlobalAPI(glob *llr.GlobalComponent, ctx *evalCtx) {
	name := ident(glob.Name)
	st := &output.Struct{Name: name}
	st.AddMember(output.AccessPrivate, &output.Var{Type: "const " + globalStructName(glob) + " *", Name: "m_global"})
	g.addMethod(st, output.AccessPublic, &output.Function{
		Name:                          name,
		Signature:                     fmt.Sprintf("(const %s *global)", globalStructName(glob)),
		IsConstructorOrDestructor:     true,
		ConstructorMemberInitializers: []string{"m_global(global)"},
		Statements:                    []string{},
	})
	apiCtx := ctx.WithState(g.state("m_global->globals"))
	for _, p := range glob.PublicProperties {
		g.addPropertyAPI(st, p, "m_global", apiCtx)
	}
	g.file.Declarations = append(g.file.Declarations, st)
	for _, alias := range glob.Aliases {
		g.file.Declarations = append(g.file.Declarations, &output.TypeAlias{NewName: ident(alias), OldName: name})
	}
	g.globalAPINames = append(g.globalAPINames, globalAPI{global: glob, name: name})
}

// globalStructName is the internal class of a global, the plain name being left to
// the exported accessor
func globalStructName(glob *llr.GlobalComponent) string {
	return "Inner" + ident(glob.Name)
}

type globalAPI struct {
	global *llr.GlobalComponent
	name   string
}

// addPropertyAPI adds the accessors of a public property, callback or function. The
// accessors reach the member through base.
func (g *cppGenerator) addPropertyAPI(st *output.Struct, p llr.PublicProperty, base string, ctx *evalCtx) {
	name := ident(p.Name)
	prelude := fmt.Sprintf("[[maybe_unused]] auto self = %s;", base)
	access := accessMember(p.Ref, ctx)

	switch p.Type.Kind {
	case langtype.KindCallback:
		ret := mustCppType(p.Type.Return)
		args := argTypes(p.Type.Args)
		invokeArgs := ""
		for i := range p.Type.Args {
			if i > 0 {
				invokeArgs += ", "
			}
			invokeArgs += argName(i)
		}
		g.addMethod(st, output.AccessPublic, &output.Function{
			Name:       "invoke_" + name,
			Signature:  fmt.Sprintf("(%s) const -> %s", parameterList(p.Type.Args), ret),
			Statements: []string{prelude, fmt.Sprintf("return %s.call(%s);", access, invokeArgs)},
		})
		g.addMethod(st, output.AccessPublic, &output.Function{
			Name:               "on_" + name,
			TemplateParameters: fmt.Sprintf("std::invocable<%s> Functor", strings.Join(args, ", ")),
			Signature:          "(Functor && callback_handler) const -> void",
			Statements:         []string{prelude, fmt.Sprintf("%s.set_handler(std::forward<Functor>(callback_handler));", access)},
		})
	case langtype.KindFunction:
		invokeArgs := ""
		for i := range p.Type.Args {
			if i > 0 {
				invokeArgs += ", "
			}
			invokeArgs += argName(i)
		}
		g.addMethod(st, output.AccessPublic, &output.Function{
			Name:       "invoke_" + name,
			Signature:  fmt.Sprintf("(%s) const -> %s", parameterList(p.Type.Args), mustCppType(p.Type.Return)),
			Statements: []string{prelude, fmt.Sprintf("return %s(%s);", access, invokeArgs)},
		})
	default:
		t := mustCppType(p.Type)
		g.addMethod(st, output.AccessPublic, &output.Function{
			Name:       "get_" + name,
			Signature:  fmt.Sprintf("() const -> %s", t),
			Statements: []string{prelude, fmt.Sprintf("return %s.get();", access)},
		})
		if !p.ReadOnly {
			g.addMethod(st, output.AccessPublic, &output.Function{
				Name:       "set_" + name,
				Signature:  fmt.Sprintf("(const %s &value) const -> void", t),
				Statements: []string{prelude, fmt.Sprintf("%s.set(value);", access)},
			})
		}
	}
}

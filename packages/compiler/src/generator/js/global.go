package js

import (
	"fmt"

	"slintc-go/packages/compiler/src/langtype"
	"slintc-go/packages/compiler/src/llr"
	"slintc-go/packages/compiler/src/output"
)

// globalClassName is the internal class of a global, the plain name being left to the
// exported accessor
func globalClassName(glob *llr.GlobalComponent) string {
	return "Inner" + ident(glob.Name)
}

// generateGlobal declares the class of a global singleton. Every public component owns
// an instance through its SharedGlobals.
func (g *jsGenerator) generateGlobal(glob *llr.GlobalComponent) {
	st := &output.Struct{Name: globalClassName(glob)}
	ctx := llr.NewGlobalContext(g.unit, glob, jsState{globalAccess: "self.globals"})

	for _, p := range glob.Properties {
		field(st, ident(p.Name), propertyInit(p.Type))
	}
	for i := range glob.ChangeCallbacks {
		field(st, fmt.Sprintf("change_tracker%d", i), "new slint.ChangeTracker()")
	}
	method(st, "constructor", "globals", "this.globals = globals;", "this.init();")

	init := []string{selfDecl}
	for i, b := range glob.InitValues {
		if b != nil {
			init = append(init, propertyInitCode(&llr.LocalRef{PropertyIndex: i}, b, ctx))
		}
	}
	for i, isConst := range glob.ConstProperties {
		if isConst {
			init = append(init, fmt.Sprintf("self.%s.setConstant();", ident(glob.Properties[i].Name)))
		}
	}
	for i, cc := range glob.ChangeCallbacks {
		init = append(init, changeTrackerInit(fmt.Sprintf("change_tracker%d", i), cc, ctx))
	}
	method(st, "init", "", init...)

	userInit := []string{selfDecl}
	for _, code := range glob.InitCode {
		userInit = append(userInit, compileExpression(code, ctx)+";")
	}
	method(st, "user_init", "", userInit...)
	for _, f := range glob.Functions {
		addUserFunction(st, f, ctx)
	}
	g.file.Declarations = append(g.file.Declarations, st)

	if glob.Exported {
		g.generateGlobalAPI(glob, ctx)
	}
}

// generateGlobalAPI declares the exported accessor of a global, wrapping the instance
// owned by a component
func (g *jsGenerator) generateGlobalAPI(glob *llr.GlobalComponent, ctx *evalCtx) {
	name := ident(glob.Name)
	st := &output.Struct{Name: name}
	method(st, "constructor", "global", "this.m_global = global;")
	apiCtx := ctx.WithState(jsState{globalAccess: "self.globals"})
	for _, p := range glob.PublicProperties {
		addPropertyAPI(st, p, "this.m_global", apiCtx)
	}
	g.file.Declarations = append(g.file.Declarations, st)
	g.export(name, "")
	for _, alias := range glob.Aliases {
		g.export(name, ident(alias))
	}
}

// addPropertyAPI adds the accessors of a public property, callback or function. They
// reach the member through base.
func addPropertyAPI(st *output.Struct, p llr.PublicProperty, base string, ctx *evalCtx) {
	name := ident(p.Name)
	prelude := fmt.Sprintf("const self = %s;", base)
	access := accessMember(p.Ref, ctx)

	switch p.Type.Kind {
	case langtype.KindCallback:
		params := parameterList(len(p.Type.Args))
		method(st, "invoke_"+name, params, prelude, fmt.Sprintf("return %s.call(%s);", access, params))
		method(st, "on_"+name, "callback_handler", prelude, fmt.Sprintf("%s.setHandler(callback_handler);", access))
	case langtype.KindFunction:
		params := parameterList(len(p.Type.Args))
		method(st, "invoke_"+name, params, prelude, fmt.Sprintf("return %s(%s);", access, params))
	default:
		method(st, "get_"+name, "", prelude, fmt.Sprintf("return %s.get();", access))
		if !p.ReadOnly {
			method(st, "set_"+name, "value", prelude, fmt.Sprintf("%s.set(value);", access))
		}
	}
}

// generatePublicAPI adds the accessors of the public properties, the window functions and
// global() to the class of a public component
func (g *jsGenerator) generatePublicAPI(st *output.Struct, pc *llr.PublicComponent, ctx *evalCtx) {
	apiCtx := ctx.WithState(jsState{globalAccess: "self.m_globals"})
	for _, p := range pc.PublicProperties {
		addPropertyAPI(st, p, "this", apiCtx)
	}
	method(st, "show", "", "this.window().show();")
	method(st, "hide", "", "this.window().hide();")
	method(st, "window", "", "return this.m_globals.window();")
	st.AddMember(output.AccessNone, &output.Function{
		Name:       "async run",
		Signature:  "()",
		Statements: []string{"this.show();", "await slint.runEventLoop();", "this.hide();"},
	})

	body := []string{}
	for _, glob := range g.unit.Globals {
		if glob.IsBuiltin || !glob.Exported {
			continue
		}
		body = append(body,
			fmt.Sprintf("if (type === %s) {", ident(glob.Name)),
			fmt.Sprintf("    return new %s(this.m_globals.global_%s);", ident(glob.Name), ident(glob.Name)),
			"}")
	}
	if len(body) == 0 {
		return
	}
	body = append(body, `throw new Error("not an exported global of this component");`)
	method(st, "global", "type", body...)
}

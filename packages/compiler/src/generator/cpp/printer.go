package cpp

import (
	"fmt"
	"strings"

	"slintc-go/packages/compiler/src/output"
)

const generatedBanner = "// This file is auto-generated by slintc-go. Do not edit."

// printHeader renders the header. Without split, every definition is printed inline
// after the declarations; with split, only the templates are.
func printHeader(file *output.File, split bool) string {
	ctx := output.CreateRootEmitterVisitorContext()
	ctx.Println("#pragma once")
	ctx.Println(generatedBanner)
	for _, inc := range file.Includes {
		ctx.Println("#include " + inc)
	}
	ctx.Println("")
	openNamespace(ctx, file.Namespace)
	for _, d := range file.Preamble {
		printDeclaration(ctx, d)
	}
	for _, d := range file.Declarations {
		if st, ok := d.(*output.Struct); ok {
			ctx.Println("class " + st.Name + ";")
		}
	}
	ctx.Println("")
	for _, d := range file.Declarations {
		printDeclaration(ctx, d)
		ctx.Println("")
	}
	for _, d := range file.Resources {
		printDeclaration(ctx, d)
	}
	for _, d := range file.Definitions {
		if split && !isTemplate(d) {
			continue
		}
		printDefinition(ctx, d, !split)
	}
	closeNamespace(ctx, file.Namespace)
	return ctx.ToSource()
}

// printImplementation renders one implementation file holding defs
func printImplementation(file *output.File, defs []output.Declaration, header string) string {
	ctx := output.CreateRootEmitterVisitorContext()
	ctx.Println(generatedBanner)
	ctx.Println(fmt.Sprintf("#include \"%s\"", header))
	ctx.Println("")
	openNamespace(ctx, file.Namespace)
	for _, d := range defs {
		printDefinition(ctx, d, false)
	}
	closeNamespace(ctx, file.Namespace)
	return ctx.ToSource()
}

// isTemplate reports whether a definition must stay in the header
func isTemplate(d output.Declaration) bool {
	switch d := d.(type) {
	case *output.Function:
		return d.TemplateParameters != ""
	case *output.Raw:
		return true
	}
	return false
}

func openNamespace(ctx *output.EmitterVisitorContext, ns string) {
	if ns == "" {
		return
	}
	ctx.Println("namespace " + ns + " {")
	ctx.Println("")
}

func closeNamespace(ctx *output.EmitterVisitorContext, ns string) {
	if ns == "" {
		return
	}
	ctx.Println("} // namespace " + ns)
}

func printDeclaration(ctx *output.EmitterVisitorContext, d output.Declaration) {
	switch d := d.(type) {
	case *output.Struct:
		printStruct(ctx, d)
	case *output.Enum:
		ctx.Println(fmt.Sprintf("enum class %s {", d.Name))
		ctx.IncIndent()
		for _, v := range d.Values {
			ctx.Println(v + ",")
		}
		ctx.DecIndent()
		ctx.Println("};")
	case *output.TypeAlias:
		ctx.Println(fmt.Sprintf("using %s = %s;", d.NewName, d.OldName))
	case *output.Var:
		ctx.Println(varDeclaration(d, d.IsInline) + ";")
	case *output.Function:
		ctx.Println(functionHead(d, d.Name, false) + ";")
	case *output.Raw:
		for _, l := range d.Lines {
			ctx.Println(l)
		}
	}
}

func printStruct(ctx *output.EmitterVisitorContext, st *output.Struct) {
	head := "class " + st.Name
	if len(st.Extends) > 0 {
		head += " : public " + strings.Join(st.Extends, ", public ")
	}
	ctx.Println(head + " {")
	current := output.Access(-1)
	for _, m := range st.Members {
		if m.Access != current {
			current = m.Access
			label := "public:"
			if current == output.AccessPrivate {
				label = "private:"
			}
			ctx.Println(label)
		}
		ctx.IncIndent()
		switch d := m.Decl.(type) {
		case *output.Var:
			ctx.Println(varDeclaration(d, false) + ";")
		case *output.Function:
			ctx.Println(functionHead(d, d.Name, true) + ";")
		default:
			printDeclaration(ctx, d)
		}
		ctx.DecIndent()
	}
	for _, f := range st.Friends {
		ctx.IncIndent()
		ctx.Println("friend class " + f + ";")
		ctx.DecIndent()
	}
	ctx.Println("};")
}

func varDeclaration(v *output.Var, inline bool) string {
	var sb strings.Builder
	if v.IsExtern {
		sb.WriteString("extern ")
	}
	if inline {
		sb.WriteString("inline ")
	}
	if v.IsConst {
		sb.WriteString("const ")
	}
	sb.WriteString(v.Type)
	sb.WriteString(" ")
	sb.WriteString(v.Name)
	if v.ArraySize > 0 {
		fmt.Fprintf(&sb, "[%d]", v.ArraySize)
	}
	if v.Init != "" {
		sb.WriteString(" = ")
		sb.WriteString(v.Init)
	}
	return sb.String()
}

// functionHead is everything before the body. Member declarations keep static.
func functionHead(f *output.Function, name string, member bool) string {
	var sb strings.Builder
	if f.TemplateParameters != "" {
		fmt.Fprintf(&sb, "template<%s> ", f.TemplateParameters)
	}
	if member && f.IsStatic {
		sb.WriteString("static ")
	}
	if f.IsFriend {
		sb.WriteString("friend ")
	}
	if f.IsInline {
		sb.WriteString("inline ")
	}
	if !f.IsConstructorOrDestructor {
		sb.WriteString("auto ")
	}
	sb.WriteString(name)
	sb.WriteString(f.Signature)
	return sb.String()
}

func printDefinition(ctx *output.EmitterVisitorContext, d output.Declaration, inline bool) {
	switch d := d.(type) {
	case *output.Function:
		f := *d
		if inline {
			f.IsInline = true
		}
		head := functionHead(&f, f.Name, false)
		if len(f.ConstructorMemberInitializers) > 0 {
			head += " : " + strings.Join(f.ConstructorMemberInitializers, ", ")
		}
		ctx.Println(head)
		ctx.Println("{")
		ctx.IncIndent()
		for _, s := range f.Statements {
			ctx.PrintLines(s)
		}
		ctx.DecIndent()
		ctx.Println("}")
		ctx.Println("")
	case *output.Var:
		ctx.Println(varDeclaration(d, inline || d.IsInline) + ";")
	case *output.Raw:
		for _, l := range d.Lines {
			ctx.Println(l)
		}
		ctx.Println("")
	}
}

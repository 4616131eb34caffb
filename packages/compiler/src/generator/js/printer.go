package js

import (
	"fmt"
	"strings"

	"slintc-go/packages/compiler/src/output"
)

const generatedBanner = "// This file is auto-generated by slintc-go. Do not edit."

func (g *jsGenerator) print() string {
	ctx := output.CreateRootEmitterVisitorContext()
	ctx.Println(generatedBanner)
	for _, imp := range g.file.Includes {
		ctx.Println(imp)
	}
	ctx.Println("")
	for _, d := range g.file.Preamble {
		printDeclaration(ctx, d)
	}
	ctx.Println("")
	for _, d := range g.file.Resources {
		printDeclaration(ctx, d)
	}
	for _, d := range g.file.Declarations {
		printDeclaration(ctx, d)
		ctx.Println("")
	}
	if len(g.exports) > 0 {
		names := make([]string, len(g.exports))
		for i, e := range g.exports {
			names[i] = e.name
			if e.alias != "" {
				names[i] += " as " + e.alias
			}
		}
		ctx.Println("export { " + strings.Join(names, ", ") + " };")
	}
	return ctx.ToSource()
}

func printDeclaration(ctx *output.EmitterVisitorContext, d output.Declaration) {
	switch d := d.(type) {
	case *output.Struct:
		printClass(ctx, d)
	case *output.Var:
		ctx.Println(fmt.Sprintf("const %s = %s;", d.Name, d.Init))
	case *output.Function:
		printFunction(ctx, "function "+d.Name, d)
	case *output.Raw:
		for _, l := range d.Lines {
			ctx.Println(l)
		}
	}
}

// printClass prints fields first, as class fields, then the methods
func printClass(ctx *output.EmitterVisitorContext, st *output.Struct) {
	head := "class " + st.Name
	if len(st.Extends) > 0 {
		head += " extends " + st.Extends[0]
	}
	ctx.Println(head + " {")
	ctx.IncIndent()
	for _, m := range st.Members {
		if v, ok := m.Decl.(*output.Var); ok {
			line := v.Name
			if v.IsConst {
				line = "static " + line
			}
			if v.Init != "" {
				line += " = " + v.Init
			}
			ctx.PrintLines(line + ";")
		}
	}
	for _, m := range st.Members {
		switch d := m.Decl.(type) {
		case *output.Function:
			ctx.Println("")
			head := d.Name
			if d.IsStatic {
				head = "static " + head
			}
			printFunction(ctx, head, d)
		case *output.Raw:
			for _, l := range d.Lines {
				ctx.Println(l)
			}
		}
	}
	ctx.DecIndent()
	ctx.Println("}")
}

func printFunction(ctx *output.EmitterVisitorContext, head string, f *output.Function) {
	ctx.Println(head + f.Signature + " {")
	ctx.IncIndent()
	for _, s := range f.Statements {
		ctx.PrintLines(s)
	}
	ctx.DecIndent()
	ctx.Println("}")
}

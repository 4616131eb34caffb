package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
)

func usage() {
	fmt.Println(`slintc-go - code generator for lowered UI component trees
Usage: slintc-go <command> [args]

Commands:
  compile <input.yaml> [-target cpp|js] [-o dir] [-config file.toml] [-catalog file...]
                   Generate code for the compilation unit
  watch <input.yaml> [compile flags]
                   Compile, then recompile whenever the input changes
  run <input.yaml> [-advance duration] [-lang tag] [component] [prop=value...]
                   Instantiate a component with the interpreter and print its properties
  help             Show help`)
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}
	out := newPrinter(os.Stdout)
	cmd := os.Args[1]
	switch cmd {
	case "help", "-h", "--help":
		usage()
	case "compile":
		opts, err := parseCompileArgs(cmd, os.Args[2:])
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", cmd, err)
			os.Exit(2)
		}
		if err := compile(opts, out); err != nil {
			fmt.Fprintf(os.Stderr, "compile error: %v\n", err)
			os.Exit(1)
		}
	case "watch":
		opts, err := parseCompileArgs(cmd, os.Args[2:])
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", cmd, err)
			os.Exit(2)
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		err = watch(ctx, opts, out)
		stop()
		if err != nil {
			fmt.Fprintf(os.Stderr, "watch error: %v\n", err)
			os.Exit(1)
		}
	case "run":
		if err := run(os.Args[2:], out); err != nil {
			fmt.Fprintf(os.Stderr, "run error: %v\n", err)
			os.Exit(1)
		}
	default:
		usage()
		os.Exit(1)
	}
}

package main

import (
	"errors"
	"flag"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jeandeaual/go-locale"

	"slintc-go/packages/compiler/src/interpreter"
	"slintc-go/packages/compiler/src/runtime"
)

// run instantiates a component, applies the prop=value assignments, lets the timers run
// for the requested duration and prints the public properties
func run(args []string, out *printer) error {
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return errors.New("missing input file")
	}
	input := args[0]
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	advance := fs.Duration("advance", 0, "time to let the timers run before printing")
	configPath := fs.String("config", "", "TOML configuration file")
	lang := fs.String("lang", "", "translation language (default: the system locale)")
	var catalogs []string
	fs.Func("catalog", "translated message file (repeatable)", func(path string) error {
		catalogs = append(catalogs, path)
		return nil
	})
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}
	rest := fs.Args()

	unit, err := loadUnit(input, catalogs)
	if err != nil {
		return err
	}
	name := ""
	if len(rest) > 0 && !strings.Contains(rest[0], "=") {
		name, rest = rest[0], rest[1:]
	}
	if name == "" {
		if len(unit.PublicComponents) == 0 {
			return fmt.Errorf("%s has no public component", input)
		}
		name = unit.PublicComponents[len(unit.PublicComponents)-1].Name
	}
	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}

	opts := []interpreter.Option{
		interpreter.WithConfig(cfg),
		interpreter.WithDebugHandler(func(msg string) { out.step("🐞", "%s", msg) }),
	}
	if *lang == "" && unit.Translations != nil {
		// an undetectable locale keeps the source language
		*lang, _ = locale.GetLocale()
	}
	if *lang != "" {
		opts = append(opts, interpreter.WithLanguage(*lang))
	}
	def, err := interpreter.Load(unit, name, opts...)
	if err != nil {
		return err
	}
	inst := def.Create()
	defer inst.Destroy()

	for _, assignment := range rest {
		key, value, ok := strings.Cut(assignment, "=")
		if !ok {
			return fmt.Errorf("expected prop=value, got %q", assignment)
		}
		if err := inst.SetProperty(key, parseValue(value)); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}
	inst.Show()
	if *advance > 0 {
		inst.EventLoop().Advance(*advance)
	}

	out.step("▶️", "%s", def.Name())
	for _, p := range def.Properties() {
		if p.Type.IsCallable() {
			continue
		}
		v, err := inst.GetProperty(p.Name)
		if err != nil {
			return err
		}
		fmt.Fprintf(out.w, "%s = %s\n", p.Name, interpreter.Format(v))
	}
	return nil
}

// parseValue reads numbers and booleans, anything else is a string
func parseValue(s string) runtime.Value {
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	if d, err := time.ParseDuration(s); err == nil {
		return float64(d.Milliseconds())
	}
	return s
}

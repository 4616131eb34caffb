package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"slintc-go/packages/compiler/core"
	"slintc-go/packages/compiler/src/config"
	"slintc-go/packages/compiler/src/generator"
	"slintc-go/packages/compiler/src/generator/cpp"
	"slintc-go/packages/compiler/src/generator/js"
	"slintc-go/packages/compiler/src/llr"
	"slintc-go/packages/compiler/src/llrdoc"
)

// printer writes progress lines. Markers are only shown on a terminal.
type printer struct {
	w        io.Writer
	decorate bool
}

func newPrinter(f *os.File) *printer {
	return &printer{w: f, decorate: term.IsTerminal(int(f.Fd()))}
}

func (p *printer) step(marker, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if p.decorate {
		msg = marker + " " + msg
	}
	fmt.Fprintln(p.w, msg)
}

func (p *printer) detail(marker, format string, args ...any) {
	p.step(marker, "   "+format, args...)
}

type compileOptions struct {
	input      string
	target     string
	outDir     string
	configPath string
	catalogs   []string
}

// parseCompileArgs parses `<input> [flags]`
func parseCompileArgs(name string, args []string) (*compileOptions, error) {
	o := &compileOptions{}
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.StringVar(&o.target, "target", "cpp", "output language: cpp or js")
	fs.StringVar(&o.outDir, "o", "", "output directory (default: the directory of the input)")
	fs.StringVar(&o.configPath, "config", "", "TOML configuration file")
	fs.Func("catalog", "translated message file (repeatable)", func(path string) error {
		o.catalogs = append(o.catalogs, path)
		return nil
	})
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return nil, errors.New("missing input file")
	}
	o.input = args[0]
	if err := fs.Parse(args[1:]); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected argument %q", fs.Arg(0))
	}
	return o, nil
}

func targetByName(name string) (generator.Target, error) {
	t, ok := core.ParseTarget(strings.ToLower(name))
	if !ok {
		return nil, fmt.Errorf("unknown target %q (expected cpp or js)", name)
	}
	switch t {
	case core.TargetCpp:
		return cpp.New(), nil
	case core.TargetJs:
		return js.New(), nil
	}
	return nil, fmt.Errorf("unknown target %q (expected cpp or js)", name)
}

func loadConfig(path string) (*config.CompilerConfiguration, error) {
	if path == "" {
		return config.FromEnvironment(config.NewCompilerConfiguration()), nil
	}
	return config.LoadFile(path)
}

// loadUnit reads the document and merges the message catalogs into its translations
func loadUnit(input string, catalogs []string) (*llr.CompilationUnit, error) {
	unit, err := llrdoc.LoadFile(input)
	if err != nil {
		return nil, err
	}
	if len(catalogs) > 0 && unit.Translations == nil {
		return nil, fmt.Errorf("%s has no bundled translations to merge catalogs into", input)
	}
	for _, c := range catalogs {
		if err := llrdoc.MergeCatalog(unit.Translations, c); err != nil {
			return nil, err
		}
	}
	return unit, nil
}

func compile(o *compileOptions, out *printer) error {
	target, err := targetByName(o.target)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(o.configPath)
	if err != nil {
		return err
	}
	out.step("🔨", "Compiling %s (%s)", o.input, target.Name())

	unit, err := loadUnit(o.input, o.catalogs)
	if err != nil {
		return err
	}
	baseName := strings.TrimSuffix(filepath.Base(o.input), filepath.Ext(o.input))
	files, err := generator.Generate(target, unit, cfg, generator.Options{BaseName: baseName})
	if err != nil {
		return err
	}

	outDir := o.outDir
	if outDir == "" {
		outDir = filepath.Dir(o.input)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("error creating output directory: %w", err)
	}
	var g errgroup.Group
	g.SetLimit(4)
	for _, f := range files {
		f := f
		path := filepath.Join(outDir, f.Name)
		g.Go(func() error {
			if err := os.WriteFile(path, []byte(f.Content), 0o644); err != nil {
				return fmt.Errorf("error writing %s: %w", path, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	for _, f := range files {
		out.detail("📄", "%s", filepath.Join(outDir, f.Name))
	}
	out.step("✅", "Generated %d file(s)", len(files))
	return nil
}

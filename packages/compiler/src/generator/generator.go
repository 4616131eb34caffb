package generator

import (
	"errors"
	"fmt"

	"slintc-go/packages/compiler/src/config"
	"slintc-go/packages/compiler/src/llr"
)

// ErrLiveReloadUnavailable is returned when live reload is requested without a live reload generator
var ErrLiveReloadUnavailable = errors.New("live reload requested but no live reload generator is configured")

// OutputFile is one generated file
type OutputFile struct {
	// Name is relative to the output directory
	Name    string
	Content string
}

// Target is a code generator for one output language
type Target interface {
	// Name is the command line name of the target
	Name() string
	// Generate produces the files of one compilation unit. baseName names the files.
	Generate(unit *llr.CompilationUnit, cfg *config.CompilerConfiguration, baseName string) ([]OutputFile, error)
}

// LiveReloadGenerator produces code that loads the UI at runtime instead of compiling it
type LiveReloadGenerator interface {
	GenerateLiveReload(target string, unit *llr.CompilationUnit, cfg *config.CompilerConfiguration, baseName string) ([]OutputFile, error)
}

// Options holds the collaborators of Generate
type Options struct {
	BaseName   string
	LiveReload LiveReloadGenerator
}

// Generate is the entry point of the code generation. When the live reload switch is set,
// generation is delegated to opts.LiveReload.
func Generate(target Target, unit *llr.CompilationUnit, cfg *config.CompilerConfiguration, opts Options) ([]OutputFile, error) {
	if cfg == nil {
		cfg = config.NewCompilerConfiguration()
	}
	if opts.BaseName == "" {
		opts.BaseName = "generated"
	}
	if cfg.LiveReload || config.LiveReloadRequested() {
		if opts.LiveReload == nil {
			return nil, ErrLiveReloadUnavailable
		}
		return opts.LiveReload.GenerateLiveReload(target.Name(), unit, cfg, opts.BaseName)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("failed to generate %s: %w", target.Name(), err)
	}
	return generateRecovering(target, unit, cfg, opts.BaseName)
}

// generateRecovering turns internal error panics into errors for the caller, who can then
// report the malformed input instead of crashing the tool.
func generateRecovering(target Target, unit *llr.CompilationUnit, cfg *config.CompilerConfiguration, baseName string) (files []OutputFile, err error) {
	defer func() {
		if r := recover(); r != nil {
			files = nil
			err = fmt.Errorf("%s generator: %v", target.Name(), r)
		}
	}()
	return target.Generate(unit, cfg, baseName)
}

package config

import (
	"fmt"
	"slices"

	"golang.org/x/text/language"
)

// KnownStyles are the widget styles the runtime library ships
var KnownStyles = []string{"fluent", "material", "cupertino", "cosmic", "native", "qt"}

// CompilerConfiguration holds the options shared by every generator
type CompilerConfiguration struct {
	// ConstScaleFactor simulates a display density when lengths are converted at compile time
	ConstScaleFactor float64
	Style            string
	// TranslationBundling embeds the translations instead of using gettext at runtime
	TranslationBundling bool
	// DefaultTranslationLanguage is the language of the source strings
	DefaultTranslationLanguage language.Tag
	// DebugInfo enables the element infos tables
	DebugInfo bool
	// CppNamespace wraps the generated C++ code when not empty
	CppNamespace string
	// CppFiles is the number of extra .cpp files receiving the definitions, 0 keeps
	// everything in the header
	CppFiles int
	// JsRuntimeModule is the module specifier of the JavaScript runtime
	JsRuntimeModule string
	// LiveReload diverts the generation to the live reload generator
	LiveReload bool
}

// NewCompilerConfiguration creates a new CompilerConfiguration with optional parameters
func NewCompilerConfiguration(opts ...CompilerConfigurationOption) *CompilerConfiguration {
	config := &CompilerConfiguration{
		ConstScaleFactor:           1,
		Style:                      "fluent",
		DefaultTranslationLanguage: language.English,
		JsRuntimeModule:            "slint-runtime",
	}

	for _, opt := range opts {
		opt(config)
	}

	return config
}

// CompilerConfigurationOption is a function that modifies CompilerConfiguration
type CompilerConfigurationOption func(*CompilerConfiguration)

// WithConstScaleFactor sets the compile time scale factor
func WithConstScaleFactor(factor float64) CompilerConfigurationOption {
	return func(c *CompilerConfiguration) {
		c.ConstScaleFactor = factor
	}
}

// WithStyle sets the widget style
func WithStyle(style string) CompilerConfigurationOption {
	return func(c *CompilerConfiguration) {
		c.Style = style
	}
}

// WithTranslationBundling sets whether translations are embedded
func WithTranslationBundling(bundle bool) CompilerConfigurationOption {
	return func(c *CompilerConfiguration) {
		c.TranslationBundling = bundle
	}
}

// WithDebugInfo sets whether element infos are generated
func WithDebugInfo(debug bool) CompilerConfigurationOption {
	return func(c *CompilerConfiguration) {
		c.DebugInfo = debug
	}
}

// WithCppNamespace sets the namespace of the generated C++ code
func WithCppNamespace(namespace string) CompilerConfigurationOption {
	return func(c *CompilerConfiguration) {
		c.CppNamespace = namespace
	}
}

// WithCppFiles sets the number of C++ definition files
func WithCppFiles(count int) CompilerConfigurationOption {
	return func(c *CompilerConfiguration) {
		c.CppFiles = count
	}
}

// WithJsRuntimeModule sets the module specifier imported by generated JavaScript
func WithJsRuntimeModule(module string) CompilerConfigurationOption {
	return func(c *CompilerConfiguration) {
		c.JsRuntimeModule = module
	}
}

// WithLiveReload enables the live reload mode
func WithLiveReload(enabled bool) CompilerConfigurationOption {
	return func(c *CompilerConfiguration) {
		c.LiveReload = enabled
	}
}

// WithDefaultTranslationLanguage sets the language of the source strings
func WithDefaultTranslationLanguage(tag language.Tag) CompilerConfigurationOption {
	return func(c *CompilerConfiguration) {
		c.DefaultTranslationLanguage = tag
	}
}

// Validate checks the values that cannot be checked by the type system
func (c *CompilerConfiguration) Validate() error {
	if c.ConstScaleFactor <= 0 {
		return fmt.Errorf("invalid scale factor %v: must be positive", c.ConstScaleFactor)
	}
	if !slices.Contains(KnownStyles, c.Style) {
		return fmt.Errorf("unknown style %q", c.Style)
	}
	if c.CppFiles < 0 {
		return fmt.Errorf("invalid number of C++ files %d", c.CppFiles)
	}
	return nil
}

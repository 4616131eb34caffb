package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"golang.org/x/text/language"
)

// FileConfig is the layout of a compiler configuration file
type FileConfig struct {
	ScaleFactor         *float64 `toml:"scale_factor"`
	Style               string   `toml:"style"`
	TranslationBundling *bool    `toml:"translation_bundling"`
	DefaultLanguage     string   `toml:"default_language"`
	DebugInfo           *bool    `toml:"debug_info"`
	Cpp                 struct {
		Namespace string `toml:"namespace"`
		Files     int    `toml:"files"`
	} `toml:"cpp"`
	Js struct {
		RuntimeModule string `toml:"runtime_module"`
	} `toml:"js"`
}

// ParseConfigFile reads and parses a TOML configuration file
func ParseConfigFile(path string) (*FileConfig, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config FileConfig
	if _, err := toml.Decode(string(data), &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}

// Options converts the file settings to configuration options. Unset keys keep the defaults.
func (f *FileConfig) Options() ([]CompilerConfigurationOption, error) {
	var opts []CompilerConfigurationOption
	if f.ScaleFactor != nil {
		opts = append(opts, WithConstScaleFactor(*f.ScaleFactor))
	}
	if f.Style != "" {
		opts = append(opts, WithStyle(f.Style))
	}
	if f.TranslationBundling != nil {
		opts = append(opts, WithTranslationBundling(*f.TranslationBundling))
	}
	if f.DefaultLanguage != "" {
		tag, err := language.Parse(f.DefaultLanguage)
		if err != nil {
			return nil, fmt.Errorf("invalid default_language %q: %w", f.DefaultLanguage, err)
		}
		opts = append(opts, WithDefaultTranslationLanguage(tag))
	}
	if f.DebugInfo != nil {
		opts = append(opts, WithDebugInfo(*f.DebugInfo))
	}
	if f.Cpp.Namespace != "" {
		opts = append(opts, WithCppNamespace(f.Cpp.Namespace))
	}
	if f.Cpp.Files != 0 {
		opts = append(opts, WithCppFiles(f.Cpp.Files))
	}
	if f.Js.RuntimeModule != "" {
		opts = append(opts, WithJsRuntimeModule(f.Js.RuntimeModule))
	}
	return opts, nil
}

// LoadFile builds a configuration from a file, then applies the environment overrides
func LoadFile(path string, extra ...CompilerConfigurationOption) (*CompilerConfiguration, error) {
	file, err := ParseConfigFile(path)
	if err != nil {
		return nil, err
	}
	opts, err := file.Options()
	if err != nil {
		return nil, err
	}
	config := NewCompilerConfiguration(append(opts, extra...)...)
	FromEnvironment(config)
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return config, nil
}

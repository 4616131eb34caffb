package config

import (
	"github.com/xyproto/env/v2"
)

// Environment variables read by FromEnvironment
const (
	EnvScaleFactor = "SLINT_SCALE_FACTOR"
	EnvStyle       = "SLINT_STYLE"
	EnvLiveReload  = "SLINT_LIVE_RELOAD"
	EnvDebugInfo   = "SLINT_DEBUG_INFO"
)

// env caches the process environment on first use; overrides set later (tests, embedding
// programs calling os.Setenv) must still be seen
func init() {
	env.Unload()
}

// FromEnvironment applies the environment overrides to config
func FromEnvironment(config *CompilerConfiguration) *CompilerConfiguration {
	if env.Has(EnvScaleFactor) {
		config.ConstScaleFactor = env.Float64(EnvScaleFactor, config.ConstScaleFactor)
	}
	config.Style = env.Str(EnvStyle, config.Style)
	if env.Has(EnvLiveReload) {
		config.LiveReload = env.Bool(EnvLiveReload)
	}
	if env.Has(EnvDebugInfo) {
		config.DebugInfo = env.Bool(EnvDebugInfo)
	}
	return config
}

// LiveReloadRequested reports whether the live reload switch is set
func LiveReloadRequested() bool {
	return env.Bool(EnvLiveReload)
}

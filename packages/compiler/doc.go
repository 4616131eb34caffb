// Package compiler turns the lowered representation (LLR) of a UI component tree into code,
// or runs it directly.
//
// The input is a compilation unit: public components, their sub-components, globals, the
// item trees, translations and embedded resources. It is produced by the front end of the
// language compiler, or read from a YAML document by llrdoc.
//
// Main sub-packages:
//
//   - core: Generator version and the names of the output targets
//   - src/langtype: The type system shared by all stages (primitives, structs, enums, callbacks)
//   - src/llr: The lowered representation and the evaluation context used to walk it
//   - src/llrdoc: YAML reader for compilation units
//   - src/config: Compiler configuration, from TOML files and the environment
//   - src/output: Declarations and line printer shared by the code generators
//   - src/generator: Target-independent driver and member access resolution
//   - src/generator/cpp: C++ header (and optional split definition files)
//   - src/generator/js: ES module
//   - src/runtime: Reactive properties, timers, models, layout and translations
//   - src/interpreter: Instantiates components of a unit without generating code
//
// Typical use:
//
//	unit, err := llrdoc.LoadFile("app.yaml")
//	files, err := generator.Generate(cpp.New(), unit, cfg, generator.Options{BaseName: "app"})
//
// The cmd/slintc-go command wraps these steps.
package compiler

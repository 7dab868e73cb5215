// Package config loads and watches the calculator settings file.
//
// Load(path) reads the YAML file, applies the calculator defaults (","
// delimiter, 1000 max value, 1 worker, empty tokens tolerated), then
// validates. Config.Options converts the result for calculator.New.
//
// Watch(ctx, path, onChange) uses fsnotify to detect file changes and calls
// onChange with the newly parsed Config. A file that fails to parse is
// logged and skipped, so callers keep their previous Calculator.
package config

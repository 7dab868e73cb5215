package config

import (
	"context"
	"log/slog"

	"github.com/fsnotify/fsnotify"

	"github.com/strcalc/strcalc/pkg/calculator"
)

// Watch monitors path and calls onChange with the newly loaded Config each
// time the file is written or recreated. It runs until ctx is cancelled.
//
// A file that fails to load is logged and skipped; onChange is not called,
// so the caller keeps whatever it built from the previous version.
func Watch(ctx context.Context, path string, onChange func(*Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return err
	}

	slog.Info("config: watching for changes", "path", path)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// Atomic saves (vim, VS Code) arrive as a create.
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if reload(path, onChange) {
				// The save may have replaced the inode.
				_ = watcher.Add(path)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("config: watcher error", "err", err)
		}
	}
}

// WatchCalculator is Watch for callers that want a Calculator rebuilt when
// the file's rules change. opts are applied before the file's rules, so a
// logger or observer survives reloads. Saves that leave the rules as they
// were (including a read that catches the file mid-write as defaults equal
// to the current rules) do not call apply.
func WatchCalculator(ctx context.Context, path string, apply func(*calculator.Calculator), opts ...calculator.Option) error {
	var current calculator.Options
	if cfg, err := Load(path); err == nil {
		current = cfg.Options()
	}
	return Watch(ctx, path, rebuildOnChange(current, apply, opts))
}

// rebuildOnChange returns a Watch callback that builds a Calculator only when
// the reloaded options differ from the ones last applied.
func rebuildOnChange(current calculator.Options, apply func(*calculator.Calculator), opts []calculator.Option) func(*Config) {
	return func(cfg *Config) {
		next := cfg.Options()
		if next == current {
			slog.Debug("config: calculator options unchanged")
			return
		}
		slog.Info("config: calculator options changed",
			"default_delimiter", next.DefaultDelimiter,
			"previous_default_delimiter", current.DefaultDelimiter,
			"max_value", next.MaxValue,
			"previous_max_value", current.MaxValue,
			"workers", next.Workers,
			"previous_workers", current.Workers,
			"reject_empty_tokens", next.RejectEmptyTokens,
			"previous_reject_empty_tokens", current.RejectEmptyTokens,
		)
		current = next

		all := make([]calculator.Option, 0, len(opts)+1)
		all = append(all, opts...)
		all = append(all, calculator.WithOptions(next))
		apply(calculator.New(all...))
	}
}

func reload(path string, onChange func(*Config)) bool {
	cfg, err := Load(path)
	if err != nil {
		slog.Error("config: reload failed, keeping previous config",
			"path", path, "err", err)
		return false
	}
	slog.Info("config: reloaded", "path", path)
	onChange(cfg)
	return true
}

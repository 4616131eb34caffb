package main

import (
	"context"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"
)

// editors often write a file in several steps
const debounce = 100 * time.Millisecond

// watch compiles once, then again whenever the input or the configuration file changes.
// It returns when ctx is done.
func watch(ctx context.Context, o *compileOptions, out *printer) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	var files []string
	for _, f := range append([]string{o.input, o.configPath}, o.catalogs...) {
		if f == "" {
			continue
		}
		abs, err := filepath.Abs(f)
		if err != nil {
			return err
		}
		files = append(files, abs)
		// watch the directory so that replaced files are still seen
		dir := filepath.Dir(abs)
		if !slices.Contains(w.WatchList(), dir) {
			if err := w.Add(dir); err != nil {
				return err
			}
		}
	}

	rebuild := func() {
		if err := compile(o, out); err != nil {
			out.step("❌", "compile error: %v", err)
		}
	}
	rebuild()
	out.step("👀", "Watching %s (Ctrl+C to stop)", o.input)

	fire := make(chan struct{}, 1)
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !slices.Contains(files, filepath.Clean(ev.Name)) || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.AfterFunc(debounce, func() {
					select {
					case fire <- struct{}{}:
					default:
					}
				})
			} else {
				timer.Reset(debounce)
			}
		case <-fire:
			rebuild()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			out.step("⚠️", "watch error: %v", err)
		}
	}
}

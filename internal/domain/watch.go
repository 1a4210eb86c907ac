package domain

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	m "github.com/mouse-blink/unrotate/internal/model"
)

// watchSettle is how long a file must stay quiet before it is processed again.
// Bundlers usually write their output in several chunks.
const watchSettle = 200 * time.Millisecond

// watchScope is the set of scripts a watch reacts to: explicit file roots plus
// every script inside a watched directory.
type watchScope struct {
	files   map[string]struct{}
	dirs    map[string]struct{}
	suffix  string
	output  string
	exclude excludeFilter
}

// Watch deobfuscates the inputs once and then again every time one of them
// changes, until ctx is done. A failing file is logged and does not stop the
// watch. The UI is expected to be a line-oriented one.
func (w *workflow) Watch(ctx context.Context, args DeobfuscateArgs) error {
	args = withDefaults(args)

	if args.Output != "" && len(args.Paths) != 1 {
		return ErrOutputNeedsSingleInput
	}

	exclude, err := compileExcludes(args.Exclude)
	if err != nil {
		return err
	}

	paths, err := w.collect(args, exclude)
	if err != nil {
		return err
	}

	scope, err := w.newWatchScope(args, paths, exclude)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	for _, dir := range scope.watchDirs() {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	for _, path := range paths {
		w.rerun(ctx, path, args)
	}

	w.logger.WithField("scripts", len(paths)).Info("watching for changes")

	pending := make(map[string]time.Time)

	ticker := time.NewTicker(watchSettle / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if !scope.matches(event) {
				continue
			}

			w.logger.Debugf("event: %s", event.String())
			pending[event.Name] = time.Now()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			w.logger.WithError(err).Error("watch error")
		case now := <-ticker.C:
			for name, seen := range pending {
				if now.Sub(seen) < watchSettle {
					continue
				}

				delete(pending, name)
				w.rerun(ctx, m.Path(name), args)
			}
		}
	}
}

func (w *workflow) newWatchScope(args DeobfuscateArgs, paths []m.Path, exclude excludeFilter) (*watchScope, error) {
	scope := &watchScope{
		files:   make(map[string]struct{}),
		dirs:    make(map[string]struct{}),
		suffix:  args.Suffix,
		exclude: exclude,
	}

	if args.Output != "" {
		out, err := filepath.Abs(string(args.Output))
		if err != nil {
			return nil, err
		}

		scope.output = out
	}

	for _, root := range args.Paths {
		dir := strings.TrimSuffix(string(root), "/...")
		if dir == "" {
			dir = "."
		}

		info, err := w.fsAdapter.FileInfo(m.Path(dir))
		if err != nil {
			return nil, fmt.Errorf("root path error: %w", err)
		}

		abs, err := filepath.Abs(dir)
		if err != nil {
			return nil, err
		}

		if info.IsDir() {
			scope.dirs[abs] = struct{}{}
		} else {
			scope.files[abs] = struct{}{}
		}
	}

	// Subdirectories of recursive roots that hold scripts.
	for _, path := range paths {
		if _, ok := scope.files[string(path)]; ok {
			continue
		}

		scope.dirs[filepath.Dir(string(path))] = struct{}{}
	}

	return scope, nil
}

// watchDirs lists the directories to subscribe to. Single files are watched
// through their directory so editors that replace files are still seen.
func (s *watchScope) watchDirs() []string {
	seen := make(map[string]struct{}, len(s.dirs)+len(s.files))
	dirs := make([]string, 0, len(seen))

	add := func(dir string) {
		if _, ok := seen[dir]; ok {
			return
		}

		seen[dir] = struct{}{}
		dirs = append(dirs, dir)
	}

	for dir := range s.dirs {
		add(dir)
	}

	for file := range s.files {
		add(filepath.Dir(file))
	}

	return dirs
}

// matches reports whether event is a write to an input script. Outputs are
// ignored so a run never triggers itself.
func (s *watchScope) matches(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return false
	}

	if strings.HasSuffix(event.Name, s.suffix) || event.Name == s.output || s.exclude.excludes(event.Name) {
		return false
	}

	if _, ok := s.files[event.Name]; ok {
		return true
	}

	if _, ok := s.dirs[filepath.Dir(event.Name)]; !ok {
		return false
	}

	switch strings.ToLower(filepath.Ext(event.Name)) {
	case ".js", ".mjs", ".cjs":
		return true
	default:
		return false
	}
}

func (w *workflow) rerun(ctx context.Context, path m.Path, args DeobfuscateArgs) {
	report := w.processFile(ctx, path, args)
	if report.Failed() {
		w.logger.WithField("file", path).WithError(report.Err).Error("deobfuscation failed")

		return
	}

	w.ui.DisplayCompletedFile(report)
}

// Package adapter contains the filesystem and formatting adapters for the unrotate CLI.
package adapter

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	m "github.com/mouse-blink/unrotate/internal/model"
)

// scriptExtensions are the file extensions collected from directory roots.
var scriptExtensions = map[string]struct{}{
	".js":  {},
	".mjs": {},
	".cjs": {},
}

// SourceFSAdapter abstracts filesystem-specific operations that the domain layer
// relies on when collecting and rewriting scripts. It hides direct `os` access
// so the workflow logic can be tested without touching the disk.
type SourceFSAdapter interface {
	// Get collects script files under the provided roots. A root ending in
	// "/..." is walked recursively. Files whose name ends in skipSuffix are
	// previous outputs and are left out.
	Get(roots []m.Path, skipSuffix string) ([]m.Path, error)

	// Walk traverses the provided root path. When recursive is false the
	// implementation should limit itself to the root directory (no sub-dirs).
	Walk(root m.Path, recursive bool, fn FilepathWalkFunc) error

	// ReadFile loads a script and decodes it to UTF-8. Invalid byte sequences
	// become U+FFFD instead of failing the read.
	ReadFile(path m.Path) (m.Source, error)

	// FileInfo returns metadata for a path.
	FileInfo(path m.Path) (os.FileInfo, error)

	// WriteFile replaces path with content. Readers never observe a partially
	// written file.
	WriteFile(path m.Path, content []byte, perm os.FileMode) error

	// OutputPath names the readable output for source: the extension is
	// replaced by suffix.
	OutputPath(source m.Path, suffix string) m.Path
}

// FilepathWalkFunc mirrors the callback shape used by filepath.Walk.
type FilepathWalkFunc func(path string, info os.FileInfo, err error) error

// LocalSourceFSAdapter is the os-backed SourceFSAdapter.
type LocalSourceFSAdapter struct{}

// NewLocalSourceFSAdapter constructs a LocalSourceFSAdapter instance ready to
// be wired into the workflow.
func NewLocalSourceFSAdapter() *LocalSourceFSAdapter {
	return &LocalSourceFSAdapter{}
}

// Get collects script paths for the provided roots. Explicit file roots are
// kept whatever their extension; directory roots only yield script files.
func (a *LocalSourceFSAdapter) Get(roots []m.Path, skipSuffix string) ([]m.Path, error) {
	if len(roots) == 0 {
		return []m.Path{}, nil
	}

	seen := make(map[string]struct{})

	var paths []m.Path

	add := func(path string) {
		if _, exists := seen[path]; exists {
			return
		}

		seen[path] = struct{}{}
		paths = append(paths, m.Path(path))
	}

	for _, root := range roots {
		rootPath, recursive, err := normalizeRootPath(string(root))
		if err != nil {
			return nil, err
		}

		info, err := a.FileInfo(m.Path(rootPath))
		if err != nil {
			return nil, fmt.Errorf("root path error: %w", err)
		}

		if !info.IsDir() {
			add(rootPath)

			continue
		}

		err = a.Walk(m.Path(rootPath), recursive, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			if info.IsDir() || !isScript(path, skipSuffix) {
				return nil
			}

			add(path)

			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return paths, nil
}

// Walk iterates over files under root, optionally descending into subdirectories.
func (a *LocalSourceFSAdapter) Walk(root m.Path, recursive bool, fn FilepathWalkFunc) error {
	rootStr := string(root)

	return filepath.Walk(rootStr, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return fn(path, info, err)
		}

		if info.IsDir() && path != rootStr {
			if !recursive || info.Name() == "node_modules" || info.Name() == ".git" {
				return filepath.SkipDir
			}
		}

		return fn(path, info, nil)
	})
}

// ReadFile loads and decodes file contents. A UTF-8 or UTF-16 byte order mark
// selects the encoding; anything else is read as UTF-8.
func (a *LocalSourceFSAdapter) ReadFile(path m.Path) (m.Source, error) {
	raw, err := os.ReadFile(string(path))
	if err != nil {
		return m.Source{}, err
	}

	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())

	text, _, err := transform.Bytes(decoder, raw)
	if err != nil {
		return m.Source{}, fmt.Errorf("decode %s: %w", path, err)
	}

	return m.Source{Origin: path, Text: string(text), Size: int64(len(raw))}, nil
}

// FileInfo returns os.FileInfo metadata for the given path.
func (a *LocalSourceFSAdapter) FileInfo(path m.Path) (os.FileInfo, error) {
	return os.Stat(string(path))
}

// WriteFile writes content to a temporary sibling and renames it over path.
func (a *LocalSourceFSAdapter) WriteFile(path m.Path, content []byte, perm os.FileMode) error {
	target := string(path)

	tmp, err := os.CreateTemp(filepath.Dir(target), "."+filepath.Base(target)+".*.tmp")
	if err != nil {
		return err
	}

	cleanup := func() { _ = os.Remove(tmp.Name()) }

	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()

		cleanup()

		return err
	}

	if err := tmp.Close(); err != nil {
		cleanup()

		return err
	}

	if err := os.Chmod(tmp.Name(), perm); err != nil {
		cleanup()

		return err
	}

	if err := os.Rename(tmp.Name(), target); err != nil {
		cleanup()

		return err
	}

	return nil
}

// OutputPath replaces the extension of source with suffix.
func (a *LocalSourceFSAdapter) OutputPath(source m.Path, suffix string) m.Path {
	src := string(source)

	return m.Path(strings.TrimSuffix(src, filepath.Ext(src)) + suffix)
}

func isScript(path, skipSuffix string) bool {
	if skipSuffix != "" && strings.HasSuffix(path, skipSuffix) {
		return false
	}

	_, ok := scriptExtensions[strings.ToLower(filepath.Ext(path))]

	return ok
}

func normalizeRootPath(root string) (string, bool, error) {
	rootStr, recursive := parseRootPath(root)

	if strings.HasPrefix(rootStr, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", false, err
		}

		suffix := strings.TrimPrefix(rootStr, "~")
		suffix = strings.TrimPrefix(suffix, string(os.PathSeparator))
		rootStr = filepath.Join(home, suffix)
	}

	if rootStr == "" {
		rootStr = "."
	}

	abs, err := filepath.Abs(rootStr)
	if err != nil {
		return "", false, err
	}

	return abs, recursive, nil
}

func parseRootPath(rootStr string) (path string, recursive bool) {
	if len(rootStr) >= 4 && rootStr[len(rootStr)-4:] == "/..." {
		return rootStr[:len(rootStr)-4], true
	}

	return rootStr, false
}

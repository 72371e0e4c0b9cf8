// Package fsbrowse lists directories for picking a database file.
package fsbrowse

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// ParentName is the name of the synthetic entry that leads one level up.
const ParentName = ".."

// Entry is one line of a directory listing.
type Entry struct {
	Name  string
	Path  string
	IsDir bool
	Size  int64
}

// Lister lists directories, keeping only files whose extension is in
// Extensions. An empty Extensions keeps every file.
type Lister struct {
	Extensions []string
	ShowHidden bool
}

// List returns the entries of dir: the parent link (unless dir is the
// root), then directories, then matching files, each group sorted by name.
func (l Lister) List(dir string) (string, []Entry, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return dir, nil, fmt.Errorf("resolve %s: %w", dir, err)
	}

	entries, err := os.ReadDir(abs)
	if err != nil {
		return abs, nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var dirs, files []Entry
	for _, de := range entries {
		name := de.Name()
		if !l.ShowHidden && strings.HasPrefix(name, ".") {
			continue
		}
		path := filepath.Join(abs, name)

		isDir := de.IsDir()
		if de.Type()&os.ModeSymlink != 0 {
			// Follow links so linked directories stay navigable.
			info, err := os.Stat(path)
			if err != nil {
				continue
			}
			isDir = info.IsDir()
		}

		if isDir {
			dirs = append(dirs, Entry{Name: name, Path: path, IsDir: true})
			continue
		}
		if !l.matches(name) {
			continue
		}
		var size int64
		if info, err := de.Info(); err == nil {
			size = info.Size()
		}
		files = append(files, Entry{Name: name, Path: path, Size: size})
	}

	byName := func(a, b Entry) int { return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)) }
	slices.SortFunc(dirs, byName)
	slices.SortFunc(files, byName)

	out := make([]Entry, 0, len(dirs)+len(files)+1)
	if parent := filepath.Dir(abs); parent != abs {
		out = append(out, Entry{Name: ParentName, Path: parent, IsDir: true})
	}
	out = append(out, dirs...)
	out = append(out, files...)
	return abs, out, nil
}

func (l Lister) matches(name string) bool {
	if len(l.Extensions) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(name))
	for _, want := range l.Extensions {
		if strings.EqualFold(ext, want) {
			return true
		}
	}
	return false
}

// Parent returns the directory above dir; the root is its own parent.
func Parent(dir string) string {
	return filepath.Dir(filepath.Clean(dir))
}

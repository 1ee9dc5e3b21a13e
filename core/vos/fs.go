package vos

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

// VFS implements a virtual filesystem.
type VFS = afero.Fs

// NewHostFs returns the filesystem of the running process. Relative names
// resolve against the process working directory.
func NewHostFs() VFS {
	return afero.NewOsFs()
}

// CompletePath lists the entries of vfs that start with prefix. Directories
// are returned with a trailing separator.
func CompletePath(vfs VFS, prefix string) []string {
	dir, base := filepath.Split(prefix)
	readDir := dir
	if readDir == "" {
		readDir = "."
	}

	entries, err := afero.ReadDir(vfs, readDir)
	if err != nil {
		return nil
	}

	var out []string
	for _, e := range entries {
		name := e.Name()
		if !strings.HasPrefix(name, base) {
			continue
		}
		// Hidden files only when asked for.
		if strings.HasPrefix(name, ".") && !strings.HasPrefix(base, ".") {
			continue
		}
		if e.IsDir() {
			name += string(filepath.Separator)
		}
		out = append(out, dir+name)
	}
	sort.Strings(out)
	return out
}

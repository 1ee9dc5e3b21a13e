package vos

import (
	"errors"
	"io/fs"
	"os/exec"
	"path/filepath"
	"strings"
)

// ErrNotFound is the error resulting if a path search failed to find an executable file.
var ErrNotFound = exec.ErrNotFound

type statEnv interface {
	VEnv
	Stat(name string) (fs.FileInfo, error)
}

func findExecutable(vos statEnv, file string) error {
	d, err := vos.Stat(file)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return ErrNotFound
	case err != nil:
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0111 != 0 {
		return nil
	}
	return fs.ErrPermission
}

// LookPath searches for an executable named file in the directories named by
// the PATH environment variable of vos. If file contains a slash, it is tried
// directly and the PATH is not consulted. The result may be an absolute path
// or a path relative to the current directory.
//
// Failures are reported as *exec.Error so callers print them the same way
// os/exec would.
func LookPath(vos VOS, file string) (string, error) {
	if strings.Contains(file, "/") {
		err := findExecutable(vos, file)
		if err == nil {
			return file, nil
		}
		return "", &exec.Error{Name: file, Err: err}
	}
	path := vos.Getenv(EnvPath)
	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		path := filepath.Join(dir, file)
		if err := findExecutable(vos, path); err == nil {
			return path, nil
		}
	}
	return "", &exec.Error{Name: file, Err: ErrNotFound}
}

// ExecutablesWithPrefix lists the executables on PATH whose name starts with
// prefix, without duplicates.
func ExecutablesWithPrefix(vos VOS, prefix string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, dir := range filepath.SplitList(vos.Getenv(EnvPath)) {
		if dir == "" {
			dir = "."
		}
		for _, candidate := range CompletePath(vos, dir+string(filepath.Separator)+prefix) {
			name := filepath.Base(candidate)
			if seen[name] || strings.HasSuffix(candidate, string(filepath.Separator)) {
				continue
			}
			if findExecutable(vos, candidate) != nil {
				continue
			}
			seen[name] = true
			out = append(out, name)
		}
	}
	return out
}

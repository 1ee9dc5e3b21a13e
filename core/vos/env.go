package vos

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
)

// VEnv represents a virtual environment.
type VEnv interface {
	// UserHomeDir returns the current user's home directory, the empty string
	// if it isn't set.
	UserHomeDir() string

	// Setenv sets the value of the environment variable named by the key.
	// It returns an error, if any.
	Setenv(key, value string) error

	// LookupEnv retrieves the value of the environment variable named by the key.
	// If the variable is present in the environment the value (which may be
	// empty) is returned and the boolean is true. Otherwise the returned value
	// will be empty and the boolean will be false.
	LookupEnv(key string) (string, bool)

	// Getenv retrieves the value of the environment variable named by the key.
	// It returns the value, which will be empty if the variable is not present.
	// To distinguish between an empty value and an unset value, use LookupEnv.
	Getenv(key string) string

	// Environ returns a copy of strings representing the environment, in the
	// form "key=value".
	Environ() []string
}

// CopyEnv copies all the environment variables in the "key=value" list src
// to dst.
func CopyEnv(dst VEnv, src []string) error {
	for _, e := range src {
		key, value, _ := strings.Cut(e, "=")
		if err := dst.Setenv(key, value); err != nil {
			return err
		}
	}

	return nil
}

// NewMapEnv creates a new environment backed by a map.
func NewMapEnv() *MapEnv {
	return &MapEnv{}
}

// NewMapEnvFromEnvList creates a new environment holding a copy of the
// "key=value" list.
func NewMapEnvFromEnvList(environ []string) *MapEnv {
	out := &MapEnv{}
	// Ignore error, it will never be set for MapEnv.
	_ = CopyEnv(out, environ)
	return out
}

// MapEnv implemnts an in-memory VEnv.
type MapEnv struct {
	rw  sync.RWMutex
	env map[string]string
}

var _ VEnv = (*MapEnv)(nil)

// UserHomeDir implements VEnv.UserHomeDir.
func (m *MapEnv) UserHomeDir() string {
	return m.Getenv(EnvHome)
}

// Setenv implements VEnv.Setenv.
func (m *MapEnv) Setenv(key, value string) error {
	m.rw.Lock()
	defer m.rw.Unlock()

	if m.env == nil {
		m.env = make(map[string]string)
	}
	m.env[key] = value
	return nil
}

// LookupEnv implements VEnv.LookupEnv.
func (m *MapEnv) LookupEnv(key string) (string, bool) {
	m.rw.RLock()
	defer m.rw.RUnlock()

	val, ok := m.env[key]
	return val, ok
}

// Getenv implements VEnv.Getenv.
func (m *MapEnv) Getenv(key string) string {
	val, _ := m.LookupEnv(key)
	return val
}

// Environ implements VEnv.Environ, entries are sorted by key.
func (m *MapEnv) Environ() []string {
	m.rw.RLock()
	defer m.rw.RUnlock()

	var env []string
	for k, v := range m.env {
		env = append(env, fmt.Sprintf("%s=%s", k, v))
	}
	sort.Strings(env)

	return env
}

// OSEnv is the environment of the running process.
type OSEnv struct{}

var _ VEnv = OSEnv{}

// UserHomeDir implements VEnv.UserHomeDir.
//
// Unlike os.UserHomeDir this never falls back to a platform default, an
// unset HOME yields "".
func (OSEnv) UserHomeDir() string {
	return os.Getenv(EnvHome)
}

// Setenv implements VEnv.Setenv.
func (OSEnv) Setenv(key, value string) error {
	return os.Setenv(key, value)
}

// LookupEnv implements VEnv.LookupEnv.
func (OSEnv) LookupEnv(key string) (string, bool) {
	return os.LookupEnv(key)
}

// Getenv implements VEnv.Getenv.
func (OSEnv) Getenv(key string) string {
	return os.Getenv(key)
}

// Environ implements VEnv.Environ.
func (OSEnv) Environ() []string {
	return os.Environ()
}

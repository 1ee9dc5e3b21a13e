// Package vostest provides a VOS for tests that captures output and keeps
// the environment out of the test binary's own.
package vostest

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/josephlewis42/myssh/core/vos"
)

// TestOS is a host-backed VOS with a private environment. Whatever is
// written to Stdout() and Stderr() lands in Out and Err.
type TestOS struct {
	vos.VOS

	Env *vos.MapEnv
	Out *bytes.Buffer
	Err *bytes.Buffer

	stdin io.Reader
}

var _ vos.VOS = (*TestOS)(nil)

// NewTestOS creates a TestOS rooted in a fresh temporary directory which is
// also HOME. The working directory is restored when the test ends.
//
// Tests using it change the process working directory so they must not be
// run in parallel.
func NewTestOS(t testing.TB, stdin io.Reader) *TestOS {
	t.Helper()

	home, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	env := vos.NewMapEnvFromEnvList([]string{
		vos.EnvHome + "=" + home,
		vos.EnvPath + "=" + os.Getenv(vos.EnvPath),
		vos.EnvUser + "=tester",
	})

	out := &TestOS{
		Env:    env,
		Out:   &bytes.Buffer{},
		Err:   &bytes.Buffer{},
		stdin:  stdin,
	}
	out.rewire()

	Chdir(t, home)
	return out
}

// CombineOutput sends standard error to the Out buffer. It must be
// called before the TestOS is handed out.
func (o *TestOS) CombineOutput() *TestOS {
	o.Err = o.Out
	o.rewire()
	return o
}

func (o *TestOS) rewire() {
	o.VOS = &fixedHost{
		VOS: vos.NewHostOS(o.Env, vos.NewVIOAdapter(o.stdin, o.Out, o.Err)),
	}
}

// Chdir changes the process working directory for the rest of the test.
func Chdir(t testing.TB, dir string) {
	t.Helper()

	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		os.Chdir(old)
	})
}

// fixedHost pins the identity shown in prompts so output doesn't depend on
// the machine running the tests.
type fixedHost struct {
	vos.VOS
}

func (*fixedHost) Hostname() (string, error) {
	return "testhost", nil
}

func (*fixedHost) Geteuid() int {
	return 1000
}

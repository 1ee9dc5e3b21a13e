// Package vos abstracts the process-wide state the interpreter reads and
// writes: environment, standard streams, working directory and host name.
package vos

import "os"

const (
	EnvHome = "HOME"
	EnvPath = "PATH"
	EnvUser = "USER"
)

// VOS provides a virtual OS interface.
type VOS interface {
	VFS
	VEnv
	VIO

	// Getwd returns the working directory of the process.
	Getwd() (string, error)
	// Chdir changes the working directory of the process.
	Chdir(dir string) error
	// Hostname returns the host name reported by the kernel.
	Hostname() (string, error)
	// Geteuid returns the effective user id of the process.
	Geteuid() int
}

// NewHostOS creates a VOS backed by the running process, using env for the
// environment and vio for the standard streams.
func NewHostOS(env VEnv, vio VIO) VOS {
	return &hostOS{VFS: NewHostFs(), VEnv: env, VIO: vio}
}

type hostOS struct {
	VFS
	VEnv
	VIO
}

var _ VOS = (*hostOS)(nil)

func (*hostOS) Getwd() (string, error) {
	return os.Getwd()
}

func (*hostOS) Chdir(dir string) error {
	return os.Chdir(dir)
}

func (*hostOS) Hostname() (string, error) {
	return os.Hostname()
}

func (*hostOS) Geteuid() int {
	return os.Geteuid()
}

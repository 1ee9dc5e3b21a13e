package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"syscall"

	"github.com/josephlewis42/myssh/core/logger"
	"github.com/josephlewis42/myssh/core/shell"
	"github.com/josephlewis42/myssh/core/vos"
	"github.com/spf13/afero"
)

// StatusLaunchFailed is recorded for a child whose program could not be
// started.
const StatusLaunchFailed = 2

const (
	flagRedirectIn     = os.O_RDONLY
	flagRedirectOut    = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	flagRedirectAppend = os.O_WRONLY | os.O_APPEND
)

// Launcher starts external programs on behalf of the interpreter and waits
// for them.
type Launcher struct {
	VirtualOS vos.VOS
	// Name prefixes warnings written to stderr.
	Name string
	// RedirectMode is the permission used for files created by ">".
	RedirectMode fs.FileMode
	Events       logger.Recorder
}

// Result describes the children of one sub-command.
type Result struct {
	// Statuses holds the exit status of each child in launch order.
	Statuses []int
}

// Launch runs a classified sub-command that is not a built-in.
//
// A non-nil error means the sub-command could not be set up, e.g. a
// redirection target could not be opened. ErrInterrupted is returned if ctx
// ends before the children exit, they are then waited for in the background.
func (l *Launcher) Launch(ctx context.Context, sc shell.SubCommand) (*Result, error) {
	switch sc.Kind {
	case shell.Plain:
		return l.Plain(ctx, sc.Argv)
	case shell.Pipe:
		return l.Pipe(ctx, sc.Argv, sc.Right)
	case shell.InputRedirect:
		return l.RedirectIn(ctx, sc.Argv, sc.Path)
	case shell.OutputRedirect:
		return l.RedirectOut(ctx, sc.Argv, sc.Path, false)
	case shell.AppendRedirect:
		return l.RedirectOut(ctx, sc.Argv, sc.Path, true)
	default:
		return nil, fmt.Errorf("unknown sub-command kind %v", sc.Kind)
	}
}

// Plain runs argv with the interpreter's streams and waits for that child
// only.
func (l *Launcher) Plain(ctx context.Context, argv []string) (*Result, error) {
	c := l.start(argv, l.VirtualOS.Stdin(), l.VirtualOS.Stdout())
	return l.wait(ctx, []*child{c}, nil, false)
}

// Pipe connects the standard output of left to the standard input of right.
func (l *Launcher) Pipe(ctx context.Context, left, right []string) (*Result, error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("pipe: %w", err)
	}

	lc := l.start(left, l.VirtualOS.Stdin(), w)
	rc := l.start(right, r, l.VirtualOS.Stdout())

	// The children hold their own copies, the right side only sees EOF
	// once every write end is closed.
	r.Close()
	w.Close()

	return l.wait(ctx, []*child{lc, rc}, nil, true)
}

// RedirectIn runs argv reading standard input from path.
func (l *Launcher) RedirectIn(ctx context.Context, argv []string, path string) (*Result, error) {
	f, err := l.VirtualOS.OpenFile(path, flagRedirectIn, 0)
	if err != nil {
		return nil, l.launchFailure(argv, redirectError(path, err))
	}

	c := l.start(argv, f, l.VirtualOS.Stdout())
	return l.wait(ctx, []*child{c}, releaseAfterStart(f), true)
}

// RedirectOut runs argv writing standard output to path. The file is
// truncated or created, unless appending in which case it must already
// exist.
func (l *Launcher) RedirectOut(ctx context.Context, argv []string, path string, appendTo bool) (*Result, error) {
	flag := flagRedirectOut
	if appendTo {
		flag = flagRedirectAppend
	}
	f, err := l.VirtualOS.OpenFile(path, flag, l.RedirectMode)
	if err != nil {
		return nil, l.launchFailure(argv, redirectError(path, err))
	}

	c := l.start(argv, l.VirtualOS.Stdin(), f)
	return l.wait(ctx, []*child{c}, releaseAfterStart(f), true)
}

type child struct {
	argv []string
	cmd  *exec.Cmd
}

// start launches argv, a child that fails to start is returned without a
// command and is reported as having exited with StatusLaunchFailed.
func (l *Launcher) start(argv []string, stdin io.Reader, stdout io.Writer) *child {
	c := &child{argv: argv}

	path, err := vos.LookPath(l.VirtualOS, argv[0])
	if err == nil {
		cmd := &exec.Cmd{
			Path:   path,
			Args:   argv,
			Env:    l.VirtualOS.Environ(),
			Stdin:  stdin,
			Stdout: stdout,
			Stderr: l.VirtualOS.Stderr(),
		}
		if err = cmd.Start(); err == nil {
			c.cmd = cmd
			return c
		}
	}

	l.warnf("command failed to execute: %v", err)
	l.launchFailure(argv, err)
	return c
}

// wait collects the exit statuses of children. closeAfter is released once
// every child has exited. When reap is set, any other terminated children of
// the process are collected too.
func (l *Launcher) wait(ctx context.Context, children []*child, closeAfter io.Closer, reap bool) (*Result, error) {
	done := make(chan *Result, 1)

	go func() {
		res := &Result{}
		for _, c := range children {
			res.Statuses = append(res.Statuses, c.wait())
		}
		if closeAfter != nil {
			closeAfter.Close()
		}
		// Once interrupted, children belong to later iterations and must
		// not be reaped from under them.
		if reap && ctx.Err() == nil {
			reapAll(ctx)
		}
		done <- res
	}()

	select {
	case res := <-done:
		return res, nil
	case <-ctx.Done():
		return nil, ErrInterrupted
	}
}

func (c *child) wait() int {
	if c.cmd == nil {
		return StatusLaunchFailed
	}
	return exitStatus(c.cmd.Wait())
}

// exitStatus converts the result of exec.Cmd.Wait into a shell status,
// children killed by a signal report 128+signal.
func exitStatus(err error) int {
	if err == nil {
		return 0
	}

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return 1
	}
	if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return 128 + int(ws.Signal())
	}
	return exitErr.ExitCode()
}

func (l *Launcher) launchFailure(argv []string, err error) error {
	if l.Events != nil {
		l.Events.Record(&logger.LaunchFailure{Command: argv, Error: err.Error()})
	}
	return err
}

func (l *Launcher) warnf(format string, args ...interface{}) {
	fmt.Fprintf(l.VirtualOS.Stderr(), "%s: %s\n", l.Name, fmt.Sprintf(format, args...))
}

// releaseAfterStart closes f right away when the child received its own
// descriptor. Other files are copied by exec.Cmd and must stay open until the
// child exits, so they are returned for closing then.
func releaseAfterStart(f afero.File) io.Closer {
	if _, ok := f.(*os.File); ok {
		f.Close()
		return nil
	}
	return f
}

// redirectError reports an open failure as "PATH: REASON".
func redirectError(path string, err error) error {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		err = pathErr.Err
	}
	return fmt.Errorf("%s: %w", path, err)
}

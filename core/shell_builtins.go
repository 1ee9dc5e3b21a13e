package core

import (
	"errors"
	"io/fs"
	"sort"

	"github.com/josephlewis42/myssh/core/homepath"
)

const (
	// StatusTooManyArguments is the exit status of exit given more than one
	// argument.
	StatusTooManyArguments = 1
	// StatusUsage is the exit status for malformed input: a non-numeric exit
	// argument or too many sub-commands.
	StatusUsage = 2
)

// allBuiltins holds the fixed set of shell builtins.
var allBuiltins = make(map[string]ShellBuiltin)

type ShellBuiltin interface {
	Main(s *Shell, args []string) error
}

type ShellBuiltinFunc func(s *Shell, args []string) error

func (f ShellBuiltinFunc) Main(s *Shell, args []string) error {
	return f(s, args)
}

var _ ShellBuiltin = (ShellBuiltinFunc)(nil)

// LookupBuiltin resolves name to a builtin by exact match.
func LookupBuiltin(name string) (ShellBuiltin, bool) {
	b, ok := allBuiltins[name]
	return b, ok
}

// BuiltinNames lists the builtins in sorted order.
func BuiltinNames() []string {
	var names []string
	for k := range allBuiltins {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Help is a stub that only reports its absence.
func Help(s *Shell, args []string) error {
	s.warnf("help unavailable at the moment")
	return nil
}

// Exit terminates the shell with the status given as its only argument,
// reduced modulo 256.
func Exit(s *Shell, args []string) error {
	switch len(args) {
	case 1:
		return &ExitError{Code: 0}
	case 2:
		code, ok := parseExitStatus(args[1])
		if !ok {
			return &ExitError{Code: StatusUsage, Message: "exit: numeric argument required"}
		}
		return &ExitError{Code: code}
	default:
		return &ExitError{Code: StatusTooManyArguments, Message: "exit: too many arguments"}
	}
}

// parseExitStatus accepts only decimal digits. Values of any length are
// folded into 0-255 as they're read.
func parseExitStatus(arg string) (int, bool) {
	if arg == "" {
		return 0, false
	}

	code := 0
	for _, r := range arg {
		if r < '0' || r > '9' {
			return 0, false
		}
		code = (code*10 + int(r-'0')) % 256
	}
	return code, true
}

// Cd changes the working directory, with no argument to HOME.
func Cd(s *Shell, args []string) error {
	home := s.VirtualOS.UserHomeDir()

	var target string
	if len(args) < 2 {
		target = home
	} else {
		target = homepath.Expand(args[1], home)
	}

	if err := s.VirtualOS.Chdir(target); err != nil {
		var pathErr *fs.PathError
		if errors.As(err, &pathErr) {
			err = pathErr.Err
		}
		s.warnf("%v", err)
		return err
	}

	// Keep PWD in line for children, like other shells do.
	if _, ok := s.VirtualOS.LookupEnv(envPwd); ok {
		if wd, err := s.VirtualOS.Getwd(); err == nil {
			s.VirtualOS.Setenv(envPwd, wd)
		}
	}
	return nil
}

const envPwd = "PWD"

func init() {
	allBuiltins["help"] = ShellBuiltinFunc(Help)
	allBuiltins["exit"] = ShellBuiltinFunc(Exit)
	allBuiltins["cd"] = ShellBuiltinFunc(Cd)
}

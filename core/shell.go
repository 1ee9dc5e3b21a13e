package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/fatih/color"
	"github.com/josephlewis42/myssh/core/config"
	"github.com/josephlewis42/myssh/core/homepath"
	"github.com/josephlewis42/myssh/core/logger"
	"github.com/josephlewis42/myssh/core/shell"
	"github.com/josephlewis42/myssh/core/vos"
)

const (
	DefaultName   = "myssh"
	DefaultPrompt = `\u@\h:\w\$ `
)

// Shell is an interactive command interpreter.
type Shell struct {
	VirtualOS vos.VOS
	// Name prefixes diagnostics, usually the base name of argv[0].
	Name string

	Reader     LineReader
	Launcher   *Launcher
	Interrupts *Controller
	Events     logger.Recorder

	promptFormat string
	userColor    *color.Color
	hostColor    *color.Color
	cwdColor     *color.Color
}

// NewShell creates a shell on virtualOS. Reader must be set before calling
// Run.
func NewShell(virtualOS vos.VOS, name string, configuration *config.Configuration) *Shell {
	if name == "" {
		name = DefaultName
	}

	s := &Shell{
		VirtualOS:    virtualOS,
		Name:         name,
		Interrupts:   NewManualController(),
		Events:       logger.NopRecorder{},
		promptFormat: configuration.Prompt,
		userColor:    color.New(color.FgGreen, color.Bold),
		hostColor:    color.New(color.FgGreen, color.Bold),
		cwdColor:     color.New(color.FgBlue, color.Bold),
	}
	if s.promptFormat == "" {
		s.promptFormat = DefaultPrompt
	}

	for _, c := range []*color.Color{s.userColor, s.hostColor, s.cwdColor} {
		switch configuration.Color {
		case config.ColorAlways:
			c.EnableColor()
		case config.ColorNever:
			c.DisableColor()
		}
	}

	s.Launcher = &Launcher{
		VirtualOS:    virtualOS,
		Name:         name,
		RedirectMode: configuration.RedirectMode(),
		Events:       s,
	}

	return s
}

// Prompt renders the prompt format.
func (s *Shell) Prompt() string {
	user := s.VirtualOS.Getenv(vos.EnvUser)

	host, _ := s.VirtualOS.Hostname()
	if i := strings.Index(host, "."); i > 0 {
		host = host[:i]
	}

	cwd, _ := s.VirtualOS.Getwd()
	cwd = homepath.Condense(cwd, s.VirtualOS.UserHomeDir())

	sign := "$"
	if s.VirtualOS.Geteuid() == 0 {
		sign = "#"
	}

	return strings.NewReplacer(
		`\u`, s.userColor.Sprint(user),
		`\h`, s.hostColor.Sprint(host),
		`\w`, s.cwdColor.Sprint(cwd),
		`\$`, sign,
	).Replace(s.promptFormat)
}

// Run reads and executes lines until end of input or until a command asks
// the shell to exit, in which case an *ExitError is returned.
func (s *Shell) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		iterCtx := s.Interrupts.Ready(ctx)
		prompt := s.Prompt()
		s.Interrupts.Busy()

		line, err := s.Reader.ReadLine(iterCtx, prompt)
		switch {
		case errors.Is(err, io.EOF):
			fmt.Fprintln(s.VirtualOS.Stdout(), "exit")
			return nil

		case errors.Is(err, ErrInterrupted):
			s.interrupted(iterCtx, "")
			continue

		case err != nil:
			log.Printf("Error readline: %v", err)
			return err

		case strings.TrimSpace(line) == "":
			continue // empty line
		}

		if err := s.Reader.Record(line); err != nil {
			log.Printf("Error saving history: %v", err)
		}

		switch err := s.RunLine(iterCtx, line); {
		case errors.Is(err, ErrInterrupted):
			s.interrupted(iterCtx, line)
		case err != nil:
			return err
		}
	}
}

// RunCommandLine executes a single line outside of the read loop.
func (s *Shell) RunCommandLine(ctx context.Context, line string) error {
	iterCtx := s.Interrupts.Ready(ctx)
	s.Interrupts.Busy()

	err := s.RunLine(iterCtx, line)
	if errors.Is(err, ErrInterrupted) {
		s.interrupted(iterCtx, line)
		return &ExitError{Code: StatusInterrupted}
	}
	return err
}

// StatusInterrupted is the exit status of a one-shot command line that was
// interrupted.
const StatusInterrupted = 130

// RunLine splits line into sub-commands and runs them in order.
//
// Failures of individual sub-commands are reported as warnings and don't
// stop later ones. The returned error is either ErrInterrupted or an
// *ExitError.
func (s *Shell) RunLine(ctx context.Context, line string) error {
	subCommands, err := shell.SplitSubCommands(line)
	if err != nil {
		return s.fatal(&ExitError{Code: StatusUsage, Message: "too many sub commands"})
	}

	for _, raw := range subCommands {
		if ctx.Err() != nil {
			return ErrInterrupted
		}
		if err := s.runSubCommand(ctx, raw); err != nil {
			return err
		}
	}
	return nil
}

func (s *Shell) runSubCommand(ctx context.Context, raw string) error {
	sc, err := shell.Classify(raw)
	if err != nil {
		s.warnf("%v", err)
		return nil
	}

	// Only plain commands can be builtins, "cd x > y" runs an external cd.
	if sc.Kind == shell.Plain {
		if builtin, ok := LookupBuiltin(sc.Argv[0]); ok {
			return s.runBuiltin(builtin, sc.Argv)
		}
	}

	res, err := s.Launcher.Launch(ctx, sc)
	switch {
	case errors.Is(err, ErrInterrupted):
		return err
	case err != nil:
		s.warnf("%v", err)
		return nil
	}

	s.Record(&logger.RunCommand{
		Command:  shell.SplitArgs(sc.Raw),
		Kind:     sc.Kind.String(),
		Statuses: res.Statuses,
	})
	return nil
}

func (s *Shell) runBuiltin(builtin ShellBuiltin, argv []string) error {
	err := builtin.Main(s, argv)

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Message == "" {
			return exitErr
		}
		return s.fatal(exitErr)
	}

	event := &logger.Builtin{Command: argv}
	if err != nil {
		event.Error = err.Error()
	}
	s.Record(event)
	return nil
}

// fatal reports err and passes it through.
func (s *Shell) fatal(err *ExitError) error {
	if err.Message != "" {
		s.warnf("%s", err.Message)
	}
	s.Record(&logger.Fatal{Code: err.Code, Message: err.Message})
	return err
}

func (s *Shell) interrupted(ctx context.Context, line string) {
	// An interrupt from the terminal driver leaves the cursor after ^C.
	if ctx.Err() != nil {
		fmt.Fprintln(s.VirtualOS.Stdout())
	}
	s.Record(&logger.Interrupt{Command: line})
}

// Record implements logger.Recorder, failures are logged and otherwise
// ignored.
func (s *Shell) Record(event logger.LogType) error {
	if err := s.Events.Record(event); err != nil {
		log.Printf("Error recording event: %v", err)
	}
	return nil
}

func (s *Shell) warnf(format string, args ...interface{}) {
	fmt.Fprintf(s.VirtualOS.Stderr(), "%s: %s\n", s.Name, fmt.Sprintf(format, args...))
}

// Close releases the reader and stops listening for interrupts.
func (s *Shell) Close() error {
	s.Interrupts.Stop()
	if s.Reader != nil {
		return s.Reader.Close()
	}
	return nil
}

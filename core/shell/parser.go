// Package shell splits command lines into sub-commands and argument vectors.
//
// The grammar is deliberately small:
//
//	line        = sub-command { ";" sub-command }
//	sub-command = plain | left "|" right | cmd "<" path | cmd [arg] ">" path | cmd [arg] ">>" path
//
// There is no quoting, escaping, globbing or variable expansion. A token is any
// maximal run of characters other than space and tab.
package shell

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// MaxSubCommands is the largest number of sub-commands a line may hold.
	MaxSubCommands = 10
	// MaxArgs is the largest number of tokens kept in an argument vector.
	// Extra tokens are dropped silently.
	MaxArgs = 64

	separator = ";"

	opPipe   = "|"
	opInput  = "<"
	opAppend = ">>"
	opOutput = ">"
)

var (
	// ErrTooManySubCommands is returned when a line holds more than
	// MaxSubCommands sub-commands.
	ErrTooManySubCommands = errors.New("too many sub commands")
	// ErrMissingCommand is returned when an operator has no program on one of
	// its sides.
	ErrMissingCommand = errors.New("missing command")
	// ErrMissingTarget is returned when a redirection has no path.
	ErrMissingTarget = errors.New("missing redirection target")
)

// Kind identifies how a sub-command is executed.
type Kind int

const (
	Plain Kind = iota
	Pipe
	InputRedirect
	OutputRedirect
	AppendRedirect
)

var kindNames = map[Kind]string{
	Plain:          "plain",
	Pipe:           "pipe",
	InputRedirect:  "input_redirect",
	OutputRedirect: "output_redirect",
	AppendRedirect: "append_redirect",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// SubCommand is a classified sub-command.
type SubCommand struct {
	// Kind selects which of the remaining fields are populated.
	Kind Kind
	// Raw is the sub-command text as it appeared on the line.
	Raw string
	// Argv is the program and its arguments. For a Pipe it is the left-hand
	// stage.
	Argv []string
	// Right is the right-hand stage of a Pipe.
	Right []string
	// Path is the redirection target of InputRedirect, OutputRedirect and
	// AppendRedirect.
	Path string
}

// SplitSubCommands splits line on ";". Empty and blank segments are skipped,
// so an empty line yields no sub-commands.
func SplitSubCommands(line string) ([]string, error) {
	var out []string
	for _, segment := range strings.Split(line, separator) {
		if strings.TrimSpace(segment) == "" {
			continue
		}
		if len(out) == MaxSubCommands {
			return nil, ErrTooManySubCommands
		}
		out = append(out, segment)
	}
	return out, nil
}

func isBlank(r rune) bool {
	return r == ' ' || r == '\t'
}

// SplitArgs splits a sub-command into tokens on runs of spaces and tabs,
// keeping at most MaxArgs of them.
func SplitArgs(subCommand string) []string {
	args := strings.FieldsFunc(subCommand, isBlank)
	switch {
	case len(args) == 0:
		return nil
	case len(args) > MaxArgs:
		args = args[:MaxArgs]
	}
	return args
}

// firstToken returns the first token of s or the empty string.
func firstToken(s string) string {
	if args := SplitArgs(s); len(args) > 0 {
		return args[0]
	}
	return ""
}

// Classify scans a sub-command for "|", "<", ">>" and ">" in that order and
// parses it according to the first operator found. Only one operator per
// sub-command is honored.
func Classify(subCommand string) (SubCommand, error) {
	out := SubCommand{Raw: subCommand}

	switch {
	case strings.Contains(subCommand, opPipe):
		out.Kind = Pipe
		var stages [][]string
		for _, segment := range strings.Split(subCommand, opPipe) {
			if segment == "" {
				continue
			}
			stages = append(stages, SplitArgs(segment))
		}
		// Only two stages are supported, anything after the second is dropped.
		if len(stages) < 2 || len(stages[0]) == 0 || len(stages[1]) == 0 {
			return out, fmt.Errorf("%s: %w", opPipe, ErrMissingCommand)
		}
		out.Argv, out.Right = stages[0], stages[1]

	case strings.Contains(subCommand, opInput):
		out.Kind = InputRedirect
		before, after, _ := strings.Cut(subCommand, opInput)
		// Input redirection passes the program name alone.
		if program := firstToken(before); program != "" {
			out.Argv = []string{program}
		}
		out.Path = firstToken(after)

	case strings.Contains(subCommand, opAppend):
		out.Kind = AppendRedirect
		out.Argv, out.Path = splitOutputRedirect(subCommand, opAppend)

	case strings.Contains(subCommand, opOutput):
		out.Kind = OutputRedirect
		out.Argv, out.Path = splitOutputRedirect(subCommand, opOutput)

	default:
		out.Kind = Plain
		out.Argv = SplitArgs(subCommand)
		return out, nil
	}

	switch {
	case len(out.Argv) == 0:
		return out, fmt.Errorf("%s: %w", out.Kind, ErrMissingCommand)
	case out.Kind != Pipe && out.Path == "":
		return out, fmt.Errorf("%s: %w", out.Kind, ErrMissingTarget)
	}
	return out, nil
}

// splitOutputRedirect splits "prog arg > path" style text. Only the program
// and the first token after it are kept as the argument vector.
func splitOutputRedirect(subCommand, op string) ([]string, string) {
	before, after, _ := strings.Cut(subCommand, op)
	argv := SplitArgs(before)
	if len(argv) > 2 {
		argv = argv[:2]
	}
	return argv, firstToken(after)
}

package shell

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitSubCommands(t *testing.T) {
	cases := map[string]struct {
		line     string
		expected []string
	}{
		"empty":          {"", nil},
		"blank":          {"  \t ", nil},
		"single":         {"ls -l", []string{"ls -l"}},
		"ordered":        {"a;b;c", []string{"a", "b", "c"}},
		"keeps-spacing":  {" a ; b", []string{" a ", " b"}},
		"skips-empty":    {";;a;;b;", []string{"a", "b"}},
		"skips-blank":    {"a; ;b", []string{"a", "b"}},
		"keeps-operator": {"echo hi > f; cat f", []string{"echo hi > f", " cat f"}},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			actual, err := SplitSubCommands(tc.line)

			assert.Nil(t, err)
			assert.Equal(t, tc.expected, actual)
		})
	}
}

func TestSplitSubCommands_limit(t *testing.T) {
	for n := 1; n <= MaxSubCommands+2; n++ {
		t.Run(fmt.Sprintf("%d", n), func(t *testing.T) {
			var segments []string
			for i := 0; i < n; i++ {
				segments = append(segments, fmt.Sprintf("echo %d", i))
			}

			actual, err := SplitSubCommands(strings.Join(segments, ";"))

			if n > MaxSubCommands {
				assert.True(t, errors.Is(err, ErrTooManySubCommands))
				assert.Nil(t, actual)
				return
			}
			assert.Nil(t, err)
			assert.Equal(t, segments, actual)
		})
	}
}

func TestSplitArgs(t *testing.T) {
	cases := map[string]struct {
		subCommand string
		expected   []string
	}{
		"empty":      {"", nil},
		"blank":      {" \t ", nil},
		"single":     {"ls", []string{"ls"}},
		"spaces":     {"  ls   -l  /tmp ", []string{"ls", "-l", "/tmp"}},
		"tabs":       {"ls\t-a\t\t-l", []string{"ls", "-a", "-l"}},
		"no-quoting": {`echo "a b"`, []string{"echo", `"a`, `b"`}},
		"no-expand":  {"echo $HOME ~", []string{"echo", "$HOME", "~"}},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			assert.Equal(t, tc.expected, SplitArgs(tc.subCommand))
		})
	}
}

func TestSplitArgs_truncates(t *testing.T) {
	tokens := make([]string, MaxArgs+10)
	for i := range tokens {
		tokens[i] = fmt.Sprintf("t%d", i)
	}

	actual := SplitArgs(strings.Join(tokens, " "))

	assert.Len(t, actual, MaxArgs)
	assert.Equal(t, tokens[:MaxArgs], actual)
}

func TestClassify(t *testing.T) {
	cases := map[string]struct {
		subCommand string
		expected   SubCommand
	}{
		"plain": {
			subCommand: " ls -l ",
			expected:   SubCommand{Kind: Plain, Argv: []string{"ls", "-l"}},
		},
		"plain-blank": {
			subCommand: "   ",
			expected:   SubCommand{Kind: Plain},
		},
		"pipe": {
			subCommand: "printf foo | tr a-z A-Z",
			expected: SubCommand{
				Kind:  Pipe,
				Argv:  []string{"printf", "foo"},
				Right: []string{"tr", "a-z", "A-Z"},
			},
		},
		"pipe-no-spaces": {
			subCommand: "ls|wc",
			expected:   SubCommand{Kind: Pipe, Argv: []string{"ls"}, Right: []string{"wc"}},
		},
		"pipe-third-stage-dropped": {
			subCommand: "a | b | c",
			expected:   SubCommand{Kind: Pipe, Argv: []string{"a"}, Right: []string{"b"}},
		},
		"pipe-wins-over-redirect": {
			subCommand: "cat < in | wc",
			expected:   SubCommand{Kind: Pipe, Argv: []string{"cat", "<", "in"}, Right: []string{"wc"}},
		},
		"input": {
			subCommand: "wc -l < in.txt",
			expected:   SubCommand{Kind: InputRedirect, Argv: []string{"wc"}, Path: "in.txt"},
		},
		"input-no-spaces": {
			subCommand: "cat<in.txt",
			expected:   SubCommand{Kind: InputRedirect, Argv: []string{"cat"}, Path: "in.txt"},
		},
		"input-wins-over-output": {
			subCommand: "sort < in > out",
			expected:   SubCommand{Kind: InputRedirect, Argv: []string{"sort"}, Path: "in"},
		},
		"output": {
			subCommand: "echo hi > out.txt",
			expected:   SubCommand{Kind: OutputRedirect, Argv: []string{"echo", "hi"}, Path: "out.txt"},
		},
		"output-single-argument": {
			subCommand: "echo hello world > out.txt",
			expected:   SubCommand{Kind: OutputRedirect, Argv: []string{"echo", "hello"}, Path: "out.txt"},
		},
		"output-program-only": {
			subCommand: "date>out.txt",
			expected:   SubCommand{Kind: OutputRedirect, Argv: []string{"date"}, Path: "out.txt"},
		},
		"output-path-first-token": {
			subCommand: "echo hi > a b",
			expected:   SubCommand{Kind: OutputRedirect, Argv: []string{"echo", "hi"}, Path: "a"},
		},
		"append": {
			subCommand: "echo more >> out.txt",
			expected:   SubCommand{Kind: AppendRedirect, Argv: []string{"echo", "more"}, Path: "out.txt"},
		},
		"append-no-spaces": {
			subCommand: "echo more>>out.txt",
			expected:   SubCommand{Kind: AppendRedirect, Argv: []string{"echo", "more"}, Path: "out.txt"},
		},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			tc.expected.Raw = tc.subCommand

			actual, err := Classify(tc.subCommand)

			assert.Nil(t, err)
			assert.Equal(t, tc.expected, actual)
		})
	}
}

func TestClassify_errors(t *testing.T) {
	cases := map[string]struct {
		subCommand string
		expected   error
	}{
		"pipe-no-left":      {"| wc", ErrMissingCommand},
		"pipe-no-right":     {"ls |", ErrMissingCommand},
		"pipe-blank-right":  {"ls |  ", ErrMissingCommand},
		"input-no-command":  {"< in.txt", ErrMissingCommand},
		"input-no-path":     {"cat <", ErrMissingTarget},
		"output-no-command": {" > out", ErrMissingCommand},
		"output-no-path":    {"echo hi >", ErrMissingTarget},
		"append-no-path":    {"echo hi >>  ", ErrMissingTarget},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			_, err := Classify(tc.subCommand)

			assert.True(t, errors.Is(err, tc.expected), "got %v", err)
		})
	}
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "pipe", Pipe.String())
	assert.Equal(t, "append_redirect", AppendRedirect.String())
	assert.Equal(t, "Kind(42)", Kind(42).String())
}

package core

import (
	"context"
	"errors"
	"strings"

	"github.com/abiosoft/readline"
	"github.com/josephlewis42/myssh/core/vos"
)

// LineReader supplies completed lines of input.
type LineReader interface {
	// ReadLine displays prompt and returns the next line without its
	// terminator. It returns io.EOF at end of input and ErrInterrupted if
	// the read was aborted, either by ctx or by the user at the terminal.
	ReadLine(ctx context.Context, prompt string) (string, error)
	// Record adds a line to the history.
	Record(line string) error
	Close() error
}

// ReadlineOptions configures NewReadlineReader.
type ReadlineOptions struct {
	HistoryFile  string
	HistoryLimit int
	// Complete enables tab completion of command and file names.
	Complete bool
}

// NewReadlineReader creates a LineReader on the streams of vos.
func NewReadlineReader(virtualOS vos.VOS, opts ReadlineOptions) (*ReadlineReader, error) {
	cfg := &readline.Config{
		Stdin:                  readline.NewCancelableStdin(virtualOS.Stdin()),
		Stdout:                 virtualOS.Stdout(),
		Stderr:                 virtualOS.Stderr(),
		HistoryFile:            opts.HistoryFile,
		HistoryLimit:           opts.HistoryLimit,
		DisableAutoSaveHistory: true,
		InterruptPrompt:        "^C",
		EOFPrompt:              "",
	}
	if opts.Complete {
		cfg.AutoComplete = &completer{vos: virtualOS}
	}

	rl, err := readline.NewEx(cfg)
	if err != nil {
		return nil, err
	}
	return &ReadlineReader{rl: rl}, nil
}

// ReadlineReader is a LineReader backed by readline.
type ReadlineReader struct {
	rl *readline.Instance

	// pending holds an outstanding read that was abandoned when its
	// context was cancelled. The next ReadLine picks it up.
	pending chan readResult
}

type readResult struct {
	line string
	err  error
}

var _ LineReader = (*ReadlineReader)(nil)

// ReadLine implements LineReader.ReadLine.
func (r *ReadlineReader) ReadLine(ctx context.Context, prompt string) (string, error) {
	r.rl.SetPrompt(prompt)

	if r.pending == nil {
		r.pending = make(chan readResult, 1)
		go func(out chan<- readResult) {
			line, err := r.rl.Readline()
			out <- readResult{line, err}
		}(r.pending)
	} else {
		r.rl.Refresh()
	}

	select {
	case <-ctx.Done():
		return "", ErrInterrupted
	case res := <-r.pending:
		r.pending = nil
		switch {
		case errors.Is(res.err, readline.ErrInterrupt):
			return "", ErrInterrupted
		case res.err != nil:
			return "", res.err
		}
		return res.line, nil
	}
}

// Record implements LineReader.Record.
func (r *ReadlineReader) Record(line string) error {
	return r.rl.SaveHistory(line)
}

// Close implements LineReader.Close.
func (r *ReadlineReader) Close() error {
	return r.rl.Close()
}

// completer completes the word under the cursor. Words in command position
// complete against the built-ins and executables on PATH, others against
// file names.
type completer struct {
	vos vos.VOS
}

var _ readline.AutoCompleter = (*completer)(nil)

func (c *completer) Do(line []rune, pos int) ([][]rune, int) {
	head := string(line[:pos])
	start := strings.LastIndexAny(head, " \t|<>;") + 1
	word := head[start:]

	var candidates []string
	if isCommandPosition(head[:start]) && !strings.Contains(word, "/") {
		for _, name := range BuiltinNames() {
			if strings.HasPrefix(name, word) {
				candidates = append(candidates, name+" ")
			}
		}
		for _, name := range vos.ExecutablesWithPrefix(c.vos, word) {
			candidates = append(candidates, name+" ")
		}
	} else {
		candidates = vos.CompletePath(c.vos, word)
	}

	var out [][]rune
	for _, cand := range candidates {
		out = append(out, []rune(strings.TrimPrefix(cand, word)))
	}
	return out, len([]rune(word))
}

func isCommandPosition(before string) bool {
	before = strings.TrimRight(before, " \t")
	return before == "" || strings.HasSuffix(before, "|") || strings.HasSuffix(before, ";")
}

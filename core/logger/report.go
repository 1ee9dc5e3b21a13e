package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
)

// ReadJSONLinesLog parses a newline delimited JSON log.
func ReadJSONLinesLog(r io.Reader, handler func(le *LogEntry)) error {
	decoder := json.NewDecoder(r)
	for decoder.More() {
		var logEntry LogEntry
		if err := decoder.Decode(&logEntry); err != nil {
			return err
		}

		handler(&logEntry)
	}
	return nil
}

// Report holds statistics about the logged events.
type Report struct {
	LogEntries     int        `json:"log_entries"`
	Sessions       int        `json:"sessions"`
	InvalidEntries StrCounter `json:"unknown_log_entries,omitempty"`

	RunCommand    RunCommandReport    `json:"run_command_report"`
	Builtin       BuiltinReport       `json:"builtin_report"`
	LaunchFailure LaunchFailureReport `json:"launch_failure_report"`
	Interrupt     InterruptReport     `json:"interrupt_report"`
	Fatal         FatalReport         `json:"fatal_report"`

	sessions map[string]bool
}

func (r *Report) Update(le *LogEntry) {
	r.LogEntries++

	if id := le.SessionId; id != "" && !r.sessions[id] {
		if r.sessions == nil {
			r.sessions = make(map[string]bool)
		}
		r.sessions[id] = true
		r.Sessions++
	}

	switch event := le.GetLogType().(type) {
	case *RunCommand:
		r.RunCommand.update(event)
	case *Builtin:
		r.Builtin.update(event)
	case *LaunchFailure:
		r.LaunchFailure.update(event)
	case *Interrupt:
		r.Interrupt.update(event)
	case *Fatal:
		r.Fatal.update(event)
	default:
		r.InvalidEntries.Increment(fmt.Sprintf("%T", event))
	}
}

type RunCommandReport struct {
	// Name of the command
	CommandNames StrCounter `json:"command_names"`
	// Sub-command classifications
	Kinds StrCounter `json:"kinds"`
	// Number of sub-commands where a child exited non-zero.
	Failed int `json:"failed"`
}

func (r *RunCommandReport) update(rc *RunCommand) {
	if len(rc.Command) > 0 {
		r.CommandNames.Increment(rc.Command[0])
	}
	r.Kinds.Increment(rc.Kind)
	for _, status := range rc.Statuses {
		if status != 0 {
			r.Failed++
			break
		}
	}
}

type BuiltinReport struct {
	CommandNames StrCounter `json:"command_names"`
	Errors       StrCounter `json:"errors,omitempty"`
}

func (r *BuiltinReport) update(b *Builtin) {
	if len(b.Command) > 0 {
		r.CommandNames.Increment(b.Command[0])
	}
	if b.Error != "" {
		r.Errors.Increment(b.Error)
	}
}

type LaunchFailureReport struct {
	Failures *PathCounter `json:"failures"`
}

func (r *LaunchFailureReport) update(lf *LaunchFailure) {
	if r.Failures == nil {
		r.Failures = NewPathCounter("command", "error")
	}
	name := ""
	if len(lf.Command) > 0 {
		name = lf.Command[0]
	}
	r.Failures.Increment(name, lf.Error)
}

type InterruptReport struct {
	Count int `json:"count"`
	// Interrupted command lines, the empty line counts interrupted reads.
	Commands StrCounter `json:"commands"`
}

func (r *InterruptReport) update(i *Interrupt) {
	r.Count++
	r.Commands.Increment(strings.TrimSpace(i.Command))
}

type FatalReport struct {
	Codes    StrCounter `json:"codes"`
	Messages []string   `json:"messages"`
}

func (r *FatalReport) update(f *Fatal) {
	r.Codes.Increment(fmt.Sprintf("%d", f.Code))
	if f.Message != "" {
		r.Messages = append(r.Messages, f.Message)
	}
}

// StrCounter counts the number of strings seen.
type StrCounter struct {
	internal map[string]int
}

// Increment adds one to the given key.
func (s *StrCounter) Increment(toAdd string) {
	if s.internal == nil {
		s.internal = make(map[string]int)
	}

	s.internal[toAdd]++
}

// Get returns the count for key.
func (s *StrCounter) Get(key string) int {
	return s.internal[key]
}

// MarshalJSON implemnts custom JSON marshaler.
func (s StrCounter) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.internal)
}

func NewPathCounter(cols ...string) *PathCounter {
	return &PathCounter{
		cols:     cols,
		internal: make(map[string]int),
	}
}

// PathCounter counts the number of strings seen.
type PathCounter struct {
	cols     []string
	internal map[string]int
}

// Increment adds one to the given key.
func (ctr *PathCounter) Increment(toAdd ...string) {
	if len(toAdd) != len(ctr.cols) {
		panic("wrong number of columns to add")
	}

	ctr.internal[toKey(toAdd...)]++
}

// Get returns the count for the given column values.
func (ctr *PathCounter) Get(vals ...string) int {
	return ctr.internal[toKey(vals...)]
}

// MarshalJSON implemnts custom JSON marshaler.
func (ctr *PathCounter) MarshalJSON() ([]byte, error) {
	type Count struct {
		Count  int               `json:"count"`
		Fields map[string]string `json:"event"`
		Path   string            `json:"-"`
	}

	var out []Count
	for k, v := range ctr.internal {
		count := Count{
			Count:  v,
			Path:   k,
			Fields: make(map[string]string),
		}

		splitPath := fromKey(k)
		for colNum, colVal := range ctr.cols {
			count.Fields[colVal] = splitPath[colNum]
		}

		out = append(out, count)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Path < out[j].Path
		}
		return out[i].Count > out[j].Count
	})

	return json.Marshal(out)
}

func toKey(vals ...string) string {
	key, _ := json.Marshal(vals)
	return string(key)
}

func fromKey(key string) (out []string) {
	json.Unmarshal([]byte(key), &out)
	return
}

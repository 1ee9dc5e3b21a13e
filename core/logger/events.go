package logger

// LogEntry is a single line of the event log. Exactly one of the event
// fields is set.
type LogEntry struct {
	TimestampMicros int64  `json:"timestamp_micros"`
	SessionId       string `json:"session_id,omitempty"`

	RunCommand    *RunCommand    `json:"run_command,omitempty"`
	Builtin       *Builtin       `json:"builtin,omitempty"`
	LaunchFailure *LaunchFailure `json:"launch_failure,omitempty"`
	Interrupt     *Interrupt     `json:"interrupt,omitempty"`
	Fatal         *Fatal         `json:"fatal,omitempty"`
}

// LogType is implemented by every event that can be stored in a LogEntry.
type LogType interface {
	isLogType()
}

// GetLogType returns the event held by the entry, nil if there is none.
func (le *LogEntry) GetLogType() LogType {
	switch {
	case le == nil:
		return nil
	case le.RunCommand != nil:
		return le.RunCommand
	case le.Builtin != nil:
		return le.Builtin
	case le.LaunchFailure != nil:
		return le.LaunchFailure
	case le.Interrupt != nil:
		return le.Interrupt
	case le.Fatal != nil:
		return le.Fatal
	default:
		return nil
	}
}

// SetLogType stores event in the entry, replacing any previous event.
func (le *LogEntry) SetLogType(event LogType) {
	*le = LogEntry{TimestampMicros: le.TimestampMicros, SessionId: le.SessionId}

	switch event := event.(type) {
	case *RunCommand:
		le.RunCommand = event
	case *Builtin:
		le.Builtin = event
	case *LaunchFailure:
		le.LaunchFailure = event
	case *Interrupt:
		le.Interrupt = event
	case *Fatal:
		le.Fatal = event
	}
}

// RunCommand is logged for every external sub-command that ran to
// completion.
type RunCommand struct {
	Command []string `json:"command"`
	// Kind is the sub-command classification, e.g. "pipe".
	Kind string `json:"kind"`
	// Statuses holds the exit status of each child in launch order.
	Statuses []int `json:"statuses"`
}

// Builtin is logged when a built-in is dispatched.
type Builtin struct {
	Command []string `json:"command"`
	Error   string   `json:"error,omitempty"`
}

// LaunchFailure is logged when a program could not be started or a
// redirection target could not be opened.
type LaunchFailure struct {
	Command []string `json:"command"`
	Error   string   `json:"error"`
}

// Interrupt is logged when an iteration is aborted.
type Interrupt struct {
	// Command is the line that was executing, empty if the interrupt arrived
	// while reading.
	Command string `json:"command,omitempty"`
}

// Fatal is logged when the interpreter is about to exit with a failure.
type Fatal struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (*RunCommand) isLogType()    {}
func (*Builtin) isLogType()       {}
func (*LaunchFailure) isLogType() {}
func (*Interrupt) isLogType()     {}
func (*Fatal) isLogType()         {}

package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
)

// LogRecorder is a callback that stores events in an external datastore.
type LogRecorder func(le *LogEntry) error

// Recorder accepts events.
type Recorder interface {
	Record(event LogType) error
}

// Logger captures interpreter events.
type Logger struct {
	Record LogRecorder

	// Now is the clock used for timestamps, time.Now if unset.
	Now func() time.Time
}

// NewJsonLinesLogRecorder creates a Logger that exports logs in newline
// delimited JSON object format.
func NewJsonLinesLogRecorder(w io.Writer) *Logger {
	var mu sync.Mutex
	return &Logger{
		Record: func(le *LogEntry) error {
			entry, err := json.Marshal(le)
			if err != nil {
				return err
			}

			mu.Lock()
			defer mu.Unlock()
			_, err = fmt.Fprintln(w, string(entry))
			return err
		},
	}
}

func (l *Logger) recordLogType(sessionID string, event LogType) error {
	now := time.Now
	if l.Now != nil {
		now = l.Now
	}

	le := &LogEntry{}
	le.TimestampMicros = now().UnixNano() / int64(time.Microsecond)
	le.SessionId = sessionID
	le.SetLogType(event)

	return l.Record(le)
}

// NewSession creates a logger with a fresh random session ID.
func (l *Logger) NewSession() *SessionLogger {
	return &SessionLogger{Logger: l, sessionID: uuid.NewString()}
}

// Sessionless creates a logger without a session ID.
func (l *Logger) Sessionless() *SessionLogger {
	return &SessionLogger{Logger: l, sessionID: ""}
}

// SessionLogger logs messages with a shared session ID.
type SessionLogger struct {
	*Logger
	sessionID string
}

var _ Recorder = (*SessionLogger)(nil)

// SessionID returns the ID attached to every entry.
func (l *SessionLogger) SessionID() string {
	return l.sessionID
}

func (l *SessionLogger) Record(event LogType) error {
	return l.recordLogType(l.sessionID, event)
}

// NopRecorder discards all events.
type NopRecorder struct{}

var _ Recorder = NopRecorder{}

func (NopRecorder) Record(LogType) error {
	return nil
}

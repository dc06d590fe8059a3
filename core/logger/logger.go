// Package logger records session events in newline delimited JSON.
package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// Recorder stores entries in an external datastore.
type Recorder func(e *Entry) error

// Log captures shell session events. A nil *Log discards everything.
type Log struct {
	Record Recorder
}

// Entry is a single logged event.
type Entry struct {
	TimestampMicros int64    `json:"timestamp_micros"`
	Event           string   `json:"event"`
	Line            string   `json:"line,omitempty"`
	Path            string   `json:"path,omitempty"`
	Args            []string `json:"args,omitempty"`
	Status          int      `json:"status,omitempty"`
}

// NewJSONLines creates a Log that writes one JSON object per line.
func NewJSONLines(w io.Writer) *Log {
	return &Log{
		Record: func(e *Entry) error {
			entry, err := json.Marshal(e)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(w, string(entry))
			return err
		},
	}
}

func (l *Log) record(e *Entry) {
	if l == nil || l.Record == nil {
		return
	}
	e.TimestampMicros = time.Now().UnixMicro()
	_ = l.Record(e)
}

// SessionStart records the beginning of an interactive session.
func (l *Log) SessionStart() {
	l.record(&Entry{Event: "session_start"})
}

// SessionEnd records the shell exiting with the given status.
func (l *Log) SessionEnd(status int) {
	l.record(&Entry{Event: "session_end", Status: status})
}

// LineAccepted records an input line accepted by the editor.
func (l *Log) LineAccepted(line string) {
	l.record(&Entry{Event: "line", Line: line})
}

// Exec records an external program launch.
func (l *Log) Exec(path string, args []string) {
	l.record(&Entry{Event: "exec", Path: path, Args: args})
}

// Builtin records a builtin invocation.
func (l *Log) Builtin(name string) {
	l.record(&Entry{Event: "builtin", Path: name})
}

// ParseError records a rejected line.
func (l *Log) ParseError(line string) {
	l.record(&Entry{Event: "parse_error", Line: line})
}

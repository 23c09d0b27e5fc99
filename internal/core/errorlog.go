package core

import (
	"fmt"
	"strings"
)

// ErrorLogFileName is the suggested name of the downloadable error log.
const ErrorLogFileName = "import_errors.txt"

// ErrorLog accumulates human-readable failures of one import run.
// Entries are kept in insertion order and never deduplicated.
type ErrorLog struct {
	entries []string
}

// Addf appends a formatted entry.
func (l *ErrorLog) Addf(format string, args ...any) {
	l.entries = append(l.entries, fmt.Sprintf(format, args...))
}

// Len returns the number of entries.
func (l *ErrorLog) Len() int {
	return len(l.entries)
}

// Empty reports whether nothing has been logged.
func (l *ErrorLog) Empty() bool {
	return len(l.entries) == 0
}

// Entries returns a copy of the logged entries.
func (l *ErrorLog) Entries() []string {
	out := make([]string, len(l.entries))
	copy(out, l.entries)
	return out
}

// Last returns the most recent entry, or "" if the log is empty.
func (l *ErrorLog) Last() string {
	if len(l.entries) == 0 {
		return ""
	}
	return l.entries[len(l.entries)-1]
}

// Bytes renders the log as UTF-8 text, one entry per line.
func (l *ErrorLog) Bytes() []byte {
	return []byte(strings.Join(l.entries, "\n"))
}

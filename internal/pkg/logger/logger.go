// Package logger tags diagnostic output with the interpreter session so
// concurrent shells writing to the same terminal stay distinguishable.
package logger

import (
	"io"
	"log"
	"os"
)

// StdLogger implements the Logger port on Go's log package. Output is
// suppressed unless verbose mode or HAUNTED_DEBUG is set.
type StdLogger struct {
	verbose bool
	log     *log.Logger
}

// NewStd creates a logger for one session. The session ID is shortened to
// its first block in the line prefix.
func NewStd(verbose bool, session string) *StdLogger {
	if os.Getenv("HAUNTED_DEBUG") != "" {
		verbose = true
	}
	prefix := "haunted "
	if session != "" {
		prefix = "haunted[" + shortID(session) + "] "
	}
	return &StdLogger{
		verbose: verbose,
		log:     log.New(os.Stderr, prefix, log.LstdFlags),
	}
}

// SetOutput redirects log output, mainly for tests.
func (l *StdLogger) SetOutput(w io.Writer) {
	l.log.SetOutput(w)
}

func shortID(session string) string {
	if len(session) > 8 {
		return session[:8]
	}
	return session
}

func (l *StdLogger) Debug(msg string, fields map[string]interface{}) {
	l.print("[DEBUG]", msg, fields)
}

func (l *StdLogger) Info(msg string, fields map[string]interface{}) {
	l.print("[INFO]", msg, fields)
}

func (l *StdLogger) Warn(msg string, fields map[string]interface{}) {
	l.print("[WARN]", msg, fields)
}

func (l *StdLogger) Error(msg string, err error, fields map[string]interface{}) {
	if !l.verbose {
		return
	}
	l.log.Println("[ERROR]", msg, err, fields)
}

func (l *StdLogger) print(level, msg string, fields map[string]interface{}) {
	if !l.verbose {
		return
	}
	if len(fields) == 0 {
		l.log.Println(level, msg)
		return
	}
	l.log.Println(level, msg, fields)
}

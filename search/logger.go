package search

import (
	"log"
	"os"
)

// Logger wraps the standard logger with the driver's verbosity gate, the
// same plain stdlib logging idiom the teacher uses throughout (no
// structured/leveled logging library appears anywhere in the retrieval
// pack, so none is introduced here).
type Logger struct {
	verbose Verbosity
	out     *log.Logger
}

func NewLogger(verbose Verbosity) *Logger {
	return &Logger{verbose: verbose, out: log.New(os.Stderr, "", log.LstdFlags)}
}

func (l *Logger) Outer(format string, args ...any) {
	if l.verbose >= VerboseOuter {
		l.out.Printf(format, args...)
	}
}

func (l *Logger) Full(format string, args ...any) {
	if l.verbose >= VerboseFull {
		l.out.Printf(format, args...)
	}
}

func (l *Logger) Warning(format string, args ...any) {
	if l.verbose >= VerboseWarning {
		l.out.Printf(format, args...)
	}
}

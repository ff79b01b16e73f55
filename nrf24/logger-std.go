//go:build !tinygo

package nrf24

import (
	"io"
	"log"
)

func init() {
	globalLogger = &stdLogger{l: log.Default()}
}

// stdLogger writes through a standard library *log.Logger. Debug messages
// are dropped unless debug is set.
type stdLogger struct {
	l     *log.Logger
	debug bool
}

// NewStdLogger returns a Logger writing to w with the standard log flags
// and the given prefix. Debug messages are only written when debug is true.
func NewStdLogger(w io.Writer, prefix string, debug bool) Logger {
	return &stdLogger{l: log.New(w, prefix, log.LstdFlags), debug: debug}
}

func (l *stdLogger) Debug(msg string) {
	if l.debug {
		l.l.Print("[DEBUG] " + msg)
	}
}

func (l *stdLogger) Info(msg string) {
	l.l.Print("[INFO]  " + msg)
}

func (l *stdLogger) Warn(msg string) {
	l.l.Print("[WARN]  " + msg)
}

func (l *stdLogger) Error(msg string) {
	l.l.Print("[ERROR] " + msg)
}

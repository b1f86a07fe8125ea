package client

import (
	"fmt"
	"io"
	"log"
	"strings"
	"sync"
)

// Log is the build console. Everything written to it is meant for the
// person reading the build output, so it is plain text, one line per call.
type Log struct {
	mu  sync.Mutex
	out io.Writer
}

func NewLog(out io.Writer) *Log {
	return &Log{out: out}
}

// Write sends raw bytes to the console.
func (l *Log) Write(payload []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.out.Write(payload)
}

// Writeln writes payload to the console, newline-terminated, and mirrors it
// to the process log.
func (l *Log) Writeln(payload string) error {
	if !strings.HasSuffix(payload, "\n") {
		payload += "\n"
	}
	_, err := l.Write([]byte(payload))
	log.Print(payload)
	return err
}

// Printf calls l.Writeln to print to the console. Arguments are handled in
// the manner of fmt.Printf.
func (l *Log) Printf(format string, v ...interface{}) error {
	return l.Writeln(fmt.Sprintf(format, v...))
}

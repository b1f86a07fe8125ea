package scopedlogger

import (
	"fmt"
	"log"
	"strings"
)

// ScopedLogger prefixes every line with "[Scope]". Output goes to Logger, or
// to the standard logger when Logger is nil.
type ScopedLogger struct {
	Scope  string
	Logger *log.Logger
}

func (sl ScopedLogger) prefix() string {
	return "[" + sl.Scope + "] "
}

func (sl ScopedLogger) output(s string) {
	if sl.Logger != nil {
		sl.Logger.Output(3, s)
		return
	}
	log.Output(3, s)
}

func (sl ScopedLogger) Printf(format string, v ...interface{}) {
	sl.output(sl.prefix() + fmt.Sprintf(format, v...))
}

func (sl ScopedLogger) Println(v ...interface{}) {
	sl.output(sl.prefix() + strings.TrimSuffix(fmt.Sprintln(v...), "\n"))
}

// Sub returns a logger for a part of this scope, prefixed "[Scope:name]".
func (sl ScopedLogger) Sub(name string) ScopedLogger {
	return ScopedLogger{Scope: sl.Scope + ":" + name, Logger: sl.Logger}
}

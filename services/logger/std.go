package logsvc

import (
	"log"
	"os"

	"github.com/trezcool/hesabu/core"
)

// StdLogger wraps the standard library logger. Used in DEV and tests.
type StdLogger struct {
	std *log.Logger
}

var _ core.Logger = (*StdLogger)(nil)

func NewStdLogger(std *log.Logger) *StdLogger {
	if std == nil {
		std = log.New(os.Stdout, "HESABU : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	}
	return &StdLogger{std: std}
}

func (l StdLogger) print(msg string, args []interface{}) {
	l.std.Println(msg)
	for _, arg := range args {
		l.std.Printf("%+v\n", arg)
	}
}

func (l StdLogger) Debug(msg string, args ...interface{}) { l.print(msg, args) }
func (l StdLogger) Info(msg string, args ...interface{})  { l.print(msg, args) }
func (l StdLogger) Warn(msg string, args ...interface{})  { l.print(msg, args) }
func (l StdLogger) Error(msg string, args ...interface{}) { l.print(msg, args) }

func (l StdLogger) Fatal(msg string, args ...interface{}) {
	l.print(msg, args)
	l.std.Fatal(msg)
}

package log

import (
	"io"
	"os"

	"github.com/op/go-logging"
)

// Level selects how chatty the renderer is
type Level int

const (
	Debug Level = iota
	Info
	Notice
	Warning
	Error
)

var format = logging.MustStringFormatter(
	`%{color}%{time:15:04:05.000} %{module:-10s} %{level:.4s}%{color:reset} %{message}`,
)

var (
	leveledBackend logging.LeveledBackend
	currentLevel   = Notice
)

// Logger is the leveled logger handed out to each package
type Logger interface {
	Debug(v ...interface{})
	Debugf(format string, v ...interface{})

	Info(v ...interface{})
	Infof(format string, v ...interface{})

	Notice(v ...interface{})
	Noticef(format string, v ...interface{})

	Warning(v ...interface{})
	Warningf(format string, v ...interface{})

	Error(v ...interface{})
	Errorf(format string, v ...interface{})
}

// New returns the logger for module
func New(module string) Logger {
	return logging.MustGetLogger(module)
}

// SetSink redirects all log output to sink, keeping the current level
func SetSink(sink io.Writer) {
	backend := logging.NewLogBackend(sink, "", 0)
	leveledBackend = logging.AddModuleLevel(logging.NewBackendFormatter(backend, format))
	logging.SetBackend(leveledBackend)
	SetLevel(currentLevel)
}

// SetLevel changes the verbosity of every module
func SetLevel(level Level) {
	currentLevel = level
	leveledBackend.SetLevel(toBackendLevel(level), "")
}

// SetVerbosity maps a -v count onto a level: 0 is Notice, 1 Info, 2 or more Debug
func SetVerbosity(count int) {
	switch {
	case count >= 2:
		SetLevel(Debug)
	case count == 1:
		SetLevel(Info)
	default:
		SetLevel(Notice)
	}
}

// Enabled reports whether messages at level are emitted for module
func Enabled(level Level, module string) bool {
	return leveledBackend.IsEnabledFor(toBackendLevel(level), module)
}

func toBackendLevel(level Level) logging.Level {
	switch level {
	case Debug:
		return logging.DEBUG
	case Info:
		return logging.INFO
	case Warning:
		return logging.WARNING
	case Error:
		return logging.ERROR
	default:
		return logging.NOTICE
	}
}

func init() {
	SetSink(os.Stderr)
}

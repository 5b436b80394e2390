package rayfire

import (
	"fmt"
	"log"
	"os"
	"sync/atomic"

	"github.com/google/uuid"
)

type Logger interface {
	DebugEnabled() bool
	SetDebug(enabled bool)
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// modelLogger is implemented by loggers that can tag their lines with the
// model an engine serves.
type modelLogger interface {
	ForModel(id uuid.UUID) Logger
}

type Level int32

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	}
	return "ERROR"
}

// DefaultLogger writes debug and info lines to stdout and warnings and
// errors to stderr. Loggers returned by ForModel share the level of their
// parent.
type DefaultLogger struct {
	level *atomic.Int32
	tag   string
	out   *log.Logger
	err   *log.Logger
}

func NewDefaultLogger(prefix string, debug bool) *DefaultLogger {
	flags := log.LstdFlags | log.Lmicroseconds
	l := &DefaultLogger{
		level: new(atomic.Int32),
		tag:   prefix,
		out:   log.New(os.Stdout, "", flags),
		err:   log.New(os.Stderr, "", flags),
	}
	l.SetDebug(debug)
	return l
}

// ForModel returns a logger whose lines carry the model id.
func (l *DefaultLogger) ForModel(id uuid.UUID) Logger {
	child := *l
	if l.tag == "" {
		child.tag = "model=" + id.String()
	} else {
		child.tag = l.tag + " model=" + id.String()
	}
	return &child
}

func (l *DefaultLogger) Level() Level {
	return Level(l.level.Load())
}

func (l *DefaultLogger) SetLevel(level Level) {
	l.level.Store(int32(level))
}

func (l *DefaultLogger) DebugEnabled() bool {
	return l.Level() <= LevelDebug
}

func (l *DefaultLogger) SetDebug(enabled bool) {
	if enabled {
		l.SetLevel(LevelDebug)
	} else {
		l.SetLevel(LevelInfo)
	}
}

func (l *DefaultLogger) logf(level Level, format string, args ...any) {
	if level < l.Level() {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if l.tag != "" {
		msg = fmt.Sprintf("[%s] %s: %s", l.tag, level, msg)
	} else {
		msg = level.String() + ": " + msg
	}
	if level >= LevelWarn {
		l.err.Print(msg)
	} else {
		l.out.Print(msg)
	}
}

func (l *DefaultLogger) Debugf(format string, args ...any) { l.logf(LevelDebug, format, args...) }
func (l *DefaultLogger) Infof(format string, args ...any)  { l.logf(LevelInfo, format, args...) }
func (l *DefaultLogger) Warnf(format string, args ...any)  { l.logf(LevelWarn, format, args...) }
func (l *DefaultLogger) Errorf(format string, args ...any) { l.logf(LevelError, format, args...) }

// LoggingModule installs a DefaultLogger on the engine being built. Level,
// when set, overrides Debug.
type LoggingModule struct {
	Prefix string
	Debug  bool
	Level  *Level
}

func (m LoggingModule) Install(b *EngineBuilder) error {
	l := NewDefaultLogger(m.Prefix, m.Debug)
	if m.Level != nil {
		if *m.Level < LevelDebug || *m.Level > LevelError {
			return fmt.Errorf("log level %d: %w", *m.Level, ErrInvalidConfig)
		}
		l.SetLevel(*m.Level)
	}
	b.logger = l
	return nil
}

type nopLogger struct{}

func NewNopLogger() Logger                          { return nopLogger{} }
func (nopLogger) DebugEnabled() bool                { return false }
func (nopLogger) SetDebug(enabled bool)             {}
func (nopLogger) Debugf(format string, args ...any) {}
func (nopLogger) Infof(format string, args ...any)  {}
func (nopLogger) Warnf(format string, args ...any)  {}
func (nopLogger) Errorf(format string, args ...any) {}

// Logger returns the engine logger, or a no-op logger. Never returns nil.
func (e *Engine) Logger() Logger {
	if e == nil || e.logger == nil {
		return NewNopLogger()
	}
	return e.logger
}

// Package zerologsink links github.com/rs/zerolog into the logging catalog
// through a logr.LogSink adapter.
package zerologsink

import (
	"os"
	"strings"

	"github.com/go-logr/logr"
	"github.com/rs/zerolog"

	"github.com/anvil-platform/discovery/catalog/logging"
	"github.com/anvil-platform/discovery/discovery"
)

func init() {
	logging.Register(logging.PackageZerolog, discovery.FactoryFunc[logr.Logger](New))
}

// New returns a JSON zerolog logger writing to stderr.
func New() (logr.Logger, bool) {
	return NewLogger(zerolog.New(os.Stderr).With().Timestamp().Logger()), true
}

// NewLogger wraps zl as a logr.Logger.
func NewLogger(zl zerolog.Logger) logr.Logger {
	return logr.New(&Sink{logger: zl})
}

// Sink is a logr.LogSink writing through zerolog. V(0) maps to info, V(1) to
// debug and anything above to trace.
type Sink struct {
	logger zerolog.Logger
	name   string
	values []any
}

var _ logr.LogSink = (*Sink)(nil)

func (s *Sink) Init(logr.RuntimeInfo) {}

func (s *Sink) Enabled(level int) bool {
	lvl := levelFor(level)
	return lvl >= s.logger.GetLevel() && lvl >= zerolog.GlobalLevel()
}

func (s *Sink) Info(level int, msg string, keysAndValues ...any) {
	s.write(s.logger.WithLevel(levelFor(level)), msg, keysAndValues)
}

func (s *Sink) Error(err error, msg string, keysAndValues ...any) {
	s.write(s.logger.Error().Err(err), msg, keysAndValues)
}

func (s *Sink) WithValues(keysAndValues ...any) logr.LogSink {
	out := *s
	out.values = append(append([]any(nil), s.values...), keysAndValues...)
	return &out
}

func (s *Sink) WithName(name string) logr.LogSink {
	out := *s
	if s.name == "" {
		out.name = name
	} else {
		out.name = strings.Join([]string{s.name, name}, ".")
	}
	return &out
}

// Underlying returns the wrapped zerolog logger.
func (s *Sink) Underlying() zerolog.Logger {
	return s.logger
}

func (s *Sink) write(e *zerolog.Event, msg string, keysAndValues []any) {
	if e == nil {
		return
	}
	if s.name != "" {
		e = e.Str("logger", s.name)
	}
	if len(s.values) > 0 {
		e = e.Fields(s.values)
	}
	if len(keysAndValues) > 0 {
		e = e.Fields(keysAndValues)
	}
	e.Msg(msg)
}

func levelFor(v int) zerolog.Level {
	switch {
	case v <= 0:
		return zerolog.InfoLevel
	case v == 1:
		return zerolog.DebugLevel
	default:
		return zerolog.TraceLevel
	}
}

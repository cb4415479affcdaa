// Package stdlogger bridges printf style logger interfaces to the global zerolog logger.
package stdlogger

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger writes printf style messages to zerolog, tagged with a component.
// It satisfies gorm's logger.Writer interface.
type Logger struct {
	component string
}

// New returns a printf style logger backed by the global zerolog logger.
func New(component string) *Logger {
	return &Logger{component: component}
}

// Printf logs a gorm formatted line. The level is taken from the line:
// gorm's [error] and [warn] prefixes, failed statements and slow statements.
func (l *Logger) Printf(format string, v ...any) {
	l.write(gormLevel(format, v), format, v)
}

// Debugf logs at debug level.
func (l *Logger) Debugf(format string, v ...any) {
	l.write(zerolog.DebugLevel, format, v)
}

// Infof logs at info level.
func (l *Logger) Infof(format string, v ...any) {
	l.write(zerolog.InfoLevel, format, v)
}

// Warningf logs at warn level.
func (l *Logger) Warningf(format string, v ...any) {
	l.write(zerolog.WarnLevel, format, v)
}

// Errorf logs at error level.
func (l *Logger) Errorf(format string, v ...any) {
	l.write(zerolog.ErrorLevel, format, v)
}

func (l *Logger) write(level zerolog.Level, format string, v []any) {
	e := log.WithLevel(level)
	if l.component != "" {
		e = e.Str("component", l.component)
	}

	// gorm puts the caller on its own line
	e.Msg(strings.ReplaceAll(strings.TrimSpace(fmt.Sprintf(format, v...)), "\n", " "))
}

// gormLevel maps the fixed gorm logger formats onto zerolog levels.
// Trace lines of failed or slow statements start with "%s %s\n",
// the second argument being the error or the slow query notice.
func gormLevel(format string, v []any) zerolog.Level {
	switch {
	case strings.Contains(format, "[error]"):
		return zerolog.ErrorLevel
	case strings.Contains(format, "[warn]"):
		return zerolog.WarnLevel
	case strings.HasPrefix(format, "%s %s\n") && len(v) > 1:
		if _, ok := v[1].(error); ok {
			return zerolog.ErrorLevel
		}

		return zerolog.WarnLevel
	default:
		return zerolog.InfoLevel
	}
}

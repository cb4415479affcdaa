package logger

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

var (
	// ErrAppNameIsEmpty is returned if Log.AppName was not defined.
	ErrAppNameIsEmpty = errors.New("config Log.AppName can not be empty")

	// ErrServiceNameIsEmpty is returned if Log.ServiceName was not defined.
	ErrServiceNameIsEmpty = errors.New("config Log.ServiceName can not be empty")

	// ErrAccessLogNameIsEmpty is returned if file logging is on without an access log name.
	ErrAccessLogNameIsEmpty = errors.New("config Log.File.AccessLog can not be empty")
)

// Validate checks the names Init and the access writer depend on and parses the level.
func (l Log) Validate() (zerolog.Level, error) {
	level, err := zerolog.ParseLevel(l.LogLevel)
	if err != nil {
		return zerolog.NoLevel, errors.Wrapf(err, "loglevel %s is not supported", l.LogLevel)
	}

	switch {
	case l.ServiceName == "":
		return level, ErrServiceNameIsEmpty
	case l.AppName == "":
		return level, ErrAppNameIsEmpty
	case l.File.Enabled && l.File.AccessLog == "":
		return level, ErrAccessLogNameIsEmpty
	}

	return level, nil
}

// writeFailed reports events zerolog could not write.
func writeFailed(err error) {
	_, _ = fmt.Fprintf(os.Stderr, "vigil: dropped log event: %v\n", err)
}

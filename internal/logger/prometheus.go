package logger

import (
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// LevelCounter is a zerolog hook counting written events per level.
type LevelCounter struct {
	events *prometheus.CounterVec
}

// NewLevelCounter registers vigil_log_events_total on reg.
// A collector already registered by an earlier Init is reused.
func NewLevelCounter(reg prometheus.Registerer, service string) (*LevelCounter, error) {
	events := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name:        "vigil_log_events_total",
			Help:        "Number of log events, by level.",
			ConstLabels: prometheus.Labels{"service": service},
		},
		[]string{"level"},
	)

	if err := reg.Register(events); err != nil {
		var dup prometheus.AlreadyRegisteredError
		if !errors.As(err, &dup) {
			return nil, errors.Wrap(err, "register log level counter")
		}

		existing, ok := dup.ExistingCollector.(*prometheus.CounterVec)
		if !ok {
			return nil, errors.Wrap(err, "register log level counter")
		}

		events = existing
	}

	return &LevelCounter{events: events}, nil
}

// Run implements zerolog.Hook. Level-less events are not counted.
func (h *LevelCounter) Run(_ *zerolog.Event, level zerolog.Level, _ string) {
	if level == zerolog.NoLevel {
		return
	}

	h.events.WithLabelValues(level.String()).Inc()
}

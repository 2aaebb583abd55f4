package bulk

import (
	"context"
	"log/slog"
	"time"

	"github.com/viant/reviewflow/internal/clock"
	"github.com/viant/reviewflow/internal/idgen"
	"github.com/viant/reviewflow/progress"
)

// Options customises one bulk run.
type Options struct {
	Concurrency          int    // chunk size, DefaultConcurrency when <= 0
	AutoPublish          bool
	DefaultQualityRating *int
	AdminNotes           string
	OnProgress           func(progress.Snapshot)
}

// Option customises the bulk service.
type Option func(*Service)

// WithPause sets the delay between chunks.
func WithPause(pause time.Duration) Option {
	return func(s *Service) {
		if pause >= 0 {
			s.pause = pause
		}
	}
}

// WithConcurrency sets the default chunk size.
func WithConcurrency(concurrency int) Option {
	return func(s *Service) {
		if concurrency > 0 {
			s.concurrency = concurrency
		}
	}
}

// WithSleep replaces the pause implementation.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(s *Service) {
		if sleep != nil {
			s.sleep = sleep
		}
	}
}

// WithClock sets the clock used for run start times.
func WithClock(now clock.Func) Option {
	return func(s *Service) { s.now = clock.OrDefault(now) }
}

// WithIDGenerator sets the run id generator.
func WithIDGenerator(fn idgen.Func) Option {
	return func(s *Service) { s.newID = idgen.OrDefault(fn) }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

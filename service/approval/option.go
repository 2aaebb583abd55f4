package approval

import (
	"log/slog"

	"github.com/viant/reviewflow/internal/clock"
	"github.com/viant/reviewflow/service/training"
)

// Option customises the approval service.
type Option func(*Service)

// WithNotifier sets where training signals of approved items go.
func WithNotifier(notifier training.Notifier) Option {
	return func(s *Service) {
		if notifier != nil {
			s.notifier = notifier
		}
	}
}

// WithClock sets the clock used for review and edit timestamps.
func WithClock(now clock.Func) Option {
	return func(s *Service) { s.now = clock.OrDefault(now) }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

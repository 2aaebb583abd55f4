package scorer

import "github.com/viant/reviewflow/internal/clock"

// Option customises the scorer.
type Option func(*Service)

// WithClock sets the clock used to stamp ComputedAt.
func WithClock(now clock.Func) Option {
	return func(s *Service) { s.now = clock.OrDefault(now) }
}

// WithMarkers replaces the introduction and conclusion phrases the structure
// bucket looks for.
func WithMarkers(intro, conclusion []string) Option {
	return func(s *Service) {
		if len(intro) > 0 {
			s.introMarkers = lower(intro)
		}
		if len(conclusion) > 0 {
			s.conclusionMarkers = lower(conclusion)
		}
	}
}

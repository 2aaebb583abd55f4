package queue

import (
	"log/slog"

	"github.com/viant/reviewflow/internal/clock"
	"github.com/viant/reviewflow/internal/idgen"
	"github.com/viant/reviewflow/internal/keylock"
	"github.com/viant/reviewflow/policy"
	"github.com/viant/reviewflow/service/scorer"
)

// Option customises the queue.
type Option func(*Service)

// WithScorer sets the quality scorer.
func WithScorer(s *scorer.Service) Option {
	return func(q *Service) { q.scorer = s }
}

// WithPolicy sets the auto approval policy. A policy carried by the context
// of an Enqueue call takes precedence.
func WithPolicy(p *policy.Policy) Option {
	return func(q *Service) { q.policy = p }
}

// WithThreshold sets the overall score at which items are auto approved.
func WithThreshold(threshold int) Option {
	return func(q *Service) { q.threshold = threshold }
}

// WithDefaultLimit sets the page size used when a filter has none.
func WithDefaultLimit(limit int) Option {
	return func(q *Service) {
		if limit > 0 {
			q.defaultLimit = limit
		}
	}
}

// WithClock sets the clock.
func WithClock(now clock.Func) Option {
	return func(q *Service) { q.now = clock.OrDefault(now) }
}

// WithIDGenerator sets the item id generator.
func WithIDGenerator(fn idgen.Func) Option {
	return func(q *Service) { q.newID = idgen.OrDefault(fn) }
}

// WithLocks shares per content id locks with other services.
func WithLocks(locks *keylock.Map) Option {
	return func(q *Service) {
		if locks != nil {
			q.locks = locks
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(q *Service) {
		if logger != nil {
			q.logger = logger
		}
	}
}

// EnqueueOption customises a single Enqueue call.
type EnqueueOption func(*enqueueOptions)

type enqueueOptions struct {
	batchJobID string
	priority   int
}

// WithBatchJobID tags the item with the generation batch it came from.
func WithBatchJobID(id string) EnqueueOption {
	return func(o *enqueueOptions) { o.batchJobID = id }
}

// WithPriority sets the item priority.
func WithPriority(priority int) EnqueueOption {
	return func(o *enqueueOptions) { o.priority = priority }
}

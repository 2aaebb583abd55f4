package reviewflow

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/viant/reviewflow/errs"
	"github.com/viant/reviewflow/internal/clock"
	"github.com/viant/reviewflow/internal/idgen"
	"github.com/viant/reviewflow/model"
	"github.com/viant/reviewflow/policy"
	"github.com/viant/reviewflow/service/approval"
	"github.com/viant/reviewflow/service/bulk"
	"github.com/viant/reviewflow/service/dao/review"
	fsreview "github.com/viant/reviewflow/service/dao/review/fs"
	mreview "github.com/viant/reviewflow/service/dao/review/memory"
	pgreview "github.com/viant/reviewflow/service/dao/review/postgres"
	mmemory "github.com/viant/reviewflow/service/messaging/memory"
	"github.com/viant/reviewflow/service/metrics"
	"github.com/viant/reviewflow/service/queue"
	"github.com/viant/reviewflow/service/training"
	"github.com/viant/reviewflow/tracing"
)

// Version is reported to the tracing resource.
const Version = "0.1.0"

// Service is the review engine facade. Each instance owns its store, locks
// and training listener; create it with New and release it with Close.
type Service struct {
	config          *Config
	store           review.Store
	policy          *policy.Policy
	notifier        training.Notifier
	trainingHandler training.Handler
	logger          *slog.Logger
	now             clock.Func
	newID           idgen.Func
	pause           *time.Duration
	tracing         bool

	queue    *queue.Service
	approval *approval.Service
	bulk     *bulk.Service
	listener *training.Listener
	signals  *mmemory.Queue[training.Signal]
	closers  []io.Closer

	closeOnce sync.Once
	closeErr  error
}

// Enqueue scores a candidate and adds it to the queue. Items meeting the
// auto approval threshold are stored as auto_approved.
func (s *Service) Enqueue(ctx context.Context, candidate *model.Candidate, options ...queue.EnqueueOption) (*model.ReviewItem, error) {
	return s.queue.Enqueue(ctx, candidate, options...)
}

// List returns a filtered, sorted page plus a summary of the filtered set.
func (s *Service) List(ctx context.Context, filter model.Filter) (*model.ListResult, error) {
	return s.queue.List(ctx, filter)
}

// Get returns the item with the given content id, falling back to the engine
// item id.
func (s *Service) Get(ctx context.Context, id string) (*model.ReviewItem, error) {
	item, err := s.queue.GetByContentID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		if item, err = s.queue.GetByID(ctx, id); err != nil {
			return nil, err
		}
	}
	if item == nil {
		return nil, errs.NotFound("get", id)
	}
	return item, nil
}

// Approve approves a pending item.
func (s *Service) Approve(ctx context.Context, contentID, adminID string, options approval.ApproveOptions) (*model.ApprovalResult, error) {
	return s.approval.Approve(ctx, contentID, adminID, options)
}

// Reject rejects a pending item with a reason.
func (s *Service) Reject(ctx context.Context, contentID, adminID, reason string, options approval.RejectOptions) (*model.ApprovalResult, error) {
	return s.approval.Reject(ctx, contentID, adminID, reason, options)
}

// Edit applies edits to a pending item and rescores it.
func (s *Service) Edit(ctx context.Context, contentID, adminID string, edits *approval.Edits) (*model.EditResult, error) {
	return s.approval.Edit(ctx, contentID, adminID, edits)
}

// BulkApprove approves contentIDs in chunks; see bulk.Service.
func (s *Service) BulkApprove(ctx context.Context, contentIDs []string, adminID string, options bulk.Options) (*model.BulkResult, error) {
	return s.bulk.BulkApprove(ctx, contentIDs, adminID, options)
}

// BulkReject is not supported.
func (s *Service) BulkReject(ctx context.Context, contentIDs []string, adminID, reason string) (*model.BulkResult, error) {
	return s.bulk.BulkReject(ctx, contentIDs, adminID, reason)
}

// Statistics aggregates metrics over every item.
func (s *Service) Statistics(ctx context.Context) (model.ReviewMetrics, error) {
	items, err := s.queue.Snapshot(ctx)
	if err != nil {
		return model.ReviewMetrics{}, err
	}
	return metrics.Compute(items), nil
}

// Config returns the effective configuration.
func (s *Service) Config() *Config {
	return s.config
}

// TrainingBacklog returns the number of signals waiting for the training
// handler, zero when an external notifier is used.
func (s *Service) TrainingBacklog() int {
	if s.signals == nil {
		return 0
	}
	return s.signals.Size()
}

// Close stops the training listener and releases the store. It is safe to
// call more than once.
func (s *Service) Close() error {
	s.closeOnce.Do(func() {
		if s.listener != nil {
			s.listener.Stop()
		}
		var errList []error
		for i := len(s.closers) - 1; i >= 0; i-- {
			if err := s.closers[i].Close(); err != nil {
				errList = append(errList, err)
			}
		}
		if s.tracing {
			if err := tracing.Shutdown(context.Background()); err != nil {
				errList = append(errList, err)
			}
		}
		s.closeErr = errors.Join(errList...)
	})
	return s.closeErr
}

func (s *Service) init(ctx context.Context, options []Option) error {
	for _, option := range options {
		option(s)
	}
	if err := s.config.Validate(); err != nil {
		return err
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	s.now = clock.OrDefault(s.now)
	s.newID = idgen.OrDefault(s.newID)
	if s.policy == nil {
		s.policy = policy.FromConfig(&s.config.Policy)
	}
	if s.config.Tracing.Enabled && !s.tracing {
		if err := tracing.Init(s.config.Tracing.ServiceName, Version, s.config.Tracing.Output); err != nil {
			s.logger.Warn("tracing disabled", "error", err)
		} else {
			s.tracing = true
		}
	}
	if err := s.ensureStore(ctx); err != nil {
		return err
	}
	s.ensureTraining(ctx)

	s.queue = queue.New(s.store,
		queue.WithPolicy(s.policy),
		queue.WithThreshold(s.config.Queue.AutoApprovalThreshold),
		queue.WithDefaultLimit(s.config.Queue.DefaultLimit),
		queue.WithClock(s.now),
		queue.WithIDGenerator(s.newID),
		queue.WithLogger(s.logger))
	s.approval = approval.New(s.queue,
		approval.WithNotifier(s.notifier),
		approval.WithClock(s.now),
		approval.WithLogger(s.logger))
	pause := s.config.Bulk.Pause
	if s.pause != nil {
		pause = *s.pause
	}
	s.bulk = bulk.New(s.approval,
		bulk.WithConcurrency(s.config.Bulk.Concurrency),
		bulk.WithPause(pause),
		bulk.WithClock(s.now),
		bulk.WithIDGenerator(s.newID),
		bulk.WithLogger(s.logger))
	return nil
}

func (s *Service) ensureStore(ctx context.Context) error {
	if s.store != nil {
		return nil
	}
	cfg := s.config.Store
	switch cfg.Kind {
	case "", StoreMemory:
		s.store = mreview.New()
	case StoreFS:
		store, err := fsreview.New(ctx, cfg.URL, fsreview.WithLogger(s.logger))
		if err != nil {
			return err
		}
		s.store = store
	case StorePostgres:
		store, err := pgreview.Open(ctx, cfg.DSN, cfg.Table)
		if err != nil {
			return err
		}
		if err = store.EnsureSchema(ctx); err != nil {
			_ = store.Close()
			return err
		}
		s.store = store
		s.closers = append(s.closers, store)
	default:
		return fmt.Errorf("unsupported store kind: %q", cfg.Kind)
	}
	return nil
}

func (s *Service) ensureTraining(ctx context.Context) {
	if s.notifier != nil {
		return
	}
	queueConfig := mmemory.DefaultConfig()
	if s.config.Training.QueueBuffer > 0 {
		queueConfig.QueueBuffer = s.config.Training.QueueBuffer
	}
	s.signals = mmemory.NewQueue[training.Signal](queueConfig)
	s.notifier = training.NewQueueNotifier(s.signals)
	handler := s.trainingHandler
	if handler == nil {
		handler = training.LogHandler(s.logger.With("component", "training"))
	}
	s.listener = training.NewListener(s.signals, handler, s.logger)
	s.listener.Start(context.WithoutCancel(ctx))
}

// New creates a Service. ctx is used to open the configured store.
func New(ctx context.Context, options ...Option) (*Service, error) {
	ret := &Service{config: DefaultConfig()}
	if err := ret.init(ctx, options); err != nil {
		_ = ret.Close()
		return nil, err
	}
	return ret, nil
}

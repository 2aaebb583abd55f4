package bulk

import (
	"context"
	"log/slog"
	"time"

	"github.com/sourcegraph/conc/pool"
	"github.com/viant/reviewflow/errs"
	"github.com/viant/reviewflow/internal/clock"
	"github.com/viant/reviewflow/internal/idgen"
	"github.com/viant/reviewflow/model"
	"github.com/viant/reviewflow/progress"
	"github.com/viant/reviewflow/service/approval"
	"github.com/viant/reviewflow/tracing"
)

const (
	// DefaultConcurrency is the default chunk size.
	DefaultConcurrency = 5
	// DefaultPause separates consecutive chunks.
	DefaultPause = time.Second
)

// Approver approves a single item.
type Approver interface {
	Approve(ctx context.Context, contentID, adminID string, options approval.ApproveOptions) (*model.ApprovalResult, error)
}

// Service runs bulk operations.
type Service struct {
	approver    Approver
	concurrency int
	pause       time.Duration
	sleep       func(ctx context.Context, d time.Duration) error
	now         clock.Func
	newID       idgen.Func
	logger      *slog.Logger
}

type outcome struct {
	result *model.ApprovalResult
	err    error
}

// BulkApprove approves contentIDs in order, in chunks of options.Concurrency.
// Per item failures are collected in the result; only a missing adminID fails
// the whole call. ctx is checked between chunks: once it is done, every id not
// yet processed is reported in Errors with the context error.
func (s *Service) BulkApprove(ctx context.Context, contentIDs []string, adminID string, options Options) (result *model.BulkResult, err error) {
	const op = "bulkApprove"
	if adminID == "" {
		return nil, errs.Validation(op, "adminId is required")
	}
	result = &model.BulkResult{Results: []*model.ApprovalResult{}, Errors: []model.BulkError{}}
	if len(contentIDs) == 0 {
		return result, nil
	}
	concurrency := options.Concurrency
	if concurrency <= 0 {
		concurrency = s.concurrency
	}

	ctx, span := tracing.StartSpan(ctx, "bulk.approve", tracing.KindInternal)
	span.WithInt("items", len(contentIDs)).WithInt("concurrency", concurrency)
	defer func() { tracing.EndSpan(span, err) }()

	tracker := progress.New(s.newID(), "bulk.approve", s.now())
	tracker.OnChange(options.OnProgress)
	ctx = progress.WithTracker(ctx, tracker)
	progress.UpdateCtx(ctx, progress.Delta{Total: len(contentIDs), Pending: len(contentIDs)})

	approveOptions := approval.ApproveOptions{
		Notes:         options.AdminNotes,
		QualityRating: options.DefaultQualityRating,
		AutoPublish:   options.AutoPublish,
	}
	for offset := 0; offset < len(contentIDs); offset += concurrency {
		if offset > 0 {
			if err := s.sleep(ctx, s.pause); err != nil {
				s.abort(ctx, result, contentIDs[offset:], err)
				break
			}
		}
		if err := ctx.Err(); err != nil {
			s.abort(ctx, result, contentIDs[offset:], err)
			break
		}
		chunk := contentIDs[offset:min(offset+concurrency, len(contentIDs))]
		s.collect(ctx, result, chunk, s.runChunk(ctx, chunk, adminID, approveOptions))
	}
	s.logger.Info("bulk approve finished",
		"adminId", adminID,
		"items", len(contentIDs),
		"successCount", result.SuccessCount,
		"errorCount", result.ErrorCount,
	)
	return result, nil
}

// runChunk approves every id of chunk concurrently. Cancelling ctx does not
// interrupt a started chunk.
func (s *Service) runChunk(ctx context.Context, chunk []string, adminID string, options approval.ApproveOptions) []outcome {
	outcomes := make([]outcome, len(chunk))
	runCtx := context.WithoutCancel(ctx)
	p := pool.New().WithMaxGoroutines(len(chunk))
	for i, contentID := range chunk {
		p.Go(func() {
			res, err := s.approver.Approve(runCtx, contentID, adminID, options)
			outcomes[i] = outcome{result: res, err: err}
		})
	}
	p.Wait()
	return outcomes
}

func (s *Service) collect(ctx context.Context, result *model.BulkResult, chunk []string, outcomes []outcome) {
	for i, o := range outcomes {
		if o.err != nil {
			result.ErrorCount++
			result.Errors = append(result.Errors, model.BulkError{ContentID: chunk[i], Error: o.err.Error()})
			progress.UpdateCtx(ctx, progress.Delta{Failed: 1, Pending: -1})
			continue
		}
		result.SuccessCount++
		result.Results = append(result.Results, o.result)
		progress.UpdateCtx(ctx, progress.Delta{Completed: 1, Pending: -1})
	}
}

func (s *Service) abort(ctx context.Context, result *model.BulkResult, remaining []string, cause error) {
	s.logger.Warn("bulk approve interrupted", "remaining", len(remaining), "error", cause)
	for _, contentID := range remaining {
		result.ErrorCount++
		result.Errors = append(result.Errors, model.BulkError{ContentID: contentID, Error: cause.Error()})
		progress.UpdateCtx(ctx, progress.Delta{Failed: 1, Pending: -1})
	}
}

// BulkReject is not supported.
func (s *Service) BulkReject(_ context.Context, _ []string, _, _ string) (*model.BulkResult, error) {
	return nil, errs.NotImplemented("bulkReject")
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// New creates a bulk service approving through approver.
func New(approver Approver, options ...Option) *Service {
	ret := &Service{
		approver:    approver,
		concurrency: DefaultConcurrency,
		pause:       DefaultPause,
		sleep:       sleep,
		now:         clock.Now,
		newID:       idgen.New,
		logger:      slog.Default(),
	}
	for _, opt := range options {
		opt(ret)
	}
	ret.logger = ret.logger.With("component", "bulk")
	return ret
}

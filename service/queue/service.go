package queue

import (
	"context"
	"log/slog"
	"sort"

	"github.com/viant/reviewflow/errs"
	"github.com/viant/reviewflow/internal/clock"
	"github.com/viant/reviewflow/internal/idgen"
	"github.com/viant/reviewflow/internal/keylock"
	"github.com/viant/reviewflow/internal/text"
	"github.com/viant/reviewflow/model"
	"github.com/viant/reviewflow/policy"
	"github.com/viant/reviewflow/service/dao"
	"github.com/viant/reviewflow/service/dao/review"
	"github.com/viant/reviewflow/service/metrics"
	"github.com/viant/reviewflow/service/scorer"
	"github.com/viant/reviewflow/tracing"
)

const (
	// DefaultThreshold is the overall score at which items are auto approved.
	DefaultThreshold = 85
	// DefaultLimit is the page size of a listing without limit.
	DefaultLimit = 20
	// AutoReviewer is recorded as reviewer of auto approved items.
	AutoReviewer = "system:auto"
)

// Service is the review queue.
type Service struct {
	store        review.Store
	scorer       *scorer.Service
	policy       *policy.Policy
	threshold    int
	defaultLimit int
	locks        *keylock.Map
	now          clock.Func
	newID        idgen.Func
	logger       *slog.Logger
}

// Enqueue scores candidate and files it as pending or auto approved.
func (s *Service) Enqueue(ctx context.Context, candidate *model.Candidate, options ...EnqueueOption) (item *model.ReviewItem, err error) {
	const op = "enqueue"
	if candidate == nil {
		return nil, errs.Validation(op, "candidate is required")
	}
	if candidate.ContentID == "" {
		return nil, errs.Validation(op, "contentId is required")
	}
	opts := &enqueueOptions{priority: model.DefaultPriority}
	for _, opt := range options {
		opt(opts)
	}

	ctx, span := tracing.StartSpan(ctx, "queue.enqueue", tracing.KindInternal)
	span.WithAttributes(map[string]string{"contentId": candidate.ContentID})
	defer func() { tracing.EndSpan(span, err) }()

	release := s.locks.Lock(candidate.ContentID)
	defer release()

	existing, err := s.store.Load(ctx, candidate.ContentID)
	if err != nil && !dao.IsNotFound(err) {
		return nil, errs.Internal(op, candidate.ContentID, err)
	}
	if existing != nil {
		return nil, errs.Conflict(op, candidate.ContentID, "content is already queued as %s", existing.Status)
	}

	item = &model.ReviewItem{
		ID:         s.newID(),
		ContentID:  candidate.ContentID,
		BatchJobID: opts.batchJobID,
		Content:    candidate.Content.Clone(),
		Priority:   opts.priority,
		Status:     model.StatusPending,
		CreatedAt:  s.now(),
	}
	s.Rescore(item)

	p := policy.FromContext(ctx)
	if p == nil {
		p = s.policy
	}
	if p.AutoApprove(ctx, item, s.threshold) {
		reviewedAt := item.CreatedAt
		item.Status = model.StatusAutoApproved
		item.ReviewedAt = &reviewedAt
		item.ReviewedBy = AutoReviewer
	}
	if err = s.store.Save(ctx, item); err != nil {
		return nil, errs.Internal(op, candidate.ContentID, err)
	}
	span.WithInt("overall", item.QualityScore.Overall)
	s.logger.Info("content enqueued",
		"contentId", item.ContentID,
		"id", item.ID,
		"status", item.Status,
		"overall", item.QualityScore.Overall,
		"priority", item.Priority,
	)
	return item.Clone(), nil
}

// Rescore recomputes the quality score and the body derived fields of item.
func (s *Service) Rescore(item *model.ReviewItem) {
	words := text.WordCount(item.Content.Body)
	item.Content.Metadata.WordCount = words
	item.Content.Metadata.ReadingTime = text.ReadingTime(words)
	item.EstimatedReadTime = item.Content.Metadata.ReadingTime
	item.Preview = text.Preview(item.Content.Body, text.PreviewLength)
	item.QualityScore = s.scorer.Score(&item.Content)
}

// List returns a page of items matching filter, ordered by priority then age.
func (s *Service) List(ctx context.Context, filter model.Filter) (*model.ListResult, error) {
	const op = "list"
	var params []*dao.Parameter
	if filter.Status != nil {
		if !filter.Status.IsValid() {
			return nil, errs.Validation(op, "unknown status %q", *filter.Status)
		}
		params = append(params, dao.NewParameter(dao.ParamStatus, string(*filter.Status)))
	}
	if filter.BatchJobID != "" {
		params = append(params, dao.NewParameter(dao.ParamBatchJobID, filter.BatchJobID))
	}
	items, err := s.store.List(ctx, params...)
	if err != nil {
		return nil, errs.Internal(op, "", err)
	}
	if filter.Priority != nil {
		minRank := model.BucketOf(*filter.Priority).Rank()
		filtered := items[:0]
		for _, item := range items {
			if item.Bucket().Rank() >= minRank {
				filtered = append(filtered, item)
			}
		}
		items = filtered
	}
	Sort(items)

	limit, offset := filter.Limit, filter.Offset
	if limit <= 0 {
		limit = s.defaultLimit
	}
	if offset < 0 {
		offset = 0
	}
	total := len(items)
	start := min(offset, total)
	end := min(start+limit, total)
	return &model.ListResult{
		Items:   items[start:end],
		Summary: metrics.Compute(items),
		Pagination: model.Pagination{
			Total:   total,
			Limit:   limit,
			Offset:  offset,
			HasNext: end < total,
		},
	}, nil
}

// Sort orders items by priority descending, then creation time ascending,
// then id.
func Sort(items []*model.ReviewItem) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}

// GetByID returns the item with the engine id, nil when absent.
func (s *Service) GetByID(ctx context.Context, id string) (*model.ReviewItem, error) {
	if id == "" {
		return nil, nil
	}
	items, err := s.store.List(ctx, dao.NewParameter(dao.ParamID, id))
	if err != nil {
		return nil, errs.Internal("get", "", err)
	}
	if len(items) == 0 {
		return nil, nil
	}
	return items[0], nil
}

// GetByContentID returns the item with the content id, nil when absent.
func (s *Service) GetByContentID(ctx context.Context, contentID string) (*model.ReviewItem, error) {
	if contentID == "" {
		return nil, nil
	}
	item, err := s.store.Load(ctx, contentID)
	if err != nil {
		if dao.IsNotFound(err) {
			return nil, nil
		}
		return nil, errs.Internal("get", contentID, err)
	}
	return item, nil
}

// Snapshot returns a copy of every item.
func (s *Service) Snapshot(ctx context.Context) ([]*model.ReviewItem, error) {
	items, err := s.store.List(ctx)
	if err != nil {
		return nil, errs.Internal("snapshot", "", err)
	}
	return items, nil
}

// Save commits item. Callers must hold the item lock.
func (s *Service) Save(ctx context.Context, item *model.ReviewItem) error {
	if err := s.store.Save(ctx, item); err != nil {
		contentID := ""
		if item != nil {
			contentID = item.ContentID
		}
		return errs.Internal("save", contentID, err)
	}
	return nil
}

// Locks returns the per content id locks.
func (s *Service) Locks() *keylock.Map { return s.locks }

// New creates a queue over store.
func New(store review.Store, options ...Option) *Service {
	ret := &Service{
		store:        store,
		threshold:    DefaultThreshold,
		defaultLimit: DefaultLimit,
		locks:        &keylock.Map{},
		now:          clock.Now,
		newID:        idgen.New,
		logger:       slog.Default(),
	}
	for _, opt := range options {
		opt(ret)
	}
	if ret.scorer == nil {
		ret.scorer = scorer.New(scorer.WithClock(ret.now))
	}
	ret.logger = ret.logger.With("component", "queue")
	return ret
}

package approval

import (
	"context"
	"log/slog"
	"math"
	"slices"
	"time"

	"github.com/viant/reviewflow/errs"
	"github.com/viant/reviewflow/internal/clock"
	"github.com/viant/reviewflow/model"
	"github.com/viant/reviewflow/service/queue"
	"github.com/viant/reviewflow/service/training"
	"github.com/viant/reviewflow/tracing"
)

// Service applies review decisions to queued items.
type Service struct {
	queue    *queue.Service
	notifier training.Notifier
	now      clock.Func
	logger   *slog.Logger
}

// Approve moves a pending item to approved and emits a training signal.
func (s *Service) Approve(ctx context.Context, contentID, adminID string, options ApproveOptions) (result *model.ApprovalResult, err error) {
	const op = "approve"
	if err = requireValue(op, "contentId", contentID); err != nil {
		return nil, err
	}
	if err = requireValue(op, "adminId", adminID); err != nil {
		return nil, err
	}
	if err = checkRating(op, options.QualityRating); err != nil {
		return nil, err
	}
	if !options.Edits.IsEmpty() {
		if err = options.Edits.validate(op); err != nil {
			return nil, err
		}
	}

	ctx, span := tracing.StartSpan(ctx, "approval.approve", tracing.KindInternal)
	span.WithAttributes(map[string]string{"contentId": contentID, "adminId": adminID})
	defer func() { tracing.EndSpan(span, err) }()

	release := s.queue.Locks().Lock(contentID)
	defer release()

	item, err := s.load(ctx, op, contentID)
	if err != nil {
		return nil, err
	}
	if item.Status != model.StatusPending {
		return nil, errs.Conflict(op, contentID, "cannot approve item in status %s", item.Status)
	}

	now := s.now()
	if !options.Edits.IsEmpty() {
		if applyEdits(item, options.Edits, adminID, now) > 0 {
			s.queue.Rescore(item)
			item.LastEditedBy = adminID
			item.LastEditedAt = &now
		}
	}
	rating := resolveRating(options.QualityRating, item.QualityScore.Overall)
	item.Status = model.StatusApproved
	item.ReviewedBy = adminID
	item.ReviewedAt = &now
	item.AdminNotes = options.Notes
	item.QualityRating = &rating
	if err = s.queue.Save(ctx, item); err != nil {
		return nil, err
	}

	if notifyErr := s.notifier.Notify(ctx, training.NewSignal(item, rating, adminID, now)); notifyErr != nil {
		s.logger.Warn("failed to emit training signal", "contentId", contentID, "error", notifyErr)
	}
	s.logger.Info("content approved", "contentId", contentID, "adminId", adminID, "qualityRating", rating, "autoPublish", options.AutoPublish)
	return &model.ApprovalResult{
		Success:                true,
		ContentID:              contentID,
		Status:                 item.Status,
		ReviewedBy:             adminID,
		ReviewedAt:             now,
		QualityRating:          rating,
		QueuedForPublishing:    options.AutoPublish,
		AddedToTrainingDataset: true,
	}, nil
}

// Reject moves a pending item to rejected. Rejecting a rejected item
// returns its current state without changes.
func (s *Service) Reject(ctx context.Context, contentID, adminID, reason string, options RejectOptions) (result *model.ApprovalResult, err error) {
	const op = "reject"
	if err = requireValue(op, "contentId", contentID); err != nil {
		return nil, err
	}
	if err = requireValue(op, "adminId", adminID); err != nil {
		return nil, err
	}
	if err = requireValue(op, "reason", reason); err != nil {
		return nil, err
	}

	ctx, span := tracing.StartSpan(ctx, "approval.reject", tracing.KindInternal)
	span.WithAttributes(map[string]string{"contentId": contentID, "adminId": adminID})
	defer func() { tracing.EndSpan(span, err) }()

	release := s.queue.Locks().Lock(contentID)
	defer release()

	item, err := s.load(ctx, op, contentID)
	if err != nil {
		return nil, err
	}
	switch item.Status {
	case model.StatusRejected:
		return rejectResult(item, options), nil
	case model.StatusPending:
	default:
		return nil, errs.Conflict(op, contentID, "cannot reject item in status %s", item.Status)
	}

	now := s.now()
	item.Status = model.StatusRejected
	item.ReviewedBy = adminID
	item.ReviewedAt = &now
	item.AdminNotes = reason
	if err = s.queue.Save(ctx, item); err != nil {
		return nil, err
	}
	s.logger.Info("content rejected", "contentId", contentID, "adminId", adminID, "regenerate", options.Regenerate)
	return rejectResult(item, options), nil
}

func rejectResult(item *model.ReviewItem, options RejectOptions) *model.ApprovalResult {
	ret := &model.ApprovalResult{
		Success:               true,
		ContentID:             item.ContentID,
		Status:                item.Status,
		ReviewedBy:            item.ReviewedBy,
		RegenerationRequested: options.Regenerate,
	}
	if item.ReviewedAt != nil {
		ret.ReviewedAt = *item.ReviewedAt
	}
	return ret
}

// Edit changes content fields of a pending item, records every changed field
// in the edit history and rescores the item. The item passes through editing
// and is pending again when the call returns.
func (s *Service) Edit(ctx context.Context, contentID, adminID string, edits *Edits) (result *model.EditResult, err error) {
	const op = "edit"
	if err = requireValue(op, "contentId", contentID); err != nil {
		return nil, err
	}
	if err = requireValue(op, "adminId", adminID); err != nil {
		return nil, err
	}
	if err = edits.validate(op); err != nil {
		return nil, err
	}

	ctx, span := tracing.StartSpan(ctx, "approval.edit", tracing.KindInternal)
	span.WithAttributes(map[string]string{"contentId": contentID, "adminId": adminID})
	defer func() { tracing.EndSpan(span, err) }()

	release := s.queue.Locks().Lock(contentID)
	defer release()

	item, err := s.load(ctx, op, contentID)
	if err != nil {
		return nil, err
	}
	if item.Status != model.StatusPending {
		return nil, errs.Conflict(op, contentID, "cannot edit item in status %s", item.Status)
	}

	item.Status = model.StatusEditing
	now := s.now()
	changed := applyEdits(item, edits, adminID, now)
	item.Status = model.StatusPending
	if changed == 0 {
		return &model.EditResult{Success: true, Content: item}, nil
	}
	s.queue.Rescore(item)
	item.LastEditedBy = adminID
	item.LastEditedAt = &now
	if err = s.queue.Save(ctx, item); err != nil {
		return nil, err
	}
	span.WithInt("changedFields", changed)
	s.logger.Info("content edited", "contentId", contentID, "adminId", adminID, "changedFields", changed, "overall", item.QualityScore.Overall)
	return &model.EditResult{Success: true, Content: item.Clone()}, nil
}

func (s *Service) load(ctx context.Context, op, contentID string) (*model.ReviewItem, error) {
	item, err := s.queue.GetByContentID(ctx, contentID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, errs.NotFound(op, contentID)
	}
	return item, nil
}

// resolveRating returns override, or the overall score mapped onto 1-10.
func resolveRating(override *int, overall int) int {
	if override != nil {
		return *override
	}
	rating := int(math.Round(float64(overall) / 10))
	return max(MinQualityRating, min(MaxQualityRating, rating))
}

// applyEdits sets edited fields on item and appends one history entry per
// changed field. It returns the number of changed fields.
func applyEdits(item *model.ReviewItem, edits *Edits, adminID string, at time.Time) int {
	changed := 0
	record := func(field string, oldValue, newValue interface{}) {
		item.EditHistory = append(item.EditHistory, model.ContentEdit{
			Field:     field,
			OldValue:  oldValue,
			NewValue:  newValue,
			Timestamp: at,
			AdminID:   adminID,
		})
		changed++
	}
	editString := func(field string, target *string, value *string) {
		if value == nil || *target == *value {
			return
		}
		record(field, *target, *value)
		*target = *value
	}
	content := &item.Content
	editString(FieldTitle, &content.Title, edits.Title)
	editString(FieldBody, &content.Body, edits.Body)
	editString(FieldExcerpt, &content.Excerpt, edits.Excerpt)
	if edits.Keywords != nil && !slices.Equal(content.Metadata.Keywords, *edits.Keywords) {
		keywords := slices.Clone(*edits.Keywords)
		record(FieldKeywords, slices.Clone(content.Metadata.Keywords), slices.Clone(keywords))
		content.Metadata.Keywords = keywords
	}
	editString(FieldSEOTitle, &content.Metadata.SEOTitle, edits.SEOTitle)
	editString(FieldSEODescription, &content.Metadata.SEODescription, edits.SEODescription)
	return changed
}

// New creates an approval service over the queue.
func New(q *queue.Service, options ...Option) *Service {
	ret := &Service{
		queue:    q,
		notifier: training.Discard,
		now:      clock.Now,
		logger:   slog.Default(),
	}
	for _, opt := range options {
		opt(ret)
	}
	ret.logger = ret.logger.With("component", "approval")
	return ret
}

package approval

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/reviewflow/errs"
	"github.com/viant/reviewflow/internal/clock"
	"github.com/viant/reviewflow/internal/idgen"
	"github.com/viant/reviewflow/model"
	"github.com/viant/reviewflow/service/dao/review/memory"
	"github.com/viant/reviewflow/service/queue"
	"github.com/viant/reviewflow/service/training"
)

var (
	start = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	quiet = slog.New(slog.NewTextHandler(io.Discard, nil))
)

type recorder struct {
	mu      sync.Mutex
	signals []*training.Signal
	err     error
}

func (r *recorder) Notify(_ context.Context, signal *training.Signal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.signals = append(r.signals, signal)
	return r.err
}

type fixture struct {
	queue    *queue.Service
	service  *Service
	recorder *recorder
}

func newFixture(t *testing.T) *fixture {
	now := clock.Stepper(start, time.Minute)
	q := queue.New(memory.New(),
		queue.WithClock(now),
		queue.WithIDGenerator(idgen.Sequence("item")),
		queue.WithLogger(quiet),
	)
	rec := &recorder{}
	return &fixture{
		queue:    q,
		recorder: rec,
		service:  New(q, WithClock(now), WithNotifier(rec), WithLogger(quiet)),
	}
}

func (f *fixture) enqueue(t *testing.T, contentID string, seo float64) *model.ReviewItem {
	item, err := f.queue.Enqueue(context.Background(), &model.Candidate{
		ContentID: contentID,
		Content: model.Content{
			Title:    "Original title",
			Body:     "Original body text.",
			Metadata: model.Metadata{SEOScore: seo, UniquenessScore: 0.5, Keywords: []string{"a"}},
		},
	})
	require.NoError(t, err)
	return item
}

func (f *fixture) get(t *testing.T, contentID string) *model.ReviewItem {
	item, err := f.queue.GetByContentID(context.Background(), contentID)
	require.NoError(t, err)
	require.NotNil(t, item)
	return item
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func strsPtr(v ...string) *[]string { return &v }

func TestService_Approve(t *testing.T) {
	ctx := context.Background()

	t.Run("approves pending and emits signal", func(t *testing.T) {
		f := newFixture(t)
		f.enqueue(t, "c1", 80) // 10+10+20+12.5 = 52.5 -> 52
		result, err := f.service.Approve(ctx, "c1", "admin-1", ApproveOptions{Notes: "good", AutoPublish: true})
		require.NoError(t, err)
		assert.True(t, result.Success)
		assert.Equal(t, model.StatusApproved, result.Status)
		assert.Equal(t, "admin-1", result.ReviewedBy)
		assert.Equal(t, 5, result.QualityRating)
		assert.True(t, result.QueuedForPublishing)
		assert.True(t, result.AddedToTrainingDataset)

		stored := f.get(t, "c1")
		assert.Equal(t, model.StatusApproved, stored.Status)
		assert.Equal(t, "good", stored.AdminNotes)
		require.NotNil(t, stored.QualityRating)
		assert.Equal(t, 5, *stored.QualityRating)
		require.NotNil(t, stored.ReviewedAt)
		assert.Equal(t, result.ReviewedAt, *stored.ReviewedAt)

		require.Len(t, f.recorder.signals, 1)
		signal := f.recorder.signals[0]
		assert.Equal(t, "c1", signal.ContentID)
		assert.True(t, signal.AdminApproved)
		assert.Equal(t, "admin-1", signal.ApprovedBy)
		assert.Equal(t, 5, signal.QualityRating)
	})

	t.Run("rating override", func(t *testing.T) {
		f := newFixture(t)
		f.enqueue(t, "c1", 0)
		result, err := f.service.Approve(ctx, "c1", "admin", ApproveOptions{QualityRating: intPtr(9)})
		require.NoError(t, err)
		assert.Equal(t, 9, result.QualityRating)
	})

	t.Run("edits applied before approval", func(t *testing.T) {
		f := newFixture(t)
		f.enqueue(t, "c1", 0)
		_, err := f.service.Approve(ctx, "c1", "admin", ApproveOptions{Edits: &Edits{Title: strPtr("Better title")}})
		require.NoError(t, err)
		stored := f.get(t, "c1")
		assert.Equal(t, "Better title", stored.Content.Title)
		assert.Len(t, stored.EditHistory, 1)
		assert.Equal(t, "admin", stored.LastEditedBy)
		assert.Equal(t, model.StatusApproved, stored.Status)
	})

	t.Run("notify failure does not roll back", func(t *testing.T) {
		f := newFixture(t)
		f.recorder.err = errors.New("queue full")
		f.enqueue(t, "c1", 0)
		result, err := f.service.Approve(ctx, "c1", "admin", ApproveOptions{})
		require.NoError(t, err)
		assert.True(t, result.Success)
		assert.Equal(t, model.StatusApproved, f.get(t, "c1").Status)
	})

	t.Run("validation", func(t *testing.T) {
		f := newFixture(t)
		f.enqueue(t, "c1", 0)
		_, err := f.service.Approve(ctx, "c1", "", ApproveOptions{})
		assert.True(t, errs.IsValidation(err))
		_, err = f.service.Approve(ctx, "c1", "  ", ApproveOptions{})
		assert.True(t, errs.IsValidation(err))
		_, err = f.service.Approve(ctx, "c1", "admin", ApproveOptions{QualityRating: intPtr(0)})
		assert.True(t, errs.IsValidation(err))
		_, err = f.service.Approve(ctx, "c1", "admin", ApproveOptions{QualityRating: intPtr(11)})
		assert.True(t, errs.IsValidation(err))
		assert.Equal(t, model.StatusPending, f.get(t, "c1").Status)
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.service.Approve(ctx, "missing", "admin", ApproveOptions{})
		assert.True(t, errs.IsNotFound(err))
	})

	t.Run("conflict leaves item unchanged", func(t *testing.T) {
		f := newFixture(t)
		f.enqueue(t, "c1", 0)
		_, err := f.service.Approve(ctx, "c1", "admin-1", ApproveOptions{Notes: "first"})
		require.NoError(t, err)
		before := f.get(t, "c1")

		_, err = f.service.Approve(ctx, "c1", "admin-2", ApproveOptions{Notes: "second"})
		assert.True(t, errs.IsConflict(err))
		assert.Equal(t, before, f.get(t, "c1"))
		assert.Len(t, f.recorder.signals, 1)
	})

	t.Run("auto approved and rejected are conflicts", func(t *testing.T) {
		f := newFixture(t)
		body := "# Overview\n\nIn this article we start.\n\n" + strings.Repeat("word ", 1100) + "\n\nIn conclusion, done."
		_, err := f.queue.Enqueue(ctx, &model.Candidate{ContentID: "auto", Content: model.Content{Body: body, Metadata: model.Metadata{SEOScore: 100, UniquenessScore: 1}}})
		require.NoError(t, err)
		_, err = f.service.Approve(ctx, "auto", "admin", ApproveOptions{})
		assert.True(t, errs.IsConflict(err))

		f.enqueue(t, "rejected", 0)
		_, err = f.service.Reject(ctx, "rejected", "admin", "off topic", RejectOptions{})
		require.NoError(t, err)
		_, err = f.service.Approve(ctx, "rejected", "admin", ApproveOptions{})
		assert.True(t, errs.IsConflict(err))
	})
}

func TestService_Approve_Concurrent(t *testing.T) {
	f := newFixture(t)
	f.enqueue(t, "c1", 0)
	var wg sync.WaitGroup
	var mu sync.Mutex
	successes, conflicts := 0, 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.service.Approve(context.Background(), "c1", "admin", ApproveOptions{})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errs.IsConflict(err):
				conflicts++
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, successes)
	assert.Equal(t, 19, conflicts)
	assert.Len(t, f.recorder.signals, 1)
	assert.Equal(t, 0, f.queue.Locks().Len())
}

func TestService_EditApprove_Concurrent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for i := 0; i < 20; i++ {
		contentID := fmt.Sprintf("c%d", i)
		f.enqueue(t, contentID, 0)

		var wg sync.WaitGroup
		var editErr, approveErr error
		ready := make(chan struct{})
		wg.Add(2)
		go func() {
			defer wg.Done()
			<-ready
			_, editErr = f.service.Edit(ctx, contentID, "editor", &Edits{Title: strPtr("Concurrent title")})
		}()
		go func() {
			defer wg.Done()
			<-ready
			_, approveErr = f.service.Approve(ctx, contentID, "admin", ApproveOptions{})
		}()
		close(ready)
		wg.Wait()

		require.NoError(t, approveErr)
		stored := f.get(t, contentID)
		assert.Equal(t, model.StatusApproved, stored.Status)
		if editErr == nil {
			assert.Equal(t, "Concurrent title", stored.Content.Title)
			assert.Len(t, stored.EditHistory, 1)
		} else {
			assert.True(t, errs.IsConflict(editErr), editErr)
			assert.Equal(t, "Original title", stored.Content.Title)
			assert.Empty(t, stored.EditHistory)
		}
	}
	assert.Equal(t, 0, f.queue.Locks().Len())
}

func TestService_Reject(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects pending", func(t *testing.T) {
		f := newFixture(t)
		f.enqueue(t, "c1", 0)
		result, err := f.service.Reject(ctx, "c1", "admin", "duplicate", RejectOptions{Regenerate: true})
		require.NoError(t, err)
		assert.Equal(t, model.StatusRejected, result.Status)
		assert.True(t, result.RegenerationRequested)
		assert.False(t, result.AddedToTrainingDataset)
		stored := f.get(t, "c1")
		assert.Equal(t, "duplicate", stored.AdminNotes)
		assert.Equal(t, "admin", stored.ReviewedBy)
		assert.Empty(t, f.recorder.signals)
	})

	t.Run("repeated reject is idempotent", func(t *testing.T) {
		f := newFixture(t)
		f.enqueue(t, "c1", 0)
		first, err := f.service.Reject(ctx, "c1", "admin-1", "duplicate", RejectOptions{})
		require.NoError(t, err)
		before := f.get(t, "c1")
		second, err := f.service.Reject(ctx, "c1", "admin-2", "another reason", RejectOptions{})
		require.NoError(t, err)
		assert.Equal(t, first.ReviewedAt, second.ReviewedAt)
		assert.Equal(t, "admin-1", second.ReviewedBy)
		assert.Equal(t, before, f.get(t, "c1"))
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.service.Reject(ctx, "missing", "admin", "reason", RejectOptions{})
		assert.True(t, errs.IsNotFound(err))
	})

	t.Run("approved is a conflict", func(t *testing.T) {
		f := newFixture(t)
		f.enqueue(t, "c1", 0)
		_, err := f.service.Approve(ctx, "c1", "admin", ApproveOptions{})
		require.NoError(t, err)
		_, err = f.service.Reject(ctx, "c1", "admin", "reason", RejectOptions{})
		assert.True(t, errs.IsConflict(err))
	})

	t.Run("validation", func(t *testing.T) {
		f := newFixture(t)
		f.enqueue(t, "c1", 0)
		_, err := f.service.Reject(ctx, "c1", "admin", "", RejectOptions{})
		assert.True(t, errs.IsValidation(err))
		_, err = f.service.Reject(ctx, "c1", "", "reason", RejectOptions{})
		assert.True(t, errs.IsValidation(err))
	})
}

func TestService_Edit(t *testing.T) {
	ctx := context.Background()

	t.Run("single field change", func(t *testing.T) {
		f := newFixture(t)
		original := f.enqueue(t, "c1", 0)
		result, err := f.service.Edit(ctx, "c1", "editor", &Edits{Title: strPtr("New title"), Body: strPtr("Original body text.")})
		require.NoError(t, err)
		assert.True(t, result.Success)
		item := result.Content
		assert.Equal(t, model.StatusPending, item.Status)
		require.Len(t, item.EditHistory, 1)
		entry := item.EditHistory[0]
		assert.Equal(t, FieldTitle, entry.Field)
		assert.Equal(t, "Original title", entry.OldValue)
		assert.Equal(t, "New title", entry.NewValue)
		assert.Equal(t, "editor", entry.AdminID)
		assert.Equal(t, "editor", item.LastEditedBy)
		require.NotNil(t, item.LastEditedAt)
		assert.Equal(t, entry.Timestamp, *item.LastEditedAt)
		assert.Equal(t, original.QualityScore.Overall, item.QualityScore.Overall)
		assert.Equal(t, item, f.get(t, "c1"))
	})

	t.Run("body edit rescores", func(t *testing.T) {
		f := newFixture(t)
		original := f.enqueue(t, "c1", 0)
		body := "# Heading\n\n" + strings.Repeat("word ", 600) + "\n\nsecond\n\nthird"
		result, err := f.service.Edit(ctx, "c1", "editor", &Edits{Body: &body, Keywords: strsPtr("a", "b")})
		require.NoError(t, err)
		item := result.Content
		assert.Len(t, item.EditHistory, 2)
		assert.Greater(t, item.QualityScore.Overall, original.QualityScore.Overall)
		assert.Equal(t, 4, item.EstimatedReadTime)
		assert.Equal(t, []string{"a", "b"}, item.Content.Metadata.Keywords)
		assert.Equal(t, []string{"a"}, item.EditHistory[1].OldValue)
	})

	t.Run("unchanged values record nothing", func(t *testing.T) {
		f := newFixture(t)
		f.enqueue(t, "c1", 0)
		result, err := f.service.Edit(ctx, "c1", "editor", &Edits{Title: strPtr("Original title")})
		require.NoError(t, err)
		assert.Empty(t, result.Content.EditHistory)
		assert.Empty(t, result.Content.LastEditedBy)
	})

	t.Run("validation", func(t *testing.T) {
		f := newFixture(t)
		f.enqueue(t, "c1", 0)
		_, err := f.service.Edit(ctx, "c1", "editor", &Edits{})
		assert.True(t, errs.IsValidation(err))
		_, err = f.service.Edit(ctx, "c1", "editor", nil)
		assert.True(t, errs.IsValidation(err))
		_, err = f.service.Edit(ctx, "c1", "", &Edits{Title: strPtr("x")})
		assert.True(t, errs.IsValidation(err))
		_, err = f.service.Edit(ctx, "c1", "editor", &Edits{Body: strPtr("  ")})
		assert.True(t, errs.IsValidation(err))
	})

	t.Run("not pending is a conflict", func(t *testing.T) {
		f := newFixture(t)
		f.enqueue(t, "c1", 0)
		_, err := f.service.Reject(ctx, "c1", "admin", "no", RejectOptions{})
		require.NoError(t, err)
		_, err = f.service.Edit(ctx, "c1", "editor", &Edits{Title: strPtr("x")})
		assert.True(t, errs.IsConflict(err))
		_, err = f.service.Edit(ctx, "missing", "editor", &Edits{Title: strPtr("x")})
		assert.True(t, errs.IsNotFound(err))
	})
}

func TestResolveRating(t *testing.T) {
	testCases := []struct {
		overall int
		expect  int
	}{
		{0, 1}, {4, 1}, {5, 1}, {15, 2}, {52, 5}, {92, 9}, {95, 10}, {100, 10},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.expect, resolveRating(nil, tc.overall), "overall=%d", tc.overall)
	}
	assert.Equal(t, 3, resolveRating(intPtr(3), 100))
}

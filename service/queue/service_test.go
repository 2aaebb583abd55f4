package queue

import (
	"context"
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
	"github.com/viant/reviewflow/policy"
	"github.com/viant/reviewflow/service/dao/review/memory"
)

var start = time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

func newTestQueue(options ...Option) *Service {
	options = append([]Option{
		WithClock(clock.Stepper(start, time.Second)),
		WithIDGenerator(idgen.Sequence("item")),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}, options...)
	return New(memory.New(), options...)
}

// highQuality scores 25+25+25+25.
func highQuality(contentID string) *model.Candidate {
	body := "# Overview\n\nIn this article we cover the basics.\n\n" +
		strings.TrimSpace(strings.Repeat("word ", 1100)) +
		"\n\nIn conclusion, that covers it."
	return &model.Candidate{
		ContentID: contentID,
		Content: model.Content{
			Title:    "High",
			Body:     body,
			Type:     "blog",
			Metadata: model.Metadata{SEOScore: 100, UniquenessScore: 1},
		},
	}
}

// lowQuality scores 10+10+5+5.
func lowQuality(contentID string) *model.Candidate {
	return &model.Candidate{
		ContentID: contentID,
		Content: model.Content{
			Title:    "Low",
			Body:     "A short **draft** body.",
			Metadata: model.Metadata{SEOScore: 20, UniquenessScore: 0.2, Keywords: []string{"draft"}},
		},
	}
}

func TestService_Enqueue(t *testing.T) {
	ctx := context.Background()

	t.Run("pending with derived fields", func(t *testing.T) {
		q := newTestQueue()
		item, err := q.Enqueue(ctx, lowQuality("c1"), WithBatchJobID("batch-1"))
		require.NoError(t, err)
		assert.Equal(t, "item-1", item.ID)
		assert.Equal(t, model.StatusPending, item.Status)
		assert.Equal(t, model.DefaultPriority, item.Priority)
		assert.Equal(t, "batch-1", item.BatchJobID)
		assert.Equal(t, 30, item.QualityScore.Overall)
		assert.Equal(t, "A short draft body.", item.Preview)
		assert.Equal(t, 4, item.Content.Metadata.WordCount)
		assert.Equal(t, 1, item.EstimatedReadTime)
		assert.Equal(t, start, item.CreatedAt)
		assert.Nil(t, item.ReviewedAt)
		assert.Empty(t, item.ReviewedBy)
	})

	t.Run("auto approved above threshold", func(t *testing.T) {
		q := newTestQueue()
		item, err := q.Enqueue(ctx, highQuality("c2"), WithPriority(3))
		require.NoError(t, err)
		assert.Equal(t, 100, item.QualityScore.Overall)
		assert.Equal(t, model.StatusAutoApproved, item.Status)
		assert.Equal(t, AutoReviewer, item.ReviewedBy)
		require.NotNil(t, item.ReviewedAt)
		assert.Equal(t, item.CreatedAt, *item.ReviewedAt)
		assert.Equal(t, 3, item.Priority)
	})

	t.Run("ask policy keeps item pending", func(t *testing.T) {
		q := newTestQueue(WithPolicy(&policy.Policy{Mode: policy.ModeAsk}))
		item, err := q.Enqueue(ctx, highQuality("c3"))
		require.NoError(t, err)
		assert.Equal(t, model.StatusPending, item.Status)
	})

	t.Run("context policy overrides", func(t *testing.T) {
		q := newTestQueue()
		item, err := q.Enqueue(policy.WithPolicy(ctx, &policy.Policy{Mode: policy.ModeAuto, BlockTypes: []string{"blog"}}), highQuality("c4"))
		require.NoError(t, err)
		assert.Equal(t, model.StatusPending, item.Status)
	})

	t.Run("custom threshold", func(t *testing.T) {
		q := newTestQueue(WithThreshold(30))
		item, err := q.Enqueue(ctx, lowQuality("c5"))
		require.NoError(t, err)
		assert.Equal(t, model.StatusAutoApproved, item.Status)
	})

	t.Run("validation and conflict", func(t *testing.T) {
		q := newTestQueue()
		_, err := q.Enqueue(ctx, nil)
		assert.True(t, errs.IsValidation(err))
		_, err = q.Enqueue(ctx, &model.Candidate{})
		assert.True(t, errs.IsValidation(err))

		_, err = q.Enqueue(ctx, lowQuality("dup"))
		require.NoError(t, err)
		_, err = q.Enqueue(ctx, lowQuality("dup"))
		assert.True(t, errs.IsConflict(err))
	})

	t.Run("returned item is a copy", func(t *testing.T) {
		q := newTestQueue()
		candidate := lowQuality("c6")
		item, err := q.Enqueue(ctx, candidate)
		require.NoError(t, err)
		item.Status = model.StatusRejected
		candidate.Content.Metadata.Keywords[0] = "mutated"
		stored, err := q.GetByContentID(ctx, "c6")
		require.NoError(t, err)
		assert.Equal(t, model.StatusPending, stored.Status)
		assert.Equal(t, []string{"draft"}, stored.Content.Metadata.Keywords)
	})
}

func TestService_Enqueue_Concurrent(t *testing.T) {
	q := newTestQueue()
	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := q.Enqueue(context.Background(), lowQuality("same")); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, succeeded)
}

func TestService_List(t *testing.T) {
	ctx := context.Background()
	q := newTestQueue()
	_, err := q.Enqueue(ctx, lowQuality("low"), WithPriority(1), WithBatchJobID("b1"))
	require.NoError(t, err)
	_, err = q.Enqueue(ctx, lowQuality("medium"), WithPriority(2), WithBatchJobID("b1"))
	require.NoError(t, err)
	_, err = q.Enqueue(ctx, lowQuality("high"), WithPriority(3))
	require.NoError(t, err)
	_, err = q.Enqueue(ctx, highQuality("auto"), WithPriority(5))
	require.NoError(t, err)

	pending := model.StatusPending
	medium := 2
	testCases := []struct {
		name        string
		filter      model.Filter
		expectIDs   []string
		expectPage  model.Pagination
		expectTotal int
	}{
		{
			name:       "pending second page of one",
			filter:     model.Filter{Status: &pending, Limit: 1, Offset: 1},
			expectIDs:  []string{"medium"},
			expectPage: model.Pagination{Total: 3, Limit: 1, Offset: 1, HasNext: true},
		},
		{
			name:       "defaults",
			filter:     model.Filter{Limit: 0, Offset: -4},
			expectIDs:  []string{"auto", "high", "medium", "low"},
			expectPage: model.Pagination{Total: 4, Limit: DefaultLimit, Offset: 0, HasNext: false},
		},
		{
			name:       "minimum priority bucket",
			filter:     model.Filter{Priority: &medium},
			expectIDs:  []string{"auto", "high", "medium"},
			expectPage: model.Pagination{Total: 3, Limit: DefaultLimit},
		},
		{
			name:       "batch",
			filter:     model.Filter{BatchJobID: "b1"},
			expectIDs:  []string{"medium", "low"},
			expectPage: model.Pagination{Total: 2, Limit: DefaultLimit},
		},
		{
			name:       "offset past end",
			filter:     model.Filter{Offset: 10},
			expectIDs:  []string{},
			expectPage: model.Pagination{Total: 4, Limit: DefaultLimit, Offset: 10},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := q.List(ctx, tc.filter)
			require.NoError(t, err)
			ids := make([]string, 0, len(result.Items))
			for _, item := range result.Items {
				ids = append(ids, item.ContentID)
			}
			assert.Equal(t, tc.expectIDs, ids)
			assert.Equal(t, tc.expectPage, result.Pagination)
			assert.Equal(t, tc.expectPage.Total, result.Summary.Total)
		})
	}

	bogus := model.Status("bogus")
	_, err = q.List(ctx, model.Filter{Status: &bogus})
	assert.True(t, errs.IsValidation(err))
}

func TestSort_TieBreak(t *testing.T) {
	at := start
	items := []*model.ReviewItem{
		{ID: "b", Priority: 1, CreatedAt: at},
		{ID: "a", Priority: 1, CreatedAt: at},
		{ID: "c", Priority: 1, CreatedAt: at.Add(-time.Minute)},
		{ID: "d", Priority: 2, CreatedAt: at.Add(time.Hour)},
	}
	Sort(items)
	var ids []string
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	assert.Equal(t, []string{"d", "c", "a", "b"}, ids)
}

func TestService_Lookups(t *testing.T) {
	ctx := context.Background()
	q := newTestQueue()
	item, err := q.Enqueue(ctx, lowQuality("c1"))
	require.NoError(t, err)

	byID, err := q.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "c1", byID.ContentID)

	missing, err := q.GetByID(ctx, "nope")
	assert.NoError(t, err)
	assert.Nil(t, missing)
	missing, err = q.GetByContentID(ctx, "nope")
	assert.NoError(t, err)
	assert.Nil(t, missing)

	byID.AdminNotes = "note"
	require.NoError(t, q.Save(ctx, byID))
	snapshot, err := q.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snapshot, 1)
	assert.Equal(t, "note", snapshot[0].AdminNotes)

	assert.True(t, errs.KindOf(q.Save(ctx, nil)) == errs.KindInternal)
}

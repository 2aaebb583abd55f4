package bulk

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/reviewflow/errs"
	"github.com/viant/reviewflow/model"
	"github.com/viant/reviewflow/progress"
	"github.com/viant/reviewflow/service/approval"
	"github.com/viant/reviewflow/service/dao/review/memory"
	"github.com/viant/reviewflow/service/queue"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

type sleepRecorder struct {
	mu     sync.Mutex
	pauses []time.Duration
	err    error
}

func (r *sleepRecorder) sleep(_ context.Context, d time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pauses = append(r.pauses, d)
	return r.err
}

type stubApprover struct {
	calls    atomic.Int32
	inFlight atomic.Int32
	maxSeen  atomic.Int32
	onCall   func(contentID string)
}

func (s *stubApprover) Approve(_ context.Context, contentID, adminID string, options approval.ApproveOptions) (*model.ApprovalResult, error) {
	s.calls.Add(1)
	current := s.inFlight.Add(1)
	defer s.inFlight.Add(-1)
	for {
		seen := s.maxSeen.Load()
		if current <= seen || s.maxSeen.CompareAndSwap(seen, current) {
			break
		}
	}
	if s.onCall != nil {
		s.onCall(contentID)
	}
	time.Sleep(time.Millisecond)
	if contentID == "bad" {
		return nil, errs.NotFound("approve", contentID)
	}
	return &model.ApprovalResult{Success: true, ContentID: contentID, Status: model.StatusApproved, ReviewedBy: adminID, QueuedForPublishing: options.AutoPublish}, nil
}

func TestService_BulkApprove_Engine(t *testing.T) {
	ctx := context.Background()
	q := queue.New(memory.New(), queue.WithLogger(quiet))
	for _, id := range []string{"a", "b"} {
		_, err := q.Enqueue(ctx, &model.Candidate{ContentID: id, Content: model.Content{Body: "text"}})
		require.NoError(t, err)
	}
	engine := approval.New(q, approval.WithLogger(quiet))
	recorder := &sleepRecorder{}
	srv := New(engine, WithSleep(recorder.sleep), WithPause(time.Second), WithLogger(quiet))

	result, err := srv.BulkApprove(ctx, []string{"a", "b", "c"}, "admin", Options{Concurrency: 2, AutoPublish: true})
	require.NoError(t, err)
	assert.Equal(t, 2, result.SuccessCount)
	assert.Equal(t, 1, result.ErrorCount)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "c", result.Errors[0].ContentID)
	assert.Contains(t, result.Errors[0].Error, "not found")
	assert.Equal(t, []time.Duration{time.Second}, recorder.pauses)
	for _, r := range result.Results {
		assert.True(t, r.QueuedForPublishing)
	}
	for _, id := range []string{"a", "b"} {
		item, err := q.GetByContentID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, model.StatusApproved, item.Status)
	}
}

func TestService_BulkApprove(t *testing.T) {
	ids := func(n int) []string {
		ret := make([]string, n)
		for i := range ret {
			ret[i] = fmt.Sprintf("id-%d", i)
		}
		return ret
	}
	testCases := []struct {
		name          string
		ids           []string
		concurrency   int
		expectSuccess int
		expectErrors  int
		expectPauses  int
		expectMax     int32
	}{
		{name: "empty", ids: nil, expectPauses: 0},
		{name: "single chunk", ids: ids(3), concurrency: 5, expectSuccess: 3, expectPauses: 0, expectMax: 3},
		{name: "exact chunks", ids: ids(6), concurrency: 3, expectSuccess: 6, expectPauses: 1, expectMax: 3},
		{name: "default concurrency", ids: ids(11), expectSuccess: 11, expectPauses: 2, expectMax: 5},
		{name: "failures isolated", ids: []string{"x", "bad", "y", "bad"}, concurrency: 1, expectSuccess: 2, expectErrors: 2, expectPauses: 3, expectMax: 1},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			approver := &stubApprover{}
			recorder := &sleepRecorder{}
			srv := New(approver, WithSleep(recorder.sleep), WithLogger(quiet))
			result, err := srv.BulkApprove(context.Background(), tc.ids, "admin", Options{Concurrency: tc.concurrency})
			require.NoError(t, err)
			assert.Equal(t, tc.expectSuccess, result.SuccessCount)
			assert.Equal(t, tc.expectErrors, result.ErrorCount)
			assert.Len(t, result.Results, tc.expectSuccess)
			assert.Len(t, result.Errors, tc.expectErrors)
			assert.Len(t, recorder.pauses, tc.expectPauses)
			assert.LessOrEqual(t, approver.maxSeen.Load(), tc.expectMax)
		})
	}
}

func TestService_BulkApprove_Order(t *testing.T) {
	srv := New(&stubApprover{}, WithSleep((&sleepRecorder{}).sleep), WithLogger(quiet))
	result, err := srv.BulkApprove(context.Background(), []string{"a", "b", "c", "d", "e"}, "admin", Options{Concurrency: 2})
	require.NoError(t, err)
	var got []string
	for _, r := range result.Results {
		got = append(got, r.ContentID)
	}
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, got)
}

func TestService_BulkApprove_Validation(t *testing.T) {
	srv := New(&stubApprover{}, WithLogger(quiet))
	_, err := srv.BulkApprove(context.Background(), []string{"a"}, "", Options{})
	assert.True(t, errs.IsValidation(err))
}

func TestService_BulkApprove_CancelBetweenChunks(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	approver := &stubApprover{}
	approver.onCall = func(contentID string) {
		if contentID == "b" {
			cancel()
		}
	}
	srv := New(approver, WithPause(0), WithLogger(quiet))
	result, err := srv.BulkApprove(ctx, []string{"a", "b", "c", "d"}, "admin", Options{Concurrency: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, result.SuccessCount)
	assert.Equal(t, 2, result.ErrorCount)
	assert.Equal(t, int32(2), approver.calls.Load())
	require.Len(t, result.Errors, 2)
	assert.Equal(t, "c", result.Errors[0].ContentID)
	assert.Equal(t, context.Canceled.Error(), result.Errors[0].Error)
}

func TestService_BulkApprove_InterruptedPause(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	approver := &stubApprover{onCall: func(string) { cancel() }}
	srv := New(approver, WithPause(time.Hour), WithLogger(quiet))
	started := time.Now()
	result, err := srv.BulkApprove(ctx, []string{"a", "b"}, "admin", Options{Concurrency: 1})
	require.NoError(t, err)
	assert.Less(t, time.Since(started), time.Minute)
	assert.Equal(t, 1, result.SuccessCount)
	assert.Equal(t, 1, result.ErrorCount)
}

func TestService_BulkApprove_Progress(t *testing.T) {
	var mu sync.Mutex
	var last progress.Snapshot
	updates := 0
	srv := New(&stubApprover{}, WithSleep((&sleepRecorder{}).sleep), WithLogger(quiet))
	_, err := srv.BulkApprove(context.Background(), []string{"a", "bad", "c"}, "admin", Options{
		Concurrency: 2,
		OnProgress: func(s progress.Snapshot) {
			mu.Lock()
			defer mu.Unlock()
			last = s
			updates++
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 4, updates)
	assert.Equal(t, 3, last.Total)
	assert.Equal(t, 2, last.Completed)
	assert.Equal(t, 1, last.Failed)
	assert.Equal(t, 0, last.Pending)
	assert.True(t, last.Done())
}

func TestService_BulkReject(t *testing.T) {
	srv := New(&stubApprover{})
	_, err := srv.BulkReject(context.Background(), []string{"a"}, "admin", "reason")
	assert.True(t, errs.IsNotImplemented(err))
}

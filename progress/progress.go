package progress

import (
	"context"
	"sync"
	"time"
)

// Delta represents an incremental counter change. Fields are signed.
type Delta struct {
	Total     int
	Completed int
	Failed    int
	Pending   int
}

// Snapshot is a read-only copy of the tracker state.
type Snapshot struct {
	RunID     string    `json:"runId"`
	Operation string    `json:"operation"`
	StartedAt time.Time `json:"startedAt"`
	Total     int       `json:"total"`
	Completed int       `json:"completed"`
	Failed    int       `json:"failed"`
	Pending   int       `json:"pending"`
}

// Done reports whether every item was processed.
func (s Snapshot) Done() bool {
	return s.Completed+s.Failed >= s.Total
}

// Progress keeps aggregated counters. It is safe for concurrent use.
type Progress struct {
	mu       sync.Mutex
	state    Snapshot
	onChange func(Snapshot)
}

// New creates a tracker for the run.
func New(runID, operation string, startedAt time.Time) *Progress {
	return &Progress{state: Snapshot{RunID: runID, Operation: operation, StartedAt: startedAt}}
}

// Update applies the delta. The onChange callback, when set, receives a copy
// of the updated state outside the critical section.
func (p *Progress) Update(d Delta) {
	if p == nil {
		return
	}
	p.mu.Lock()
	p.state.Total += d.Total
	p.state.Completed += d.Completed
	p.state.Failed += d.Failed
	p.state.Pending += d.Pending
	snapshot := p.state
	cb := p.onChange
	p.mu.Unlock()

	if cb != nil {
		cb(snapshot)
	}
}

// Snapshot returns a copy of the tracker state.
func (p *Progress) Snapshot() Snapshot {
	if p == nil {
		return Snapshot{}
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// OnChange registers a callback invoked after every Update. Passing nil
// disables it; only one callback is active.
func (p *Progress) OnChange(cb func(Snapshot)) {
	if p == nil {
		return
	}
	p.mu.Lock()
	p.onChange = cb
	p.mu.Unlock()
}

type trackerKeyT struct{}

var trackerKey trackerKeyT

// WithTracker embeds tracker in a derived context.
func WithTracker(ctx context.Context, tracker *Progress) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, trackerKey, tracker)
}

// FromContext extracts the tracker from ctx.
func FromContext(ctx context.Context) (*Progress, bool) {
	if ctx == nil {
		return nil, false
	}
	tr, ok := ctx.Value(trackerKey).(*Progress)
	return tr, ok
}

// GetSnapshot combines FromContext and Snapshot.
func GetSnapshot(ctx context.Context) (Snapshot, bool) {
	if tr, ok := FromContext(ctx); ok {
		return tr.Snapshot(), true
	}
	return Snapshot{}, false
}

// UpdateCtx applies d to the tracker carried by ctx, if any.
func UpdateCtx(ctx context.Context, d Delta) {
	if tr, ok := FromContext(ctx); ok {
		tr.Update(d)
	}
}

package training

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/viant/reviewflow/service/messaging"
)

// Handler consumes a signal. A returned error nacks the message.
type Handler func(ctx context.Context, signal *Signal) error

// Listener drains a signal queue into a handler on its own goroutine.
type Listener struct {
	queue   messaging.Queue[Signal]
	handler Handler
	logger  *slog.Logger
	cancel  context.CancelFunc
	done    chan struct{}
	mu      sync.Mutex
}

// NewListener creates a stopped listener.
func NewListener(queue messaging.Queue[Signal], handler Handler, logger *slog.Logger) *Listener {
	if logger == nil {
		logger = slog.Default()
	}
	return &Listener{queue: queue, handler: handler, logger: logger.With("component", "training.listener")}
}

// Start begins consuming until ctx is done or Stop is called. Starting a
// running listener is a no-op.
func (l *Listener) Start(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		return
	}
	ctx, l.cancel = context.WithCancel(ctx)
	l.done = make(chan struct{})
	go l.run(ctx, l.done)
}

func (l *Listener) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	for {
		msg, err := l.queue.Consume(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return
			}
			l.logger.Error("failed to consume training signal", "error", err)
			continue
		}
		signal := msg.T()
		if err = l.handler(ctx, signal); err != nil {
			l.logger.Warn("training handler failed", "contentId", signal.ContentID, "error", err)
			_ = msg.Nack(err)
			continue
		}
		_ = msg.Ack()
	}
}

// Stop cancels consumption and waits for the goroutine to exit.
func (l *Listener) Stop() {
	l.mu.Lock()
	cancel, done := l.cancel, l.done
	l.cancel, l.done = nil, nil
	l.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// LogHandler returns a handler logging each signal at info level.
func LogHandler(logger *slog.Logger) Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(_ context.Context, signal *Signal) error {
		logger.Info("training signal",
			"contentId", signal.ContentID,
			"qualityRating", signal.QualityRating,
			"approvedBy", signal.ApprovedBy,
			"approvedAt", signal.ApprovedAt,
		)
		return nil
	}
}

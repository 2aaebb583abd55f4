package training

import (
	"context"
	"fmt"

	"github.com/viant/reviewflow/service/messaging"
)

// Notifier accepts training signals. Implementations must not block on the
// consumer.
type Notifier interface {
	Notify(ctx context.Context, signal *Signal) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, signal *Signal) error

// Notify calls f.
func (f NotifierFunc) Notify(ctx context.Context, signal *Signal) error { return f(ctx, signal) }

// Discard drops every signal.
var Discard Notifier = NotifierFunc(func(context.Context, *Signal) error { return nil })

// QueueNotifier publishes signals onto a queue. Queues implementing
// messaging.Offerer are used without waiting; a full queue is an error.
type QueueNotifier struct {
	queue messaging.Queue[Signal]
}

// NewQueueNotifier creates a notifier publishing onto queue.
func NewQueueNotifier(queue messaging.Queue[Signal]) *QueueNotifier {
	return &QueueNotifier{queue: queue}
}

// Notify enqueues signal.
func (n *QueueNotifier) Notify(ctx context.Context, signal *Signal) error {
	if signal == nil {
		return fmt.Errorf("training: nil signal")
	}
	if offerer, ok := n.queue.(messaging.Offerer[Signal]); ok {
		if err := offerer.Offer(signal); err != nil {
			return fmt.Errorf("training: failed to offer signal for %s: %w", signal.ContentID, err)
		}
		return nil
	}
	if err := n.queue.Publish(ctx, signal); err != nil {
		return fmt.Errorf("training: failed to publish signal for %s: %w", signal.ContentID, err)
	}
	return nil
}

package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/viant/reviewflow/service/messaging"
)

// Config for memory queue implementation
type Config struct {
	MaxRetries  int
	RetryDelay  time.Duration
	DeadLetter  bool
	QueueBuffer int
}

// DefaultConfig returns a standard configuration for memory queue
func DefaultConfig() Config {
	return Config{
		MaxRetries:  3,
		RetryDelay:  100 * time.Millisecond,
		DeadLetter:  true,
		QueueBuffer: 100,
	}
}

// Message is an in-memory queue message.
type Message[T any] struct {
	id         string
	payload    T
	queue      *Queue[T]
	retryCount int
	createdAt  time.Time
	mu         sync.Mutex
	processed  bool
	err        error
}

// ID returns the message id.
func (m *Message[T]) ID() string { return m.id }

// T returns the message payload
func (m *Message[T]) T() *T {
	return &m.payload
}

// Ack acknowledges the message as processed successfully
func (m *Message[T]) Ack() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.processed {
		return fmt.Errorf("message %s already processed", m.id)
	}
	m.processed = true
	return nil
}

// Nack records a processing failure. The message is redelivered after
// RetryDelay until MaxRetries is exceeded, then moved to the dead letter list
// when enabled.
func (m *Message[T]) Nack(err error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.processed {
		return fmt.Errorf("message %s already processed", m.id)
	}
	m.processed = true
	m.err = err
	if m.retryCount < m.queue.config.MaxRetries {
		retry := &Message[T]{
			id:         m.id,
			payload:    m.payload,
			queue:      m.queue,
			retryCount: m.retryCount + 1,
			createdAt:  m.createdAt,
		}
		time.AfterFunc(m.queue.config.RetryDelay, func() {
			if m.queue.offer(retry) != nil {
				m.queue.deadLetter(retry)
			}
		})
		return nil
	}
	m.queue.deadLetter(m)
	return nil
}

// Queue implements an in-memory messaging.Queue backed by a buffered channel.
type Queue[T any] struct {
	messages chan *Message[T]
	config   Config
	dlq      []*Message[T]
	dlqMu    sync.Mutex
}

// NewQueue creates a new in-memory queue
func NewQueue[T any](config Config) *Queue[T] {
	if config.QueueBuffer <= 0 {
		config.QueueBuffer = DefaultConfig().QueueBuffer
	}
	return &Queue[T]{
		messages: make(chan *Message[T], config.QueueBuffer),
		config:   config,
	}
}

func (q *Queue[T]) newMessage(t *T) *Message[T] {
	return &Message[T]{id: uuid.New().String(), payload: *t, queue: q, createdAt: time.Now()}
}

// Publish adds t to the queue, waiting for capacity until ctx is done.
func (q *Queue[T]) Publish(ctx context.Context, t *T) error {
	if t == nil {
		return fmt.Errorf("nil payload")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case q.messages <- q.newMessage(t):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Offer adds t to the queue without waiting.
func (q *Queue[T]) Offer(t *T) error {
	if t == nil {
		return fmt.Errorf("nil payload")
	}
	return q.offer(q.newMessage(t))
}

func (q *Queue[T]) offer(msg *Message[T]) error {
	select {
	case q.messages <- msg:
		return nil
	default:
		return messaging.ErrQueueFull
	}
}

func (q *Queue[T]) deadLetter(msg *Message[T]) {
	if !q.config.DeadLetter {
		return
	}
	q.dlqMu.Lock()
	q.dlq = append(q.dlq, msg)
	q.dlqMu.Unlock()
}

// Consume retrieves a single item from the queue
func (q *Queue[T]) Consume(ctx context.Context) (messaging.Message[T], error) {
	select {
	case msg := <-q.messages:
		return msg, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Size returns the current number of messages in the queue
func (q *Queue[T]) Size() int {
	return len(q.messages)
}

// DLQSize returns the number of messages in the dead letter queue
func (q *Queue[T]) DLQSize() int {
	q.dlqMu.Lock()
	defer q.dlqMu.Unlock()
	return len(q.dlq)
}

var (
	_ messaging.Queue[any]   = (*Queue[any])(nil)
	_ messaging.Offerer[any] = (*Queue[any])(nil)
)

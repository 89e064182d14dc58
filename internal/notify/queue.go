package notify

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

var (
	ErrClosed = errors.New("channel closed")
	ErrFull   = errors.New("channel buffer full")
)

// Queue is a Channel backed by a bounded buffer. A reader drains it through C.
type Queue struct {
	id     string
	mu     sync.Mutex
	ch     chan []byte
	closed bool
}

func NewQueue(size int) *Queue {
	if size < 1 {
		size = 1
	}

	return &Queue{
		id: uuid.NewString(),
		ch: make(chan []byte, size),
	}
}

func (q *Queue) ID() string { return q.id }

// Send enqueues payload without blocking. It fails when the queue is closed
// or full.
func (q *Queue) Send(payload []byte) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrClosed
	}

	select {
	case q.ch <- payload:
		return nil
	default:
		return ErrFull
	}
}

// C is closed once Close has been called and the buffer is drained.
func (q *Queue) C() <-chan []byte { return q.ch }

func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.closed {
		q.closed = true
		close(q.ch)
	}
}

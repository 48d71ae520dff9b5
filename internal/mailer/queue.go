package mailer

import (
	"context"
	"errors"
	"sync"

	"github.com/globalpath/platform/pkg/logger"
	"go.uber.org/zap"
)

// ErrQueueFull is returned when the outbound buffer has no room left.
var ErrQueueFull = errors.New("mailer: queue is full")

// ErrQueueClosed is returned when enqueueing after Stop.
var ErrQueueClosed = errors.New("mailer: queue is closed")

// Message is a single outbound email job.
type Message struct {
	To      string
	Subject string
	Body    string
	HTML    bool
}

// Queue fans outbound email across a fixed pool of workers behind a bounded
// buffer. Bulk sends (campaigns, admin broadcasts) enqueue without blocking
// the request handler; when the buffer is full the caller gets ErrQueueFull
// instead of an unbounded goroutine pile-up.
type Queue struct {
	sender  Sender
	jobs    chan Message
	workers int

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// NewQueue creates a queue with the given buffer size and worker count.
func NewQueue(sender Sender, buffer, workers int) *Queue {
	if buffer <= 0 {
		buffer = 256
	}
	if workers <= 0 {
		workers = 4
	}
	return &Queue{
		sender:  sender,
		jobs:    make(chan Message, buffer),
		workers: workers,
	}
}

// Start launches the worker pool. Workers exit when the queue is stopped and
// drained, or when ctx is cancelled.
func (q *Queue) Start(ctx context.Context) {
	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.worker(ctx, i)
	}
}

// Enqueue adds a message to the outbound buffer without blocking.
func (q *Queue) Enqueue(msg Message) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrQueueClosed
	}

	select {
	case q.jobs <- msg:
		return nil
	default:
		return ErrQueueFull
	}
}

// EnqueueBatch queues one message per recipient, sharing subject and body.
// It stops at the first full-buffer error and reports how many were accepted.
func (q *Queue) EnqueueBatch(recipients []string, subject, body string, html bool) (int, error) {
	for i, to := range recipients {
		err := q.Enqueue(Message{To: to, Subject: subject, Body: body, HTML: html})
		if err != nil {
			return i, err
		}
	}
	return len(recipients), nil
}

// Stop closes the queue and waits for workers to drain the buffer.
func (q *Queue) Stop() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.jobs)
	q.mu.Unlock()

	q.wg.Wait()
}

func (q *Queue) worker(ctx context.Context, id int) {
	defer q.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-q.jobs:
			if !ok {
				return
			}
			q.deliver(msg, id)
		}
	}
}

func (q *Queue) deliver(msg Message, worker int) {
	defer func() {
		if r := recover(); r != nil {
			logger.Get().Error("Email worker panicked",
				zap.Int("worker", worker),
				zap.Any("panic", r),
			)
		}
	}()

	var err error
	if msg.HTML {
		err = q.sender.SendHTMLEmail(msg.To, msg.Subject, msg.Body)
	} else {
		err = q.sender.SendEmail(msg.To, msg.Subject, msg.Body)
	}

	if err != nil {
		logger.Get().Error("Queued email delivery failed",
			zap.Int("worker", worker),
			zap.String("to", maskEmail(msg.To)),
			zap.Error(err),
		)
	}
}

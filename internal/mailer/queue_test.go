package mailer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	mu    sync.Mutex
	sent  []Message
	fail  bool
	block chan struct{}
}

func (s *recordingSender) SendEmail(to, subject, body string) error {
	return s.record(Message{To: to, Subject: subject, Body: body})
}

func (s *recordingSender) SendHTMLEmail(to, subject, body string) error {
	return s.record(Message{To: to, Subject: subject, Body: body, HTML: true})
}

func (s *recordingSender) record(msg Message) error {
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errors.New("smtp: 554 transaction failed")
	}
	s.sent = append(s.sent, msg)
	return nil
}

func (s *recordingSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

func TestQueueDeliversAllMessages(t *testing.T) {
	sender := &recordingSender{}
	queue := NewQueue(sender, 64, 4)
	queue.Start(context.Background())

	recipients := []string{"a@example.com", "b@example.com", "c@example.com"}
	accepted, err := queue.EnqueueBatch(recipients, "Update", "<p>Hello</p>", true)
	require.NoError(t, err)
	assert.Equal(t, 3, accepted)

	queue.Stop()

	assert.Equal(t, 3, sender.count())
	for _, msg := range sender.sent {
		assert.True(t, msg.HTML)
		assert.Equal(t, "Update", msg.Subject)
	}
}

func TestQueueFullReturnsErrorInsteadOfBlocking(t *testing.T) {
	block := make(chan struct{})
	sender := &recordingSender{block: block}
	queue := NewQueue(sender, 1, 1)
	queue.Start(context.Background())

	// First message is picked up by the worker and parks on block; the
	// second fills the buffer; the third must be rejected immediately.
	require.NoError(t, queue.Enqueue(Message{To: "a@example.com"}))

	var full error
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if err := queue.Enqueue(Message{To: "b@example.com"}); err != nil {
			full = err
			break
		}
	}
	assert.ErrorIs(t, full, ErrQueueFull)

	close(block)
	queue.Stop()
}

func TestEnqueueAfterStopReturnsClosed(t *testing.T) {
	sender := &recordingSender{}
	queue := NewQueue(sender, 8, 1)
	queue.Start(context.Background())
	queue.Stop()

	err := queue.Enqueue(Message{To: "a@example.com"})
	assert.ErrorIs(t, err, ErrQueueClosed)
}

func TestQueueSurvivesDeliveryFailures(t *testing.T) {
	sender := &recordingSender{fail: true}
	queue := NewQueue(sender, 8, 2)
	queue.Start(context.Background())

	_, err := queue.EnqueueBatch([]string{"a@example.com", "b@example.com"}, "x", "y", false)
	require.NoError(t, err)

	queue.Stop()

	// Failed deliveries are logged, not fatal; the pool keeps draining.
	assert.Equal(t, 0, sender.count())
}

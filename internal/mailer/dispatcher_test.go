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
	err   error
	block chan struct{}
}

func (r *recordingSender) Send(ctx context.Context, msg Message) error {
	if r.block != nil {
		select {
		case <-r.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, msg)
	return r.err
}

func (r *recordingSender) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sent)
}

func TestDispatcherDeliversQueuedMessages(t *testing.T) {
	sender := &recordingSender{}
	d := NewDispatcher(sender, 2, 10)
	d.Start()

	for i := 0; i < 5; i++ {
		require.True(t, d.Enqueue(Message{To: "a@b.c", Subject: "hi"}))
	}
	d.Stop()

	assert.Equal(t, 5, sender.count())
}

func TestDispatcherDropsWhenQueueFull(t *testing.T) {
	sender := &recordingSender{block: make(chan struct{})}
	d := NewDispatcher(sender, 1, 1)

	// workers not started: the single slot fills and the next message is dropped
	assert.True(t, d.Enqueue(Message{To: "a@b.c"}))
	assert.False(t, d.Enqueue(Message{To: "a@b.c"}))

	close(sender.block)
	d.Start()
	d.Stop()
	assert.Equal(t, 1, sender.count())
}

func TestDispatcherSendFailureIsSwallowed(t *testing.T) {
	sender := &recordingSender{err: errors.New("smtp down")}
	d := NewDispatcher(sender, 1, 1)
	d.Start()

	assert.True(t, d.Enqueue(Message{To: "a@b.c"}))
	d.Stop()
	assert.Equal(t, 1, sender.count())
}

func TestDispatcherEnqueueAfterStop(t *testing.T) {
	d := NewDispatcher(&recordingSender{}, 1, 1)
	d.Start()
	d.Stop()
	d.Stop()

	assert.False(t, d.Enqueue(Message{To: "a@b.c"}))
}

func TestDispatcherSendTimeout(t *testing.T) {
	sender := &recordingSender{block: make(chan struct{})}
	d := NewDispatcher(sender, 1, 1)
	d.sendTimeout = 10 * time.Millisecond
	d.Start()

	assert.True(t, d.Enqueue(Message{To: "a@b.c"}))
	d.Stop()
	assert.Equal(t, 0, sender.count())
}

func TestTemplatesRender(t *testing.T) {
	msg := ResetPassword("a@b.c", "Asha", "http://localhost:5173/reset-password/tok")
	assert.Equal(t, "Reset your password", msg.Subject)
	assert.Contains(t, msg.HTML, "Hi Asha")
	assert.Contains(t, msg.HTML, "http://localhost:5173/reset-password/tok")

	msg = OrderPlaced("a@b.c", "Asha", "000012", 900)
	assert.Contains(t, msg.Subject, "#000012")
	assert.Contains(t, msg.HTML, "900.00")
}

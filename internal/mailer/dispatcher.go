package mailer

import (
	"context"
	"log"
	"sync"
	"time"
)

const DefaultSendTimeout = 30 * time.Second

// Dispatcher queues messages and delivers them from background workers so
// callers never wait on the mail server. A full queue drops the message.
type Dispatcher struct {
	sender      Sender
	queue       chan Message
	workers     int
	sendTimeout time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

func NewDispatcher(sender Sender, workers, queueSize int) *Dispatcher {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 1 {
		queueSize = 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Dispatcher{
		sender:      sender,
		queue:       make(chan Message, queueSize),
		workers:     workers,
		sendTimeout: DefaultSendTimeout,
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Start launches the workers.
func (d *Dispatcher) Start() {
	log.Printf("Starting mail dispatcher with %d workers...", d.workers)
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.run()
	}
}

// Stop drains queued messages and waits for the workers to exit.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	log.Println("Stopping mail dispatcher...")
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	d.wg.Wait()
	d.cancel()
	log.Println("Mail dispatcher stopped")
}

// Enqueue hands msg to the workers; it never blocks.
func (d *Dispatcher) Enqueue(msg Message) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		log.Printf("[MAIL] dispatcher stopped, dropping %q to %s", msg.Subject, msg.To)
		return false
	}

	select {
	case d.queue <- msg:
		return true
	default:
		log.Printf("[MAIL] queue full, dropping %q to %s", msg.Subject, msg.To)
		return false
	}
}

func (d *Dispatcher) run() {
	defer d.wg.Done()

	for msg := range d.queue {
		d.send(msg)
	}
}

func (d *Dispatcher) send(msg Message) {
	ctx, cancel := context.WithTimeout(d.ctx, d.sendTimeout)
	defer cancel()

	if err := d.sender.Send(ctx, msg); err != nil {
		log.Printf("[MAIL] failed to send %q to %s: %v", msg.Subject, msg.To, err)
	}
}

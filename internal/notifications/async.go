package notifications

import (
	"context"
	"errors"
	"sync"

	"traveltix/pkg/logger"
)

// DefaultQueueSize bounds the events waiting for the broker
const DefaultQueueSize = 1024

var (
	ErrQueueFull       = errors.New("ticket event queue is full")
	ErrPublisherClosed = errors.New("ticket event publisher is closed")
)

type queuedEvent struct {
	ctx   context.Context
	event *TicketEvent
}

// AsyncPublisher hands events to a single background worker so that a slow
// or unreachable broker never holds up the request that produced them.
// Publish never blocks; when the queue is full the event is dropped.
type AsyncPublisher struct {
	next  Publisher
	queue chan queuedEvent
	log   *logger.Logger

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

// NewAsyncPublisher starts the worker that forwards queued events to next
func NewAsyncPublisher(next Publisher, size int, log *logger.Logger) *AsyncPublisher {
	if size <= 0 {
		size = DefaultQueueSize
	}
	p := &AsyncPublisher{
		next:  next,
		queue: make(chan queuedEvent, size),
		log:   log,
		done:  make(chan struct{}),
	}
	go p.run()
	return p
}

// Publish enqueues event. The request context is detached so the event still
// goes out after the request has finished.
func (p *AsyncPublisher) Publish(ctx context.Context, event *TicketEvent) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPublisherClosed
	}

	select {
	case p.queue <- queuedEvent{ctx: context.WithoutCancel(ctx), event: event}:
		return nil
	default:
		return ErrQueueFull
	}
}

func (p *AsyncPublisher) run() {
	defer close(p.done)
	for item := range p.queue {
		if err := p.next.Publish(item.ctx, item.event); err != nil {
			p.log.WarnContext(item.ctx, "Failed to deliver ticket event",
				"type", string(item.event.Type),
				"ticket_id", item.event.TicketID,
				"error", err,
			)
		}
	}
}

// Close stops accepting events, drains the queue and closes the wrapped publisher
func (p *AsyncPublisher) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()

	<-p.done
	return p.next.Close()
}

package notifications

import (
	"context"
	"sync"
	"testing"
	"time"

	"traveltix/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gatedPublisher blocks every delivery until release is closed
type gatedPublisher struct {
	release chan struct{}

	mu        sync.Mutex
	delivered []string
	ctxErrs   []error
	closed    bool
}

func newGatedPublisher() *gatedPublisher {
	return &gatedPublisher{release: make(chan struct{})}
}

func (p *gatedPublisher) Publish(ctx context.Context, event *TicketEvent) error {
	<-p.release
	p.mu.Lock()
	defer p.mu.Unlock()
	p.delivered = append(p.delivered, event.TicketID)
	p.ctxErrs = append(p.ctxErrs, ctx.Err())
	return nil
}

func (p *gatedPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

func TestAsyncPublisherDoesNotWaitForBroker(t *testing.T) {
	next := newGatedPublisher()
	publisher := NewAsyncPublisher(next, 8, logger.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	start := time.Now()
	for _, id := range []string{"TICK-1", "TICK-2", "TICK-3"} {
		require.NoError(t, publisher.Publish(ctx, NewTicketEvent(EventTypeTicketVerified, id, 7, "admin@example.com")))
	}
	assert.Less(t, time.Since(start), 100*time.Millisecond)

	// the request is over before the broker answers
	cancel()
	close(next.release)
	require.NoError(t, publisher.Close())

	assert.Equal(t, []string{"TICK-1", "TICK-2", "TICK-3"}, next.delivered)
	assert.Equal(t, []error{nil, nil, nil}, next.ctxErrs)
	assert.True(t, next.closed)
}

func TestAsyncPublisherDropsWhenFull(t *testing.T) {
	next := newGatedPublisher()
	publisher := NewAsyncPublisher(next, 1, logger.Discard())

	// the worker holds at most one event and the queue one more
	var errs []error
	for i := 0; i < 5; i++ {
		errs = append(errs, publisher.Publish(context.Background(), NewTicketEvent(EventTypeTicketIssued, "TICK-1", 7, "traveler@example.com")))
	}
	assert.Contains(t, errs, ErrQueueFull)

	close(next.release)
	require.NoError(t, publisher.Close())
}

func TestAsyncPublisherRejectsAfterClose(t *testing.T) {
	next := newGatedPublisher()
	close(next.release)
	publisher := NewAsyncPublisher(next, 0, logger.Discard())

	require.NoError(t, publisher.Close())
	require.NoError(t, publisher.Close())

	err := publisher.Publish(context.Background(), NewTicketEvent(EventTypeTicketIssued, "TICK-1", 7, "traveler@example.com"))
	assert.ErrorIs(t, err, ErrPublisherClosed)
}

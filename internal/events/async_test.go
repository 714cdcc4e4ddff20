package events

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/SscSPs/coop_backoffice/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var quietLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type collectingPublisher struct {
	mu     sync.Mutex
	events []domain.LedgerEvent
	gate   chan struct{}
	err    error
	closed bool
}

func (c *collectingPublisher) Publish(_ context.Context, event domain.LedgerEvent) error {
	if c.gate != nil {
		<-c.gate
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
	return c.err
}

func (c *collectingPublisher) Close() error {
	c.closed = true
	return nil
}

func TestAsyncPublisher_DeliversInOrderAndDrainsOnClose(t *testing.T) {
	next := &collectingPublisher{}
	p := NewAsyncPublisher(next, 8, quietLogger)

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, p.Publish(context.Background(), domain.LedgerEvent{JournalID: id}))
	}
	require.NoError(t, p.Close())

	require.Len(t, next.events, 3)
	assert.Equal(t, "a", next.events[0].JournalID)
	assert.Equal(t, "c", next.events[2].JournalID)
	assert.True(t, next.closed)

	// publishing after close is a silent drop
	assert.NoError(t, p.Publish(context.Background(), domain.LedgerEvent{JournalID: "late"}))
	assert.NoError(t, p.Close())
	assert.Len(t, next.events, 3)
}

func TestAsyncPublisher_DropsWhenFull(t *testing.T) {
	gate := make(chan struct{})
	next := &collectingPublisher{gate: gate}
	p := NewAsyncPublisher(next, 1, quietLogger)

	// the worker may hold one event while blocked on the gate, the buffer a second
	for i := 0; i < 10; i++ {
		assert.NoError(t, p.Publish(context.Background(), domain.LedgerEvent{JournalID: "x"}))
	}
	close(gate)
	require.NoError(t, p.Close())

	assert.LessOrEqual(t, len(next.events), 2)
	assert.GreaterOrEqual(t, len(next.events), 1)
}

func TestAsyncPublisher_DeliveryErrorIsSwallowed(t *testing.T) {
	next := &collectingPublisher{err: errors.New("broker down")}
	p := NewAsyncPublisher(next, 4, quietLogger)
	assert.NoError(t, p.Publish(context.Background(), domain.LedgerEvent{JournalID: "a"}))
	require.NoError(t, p.Close())
	assert.Len(t, next.events, 1)
}

// Package events delivers ledger events off the posting path.
package events

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/SscSPs/coop_backoffice/internal/core/domain"
	"github.com/SscSPs/coop_backoffice/internal/core/ports"
)

const defaultPublishTimeout = 5 * time.Second

// AsyncPublisher queues events in a bounded buffer and hands them to the
// wrapped publisher from one background goroutine. A full buffer drops the
// event with a warning; Publish never blocks.
type AsyncPublisher struct {
	next    ports.EventPublisher
	queue   chan domain.LedgerEvent
	done    chan struct{}
	timeout time.Duration
	logger  *slog.Logger

	mu     sync.RWMutex
	closed bool
}

// NewAsyncPublisher starts the delivery goroutine. Close stops it after the
// queued events are delivered.
func NewAsyncPublisher(next ports.EventPublisher, buffer int, logger *slog.Logger) *AsyncPublisher {
	if buffer <= 0 {
		buffer = 256
	}
	if logger == nil {
		logger = slog.Default()
	}
	p := &AsyncPublisher{
		next:    next,
		queue:   make(chan domain.LedgerEvent, buffer),
		done:    make(chan struct{}),
		timeout: defaultPublishTimeout,
		logger:  logger,
	}
	go p.run()
	return p
}

var _ ports.EventPublisher = (*AsyncPublisher)(nil)

func (p *AsyncPublisher) Publish(_ context.Context, event domain.LedgerEvent) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		p.logger.Warn("Publisher closed, dropping ledger event", slog.String("event_type", event.Type), slog.String("journal_id", event.JournalID))
		return nil
	}
	select {
	case p.queue <- event:
	default:
		p.logger.Warn("Event buffer full, dropping ledger event", slog.String("event_type", event.Type), slog.String("journal_id", event.JournalID))
	}
	return nil
}

func (p *AsyncPublisher) run() {
	defer close(p.done)
	for event := range p.queue {
		ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
		if err := p.next.Publish(ctx, event); err != nil {
			p.logger.Error("Failed to deliver ledger event",
				slog.String("event_type", event.Type),
				slog.String("journal_id", event.JournalID),
				slog.String("error", err.Error()))
		}
		cancel()
	}
}

// Close drains the queue and closes the wrapped publisher.
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

// LogPublisher writes events to the log. Used when no broker is configured.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogPublisher{logger: logger}
}

var _ ports.EventPublisher = (*LogPublisher)(nil)

func (p *LogPublisher) Publish(ctx context.Context, event domain.LedgerEvent) error {
	p.logger.InfoContext(ctx, "Ledger event",
		slog.String("event_type", event.Type),
		slog.String("journal_id", event.JournalID),
		slog.String("reference_type", event.ReferenceType),
		slog.String("amount", event.Amount.String()))
	return nil
}

func (p *LogPublisher) Close() error { return nil }

package services

import (
	"context"
	"log/slog"

	"github.com/SscSPs/coop_backoffice/internal/core/domain"
	"github.com/SscSPs/coop_backoffice/internal/core/ports"
	portsrepo "github.com/SscSPs/coop_backoffice/internal/core/ports/repositories"
	"github.com/SscSPs/coop_backoffice/internal/middleware"
)

type eventBufferKey struct{}

type eventBuffer struct {
	events []domain.LedgerEvent
}

// UnitOfWork runs service operations atomically and hands the ledger events
// they raise to the publisher once the outermost unit has committed.
type UnitOfWork struct {
	txManager portsrepo.TransactionManager
	publisher ports.EventPublisher
}

// NewUnitOfWork creates a UnitOfWork. A nil publisher drops events.
func NewUnitOfWork(txManager portsrepo.TransactionManager, publisher ports.EventPublisher) *UnitOfWork {
	return &UnitOfWork{txManager: txManager, publisher: publisher}
}

// Run executes fn inside one transaction. Nested calls join the outer unit.
func (u *UnitOfWork) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, nested := ctx.Value(eventBufferKey{}).(*eventBuffer); nested {
		return u.txManager.WithinTx(ctx, fn)
	}

	buf := &eventBuffer{}
	txCtx := context.WithValue(ctx, eventBufferKey{}, buf)
	if err := u.txManager.WithinTx(txCtx, fn); err != nil {
		return err
	}
	u.flush(ctx, buf.events)
	return nil
}

// raise queues an event for delivery after commit. Outside a unit it is
// delivered immediately.
func (u *UnitOfWork) raise(ctx context.Context, event domain.LedgerEvent) {
	if buf, ok := ctx.Value(eventBufferKey{}).(*eventBuffer); ok {
		buf.events = append(buf.events, event)
		return
	}
	u.flush(ctx, []domain.LedgerEvent{event})
}

func (u *UnitOfWork) flush(ctx context.Context, events []domain.LedgerEvent) {
	if u.publisher == nil {
		return
	}
	for _, event := range events {
		if err := u.publisher.Publish(ctx, event); err != nil {
			middleware.GetLoggerFromCtx(ctx).Warn("Failed to publish ledger event",
				slog.String("event_type", event.Type),
				slog.String("journal_id", event.JournalID),
				slog.String("error", err.Error()))
		}
	}
}

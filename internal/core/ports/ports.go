package ports

import (
	"context"
	"time"

	"github.com/SscSPs/coop_backoffice/internal/core/domain"
)

// EventPublisher delivers ledger events to downstream consumers. Delivery is
// best effort; a failure never affects the posting that produced the event.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.LedgerEvent) error
	Close() error
}

// RunLocker guards batch runs (one provisioning run per period at a time).
type RunLocker interface {
	// Acquire takes the lock for key or fails with apperrors.ErrConflict when it
	// is already held. The returned release func frees it.
	Acquire(ctx context.Context, key string, ttl time.Duration) (release func(context.Context) error, err error)
}

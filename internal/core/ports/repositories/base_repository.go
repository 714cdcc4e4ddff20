package repositories

import "context"

// TransactionManager runs a function as one all-or-nothing unit of work.
// Repository calls made with the ctx passed to fn join the same unit; a
// nested WithinTx joins the outer one instead of opening a new one.
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Package memory is an in-process implementation of every repository port.
// Units of work are serialised and rolled back by restoring a snapshot.
package memory

import (
	"context"
	"sync"

	"github.com/SscSPs/coop_backoffice/internal/core/domain"
	portsrepo "github.com/SscSPs/coop_backoffice/internal/core/ports/repositories"
)

type txKey struct{}

type state struct {
	accounts   map[string]domain.Account
	journals   map[string]domain.JournalEntry
	loans      map[string]domain.Loan
	schedules  map[string][]domain.LoanSchedule
	payments   map[string][]domain.LoanPayment
	provisions map[string]domain.CKPNProvision
	products   map[string]domain.Product
	batches    map[string][]domain.ProductBatch
	savings    map[string]domain.MemberSavings
}

func newState() state {
	return state{
		accounts:   make(map[string]domain.Account),
		journals:   make(map[string]domain.JournalEntry),
		loans:      make(map[string]domain.Loan),
		schedules:  make(map[string][]domain.LoanSchedule),
		payments:   make(map[string][]domain.LoanPayment),
		provisions: make(map[string]domain.CKPNProvision),
		products:   make(map[string]domain.Product),
		batches:    make(map[string][]domain.ProductBatch),
		savings:    make(map[string]domain.MemberSavings),
	}
}

// clone copies every map. Slices whose elements are updated in place are
// copied too; journal lines are never mutated after save.
func (s state) clone() state {
	out := newState()
	for k, v := range s.accounts {
		out.accounts[k] = v
	}
	for k, v := range s.journals {
		out.journals[k] = v
	}
	for k, v := range s.loans {
		out.loans[k] = v
	}
	for k, v := range s.schedules {
		out.schedules[k] = append([]domain.LoanSchedule(nil), v...)
	}
	for k, v := range s.payments {
		out.payments[k] = append([]domain.LoanPayment(nil), v...)
	}
	for k, v := range s.provisions {
		out.provisions[k] = v
	}
	for k, v := range s.products {
		out.products[k] = v
	}
	for k, v := range s.batches {
		out.batches[k] = append([]domain.ProductBatch(nil), v...)
	}
	for k, v := range s.savings {
		out.savings[k] = v
	}
	return out
}

// Store holds all data in maps. It is safe for concurrent use.
type Store struct {
	txMu sync.Mutex   // one unit of work at a time
	mu   sync.RWMutex // guards data
	data state
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{data: newState()}
}

// NewRepositoryProvider exposes a store through every repository port.
func NewRepositoryProvider(store *Store) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TxManager:     store,
		AccountRepo:   store,
		JournalRepo:   store,
		LoanRepo:      store,
		ProvisionRepo: store,
		InventoryRepo: store,
		SavingsRepo:   store,
		ReportingRepo: store,
	}
}

var (
	_ portsrepo.TransactionManager        = (*Store)(nil)
	_ portsrepo.AccountRepositoryFacade   = (*Store)(nil)
	_ portsrepo.JournalRepositoryFacade   = (*Store)(nil)
	_ portsrepo.LoanRepositoryFacade      = (*Store)(nil)
	_ portsrepo.ProvisionRepository       = (*Store)(nil)
	_ portsrepo.InventoryRepositoryFacade = (*Store)(nil)
	_ portsrepo.SavingsRepository         = (*Store)(nil)
	_ portsrepo.ReportingRepository       = (*Store)(nil)
)

// WithinTx runs fn with exclusive write access. If fn fails every change it
// made is discarded. A nested call joins the running unit.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(bool); ok {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	snapshot := s.data.clone()
	s.mu.RUnlock()

	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		s.mu.Lock()
		s.data = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *Store) read(fn func(d *state)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(&s.data)
}

func (s *Store) write(fn func(d *state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&s.data)
}

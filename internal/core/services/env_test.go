package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/coop_backoffice/internal/core/domain"
	"github.com/SscSPs/coop_backoffice/internal/core/ports"
	portsrepo "github.com/SscSPs/coop_backoffice/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/coop_backoffice/internal/core/ports/services"
	"github.com/SscSPs/coop_backoffice/internal/core/services"
	"github.com/SscSPs/coop_backoffice/internal/dto"
	"github.com/SscSPs/coop_backoffice/internal/platform/config"
	"github.com/SscSPs/coop_backoffice/internal/platform/lock"
	"github.com/SscSPs/coop_backoffice/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const testUser = "user-test"

// recordingPublisher keeps every published event in order.
type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.LedgerEvent
}

func (p *recordingPublisher) Publish(_ context.Context, event domain.LedgerEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) Events() []domain.LedgerEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.LedgerEvent(nil), p.events...)
}

type testEnv struct {
	cfg       *config.Config
	store     *memory.Store
	repos     portsrepo.RepositoryProvider
	publisher *recordingPublisher
	locker    ports.RunLocker
	svc       *portssvc.ServiceContainer
}

func testConfig() *config.Config {
	lending := config.DefaultLendingSettings()
	lending.ProvisionWorkers = 3
	return &config.Config{
		StorageDriver: config.StorageMemory,
		Ledger:        config.DefaultLedgerSettings(),
		Lending:       lending,
		Accounts:      domain.DefaultAccountMapping(),
		Reporting:     config.DefaultReportingSettings(),
	}
}

// newTestEnv wires every service over a fresh memory store seeded with the default chart.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWith(t, testConfig(), lock.NewLocalLocker())
}

func newTestEnvWith(t *testing.T, cfg *config.Config, locker ports.RunLocker) *testEnv {
	t.Helper()
	store := memory.NewStore()
	repos := memory.NewRepositoryProvider(store)
	publisher := &recordingPublisher{}
	env := &testEnv{
		cfg:       cfg,
		store:     store,
		repos:     repos,
		publisher: publisher,
		locker:    locker,
		svc:       services.NewServiceContainer(cfg, repos, publisher, locker),
	}
	created, err := env.svc.Account.SeedChart(context.Background(), domain.DefaultChart, "system")
	require.NoError(t, err)
	require.Equal(t, len(domain.DefaultChart), created)
	return env
}

func (e *testEnv) balance(t *testing.T, code string) decimal.Decimal {
	t.Helper()
	acc, err := e.svc.Account.GetAccountByCode(context.Background(), code)
	require.NoError(t, err)
	return acc.Balance
}

// post records a balanced two-line manual entry.
func (e *testEnv) post(t *testing.T, date time.Time, debit, credit string, amount string) *domain.JournalEntry {
	t.Helper()
	entry, err := e.svc.Journal.CreateJournal(context.Background(), dto.CreateJournalRequest{
		Date:        date,
		Description: "manual " + debit + "/" + credit,
		Lines: []dto.JournalLineRequest{
			{AccountCode: debit, Debit: dec(amount), Credit: decimal.Zero},
			{AccountCode: credit, Debit: decimal.Zero, Credit: dec(amount)},
		},
		Post: true,
	}, testUser)
	require.NoError(t, err)
	return entry
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// assertBooksBalance checks the trial balance over everything posted so far.
func (e *testEnv) assertBooksBalance(t *testing.T) {
	t.Helper()
	tb, err := e.svc.Journal.GetTrialBalance(context.Background(), nil)
	require.NoError(t, err)
	require.True(t, tb.Balanced, "debits %s credits %s", tb.TotalDebit, tb.TotalCredit)
}

package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/coop_backoffice/internal/apperrors"
	"github.com/SscSPs/coop_backoffice/internal/core/domain"
	"github.com/SscSPs/coop_backoffice/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func savingsReq(amount string) dto.SavingsTransactionRequest {
	return dto.SavingsTransactionRequest{Amount: dec(amount), Date: day(2024, time.April, 1)}
}

func TestSavings_DepositAndWithdraw(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.Savings.Deposit(ctx, "member-1", savingsReq("500000"), testUser)
	require.NoError(t, err)
	_, err = env.svc.Savings.Deposit(ctx, "member-1", savingsReq("250000"), testUser)
	require.NoError(t, err)
	savings, err := env.svc.Savings.Withdraw(ctx, "member-1", savingsReq("100000"), testUser)
	require.NoError(t, err)
	assert.True(t, savings.Balance.Equal(dec("650000")))

	stored, err := env.svc.Savings.GetSavings(ctx, "member-1")
	require.NoError(t, err)
	assert.True(t, stored.Balance.Equal(dec("650000")))
	assert.True(t, env.balance(t, "2-1100").Equal(dec("650000")))
	assert.True(t, env.balance(t, "1-1100").Equal(dec("650000")))

	events := env.publisher.Events()
	require.Len(t, events, 3)
	assert.Equal(t, domain.RefSavings, events[2].ReferenceType)
	env.assertBooksBalance(t)
}

func TestSavings_OverdrawIsRejected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, err := env.svc.Savings.Deposit(ctx, "member-2", savingsReq("100000"), testUser)
	require.NoError(t, err)

	_, err = env.svc.Savings.Withdraw(ctx, "member-2", savingsReq("100000.01"), testUser)
	assert.ErrorIs(t, err, apperrors.ErrState)

	_, err = env.svc.Savings.Withdraw(ctx, "nobody", savingsReq("1"), testUser)
	assert.ErrorIs(t, err, apperrors.ErrState)

	stored, err := env.svc.Savings.GetSavings(ctx, "member-2")
	require.NoError(t, err)
	assert.True(t, stored.Balance.Equal(dec("100000")))
	assert.True(t, env.balance(t, "1-1100").Equal(dec("100000")))
	assert.Len(t, env.publisher.Events(), 1)

	_, err = env.svc.Savings.GetSavings(ctx, "nobody")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSavings_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		member string
		amount decimal.Decimal
	}{
		{"blank member", " ", dec("10")},
		{"zero amount", "member-3", decimal.Zero},
		{"negative amount", "member-3", dec("-5")},
		{"fractional cent", "member-3", dec("1.005")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.svc.Savings.Deposit(ctx, tt.member, dto.SavingsTransactionRequest{Amount: tt.amount, Date: day(2024, time.April, 1)}, testUser)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}
	assert.Empty(t, env.publisher.Events())
}

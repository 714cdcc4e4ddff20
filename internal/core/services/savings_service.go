package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/coop_backoffice/internal/apperrors"
	"github.com/SscSPs/coop_backoffice/internal/core/domain"
	portsrepo "github.com/SscSPs/coop_backoffice/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/coop_backoffice/internal/core/ports/services"
	"github.com/SscSPs/coop_backoffice/internal/dto"
	"github.com/shopspring/decimal"
)

type savingsService struct {
	BaseService
	savingsRepo portsrepo.SavingsRepository
	poster      portssvc.JournalPosterSvc
	resolver    portssvc.AccountResolverSvc
	uow         *UnitOfWork
}

// NewSavingsService creates the voluntary-savings service.
func NewSavingsService(
	savingsRepo portsrepo.SavingsRepository,
	poster portssvc.JournalPosterSvc,
	resolver portssvc.AccountResolverSvc,
	uow *UnitOfWork,
) portssvc.SavingsSvc {
	return &savingsService{
		BaseService: newBaseService(),
		savingsRepo: savingsRepo,
		poster:      poster,
		resolver:    resolver,
		uow:         uow,
	}
}

var _ portssvc.SavingsSvc = (*savingsService)(nil)

func (s *savingsService) GetSavings(ctx context.Context, memberID string) (*domain.MemberSavings, error) {
	return s.savingsRepo.FindSavings(ctx, memberID)
}

// Deposit posts Dr cash / Cr member savings.
func (s *savingsService) Deposit(ctx context.Context, memberID string, req dto.SavingsTransactionRequest, userID string) (*domain.MemberSavings, error) {
	return s.move(ctx, memberID, req, userID, false)
}

// Withdraw posts Dr member savings / Cr cash. The member balance cannot go negative.
func (s *savingsService) Withdraw(ctx context.Context, memberID string, req dto.SavingsTransactionRequest, userID string) (*domain.MemberSavings, error) {
	return s.move(ctx, memberID, req, userID, true)
}

func (s *savingsService) move(ctx context.Context, memberID string, req dto.SavingsTransactionRequest, userID string, withdraw bool) (*domain.MemberSavings, error) {
	if strings.TrimSpace(memberID) == "" {
		return nil, apperrors.NewValidationError("member id is required")
	}
	if !req.Amount.IsPositive() || !domain.HasMoneyPrecision(req.Amount) {
		return nil, apperrors.NewValidationError("amount must be a positive amount").WithField("amount", req.Amount.String())
	}
	date := req.Date
	if date.IsZero() {
		date = s.Now()
	}

	var savings domain.MemberSavings
	err := s.uow.Run(ctx, func(ctx context.Context) error {
		cash, err := s.resolver.Resolve(ctx, domain.RoleCash)
		if err != nil {
			return err
		}
		liability, err := s.resolver.Resolve(ctx, domain.RoleMemberSavings)
		if err != nil {
			return err
		}

		now := s.Now()
		current, err := s.savingsRepo.FindSavingsForUpdate(ctx, memberID)
		switch {
		case err == nil:
			savings = *current
		case errors.Is(err, apperrors.ErrNotFound):
			savings = domain.MemberSavings{MemberID: memberID, Balance: decimal.Zero, AuditFields: domain.NewAuditFields(userID, now)}
		default:
			return fmt.Errorf("failed to load savings: %w", err)
		}

		debit, credit, verb := cash.Code, liability.Code, "Deposit"
		if withdraw {
			if savings.Balance.LessThan(req.Amount) {
				return apperrors.NewStateError("withdrawal exceeds savings balance").
					WithField("member", memberID).
					WithField("balance", savings.Balance.StringFixed(domain.MoneyPlaces)).
					WithField("amount", req.Amount.StringFixed(domain.MoneyPlaces))
			}
			debit, credit, verb = liability.Code, cash.Code, "Withdrawal"
			savings.Balance = savings.Balance.Sub(req.Amount)
		} else {
			savings.Balance = savings.Balance.Add(req.Amount)
		}

		if _, err := s.poster.PostEntry(ctx, domain.JournalEntry{
			EntryDate:     date,
			Description:   fmt.Sprintf("%s of voluntary savings by member %s", verb, memberID),
			ReferenceType: domain.RefSavings,
			ReferenceID:   memberID,
			Lines: []domain.JournalLine{
				domain.DebitLine(debit, req.Amount, ""),
				domain.CreditLine(credit, req.Amount, ""),
			},
		}, userID); err != nil {
			return err
		}

		savings.Touch(userID, now)
		if err := s.savingsRepo.SaveSavings(ctx, savings); err != nil {
			return fmt.Errorf("failed to save savings: %w", err)
		}
		return nil
	})
	if err != nil {
		s.LogFailure(ctx, err, "Savings transaction failed", slog.String("member_id", memberID), slog.Bool("withdraw", withdraw))
		return nil, err
	}
	return &savings, nil
}

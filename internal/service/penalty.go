package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/YusovID/library-service/internal/apperrors"
	"github.com/YusovID/library-service/internal/domain"
	"github.com/YusovID/library-service/internal/repository"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type PenaltyService interface {
	ComputePenalty(ctx context.Context, caller domain.Caller, loanID int64, asOf time.Time) (*domain.PenaltySummary, error)
	Pay(ctx context.Context, caller domain.Caller, loanID int64, amount decimal.Decimal, description *string) (*domain.Payment, error)
	ListPayments(ctx context.Context, caller domain.Caller, loanID int64) ([]domain.Payment, error)
	ListOverdue(ctx context.Context, caller domain.Caller, asOf time.Time) ([]domain.OverdueLoan, error)
}

type PenaltyServiceImpl struct {
	BaseService
	policy   Policy
	loans    repository.LoanRepository
	payments repository.PaymentRepository
}

func NewPenaltyService(db DB, log *slog.Logger, policy Policy, repos Repositories) *PenaltyServiceImpl {
	return &PenaltyServiceImpl{
		BaseService: NewBaseService(db, log),
		policy:      policy,
		loans:       repos.Loans,
		payments:    repos.Payments,
	}
}

func (s *PenaltyServiceImpl) ComputePenalty(ctx context.Context, caller domain.Caller, loanID int64, asOf time.Time) (*domain.PenaltySummary, error) {
	const op = "internal.service.penalty.ComputePenalty"

	if asOf.IsZero() {
		asOf = s.now()
	}

	loan, err := s.loans.GetLoan(ctx, s.db, loanID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !caller.ActsFor(loan.MemberID) {
		return nil, apperrors.ErrNotLoanOwner
	}

	if err := checkPenaltyApplies(loan, asOf); err != nil {
		return nil, err
	}

	paid, err := s.payments.SumPayments(ctx, s.db, loanID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to sum payments: %w", op, err)
	}

	summary := computePenalty(loan, paid, s.policy.DailyPenaltyRate, asOf)

	return &summary, nil
}

func (s *PenaltyServiceImpl) Pay(ctx context.Context, caller domain.Caller, loanID int64, amount decimal.Decimal, description *string) (payment *domain.Payment, err error) {
	const op = "internal.service.penalty.Pay"
	log := s.log.With(slog.String("op", op), slog.Int64("loan_id", loanID), slog.String("amount", amount.String()))

	defer func() { observe("pay", err) }()

	if caller.IsAdmin() {
		return nil, apperrors.ErrAdminCannotPay
	}

	if !amount.IsPositive() || !amount.Equal(amount.Round(2)) {
		return nil, apperrors.ErrInvalidAmount
	}

	now := s.now()

	err = s.transaction(ctx, op, func(tx *sqlx.Tx) error {
		loan, err := s.loans.GetLoanForUpdate(ctx, tx, loanID)
		if err != nil {
			return err
		}

		if caller.Role != domain.RoleMember || caller.MemberID != loan.MemberID {
			return apperrors.ErrNotLoanOwner
		}

		if err := checkPenaltyApplies(loan, now); err != nil {
			return err
		}

		paid, err := s.payments.SumPayments(ctx, tx, loanID)
		if err != nil {
			return fmt.Errorf("%s: failed to sum payments: %w", op, err)
		}

		summary := computePenalty(loan, paid, s.policy.DailyPenaltyRate, now)
		if amount.GreaterThan(summary.Remaining) {
			return fmt.Errorf("%w: remaining %s", apperrors.ErrAmountExceedsRemaining, summary.Remaining.StringFixed(2))
		}

		payment = &domain.Payment{
			LoanID:      loanID,
			Amount:      amount,
			PaymentDate: now,
			Description: description,
		}

		return s.payments.CreatePayment(ctx, tx, payment)
	})
	if err != nil {
		log.Warn("payment rejected", slog.String("reason", err.Error()))
		return nil, err
	}

	log.Info("payment recorded", slog.Int64("payment_id", payment.ID))

	return payment, nil
}

func (s *PenaltyServiceImpl) ListPayments(ctx context.Context, caller domain.Caller, loanID int64) ([]domain.Payment, error) {
	const op = "internal.service.penalty.ListPayments"

	loan, err := s.loans.GetLoan(ctx, s.db, loanID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !caller.ActsFor(loan.MemberID) {
		return nil, apperrors.ErrNotLoanOwner
	}

	payments, err := s.payments.ListPayments(ctx, s.db, loanID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list payments: %w", op, err)
	}

	return payments, nil
}

func (s *PenaltyServiceImpl) ListOverdue(ctx context.Context, caller domain.Caller, asOf time.Time) ([]domain.OverdueLoan, error) {
	const op = "internal.service.penalty.ListOverdue"

	if asOf.IsZero() {
		asOf = s.now()
	}

	var memberID *int64

	switch caller.Role {
	case domain.RoleAdmin:
	case domain.RoleMember:
		memberID = &caller.MemberID
	default:
		return nil, apperrors.ErrForbidden
	}

	loans, err := s.loans.ListOverdue(ctx, s.db, asOf, memberID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list overdue loans: %w", op, err)
	}

	ids := make([]int64, len(loans))
	for i := range loans {
		ids[i] = loans[i].ID
	}

	paid, err := s.payments.SumPaymentsByLoan(ctx, s.db, ids)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to sum payments: %w", op, err)
	}

	overdue := make([]domain.OverdueLoan, len(loans))
	for i := range loans {
		overdue[i] = domain.OverdueLoan{
			Loan:    loans[i],
			Penalty: computePenalty(&loans[i], paid[loans[i].ID], s.policy.DailyPenaltyRate, asOf),
		}
	}

	return overdue, nil
}

func checkPenaltyApplies(loan *domain.Loan, asOf time.Time) error {
	if !loan.IsOpen() {
		return apperrors.ErrLoanAlreadyReturned
	}

	if !asOf.After(loan.DueAt) {
		return fmt.Errorf("%w: due at %s", apperrors.ErrLoanNotOverdue, loan.DueAt.Format(time.RFC3339))
	}

	return nil
}

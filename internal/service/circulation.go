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
)

// ReservationNotifier delivers a reservation hand-off once the return that
// produced it has committed. Delivery is best-effort.
type ReservationNotifier interface {
	NotifyReservation(ctx context.Context, reservation domain.Reservation)
}

type CirculationService interface {
	Borrow(ctx context.Context, caller domain.Caller, memberID, copyID int64) (*domain.Loan, error)
	Return(ctx context.Context, caller domain.Caller, loanID int64) (*domain.ReturnResult, error)
	RequestReturn(ctx context.Context, caller domain.Caller, loanID int64) (*domain.ReturnRequest, error)
	ApproveReturn(ctx context.Context, caller domain.Caller, requestID int64) (*domain.ApproveResult, error)
	RejectReturn(ctx context.Context, caller domain.Caller, requestID int64, reason string) (*domain.ReturnRequest, error)
	Reserve(ctx context.Context, caller domain.Caller, memberID, copyID int64) (*domain.Reservation, error)
	GetLoan(ctx context.Context, caller domain.Caller, loanID int64) (*domain.Loan, error)
	ListReturnRequests(ctx context.Context, caller domain.Caller, status *domain.ReturnRequestStatus) ([]domain.ReturnRequest, error)
}

type CirculationServiceImpl struct {
	BaseService
	policy       Policy
	catalog      repository.CatalogRepository
	members      repository.MemberRepository
	loans        repository.LoanRepository
	reservations repository.ReservationRepository
	returns      repository.ReturnRequestRepository
	notifier     ReservationNotifier
}

func NewCirculationService(
	db DB,
	log *slog.Logger,
	policy Policy,
	repos Repositories,
	notifier ReservationNotifier,
) *CirculationServiceImpl {
	return &CirculationServiceImpl{
		BaseService:  NewBaseService(db, log),
		policy:       policy,
		catalog:      repos.Catalog,
		members:      repos.Members,
		loans:        repos.Loans,
		reservations: repos.Reservations,
		returns:      repos.ReturnRequests,
		notifier:     notifier,
	}
}

func (s *CirculationServiceImpl) Borrow(ctx context.Context, caller domain.Caller, memberID, copyID int64) (loan *domain.Loan, err error) {
	const op = "internal.service.circulation.Borrow"
	log := s.log.With(slog.String("op", op), slog.Int64("member_id", memberID), slog.Int64("copy_id", copyID))

	defer func() { observe("borrow", err) }()

	if !caller.ActsFor(memberID) {
		return nil, apperrors.ErrNotSelf
	}

	now := s.now()

	err = s.transaction(ctx, op, func(tx *sqlx.Tx) error {
		if _, err := s.members.GetMemberForUpdate(ctx, tx, memberID); err != nil {
			return err
		}

		c, err := s.catalog.GetCopy(ctx, tx, copyID)
		if err != nil {
			return err
		}

		if c.Status != domain.CopyAvailable {
			return &apperrors.CopyNotAvailableError{CopyID: copyID, Status: string(c.Status)}
		}

		open, err := s.loans.CountOpenLoans(ctx, tx, memberID)
		if err != nil {
			return fmt.Errorf("%s: failed to count open loans: %w", op, err)
		}

		if open >= s.policy.MaxOpenLoans {
			return fmt.Errorf("%w: %d of %d", apperrors.ErrLoanQuotaExceeded, open, s.policy.MaxOpenLoans)
		}

		blocked, err := s.loans.HasUnpaidLoanDueBefore(ctx, tx, memberID, now.Add(-s.policy.SevereOverdueAfter))
		if err != nil {
			return fmt.Errorf("%s: failed to check unpaid overdue loans: %w", op, err)
		}

		if blocked {
			return apperrors.ErrUnpaidOverdueLoan
		}

		swapped, err := s.catalog.SwapCopyStatus(ctx, tx, copyID, domain.CopyAvailable, domain.CopyLoaned)
		if err != nil {
			return fmt.Errorf("%s: failed to mark copy loaned: %w", op, err)
		}

		if !swapped {
			current, err := s.catalog.GetCopy(ctx, tx, copyID)
			if err != nil {
				return fmt.Errorf("%s: failed to re-read copy: %w", op, err)
			}

			return &apperrors.CopyNotAvailableError{CopyID: copyID, Status: string(current.Status)}
		}

		loan = &domain.Loan{
			CopyID:   copyID,
			MemberID: memberID,
			LoanedAt: now,
			DueAt:    now.Add(s.policy.LoanPeriod),
		}

		if err := s.loans.CreateLoan(ctx, tx, loan); err != nil {
			return err
		}

		if err := s.loans.AppendAudit(ctx, tx, loan.ID, domain.AuditBorrow, now); err != nil {
			return fmt.Errorf("%s: failed to append audit: %w", op, err)
		}

		return nil
	})
	if err != nil {
		log.Warn("borrow failed", slog.String("reason", err.Error()))
		return nil, err
	}

	log.Info("copy borrowed", slog.Int64("loan_id", loan.ID), slog.Time("due_at", loan.DueAt))

	return loan, nil
}

func (s *CirculationServiceImpl) Return(ctx context.Context, caller domain.Caller, loanID int64) (result *domain.ReturnResult, err error) {
	const op = "internal.service.circulation.Return"
	log := s.log.With(slog.String("op", op), slog.Int64("loan_id", loanID))

	defer func() { observe("return", err) }()

	if !caller.IsAdmin() {
		return nil, apperrors.ErrAdminOnly
	}

	now := s.now()

	err = s.transaction(ctx, op, func(tx *sqlx.Tx) error {
		loan, err := s.loans.GetLoanForUpdate(ctx, tx, loanID)
		if err != nil {
			return err
		}

		result, err = s.closeLoan(ctx, tx, loan, now)

		return err
	})
	if err != nil {
		log.Warn("return failed", slog.String("reason", err.Error()))
		return nil, err
	}

	log.Info("loan returned", slog.Int("days_late", result.DaysLate))
	s.handOff(ctx, result)

	return result, nil
}

func (s *CirculationServiceImpl) RequestReturn(ctx context.Context, caller domain.Caller, loanID int64) (request *domain.ReturnRequest, err error) {
	const op = "internal.service.circulation.RequestReturn"
	log := s.log.With(slog.String("op", op), slog.Int64("loan_id", loanID))

	defer func() { observe("request_return", err) }()

	now := s.now()

	err = s.transaction(ctx, op, func(tx *sqlx.Tx) error {
		loan, err := s.loans.GetLoanForUpdate(ctx, tx, loanID)
		if err != nil {
			return err
		}

		if caller.Role != domain.RoleMember || caller.MemberID != loan.MemberID {
			return apperrors.ErrNotLoanOwner
		}

		if !loan.IsOpen() {
			return apperrors.ErrLoanAlreadyReturned
		}

		pending, err := s.returns.HasPendingReturnRequest(ctx, tx, loanID)
		if err != nil {
			return fmt.Errorf("%s: failed to check pending requests: %w", op, err)
		}

		if pending {
			return apperrors.ErrReturnRequestPending
		}

		request = &domain.ReturnRequest{
			LoanID:      loanID,
			RequestedAt: now,
			Status:      domain.ReturnRequestPending,
		}

		return s.returns.CreateReturnRequest(ctx, tx, request)
	})
	if err != nil {
		return nil, err
	}

	log.Info("return requested", slog.Int64("request_id", request.ID))

	return request, nil
}

func (s *CirculationServiceImpl) ApproveReturn(ctx context.Context, caller domain.Caller, requestID int64) (result *domain.ApproveResult, err error) {
	const op = "internal.service.circulation.ApproveReturn"
	log := s.log.With(slog.String("op", op), slog.Int64("request_id", requestID))

	defer func() { observe("approve_return", err) }()

	if !caller.IsAdmin() {
		return nil, apperrors.ErrAdminOnly
	}

	now := s.now()

	err = s.transaction(ctx, op, func(tx *sqlx.Tx) error {
		request, err := s.pendingRequest(ctx, tx, requestID)
		if err != nil {
			return err
		}

		loan, err := s.loans.GetLoanForUpdate(ctx, tx, request.LoanID)
		if err != nil {
			return err
		}

		returned, err := s.closeLoan(ctx, tx, loan, now)
		if err != nil {
			return err
		}

		request.Status = domain.ReturnRequestApproved
		request.ProcessedAt = &now
		request.ProcessedByUserID = &caller.UserID

		if err := s.returns.ResolveReturnRequest(ctx, tx, request); err != nil {
			return err
		}

		result = &domain.ApproveResult{Request: *request, Return: *returned}

		return nil
	})
	if err != nil {
		log.Warn("approve return failed", slog.String("reason", err.Error()))
		return nil, err
	}

	log.Info("return request approved", slog.Int64("loan_id", result.Request.LoanID), slog.Int("days_late", result.Return.DaysLate))
	s.handOff(ctx, &result.Return)

	return result, nil
}

func (s *CirculationServiceImpl) RejectReturn(ctx context.Context, caller domain.Caller, requestID int64, reason string) (request *domain.ReturnRequest, err error) {
	const op = "internal.service.circulation.RejectReturn"
	log := s.log.With(slog.String("op", op), slog.Int64("request_id", requestID))

	defer func() { observe("reject_return", err) }()

	if !caller.IsAdmin() {
		return nil, apperrors.ErrAdminOnly
	}

	now := s.now()

	err = s.transaction(ctx, op, func(tx *sqlx.Tx) error {
		request, err = s.pendingRequest(ctx, tx, requestID)
		if err != nil {
			return err
		}

		request.Status = domain.ReturnRequestRejected
		request.ProcessedAt = &now
		request.ProcessedByUserID = &caller.UserID

		if reason != "" {
			request.RejectionReason = &reason
		}

		return s.returns.ResolveReturnRequest(ctx, tx, request)
	})
	if err != nil {
		return nil, err
	}

	log.Info("return request rejected", slog.Int64("loan_id", request.LoanID))

	return request, nil
}

func (s *CirculationServiceImpl) Reserve(ctx context.Context, caller domain.Caller, memberID, copyID int64) (reservation *domain.Reservation, err error) {
	const op = "internal.service.circulation.Reserve"
	log := s.log.With(slog.String("op", op), slog.Int64("member_id", memberID), slog.Int64("copy_id", copyID))

	defer func() { observe("reserve", err) }()

	if !caller.ActsFor(memberID) {
		return nil, apperrors.ErrNotSelf
	}

	now := s.now()

	err = s.transaction(ctx, op, func(tx *sqlx.Tx) error {
		if _, err := s.members.GetMember(ctx, tx, memberID); err != nil {
			return err
		}

		c, err := s.catalog.GetCopy(ctx, tx, copyID)
		if err != nil {
			return err
		}

		if c.Status != domain.CopyLoaned {
			return fmt.Errorf("%w: current status: %s", apperrors.ErrCopyNotLoaned, c.Status)
		}

		exists, err := s.reservations.HasPendingReservation(ctx, tx, memberID, copyID)
		if err != nil {
			return fmt.Errorf("%s: failed to check pending reservations: %w", op, err)
		}

		if exists {
			return apperrors.ErrDuplicateReservation
		}

		reservation = &domain.Reservation{
			MemberID:   memberID,
			CopyID:     copyID,
			ReservedAt: now,
		}

		return s.reservations.CreateReservation(ctx, tx, reservation)
	})
	if err != nil {
		return nil, err
	}

	log.Info("copy reserved", slog.Int64("reservation_id", reservation.ID))

	return reservation, nil
}

func (s *CirculationServiceImpl) GetLoan(ctx context.Context, caller domain.Caller, loanID int64) (*domain.Loan, error) {
	const op = "internal.service.circulation.GetLoan"

	loan, err := s.loans.GetLoan(ctx, s.db, loanID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !caller.ActsFor(loan.MemberID) {
		return nil, apperrors.ErrNotLoanOwner
	}

	return loan, nil
}

func (s *CirculationServiceImpl) ListReturnRequests(ctx context.Context, caller domain.Caller, status *domain.ReturnRequestStatus) ([]domain.ReturnRequest, error) {
	const op = "internal.service.circulation.ListReturnRequests"

	if !caller.IsAdmin() {
		return nil, apperrors.ErrAdminOnly
	}

	requests, err := s.returns.ListReturnRequests(ctx, s.db, status)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list return requests: %w", op, err)
	}

	return requests, nil
}

// closeLoan performs the return transition on a locked loan: close the loan,
// free the copy, record the audit entry and notify the head of the copy's queue.
func (s *CirculationServiceImpl) closeLoan(ctx context.Context, tx *sqlx.Tx, loan *domain.Loan, now time.Time) (*domain.ReturnResult, error) {
	const op = "internal.service.circulation.closeLoan"

	if !loan.IsOpen() {
		return nil, apperrors.ErrLoanAlreadyReturned
	}

	if err := s.loans.CloseLoan(ctx, tx, loan.ID, now); err != nil {
		return nil, err
	}

	swapped, err := s.catalog.SwapCopyStatus(ctx, tx, loan.CopyID, domain.CopyLoaned, domain.CopyAvailable)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to mark copy available: %w", op, err)
	}

	if !swapped {
		return nil, fmt.Errorf("%s: copy %d of open loan %d is not in Loaned status", op, loan.CopyID, loan.ID)
	}

	if err := s.loans.AppendAudit(ctx, tx, loan.ID, domain.AuditReturn, now); err != nil {
		return nil, fmt.Errorf("%s: failed to append audit: %w", op, err)
	}

	reservation, err := s.reservations.NotifyOldest(ctx, tx, loan.CopyID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to notify reservation: %w", op, err)
	}

	returned := *loan
	returned.ReturnedAt = &now

	return &domain.ReturnResult{
		Loan:                returned,
		IsOverdue:           now.After(loan.DueAt),
		DaysLate:            loan.DaysLate(now),
		NotifiedReservation: reservation,
	}, nil
}

func (s *CirculationServiceImpl) pendingRequest(ctx context.Context, tx *sqlx.Tx, requestID int64) (*domain.ReturnRequest, error) {
	request, err := s.returns.GetReturnRequestForUpdate(ctx, tx, requestID)
	if err != nil {
		return nil, err
	}

	if request.Status != domain.ReturnRequestPending {
		return nil, fmt.Errorf("%w: status %s", apperrors.ErrReturnRequestProcessed, request.Status)
	}

	return request, nil
}

func (s *CirculationServiceImpl) handOff(ctx context.Context, result *domain.ReturnResult) {
	if result.NotifiedReservation == nil || s.notifier == nil {
		return
	}

	s.notifier.NotifyReservation(ctx, *result.NotifiedReservation)
}

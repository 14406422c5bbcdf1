// package repository defines the interfaces for the data persistence layer.
// These interfaces abstract the underlying database implementation from the service layer.
//
// Methods taking ext sqlx.ExtContext may run inside a transaction (*sqlx.Tx) or
// directly on a connection (*sqlx.DB). Methods taking tx *sqlx.Tx are write or
// locking operations and must run inside the caller's unit of work.
package repository

import (
	"context"
	"time"

	"github.com/YusovID/library-service/internal/domain"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// CatalogRepository defines the contract for books and their physical copies.
type CatalogRepository interface {
	// CreateBook inserts a book and fills its ID and CreatedAt.
	// It returns *apperrors.BookAlreadyExistsError if the ISBN is taken.
	CreateBook(ctx context.Context, ext sqlx.ExtContext, book *domain.Book) error

	// GetBookForUpdate locks the book row so copy numbering is serialised per book.
	// It returns apperrors.ErrBookNotFound if the book does not exist.
	GetBookForUpdate(ctx context.Context, tx *sqlx.Tx, bookID int64) (*domain.Book, error)

	// AddCopy inserts a copy with CopyNumber = existing copies of the book + 1.
	AddCopy(ctx context.Context, tx *sqlx.Tx, c *domain.Copy) error

	// GetCopy returns apperrors.ErrCopyNotFound if the copy does not exist.
	GetCopy(ctx context.Context, ext sqlx.ExtContext, copyID int64) (*domain.Copy, error)

	// SwapCopyStatus moves a copy from one status to another only if it is
	// currently in the from status. It reports whether the row was changed.
	SwapCopyStatus(ctx context.Context, tx *sqlx.Tx, copyID int64, from, to domain.CopyStatus) (bool, error)
}

// MemberRepository defines the contract for the membership directory.
type MemberRepository interface {
	// CreateMember returns *apperrors.MemberAlreadyExistsError if the email is taken.
	CreateMember(ctx context.Context, ext sqlx.ExtContext, member *domain.Member) error

	// GetMember returns apperrors.ErrMemberNotFound if the member does not exist.
	GetMember(ctx context.Context, ext sqlx.ExtContext, memberID int64) (*domain.Member, error)

	// GetMemberForUpdate locks the member row. Borrow uses it to serialise the
	// quota and penalty gates of concurrent borrows by the same member.
	GetMemberForUpdate(ctx context.Context, tx *sqlx.Tx, memberID int64) (*domain.Member, error)
}

// LoanRepository defines the contract for the loan ledger and its audit trail.
type LoanRepository interface {
	// CreateLoan inserts an open loan and fills its ID.
	// It returns *apperrors.CopyNotAvailableError if the copy already has an open loan.
	CreateLoan(ctx context.Context, tx *sqlx.Tx, loan *domain.Loan) error

	// GetLoan returns apperrors.ErrLoanNotFound if the loan does not exist.
	GetLoan(ctx context.Context, ext sqlx.ExtContext, loanID int64) (*domain.Loan, error)

	// GetLoanForUpdate retrieves a loan and acquires a row-level lock ("FOR UPDATE").
	GetLoanForUpdate(ctx context.Context, tx *sqlx.Tx, loanID int64) (*domain.Loan, error)

	// CloseLoan sets ReturnedAt on an open loan.
	// It returns apperrors.ErrLoanAlreadyReturned if the loan is already closed.
	CloseLoan(ctx context.Context, tx *sqlx.Tx, loanID int64, returnedAt time.Time) error

	// CountOpenLoans counts loans of a member with no ReturnedAt.
	CountOpenLoans(ctx context.Context, ext sqlx.ExtContext, memberID int64) (int, error)

	// HasUnpaidLoanDueBefore reports whether the member has an open loan due
	// before cutoff with no payments recorded against it.
	HasUnpaidLoanDueBefore(ctx context.Context, ext sqlx.ExtContext, memberID int64, cutoff time.Time) (bool, error)

	// ListOverdue returns open loans due before asOf ordered by DueAt.
	// A nil memberID lists loans of every member.
	ListOverdue(ctx context.Context, ext sqlx.ExtContext, asOf time.Time, memberID *int64) ([]domain.Loan, error)

	// AppendAudit records a borrow or return event for a loan.
	AppendAudit(ctx context.Context, tx *sqlx.Tx, loanID int64, action domain.AuditAction, at time.Time) error
}

// ReservationRepository defines the contract for the per-copy wait list.
type ReservationRepository interface {
	// CreateReservation returns apperrors.ErrDuplicateReservation if the member
	// already holds an un-notified reservation for the copy.
	CreateReservation(ctx context.Context, ext sqlx.ExtContext, reservation *domain.Reservation) error

	HasPendingReservation(ctx context.Context, ext sqlx.ExtContext, memberID, copyID int64) (bool, error)

	// NotifyOldest marks the oldest un-notified reservation of the copy as
	// notified and returns it, or returns nil when the queue is empty.
	NotifyOldest(ctx context.Context, tx *sqlx.Tx, copyID int64) (*domain.Reservation, error)
}

// ReturnRequestRepository defines the contract for the two-phase return workflow.
type ReturnRequestRepository interface {
	// CreateReturnRequest returns apperrors.ErrReturnRequestPending if the loan
	// already has a pending request.
	CreateReturnRequest(ctx context.Context, tx *sqlx.Tx, request *domain.ReturnRequest) error

	HasPendingReturnRequest(ctx context.Context, ext sqlx.ExtContext, loanID int64) (bool, error)

	// GetReturnRequestForUpdate returns apperrors.ErrReturnRequestNotFound if the request does not exist.
	GetReturnRequestForUpdate(ctx context.Context, tx *sqlx.Tx, requestID int64) (*domain.ReturnRequest, error)

	// ResolveReturnRequest stores the status, ProcessedAt, ProcessedByUserID and
	// RejectionReason of a pending request.
	// It returns apperrors.ErrReturnRequestProcessed if the request is no longer pending.
	ResolveReturnRequest(ctx context.Context, tx *sqlx.Tx, request *domain.ReturnRequest) error

	// ListReturnRequests returns requests newest first, optionally filtered by status.
	ListReturnRequests(ctx context.Context, ext sqlx.ExtContext, status *domain.ReturnRequestStatus) ([]domain.ReturnRequest, error)
}

// PaymentRepository defines the contract for the append-only penalty ledger.
type PaymentRepository interface {
	CreatePayment(ctx context.Context, tx *sqlx.Tx, payment *domain.Payment) error

	// SumPayments returns zero when the loan has no payments.
	SumPayments(ctx context.Context, ext sqlx.ExtContext, loanID int64) (decimal.Decimal, error)

	// SumPaymentsByLoan returns paid totals keyed by loan id; loans without
	// payments are absent from the map.
	SumPaymentsByLoan(ctx context.Context, ext sqlx.ExtContext, loanIDs []int64) (map[int64]decimal.Decimal, error)

	// ListPayments returns the payment history of a loan, newest first.
	ListPayments(ctx context.Context, ext sqlx.ExtContext, loanID int64) ([]domain.Payment, error)
}

// ReportRepository defines read-only projections over the circulation tables.
type ReportRepository interface {
	Dashboard(ctx context.Context, asOf time.Time) (*domain.DashboardStats, error)
	ActiveLoans(ctx context.Context, asOf time.Time) ([]domain.ActiveLoanRow, error)
	MemberLoanCounts(ctx context.Context) ([]domain.MemberLoanCount, error)
	TopBooks(ctx context.Context, since time.Time, limit int) ([]domain.TopBook, error)
	ReservationQueue(ctx context.Context) ([]domain.ReservationQueueRow, error)
	AuditLog(ctx context.Context, limit int) ([]domain.AuditEntry, error)
}

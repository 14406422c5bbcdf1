package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/YusovID/library-service/internal/domain"
	"github.com/YusovID/library-service/internal/repository"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type TransactorMock struct {
	mock.Mock
	sqlx.ExtContext
}

func (m *TransactorMock) BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error) {
	var tx *sqlx.Tx

	args := m.Called(ctx, opts)
	if args.Get(0) != nil {
		tx = args.Get(0).(*sqlx.Tx)
	}

	return tx, args.Error(1)
}

type CatalogRepositoryMock struct {
	mock.Mock
}

var _ repository.CatalogRepository = (*CatalogRepositoryMock)(nil)

func (m *CatalogRepositoryMock) CreateBook(ctx context.Context, ext sqlx.ExtContext, book *domain.Book) error {
	args := m.Called(ctx, ext, book)
	return args.Error(0)
}

func (m *CatalogRepositoryMock) GetBookForUpdate(ctx context.Context, tx *sqlx.Tx, bookID int64) (*domain.Book, error) {
	args := m.Called(ctx, tx, bookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Book), args.Error(1)
}

func (m *CatalogRepositoryMock) AddCopy(ctx context.Context, tx *sqlx.Tx, c *domain.Copy) error {
	args := m.Called(ctx, tx, c)
	return args.Error(0)
}

func (m *CatalogRepositoryMock) GetCopy(ctx context.Context, ext sqlx.ExtContext, copyID int64) (*domain.Copy, error) {
	args := m.Called(ctx, ext, copyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Copy), args.Error(1)
}

func (m *CatalogRepositoryMock) SwapCopyStatus(ctx context.Context, tx *sqlx.Tx, copyID int64, from, to domain.CopyStatus) (bool, error) {
	args := m.Called(ctx, tx, copyID, from, to)
	return args.Bool(0), args.Error(1)
}

type MemberRepositoryMock struct {
	mock.Mock
}

var _ repository.MemberRepository = (*MemberRepositoryMock)(nil)

func (m *MemberRepositoryMock) CreateMember(ctx context.Context, ext sqlx.ExtContext, member *domain.Member) error {
	args := m.Called(ctx, ext, member)
	return args.Error(0)
}

func (m *MemberRepositoryMock) GetMember(ctx context.Context, ext sqlx.ExtContext, memberID int64) (*domain.Member, error) {
	args := m.Called(ctx, ext, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Member), args.Error(1)
}

func (m *MemberRepositoryMock) GetMemberForUpdate(ctx context.Context, tx *sqlx.Tx, memberID int64) (*domain.Member, error) {
	args := m.Called(ctx, tx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Member), args.Error(1)
}

type LoanRepositoryMock struct {
	mock.Mock
}

var _ repository.LoanRepository = (*LoanRepositoryMock)(nil)

func (m *LoanRepositoryMock) CreateLoan(ctx context.Context, tx *sqlx.Tx, loan *domain.Loan) error {
	args := m.Called(ctx, tx, loan)
	return args.Error(0)
}

func (m *LoanRepositoryMock) GetLoan(ctx context.Context, ext sqlx.ExtContext, loanID int64) (*domain.Loan, error) {
	args := m.Called(ctx, ext, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *LoanRepositoryMock) GetLoanForUpdate(ctx context.Context, tx *sqlx.Tx, loanID int64) (*domain.Loan, error) {
	args := m.Called(ctx, tx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *LoanRepositoryMock) CloseLoan(ctx context.Context, tx *sqlx.Tx, loanID int64, returnedAt time.Time) error {
	args := m.Called(ctx, tx, loanID, returnedAt)
	return args.Error(0)
}

func (m *LoanRepositoryMock) CountOpenLoans(ctx context.Context, ext sqlx.ExtContext, memberID int64) (int, error) {
	args := m.Called(ctx, ext, memberID)
	return args.Int(0), args.Error(1)
}

func (m *LoanRepositoryMock) HasUnpaidLoanDueBefore(ctx context.Context, ext sqlx.ExtContext, memberID int64, cutoff time.Time) (bool, error) {
	args := m.Called(ctx, ext, memberID, cutoff)
	return args.Bool(0), args.Error(1)
}

func (m *LoanRepositoryMock) ListOverdue(ctx context.Context, ext sqlx.ExtContext, asOf time.Time, memberID *int64) ([]domain.Loan, error) {
	args := m.Called(ctx, ext, asOf, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.Loan), args.Error(1)
}

func (m *LoanRepositoryMock) AppendAudit(ctx context.Context, tx *sqlx.Tx, loanID int64, action domain.AuditAction, at time.Time) error {
	args := m.Called(ctx, tx, loanID, action, at)
	return args.Error(0)
}

type ReservationRepositoryMock struct {
	mock.Mock
}

var _ repository.ReservationRepository = (*ReservationRepositoryMock)(nil)

func (m *ReservationRepositoryMock) CreateReservation(ctx context.Context, ext sqlx.ExtContext, reservation *domain.Reservation) error {
	args := m.Called(ctx, ext, reservation)
	return args.Error(0)
}

func (m *ReservationRepositoryMock) HasPendingReservation(ctx context.Context, ext sqlx.ExtContext, memberID, copyID int64) (bool, error) {
	args := m.Called(ctx, ext, memberID, copyID)
	return args.Bool(0), args.Error(1)
}

func (m *ReservationRepositoryMock) NotifyOldest(ctx context.Context, tx *sqlx.Tx, copyID int64) (*domain.Reservation, error) {
	args := m.Called(ctx, tx, copyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Reservation), args.Error(1)
}

type ReturnRequestRepositoryMock struct {
	mock.Mock
}

var _ repository.ReturnRequestRepository = (*ReturnRequestRepositoryMock)(nil)

func (m *ReturnRequestRepositoryMock) CreateReturnRequest(ctx context.Context, tx *sqlx.Tx, request *domain.ReturnRequest) error {
	args := m.Called(ctx, tx, request)
	return args.Error(0)
}

func (m *ReturnRequestRepositoryMock) HasPendingReturnRequest(ctx context.Context, ext sqlx.ExtContext, loanID int64) (bool, error) {
	args := m.Called(ctx, ext, loanID)
	return args.Bool(0), args.Error(1)
}

func (m *ReturnRequestRepositoryMock) GetReturnRequestForUpdate(ctx context.Context, tx *sqlx.Tx, requestID int64) (*domain.ReturnRequest, error) {
	args := m.Called(ctx, tx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.ReturnRequest), args.Error(1)
}

func (m *ReturnRequestRepositoryMock) ResolveReturnRequest(ctx context.Context, tx *sqlx.Tx, request *domain.ReturnRequest) error {
	args := m.Called(ctx, tx, request)
	return args.Error(0)
}

func (m *ReturnRequestRepositoryMock) ListReturnRequests(ctx context.Context, ext sqlx.ExtContext, status *domain.ReturnRequestStatus) ([]domain.ReturnRequest, error) {
	args := m.Called(ctx, ext, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.ReturnRequest), args.Error(1)
}

type PaymentRepositoryMock struct {
	mock.Mock
}

var _ repository.PaymentRepository = (*PaymentRepositoryMock)(nil)

func (m *PaymentRepositoryMock) CreatePayment(ctx context.Context, tx *sqlx.Tx, payment *domain.Payment) error {
	args := m.Called(ctx, tx, payment)
	return args.Error(0)
}

func (m *PaymentRepositoryMock) SumPayments(ctx context.Context, ext sqlx.ExtContext, loanID int64) (decimal.Decimal, error) {
	args := m.Called(ctx, ext, loanID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *PaymentRepositoryMock) SumPaymentsByLoan(ctx context.Context, ext sqlx.ExtContext, loanIDs []int64) (map[int64]decimal.Decimal, error) {
	args := m.Called(ctx, ext, loanIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(map[int64]decimal.Decimal), args.Error(1)
}

func (m *PaymentRepositoryMock) ListPayments(ctx context.Context, ext sqlx.ExtContext, loanID int64) ([]domain.Payment, error) {
	args := m.Called(ctx, ext, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.Payment), args.Error(1)
}

type ReportRepositoryMock struct {
	mock.Mock
}

var _ repository.ReportRepository = (*ReportRepositoryMock)(nil)

func (m *ReportRepositoryMock) Dashboard(ctx context.Context, asOf time.Time) (*domain.DashboardStats, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.DashboardStats), args.Error(1)
}

func (m *ReportRepositoryMock) ActiveLoans(ctx context.Context, asOf time.Time) ([]domain.ActiveLoanRow, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.ActiveLoanRow), args.Error(1)
}

func (m *ReportRepositoryMock) MemberLoanCounts(ctx context.Context) ([]domain.MemberLoanCount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.MemberLoanCount), args.Error(1)
}

func (m *ReportRepositoryMock) TopBooks(ctx context.Context, since time.Time, limit int) ([]domain.TopBook, error) {
	args := m.Called(ctx, since, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.TopBook), args.Error(1)
}

func (m *ReportRepositoryMock) ReservationQueue(ctx context.Context) ([]domain.ReservationQueueRow, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.ReservationQueueRow), args.Error(1)
}

func (m *ReportRepositoryMock) AuditLog(ctx context.Context, limit int) ([]domain.AuditEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.AuditEntry), args.Error(1)
}

type NotifierMock struct {
	mock.Mock
}

func (m *NotifierMock) NotifyReservation(ctx context.Context, reservation domain.Reservation) {
	m.Called(ctx, reservation)
}

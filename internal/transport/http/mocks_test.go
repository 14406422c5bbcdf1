package http

import (
	"context"
	"time"

	"github.com/YusovID/library-service/internal/domain"
	"github.com/YusovID/library-service/internal/service"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type CirculationServiceMock struct {
	mock.Mock
}

var _ service.CirculationService = (*CirculationServiceMock)(nil)

func (m *CirculationServiceMock) Borrow(ctx context.Context, caller domain.Caller, memberID, copyID int64) (*domain.Loan, error) {
	args := m.Called(ctx, caller, memberID, copyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *CirculationServiceMock) Return(ctx context.Context, caller domain.Caller, loanID int64) (*domain.ReturnResult, error) {
	args := m.Called(ctx, caller, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.ReturnResult), args.Error(1)
}

func (m *CirculationServiceMock) RequestReturn(ctx context.Context, caller domain.Caller, loanID int64) (*domain.ReturnRequest, error) {
	args := m.Called(ctx, caller, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.ReturnRequest), args.Error(1)
}

func (m *CirculationServiceMock) ApproveReturn(ctx context.Context, caller domain.Caller, requestID int64) (*domain.ApproveResult, error) {
	args := m.Called(ctx, caller, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.ApproveResult), args.Error(1)
}

func (m *CirculationServiceMock) RejectReturn(ctx context.Context, caller domain.Caller, requestID int64, reason string) (*domain.ReturnRequest, error) {
	args := m.Called(ctx, caller, requestID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.ReturnRequest), args.Error(1)
}

func (m *CirculationServiceMock) Reserve(ctx context.Context, caller domain.Caller, memberID, copyID int64) (*domain.Reservation, error) {
	args := m.Called(ctx, caller, memberID, copyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *CirculationServiceMock) GetLoan(ctx context.Context, caller domain.Caller, loanID int64) (*domain.Loan, error) {
	args := m.Called(ctx, caller, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *CirculationServiceMock) ListReturnRequests(ctx context.Context, caller domain.Caller, status *domain.ReturnRequestStatus) ([]domain.ReturnRequest, error) {
	args := m.Called(ctx, caller, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.ReturnRequest), args.Error(1)
}

type PenaltyServiceMock struct {
	mock.Mock
}

var _ service.PenaltyService = (*PenaltyServiceMock)(nil)

func (m *PenaltyServiceMock) ComputePenalty(ctx context.Context, caller domain.Caller, loanID int64, asOf time.Time) (*domain.PenaltySummary, error) {
	args := m.Called(ctx, caller, loanID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.PenaltySummary), args.Error(1)
}

func (m *PenaltyServiceMock) Pay(ctx context.Context, caller domain.Caller, loanID int64, amount decimal.Decimal, description *string) (*domain.Payment, error) {
	args := m.Called(ctx, caller, loanID, amount, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *PenaltyServiceMock) ListPayments(ctx context.Context, caller domain.Caller, loanID int64) ([]domain.Payment, error) {
	args := m.Called(ctx, caller, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.Payment), args.Error(1)
}

func (m *PenaltyServiceMock) ListOverdue(ctx context.Context, caller domain.Caller, asOf time.Time) ([]domain.OverdueLoan, error) {
	args := m.Called(ctx, caller, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.OverdueLoan), args.Error(1)
}

type CatalogServiceMock struct {
	mock.Mock
}

var _ service.CatalogService = (*CatalogServiceMock)(nil)

func (m *CatalogServiceMock) CreateBook(ctx context.Context, caller domain.Caller, book domain.Book) (*domain.Book, error) {
	args := m.Called(ctx, caller, book)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Book), args.Error(1)
}

func (m *CatalogServiceMock) AddCopy(ctx context.Context, caller domain.Caller, bookID int64, shelfLocation *string) (*domain.Copy, error) {
	args := m.Called(ctx, caller, bookID, shelfLocation)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Copy), args.Error(1)
}

func (m *CatalogServiceMock) GetCopy(ctx context.Context, copyID int64) (*domain.Copy, error) {
	args := m.Called(ctx, copyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Copy), args.Error(1)
}

func (m *CatalogServiceMock) SetCopyStatus(ctx context.Context, caller domain.Caller, copyID int64, status domain.CopyStatus) (*domain.Copy, error) {
	args := m.Called(ctx, caller, copyID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Copy), args.Error(1)
}

type MemberServiceMock struct {
	mock.Mock
}

var _ service.MemberService = (*MemberServiceMock)(nil)

func (m *MemberServiceMock) RegisterMember(ctx context.Context, caller domain.Caller, member domain.Member) (*domain.Member, error) {
	args := m.Called(ctx, caller, member)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Member), args.Error(1)
}

func (m *MemberServiceMock) GetMember(ctx context.Context, caller domain.Caller, memberID int64) (*domain.Member, error) {
	args := m.Called(ctx, caller, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Member), args.Error(1)
}

type ReportServiceMock struct {
	mock.Mock
}

var _ service.ReportService = (*ReportServiceMock)(nil)

func (m *ReportServiceMock) Dashboard(ctx context.Context, caller domain.Caller) (*domain.DashboardStats, error) {
	args := m.Called(ctx, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.DashboardStats), args.Error(1)
}

func (m *ReportServiceMock) ActiveLoans(ctx context.Context, caller domain.Caller) ([]domain.ActiveLoanRow, error) {
	args := m.Called(ctx, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.ActiveLoanRow), args.Error(1)
}

func (m *ReportServiceMock) MemberLoanCounts(ctx context.Context, caller domain.Caller) ([]domain.MemberLoanCount, error) {
	args := m.Called(ctx, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.MemberLoanCount), args.Error(1)
}

func (m *ReportServiceMock) TopBooks(ctx context.Context, caller domain.Caller) ([]domain.TopBook, error) {
	args := m.Called(ctx, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.TopBook), args.Error(1)
}

func (m *ReportServiceMock) ReservationQueue(ctx context.Context, caller domain.Caller) ([]domain.ReservationQueueRow, error) {
	args := m.Called(ctx, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.ReservationQueueRow), args.Error(1)
}

func (m *ReportServiceMock) AuditLog(ctx context.Context, caller domain.Caller) ([]domain.AuditEntry, error) {
	args := m.Called(ctx, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.AuditEntry), args.Error(1)
}

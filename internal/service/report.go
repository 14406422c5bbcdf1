package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/YusovID/library-service/internal/apperrors"
	"github.com/YusovID/library-service/internal/domain"
	"github.com/YusovID/library-service/internal/repository"
)

const (
	topBooksWindow = 30 * 24 * time.Hour
	topBooksLimit  = 10
	auditLogLimit  = 200
)

type ReportService interface {
	Dashboard(ctx context.Context, caller domain.Caller) (*domain.DashboardStats, error)
	ActiveLoans(ctx context.Context, caller domain.Caller) ([]domain.ActiveLoanRow, error)
	MemberLoanCounts(ctx context.Context, caller domain.Caller) ([]domain.MemberLoanCount, error)
	TopBooks(ctx context.Context, caller domain.Caller) ([]domain.TopBook, error)
	ReservationQueue(ctx context.Context, caller domain.Caller) ([]domain.ReservationQueueRow, error)
	AuditLog(ctx context.Context, caller domain.Caller) ([]domain.AuditEntry, error)
}

type ReportServiceImpl struct {
	log     *slog.Logger
	reports repository.ReportRepository
	now     func() time.Time
}

func NewReportService(log *slog.Logger, repos Repositories) *ReportServiceImpl {
	return &ReportServiceImpl{
		log:     log,
		reports: repos.Reports,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *ReportServiceImpl) Dashboard(ctx context.Context, caller domain.Caller) (*domain.DashboardStats, error) {
	const op = "internal.service.report.Dashboard"

	if !caller.IsAdmin() {
		return nil, apperrors.ErrAdminOnly
	}

	stats, err := s.reports.Dashboard(ctx, s.now())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return stats, nil
}

func (s *ReportServiceImpl) ActiveLoans(ctx context.Context, caller domain.Caller) ([]domain.ActiveLoanRow, error) {
	const op = "internal.service.report.ActiveLoans"

	if !caller.IsAdmin() {
		return nil, apperrors.ErrAdminOnly
	}

	rows, err := s.reports.ActiveLoans(ctx, s.now())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return rows, nil
}

func (s *ReportServiceImpl) MemberLoanCounts(ctx context.Context, caller domain.Caller) ([]domain.MemberLoanCount, error) {
	const op = "internal.service.report.MemberLoanCounts"

	if !caller.IsAdmin() {
		return nil, apperrors.ErrAdminOnly
	}

	rows, err := s.reports.MemberLoanCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return rows, nil
}

func (s *ReportServiceImpl) TopBooks(ctx context.Context, caller domain.Caller) ([]domain.TopBook, error) {
	const op = "internal.service.report.TopBooks"

	if !caller.IsAdmin() {
		return nil, apperrors.ErrAdminOnly
	}

	rows, err := s.reports.TopBooks(ctx, s.now().Add(-topBooksWindow), topBooksLimit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return rows, nil
}

func (s *ReportServiceImpl) ReservationQueue(ctx context.Context, caller domain.Caller) ([]domain.ReservationQueueRow, error) {
	const op = "internal.service.report.ReservationQueue"

	if !caller.IsAdmin() {
		return nil, apperrors.ErrAdminOnly
	}

	rows, err := s.reports.ReservationQueue(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return rows, nil
}

func (s *ReportServiceImpl) AuditLog(ctx context.Context, caller domain.Caller) ([]domain.AuditEntry, error) {
	const op = "internal.service.report.AuditLog"

	if !caller.IsAdmin() {
		return nil, apperrors.ErrAdminOnly
	}

	entries, err := s.reports.AuditLog(ctx, auditLogLimit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return entries, nil
}

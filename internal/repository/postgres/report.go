package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/YusovID/library-service/internal/domain"
	"github.com/YusovID/library-service/pkg/logger/sl"
	"github.com/jmoiron/sqlx"
)

// ReportRepository serves read-only projections straight from the pool.
type ReportRepository struct {
	db  *sqlx.DB
	log *slog.Logger
	sq  sq.StatementBuilderType
}

func NewReportRepository(db *sqlx.DB, log *slog.Logger) *ReportRepository {
	return &ReportRepository{
		db:  db,
		log: log,
		sq:  newBuilder(),
	}
}

func (r *ReportRepository) Dashboard(ctx context.Context, asOf time.Time) (*domain.DashboardStats, error) {
	const op = "internal.repository.postgres.Dashboard"

	query, args, err := r.sq.Select().
		Column("(SELECT COUNT(*) FROM books) AS total_books").
		Column("(SELECT COUNT(*) FROM members) AS total_members").
		Column("(SELECT COUNT(*) FROM loans WHERE returned_at IS NULL) AS active_loans").
		Column(sq.Expr("(SELECT COUNT(*) FROM loans WHERE returned_at IS NULL AND due_at < ?) AS overdue_loans", asOf)).
		Column(sq.Expr("(SELECT COUNT(*) FROM copies WHERE status = ?) AS available_copies", domain.CopyAvailable)).
		Column(sq.Expr("(SELECT COUNT(*) FROM return_requests WHERE status = ?) AS pending_returns", domain.ReturnRequestPending)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var stats domain.DashboardStats
	if err := r.db.GetContext(ctx, &stats, query, args...); err != nil {
		r.log.Error("report query failed", slog.String("op", op), sl.Err(err))

		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return &stats, nil
}

func (r *ReportRepository) ActiveLoans(ctx context.Context, asOf time.Time) ([]domain.ActiveLoanRow, error) {
	const op = "internal.repository.postgres.ActiveLoans"

	query, args, err := r.sq.Select(
		"l.id AS loan_id",
		"m.id AS member_id",
		"m.full_name AS member_name",
		"b.title AS book_title",
		"c.id AS copy_id",
		"l.loaned_at",
		"l.due_at",
	).
		Column(sq.Expr("GREATEST(0, FLOOR(EXTRACT(EPOCH FROM (?::timestamptz - l.due_at)) / 86400))::int AS delay_days", asOf)).
		From("loans l").
		Join("members m ON m.id = l.member_id").
		Join("copies c ON c.id = l.copy_id").
		Join("books b ON b.id = c.book_id").
		Where(sq.Eq{"l.returned_at": nil}).
		OrderBy("l.due_at", "l.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	rows := []domain.ActiveLoanRow{}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		r.log.Error("report query failed", slog.String("op", op), sl.Err(err))

		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return rows, nil
}

func (r *ReportRepository) MemberLoanCounts(ctx context.Context) ([]domain.MemberLoanCount, error) {
	const op = "internal.repository.postgres.MemberLoanCounts"

	query, args, err := r.sq.Select("m.id AS member_id", "m.full_name", "COUNT(l.id) AS loan_count").
		From("members m").
		LeftJoin("loans l ON l.member_id = m.id").
		GroupBy("m.id", "m.full_name").
		OrderBy("loan_count DESC", "m.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	rows := []domain.MemberLoanCount{}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		r.log.Error("report query failed", slog.String("op", op), sl.Err(err))

		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return rows, nil
}

func (r *ReportRepository) TopBooks(ctx context.Context, since time.Time, limit int) ([]domain.TopBook, error) {
	const op = "internal.repository.postgres.TopBooks"

	query, args, err := r.sq.Select("b.id AS book_id", "b.title", "b.author", "COUNT(l.id) AS loan_count").
		From("loans l").
		Join("copies c ON c.id = l.copy_id").
		Join("books b ON b.id = c.book_id").
		Where(sq.GtOrEq{"l.loaned_at": since}).
		GroupBy("b.id", "b.title", "b.author").
		OrderBy("loan_count DESC", "b.id").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	rows := []domain.TopBook{}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		r.log.Error("report query failed", slog.String("op", op), sl.Err(err))

		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return rows, nil
}

func (r *ReportRepository) ReservationQueue(ctx context.Context) ([]domain.ReservationQueueRow, error) {
	const op = "internal.repository.postgres.ReservationQueue"

	query, args, err := r.sq.Select(
		"r.id AS reservation_id",
		"r.copy_id",
		"b.title AS book_title",
		"m.id AS member_id",
		"m.full_name AS member_name",
		"r.reserved_at",
		"r.notified",
	).
		From("reservations r").
		Join("members m ON m.id = r.member_id").
		Join("copies c ON c.id = r.copy_id").
		Join("books b ON b.id = c.book_id").
		OrderBy("r.reserved_at", "r.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	rows := []domain.ReservationQueueRow{}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		r.log.Error("report query failed", slog.String("op", op), sl.Err(err))

		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return rows, nil
}

func (r *ReportRepository) AuditLog(ctx context.Context, limit int) ([]domain.AuditEntry, error) {
	const op = "internal.repository.postgres.AuditLog"

	query, args, err := r.sq.Select("id", "loan_id", "action", "action_time").
		From("audit_log").
		OrderBy("action_time DESC", "id DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	entries := []domain.AuditEntry{}
	if err := r.db.SelectContext(ctx, &entries, query, args...); err != nil {
		r.log.Error("report query failed", slog.String("op", op), sl.Err(err))

		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return entries, nil
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/YusovID/library-service/internal/apperrors"
	"github.com/YusovID/library-service/internal/domain"
	"github.com/YusovID/library-service/pkg/logger/sl"
	"github.com/jmoiron/sqlx"
)

var loanColumns = []string{"id", "copy_id", "member_id", "loaned_at", "due_at", "returned_at"}

type LoanRepository struct {
	log *slog.Logger
	sq  sq.StatementBuilderType
}

func NewLoanRepository(log *slog.Logger) *LoanRepository {
	return &LoanRepository{
		log: log,
		sq:  newBuilder(),
	}
}

func (r *LoanRepository) CreateLoan(ctx context.Context, tx *sqlx.Tx, loan *domain.Loan) error {
	const op = "internal.repository.postgres.CreateLoan"
	log := r.log.With(slog.String("op", op), slog.Int64("copy_id", loan.CopyID), slog.Int64("member_id", loan.MemberID))

	query, args, err := r.sq.Insert("loans").
		Columns("copy_id", "member_id", "loaned_at", "due_at").
		Values(loan.CopyID, loan.MemberID, loan.LoanedAt, loan.DueAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build insert query: %w", op, err)
	}

	if err := tx.GetContext(ctx, &loan.ID, query, args...); err != nil {
		if isUniqueViolation(err, "loans_open_copy_idx") {
			log.Warn("copy already has an open loan")
			return &apperrors.CopyNotAvailableError{CopyID: loan.CopyID, Status: string(domain.CopyLoaned)}
		}

		if constraint, ok := isForeignKeyViolation(err); ok {
			log.Warn("loan references a missing row", slog.String("constraint", constraint))

			if constraint == "loans_member_id_fkey" {
				return fmt.Errorf("%s: %w: id %d", op, apperrors.ErrMemberNotFound, loan.MemberID)
			}

			return fmt.Errorf("%s: %w: id %d", op, apperrors.ErrCopyNotFound, loan.CopyID)
		}

		log.Error("failed to insert loan", sl.Err(err))

		return fmt.Errorf("%s: failed to execute insert: %w", op, err)
	}

	log.Debug("loan created", slog.Int64("loan_id", loan.ID))

	return nil
}

func (r *LoanRepository) GetLoan(ctx context.Context, ext sqlx.ExtContext, loanID int64) (*domain.Loan, error) {
	const op = "internal.repository.postgres.GetLoan"

	query, args, err := r.sq.Select(loanColumns...).
		From("loans").
		Where(sq.Eq{"id": loanID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var loan domain.Loan
	if err := sqlx.GetContext(ctx, ext, &loan, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w: id %d", op, apperrors.ErrLoanNotFound, loanID)
		}

		r.log.Error("failed to get loan", slog.String("op", op), slog.Int64("loan_id", loanID), sl.Err(err))

		return nil, fmt.Errorf("%s: failed to get loan: %w", op, err)
	}

	return &loan, nil
}

func (r *LoanRepository) GetLoanForUpdate(ctx context.Context, tx *sqlx.Tx, loanID int64) (*domain.Loan, error) {
	const op = "internal.repository.postgres.GetLoanForUpdate"

	query, args, err := r.sq.Select(loanColumns...).
		From("loans").
		Where(sq.Eq{"id": loanID}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var loan domain.Loan
	if err := tx.GetContext(ctx, &loan, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w: id %d", op, apperrors.ErrLoanNotFound, loanID)
		}

		r.log.Error("failed to lock loan", slog.String("op", op), slog.Int64("loan_id", loanID), sl.Err(err))

		return nil, fmt.Errorf("%s: failed to get loan with lock: %w", op, err)
	}

	return &loan, nil
}

func (r *LoanRepository) CloseLoan(ctx context.Context, tx *sqlx.Tx, loanID int64, returnedAt time.Time) error {
	const op = "internal.repository.postgres.CloseLoan"
	log := r.log.With(slog.String("op", op), slog.Int64("loan_id", loanID))

	query, args, err := r.sq.Update("loans").
		Set("returned_at", returnedAt).
		Where(sq.Eq{"id": loanID, "returned_at": nil}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build update query: %w", op, err)
	}

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to close loan", sl.Err(err))
		return fmt.Errorf("%s: failed to execute update: %w", op, err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected", sl.Err(err))
		return fmt.Errorf("%s: failed to get rows affected: %w", op, err)
	}

	if rowsAffected == 0 {
		log.Warn("loan is already closed")
		return fmt.Errorf("%s: %w: id %d", op, apperrors.ErrLoanAlreadyReturned, loanID)
	}

	return nil
}

func (r *LoanRepository) CountOpenLoans(ctx context.Context, ext sqlx.ExtContext, memberID int64) (int, error) {
	const op = "internal.repository.postgres.CountOpenLoans"

	query, args, err := r.sq.Select("COUNT(*)").
		From("loans").
		Where(sq.Eq{"member_id": memberID, "returned_at": nil}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var count int
	if err := sqlx.GetContext(ctx, ext, &count, query, args...); err != nil {
		r.log.Error("failed to count open loans", slog.String("op", op), slog.Int64("member_id", memberID), sl.Err(err))
		return 0, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return count, nil
}

func (r *LoanRepository) HasUnpaidLoanDueBefore(ctx context.Context, ext sqlx.ExtContext, memberID int64, cutoff time.Time) (bool, error) {
	const op = "internal.repository.postgres.HasUnpaidLoanDueBefore"

	sub := sq.Select("1").
		From("loans l").
		Where(sq.Eq{"l.member_id": memberID, "l.returned_at": nil}).
		Where(sq.Lt{"l.due_at": cutoff}).
		Where("NOT EXISTS (SELECT 1 FROM payments p WHERE p.loan_id = l.id)")

	query, args, err := r.sq.Select().
		Column(sq.Expr("EXISTS (?)", sub)).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var exists bool
	if err := sqlx.GetContext(ctx, ext, &exists, query, args...); err != nil {
		r.log.Error("failed to check unpaid overdue loans", slog.String("op", op), slog.Int64("member_id", memberID), sl.Err(err))
		return false, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return exists, nil
}

func (r *LoanRepository) ListOverdue(ctx context.Context, ext sqlx.ExtContext, asOf time.Time, memberID *int64) ([]domain.Loan, error) {
	const op = "internal.repository.postgres.ListOverdue"

	qb := r.sq.Select(loanColumns...).
		From("loans").
		Where(sq.Eq{"returned_at": nil}).
		Where(sq.Lt{"due_at": asOf}).
		OrderBy("due_at", "id")

	if memberID != nil {
		qb = qb.Where(sq.Eq{"member_id": *memberID})
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	loans := []domain.Loan{}
	if err := sqlx.SelectContext(ctx, ext, &loans, query, args...); err != nil {
		r.log.Error("failed to list overdue loans", slog.String("op", op), sl.Err(err))
		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return loans, nil
}

func (r *LoanRepository) AppendAudit(ctx context.Context, tx *sqlx.Tx, loanID int64, action domain.AuditAction, at time.Time) error {
	const op = "internal.repository.postgres.AppendAudit"

	query, args, err := r.sq.Insert("audit_log").
		Columns("loan_id", "action", "action_time").
		Values(loanID, action, at).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build insert query: %w", op, err)
	}

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		r.log.Error("failed to append audit entry",
			slog.String("op", op),
			slog.Int64("loan_id", loanID),
			slog.String("action", string(action)),
			sl.Err(err),
		)

		return fmt.Errorf("%s: failed to execute insert: %w", op, err)
	}

	return nil
}

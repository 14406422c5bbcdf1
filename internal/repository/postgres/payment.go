package postgres

import (
	"context"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/YusovID/library-service/internal/apperrors"
	"github.com/YusovID/library-service/internal/domain"
	"github.com/YusovID/library-service/pkg/logger/sl"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type PaymentRepository struct {
	log *slog.Logger
	sq  sq.StatementBuilderType
}

func NewPaymentRepository(log *slog.Logger) *PaymentRepository {
	return &PaymentRepository{
		log: log,
		sq:  newBuilder(),
	}
}

func (r *PaymentRepository) CreatePayment(ctx context.Context, tx *sqlx.Tx, payment *domain.Payment) error {
	const op = "internal.repository.postgres.CreatePayment"
	log := r.log.With(slog.String("op", op), slog.Int64("loan_id", payment.LoanID), slog.String("amount", payment.Amount.StringFixed(2)))

	query, args, err := r.sq.Insert("payments").
		Columns("loan_id", "amount", "payment_date", "description").
		Values(payment.LoanID, payment.Amount, payment.PaymentDate, payment.Description).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build insert query: %w", op, err)
	}

	if err := tx.GetContext(ctx, &payment.ID, query, args...); err != nil {
		if _, ok := isForeignKeyViolation(err); ok {
			log.Warn("payment references a missing loan")
			return fmt.Errorf("%s: %w: id %d", op, apperrors.ErrLoanNotFound, payment.LoanID)
		}

		log.Error("failed to insert payment", sl.Err(err))

		return fmt.Errorf("%s: failed to execute insert: %w", op, err)
	}

	log.Debug("payment recorded", slog.Int64("payment_id", payment.ID))

	return nil
}

func (r *PaymentRepository) SumPayments(ctx context.Context, ext sqlx.ExtContext, loanID int64) (decimal.Decimal, error) {
	const op = "internal.repository.postgres.SumPayments"

	query, args, err := r.sq.Select("COALESCE(SUM(amount), 0)").
		From("payments").
		Where(sq.Eq{"loan_id": loanID}).
		ToSql()
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var sum decimal.Decimal
	if err := sqlx.GetContext(ctx, ext, &sum, query, args...); err != nil {
		r.log.Error("failed to sum payments", slog.String("op", op), slog.Int64("loan_id", loanID), sl.Err(err))
		return decimal.Zero, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return sum, nil
}

func (r *PaymentRepository) SumPaymentsByLoan(ctx context.Context, ext sqlx.ExtContext, loanIDs []int64) (map[int64]decimal.Decimal, error) {
	const op = "internal.repository.postgres.SumPaymentsByLoan"

	sums := make(map[int64]decimal.Decimal, len(loanIDs))
	if len(loanIDs) == 0 {
		return sums, nil
	}

	query, args, err := r.sq.Select("loan_id", "SUM(amount) AS paid").
		From("payments").
		Where(sq.Eq{"loan_id": loanIDs}).
		GroupBy("loan_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var rows []struct {
		LoanID int64           `db:"loan_id"`
		Paid   decimal.Decimal `db:"paid"`
	}
	if err := sqlx.SelectContext(ctx, ext, &rows, query, args...); err != nil {
		r.log.Error("failed to sum payments by loan", slog.String("op", op), slog.Int("loans", len(loanIDs)), sl.Err(err))
		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	for _, row := range rows {
		sums[row.LoanID] = row.Paid
	}

	return sums, nil
}

func (r *PaymentRepository) ListPayments(ctx context.Context, ext sqlx.ExtContext, loanID int64) ([]domain.Payment, error) {
	const op = "internal.repository.postgres.ListPayments"

	query, args, err := r.sq.Select("id", "loan_id", "amount", "payment_date", "description").
		From("payments").
		Where(sq.Eq{"loan_id": loanID}).
		OrderBy("payment_date DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	payments := []domain.Payment{}
	if err := sqlx.SelectContext(ctx, ext, &payments, query, args...); err != nil {
		r.log.Error("failed to list payments", slog.String("op", op), slog.Int64("loan_id", loanID), sl.Err(err))
		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return payments, nil
}

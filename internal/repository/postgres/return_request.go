package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/YusovID/library-service/internal/apperrors"
	"github.com/YusovID/library-service/internal/domain"
	"github.com/YusovID/library-service/pkg/logger/sl"
	"github.com/jmoiron/sqlx"
)

var returnRequestColumns = []string{
	"id", "loan_id", "requested_at", "status", "processed_at", "processed_by_user_id", "rejection_reason",
}

type ReturnRequestRepository struct {
	log *slog.Logger
	sq  sq.StatementBuilderType
}

func NewReturnRequestRepository(log *slog.Logger) *ReturnRequestRepository {
	return &ReturnRequestRepository{
		log: log,
		sq:  newBuilder(),
	}
}

func (r *ReturnRequestRepository) CreateReturnRequest(ctx context.Context, tx *sqlx.Tx, request *domain.ReturnRequest) error {
	const op = "internal.repository.postgres.CreateReturnRequest"
	log := r.log.With(slog.String("op", op), slog.Int64("loan_id", request.LoanID))

	query, args, err := r.sq.Insert("return_requests").
		Columns("loan_id", "requested_at", "status").
		Values(request.LoanID, request.RequestedAt, domain.ReturnRequestPending).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build insert query: %w", op, err)
	}

	if err := tx.GetContext(ctx, &request.ID, query, args...); err != nil {
		if isUniqueViolation(err, "return_requests_pending_loan_idx") {
			log.Warn("loan already has a pending return request")
			return fmt.Errorf("%s: %w", op, apperrors.ErrReturnRequestPending)
		}

		log.Error("failed to insert return request", sl.Err(err))

		return fmt.Errorf("%s: failed to execute insert: %w", op, err)
	}

	request.Status = domain.ReturnRequestPending

	return nil
}

func (r *ReturnRequestRepository) HasPendingReturnRequest(ctx context.Context, ext sqlx.ExtContext, loanID int64) (bool, error) {
	const op = "internal.repository.postgres.HasPendingReturnRequest"

	query, args, err := r.sq.Select("COUNT(*) > 0").
		From("return_requests").
		Where(sq.Eq{"loan_id": loanID, "status": domain.ReturnRequestPending}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var exists bool
	if err := sqlx.GetContext(ctx, ext, &exists, query, args...); err != nil {
		r.log.Error("failed to check pending return request", slog.String("op", op), slog.Int64("loan_id", loanID), sl.Err(err))
		return false, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return exists, nil
}

func (r *ReturnRequestRepository) GetReturnRequestForUpdate(ctx context.Context, tx *sqlx.Tx, requestID int64) (*domain.ReturnRequest, error) {
	const op = "internal.repository.postgres.GetReturnRequestForUpdate"

	query, args, err := r.sq.Select(returnRequestColumns...).
		From("return_requests").
		Where(sq.Eq{"id": requestID}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var request domain.ReturnRequest
	if err := tx.GetContext(ctx, &request, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w: id %d", op, apperrors.ErrReturnRequestNotFound, requestID)
		}

		r.log.Error("failed to lock return request", slog.String("op", op), slog.Int64("request_id", requestID), sl.Err(err))

		return nil, fmt.Errorf("%s: failed to get return request with lock: %w", op, err)
	}

	return &request, nil
}

func (r *ReturnRequestRepository) ResolveReturnRequest(ctx context.Context, tx *sqlx.Tx, request *domain.ReturnRequest) error {
	const op = "internal.repository.postgres.ResolveReturnRequest"
	log := r.log.With(
		slog.String("op", op),
		slog.Int64("request_id", request.ID),
		slog.String("status", string(request.Status)),
	)

	query, args, err := r.sq.Update("return_requests").
		Set("status", request.Status).
		Set("processed_at", request.ProcessedAt).
		Set("processed_by_user_id", request.ProcessedByUserID).
		Set("rejection_reason", request.RejectionReason).
		Where(sq.Eq{"id": request.ID, "status": domain.ReturnRequestPending}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build update query: %w", op, err)
	}

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to resolve return request", sl.Err(err))
		return fmt.Errorf("%s: failed to execute update: %w", op, err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected", sl.Err(err))
		return fmt.Errorf("%s: failed to get rows affected: %w", op, err)
	}

	if rowsAffected == 0 {
		log.Warn("return request is no longer pending")
		return fmt.Errorf("%s: %w: id %d", op, apperrors.ErrReturnRequestProcessed, request.ID)
	}

	return nil
}

func (r *ReturnRequestRepository) ListReturnRequests(ctx context.Context, ext sqlx.ExtContext, status *domain.ReturnRequestStatus) ([]domain.ReturnRequest, error) {
	const op = "internal.repository.postgres.ListReturnRequests"

	qb := r.sq.Select(returnRequestColumns...).
		From("return_requests").
		OrderBy("requested_at DESC", "id DESC")

	if status != nil {
		qb = qb.Where(sq.Eq{"status": *status})
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	requests := []domain.ReturnRequest{}
	if err := sqlx.SelectContext(ctx, ext, &requests, query, args...); err != nil {
		r.log.Error("failed to list return requests", slog.String("op", op), sl.Err(err))
		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return requests, nil
}

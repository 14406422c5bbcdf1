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

type ReservationRepository struct {
	log *slog.Logger
	sq  sq.StatementBuilderType
}

func NewReservationRepository(log *slog.Logger) *ReservationRepository {
	return &ReservationRepository{
		log: log,
		sq:  newBuilder(),
	}
}

func (r *ReservationRepository) CreateReservation(ctx context.Context, ext sqlx.ExtContext, reservation *domain.Reservation) error {
	const op = "internal.repository.postgres.CreateReservation"
	log := r.log.With(slog.String("op", op), slog.Int64("member_id", reservation.MemberID), slog.Int64("copy_id", reservation.CopyID))

	query, args, err := r.sq.Insert("reservations").
		Columns("member_id", "copy_id", "reserved_at", "notified").
		Values(reservation.MemberID, reservation.CopyID, reservation.ReservedAt, false).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build insert query: %w", op, err)
	}

	if err := sqlx.GetContext(ctx, ext, &reservation.ID, query, args...); err != nil {
		if isUniqueViolation(err, "reservations_pending_member_copy_idx") {
			log.Warn("member already waits for this copy")
			return fmt.Errorf("%s: %w", op, apperrors.ErrDuplicateReservation)
		}

		log.Error("failed to insert reservation", sl.Err(err))

		return fmt.Errorf("%s: failed to execute insert: %w", op, err)
	}

	reservation.Notified = false

	return nil
}

func (r *ReservationRepository) HasPendingReservation(ctx context.Context, ext sqlx.ExtContext, memberID, copyID int64) (bool, error) {
	const op = "internal.repository.postgres.HasPendingReservation"

	query, args, err := r.sq.Select("COUNT(*) > 0").
		From("reservations").
		Where(sq.Eq{"member_id": memberID, "copy_id": copyID, "notified": false}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var exists bool
	if err := sqlx.GetContext(ctx, ext, &exists, query, args...); err != nil {
		r.log.Error("failed to check pending reservation",
			slog.String("op", op),
			slog.Int64("member_id", memberID),
			slog.Int64("copy_id", copyID),
			sl.Err(err),
		)

		return false, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return exists, nil
}

// NotifyOldest flips the head of the copy's queue in one statement; the head
// row is locked, so hand-offs for the same copy are served strictly in order.
func (r *ReservationRepository) NotifyOldest(ctx context.Context, tx *sqlx.Tx, copyID int64) (*domain.Reservation, error) {
	const op = "internal.repository.postgres.NotifyOldest"
	log := r.log.With(slog.String("op", op), slog.Int64("copy_id", copyID))

	head := sq.Select("id").
		From("reservations").
		Where(sq.Eq{"copy_id": copyID, "notified": false}).
		OrderBy("reserved_at", "id").
		Limit(1).
		Suffix("FOR UPDATE")

	query, args, err := r.sq.Update("reservations").
		Set("notified", true).
		Where(sq.Expr("id = (?)", head)).
		Where(sq.Eq{"notified": false}).
		Suffix("RETURNING id, member_id, copy_id, reserved_at, notified").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build update query: %w", op, err)
	}

	var reservation domain.Reservation
	if err := tx.GetContext(ctx, &reservation, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("no pending reservations")
			return nil, nil
		}

		log.Error("failed to notify oldest reservation", sl.Err(err))

		return nil, fmt.Errorf("%s: failed to execute update: %w", op, err)
	}

	log.Debug("reservation marked notified",
		slog.Int64("reservation_id", reservation.ID),
		slog.Int64("member_id", reservation.MemberID),
	)

	return &reservation, nil
}

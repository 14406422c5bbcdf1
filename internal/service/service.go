package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/YusovID/library-service/internal/apperrors"
	"github.com/YusovID/library-service/internal/config"
	"github.com/YusovID/library-service/internal/repository"
	"github.com/YusovID/library-service/pkg/logger/sl"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type Transactor interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

// DB is a connection pool that can also start transactions; *sqlx.DB satisfies it.
type DB interface {
	Transactor
	sqlx.ExtContext
}

// Repositories bundles the persistence contracts the services depend on.
type Repositories struct {
	Catalog        repository.CatalogRepository
	Members        repository.MemberRepository
	Loans          repository.LoanRepository
	Reservations   repository.ReservationRepository
	ReturnRequests repository.ReturnRequestRepository
	Payments       repository.PaymentRepository
	Reports        repository.ReportRepository
}

// Policy is the lending policy applied by borrow and the penalty ledger.
type Policy struct {
	LoanPeriod         time.Duration
	MaxOpenLoans       int
	DailyPenaltyRate   decimal.Decimal
	SevereOverdueAfter time.Duration
}

func NewPolicy(cfg config.Circulation) (Policy, error) {
	rate, err := cfg.PenaltyRate()
	if err != nil {
		return Policy{}, err
	}

	return Policy{
		LoanPeriod:         cfg.LoanPeriod,
		MaxOpenLoans:       cfg.MaxOpenLoans,
		DailyPenaltyRate:   rate,
		SevereOverdueAfter: cfg.SevereOverdueAfter,
	}, nil
}

type BaseService struct {
	db  DB
	log *slog.Logger
	now func() time.Time
}

func NewBaseService(db DB, log *slog.Logger) BaseService {
	return BaseService{
		db:  db,
		log: log,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// transaction runs fn as one atomic unit. Business rejections returned by fn
// pass through unchanged; every other failure is reported as ErrTransaction.
func (s *BaseService) transaction(ctx context.Context, op string, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: failed to begin transaction: %w: %w", op, apperrors.ErrTransaction, err)
	}

	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			s.log.Error("failed to rollback transaction", slog.String("op", op), sl.Err(err))
		}
	}()

	if err := fn(tx); err != nil {
		if apperrors.IsBusiness(err) {
			return err
		}

		return fmt.Errorf("%s: %w: %w", op, apperrors.ErrTransaction, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: failed to commit transaction: %w: %w", op, apperrors.ErrTransaction, err)
	}

	return nil
}

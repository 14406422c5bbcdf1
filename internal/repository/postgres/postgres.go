package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Masterminds/squirrel"
	"github.com/YusovID/library-service/internal/config"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

type Postgres struct {
	db  *sqlx.DB
	log *slog.Logger
}

// NewDB opens a pool with the configured driver: "postgres" (lib/pq) or "pgx" (pgx stdlib).
func NewDB(ctx context.Context, cfg config.Postgres, log *slog.Logger) (*Postgres, error) {
	db, err := sqlx.ConnectContext(ctx, cfg.Driver, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("can't connect to database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	log.Info("connected to postgres",
		slog.String("driver", cfg.Driver),
		slog.String("host", cfg.Host),
		slog.String("database", cfg.Database),
	)

	return &Postgres{
		db:  db,
		log: log,
	}, nil
}

func (p *Postgres) DB() *sqlx.DB {
	return p.db
}

func (p *Postgres) Close() error {
	p.log.Info("closing postgres pool")
	return p.db.Close()
}

func newBuilder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// pgError extracts the SQLSTATE code and constraint name from lib/pq and pgx errors.
func pgError(err error) (code, constraint string, ok bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code), pqErr.Constraint, true
	}

	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return pgxErr.Code, pgxErr.ConstraintName, true
	}

	return "", "", false
}

func isUniqueViolation(err error, constraint string) bool {
	code, name, ok := pgError(err)
	return ok && code == pgUniqueViolation && (constraint == "" || name == constraint)
}

func isForeignKeyViolation(err error) (string, bool) {
	code, name, ok := pgError(err)
	return name, ok && code == pgForeignKeyViolation
}

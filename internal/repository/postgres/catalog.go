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

var (
	bookColumns = []string{"id", "isbn", "title", "author", "category", "year", "page_count", "description", "created_at"}
	copyColumns = []string{"id", "book_id", "copy_number", "status", "shelf_location", "added_at"}
)

type CatalogRepository struct {
	log *slog.Logger
	sq  sq.StatementBuilderType
}

func NewCatalogRepository(log *slog.Logger) *CatalogRepository {
	return &CatalogRepository{
		log: log,
		sq:  newBuilder(),
	}
}

func (r *CatalogRepository) CreateBook(ctx context.Context, ext sqlx.ExtContext, book *domain.Book) error {
	const op = "internal.repository.postgres.CreateBook"

	query, args, err := r.sq.Insert("books").
		Columns("isbn", "title", "author", "category", "year", "page_count", "description").
		Values(book.ISBN, book.Title, book.Author, book.Category, book.Year, book.PageCount, book.Description).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build insert query: %w", op, err)
	}

	if err := sqlx.GetContext(ctx, ext, book, query, args...); err != nil {
		if isUniqueViolation(err, "books_isbn_key") {
			r.log.Warn("book already exists", slog.String("op", op), slog.String("isbn", book.ISBN))
			return &apperrors.BookAlreadyExistsError{ISBN: book.ISBN}
		}

		r.log.Error("failed to insert book", slog.String("op", op), slog.String("isbn", book.ISBN), sl.Err(err))

		return fmt.Errorf("%s: failed to execute insert: %w", op, err)
	}

	return nil
}

func (r *CatalogRepository) GetBookForUpdate(ctx context.Context, tx *sqlx.Tx, bookID int64) (*domain.Book, error) {
	const op = "internal.repository.postgres.GetBookForUpdate"

	query, args, err := r.sq.Select(bookColumns...).
		From("books").
		Where(sq.Eq{"id": bookID}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var book domain.Book
	if err := tx.GetContext(ctx, &book, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w: id %d", op, apperrors.ErrBookNotFound, bookID)
		}

		r.log.Error("failed to lock book", slog.String("op", op), slog.Int64("book_id", bookID), sl.Err(err))

		return nil, fmt.Errorf("%s: failed to get book with lock: %w", op, err)
	}

	return &book, nil
}

func (r *CatalogRepository) AddCopy(ctx context.Context, tx *sqlx.Tx, c *domain.Copy) error {
	const op = "internal.repository.postgres.AddCopy"
	log := r.log.With(slog.String("op", op), slog.Int64("book_id", c.BookID))

	query, args, err := r.sq.Insert("copies").
		Columns("book_id", "copy_number", "status", "shelf_location").
		Values(
			c.BookID,
			sq.Expr("(SELECT COUNT(*) + 1 FROM copies WHERE book_id = ?)", c.BookID),
			c.Status,
			c.ShelfLocation,
		).
		Suffix("RETURNING id, copy_number, added_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build insert query: %w", op, err)
	}

	if err := tx.GetContext(ctx, c, query, args...); err != nil {
		if _, ok := isForeignKeyViolation(err); ok {
			log.Warn("copy references a missing book")
			return fmt.Errorf("%s: %w: id %d", op, apperrors.ErrBookNotFound, c.BookID)
		}

		log.Error("failed to insert copy", sl.Err(err))

		return fmt.Errorf("%s: failed to execute insert: %w", op, err)
	}

	log.Debug("copy added", slog.Int64("copy_id", c.ID), slog.Int("copy_number", c.CopyNumber))

	return nil
}

func (r *CatalogRepository) GetCopy(ctx context.Context, ext sqlx.ExtContext, copyID int64) (*domain.Copy, error) {
	const op = "internal.repository.postgres.GetCopy"

	query, args, err := r.sq.Select(copyColumns...).
		From("copies").
		Where(sq.Eq{"id": copyID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var c domain.Copy
	if err := sqlx.GetContext(ctx, ext, &c, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w: id %d", op, apperrors.ErrCopyNotFound, copyID)
		}

		r.log.Error("failed to get copy", slog.String("op", op), slog.Int64("copy_id", copyID), sl.Err(err))

		return nil, fmt.Errorf("%s: failed to get copy: %w", op, err)
	}

	return &c, nil
}

func (r *CatalogRepository) SwapCopyStatus(ctx context.Context, tx *sqlx.Tx, copyID int64, from, to domain.CopyStatus) (bool, error) {
	const op = "internal.repository.postgres.SwapCopyStatus"
	log := r.log.With(
		slog.String("op", op),
		slog.Int64("copy_id", copyID),
		slog.String("from", string(from)),
		slog.String("to", string(to)),
	)

	query, args, err := r.sq.Update("copies").
		Set("status", to).
		Where(sq.Eq{"id": copyID, "status": from}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%s: failed to build update query: %w", op, err)
	}

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to swap copy status", sl.Err(err))
		return false, fmt.Errorf("%s: failed to execute update: %w", op, err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected", sl.Err(err))
		return false, fmt.Errorf("%s: failed to get rows affected: %w", op, err)
	}

	if rowsAffected == 0 {
		log.Debug("copy status did not match")
	}

	return rowsAffected == 1, nil
}

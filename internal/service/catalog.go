package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/YusovID/library-service/internal/apperrors"
	"github.com/YusovID/library-service/internal/domain"
	"github.com/YusovID/library-service/internal/repository"
	"github.com/jmoiron/sqlx"
)

type CatalogService interface {
	CreateBook(ctx context.Context, caller domain.Caller, book domain.Book) (*domain.Book, error)
	AddCopy(ctx context.Context, caller domain.Caller, bookID int64, shelfLocation *string) (*domain.Copy, error)
	GetCopy(ctx context.Context, copyID int64) (*domain.Copy, error)
	SetCopyStatus(ctx context.Context, caller domain.Caller, copyID int64, status domain.CopyStatus) (*domain.Copy, error)
}

type CatalogServiceImpl struct {
	BaseService
	catalog repository.CatalogRepository
}

func NewCatalogService(db DB, log *slog.Logger, repos Repositories) *CatalogServiceImpl {
	return &CatalogServiceImpl{
		BaseService: NewBaseService(db, log),
		catalog:     repos.Catalog,
	}
}

func (s *CatalogServiceImpl) CreateBook(ctx context.Context, caller domain.Caller, book domain.Book) (*domain.Book, error) {
	const op = "internal.service.catalog.CreateBook"

	if !caller.IsAdmin() {
		return nil, apperrors.ErrAdminOnly
	}

	if err := s.catalog.CreateBook(ctx, s.db, &book); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("book created", slog.String("op", op), slog.Int64("book_id", book.ID), slog.String("isbn", book.ISBN))

	return &book, nil
}

func (s *CatalogServiceImpl) AddCopy(ctx context.Context, caller domain.Caller, bookID int64, shelfLocation *string) (*domain.Copy, error) {
	const op = "internal.service.catalog.AddCopy"

	if !caller.IsAdmin() {
		return nil, apperrors.ErrAdminOnly
	}

	c := &domain.Copy{
		BookID:        bookID,
		Status:        domain.CopyAvailable,
		ShelfLocation: shelfLocation,
	}

	err := s.transaction(ctx, op, func(tx *sqlx.Tx) error {
		if _, err := s.catalog.GetBookForUpdate(ctx, tx, bookID); err != nil {
			return err
		}

		return s.catalog.AddCopy(ctx, tx, c)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("copy added", slog.String("op", op), slog.Int64("book_id", bookID), slog.Int("copy_number", c.CopyNumber))

	return c, nil
}

func (s *CatalogServiceImpl) GetCopy(ctx context.Context, copyID int64) (*domain.Copy, error) {
	const op = "internal.service.catalog.GetCopy"

	c, err := s.catalog.GetCopy(ctx, s.db, copyID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return c, nil
}

// SetCopyStatus changes the status of a copy outside the loan lifecycle.
// Loaned can only be entered through Borrow and left through a return.
func (s *CatalogServiceImpl) SetCopyStatus(ctx context.Context, caller domain.Caller, copyID int64, status domain.CopyStatus) (*domain.Copy, error) {
	const op = "internal.service.catalog.SetCopyStatus"

	if !caller.IsAdmin() {
		return nil, apperrors.ErrAdminOnly
	}

	if !status.Valid() || status == domain.CopyLoaned {
		return nil, fmt.Errorf("%w: %q", apperrors.ErrInvalidCopyStatus, status)
	}

	var c *domain.Copy

	err := s.transaction(ctx, op, func(tx *sqlx.Tx) error {
		var err error

		c, err = s.catalog.GetCopy(ctx, tx, copyID)
		if err != nil {
			return err
		}

		if c.Status == domain.CopyLoaned {
			return apperrors.ErrCopyInUse
		}

		if c.Status == status {
			return nil
		}

		swapped, err := s.catalog.SwapCopyStatus(ctx, tx, copyID, c.Status, status)
		if err != nil {
			return fmt.Errorf("%s: failed to update copy status: %w", op, err)
		}

		if !swapped {
			return apperrors.ErrCopyInUse
		}

		c.Status = status

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("copy status changed", slog.String("op", op), slog.Int64("copy_id", copyID), slog.String("status", string(status)))

	return c, nil
}

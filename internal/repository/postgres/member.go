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

var memberColumns = []string{"id", "email", "full_name", "phone", "joined_at", "status"}

type MemberRepository struct {
	log *slog.Logger
	sq  sq.StatementBuilderType
}

func NewMemberRepository(log *slog.Logger) *MemberRepository {
	return &MemberRepository{
		log: log,
		sq:  newBuilder(),
	}
}

func (r *MemberRepository) CreateMember(ctx context.Context, ext sqlx.ExtContext, member *domain.Member) error {
	const op = "internal.repository.postgres.CreateMember"

	query, args, err := r.sq.Insert("members").
		Columns("email", "full_name", "phone", "status").
		Values(member.Email, member.FullName, member.Phone, member.Status).
		Suffix("RETURNING id, joined_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build insert query: %w", op, err)
	}

	if err := sqlx.GetContext(ctx, ext, member, query, args...); err != nil {
		if isUniqueViolation(err, "members_email_key") {
			r.log.Warn("member already exists", slog.String("op", op), slog.String("email", member.Email))
			return &apperrors.MemberAlreadyExistsError{Email: member.Email}
		}

		r.log.Error("failed to insert member", slog.String("op", op), sl.Err(err))

		return fmt.Errorf("%s: failed to execute insert: %w", op, err)
	}

	return nil
}

func (r *MemberRepository) GetMember(ctx context.Context, ext sqlx.ExtContext, memberID int64) (*domain.Member, error) {
	const op = "internal.repository.postgres.GetMember"

	return r.getMember(ctx, ext, op, r.sq.Select(memberColumns...).From("members").Where(sq.Eq{"id": memberID}), memberID)
}

func (r *MemberRepository) GetMemberForUpdate(ctx context.Context, tx *sqlx.Tx, memberID int64) (*domain.Member, error) {
	const op = "internal.repository.postgres.GetMemberForUpdate"

	return r.getMember(ctx, tx, op, r.sq.Select(memberColumns...).From("members").Where(sq.Eq{"id": memberID}).Suffix("FOR UPDATE"), memberID)
}

func (r *MemberRepository) getMember(ctx context.Context, ext sqlx.ExtContext, op string, qb sq.SelectBuilder, memberID int64) (*domain.Member, error) {
	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var member domain.Member
	if err := sqlx.GetContext(ctx, ext, &member, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w: id %d", op, apperrors.ErrMemberNotFound, memberID)
		}

		r.log.Error("failed to get member", slog.String("op", op), slog.Int64("member_id", memberID), sl.Err(err))

		return nil, fmt.Errorf("%s: failed to get member: %w", op, err)
	}

	return &member, nil
}

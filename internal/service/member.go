package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/YusovID/library-service/internal/apperrors"
	"github.com/YusovID/library-service/internal/domain"
	"github.com/YusovID/library-service/internal/repository"
)

type MemberService interface {
	RegisterMember(ctx context.Context, caller domain.Caller, member domain.Member) (*domain.Member, error)
	GetMember(ctx context.Context, caller domain.Caller, memberID int64) (*domain.Member, error)
}

type MemberServiceImpl struct {
	BaseService
	members repository.MemberRepository
}

func NewMemberService(db DB, log *slog.Logger, repos Repositories) *MemberServiceImpl {
	return &MemberServiceImpl{
		BaseService: NewBaseService(db, log),
		members:     repos.Members,
	}
}

func (s *MemberServiceImpl) RegisterMember(ctx context.Context, caller domain.Caller, member domain.Member) (*domain.Member, error) {
	const op = "internal.service.member.RegisterMember"

	if !caller.IsAdmin() {
		return nil, apperrors.ErrAdminOnly
	}

	if member.Status == "" {
		member.Status = domain.MemberActive
	}

	if err := s.members.CreateMember(ctx, s.db, &member); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("member registered", slog.String("op", op), slog.Int64("member_id", member.ID))

	return &member, nil
}

func (s *MemberServiceImpl) GetMember(ctx context.Context, caller domain.Caller, memberID int64) (*domain.Member, error) {
	const op = "internal.service.member.GetMember"

	if !caller.ActsFor(memberID) {
		return nil, apperrors.ErrNotSelf
	}

	member, err := s.members.GetMember(ctx, s.db, memberID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return member, nil
}

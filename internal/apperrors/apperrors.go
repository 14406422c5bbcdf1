// Package apperrors defines the error taxonomy shared by the repository,
// service and transport layers.
//
// Every business failure belongs to exactly one kind: ErrNotFound, ErrRejected,
// ErrForbidden or ErrTransaction. Reason errors match both themselves and their
// kind through errors.Is, so callers can branch on either level.
package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound    = errors.New("resource not found")
	ErrRejected    = errors.New("request rejected")
	ErrForbidden   = errors.New("operation not permitted")
	ErrTransaction = errors.New("transaction failed")

	ErrAlreadyExists  = errors.New("resource already exists")
	ErrInvalidRequest = errors.New("invalid request body")
	ErrUnauthorized   = errors.New("missing or invalid credentials")
)

// reason is a sentinel that also matches its kind.
type reason struct {
	msg  string
	kind error
}

func (r *reason) Error() string { return r.msg }

func (r *reason) Is(target error) bool { return target == r.kind }

func newReason(kind error, msg string) error {
	return &reason{msg: msg, kind: kind}
}

var (
	ErrBookNotFound          = newReason(ErrNotFound, "book not found")
	ErrCopyNotFound          = newReason(ErrNotFound, "copy not found")
	ErrMemberNotFound        = newReason(ErrNotFound, "member not found")
	ErrLoanNotFound          = newReason(ErrNotFound, "loan not found")
	ErrReturnRequestNotFound = newReason(ErrNotFound, "return request not found")
)

var (
	ErrLoanQuotaExceeded      = newReason(ErrRejected, "member reached the open loan limit")
	ErrUnpaidOverdueLoan      = newReason(ErrRejected, "member has an unpaid severely overdue loan")
	ErrLoanAlreadyReturned    = newReason(ErrRejected, "loan already returned")
	ErrReturnRequestPending   = newReason(ErrRejected, "a return request is already pending for this loan")
	ErrReturnRequestProcessed = newReason(ErrRejected, "return request is not pending")
	ErrCopyNotLoaned          = newReason(ErrRejected, "only loaned copies can be reserved")
	ErrDuplicateReservation   = newReason(ErrRejected, "member already has a pending reservation for this copy")
	ErrInvalidAmount          = newReason(ErrRejected, "amount must be greater than zero")
	ErrAmountExceedsRemaining = newReason(ErrRejected, "amount exceeds remaining balance")
	ErrLoanNotOverdue         = newReason(ErrRejected, "loan is not overdue")
	ErrCopyInUse              = newReason(ErrRejected, "copy is on loan, its status is managed by borrow and return")
	ErrInvalidCopyStatus      = newReason(ErrRejected, "copy status cannot be set directly")
)

var (
	ErrAdminCannotPay = newReason(ErrForbidden, "administrators cannot record payments")
	ErrNotLoanOwner   = newReason(ErrForbidden, "loan belongs to another member")
	ErrAdminOnly      = newReason(ErrForbidden, "operation requires administrator role")
	ErrNotSelf        = newReason(ErrForbidden, "members may only act on their own behalf")
)

// CopyNotAvailableError is returned by borrow when the copy is not Available.
type CopyNotAvailableError struct {
	CopyID int64
	Status string
}

func (e *CopyNotAvailableError) Error() string {
	if e.Status == "" {
		return fmt.Sprintf("copy %d is not available", e.CopyID)
	}

	return fmt.Sprintf("copy %d is not available, current status: %s", e.CopyID, e.Status)
}
func (e *CopyNotAvailableError) Is(target error) bool { return target == ErrRejected }

type BookAlreadyExistsError struct{ ISBN string }

func (e *BookAlreadyExistsError) Error() string {
	return fmt.Sprintf("book with isbn '%s' already exists", e.ISBN)
}
func (e *BookAlreadyExistsError) Is(target error) bool { return target == ErrAlreadyExists }

type MemberAlreadyExistsError struct{ Email string }

func (e *MemberAlreadyExistsError) Error() string {
	return fmt.Sprintf("member with email '%s' already exists", e.Email)
}
func (e *MemberAlreadyExistsError) Is(target error) bool { return target == ErrAlreadyExists }

// IsBusiness reports whether err is a known rejection rather than an
// infrastructure failure.
func IsBusiness(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrRejected) ||
		errors.Is(err, ErrForbidden) ||
		errors.Is(err, ErrAlreadyExists)
}

package http

import (
	"errors"
	"log/slog"
	"net/http"
	"regexp"

	"github.com/YusovID/library-service/internal/apperrors"
	"github.com/YusovID/library-service/internal/validation"
	"github.com/YusovID/library-service/pkg/logger/sl"
)

type reasonMapping struct {
	err    error
	status int
	code   string
}

// reasons is checked in order before falling back to the error kind.
var reasons = []reasonMapping{
	{apperrors.ErrBookNotFound, http.StatusNotFound, "BOOK_NOT_FOUND"},
	{apperrors.ErrCopyNotFound, http.StatusNotFound, "COPY_NOT_FOUND"},
	{apperrors.ErrMemberNotFound, http.StatusNotFound, "MEMBER_NOT_FOUND"},
	{apperrors.ErrLoanNotFound, http.StatusNotFound, "LOAN_NOT_FOUND"},
	{apperrors.ErrReturnRequestNotFound, http.StatusNotFound, "RETURN_REQUEST_NOT_FOUND"},

	{apperrors.ErrInvalidAmount, http.StatusBadRequest, "INVALID_AMOUNT"},
	{apperrors.ErrInvalidCopyStatus, http.StatusBadRequest, "INVALID_COPY_STATUS"},
	{apperrors.ErrLoanQuotaExceeded, http.StatusConflict, "LOAN_QUOTA_EXCEEDED"},
	{apperrors.ErrUnpaidOverdueLoan, http.StatusConflict, "UNPAID_OVERDUE_LOAN"},
	{apperrors.ErrLoanAlreadyReturned, http.StatusConflict, "LOAN_ALREADY_RETURNED"},
	{apperrors.ErrReturnRequestPending, http.StatusConflict, "RETURN_REQUEST_PENDING"},
	{apperrors.ErrReturnRequestProcessed, http.StatusConflict, "RETURN_REQUEST_PROCESSED"},
	{apperrors.ErrCopyNotLoaned, http.StatusConflict, "COPY_NOT_LOANED"},
	{apperrors.ErrDuplicateReservation, http.StatusConflict, "DUPLICATE_RESERVATION"},
	{apperrors.ErrAmountExceedsRemaining, http.StatusConflict, "AMOUNT_EXCEEDS_REMAINING"},
	{apperrors.ErrLoanNotOverdue, http.StatusConflict, "LOAN_NOT_OVERDUE"},
	{apperrors.ErrCopyInUse, http.StatusConflict, "COPY_IN_USE"},

	{apperrors.ErrAdminCannotPay, http.StatusForbidden, "ADMIN_CANNOT_PAY"},
	{apperrors.ErrNotLoanOwner, http.StatusForbidden, "NOT_LOAN_OWNER"},
	{apperrors.ErrAdminOnly, http.StatusForbidden, "ADMIN_ONLY"},
	{apperrors.ErrNotSelf, http.StatusForbidden, "NOT_SELF"},
}

// opPrefix matches the "internal.<layer>.<file>.<Method>: " prefixes added while wrapping.
var opPrefix = regexp.MustCompile(`internal(?:\.\w+)+: `)

// clientMessage keeps the detail of a rejection and drops the call-site prefixes.
func clientMessage(err error) string {
	return opPrefix.ReplaceAllString(err.Error(), "")
}

// handleServiceError provides centralized error handling for all HTTP handlers.
// It logs the error and maps it to a status code and an error code.
func (s *Server) handleServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	log := s.log.With(slog.String("op", op), slog.String("request_id", getRequestID(r.Context())))

	status, code, message := classify(err)
	if status >= http.StatusInternalServerError {
		log.Error("service error occurred", sl.Err(err))
	} else {
		log.Warn("request rejected", slog.Int("status", status), slog.String("code", code), sl.Err(err))
	}

	s.respondError(w, status, code, message)
}

func classify(err error) (status int, code, message string) {
	var (
		validationErr   *validation.ValidationError
		notAvailableErr *apperrors.CopyNotAvailableError
		bookExistsErr   *apperrors.BookAlreadyExistsError
		memberExistsErr *apperrors.MemberAlreadyExistsError
	)

	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, "VALIDATION_FAILED", validationErr.Error()
	case errors.Is(err, apperrors.ErrInvalidRequest):
		return http.StatusBadRequest, "INVALID_REQUEST", clientMessage(err)
	case errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized, "UNAUTHORIZED", apperrors.ErrUnauthorized.Error()
	case errors.As(err, &notAvailableErr):
		return http.StatusConflict, "COPY_NOT_AVAILABLE", notAvailableErr.Error()
	case errors.As(err, &bookExistsErr):
		return http.StatusConflict, "BOOK_EXISTS", bookExistsErr.Error()
	case errors.As(err, &memberExistsErr):
		return http.StatusConflict, "MEMBER_EXISTS", memberExistsErr.Error()
	}

	for _, m := range reasons {
		if errors.Is(err, m.err) {
			return m.status, m.code, clientMessage(err)
		}
	}

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", apperrors.ErrNotFound.Error()
	case errors.Is(err, apperrors.ErrRejected), errors.Is(err, apperrors.ErrAlreadyExists):
		return http.StatusConflict, "REJECTED", apperrors.ErrRejected.Error()
	case errors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden, "FORBIDDEN", apperrors.ErrForbidden.Error()
	case errors.Is(err, apperrors.ErrTransaction):
		return http.StatusServiceUnavailable, "TRANSACTION_FAILED", "transaction failed, retry the request"
	default:
		return http.StatusInternalServerError, "INTERNAL", "internal server error"
	}
}

package http

import (
	"fmt"
	"net/http"

	"github.com/YusovID/library-service/internal/apperrors"
	"github.com/YusovID/library-service/internal/domain"
	"github.com/shopspring/decimal"
)

func (s *Server) borrow(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.borrow"

	var req borrowRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	caller := callerFrom(r)

	memberID := req.MemberID
	if memberID == 0 {
		memberID = caller.MemberID
	}

	if memberID == 0 {
		s.handleServiceError(w, r, op, fmt.Errorf("%w: member_id is required", apperrors.ErrInvalidRequest))
		return
	}

	loan, err := s.services.Circulation.Borrow(r.Context(), caller, memberID, req.CopyID)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusCreated, map[string]*domain.Loan{"loan": loan})
}

func (s *Server) getLoan(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.getLoan"

	loanID, err := pathID(r, "loanID")
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	loan, err := s.services.Circulation.GetLoan(r.Context(), callerFrom(r), loanID)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]*domain.Loan{"loan": loan})
}

func (s *Server) returnLoan(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.returnLoan"

	loanID, err := pathID(r, "loanID")
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	result, err := s.services.Circulation.Return(r.Context(), callerFrom(r), loanID)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, result)
}

func (s *Server) requestReturn(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.requestReturn"

	loanID, err := pathID(r, "loanID")
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	request, err := s.services.Circulation.RequestReturn(r.Context(), callerFrom(r), loanID)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusCreated, map[string]*domain.ReturnRequest{"return_request": request})
}

func (s *Server) listReturnRequests(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.listReturnRequests"

	var status *domain.ReturnRequestStatus

	if raw := r.URL.Query().Get("status"); raw != "" {
		st := domain.ReturnRequestStatus(raw)

		switch st {
		case domain.ReturnRequestPending, domain.ReturnRequestApproved, domain.ReturnRequestRejected:
			status = &st
		default:
			s.handleServiceError(w, r, op, fmt.Errorf("%w: unknown status %q", apperrors.ErrInvalidRequest, raw))
			return
		}
	}

	requests, err := s.services.Circulation.ListReturnRequests(r.Context(), callerFrom(r), status)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string][]domain.ReturnRequest{"return_requests": requests})
}

func (s *Server) approveReturn(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.approveReturn"

	requestID, err := pathID(r, "requestID")
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	result, err := s.services.Circulation.ApproveReturn(r.Context(), callerFrom(r), requestID)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, result)
}

func (s *Server) rejectReturn(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.rejectReturn"

	requestID, err := pathID(r, "requestID")
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	var req rejectReturnRequest
	if err := s.decodeOptional(r, &req); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	request, err := s.services.Circulation.RejectReturn(r.Context(), callerFrom(r), requestID, req.Reason)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]*domain.ReturnRequest{"return_request": request})
}

func (s *Server) reserve(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.reserve"

	var req reserveRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	caller := callerFrom(r)

	memberID := req.MemberID
	if memberID == 0 {
		memberID = caller.MemberID
	}

	if memberID == 0 {
		s.handleServiceError(w, r, op, fmt.Errorf("%w: member_id is required", apperrors.ErrInvalidRequest))
		return
	}

	reservation, err := s.services.Circulation.Reserve(r.Context(), caller, memberID, req.CopyID)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusCreated, map[string]*domain.Reservation{"reservation": reservation})
}

func (s *Server) computePenalty(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.computePenalty"

	loanID, err := pathID(r, "loanID")
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	asOf, err := asOfParam(r)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	summary, err := s.services.Penalties.ComputePenalty(r.Context(), callerFrom(r), loanID, asOf)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]*domain.PenaltySummary{"penalty": summary})
}

func (s *Server) pay(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.pay"

	loanID, err := pathID(r, "loanID")
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	var req payRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		s.handleServiceError(w, r, op, fmt.Errorf("%w: %w", apperrors.ErrInvalidRequest, err))
		return
	}

	payment, err := s.services.Penalties.Pay(r.Context(), callerFrom(r), loanID, amount, req.Description)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusCreated, map[string]*domain.Payment{"payment": payment})
}

func (s *Server) listPayments(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.listPayments"

	loanID, err := pathID(r, "loanID")
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	payments, err := s.services.Penalties.ListPayments(r.Context(), callerFrom(r), loanID)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string][]domain.Payment{"payments": payments})
}

func (s *Server) listOverdue(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.listOverdue"

	asOf, err := asOfParam(r)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	overdue, err := s.services.Penalties.ListOverdue(r.Context(), callerFrom(r), asOf)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string][]domain.OverdueLoan{"overdue_loans": overdue})
}

package http

import (
	"net/http"
)

func (s *Server) reportDashboard(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.reportDashboard"

	stats, err := s.services.Reports.Dashboard(r.Context(), callerFrom(r))
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, stats)
}

func (s *Server) reportActiveLoans(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.reportActiveLoans"

	rows, err := s.services.Reports.ActiveLoans(r.Context(), callerFrom(r))
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]interface{}{"active_loans": rows})
}

func (s *Server) reportMemberLoanCounts(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.reportMemberLoanCounts"

	rows, err := s.services.Reports.MemberLoanCounts(r.Context(), callerFrom(r))
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]interface{}{"members": rows})
}

func (s *Server) reportTopBooks(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.reportTopBooks"

	rows, err := s.services.Reports.TopBooks(r.Context(), callerFrom(r))
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]interface{}{"top_books": rows})
}

func (s *Server) reportReservationQueue(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.reportReservationQueue"

	rows, err := s.services.Reports.ReservationQueue(r.Context(), callerFrom(r))
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]interface{}{"reservations": rows})
}

func (s *Server) reportAuditLog(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.reportAuditLog"

	entries, err := s.services.Reports.AuditLog(r.Context(), callerFrom(r))
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]interface{}{"audit_log": entries})
}

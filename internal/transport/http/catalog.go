package http

import (
	"net/http"

	"github.com/YusovID/library-service/internal/domain"
)

func (s *Server) createBook(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.createBook"

	var req createBookRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	book, err := s.services.Catalog.CreateBook(r.Context(), callerFrom(r), domain.Book{
		ISBN:        req.ISBN,
		Title:       req.Title,
		Author:      req.Author,
		Category:    req.Category,
		Year:        req.Year,
		PageCount:   req.PageCount,
		Description: req.Description,
	})
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusCreated, map[string]*domain.Book{"book": book})
}

func (s *Server) addCopy(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.addCopy"

	bookID, err := pathID(r, "bookID")
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	var req addCopyRequest
	if err := s.decodeOptional(r, &req); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	c, err := s.services.Catalog.AddCopy(r.Context(), callerFrom(r), bookID, req.ShelfLocation)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusCreated, map[string]*domain.Copy{"copy": c})
}

func (s *Server) getCopy(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.getCopy"

	copyID, err := pathID(r, "copyID")
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	c, err := s.services.Catalog.GetCopy(r.Context(), copyID)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]*domain.Copy{"copy": c})
}

func (s *Server) setCopyStatus(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.setCopyStatus"

	copyID, err := pathID(r, "copyID")
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	var req setCopyStatusRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	c, err := s.services.Catalog.SetCopyStatus(r.Context(), callerFrom(r), copyID, domain.CopyStatus(req.Status))
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]*domain.Copy{"copy": c})
}

func (s *Server) registerMember(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.registerMember"

	var req registerMemberRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	member, err := s.services.Members.RegisterMember(r.Context(), callerFrom(r), domain.Member{
		Email:    req.Email,
		FullName: req.FullName,
		Phone:    req.Phone,
		Status:   domain.MemberStatus(req.Status),
	})
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusCreated, map[string]*domain.Member{"member": member})
}

func (s *Server) getMember(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.getMember"

	memberID, err := pathID(r, "memberID")
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	member, err := s.services.Members.GetMember(r.Context(), callerFrom(r), memberID)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]*domain.Member{"member": member})
}

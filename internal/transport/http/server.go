// package http implements the HTTP transport layer for the service.
// It authenticates callers, decodes requests, calls the appropriate service
// methods and encodes the responses.
package http

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/YusovID/library-service/internal/apperrors"
	"github.com/YusovID/library-service/internal/auth"
	"github.com/YusovID/library-service/internal/domain"
	"github.com/YusovID/library-service/internal/notify"
	"github.com/YusovID/library-service/internal/service"
	"github.com/YusovID/library-service/internal/validation"
	"github.com/YusovID/library-service/pkg/logger/sl"
	"github.com/YusovID/library-service/swagger"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Services groups the business services exposed over HTTP.
type Services struct {
	Circulation service.CirculationService
	Penalties   service.PenaltyService
	Catalog     service.CatalogService
	Members     service.MemberService
	Reports     service.ReportService
}

// Server holds the dependencies for the HTTP server.
type Server struct {
	log      *slog.Logger
	services Services
	authn    *auth.Authenticator
	hub      *notify.Hub
	upgrader websocket.Upgrader
}

// NewServer creates a new instance of the HTTP server. hub may be nil, in
// which case the notification websocket is not exposed. allowedOrigins lists
// the cross-site origins that may open that websocket.
func NewServer(
	log *slog.Logger,
	services Services,
	authn *auth.Authenticator,
	hub *notify.Hub,
	allowedOrigins []string,
) *Server {
	return &Server{
		log:      log,
		services: services,
		authn:    authn,
		hub:      hub,
		upgrader: newUpgrader(allowedOrigins),
	}
}

// Routes sets up the router with all middleware and API endpoints.
func (s *Server) Routes() http.Handler {
	mux := chi.NewRouter()

	mux.Use(s.requestID)
	mux.Use(s.logRequest)
	mux.Use(s.metricsMiddleware)

	swaggerHandler, err := swagger.GetHandler()
	if err != nil {
		s.log.Error("failed to get swagger handler", sl.Err(err))
	} else {
		mux.Mount("/swagger", http.StripPrefix("/swagger", swaggerHandler))
	}

	mux.Handle("/metrics", promhttp.Handler())

	mux.Group(func(r chi.Router) {
		r.Use(s.authenticate)

		r.Route("/loans", func(r chi.Router) {
			r.Post("/", s.borrow)
			r.Get("/overdue", s.listOverdue)

			r.Route("/{loanID}", func(r chi.Router) {
				r.Get("/", s.getLoan)
				r.Post("/return", s.returnLoan)
				r.Post("/return-requests", s.requestReturn)
				r.Get("/penalty", s.computePenalty)
				r.Post("/payments", s.pay)
				r.Get("/payments", s.listPayments)
			})
		})

		r.Route("/return-requests", func(r chi.Router) {
			r.Get("/", s.listReturnRequests)
			r.Post("/{requestID}/approve", s.approveReturn)
			r.Post("/{requestID}/reject", s.rejectReturn)
		})

		r.Post("/reservations", s.reserve)

		r.Post("/books", s.createBook)
		r.Post("/books/{bookID}/copies", s.addCopy)
		r.Get("/copies/{copyID}", s.getCopy)
		r.Put("/copies/{copyID}/status", s.setCopyStatus)

		r.Post("/members", s.registerMember)
		r.Get("/members/{memberID}", s.getMember)

		r.Route("/reports", func(r chi.Router) {
			r.Get("/dashboard", s.reportDashboard)
			r.Get("/active-loans", s.reportActiveLoans)
			r.Get("/member-loan-counts", s.reportMemberLoanCounts)
			r.Get("/top-books", s.reportTopBooks)
			r.Get("/reservations", s.reportReservationQueue)
			r.Get("/audit-log", s.reportAuditLog)
		})

		if s.hub != nil {
			r.Get("/ws/notifications", s.notifications)
		}
	})

	return mux
}

// respond is a helper function to encode data to JSON and write it to the response.
// It centralizes setting the Content-Type header and writing the status code.
func (s *Server) respond(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)

	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			s.log.Error("failed to encode response", sl.Err(err))
		}
	}
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) respondError(w http.ResponseWriter, code int, apiCode, message string) {
	s.respond(w, code, errorBody{Error: errorDetail{Code: apiCode, Message: message}})
}

// decodeAndValidate deserializes a JSON request body into v and then runs
// validation checks on it.
func (s *Server) decodeAndValidate(r *http.Request, v interface{}) error {
	if err := s.decode(r.Body, v); err != nil {
		return err
	}

	return validation.ValidateStruct(v)
}

// decodeOptional is decodeAndValidate for endpoints whose body may be empty.
func (s *Server) decodeOptional(r *http.Request, v interface{}) error {
	if r.ContentLength == 0 {
		return validation.ValidateStruct(v)
	}

	return s.decodeAndValidate(r, v)
}

func (s *Server) decode(body io.ReadCloser, v interface{}) error {
	defer body.Close()

	if err := json.NewDecoder(body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty body", apperrors.ErrInvalidRequest)
		}

		return fmt.Errorf("%w: %w", apperrors.ErrInvalidRequest, err)
	}

	return nil
}

func pathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer, got %q", apperrors.ErrInvalidRequest, name, raw)
	}

	return id, nil
}

// asOfParam reads the optional as_of query parameter. The zero time means "now".
func asOfParam(r *http.Request) (time.Time, error) {
	raw := r.URL.Query().Get("as_of")
	if raw == "" {
		return time.Time{}, nil
	}

	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: as_of must be RFC3339, got %q", apperrors.ErrInvalidRequest, raw)
	}

	return t.UTC(), nil
}

func callerFrom(r *http.Request) domain.Caller {
	caller, _ := auth.CallerFrom(r.Context())
	return caller
}

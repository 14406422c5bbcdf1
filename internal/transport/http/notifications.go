package http

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/YusovID/library-service/internal/apperrors"
	"github.com/YusovID/library-service/internal/domain"
	"github.com/YusovID/library-service/pkg/logger/sl"
	"github.com/gorilla/websocket"
)

func newUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     checkOrigin(allowedOrigins),
	}
}

// checkOrigin accepts handshakes without an Origin header, same-host origins
// and the configured allow-list ("*" allows any origin). The subscriber is
// identified by the Authorization header or the access_token query
// parameter only; cookies are never read on this route.
func checkOrigin(allowed []string) func(r *http.Request) bool {
	origins := make(map[string]struct{}, len(allowed))
	for _, origin := range allowed {
		origins[strings.ToLower(strings.TrimRight(origin, "/"))] = struct{}{}
	}

	_, allowAll := origins["*"]

	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || allowAll {
			return true
		}

		if _, ok := origins[strings.ToLower(origin)]; ok {
			return true
		}

		u, err := url.Parse(origin)
		if err != nil {
			return false
		}

		return strings.EqualFold(u.Host, r.Host)
	}
}

// notifications upgrades the connection and subscribes the calling member to
// reservation hand-off messages.
func (s *Server) notifications(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.notifications"

	caller := callerFrom(r)
	if caller.Role != domain.RoleMember {
		s.handleServiceError(w, r, op, apperrors.ErrForbidden)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", slog.String("op", op), sl.Err(err))
		return
	}

	s.hub.Serve(caller.MemberID, conn)
}

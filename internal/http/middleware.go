package http

import (
	"net/http"
	"strings"

	"cashout/internal/session"
)

// requireSession validates the bearer token and stores the rebuilt session
// in the request context. The token itself carries the tenant, so no store
// lookup happens per request.
func (s *Server) requireSession(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := bearerToken(r)
		if raw == "" {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		sess, err := s.auth.SessionFromToken(raw)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		next.ServeHTTP(w, r.WithContext(session.NewContext(r.Context(), sess)))
	})
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(h[len(prefix):])
}

// sessionFrom pulls the session placed by requireSession. Reaching a
// handler without one is a routing bug, reported as 401 rather than a
// panic.
func sessionFrom(r *http.Request) (*session.Session, bool) {
	return session.FromContext(r.Context())
}

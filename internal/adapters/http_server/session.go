package httpserver

import (
	"net/http"
	"strings"

	"guest_portal/internal/domain"
)

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > len("Bearer ") && strings.EqualFold(h[:len("Bearer ")], "Bearer ") {
		return strings.TrimSpace(h[len("Bearer "):])
	}
	return ""
}

// Session attaches the caller's session to the request context when a bearer
// token is present. A present but invalid token is rejected.
func (h *Handlers) Session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok := bearerToken(r)
		if tok == "" {
			next.ServeHTTP(w, r)
			return
		}
		s, err := h.Auth.Authenticate(tok)
		if err != nil {
			writeError(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(domain.WithSession(r.Context(), s)))
	})
}

// RequireRole rejects requests without a session of the given role.
func RequireRole(role domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, ok := domain.SessionFrom(r.Context())
			if !ok {
				writeError(w, domain.ErrUnauthorized)
				return
			}
			if s.Role != role {
				writeError(w, domain.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

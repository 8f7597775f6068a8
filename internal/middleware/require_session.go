package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/model"
)

// SessionState reports whether a user is logged in and with which role.
type SessionState interface {
	Authenticated() bool
	IsAdmin() bool
}

// RequireSession rejects /me/* without a logged-in user and /admin/* without
// an admin.
func RequireSession(s SessionState) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path
			switch {
			case underPrefix(path, "/me"):
				if !s.Authenticated() {
					deny(w, r, http.StatusUnauthorized, "login required")
					return
				}
			case underPrefix(path, "/admin"):
				if !s.Authenticated() {
					deny(w, r, http.StatusUnauthorized, "login required")
					return
				}
				if !s.IsAdmin() {
					deny(w, r, http.StatusForbidden, "admin role required")
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func underPrefix(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

func deny(w http.ResponseWriter, r *http.Request, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.ErrorResponse{
		Error:         msg,
		CorrelationID: GetCorrelationID(r.Context()),
	})
}

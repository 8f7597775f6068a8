package middleware

import (
	"net/http"
	"strconv"
	"strings"
)

const corsMaxAge = 600

// CORS lets a web-based UI on another local origin call the bridge. Listed
// origins get credentialed access. A lone "*" opens reads and writes to any
// page without credentials. Unlisted origins cannot send state-changing
// requests at all, since the bridge acts with the logged-in user's session.
func CORS(allowOrigins []string) func(http.Handler) http.Handler {
	allowAll := len(allowOrigins) == 1 && allowOrigins[0] == "*"

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			listed := origin != "" && !allowAll && originAllowed(origin, allowOrigins)
			allowed := origin != "" && (allowAll || listed)

			h := w.Header()
			switch {
			case listed:
				h.Set("Access-Control-Allow-Origin", origin)
				h.Set("Access-Control-Allow-Credentials", "true")
				h.Add("Vary", "Origin")
			case allowed:
				h.Set("Access-Control-Allow-Origin", "*")
			}

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				if allowed {
					h.Set("Access-Control-Allow-Methods", "GET,POST,PATCH,DELETE,OPTIONS")
					h.Set("Access-Control-Allow-Headers", "Content-Type, "+HeaderCorrelationID)
					h.Set("Access-Control-Max-Age", strconv.Itoa(corsMaxAge))
				}
				w.WriteHeader(http.StatusNoContent)
				return
			}

			if origin != "" && !allowed && !safeMethod(r.Method) {
				deny(w, r, http.StatusForbidden, "origin not allowed")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func safeMethod(m string) bool {
	return m == http.MethodGet || m == http.MethodHead || m == http.MethodOptions
}

func originAllowed(origin string, allow []string) bool {
	for _, a := range allow {
		if strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(origin)) {
			return true
		}
	}
	return false
}

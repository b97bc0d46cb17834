package httpx

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

// CORSPolicy defines the headers emitted when a request's Origin matches.
// An entry of "*" matches everything; with credentials enabled the concrete
// origin is echoed back instead of the wildcard.
type CORSPolicy struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	AllowCredentials bool
	MaxAge           time.Duration
}

func (p CORSPolicy) match(origin string) (string, bool) {
	for _, candidate := range p.AllowedOrigins {
		candidate = strings.TrimSpace(candidate)
		switch {
		case candidate == "*" && p.AllowCredentials:
			return origin, true
		case candidate == "*":
			return "*", true
		case strings.EqualFold(candidate, origin):
			return origin, true
		}
	}
	return "", false
}

// WithCORS handles preflight and simple cross-origin requests for the public
// booking pages. With no allowed origins it is a no-op.
func WithCORS(policy CORSPolicy) Middleware {
	if len(policy.AllowedOrigins) == 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	methods := strings.Join(policy.AllowedMethods, ", ")
	reqHeaders := strings.Join(policy.AllowedHeaders, ", ")
	maxAge := ""
	if policy.MaxAge > 0 {
		maxAge = strconv.Itoa(int(policy.MaxAge.Seconds()))
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Add("Vary", "Origin")
			h.Add("Vary", "Access-Control-Request-Method")
			h.Add("Vary", "Access-Control-Request-Headers")

			origin := r.Header.Get("Origin")
			allowOrigin, ok := policy.match(origin)
			if origin == "" || !ok {
				next.ServeHTTP(w, r)
				return
			}

			h.Set("Access-Control-Allow-Origin", allowOrigin)
			if policy.AllowCredentials {
				h.Set("Access-Control-Allow-Credentials", "true")
			}

			preflight := r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != ""
			if preflight {
				if methods != "" {
					h.Set("Access-Control-Allow-Methods", methods)
				}
				if reqHeaders != "" {
					h.Set("Access-Control-Allow-Headers", reqHeaders)
				}
				if maxAge != "" {
					h.Set("Access-Control-Max-Age", maxAge)
				}
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/BradenHooton/complaintbox/internal/auth"
	pkghttp "github.com/BradenHooton/complaintbox/pkg/http"
	"github.com/go-chi/httprate"
)

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	RequestsPerMinute int
	// IPConfig decides whether forwarding headers are trusted when keying by IP
	IPConfig *pkghttp.IPConfig
}

// RateLimitByIP limits requests per client IP. Used on the unauthenticated
// credential endpoints (login, admin login, signup).
func RateLimitByIP(config RateLimitConfig) func(next http.Handler) http.Handler {
	return httprate.Limit(
		config.RequestsPerMinute,
		time.Minute,
		httprate.WithKeyFuncs(func(r *http.Request) (string, error) {
			return "ip:" + pkghttp.ExtractClientIP(r, config.IPConfig), nil
		}),
		httprate.WithLimitHandler(rateLimited),
	)
}

// RateLimitByPrincipal limits requests per session principal, falling back to
// the client IP for anonymous requests. Must run after the session middleware.
func RateLimitByPrincipal(config RateLimitConfig) func(next http.Handler) http.Handler {
	return httprate.Limit(
		config.RequestsPerMinute,
		time.Minute,
		httprate.WithKeyFuncs(func(r *http.Request) (string, error) {
			p := auth.GetPrincipal(r)
			if p.IsAnonymous() {
				return "ip:" + pkghttp.ExtractClientIP(r, config.IPConfig), nil
			}
			return p.Kind().String() + ":" + strconv.FormatInt(p.ID(), 10), nil
		}),
		httprate.WithLimitHandler(rateLimited),
	)
}

func rateLimited(w http.ResponseWriter, _ *http.Request) {
	pkghttp.WriteTooManyRequests(w, "Rate limit exceeded")
}

package mw

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"
)

// RateLimit limits each client IP to perMinute requests per minute.
// perMinute <= 0 disables limiting. Behind a trusted proxy the client IP is
// taken from the forwarding headers.
func RateLimit(perMinute int, trustProxy bool) func(http.Handler) http.Handler {
	if perMinute <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	if trustProxy {
		return httprate.LimitByRealIP(perMinute, time.Minute)
	}
	return httprate.LimitByIP(perMinute, time.Minute)
}

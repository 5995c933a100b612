package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"

	"github.com/akinalp/eihracat/pkg"
	"github.com/akinalp/eihracat/pkg/ratelimit"
)

// RateLimit, istemci IP'si başına limiter uygular. Limit aşılınca 429 ve
// Retry-After (saniye) döner.
func RateLimit(limiter *ratelimit.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := ratelimit.ClientIP(r)
			if !limiter.Allow(ip) {
				wait := limiter.RetryAfter(ip)
				w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
				pkg.ErrorWithMessage(w, http.StatusTooManyRequests, ratelimit.RetryMessage(wait))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RealIP, peer güvenilir bir proxy ise RemoteAddr'ı forwarded header'lardan
// çözülen istemci adresiyle değiştirir. Zincirin en dışında çalışmalıdır;
// sonraki katmanlar yalnızca ratelimit.ClientIP kullanır.
func RealIP(trust *ratelimit.ProxyTrust) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := trust.Resolve(r)
			if ip != ratelimit.ClientIP(r) {
				_, port, err := net.SplitHostPort(r.RemoteAddr)
				if err != nil {
					port = "0"
				}
				r2 := r.Clone(r.Context())
				r2.RemoteAddr = net.JoinHostPort(ip, port)
				r = r2
			}
			next.ServeHTTP(w, r)
		})
	}
}

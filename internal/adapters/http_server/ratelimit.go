package httpserver

import (
	"net/http"
	"strconv"
	"sync"

	"golang.org/x/time/rate"
)

// maxTrackedIPs bounds the limiter table; it is reset when full.
const maxTrackedIPs = 10_000

// IPLimiter is a token bucket per connection peer IP, used on the sign-in endpoints.
type IPLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	r        rate.Limit
	burst    int
}

func NewIPLimiter(rps float64, burst int) *IPLimiter {
	if rps <= 0 {
		rps = 1
	}
	if burst <= 0 {
		burst = 5
	}
	return &IPLimiter{limiters: map[string]*rate.Limiter{}, r: rate.Limit(rps), burst: burst}
}

func (l *IPLimiter) Allow(ip string) bool {
	l.mu.Lock()
	lim, ok := l.limiters[ip]
	if !ok {
		if len(l.limiters) >= maxTrackedIPs {
			l.limiters = map[string]*rate.Limiter{}
		}
		lim = rate.NewLimiter(l.r, l.burst)
		l.limiters[ip] = lim
	}
	l.mu.Unlock()
	return lim.Allow()
}

func (l *IPLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.Allow(peerIP(r)) {
			w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds(l.r)))
			writeProblem(w, http.StatusTooManyRequests, "Too Many Requests", "slow down and try again")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func retryAfterSeconds(r rate.Limit) int {
	if r <= 0 || r >= 1 {
		return 1
	}
	return int(1/float64(r)) + 1
}

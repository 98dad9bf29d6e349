package session

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// LoginLimiter throttles credential checks per remote address so the
// single shared credential cannot be brute forced at line rate.
type LoginLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	rate     rate.Limit
	burst    int
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewLoginLimiter allows ratePerMinute attempts with the given burst.
func NewLoginLimiter(ratePerMinute float64, burst int) *LoginLimiter {
	return &LoginLimiter{
		visitors: make(map[string]*visitor),
		rate:     rate.Limit(ratePerMinute / 60.0),
		burst:    burst,
	}
}

// Allow reports whether the request's remote address may attempt a login.
func (l *LoginLimiter) Allow(r *http.Request) bool {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	v, ok := l.visitors[host]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.visitors[host] = v
	}
	v.lastSeen = time.Now()

	// Keep the map bounded: drop addresses idle for an hour.
	if len(l.visitors) > 1000 {
		cutoff := time.Now().Add(-time.Hour)
		for addr, vv := range l.visitors {
			if vv.lastSeen.Before(cutoff) {
				delete(l.visitors, addr)
			}
		}
	}

	return v.limiter.Allow()
}

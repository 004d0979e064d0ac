package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

type rateWindow struct {
	count   int
	resetAt time.Time
}

// RateLimit caps requests per client IP within a fixed window. Windows are
// tracked in memory per process; expired entries are dropped lazily when the
// map grows past a soft cap.
func RateLimit(limit int, per time.Duration) func(http.Handler) http.Handler {
	var mu sync.Mutex
	windows := make(map[string]*rateWindow)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIPForRateLimit(r)
			now := time.Now()

			mu.Lock()
			if len(windows) > 10000 {
				for key, win := range windows {
					if now.After(win.resetAt) {
						delete(windows, key)
					}
				}
			}
			win, ok := windows[ip]
			if !ok || now.After(win.resetAt) {
				win = &rateWindow{resetAt: now.Add(per)}
				windows[ip] = win
			}
			if win.count >= limit {
				mu.Unlock()
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}
			win.count++
			mu.Unlock()

			next.ServeHTTP(w, r)
		})
	}
}

// clientIPForRateLimit prefers the first valid X-Forwarded-For entry, then the
// remote address with or without a port.
func clientIPForRateLimit(r *http.Request) string {
	if xf := r.Header.Get("X-Forwarded-For"); xf != "" {
		for _, part := range strings.Split(xf, ",") {
			candidate := strings.TrimSpace(part)
			if candidate == "" {
				continue
			}
			if net.ParseIP(candidate) != nil {
				return candidate
			}
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && net.ParseIP(host) != nil {
		return host
	}
	return r.RemoteAddr
}

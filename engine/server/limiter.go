package server

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type limiterEntry struct {
	limiter *rate.Limiter
	last    time.Time
}

// LimiterMap provides per-IP rate limiting with TTL eviction.
type LimiterMap struct {
	mu       sync.Mutex
	limiters map[string]*limiterEntry
	rpm      int
	burst    int
	ttl      time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewLimiterMap creates a LimiterMap allowing rpm requests per minute with the
// given burst, and starts a goroutine evicting limiters idle for longer than ttl.
func NewLimiterMap(rpm, burst int, ttl time.Duration) *LimiterMap {
	lm := &LimiterMap{
		limiters: make(map[string]*limiterEntry),
		rpm:      rpm,
		burst:    burst,
		ttl:      ttl,
		stopCh:   make(chan struct{}),
	}
	go lm.reaper()
	return lm
}

func (l *LimiterMap) reaper() {
	t := time.NewTicker(l.ttl)
	defer t.Stop()
	for {
		select {
		case <-l.stopCh:
			return
		case now := <-t.C:
			l.mu.Lock()
			for ip, e := range l.limiters {
				if now.Sub(e.last) > l.ttl {
					delete(l.limiters, ip)
				}
			}
			l.mu.Unlock()
		}
	}
}

// Stop stops the cleanup goroutine. It is safe to call more than once.
func (l *LimiterMap) Stop() {
	l.stopOnce.Do(func() { close(l.stopCh) })
}

// Len returns the number of tracked clients
func (l *LimiterMap) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}

func (l *LimiterMap) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	if e, ok := l.limiters[ip]; ok {
		e.last = time.Now()
		return e.limiter
	}
	lim := rate.NewLimiter(rate.Every(time.Minute/time.Duration(l.rpm)), l.burst)
	l.limiters[ip] = &limiterEntry{limiter: lim, last: time.Now()}
	return lim
}

// Allow returns true if the request from given IP should be allowed.
func (l *LimiterMap) Allow(ip string) bool {
	return l.get(ip).Allow()
}

// IPFromRequest extracts the client IP. The first X-Forwarded-For hop is only
// used when trustProxy is set; any client can forge that header, so enable it
// only behind a reverse proxy that overwrites it.
func IPFromRequest(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			first, _, _ := strings.Cut(xff, ",")
			return strings.TrimSpace(first)
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

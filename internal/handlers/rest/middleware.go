package rest

import (
	"context"
	"crypto/subtle"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/KirkDiggler/unplugged/internal/auth"
	"github.com/gorilla/mux"
	"golang.org/x/time/rate"
)

type contextKey string

const tokenKey contextKey = "token"

// authenticate verifies the bearer ID token and stores it on the request context
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			respondWithError(w, http.StatusUnauthorized, "unauthorized", "Authorization header required")
			return
		}

		idToken := strings.TrimPrefix(header, "Bearer ")
		if idToken == header {
			respondWithError(w, http.StatusUnauthorized, "unauthorized", "Invalid authorization format. Use 'Bearer <token>'")
			return
		}

		token, err := s.verifier.Verify(r.Context(), idToken)
		if err != nil {
			respondWithError(w, http.StatusUnauthorized, "unauthorized", "Invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), tokenKey, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func tokenFrom(ctx context.Context) (*auth.Token, bool) {
	token, ok := ctx.Value(tokenKey).(*auth.Token)
	return token, ok && token != nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// monitor records request counts, durations and auth rejections
func (s *Server) monitor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		path := r.URL.Path
		if route := mux.CurrentRoute(r); route != nil {
			if tmpl, err := route.GetPathTemplate(); err == nil {
				path = tmpl
			}
		}

		s.metrics.ObserveRequest(path, r.Method, strconv.Itoa(rec.status), time.Since(start).Seconds())

		switch rec.status {
		case http.StatusUnauthorized:
			s.metrics.AuthRejected("401_unauthorized")
		case http.StatusForbidden:
			s.metrics.AuthRejected("403_forbidden")
		}
	})
}

// basicAuth protects /metrics; with no credentials configured it rejects everyone
func (s *Server) basicAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || s.metricsUser == "" ||
			subtle.ConstantTimeCompare([]byte(user), []byte(s.metricsUser)) != 1 ||
			subtle.ConstantTimeCompare([]byte(pass), []byte(s.metricsPass)) != 1 {
			w.Header().Set("WWW-Authenticate", `Basic realm="Metrics"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ipRateLimiter keeps one token bucket per client IP
type ipRateLimiter struct {
	limit rate.Limit
	burst int

	mu       sync.Mutex
	visitors map[string]*visitor
}

func newIPRateLimiter(limit float64, burst int) *ipRateLimiter {
	return &ipRateLimiter{
		limit:    rate.Limit(limit),
		burst:    burst,
		visitors: make(map[string]*visitor),
	}
}

func (l *ipRateLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.get(clientIP(r)).Allow() {
			respondWithError(w, http.StatusTooManyRequests, "rate_limited", "Too Many Requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (l *ipRateLimiter) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	v, ok := l.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[ip] = v
	}
	v.lastSeen = time.Now()
	return v.limiter
}

// cleanup forgets visitors idle for longer than idle until ctx is done
func (l *ipRateLimiter) cleanup(ctx context.Context, every, idle time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.mu.Lock()
			for ip, v := range l.visitors {
				if time.Since(v.lastSeen) > idle {
					delete(l.visitors, ip)
				}
			}
			l.mu.Unlock()
		}
	}
}

// clientIP keys the rate limiter. Forwarded headers only reach it through
// ProxyHeaders, which rewrites RemoteAddr when the server trusts its proxy.
func clientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/m04kA/SMC-TableBooking/internal/api/handlers"
)

const (
	// visitorTTL простой, после которого лимитер клиента удаляется
	visitorTTL = 3 * time.Minute
	// sweepInterval как часто искать простаивающих клиентов
	sweepInterval = time.Minute
)

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter ограничивает число запросов с одного IP
type RateLimiter struct {
	limit      rate.Limit
	burst      int
	trustProxy bool
	logger     Logger
	now        func() time.Time

	mu        sync.Mutex
	visitors  map[string]*visitor
	lastSweep time.Time
}

// NewRateLimiter создает ограничитель: requestsPerSecond в среднем, burst подряд.
// trustProxy включает X-Forwarded-For и X-Real-IP; без него клиент определяется только по RemoteAddr
func NewRateLimiter(requestsPerSecond float64, burst int, trustProxy bool, logger Logger) *RateLimiter {
	return &RateLimiter{
		limit:      rate.Limit(requestsPerSecond),
		burst:      burst,
		trustProxy: trustProxy,
		logger:     logger,
		now:        time.Now,
		visitors:   make(map[string]*visitor),
	}
}

// Middleware отвечает 429, когда лимит IP исчерпан
func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r, l.trustProxy)
		if !l.limiter(ip).Allow() {
			l.logger.Warn("Rate limit exceeded: ip=%s, path=%s", ip, r.URL.Path)
			handlers.RespondTooManyRequests(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (l *RateLimiter) limiter(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= sweepInterval {
		l.sweep(now)
	}

	v, ok := l.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[ip] = v
	}
	v.lastSeen = now
	return v.limiter
}

// sweep удаляет клиентов, простаивающих дольше visitorTTL; вызывается под mu
func (l *RateLimiter) sweep(now time.Time) {
	for ip, v := range l.visitors {
		if now.Sub(v.lastSeen) > visitorTTL {
			delete(l.visitors, ip)
		}
	}
	l.lastSweep = now
}

func (l *RateLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.visitors)
}

// clientIP за доверенным прокси берёт первый адрес из X-Forwarded-For, затем X-Real-IP;
// иначе и по умолчанию RemoteAddr
func clientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			if first := strings.TrimSpace(strings.Split(xff, ",")[0]); first != "" {
				return first
			}
		}
		if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
			return xri
		}
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

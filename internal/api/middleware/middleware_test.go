package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TableBooking/pkg/logger"
	"github.com/m04kA/SMC-TableBooking/pkg/metrics"
)

func TestAuth(t *testing.T) {
	var got uuid.UUID
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := GetUserID(r.Context())
		require.True(t, ok)
		got = id
		w.WriteHeader(http.StatusNoContent)
	})
	h := Auth(next)

	userID := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/bookings", nil)
	req.Header.Set(UserIDHeader, userID.String())
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, userID, got)

	for _, header := range []string{"", "42", uuid.Nil.String()} {
		req := httptest.NewRequest(http.MethodGet, "/bookings", nil)
		if header != "" {
			req.Header.Set(UserIDHeader, header)
		}
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code, header)
	}
}

func TestGetUserID_Missing(t *testing.T) {
	_, ok := GetUserID(httptest.NewRequest(http.MethodGet, "/", nil).Context())
	assert.False(t, ok)
}

func TestRateLimiter(t *testing.T) {
	limiter := NewRateLimiter(0.001, 2, true, logger.NewNop())
	h := limiter.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	do := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/restaurants", nil)
		req.Header.Set("X-Forwarded-For", ip+", 10.0.0.1")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, do("203.0.113.5"))
	assert.Equal(t, http.StatusOK, do("203.0.113.5"))
	assert.Equal(t, http.StatusTooManyRequests, do("203.0.113.5"))
	// другой клиент не затронут
	assert.Equal(t, http.StatusOK, do("198.51.100.7"))
}

func TestRateLimiter_IgnoresForwardedHeadersByDefault(t *testing.T) {
	limiter := NewRateLimiter(0.001, 1, false, logger.NewNop())
	h := limiter.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	do := func(forwarded string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/restaurants", nil)
		req.RemoteAddr = "192.0.2.10:40000"
		req.Header.Set("X-Forwarded-For", forwarded)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, do("203.0.113.1"))
	// подмена заголовка не даёт новый лимит
	assert.Equal(t, http.StatusTooManyRequests, do("203.0.113.2"))
	assert.Equal(t, 1, limiter.size())
}

func TestRateLimiter_EvictsIdleClients(t *testing.T) {
	current := time.Date(2025, 6, 11, 12, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(1, 1, false, logger.NewNop())
	limiter.now = func() time.Time { return current }

	for i := 0; i < 100; i++ {
		limiter.limiter(fmt.Sprintf("198.51.100.%d", i))
	}
	assert.Equal(t, 100, limiter.size())

	current = current.Add(visitorTTL / 2)
	limiter.limiter("203.0.113.9")
	assert.Equal(t, 101, limiter.size())

	current = current.Add(visitorTTL)
	limiter.limiter("203.0.113.9")
	assert.Equal(t, 1, limiter.size(), "only the recently seen client stays")
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:54321"
	assert.Equal(t, "192.0.2.1", clientIP(req, true))

	req.Header.Set("X-Real-IP", "192.0.2.2")
	assert.Equal(t, "192.0.2.2", clientIP(req, true))

	req.Header.Set("X-Forwarded-For", "192.0.2.3, 10.0.0.1")
	assert.Equal(t, "192.0.2.3", clientIP(req, true))
	assert.Equal(t, "192.0.2.1", clientIP(req, false))
}

func TestMetricsMiddleware(t *testing.T) {
	m := metrics.NewWithRegisterer(prometheus.NewRegistry(), "table-booking-test")

	r := mux.NewRouter()
	r.Use(MetricsMiddleware(m))
	r.HandleFunc("/api/v1/bookings/{bookingId}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}).Methods(http.MethodGet)

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/bookings/"+uuid.NewString(), nil))
		require.Equal(t, http.StatusNotFound, w.Code)
	}

	counter := m.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/api/v1/bookings/{bookingId}", "404")
	assert.Equal(t, float64(2), testutil.ToFloat64(counter))
}

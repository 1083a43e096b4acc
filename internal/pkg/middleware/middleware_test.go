package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"stockledger/internal/pkg/cache"
	"stockledger/internal/pkg/logger"
	"stockledger/internal/pkg/metrics"
	"stockledger/internal/pkg/middleware"
)

// MockCache é uma implementação mock de cache.Client
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	args := m.Called(ctx, key, value, expiration)
	return args.Error(0)
}

func (m *MockCache) Incr(ctx context.Context, key string) (int64, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCache) Expire(ctx context.Context, key string, expiration time.Duration) error {
	args := m.Called(ctx, key, expiration)
	return args.Error(0)
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

var _ cache.Client = (*MockCache)(nil)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func newRequest() *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/v1/products", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	return req
}

func TestRateLimiter_FirstRequestOpensWindow(t *testing.T) {
	mockCache := new(MockCache)
	mockCache.On("Incr", mock.Anything, "rate-limit:10.0.0.1").Return(int64(1), nil)
	mockCache.On("Expire", mock.Anything, "rate-limit:10.0.0.1", time.Minute).Return(nil)

	h := middleware.RateLimiter(mockCache, 3, time.Minute, logger.NewNop())(okHandler)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, newRequest())

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Remaining"))
	mockCache.AssertExpectations(t)
}

func TestRateLimiter_BlocksAboveLimit(t *testing.T) {
	mockCache := new(MockCache)
	mockCache.On("Incr", mock.Anything, "rate-limit:10.0.0.1").Return(int64(4), nil)

	h := middleware.RateLimiter(mockCache, 3, time.Minute, logger.NewNop())(okHandler)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, newRequest())

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
	mockCache.AssertNotCalled(t, "Expire", mock.Anything, mock.Anything, mock.Anything)
}

// TestRateLimiter_LastRequestInsideWindow não mexe no TTL de uma janela já aberta.
func TestRateLimiter_LastRequestInsideWindow(t *testing.T) {
	mockCache := new(MockCache)
	mockCache.On("Incr", mock.Anything, "rate-limit:10.0.0.1").Return(int64(3), nil)

	h := middleware.RateLimiter(mockCache, 3, time.Minute, logger.NewNop())(okHandler)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, newRequest())

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
	mockCache.AssertNotCalled(t, "Expire", mock.Anything, mock.Anything, mock.Anything)
}

// TestRateLimiter_CounterWithoutTTLIsDropped garante que um contador recriado
// sem janela (falha no EXPIRE) não bloqueia o IP para sempre.
func TestRateLimiter_CounterWithoutTTLIsDropped(t *testing.T) {
	mockCache := new(MockCache)
	mockCache.On("Incr", mock.Anything, "rate-limit:10.0.0.1").Return(int64(1), nil)
	mockCache.On("Expire", mock.Anything, "rate-limit:10.0.0.1", time.Minute).Return(errors.New("timeout"))
	mockCache.On("Delete", mock.Anything, "rate-limit:10.0.0.1").Return(nil)

	h := middleware.RateLimiter(mockCache, 3, time.Minute, logger.NewNop())(okHandler)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, newRequest())

	assert.Equal(t, http.StatusOK, rec.Code)
	mockCache.AssertExpectations(t)
}

func TestRateLimiter_CacheFailureFailsOpen(t *testing.T) {
	mockCache := new(MockCache)
	mockCache.On("Incr", mock.Anything, mock.Anything).Return(int64(0), errors.New("connection refused"))

	h := middleware.RateLimiter(mockCache, 3, time.Minute, logger.NewNop())(okHandler)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, newRequest())

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequestID_GeneratesAndPropagates(t *testing.T) {
	var seen string
	h := middleware.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = middleware.RequestIDFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, newRequest())
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(middleware.RequestIDHeader))

	req := newRequest()
	req.Header.Set(middleware.RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", seen)
	assert.Equal(t, "abc-123", rec.Header().Get(middleware.RequestIDHeader))
}

func TestMetrics_UsesRoutePattern(t *testing.T) {
	m := metrics.New()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	h := middleware.Metrics(m)(mux)
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/products/7", nil))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/products/8", nil))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RequestCounter.WithLabelValues("GET", "GET /v1/products/{id}", "404")))
}

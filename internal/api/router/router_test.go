package router_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockledger/internal/api/product"
	"stockledger/internal/api/report"
	"stockledger/internal/api/router"
	"stockledger/internal/api/sales"
	"stockledger/internal/api/stock"
	"stockledger/internal/domain"
	"stockledger/internal/ledger"
	"stockledger/internal/pkg/logger"
	"stockledger/internal/pkg/metrics"
	"stockledger/internal/pkg/middleware"
	"stockledger/internal/seed"
	"stockledger/internal/service/productservice"
	"stockledger/internal/service/reportservice"
	"stockledger/internal/service/salesservice"
	"stockledger/internal/service/stockservice"
)

type testServer struct {
	handler http.Handler
	ledger  *ledger.Ledger
	metrics *metrics.Metrics
}

// newTestServer monta a aplicação completa sobre o catálogo inicial, sem Redis.
func newTestServer(t *testing.T) testServer {
	t.Helper()
	log := logger.NewNop()
	m := metrics.New()
	l := ledger.New(ledger.WithProducts(seed.Catalog()))

	salesSvc := salesservice.NewService(l, nil, time.Minute, log, m)
	handlers := router.Handlers{
		Product: product.NewHandler(productservice.NewService(l, log, m), log),
		Stock:   stock.NewHandler(stockservice.NewService(l, log, m), log),
		Sales:   sales.NewHandler(salesSvc, log),
		Report:  report.NewHandler(reportservice.NewService(salesSvc, l, log), log),
	}
	return testServer{
		handler: router.NewRouter(handlers, router.Options{Metrics: m, Logger: log}),
		ledger:  l,
		metrics: m,
	}
}

func (s testServer) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	s.handler.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func TestPing(t *testing.T) {
	s := newTestServer(t)
	rr := s.do(t, http.MethodGet, "/ping", "")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "pong", rr.Body.String())
	assert.NotEmpty(t, rr.Header().Get(middleware.RequestIDHeader))
}

func TestProducts(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(t, http.MethodGet, "/v1/products", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[[]domain.Product](t, rr), 4)

	rr = s.do(t, http.MethodGet, "/v1/products?category=energ%C3%ADa", "")
	assert.Len(t, decode[[]domain.Product](t, rr), 1)

	rr = s.do(t, http.MethodPost, "/v1/products",
		`{"name":"Mumbler's Recovery","category":"Energía","price":"2.90","cost":"1.40","stock":40,"min_stock":10}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	created := decode[domain.Product](t, rr)
	assert.Equal(t, 5, created.ID)

	rr = s.do(t, http.MethodGet, "/v1/products/5", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Mumbler's Recovery", decode[domain.Product](t, rr).Name)

	rr = s.do(t, http.MethodGet, "/v1/categories", "")
	assert.Equal(t, []string{"Energía", "Hidratación", "Profesional", "Zero Sugar"}, decode[[]string](t, rr))
}

func TestProducts_Errors(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(t, http.MethodGet, "/v1/products/99", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "NOT_FOUND", decode[domain.ErrorResponse](t, rr).Category)

	rr = s.do(t, http.MethodGet, "/v1/products/abc", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = s.do(t, http.MethodPost, "/v1/products", `{"name":""}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = s.do(t, http.MethodPost, "/v1/products", `not json`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = s.do(t, http.MethodDelete, "/v1/products/1", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestStock(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(t, http.MethodPost, "/v1/stock/adjust", `{"product_id":3,"delta":-70,"reason":"Daño"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, 10, decode[domain.Product](t, rr).Stock)

	rr = s.do(t, http.MethodGet, "/v1/stock/alerts", "")
	alerts := decode[[]domain.LowStockAlert](t, rr)
	require.Len(t, alerts, 1)
	assert.Equal(t, 3, alerts[0].ProductID)
	assert.Equal(t, domain.SeverityLow, alerts[0].Severity)

	rr = s.do(t, http.MethodPost, "/v1/stock/adjust", `{"product_id":42,"delta":1}`)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = s.do(t, http.MethodPost, "/v1/stock/adjust", `{"product_id":1,"delta":0}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSalesFlow(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(t, http.MethodGet, "/v1/stock/alerts", "")
	assert.Equal(t, "[]\n", rr.Body.String())

	rr = s.do(t, http.MethodPost, "/v1/sales", `{"product_id":1,"quantity":3,"unit_price":"2.0","seller":"Ana"}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	sale := decode[domain.SaleRecord](t, rr)
	assert.True(t, sale.Total.Equal(decimal.RequireFromString("6")))

	p, _ := s.ledger.Product(1)
	assert.Equal(t, 147, p.Stock)

	rr = s.do(t, http.MethodPost, "/v1/sales", `{"product_id":99,"quantity":1}`)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = s.do(t, http.MethodGet, "/v1/sales/stats", "")
	stats := decode[domain.SalesStatistics](t, rr)
	assert.Equal(t, 1, stats.TotalSales)
	assert.Equal(t, "Mumbler's Energy", stats.TopProduct)
	assert.Equal(t, "Ana", stats.TopSeller)

	today := time.Now().Format(sales.DateLayout)
	rr = s.do(t, http.MethodGet, "/v1/sales?from="+today+"&to="+today, "")
	assert.Len(t, decode[[]domain.SaleRecord](t, rr), 1)

	rr = s.do(t, http.MethodGet, "/v1/sales?from=15/01/2026", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestReports(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(t, http.MethodGet, "/v1/reports/sales", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	s.do(t, http.MethodPost, "/v1/sales", `{"product_id":2,"quantity":2,"seller":"Carlos"}`)
	s.do(t, http.MethodPost, "/v1/sales", `{"product_id":1,"quantity":1,"seller":"Ana"}`)

	rr = s.do(t, http.MethodGet, "/v1/reports/sales", "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	rep := decode[domain.SalesReport](t, rr)
	assert.Equal(t, 2, rep.SalesCount)
	assert.Equal(t, 3, rep.UnitsSold)
	assert.True(t, rep.Revenue.Equal(decimal.RequireFromString("6.90")))

	rr = s.do(t, http.MethodGet, "/v1/reports/sales/export?format=csv", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/csv", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "reporte_ventas_")
	assert.Len(t, strings.Split(strings.TrimSpace(rr.Body.String()), "\n"), 3)

	rr = s.do(t, http.MethodGet, "/v1/reports/sales/export?format=xlsx", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, strings.HasPrefix(rr.Body.String(), "PK"))

	rr = s.do(t, http.MethodGet, "/v1/reports/sales/export?format=pdf", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodGet, "/v1/products/1", "")

	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.RequestCounter.WithLabelValues("GET", "GET /v1/products/{id}", "200")))

	rr := s.do(t, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "http_requests_total")
}

func TestBackupRoute(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodPost, "/v1/sales", `{"product_id":4,"quantity":2,"seller":"María"}`)

	rr := s.do(t, http.MethodGet, "/v1/backup", "")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/yaml", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "backup_inventario_")
	assert.Contains(t, rr.Body.String(), "products:")
	assert.Contains(t, rr.Body.String(), "María")
}

package router

import (
	"net/http"
	"time"

	"stockledger/internal/api/product"
	"stockledger/internal/api/report"
	"stockledger/internal/api/sales"
	"stockledger/internal/api/stock"
	"stockledger/internal/pkg/cache"
	"stockledger/internal/pkg/logger"
	"stockledger/internal/pkg/metrics"
	"stockledger/internal/pkg/middleware"
)

// Handlers reúne os Handlers já inicializados por injeção de dependências.
type Handlers struct {
	Product *product.Handler
	Stock   *stock.Handler
	Sales   *sales.Handler
	Report  *report.Handler
}

// Options controla os middlewares globais. Metrics nil desliga /metrics;
// Cache nil desliga o rate limiting.
type Options struct {
	Metrics         *metrics.Metrics
	Cache           cache.Client
	RateLimit       int
	RateLimitPeriod time.Duration
	Logger          logger.Logger
}

// NewRouter configura e retorna o roteador HTTP principal.
func NewRouter(h Handlers, opts Options) http.Handler {
	mux := http.NewServeMux()

	// --- 1. Health Check e Observabilidade ---
	mux.HandleFunc("GET /ping", PingHandler)
	if opts.Metrics != nil {
		mux.Handle("GET /metrics", opts.Metrics.Handler())
	}

	// --- 2. Produtos ---
	mux.HandleFunc("GET /v1/products", h.Product.ListProductsHandler)
	mux.HandleFunc("POST /v1/products", h.Product.CreateProductHandler)
	mux.HandleFunc("GET /v1/products/{id}", h.Product.GetProductByIDHandler)
	mux.HandleFunc("GET /v1/categories", h.Product.CategoriesHandler)

	// --- 3. Estoque ---
	mux.HandleFunc("POST /v1/stock/adjust", h.Stock.AdjustStockHandler)
	mux.HandleFunc("GET /v1/stock/alerts", h.Stock.LowStockAlertsHandler)

	// --- 4. Vendas ---
	mux.HandleFunc("GET /v1/sales", h.Sales.ListSalesHandler)
	mux.HandleFunc("POST /v1/sales", h.Sales.RecordSaleHandler)
	mux.HandleFunc("GET /v1/sales/stats", h.Sales.StatisticsHandler)

	// --- 5. Relatórios ---
	mux.HandleFunc("GET /v1/reports/sales", h.Report.SalesReportHandler)
	mux.HandleFunc("GET /v1/reports/sales/export", h.Report.ExportHandler)
	mux.HandleFunc("GET /v1/backup", h.Report.BackupHandler)

	// --- 6. Middlewares Globais (o último aplicado é o mais externo) ---
	var handler http.Handler = mux
	if opts.Metrics != nil {
		// Mais interno, para enxergar r.Pattern preenchido pelo mux
		handler = middleware.Metrics(opts.Metrics)(handler)
	}
	if opts.Cache != nil {
		handler = middleware.RateLimiter(opts.Cache, opts.RateLimit, opts.RateLimitPeriod, opts.Logger)(handler)
	}
	handler = middleware.RequestID(handler)

	return handler
}

// PingHandler é uma função utilitária para o health check.
func PingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}

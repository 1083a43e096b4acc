package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"

	"stockledger/internal/domain"
)

// Metrics agrupa os coletores do ledger e do transporte HTTP.
// Cada instância usa seu próprio Registry para que testes não colidam.
type Metrics struct {
	registry *prometheus.Registry

	RequestCounter           *prometheus.CounterVec
	RequestDurationHistogram *prometheus.HistogramVec

	ProductsCreated   prometheus.Counter
	StockAdjustments  *prometheus.CounterVec
	SalesRecorded     prometheus.Counter
	UnitsSold         prometheus.Counter
	RevenueTotal      prometheus.Counter
	UnmatchedSales    prometheus.Counter
	LowStockProducts  *prometheus.GaugeVec
	StatsCacheLookups *prometheus.CounterVec
}

// New cria e registra todos os coletores.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		RequestCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockledger_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDurationHistogram: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stockledger_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		ProductsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "stockledger_products_created_total",
			Help: "Products added to the catalog",
		}),
		StockAdjustments: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockledger_stock_adjustments_total",
				Help: "Manual stock adjustments by reason",
			},
			[]string{"reason"},
		),
		SalesRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "stockledger_sales_recorded_total",
			Help: "Sales appended to the ledger",
		}),
		UnitsSold: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "stockledger_units_sold_total",
			Help: "Units sold across all sales",
		}),
		RevenueTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "stockledger_revenue_total",
			Help: "Sum of sale totals",
		}),
		UnmatchedSales: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "stockledger_unmatched_sales_total",
			Help: "Sales recorded without a matching product (stock untouched)",
		}),
		LowStockProducts: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "stockledger_low_stock_products",
				Help: "Products at or below their minimum stock, by severity",
			},
			[]string{"severity"},
		),
		StatsCacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockledger_stats_cache_lookups_total",
				Help: "Sales statistics cache lookups by result",
			},
			[]string{"result"},
		),
	}

	m.registry.MustRegister(
		m.RequestCounter,
		m.RequestDurationHistogram,
		m.ProductsCreated,
		m.StockAdjustments,
		m.SalesRecorded,
		m.UnitsSold,
		m.RevenueTotal,
		m.UnmatchedSales,
		m.LowStockProducts,
		m.StatsCacheLookups,
	)
	return m
}

// Registry expõe o registry (usado em testes com testutil).
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler devolve o handler HTTP que expõe as métricas.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveSale contabiliza uma venda registrada.
func (m *Metrics) ObserveSale(sale domain.SaleRecord, stockApplied bool) {
	m.SalesRecorded.Inc()
	m.UnitsSold.Add(float64(sale.Quantity))
	m.RevenueTotal.Add(toFloat(sale.Total))
	if !stockApplied {
		m.UnmatchedSales.Inc()
	}
}

// SetLowStock atualiza o gauge de alertas a partir da visão atual.
func (m *Metrics) SetLowStock(alerts []domain.LowStockAlert) {
	counts := map[domain.Severity]int{
		domain.SeverityLow:      0,
		domain.SeverityCritical: 0,
	}
	for _, a := range alerts {
		counts[a.Severity]++
	}
	for severity, n := range counts {
		m.LowStockProducts.WithLabelValues(string(severity)).Set(float64(n))
	}
}

func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

// Package ledger mantém o catálogo de produtos e o log de vendas em memória.
//
// O Ledger é a fonte autoritativa da sessão: não há persistência, e uma nova
// instância começa do zero (ou da semente passada ao construtor).
package ledger

import (
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"stockledger/internal/domain"
)

// Ledger guarda as duas coleções ordenadas. Todas as operações são síncronas
// e serializadas pelo mutex, pois o ledger é exposto a handlers HTTP concorrentes.
type Ledger struct {
	mu       sync.RWMutex
	products []domain.Product
	sales    []domain.SaleRecord
	now      func() time.Time
}

// Option configura o Ledger na construção.
type Option func(*Ledger)

// WithClock substitui o relógio usado para carimbar vendas e para o mês corrente.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// WithProducts semeia o catálogo na ordem dada.
func WithProducts(products []domain.Product) Option {
	return func(l *Ledger) {
		l.products = append(l.products, products...)
	}
}

// WithSales semeia o histórico de vendas. A semente é ordenada por timestamp
// uma única vez; vendas registradas depois são apenas anexadas.
func WithSales(sales []domain.SaleRecord) Option {
	return func(l *Ledger) {
		seeded := append([]domain.SaleRecord(nil), sales...)
		sort.SliceStable(seeded, func(i, j int) bool {
			return seeded[i].Timestamp.Before(seeded[j].Timestamp)
		})
		l.sales = append(l.sales, seeded...)
	}
}

// New cria um Ledger vazio (ou semeado pelas opções).
func New(opts ...Option) *Ledger {
	l := &Ledger{now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// AddProduct atribui id = maior id existente + 1 (ou 1 com catálogo vazio),
// anexa o produto e devolve o id. Não valida nome, preço nem estoque.
func (l *Ledger) AddProduct(p domain.Product) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	maxID := 0
	for _, existing := range l.products {
		if existing.ID > maxID {
			maxID = existing.ID
		}
	}
	p.ID = maxID + 1
	l.products = append(l.products, p)
	return p.ID
}

// AdjustStock soma delta (pode ser negativo) ao estoque do produto.
// Devolve false se o produto não existe. Não há piso em zero.
func (l *Ledger) AdjustStock(productID, delta int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexOf(productID)
	if i < 0 {
		return false
	}
	l.products[i].Stock += delta
	return true
}

// RecordSale atribui id = len(vendas) + 1, carimba o horário atual, anexa a venda
// e abate a quantidade do estoque do produto referenciado. O Total vem do chamador
// e não é recalculado.
//
// Se o produto não existe a venda é registrada mesmo assim e o segundo retorno é
// false: o estoque não foi tocado. Quem precisa falhar nesse caso deve checar o
// produto antes (ver salesservice).
func (l *Ledger) RecordSale(sale domain.SaleRecord) (domain.SaleRecord, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	sale.ID = len(l.sales) + 1
	sale.Timestamp = l.now()
	l.sales = append(l.sales, sale)

	i := l.indexOf(sale.ProductID)
	if i < 0 {
		return sale, false
	}
	l.products[i].Stock -= sale.Quantity
	return sale, true
}

// LowStockAlerts devolve um alerta por produto com stock <= min_stock, na ordem do
// catálogo. CRITICAL quando o estoque é exatamente zero, LOW nos demais casos.
func (l *Ledger) LowStockAlerts() []domain.LowStockAlert {
	l.mu.RLock()
	defer l.mu.RUnlock()

	alerts := []domain.LowStockAlert{}
	for _, p := range l.products {
		if p.Stock > p.MinStock {
			continue
		}
		severity := domain.SeverityLow
		if p.Stock == 0 {
			severity = domain.SeverityCritical
		}
		alerts = append(alerts, domain.LowStockAlert{
			ProductID:    p.ID,
			ProductName:  p.Name,
			CurrentStock: p.Stock,
			MinStock:     p.MinStock,
			Severity:     severity,
		})
	}
	return alerts
}

// SalesStatistics agrega todo o log de vendas. Produto mais vendido e melhor
// vendedor são a moda por número de vendas; empates ficam com o valor que aparece
// primeiro no log. Com o log vazio devolve o valor zero.
func (l *Ledger) SalesStatistics() domain.SalesStatistics {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if len(l.sales) == 0 {
		return domain.SalesStatistics{}
	}

	now := l.now()
	year, month, _ := now.Date()

	stats := domain.SalesStatistics{
		TotalSales:   len(l.sales),
		TotalRevenue: decimal.Zero,
	}
	products := newModeCounter()
	sellers := newModeCounter()
	for _, s := range l.sales {
		stats.TotalRevenue = stats.TotalRevenue.Add(s.Total)
		y, m, _ := s.Timestamp.In(now.Location()).Date()
		if y == year && m == month {
			stats.CurrentMonthSales++
		}
		products.add(s.ProductName)
		sellers.add(s.Seller)
	}
	stats.TopProduct = products.mode()
	stats.TopSeller = sellers.mode()
	return stats
}

// Products devolve uma cópia do catálogo na ordem de inserção.
func (l *Ledger) Products() []domain.Product {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]domain.Product{}, l.products...)
}

// Product busca um produto pelo id.
func (l *Ledger) Product(id int) (domain.Product, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	i := l.indexOf(id)
	if i < 0 {
		return domain.Product{}, false
	}
	return l.products[i], true
}

// Sales devolve uma cópia do log de vendas na ordem de inserção.
func (l *Ledger) Sales() []domain.SaleRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]domain.SaleRecord{}, l.sales...)
}

// Snapshot devolve cópias do catálogo e do log de vendas lidas sob a mesma
// trava, de modo que estoque e vendas correspondam ao mesmo instante.
func (l *Ledger) Snapshot() ([]domain.Product, []domain.SaleRecord) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]domain.Product{}, l.products...), append([]domain.SaleRecord{}, l.sales...)
}

// SalesCount devolve o tamanho do log de vendas sem copiá-lo.
func (l *Ledger) SalesCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.sales)
}

// indexOf exige o mutex já adquirido.
func (l *Ledger) indexOf(productID int) int {
	for i := range l.products {
		if l.products[i].ID == productID {
			return i
		}
	}
	return -1
}

// modeCounter conta ocorrências preservando a ordem da primeira aparição.
type modeCounter struct {
	counts map[string]int
	order  []string
}

func newModeCounter() *modeCounter {
	return &modeCounter{counts: make(map[string]int)}
}

func (c *modeCounter) add(v string) {
	if _, seen := c.counts[v]; !seen {
		c.order = append(c.order, v)
	}
	c.counts[v]++
}

func (c *modeCounter) mode() string {
	best, bestCount := "", 0
	for _, v := range c.order {
		if c.counts[v] > bestCount {
			best, bestCount = v, c.counts[v]
		}
	}
	return best
}

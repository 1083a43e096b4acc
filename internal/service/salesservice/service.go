package salesservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"stockledger/internal/domain"
	apperror "stockledger/internal/errors"
	"stockledger/internal/pkg/cache"
	"stockledger/internal/pkg/logger"
	"stockledger/internal/pkg/metrics"
)

// statsCacheKeyPrefix + número de vendas guarda o JSON de domain.SalesStatistics.
// Como o log só cresce, cada chave corresponde a um único estado do log e uma
// venda nova simplesmente passa a usar outra chave: não há invalidação a perder.
const statsCacheKeyPrefix = "stats:sales:"

func statsCacheKey(salesCount int) string {
	return statsCacheKeyPrefix + strconv.Itoa(salesCount)
}

// DefaultSeller é usado quando a venda chega sem vendedor.
const DefaultSeller = "Otro"

// SalesLedger define o contrato que o Serviço de Vendas espera do ledger.
type SalesLedger interface {
	Product(id int) (domain.Product, bool)
	RecordSale(sale domain.SaleRecord) (domain.SaleRecord, bool)
	Sales() []domain.SaleRecord
	SalesStatistics() domain.SalesStatistics
	SalesCount() int
	LowStockAlerts() []domain.LowStockAlert
}

// Service registra vendas e serve as estatísticas agregadas.
type Service struct {
	ledger   SalesLedger
	cache    cache.Client // nil desliga o cache
	statsTTL time.Duration
	logger   logger.Logger
	metrics  *metrics.Metrics
}

// NewService cria e retorna uma nova instância do Serviço de Vendas.
// cacheClient pode ser nil.
func NewService(ledger SalesLedger, cacheClient cache.Client, statsTTL time.Duration, log logger.Logger, m *metrics.Metrics) *Service {
	return &Service{
		ledger:   ledger,
		cache:    cacheClient,
		statsTTL: statsTTL,
		logger:   log,
		metrics:  m,
	}
}

// RecordSale valida a venda contra o catálogo e a registra no ledger.
//
// Diferente do ledger, que registra vendas de produtos inexistentes sem mexer no
// estoque, aqui um produto desconhecido é rejeitado com NotFoundError e nada é gravado.
func (s *Service) RecordSale(ctx context.Context, input domain.SaleInput) (domain.SaleRecord, error) {
	s.logger.Debug("Iniciando registro de venda no serviço.", map[string]interface{}{
		"product_id": input.ProductID,
		"quantity":   input.Quantity,
	})

	if input.Quantity < 1 {
		return domain.SaleRecord{}, apperror.NewValidationError("A quantidade vendida deve ser ao menos 1.")
	}

	product, ok := s.ledger.Product(input.ProductID)
	if !ok {
		s.logger.Warn("Venda rejeitada: produto inexistente.", map[string]interface{}{"product_id": input.ProductID})
		return domain.SaleRecord{}, apperror.NewNotFoundError(fmt.Sprintf("Produto com ID %d não foi encontrado.", input.ProductID))
	}

	unitPrice := product.Price
	if input.UnitPrice != nil {
		unitPrice = *input.UnitPrice
	}
	if unitPrice.IsNegative() {
		return domain.SaleRecord{}, apperror.NewValidationError("O preço unitário não pode ser negativo.")
	}

	total := unitPrice.Mul(decimal.NewFromInt(int64(input.Quantity)))
	if input.Total != nil && !input.Total.Equal(total) {
		return domain.SaleRecord{}, apperror.NewValidationError(
			fmt.Sprintf("Total informado (%s) difere de quantidade x preço unitário (%s).", input.Total.String(), total.String()))
	}

	seller := input.Seller
	if seller == "" {
		seller = DefaultSeller
	}

	sale, applied := s.ledger.RecordSale(domain.SaleRecord{
		ProductID:   product.ID,
		ProductName: product.Name,
		Quantity:    input.Quantity,
		UnitPrice:   unitPrice,
		Total:       total,
		Seller:      seller,
		Customer:    input.Customer,
		Notes:       input.Notes,
	})
	if !applied {
		// Produtos nunca são removidos, então isso indica um bug no ledger.
		s.logger.Warn("Venda registrada sem baixa de estoque.", map[string]interface{}{"sale_id": sale.ID, "product_id": sale.ProductID})
	}

	s.metrics.ObserveSale(sale, applied)
	s.metrics.SetLowStock(s.ledger.LowStockAlerts())

	s.logger.Info("Venda registrada com sucesso.", map[string]interface{}{
		"sale_id":    sale.ID,
		"product_id": sale.ProductID,
		"quantity":   sale.Quantity,
		"total":      sale.Total.String(),
	})
	return sale, nil
}

// Statistics devolve as estatísticas de vendas usando a estratégia Cache-Aside.
// A chave é versionada pelo número de vendas; as estatísticas são gravadas na
// chave do TotalSales que elas de fato contêm, então uma venda concorrente nunca
// deixa um valor velho servido na chave nova.
// Falhas do cache são registradas e ignoradas: o ledger é sempre a fonte da verdade.
func (s *Service) Statistics(ctx context.Context) domain.SalesStatistics {
	if s.cache == nil {
		return s.ledger.SalesStatistics()
	}

	key := statsCacheKey(s.ledger.SalesCount())
	cached, err := s.cache.Get(ctx, key)
	if err == nil {
		var stats domain.SalesStatistics
		if json.Unmarshal([]byte(cached), &stats) == nil {
			s.metrics.StatsCacheLookups.WithLabelValues("hit").Inc()
			return stats
		}
		s.logger.Warn("Entrada de cache inválida, recalculando.", map[string]interface{}{"key": key})
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Error("Falha ao ler estatísticas do cache.", err)
	}
	s.metrics.StatsCacheLookups.WithLabelValues("miss").Inc()

	stats := s.ledger.SalesStatistics()

	payload, err := json.Marshal(stats)
	if err != nil {
		s.logger.Error("Falha ao serializar estatísticas para cache.", err)
		return stats
	}
	if err := s.cache.Set(ctx, statsCacheKey(stats.TotalSales), payload, s.statsTTL); err != nil {
		s.logger.Error("Falha ao gravar estatísticas no cache.", err)
	}
	return stats
}

// ListSales aplica o filtro de período e produto sobre o log de vendas.
func (s *Service) ListSales(ctx context.Context, filter domain.SaleFilter) ([]domain.SaleRecord, error) {
	if !filter.From.IsZero() && !filter.To.IsZero() && filter.From.After(filter.To) {
		return nil, apperror.NewValidationError("A data inicial deve ser anterior ou igual à data final.")
	}

	sales := []domain.SaleRecord{}
	for _, sale := range s.ledger.Sales() {
		if filter.Match(sale) {
			sales = append(sales, sale)
		}
	}
	return sales, nil
}

package stockservice

import (
	"context"
	"fmt"
	"slices"

	"stockledger/internal/domain"
	apperror "stockledger/internal/errors"
	"stockledger/internal/pkg/logger"
	"stockledger/internal/pkg/metrics"
)

// MaxAdjustment é o módulo máximo de um ajuste manual numa única operação.
const MaxAdjustment = 100

// StockLedger define o contrato que o Serviço de Estoque espera do ledger.
type StockLedger interface {
	AdjustStock(productID, delta int) bool
	Product(id int) (domain.Product, bool)
	LowStockAlerts() []domain.LowStockAlert
}

// Service aplica ajustes manuais e expõe os alertas de estoque baixo.
type Service struct {
	ledger  StockLedger
	logger  logger.Logger
	metrics *metrics.Metrics
}

// NewService cria e retorna uma nova instância do Serviço de Estoque.
func NewService(ledger StockLedger, log logger.Logger, m *metrics.Metrics) *Service {
	return &Service{ledger: ledger, logger: log, metrics: m}
}

// AdjustStock aplica um ajuste ao estoque de um produto e devolve o produto atualizado.
func (s *Service) AdjustStock(ctx context.Context, adjustment domain.StockAdjustmentRequest) (domain.Product, error) {
	s.logger.Debug("Iniciando ajuste de estoque no serviço.", map[string]interface{}{
		"product_id": adjustment.ProductID,
		"delta":      adjustment.Delta,
		"reason":     adjustment.Reason,
	})

	if adjustment.Delta == 0 {
		return domain.Product{}, apperror.NewValidationError("O ajuste de estoque (delta) não pode ser zero.")
	}
	if adjustment.Delta > MaxAdjustment || adjustment.Delta < -MaxAdjustment {
		return domain.Product{}, apperror.NewValidationError(fmt.Sprintf("O ajuste deve estar entre -%d e %d.", MaxAdjustment, MaxAdjustment))
	}
	if adjustment.Reason == "" {
		adjustment.Reason = domain.AdjustmentReasons[0]
	}
	if !slices.Contains(domain.AdjustmentReasons, adjustment.Reason) {
		return domain.Product{}, apperror.NewValidationError(fmt.Sprintf("Motivo de ajuste desconhecido: %q.", adjustment.Reason))
	}

	if !s.ledger.AdjustStock(adjustment.ProductID, adjustment.Delta) {
		s.logger.Warn("Ajuste de estoque para produto inexistente.", map[string]interface{}{"product_id": adjustment.ProductID})
		return domain.Product{}, apperror.NewNotFoundError(fmt.Sprintf("Produto com ID %d não foi encontrado.", adjustment.ProductID))
	}

	product, ok := s.ledger.Product(adjustment.ProductID)
	if !ok {
		return domain.Product{}, apperror.NewInternalError("Produto sumiu após o ajuste.", nil)
	}
	s.metrics.StockAdjustments.WithLabelValues(adjustment.Reason).Inc()
	s.refreshLowStockGauge()

	s.logger.Info("Estoque ajustado com sucesso.", map[string]interface{}{
		"product_id": product.ID,
		"reason":     adjustment.Reason,
		"new_stock":  product.Stock,
	})
	return product, nil
}

// LowStockAlerts devolve os alertas do ledger com a razão de preenchimento
// (estoque / 3x mínimo, limitada a [0, 1]) usada nas barras do painel.
func (s *Service) LowStockAlerts(ctx context.Context) []domain.LowStockAlert {
	alerts := s.ledger.LowStockAlerts()
	for i := range alerts {
		alerts[i].FillRatio = fillRatio(alerts[i].CurrentStock, alerts[i].MinStock)
	}
	s.metrics.SetLowStock(alerts)
	return alerts
}

func (s *Service) refreshLowStockGauge() {
	s.metrics.SetLowStock(s.ledger.LowStockAlerts())
}

func fillRatio(stock, minStock int) float64 {
	if minStock <= 0 {
		if stock > 0 {
			return 1
		}
		return 0
	}
	r := float64(stock) / float64(3*minStock)
	return min(max(r, 0), 1)
}

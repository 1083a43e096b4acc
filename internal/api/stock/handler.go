package stock

import (
	"context"
	"net/http"

	"stockledger/internal/api/response"
	"stockledger/internal/domain"
	"stockledger/internal/pkg/logger"
)

// StockService define o contrato que o Handler espera da camada de Serviço.
type StockService interface {
	AdjustStock(ctx context.Context, adjustment domain.StockAdjustmentRequest) (domain.Product, error)
	LowStockAlerts(ctx context.Context) []domain.LowStockAlert
}

// Handler agrupa todos os métodos de Handler de estoque.
type Handler struct {
	Service StockService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc StockService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

// AdjustStockHandler lida com a requisição POST /v1/stock/adjust.
func (h *Handler) AdjustStockHandler(w http.ResponseWriter, r *http.Request) {
	var adjustmentRequest domain.StockAdjustmentRequest
	if err := response.DecodeJSON(r, &adjustmentRequest); err != nil {
		response.Send(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}

	product, err := h.Service.AdjustStock(r.Context(), adjustmentRequest)
	response.Send(w, r, h.Logger, product, err, http.StatusOK)
}

// LowStockAlertsHandler lida com a requisição GET /v1/stock/alerts.
func (h *Handler) LowStockAlertsHandler(w http.ResponseWriter, r *http.Request) {
	response.Send(w, r, h.Logger, h.Service.LowStockAlerts(r.Context()), nil, http.StatusOK)
}

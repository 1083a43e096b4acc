package sales

import (
	"context"
	"net/http"
	"time"

	"stockledger/internal/api/response"
	"stockledger/internal/domain"
	apperror "stockledger/internal/errors"
	"stockledger/internal/pkg/logger"
)

// DateLayout é o formato dos parâmetros from/to.
const DateLayout = "2006-01-02"

// SalesService define o contrato que o Handler espera da camada de Serviço.
type SalesService interface {
	RecordSale(ctx context.Context, input domain.SaleInput) (domain.SaleRecord, error)
	ListSales(ctx context.Context, filter domain.SaleFilter) ([]domain.SaleRecord, error)
	Statistics(ctx context.Context) domain.SalesStatistics
}

// Handler agrupa todos os métodos de Handler de vendas.
type Handler struct {
	Service SalesService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc SalesService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

// RecordSaleHandler lida com a requisição POST /v1/sales.
func (h *Handler) RecordSaleHandler(w http.ResponseWriter, r *http.Request) {
	var input domain.SaleInput
	if err := response.DecodeJSON(r, &input); err != nil {
		response.Send(w, r, h.Logger, nil, err, http.StatusCreated)
		return
	}

	sale, err := h.Service.RecordSale(r.Context(), input)
	response.Send(w, r, h.Logger, sale, err, http.StatusCreated)
}

// ListSalesHandler lida com a requisição GET /v1/sales[?from=&to=&product=].
func (h *Handler) ListSalesHandler(w http.ResponseWriter, r *http.Request) {
	filter, err := ParseFilter(r)
	if err != nil {
		response.Send(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}

	sales, err := h.Service.ListSales(r.Context(), filter)
	response.Send(w, r, h.Logger, sales, err, http.StatusOK)
}

// StatisticsHandler lida com a requisição GET /v1/sales/stats.
func (h *Handler) StatisticsHandler(w http.ResponseWriter, r *http.Request) {
	response.Send(w, r, h.Logger, h.Service.Statistics(r.Context()), nil, http.StatusOK)
}

// ParseFilter lê from, to (AAAA-MM-DD) e product da query string.
func ParseFilter(r *http.Request) (domain.SaleFilter, error) {
	q := r.URL.Query()
	filter := domain.SaleFilter{ProductName: q.Get("product")}

	var err error
	if filter.From, err = parseDate(q.Get("from")); err != nil {
		return domain.SaleFilter{}, apperror.NewValidationError("Parâmetro 'from' deve estar no formato AAAA-MM-DD.")
	}
	if filter.To, err = parseDate(q.Get("to")); err != nil {
		return domain.SaleFilter{}, apperror.NewValidationError("Parâmetro 'to' deve estar no formato AAAA-MM-DD.")
	}
	return filter, nil
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(DateLayout, s)
}

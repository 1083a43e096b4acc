package product

import (
	"context"
	"net/http"
	"strconv"

	"stockledger/internal/api/response"
	"stockledger/internal/domain"
	apperror "stockledger/internal/errors"
	"stockledger/internal/pkg/logger"
)

// ProductService define o contrato que o Handler espera da camada de Serviço.
type ProductService interface {
	CreateProduct(ctx context.Context, input domain.ProductInput) (domain.Product, error)
	GetProductByID(ctx context.Context, id int) (domain.Product, error)
	ListProducts(ctx context.Context, filter domain.ProductFilter) []domain.Product
	Categories(ctx context.Context) []string
}

// Handler agrupa todos os métodos de Handler do produto.
type Handler struct {
	Service ProductService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc ProductService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

// CreateProductHandler lida com a requisição POST /v1/products.
func (h *Handler) CreateProductHandler(w http.ResponseWriter, r *http.Request) {
	var input domain.ProductInput
	if err := response.DecodeJSON(r, &input); err != nil {
		response.Send(w, r, h.Logger, nil, err, http.StatusCreated)
		return
	}

	newProduct, err := h.Service.CreateProduct(r.Context(), input)
	response.Send(w, r, h.Logger, newProduct, err, http.StatusCreated)
}

// GetProductByIDHandler lida com a requisição GET /v1/products/{id}.
func (h *Handler) GetProductByIDHandler(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || productID <= 0 {
		response.Send(w, r, h.Logger, nil, apperror.NewValidationError("ID do produto deve ser um inteiro positivo."), http.StatusOK)
		return
	}

	product, err := h.Service.GetProductByID(r.Context(), productID)
	response.Send(w, r, h.Logger, product, err, http.StatusOK)
}

// ListProductsHandler lida com a requisição GET /v1/products[?category=].
func (h *Handler) ListProductsHandler(w http.ResponseWriter, r *http.Request) {
	filter := domain.ProductFilter{Category: r.URL.Query().Get("category")}
	response.Send(w, r, h.Logger, h.Service.ListProducts(r.Context(), filter), nil, http.StatusOK)
}

// CategoriesHandler lida com a requisição GET /v1/categories.
func (h *Handler) CategoriesHandler(w http.ResponseWriter, r *http.Request) {
	response.Send(w, r, h.Logger, h.Service.Categories(r.Context()), nil, http.StatusOK)
}

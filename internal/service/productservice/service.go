package productservice

import (
	"context"
	"fmt"
	"strings"
	"time"

	"stockledger/internal/domain"
	apperror "stockledger/internal/errors"
	"stockledger/internal/pkg/logger"
	"stockledger/internal/pkg/metrics"
)

// ProductLedger define o contrato que este Serviço espera do ledger.
type ProductLedger interface {
	AddProduct(p domain.Product) int
	Product(id int) (domain.Product, bool)
	Products() []domain.Product
}

// Service implementa as regras de catálogo que ficam fora do ledger
// (validação de formulário, lote padrão, filtros).
type Service struct {
	ledger  ProductLedger
	logger  logger.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewService cria e retorna uma nova instância do Serviço de Produto.
func NewService(ledger ProductLedger, log logger.Logger, m *metrics.Metrics) *Service {
	return &Service{ledger: ledger, logger: log, metrics: m, now: time.Now}
}

// CreateProduct valida o payload, completa o lote e adiciona o produto ao ledger.
func (s *Service) CreateProduct(ctx context.Context, input domain.ProductInput) (domain.Product, error) {
	s.logger.Debug("Iniciando criação de produto no serviço.", map[string]interface{}{"name": input.Name})

	if err := validateInput(input); err != nil {
		s.logger.Warn("Falha na validação do produto.", map[string]interface{}{"name": input.Name, "error": err.Error()})
		return domain.Product{}, err
	}

	product := input.ToProduct()
	product.Name = strings.TrimSpace(product.Name)
	if product.Lot == "" {
		product.Lot = fmt.Sprintf("LOTE-%s", s.now().Format("2006-01"))
	}

	id := s.ledger.AddProduct(product)
	product.ID = id
	s.metrics.ProductsCreated.Inc()

	s.logger.Info("Produto criado com sucesso.", map[string]interface{}{"id": id, "name": product.Name})
	return product, nil
}

func validateInput(input domain.ProductInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return apperror.NewValidationError("O nome do produto é obrigatório.")
	}
	if input.Price.IsNegative() {
		return apperror.NewValidationError("O preço de venda não pode ser negativo.")
	}
	if input.Cost.IsNegative() {
		return apperror.NewValidationError("O custo não pode ser negativo.")
	}
	if input.Stock < 0 {
		return apperror.NewValidationError("O estoque inicial não pode ser negativo.")
	}
	if input.MinStock < 0 {
		return apperror.NewValidationError("O estoque mínimo não pode ser negativo.")
	}
	return nil
}

// GetProductByID busca um produto pelo ID.
func (s *Service) GetProductByID(ctx context.Context, id int) (domain.Product, error) {
	product, ok := s.ledger.Product(id)
	if !ok {
		return domain.Product{}, apperror.NewNotFoundError(fmt.Sprintf("Produto com ID %d não foi encontrado.", id))
	}
	return product, nil
}

// ListProducts devolve o catálogo na ordem de inserção, opcionalmente filtrado por categoria.
func (s *Service) ListProducts(ctx context.Context, filter domain.ProductFilter) []domain.Product {
	products := s.ledger.Products()
	if filter.Category == "" {
		return products
	}

	filtered := []domain.Product{}
	for _, p := range products {
		if strings.EqualFold(p.Category, filter.Category) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

// Categories devolve as categorias distintas na ordem em que aparecem no catálogo.
func (s *Service) Categories(ctx context.Context) []string {
	seen := map[string]bool{}
	categories := []string{}
	for _, p := range s.ledger.Products() {
		if p.Category == "" || seen[p.Category] {
			continue
		}
		seen[p.Category] = true
		categories = append(categories, p.Category)
	}
	return categories
}

package domain

import (
	"github.com/shopspring/decimal"
)

// Product representa um item do catálogo da loja (a Entidade).
// O ID é atribuído pelo ledger e nunca muda depois disso.
type Product struct {
	ID       int             `json:"id" yaml:"id"`
	Name     string          `json:"name" yaml:"name"`
	Category string          `json:"category" yaml:"category"`
	Supplier string          `json:"supplier" yaml:"supplier"`
	Lot      string          `json:"lot" yaml:"lot"` // Código do lote
	Price    decimal.Decimal `json:"price" yaml:"price"`
	Cost     decimal.Decimal `json:"cost" yaml:"cost"`
	Stock    int             `json:"stock" yaml:"stock"` // Pode ficar negativo, não há piso
	MinStock int             `json:"min_stock" yaml:"min_stock"`
}

// Margin devolve preço menos custo. Apenas informativo.
func (p Product) Margin() decimal.Decimal {
	return p.Price.Sub(p.Cost)
}

// ProductInput é o payload esperado para a criação de um produto.
type ProductInput struct {
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Supplier string          `json:"supplier"`
	Lot      string          `json:"lot"`
	Price    decimal.Decimal `json:"price"`
	Cost     decimal.Decimal `json:"cost"`
	Stock    int             `json:"stock"`
	MinStock int             `json:"min_stock"`
}

// ToProduct converte o payload em uma entidade ainda sem ID.
func (in ProductInput) ToProduct() Product {
	return Product{
		Name:     in.Name,
		Category: in.Category,
		Supplier: in.Supplier,
		Lot:      in.Lot,
		Price:    in.Price,
		Cost:     in.Cost,
		Stock:    in.Stock,
		MinStock: in.MinStock,
	}
}

// ProductFilter define os parâmetros de busca do catálogo.
type ProductFilter struct {
	Category string
}

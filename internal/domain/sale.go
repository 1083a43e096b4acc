package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleRecord é um fato histórico imutável: o nome do produto e o total são
// uma fotografia do momento da venda e não são ressincronizados depois.
type SaleRecord struct {
	ID          int             `json:"id" yaml:"id"`
	ProductID   int             `json:"product_id" yaml:"product_id"`
	ProductName string          `json:"product_name" yaml:"product_name"`
	Quantity    int             `json:"quantity" yaml:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price" yaml:"unit_price"`
	Total       decimal.Decimal `json:"total" yaml:"total"`
	Timestamp   time.Time       `json:"timestamp" yaml:"timestamp"`
	Seller      string          `json:"seller" yaml:"seller"`
	Customer    string          `json:"customer" yaml:"customer"`
	Notes       string          `json:"notes" yaml:"notes"`
}

// SaleInput é o payload esperado para registrar uma venda.
// UnitPrice e Total são opcionais; quando ausentes o serviço os completa.
type SaleInput struct {
	ProductID int              `json:"product_id"`
	Quantity  int              `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
	Total     *decimal.Decimal `json:"total,omitempty"`
	Seller    string           `json:"seller"`
	Customer  string           `json:"customer"`
	Notes     string           `json:"notes"`
}

// SaleFilter restringe a listagem de vendas por período (datas de calendário,
// inclusivas) e por nome de produto. Campos zero não filtram.
type SaleFilter struct {
	From        time.Time
	To          time.Time
	ProductName string
}

// Match aplica o filtro a uma venda.
func (f SaleFilter) Match(s SaleRecord) bool {
	day := dayKey(s.Timestamp)
	if !f.From.IsZero() && day < dayKey(f.From) {
		return false
	}
	if !f.To.IsZero() && day > dayKey(f.To) {
		return false
	}
	if f.ProductName != "" && s.ProductName != f.ProductName {
		return false
	}
	return true
}

// dayKey compara apenas a data de calendário (AAAAMMDD), ignorando hora e fuso.
func dayKey(t time.Time) int {
	y, m, d := t.Date()
	return y*10000 + int(m)*100 + d
}

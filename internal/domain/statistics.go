package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesStatistics agrega todo o log de vendas.
// Com o log vazio todos os campos ficam no valor zero.
type SalesStatistics struct {
	TotalSales        int             `json:"total_sales"`
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	CurrentMonthSales int             `json:"current_month_sales"`
	TopProduct        string          `json:"top_product"`
	TopSeller         string          `json:"top_seller"`
}

// DailyRevenue é um ponto da série de vendas diárias.
type DailyRevenue struct {
	Date  string          `json:"date"` // AAAA-MM-DD
	Total decimal.Decimal `json:"total"`
}

// GroupRevenue soma a receita por uma chave (vendedor ou produto).
type GroupRevenue struct {
	Key   string          `json:"key"`
	Total decimal.Decimal `json:"total"`
}

// SalesReport resume as vendas de um período filtrado.
type SalesReport struct {
	From          time.Time       `json:"from,omitzero"`
	To            time.Time       `json:"to,omitzero"`
	ProductName   string          `json:"product_name,omitempty"`
	SalesCount    int             `json:"sales_count"`
	Revenue       decimal.Decimal `json:"revenue"`
	UnitsSold     int             `json:"units_sold"`
	AverageTicket decimal.Decimal `json:"average_ticket"`
	Daily         []DailyRevenue  `json:"daily"`
	BySeller      []GroupRevenue  `json:"by_seller"`
	ByProduct     []GroupRevenue  `json:"by_product"`
}

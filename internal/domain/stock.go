package domain

// Motivos aceitos para um ajuste manual de estoque.
const (
	ReasonInventoryAdjustment = "Ajuste inventario"
	ReasonReturn              = "Devolución"
	ReasonDamage              = "Daño"
	ReasonOther               = "Otro"
)

// AdjustmentReasons lista os motivos válidos, o primeiro é o padrão.
var AdjustmentReasons = []string{
	ReasonInventoryAdjustment,
	ReasonReturn,
	ReasonDamage,
	ReasonOther,
}

// StockAdjustmentRequest é o payload esperado para a requisição de ajuste de estoque.
type StockAdjustmentRequest struct {
	ProductID int    `json:"product_id"`
	Delta     int    `json:"delta"` // Quantidade a ser adicionada/removida
	Reason    string `json:"reason"`
}

// Severity classifica um alerta de estoque baixo.
type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityLow      Severity = "LOW"
)

// LowStockAlert é emitido para cada produto com stock <= min_stock.
type LowStockAlert struct {
	ProductID    int      `json:"product_id"`
	ProductName  string   `json:"product_name"`
	CurrentStock int      `json:"current_stock"`
	MinStock     int      `json:"min_stock"`
	Severity     Severity `json:"severity"`
	FillRatio    float64  `json:"fill_ratio"`
}

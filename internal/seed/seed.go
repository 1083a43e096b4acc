// Package seed fornece o catálogo inicial da loja e o histórico de vendas de demonstração.
package seed

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"stockledger/internal/domain"
)

// Sellers são os vendedores usados no histórico gerado.
var Sellers = []string{"Ana", "Carlos", "María", "David"}

// Data é o conteúdo de um arquivo de semente.
type Data struct {
	Products []domain.Product    `yaml:"products"`
	Sales    []domain.SaleRecord `yaml:"sales"`
}

// Catalog devolve os quatro produtos com que a loja abre.
func Catalog() []domain.Product {
	return []domain.Product{
		{ID: 1, Name: "Mumbler's Energy", Category: "Energía", Price: decimal.RequireFromString("2.50"), Cost: decimal.RequireFromString("1.20"), Stock: 150, MinStock: 20, Supplier: "NutriSport", Lot: "LOTE-2024-ENE"},
		{ID: 2, Name: "Mumbler's Hydration", Category: "Hidratación", Price: decimal.RequireFromString("2.20"), Cost: decimal.RequireFromString("1.00"), Stock: 200, MinStock: 30, Supplier: "AquaPure", Lot: "LOTE-2024-FEB"},
		{ID: 3, Name: "Mumbler's Pro", Category: "Profesional", Price: decimal.RequireFromString("3.00"), Cost: decimal.RequireFromString("1.50"), Stock: 80, MinStock: 15, Supplier: "ProSupply", Lot: "LOTE-2024-MAR"},
		{ID: 4, Name: "Mumbler's Zero Sugar", Category: "Zero Sugar", Price: decimal.RequireFromString("2.80"), Cost: decimal.RequireFromString("1.30"), Stock: 120, MinStock: 25, Supplier: "SugarFree Co", Lot: "LOTE-2024-ABR"},
	}
}

// Load lê um arquivo YAML no formato {products: [...], sales: [...]}.
func Load(path string) (Data, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Data{}, fmt.Errorf("falha ao ler arquivo de semente %s: %w", path, err)
	}

	var data Data
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return Data{}, fmt.Errorf("arquivo de semente inválido %s: %w", path, err)
	}

	seen := make(map[int]bool, len(data.Products))
	for _, p := range data.Products {
		if p.ID <= 0 {
			return Data{}, fmt.Errorf("produto %q sem id positivo", p.Name)
		}
		if seen[p.ID] {
			return Data{}, fmt.Errorf("id de produto duplicado: %d", p.ID)
		}
		seen[p.ID] = true
	}

	// O ledger numera novas vendas como len(vendas)+1, então os ids do arquivo
	// precisam ser exatamente 1..n (em qualquer ordem).
	saleIDs := make(map[int]bool, len(data.Sales))
	for _, s := range data.Sales {
		if s.ID < 1 || s.ID > len(data.Sales) {
			return Data{}, fmt.Errorf("id de venda %d fora do intervalo 1..%d", s.ID, len(data.Sales))
		}
		if saleIDs[s.ID] {
			return Data{}, fmt.Errorf("id de venda duplicado: %d", s.ID)
		}
		saleIDs[s.ID] = true
	}
	return data, nil
}

// History gera n vendas distribuídas nos últimos days dias antes de now
// (days negativo vale 0).
// O resultado só depende de rng, então a mesma semente produz o mesmo histórico.
// O estoque dos produtos não é alterado.
func History(products []domain.Product, days, n int, rng *rand.Rand, now time.Time) []domain.SaleRecord {
	if len(products) == 0 || n <= 0 {
		return []domain.SaleRecord{}
	}
	if days < 0 {
		days = 0
	}

	start := now.AddDate(0, 0, -days)
	sales := make([]domain.SaleRecord, 0, n)
	for i := 0; i < n; i++ {
		product := products[rng.Intn(len(products))]
		quantity := rng.Intn(10) + 1

		sales = append(sales, domain.SaleRecord{
			ID:          i + 1,
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    quantity,
			UnitPrice:   product.Price,
			Total:       product.Price.Mul(decimal.NewFromInt(int64(quantity))),
			Timestamp:   start.AddDate(0, 0, rng.Intn(days+1)),
			Seller:      Sellers[rng.Intn(len(Sellers))],
			Customer:    fmt.Sprintf("Cliente_%d", rng.Intn(9000)+1000),
		})
	}
	return sales
}

package reportservice

import (
	"context"
	"io"
	"sort"

	"github.com/shopspring/decimal"

	"stockledger/internal/domain"
	apperror "stockledger/internal/errors"
	"stockledger/internal/export"
	"stockledger/internal/pkg/logger"
	"stockledger/internal/seed"
)

// SalesLister define o contrato de leitura filtrada de vendas (salesservice.Service).
type SalesLister interface {
	ListSales(ctx context.Context, filter domain.SaleFilter) ([]domain.SaleRecord, error)
}

// StateSnapshotter devolve o estado completo do ledger num único instante.
type StateSnapshotter interface {
	Snapshot() ([]domain.Product, []domain.SaleRecord)
}

// Service monta relatórios de período, as exportações de vendas e o backup.
type Service struct {
	sales  SalesLister
	state  StateSnapshotter
	logger logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Relatórios.
func NewService(sales SalesLister, state StateSnapshotter, log logger.Logger) *Service {
	return &Service{sales: sales, state: state, logger: log}
}

// Report resume as vendas do período. Um período sem vendas é NotFoundError.
func (s *Service) Report(ctx context.Context, filter domain.SaleFilter) (domain.SalesReport, error) {
	sales, err := s.sales.ListSales(ctx, filter)
	if err != nil {
		return domain.SalesReport{}, err
	}
	if len(sales) == 0 {
		return domain.SalesReport{}, apperror.NewNotFoundError("Não há dados para o período selecionado.")
	}

	report := domain.SalesReport{
		From:        filter.From,
		To:          filter.To,
		ProductName: filter.ProductName,
		SalesCount:  len(sales),
		Revenue:     decimal.Zero,
	}

	daily := map[string]decimal.Decimal{}
	bySeller := map[string]decimal.Decimal{}
	byProduct := map[string]decimal.Decimal{}
	for _, sale := range sales {
		report.Revenue = report.Revenue.Add(sale.Total)
		report.UnitsSold += sale.Quantity

		day := sale.Timestamp.Format("2006-01-02")
		daily[day] = daily[day].Add(sale.Total)
		bySeller[sale.Seller] = bySeller[sale.Seller].Add(sale.Total)
		byProduct[sale.ProductName] = byProduct[sale.ProductName].Add(sale.Total)
	}
	report.AverageTicket = report.Revenue.Div(decimal.NewFromInt(int64(len(sales)))).Round(2)

	for _, g := range sortedGroups(daily) {
		report.Daily = append(report.Daily, domain.DailyRevenue{Date: g.Key, Total: g.Total})
	}
	report.BySeller = sortedGroups(bySeller)
	report.ByProduct = sortedGroups(byProduct)

	s.logger.Debug("Relatório de vendas gerado.", map[string]interface{}{"sales": report.SalesCount, "revenue": report.Revenue.String()})
	return report, nil
}

// Export escreve as vendas filtradas no formato pedido. Um período vazio gera
// apenas o cabeçalho.
func (s *Service) Export(ctx context.Context, w io.Writer, format export.Format, filter domain.SaleFilter) (int, error) {
	sales, err := s.sales.ListSales(ctx, filter)
	if err != nil {
		return 0, err
	}
	if err := export.Write(w, format, sales); err != nil {
		s.logger.Error("Falha ao exportar vendas.", err)
		return 0, apperror.NewInternalError("Falha ao exportar vendas.", err)
	}
	s.logger.Info("Vendas exportadas.", map[string]interface{}{"format": string(format), "rows": len(sales)})
	return len(sales), nil
}

// Backup grava catálogo e vendas no formato de semente, que pode ser recarregado
// com SEED_FILE.
func (s *Service) Backup(ctx context.Context, w io.Writer) error {
	products, sales := s.state.Snapshot()
	if err := seed.Backup(w, products, sales); err != nil {
		s.logger.Error("Falha ao gerar backup.", err)
		return apperror.NewInternalError("Falha ao gerar backup.", err)
	}
	s.logger.Info("Backup gerado.", map[string]interface{}{"products": len(products), "sales": len(sales)})
	return nil
}

// sortedGroups ordena pela chave, como o agrupamento do painel.
func sortedGroups(m map[string]decimal.Decimal) []domain.GroupRevenue {
	groups := make([]domain.GroupRevenue, 0, len(m))
	for k, v := range m {
		groups = append(groups, domain.GroupRevenue{Key: k, Total: v})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Key < groups[j].Key })
	return groups
}

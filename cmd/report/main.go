package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"stockledger/config"
	"stockledger/internal/api/sales"
	"stockledger/internal/domain"
	apperror "stockledger/internal/errors"
	"stockledger/internal/export"
	"stockledger/internal/pkg/logger"
	"stockledger/internal/pkg/metrics"
	"stockledger/internal/seed"
	"stockledger/internal/service/reportservice"
	"stockledger/internal/service/salesservice"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️ Aviso: Arquivo .env não encontrado ou erro de leitura. Carregando configs apenas do ambiente do sistema: %v", err)
	}

	cfg := config.LoadConfig()

	var (
		formatFlag  string
		outDir      string
		fromFlag    string
		toFlag      string
		productFlag string
		randSeed    int64
		backup      bool
	)
	flag.StringVar(&formatFlag, "format", "csv", "formato de exportação (csv|xlsx)")
	flag.StringVar(&outDir, "out", ".", "diretório de saída")
	flag.StringVar(&fromFlag, "from", "", "data inicial AAAA-MM-DD (inclusiva)")
	flag.StringVar(&toFlag, "to", "", "data final AAAA-MM-DD (inclusiva)")
	flag.StringVar(&productFlag, "product", "", "nome exato do produto")
	flag.Int64Var(&randSeed, "seed", 0, "semente do histórico gerado (0 usa o relógio)")
	flag.BoolVar(&backup, "backup", false, "grava o backup completo (YAML de semente) em vez do relatório")
	flag.Parse()

	format, err := export.ParseFormat(formatFlag)
	if err != nil {
		log.Fatalf("report: %v", err)
	}
	filter := domain.SaleFilter{ProductName: productFlag}
	if filter.From, err = parseDate(fromFlag); err != nil {
		log.Fatalf("report: -from inválido: %v", err)
	}
	if filter.To, err = parseDate(toFlag); err != nil {
		log.Fatalf("report: -to inválido: %v", err)
	}

	l, err := seed.NewLedger(seed.Options{
		File:        cfg.SeedFile,
		Sales:       cfg.SeedSales,
		HistoryDays: cfg.SeedHistoryDays,
		SalesCount:  cfg.SeedSalesCount,
		RandSeed:    randSeed,
	})
	if err != nil {
		log.Fatalf("report: %v", err)
	}

	appLog := logger.NewLogger(cfg.LogLevel, cfg.Environment)
	salesSvc := salesservice.NewService(l, nil, cfg.StatsCacheTTL, appLog, metrics.New())
	reportSvc := reportservice.NewService(salesSvc, l, appLog)
	ctx := context.Background()

	if backup {
		path := filepath.Join(outDir, seed.BackupFileName(time.Now()))
		if err := writeFile(path, func(w io.Writer) error { return reportSvc.Backup(ctx, w) }); err != nil {
			log.Fatalf("report: falha ao gerar backup: %v", err)
		}
		fmt.Printf("✅ backup gravado em %s\n", path)
		return
	}

	path := filepath.Join(outDir, export.FileName(format, time.Now()))
	var rows int
	err = writeFile(path, func(w io.Writer) error {
		var exportErr error
		rows, exportErr = reportSvc.Export(ctx, w, format, filter)
		return exportErr
	})
	if err != nil {
		log.Fatalf("report: falha ao exportar: %v", err)
	}

	summary, err := reportSvc.Report(ctx, filter)
	switch {
	case err == nil:
		fmt.Printf("vendas: %d  unidades: %d  receita: %s  ticket médio: %s\n",
			summary.SalesCount, summary.UnitsSold, summary.Revenue.StringFixed(2), summary.AverageTicket.StringFixed(2))
	case apperror.IsNotFound(err):
		fmt.Println("⚠️ nenhuma venda no período selecionado")
	default:
		log.Printf("report: falha ao resumir o período: %v", err)
	}
	fmt.Printf("✅ %d vendas exportadas para %s\n", rows, path)
}

// writeFile cria path, chama write e remove o arquivo parcial se algo falhar.
func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	err = write(f)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(path)
		return err
	}
	return nil
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(sales.DateLayout, s)
}

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	// Nossos pacotes de infraestrutura e utilitários
	"stockledger/config"
	"stockledger/internal/pkg/cache"
	"stockledger/internal/pkg/logger"
	"stockledger/internal/pkg/metrics"
	"stockledger/internal/seed"

	// Camadas para Injeção de Dependências
	"stockledger/internal/api/product"
	"stockledger/internal/api/report"
	"stockledger/internal/api/router"
	"stockledger/internal/api/sales"
	"stockledger/internal/api/stock"
	"stockledger/internal/service/productservice"
	"stockledger/internal/service/reportservice"
	"stockledger/internal/service/salesservice"
	"stockledger/internal/service/stockservice"
)

func main() {
	// 1. Configuração e Inicialização
	log.Println("⚡ Inicializando serviço StockLedger...")
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ Aviso: Arquivo .env não encontrado ou erro de leitura. Carregando configs apenas do ambiente do sistema.")
	}

	cfg := config.LoadConfig()
	appLog := logger.NewLogger(cfg.LogLevel, cfg.Environment)
	if zl, ok := appLog.(*logger.ZapLogger); ok {
		defer zl.Sync()
	}
	appLog.Info("Configurações carregadas.", map[string]interface{}{"env": cfg.Environment, "port": cfg.Port})

	// 2. Ledger em memória (fonte da verdade da sessão)
	l, err := seed.NewLedger(seed.Options{
		File:        cfg.SeedFile,
		Sales:       cfg.SeedSales,
		HistoryDays: cfg.SeedHistoryDays,
		SalesCount:  cfg.SeedSalesCount,
	})
	if err != nil {
		appLog.Fatal("Falha ao carregar a semente do ledger.", err)
	}
	appLog.Info("Ledger inicializado.", map[string]interface{}{
		"products": len(l.Products()),
		"sales":    len(l.Sales()),
	})

	// 3. Cache (Redis), opcional
	var cacheClient cache.Client
	if cfg.CacheEnabled() {
		redisClient, err := cache.NewRedisClient(cfg.RedisAddr, cfg.CacheTimeout)
		if err != nil {
			appLog.Warn("⚠️ Redis indisponível, seguindo sem cache e sem rate limiting.", map[string]interface{}{
				"addr":  cfg.RedisAddr,
				"error": err.Error(),
			})
			redisClient.Close()
		} else {
			defer redisClient.Close()
			cacheClient = redisClient
			appLog.Info("Conexão Redis estabelecida.", map[string]interface{}{"addr": cfg.RedisAddr})
		}
	}

	m := metrics.New()
	m.SetLowStock(l.LowStockAlerts())

	// 4. INJEÇÃO DE DEPENDÊNCIAS: Ledger -> Service -> Handler
	productSvc := productservice.NewService(l, appLog, m)
	stockSvc := stockservice.NewService(l, appLog, m)
	salesSvc := salesservice.NewService(l, cacheClient, cfg.StatsCacheTTL, appLog, m)
	reportSvc := reportservice.NewService(salesSvc, l, appLog)
	appLog.Debug("Serviços inicializados.", nil)

	handlers := router.Handlers{
		Product: product.NewHandler(productSvc, appLog),
		Stock:   stock.NewHandler(stockSvc, appLog),
		Sales:   sales.NewHandler(salesSvc, appLog),
		Report:  report.NewHandler(reportSvc, appLog),
	}

	opts := router.Options{
		Cache:           cacheClient,
		RateLimit:       cfg.RateLimitMaxRequests,
		RateLimitPeriod: cfg.RateLimitPeriod,
		Logger:          appLog,
	}
	if cfg.MetricsEnabled {
		opts.Metrics = m
	}

	// 5. Configuração e Início do Servidor
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router.NewRouter(handlers, opts),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		appLog.Info("Servidor StockLedger ouvindo na porta", map[string]interface{}{"port": cfg.Port})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.Fatal("Servidor falhou.", err)
		}
	}()

	// 6. Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	appLog.Info("Sinal de encerramento recebido. Desligando servidor...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		appLog.Error("Desligamento do servidor forçado.", err)
	}

	appLog.Info("Servidor encerrado com sucesso.", nil)
}

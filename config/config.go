package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config armazena todas as configurações do stockledger.
type Config struct {
	// Geral
	Port            string
	Environment     string
	LogLevel        string
	ShutdownTimeout time.Duration

	// Cache (Redis). Endereço vazio desliga cache e rate limiting.
	RedisAddr     string
	CacheTimeout  time.Duration
	StatsCacheTTL time.Duration

	// Rate Limiting
	RateLimitMaxRequests int
	RateLimitPeriod      time.Duration

	// Semente do ledger
	SeedFile        string
	SeedSales       bool
	SeedHistoryDays int
	SeedSalesCount  int

	// Observabilidade
	MetricsEnabled bool
}

// LoadConfig carrega as configurações a partir das variáveis de ambiente.
// O .env, se existir, já foi carregado pelo main via godotenv.
func LoadConfig() *Config {
	return &Config{
		// 1. Geral
		Port:            getEnv("PORT", "8080"),
		Environment:     getEnv("ENV", "development"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		ShutdownTimeout: getDurationEnv("SHUTDOWN_TIMEOUT_SEC", 15) * time.Second,

		// 2. Cache (Redis)
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		CacheTimeout:  getDurationEnv("CACHE_TIMEOUT_SEC", 10) * time.Second,
		StatsCacheTTL: getDurationEnv("STATS_CACHE_TTL_SEC", 30) * time.Second,

		// 3. Rate Limiting
		RateLimitMaxRequests: getIntEnv("RATE_LIMIT_MAX_REQUESTS", 100),
		RateLimitPeriod:      getDurationEnv("RATE_LIMIT_PERIOD_MIN", 1) * time.Minute,

		// 4. Semente
		SeedFile:        getEnv("SEED_FILE", ""),
		SeedSales:       getBoolEnv("SEED_SALES", true),
		SeedHistoryDays: getIntEnv("SEED_HISTORY_DAYS", 90),
		SeedSalesCount:  getIntEnv("SEED_SALES_COUNT", 200),

		// 5. Observabilidade
		MetricsEnabled: getBoolEnv("METRICS_ENABLED", true),
	}
}

// CacheEnabled informa se há um Redis configurado.
func (c *Config) CacheEnabled() bool {
	return c.RedisAddr != ""
}

// Funções Helpers (Auxiliares)

// getEnv lê a variável de ambiente ou retorna um valor padrão.
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getDurationEnv lê uma variável de ambiente numérica e retorna-a como time.Duration
// (sem unidade: o chamador multiplica pela unidade desejada).
func getDurationEnv(key string, defaultValue int) time.Duration {
	return time.Duration(getIntEnv(key, defaultValue))
}

// getIntEnv lê uma variável de ambiente numérica e retorna-a como int.
func getIntEnv(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("⚠️ Aviso: Valor de %s ('%s') não é um número inteiro válido. Usando padrão (%d).", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}

// getBoolEnv aceita os formatos de strconv.ParseBool (true/false/1/0...).
func getBoolEnv(key string, defaultValue bool) bool {
	valueStr := strings.TrimSpace(getEnv(key, ""))
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("⚠️ Aviso: Valor de %s ('%s') não é booleano. Usando padrão (%t).", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}

package middleware

import (
	"net"
	"net/http"
	"strconv"
	"time"

	"stockledger/internal/pkg/cache"
	"stockledger/internal/pkg/logger"
)

// RateLimiter limita requisições por IP numa janela fixa, usando contadores no cache.
// O contador é incrementado antes da checagem (INCR é atômico) e a requisição que
// abre a janela define o TTL. Falhas do cache não derrubam a API: a requisição
// segue sem limite.
func RateLimiter(client cache.Client, limit int, duration time.Duration, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}
			key := "rate-limit:" + ip
			ctx := r.Context()

			count, err := client.Incr(ctx, key)
			if err != nil {
				log.Error("Falha ao incrementar contador de rate limit, seguindo sem limite.", err)
				next.ServeHTTP(w, r)
				return
			}
			if count == 1 {
				if err := client.Expire(ctx, key, duration); err != nil {
					// Sem TTL o contador nunca zeraria e bloquearia o IP para sempre
					log.Error("Falha ao definir janela de rate limit.", err)
					if delErr := client.Delete(ctx, key); delErr != nil {
						log.Error("Falha ao remover contador sem TTL.", delErr)
					}
				}
			}

			if count > int64(limit) {
				w.Header().Set("X-RateLimit-Remaining", "0")
				http.Error(w, "Rate limit exceeded", http.StatusTooManyRequests)
				return
			}

			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(int64(limit)-count, 10))
			next.ServeHTTP(w, r)
		})
	}
}

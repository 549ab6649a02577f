package handlers

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"kopilka/internal/ledger"
)

// API объединяет зависимости обработчиков. Все они создаются в точке
// входа и передаются сюда явно, глобального состояния у пакета нет.
type API struct {
	Ledger   *ledger.Service
	RDB      *redis.Client
	Password string
	JwtKey   []byte
}

func NewAPI(svc *ledger.Service, rdb *redis.Client, password string, jwtKey []byte) *API {
	return &API{
		Ledger:   svc,
		RDB:      rdb,
		Password: password,
		JwtKey:   jwtKey,
	}
}

const balanceCacheKey = "kopilka:balances"

// invalidateBalanceCache сбрасывает кэш списка остатков после любой записи.
func (a *API) invalidateBalanceCache(c *gin.Context) {
	if a.RDB == nil {
		return
	}
	if err := a.RDB.Del(c.Request.Context(), balanceCacheKey).Err(); err != nil {
		slog.Warn("Не удалось сбросить кэш остатков", "error", err)
	}
}

package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"kopilka/internal/ledger"
	"kopilka/models"
)

const balanceCacheTTL = 5 * time.Minute

// ListBalancesHandler возвращает остатки по всем счетам, сначала недавно
// обновленные. Список кэшируется в Redis и сбрасывается при каждой записи.
func (a *API) ListBalancesHandler(c *gin.Context) {
	if a.RDB != nil {
		cached, err := a.RDB.Get(c.Request.Context(), balanceCacheKey).Result()
		if err == nil {
			var balances []models.AccountBalance
			if json.Unmarshal([]byte(cached), &balances) == nil && len(balances) > 0 {
				sendResponse(c, http.StatusOK, "Balances fetched successfully", gin.H{
					"balances": balances,
				})
				return
			}
			slog.Warn("Не удалось разобрать кэш остатков, читаем из БД")
		} else if !errors.Is(err, redis.Nil) {
			slog.Error("Redis GET завершился ошибкой", "error", err)
		}
	}

	balances, err := a.Ledger.Balances()
	if err != nil {
		slog.Error("Не удалось получить остатки", "error", err)
		sendResponse(c, http.StatusInternalServerError, "Internal Server Error", nil)
		return
	}
	if len(balances) == 0 {
		sendResponse(c, http.StatusNotFound, "No balances found", nil)
		return
	}

	if a.RDB != nil {
		if jsonData, err := json.Marshal(balances); err == nil {
			if err := a.RDB.Set(c.Request.Context(), balanceCacheKey, jsonData, balanceCacheTTL).Err(); err != nil {
				slog.Error("Не удалось записать остатки в кэш", "error", err)
			}
		}
	}

	sendResponse(c, http.StatusOK, "Balances fetched successfully", gin.H{
		"balances": balances,
	})
}

// UpdateBalanceRequest определяет структуру для прямой правки остатка.
type UpdateBalanceRequest struct {
	Account    string           `json:"account" binding:"required"`
	CurrentBal *decimal.Decimal `json:"currentBal" binding:"required"`
}

// UpdateBalanceHandler записывает точное значение остатка в обход журнала.
// Это административная правка: строка остатка должна уже существовать.
func (a *API) UpdateBalanceHandler(c *gin.Context) {
	var req UpdateBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendResponse(c, http.StatusBadRequest, "Account and currentBal are required", nil)
		return
	}

	balance, err := a.Ledger.SetBalance(models.Account(req.Account), *req.CurrentBal)
	if err != nil {
		var verr *ledger.ValidationError
		switch {
		case errors.Is(err, ledger.ErrBalanceNotFound):
			sendResponse(c, http.StatusNotFound, "Account not found", nil)
		case errors.As(err, &verr):
			sendResponse(c, http.StatusBadRequest, verr.Error(), nil)
		default:
			slog.Error("Не удалось обновить остаток", "error", err)
			sendResponse(c, http.StatusInternalServerError, "Internal Server Error", nil)
		}
		return
	}

	a.invalidateBalanceCache(c)
	sendResponse(c, http.StatusOK, "Balance updated successfully", gin.H{
		"balance": balance,
	})
}

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"kopilka/internal/ledger"
	"kopilka/models"
)

// AddTransactionRequest определяет структуру для входящих данных.
// Сумма принимается через указатель, чтобы отличить отсутствующее поле
// от нулевого значения.
type AddTransactionRequest struct {
	Category          string           `json:"category" binding:"required"`
	Amount            *decimal.Decimal `json:"amount" binding:"required"`
	Account           string           `json:"account" binding:"required"`
	DateOfTransaction string           `json:"dateOfTransaction" binding:"required"`
	Note              string           `json:"note"`
}

// AddTransactionHandler обрабатывает запись операции в журнал.
// Повторная отправка за тот же (счет, категория, день) заменяет прежнюю
// запись, остаток корректируется без двойного учета.
func (a *API) AddTransactionHandler(c *gin.Context) {
	var req AddTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendResponse(c, http.StatusBadRequest, "Missing required fields", nil)
		return
	}

	date, err := parseTransactionDate(req.DateOfTransaction)
	if err != nil {
		sendResponse(c, http.StatusBadRequest, "Invalid date format, use YYYY-MM-DD or RFC3339", nil)
		return
	}

	created, err := a.Ledger.Record(ledger.RecordInput{
		Category:          models.Category(req.Category),
		Amount:            *req.Amount,
		Account:           models.Account(req.Account),
		DateOfTransaction: date,
		Note:              req.Note,
	})
	if err != nil {
		var verr *ledger.ValidationError
		if errors.As(err, &verr) {
			sendResponse(c, http.StatusBadRequest, verr.Error(), nil)
			return
		}
		slog.Error("Не удалось записать операцию", "error", err)
		sendResponse(c, http.StatusInternalServerError, "Internal Server Error", nil)
		return
	}

	a.invalidateBalanceCache(c)
	sendResponse(c, http.StatusCreated, "Transaction added successfully", gin.H{
		"transaction": created,
	})
}

// ListTransactionsHandler возвращает операции счета за календарный месяц.
// Счет по умолчанию - expense, месяц по умолчанию - текущий; год всегда
// текущий, как в исходном поведении.
func (a *API) ListTransactionsHandler(c *gin.Context) {
	account, month, ok := a.monthQuery(c)
	if !ok {
		return
	}

	transactions, err := a.Ledger.TransactionsForMonth(account, month)
	if err != nil {
		a.respondQueryError(c, err, "Не удалось получить операции")
		return
	}
	if len(transactions) == 0 {
		sendResponse(c, http.StatusNotFound, "No transactions found", nil)
		return
	}

	sendResponse(c, http.StatusOK, "Transactions fetched successfully", gin.H{
		"transactions": transactions,
	})
}

// DailyTotalsHandler отдает суммы по дням месяца для календаря.
func (a *API) DailyTotalsHandler(c *gin.Context) {
	account, month, ok := a.monthQuery(c)
	if !ok {
		return
	}

	totals, err := a.Ledger.DailyTotals(account, month)
	if err != nil {
		a.respondQueryError(c, err, "Не удалось посчитать суммы по дням")
		return
	}
	if len(totals) == 0 {
		sendResponse(c, http.StatusNotFound, "No transactions found", nil)
		return
	}

	sendResponse(c, http.StatusOK, "Daily totals fetched successfully", gin.H{
		"days": totals,
	})
}

// monthQuery разбирает общие параметры account и month. При ошибке сам
// отвечает 400 и возвращает ok=false.
func (a *API) monthQuery(c *gin.Context) (models.Account, int, bool) {
	account := c.DefaultQuery("account", string(models.AccountExpense))

	month := 0
	if raw := c.Query("month"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			sendResponse(c, http.StatusBadRequest, "Invalid month parameter", nil)
			return "", 0, false
		}
		month = parsed
	}
	return models.Account(account), month, true
}

func (a *API) respondQueryError(c *gin.Context, err error, logMsg string) {
	var verr *ledger.ValidationError
	if errors.As(err, &verr) {
		sendResponse(c, http.StatusBadRequest, verr.Error(), nil)
		return
	}
	slog.Error(logMsg, "error", err)
	sendResponse(c, http.StatusInternalServerError, "Internal Server Error", nil)
}

// parseTransactionDate принимает дату в RFC3339 (так ее шлет календарь)
// или в коротком виде YYYY-MM-DD.
func parseTransactionDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02", raw, time.Local)
}

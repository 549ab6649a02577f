package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// ExportTransactionsHandler - обработчик для экспорта операций месяца в Excel.
func (a *API) ExportTransactionsHandler(c *gin.Context) {
	account, month, ok := a.monthQuery(c)
	if !ok {
		return
	}

	transactions, err := a.Ledger.TransactionsForMonth(account, month)
	if err != nil {
		a.respondQueryError(c, err, "Не удалось получить операции для экспорта")
		return
	}
	if len(transactions) == 0 {
		sendResponse(c, http.StatusNotFound, "No transactions found", nil)
		return
	}

	f := excelize.NewFile()
	sheetName := "Операции"
	index, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(index)

	headers := []string{"Дата", "Счет", "Категория", "Сумма", "Заметка"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	for i, t := range transactions {
		row := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), t.DateOfTransaction.Format("02.01.2006"))
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), string(t.Account))
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), string(t.Category))
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), t.Amount.InexactFloat64())
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), t.Note)
	}

	fileName := fmt.Sprintf("transactions_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename="+fileName)
	if err := f.Write(c.Writer); err != nil {
		sendResponse(c, http.StatusInternalServerError, "Failed to write Excel file", nil)
	}
}

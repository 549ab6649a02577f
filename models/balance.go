package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AccountBalance хранит текущий остаток по счету, одна строка на счет.
// Остаток может уходить в минус. Строка создается неявно при первой
// операции по счету и дальше только инкрементально корректируется.
type AccountBalance struct {
	gorm.Model
	Account    Account         `json:"account" gorm:"type:varchar(16);uniqueIndex;not null"`
	CurrentBal decimal.Decimal `json:"currentBal" gorm:"type:numeric(12,2);not null"`
	LastUpdate time.Time       `json:"lastUpdate"`
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Transaction представляет одну финансовую операцию (доход или расход по счету).
// На каждую тройку (счет, категория, календарный день) живет не больше одной
// записи — это поддерживает операция сверки, а не ограничение схемы.
type Transaction struct {
	gorm.Model
	Category          Category        `json:"category" gorm:"type:varchar(16);not null"`
	Amount            decimal.Decimal `json:"amount" gorm:"type:numeric(12,2);not null"`
	Account           Account         `json:"account" gorm:"type:varchar(16);not null;index:idx_transactions_slot"`
	DateOfTransaction time.Time       `json:"dateOfTransaction" gorm:"not null;index:idx_transactions_slot"`
	Note              string          `json:"note"`
}

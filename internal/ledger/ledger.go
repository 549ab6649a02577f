package ledger

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"kopilka/models"
)

// ErrBalanceNotFound возвращается, когда для счета еще нет строки остатка.
var ErrBalanceNotFound = errors.New("остаток по счету не найден")

// ValidationError описывает некорректные входные данные. Обработчики
// преобразуют ее в ответ 400, до хранилища такой запрос не доходит.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func validationErrorf(format string, args ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// Service инкапсулирует работу с журналом операций и остатками по счетам.
// Соединение с БД передается при создании, часы подменяются в тестах.
type Service struct {
	db  *gorm.DB
	now func() time.Time
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db, now: time.Now}
}

// RecordInput - кандидат на запись в журнал.
type RecordInput struct {
	Category          models.Category
	Amount            decimal.Decimal
	Account           models.Account
	DateOfTransaction time.Time
	Note              string
}

func (in RecordInput) validate() error {
	if in.Category == "" || in.Account == "" || in.DateOfTransaction.IsZero() {
		return validationErrorf("не заполнены обязательные поля")
	}
	if !in.Category.Valid() {
		return validationErrorf("неизвестная категория: %q", in.Category)
	}
	if !in.Account.Valid() {
		return validationErrorf("неизвестный счет: %q", in.Account)
	}
	if in.Amount.LessThanOrEqual(decimal.Zero) {
		return validationErrorf("сумма должна быть положительным числом")
	}
	return nil
}

// Record выполняет сверку: после вызова на тройку (счет, категория, день)
// остается ровно одна операция, а остаток счета отражает только ее.
// Старые операции этого дня сначала откатываются из остатка и удаляются,
// затем вставляется новая и применяется ее вклад. Вся последовательность
// выполняется в одной транзакции БД, чтобы сбой на любом шаге не оставил
// журнал и остатки рассогласованными.
func (s *Service) Record(input RecordInput) (*models.Transaction, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	start, end := dayRange(input.DateOfTransaction)
	now := s.now()

	created := models.Transaction{
		Category:          input.Category,
		Amount:            input.Amount,
		Account:           input.Account,
		DateOfTransaction: input.DateOfTransaction,
		Note:              input.Note,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		// Обычно здесь ноль или одна запись, но кратные дубликаты
		// тоже откатываются корректно.
		var existing []models.Transaction
		if err := tx.
			Where("account = ? AND category = ? AND date_of_transaction BETWEEN ? AND ?",
				input.Account, input.Category, start, end).
			Find(&existing).Error; err != nil {
			return fmt.Errorf("поиск операций за день: %w", err)
		}

		for _, old := range existing {
			if err := applyDelta(tx, old.Account, reversalDelta(old), now); err != nil {
				return err
			}
		}

		if len(existing) > 0 {
			ids := make([]uint, 0, len(existing))
			for _, old := range existing {
				ids = append(ids, old.ID)
			}
			if err := tx.Delete(&models.Transaction{}, ids).Error; err != nil {
				return fmt.Errorf("удаление старых операций: %w", err)
			}
		}

		if err := tx.Create(&created).Error; err != nil {
			return fmt.Errorf("создание операции: %w", err)
		}

		return applyDelta(tx, input.Account, applicationDelta(input.Category, input.Amount), now)
	})
	if err != nil {
		return nil, err
	}

	return &created, nil
}

// Balances возвращает остатки по всем счетам, сначала недавно обновленные.
// Пустой результат — не ошибка, решение об ответе 404 принимает обработчик.
func (s *Service) Balances() ([]models.AccountBalance, error) {
	var balances []models.AccountBalance
	if err := s.db.Order("last_update DESC").Find(&balances).Error; err != nil {
		return nil, fmt.Errorf("чтение остатков: %w", err)
	}
	return balances, nil
}

// SetBalance - административная правка остатка: записывает точное значение
// в обход журнала. Строка остатка должна уже существовать.
func (s *Service) SetBalance(account models.Account, value decimal.Decimal) (*models.AccountBalance, error) {
	if !account.Valid() {
		return nil, validationErrorf("неизвестный счет: %q", account)
	}

	var bal models.AccountBalance
	if err := s.db.Where("account = ?", account).First(&bal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBalanceNotFound
		}
		return nil, fmt.Errorf("поиск остатка: %w", err)
	}

	now := s.now()
	if err := s.db.Model(&bal).Updates(map[string]interface{}{
		"current_bal": value,
		"last_update": now,
	}).Error; err != nil {
		return nil, fmt.Errorf("обновление остатка: %w", err)
	}

	bal.CurrentBal = value
	bal.LastUpdate = now
	return &bal, nil
}

// TransactionsForMonth возвращает операции счета за календарный месяц.
// Год всегда текущий — так вел себя исходный запрос, поведение сохранено
// намеренно. Нулевой месяц означает текущий месяц.
func (s *Service) TransactionsForMonth(account models.Account, month int) ([]models.Transaction, error) {
	if !account.Valid() {
		return nil, validationErrorf("неизвестный счет: %q", account)
	}
	start, end, err := s.monthRange(month)
	if err != nil {
		return nil, err
	}

	var transactions []models.Transaction
	if err := s.db.
		Where("account = ? AND date_of_transaction >= ? AND date_of_transaction < ?", account, start, end).
		Order("date_of_transaction DESC").
		Find(&transactions).Error; err != nil {
		return nil, fmt.Errorf("чтение операций за месяц: %w", err)
	}
	return transactions, nil
}

// DayTotal - агрегат одного дня для календаря.
type DayTotal struct {
	Day     string          `json:"day"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Net     decimal.Decimal `json:"net"`
}

// DailyTotals считает суммы доходов и расходов по дням месяца.
func (s *Service) DailyTotals(account models.Account, month int) ([]DayTotal, error) {
	transactions, err := s.TransactionsForMonth(account, month)
	if err != nil {
		return nil, err
	}

	byDay := make(map[string]*DayTotal)
	order := make([]string, 0)
	for _, t := range transactions {
		day := t.DateOfTransaction.Format("2006-01-02")
		total, ok := byDay[day]
		if !ok {
			total = &DayTotal{Day: day}
			byDay[day] = total
			order = append(order, day)
		}
		if t.Category == models.CategoryIncome {
			total.Income = total.Income.Add(t.Amount)
		} else {
			total.Expense = total.Expense.Add(t.Amount)
		}
		total.Net = total.Income.Sub(total.Expense)
	}

	// Операции уже отсортированы по дате по убыванию, порядок дней наследуется.
	totals := make([]DayTotal, 0, len(order))
	for _, day := range order {
		totals = append(totals, *byDay[day])
	}
	return totals, nil
}

func (s *Service) monthRange(month int) (time.Time, time.Time, error) {
	now := s.now()
	if month == 0 {
		month = int(now.Month())
	}
	if month < 1 || month > 12 {
		return time.Time{}, time.Time{}, validationErrorf("месяц должен быть от 1 до 12")
	}
	start := time.Date(now.Year(), time.Month(month), 1, 0, 0, 0, 0, now.Location())
	return start, start.AddDate(0, 1, 0), nil
}

// dayRange возвращает границы календарного дня даты операции,
// от полуночи включительно до последнего наносекундного тика суток.
func dayRange(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start, start.Add(24*time.Hour - time.Nanosecond)
}

// reversalDelta - поправка, отменяющая вклад старой операции в остаток.
func reversalDelta(t models.Transaction) decimal.Decimal {
	if t.Category == models.CategoryIncome {
		return t.Amount.Neg()
	}
	return t.Amount
}

// applicationDelta - вклад новой операции в остаток.
func applicationDelta(category models.Category, amount decimal.Decimal) decimal.Decimal {
	if category == models.CategoryIncome {
		return amount
	}
	return amount.Neg()
}

// applyDelta атомарно прибавляет поправку к остатку счета, создавая строку
// при первом обращении. Инкремент выражен в SQL, поэтому отдельной гонки
// чтения-изменения-записи на строке остатка нет.
func applyDelta(tx *gorm.DB, account models.Account, delta decimal.Decimal, now time.Time) error {
	bal := models.AccountBalance{
		Account:    account,
		CurrentBal: delta,
		LastUpdate: now,
	}
	err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "account"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"current_bal": gorm.Expr("account_balances.current_bal + ?", delta),
			"last_update": now,
		}),
	}).Create(&bal).Error
	if err != nil {
		return fmt.Errorf("обновление остатка по счету %s: %w", account, err)
	}
	return nil
}

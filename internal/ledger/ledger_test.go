package ledger

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"kopilka/models"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("открытие тестовой БД: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("доступ к sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&models.Transaction{}, &models.AccountBalance{}); err != nil {
		t.Fatalf("миграция схемы: %v", err)
	}

	svc := NewService(db)
	svc.now = func() time.Time {
		return time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	}
	return svc
}

func mustDecimal(t *testing.T, raw string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(raw)
	if err != nil {
		t.Fatalf("разбор суммы %q: %v", raw, err)
	}
	return d
}

func record(t *testing.T, svc *Service, account models.Account, category models.Category, amount string, date time.Time) *models.Transaction {
	t.Helper()
	created, err := svc.Record(RecordInput{
		Category:          category,
		Amount:            mustDecimal(t, amount),
		Account:           account,
		DateOfTransaction: date,
	})
	if err != nil {
		t.Fatalf("запись операции: %v", err)
	}
	return created
}

func accountBalance(t *testing.T, svc *Service, account models.Account) decimal.Decimal {
	t.Helper()
	var bal models.AccountBalance
	if err := svc.db.Where("account = ?", account).First(&bal).Error; err != nil {
		t.Fatalf("чтение остатка %s: %v", account, err)
	}
	return bal.CurrentBal
}

func liveTransactions(t *testing.T, svc *Service) []models.Transaction {
	t.Helper()
	var transactions []models.Transaction
	if err := svc.db.Find(&transactions).Error; err != nil {
		t.Fatalf("чтение журнала: %v", err)
	}
	return transactions
}

func TestRecordResubmitReplacesSlot(t *testing.T) {
	svc := newTestService(t)
	day := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

	record(t, svc, models.AccountCash, models.CategoryExpense, "100", day)
	record(t, svc, models.AccountCash, models.CategoryExpense, "150", day.Add(3*time.Hour))

	transactions := liveTransactions(t, svc)
	if len(transactions) != 1 {
		t.Fatalf("ожидалась одна операция, получено %d", len(transactions))
	}
	if !transactions[0].Amount.Equal(mustDecimal(t, "150")) {
		t.Fatalf("ожидалась сумма 150, получено %s", transactions[0].Amount)
	}

	// Остаток отражает только замену, а не сумму старой и новой операций.
	if got := accountBalance(t, svc, models.AccountCash); !got.Equal(mustDecimal(t, "-150")) {
		t.Fatalf("ожидался остаток -150, получено %s", got)
	}
}

func TestRecordSameDayDifferentCategoriesCoexist(t *testing.T) {
	svc := newTestService(t)
	day := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

	record(t, svc, models.AccountSavings, models.CategoryIncome, "500", day)
	record(t, svc, models.AccountSavings, models.CategoryExpense, "200", day)

	transactions := liveTransactions(t, svc)
	if len(transactions) != 2 {
		t.Fatalf("категории с общим днем должны сосуществовать, получено %d операций", len(transactions))
	}
	if got := accountBalance(t, svc, models.AccountSavings); !got.Equal(mustDecimal(t, "300")) {
		t.Fatalf("ожидался остаток 300, получено %s", got)
	}
}

func TestRecordBalanceMatchesReplayedSum(t *testing.T) {
	svc := newTestService(t)

	calls := []struct {
		account  models.Account
		category models.Category
		amount   string
		day      time.Time
	}{
		{models.AccountCash, models.CategoryIncome, "1000", time.Date(2024, 2, 1, 8, 0, 0, 0, time.UTC)},
		{models.AccountCash, models.CategoryExpense, "12.5", time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)},
		{models.AccountCash, models.CategoryExpense, "0.25", time.Date(2024, 2, 2, 9, 0, 0, 0, time.UTC)},
		{models.AccountSavings, models.CategoryIncome, "250.75", time.Date(2024, 2, 2, 10, 0, 0, 0, time.UTC)},
		{models.AccountSavings, models.CategoryIncome, "300.5", time.Date(2024, 2, 3, 10, 0, 0, 0, time.UTC)},
		// Повторная запись того же дня и категории заменяет запись выше.
		{models.AccountSavings, models.CategoryIncome, "400.5", time.Date(2024, 2, 3, 11, 0, 0, 0, time.UTC)},
		{models.AccountExpense, models.CategoryExpense, "75", time.Date(2024, 2, 4, 10, 0, 0, 0, time.UTC)},
	}
	for _, call := range calls {
		record(t, svc, call.account, call.category, call.amount, call.day)
	}

	// Независимо суммируем живые операции и сверяем с остатками.
	expected := map[models.Account]decimal.Decimal{}
	for _, tr := range liveTransactions(t, svc) {
		delta := tr.Amount
		if tr.Category == models.CategoryExpense {
			delta = delta.Neg()
		}
		expected[tr.Account] = expected[tr.Account].Add(delta)
	}

	for account, want := range expected {
		if got := accountBalance(t, svc, account); !got.Equal(want) {
			t.Fatalf("остаток %s: ожидалось %s, получено %s", account, want, got)
		}
	}

	if got := accountBalance(t, svc, models.AccountSavings); !got.Equal(mustDecimal(t, "651.25")) {
		t.Fatalf("остаток savings: ожидалось 651.25, получено %s", got)
	}
}

func TestRecordToleratesDuplicateRowsInSlot(t *testing.T) {
	svc := newTestService(t)
	day := time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC)

	// Два дубликата в одном слоте, вставленные в обход сверки.
	for _, amount := range []string{"40", "60"} {
		tr := models.Transaction{
			Category:          models.CategoryExpense,
			Amount:            mustDecimal(t, amount),
			Account:           models.AccountCash,
			DateOfTransaction: day.Add(2 * time.Hour),
		}
		if err := svc.db.Create(&tr).Error; err != nil {
			t.Fatalf("вставка дубликата: %v", err)
		}
	}
	seedBalance := models.AccountBalance{
		Account:    models.AccountCash,
		CurrentBal: mustDecimal(t, "-100"),
		LastUpdate: day,
	}
	if err := svc.db.Create(&seedBalance).Error; err != nil {
		t.Fatalf("вставка остатка: %v", err)
	}

	record(t, svc, models.AccountCash, models.CategoryExpense, "30", day)

	transactions := liveTransactions(t, svc)
	if len(transactions) != 1 {
		t.Fatalf("дубликаты должны быть вытеснены, получено %d операций", len(transactions))
	}
	if got := accountBalance(t, svc, models.AccountCash); !got.Equal(mustDecimal(t, "-30")) {
		t.Fatalf("оба дубликата должны быть откачены: ожидалось -30, получено %s", got)
	}
}

func TestRecordValidation(t *testing.T) {
	svc := newTestService(t)
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name  string
		input RecordInput
	}{
		{"missing category", RecordInput{Amount: mustDecimal(t, "10"), Account: models.AccountCash, DateOfTransaction: day}},
		{"missing account", RecordInput{Category: models.CategoryIncome, Amount: mustDecimal(t, "10"), DateOfTransaction: day}},
		{"missing date", RecordInput{Category: models.CategoryIncome, Amount: mustDecimal(t, "10"), Account: models.AccountCash}},
		{"zero amount", RecordInput{Category: models.CategoryIncome, Account: models.AccountCash, DateOfTransaction: day}},
		{"negative amount", RecordInput{Category: models.CategoryIncome, Amount: mustDecimal(t, "-5"), Account: models.AccountCash, DateOfTransaction: day}},
		{"unknown account", RecordInput{Category: models.CategoryIncome, Amount: mustDecimal(t, "10"), Account: "vault", DateOfTransaction: day}},
		{"unknown category", RecordInput{Category: "transfer", Amount: mustDecimal(t, "10"), Account: models.AccountCash, DateOfTransaction: day}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Record(tc.input)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("ожидалась ValidationError, получено %v", err)
			}
		})
	}

	// Отклоненные запросы не должны трогать состояние.
	if got := liveTransactions(t, svc); len(got) != 0 {
		t.Fatalf("журнал должен быть пуст, получено %d операций", len(got))
	}
	var balances []models.AccountBalance
	if err := svc.db.Find(&balances).Error; err != nil {
		t.Fatalf("чтение остатков: %v", err)
	}
	if len(balances) != 0 {
		t.Fatalf("остатки должны быть пусты, получено %d строк", len(balances))
	}
}

func TestBalancesOrderedByRecency(t *testing.T) {
	svc := newTestService(t)

	base := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	svc.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	record(t, svc, models.AccountSavings, models.CategoryIncome, "100", base)
	record(t, svc, models.AccountCash, models.CategoryIncome, "50", base)
	record(t, svc, models.AccountExpense, models.CategoryExpense, "20", base)

	balances, err := svc.Balances()
	if err != nil {
		t.Fatalf("чтение остатков: %v", err)
	}
	if len(balances) != 3 {
		t.Fatalf("ожидалось 3 остатка, получено %d", len(balances))
	}
	if balances[0].Account != models.AccountExpense || balances[2].Account != models.AccountSavings {
		t.Fatalf("неверный порядок по давности обновления: %v, %v, %v",
			balances[0].Account, balances[1].Account, balances[2].Account)
	}
}

func TestSetBalanceUnknownAccount(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.SetBalance(models.AccountSavings, mustDecimal(t, "42"))
	if !errors.Is(err, ErrBalanceNotFound) {
		t.Fatalf("ожидалась ErrBalanceNotFound, получено %v", err)
	}
}

func TestSetBalanceOverridesValue(t *testing.T) {
	svc := newTestService(t)
	day := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	record(t, svc, models.AccountCash, models.CategoryIncome, "100", day)

	updated, err := svc.SetBalance(models.AccountCash, mustDecimal(t, "-7.5"))
	if err != nil {
		t.Fatalf("правка остатка: %v", err)
	}
	if !updated.CurrentBal.Equal(mustDecimal(t, "-7.5")) {
		t.Fatalf("ожидалось -7.5, получено %s", updated.CurrentBal)
	}
	if got := accountBalance(t, svc, models.AccountCash); !got.Equal(mustDecimal(t, "-7.5")) {
		t.Fatalf("значение в БД: ожидалось -7.5, получено %s", got)
	}
}

func TestTransactionsForMonthFilters(t *testing.T) {
	svc := newTestService(t)

	// Часы сервиса зафиксированы на июне 2024: год запроса всегда текущий.
	record(t, svc, models.AccountCash, models.CategoryExpense, "10", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC))
	record(t, svc, models.AccountCash, models.CategoryExpense, "20", time.Date(2024, 3, 28, 0, 0, 0, 0, time.UTC))
	record(t, svc, models.AccountCash, models.CategoryExpense, "30", time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC))
	record(t, svc, models.AccountSavings, models.CategoryExpense, "40", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC))

	march, err := svc.TransactionsForMonth(models.AccountCash, 3)
	if err != nil {
		t.Fatalf("чтение марта: %v", err)
	}
	if len(march) != 2 {
		t.Fatalf("ожидалось 2 операции за март, получено %d", len(march))
	}
	// Сортировка по дате по убыванию.
	if !march[0].DateOfTransaction.After(march[1].DateOfTransaction) {
		t.Fatalf("ожидался порядок от новых к старым")
	}

	if _, err := svc.TransactionsForMonth(models.AccountCash, 13); err == nil {
		t.Fatal("месяц 13 должен быть отклонен")
	}
	if _, err := svc.TransactionsForMonth("vault", 3); err == nil {
		t.Fatal("неизвестный счет должен быть отклонен")
	}

	// Нулевой месяц - текущий (июнь), операций там нет.
	june, err := svc.TransactionsForMonth(models.AccountCash, 0)
	if err != nil {
		t.Fatalf("чтение текущего месяца: %v", err)
	}
	if len(june) != 0 {
		t.Fatalf("ожидался пустой июнь, получено %d операций", len(june))
	}
}

func TestDailyTotals(t *testing.T) {
	svc := newTestService(t)

	record(t, svc, models.AccountSavings, models.CategoryIncome, "500", time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC))
	record(t, svc, models.AccountSavings, models.CategoryExpense, "200", time.Date(2024, 1, 1, 18, 0, 0, 0, time.UTC))
	record(t, svc, models.AccountSavings, models.CategoryExpense, "25.5", time.Date(2024, 1, 7, 12, 0, 0, 0, time.UTC))

	totals, err := svc.DailyTotals(models.AccountSavings, 1)
	if err != nil {
		t.Fatalf("суммы по дням: %v", err)
	}
	if len(totals) != 2 {
		t.Fatalf("ожидалось 2 дня, получено %d", len(totals))
	}

	byDay := map[string]DayTotal{}
	for _, total := range totals {
		byDay[total.Day] = total
	}
	first := byDay["2024-01-01"]
	if !first.Income.Equal(mustDecimal(t, "500")) || !first.Expense.Equal(mustDecimal(t, "200")) || !first.Net.Equal(mustDecimal(t, "300")) {
		t.Fatalf("1 января: доход %s, расход %s, итог %s", first.Income, first.Expense, first.Net)
	}
	seventh := byDay["2024-01-07"]
	if !seventh.Net.Equal(mustDecimal(t, "-25.5")) {
		t.Fatalf("7 января: ожидался итог -25.5, получено %s", seventh.Net)
	}
}

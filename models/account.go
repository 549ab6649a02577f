package models

// Account - один из трёх фиксированных счетов пользователя.
type Account string

const (
	AccountSavings Account = "savings"
	AccountExpense Account = "expense"
	AccountCash    Account = "cash"
)

// Category - полярность операции: доход или расход.
type Category string

const (
	CategoryExpense Category = "expense"
	CategoryIncome  Category = "income"
)

// Valid сообщает, входит ли значение в перечисление счетов.
// Проверка выполняется на границе приложения, до обращения к хранилищу.
func (a Account) Valid() bool {
	switch a {
	case AccountSavings, AccountExpense, AccountCash:
		return true
	}
	return false
}

// Valid сообщает, входит ли значение в перечисление категорий.
func (c Category) Valid() bool {
	switch c {
	case CategoryExpense, CategoryIncome:
		return true
	}
	return false
}

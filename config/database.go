package config

import (
	"log/slog"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// ConnectDB открывает соединение с Postgres по переданному DSN.
// Соединение возвращается вызывающей стороне: жизненным циклом владеет
// точка входа, а не скрытый глобальный синглтон.
func ConnectDB(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	slog.Info("Успешное подключение к базе данных!")
	return db, nil
}

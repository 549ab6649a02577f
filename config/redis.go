package config

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// ConnectRedis подключается к Redis по адресу из конфигурации.
// Кэширование опционально: при пустом адресе или недоступном сервере
// возвращается nil, и приложение работает без кэша.
func ConnectRedis(addr string) *redis.Client {
	if addr == "" {
		slog.Warn("Переменная окружения REDIS_ADDR не установлена, кэширование будет отключено.")
		return nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	// Проверяем соединение
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		slog.Error("Не удалось подключиться к Redis", "error", err)
		return nil
	}

	slog.Info("Успешное подключение к Redis!")
	return rdb
}

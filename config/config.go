package config

import (
	"log/slog"
	"os"
)

// Config хранит все настройки приложения, прочитанные из переменных окружения.
// Читается один раз при старте; дальше все зависимости передаются явно.
type Config struct {
	DBUrl       string
	RedisAddr   string
	ListenAddr  string
	AppPassword string
	JwtKey      []byte
}

// Load собирает конфигурацию из окружения. Отсутствие обязательных
// переменных — критическая ошибка, запускаться без них бессмысленно.
func Load() *Config {
	cfg := &Config{
		DBUrl:       os.Getenv("DB_URL"),
		RedisAddr:   os.Getenv("REDIS_ADDR"),
		ListenAddr:  os.Getenv("LISTEN_ADDR"),
		AppPassword: os.Getenv("APP_PASSWORD"),
		JwtKey:      []byte(os.Getenv("JWT_SECRET")),
	}

	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}

	if cfg.DBUrl == "" {
		slog.Error("Критическая ошибка: переменная окружения DB_URL не установлена.")
		os.Exit(1)
	}
	if cfg.AppPassword == "" {
		slog.Error("Критическая ошибка: переменная окружения APP_PASSWORD не установлена.")
		os.Exit(1)
	}
	if len(cfg.JwtKey) == 0 {
		slog.Error("Критическая ошибка: переменная окружения JWT_SECRET не установлена.")
		os.Exit(1)
	}

	return cfg
}

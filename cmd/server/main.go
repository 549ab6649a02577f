package main

import (
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"

	"kopilka/config"
	"kopilka/internal/handlers"
	"kopilka/internal/ledger"
	"kopilka/internal/routes"
	"kopilka/models"
)

func main() {
	cfg := config.Load()

	db, err := config.ConnectDB(cfg.DBUrl)
	if err != nil {
		slog.Error("Ошибка подключения к БД", "error", err)
		os.Exit(1)
	}

	if err := db.AutoMigrate(&models.Transaction{}, &models.AccountBalance{}); err != nil {
		slog.Error("Ошибка миграции схемы", "error", err)
		os.Exit(1)
	}

	rdb := config.ConnectRedis(cfg.RedisAddr)

	api := handlers.NewAPI(ledger.NewService(db), rdb, cfg.AppPassword, cfg.JwtKey)

	r := gin.Default()
	routes.SetupRoutes(r, api, cfg.JwtKey)

	slog.Info("Сервер запущен", "addr", cfg.ListenAddr)
	if err := r.Run(cfg.ListenAddr); err != nil {
		slog.Error("Сервер остановлен с ошибкой", "error", err)
		os.Exit(1)
	}
}

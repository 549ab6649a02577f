package routes

import (
	"github.com/gin-gonic/gin"

	"kopilka/internal/handlers"
	"kopilka/internal/middleware"
)

// SetupRoutes инициализирует все маршруты приложения.
func SetupRoutes(r *gin.Engine, api *handlers.API, jwtKey []byte) {
	r.Use(middleware.RequestLogger())

	// --- Публичные маршруты ---
	// Вход и выход не требуют аутентификации.
	RegisterAuthRoutes(r, api)

	// --- Защищенная группа маршрутов ---
	// Все маршруты в этой группе требуют валидную cookie сессии.
	authRequired := r.Group("/")
	authRequired.Use(middleware.AuthMiddleware(jwtKey))
	{
		RegisterAPIRoutes(authRequired, api)
	}
}

package routes

import (
	"github.com/gin-gonic/gin"

	"kopilka/internal/handlers"
)

// RegisterAuthRoutes регистрирует маршруты, не требующие аутентификации.
func RegisterAuthRoutes(r *gin.Engine, api *handlers.API) {
	r.POST("/login", api.LoginHandler)
	r.POST("/logout", api.LogoutHandler)
}

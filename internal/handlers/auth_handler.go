package handlers

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const sessionTTL = 30 * 24 * time.Hour

// LoginRequest определяет структуру для входа.
type LoginRequest struct {
	Password string `json:"password" binding:"required"`
}

// LoginHandler сравнивает пароль с ожидаемым значением и при совпадении
// ставит долгоживущую cookie с JWT. Это шлагбаум для одного пользователя,
// а не полноценная аутентификация.
func (a *API) LoginHandler(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendResponse(c, http.StatusBadRequest, "Password is required", nil)
		return
	}

	if subtle.ConstantTimeCompare([]byte(req.Password), []byte(a.Password)) != 1 {
		sendResponse(c, http.StatusUnauthorized, "Invalid password", nil)
		return
	}

	claims := jwt.MapClaims{
		"sub": "owner",
		"exp": time.Now().Add(sessionTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.JwtKey)
	if err != nil {
		slog.Error("Не удалось подписать токен", "error", err)
		sendResponse(c, http.StatusInternalServerError, "Internal Server Error", nil)
		return
	}

	c.SetCookie("auth_token", signed, int(sessionTTL.Seconds()), "/", "", false, true)
	sendResponse(c, http.StatusOK, "Login successful", nil)
}

// LogoutHandler сбрасывает cookie сессии.
func (a *API) LogoutHandler(c *gin.Context) {
	c.SetCookie("auth_token", "", -1, "/", "", false, true)
	sendResponse(c, http.StatusOK, "Logged out", nil)
}

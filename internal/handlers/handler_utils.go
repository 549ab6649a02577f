package handlers

import "github.com/gin-gonic/gin"

// sendResponse пишет единый конверт ответа API: {success, message, data}.
// Успешность определяется кодом ответа.
func sendResponse(c *gin.Context, status int, message string, data interface{}) {
	body := gin.H{
		"success": status < 400,
		"message": message,
	}
	if data != nil {
		body["data"] = data
	}
	c.JSON(status, body)
}

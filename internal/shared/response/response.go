package response

import (
	"github.com/gin-gonic/gin"
)

type MessageBody struct {
	Message string `json:"message"`
}

type ErrorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func Success(c *gin.Context, status int, data any) {
	c.JSON(status, data)
}

func Message(c *gin.Context, status int, message string) {
	c.JSON(status, MessageBody{Message: message})
}

// Error writes {"message": ..., "error": ...}. detail is the raw error text.
func Error(c *gin.Context, status int, message string, detail string) {
	c.JSON(status, ErrorBody{
		Message: message,
		Error:   detail,
	})
}

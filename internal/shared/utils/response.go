package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lucerna/internal/shared/errors"
)

// ErrorBody is the wire shape of every error response.
type ErrorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// SuccessResponse sends data with a custom status code.
func SuccessResponse(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, data)
}

// NoContentResponse sends a no content response.
func NoContentResponse(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// ErrorResponse sends an error response with custom status code and message.
func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, ErrorBody{
		Code:    statusCode,
		Message: message,
	})
}

// ErrorResponseWithError translates an error into an error response. AppError
// values keep their code and message; anything else becomes a generic 500 so
// internal details never leak to callers.
func ErrorResponseWithError(c *gin.Context, err error) {
	if appErr := errors.GetAppError(err); appErr != nil {
		ErrorResponse(c, appErr.Code, appErr.Message)
		return
	}
	ErrorResponse(c, http.StatusInternalServerError, "Internal server error")
}

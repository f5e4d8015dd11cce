package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorBody mirrors the GraphQL error envelope for plain HTTP endpoints.
type ErrorBody struct {
	Message   string `json:"message"`
	Data      any    `json:"data,omitempty"`
	Status    int    `json:"status"`
	RequestID string `json:"requestId,omitempty"`
}

func Error(ctx *gin.Context, status int, message string, data any) ErrorBody {
	if status == 0 {
		status = http.StatusBadRequest
	}
	return ErrorBody{
		Status:    status,
		Message:   message,
		Data:      data,
		RequestID: ctx.GetString("request_id"),
	}
}

// Abort writes an ErrorBody and stops the handler chain.
func Abort(ctx *gin.Context, status int, message string, data any) {
	body := Error(ctx, status, message, data)
	ctx.AbortWithStatusJSON(body.Status, body)
}

package common

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// PageResponse wraps a page of root threads.
type PageResponse struct {
	Data       interface{} `json:"data"`
	TotalCount int64       `json:"totalCount"`
}

// IDResponse returns the id produced by a mutation.
type IDResponse struct {
	ID uint64 `json:"id"`
}

// HistoryResponse wraps a chain's visible versions, ascending.
type HistoryResponse struct {
	History interface{} `json:"history"`
}

// ErrorInfo error details
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse returns an error JSON response
func ErrorResponse(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"error": &ErrorInfo{
			Code:    getErrorCode(status),
			Message: message,
		},
	})
}

// getErrorCode generates error code from HTTP status
func getErrorCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "BAD_REQUEST"
	case http.StatusUnauthorized:
		return "UNAUTHORIZED"
	case http.StatusForbidden:
		return "FORBIDDEN"
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusConflict:
		return "CONFLICT"
	case http.StatusInternalServerError:
		return "INTERNAL_SERVER_ERROR"
	default:
		return "ERROR"
	}
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arogyamitra/healthchat/internal/http/middlewares"
)

type errorBody struct {
	Code      string      `json:"code"`
	Message   string      `json:"message"`
	RequestID string      `json:"requestId,omitempty"`
	Details   interface{} `json:"details,omitempty"`
}

func respondError(ctx *gin.Context, status int, code, message string, details interface{}) {
	ctx.AbortWithStatusJSON(status, gin.H{
		"error": errorBody{
			Code:      code,
			Message:   message,
			RequestID: requestIDFrom(ctx),
			Details:   details,
		},
	})
}

func requestIDFrom(ctx *gin.Context) string {
	v, ok := ctx.Get(middlewares.CtxRequestID)

	if !ok {
		return ""
	}

	id, _ := v.(string)
	return id
}

func RespondBadRequest(ctx *gin.Context, message string, details interface{}) {
	respondError(ctx, http.StatusBadRequest, "bad_request", message, details)
}

func RespondUnAuthorized(ctx *gin.Context, message string) {
	respondError(ctx, http.StatusUnauthorized, "unauthorized", message, nil)
}

func RespondNotFound(ctx *gin.Context, message string) {
	respondError(ctx, http.StatusNotFound, "not_found", message, nil)
}

func RespondConflict(ctx *gin.Context, code, message string) {
	respondError(ctx, http.StatusConflict, code, message, nil)
}

func RespondUnavailable(ctx *gin.Context, message string) {
	respondError(ctx, http.StatusServiceUnavailable, "unavailable", message, nil)
}

func RespondInternal(ctx *gin.Context) {
	respondError(ctx, http.StatusInternalServerError, "internal_error", "Something went wrong", nil)
}

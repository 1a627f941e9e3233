package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/tessellate-ai/ragpipe/internal/pkg/errs"
	"github.com/tessellate-ai/ragpipe/internal/pkg/response"
)

// handleError maps call-level failures onto the wire contract. Not-found
// outcomes are handled per-endpoint because their messages are fixed.
func handleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	requestID, _ := c.Get("request_id")
	logutil.GetLogger(c.Request.Context()).Error("request failed",
		zap.Any("request_id", requestID),
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)
	switch {
	case errs.IsInvalid(err):
		response.Message(c, http.StatusBadRequest, err.Error())
	default:
		response.Message(c, http.StatusInternalServerError, "An error occurred")
	}
}

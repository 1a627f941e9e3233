package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tessellate-ai/ragpipe/internal/pkg/errs"
	"github.com/tessellate-ai/ragpipe/internal/pkg/response"
	"github.com/tessellate-ai/ragpipe/internal/service"
)

type QueryHandler struct {
	query *service.QueryService
}

func NewQueryHandler(query *service.QueryService) *QueryHandler {
	return &QueryHandler{query: query}
}

type queryRequest struct {
	CollectionName string `json:"collection_name"`
	Question       string `json:"question"`
}

func (h *QueryHandler) Query(c *gin.Context) {
	var req queryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Message(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.CollectionName == "" || req.Question == "" {
		response.Message(c, http.StatusBadRequest, "collection_name and question are required")
		return
	}
	answer, err := h.query.Answer(c.Request.Context(), req.CollectionName, req.Question)
	if err != nil {
		if errs.IsNotFound(err) {
			response.Message(c, http.StatusNotFound, "No relevant context found for the question.")
			return
		}
		handleError(c, err)
		return
	}
	response.Message(c, http.StatusOK, answer)
}

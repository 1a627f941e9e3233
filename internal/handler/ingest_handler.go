package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tessellate-ai/ragpipe/internal/pkg/errs"
	"github.com/tessellate-ai/ragpipe/internal/pkg/response"
	"github.com/tessellate-ai/ragpipe/internal/service"
)

type IngestHandler struct {
	ingest *service.IngestService
}

func NewIngestHandler(ingest *service.IngestService) *IngestHandler {
	return &IngestHandler{ingest: ingest}
}

type ingestRequest struct {
	BucketName string `json:"bucket_name"`
	UserID     string `json:"user_id"`
	ContextID  string `json:"context_id"`
	Name       string `json:"name"`
}

func (h *IngestHandler) Ingest(c *gin.Context) {
	var req ingestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Message(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.BucketName == "" || req.UserID == "" || req.ContextID == "" || req.Name == "" {
		response.Message(c, http.StatusBadRequest, "bucket_name, user_id, context_id and name are required")
		return
	}
	_, err := h.ingest.Ingest(c.Request.Context(), req.BucketName, req.UserID, req.ContextID, req.Name)
	if err != nil {
		if errs.IsNotFound(err) {
			response.Message(c, http.StatusNotFound, "No files found for the specified prefix")
			return
		}
		handleError(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Embeddings processed and stored successfully")
}

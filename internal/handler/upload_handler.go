package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tessellate-ai/ragpipe/internal/pkg/errs"
	"github.com/tessellate-ai/ragpipe/internal/pkg/response"
	"github.com/tessellate-ai/ragpipe/internal/service"
)

type UploadHandler struct {
	upload *service.UploadService
}

func NewUploadHandler(upload *service.UploadService) *UploadHandler {
	return &UploadHandler{upload: upload}
}

type uploadRequest struct {
	BucketName string               `json:"bucket_name"`
	UserID     string               `json:"user_id"`
	ContextID  string               `json:"context_id"`
	Name       string               `json:"name"`
	Action     string               `json:"action"`
	Files      []service.UploadFile `json:"files"`
}

// Handle serves both uploads and whole-context deletion; action="delete"
// removes everything under {user}/{context}/ and ignores name.
func (h *UploadHandler) Handle(c *gin.Context) {
	var req uploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Message(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.BucketName == "" || req.UserID == "" || req.ContextID == "" {
		response.Message(c, http.StatusBadRequest, "bucket_name, user_id and context_id are required")
		return
	}

	if req.Action == "delete" {
		_, err := h.upload.DeleteContext(c.Request.Context(), req.BucketName, req.UserID, req.ContextID)
		if err != nil {
			if errs.IsNotFound(err) {
				response.Message(c, http.StatusNotFound, "No files found in the specified context")
				return
			}
			handleError(c, err)
			return
		}
		response.Message(c, http.StatusOK, "All files in the context deleted successfully")
		return
	}

	if len(req.Files) == 0 {
		response.Message(c, http.StatusBadRequest, "No files found to upload.")
		return
	}
	name := req.Name
	if name == "" {
		name = "default-" + uuid.NewString()
	}
	uploaded, err := h.upload.Upload(c.Request.Context(), req.BucketName, req.UserID, req.ContextID, name, req.Files)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Payload(c, http.StatusOK, "Files uploaded successfully", gin.H{
		"name":  name,
		"files": uploaded,
	})
}

package handler

import "github.com/gin-gonic/gin"

type RouterDeps struct {
	Upload *UploadHandler
	Ingest *IngestHandler
	Query  *QueryHandler
}

func RegisterRoutes(api *gin.RouterGroup, deps RouterDeps) {
	api.POST("/files", deps.Upload.Handle)
	api.POST("/ingest", deps.Ingest.Ingest)
	api.POST("/query", deps.Query.Query)
}

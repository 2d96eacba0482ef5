package storagefile

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, fileService StorageFileServicePort, logService LogServicePort) {
	fileController := &StorageFileController{FileService: fileService, LogService: logService}

	group := r.Group("/api/storagefile")
	{
		group.GET("", fileController.GetAll)
		group.POST("/upload", fileController.Upload)
		group.GET("/by-status", fileController.ByStatus)
		group.GET("/:id", fileController.GetByID)
		group.PUT("/:id", fileController.Update)
		group.DELETE("/:id", fileController.Delete)
		group.POST("/:id/verify", fileController.Verify)
		group.POST("/:id/calculate", fileController.Calculate)
	}
}

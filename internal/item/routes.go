package item

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, itemService ItemServicePort, logService LogServicePort) {
	itemController := &ItemController{ItemService: itemService, LogService: logService}

	group := r.Group("/api/item")
	{
		group.GET("", itemController.GetAll)
		group.POST("", itemController.Create)
		group.GET("/statistics", itemController.GetStatistics)
		group.GET("/by-category", itemController.GetByCategory)
		group.GET("/export", itemController.Export)
		group.POST("/batch", itemController.Batch)
		group.POST("/import", itemController.ImportJSON)
		group.GET("/:id", itemController.GetByID)
		group.PUT("/:id", itemController.Update)
		group.DELETE("/:id", itemController.Delete)
	}
}

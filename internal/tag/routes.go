package tag

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, tagService TagServicePort) {
	tagController := &TagController{TagService: tagService}

	group := r.Group("/api/tag")
	{
		group.GET("", tagController.GetAll)
		group.POST("", tagController.Create)
		group.GET("/popular", tagController.Popular)
		group.GET("/by-category", tagController.ByCategory)
		group.POST("/migrate", tagController.Migrate)
		group.GET("/:slug", tagController.GetBySlug)
		group.PUT("/:slug", tagController.Update)
		group.DELETE("/:slug", tagController.Delete)
		group.GET("/:slug/items", tagController.GetItems)
	}
}

package category

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, categoryService CategoryServicePort) {
	categoryController := &CategoryController{Service: categoryService}

	group := r.Group("/api/category")
	{
		group.GET("", categoryController.GetAll)
		group.POST("", categoryController.Create)
		group.GET("/export", categoryController.Export)
		group.GET("/:id", categoryController.GetByID)
		group.PUT("/:id", categoryController.Update)
		group.DELETE("/:id", categoryController.Delete)
		group.GET("/:id/items", categoryController.GetItems)
		group.GET("/:id/statistics", categoryController.GetStatistics)
		group.GET("/:id/descendants", categoryController.GetDescendants)
	}
}

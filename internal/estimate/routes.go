package estimate

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, estimateService EstimateServicePort) {
	estimateController := &EstimateController{EstimateService: estimateService}

	group := r.Group("/api/estimate")
	{
		group.GET("", estimateController.GetAll)
		group.POST("", estimateController.Create)
		group.GET("/summary", estimateController.GetSummary)
		group.GET("/comparison", estimateController.GetComparison)
		group.POST("/bulk-recalculate", estimateController.BulkRecalculate)
		group.GET("/:id", estimateController.GetByID)
		group.PUT("/:id", estimateController.Update)
		group.DELETE("/:id", estimateController.Delete)
		group.POST("/:id/recalculate", estimateController.Recalculate)
	}
}

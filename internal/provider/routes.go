package provider

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, providerService ProviderServicePort) {
	providerController := &ProviderController{ProviderService: providerService}

	group := r.Group("/api/provider")
	{
		group.GET("", providerController.GetAll)
		group.POST("", providerController.Create)
		group.GET("/compare", providerController.Compare)
		group.POST("/calculate-estimate", providerController.CalculateEstimate)
		group.GET("/:id", providerController.GetByID)
		group.PUT("/:id", providerController.Update)
		group.DELETE("/:id", providerController.Delete)
		group.GET("/:id/estimates", providerController.GetEstimates)
	}
}

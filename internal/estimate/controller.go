package estimate

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type EstimateController struct {
	EstimateService EstimateServicePort
}

func parseID(c *gin.Context) (uint, bool) {
	idStr := c.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "valid estimate id is required"})
		return 0, false
	}
	return uint(id), true
}

func (ec *EstimateController) GetAll(c *gin.Context) {
	var input EstimateListInput
	if err := c.ShouldBindQuery(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters"})
		return
	}

	estimates, err := ec.EstimateService.GetAll(input)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Estimates fetched successfully",
		"estimates": estimates,
	})
}

func (ec *EstimateController) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	view, err := ec.EstimateService.GetByID(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"estimate": view})
}

func (ec *EstimateController) Create(c *gin.Context) {
	var input EstimateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "data_item and provider are required"})
		return
	}

	ce, err := ec.EstimateService.Create(input)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Estimate created successfully",
		"estimate": ce,
	})
}

func (ec *EstimateController) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var input EstimateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "data_item and provider are required"})
		return
	}

	ce, err := ec.EstimateService.Update(id, input)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Estimate updated successfully",
		"estimate": ce,
	})
}

func (ec *EstimateController) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := ec.EstimateService.Delete(id); err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Estimate deleted successfully"})
}

func (ec *EstimateController) Recalculate(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	view, err := ec.EstimateService.Recalculate(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, view)
}

func (ec *EstimateController) BulkRecalculate(c *gin.Context) {
	result, err := ec.EstimateService.BulkRecalculate()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (ec *EstimateController) GetSummary(c *gin.Context) {
	summary, err := ec.EstimateService.GetSummary()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (ec *EstimateController) GetComparison(c *gin.Context) {
	idStr := c.Query("data_item")
	if idStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "data_item parameter is required"})
		return
	}
	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "data_item parameter is required"})
		return
	}

	comparison, err := ec.EstimateService.GetComparison(uint(id))
	if err != nil {
		if errors.Is(err, ErrNoEstimates) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, comparison)
}

package item

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type ItemController struct {
	ItemService ItemServicePort
	LogService  LogServicePort
}

func parseID(c *gin.Context) (uint, bool) {
	idStr := c.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "valid item id is required"})
		return 0, false
	}
	return uint(id), true
}

func (ic *ItemController) GetAll(c *gin.Context) {
	var input ItemListInput
	if err := c.ShouldBindQuery(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters"})
		return
	}

	items, err := ic.ItemService.GetAll(input)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Items fetched successfully",
		"items":   items,
	})
}

func (ic *ItemController) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	item, err := ic.ItemService.GetByID(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"item": item})
}

func (ic *ItemController) Create(c *gin.Context) {
	var input ItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and category are required"})
		return
	}

	item, err := ic.ItemService.Create(input)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Item created successfully",
		"item":    item,
	})
}

func (ic *ItemController) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var input ItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and category are required"})
		return
	}

	item, err := ic.ItemService.Update(id, input)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item updated successfully",
		"item":    item,
	})
}

func (ic *ItemController) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := ic.ItemService.Delete(id); err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Item deleted successfully"})
}

func (ic *ItemController) GetStatistics(c *gin.Context) {
	stats, err := ic.ItemService.GetStatistics()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (ic *ItemController) GetByCategory(c *gin.Context) {
	rows, err := ic.ItemService.GetCategoryBreakdown()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": rows})
}

func (ic *ItemController) Batch(c *gin.Context) {
	var input BatchInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "operation is required"})
		return
	}

	result, err := ic.ItemService.Batch(input)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := ic.LogService.Log("INFO", "item", "BATCH",
		fmt.Sprintf("Batch %s affected %d item(s)", result.Operation, result.Affected),
		nil, nil, result); err != nil {
		fmt.Printf("Failed to insert log: %v\n", err)
	}

	c.JSON(http.StatusOK, result)
}

func (ic *ItemController) ImportJSON(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	result, err := ic.ItemService.ImportJSON(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := ic.LogService.Log("INFO", "item", "IMPORT_JSON",
		fmt.Sprintf("Imported %d item(s) from %s", result.ImportedCount, file.Filename),
		nil, nil, result); err != nil {
		fmt.Printf("Failed to insert log: %v\n", err)
	}

	status := http.StatusOK
	if !result.Success {
		status = http.StatusBadRequest
	}

	c.JSON(status, gin.H{
		"imported_count": result.ImportedCount,
		"errors":         result.Errors,
		"error_summary":  result.ErrorSummary(),
		"success":        result.Success,
	})
}

func (ic *ItemController) Export(c *gin.Context) {
	var input ItemListInput
	if err := c.ShouldBindQuery(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters"})
		return
	}

	format := c.DefaultQuery("format", "json")

	contentType, filename, out, err := ic.ItemService.Export(input, format)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := ic.LogService.Log("INFO", "item", "EXPORT",
		fmt.Sprintf("Exported items as %s", format), nil, nil, nil); err != nil {
		fmt.Printf("Failed to insert log: %v\n", err)
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, out)
}

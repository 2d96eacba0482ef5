package storagefile

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type StorageFileController struct {
	FileService StorageFileServicePort
	LogService  LogServicePort
}

func parseID(c *gin.Context) (uint, bool) {
	idStr := c.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "valid storage file id is required"})
		return 0, false
	}
	return uint(id), true
}

func (sc *StorageFileController) GetAll(c *gin.Context) {
	var input FileListInput
	if err := c.ShouldBindQuery(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters"})
		return
	}

	files, err := sc.FileService.GetAll(input)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Storage files fetched successfully",
		"files":   files,
	})
}

func (sc *StorageFileController) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	file, err := sc.FileService.GetByID(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"file": file})
}

func (sc *StorageFileController) Upload(c *gin.Context) {
	var input UploadInput
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "data_item is required"})
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	sf, err := sc.FileService.Upload(file, input)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := sc.LogService.Log("INFO", "storagefile", "UPLOAD",
		fmt.Sprintf("Uploaded %s (%s)", sf.OriginalFilename, sf.FileSizeDisplay()),
		&sf.DataItemID, nil, gin.H{"storage_file_id": sf.ID, "status": sf.Status}); err != nil {
		fmt.Printf("Failed to insert log: %v\n", err)
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "File uploaded successfully",
		"file":    sf,
	})
}

func (sc *StorageFileController) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var input FileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	file, err := sc.FileService.Update(id, input)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Storage file updated successfully",
		"file":    file,
	})
}

func (sc *StorageFileController) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := sc.FileService.Delete(id); err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Storage file deleted successfully"})
}

func (sc *StorageFileController) Calculate(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	file, err := sc.FileService.Calculate(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"md5":    file.ChecksumMD5,
		"sha256": file.ChecksumSHA256,
	})
}

func (sc *StorageFileController) Verify(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	// Body is optional; an absent checksum_type defaults to sha256.
	var input VerifyInput
	_ = c.ShouldBindJSON(&input)

	result, err := sc.FileService.Verify(id, input.ChecksumType)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	level := "INFO"
	if !result.Verified {
		level = "WARNING"
	}
	if err := sc.LogService.Log(level, "storagefile", "VERIFY",
		fmt.Sprintf("Verification of file %d: verified=%t", id, result.Verified),
		nil, nil, result); err != nil {
		fmt.Printf("Failed to insert log: %v\n", err)
	}

	c.JSON(http.StatusOK, result)
}

func (sc *StorageFileController) ByStatus(c *gin.Context) {
	rows, err := sc.FileService.ByStatus()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, rows)
}

package item

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"strconv"
	"strings"
	"unicode/utf8"

	"coldstore-api/internal/category"
	"coldstore-api/internal/util"
)

const (
	maxImportBytes  = 10 << 20 // 10MB
	maxErrorSummary = 5
)

// ImportResult accumulates per-entry outcomes of one bulk import. The import
// is best effort: a bad entry is recorded and skipped, never aborting the
// batch.
type ImportResult struct {
	ImportedCount int      `json:"imported_count"`
	Errors        []string `json:"errors"`
	Success       bool     `json:"success"`
}

func (r *ImportResult) addError(format string, args ...interface{}) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// finalize marks the run successful unless entries were rejected. An empty
// file imports nothing and still succeeds.
func (r *ImportResult) finalize() {
	r.Success = r.ImportedCount > 0 || len(r.Errors) == 0
}

// ErrorSummary reports at most maxErrorSummary errors, with a trailing count
// of the rest.
func (r *ImportResult) ErrorSummary() string {
	if len(r.Errors) == 0 {
		return ""
	}

	msg := fmt.Sprintf("Encountered %d errors:\n", len(r.Errors))
	shown := r.Errors
	if len(shown) > maxErrorSummary {
		shown = shown[:maxErrorSummary]
	}
	msg += strings.Join(shown, "\n")

	if len(r.Errors) > maxErrorSummary {
		msg += fmt.Sprintf("\n... and %d more errors.", len(r.Errors)-maxErrorSummary)
	}

	return msg
}

// ImportJSON loads data items from an uploaded JSON array. Recognized entry
// fields: name (required), category, subcategory, description, examples,
// size_estimate_gb, tags, source_url, notes, priority, status.
func (is *ItemService) ImportJSON(file *multipart.FileHeader) (*ImportResult, error) {
	result := &ImportResult{Errors: []string{}}

	if !strings.HasSuffix(strings.ToLower(file.Filename), ".json") {
		result.addError("Please upload a JSON file.")
		return result, nil
	}
	if file.Size > maxImportBytes {
		result.addError("File exceeds the 10MB import limit.")
		return result, nil
	}

	f, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	content, err := io.ReadAll(io.LimitReader(f, maxImportBytes+1))
	if err != nil {
		return nil, err
	}
	if len(content) > maxImportBytes {
		result.addError("File exceeds the 10MB import limit.")
		return result, nil
	}

	if !utf8.Valid(content) {
		result.addError("File encoding not supported. Please use UTF-8.")
		return result, nil
	}

	var raw interface{}
	if err := json.Unmarshal(content, &raw); err != nil {
		result.addError("Invalid JSON format: %s", err.Error())
		return result, nil
	}

	entries, ok := raw.([]interface{})
	if !ok {
		result.addError("JSON file must contain an array of objects.")
		return result, nil
	}

	for i, rawEntry := range entries {
		entry, ok := rawEntry.(map[string]interface{})
		if !ok {
			result.addError("Entry %d: Must be an object", i+1)
			continue
		}

		name := strings.TrimSpace(stringField(entry, "name"))
		if name == "" {
			result.addError("Entry %d: Name is required", i+1)
			continue
		}

		categoryName := stringField(entry, "category")
		if strings.TrimSpace(categoryName) == "" {
			categoryName = "Uncategorized"
		}
		cat, err := is.getOrCreateCategory(categoryName)
		if err != nil {
			result.addError("Entry %d: %s", i+1, err.Error())
			continue
		}

		priority := stringField(entry, "priority")
		if !ValidPriority(priority) {
			priority = PriorityMedium
		}
		status := stringField(entry, "status")
		if !ValidStatus(status) {
			status = StatusPlanned
		}

		di := DataItem{
			Name:           name,
			CategoryID:     cat.ID,
			Subcategory:    stringField(entry, "subcategory"),
			Description:    stringField(entry, "description"),
			Examples:       stringField(entry, "examples"),
			SizeEstimateGB: parseSizeEstimate(entry["size_estimate_gb"]),
			Tags:           util.JoinCommaList(util.SplitCommaList(stringField(entry, "tags"))),
			SourceURL:      stringField(entry, "source_url"),
			Notes:          stringField(entry, "notes"),
			Priority:       priority,
			Status:         status,
		}

		if err := is.DB.Create(&di).Error; err != nil {
			result.addError("Entry %d: %s", i+1, err.Error())
			continue
		}
		result.ImportedCount++
	}

	result.finalize()
	return result, nil
}

func (is *ItemService) getOrCreateCategory(name string) (*category.Category, error) {
	name = strings.TrimSpace(name)

	var cat category.Category
	if err := is.DB.Where("name = ?", name).First(&cat).Error; err == nil {
		return &cat, nil
	}

	cat = category.Category{
		Name:        name,
		Description: "Auto-created category for " + name,
	}
	if err := is.DB.Create(&cat).Error; err != nil {
		return nil, err
	}
	return &cat, nil
}

func stringField(entry map[string]interface{}, key string) string {
	if v, ok := entry[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// parseSizeEstimate is deliberately permissive: anything that is not a
// non-negative number becomes "unknown" (nil) instead of failing the entry.
func parseSizeEstimate(v interface{}) *float64 {
	var size float64

	switch t := v.(type) {
	case float64:
		size = t
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return nil
		}
		size = parsed
	default:
		return nil
	}

	if size < 0 {
		return nil
	}
	return &size
}

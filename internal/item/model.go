package item

import (
	"time"

	"coldstore-api/internal/category"
	"coldstore-api/internal/util"
)

const (
	PriorityLow      = "low"
	PriorityMedium   = "medium"
	PriorityHigh     = "high"
	PriorityCritical = "critical"

	StatusPlanned    = "planned"
	StatusInProgress = "in_progress"
	StatusArchived   = "archived"
	StatusVerified   = "verified"
)

var priorityDisplay = map[string]string{
	PriorityLow:      "Low",
	PriorityMedium:   "Medium",
	PriorityHigh:     "High",
	PriorityCritical: "Critical",
}

var statusDisplay = map[string]string{
	StatusPlanned:    "Planned",
	StatusInProgress: "In Progress",
	StatusArchived:   "Archived",
	StatusVerified:   "Verified",
}

func ValidPriority(p string) bool {
	_, ok := priorityDisplay[p]
	return ok
}

func ValidStatus(s string) bool {
	_, ok := statusDisplay[s]
	return ok
}

type DataItem struct {
	ID             uint               `gorm:"primaryKey" json:"id"`
	Name           string             `gorm:"size:200;not null" json:"name"`
	CategoryID     uint               `gorm:"not null;index" json:"category"`
	Category       *category.Category `gorm:"foreignKey:CategoryID" json:"-"`
	Subcategory    string             `gorm:"size:100" json:"subcategory"`
	Description    string             `gorm:"type:text" json:"description"`
	Examples       string             `gorm:"type:text" json:"examples"`
	SizeEstimateGB *float64           `gorm:"column:size_estimate_gb" json:"size_estimate_gb"`
	Tags           string             `gorm:"size:250" json:"tags"` // legacy comma-separated field
	SourceURL      string             `gorm:"size:500" json:"source_url"`
	Notes          string             `gorm:"type:text" json:"notes"`
	Priority       string             `gorm:"size:20;default:'medium'" json:"priority"`
	Status         string             `gorm:"size:20;default:'planned'" json:"status"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

func (DataItem) TableName() string {
	return "data_items"
}

func (di *DataItem) SizeDisplay() string {
	return util.SizeDisplayGB(di.SizeEstimateGB)
}

func (di *DataItem) PriorityDisplay() string {
	if d, ok := priorityDisplay[di.Priority]; ok {
		return d
	}
	return di.Priority
}

func (di *DataItem) StatusDisplay() string {
	if d, ok := statusDisplay[di.Status]; ok {
		return d
	}
	return di.Status
}

func (di *DataItem) TagsList() []string {
	return util.SplitCommaList(di.Tags)
}

type ItemInput struct {
	Name           string   `json:"name" binding:"required"`
	CategoryID     uint     `json:"category" binding:"required"`
	Subcategory    string   `json:"subcategory"`
	Description    string   `json:"description"`
	Examples       string   `json:"examples"`
	SizeEstimateGB *float64 `json:"size_estimate_gb"`
	Tags           string   `json:"tags"`
	SourceURL      string   `json:"source_url"`
	Notes          string   `json:"notes"`
	Priority       string   `json:"priority"`
	Status         string   `json:"status"`
}

type ItemListInput struct {
	CategoryID *uint   `form:"category"`
	Status     *string `form:"status"`
	Priority   *string `form:"priority"`
	Search     *string `form:"q"`
	OrderBy    string  `form:"order_by"`
}

// ItemView is the list/detail representation with derived fields.
type ItemView struct {
	DataItem
	CategoryName    string   `json:"category_name"`
	CategoryPath    string   `json:"category_path"`
	SizeText        string   `json:"size_display"`
	PriorityText    string   `json:"priority_display"`
	StatusText      string   `json:"status_display"`
	TagsListDerived []string `json:"tags_list"`
}

type BreakdownEntry struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}

type ItemStatistics struct {
	TotalItems        int64            `json:"total_items"`
	TotalSizeGB       float64          `json:"total_size_gb"`
	AverageSizeGB     float64          `json:"average_size_gb"`
	StatusBreakdown   []BreakdownEntry `json:"status_breakdown"`
	PriorityBreakdown []BreakdownEntry `json:"priority_breakdown"`
}

type CategoryBreakdown struct {
	CategoryID   uint     `json:"id"`
	CategoryName string   `json:"name"`
	ItemCount    int64    `json:"item_count"`
	TotalSizeGB  *float64 `json:"total_size"`
}

type BatchInput struct {
	Operation  string         `json:"operation" binding:"required"`
	ItemIDs    []uint         `json:"item_ids"`
	Status     string         `json:"status"`
	Priority   string         `json:"priority"`
	CategoryID *uint          `json:"category_id"`
	Tags       string         `json:"tags"`
	Filters    *ItemListInput `json:"filters"`
}

type BatchResult struct {
	Operation string `json:"operation"`
	Affected  int64  `json:"affected"`
}

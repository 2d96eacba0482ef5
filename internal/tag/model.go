package tag

import (
	"time"

	"coldstore-api/internal/category"
	"coldstore-api/internal/item"
)

const DefaultColor = "#808080"

// Tag is a first-class label linked to items through the item_tags join
// table. Items also carry a legacy comma-separated tags string; Migrate
// converts that field into rows and links here.
type Tag struct {
	ID          uint               `gorm:"primaryKey" json:"id"`
	Name        string             `gorm:"size:50;uniqueIndex;not null" json:"name"`
	Slug        string             `gorm:"size:60;uniqueIndex;not null" json:"slug"`
	Color       string             `gorm:"size:7;default:'#808080'" json:"color"`
	Description string             `gorm:"type:text" json:"description"`
	CategoryID  *uint              `gorm:"index" json:"category"`
	Category    *category.Category `gorm:"foreignKey:CategoryID" json:"-"`
	Items       []item.DataItem    `gorm:"many2many:item_tags" json:"-"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

func (Tag) TableName() string {
	return "tags"
}

type TagInput struct {
	Name        string `json:"name" binding:"required"`
	Slug        string `json:"slug"`
	Color       string `json:"color"`
	Description string `json:"description"`
	CategoryID  *uint  `json:"category"`
}

type TagListInput struct {
	CategoryID *uint   `form:"category"`
	Search     *string `form:"q"`
	OrderBy    string  `form:"order_by"`
}

// TagView is a tag with its usage count and category name resolved.
type TagView struct {
	Tag
	CategoryName string `json:"category_name"`
	UsageCount   int64  `json:"usage_count"`
}

type MigrateResult struct {
	TagsCreated  int `json:"tags_created"`
	LinksCreated int `json:"links_created"`
	ItemsScanned int `json:"items_scanned"`
}

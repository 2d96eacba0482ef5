package category

import (
	"time"
)

type Category struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Name        string     `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Description string     `gorm:"type:text" json:"description"`
	ParentID    *uint      `gorm:"index" json:"parent"`
	Parent      *Category  `gorm:"foreignKey:ParentID" json:"-"`
	Children    []Category `gorm:"foreignKey:ParentID" json:"-"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (Category) TableName() string {
	return "categories"
}

// PathSeparator joins category names into a full dotted path.
const PathSeparator = "."

type CategoryInput struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	ParentID    *uint  `json:"parent"`
}

// CategoryView is the API representation, with derived fields filled in by
// the service.
type CategoryView struct {
	Category
	FullPath      string `json:"full_path"`
	ChildrenCount int64  `json:"children_count"`
	ItemCount     int64  `json:"item_count"`
}

// CategoryItem is a lightweight row scanned straight from the data_items
// table, so listing a category's items does not pull in the item package.
type CategoryItem struct {
	ID             uint      `json:"id"`
	Name           string    `json:"name"`
	Subcategory    string    `json:"subcategory"`
	SizeEstimateGB *float64  `gorm:"column:size_estimate_gb" json:"size_estimate_gb"`
	Priority       string    `json:"priority"`
	Status         string    `json:"status"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type CategoryStatistics struct {
	ItemCount     int64   `json:"item_count"`
	TotalSizeGB   float64 `json:"total_size_gb"`
	ChildrenCount int64   `json:"children_count"`
}

type CategoryListInput struct {
	Search   *string `form:"q"`
	ParentID *uint   `form:"parent"`
	OrderBy  string  `form:"order_by"`
}

package tag

import (
	"coldstore-api/internal/item"
)

type TagServicePort interface {
	GetAll(input TagListInput) ([]TagView, error)
	GetBySlug(slug string) (*TagView, error)
	Create(input TagInput) (*Tag, error)
	Update(slug string, input TagInput) (*Tag, error)
	Delete(slug string) error

	GetItems(slug string) ([]item.DataItem, error)
	Popular() ([]TagView, error)
	ByCategory() (map[string][]TagView, error)
	Migrate() (*MigrateResult, error)
}

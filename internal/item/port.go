package item

import (
	"mime/multipart"
)

type ItemServicePort interface {
	GetAll(input ItemListInput) ([]ItemView, error)
	GetByID(id uint) (*ItemView, error)
	Create(input ItemInput) (*DataItem, error)
	Update(id uint, input ItemInput) (*DataItem, error)
	Delete(id uint) error

	GetStatistics() (*ItemStatistics, error)
	GetCategoryBreakdown() ([]CategoryBreakdown, error)
	Batch(input BatchInput) (*BatchResult, error)

	ImportJSON(file *multipart.FileHeader) (*ImportResult, error)
	Export(input ItemListInput, format string) (contentType, filename string, out []byte, err error)
}

type LogServicePort interface {
	Log(level, service, action, message string, itemID *uint, tags []string, metadata interface{}) error
}

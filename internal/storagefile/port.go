package storagefile

import (
	"mime/multipart"
)

type StorageFileServicePort interface {
	GetAll(input FileListInput) ([]FileView, error)
	GetByID(id uint) (*FileView, error)
	Upload(file *multipart.FileHeader, input UploadInput) (*StorageFile, error)
	Update(id uint, input FileInput) (*StorageFile, error)
	Delete(id uint) error

	Calculate(id uint) (*StorageFile, error)
	Verify(id uint, checksumType string) (*VerifyResult, error)
	ByStatus() ([]StatusCount, error)
}

type LogServicePort interface {
	Log(level, service, action, message string, itemID *uint, tags []string, metadata interface{}) error
}

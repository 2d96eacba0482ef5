package storagefile

import (
	"errors"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"coldstore-api/internal/item"
)

// maxUploadBytes caps a single upload at 10GB.
const maxUploadBytes = 10 << 30

var (
	ErrNotFound     = errors.New("storage file not found")
	ErrFileTooLarge = errors.New("file size exceeds maximum allowed size of 10GB")
	ErrNoStoredPath = errors.New("storage file has no stored path")
)

type StorageFileService struct {
	DB        *gorm.DB
	UploadDir string
}

func (fs *StorageFileService) GetAll(input FileListInput) ([]FileView, error) {
	q := fs.DB.Model(&StorageFile{})

	if input.DataItemID != nil {
		q = q.Where("data_item_id = ?", *input.DataItemID)
	}
	if input.StorageLocation != nil && *input.StorageLocation != "" {
		q = q.Where("storage_location = ?", *input.StorageLocation)
	}
	if input.Status != nil && *input.Status != "" {
		q = q.Where("status = ?", *input.Status)
	}
	if input.Search != nil && strings.TrimSpace(*input.Search) != "" {
		like := "%" + strings.ToLower(strings.TrimSpace(*input.Search)) + "%"
		q = q.Where(
			"LOWER(original_filename) LIKE ? OR LOWER(checksum_sha256) LIKE ? OR LOWER(notes) LIKE ?",
			like, like, like,
		)
	}

	order := "created_at DESC"
	switch input.OrderBy {
	case "created_at":
		order = "created_at ASC"
	case "file_size_bytes":
		order = "file_size_bytes ASC"
	case "-file_size_bytes":
		order = "file_size_bytes DESC"
	case "last_verified_at":
		order = "last_verified_at ASC"
	case "-last_verified_at":
		order = "last_verified_at DESC"
	}

	var files []StorageFile
	if err := q.Order(order).Find(&files).Error; err != nil {
		return nil, err
	}

	return fs.buildViews(files)
}

func (fs *StorageFileService) buildViews(files []StorageFile) ([]FileView, error) {
	itemNames := map[uint]string{}

	views := make([]FileView, 0, len(files))
	for i := range files {
		sf := &files[i]

		name, ok := itemNames[sf.DataItemID]
		if !ok {
			var di item.DataItem
			if err := fs.DB.Select("name").First(&di, sf.DataItemID).Error; err == nil {
				name = di.Name
			}
			itemNames[sf.DataItemID] = name
		}

		views = append(views, FileView{
			StorageFile:  *sf,
			DataItemName: name,
			SizeText:     sf.FileSizeDisplay(),
			LocationText: sf.LocationDisplay(),
			StatusText:   sf.StatusDisplay(),
		})
	}
	return views, nil
}

func (fs *StorageFileService) GetByID(id uint) (*FileView, error) {
	sf, err := fs.load(id)
	if err != nil {
		return nil, err
	}

	views, err := fs.buildViews([]StorageFile{*sf})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (fs *StorageFileService) load(id uint) (*StorageFile, error) {
	var sf StorageFile
	if err := fs.DB.First(&sf, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &sf, nil
}

// Upload stores the uploaded bytes under UploadDir with a generated name and
// computes both digests in the same pass. An upload that cannot be fully
// written is still recorded, flagged corrupted with the reason.
func (fs *StorageFileService) Upload(file *multipart.FileHeader, input UploadInput) (*StorageFile, error) {
	if file.Size > maxUploadBytes {
		return nil, ErrFileTooLarge
	}

	var di item.DataItem
	if err := fs.DB.First(&di, input.DataItemID).Error; err != nil {
		return nil, fmt.Errorf("data item %d not found", input.DataItemID)
	}

	location := input.StorageLocation
	if !ValidLocation(location) {
		location = LocationLocal
	}

	if err := os.MkdirAll(fs.UploadDir, 0o755); err != nil {
		return nil, err
	}

	storedName := uuid.NewString() + strings.ToLower(filepath.Ext(file.Filename))
	storedPath := filepath.Join(fs.UploadDir, storedName)

	sf := StorageFile{
		DataItemID:       input.DataItemID,
		OriginalFilename: file.Filename,
		StoredPath:       storedPath,
		StorageLocation:  location,
		Status:           StatusPending,
		MimeType:         file.Header.Get("Content-Type"),
		Notes:            input.Notes,
	}

	md5sum, sha256sum, written, err := fs.writeUpload(file, storedPath)
	if err != nil {
		sf.Status = StatusCorrupted
		sf.VerificationError = err.Error()
		sf.FileSizeBytes = written
	} else {
		sf.Status = StatusStored
		sf.ChecksumMD5 = md5sum
		sf.ChecksumSHA256 = sha256sum
		sf.FileSizeBytes = written
	}

	if err := fs.DB.Create(&sf).Error; err != nil {
		os.Remove(storedPath)
		return nil, err
	}
	return &sf, nil
}

func (fs *StorageFileService) writeUpload(file *multipart.FileHeader, storedPath string) (md5sum, sha256sum string, written int64, err error) {
	src, err := file.Open()
	if err != nil {
		return "", "", 0, err
	}
	defer src.Close()

	dst, err := os.Create(storedPath)
	if err != nil {
		return "", "", 0, err
	}

	md5sum, sha256sum, written, err = digest(src, dst)
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	return md5sum, sha256sum, written, err
}

func (fs *StorageFileService) Update(id uint, input FileInput) (*StorageFile, error) {
	sf, err := fs.load(id)
	if err != nil {
		return nil, err
	}

	if input.StorageLocation != "" {
		if !ValidLocation(input.StorageLocation) {
			return nil, fmt.Errorf("invalid storage location %q", input.StorageLocation)
		}
		sf.StorageLocation = input.StorageLocation
	}
	if input.Status != "" {
		if !ValidStatus(input.Status) {
			return nil, fmt.Errorf("invalid status %q", input.Status)
		}
		sf.Status = input.Status
	}
	sf.Notes = input.Notes

	if err := fs.DB.Save(sf).Error; err != nil {
		return nil, err
	}
	return sf, nil
}

// Delete removes the record and, when the bytes live under UploadDir, the
// stored copy as well.
func (fs *StorageFileService) Delete(id uint) error {
	sf, err := fs.load(id)
	if err != nil {
		return err
	}

	if err := fs.DB.Delete(&StorageFile{}, id).Error; err != nil {
		return err
	}

	if sf.StoredPath != "" && strings.HasPrefix(sf.StoredPath, fs.UploadDir) {
		os.Remove(sf.StoredPath)
	}
	return nil
}

// Calculate recomputes both digests from the stored copy and persists them.
func (fs *StorageFileService) Calculate(id uint) (*StorageFile, error) {
	sf, err := fs.load(id)
	if err != nil {
		return nil, err
	}
	if sf.StoredPath == "" {
		return nil, ErrNoStoredPath
	}

	md5sum, sha256sum, err := digestFile(sf.StoredPath)
	if err != nil {
		return nil, err
	}

	sf.ChecksumMD5 = md5sum
	sf.ChecksumSHA256 = sha256sum
	if err := fs.DB.Save(sf).Error; err != nil {
		return nil, err
	}
	return sf, nil
}

// Verify rereads the stored copy and compares the chosen digest against the
// recorded one. Mismatches and unreadable files mark the record corrupted;
// only an unknown id or a database failure is reported as an error.
func (fs *StorageFileService) Verify(id uint, checksumType string) (*VerifyResult, error) {
	sf, err := fs.load(id)
	if err != nil {
		return nil, err
	}

	if checksumType == "" {
		checksumType = "sha256"
	}
	if checksumType != "md5" && checksumType != "sha256" {
		return nil, fmt.Errorf("invalid checksum type %q", checksumType)
	}

	expected := sf.ChecksumSHA256
	if checksumType == "md5" {
		expected = sf.ChecksumMD5
	}

	var failure string
	switch {
	case sf.StoredPath == "":
		failure = ErrNoStoredPath.Error()
	case expected == "":
		failure = fmt.Sprintf("no stored %s checksum to verify against", checksumType)
	}

	var actual string
	if failure == "" {
		md5sum, sha256sum, err := digestFile(sf.StoredPath)
		if err != nil {
			failure = fmt.Sprintf("failed to read stored file: %s", err.Error())
		} else if checksumType == "md5" {
			actual = md5sum
		} else {
			actual = sha256sum
		}
	}

	if failure == "" && actual != expected {
		failure = fmt.Sprintf("%s checksum mismatch: expected %s, got %s", checksumType, expected, actual)
	}

	now := time.Now()
	sf.LastVerifiedAt = &now

	verified := failure == ""
	if verified {
		sf.Status = StatusVerified
		sf.VerificationError = ""
	} else {
		sf.Status = StatusCorrupted
		sf.VerificationError = failure
	}

	if err := fs.DB.Save(sf).Error; err != nil {
		return nil, err
	}

	return &VerifyResult{
		Verified:       verified,
		Status:         sf.Status,
		LastVerifiedAt: sf.LastVerifiedAt,
		Error:          failure,
	}, nil
}

// ByStatus counts files per status, most populated first.
func (fs *StorageFileService) ByStatus() ([]StatusCount, error) {
	var rows []StatusCount
	err := fs.DB.Model(&StorageFile{}).
		Select("status, COUNT(id) AS count").
		Group("status").
		Order("count DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

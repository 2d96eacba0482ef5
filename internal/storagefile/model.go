package storagefile

import (
	"time"

	"coldstore-api/internal/item"
	"coldstore-api/internal/util"
)

const (
	LocationLocal         = "local"
	LocationExternalDrive = "external_drive"
	LocationCloud         = "cloud"
	LocationHybrid        = "hybrid"

	StatusPending   = "pending"
	StatusStored    = "stored"
	StatusVerified  = "verified"
	StatusCorrupted = "corrupted"
	StatusMissing   = "missing"
)

var locationDisplay = map[string]string{
	LocationLocal:         "Local Storage",
	LocationExternalDrive: "External Drive",
	LocationCloud:         "Cloud Storage",
	LocationHybrid:        "Hybrid",
}

var statusDisplay = map[string]string{
	StatusPending:   "Pending",
	StatusStored:    "Stored",
	StatusVerified:  "Verified",
	StatusCorrupted: "Corrupted",
	StatusMissing:   "Missing",
}

func ValidLocation(l string) bool {
	_, ok := locationDisplay[l]
	return ok
}

func ValidStatus(s string) bool {
	_, ok := statusDisplay[s]
	return ok
}

// StorageFile records one physical copy of an archived item, including both
// digests computed when the bytes were last read.
type StorageFile struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	DataItemID        uint           `gorm:"not null;index" json:"data_item"`
	DataItem          *item.DataItem `gorm:"foreignKey:DataItemID" json:"-"`
	OriginalFilename  string         `gorm:"size:255" json:"original_filename"`
	StoredPath        string         `gorm:"size:500" json:"stored_path"`
	FileSizeBytes     int64          `gorm:"not null;default:0" json:"file_size_bytes"`
	ChecksumMD5       string         `gorm:"size:32" json:"checksum_md5"`
	ChecksumSHA256    string         `gorm:"size:64;index" json:"checksum_sha256"`
	StorageLocation   string         `gorm:"size:20;default:'local'" json:"storage_location"`
	Status            string         `gorm:"size:20;default:'pending'" json:"status"`
	MimeType          string         `gorm:"size:100" json:"mime_type"`
	Notes             string         `gorm:"type:text" json:"notes"`
	LastVerifiedAt    *time.Time     `json:"last_verified_at"`
	VerificationError string         `gorm:"type:text" json:"verification_error"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

func (StorageFile) TableName() string {
	return "storage_files"
}

func (sf *StorageFile) FileSizeDisplay() string {
	return util.SizeDisplayBytes(sf.FileSizeBytes)
}

func (sf *StorageFile) LocationDisplay() string {
	if d, ok := locationDisplay[sf.StorageLocation]; ok {
		return d
	}
	return sf.StorageLocation
}

func (sf *StorageFile) StatusDisplay() string {
	if d, ok := statusDisplay[sf.Status]; ok {
		return d
	}
	return sf.Status
}

// FileInput covers the metadata fields a client may set after upload.
type FileInput struct {
	StorageLocation string `json:"storage_location"`
	Status          string `json:"status"`
	Notes           string `json:"notes"`
}

// UploadInput is the multipart form accompanying the file itself.
type UploadInput struct {
	DataItemID      uint   `form:"data_item" binding:"required"`
	StorageLocation string `form:"storage_location"`
	Notes           string `form:"notes"`
}

type FileListInput struct {
	DataItemID      *uint   `form:"data_item"`
	StorageLocation *string `form:"storage_location"`
	Status          *string `form:"status"`
	Search          *string `form:"q"`
	OrderBy         string  `form:"order_by"`
}

// FileView is StorageFile plus its derived display fields.
type FileView struct {
	StorageFile
	DataItemName string `json:"data_item_name"`
	SizeText     string `json:"file_size_display"`
	LocationText string `json:"storage_location_display"`
	StatusText   string `json:"status_display"`
}

type VerifyInput struct {
	ChecksumType string `json:"checksum_type"`
}

// VerifyResult reports the outcome of one integrity check. A mismatch is a
// result, not an error.
type VerifyResult struct {
	Verified       bool       `json:"verified"`
	Status         string     `json:"status"`
	LastVerifiedAt *time.Time `json:"last_verified_at"`
	Error          string     `json:"error,omitempty"`
}

type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

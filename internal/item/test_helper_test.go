package item

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"testing"
	"time"

	"coldstore-api/internal/category"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func floatPtr(f float64) *float64 { return &f }

func strPtr(s string) *string { return &s }

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// Unique in-memory DB per test to avoid cross-test contamination
	dsn := fmt.Sprintf("file:%d?mode=memory&cache=shared", time.Now().UnixNano())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := db.AutoMigrate(&category.Category{}, &DataItem{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}

	// Dependent tables touched by delete paths.
	stmts := []string{
		`CREATE TABLE item_tags (data_item_id INTEGER, tag_id INTEGER)`,
		`CREATE TABLE storage_files (id INTEGER PRIMARY KEY AUTOINCREMENT, data_item_id INTEGER)`,
		`CREATE TABLE cost_estimates (id INTEGER PRIMARY KEY AUTOINCREMENT, data_item_id INTEGER)`,
	}
	for _, s := range stmts {
		if err := db.Exec(s).Error; err != nil {
			t.Fatalf("create table: %v", err)
		}
	}

	return db
}

func seedCategory(t *testing.T, db *gorm.DB, name string) category.Category {
	t.Helper()
	cat := category.Category{Name: name}
	if err := db.Create(&cat).Error; err != nil {
		t.Fatalf("seed category %s: %v", name, err)
	}
	return cat
}

func seedItem(t *testing.T, db *gorm.DB, name string, categoryID uint, mutate func(*DataItem)) DataItem {
	t.Helper()
	di := DataItem{
		Name:       name,
		CategoryID: categoryID,
		Priority:   PriorityMedium,
		Status:     StatusPlanned,
	}
	if mutate != nil {
		mutate(&di)
	}
	if err := db.Create(&di).Error; err != nil {
		t.Fatalf("seed item %s: %v", name, err)
	}
	return di
}

// multipartJSONFile builds a *multipart.FileHeader carrying the given bytes,
// the way an uploaded file arrives at the service.
func multipartJSONFile(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)

	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write(content); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	reader := multipart.NewReader(buf, mw.Boundary())
	form, err := reader.ReadForm(32 << 20)
	if err != nil {
		t.Fatalf("read form: %v", err)
	}

	files := form.File["file"]
	if len(files) != 1 {
		t.Fatalf("expected 1 file, got %d", len(files))
	}
	return files[0]
}

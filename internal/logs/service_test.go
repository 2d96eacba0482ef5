package logs

import (
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func strPtr(s string) *string { return &s }

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// Unique in-memory DB per test to avoid cross-test contamination
	dsn := fmt.Sprintf("file:%d?mode=memory&cache=shared", time.Now().UnixNano())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := db.AutoMigrate(&SystemLog{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}

	return db
}

func TestLogService_Log_WritesEntry(t *testing.T) {
	db := newTestDB(t)
	svc := &LogService{DB: db}

	itemID := uint(42)
	err := svc.Log("INFO", "item", "IMPORT_JSON", "Imported 3 items", &itemID,
		[]string{"video", "raw"}, map[string]int{"imported": 3})
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}

	var got SystemLog
	if err := db.First(&got).Error; err != nil {
		t.Fatalf("read back: %v", err)
	}

	if got.Level != "INFO" || got.Service != "item" || got.Action != "IMPORT_JSON" {
		t.Fatalf("unexpected entry: %+v", got)
	}
	if got.ItemID == nil || *got.ItemID != 42 {
		t.Fatalf("expected item id 42, got %v", got.ItemID)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "video" {
		t.Fatalf("unexpected tags: %#v", got.Tags)
	}
	if len(got.Metadata) == 0 {
		t.Fatalf("expected metadata to be recorded")
	}
}

func TestLogService_GetLogs_FiltersByServiceAndAction(t *testing.T) {
	db := newTestDB(t)
	svc := &LogService{DB: db}

	entries := []SystemLog{
		{Level: "INFO", Service: "item", Action: "IMPORT_JSON", Message: "a", CreatedAt: time.Now()},
		{Level: "INFO", Service: "item", Action: "EXPORT", Message: "b", CreatedAt: time.Now()},
		{Level: "ERROR", Service: "storagefile", Action: "VERIFY", Message: "c", CreatedAt: time.Now()},
	}
	for i := range entries {
		if err := db.Create(&entries[i]).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	rows, total, _, err := svc.GetLogs(LogFilterInput{Service: strPtr("item")})
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	if total != 2 || len(rows) != 2 {
		t.Fatalf("expected 2 rows, got total=%d len=%d", total, len(rows))
	}

	rows, total, _, err = svc.GetLogs(LogFilterInput{Action: strPtr("VERIFY")})
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	if total != 1 || rows[0].Service != "storagefile" {
		t.Fatalf("expected the verify row, got %#v", rows)
	}
}

func TestLogService_GetLogs_SearchAndPaging(t *testing.T) {
	db := newTestDB(t)
	svc := &LogService{DB: db}

	for i := 0; i < 25; i++ {
		entry := SystemLog{
			Level:     "INFO",
			Service:   "item",
			Action:    "BATCH",
			Message:   fmt.Sprintf("batch update %d", i),
			CreatedAt: time.Now(),
		}
		if err := db.Create(&entry).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	rows, total, totalPages, err := svc.GetLogs(LogFilterInput{Search: strPtr("BATCH UPDATE"), PageSize: 10})
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	if total != 25 {
		t.Fatalf("expected total 25, got %d", total)
	}
	if totalPages != 3 {
		t.Fatalf("expected 3 pages, got %d", totalPages)
	}
	if len(rows) != 10 {
		t.Fatalf("expected 10 rows on page 1, got %d", len(rows))
	}

	rows, _, _, err = svc.GetLogs(LogFilterInput{Page: 3, PageSize: 10})
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	if len(rows) != 5 {
		t.Fatalf("expected 5 rows on page 3, got %d", len(rows))
	}
}

func TestLogService_GetLogs_DateRange(t *testing.T) {
	db := newTestDB(t)
	svc := &LogService{DB: db}

	old := SystemLog{Level: "INFO", Service: "item", Action: "OLD", Message: "old", CreatedAt: time.Now().AddDate(0, -2, 0)}
	recent := SystemLog{Level: "INFO", Service: "item", Action: "NEW", Message: "new", CreatedAt: time.Now()}
	for _, e := range []SystemLog{old, recent} {
		entry := e
		if err := db.Create(&entry).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	// Default window is the last 30 days.
	rows, total, _, err := svc.GetLogs(LogFilterInput{})
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	if total != 1 || rows[0].Action != "NEW" {
		t.Fatalf("expected only the recent row, got %#v", rows)
	}

	// Explicit range pulls the old row back in.
	startStr := time.Now().AddDate(0, -3, 0).Format("2006-01-02")
	_, total, _, err = svc.GetLogs(LogFilterInput{StartDate: &startStr})
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	if total != 2 {
		t.Fatalf("expected 2 rows with explicit range, got %d", total)
	}
}

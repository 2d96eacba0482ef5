package tag

import (
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"coldstore-api/internal/category"
	"coldstore-api/internal/item"
)

func newTestService(t *testing.T) *TagService {
	t.Helper()

	dsn := fmt.Sprintf("file:%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&category.Category{}, &item.DataItem{}, &Tag{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return &TagService{DB: db}
}

func seedCategory(t *testing.T, db *gorm.DB, name string) category.Category {
	t.Helper()
	cat := category.Category{Name: name}
	if err := db.Create(&cat).Error; err != nil {
		t.Fatalf("seed category: %v", err)
	}
	return cat
}

func seedItem(t *testing.T, db *gorm.DB, name string, categoryID uint, legacyTags string) item.DataItem {
	t.Helper()
	di := item.DataItem{
		Name:       name,
		CategoryID: categoryID,
		Tags:       legacyTags,
		Priority:   item.PriorityMedium,
		Status:     item.StatusPlanned,
	}
	if err := db.Create(&di).Error; err != nil {
		t.Fatalf("seed item: %v", err)
	}
	return di
}

func link(t *testing.T, db *gorm.DB, itemID, tagID uint) {
	t.Helper()
	if err := db.Exec("INSERT INTO item_tags (data_item_id, tag_id) VALUES (?, ?)", itemID, tagID).Error; err != nil {
		t.Fatalf("link item %d to tag %d: %v", itemID, tagID, err)
	}
}

func TestCreate_SlugAndColorDefaults(t *testing.T) {
	svc := newTestService(t)

	tg, err := svc.Create(TagInput{Name: "Raw Footage"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if tg.Slug != "raw-footage" {
		t.Fatalf("expected derived slug, got %q", tg.Slug)
	}
	if tg.Color != DefaultColor {
		t.Fatalf("expected default color, got %q", tg.Color)
	}

	if _, err := svc.Create(TagInput{Name: "Raw Footage"}); err != ErrDuplicateName {
		t.Fatalf("expected ErrDuplicateName, got %v", err)
	}
	if _, err := svc.Create(TagInput{Name: "Other", Slug: "raw-footage"}); err != ErrDuplicateSlug {
		t.Fatalf("expected ErrDuplicateSlug, got %v", err)
	}
	if _, err := svc.Create(TagInput{Name: "!!!"}); err == nil {
		t.Fatalf("expected rejection of unsluggable name")
	}
}

func TestGetBySlug_UsageCount(t *testing.T) {
	svc := newTestService(t)
	cat := seedCategory(t, svc.DB, "Media")

	tg, err := svc.Create(TagInput{Name: "video", CategoryID: &cat.ID})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	a := seedItem(t, svc.DB, "A", cat.ID, "")
	b := seedItem(t, svc.DB, "B", cat.ID, "")
	link(t, svc.DB, a.ID, tg.ID)
	link(t, svc.DB, b.ID, tg.ID)

	view, err := svc.GetBySlug("video")
	if err != nil {
		t.Fatalf("get by slug: %v", err)
	}
	if view.UsageCount != 2 {
		t.Fatalf("expected usage 2, got %d", view.UsageCount)
	}
	if view.CategoryName != "Media" {
		t.Fatalf("expected category name, got %q", view.CategoryName)
	}

	if _, err := svc.GetBySlug("nope"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPopular_OrderedByUsage(t *testing.T) {
	svc := newTestService(t)
	cat := seedCategory(t, svc.DB, "Media")

	popular, err := svc.Create(TagInput{Name: "video"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	rare, err := svc.Create(TagInput{Name: "audio"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	a := seedItem(t, svc.DB, "A", cat.ID, "")
	b := seedItem(t, svc.DB, "B", cat.ID, "")
	link(t, svc.DB, a.ID, popular.ID)
	link(t, svc.DB, b.ID, popular.ID)
	link(t, svc.DB, a.ID, rare.ID)

	views, err := svc.Popular()
	if err != nil {
		t.Fatalf("popular: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("expected 2 tags, got %d", len(views))
	}
	if views[0].Slug != "video" || views[0].UsageCount != 2 {
		t.Fatalf("expected video first with usage 2: %+v", views[0])
	}
}

func TestByCategory_UncategorizedBucket(t *testing.T) {
	svc := newTestService(t)
	cat := seedCategory(t, svc.DB, "Media")

	if _, err := svc.Create(TagInput{Name: "video", CategoryID: &cat.ID}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(TagInput{Name: "misc"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	grouped, err := svc.ByCategory()
	if err != nil {
		t.Fatalf("by category: %v", err)
	}
	if len(grouped["Media"]) != 1 || grouped["Media"][0].Slug != "video" {
		t.Fatalf("unexpected Media bucket: %+v", grouped["Media"])
	}
	if len(grouped["Uncategorized"]) != 1 || grouped["Uncategorized"][0].Slug != "misc" {
		t.Fatalf("unexpected Uncategorized bucket: %+v", grouped["Uncategorized"])
	}
}

func TestMigrate_LegacyCommaTags(t *testing.T) {
	svc := newTestService(t)
	cat := seedCategory(t, svc.DB, "Media")

	a := seedItem(t, svc.DB, "A", cat.ID, "video, raw")
	b := seedItem(t, svc.DB, "B", cat.ID, "video")
	seedItem(t, svc.DB, "C", cat.ID, "")

	// "video" already exists; only "raw" should be created.
	existing, err := svc.Create(TagInput{Name: "video"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	result, err := svc.Migrate()
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if result.ItemsScanned != 2 {
		t.Fatalf("expected 2 items scanned, got %d", result.ItemsScanned)
	}
	if result.TagsCreated != 1 {
		t.Fatalf("expected 1 tag created, got %d", result.TagsCreated)
	}
	if result.LinksCreated != 3 {
		t.Fatalf("expected 3 links created, got %d", result.LinksCreated)
	}

	view, err := svc.GetBySlug("video")
	if err != nil {
		t.Fatalf("get video: %v", err)
	}
	if view.ID != existing.ID || view.UsageCount != 2 {
		t.Fatalf("expected existing video tag with usage 2: %+v", view)
	}

	items, err := svc.GetItems("raw")
	if err != nil {
		t.Fatalf("items of raw: %v", err)
	}
	if len(items) != 1 || items[0].ID != a.ID {
		t.Fatalf("unexpected raw items: %+v", items)
	}

	// A second run is a no-op.
	result, err = svc.Migrate()
	if err != nil {
		t.Fatalf("second migrate: %v", err)
	}
	if result.TagsCreated != 0 || result.LinksCreated != 0 {
		t.Fatalf("expected idempotent rerun, got %+v", result)
	}
	_ = b
}

func TestDelete_RemovesLinks(t *testing.T) {
	svc := newTestService(t)
	cat := seedCategory(t, svc.DB, "Media")

	tg, err := svc.Create(TagInput{Name: "video"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	a := seedItem(t, svc.DB, "A", cat.ID, "")
	link(t, svc.DB, a.ID, tg.ID)

	if err := svc.Delete("video"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	var links int64
	if err := svc.DB.Table("item_tags").Where("tag_id = ?", tg.ID).Count(&links).Error; err != nil {
		t.Fatalf("count links: %v", err)
	}
	if links != 0 {
		t.Fatalf("expected links removed, got %d", links)
	}

	if err := svc.Delete("video"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

package tag

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"coldstore-api/internal/category"
	"coldstore-api/internal/item"
	"coldstore-api/internal/util"
)

var (
	ErrNotFound      = errors.New("tag not found")
	ErrDuplicateName = errors.New("tag with this name already exists")
	ErrDuplicateSlug = errors.New("tag with this slug already exists")
)

type TagService struct {
	DB *gorm.DB
}

func (ts *TagService) GetAll(input TagListInput) ([]TagView, error) {
	q := ts.DB.Model(&Tag{})

	if input.CategoryID != nil {
		q = q.Where("category_id = ?", *input.CategoryID)
	}
	if input.Search != nil && strings.TrimSpace(*input.Search) != "" {
		like := "%" + strings.ToLower(strings.TrimSpace(*input.Search)) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	order := "name ASC"
	switch input.OrderBy {
	case "-name":
		order = "name DESC"
	case "created_at":
		order = "created_at ASC"
	case "-created_at":
		order = "created_at DESC"
	}

	var tags []Tag
	if err := q.Order(order).Find(&tags).Error; err != nil {
		return nil, err
	}
	return ts.buildViews(tags)
}

func (ts *TagService) buildViews(tags []Tag) ([]TagView, error) {
	categoryNames := map[uint]string{}

	views := make([]TagView, 0, len(tags))
	for i := range tags {
		tg := &tags[i]

		var usage int64
		if err := ts.DB.Table("item_tags").Where("tag_id = ?", tg.ID).Count(&usage).Error; err != nil {
			return nil, err
		}

		var catName string
		if tg.CategoryID != nil {
			name, ok := categoryNames[*tg.CategoryID]
			if !ok {
				var cat category.Category
				if err := ts.DB.Select("name").First(&cat, *tg.CategoryID).Error; err == nil {
					name = cat.Name
				}
				categoryNames[*tg.CategoryID] = name
			}
			catName = name
		}

		views = append(views, TagView{
			Tag:          *tg,
			CategoryName: catName,
			UsageCount:   usage,
		})
	}
	return views, nil
}

// GetBySlug is the canonical lookup; tags are addressed by slug, not id.
func (ts *TagService) GetBySlug(slug string) (*TagView, error) {
	var tg Tag
	if err := ts.DB.Where("slug = ?", slug).First(&tg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	views, err := ts.buildViews([]Tag{tg})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (ts *TagService) Create(input TagInput) (*Tag, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, errors.New("tag name is required")
	}

	slug := strings.TrimSpace(input.Slug)
	if slug == "" {
		slug = util.Slugify(name)
	}
	if slug == "" {
		return nil, errors.New("tag name must contain at least one letter or digit")
	}

	var existing Tag
	if err := ts.DB.Where("name = ?", name).First(&existing).Error; err == nil {
		return nil, ErrDuplicateName
	}
	if err := ts.DB.Where("slug = ?", slug).First(&existing).Error; err == nil {
		return nil, ErrDuplicateSlug
	}

	if input.CategoryID != nil {
		var cat category.Category
		if err := ts.DB.First(&cat, *input.CategoryID).Error; err != nil {
			return nil, fmt.Errorf("category %d not found", *input.CategoryID)
		}
	}

	color := input.Color
	if color == "" {
		color = DefaultColor
	}

	tg := Tag{
		Name:        name,
		Slug:        slug,
		Color:       color,
		Description: input.Description,
		CategoryID:  input.CategoryID,
	}
	if err := ts.DB.Create(&tg).Error; err != nil {
		return nil, err
	}
	return &tg, nil
}

func (ts *TagService) Update(slug string, input TagInput) (*Tag, error) {
	var tg Tag
	if err := ts.DB.Where("slug = ?", slug).First(&tg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name != "" && name != tg.Name {
		var existing Tag
		if err := ts.DB.Where("name = ? AND id <> ?", name, tg.ID).First(&existing).Error; err == nil {
			return nil, ErrDuplicateName
		}
		tg.Name = name
	}

	newSlug := strings.TrimSpace(input.Slug)
	if newSlug != "" && newSlug != tg.Slug {
		var existing Tag
		if err := ts.DB.Where("slug = ? AND id <> ?", newSlug, tg.ID).First(&existing).Error; err == nil {
			return nil, ErrDuplicateSlug
		}
		tg.Slug = newSlug
	}

	if input.Color != "" {
		tg.Color = input.Color
	}
	tg.Description = input.Description
	if input.CategoryID != nil {
		var cat category.Category
		if err := ts.DB.First(&cat, *input.CategoryID).Error; err != nil {
			return nil, fmt.Errorf("category %d not found", *input.CategoryID)
		}
		tg.CategoryID = input.CategoryID
	}

	if err := ts.DB.Save(&tg).Error; err != nil {
		return nil, err
	}
	return &tg, nil
}

func (ts *TagService) Delete(slug string) error {
	var tg Tag
	if err := ts.DB.Where("slug = ?", slug).First(&tg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	return ts.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM item_tags WHERE tag_id = ?", tg.ID).Error; err != nil {
			return err
		}
		return tx.Delete(&Tag{}, tg.ID).Error
	})
}

// GetItems lists the items linked to a tag.
func (ts *TagService) GetItems(slug string) ([]item.DataItem, error) {
	var tg Tag
	if err := ts.DB.Where("slug = ?", slug).First(&tg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var items []item.DataItem
	err := ts.DB.Model(&tg).Association("Items").Find(&items)
	if err != nil {
		return nil, err
	}
	return items, nil
}

// Popular returns the 20 most used tags.
func (ts *TagService) Popular() ([]TagView, error) {
	var tags []Tag
	err := ts.DB.Model(&Tag{}).
		Joins("LEFT JOIN item_tags ON item_tags.tag_id = tags.id").
		Group("tags.id").
		Order("COUNT(item_tags.data_item_id) DESC").
		Limit(20).
		Find(&tags).Error
	if err != nil {
		return nil, err
	}
	return ts.buildViews(tags)
}

// ByCategory groups tags under their category's name, with a final
// "Uncategorized" bucket. Categories without tags are omitted.
func (ts *TagService) ByCategory() (map[string][]TagView, error) {
	var tags []Tag
	if err := ts.DB.Order("name ASC").Find(&tags).Error; err != nil {
		return nil, err
	}

	views, err := ts.buildViews(tags)
	if err != nil {
		return nil, err
	}

	grouped := map[string][]TagView{}
	for _, view := range views {
		key := view.CategoryName
		if key == "" {
			key = "Uncategorized"
		}
		grouped[key] = append(grouped[key], view)
	}
	return grouped, nil
}

// Migrate converts every item's legacy comma-separated tags string into Tag
// rows and item_tags links. Existing tags are matched by slug; the legacy
// field itself is left untouched.
func (ts *TagService) Migrate() (*MigrateResult, error) {
	var items []item.DataItem
	if err := ts.DB.Where("tags <> ''").Find(&items).Error; err != nil {
		return nil, err
	}

	result := &MigrateResult{}
	bySlug := map[string]*Tag{}

	err := ts.DB.Transaction(func(tx *gorm.DB) error {
		for i := range items {
			di := &items[i]
			result.ItemsScanned++

			for _, name := range di.TagsList() {
				slug := util.Slugify(name)
				if slug == "" {
					continue
				}

				tg, ok := bySlug[slug]
				if !ok {
					var found Tag
					err := tx.Where("slug = ?", slug).First(&found).Error
					switch {
					case err == nil:
						tg = &found
					case errors.Is(err, gorm.ErrRecordNotFound):
						created := Tag{Name: name, Slug: slug, Color: DefaultColor}
						if err := tx.Create(&created).Error; err != nil {
							return err
						}
						tg = &created
						result.TagsCreated++
					default:
						return err
					}
					bySlug[slug] = tg
				}

				var linked int64
				if err := tx.Table("item_tags").
					Where("data_item_id = ? AND tag_id = ?", di.ID, tg.ID).
					Count(&linked).Error; err != nil {
					return err
				}
				if linked == 0 {
					if err := tx.Exec(
						"INSERT INTO item_tags (data_item_id, tag_id) VALUES (?, ?)",
						di.ID, tg.ID,
					).Error; err != nil {
						return err
					}
					result.LinksCreated++
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

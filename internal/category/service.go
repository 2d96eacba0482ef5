package category

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/iancoleman/orderedmap"
	"gorm.io/gorm"
)

var (
	ErrNotFound      = errors.New("category not found")
	ErrDuplicateName = errors.New("category with this name already exists")
	ErrCircularRef   = errors.New("category cannot be its own ancestor")
)

type CategoryService struct {
	DB *gorm.DB
}

func (cs *CategoryService) GetAll(input CategoryListInput) ([]CategoryView, error) {
	q := cs.DB.Model(&Category{})

	if input.Search != nil && strings.TrimSpace(*input.Search) != "" {
		like := "%" + strings.ToLower(strings.TrimSpace(*input.Search)) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}
	if input.ParentID != nil {
		q = q.Where("parent_id = ?", *input.ParentID)
	}

	order := "name ASC"
	switch input.OrderBy {
	case "created_at":
		order = "created_at ASC"
	case "-created_at":
		order = "created_at DESC"
	case "-name":
		order = "name DESC"
	}

	var categories []Category
	if err := q.Order(order).Find(&categories).Error; err != nil {
		return nil, err
	}

	views := make([]CategoryView, 0, len(categories))
	for i := range categories {
		view, err := cs.buildView(&categories[i])
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return views, nil
}

func (cs *CategoryService) GetByID(id uint) (*CategoryView, error) {
	var cat Category
	if err := cs.DB.First(&cat, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return cs.buildView(&cat)
}

func (cs *CategoryService) buildView(cat *Category) (*CategoryView, error) {
	path, err := cs.FullPath(cat.ID)
	if err != nil {
		return nil, err
	}

	var childrenCount int64
	if err := cs.DB.Model(&Category{}).Where("parent_id = ?", cat.ID).Count(&childrenCount).Error; err != nil {
		return nil, err
	}

	var itemCount int64
	if err := cs.DB.Table("data_items").Where("category_id = ?", cat.ID).Count(&itemCount).Error; err != nil {
		return nil, err
	}

	return &CategoryView{
		Category:      *cat,
		FullPath:      path,
		ChildrenCount: childrenCount,
		ItemCount:     itemCount,
	}, nil
}

func (cs *CategoryService) Create(input CategoryInput) (*Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, errors.New("category name is required")
	}

	var existing Category
	if err := cs.DB.Where("name = ?", name).First(&existing).Error; err == nil {
		return nil, ErrDuplicateName
	}

	if input.ParentID != nil {
		var parent Category
		if err := cs.DB.First(&parent, *input.ParentID).Error; err != nil {
			return nil, fmt.Errorf("parent category %d not found", *input.ParentID)
		}
	}

	cat := Category{
		Name:        name,
		Description: input.Description,
		ParentID:    input.ParentID,
	}
	if err := cs.DB.Create(&cat).Error; err != nil {
		return nil, err
	}
	return &cat, nil
}

func (cs *CategoryService) Update(id uint, input CategoryInput) (*Category, error) {
	var cat Category
	if err := cs.DB.First(&cat, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, errors.New("category name is required")
	}

	var existing Category
	if err := cs.DB.Where("name = ? AND id <> ?", name, id).First(&existing).Error; err == nil {
		return nil, ErrDuplicateName
	}

	if input.ParentID != nil {
		if err := cs.checkCircular(id, *input.ParentID); err != nil {
			return nil, err
		}
	}

	cat.Name = name
	cat.Description = input.Description
	cat.ParentID = input.ParentID
	if err := cs.DB.Save(&cat).Error; err != nil {
		return nil, err
	}
	return &cat, nil
}

// checkCircular rejects a parent that is the node itself or any of the
// node's descendants, by walking the ancestors of the proposed parent.
func (cs *CategoryService) checkCircular(id uint, parentID uint) error {
	if parentID == id {
		return ErrCircularRef
	}

	current := parentID
	seen := map[uint]bool{}
	for {
		if seen[current] {
			// pre-existing loop in the data; refuse to attach to it
			return ErrCircularRef
		}
		seen[current] = true

		var node Category
		if err := cs.DB.First(&node, current).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("parent category %d not found", current)
			}
			return err
		}
		if node.ParentID == nil {
			return nil
		}
		if *node.ParentID == id {
			return ErrCircularRef
		}
		current = *node.ParentID
	}
}

func (cs *CategoryService) FullPath(id uint) (string, error) {
	names := []string{}
	current := id
	seen := map[uint]bool{}

	for {
		if seen[current] {
			return "", ErrCircularRef
		}
		seen[current] = true

		var node Category
		if err := cs.DB.First(&node, current).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return "", ErrNotFound
			}
			return "", err
		}

		names = append([]string{strings.TrimSpace(node.Name)}, names...)
		if node.ParentID == nil {
			break
		}
		current = *node.ParentID
	}

	return strings.Join(names, PathSeparator), nil
}

func (cs *CategoryService) Descendants(id uint) ([]Category, error) {
	var root Category
	if err := cs.DB.First(&root, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	out := []Category{}
	queue := []uint{id}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		var children []Category
		if err := cs.DB.Where("parent_id = ?", current).Order("name ASC").Find(&children).Error; err != nil {
			return nil, err
		}
		for _, child := range children {
			out = append(out, child)
			queue = append(queue, child.ID)
		}
	}

	return out, nil
}

func (cs *CategoryService) GetItems(id uint) ([]CategoryItem, error) {
	if _, err := cs.GetByID(id); err != nil {
		return nil, err
	}

	items := []CategoryItem{}
	err := cs.DB.Table("data_items").
		Select("id, name, subcategory, size_estimate_gb, priority, status, updated_at").
		Where("category_id = ?", id).
		Order("updated_at DESC").
		Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (cs *CategoryService) GetStatistics(id uint) (*CategoryStatistics, error) {
	if _, err := cs.GetByID(id); err != nil {
		return nil, err
	}

	stats := CategoryStatistics{}

	if err := cs.DB.Table("data_items").Where("category_id = ?", id).Count(&stats.ItemCount).Error; err != nil {
		return nil, err
	}

	var total *float64
	if err := cs.DB.Table("data_items").
		Select("SUM(size_estimate_gb)").
		Where("category_id = ?", id).
		Scan(&total).Error; err != nil {
		return nil, err
	}
	if total != nil {
		stats.TotalSizeGB = *total
	}

	if err := cs.DB.Model(&Category{}).Where("parent_id = ?", id).Count(&stats.ChildrenCount).Error; err != nil {
		return nil, err
	}

	return &stats, nil
}

// Delete removes the category, its entire subtree and every dependent row.
// Explicit deletes rather than DB-level cascade so behavior matches on any
// backend.
func (cs *CategoryService) Delete(id uint) error {
	descendants, err := cs.Descendants(id)
	if err != nil {
		return err
	}

	ids := []uint{id}
	for _, d := range descendants {
		ids = append(ids, d.ID)
	}

	return cs.DB.Transaction(func(tx *gorm.DB) error {
		var itemIDs []uint
		if err := tx.Table("data_items").Where("category_id IN ?", ids).Pluck("id", &itemIDs).Error; err != nil {
			return err
		}

		if len(itemIDs) > 0 {
			if err := tx.Exec("DELETE FROM item_tags WHERE data_item_id IN ?", itemIDs).Error; err != nil {
				return err
			}
			if err := tx.Exec("DELETE FROM storage_files WHERE data_item_id IN ?", itemIDs).Error; err != nil {
				return err
			}
			if err := tx.Exec("DELETE FROM cost_estimates WHERE data_item_id IN ?", itemIDs).Error; err != nil {
				return err
			}
			if err := tx.Exec("DELETE FROM data_items WHERE id IN ?", itemIDs).Error; err != nil {
				return err
			}
		}

		return tx.Where("id IN ?", ids).Delete(&Category{}).Error
	})
}

func (cs *CategoryService) exportRows() ([]*orderedmap.OrderedMap, error) {
	var categories []Category
	if err := cs.DB.Preload("Parent").Order("name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}

	rows := make([]*orderedmap.OrderedMap, 0, len(categories))
	for i := range categories {
		cat := &categories[i]

		path, err := cs.FullPath(cat.ID)
		if err != nil {
			return nil, err
		}

		row := orderedmap.New()
		row.Set("id", cat.ID)
		row.Set("name", cat.Name)
		row.Set("description", cat.Description)
		if cat.ParentID != nil {
			row.Set("parent_id", *cat.ParentID)
		} else {
			row.Set("parent_id", nil)
		}
		if cat.Parent != nil {
			row.Set("parent_name", cat.Parent.Name)
		} else {
			row.Set("parent_name", nil)
		}
		row.Set("full_path", path)
		row.Set("created_at", cat.CreatedAt.Format(time.RFC3339))
		row.Set("updated_at", cat.UpdatedAt.Format(time.RFC3339))
		rows = append(rows, row)
	}
	return rows, nil
}

func (cs *CategoryService) ExportJSON() ([]byte, error) {
	rows, err := cs.exportRows()
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(rows, "", "  ")
}

func (cs *CategoryService) ExportCSV() ([]byte, error) {
	rows, err := cs.exportRows()
	if err != nil {
		return nil, err
	}

	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)

	header := []string{"id", "name", "description", "parent_id", "parent_name", "full_path", "created_at", "updated_at"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, row := range rows {
		rec := make([]string, 0, len(header))
		for _, col := range header {
			v, _ := row.Get(col)
			rec = append(rec, csvCell(v))
		}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}

func csvCell(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case uint:
		return strconv.FormatUint(uint64(t), 10)
	default:
		return fmt.Sprintf("%v", t)
	}
}

package item

import (
	"errors"
	"fmt"
	"strings"

	"coldstore-api/internal/category"
	"coldstore-api/internal/util"

	"gorm.io/gorm"
)

var (
	ErrNotFound     = errors.New("data item not found")
	ErrNegativeSize = errors.New("size estimate must be non-negative")
)

type ItemService struct {
	DB *gorm.DB
}

func (is *ItemService) categories() *category.CategoryService {
	return &category.CategoryService{DB: is.DB}
}

func (is *ItemService) applyFilters(q *gorm.DB, input ItemListInput) *gorm.DB {
	if input.CategoryID != nil {
		q = q.Where("category_id = ?", *input.CategoryID)
	}
	if input.Status != nil && strings.TrimSpace(*input.Status) != "" {
		q = q.Where("status = ?", strings.TrimSpace(*input.Status))
	}
	if input.Priority != nil && strings.TrimSpace(*input.Priority) != "" {
		q = q.Where("priority = ?", strings.TrimSpace(*input.Priority))
	}
	if input.Search != nil && strings.TrimSpace(*input.Search) != "" {
		like := "%" + strings.ToLower(strings.TrimSpace(*input.Search)) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(tags) LIKE ? OR LOWER(description) LIKE ?", like, like, like)
	}
	return q
}

func orderClause(orderBy string) string {
	switch orderBy {
	case "name":
		return "name ASC"
	case "-name":
		return "name DESC"
	case "created_at":
		return "created_at ASC"
	case "-created_at":
		return "created_at DESC"
	case "updated_at":
		return "updated_at ASC"
	case "size_estimate_gb":
		return "size_estimate_gb ASC"
	case "-size_estimate_gb":
		return "size_estimate_gb DESC"
	default:
		return "updated_at DESC"
	}
}

func (is *ItemService) GetAll(input ItemListInput) ([]ItemView, error) {
	q := is.applyFilters(is.DB.Model(&DataItem{}), input).Preload("Category")

	var items []DataItem
	if err := q.Order(orderClause(input.OrderBy)).Find(&items).Error; err != nil {
		return nil, err
	}

	return is.buildViews(items)
}

func (is *ItemService) buildViews(items []DataItem) ([]ItemView, error) {
	// Full paths are cached per category; lists usually share a handful.
	pathCache := map[uint]string{}

	views := make([]ItemView, 0, len(items))
	for i := range items {
		di := items[i]

		path, ok := pathCache[di.CategoryID]
		if !ok {
			var err error
			path, err = is.categories().FullPath(di.CategoryID)
			if err != nil {
				return nil, err
			}
			pathCache[di.CategoryID] = path
		}

		categoryName := ""
		if di.Category != nil {
			categoryName = di.Category.Name
		}

		views = append(views, ItemView{
			DataItem:        di,
			CategoryName:    categoryName,
			CategoryPath:    path,
			SizeText:        di.SizeDisplay(),
			PriorityText:    di.PriorityDisplay(),
			StatusText:      di.StatusDisplay(),
			TagsListDerived: di.TagsList(),
		})
	}
	return views, nil
}

func (is *ItemService) GetByID(id uint) (*ItemView, error) {
	var di DataItem
	if err := is.DB.Preload("Category").First(&di, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	views, err := is.buildViews([]DataItem{di})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (is *ItemService) validate(input *ItemInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return errors.New("item name is required")
	}
	if input.SizeEstimateGB != nil && *input.SizeEstimateGB < 0 {
		return ErrNegativeSize
	}

	if input.Priority == "" {
		input.Priority = PriorityMedium
	} else if !ValidPriority(input.Priority) {
		return fmt.Errorf("invalid priority %q", input.Priority)
	}

	if input.Status == "" {
		input.Status = StatusPlanned
	} else if !ValidStatus(input.Status) {
		return fmt.Errorf("invalid status %q", input.Status)
	}

	var cat category.Category
	if err := is.DB.First(&cat, input.CategoryID).Error; err != nil {
		return fmt.Errorf("category %d not found", input.CategoryID)
	}

	return nil
}

func (is *ItemService) Create(input ItemInput) (*DataItem, error) {
	if err := is.validate(&input); err != nil {
		return nil, err
	}

	di := DataItem{
		Name:           strings.TrimSpace(input.Name),
		CategoryID:     input.CategoryID,
		Subcategory:    input.Subcategory,
		Description:    input.Description,
		Examples:       input.Examples,
		SizeEstimateGB: input.SizeEstimateGB,
		Tags:           util.JoinCommaList(util.SplitCommaList(input.Tags)),
		SourceURL:      input.SourceURL,
		Notes:          input.Notes,
		Priority:       input.Priority,
		Status:         input.Status,
	}
	if err := is.DB.Create(&di).Error; err != nil {
		return nil, err
	}
	return &di, nil
}

func (is *ItemService) Update(id uint, input ItemInput) (*DataItem, error) {
	var di DataItem
	if err := is.DB.First(&di, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := is.validate(&input); err != nil {
		return nil, err
	}

	di.Name = strings.TrimSpace(input.Name)
	di.CategoryID = input.CategoryID
	di.Subcategory = input.Subcategory
	di.Description = input.Description
	di.Examples = input.Examples
	di.SizeEstimateGB = input.SizeEstimateGB
	di.Tags = util.JoinCommaList(util.SplitCommaList(input.Tags))
	di.SourceURL = input.SourceURL
	di.Notes = input.Notes
	di.Priority = input.Priority
	di.Status = input.Status

	if err := is.DB.Save(&di).Error; err != nil {
		return nil, err
	}
	return &di, nil
}

// Delete removes the item and its dependent rows.
func (is *ItemService) Delete(id uint) error {
	var di DataItem
	if err := is.DB.First(&di, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	return is.DB.Transaction(func(tx *gorm.DB) error {
		return is.deleteDependents(tx, []uint{id})
	})
}

func (is *ItemService) deleteDependents(tx *gorm.DB, itemIDs []uint) error {
	if len(itemIDs) == 0 {
		return nil
	}
	if err := tx.Exec("DELETE FROM item_tags WHERE data_item_id IN ?", itemIDs).Error; err != nil {
		return err
	}
	if err := tx.Exec("DELETE FROM storage_files WHERE data_item_id IN ?", itemIDs).Error; err != nil {
		return err
	}
	if err := tx.Exec("DELETE FROM cost_estimates WHERE data_item_id IN ?", itemIDs).Error; err != nil {
		return err
	}
	return tx.Exec("DELETE FROM data_items WHERE id IN ?", itemIDs).Error
}

func (is *ItemService) GetStatistics() (*ItemStatistics, error) {
	stats := ItemStatistics{}

	if err := is.DB.Model(&DataItem{}).Count(&stats.TotalItems).Error; err != nil {
		return nil, err
	}

	var agg struct {
		Total *float64
		Avg   *float64
	}
	if err := is.DB.Model(&DataItem{}).
		Select("SUM(size_estimate_gb) AS total, AVG(size_estimate_gb) AS avg").
		Scan(&agg).Error; err != nil {
		return nil, err
	}
	if agg.Total != nil {
		stats.TotalSizeGB = *agg.Total
	}
	if agg.Avg != nil {
		stats.AverageSizeGB = *agg.Avg
	}

	statusRows, err := is.breakdown("status")
	if err != nil {
		return nil, err
	}
	stats.StatusBreakdown = statusRows

	priorityRows, err := is.breakdown("priority")
	if err != nil {
		return nil, err
	}
	stats.PriorityBreakdown = priorityRows

	return &stats, nil
}

func (is *ItemService) breakdown(column string) ([]BreakdownEntry, error) {
	rows := []BreakdownEntry{}
	err := is.DB.Model(&DataItem{}).
		Select(column + " AS label, COUNT(*) AS count").
		Group(column).
		Order("count DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (is *ItemService) GetCategoryBreakdown() ([]CategoryBreakdown, error) {
	rows := []CategoryBreakdown{}
	err := is.DB.Table("categories c").
		Select("c.id AS category_id, c.name AS category_name, COUNT(di.id) AS item_count, SUM(di.size_estimate_gb) AS total_size_gb").
		Joins("LEFT JOIN data_items di ON di.category_id = c.id").
		Group("c.id, c.name").
		Order("total_size_gb DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (is *ItemService) Batch(input BatchInput) (*BatchResult, error) {
	// Resolve the target set to ids up front: item_ids wins, then the
	// filter; no ids and no filter means the whole table.
	sel := is.DB.Model(&DataItem{})
	if len(input.ItemIDs) > 0 {
		sel = sel.Where("id IN ?", input.ItemIDs)
	} else if input.Filters != nil {
		sel = is.applyFilters(sel, *input.Filters)
	}

	var ids []uint
	if err := sel.Pluck("id", &ids).Error; err != nil {
		return nil, err
	}

	byID := func() *gorm.DB {
		return is.DB.Model(&DataItem{}).Where("id IN ?", ids)
	}

	result := BatchResult{Operation: input.Operation}

	switch input.Operation {
	case "update_status":
		if !ValidStatus(input.Status) {
			return nil, fmt.Errorf("invalid status %q", input.Status)
		}
		res := byID().Update("status", input.Status)
		if res.Error != nil {
			return nil, res.Error
		}
		result.Affected = res.RowsAffected

	case "update_priority":
		if !ValidPriority(input.Priority) {
			return nil, fmt.Errorf("invalid priority %q", input.Priority)
		}
		res := byID().Update("priority", input.Priority)
		if res.Error != nil {
			return nil, res.Error
		}
		result.Affected = res.RowsAffected

	case "update_category":
		if input.CategoryID == nil {
			return nil, errors.New("category_id is required")
		}
		var cat category.Category
		if err := is.DB.First(&cat, *input.CategoryID).Error; err != nil {
			return nil, fmt.Errorf("category %d not found", *input.CategoryID)
		}
		res := byID().Update("category_id", *input.CategoryID)
		if res.Error != nil {
			return nil, res.Error
		}
		result.Affected = res.RowsAffected

	case "add_tags", "remove_tags", "set_tags":
		affected, err := is.batchTags(byID(), input.Operation, input.Tags)
		if err != nil {
			return nil, err
		}
		result.Affected = affected

	case "delete":
		err := is.DB.Transaction(func(tx *gorm.DB) error {
			return is.deleteDependents(tx, ids)
		})
		if err != nil {
			return nil, err
		}
		result.Affected = int64(len(ids))

	default:
		return nil, fmt.Errorf("unknown operation %q", input.Operation)
	}

	return &result, nil
}

// batchTags manipulates the legacy comma-separated tags string per item.
func (is *ItemService) batchTags(q *gorm.DB, operation, tags string) (int64, error) {
	newTags := util.SplitCommaList(tags)
	if len(newTags) == 0 && operation != "set_tags" {
		return 0, errors.New("tags are required")
	}

	var items []DataItem
	if err := q.Find(&items).Error; err != nil {
		return 0, err
	}

	var affected int64
	for i := range items {
		di := &items[i]
		current := di.TagsList()

		var next []string
		switch operation {
		case "add_tags":
			seen := map[string]bool{}
			for _, t := range current {
				seen[t] = true
				next = append(next, t)
			}
			for _, t := range newTags {
				if !seen[t] {
					seen[t] = true
					next = append(next, t)
				}
			}
		case "remove_tags":
			drop := map[string]bool{}
			for _, t := range newTags {
				drop[t] = true
			}
			for _, t := range current {
				if !drop[t] {
					next = append(next, t)
				}
			}
		case "set_tags":
			next = newTags
		}

		joined := util.JoinCommaList(next)
		if joined == di.Tags {
			continue
		}

		if err := is.DB.Model(&DataItem{}).Where("id = ?", di.ID).Update("tags", joined).Error; err != nil {
			return affected, err
		}
		affected++
	}

	return affected, nil
}

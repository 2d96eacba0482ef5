package estimate

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"coldstore-api/internal/item"
	"coldstore-api/internal/provider"
	"coldstore-api/internal/util"
)

var (
	ErrNotFound    = errors.New("cost estimate not found")
	ErrDuplicate   = errors.New("an active estimate for this item and provider already exists")
	ErrNoEstimates = errors.New("no estimates found for this data item")
)

type EstimateService struct {
	DB *gorm.DB
}

func (es *EstimateService) GetAll(input EstimateListInput) ([]EstimateView, error) {
	q := es.DB.Model(&CostEstimate{}).Preload("DataItem").Preload("Provider")

	if input.DataItemID != nil {
		q = q.Where("data_item_id = ?", *input.DataItemID)
	}
	if input.ProviderID != nil {
		q = q.Where("provider_id = ?", *input.ProviderID)
	}
	if input.IsActive != nil {
		q = q.Where("is_active = ?", *input.IsActive)
	}
	if input.Search != nil && strings.TrimSpace(*input.Search) != "" {
		like := "%" + strings.ToLower(strings.TrimSpace(*input.Search)) + "%"
		q = q.Where("LOWER(notes) LIKE ?", like)
	}

	order := "created_at DESC"
	switch input.OrderBy {
	case "created_at":
		order = "created_at ASC"
	case "monthly_storage_cost":
		order = "monthly_storage_cost ASC"
	case "-monthly_storage_cost":
		order = "monthly_storage_cost DESC"
	case "annual_storage_cost":
		order = "annual_storage_cost ASC"
	case "-annual_storage_cost":
		order = "annual_storage_cost DESC"
	}

	var estimates []CostEstimate
	if err := q.Order(order).Find(&estimates).Error; err != nil {
		return nil, err
	}

	views := make([]EstimateView, 0, len(estimates))
	for i := range estimates {
		views = append(views, buildView(&estimates[i]))
	}
	return views, nil
}

func buildView(ce *CostEstimate) EstimateView {
	view := EstimateView{
		CostEstimate:   *ce,
		TotalFirstYear: ce.TotalFirstYearCost(),
	}
	if ce.DataItem != nil {
		view.DataItemName = ce.DataItem.Name
	}
	if ce.Provider != nil {
		view.ProviderName = ce.Provider.Name
	}
	if ce.ActualMonthlyCost != nil {
		cmp := CostComparison{
			EstimatedMonthly: ce.MonthlyStorageCost,
			ActualMonthly:    util.Round2(*ce.ActualMonthlyCost),
			Difference:       util.Round2(*ce.ActualMonthlyCost - ce.MonthlyStorageCost),
		}
		if ce.MonthlyStorageCost != 0 {
			cmp.PercentDifference = util.Round2((*ce.ActualMonthlyCost - ce.MonthlyStorageCost) / ce.MonthlyStorageCost * 100)
		}
		view.CostComparison = &cmp
	}
	return view
}

func (es *EstimateService) GetByID(id uint) (*EstimateView, error) {
	ce, err := es.load(id)
	if err != nil {
		return nil, err
	}
	view := buildView(ce)
	return &view, nil
}

func (es *EstimateService) load(id uint) (*CostEstimate, error) {
	var ce CostEstimate
	if err := es.DB.Preload("DataItem").Preload("Provider").First(&ce, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &ce, nil
}

// Create prices an item against a provider. The size defaults to the item's
// own estimate when not given. Only one active estimate may exist per
// (item, provider) pair.
func (es *EstimateService) Create(input EstimateInput) (*CostEstimate, error) {
	var di item.DataItem
	if err := es.DB.First(&di, input.DataItemID).Error; err != nil {
		return nil, fmt.Errorf("data item %d not found", input.DataItemID)
	}
	var sp provider.StorageProvider
	if err := es.DB.First(&sp, input.ProviderID).Error; err != nil {
		return nil, fmt.Errorf("provider %d not found", input.ProviderID)
	}

	if input.RetrievalFrequency < 0 {
		return nil, errors.New("retrieval_frequency cannot be negative")
	}

	active := true
	if input.IsActive != nil {
		active = *input.IsActive
	}

	if active {
		var existing CostEstimate
		err := es.DB.Where("data_item_id = ? AND provider_id = ? AND is_active = ?",
			input.DataItemID, input.ProviderID, true).First(&existing).Error
		if err == nil {
			return nil, ErrDuplicate
		}
	}

	sizeGB := 0.0
	if input.EstimatedSizeGB != nil {
		sizeGB = *input.EstimatedSizeGB
	} else if di.SizeEstimateGB != nil {
		sizeGB = *di.SizeEstimateGB
	}
	if sizeGB < 0 {
		return nil, errors.New("estimated_size_gb cannot be negative")
	}

	ce := CostEstimate{
		DataItemID:          input.DataItemID,
		ProviderID:          input.ProviderID,
		EstimatedSizeGB:     sizeGB,
		RetrievalFrequency:  input.RetrievalFrequency,
		ActualMonthlyCost:   input.ActualMonthlyCost,
		ActualRetrievalCost: input.ActualRetrievalCost,
		BandwidthCost:       input.BandwidthCost,
		APIRequestCost:      input.APIRequestCost,
		IsActive:            active,
		Notes:               input.Notes,
	}
	ce.CalculateCosts(&sp)

	if err := es.DB.Create(&ce).Error; err != nil {
		return nil, err
	}
	return &ce, nil
}

func (es *EstimateService) Update(id uint, input EstimateInput) (*CostEstimate, error) {
	ce, err := es.load(id)
	if err != nil {
		return nil, err
	}

	if input.RetrievalFrequency < 0 {
		return nil, errors.New("retrieval_frequency cannot be negative")
	}

	if input.DataItemID != 0 {
		ce.DataItemID = input.DataItemID
	}
	if input.ProviderID != 0 {
		ce.ProviderID = input.ProviderID
	}

	active := ce.IsActive
	if input.IsActive != nil {
		active = *input.IsActive
	}
	if active {
		var existing CostEstimate
		err := es.DB.Where("data_item_id = ? AND provider_id = ? AND is_active = ? AND id <> ?",
			ce.DataItemID, ce.ProviderID, true, id).First(&existing).Error
		if err == nil {
			return nil, ErrDuplicate
		}
	}
	ce.IsActive = active

	if input.EstimatedSizeGB != nil {
		if *input.EstimatedSizeGB < 0 {
			return nil, errors.New("estimated_size_gb cannot be negative")
		}
		ce.EstimatedSizeGB = *input.EstimatedSizeGB
	}
	ce.RetrievalFrequency = input.RetrievalFrequency
	if input.ActualMonthlyCost != nil {
		ce.ActualMonthlyCost = input.ActualMonthlyCost
	}
	if input.ActualRetrievalCost != nil {
		ce.ActualRetrievalCost = input.ActualRetrievalCost
	}
	if input.BandwidthCost != nil {
		ce.BandwidthCost = input.BandwidthCost
	}
	if input.APIRequestCost != nil {
		ce.APIRequestCost = input.APIRequestCost
	}
	ce.Notes = input.Notes

	var sp provider.StorageProvider
	if err := es.DB.First(&sp, ce.ProviderID).Error; err != nil {
		return nil, fmt.Errorf("provider %d not found", ce.ProviderID)
	}
	ce.CalculateCosts(&sp)

	if err := es.DB.Save(ce).Error; err != nil {
		return nil, err
	}
	return ce, nil
}

func (es *EstimateService) Delete(id uint) error {
	if _, err := es.load(id); err != nil {
		return err
	}
	return es.DB.Delete(&CostEstimate{}, id).Error
}

// Recalculate rederives one estimate's costs from the provider's current
// rates.
func (es *EstimateService) Recalculate(id uint) (*EstimateView, error) {
	ce, err := es.load(id)
	if err != nil {
		return nil, err
	}

	var sp provider.StorageProvider
	if err := es.DB.First(&sp, ce.ProviderID).Error; err != nil {
		return nil, fmt.Errorf("provider %d not found", ce.ProviderID)
	}

	ce.CalculateCosts(&sp)
	if err := es.DB.Save(ce).Error; err != nil {
		return nil, err
	}

	view := buildView(ce)
	return &view, nil
}

// BulkRecalculate refreshes every active estimate, picking up provider rate
// changes in one sweep.
func (es *EstimateService) BulkRecalculate() (*BulkRecalculateResult, error) {
	var estimates []CostEstimate
	if err := es.DB.Preload("Provider").Where("is_active = ?", true).Find(&estimates).Error; err != nil {
		return nil, err
	}

	updated := 0
	for i := range estimates {
		ce := &estimates[i]
		if ce.Provider == nil {
			continue
		}
		ce.CalculateCosts(ce.Provider)
		if err := es.DB.Save(ce).Error; err != nil {
			return nil, err
		}
		updated++
	}

	return &BulkRecalculateResult{
		Message:      fmt.Sprintf("Recalculated costs for %d estimate(s)", updated),
		UpdatedCount: updated,
	}, nil
}

// GetSummary totals the active estimates and breaks them down per provider.
func (es *EstimateService) GetSummary() (*Summary, error) {
	var totals struct {
		TotalEstimates int64
		TotalMonthly   float64
		TotalAnnual    float64
		AvgMonthly     float64
		TotalSize      float64
	}
	err := es.DB.Model(&CostEstimate{}).
		Where("is_active = ?", true).
		Select(`COUNT(id) AS total_estimates,
			COALESCE(SUM(monthly_storage_cost), 0) AS total_monthly,
			COALESCE(SUM(annual_storage_cost), 0) AS total_annual,
			COALESCE(AVG(monthly_storage_cost), 0) AS avg_monthly,
			COALESCE(SUM(estimated_size_gb), 0) AS total_size`).
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}

	var byProvider []ProviderSummary
	err = es.DB.Model(&CostEstimate{}).
		Joins("JOIN storage_providers ON storage_providers.id = cost_estimates.provider_id").
		Where("cost_estimates.is_active = ?", true).
		Select(`storage_providers.name AS provider_name,
			storage_providers.provider_type AS provider_type,
			COUNT(cost_estimates.id) AS estimate_count,
			COALESCE(SUM(cost_estimates.monthly_storage_cost), 0) AS total_monthly,
			COALESCE(SUM(cost_estimates.annual_storage_cost), 0) AS total_annual,
			COALESCE(SUM(cost_estimates.estimated_size_gb), 0) AS total_size_gb`).
		Group("storage_providers.name, storage_providers.provider_type").
		Order("total_annual DESC").
		Scan(&byProvider).Error
	if err != nil {
		return nil, err
	}

	return &Summary{
		Totals: SummaryTotals{
			TotalEstimates:       totals.TotalEstimates,
			TotalMonthlyCost:     util.Round2(totals.TotalMonthly),
			TotalAnnualCost:      util.Round2(totals.TotalAnnual),
			AverageMonthlyCost:   util.Round2(totals.AvgMonthly),
			TotalEstimatedSizeGB: util.Round2(totals.TotalSize),
		},
		ByProvider: byProvider,
	}, nil
}

// GetComparison lines up every active estimate for one item and names the
// cheapest first-year option.
func (es *EstimateService) GetComparison(dataItemID uint) (*Comparison, error) {
	var estimates []CostEstimate
	err := es.DB.Preload("DataItem").Preload("Provider").
		Where("data_item_id = ? AND is_active = ?", dataItemID, true).
		Find(&estimates).Error
	if err != nil {
		return nil, err
	}
	if len(estimates) == 0 {
		return nil, ErrNoEstimates
	}

	views := make([]EstimateView, 0, len(estimates))
	cheapest := &estimates[0]
	for i := range estimates {
		views = append(views, buildView(&estimates[i]))
		if estimates[i].TotalFirstYearCost() < cheapest.TotalFirstYearCost() {
			cheapest = &estimates[i]
		}
	}

	comparison := &Comparison{
		Estimates: views,
		Cheapest: CheapestProvider{
			ID:                 cheapest.ProviderID,
			TotalFirstYearCost: cheapest.TotalFirstYearCost(),
		},
	}
	if cheapest.Provider != nil {
		comparison.Cheapest.Name = cheapest.Provider.Name
	}
	if first := estimates[0].DataItem; first != nil {
		comparison.DataItem = ItemRef{ID: first.ID, Name: first.Name}
	}
	return comparison, nil
}

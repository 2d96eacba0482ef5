package provider

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"

	"coldstore-api/internal/util"
)

var (
	ErrNotFound      = errors.New("storage provider not found")
	ErrDuplicateName = errors.New("provider with this name already exists")
	ErrNegativeCost  = errors.New("costs cannot be negative")
)

type ProviderService struct {
	DB *gorm.DB
}

func (ps *ProviderService) GetAll(input ProviderListInput) ([]StorageProvider, error) {
	q := ps.DB.Model(&StorageProvider{})

	if input.ProviderType != nil && *input.ProviderType != "" {
		q = q.Where("provider_type = ?", *input.ProviderType)
	}
	if input.IsActive != nil {
		q = q.Where("is_active = ?", *input.IsActive)
	}
	if input.Search != nil && strings.TrimSpace(*input.Search) != "" {
		like := "%" + strings.ToLower(strings.TrimSpace(*input.Search)) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	order := "name ASC"
	switch input.OrderBy {
	case "-name":
		order = "name DESC"
	case "cost_per_gb_monthly":
		order = "cost_per_gb_monthly ASC"
	case "-cost_per_gb_monthly":
		order = "cost_per_gb_monthly DESC"
	case "created_at":
		order = "created_at ASC"
	case "-created_at":
		order = "created_at DESC"
	}

	var providers []StorageProvider
	if err := q.Order(order).Find(&providers).Error; err != nil {
		return nil, err
	}
	return providers, nil
}

func (ps *ProviderService) GetByID(id uint) (*StorageProvider, error) {
	var sp StorageProvider
	if err := ps.DB.First(&sp, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &sp, nil
}

func validateCosts(input ProviderInput) error {
	for _, c := range []*float64{input.CostPerGBMonthly, input.RetrievalCostPerGB, input.APICostPer1000Requests} {
		if c != nil && *c < 0 {
			return ErrNegativeCost
		}
	}
	return nil
}

func (ps *ProviderService) Create(input ProviderInput) (*StorageProvider, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, errors.New("provider name is required")
	}
	if err := validateCosts(input); err != nil {
		return nil, err
	}

	providerType := input.ProviderType
	if providerType == "" {
		providerType = TypeCloud
	}
	if !ValidType(providerType) {
		return nil, fmt.Errorf("invalid provider type %q", providerType)
	}

	var existing StorageProvider
	if err := ps.DB.Where("name = ?", name).First(&existing).Error; err == nil {
		return nil, ErrDuplicateName
	}

	sp := StorageProvider{
		Name:         name,
		ProviderType: providerType,
		Description:  input.Description,
		URL:          input.URL,
		IsActive:     true,
	}
	if input.CostPerGBMonthly != nil {
		sp.CostPerGBMonthly = *input.CostPerGBMonthly
	}
	if input.RetrievalCostPerGB != nil {
		sp.RetrievalCostPerGB = *input.RetrievalCostPerGB
	}
	if input.APICostPer1000Requests != nil {
		sp.APICostPer1000Requests = *input.APICostPer1000Requests
	}
	if input.IsActive != nil {
		sp.IsActive = *input.IsActive
	}

	if err := ps.DB.Create(&sp).Error; err != nil {
		return nil, err
	}
	return &sp, nil
}

func (ps *ProviderService) Update(id uint, input ProviderInput) (*StorageProvider, error) {
	sp, err := ps.GetByID(id)
	if err != nil {
		return nil, err
	}
	if err := validateCosts(input); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name != "" && name != sp.Name {
		var existing StorageProvider
		if err := ps.DB.Where("name = ? AND id <> ?", name, id).First(&existing).Error; err == nil {
			return nil, ErrDuplicateName
		}
		sp.Name = name
	}
	if input.ProviderType != "" {
		if !ValidType(input.ProviderType) {
			return nil, fmt.Errorf("invalid provider type %q", input.ProviderType)
		}
		sp.ProviderType = input.ProviderType
	}
	if input.CostPerGBMonthly != nil {
		sp.CostPerGBMonthly = *input.CostPerGBMonthly
	}
	if input.RetrievalCostPerGB != nil {
		sp.RetrievalCostPerGB = *input.RetrievalCostPerGB
	}
	if input.APICostPer1000Requests != nil {
		sp.APICostPer1000Requests = *input.APICostPer1000Requests
	}
	sp.Description = input.Description
	sp.URL = input.URL
	if input.IsActive != nil {
		sp.IsActive = *input.IsActive
	}

	if err := ps.DB.Save(sp).Error; err != nil {
		return nil, err
	}
	return sp, nil
}

func (ps *ProviderService) Delete(id uint) error {
	if _, err := ps.GetByID(id); err != nil {
		return err
	}
	return ps.DB.Delete(&StorageProvider{}, id).Error
}

// GetEstimates lists the active cost estimates referencing one provider.
func (ps *ProviderService) GetEstimates(id uint) ([]EstimateRecord, error) {
	if _, err := ps.GetByID(id); err != nil {
		return nil, err
	}

	var rows []EstimateRecord
	err := ps.DB.Table("cost_estimates").
		Where("provider_id = ? AND is_active = ?", id, true).
		Order("created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Compare lists active providers cheapest first, with how many active
// estimates reference each.
func (ps *ProviderService) Compare() ([]ComparisonRow, error) {
	var providers []StorageProvider
	if err := ps.DB.Where("is_active = ?", true).Find(&providers).Error; err != nil {
		return nil, err
	}

	rows := make([]ComparisonRow, 0, len(providers))
	for i := range providers {
		sp := &providers[i]

		var count int64
		if err := ps.DB.Table("cost_estimates").
			Where("provider_id = ? AND is_active = ?", sp.ID, true).
			Count(&count).Error; err != nil {
			return nil, err
		}

		rows = append(rows, ComparisonRow{
			ID:                     sp.ID,
			Name:                   sp.Name,
			ProviderType:           sp.TypeDisplay(),
			CostPerGBMonthly:       sp.CostPerGBMonthly,
			RetrievalCostPerGB:     sp.RetrievalCostPerGB,
			APICostPer1000Requests: sp.APICostPer1000Requests,
			EstimateCount:          count,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		return rows[i].CostPerGBMonthly < rows[j].CostPerGBMonthly
	})
	return rows, nil
}

// CalculateEstimate prices a hypothetical archive of the given size against
// every active provider, cheapest first year first.
func (ps *ProviderService) CalculateEstimate(input CalculateInput) (*CalculateResult, error) {
	if input.SizeGB == nil || *input.SizeGB <= 0 {
		return nil, errors.New("size_gb is required")
	}
	if input.RetrievalFrequency < 0 {
		return nil, errors.New("retrieval_frequency cannot be negative")
	}

	var providers []StorageProvider
	if err := ps.DB.Where("is_active = ?", true).Find(&providers).Error; err != nil {
		return nil, err
	}

	sizeGB := *input.SizeGB
	estimates := make([]ProviderEstimate, 0, len(providers))
	for i := range providers {
		sp := &providers[i]

		monthly := sp.CostPerGBMonthly * sizeGB
		annual := monthly * 12
		retrieval := sp.RetrievalCostPerGB * sizeGB * input.RetrievalFrequency

		estimates = append(estimates, ProviderEstimate{
			ProviderID:             sp.ID,
			ProviderName:           sp.Name,
			ProviderType:           sp.TypeDisplay(),
			MonthlyStorageCost:     util.Round2(monthly),
			AnnualStorageCost:      util.Round2(annual),
			EstimatedRetrievalCost: util.Round2(retrieval),
			TotalFirstYearCost:     util.Round2(annual + retrieval),
		})
	}

	sort.Slice(estimates, func(i, j int) bool {
		return estimates[i].TotalFirstYearCost < estimates[j].TotalFirstYearCost
	})

	return &CalculateResult{
		SizeGB:             sizeGB,
		RetrievalFrequency: input.RetrievalFrequency,
		Estimates:          estimates,
	}, nil
}

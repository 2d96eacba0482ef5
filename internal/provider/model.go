package provider

import (
	"time"
)

const (
	TypeCloud    = "cloud"
	TypePhysical = "physical"
	TypeHybrid   = "hybrid"
)

var typeDisplay = map[string]string{
	TypeCloud:    "Cloud Storage",
	TypePhysical: "Physical Media",
	TypeHybrid:   "Hybrid",
}

func ValidType(t string) bool {
	_, ok := typeDisplay[t]
	return ok
}

// StorageProvider is one vendor or medium that archived data can live on,
// with its pricing in dollars.
type StorageProvider struct {
	ID                     uint      `gorm:"primaryKey" json:"id"`
	Name                   string    `gorm:"size:100;uniqueIndex;not null" json:"name"`
	ProviderType           string    `gorm:"size:20;default:'cloud'" json:"provider_type"`
	CostPerGBMonthly       float64   `gorm:"column:cost_per_gb_monthly;not null;default:0" json:"cost_per_gb_monthly"`
	RetrievalCostPerGB     float64   `gorm:"column:retrieval_cost_per_gb;not null;default:0" json:"retrieval_cost_per_gb"`
	APICostPer1000Requests float64   `gorm:"column:api_cost_per_1000_requests;not null;default:0" json:"api_cost_per_1000_requests"`
	Description            string    `gorm:"type:text" json:"description"`
	URL                    string    `gorm:"size:500" json:"url"`
	IsActive               bool      `gorm:"default:true" json:"is_active"`
	CreatedAt              time.Time `json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`
}

func (StorageProvider) TableName() string {
	return "storage_providers"
}

func (sp *StorageProvider) TypeDisplay() string {
	if d, ok := typeDisplay[sp.ProviderType]; ok {
		return d
	}
	return sp.ProviderType
}

type ProviderInput struct {
	Name                   string   `json:"name" binding:"required"`
	ProviderType           string   `json:"provider_type"`
	CostPerGBMonthly       *float64 `json:"cost_per_gb_monthly"`
	RetrievalCostPerGB     *float64 `json:"retrieval_cost_per_gb"`
	APICostPer1000Requests *float64 `json:"api_cost_per_1000_requests"`
	Description            string   `json:"description"`
	URL                    string   `json:"url"`
	IsActive               *bool    `json:"is_active"`
}

type ProviderListInput struct {
	ProviderType *string `form:"provider_type"`
	IsActive     *bool   `form:"is_active"`
	Search       *string `form:"q"`
	OrderBy      string  `form:"order_by"`
}

// ComparisonRow is one active provider's pricing next to how many estimates
// reference it.
type ComparisonRow struct {
	ID                     uint    `json:"id"`
	Name                   string  `json:"name"`
	ProviderType           string  `json:"provider_type"`
	CostPerGBMonthly       float64 `json:"cost_per_gb_monthly"`
	RetrievalCostPerGB     float64 `json:"retrieval_cost_per_gb"`
	APICostPer1000Requests float64 `json:"api_cost_per_1000_requests"`
	EstimateCount          int64   `json:"estimate_count"`
}

// EstimateRecord is a cost estimate row scanned straight from the
// cost_estimates table, for listing a provider's active estimates.
type EstimateRecord struct {
	ID                 uint    `json:"id"`
	DataItemID         uint    `gorm:"column:data_item_id" json:"data_item"`
	EstimatedSizeGB    float64 `gorm:"column:estimated_size_gb" json:"estimated_size_gb"`
	MonthlyStorageCost float64 `json:"monthly_storage_cost"`
	AnnualStorageCost  float64 `json:"annual_storage_cost"`
	RetrievalFrequency float64 `json:"retrieval_frequency"`
	IsActive           bool    `json:"is_active"`
}

type CalculateInput struct {
	SizeGB             *float64 `json:"size_gb" binding:"required"`
	RetrievalFrequency float64  `json:"retrieval_frequency"`
}

type ProviderEstimate struct {
	ProviderID             uint    `json:"provider_id"`
	ProviderName           string  `json:"provider_name"`
	ProviderType           string  `json:"provider_type"`
	MonthlyStorageCost     float64 `json:"monthly_storage_cost"`
	AnnualStorageCost      float64 `json:"annual_storage_cost"`
	EstimatedRetrievalCost float64 `json:"estimated_retrieval_cost"`
	TotalFirstYearCost     float64 `json:"total_first_year_cost"`
}

type CalculateResult struct {
	SizeGB             float64            `json:"size_gb"`
	RetrievalFrequency float64            `json:"retrieval_frequency"`
	Estimates          []ProviderEstimate `json:"estimates"`
}

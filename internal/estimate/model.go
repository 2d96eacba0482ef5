package estimate

import (
	"time"

	"coldstore-api/internal/item"
	"coldstore-api/internal/provider"
	"coldstore-api/internal/util"
)

// CostEstimate projects what storing one item with one provider costs. The
// storage costs are derived from the provider's rates; the actual_* fields
// hold observed spend once the item is really stored.
type CostEstimate struct {
	ID                     uint                      `gorm:"primaryKey" json:"id"`
	DataItemID             uint                      `gorm:"not null;index" json:"data_item"`
	DataItem               *item.DataItem            `gorm:"foreignKey:DataItemID" json:"-"`
	ProviderID             uint                      `gorm:"not null;index" json:"provider"`
	Provider               *provider.StorageProvider `gorm:"foreignKey:ProviderID" json:"-"`
	EstimatedSizeGB        float64                   `gorm:"column:estimated_size_gb;not null;default:0" json:"estimated_size_gb"`
	MonthlyStorageCost     float64                   `gorm:"not null;default:0" json:"monthly_storage_cost"`
	AnnualStorageCost      float64                   `gorm:"not null;default:0" json:"annual_storage_cost"`
	EstimatedRetrievalCost float64                   `gorm:"not null;default:0" json:"estimated_retrieval_cost"`
	RetrievalFrequency     float64                   `gorm:"not null;default:0" json:"retrieval_frequency"`
	ActualMonthlyCost      *float64                  `json:"actual_monthly_cost"`
	ActualRetrievalCost    *float64                  `json:"actual_retrieval_cost"`
	BandwidthCost          *float64                  `json:"bandwidth_cost"`
	APIRequestCost         *float64                  `gorm:"column:api_request_cost" json:"api_request_cost"`
	IsActive               bool                      `gorm:"default:true" json:"is_active"`
	Notes                  string                    `gorm:"type:text" json:"notes"`
	CreatedAt              time.Time                 `json:"created_at"`
	UpdatedAt              time.Time                 `json:"updated_at"`
}

func (CostEstimate) TableName() string {
	return "cost_estimates"
}

// CalculateCosts rederives the storage costs from the provider's current
// rates and this estimate's size.
func (ce *CostEstimate) CalculateCosts(p *provider.StorageProvider) {
	monthly := p.CostPerGBMonthly * ce.EstimatedSizeGB
	ce.MonthlyStorageCost = util.Round2(monthly)
	ce.AnnualStorageCost = util.Round2(monthly * 12)
	ce.EstimatedRetrievalCost = util.Round2(p.RetrievalCostPerGB * ce.EstimatedSizeGB * ce.RetrievalFrequency)
}

func (ce *CostEstimate) TotalFirstYearCost() float64 {
	return util.Round2(ce.AnnualStorageCost + ce.EstimatedRetrievalCost)
}

type EstimateInput struct {
	DataItemID          uint     `json:"data_item" binding:"required"`
	ProviderID          uint     `json:"provider" binding:"required"`
	EstimatedSizeGB     *float64 `json:"estimated_size_gb"`
	RetrievalFrequency  float64  `json:"retrieval_frequency"`
	ActualMonthlyCost   *float64 `json:"actual_monthly_cost"`
	ActualRetrievalCost *float64 `json:"actual_retrieval_cost"`
	BandwidthCost       *float64 `json:"bandwidth_cost"`
	APIRequestCost      *float64 `json:"api_request_cost"`
	IsActive            *bool    `json:"is_active"`
	Notes               string   `json:"notes"`
}

type EstimateListInput struct {
	DataItemID *uint   `form:"data_item"`
	ProviderID *uint   `form:"provider"`
	IsActive   *bool   `form:"is_active"`
	Search     *string `form:"q"`
	OrderBy    string  `form:"order_by"`
}

// CostComparison puts the projected monthly cost next to the observed one
// once an actual figure has been recorded.
type CostComparison struct {
	EstimatedMonthly  float64 `json:"estimated_monthly"`
	ActualMonthly     float64 `json:"actual_monthly"`
	Difference        float64 `json:"difference"`
	PercentDifference float64 `json:"percent_difference"`
}

// EstimateView joins the names the list endpoints need.
type EstimateView struct {
	CostEstimate
	DataItemName   string          `json:"data_item_name"`
	ProviderName   string          `json:"provider_name"`
	TotalFirstYear float64         `json:"total_first_year_cost"`
	CostComparison *CostComparison `json:"cost_comparison,omitempty"`
}

type SummaryTotals struct {
	TotalEstimates       int64   `json:"total_estimates"`
	TotalMonthlyCost     float64 `json:"total_monthly_cost"`
	TotalAnnualCost      float64 `json:"total_annual_cost"`
	AverageMonthlyCost   float64 `json:"average_monthly_cost"`
	TotalEstimatedSizeGB float64 `json:"total_estimated_size_gb"`
}

type ProviderSummary struct {
	ProviderName  string  `json:"provider_name"`
	ProviderType  string  `json:"provider_type"`
	EstimateCount int64   `json:"estimate_count"`
	TotalMonthly  float64 `json:"total_monthly"`
	TotalAnnual   float64 `json:"total_annual"`
	TotalSizeGB   float64 `json:"total_size_gb"`
}

type Summary struct {
	Totals     SummaryTotals     `json:"summary"`
	ByProvider []ProviderSummary `json:"by_provider"`
}

type CheapestProvider struct {
	ID                 uint    `json:"id"`
	Name               string  `json:"name"`
	TotalFirstYearCost float64 `json:"total_first_year_cost"`
}

type ItemRef struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type Comparison struct {
	DataItem  ItemRef          `json:"data_item"`
	Estimates []EstimateView   `json:"estimates"`
	Cheapest  CheapestProvider `json:"cheapest_provider"`
}

type BulkRecalculateResult struct {
	Message      string `json:"message"`
	UpdatedCount int    `json:"updated_count"`
}

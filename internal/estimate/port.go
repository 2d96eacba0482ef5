package estimate

type EstimateServicePort interface {
	GetAll(input EstimateListInput) ([]EstimateView, error)
	GetByID(id uint) (*EstimateView, error)
	Create(input EstimateInput) (*CostEstimate, error)
	Update(id uint, input EstimateInput) (*CostEstimate, error)
	Delete(id uint) error

	Recalculate(id uint) (*EstimateView, error)
	BulkRecalculate() (*BulkRecalculateResult, error)
	GetSummary() (*Summary, error)
	GetComparison(dataItemID uint) (*Comparison, error)
}

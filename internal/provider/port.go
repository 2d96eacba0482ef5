package provider

type ProviderServicePort interface {
	GetAll(input ProviderListInput) ([]StorageProvider, error)
	GetByID(id uint) (*StorageProvider, error)
	Create(input ProviderInput) (*StorageProvider, error)
	Update(id uint, input ProviderInput) (*StorageProvider, error)
	Delete(id uint) error

	GetEstimates(id uint) ([]EstimateRecord, error)
	Compare() ([]ComparisonRow, error)
	CalculateEstimate(input CalculateInput) (*CalculateResult, error)
}

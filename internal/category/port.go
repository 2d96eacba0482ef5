package category

type CategoryServicePort interface {
	GetAll(input CategoryListInput) ([]CategoryView, error)
	GetByID(id uint) (*CategoryView, error)
	Create(input CategoryInput) (*Category, error)
	Update(id uint, input CategoryInput) (*Category, error)
	Delete(id uint) error

	FullPath(id uint) (string, error)
	Descendants(id uint) ([]Category, error)

	GetItems(id uint) ([]CategoryItem, error)
	GetStatistics(id uint) (*CategoryStatistics, error)

	ExportJSON() ([]byte, error)
	ExportCSV() ([]byte, error)
}

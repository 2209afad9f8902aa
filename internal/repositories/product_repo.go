package repositories

import "storefront/internal/models"

// ProductFilter narrows product listings. Zero values match everything.
type ProductFilter struct {
	CategoryID int
}

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	GetAll(filter ProductFilter) ([]models.Product, error)
	GetByID(id int) (*models.Product, error)
	Create(product *models.Product) error
	Update(id int, patch map[string]any) (*models.Product, error)
}

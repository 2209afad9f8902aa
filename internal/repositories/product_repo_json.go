package repositories

import (
	"fmt"

	"storefront/internal/models"
	"storefront/internal/store"
)

// JSONProductRepository keeps products, with their images nested, in the JSON store.
type JSONProductRepository struct {
	store *store.Store
}

// NewJSONProductRepository creates a new instance of JSONProductRepository.
func NewJSONProductRepository(s *store.Store) *JSONProductRepository {
	return &JSONProductRepository{store: s}
}

// GetAll returns the products matching filter in stored order.
func (r *JSONProductRepository) GetAll(filter ProductFilter) ([]models.Product, error) {
	var products []models.Product
	err := r.store.View(func(tx *store.Tx) error {
		var err error
		products, err = store.Filter(tx, productsCollection, func(p models.Product) bool {
			return filter.CategoryID == 0 || p.CategoryID == filter.CategoryID
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get all products: %w", err)
	}
	return products, nil
}

// GetByID returns a product by its ID.
func (r *JSONProductRepository) GetByID(id int) (*models.Product, error) {
	var product models.Product
	err := r.store.View(func(tx *store.Tx) error {
		var err error
		product, err = store.Get[models.Product](tx, productsCollection, id)
		return err
	})
	if err != nil {
		return nil, notFoundOr(err, "product with ID %d not found", id)
	}
	return &product, nil
}

// Create adds a new product. Image ids are numbered per product.
func (r *JSONProductRepository) Create(product *models.Product) error {
	return r.store.Update(func(tx *store.Tx) error {
		id, err := tx.NextID(productsCollection)
		if err != nil {
			return err
		}
		for i := range product.Images {
			product.Images[i].ID = i + 1
			product.Images[i].ProductID = id
		}
		created, err := store.Insert(tx, productsCollection, *product)
		if err != nil {
			return fmt.Errorf("failed to create product: %w", err)
		}
		*product = created
		return nil
	})
}

// Update merges patch into an existing product.
func (r *JSONProductRepository) Update(id int, patch map[string]any) (*models.Product, error) {
	var product models.Product
	err := r.store.Update(func(tx *store.Tx) error {
		var err error
		product, err = store.Patch[models.Product](tx, productsCollection, id, patch)
		return err
	})
	if err != nil {
		return nil, notFoundOr(err, "product with ID %d not found for update", id)
	}
	return &product, nil
}

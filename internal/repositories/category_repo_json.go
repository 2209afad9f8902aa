package repositories

import (
	"fmt"

	"storefront/internal/models"
	"storefront/internal/store"
)

// JSONCategoryRepository keeps categories in the JSON store.
type JSONCategoryRepository struct {
	store *store.Store
}

func NewJSONCategoryRepository(s *store.Store) *JSONCategoryRepository {
	return &JSONCategoryRepository{store: s}
}

func (r *JSONCategoryRepository) GetAll() ([]models.Category, error) {
	var categories []models.Category
	err := r.store.View(func(tx *store.Tx) error {
		var err error
		categories, err = store.All[models.Category](tx, categoriesCollection)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get all categories: %w", err)
	}
	return categories, nil
}

func (r *JSONCategoryRepository) GetByID(id int) (*models.Category, error) {
	var category models.Category
	err := r.store.View(func(tx *store.Tx) error {
		var err error
		category, err = store.Get[models.Category](tx, categoriesCollection, id)
		return err
	})
	if err != nil {
		return nil, notFoundOr(err, "category with ID %d not found", id)
	}
	return &category, nil
}

func (r *JSONCategoryRepository) Create(category *models.Category) error {
	return r.store.Update(func(tx *store.Tx) error {
		created, err := store.Insert(tx, categoriesCollection, *category)
		if err != nil {
			return fmt.Errorf("failed to create category: %w", err)
		}
		*category = created
		return nil
	})
}

package services

import (
	"strings"

	"storefront/internal/models"
	"storefront/internal/repositories"
)

// CategoryService handles the product categories.
type CategoryService struct {
	repo repositories.CategoryRepository
}

func NewCategoryService(repo repositories.CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo}
}

func (s *CategoryService) ListCategories() ([]models.Category, error) {
	return s.repo.GetAll()
}

func (s *CategoryService) GetCategory(id int) (*models.Category, error) {
	category, err := s.repo.GetByID(id)
	if err != nil {
		return nil, fromRepo(err, "Category")
	}
	return category, nil
}

// CreateCategory stores a category. The parent reference is not checked.
func (s *CategoryService) CreateCategory(category *models.Category) error {
	category.Name = strings.TrimSpace(category.Name)
	if category.Name == "" {
		return ValidationError("Invalid category data", map[string]string{"name": "Name is required"})
	}
	return s.repo.Create(category)
}

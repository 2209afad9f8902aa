package services

import (
	"strings"

	"storefront/internal/models"
	"storefront/internal/repositories"
)

// UpdateProductInput lists the product fields that can change; nil fields stay
// as they are. UntrackStock switches the product to unlimited stock.
type UpdateProductInput struct {
	Name          *string
	Description   *string
	Price         *int64
	ComparePrice  *int64
	StockQuantity *int
	UntrackStock  bool
	SKU           *string
	CategoryID    *int
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo repositories.ProductRepository
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository) *ProductService {
	return &ProductService{
		repo: repo,
	}
}

// GetAllProducts retrieves the products of a category, or all of them when categoryID is 0.
func (s *ProductService) GetAllProducts(categoryID int) ([]models.Product, error) {
	return s.repo.GetAll(repositories.ProductFilter{CategoryID: categoryID})
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(id int) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, fromRepo(err, "Product")
	}
	return product, nil
}

// CreateProduct validates a product, settles its primary image and stores it.
func (s *ProductService) CreateProduct(product *models.Product) error {
	product.Name = strings.TrimSpace(product.Name)
	fields := map[string]string{}
	if product.Name == "" {
		fields["name"] = "Name is required"
	}
	if product.Price < 0 {
		fields["price"] = "Price must not be negative"
	}
	if product.StockQuantity != nil && *product.StockQuantity < 0 {
		fields["stock_quantity"] = "Stock must not be negative"
	}
	if len(fields) > 0 {
		return ValidationError("Invalid product data", fields)
	}
	product.NormalizeImages()
	return s.repo.Create(product)
}

// UpdateProduct applies the non-nil fields of in. Existing cart lines keep
// the price they were added with.
func (s *ProductService) UpdateProduct(id int, in UpdateProductInput) (*models.Product, error) {
	patch := map[string]any{}
	fields := map[string]string{}

	if in.Name != nil {
		if name := strings.TrimSpace(*in.Name); name == "" {
			fields["name"] = "Name is required"
		} else {
			patch["name"] = name
		}
	}
	if in.Description != nil {
		patch["description"] = *in.Description
	}
	if in.Price != nil {
		if *in.Price < 0 {
			fields["price"] = "Price must not be negative"
		}
		patch["price"] = *in.Price
	}
	if in.ComparePrice != nil {
		patch["compare_price"] = *in.ComparePrice
	}
	switch {
	case in.UntrackStock:
		patch["stock_quantity"] = nil
	case in.StockQuantity != nil:
		if *in.StockQuantity < 0 {
			fields["stock_quantity"] = "Stock must not be negative"
		}
		patch["stock_quantity"] = *in.StockQuantity
	}
	if in.SKU != nil {
		patch["sku"] = *in.SKU
	}
	if in.CategoryID != nil {
		patch["category_id"] = *in.CategoryID
	}
	if len(fields) > 0 {
		return nil, ValidationError("Invalid product data", fields)
	}
	if len(patch) == 0 {
		return s.GetProductByID(id)
	}

	product, err := s.repo.Update(id, patch)
	if err != nil {
		return nil, fromRepo(err, "Product")
	}
	return product, nil
}

package services

import (
	"errors"
	"fmt"

	"storefront/internal/models"
	"storefront/internal/repositories"
)

// AddItemInput describes a new cart line. CartID and UnitPrice are optional:
// when set they must match the caller's cart and the current product price.
type AddItemInput struct {
	CartID    *int
	ProductID int
	Quantity  int
	UnitPrice *int64
}

// CartService manages the single cart of each user.
type CartService struct {
	carts    repositories.CartRepository
	products repositories.ProductRepository
}

func NewCartService(carts repositories.CartRepository, products repositories.ProductRepository) *CartService {
	return &CartService{carts: carts, products: products}
}

// GetCart returns the user's cart, creating it on first use, with the current
// product of every line attached.
func (s *CartService) GetCart(userID int) (*models.ShoppingCart, error) {
	cart, err := s.carts.GetOrCreate(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	for i := range cart.Items {
		s.attachProduct(&cart.Items[i])
	}
	return cart, nil
}

// AddItem appends a line to the user's cart with the product's current price.
// Adding a product that is already in the cart creates a second line.
func (s *CartService) AddItem(userID int, in AddItemInput) (*models.CartItem, error) {
	if in.Quantity <= 0 {
		return nil, ValidationError("Invalid cart item", map[string]string{"quantity": "Quantity must be greater than zero"})
	}
	if in.ProductID <= 0 {
		return nil, ValidationError("Invalid cart item", map[string]string{"product_id": "Product is required"})
	}

	product, err := s.products.GetByID(in.ProductID)
	if err != nil {
		return nil, fromRepo(err, "Product")
	}
	if !product.HasStock(in.Quantity) {
		return nil, newError(ErrConflict, "%s is out of stock", product.Name)
	}
	if in.UnitPrice != nil && *in.UnitPrice != product.Price {
		return nil, newError(ErrConflict, "The price of %s has changed", product.Name)
	}

	cart, err := s.carts.GetOrCreate(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if in.CartID != nil && *in.CartID != cart.ID {
		return nil, newError(ErrNotFound, "Cart not found")
	}

	item := &models.CartItem{
		CartID:    cart.ID,
		ProductID: product.ID,
		Quantity:  in.Quantity,
		UnitPrice: product.Price,
	}
	if err := s.carts.AddItem(item); err != nil {
		return nil, fromRepo(err, "Cart")
	}
	item.Product = product
	return item, nil
}

// UpdateItemQuantity changes the quantity of a line in the user's cart.
func (s *CartService) UpdateItemQuantity(userID, itemID, quantity int) (*models.CartItem, error) {
	if quantity <= 0 {
		return nil, ValidationError("Invalid cart item", map[string]string{"quantity": "Quantity must be greater than zero"})
	}
	item, err := s.ownedItem(userID, itemID)
	if err != nil {
		return nil, err
	}
	if product, err := s.products.GetByID(item.ProductID); err == nil && !product.HasStock(quantity) {
		return nil, newError(ErrConflict, "%s is out of stock", product.Name)
	}

	updated, err := s.carts.UpdateItemQuantity(itemID, quantity)
	if err != nil {
		return nil, fromRepo(err, "Cart item")
	}
	s.attachProduct(updated)
	return updated, nil
}

// RemoveItem deletes a line from the user's cart.
func (s *CartService) RemoveItem(userID, itemID int) error {
	if _, err := s.ownedItem(userID, itemID); err != nil {
		return err
	}
	return fromRepo(s.carts.DeleteItem(itemID), "Cart item")
}

// ClearCart removes every line of the user's cart and returns the empty cart.
func (s *CartService) ClearCart(userID int) (*models.ShoppingCart, error) {
	cart, err := s.carts.GetOrCreate(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if _, err := s.carts.ClearItems(cart.ID); err != nil {
		return nil, err
	}
	cart.Items = []models.CartItem{}
	return cart, nil
}

// ownedItem returns the item when it belongs to the user's cart. Items of
// other carts are reported as missing.
func (s *CartService) ownedItem(userID, itemID int) (*models.CartItem, error) {
	item, err := s.carts.GetItem(itemID)
	if err != nil {
		return nil, fromRepo(err, "Cart item")
	}
	cart, err := s.carts.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, newError(ErrNotFound, "Cart item not found")
		}
		return nil, err
	}
	if item.CartID != cart.ID {
		return nil, newError(ErrNotFound, "Cart item not found")
	}
	return item, nil
}

func (s *CartService) attachProduct(item *models.CartItem) {
	product, err := s.products.GetByID(item.ProductID)
	if err != nil {
		return
	}
	item.Product = product
}

package repositories

import "storefront/internal/models"

// CartRepository defines the interface for shopping cart data access. Carts
// are returned with their items in insertion order.
type CartRepository interface {
	GetByUserID(userID int) (*models.ShoppingCart, error)
	// GetOrCreate returns the user's cart, creating an empty one on first use.
	GetOrCreate(userID int) (*models.ShoppingCart, error)
	GetItem(itemID int) (*models.CartItem, error)
	AddItem(item *models.CartItem) error
	UpdateItemQuantity(itemID, quantity int) (*models.CartItem, error)
	DeleteItem(itemID int) error
	ClearItems(cartID int) (int, error)
}

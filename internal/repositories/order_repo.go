package repositories

import (
	"storefront/internal/models"
)

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	GetByUserID(userID int) ([]models.Order, error)
	GetByID(id int) (*models.Order, error)
	// PlaceFromCart stores order and its items, takes the ordered quantities
	// from tracked product stock and removes lines from the cart, all or
	// nothing. lines are the cart lines the order was built from; when any of
	// them is gone or no longer matches, ErrCartChanged is returned. Lines
	// added to the cart afterwards stay in the cart.
	PlaceFromCart(order *models.Order, lines []models.CartItem) error
	UpdateStatus(id int, status models.OrderStatus) (*models.Order, error)
}

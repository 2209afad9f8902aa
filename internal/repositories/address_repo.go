package repositories

import "storefront/internal/models"

// AddressRepository defines the interface for address data access.
type AddressRepository interface {
	GetByUserID(userID int) ([]models.Address, error)
	GetByID(id int) (*models.Address, error)
	// Create stores the address. A default address clears the flag on the
	// user's other addresses, and a user's first address is always default.
	Create(address *models.Address) error
}

package repositories

import "storefront/internal/models"

// UserRepository defines the interface for user data access.
type UserRepository interface {
	GetAll() ([]models.User, error)
	GetByID(id int) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	// Create stores the user and sets its ID. It fails with ErrDuplicate when
	// the email is already registered.
	Create(user *models.User) error
	Update(id int, patch map[string]any) (*models.User, error)
	Delete(id int) error
}

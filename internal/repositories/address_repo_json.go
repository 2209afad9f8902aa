package repositories

import (
	"fmt"

	"storefront/internal/models"
	"storefront/internal/store"
)

// JSONAddressRepository keeps addresses in the JSON store.
type JSONAddressRepository struct {
	store *store.Store
}

func NewJSONAddressRepository(s *store.Store) *JSONAddressRepository {
	return &JSONAddressRepository{store: s}
}

func (r *JSONAddressRepository) GetByUserID(userID int) ([]models.Address, error) {
	var addresses []models.Address
	err := r.store.View(func(tx *store.Tx) error {
		var err error
		addresses, err = store.Filter(tx, addressesCollection, func(a models.Address) bool { return a.UserID == userID })
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get addresses of user %d: %w", userID, err)
	}
	return addresses, nil
}

func (r *JSONAddressRepository) GetByID(id int) (*models.Address, error) {
	var address models.Address
	err := r.store.View(func(tx *store.Tx) error {
		var err error
		address, err = store.Get[models.Address](tx, addressesCollection, id)
		return err
	})
	if err != nil {
		return nil, notFoundOr(err, "address with ID %d not found", id)
	}
	return &address, nil
}

func (r *JSONAddressRepository) Create(address *models.Address) error {
	return r.store.Update(func(tx *store.Tx) error {
		existing, err := store.Filter(tx, addressesCollection, func(a models.Address) bool { return a.UserID == address.UserID })
		if err != nil {
			return err
		}
		if len(existing) == 0 {
			address.IsDefault = true
		}
		if address.IsDefault {
			for _, a := range existing {
				if !a.IsDefault {
					continue
				}
				if _, err := store.Patch[models.Address](tx, addressesCollection, a.ID, map[string]any{"is_default": false}); err != nil {
					return err
				}
			}
		}
		created, err := store.Insert(tx, addressesCollection, *address)
		if err != nil {
			return fmt.Errorf("failed to create address: %w", err)
		}
		*address = created
		return nil
	})
}

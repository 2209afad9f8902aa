package repositories

import (
	"storefront/internal/store"

	"gorm.io/gorm"
)

// Set bundles one implementation of every repository.
type Set struct {
	Users      UserRepository
	Categories CategoryRepository
	Products   ProductRepository
	Carts      CartRepository
	Addresses  AddressRepository
	Orders     OrderRepository
}

// NewJSONSet backs every repository with the same JSON document store.
func NewJSONSet(s *store.Store) Set {
	return Set{
		Users:      NewJSONUserRepository(s),
		Categories: NewJSONCategoryRepository(s),
		Products:   NewJSONProductRepository(s),
		Carts:      NewJSONCartRepository(s),
		Addresses:  NewJSONAddressRepository(s),
		Orders:     NewJSONOrderRepository(s),
	}
}

// NewGORMSet backs every repository with db.
func NewGORMSet(db *gorm.DB) Set {
	return Set{
		Users:      NewGORMUserRepository(db),
		Categories: NewGORMCategoryRepository(db),
		Products:   NewGORMProductRepository(db),
		Carts:      NewGORMCartRepository(db),
		Addresses:  NewGORMAddressRepository(db),
		Orders:     NewGORMOrderRepository(db),
	}
}
